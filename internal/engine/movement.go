package engine

import (
	"github.com/lucasmdrs/warbound/internal/battle"
	"github.com/lucasmdrs/warbound/internal/geometry"
)

// DefaultEngagementCost is the extra movement spent for each step that
// leaves a cell adjacent to a living enemy.
const DefaultEngagementCost = 1

// MoveCost is the result of validating a move from the unit's position to
// a target cell.
type MoveCost struct {
	BaseCost       int  `json:"base_cost"`
	EngagementCost int  `json:"engagement_cost"`
	TotalCost      int  `json:"total_cost"`
	IsBlocked      bool `json:"is_blocked"`
}

func adjacentToLivingEnemy(b *battle.Battle, ownerID string, p geometry.Point) bool {
	for i := range b.Units {
		u := &b.Units[i]
		if u.IsAlive && u.OwnerID != ownerID && geometry.Adjacent(u.Position, p) {
			return true
		}
	}
	return false
}

// ComputeMove walks the direct line from the unit to the target cell. Base
// cost is 1 per cell with no diagonal discount. Any occupied or
// out-of-bounds cell on the path blocks the whole move; leaving a cell
// adjacent to a living enemy adds the engagement cost without blocking.
// It never mutates state.
func ComputeMove(b *battle.Battle, u *battle.Unit, to geometry.Point, engagementCost int) MoveCost {
	cost := MoveCost{}
	if to == u.Position {
		return cost
	}
	if u.HasCondition(battle.ConditionGrappled) {
		cost.IsBlocked = true
		return cost
	}
	path := geometry.Line(u.Position, to)
	for i := 1; i < len(path); i++ {
		if b.CellBlocked(path[i]) {
			cost.IsBlocked = true
		}
		cost.BaseCost++
		if adjacentToLivingEnemy(b, u.OwnerID, path[i-1]) {
			cost.EngagementCost += engagementCost
		}
	}
	cost.TotalCost = cost.BaseCost + cost.EngagementCost
	return cost
}

// ApplyMove validates and commits a move atomically: either the position
// and movesLeft both change or neither does.
func ApplyMove(b *battle.Battle, unitID string, to geometry.Point, engagementCost int) (MoveCost, error) {
	u := b.UnitByID(unitID)
	if u == nil {
		return MoveCost{}, ErrUnitNotFound
	}
	if !u.IsAlive {
		return MoveCost{}, ErrUnitDead
	}
	if b.ActiveUnitID != unitID {
		return MoveCost{}, ErrUnitNotActive
	}
	if u.HasCondition(battle.ConditionGrappled) {
		return MoveCost{IsBlocked: true}, ErrUnitGrappled
	}
	cost := ComputeMove(b, u, to, engagementCost)
	if cost.IsBlocked {
		return cost, ErrMoveBlocked
	}
	if cost.TotalCost > u.MovesLeft {
		return cost, ErrInsufficientMoves
	}
	if cost.TotalCost == 0 {
		return cost, nil
	}
	u.MovesLeft -= cost.TotalCost
	u.Position = to
	return cost, nil
}
