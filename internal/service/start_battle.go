package service

import (
	"errors"
	"sort"

	"github.com/lucasmdrs/warbound/internal/battle"
	"github.com/lucasmdrs/warbound/internal/geometry"
)

var ErrKingdomsNotReady = errors.New("both kingdoms must be seated before starting")

// StartBattle places both rosters on the board, fixes the action order and
// activates the battle. The host deploys on the west edge, the guest on
// the east edge.
func StartBattle(b *battle.Battle) error {
	if len(b.Kingdoms) != 2 {
		return ErrKingdomsNotReady
	}

	hostID := b.Kingdoms[0].PlayerID
	hostCol, guestCol := 0, b.Bounds.Width-1
	hostRow, guestRow := 0, 0
	for i := range b.Units {
		u := &b.Units[i]
		if u.OwnerID == hostID {
			u.Position = deploySlot(b, hostCol, &hostRow)
		} else {
			u.Position = deploySlot(b, guestCol, &guestRow)
		}
	}

	b.ActionOrder = actionOrder(b.Units)
	b.OrderIndex = 0
	b.Round = 1
	first := b.UnitByID(b.ActionOrder[0])
	b.CurrentPlayerID = first.OwnerID
	b.ActiveUnitID = ""
	b.Phase = battle.PhaseAwaitingActivation
	b.Status = battle.StatusActive
	return nil
}

// deploySlot finds the next free cell in the column, walking down and
// spilling into the adjacent column if the edge fills up.
func deploySlot(b *battle.Battle, col int, row *int) geometry.Point {
	for {
		p := geometry.Point{X: col, Y: *row}
		*row++
		if *row >= b.Bounds.Height {
			*row = 0
			if col < b.Bounds.Width/2 {
				col++
			} else {
				col--
			}
		}
		if b.Bounds.Contains(p) && b.UnitAt(p) == nil && b.ObstacleAt(p) == nil {
			return p
		}
	}
}

// actionOrder sorts unit ids by acuity, highest first. Ties break on unit
// id so the order is stable across restores.
func actionOrder(units []battle.Unit) []string {
	idx := make([]int, len(units))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, c int) bool {
		ua, uc := &units[idx[a]], &units[idx[c]]
		if ua.Attributes.Acuity != uc.Attributes.Acuity {
			return ua.Attributes.Acuity > uc.Attributes.Acuity
		}
		return ua.ID < uc.ID
	})
	order := make([]string, len(units))
	for i, j := range idx {
		order[i] = units[j].ID
	}
	return order
}

// RecoverProtections refills both pools of every living unit after the
// battle ends; broken pools stay empty.
func RecoverProtections(b *battle.Battle) []string {
	var recovered []string
	for i := range b.Units {
		u := &b.Units[i]
		if !u.IsAlive {
			continue
		}
		u.PhysicalProtection.Recover()
		u.MagicalProtection.Recover()
		recovered = append(recovered, u.ID)
	}
	return recovered
}
