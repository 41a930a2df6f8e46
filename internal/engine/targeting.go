package engine

import (
	"github.com/lucasmdrs/warbound/internal/battle"
	"github.com/lucasmdrs/warbound/internal/geometry"
)

// TargetingConfig is an ability's range descriptor resolved against the
// caster's current attributes. Dynamic distances are evaluated fresh here
// and never cached on the definition.
type TargetingConfig struct {
	RangeClass   battle.RangeClass `json:"range_class"`
	Distance     int               `json:"distance"`
	TargetType   battle.TargetType `json:"target_type"`
	AreaSize     int               `json:"area_size"`
	CenterOnSelf bool              `json:"center_on_self"`
}

// ResolveTargeting builds the config for a caster.
func ResolveTargeting(def *battle.AbilityDefinition, attrs battle.Attributes) TargetingConfig {
	return TargetingConfig{
		RangeClass:   def.RangeClass,
		Distance:     def.ResolveRange(attrs),
		TargetType:   def.TargetType,
		AreaSize:     def.AreaSize,
		CenterOnSelf: def.CenterOnSelf,
	}
}

// TargetingPreview lists the cells a caster may select and, for a hovered
// cell, the affected footprint and its validity.
type TargetingPreview struct {
	SelectableCells []geometry.Point `json:"selectable_cells"`
	AffectedCells   []geometry.Point `json:"affected_cells"`
	IsValidTarget   bool             `json:"is_valid_target"`
}

// lineObstructed reports whether an undestroyed obstacle sits strictly
// between the two cells.
func lineObstructed(b *battle.Battle, from, to geometry.Point) bool {
	path := geometry.Line(from, to)
	for i := 1; i < len(path)-1; i++ {
		if b.ObstacleAt(path[i]) != nil {
			return true
		}
	}
	return false
}

func cellMatchesTargetType(b *battle.Battle, caster *battle.Unit, tt battle.TargetType, p geometry.Point) bool {
	switch tt {
	case battle.TargetSelf:
		return p == caster.Position
	case battle.TargetEnemy:
		u := b.UnitAt(p)
		return u != nil && u.OwnerID != caster.OwnerID
	case battle.TargetAlly:
		u := b.UnitAt(p)
		return u != nil && u.OwnerID == caster.OwnerID
	case battle.TargetUnit, battle.TargetAll:
		// dead units still occupy their death position for targeting
		if b.UnitAt(p) != nil {
			return true
		}
		for i := range b.Units {
			if !b.Units[i].IsAlive && b.Units[i].Position == p {
				return true
			}
		}
		return false
	case battle.TargetGround:
		return b.ObstacleAt(p) == nil && b.UnitAt(p) == nil
	case battle.TargetPosition:
		return true
	default:
		return false
	}
}

// CalculateTargetingPreview is a pure query: it never mutates state, so
// the same algorithm serves client prediction and server validation. The
// server's evaluation is authoritative.
func CalculateTargetingPreview(b *battle.Battle, cfg TargetingConfig, caster *battle.Unit, hover *geometry.Point) TargetingPreview {
	preview := TargetingPreview{}
	origin := caster.Position

	if cfg.RangeClass == battle.RangeSelf || cfg.CenterOnSelf {
		preview.SelectableCells = []geometry.Point{origin}
	} else {
		for _, p := range geometry.CellsWithin(b.Bounds, origin, cfg.Distance) {
			if p == origin && cfg.TargetType != battle.TargetSelf {
				continue
			}
			if lineObstructed(b, origin, p) {
				continue
			}
			if !cellMatchesTargetType(b, caster, cfg.TargetType, p) {
				continue
			}
			preview.SelectableCells = append(preview.SelectableCells, p)
		}
	}

	if hover == nil && !cfg.CenterOnSelf && cfg.RangeClass != battle.RangeSelf {
		return preview
	}

	center := origin
	if !cfg.CenterOnSelf && cfg.RangeClass != battle.RangeSelf && hover != nil {
		center = *hover
	}
	for _, sel := range preview.SelectableCells {
		if sel == center {
			preview.IsValidTarget = true
			break
		}
	}
	if !preview.IsValidTarget {
		return preview
	}
	if cfg.AreaSize > 0 {
		preview.AffectedCells = geometry.CellsWithin(b.Bounds, center, cfg.AreaSize)
	} else {
		preview.AffectedCells = []geometry.Point{center}
	}
	return preview
}
