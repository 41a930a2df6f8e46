package engine

import (
	"github.com/lucasmdrs/warbound/internal/battle"
	"github.com/lucasmdrs/warbound/internal/geometry"
)

// scriptedSource feeds dice faces (1-based) to a Roller in order.
type scriptedSource struct {
	faces []int
	pos   int
}

func (s *scriptedSource) Intn(n int) int {
	if s.pos >= len(s.faces) {
		return 0
	}
	f := s.faces[s.pos]
	s.pos++
	return f - 1
}

func testUnit(id, owner string, pos geometry.Point) battle.Unit {
	return battle.NewUnit(id, owner, "Unit "+id, battle.CategoryTroop,
		battle.Attributes{Combat: 3, Acuity: 3, Focus: 1, Armor: 2, Vitality: 5},
		pos, []string{"strike"})
}

func testBattle() *battle.Battle {
	u1 := testUnit("u1", "p1", geometry.Point{X: 1, Y: 1})
	u2 := testUnit("u2", "p2", geometry.Point{X: 5, Y: 1})
	return &battle.Battle{
		ID:     "b1",
		Bounds: geometry.Bounds{Width: 8, Height: 8},
		Kingdoms: []battle.Kingdom{
			{PlayerID: "p1", Name: "North"},
			{PlayerID: "p2", Name: "South"},
		},
		Units:           []battle.Unit{u1, u2},
		ActionOrder:     []string{"u1", "u2"},
		Round:           1,
		CurrentPlayerID: "p1",
		Status:          battle.StatusActive,
		Phase:           battle.PhaseAwaitingActivation,
	}
}

// activate begins the action for a unit, panicking on setup failure so
// individual tests stay focused on their own assertions.
func activate(b *battle.Battle, unitID string) *battle.Unit {
	u, err := BeginAction(b, unitID)
	if err != nil {
		panic("test setup: " + err.Error())
	}
	return u
}
