package battle

import (
	"github.com/lucasmdrs/warbound/internal/geometry"
)

type BattleStatus string

const (
	StatusWaitingForPlayers BattleStatus = "waiting_for_players"
	StatusActive            BattleStatus = "active"
	StatusEnded             BattleStatus = "ended"
)

// TurnPhase is the turn controller's state for the current entry of the
// action order.
type TurnPhase string

const (
	PhaseAwaitingActivation TurnPhase = "awaiting_activation"
	PhaseUnitActive         TurnPhase = "unit_active"
	PhaseTurnEnding         TurnPhase = "turn_ending"
)

type UnitCategory string

const (
	CategoryTroop  UnitCategory = "troop"
	CategoryHero   UnitCategory = "hero"
	CategoryRegent UnitCategory = "regent"
)

// MarkCap returns the action-mark threshold for the category. Crossing it
// inflicts the mark penalty and grants one bonus action.
func (c UnitCategory) MarkCap() int {
	switch c {
	case CategoryHero:
		return 3
	case CategoryRegent:
		return 4
	default:
		return 2
	}
}

type DamageType string

const (
	DamagePhysical DamageType = "physical"
	DamageMagical  DamageType = "magical"
	DamageTrue     DamageType = "true"
)

const (
	// HP is vitality times this factor.
	VitalityHPFactor = 2
	// Protection pools are armor/focus times this factor.
	ProtectionFactor = 2
	// MarkPenaltyHP is the fixed hp cost of crossing the mark threshold.
	MarkPenaltyHP = 2
	// BaseActionsPerTurn is granted by beginAction.
	BaseActionsPerTurn = 1
)

// Attributes are a unit's core combat stats.
type Attributes struct {
	Combat   int `json:"combat"`
	Acuity   int `json:"acuity"`
	Focus    int `json:"focus"`
	Armor    int `json:"armor"`
	Vitality int `json:"vitality"`
}

// Protection is a damage-absorbing pool. Once emptied it is broken and
// does not regenerate for the remainder of the battle.
type Protection struct {
	Current int  `json:"current"`
	Max     int  `json:"max"`
	Broken  bool `json:"broken"`
}

// Absorb routes amount into the pool and returns the overflow that must be
// applied to hp. Emptying the pool marks it broken.
func (p *Protection) Absorb(amount int) int {
	if amount <= 0 || p.Broken || p.Current <= 0 {
		return amount
	}
	if amount < p.Current {
		p.Current -= amount
		return 0
	}
	rest := amount - p.Current
	p.Current = 0
	p.Broken = true
	return rest
}

// Recover refills a non-broken pool to its maximum (between encounters
// only; the engine never calls this mid-battle).
func (p *Protection) Recover() {
	if p.Broken {
		return
	}
	p.Current = p.Max
}

type Unit struct {
	ID       string       `json:"id"`
	OwnerID  string       `json:"owner_id"`
	Name     string       `json:"name"`
	Category UnitCategory `json:"category"`

	Position   geometry.Point `json:"position"`
	Attributes Attributes     `json:"attributes"`

	MaxHP              int        `json:"max_hp"`
	HP                 int        `json:"hp"`
	PhysicalProtection Protection `json:"physical_protection"`
	MagicalProtection  Protection `json:"magical_protection"`
	// DamageReduction subtracts from final damage after protection,
	// floored at zero.
	DamageReduction int `json:"damage_reduction"`

	MovesLeft           int  `json:"moves_left"`
	ActionsLeft         int  `json:"actions_left"`
	AttacksLeftThisTurn int  `json:"attacks_left_this_turn"`
	HasStartedAction    bool `json:"has_started_action"`
	ActionMarks         int  `json:"action_marks"`
	// BonusActionsPending is granted by the mark threshold and folded into
	// the next activation's action grant.
	BonusActionsPending int  `json:"bonus_actions_pending"`
	IsAlive             bool `json:"is_alive"`

	Conditions []Condition `json:"conditions"`
	// Cooldowns maps ability code to the round at which it becomes usable
	// again.
	Cooldowns map[string]int `json:"cooldowns"`
	// Abilities holds the granted ability codes (innate skills and
	// equipped spells).
	Abilities []string `json:"abilities"`
}

// NewUnit derives maxima from attributes and fills the starting pools.
func NewUnit(id, ownerID, name string, category UnitCategory, attrs Attributes, pos geometry.Point, abilities []string) Unit {
	hp := attrs.Vitality * VitalityHPFactor
	phys := attrs.Armor * ProtectionFactor
	mag := attrs.Focus * ProtectionFactor
	return Unit{
		ID:                 id,
		OwnerID:            ownerID,
		Name:               name,
		Category:           category,
		Position:           pos,
		Attributes:         attrs,
		MaxHP:              hp,
		HP:                 hp,
		PhysicalProtection: Protection{Current: phys, Max: phys},
		MagicalProtection:  Protection{Current: mag, Max: mag},
		IsAlive:            true,
		Cooldowns:          make(map[string]int),
		Abilities:          abilities,
	}
}

// BaseMoves is the movement-point grant at activation, before condition
// modifiers.
func (u *Unit) BaseMoves() int {
	return u.Attributes.Acuity
}

// HasAbility reports whether the unit was granted the ability code.
func (u *Unit) HasAbility(code string) bool {
	for _, c := range u.Abilities {
		if c == code {
			return true
		}
	}
	return false
}

// HasCondition reports whether a condition of the given kind is active.
func (u *Unit) HasCondition(kind ConditionKind) bool {
	for i := range u.Conditions {
		if u.Conditions[i].Kind == kind {
			return true
		}
	}
	return false
}

// ConditionMagnitude returns the summed magnitude of all active conditions
// of the given kind.
func (u *Unit) ConditionMagnitude(kind ConditionKind) int {
	total := 0
	for i := range u.Conditions {
		if u.Conditions[i].Kind == kind {
			total += u.Conditions[i].Magnitude
		}
	}
	return total
}

type Obstacle struct {
	ID           string         `json:"id"`
	Position     geometry.Point `json:"position"`
	Destructible bool           `json:"destructible"`
	HP           int            `json:"hp"`
	Destroyed    bool           `json:"destroyed"`
}

// Kingdom is one participant side. Units reference their kingdom by
// OwnerID.
type Kingdom struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
}

type Battle struct {
	ID     string          `json:"id"`
	Bounds geometry.Bounds `json:"bounds"`

	Kingdoms  []Kingdom  `json:"kingdoms"`
	Units     []Unit     `json:"units"`
	Obstacles []Obstacle `json:"obstacles"`

	// ActionOrder is the fixed unit-id sequence for the battle.
	ActionOrder []string `json:"action_order"`
	OrderIndex  int      `json:"order_index"`
	Round       int      `json:"round"`

	CurrentPlayerID string    `json:"current_player_id"`
	ActiveUnitID    string    `json:"active_unit_id"`
	Phase           TurnPhase `json:"phase"`
	// TurnTimer is the seconds remaining for the current turn, owned by
	// the server tick.
	TurnTimer int `json:"turn_timer"`

	Status   BattleStatus `json:"status"`
	WinnerID string       `json:"winner_id"`
	// EndReason is set when Status becomes ended (elimination, surrender,
	// inactivity).
	EndReason string `json:"end_reason"`
}

// UnitByID returns the unit with the given id, dead or alive.
func (b *Battle) UnitByID(id string) *Unit {
	for i := range b.Units {
		if b.Units[i].ID == id {
			return &b.Units[i]
		}
	}
	return nil
}

// ObstacleByID returns the obstacle with the given id.
func (b *Battle) ObstacleByID(id string) *Obstacle {
	for i := range b.Obstacles {
		if b.Obstacles[i].ID == id {
			return &b.Obstacles[i]
		}
	}
	return nil
}

// UnitAt returns the living unit occupying the cell, if any. Dead units do
// not block cells.
func (b *Battle) UnitAt(p geometry.Point) *Unit {
	for i := range b.Units {
		if b.Units[i].IsAlive && b.Units[i].Position == p {
			return &b.Units[i]
		}
	}
	return nil
}

// ObstacleAt returns the undestroyed obstacle occupying the cell, if any.
func (b *Battle) ObstacleAt(p geometry.Point) *Obstacle {
	for i := range b.Obstacles {
		if !b.Obstacles[i].Destroyed && b.Obstacles[i].Position == p {
			return &b.Obstacles[i]
		}
	}
	return nil
}

// CellBlocked reports whether a cell cannot be entered: out of bounds,
// occupied by a living unit or covered by an undestroyed obstacle.
func (b *Battle) CellBlocked(p geometry.Point) bool {
	if !b.Bounds.Contains(p) {
		return true
	}
	if b.UnitAt(p) != nil {
		return true
	}
	return b.ObstacleAt(p) != nil
}

// LivingUnitsOf counts the living units belonging to a player.
func (b *Battle) LivingUnitsOf(playerID string) int {
	n := 0
	for i := range b.Units {
		if b.Units[i].IsAlive && b.Units[i].OwnerID == playerID {
			n++
		}
	}
	return n
}

// ActiveUnit returns the unit holding the activation, or nil.
func (b *Battle) ActiveUnit() *Unit {
	if b.ActiveUnitID == "" {
		return nil
	}
	return b.UnitByID(b.ActiveUnitID)
}
