package battle

type RangeClass string

const (
	RangeSelf   RangeClass = "self"
	RangeMelee  RangeClass = "melee"
	RangeRanged RangeClass = "ranged"
	RangeArea   RangeClass = "area"
)

type TargetType string

const (
	TargetSelf     TargetType = "self"
	TargetUnit     TargetType = "unit"
	TargetAlly     TargetType = "ally"
	TargetEnemy    TargetType = "enemy"
	TargetPosition TargetType = "position"
	TargetGround   TargetType = "ground"
	TargetAll      TargetType = "all"
)

// RangeAttribute names the caster attribute a dynamic range distance is
// derived from.
type RangeAttribute string

const (
	RangeAttrNone   RangeAttribute = ""
	RangeAttrCombat RangeAttribute = "combat"
	RangeAttrAcuity RangeAttribute = "acuity"
	RangeAttrFocus  RangeAttribute = "focus"
)

// AbilityDefinition is immutable configuration for a skill or spell. It is
// loaded from the server config and never mutated by the engine.
type AbilityDefinition struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// Spell marks equipped spells (cast_spell) as opposed to innate
	// skills (use_skill); the resolution pipeline is shared.
	Spell bool `json:"spell"`

	RangeClass RangeClass `json:"range_class"`
	// RangeDistance is used when RangeAttr is empty; otherwise the
	// distance is the caster's attribute value, evaluated fresh at
	// resolution time.
	RangeDistance int            `json:"range_distance"`
	RangeAttr     RangeAttribute `json:"range_attr"`

	TargetType TargetType `json:"target_type"`
	// AreaSize is the Chebyshev radius of the affected footprint around
	// the chosen cell; 0 means single cell.
	AreaSize     int  `json:"area_size"`
	CenterOnSelf bool `json:"center_on_self"`

	ConsumesAction bool `json:"consumes_action"`
	Cooldown       int  `json:"cooldown"`

	DamageType       DamageType `json:"damage_type"`
	DamageMultiplier int        `json:"damage_multiplier"`
	HealAmount       int        `json:"heal_amount"`
	// Revives lets a healing ability bring a dead unit back; dead units
	// stay addressable at their death position for exactly this reason.
	Revives bool `json:"revives"`
	// GrantsAttacks adds bonus attacks to the caster for this turn.
	GrantsAttacks int `json:"grants_attacks"`

	AppliesCondition   ConditionKind `json:"applies_condition"`
	ConditionMagnitude int           `json:"condition_magnitude"`
	ConditionExpiry    ExpiryRule    `json:"condition_expiry"`
}

// ResolveRange returns the effective range distance for a caster. Melee is
// always exactly 1 (Chebyshev) and self is 0.
func (d *AbilityDefinition) ResolveRange(attrs Attributes) int {
	switch d.RangeClass {
	case RangeSelf:
		return 0
	case RangeMelee:
		return 1
	}
	switch d.RangeAttr {
	case RangeAttrCombat:
		return attrs.Combat
	case RangeAttrAcuity:
		return attrs.Acuity
	case RangeAttrFocus:
		return attrs.Focus
	default:
		return d.RangeDistance
	}
}
