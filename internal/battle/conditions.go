package battle

type ConditionKind string

const (
	ConditionGrappled      ConditionKind = "grappled"
	ConditionDodging       ConditionKind = "dodging"
	ConditionProtected     ConditionKind = "protected"
	ConditionStunned       ConditionKind = "stunned"
	ConditionFrozen        ConditionKind = "frozen"
	ConditionBurning       ConditionKind = "burning"
	ConditionSlowed        ConditionKind = "slowed"
	ConditionKnockedDown   ConditionKind = "knocked_down"
	ConditionElectrified   ConditionKind = "electrified"
	ConditionChilled       ConditionKind = "chilled"
	ConditionAssistPending ConditionKind = "assist_pending"
)

// ExpiryRule says when a condition leaves a unit. Expiry is evaluated only
// at turn end and round start, never mid-action.
type ExpiryRule string

const (
	// ExpireEndOfTurn removes the condition at the end of the owning
	// unit's next turn.
	ExpireEndOfTurn ExpiryRule = "end_of_turn"
	// ExpireEndOfRound removes the condition when a new round starts.
	ExpireEndOfRound ExpiryRule = "end_of_round"
	// ExpireUntilCleared keeps the condition until something removes it.
	ExpireUntilCleared ExpiryRule = "until_cleared"
)

// Condition is a named status attached to a unit.
type Condition struct {
	Kind      ConditionKind `json:"kind"`
	Magnitude int           `json:"magnitude"`
	Expiry    ExpiryRule    `json:"expiry"`
	// AppliedRound lets end-of-round expiry survive the round it was
	// applied in.
	AppliedRound int `json:"applied_round"`
	// TurnEnds counts remaining end-of-turn checkpoints for
	// ExpireEndOfTurn conditions; the engine decrements it at the owning
	// unit's turn end and removes the condition at zero.
	TurnEnds int `json:"turn_ends"`
	// SourceUnitID records who inflicted the condition.
	SourceUnitID string `json:"source_unit_id"`
}
