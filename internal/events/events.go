package events

import (
	"encoding/json"

	"github.com/lucasmdrs/warbound/internal/battle"
	"github.com/lucasmdrs/warbound/internal/engine"
	"github.com/lucasmdrs/warbound/internal/geometry"
)

// Event type discriminators. Every server-to-client frame is an Envelope
// with one of these types and the matching payload.
const (
	TypeActionStarted       = "action_started"
	TypeUnitMoved           = "unit_moved"
	TypeUnitAttacked        = "unit_attacked"
	TypeSkillUsed           = "skill_used"
	TypeSpellCast           = "spell_cast"
	TypeUnitTurnEnded       = "unit_turn_ended"
	TypeNextPlayer          = "next_player"
	TypeNewRound            = "new_round"
	TypeBattleStarted       = "battle_started"
	TypeBattleEnded         = "battle_ended"
	TypeTurnTimer           = "turn_timer"
	TypeObstacleDestroyed   = "obstacle_destroyed"
	TypeProtectionRecovered = "protection_recovered"
	TypeBattleRestored      = "battle_restored"
	TypePlayerDisconnected  = "player_disconnected"
	TypePlayerReconnected   = "player_reconnected"
	TypeRematchRequested    = "rematch_requested"
	TypeRematchDeclined     = "rematch_declined"
	TypeRematchStarted      = "rematch_started"
	TypeTargetingPreview    = "targeting_preview"
	TypeError               = "error"
)

// Client command names accepted over the battle socket.
const (
	CmdBeginAction    = "begin_action"
	CmdMove           = "move"
	CmdAttack         = "attack"
	CmdUseSkill       = "use_skill"
	CmdCastSpell      = "cast_spell"
	CmdPreviewTarget  = "preview_target"
	CmdEndTurn        = "end_unit_action"
	CmdSurrender      = "surrender"
	CmdRematch        = "request_rematch"
	CmdDeclineRematch = "decline_rematch"
)

// Envelope is one websocket frame in either direction.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope marshals the payload into an outbound frame. Marshal errors
// are programming errors in the payload types, reported to the caller.
func NewEnvelope(eventType string, payload interface{}) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: eventType, Payload: raw}, nil
}

// Command is a decoded client frame. The target fields are optional and
// interpreted per command.
type Command struct {
	Command  string `json:"command"`
	PlayerID string `json:"-"` // bound from the session, never the frame
	UnitID   string `json:"unit_id,omitempty"`

	To               *geometry.Point `json:"to,omitempty"`
	Code             string          `json:"code,omitempty"`
	TargetUnitID     string          `json:"target_unit_id,omitempty"`
	TargetObstacleID string          `json:"target_obstacle_id,omitempty"`
	TargetPosition   *geometry.Point `json:"target_position,omitempty"`
	Hover            *geometry.Point `json:"hover,omitempty"`
}

type ActionStarted struct {
	UnitID      string `json:"unit_id"`
	PlayerID    string `json:"player_id"`
	MovesLeft   int    `json:"moves_left"`
	ActionsLeft int    `json:"actions_left"`
}

type UnitMoved struct {
	UnitID         string          `json:"unit_id"`
	From           geometry.Point  `json:"from"`
	To             geometry.Point  `json:"to"`
	Cost           engine.MoveCost `json:"cost"`
	MovesLeft      int             `json:"moves_left"`
	EngagementPaid bool            `json:"engagement_paid"`
}

type UnitAttacked struct {
	AttackerID string               `json:"attacker_id"`
	TargetID   string               `json:"target_id"`
	Outcome    engine.AttackOutcome `json:"outcome"`
}

// AbilityUsed serves both skill_used and spell_cast; the envelope type
// carries the distinction.
type AbilityUsed struct {
	Result engine.AbilityResult `json:"result"`
}

type UnitTurnEnded struct {
	Result engine.TurnResult `json:"result"`
}

type NextPlayer struct {
	PlayerID   string `json:"player_id"`
	OrderIndex int    `json:"order_index"`
	Round      int    `json:"round"`
}

type NewRound struct {
	Round int                    `json:"round"`
	Units []battle.Unit          `json:"units"`
	Ticks []engine.ConditionTick `json:"ticks,omitempty"`
}

type BattleStarted struct {
	Battle *battle.Battle `json:"battle"`
}

type BattleEnded struct {
	WinnerID   string        `json:"winner_id"`
	Reason     string        `json:"reason"`
	FinalUnits []battle.Unit `json:"final_units"`
}

type TurnTimer struct {
	BattleID        string `json:"battle_id"`
	CurrentPlayerID string `json:"current_player_id"`
	UnitID          string `json:"unit_id,omitempty"`
	Remaining       int    `json:"remaining"`
}

type ObstacleDestroyed struct {
	ObstacleID string `json:"obstacle_id"`
	ByUnitID   string `json:"by_unit_id"`
}

// ProtectionRecovered reports the pools refilled once a battle ends;
// broken pools stay at zero.
type ProtectionRecovered struct {
	UnitID             string            `json:"unit_id"`
	PhysicalProtection battle.Protection `json:"physical_protection"`
	MagicalProtection  battle.Protection `json:"magical_protection"`
}

// BattleRestored is the full-state resync sent to a reconnecting client.
// It is a complete snapshot; the client discards local state and rebuilds.
type BattleRestored struct {
	Battle    *battle.Battle           `json:"battle"`
	Preview   *engine.TargetingPreview `json:"preview,omitempty"`
	YourTurn  bool                     `json:"your_turn"`
	Remaining int                      `json:"turn_timer"`
}

type PlayerConnection struct {
	PlayerID string `json:"player_id"`
	// Grace is the seconds the seat is held before forfeit, on
	// disconnects only.
	Grace int `json:"grace,omitempty"`
}

type RematchRequested struct {
	PlayerID string `json:"player_id"`
}

type RematchDeclined struct {
	PlayerID string `json:"player_id"`
}

type RematchStarted struct {
	BattleID string         `json:"battle_id"`
	Battle   *battle.Battle `json:"battle"`
}

type Error struct {
	Command string `json:"command,omitempty"`
	Message string `json:"message"`
}

// TargetingPreviewResult answers a preview_target command; it is sent only
// to the requesting session, never broadcast.
type TargetingPreviewResult struct {
	Code    string                  `json:"code"`
	Preview engine.TargetingPreview `json:"preview"`
}
