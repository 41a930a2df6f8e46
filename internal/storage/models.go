package storage

import (
	"encoding/json"
	"time"

	"github.com/lucasmdrs/warbound/internal/battle"
)

// BattleRecord is the persisted form of a battle: identity and lifecycle
// columns for queries, plus the full engine state as a JSON blob. The
// blob is the source of truth; columns exist for listing and sweeping.
type BattleRecord struct {
	ID        string `gorm:"primaryKey" json:"id"`
	JoinCode  string `gorm:"uniqueIndex" json:"join_code"`
	Status    string `gorm:"index" json:"status"`
	HostID    string `json:"host_id"`
	GuestID   string `json:"guest_id"`
	WinnerID  string `json:"winner_id"`
	EndReason string `json:"end_reason"`
	Private   bool   `json:"private"`

	State []byte `json:"-"`

	// StatsCounted guards against double-counting a finished battle in
	// player records.
	StatsCounted bool `json:"-"`

	// ActionDeadline is the wall-clock time by which the battle must see
	// activity before the sweeper forfeits it.
	ActionDeadline *time.Time `gorm:"index" json:"action_deadline,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EncodeState serializes the engine state into the record.
func (r *BattleRecord) EncodeState(b *battle.Battle) error {
	raw, err := json.Marshal(b)
	if err != nil {
		return err
	}
	r.State = raw
	r.Status = string(b.Status)
	r.WinnerID = b.WinnerID
	r.EndReason = b.EndReason
	return nil
}

// DecodeState rebuilds the engine state from the record.
func (r *BattleRecord) DecodeState() (*battle.Battle, error) {
	var b battle.Battle
	if err := json.Unmarshal(r.State, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// PlayerProfile is a player's identity and lifetime record across battles.
type PlayerProfile struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Name string `json:"name"`

	BattlesPlayed int `json:"battles_played"`
	Wins          int `json:"wins"`
	Losses        int `json:"losses"`
	Draws         int `json:"draws"`
	Surrenders    int `json:"surrenders"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
