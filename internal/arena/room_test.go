package arena

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/lucasmdrs/warbound/internal/battle"
	"github.com/lucasmdrs/warbound/internal/config"
	"github.com/lucasmdrs/warbound/internal/events"
	"github.com/lucasmdrs/warbound/internal/service"
	"github.com/lucasmdrs/warbound/internal/storage"
)

type fakeSession struct {
	pid    string
	sent   []events.Envelope
	closed bool
}

func (s *fakeSession) PlayerID() string        { return s.pid }
func (s *fakeSession) Send(ev events.Envelope) { s.sent = append(s.sent, ev) }
func (s *fakeSession) Close()                  { s.closed = true }

func (s *fakeSession) byType(eventType string) []events.Envelope {
	var out []events.Envelope
	for _, ev := range s.sent {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}

type mockRepo struct {
	battles map[string]*storage.BattleRecord
	stats   int
}

func newMockRepo() *mockRepo {
	return &mockRepo{battles: make(map[string]*storage.BattleRecord)}
}

func (m *mockRepo) CreateBattle(rec *storage.BattleRecord) error {
	m.battles[rec.ID] = rec
	return nil
}

func (m *mockRepo) GetBattleByID(id string) (*storage.BattleRecord, error) {
	rec, ok := m.battles[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return rec, nil
}

func (m *mockRepo) FindBattleByJoinCode(code string) (*storage.BattleRecord, error) {
	return nil, errors.New("record not found")
}

func (m *mockRepo) UpdateBattle(rec *storage.BattleRecord) error {
	m.battles[rec.ID] = rec
	return nil
}

func (m *mockRepo) GetOpenBattles() ([]storage.BattleRecord, error) { return nil, nil }

func (m *mockRepo) FindTimedOutBattles(now time.Time) ([]storage.BattleRecord, error) {
	return nil, nil
}

func (m *mockRepo) UpsertPlayer(id, name string) error                      { return nil }
func (m *mockRepo) GetPlayerByID(id string) (*storage.PlayerProfile, error) { return nil, nil }
func (m *mockRepo) UpdateStatsOnBattleEnd(rec *storage.BattleRecord) error {
	m.stats++
	return nil
}
func (m *mockRepo) GetTopPlayers(limit int) ([]storage.PlayerProfile, error) { return nil, nil }

func testConfig() *config.LoadedConfig {
	return config.NewStatic(
		[]battle.AbilityDefinition{
			{
				Code:             "strike",
				Name:             "Strike",
				RangeClass:       battle.RangeMelee,
				TargetType:       battle.TargetEnemy,
				ConsumesAction:   true,
				DamageType:       battle.DamagePhysical,
				DamageMultiplier: 1,
			},
		},
		[]config.UnitTemplate{
			{
				Name:       "Pikeman",
				Category:   battle.CategoryTroop,
				Attributes: battle.Attributes{Combat: 3, Acuity: 2, Focus: 1, Armor: 2, Vitality: 5},
				Abilities:  []string{"strike"},
			},
			{
				Name:       "Outrider",
				Category:   battle.CategoryHero,
				Attributes: battle.Attributes{Combat: 2, Acuity: 4, Focus: 2, Armor: 1, Vitality: 4},
				Abilities:  []string{"strike"},
			},
		},
	)
}

// testRoom builds a started two-player battle and a room around it, with
// both players attached.
func testRoom(t *testing.T) (*Room, *mockRepo, *fakeSession, *fakeSession) {
	t.Helper()
	repo := newMockRepo()
	cfg := testConfig()
	rec, err := service.CreateBattle(repo, cfg, service.CreateRequest{
		PlayerID:    "p1",
		PlayerName:  "Alice",
		KingdomName: "North",
		Roster:      []string{"Pikeman", "Outrider"},
		JoinCode:    "ABC123",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := service.JoinBattle(repo, cfg, rec, service.JoinRequest{
		PlayerID:    "p2",
		PlayerName:  "Bern",
		KingdomName: "South",
		Roster:      []string{"Pikeman"},
	}); err != nil {
		t.Fatalf("join: %v", err)
	}

	room, err := NewRoom(repo, cfg, rec)
	if err != nil {
		t.Fatalf("new room: %v", err)
	}
	s1 := &fakeSession{pid: "p1"}
	s2 := &fakeSession{pid: "p2"}
	room.attach(s1)
	room.attach(s2)
	return room, repo, s1, s2
}

func firstUnitOf(t *testing.T, r *Room, playerID string) *battle.Unit {
	t.Helper()
	for _, id := range r.b.ActionOrder {
		u := r.b.UnitByID(id)
		if u != nil && u.OwnerID == playerID {
			return u
		}
	}
	t.Fatalf("no unit for %s", playerID)
	return nil
}

func TestReloadBroadcastsBattleStarted(t *testing.T) {
	repo := newMockRepo()
	cfg := testConfig()
	rec, err := service.CreateBattle(repo, cfg, service.CreateRequest{
		PlayerID:    "p1",
		PlayerName:  "Alice",
		KingdomName: "North",
		Roster:      []string{"Pikeman"},
		JoinCode:    "ABC123",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	room, err := NewRoom(repo, cfg, rec)
	if err != nil {
		t.Fatalf("new room: %v", err)
	}
	s1 := &fakeSession{pid: "p1"}
	room.attach(s1)

	if _, err := service.JoinBattle(repo, cfg, rec, service.JoinRequest{
		PlayerID:    "p2",
		PlayerName:  "Bern",
		KingdomName: "South",
		Roster:      []string{"Pikeman"},
	}); err != nil {
		t.Fatalf("join: %v", err)
	}
	room.applyReload(rec)

	if room.b.Status != battle.StatusActive {
		t.Fatalf("room must pick up the started battle, got %s", room.b.Status)
	}
	if len(s1.byType(events.TypeBattleStarted)) != 1 {
		t.Fatalf("the waiting host must see battle_started")
	}
}

func TestAttachSendsSnapshot(t *testing.T) {
	room, _, s1, _ := testRoom(t)

	if len(s1.sent) == 0 || s1.sent[0].Type != events.TypeBattleRestored {
		t.Fatalf("attach must lead with the full snapshot, got %+v", s1.sent)
	}
	var snap events.BattleRestored
	if err := json.Unmarshal(s1.sent[0].Payload, &snap); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snap.Battle == nil || snap.Battle.ID != room.b.ID {
		t.Fatalf("snapshot must carry the whole battle")
	}
	if snap.YourTurn != (room.b.CurrentPlayerID == "p1") {
		t.Fatalf("snapshot must flag whose turn it is")
	}

	stranger := &fakeSession{pid: "p9"}
	room.attach(stranger)
	if !stranger.closed {
		t.Fatalf("non-participants must be rejected")
	}
}

func TestResyncSnapshotIdempotent(t *testing.T) {
	room, _, s1, _ := testRoom(t)
	first := s1.sent[0].Payload

	again := &fakeSession{pid: "p1"}
	room.attach(again)
	if !bytes.Equal(first, again.sent[0].Payload) {
		t.Fatalf("re-attaching without state changes must produce the identical snapshot")
	}
}

func TestBeginActionBroadcasts(t *testing.T) {
	room, repo, s1, s2 := testRoom(t)
	u := room.b.UnitByID(room.b.ActionOrder[0])

	room.handleCommand(events.Command{
		Command:  events.CmdBeginAction,
		PlayerID: u.OwnerID,
		UnitID:   u.ID,
	}, s1)

	for _, s := range []*fakeSession{s1, s2} {
		if len(s.byType(events.TypeActionStarted)) != 1 {
			t.Fatalf("action_started must reach every session")
		}
	}
	rec := repo.battles[room.b.ID]
	saved, err := rec.DecodeState()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if saved.ActiveUnitID != u.ID {
		t.Fatalf("activation must be persisted, got %q", saved.ActiveUnitID)
	}
	if rec.ActionDeadline == nil {
		t.Fatalf("activity must push the inactivity deadline")
	}
}

func TestCommandForForeignUnitRejected(t *testing.T) {
	room, _, s1, s2 := testRoom(t)
	enemy := firstUnitOf(t, room, "p2")

	room.handleCommand(events.Command{
		Command:  events.CmdBeginAction,
		PlayerID: "p1",
		UnitID:   enemy.ID,
	}, s1)

	if len(s1.byType(events.TypeError)) != 1 {
		t.Fatalf("sender must get the error frame")
	}
	if len(s2.byType(events.TypeError)) != 0 {
		t.Fatalf("errors must not be broadcast")
	}
	if room.b.ActiveUnitID != "" {
		t.Fatalf("rejected command must not mutate state")
	}
}

func TestMoveBroadcastsAndPersists(t *testing.T) {
	room, repo, s1, _ := testRoom(t)
	u := room.b.UnitByID(room.b.ActionOrder[0])
	room.handleCommand(events.Command{Command: events.CmdBeginAction, PlayerID: u.OwnerID, UnitID: u.ID}, s1)

	to := u.Position
	to.Y++
	room.handleCommand(events.Command{
		Command:  events.CmdMove,
		PlayerID: u.OwnerID,
		UnitID:   u.ID,
		To:       &to,
	}, s1)

	moved := s1.byType(events.TypeUnitMoved)
	if len(moved) != 1 {
		t.Fatalf("expected one unit_moved, got %d", len(moved))
	}
	if u.Position != to {
		t.Fatalf("move not applied, unit at %v", u.Position)
	}
	saved, _ := repo.battles[room.b.ID].DecodeState()
	if saved.UnitByID(u.ID).Position != to {
		t.Fatalf("move must be persisted")
	}
}

func TestExhaustingMoveAutoEndsTurn(t *testing.T) {
	room, _, s1, s2 := testRoom(t)
	u := room.b.UnitByID(room.b.ActionOrder[0])
	room.handleCommand(events.Command{Command: events.CmdBeginAction, PlayerID: u.OwnerID, UnitID: u.ID}, s1)

	// leave a single movement point as the unit's last spendable resource
	u.ActionsLeft = 0
	u.AttacksLeftThisTurn = 0
	u.MovesLeft = 1

	to := u.Position
	to.Y++
	room.handleCommand(events.Command{
		Command:  events.CmdMove,
		PlayerID: u.OwnerID,
		UnitID:   u.ID,
		To:       &to,
	}, s1)

	if len(s2.byType(events.TypeUnitTurnEnded)) != 1 {
		t.Fatalf("spending the last resource must end the turn without a client request")
	}
	if len(s2.byType(events.TypeNextPlayer)) != 1 {
		t.Fatalf("the auto-ended turn must hand off to the next player")
	}
	if room.b.OrderIndex != 1 || room.b.ActiveUnitID != "" {
		t.Fatalf("auto-end must advance the order, index=%d active=%q", room.b.OrderIndex, room.b.ActiveUnitID)
	}
}

func TestEndTurnAdvancesAndResetsTimer(t *testing.T) {
	room, _, s1, s2 := testRoom(t)
	u := room.b.UnitByID(room.b.ActionOrder[0])
	room.handleCommand(events.Command{Command: events.CmdBeginAction, PlayerID: u.OwnerID, UnitID: u.ID}, s1)
	room.remaining = 3

	room.handleCommand(events.Command{Command: events.CmdEndTurn, PlayerID: u.OwnerID, UnitID: u.ID}, s1)

	if len(s2.byType(events.TypeUnitTurnEnded)) != 1 || len(s2.byType(events.TypeNextPlayer)) != 1 {
		t.Fatalf("turn end must broadcast the handoff")
	}
	if room.remaining != room.cfg.TurnSeconds {
		t.Fatalf("turn timer must reset on handoff, got %d", room.remaining)
	}
}

func TestTimerExpiryForcesTurnEnd(t *testing.T) {
	room, _, _, s2 := testRoom(t)
	room.remaining = 1

	room.tick()

	if len(s2.byType(events.TypeUnitTurnEnded)) != 1 {
		t.Fatalf("timer expiry must end the turn")
	}
	if room.b.OrderIndex != 1 {
		t.Fatalf("forced end must advance the order, index=%d", room.b.OrderIndex)
	}
}

func TestTimerExpirySkipsFullyBlockedPlayer(t *testing.T) {
	room, _, _, s2 := testRoom(t)
	for i := range room.b.Units {
		u := &room.b.Units[i]
		if u.OwnerID == "p1" {
			u.Conditions = append(u.Conditions, battle.Condition{
				Kind:     battle.ConditionFrozen,
				Expiry:   battle.ExpireEndOfTurn,
				TurnEnds: 1,
			})
		}
	}
	room.remaining = 1

	room.tick()

	if room.b.OrderIndex != 1 {
		t.Fatalf("expiry with every unit frozen must still advance the order, index=%d", room.b.OrderIndex)
	}
	if room.b.Status != battle.StatusActive {
		t.Fatalf("skipping a blocked turn must not end the battle")
	}
	if room.remaining != room.cfg.TurnSeconds {
		t.Fatalf("the timer must reset for the next entry, remaining=%d", room.remaining)
	}
	if len(s2.byType(events.TypeUnitTurnEnded)) != 1 {
		t.Fatalf("the skipped turn must be broadcast like any other end")
	}
}

func TestTickBroadcastsTimer(t *testing.T) {
	room, _, s1, _ := testRoom(t)
	room.remaining = 10

	room.tick()

	timers := s1.byType(events.TypeTurnTimer)
	if len(timers) != 1 {
		t.Fatalf("expected a turn_timer frame, got %d", len(timers))
	}
	var tt events.TurnTimer
	if err := json.Unmarshal(timers[0].Payload, &tt); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if tt.Remaining != 9 {
		t.Fatalf("remaining must count down, got %d", tt.Remaining)
	}
}

func TestSurrenderEndsBattle(t *testing.T) {
	room, repo, s1, s2 := testRoom(t)

	room.handleCommand(events.Command{Command: events.CmdSurrender, PlayerID: "p2"}, s2)

	if room.b.Status != battle.StatusEnded || room.b.WinnerID != "p1" {
		t.Fatalf("surrender must end the battle for the opponent: %+v", room.b.Status)
	}
	if len(s1.byType(events.TypeBattleEnded)) != 1 {
		t.Fatalf("battle_ended must be broadcast")
	}
	if len(s1.byType(events.TypeProtectionRecovered)) == 0 {
		t.Fatalf("protection recovery must be announced at battle end")
	}
	if repo.stats != 1 {
		t.Fatalf("stats must be counted exactly once, got %d", repo.stats)
	}
	if repo.battles[room.b.ID].ActionDeadline != nil {
		t.Fatalf("ended battles must not be swept")
	}
}

func TestDisconnectGraceForfeits(t *testing.T) {
	room, _, s1, s2 := testRoom(t)

	room.detach(s2)
	if len(s1.byType(events.TypePlayerDisconnected)) != 1 {
		t.Fatalf("disconnect must be announced with its grace window")
	}

	room.graceLeft["p2"] = 1
	room.tick()

	if room.b.Status != battle.StatusEnded || room.b.WinnerID != "p1" {
		t.Fatalf("grace expiry must forfeit the absent player: %+v", room.b)
	}
	if room.b.EndReason != "surrender" {
		t.Fatalf("forfeit resolves as surrender, got %q", room.b.EndReason)
	}
}

func TestReconnectWithinGrace(t *testing.T) {
	room, _, _, s2 := testRoom(t)

	room.detach(s2)
	if _, waiting := room.graceLeft["p2"]; !waiting {
		t.Fatalf("detach must open the grace window")
	}

	back := &fakeSession{pid: "p2"}
	room.attach(back)
	if _, waiting := room.graceLeft["p2"]; waiting {
		t.Fatalf("reconnect must cancel the forfeit countdown")
	}
	if back.sent[0].Type != events.TypeBattleRestored {
		t.Fatalf("reconnect must resync with the full snapshot")
	}
	if room.b.Status != battle.StatusActive {
		t.Fatalf("battle must keep running through a reconnect")
	}
}

func TestRematchHandshake(t *testing.T) {
	room, repo, s1, s2 := testRoom(t)
	oldID := room.b.ID
	room.handleCommand(events.Command{Command: events.CmdSurrender, PlayerID: "p2"}, s2)

	room.handleCommand(events.Command{Command: events.CmdRematch, PlayerID: "p1"}, s1)
	if room.b.ID != oldID {
		t.Fatalf("one request must not start the rematch")
	}
	if len(s2.byType(events.TypeRematchRequested)) != 1 {
		t.Fatalf("the opponent must see the request")
	}

	room.handleCommand(events.Command{Command: events.CmdRematch, PlayerID: "p2"}, s2)
	if room.b.ID == oldID {
		t.Fatalf("both requests must start a fresh battle")
	}
	if room.b.Status != battle.StatusActive || room.b.Round != 1 {
		t.Fatalf("rematch must start initialized: %+v", room.b.Status)
	}
	if len(s1.byType(events.TypeRematchStarted)) != 1 {
		t.Fatalf("rematch_started must be broadcast")
	}
	if _, ok := repo.battles[room.b.ID]; !ok {
		t.Fatalf("the rematch must be persisted under its new id")
	}
	for i := range room.b.Units {
		u := &room.b.Units[i]
		if !u.IsAlive || u.HP != u.MaxHP {
			t.Fatalf("rematch units must start fresh: %+v", u)
		}
	}
}

func TestDeclineRematchResetsHandshake(t *testing.T) {
	room, _, s1, s2 := testRoom(t)
	oldID := room.b.ID
	room.handleCommand(events.Command{Command: events.CmdSurrender, PlayerID: "p2"}, s2)

	room.handleCommand(events.Command{Command: events.CmdRematch, PlayerID: "p1"}, s1)
	room.handleCommand(events.Command{Command: events.CmdDeclineRematch, PlayerID: "p2"}, s2)
	if len(s1.byType(events.TypeRematchDeclined)) != 1 {
		t.Fatalf("the requester must see the decline")
	}

	// the earlier request no longer counts toward a later handshake
	room.handleCommand(events.Command{Command: events.CmdRematch, PlayerID: "p2"}, s2)
	if room.b.ID != oldID {
		t.Fatalf("a declined request must not complete the handshake")
	}
}

func TestRematchRequiresEndedBattle(t *testing.T) {
	room, _, s1, _ := testRoom(t)
	room.handleCommand(events.Command{Command: events.CmdRematch, PlayerID: "p1"}, s1)
	if len(s1.byType(events.TypeError)) != 1 {
		t.Fatalf("rematch on a running battle must be rejected")
	}
}
