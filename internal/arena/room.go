package arena

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lucasmdrs/warbound/internal/battle"
	"github.com/lucasmdrs/warbound/internal/config"
	"github.com/lucasmdrs/warbound/internal/constants"
	"github.com/lucasmdrs/warbound/internal/dice"
	"github.com/lucasmdrs/warbound/internal/engine"
	"github.com/lucasmdrs/warbound/internal/events"
	"github.com/lucasmdrs/warbound/internal/geometry"
	"github.com/lucasmdrs/warbound/internal/logging"
	"github.com/lucasmdrs/warbound/internal/service"
	"github.com/lucasmdrs/warbound/internal/storage"
)

type inbound struct {
	cmd  events.Command
	sess Session
}

// Room is the single-goroutine owner of one battle: every command, timer
// tick and connection change is applied on its loop, so engine state needs
// no locking.
type Room struct {
	repo storage.Repository
	cfg  *config.LoadedConfig

	rec *storage.BattleRecord
	b   *battle.Battle

	roller   *dice.Roller
	inflight *engine.InFlight

	sessions  map[string]Session
	graceLeft map[string]int
	rematch   map[string]bool
	remaining int

	commands chan inbound
	attachCh chan Session
	detachCh chan Session
	reloadCh chan *storage.BattleRecord
	stop     chan struct{}
	stopOnce sync.Once

	// onRekey lets the registry re-index the room when a rematch replaces
	// the battle id.
	onRekey func(oldID, newID string)
}

// NewRoom builds a room around a persisted battle. Call Run on its own
// goroutine.
func NewRoom(repo storage.Repository, cfg *config.LoadedConfig, rec *storage.BattleRecord) (*Room, error) {
	b, err := rec.DecodeState()
	if err != nil {
		return nil, err
	}
	return &Room{
		repo:      repo,
		cfg:       cfg,
		rec:       rec,
		b:         b,
		roller:    dice.NewTimeSeededRoller(),
		inflight:  engine.NewInFlight(),
		sessions:  make(map[string]Session),
		graceLeft: make(map[string]int),
		rematch:   make(map[string]bool),
		remaining: cfg.TurnSeconds,
		commands:  make(chan inbound, 64),
		attachCh:  make(chan Session, 4),
		detachCh:  make(chan Session, 4),
		reloadCh:  make(chan *storage.BattleRecord, 1),
		stop:      make(chan struct{}),
	}, nil
}

// BattleID returns the id of the battle the room currently hosts.
func (r *Room) BattleID() string { return r.b.ID }

// Run pumps the room loop until Stop.
func (r *Room) Run() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case s := <-r.attachCh:
			r.attach(s)
		case s := <-r.detachCh:
			r.detach(s)
		case in := <-r.commands:
			r.handleCommand(in.cmd, in.sess)
		case rec := <-r.reloadCh:
			r.applyReload(rec)
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Room) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Submit queues a client command. A full queue answers with an error frame
// instead of blocking the reader.
func (r *Room) Submit(cmd events.Command, sess Session) {
	select {
	case r.commands <- inbound{cmd: cmd, sess: sess}:
	default:
		r.sendError(sess, cmd.Command, "room is busy, try again")
	}
}

// Attach hands a connected session to the room loop.
func (r *Room) Attach(sess Session) {
	select {
	case r.attachCh <- sess:
	case <-r.stop:
		sess.Close()
	}
}

// Detach removes a dropped session.
func (r *Room) Detach(sess Session) {
	select {
	case r.detachCh <- sess:
	case <-r.stop:
	}
}

// Reload hands the room freshly persisted state after a lobby-side change
// made outside its loop, such as the opponent joining over HTTP.
func (r *Room) Reload(rec *storage.BattleRecord) {
	select {
	case r.reloadCh <- rec:
	case <-r.stop:
	}
}

func (r *Room) applyReload(rec *storage.BattleRecord) {
	b, err := rec.DecodeState()
	if err != nil {
		logging.Error("failed to decode reloaded battle state", err, logging.Fields{
			constants.LogFieldBattleID: rec.ID,
		})
		return
	}
	started := r.b.Status == battle.StatusWaitingForPlayers && b.Status == battle.StatusActive
	r.b = b
	r.rec = rec
	if started {
		r.remaining = r.cfg.TurnSeconds
		r.broadcast(events.TypeBattleStarted, events.BattleStarted{Battle: b})
	}
}

func (r *Room) isParticipant(playerID string) bool {
	for _, k := range r.b.Kingdoms {
		if k.PlayerID == playerID {
			return true
		}
	}
	return false
}

func (r *Room) attach(sess Session) {
	pid := sess.PlayerID()
	if !r.isParticipant(pid) {
		r.sendError(sess, "", constants.ErrPlayerNotInBattle)
		sess.Close()
		return
	}
	if old, ok := r.sessions[pid]; ok && old != sess {
		old.Close()
	}
	reconnect := false
	if _, waiting := r.graceLeft[pid]; waiting {
		reconnect = true
		delete(r.graceLeft, pid)
	}
	r.sessions[pid] = sess

	r.sendTo(sess, events.TypeBattleRestored, events.BattleRestored{
		Battle:    r.b,
		YourTurn:  r.b.CurrentPlayerID == pid,
		Remaining: r.remaining,
	})
	if reconnect {
		r.broadcastExcept(pid, events.TypePlayerReconnected, events.PlayerConnection{PlayerID: pid})
	}
	logging.Info("session attached", logging.Fields{
		constants.LogFieldBattleID: r.b.ID,
		constants.LogFieldPlayerID: pid,
	})
}

func (r *Room) detach(sess Session) {
	pid := sess.PlayerID()
	if current, ok := r.sessions[pid]; !ok || current != sess {
		return
	}
	delete(r.sessions, pid)
	if r.b.Status == battle.StatusActive {
		r.graceLeft[pid] = r.cfg.DisconnectGraceSecs
		r.broadcast(events.TypePlayerDisconnected, events.PlayerConnection{
			PlayerID: pid,
			Grace:    r.cfg.DisconnectGraceSecs,
		})
	}
	logging.Info("session detached", logging.Fields{
		constants.LogFieldBattleID: r.b.ID,
		constants.LogFieldPlayerID: pid,
	})
}

func (r *Room) tick() {
	for pid, secs := range r.graceLeft {
		secs--
		if secs > 0 {
			r.graceLeft[pid] = secs
			continue
		}
		delete(r.graceLeft, pid)
		if r.b.Status != battle.StatusActive {
			continue
		}
		logging.Info("disconnect grace expired, forfeiting", logging.Fields{
			constants.LogFieldBattleID: r.b.ID,
			constants.LogFieldPlayerID: pid,
		})
		if res, err := engine.Surrender(r.b, pid); err == nil {
			r.finishBattle(res.WinnerID, res.EndReason)
		}
	}

	if r.b.Status != battle.StatusActive {
		return
	}
	r.remaining--
	if r.remaining > 0 {
		r.broadcast(events.TypeTurnTimer, events.TurnTimer{
			BattleID:        r.b.ID,
			CurrentPlayerID: r.b.CurrentPlayerID,
			UnitID:          r.b.ActiveUnitID,
			Remaining:       r.remaining,
		})
		return
	}
	r.forceEndTurn()
}

// forceEndTurn resolves a timer expiry: the active unit's turn ends; when
// no unit was activated at all, the first living unit of the current
// player is burned through instead so the order still advances. If none
// can be activated either, the order entry is skipped outright.
func (r *Room) forceEndTurn() {
	unitID := r.b.ActiveUnitID
	if unitID == "" {
		for _, id := range r.b.ActionOrder {
			u := r.b.UnitByID(id)
			if u != nil && u.IsAlive && u.OwnerID == r.b.CurrentPlayerID {
				if _, err := engine.BeginAction(r.b, id); err != nil {
					continue
				}
				unitID = id
				break
			}
		}
	}
	if unitID == "" {
		// every candidate was condition-blocked; skip the order entry so
		// the battle still advances and the blocking conditions decay
		res, err := engine.SkipTurn(r.b, r.b.ActionOrder[r.b.OrderIndex])
		if err != nil {
			logging.Error("forced turn skip failed", err, logging.Fields{
				constants.LogFieldBattleID: r.b.ID,
			})
			return
		}
		r.applyTurnResult(res)
		return
	}
	res, err := engine.EndTurn(r.b, unitID)
	if err != nil {
		logging.Error("forced turn end failed", err, logging.Fields{
			constants.LogFieldBattleID: r.b.ID,
			constants.LogFieldUnitID:   unitID,
		})
		return
	}
	r.applyTurnResult(res)
}

func (r *Room) handleCommand(cmd events.Command, sess Session) {
	if !r.isParticipant(cmd.PlayerID) {
		r.sendError(sess, cmd.Command, constants.ErrPlayerNotInBattle)
		return
	}
	switch cmd.Command {
	case events.CmdBeginAction:
		r.handleBeginAction(cmd, sess)
	case events.CmdMove:
		r.handleMove(cmd, sess)
	case events.CmdAttack:
		r.handleAttack(cmd, sess)
	case events.CmdUseSkill:
		r.handleAbility(cmd, sess, false)
	case events.CmdCastSpell:
		r.handleAbility(cmd, sess, true)
	case events.CmdPreviewTarget:
		r.handlePreview(cmd, sess)
	case events.CmdEndTurn:
		r.handleEndTurn(cmd, sess)
	case events.CmdSurrender:
		r.handleSurrender(cmd, sess)
	case events.CmdRematch:
		r.handleRematch(cmd, sess)
	case events.CmdDeclineRematch:
		r.handleDeclineRematch(cmd, sess)
	default:
		r.sendError(sess, cmd.Command, "unknown command")
	}
}

// ownsUnit rejects commands for units the sender does not own.
func (r *Room) ownsUnit(cmd events.Command) error {
	u := r.b.UnitByID(cmd.UnitID)
	if u == nil {
		return engine.ErrUnitNotFound
	}
	if u.OwnerID != cmd.PlayerID {
		return engine.ErrNotYourTurn
	}
	return nil
}

func (r *Room) handleBeginAction(cmd events.Command, sess Session) {
	if err := r.ownsUnit(cmd); err != nil {
		r.sendError(sess, cmd.Command, err.Error())
		return
	}
	if err := r.inflight.Acquire(cmd.UnitID); err != nil {
		r.sendError(sess, cmd.Command, err.Error())
		return
	}
	defer r.inflight.Release(cmd.UnitID)

	u, err := engine.BeginAction(r.b, cmd.UnitID)
	if err != nil {
		r.sendError(sess, cmd.Command, err.Error())
		return
	}
	r.broadcast(events.TypeActionStarted, events.ActionStarted{
		UnitID:      u.ID,
		PlayerID:    u.OwnerID,
		MovesLeft:   u.MovesLeft,
		ActionsLeft: u.ActionsLeft,
	})
	r.persist()
}

func (r *Room) handleMove(cmd events.Command, sess Session) {
	if cmd.To == nil {
		r.sendError(sess, cmd.Command, constants.ErrInvalidRequest)
		return
	}
	if err := r.ownsUnit(cmd); err != nil {
		r.sendError(sess, cmd.Command, err.Error())
		return
	}
	if err := r.inflight.Acquire(cmd.UnitID); err != nil {
		r.sendError(sess, cmd.Command, err.Error())
		return
	}
	defer r.inflight.Release(cmd.UnitID)

	u := r.b.UnitByID(cmd.UnitID)
	from := u.Position
	cost, err := engine.ApplyMove(r.b, cmd.UnitID, *cmd.To, r.cfg.EngagementCost)
	if err != nil {
		r.sendError(sess, cmd.Command, err.Error())
		return
	}
	r.broadcast(events.TypeUnitMoved, events.UnitMoved{
		UnitID:         u.ID,
		From:           from,
		To:             u.Position,
		Cost:           cost,
		MovesLeft:      u.MovesLeft,
		EngagementPaid: cost.EngagementCost > 0,
	})
	r.afterMutation(u)
}

func (r *Room) handleAttack(cmd events.Command, sess Session) {
	if err := r.ownsUnit(cmd); err != nil {
		r.sendError(sess, cmd.Command, err.Error())
		return
	}
	if err := r.inflight.Acquire(cmd.UnitID); err != nil {
		r.sendError(sess, cmd.Command, err.Error())
		return
	}
	defer r.inflight.Release(cmd.UnitID)

	attacker := r.b.UnitByID(cmd.UnitID)
	target := r.b.UnitByID(cmd.TargetUnitID)
	switch {
	case r.b.Status != battle.StatusActive:
		r.sendError(sess, cmd.Command, engine.ErrBattleNotActive.Error())
		return
	case r.b.ActiveUnitID != attacker.ID:
		r.sendError(sess, cmd.Command, engine.ErrUnitNotActive.Error())
		return
	case target == nil || !target.IsAlive || target.OwnerID == attacker.OwnerID:
		r.sendError(sess, cmd.Command, engine.ErrInvalidTarget.Error())
		return
	case !geometry.Adjacent(attacker.Position, target.Position):
		r.sendError(sess, cmd.Command, engine.ErrTargetOutOfRange.Error())
		return
	}
	if err := engine.CanUseAbilities(attacker); err != nil {
		r.sendError(sess, cmd.Command, err.Error())
		return
	}
	if err := engine.ConsumeAttackResource(attacker); err != nil {
		r.sendError(sess, cmd.Command, err.Error())
		return
	}
	outcome := engine.ResolveAttack(r.roller, attacker, target, engine.AttackSpec{
		DamageType: battle.DamagePhysical,
		Multiplier: 1,
	})
	r.broadcast(events.TypeUnitAttacked, events.UnitAttacked{
		AttackerID: attacker.ID,
		TargetID:   target.ID,
		Outcome:    outcome,
	})
	r.afterMutation(attacker)
}

func (r *Room) handleAbility(cmd events.Command, sess Session, spell bool) {
	if err := r.ownsUnit(cmd); err != nil {
		r.sendError(sess, cmd.Command, err.Error())
		return
	}
	if err := r.inflight.Acquire(cmd.UnitID); err != nil {
		r.sendError(sess, cmd.Command, err.Error())
		return
	}
	defer r.inflight.Release(cmd.UnitID)

	res, err := engine.UseAbility(r.b, r.roller, r.cfg, engine.AbilityRequest{
		CasterID:         cmd.UnitID,
		Code:             cmd.Code,
		TargetUnitID:     cmd.TargetUnitID,
		TargetObstacleID: cmd.TargetObstacleID,
		TargetPosition:   cmd.TargetPosition,
		Spell:            spell,
	})
	if err != nil {
		r.sendError(sess, cmd.Command, err.Error())
		return
	}
	eventType := events.TypeSkillUsed
	if spell {
		eventType = events.TypeSpellCast
	}
	r.broadcast(eventType, events.AbilityUsed{Result: *res})
	if res.ObstacleDestroyed {
		r.broadcast(events.TypeObstacleDestroyed, events.ObstacleDestroyed{
			ObstacleID: res.ObstacleID,
			ByUnitID:   cmd.UnitID,
		})
	}
	r.afterMutation(r.b.UnitByID(cmd.UnitID))
}

func (r *Room) handlePreview(cmd events.Command, sess Session) {
	caster := r.b.UnitByID(cmd.UnitID)
	if caster == nil {
		r.sendError(sess, cmd.Command, engine.ErrUnitNotFound.Error())
		return
	}
	def, ok := r.cfg.Ability(cmd.Code)
	if !ok {
		r.sendError(sess, cmd.Command, engine.ErrUnknownAbility.Error())
		return
	}
	tcfg := engine.ResolveTargeting(def, caster.Attributes)
	preview := engine.CalculateTargetingPreview(r.b, tcfg, caster, cmd.Hover)
	r.sendTo(sess, events.TypeTargetingPreview, events.TargetingPreviewResult{
		Code:    cmd.Code,
		Preview: preview,
	})
}

func (r *Room) handleEndTurn(cmd events.Command, sess Session) {
	if err := r.ownsUnit(cmd); err != nil {
		r.sendError(sess, cmd.Command, err.Error())
		return
	}
	res, err := engine.EndTurn(r.b, cmd.UnitID)
	if err != nil {
		r.sendError(sess, cmd.Command, err.Error())
		return
	}
	r.applyTurnResult(res)
}

func (r *Room) handleSurrender(cmd events.Command, sess Session) {
	res, err := engine.Surrender(r.b, cmd.PlayerID)
	if err != nil {
		r.sendError(sess, cmd.Command, err.Error())
		return
	}
	r.finishBattle(res.WinnerID, res.EndReason)
}

// afterMutation runs the shared post-command checks: a mid-turn kill can
// decide the battle, and a unit with nothing left to spend ends its turn
// automatically.
func (r *Room) afterMutation(u *battle.Unit) {
	if res, ended := engine.CheckVictory(r.b); ended {
		r.finishBattle(res.WinnerID, res.EndReason)
		return
	}
	if u != nil && r.b.ActiveUnitID == u.ID && engine.Exhausted(u) {
		res, err := engine.EndTurn(r.b, u.ID)
		if err == nil {
			r.applyTurnResult(res)
			return
		}
	}
	r.persist()
}

// applyTurnResult broadcasts everything EndTurn produced and resets the
// turn timer for the next entry.
func (r *Room) applyTurnResult(res *engine.TurnResult) {
	r.broadcast(events.TypeUnitTurnEnded, events.UnitTurnEnded{Result: *res})
	if res.BattleEnded {
		r.finishBattle(res.WinnerID, res.EndReason)
		return
	}
	if res.NewRound {
		r.broadcast(events.TypeNewRound, events.NewRound{
			Round: res.Round,
			Units: r.b.Units,
			Ticks: res.Ticks,
		})
	}
	r.broadcast(events.TypeNextPlayer, events.NextPlayer{
		PlayerID:   res.NextPlayerID,
		OrderIndex: res.OrderIndex,
		Round:      r.b.Round,
	})
	r.remaining = r.cfg.TurnSeconds
	r.persist()
}

func (r *Room) finishBattle(winnerID, reason string) {
	for _, unitID := range service.RecoverProtections(r.b) {
		u := r.b.UnitByID(unitID)
		r.broadcast(events.TypeProtectionRecovered, events.ProtectionRecovered{
			UnitID:             u.ID,
			PhysicalProtection: u.PhysicalProtection,
			MagicalProtection:  u.MagicalProtection,
		})
	}
	r.broadcast(events.TypeBattleEnded, events.BattleEnded{
		WinnerID:   winnerID,
		Reason:     reason,
		FinalUnits: r.b.Units,
	})

	r.rec.ActionDeadline = nil
	if err := r.rec.EncodeState(r.b); err != nil {
		logging.Error("failed to encode final battle state", err, logging.Fields{
			constants.LogFieldBattleID: r.b.ID,
		})
		return
	}
	if !r.rec.StatsCounted {
		if err := r.repo.UpdateStatsOnBattleEnd(r.rec); err != nil {
			logging.Error("failed to update player stats", err, logging.Fields{
				constants.LogFieldBattleID: r.b.ID,
			})
		} else {
			r.rec.StatsCounted = true
		}
	}
	if err := r.repo.UpdateBattle(r.rec); err != nil {
		logging.Error("failed to persist ended battle", err, logging.Fields{
			constants.LogFieldBattleID: r.b.ID,
		})
	}
	logging.Info("battle ended", logging.Fields{
		constants.LogFieldBattleID: r.b.ID,
		"winner_id":                winnerID,
		"reason":                   reason,
	})
}

func (r *Room) handleRematch(cmd events.Command, sess Session) {
	if r.b.Status != battle.StatusEnded {
		r.sendError(sess, cmd.Command, "battle is still running")
		return
	}
	if r.rematch[cmd.PlayerID] {
		return
	}
	r.rematch[cmd.PlayerID] = true
	r.broadcast(events.TypeRematchRequested, events.RematchRequested{PlayerID: cmd.PlayerID})
	for _, k := range r.b.Kingdoms {
		if !r.rematch[k.PlayerID] {
			return
		}
	}
	r.startRematch(sess)
}

// handleDeclineRematch dismisses the result for the sender and drops every
// pending rematch request; a later request starts the handshake over.
func (r *Room) handleDeclineRematch(cmd events.Command, sess Session) {
	if r.b.Status != battle.StatusEnded {
		r.sendError(sess, cmd.Command, "battle is still running")
		return
	}
	r.rematch = make(map[string]bool)
	r.broadcast(events.TypeRematchDeclined, events.RematchDeclined{PlayerID: cmd.PlayerID})
}

// startRematch rebuilds the same matchup from the config templates on a
// fresh battle id and swaps the room over to it.
func (r *Room) startRematch(sess Session) {
	nb := &battle.Battle{
		ID:       uuid.NewString(),
		Bounds:   r.cfg.ArenaBounds,
		Kingdoms: append([]battle.Kingdom(nil), r.b.Kingdoms...),
		Status:   battle.StatusWaitingForPlayers,
	}
	for i := range r.b.Units {
		old := &r.b.Units[i]
		tpl, ok := r.cfg.Unit(old.Name)
		if !ok {
			r.sendError(sess, events.CmdRematch, "roster unit no longer available: "+old.Name)
			return
		}
		u := battle.NewUnit(uuid.NewString(), old.OwnerID, tpl.Name, tpl.Category,
			tpl.Attributes, geometry.Point{}, append([]string(nil), tpl.Abilities...))
		u.DamageReduction = tpl.DamageReduction
		nb.Units = append(nb.Units, u)
	}
	for _, o := range r.cfg.Obstacles {
		nb.Obstacles = append(nb.Obstacles, battle.Obstacle{
			ID:           uuid.NewString(),
			Position:     o.Position,
			Destructible: o.Destructible,
			HP:           o.HP,
		})
	}
	if err := service.StartBattle(nb); err != nil {
		r.sendError(sess, events.CmdRematch, err.Error())
		return
	}

	newRec := &storage.BattleRecord{
		ID:       nb.ID,
		JoinCode: nb.ID,
		HostID:   r.rec.HostID,
		GuestID:  r.rec.GuestID,
		Private:  true,
	}
	if err := newRec.EncodeState(nb); err != nil {
		r.sendError(sess, events.CmdRematch, constants.ErrFailedCreate)
		return
	}
	if err := r.repo.CreateBattle(newRec); err != nil {
		logging.Error("failed to persist rematch", err, logging.Fields{
			constants.LogFieldBattleID: nb.ID,
		})
		r.sendError(sess, events.CmdRematch, constants.ErrFailedCreate)
		return
	}

	oldID := r.b.ID
	r.b = nb
	r.rec = newRec
	r.rematch = make(map[string]bool)
	r.remaining = r.cfg.TurnSeconds
	if r.onRekey != nil {
		r.onRekey(oldID, nb.ID)
	}
	r.broadcast(events.TypeRematchStarted, events.RematchStarted{BattleID: nb.ID, Battle: nb})
	r.persist()
}

// persist writes the current engine state through to storage and pushes
// the inactivity deadline forward while the battle runs.
func (r *Room) persist() {
	if err := r.rec.EncodeState(r.b); err != nil {
		logging.Error("failed to encode battle state", err, logging.Fields{
			constants.LogFieldBattleID: r.b.ID,
		})
		return
	}
	if r.b.Status == battle.StatusActive {
		deadline := time.Now().Add(time.Duration(r.cfg.InactivityMinutes) * time.Minute)
		r.rec.ActionDeadline = &deadline
	}
	if err := r.repo.UpdateBattle(r.rec); err != nil {
		logging.Error("failed to persist battle state", err, logging.Fields{
			constants.LogFieldBattleID: r.b.ID,
		})
	}
}

func (r *Room) broadcast(eventType string, payload interface{}) {
	ev, err := events.NewEnvelope(eventType, payload)
	if err != nil {
		logging.Error("failed to encode event", err, logging.Fields{constants.LogFieldEvent: eventType})
		return
	}
	for _, sess := range r.sessions {
		sess.Send(ev)
	}
}

func (r *Room) broadcastExcept(playerID, eventType string, payload interface{}) {
	ev, err := events.NewEnvelope(eventType, payload)
	if err != nil {
		logging.Error("failed to encode event", err, logging.Fields{constants.LogFieldEvent: eventType})
		return
	}
	for pid, sess := range r.sessions {
		if pid == playerID {
			continue
		}
		sess.Send(ev)
	}
}

func (r *Room) sendTo(sess Session, eventType string, payload interface{}) {
	ev, err := events.NewEnvelope(eventType, payload)
	if err != nil {
		logging.Error("failed to encode event", err, logging.Fields{constants.LogFieldEvent: eventType})
		return
	}
	sess.Send(ev)
}

func (r *Room) sendError(sess Session, command, message string) {
	if sess == nil {
		return
	}
	r.sendTo(sess, events.TypeError, events.Error{Command: command, Message: message})
}
