package engine

import "errors"

// Validation errors are rejected synchronously back to the single
// requester; no state mutation occurs on any of them.
var (
	ErrBattleNotActive    = errors.New("battle is not active")
	ErrNotYourTurn        = errors.New("it is not this player's turn")
	ErrUnitNotFound       = errors.New("unit not found")
	ErrUnitDead           = errors.New("unit is not alive")
	ErrUnitNotActive      = errors.New("unit has not started its action")
	ErrAnotherUnitActive  = errors.New("another unit is already active")
	ErrUnitFrozen         = errors.New("unit is frozen and cannot act")
	ErrUnitGrappled       = errors.New("unit is grappled and cannot move")
	ErrMoveBlocked        = errors.New("path is blocked")
	ErrInsufficientMoves  = errors.New("not enough movement points")
	ErrNoActionsLeft      = errors.New("no actions left")
	ErrUnknownAbility     = errors.New("unknown ability code")
	ErrAbilityNotGranted  = errors.New("unit does not have this ability")
	ErrAbilityOnCooldown  = errors.New("ability is on cooldown")
	ErrInvalidTarget      = errors.New("invalid target")
	ErrTargetOutOfRange   = errors.New("target is out of range")
	ErrUnitBusy           = errors.New("a request for this unit is already in flight")
	ErrPlayerNotInBattle  = errors.New("player is not a participant of this battle")
	ErrObstacleNotFound   = errors.New("obstacle not found")
	ErrObstacleIndestruct = errors.New("obstacle is not destructible")
)
