package constants

// Centralized constants for env keys, routes, JSON keys and log fields.
const (
	// Environment variable keys
	EnvConfigPath = "WARBOUND_CONFIG"
	EnvDBPath     = "WARBOUND_DB"

	// HTTP routes
	RouteAPIPrefix   = "/api"
	RouteHealth      = "/health"
	RouteBattles     = "/battles"
	RouteBattlesJoin = "/battles/join"
	RouteBattleByID  = "/battles/:battleId"
	RouteBattleWS    = "/battles/:battleId/ws"
	RouteLeaderboard = "/leaderboard"
	RouteVersion     = "/version"

	// JSON keys
	JSONKeyError = "error"

	// Error message strings returned by the HTTP layer
	ErrInvalidRequest    = "invalid request"
	ErrInvalidBattleID   = "invalid battle id"
	ErrBattleNotFound    = "battle not found"
	ErrBattleFull        = "battle is full"
	ErrBattleNotWaiting  = "battle is not waiting for players"
	ErrPlayerNotInBattle = "player is not a participant of this battle"
	ErrFailedCreate      = "failed to create battle"
	ErrFailedJoin        = "failed to join battle"

	// Log field names
	LogFieldBattleID = "battle_id"
	LogFieldPlayerID = "player_id"
	LogFieldUnitID   = "unit_id"
	LogFieldRound    = "round"
	LogFieldAddr     = "addr"
	LogFieldEvent    = "event"
)
