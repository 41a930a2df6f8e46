package main

import (
	"os"
	"time"

	"github.com/lucasmdrs/warbound/internal/api"
	"github.com/lucasmdrs/warbound/internal/arena"
	"github.com/lucasmdrs/warbound/internal/config"
	"github.com/lucasmdrs/warbound/internal/constants"
	"github.com/lucasmdrs/warbound/internal/logging"
	"github.com/lucasmdrs/warbound/internal/service"
	"github.com/lucasmdrs/warbound/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load the battle configuration file (required). Path may be provided
	// via WARBOUND_CONFIG or defaults to ./warbound_config.json in the
	// current working directory.
	configPath := os.Getenv(constants.EnvConfigPath)
	if configPath == "" {
		configPath = "./warbound_config.json"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logging.Fatal("Missing or invalid warbound configuration", err, logging.Fields{
			"config_path": configPath,
			"hint":        "create a warbound_config.json with 'ability_list' and 'unit_list' arrays and optional keys: server.address, arena{width,height,obstacles}, turn_seconds, disconnect_grace_seconds, engagement_cost, inactivity_minutes",
		})
	}

	// Allow the DB path to be configured via WARBOUND_DB. Default to a
	// `data/` directory inside the module for local development.
	dbPath := os.Getenv(constants.EnvDBPath)
	if dbPath == "" {
		dbPath = "./data/warbound.db"
	}
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}

	repo := storage.NewSQLiteRepository(db)
	manager := arena.NewManager(repo, cfg)
	handler := api.NewBattleHandler(repo, cfg, manager)

	// Background sweeper: battles whose inactivity deadline passed are
	// forfeited against the idle player. Battles with a live room are
	// skipped; their room owns the state and pushes the deadline itself.
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			now := time.Now()
			recs, err := repo.FindTimedOutBattles(now)
			if err != nil {
				logging.Error("timeout sweeper failed", err, nil)
				continue
			}
			for i := range recs {
				rec := &recs[i]
				if _, live := manager.Peek(rec.ID); live {
					continue
				}
				if err := service.HandleTimedOutBattle(repo, rec); err != nil {
					logging.Error("failed to expire battle", err, logging.Fields{
						constants.LogFieldBattleID: rec.ID,
					})
				}
			}
		}
	}()

	router := gin.Default()

	apiRoutes := router.Group(constants.RouteAPIPrefix)
	{
		apiRoutes.GET(constants.RouteHealth, handler.Health)
		apiRoutes.GET(constants.RouteVersion, handler.Version)
		apiRoutes.GET(constants.RouteLeaderboard, handler.ListLeaderboard)

		apiRoutes.POST(constants.RouteBattles, handler.CreateBattle)
		apiRoutes.GET(constants.RouteBattles, handler.ListOpenBattles)
		apiRoutes.POST(constants.RouteBattlesJoin, handler.JoinBattle)
		apiRoutes.GET(constants.RouteBattleByID, handler.GetBattle)
		apiRoutes.GET(constants.RouteBattleWS, handler.BattleSocket)
	}

	logging.Info("starting warbound server", logging.Fields{constants.LogFieldAddr: cfg.ServerAddress})
	if err := router.Run(cfg.ServerAddress); err != nil {
		logging.Fatal("server exited", err, nil)
	}
}
