package main

import (
	"context"
	"net/http"

	"DuelPoker/config"
	"DuelPoker/internal/auth"
	"DuelPoker/internal/dispatcher"
	"DuelPoker/internal/game/registry"
	"DuelPoker/internal/game/score"
	"DuelPoker/internal/lobby"
	"DuelPoker/internal/middleware"
	"DuelPoker/internal/stats"
	"DuelPoker/internal/storage"
	"DuelPoker/internal/utils"
	"DuelPoker/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	utils.Init()

	if err := config.Load(); err != nil {
		utils.Log.Fatal("failed to load config", "err", err)
	}
	cfg := config.Cfg

	scorer := score.ByName(cfg.Game.Scorer)
	reg := registry.New(scorer)

	hub := websocket.NewHub()
	go hub.Run()

	ctx := context.Background()

	// Lobby directory: redis when configured, in-memory otherwise.
	var lobbyRepo lobby.Repo
	if cfg.Redis.Addr != "" {
		rdb, err := storage.NewRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			utils.Log.Fatal("failed to connect to redis", "err", err)
		}
		lobbyRepo = lobby.NewRedisRepo(rdb)
		utils.Log.Info("lobby backed by redis", "addr", cfg.Redis.Addr)
	} else {
		lobbyRepo = lobby.NewMemoryRepo()
		utils.Log.Info("lobby backed by memory")
	}
	lobbySvc := lobby.NewService(lobbyRepo, cfg.Lobby.TTLSeconds)

	// Round-result recorder: postgres when configured, noop otherwise.
	var recorder stats.Recorder = stats.Noop{}
	if cfg.Database.DSN != "" {
		db, err := storage.NewPostgres(cfg.Database.DSN)
		if err != nil {
			utils.Log.Fatal("failed to connect to postgres", "err", err)
		}
		pg := stats.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			utils.Log.Fatal("failed to ensure stats schema", "err", err)
		}
		recorder = pg
		utils.Log.Info("round results recorded to postgres")
	}

	disp := dispatcher.New(hub, reg, lobbySvc, recorder)
	hub.OnIncoming = disp.Enqueue
	hub.OnDisconnect = disp.Disconnected
	go disp.Run()

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	secret := []byte(cfg.JWT.Secret)
	r.POST("/auth/login", auth.NewHandler(secret).Login)

	authed := r.Group("/", middleware.JwtAuthMiddleware(secret))
	authed.GET("/ws", websocket.ServeWS(hub))
	authed.GET("/rooms", lobby.NewHandler(lobbySvc).List)

	utils.Log.Info("server starting", "port", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		utils.Log.Fatal("server exited", "err", err)
	}
}
