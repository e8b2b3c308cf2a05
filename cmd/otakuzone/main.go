package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/Hany173g/OtakuZone-sub001/config"
	"github.com/Hany173g/OtakuZone-sub001/logger"
	"github.com/Hany173g/OtakuZone-sub001/middleware"
	commenth "github.com/Hany173g/OtakuZone-sub001/module/comment"
	grouph "github.com/Hany173g/OtakuZone-sub001/module/group"
	messageh "github.com/Hany173g/OtakuZone-sub001/module/message"
	notificationh "github.com/Hany173g/OtakuZone-sub001/module/notification"
	topich "github.com/Hany173g/OtakuZone-sub001/module/topic"
	userh "github.com/Hany173g/OtakuZone-sub001/module/user"
	"github.com/Hany173g/OtakuZone-sub001/service/mgo"
	"github.com/Hany173g/OtakuZone-sub001/service/realtime"
	"github.com/Hany173g/OtakuZone-sub001/service/storage"
	redisstore "github.com/Hany173g/OtakuZone-sub001/service/storage/redis"
	"github.com/Hany173g/OtakuZone-sub001/tools/ids"
)

func main() {
	cfg := config.Load()
	logger.Configure(cfg.Production())
	ids.SetNodeID(1)

	ctx := context.Background()
	if err := mgo.Connect(ctx, mgo.Config{
		URI:         cfg.MongoURI,
		Database:    cfg.MongoDB,
		MaxPoolSize: 20,
	}); err != nil {
		log.Fatalf("mongo connect failed: %v", err)
	}
	db := mgo.GetDB()

	// Redis only backs online presence; the forum runs without it.
	var presence *storage.Presence
	if cfg.RedisAddr != "" {
		if err := redisstore.Init(redisstore.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
		}); err != nil {
			logger.Warn("redis unavailable, presence tracking off")
		} else {
			presence = storage.NewPresence(redisstore.Get(), cfg.SocketTTL)
		}
	}

	// The publish handle every module gets. Without a running gateway it
	// stays the no-op implementation and publishing silently does nothing.
	var pub realtime.Publisher = realtime.NopPublisher{}
	var gw *realtime.Gateway
	if cfg.RealtimeEnabled() {
		gw = realtime.NewGateway(realtime.Options{
			JWT:        cfg.SocketJWT(),
			Presence:   presence,
			Production: cfg.Production(),
		})
		pub = gw
	}

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	if gw != nil {
		r.GET("/realtime", gw.HandleWS)
	}

	auth := middleware.Auth(cfg.SessionJWT())
	api := middleware.NewRouter(r.Group("/api"), auth)

	api.GET("/realtime/token", realtime.TokenHandler(cfg.SocketJWT()), middleware.RouteOpt{IsAuth: true})

	(&userh.Handler{DB: db, JWT: cfg.SessionJWT(), Production: cfg.Production()}).Register(api)
	(&topich.Handler{DB: db}).Register(api)
	(&commenth.Handler{DB: db, Pub: pub}).Register(api)
	(&messageh.Handler{DB: db, Pub: pub}).Register(api)
	(&notificationh.Handler{DB: db}).Register(api)
	(&grouph.Handler{DB: db, Pub: pub}).Register(api)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Infof("[HTTP] listening on %s (realtime=%v)", addr, gw != nil)
	if err := r.Run(addr); err != nil {
		log.Fatalf("HTTP server failed: %v", err)
	}
}
