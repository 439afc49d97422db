package main

import (
	"context"
	"time"

	"AProject/data/database/mgo/mongoutil"
	"AProject/global"
	"AProject/logger"
	"AProject/middleware"
	"AProject/module/attendance/handler"
	"AProject/module/attendance/intake"
	"AProject/module/attendance/ledger"
	"AProject/module/attendance/service"
	"AProject/service/natsx"
	"AProject/service/storage"
	"AProject/tools/ids"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg := global.Config()
	ids.SetNodeID(cfg.NodeID)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store := openStore(ctx, cfg)
	cancel()

	writer := ledger.NewWriter(store)
	svc := service.NewAttendance(store, cfg.Timezone, cfg.OrgName)

	if cfg.RedisAddr != "" {
		if err := storage.InitRedis(storage.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}); err != nil {
			// advisory cache only, the ledger stays authoritative
			logger.Warn("redis unavailable, presence cache disabled", zap.Error(err))
		}
	}

	var relay *intake.Relay
	if servers := cfg.NatsServerList(); len(servers) > 0 {
		nc, err := natsx.NewNatsxClient(natsx.NatsxConfig{
			Servers: servers,
			Name:    "attendance-ledger",
		})
		if err != nil {
			logger.Log.Fatal("nats connect failed", zap.Error(err))
		}
		if err := intake.RegisterRoute(nc, cfg.NatsSubject, cfg.NatsDurable); err != nil {
			logger.Log.Fatal("nats route failed", zap.Error(err))
		}
		if err := intake.StartConsumer(nc, writer); err != nil {
			logger.Log.Fatal("nats consumer failed", zap.Error(err))
		}
		relay = intake.NewRelay(nc)
		logger.Info("relay intake enabled", zap.String("subject", cfg.NatsSubject))
	}

	h := handler.New(writer, svc, relay, cfg.WebhookSecret, cfg.MeetingListDays)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	middleware.POST(r, "/hook", h.HandleWebhook, middleware.RouteOpt{IsAuth: true, Secret: cfg.WebhookSecret})
	middleware.GET(r, "/meetings", h.HandleListMeetings, middleware.RouteOpt{})
	middleware.GET(r, "/meetings/:meeting_id", h.HandleListParticipants, middleware.RouteOpt{})
	middleware.GET(r, "/meetings/:meeting_id/live", h.HandleLiveCount, middleware.RouteOpt{})
	middleware.GET(r, "/sitemap.xml", h.HandleSitemap, middleware.RouteOpt{})
	middleware.GET(r, "/healthz", h.HandleHealthz, middleware.RouteOpt{})

	logger.Infof("listening on %s", cfg.ListenAddr)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logger.Log.Fatal("server stopped", zap.Error(err))
	}
}

// openStore connects the ledger backend. MONGO_URI=mem runs on the in-memory
// store for local pokes; everything else is Mongo with indexes ensured.
func openStore(ctx context.Context, cfg *global.AppConfig) ledger.Store {
	if cfg.MongoURI == "mem" {
		logger.Warn("running on the in-memory store, records will not survive a restart")
		return ledger.NewMemStore()
	}
	client, err := mongoutil.NewMongoDB(ctx, &mongoutil.Config{
		Uri:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
	})
	if err != nil {
		logger.Log.Fatal("mongo connect failed", zap.Error(err))
	}
	ms := ledger.NewMongoStore(client.GetDB())
	if err := ms.EnsureIndexes(ctx); err != nil {
		logger.Log.Fatal("mongo indexes failed", zap.Error(err))
	}
	return ms
}
