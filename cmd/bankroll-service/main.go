package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/betflow/bankroll-tracker/internal/bankroll-service/advisor"
	bhttp "github.com/betflow/bankroll-tracker/internal/bankroll-service/http"
	"github.com/betflow/bankroll-tracker/internal/bankroll-service/producer"
	"github.com/betflow/bankroll-tracker/internal/bankroll-service/pubsub"
	"github.com/betflow/bankroll-tracker/internal/bankroll-service/state"
	"github.com/betflow/bankroll-tracker/internal/bankroll-service/store"
	"github.com/betflow/bankroll-tracker/internal/shared/cache"
	"github.com/betflow/bankroll-tracker/internal/shared/config"
	"github.com/betflow/bankroll-tracker/internal/shared/db"
	"github.com/betflow/bankroll-tracker/internal/shared/logger"
	"github.com/betflow/bankroll-tracker/internal/shared/metrics"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis: broadcast de mudanças de estado e, por padrão, o slot store
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var slotStore store.SlotStore
	healthFn := func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

	switch cfg.StoreBackend {
	case "postgres":
		pg, err := db.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("pg", zap.Error(err))
		}
		defer pg.Close()

		pgStore := store.NewPostgres(pg)
		if err := pgStore.EnsureSchema(ctx); err != nil {
			log.Fatal("pg schema", zap.Error(err))
		}
		slotStore = pgStore
		healthFn = func(ctx context.Context) error {
			if err := pg.PingContext(ctx); err != nil {
				return err
			}
			return rdb.Ping(ctx).Err()
		}
	default:
		slotStore = store.NewRedis(rdb)
	}

	// Kafka opcional: emite bet_settled quando há brokers configurados
	var publ state.SettledPublisher
	if cfg.KafkaBrokers != "" {
		writer := &kafkago.Writer{
			Addr:                   kafkago.TCP(strings.Split(cfg.KafkaBrokers, ",")...),
			Topic:                  cfg.TopicBetSettled,
			Balancer:               &kafkago.LeastBytes{},
			AllowAutoTopicCreation: true,
		}
		defer writer.Close()
		publ = producer.NewKafkaPublisher(writer)
	}

	bcast := pubsub.NewRedisBroadcaster(rdb, cfg.RedisPubSubChannel)

	manager := state.NewManager(log, slotStore, bcast, publ)
	manager.Load(ctx)

	gemini := advisor.NewClient(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel)
	adv := advisor.NewService(log, gemini, cfg.AdvisorLanguage)

	// metrics/health em porta separada
	metrics.StartServer(cfg.MetricsPort, healthFn)
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	api := bhttp.NewServer(log, manager, adv)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = apiSrv.Shutdown(shutdownCtx)
	}()

	log.Info("bankroll-service listening", zap.String("addr", fmt.Sprintf(":%s", cfg.HTTPPort)))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
