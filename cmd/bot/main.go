package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"eventbot/internal/adapters/discord"
	"eventbot/internal/application"
	"eventbot/internal/config"
	"eventbot/internal/infrastructure/database"
	"eventbot/internal/infrastructure/i18n"
	"eventbot/internal/infrastructure/lock"
	"eventbot/internal/infrastructure/logger"
	"eventbot/internal/infrastructure/memory"
	"eventbot/internal/infrastructure/metrics"
	"eventbot/internal/ports/output"
	"eventbot/pkg/temporal"
	"eventbot/pkg/tz"
)

type stores struct {
	events       output.EventRepository
	participants output.ParticipantRepository
	drafts       output.DraftRepository
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zapLogger); err != nil {
		zapLogger.Error("bot stopped", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) error {
	st, err := openStores(ctx, cfg, zapLogger)
	if err != nil {
		return err
	}
	defer st.close()

	loc, err := tz.Load(cfg.Timezone)
	if err != nil {
		return err
	}
	var composerOpts []temporal.Option
	if cfg.Locale == "ja" {
		composerOpts = append(composerOpts, temporal.WithNoClockLabel(" （時刻未設定）"))
	}
	composer := temporal.NewComposer(loc, composerOpts...)

	defaultPolicy, err := application.ParseEditPolicy(cfg.EditPolicy)
	if err != nil {
		return err
	}
	policy := application.NewScopePolicy(defaultPolicy, cfg.MemberScopes)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewPrometheus(registry)
	if cfg.MetricsAddr != "" {
		go metrics.Serve(ctx, cfg.MetricsAddr, registry, zapLogger)
	} else {
		zapLogger.Info("metrics endpoint disabled")
	}

	locker, closeLocker, err := newLocker(ctx, cfg, zapLogger)
	if err != nil {
		return err
	}
	defer closeLocker()

	eventService := application.NewEventService(st.events, policy, zapLogger)
	participantService := application.NewParticipantService(st.participants, st.events, recorder, zapLogger)
	creation := application.NewCreationWizard(st.drafts, composer, recorder, zapLogger)
	edit := application.NewEditWizard(st.drafts, st.events, policy, participantService, composer, recorder, zapLogger)
	engine := application.NewEngine(creation, edit, eventService, participantService, st.drafts, locker, zapLogger)

	translator := i18n.NewTranslator(cfg.Locale, zapLogger)
	renderer := discord.NewRenderer(translator, cfg.Locale, composer)

	bot, err := discord.NewBot(cfg.Token, cfg.GuildID, engine, renderer, zapLogger)
	if err != nil {
		return err
	}
	return bot.Start(ctx)
}

func openStores(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (*stores, error) {
	if cfg.StoreDriver == config.DriverMemory {
		zapLogger.Warn("using in-memory store, data is lost on restart")
		store := memory.NewStore()
		return &stores{
			events:       memory.NewEventRepository(store),
			participants: memory.NewParticipantRepository(store),
			drafts:       memory.NewDraftRepository(store),
			close:        func() {},
		}, nil
	}

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, zapLogger); err != nil {
		return nil, err
	}
	pool, err := database.NewPool(ctx, cfg.DatabaseURL, zapLogger)
	if err != nil {
		return nil, err
	}
	q := database.New(pool)
	return &stores{
		events:       database.NewEventRepository(q),
		participants: database.NewParticipantRepository(pool, q),
		drafts:       database.NewDraftRepository(pool, q),
		close:        pool.Close,
	}, nil
}

// newLocker shares per-user locks through Redis when REDIS_URL is set.
func newLocker(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (output.Locker, func(), error) {
	if cfg.RedisURL == "" {
		return lock.NewLocal(), func() {}, nil
	}
	client, err := lock.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	zapLogger.Info("redis connected")
	return lock.NewRedis(client, cfg.LockTTL, zapLogger), func() { _ = client.Close() }, nil
}
