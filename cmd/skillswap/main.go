package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Freeeeeet/skillswap/internal/app"
	"github.com/Freeeeeet/skillswap/internal/config"
	"github.com/Freeeeeet/skillswap/internal/controller"
	"github.com/Freeeeeet/skillswap/internal/controller/httpapi"
	"github.com/Freeeeeet/skillswap/internal/model"
	"github.com/Freeeeeet/skillswap/internal/notify"
	"github.com/Freeeeeet/skillswap/internal/repository"
	"github.com/Freeeeeet/skillswap/internal/repository/memory"
	"github.com/Freeeeeet/skillswap/internal/service"
	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

type stores struct {
	users         service.UserStore
	skills        service.SkillStore
	requests      service.RequestStore
	sessions      service.SessionStore
	notifications service.NotificationStore
	close         func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Application stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting skillswap",
		zap.String("environment", cfg.Environment),
		zap.String("storage", cfg.Storage),
		zap.String("http_addr", cfg.HTTPAddr),
	)

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	// Каналы доставки уведомлений
	var (
		pushers []notify.Pusher
		tgBot   *bot.Bot
	)
	if cfg.TelegramEnabled() {
		tgBot, err = bot.New(cfg.TelegramToken)
		if err != nil {
			return err
		}
		pushers = append(pushers, notify.NewTelegramPusher(tgBot, st.users))
	}
	if cfg.RedisEnabled() {
		rdb, err := app.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer rdb.Close()
		pushers = append(pushers, notify.NewRedisPusher(rdb))
	}

	worker := notify.NewWorker(cfg.NotifyQueueSize, logger.Named("notify"), pushers...)
	// Воркер живёт дольше ctx, чтобы при остановке дослать очередь
	worker.Start(context.Background())
	defer worker.Stop()

	clock := service.SystemClock{}
	notificationService := service.NewNotificationService(
		st.notifications, st.requests, st.sessions, st.skills, worker, clock, logger,
	)
	userService := service.NewUserService(st.users, logger)
	requestService := service.NewRequestService(st.requests, st.users, st.skills, notificationService, clock, logger)
	sessionService := service.NewSessionService(st.sessions, st.requests, st.users, notificationService, clock, logger)
	skillService := service.NewSkillService(st.skills, st.users, notificationService, clock, logger)

	if tgBot != nil {
		botController := controller.NewBotController(tgBot, userService, notificationService, logger)
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands were not registered", zap.Error(err))
		}
		go botController.Start(ctx)
	}

	handlers := httpapi.NewHandlers(userService, requestService, sessionService, notificationService, skillService, logger)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(handlers, cfg.CORSOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.Storage == config.StorageMemory {
		store := memory.NewStore()
		seedDemo(store)
		logger.Warn("Using in-memory storage, data is lost on restart")
		return &stores{
			users:         store.Users(),
			skills:        store.Skills(),
			requests:      store.Requests(),
			sessions:      store.Sessions(),
			notifications: store.Notifications(),
			close:         func() {},
		}, nil
	}

	pool, err := app.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return nil, err
	}

	migrator, err := app.NewMigrator(pool, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &stores{
		users:         repository.NewUserRepository(pool),
		skills:        repository.NewSkillRepository(pool),
		requests:      repository.NewRequestRepository(pool),
		sessions:      repository.NewSessionRepository(pool),
		notifications: repository.NewNotificationRepository(pool),
		close:         pool.Close,
	}, nil
}

// seedDemo заполняет in-memory хранилище, чтобы API было с чем вызвать
func seedDemo(store *memory.Store) {
	now := time.Now().UTC()

	store.AddUser(&model.User{Username: "alice", FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", CreatedAt: now})
	store.AddUser(&model.User{Username: "bob", FirstName: "Bob", LastName: "Jones", Email: "bob@example.com", CreatedAt: now})

	category := store.AddCategory(&model.SkillCategory{Name: "Programming", Description: "Software development"})
	store.AddSkill(&model.Skill{CategoryID: category.ID, Name: "Go", Level: model.SkillLevelIntermediate, CreatedAt: now})
	store.AddSkill(&model.Skill{CategoryID: category.ID, Name: "SQL", Level: model.SkillLevelBeginner, CreatedAt: now})
}
