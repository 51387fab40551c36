package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"

	"practice-automation/internal/audit"
	"practice-automation/internal/auth"
	"practice-automation/internal/config"
	"practice-automation/internal/crm"
	"practice-automation/internal/directory"
	"practice-automation/internal/notify"
	"practice-automation/internal/orchestrator"
	"practice-automation/internal/ratelimit"
	"practice-automation/internal/tasks"
	"practice-automation/internal/taskstore"
	"practice-automation/pkg/logger"
	"practice-automation/pkg/utils"
)

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.App.Env)
	slog.SetDefault(log)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	authManager, err := auth.NewManager(cfg.Auth)
	if err != nil {
		log.Error("auth init failed", "err", err)
		os.Exit(1)
	}

	dir, err := directory.Load(cfg.Automation.DirectoryFile)
	if err != nil {
		log.Error("directory load failed", "err", err)
		os.Exit(1)
	}

	db, err := utils.OpenPostgres(rootCtx, "pgx", cfg.PostgresDSN(), utils.PostgresPoolConfig{})
	if err != nil {
		log.Error("postgres init failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	var rdb *redis.Client
	if cfg.RedisEnabled() {
		rdb, err = utils.OpenRedis(rootCtx, utils.RedisConfig{Addr: cfg.RedisAddr()})
		if err != nil {
			log.Error("redis init failed", "err", err)
			os.Exit(1)
		}
		defer rdb.Close()
	} else {
		log.Warn("redis not configured; lead locks and batch pacing are process-local")
	}

	auditSvc := audit.NewService(audit.NewPostgresRepo(db))
	orch := orchestrator.New(orchestrator.Deps{
		Destinations: dir,
		Team:         dir,
		Channels:     dir,
		Store:        taskstore.NewPostgresStore(db, cfg.Automation.TaskURLBase),
		Messenger:    newMessenger(cfg.Chat, log),
		Builder:      tasks.NewBuilder(cfg.Location(), cfg.Automation.CRMRecordURL),
		Audit:        orchestrator.AuditAdapter{Audit: auditSvc},
	})

	var (
		throttle orchestrator.Throttle = ratelimit.NewInterval(cfg.Automation.BatchInterval)
		locker   crm.Locker            = crm.NewMemoryLocker()
	)
	if rdb != nil {
		throttle = ratelimit.NewRedis(rdb, "automation:batch-gate", cfg.Automation.BatchInterval)
		locker = crm.NewRedisLocker(rdb, cfg.Automation.LeadLockTTL)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.Middleware(log))

	registerRoutes(r, routeDeps{
		Auth:      authManager,
		Processor: orch,
		Batch:     orchestrator.NewBatchRunner(orch, throttle),
		Builder:   orch.Builder,
		Audit:     auditSvc,
		Locker:    locker,
		CRMSecret: cfg.CRM.WebhookSecret,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Batches are paced at one lead per interval; leave room for MaxBatchLeads.
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("api listening", "addr", srv.Addr, "env", cfg.App.Env, "tiers", len(dir.Tiers))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-rootCtx.Done()
	log.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

func newMessenger(cfg config.ChatConfig, log *slog.Logger) orchestrator.Messenger {
	if cfg.WebhookURL == "" {
		log.Warn("CHAT_WEBHOOK_URL not set; notifications are logged only")
		return notify.LogMessenger{}
	}
	return notify.NewWebhookMessenger(cfg.WebhookURL, 10*time.Second)
}
