package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/stock-bot/internal/bot"
	"github.com/Spok95/stock-bot/internal/config"
	"github.com/Spok95/stock-bot/internal/dialog"
	"github.com/Spok95/stock-bot/internal/domain/barcode"
	"github.com/Spok95/stock-bot/internal/domain/product"
	"github.com/Spok95/stock-bot/internal/domain/stock"
	"github.com/Spok95/stock-bot/internal/guard"
	"github.com/Spok95/stock-bot/internal/infra/db"
	httpx "github.com/Spok95/stock-bot/internal/infra/http"
	"github.com/Spok95/stock-bot/internal/infra/logger"
	"github.com/Spok95/stock-bot/internal/kvstore"
	"github.com/Spok95/stock-bot/internal/ledger"
	"github.com/Spok95/stock-bot/internal/notify"
	"github.com/Spok95/stock-bot/internal/report"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/subosito/gotenv"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error("bad timezone", "tz", cfg.App.Timezone, "err", err)
		return
	}

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	// dialog state, locks and caches live in one keyed TTL store;
	// redis makes them shared across instances, memory is fine for one
	var kv kvstore.Store = kvstore.NewMemory()
	if cfg.Redis.Addr != "" {
		kv = kvstore.NewRedis(redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr}))
		log.Info("using redis keyed store", "addr", cfg.Redis.Addr)
	}

	api, err := linebot.New(cfg.Line.ChannelSecret, cfg.Line.ChannelToken)
	if err != nil {
		log.Error("line client failed", "err", err)
		return
	}

	lg := ledger.NewPG(pool)
	products := product.NewRepo(pool)
	barcodes := barcode.NewRepo(pool)
	stockSvc := stock.NewService(lg, kv, loc, cfg.App.CutoverHour, log)

	b := bot.New(
		bot.NewLineClient(api), log,
		dialog.NewStore(kv), dialog.NewSelections(kv),
		guard.NewDeduper(guard.NewPGDedupStore(pool), log),
		guard.NewOutboundLock(kv, log),
		stockSvc, lg, products, barcodes,
		notify.New(cfg.Notify.WebhookURL, log),
		cfg.App.Version,
	)

	webhook := bot.NewWebhook(b, api, log)
	reportH := report.NewHandler(log, report.NewBuilder(lg, products))

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, webhook, reportH)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
