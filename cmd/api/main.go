package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"

	httpadp "microlend-backend/internal/adapter/http"
	authmw "microlend-backend/internal/adapter/middleware"
	"microlend-backend/internal/adapter/repository/gormrepo"
	"microlend-backend/internal/config"
	"microlend-backend/internal/infrastructure/cache"
	"microlend-backend/internal/infrastructure/db"
	"microlend-backend/internal/usecase/escrow"
	"microlend-backend/internal/usecase/funding"
	"microlend-backend/internal/usecase/liquidation"
	"microlend-backend/internal/usecase/loan"
	"microlend-backend/internal/usecase/repayment"
	"microlend-backend/internal/usecase/reputation"
)

const tokenTTL = 24 * time.Hour

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := cache.OpenRedis(ctx, cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	loanRepo := gormrepo.NewLoanRepository(gdb)
	tx := gormrepo.NewGormUoW(gdb)

	// The admin deploys the registry and hands minting rights to the engine.
	badges := reputation.NewUsecase(gormrepo.NewBadgeRepository(gdb), cfg.RegistryAdmin)
	if err := badges.TransferControl(cfg.RegistryAdmin, cfg.EngineAddress); err != nil {
		log.Fatalf("registry: %v", err)
	}
	esc := escrow.NewUsecase(gormrepo.NewEscrowRepository(gdb), tx)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger(), middleware.Recover())
	e.Validator = httpadp.NewValidator()

	httpadp.Register(e, httpadp.Handlers{
		Health:      httpadp.NewHandler(),
		Loans:       httpadp.NewLoanHandler(loan.NewUsecase(loanRepo, tx)),
		Funding:     httpadp.NewFundingHandler(funding.NewUsecase(loanRepo, gormrepo.NewContributionRepository(gdb), tx)),
		Repayment:   httpadp.NewRepaymentHandler(repayment.NewUsecase(loanRepo, tx, badges, esc, cfg.EngineAddress)),
		Liquidation: httpadp.NewLiquidationHandler(liquidation.NewUsecase(tx, esc)),
		Badges:      httpadp.NewBadgeHandler(badges),
		Balances:    httpadp.NewBalanceHandler(esc),
	},
		authmw.CallerAuth(authmw.NewTokenIssuer(cfg.JWTSecret, tokenTTL)),
		authmw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second),
	)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", authmw.HeaderRequestID, authmw.HeaderRequestAt},
		ExposedHeaders: []string{"Idempotent-Replay"},
	}).Handler(e)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
