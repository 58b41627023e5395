package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"winnerstore/internal/client"
	"winnerstore/internal/config"
	"winnerstore/internal/logger"
	"winnerstore/internal/repository"
	"winnerstore/internal/server"
	"winnerstore/internal/service"
	"winnerstore/internal/storage"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger("winnerstore-api", cfg.Log.Level, cfg.Log.Format)

	defaultPointValue, err := decimal.NewFromString(cfg.Points.DefaultPointValue)
	if err != nil {
		log.Fatalf("invalid POINTS_DEFAULT_POINT_VALUE: %v", err)
	}

	db := client.InitMysqlClient(cfg.DatabaseURL)
	notifyClient := client.NewNotifyClient(&cfg.Notify, log)

	store, err := storage.NewLocalStorage(cfg.Storage.Dir)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}

	affiliateRepo := repository.NewAffiliateRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	creditRepo := repository.NewCreditRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	proofRepo := repository.NewPaymentProofRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	methodRepo := repository.NewPaymentMethodRepository(db)
	contactRepo := repository.NewContactRepository(db)

	settingsService := service.NewSettingsService(settingsRepo, defaultPointValue)
	if err := settingsService.SeedDefaults(context.Background()); err != nil {
		log.Fatalf("seed business settings: %v", err)
	}

	affiliateService := service.NewAffiliateService(db, affiliateRepo, referralRepo)
	commissionService := service.NewCommissionService(db, affiliateRepo, referralRepo, commissionRepo, creditRepo, settingsService)
	creditsService := service.NewCreditsService(db, creditRepo, settingsService)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, methodRepo, store)
	orderService := service.NewOrderService(db, orderRepo, productRepo, proofRepo, creditsService, commissionService, store)
	withdrawalService := service.NewWithdrawalService(db, creditRepo, withdrawalRepo, settingsService)
	verificationService := service.NewVerificationService(db, orderRepo, proofRepo, productRepo, commissionService)
	contactService := service.NewContactService(contactRepo, notifyClient)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(server.Services{
		Affiliate:    affiliateService,
		Commission:   commissionService,
		Catalog:      catalogService,
		Order:        orderService,
		Credits:      creditsService,
		Withdrawal:   withdrawalService,
		Verification: verificationService,
		Settings:     settingsService,
		Contact:      contactService,
	}, cfg.Auth.JWTSecret, cfg.Storage.Dir)

	log.Infof("Starting HTTP server on %s", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("Signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("HTTP server shutdown error")
	}
}
