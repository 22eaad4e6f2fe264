package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"recipe-payments/internal/client"
	"recipe-payments/internal/config"
	"recipe-payments/internal/repository"
	"recipe-payments/internal/server"
	"recipe-payments/internal/service"
	"recipe-payments/internal/signature"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
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

	logger, err := newLogger(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// a missing secret silently breaks every payment confirmation, so be
	// loud about it at startup rather than at the first rejected callback
	if cfg.VNPay.HashSecret == "" {
		logger.Error("VNPAY_HASH_SECRET is not set; all vnpay callbacks will be rejected")
	}
	if cfg.MoMo.SecretKey == "" || cfg.MoMo.AccessKey == "" {
		logger.Error("MOMO_SECRET_KEY/MOMO_ACCESS_KEY is not set; all momo callbacks will be rejected")
	}

	db, err := client.InitMysqlClient(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}

	vnpaySigner := signature.NewVNPaySigner(cfg.VNPay.HashSecret)
	momoSigner := signature.NewMoMoSigner(cfg.MoMo.AccessKey, cfg.MoMo.SecretKey)
	vnpayClient := client.NewVNPayClient(&cfg.VNPay, vnpaySigner)
	momoClient := client.NewMoMoClient(&cfg.MoMo, momoSigner)

	orderRepo := repository.NewOrderRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	planRepo := repository.NewPlanRepository(db)
	paymentMethodRepo := repository.NewPaymentMethodRepository(db)

	subscriptionService := service.NewSubscriptionService(subscriptionRepo, planRepo, logger)
	paymentService := service.NewPaymentService(
		orderRepo,
		planRepo,
		paymentMethodRepo,
		subscriptionService,
		vnpaySigner,
		momoSigner,
		vnpayClient,
		momoClient,
		cfg.App.DeepLink,
		logger,
	)

	srv := server.NewServer(
		paymentService,
		subscriptionService,
		planRepo,
		paymentMethodRepo,
		cfg.Auth.JWTSecret,
		logger,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	logger.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info("signal received, starting graceful shutdown")

	if err := srv.Shutdown(); err != nil {
		logger.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}

func newLogger(logCfg *config.Log) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(logCfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	if logCfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
