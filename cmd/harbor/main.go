package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/harborgroup/harbor-app/internal/config"
	"github.com/harborgroup/harbor-app/internal/controller"
	"github.com/harborgroup/harbor-app/internal/gateway"
	"github.com/harborgroup/harbor-app/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	gw := gateway.New(cfg.Backend, logger)

	loop := controller.NewLoop()
	go loop.Run()
	defer loop.Stop()

	auth := controller.NewAuthController(gw, loop, logger)
	tickets := controller.NewTicketListController(gw, loop, logger)
	resources := controller.NewResourceListController(gw, loop, logger)
	transactions := controller.NewTransactionController(gw, loop, logger)

	ctx := context.Background()

	email := os.Getenv("HARBOR_EMAIL")
	password := os.Getenv("HARBOR_PASSWORD")
	if email == "" || password == "" {
		logger.Fatal("HARBOR_EMAIL and HARBOR_PASSWORD are required")
	}

	if err := auth.SignIn(ctx, email, password); err != nil {
		logger.Fatal("sign-in failed", zap.String("detail", auth.State().ErrorMessage))
	}
	logger.Info("signed in", zap.String("email", auth.State().CurrentUser.Email))

	if err := tickets.Refresh(ctx); err != nil {
		logger.Warn("ticket sync failed", zap.String("detail", tickets.State().ErrorMessage))
	}
	if err := resources.Refresh(ctx); err != nil {
		logger.Warn("resource sync failed", zap.String("detail", resources.State().ErrorMessage))
	}
	if err := transactions.Refresh(ctx); err != nil {
		logger.Warn("transaction sync failed", zap.String("detail", transactions.State().ErrorMessage))
	}

	logger.Info("sync complete",
		zap.Int("tickets", len(tickets.State().Tickets)),
		zap.Int("resources", len(resources.State().Resources)),
		zap.Int("transactions", len(transactions.State().Transactions)))

	if err := auth.SignOut(ctx); err != nil {
		logger.Warn("sign-out failed", zap.Error(err))
	}
}
