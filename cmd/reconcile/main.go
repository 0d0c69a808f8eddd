package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/encore/internal/app"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	eventID := flag.String("event", "", "event to reconcile")
	flag.Parse()

	if *eventID == "" {
		logger.Error.Fatalf("Usage: reconcile -event <event id> [-config config.toml]")
	}

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to start service: %v", err)
	}
	defer service.Close()

	report, err := service.Reconciler.ReconcileEvent(context.Background(), *eventID)
	if err != nil {
		logger.Error.Fatalf("Failed to reconcile event %s: %v", *eventID, err)
	}

	logger.Info.Printf("Event %s reconciled at %s: %d created, %d existing, %d failed",
		report.EventID, time.Now().Format(service.Config.Display.TimestampFormat),
		report.Created, report.Existing, report.Failed)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		logger.Error.Fatalf("Failed to write report: %v", err)
	}
}
