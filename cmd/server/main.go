package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/quentinrf/tilt-monitor/internal/adapters/bluetooth"
	"github.com/quentinrf/tilt-monitor/internal/adapters/console"
	"github.com/quentinrf/tilt-monitor/internal/adapters/logfile"
	"github.com/quentinrf/tilt-monitor/internal/adapters/memory"
	"github.com/quentinrf/tilt-monitor/internal/adapters/mock"
	"github.com/quentinrf/tilt-monitor/internal/adapters/rest"
	"github.com/quentinrf/tilt-monitor/internal/ports"
)

func main() {
	// Initialize logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	log.Info().Msg("starting tilt monitor")

	// Read configuration from environment
	config := loadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Registry and durable reading log
	registry := memory.NewDeviceRegistry()
	readings := logfile.NewWriter(config.LogPath)
	log.Info().Str("log_path", config.LogPath).Msg("initialized reading log")

	// Websocket hub for live dashboard push
	hub := rest.NewHub()
	go hub.Run(ctx)

	// Ingest pipeline
	pipeline := ports.NewPipeline(registry, readings, hub)
	go pipeline.Run(ctx)

	// Scanner
	var scanner ports.Scanner
	switch config.ScannerType {
	case "ble":
		s, err := bluetooth.NewScanner()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize bluetooth scanner")
		}
		scanner = s
		log.Info().Msg("initialized bluetooth scanner")
	default:
		scanner = mock.NewFakeScanner(config.MockColors, config.MockInterval)
		log.Info().Strs("colors", config.MockColors).Msg("initialized mock scanner")
	}

	go func() {
		err := scanner.Scan(ctx, func(deviceID string, data []byte, rssi int) {
			pipeline.OnAdvertisement(ctx, deviceID, data, rssi)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Fatal().Err(err).Msg("scanner stopped")
		}
	}()

	// Optional console table
	if config.Console {
		renderer := console.NewRenderer(registry, config.RenderInterval)
		go renderer.Start(ctx)
	}

	// HTTP dashboard and API
	handler := rest.NewHandler(registry, hub)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.HTTPPort),
		Handler: handler.Router(),
	}

	go func() {
		log.Info().Str("port", config.HTTPPort).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to serve")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	// Graceful shutdown
	cancel() // Stop scanner, pipeline drain, hub, renderer

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}

	if failures := pipeline.LogFailures(); failures > 0 {
		log.Warn().Uint64("failures", failures).Msg("reading log appends failed during this run")
	}

	log.Info().Msg("server stopped")
}

// Config holds application configuration
type Config struct {
	HTTPPort       string
	ScannerType    string // "mock" | "ble"
	LogPath        string
	Console        bool
	RenderInterval time.Duration
	MockColors     []string
	MockInterval   time.Duration
}

// loadConfig reads configuration from environment variables
func loadConfig() Config {
	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "1234"
	}

	scannerType := os.Getenv("SCANNER_TYPE")
	if scannerType == "" {
		scannerType = "mock"
	}

	logPath := os.Getenv("LOG_PATH")
	if logPath == "" {
		logPath = "./readings.csv"
	}

	renderInterval := 2 * time.Second
	if intervalStr := os.Getenv("RENDER_INTERVAL"); intervalStr != "" {
		if d, err := time.ParseDuration(intervalStr); err == nil {
			renderInterval = d
		}
	}

	mockInterval := 2 * time.Second
	if intervalStr := os.Getenv("MOCK_INTERVAL"); intervalStr != "" {
		if d, err := time.ParseDuration(intervalStr); err == nil {
			mockInterval = d
		}
	}

	return Config{
		HTTPPort:       port,
		ScannerType:    scannerType,
		LogPath:        logPath,
		Console:        os.Getenv("CONSOLE") == "1",
		RenderInterval: renderInterval,
		MockColors:     []string{"Red", "Green"},
		MockInterval:   mockInterval,
	}
}
