package main

import (
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Rotwang9000/chesstris/internal/game"
	"github.com/Rotwang9000/chesstris/internal/server"
)

func main() {
	// Optional .env for local runs; the platform sets real env vars.
	_ = godotenv.Load()

	def := game.DefaultConfig()
	var (
		port             = flag.String("port", getenv("PORT", "8000"), "listen port")
		env              = flag.String("env", getenv("ENV", "development"), "environment (development|production)")
		clearThreshold   = flag.Int("clear-threshold", getenvInt("CLEAR_THRESHOLD", def.ClearThreshold), "occupied cells per row that trigger a clear")
		transferFraction = flag.Float64("transfer-fraction", getenvFloat("TRANSFER_FRACTION", def.TransferFraction), "share of a defeated balance moved to the victor")
		moveInterval     = flag.Duration("move-interval", getenvDuration("MOVE_INTERVAL", def.MinActionInterval), "minimum gap between a player's actions")
		relocationRadius = flag.Int("relocation-radius", getenvInt("RELOCATION_RADIUS", def.RelocationRadius), "hop cap for orphan relocation")
		boundsPadding    = flag.Int("bounds-padding", getenvInt("BOUNDS_PADDING", def.BoundsPadding), "growth margin around board bounds")
		zoneDistance     = flag.Int("zone-distance", getenvInt("ZONE_DISTANCE", def.ZoneDistance), "distance from origin to home zones")
		startingBalance  = flag.Int64("starting-balance", getenvInt64("STARTING_BALANCE", def.StartingBalance), "balance granted on join")
	)
	flag.Parse()

	logger := newLogger(*env)
	defer logger.Sync()

	cfg := game.Config{
		ClearThreshold:    *clearThreshold,
		TransferFraction:  *transferFraction,
		MinActionInterval: *moveInterval,
		RelocationRadius:  *relocationRadius,
		BoundsPadding:     *boundsPadding,
		ZoneDistance:      *zoneDistance,
		ZoneGap:           def.ZoneGap,
		StartingBalance:   *startingBalance,
	}

	manager := game.NewManager(cfg, logger)

	broadcaster := server.NewBroadcaster(manager, logger)
	go broadcaster.Run()

	r := server.SetupRouter(manager, broadcaster, logger)
	logger.Info("server starting", zap.String("port", *port))
	if err := r.Run(":" + *port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newLogger(env string) *zap.Logger {
	if env == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			panic(err)
		}
		return logger
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	return logger
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getenvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
