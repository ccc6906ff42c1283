package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseURL         string // Postgres DSN; empty means embedded in-memory SQLite (demo mode, state resets on restart)
	RedisURL            string // optional; stats cache and request counters are skipped when unset
	FrontendURLEndsWith string
	DevPassword         string
	SeedDemoData        bool
	SimulateLatency     bool          // keep the UI's loading states honest in demo deployments
	ReadDelay           time.Duration // per-operation suspension for reads when SimulateLatency is on
	WriteDelay          time.Duration // per-operation suspension for writes when SimulateLatency is on
	OverdueSweepSpec    string        // cron spec for the overdue-installment sweep; empty disables
	StatsCacheTTL       time.Duration
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if env == "production" && viper.GetString("DATABASE_URL_PROD") != "" {
		dbURL = viper.GetString("DATABASE_URL_PROD")
	}

	readMs := viper.GetInt("READ_DELAY_MS")
	if readMs == 0 {
		readMs = 400
	}
	writeMs := viper.GetInt("WRITE_DELAY_MS")
	if writeMs == 0 {
		writeMs = 1200
	}

	cacheTTL := viper.GetInt("STATS_CACHE_TTL_SECONDS")
	if cacheTTL == 0 {
		cacheTTL = 30
	}

	sweep := viper.GetString("OVERDUE_SWEEP_CRON")
	if sweep == "" {
		sweep = "0 2 * * *"
	}

	seed := true
	if viper.IsSet("SEED_DEMO_DATA") {
		seed = viper.GetBool("SEED_DEMO_DATA")
	}

	return &Config{
		Env:                 env,
		Port:                port,
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		SeedDemoData:        seed,
		SimulateLatency:     viper.GetBool("SIMULATE_LATENCY"),
		ReadDelay:           time.Duration(readMs) * time.Millisecond,
		WriteDelay:          time.Duration(writeMs) * time.Millisecond,
		OverdueSweepSpec:    sweep,
		StatsCacheTTL:       time.Duration(cacheTTL) * time.Second,
	}, nil
}
