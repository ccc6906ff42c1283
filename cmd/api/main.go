package main

import (
	"context"
	"fmt"

	"origenmx-backend/internal/app"
	"origenmx-backend/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config load: " + err.Error())
	}

	fiberApp, db, rdb, err := app.CreateApp(cfg)
	if err != nil {
		panic("app create: " + err.Error())
	}

	// Verify connections before printing startup logs.
	sqlDB, err := db.DB()
	if err != nil {
		panic("database: get DB: " + err.Error())
	}
	if err := sqlDB.Ping(); err != nil {
		panic("database connection failed: " + err.Error())
	}
	if cfg.DatabaseURL == "" {
		fmt.Println("Embedded SQLite ready (demo mode, state resets on restart)")
	} else {
		fmt.Println("Postgres connected")
	}
	if rdb != nil {
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			panic("Redis connection failed: " + err.Error())
		}
		fmt.Println("Redis connected")
	}
	fmt.Printf("Server running at http://localhost:%s\n", cfg.Port)
	fmt.Printf("Health check: http://localhost:%s/health/json\n", cfg.Port)
	fmt.Println("---")

	if err := fiberApp.Listen(":" + cfg.Port); err != nil {
		panic(err)
	}
}
