package health

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"origenmx-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// DBPinger is optional for the health check. If nil, database is reported as
// disconnected.
type DBPinger interface {
	Ping() error
}

// CollectResult is the /health/json payload.
type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64  `json:"uptimeSeconds"`
	HeapUsedMB    int    `json:"heapUsedMb"`
	Goroutines    int    `json:"goroutines"`
	Platform      string `json:"platform"`
	GoVersion     string `json:"goVersion"`
}

type TrafficInfo struct {
	TotalRequests   int    `json:"totalRequests"`
	SuccessCount    int    `json:"successCount"`
	FailedCount     int    `json:"failedCount"`
	SuccessRate     string `json:"successRate"`
	AvgResponseTime int64  `json:"avgResponseTime"`
}

type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

// Collect gathers health data from the DB, Redis, and the traffic counters
// maintained by middleware.RequestStats.
func Collect(ctx context.Context, rdb *redis.Client, db DBPinger) CollectResult {
	result := CollectResult{
		Dependencies: make(map[string]DepStatus),
		Traffic:      TrafficInfo{SuccessRate: "100"},
	}

	dbStatus := "disconnected"
	var dbPing *int64
	if db != nil {
		start := time.Now()
		if err := db.Ping(); err == nil {
			ms := time.Since(start).Milliseconds()
			dbPing = &ms
			dbStatus = "connected"
		} else {
			dbStatus = "error"
		}
	}
	result.Dependencies["database"] = DepStatus{Status: dbStatus, PingMs: dbPing}

	redisStatus := "disconnected"
	var redisPing *int64
	startMs := time.Now().UnixMilli()
	if rdb != nil {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err == nil {
			ms := time.Since(start).Milliseconds()
			redisPing = &ms
			redisStatus = "connected"

			total, _ := rdb.Get(ctx, middleware.KeyReqTotal).Int()
			errs, _ := rdb.Get(ctx, middleware.KeyReqErrors).Int()
			resTime, _ := rdb.Get(ctx, middleware.KeyResTime).Float64()
			resCount, _ := rdb.Get(ctx, middleware.KeyResCount).Int()
			if v, err := rdb.Get(ctx, middleware.KeyStartTime).Int64(); err == nil {
				startMs = v
			}

			result.Traffic.TotalRequests = total
			result.Traffic.FailedCount = errs
			result.Traffic.SuccessCount = total - errs
			if total > 0 {
				result.Traffic.SuccessRate = fmt.Sprintf("%.1f", float64(total-errs)/float64(total)*100)
			}
			if resCount > 0 {
				result.Traffic.AvgResponseTime = int64(resTime / float64(resCount))
			}
		} else {
			redisStatus = "error"
		}
	}
	result.Dependencies["redis"] = DepStatus{Status: redisStatus, PingMs: redisPing}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	result.Runtime = RuntimeInfo{
		UptimeSeconds: (time.Now().UnixMilli() - startMs) / 1000,
		HeapUsedMB:    int(mem.HeapAlloc / 1024 / 1024),
		Goroutines:    runtime.NumGoroutine(),
		Platform:      runtime.GOOS + "/" + runtime.GOARCH,
		GoVersion:     runtime.Version(),
	}

	result.Status = "ok"
	if dbStatus == "error" || redisStatus == "error" {
		result.Status = "degraded"
	}
	return result
}
