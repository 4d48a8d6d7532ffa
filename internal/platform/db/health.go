package db

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// PoolStats represents database connection pool statistics.
type PoolStats struct {
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
	Healthy         bool   `json:"healthy"`
	Error           string `json:"error,omitempty"`
}

// GetPoolStats returns connection pool statistics.
func GetPoolStats(pool *pgxpool.Pool) *PoolStats {
	stat := pool.Stat()
	return &PoolStats{
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
		Healthy:         stat.TotalConns() > 0,
	}
}

// Pinger is the subset of a pool the health check needs.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckPools pings every named pool and reports whether all of them answered.
func CheckPools(ctx context.Context, pools map[string]Pinger, stats func(name string) *PoolStats) (map[string]*PoolStats, bool) {
	names := make([]string, 0, len(pools))
	for name := range pools {
		names = append(names, name)
	}
	sort.Strings(names)

	healthy := true
	result := make(map[string]*PoolStats, len(pools))
	for _, name := range names {
		s := &PoolStats{}
		if stats != nil {
			if got := stats(name); got != nil {
				s = got
			}
		}
		if err := pools[name].Ping(ctx); err != nil {
			s.Healthy = false
			s.Error = err.Error()
			healthy = false
		} else {
			s.Healthy = true
		}
		result[name] = s
	}
	return result, healthy
}

// HealthHandler returns a handler reporting the health of the source and
// target connection pools.
func HealthHandler(pools map[string]*pgxpool.Pool) echo.HandlerFunc {
	pingers := make(map[string]Pinger, len(pools))
	for name, p := range pools {
		pingers[name] = p
	}
	stats := func(name string) *PoolStats { return GetPoolStats(pools[name]) }

	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		result, healthy := CheckPools(ctx, pingers, stats)
		if !healthy {
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status": "unhealthy",
				"pools":  result,
			})
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"status": "healthy",
			"pools":  result,
		})
	}
}
