// Package db opens the SQLite and Postgres backends and keeps their schemas current.
package db

import (
	"fmt"
	"log/slog"
	"time"
)

// retryInterval is the pause between connection attempts.
var retryInterval = 3 * time.Second

// ConnectWithRetry keeps calling opener until it succeeds or timeout elapses.
// Managed databases are often still starting when the container boots.
func ConnectWithRetry[T any](dsn string, timeout time.Duration, opener func(dsn string) (T, error)) (T, error) {
	deadline := time.Now().Add(timeout)
	for {
		conn, err := opener(dsn)
		if err == nil {
			return conn, nil
		}
		if time.Now().After(deadline) {
			var zero T
			return zero, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "interval", retryInterval)
		time.Sleep(retryInterval)
	}
}
