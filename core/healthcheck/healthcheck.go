// Package healthcheck runs liveness and readiness probes over dependency checks.
package healthcheck

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/graphedit/core/logger"
)

// Status values reported by Run.
const (
	StatusAlive = "ALIVE"
	StatusReady = "READY"
)

// ErrNotReady is returned when at least one dependency check fails.
var ErrNotReady = errors.New("service not ready")

// Check verifies one dependency, for example pg.Healthcheck(pool).
type Check func(context.Context) error

// Run acts as a liveness probe when no checks are given and returns StatusAlive.
//
// With checks it acts as a readiness probe: each check runs in order, every
// failure is logged, and the joined failures are returned wrapped in
// ErrNotReady. StatusReady is returned when all checks pass.
//
//	status, err := healthcheck.Run(ctx, log,
//		pg.Healthcheck(pool),
//		redis.Healthcheck(client),
//	)
func Run(ctx context.Context, log *slog.Logger, checks ...Check) (string, error) {
	if len(checks) == 0 {
		return StatusAlive, nil
	}
	if log == nil {
		log = slog.Default()
	}

	var errs []error
	for i, check := range checks {
		if check == nil {
			continue
		}
		if err := check(ctx); err != nil {
			log.ErrorContext(ctx, "Readiness check failed", logger.Count("check", i), logger.Error(err))
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return "", errors.Join(append([]error{ErrNotReady}, errs...)...)
	}
	return StatusReady, nil
}
