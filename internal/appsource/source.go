package appsource

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// ErrApplicationNotFound is returned for an unknown application id.
var ErrApplicationNotFound = errors.New("application not found")

// Source fetches approved travel applications from the upstream system.
type Source interface {
	List(ctx context.Context) ([]Application, error)
	Fetch(ctx context.Context, id string) (*Application, error)
}

// MockSource serves a fixed application pool, delaying each fetch to stand in
// for upstream latency. The simulated latency has no failure branch.
type MockSource struct {
	pool    []Application
	latency time.Duration
	logger  *zap.Logger
}

// NewMockSource creates a source over the given pool.
func NewMockSource(pool []Application, latency time.Duration, logger *zap.Logger) *MockSource {
	return &MockSource{pool: pool, latency: latency, logger: logger}
}

// List returns every application in the pool.
func (s *MockSource) List(ctx context.Context) ([]Application, error) {
	return s.pool, nil
}

// Fetch returns the application with the given id after the simulated delay.
func (s *MockSource) Fetch(ctx context.Context, id string) (*Application, error) {
	s.logger.Debug("fetching application", zap.String("application_id", id))

	if s.latency > 0 {
		timer := time.NewTimer(s.latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	for i := range s.pool {
		if s.pool[i].ID == id {
			app := s.pool[i]
			return &app, nil
		}
	}
	return nil, ErrApplicationNotFound
}
