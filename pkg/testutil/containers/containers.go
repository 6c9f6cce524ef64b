//go:build integration

// Package containers starts the Postgres instance shared by the integration
// suites of a test binary.
package containers

import (
	"context"
	"sync"
	"testing"

	"github.com/testcontainers/testcontainers-go"
)

// Manager starts the container on first request and hands the same instance
// to every later caller. A failed start is remembered so the remaining suites
// fail fast instead of retrying.
type Manager struct {
	once     sync.Once
	postgres *PostgresContainer
	err      error
}

var globalManager = &Manager{}

// GetManager returns the process-wide manager.
func GetManager() *Manager {
	return globalManager
}

// GetPostgres returns the shared Postgres container with migrations applied.
// The test is skipped under -short or when no container runtime answers.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	m.once.Do(func() {
		m.postgres, m.err = startPostgres(context.Background())
	})
	if m.err != nil {
		t.Fatalf("postgres container: %v", m.err)
	}
	return m.postgres
}
