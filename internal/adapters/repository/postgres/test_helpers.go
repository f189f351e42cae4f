package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// tables truncated between sub tests, children first
var tables = []string{"file_record", "upload_session"}

func migrationsURL() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			u := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(dir, "db", "migrations"))}
			return u.String(), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found in any parent directory")
		}
		dir = parent
	}
}

// NewTestDB starts a migrated postgres container for t and returns it with a truncate func.
// The container is terminated when t finishes.
func NewTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container tests skipped in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "mediavault",
				"POSTGRES_PASSWORD": "mediavault",
				"POSTGRES_DB":       "mediavault_test",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("could not start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate postgres container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("could not read container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("could not read container port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://mediavault:mediavault@%s:%s/mediavault_test?sslmode=disable", host, port.Port())

	source, err := migrationsURL()
	if err != nil {
		t.Fatalf("could not locate migrations: %v", err)
	}
	m, err := migrate.New(source, dsn)
	if err != nil {
		t.Fatalf("failed to init migrate with %s: %v", source, err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		t.Fatalf("failed to run up migrations: %v", err)
	}
	_, _ = m.Close()

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("failed to connect to postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	truncate := func() {
		for _, table := range tables {
			if _, err := db.Exec("TRUNCATE TABLE " + table + " CASCADE"); err != nil {
				t.Fatalf("failed to truncate %s: %v", table, err)
			}
		}
	}
	return db, truncate
}
