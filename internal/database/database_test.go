package database_test

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/database"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/repository"
)

func withSearchPath(dsn, schema string) string {
	switch {
	case strings.Contains(dsn, "://") && strings.Contains(dsn, "?"):
		return dsn + "&search_path=" + schema
	case strings.Contains(dsn, "://"):
		return dsn + "?search_path=" + schema
	default:
		return dsn + " search_path=" + schema
	}
}

func TestOpen_FreshDatabaseHasNoReadings(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}

	admin, err := database.Connect(dsn)
	require.NoError(t, err)
	defer admin.Close()

	schema := fmt.Sprintf("it_open_%d", time.Now().UnixNano())
	_, err = admin.Exec("CREATE SCHEMA " + schema)
	require.NoError(t, err)
	t.Cleanup(func() { _, _ = admin.Exec("DROP SCHEMA " + schema + " CASCADE") })

	db, err := database.Open(withSearchPath(dsn, schema))
	require.NoError(t, err)
	defer db.Close()

	_, err = repository.New(db).LatestReading(context.Background())
	assert.ErrorIs(t, err, repository.ErrNoReadings)

	again, err := database.Open(withSearchPath(dsn, schema))
	require.NoError(t, err)
	again.Close()
}
