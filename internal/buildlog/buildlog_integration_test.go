//go:build integration

package buildlog

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/textgraph/internal/config"
	"github.com/agenthands/textgraph/internal/core/model"
)

func TestMySQLRoundTrip(t *testing.T) {
	_ = godotenv.Load("../../.env")

	dsn := os.Getenv("MYSQL_DSN")
	if dsn == "" {
		t.Skip("Skipping integration test: MYSQL_DSN not set")
	}
	store, err := Open(config.MySQLConfig{DSN: dsn}, logrus.StandardLogger())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	sessionID := "it-" + uuid.New().String()
	for i := 0; i < 3; i++ {
		require.NoError(t, store.RecordBuild(ctx, model.BuildSummary{
			BuildID: uuid.New().String(), SessionID: sessionID, Entities: i,
		}))
	}

	rows, err := store.ListBuilds(ctx, sessionID, 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, StatusSucceeded, r.Status)
	}
}
