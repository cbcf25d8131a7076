package database

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/flowcoach-api/internal/models"
)

func TestConnectSelectsSQLiteScheme(t *testing.T) {
	db, err := Connect("sqlite://file::memory:")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	require.True(t, db.Migrator().HasTable(&models.UseCaseSet{}))
	require.True(t, db.Migrator().HasTable("json_submissions"))
}

func TestConnectRejectsEmptyDSN(t *testing.T) {
	_, err := Connect("  ")
	require.Error(t, err)
}

func TestOptionalClientsAreNilWithoutURL(t *testing.T) {
	redisClient, err := ConnectRedis("")
	require.NoError(t, err)
	require.Nil(t, redisClient)

	natsConn, err := ConnectNATS("", "test")
	require.NoError(t, err)
	require.Nil(t, natsConn)
}
