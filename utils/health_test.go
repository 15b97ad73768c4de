package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type fakeMongo struct{ err error }

func (f fakeMongo) Ping(context.Context, *readpref.ReadPref) error { return f.err }

func TestHealthCheckAllUp(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectPing().SetVal("PONG")

	m := NewHealthMonitor(db, fakeMongo{})
	status := m.Check(context.Background())

	assert.True(t, status.Mongo)
	assert.True(t, status.Redis)
	assert.True(t, status.Healthy())
	assert.Equal(t, status, m.Status())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheckRedisDownIsDegraded(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectPing().SetErr(errors.New("connection refused"))

	status := NewHealthMonitor(db, fakeMongo{}).Check(context.Background())
	assert.False(t, status.Redis)
	assert.True(t, status.Healthy())
}

func TestHealthCheckMongoDownIsUnhealthy(t *testing.T) {
	db, mock := redismock.NewClientMock()
	mock.ExpectPing().SetVal("PONG")

	status := NewHealthMonitor(db, fakeMongo{err: errors.New("no primary")}).Check(context.Background())
	assert.False(t, status.Mongo)
	assert.False(t, status.Healthy())
}
