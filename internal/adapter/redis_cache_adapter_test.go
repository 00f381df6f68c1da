package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Neel-Ganatra/playpower/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheAdapter_Get(t *testing.T) {
	client, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(client)
	ctx := context.Background()

	mock.ExpectGet("key1").SetVal("value1")

	val, err := adapter.Get(ctx, "key1")
	require.NoError(t, err)
	assert.Equal(t, "value1", val)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Get_MissTranslatesToErrCacheMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(client)

	mock.ExpectGet("missing").RedisNil()

	_, err := adapter.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCacheAdapter_Get_PropagatesOtherErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(client)

	mock.ExpectGet("key1").SetErr(errors.New("connection reset"))

	_, err := adapter.Get(context.Background(), "key1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCacheAdapter_SetAndDelete(t *testing.T) {
	client, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(client)
	ctx := context.Background()

	mock.ExpectSet("key1", "value1", 5*time.Minute).SetVal("OK")
	mock.ExpectDel("key1").SetVal(1)

	require.NoError(t, adapter.Set(ctx, "key1", "value1", 5*time.Minute))
	require.NoError(t, adapter.Delete(ctx, "key1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	client, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(client)

	mock.ExpectPing().SetVal("PONG")

	assert.NoError(t, adapter.Ping(context.Background()))
}
