package health

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brisa-erp/brisa-erp/internal/authz"
)

func TestProberStatusTransitions(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := NewProber(nil, client, logger, time.Minute, time.Second)

	assert.Equal(t, authz.StatusChecking, p.Status())

	p.probe(context.Background())
	assert.Equal(t, authz.StatusConnected, p.Status())

	mr.Close()
	p.probe(context.Background())
	assert.Equal(t, authz.StatusDisconnected, p.Status())
}

func TestProberRetryNeverBlocks(t *testing.T) {
	p := NewProber(nil, nil, nil, time.Minute, time.Second)
	for i := 0; i < 5; i++ {
		p.Retry()
	}
}
