package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// lazyClient builds a client without contacting a server; the v1 driver
// only dials on first operation.
func lazyClient(ctx context.Context, _ Options) (*mongo.Client, error) {
	return mongo.Connect(ctx, options.Client().ApplyURI("mongodb://127.0.0.1:1").SetServerSelectionTimeout(50*time.Millisecond))
}

func TestProviderConnectsOnce(t *testing.T) {
	calls := 0
	p := NewProvider(Options{Name: "vegistDB", Attempts: 3, RetryDelay: time.Millisecond})
	p.connect = func(ctx context.Context, o Options) (*mongo.Client, error) {
		calls++
		return lazyClient(ctx, o)
	}

	first, err := p.Database(context.Background())
	require.NoError(t, err)
	second, err := p.Database(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "vegistDB", first.Name())
	assert.Equal(t, 1, calls)
	require.NoError(t, p.Close(context.Background()))
}

func TestProviderRetriesThenCachesFailure(t *testing.T) {
	calls := 0
	boom := errors.New("no route to host")
	p := NewProvider(Options{Name: "vegistDB", Attempts: 2, RetryDelay: time.Millisecond})
	p.connect = func(context.Context, Options) (*mongo.Client, error) {
		calls++
		return nil, boom
	}

	_, err := p.Database(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, calls)

	_, again := p.Database(context.Background())
	assert.Equal(t, err, again)
	assert.Equal(t, 2, calls)
}

func TestProviderRecoversWithinRetryBudget(t *testing.T) {
	calls := 0
	p := NewProvider(Options{Name: "vegistDB", Attempts: 3, RetryDelay: time.Millisecond})
	p.connect = func(ctx context.Context, o Options) (*mongo.Client, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("server selection timeout")
		}
		return lazyClient(ctx, o)
	}

	db, err := p.Database(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, db)
	assert.Equal(t, 2, calls)
}

func TestProviderClosed(t *testing.T) {
	p := NewProvider(Options{Name: "vegistDB"})
	require.NoError(t, p.Close(context.Background()))
	require.NoError(t, p.Close(context.Background()))

	_, err := p.Database(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestProviderCloseDuringConnect(t *testing.T) {
	started, release := make(chan struct{}), make(chan struct{})
	p := NewProvider(Options{Name: "vegistDB", Attempts: 1})
	p.connect = func(ctx context.Context, o Options) (*mongo.Client, error) {
		close(started)
		<-release
		return lazyClient(ctx, o)
	}

	done := make(chan error, 1)
	go func() {
		_, err := p.Database(context.Background())
		done <- err
	}()

	<-started
	require.NoError(t, p.Close(context.Background()))
	close(release)

	assert.ErrorIs(t, <-done, ErrClosed)
	_, err := p.Database(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestEnsureIndexes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())
		assert.NoError(mt, EnsureIndexes(context.Background(), mt.DB))
	})

	mt.Run("duplicate data", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    11000,
			Message: "E11000 duplicate key error",
			Name:    "DuplicateKey",
		}))
		err := EnsureIndexes(context.Background(), mt.DB)
		assert.Error(mt, err)
		assert.Contains(mt, err.Error(), "create unique index")
	})
}
