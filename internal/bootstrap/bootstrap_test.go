package bootstrap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}

func TestApp_Run(t *testing.T) {
	t.Run("hooks run after run returns", func(t *testing.T) {
		app := New(time.Second)
		closed := false
		app.AddCloser("db", closerFunc(func() error {
			closed = true
			return nil
		}))

		err := app.Run(context.Background(), func(ctx context.Context) error {
			return nil
		})
		require.NoError(t, err)
		assert.True(t, closed)
	})

	t.Run("run error wins over hook errors", func(t *testing.T) {
		app := New(time.Second)
		want := errors.New("listen failed")
		app.AddShutdownHook("server", func(ctx context.Context) error {
			return errors.New("already closed")
		})

		err := app.Run(context.Background(), func(ctx context.Context) error {
			return want
		})
		assert.ErrorIs(t, err, want)
	})

	t.Run("hooks run in reverse order on cancel", func(t *testing.T) {
		app := New(time.Second)
		var mu sync.Mutex
		var order []string
		for _, name := range []string{"db", "http client", "server"} {
			app.AddShutdownHook(name, func(ctx context.Context) error {
				mu.Lock()
				defer mu.Unlock()
				order = append(order, name)
				return nil
			})
		}

		ctx, cancel := context.WithCancel(context.Background())
		err := app.Run(ctx, func(ctx context.Context) error {
			cancel()
			<-ctx.Done()
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"server", "http client", "db"}, order)
	})

	t.Run("hook errors are joined", func(t *testing.T) {
		app := New(time.Second)
		first := errors.New("first")
		second := errors.New("second")
		app.AddShutdownHook("a", func(ctx context.Context) error { return first })
		app.AddShutdownHook("b", func(ctx context.Context) error { return second })

		err := app.Run(context.Background(), func(ctx context.Context) error { return nil })
		assert.ErrorIs(t, err, first)
		assert.ErrorIs(t, err, second)
	})

	t.Run("hooks get a deadline", func(t *testing.T) {
		app := New(50 * time.Millisecond)
		var deadline time.Time
		app.AddShutdownHook("server", func(ctx context.Context) error {
			deadline, _ = ctx.Deadline()
			return nil
		})

		require.NoError(t, app.Run(context.Background(), func(ctx context.Context) error { return nil }))
		assert.False(t, deadline.IsZero())
	})
}

func TestNew(t *testing.T) {
	assert.Equal(t, DefaultShutdownTimeout, New(0).shutdownTimeout)
	assert.Equal(t, time.Minute, New(time.Minute).shutdownTimeout)
}
