package loop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunsInPostOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := New()
	go l.Run(ctx)

	var got []int
	for i := 0; i < 100; i++ {
		l.Post(func() { got = append(got, i) })
	}
	require.NoError(t, l.Do(ctx, func() {}))

	want := make([]int, 100)
	for i := range want {
		want[i] = i
	}
	assert.Equal(t, want, got)
}

func TestPostFromWorkIsQueuedBehind(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := New()
	go l.Run(ctx)

	var got []string
	require.NoError(t, l.Do(ctx, func() {
		l.Post(func() { got = append(got, "posted") })
		got = append(got, "first")
	}))
	require.NoError(t, l.Do(ctx, func() {}))
	assert.Equal(t, []string{"first", "posted"}, got)
}

func TestDoAfterStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	l := New()
	go l.Run(ctx)
	cancel()

	select {
	case <-l.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
	assert.ErrorIs(t, l.Do(context.Background(), func() {}), ErrStopped)
}

func TestInline(t *testing.T) {
	ran := false
	Inline(func() { ran = true })
	assert.True(t, ran)
}
