package signals

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeShutdowner struct {
	called   bool
	deadline bool
	err      error
}

func (f *fakeShutdowner) Shutdown(ctx context.Context) error {
	f.called = true
	_, f.deadline = ctx.Deadline()
	return f.err
}

func TestGracefulShutdown(t *testing.T) {
	t.Parallel()

	s := &fakeShutdowner{err: errors.New("busy")}
	GracefulShutdown(s, time.Second)
	assert.True(t, s.called)
	assert.True(t, s.deadline)

	assert.NotPanics(t, func() { GracefulShutdown(nil, time.Second) })
}

func TestWithSignalContextFollowsParent(t *testing.T) {
	t.Parallel()

	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := WithSignalContext(parent)
	defer cancel()

	cancelParent()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("signal context not canceled with parent")
	}
}
