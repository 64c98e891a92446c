package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMarkdownRenderer struct {
	mock.Mock
}

func (m *MockMarkdownRenderer) RenderHTML(ctx context.Context, markdown string) (string, error) {
	args := m.Called(ctx, markdown)
	return args.String(0), args.Error(1)
}

func TestCachedRenderer(t *testing.T) {
	ctx := context.Background()
	next := new(MockMarkdownRenderer)
	next.On("RenderHTML", ctx, "# A").Return("<h1>A</h1>", nil).Once()
	next.On("RenderHTML", ctx, "# B").Return("<h1>B</h1>", nil).Once()

	r := NewCachedRenderer(next, NewHTMLCache(1024), 0)
	assert.Equal(t, DefaultTTL, r.ttl)

	for i := 0; i < 3; i++ {
		html, err := r.RenderHTML(ctx, "# A")
		require.NoError(t, err)
		assert.Equal(t, "<h1>A</h1>", html)
	}

	html, err := r.RenderHTML(ctx, "# B")
	require.NoError(t, err)
	assert.Equal(t, "<h1>B</h1>", html)

	next.AssertExpectations(t)
	stats := r.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
}

func TestCachedRenderer_ErrorsAreNotCached(t *testing.T) {
	ctx := context.Background()
	next := new(MockMarkdownRenderer)
	next.On("RenderHTML", ctx, "bad").Return("", errors.New("boom")).Twice()

	r := NewCachedRenderer(next, NewHTMLCache(1024), time.Minute)

	_, err := r.RenderHTML(ctx, "bad")
	assert.Error(t, err)
	_, err = r.RenderHTML(ctx, "bad")
	assert.Error(t, err)

	next.AssertExpectations(t)
	assert.Zero(t, r.Stats().Size)
}
