package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestPages(t *testing.T) {
	ts := newTestStack(t).serve(t)

	tests := []struct {
		name     string
		path     string
		status   int
		contains []string
	}{
		{
			name:     "home lists collections",
			path:     "/",
			status:   http.StatusOK,
			contains: []string{"Go Avance", "/presentations/go_avance"},
		},
		{
			name:     "collection page lists modules",
			path:     "/presentations/go_avance",
			status:   http.StatusOK,
			contains: []string{"My Module", "Suite"},
		},
		{
			name:     "deck page wires the navigation socket",
			path:     "/presentations/go_avance/presentation/01_intro",
			status:   http.StatusOK,
			contains: []string{"/ws/go_avance/01_intro", `id="slide-input"`},
		},
		{
			name:     "deck page accepts the file extension",
			path:     "/presentations/go_avance/presentation/01_intro.md",
			status:   http.StatusOK,
			contains: []string{"My Module"},
		},
		{
			name:     "support page",
			path:     "/presentations/go_avance/support/02_suite",
			status:   http.StatusOK,
			contains: []string{"Partie", "Encore"},
		},
		{
			name:     "unknown collection",
			path:     "/presentations/nope",
			status:   http.StatusNotFound,
			contains: []string{"Resource not found"},
		},
		{
			name:     "unknown module",
			path:     "/presentations/go_avance/presentation/99_missing",
			status:   http.StatusNotFound,
			contains: []string{"Resource not found"},
		},
		{
			name:   "unknown route",
			path:   "/nowhere",
			status: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path)
			assert.Equal(t, tt.status, resp.StatusCode)
			for _, want := range tt.contains {
				assert.Contains(t, body, want)
			}
		})
	}
}

func TestPages_SecurityHeaders(t *testing.T) {
	ts := newTestStack(t).serve(t)

	resp, _ := get(t, ts.URL+"/")
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Contains(t, resp.Header.Get("Content-Security-Policy"), "connect-src 'self' ws: wss:")
	assert.Equal(t, "text/html; charset=utf-8", resp.Header.Get("Content-Type"))
}

func TestPages_MethodNotAllowed(t *testing.T) {
	ts := newTestStack(t).serve(t)

	paths := []string{
		"/health",
		"/api/collections",
		"/api/collections/go_avance/modules/01_intro/deck",
		"/presentations/go_avance",
		"/presentations/go_avance/presentation/01_intro",
	}

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader("{}"))
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

			var errResp ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
			assert.Equal(t, "Method not allowed", errResp.Message)
		})
	}
}

func TestAPI_Collections(t *testing.T) {
	ts := newTestStack(t).serve(t)

	resp, body := get(t, ts.URL+"/api/collections")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var collections []entities.Collection
	require.NoError(t, json.Unmarshal([]byte(body), &collections))
	require.Len(t, collections, 1)
	assert.Equal(t, "go_avance", collections[0].ID)
	require.Len(t, collections[0].Modules, 2)
	assert.Equal(t, "01_intro", collections[0].Modules[0].Filename)

	resp, body = get(t, ts.URL+"/api/collections/go_avance")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var collection entities.Collection
	require.NoError(t, json.Unmarshal([]byte(body), &collection))
	assert.Equal(t, "Go Avance", collection.Name)
}

func TestAPI_Document(t *testing.T) {
	ts := newTestStack(t).serve(t)
	base := ts.URL + "/api/collections/go_avance/modules/02_suite/document"

	decode := func(body string) entities.Document {
		var doc entities.Document
		require.NoError(t, json.Unmarshal([]byte(body), &doc))
		return doc
	}

	resp, body := get(t, base)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	withSplits := decode(body)
	assert.Equal(t, "Suite", withSplits.Title)
	assert.Len(t, withSplits.Sections, 2)

	resp, body = get(t, base+"?splits=false")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode(body).Sections, 1)

	resp, _ = get(t, base+"?splits=maybe")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAPI_DeckIsSanitized(t *testing.T) {
	ts := newTestStack(t).serve(t)

	resp, body := get(t, ts.URL+"/api/collections/go_avance/modules/02_suite/deck")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var deck entities.Deck
	require.NoError(t, json.Unmarshal([]byte(body), &deck))
	require.NotEmpty(t, deck.Slides)

	for _, slide := range deck.Slides {
		assert.NotContains(t, slide.HTML, "<script")
		assert.NotContains(t, slide.HTML, "alert(1)")
	}
}

func TestAPI_Support(t *testing.T) {
	ts := newTestStack(t).serve(t)

	resp, body := get(t, ts.URL+"/api/collections/go_avance/modules/01_intro/support")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc entities.SupportDocument
	require.NoError(t, json.Unmarshal([]byte(body), &doc))
	assert.Equal(t, "My Module", doc.Title)
	require.NotNil(t, doc.Next)
	assert.Equal(t, "02_suite", doc.Next.Filename)

	resp, _ = get(t, ts.URL+"/api/collections/go_avance/modules/nope/support")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealth(t *testing.T) {
	ts := newTestStack(t).serve(t)

	resp, _ := get(t, ts.URL+"/api/collections/go_avance/modules/01_intro/deck")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = get(t, ts.URL+"/api/collections/go_avance/modules/99_missing/deck")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := get(t, ts.URL+"/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var health HealthResponse
	require.NoError(t, json.Unmarshal([]byte(body), &health))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, 1, health.Collections)
	assert.Zero(t, health.Sessions)
	assert.Zero(t, health.Clients)

	require.NotNil(t, health.Metrics)
	assert.Equal(t, int64(1), health.Metrics.DecksBuilt)
	assert.Equal(t, int64(1), health.Metrics.DeckFailures)
	assert.Positive(t, health.Metrics.SlidesCompiled)
	assert.GreaterOrEqual(t, health.Metrics.Requests, int64(1))

	require.NotNil(t, health.RenderCache)
	assert.Positive(t, health.RenderCache.Misses)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusFor(fmt.Errorf("x: %w", entities.ErrNotFound)))
	assert.Equal(t, http.StatusBadRequest, statusFor(fmt.Errorf("x: %w", entities.ErrInvalidSlide)))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}

func TestCreateHTMLSanitizer(t *testing.T) {
	p := createHTMLSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "heading anchors survive",
			input: `<h2 id="intro">Intro</h2>`,
			want:  `<h2 id="intro">Intro</h2>`,
		},
		{
			name:  "code language class survives",
			input: `<pre><code class="language-go">x := 1</code></pre>`,
			want:  `<pre><code class="language-go">x := 1</code></pre>`,
		},
		{
			name:  "scripts are removed",
			input: `<p>ok</p><script>alert(1)</script>`,
			want:  `<p>ok</p>`,
		},
		{
			name:  "javascript links lose their href",
			input: `<a href="javascript:alert(1)">x</a>`,
			want:  `x`,
		},
		{
			name:  "relative links are kept",
			input: `<a href="/presentations/go">go</a>`,
			want:  `<a href="/presentations/go">go</a>`,
		},
		{
			name:  "task list checkboxes survive",
			input: `<li><input checked="" disabled="" type="checkbox"> done</li>`,
			want:  `<li><input checked="" disabled="" type="checkbox"> done</li>`,
		},
		{
			name:  "event handlers are removed",
			input: `<img src="a.png" onerror="alert(1)">`,
			want:  `<img src="a.png">`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Sanitize(tt.input))
		})
	}
}
