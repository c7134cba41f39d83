package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "text/html", result.ContentType)
	assert.Equal(t, DefaultUserAgent, gotAgent)
}

func TestURL_InvalidURL(t *testing.T) {
	for _, raw := range []string{"not-a-valid-url", "ftp://example.com/job", "file:///etc/passwd"} {
		t.Run(raw, func(t *testing.T) {
			_, err := URL(context.Background(), raw, nil)
			require.Error(t, err)

			var fetchErr *Error
			assert.ErrorAs(t, err, &fetchErr)
			assert.Contains(t, err.Error(), "invalid URL")
		})
	}
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestURL_CustomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.Header.Get("Accept-Language")))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Headers = map[string]string{"Accept-Language": "en-US"}
	result, err := URL(context.Background(), server.URL, opts)
	require.NoError(t, err)
	assert.Equal(t, "en-US", result.HTML)
}

func TestURL_Canceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := URL(ctx, server.URL, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExtractMainText(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		selectors []string
		noise     []string
		contains  []string
		excludes  []string
	}{
		{
			name: "Main element",
			html: `<html><body><nav>Navigation</nav><main><h1>Main Content</h1><p>This is the important text.</p></main>` +
				`<footer>Footer</footer></body></html>`,
			selectors: JobPostingSelectors(),
			contains:  []string{"Main Content", "important text"},
			excludes:  []string{"Navigation", "Footer"},
		},
		{
			name: "Job description class beats main",
			html: `<html><body><div class="sidebar">Sidebar junk</div><main><div class="job-description">` +
				`<h2>Requirements</h2><p>5 years experience in Go</p></div></main></body></html>`,
			selectors: JobPostingSelectors(),
			contains:  []string{"Requirements", "5 years experience in Go"},
			excludes:  []string{"Sidebar junk"},
		},
		{
			name:      "Fallback to body",
			html:      `<html><body><div>Some content here.</div></body></html>`,
			selectors: []string{".missing"},
			contains:  []string{"Some content here."},
		},
		{
			name:      "Noise selectors",
			html:      `<html><body><main><p>Build APIs</p><form>Upload your resume</form></main></body></html>`,
			selectors: JobPostingSelectors(),
			noise:     []string{"form"},
			contains:  []string{"Build APIs"},
			excludes:  []string{"Upload your resume"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ExtractMainText(tt.html, tt.selectors, tt.noise...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, text, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, text, s)
			}
		})
	}
}

func TestExtractMainText_ListItemsOnSeparateLines(t *testing.T) {
	text, err := ExtractMainText(`<main><ul><li>Go</li><li>Kubernetes</li></ul></main>`, JobPostingSelectors())
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Kubernetes"}, strings.Split(text, "\n"))
}

func TestCleanWhitespace(t *testing.T) {
	assert.Equal(t, "a b\nc", cleanWhitespace("  a   b \n\n\t\n c  "))
	assert.Empty(t, cleanWhitespace(" \n \n"))
}
