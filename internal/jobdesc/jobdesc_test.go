package jobdesc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const samplePage = `<!DOCTYPE html>
<html>
<body>
  <h1>Backend Engineer</h1>
  <p>We are looking for a backend engineer.</p>
  <ul>
    <li>Go experience</li>
    <li>  SQL knowledge  </li>
  </ul>
  <div>ignored text</div>
</body>
</html>`

func TestExtract(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(samplePage))
	}))
	defer ts.Close()

	fetcher := NewFetcher(zap.NewNop())
	text, err := fetcher.Extract(context.Background(), ts.URL)
	require.NoError(t, err)

	assert.Equal(t, "We are looking for a backend engineer. Go experience SQL knowledge", text)
}

func TestExtractNoTextNodes(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><body><div>only divs here</div></body></html>`))
	}))
	defer ts.Close()

	fetcher := NewFetcher(zap.NewNop())
	text, err := fetcher.Extract(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestExtractBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	fetcher := NewFetcher(zap.NewNop())
	_, err := fetcher.Extract(context.Background(), ts.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status")
}
