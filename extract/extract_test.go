package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: serve a fixed HTML page
func serveHTML(t *testing.T, body string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

// Test helper: extract from a served page
func extractFrom(t *testing.T, body string) Result {
	server := serveHTML(t, body)
	return NewExtractor().Extract(context.Background(), server.URL)
}

// TestExtract_VisibleText verifies script/style stripping and newline joins
func TestExtract_VisibleText(t *testing.T) {
	result := extractFrom(t, `<html><head>
<title>Page Title</title>
<style>body { color: red; }</style>
<script>var hidden = "secret";</script>
</head><body>
<h1>Headline</h1>
<p>First paragraph.</p>
<p>Second paragraph.</p>
</body></html>`)

	require.False(t, result.Degraded)
	assert.Contains(t, result.Text, "Headline")
	assert.Contains(t, result.Text, "First paragraph.\nSecond paragraph.")
	assert.NotContains(t, result.Text, "secret", "script content should be stripped")
	assert.NotContains(t, result.Text, "color: red", "style content should be stripped")
}

// TestExtract_ClassImageBeatsSize verifies class-designated images win over
// larger size-qualified ones
func TestExtract_ClassImageBeatsSize(t *testing.T) {
	result := extractFrom(t, `<html><body>
<img src="B" width="400" height="400">
<img class="featured-thumb" src="A">
</body></html>`)

	require.NotNil(t, result.ImageURL)
	assert.Equal(t, "A", *result.ImageURL, "class match should take priority over size match")
}

// TestExtract_HeroClassCaseInsensitive verifies class matching ignores case
func TestExtract_HeroClassCaseInsensitive(t *testing.T) {
	result := extractFrom(t, `<html><body>
<img class="Hero-Banner" src="hero.jpg">
</body></html>`)

	require.NotNil(t, result.ImageURL)
	assert.Equal(t, "hero.jpg", *result.ImageURL)
}

// TestExtract_ClassImageWithoutSrcSkipped verifies a srcless class match
// falls through to the next candidate
func TestExtract_ClassImageWithoutSrcSkipped(t *testing.T) {
	result := extractFrom(t, `<html><body>
<img class="hero">
<img class="main-image" src="main.jpg">
</body></html>`)

	require.NotNil(t, result.ImageURL)
	assert.Equal(t, "main.jpg", *result.ImageURL)
}

// TestExtract_SizeQualifiedImage verifies the width/height threshold
func TestExtract_SizeQualifiedImage(t *testing.T) {
	result := extractFrom(t, `<html><body>
<img src="small.jpg" width="100" height="100">
<img src="big.jpg" width="300" height="300">
</body></html>`)

	require.NotNil(t, result.ImageURL)
	assert.Equal(t, "big.jpg", *result.ImageURL, "undersized images should be passed over")
}

// TestExtract_UndimensionedImageTakenFirst verifies the first-match policy
// for images with no declared dimensions
func TestExtract_UndimensionedImageTakenFirst(t *testing.T) {
	result := extractFrom(t, `<html><body>
<img src="first.jpg">
<img src="huge.jpg" width="900" height="900">
</body></html>`)

	require.NotNil(t, result.ImageURL)
	assert.Equal(t, "first.jpg", *result.ImageURL, "first match wins, not best match")
}

// TestExtract_IconAndSVGSkipped verifies .ico and .svg sources are ignored
func TestExtract_IconAndSVGSkipped(t *testing.T) {
	result := extractFrom(t, `<html><body>
<img src="favicon.ico">
<img src="logo.svg">
<img src="photo.jpg">
</body></html>`)

	require.NotNil(t, result.ImageURL)
	assert.Equal(t, "photo.jpg", *result.ImageURL)
}

// TestExtract_NoImage verifies pages without a usable image yield nil
func TestExtract_NoImage(t *testing.T) {
	result := extractFrom(t, `<html><body>
<p>Text only.</p>
<img src="favicon.ico">
</body></html>`)

	require.False(t, result.Degraded)
	assert.Nil(t, result.ImageURL)
}

// TestExtract_FetchFailureDegrades verifies an unreachable page degrades
// instead of erroring
func TestExtract_FetchFailureDegrades(t *testing.T) {
	result := NewExtractor().Extract(context.Background(), "http://127.0.0.1:1/page")

	assert.True(t, result.Degraded)
	assert.Empty(t, result.Text)
	assert.Nil(t, result.ImageURL)
}

// TestExtract_ServerErrorDegrades verifies a non-200 response degrades
func TestExtract_ServerErrorDegrades(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	t.Cleanup(server.Close)

	result := NewExtractor().Extract(context.Background(), server.URL)

	assert.True(t, result.Degraded)
}
