package artifacts

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePage struct {
	shot    []byte
	content string
	fail    bool
}

func (p *fakePage) Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error) {
	if p.fail {
		return nil, errors.New("target closed")
	}
	return p.shot, nil
}

func (p *fakePage) Content() (string, error) {
	if p.fail {
		return "", errors.New("target closed")
	}
	return p.content, nil
}

func newTestCapturer(t *testing.T) (*Capturer, string) {
	t.Helper()
	dir := t.TempDir()
	backend, err := NewFilesystemBackend(dir)
	require.NoError(t, err)
	c := NewCapturer(backend)
	c.now = func() time.Time { return time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC) }
	return c, dir
}

func TestCaptureScreenshotWritesFileAndURI(t *testing.T) {
	c, dir := newTestCapturer(t)
	page := &fakePage{shot: []byte("png-bytes")}

	path, uri := c.CaptureScreenshot(page, "test_book_purchase[iPhone X]", "checkout", true)
	require.NotEmpty(t, path)
	require.NotEmpty(t, uri)

	assert.True(t, strings.HasPrefix(uri, "file://"), "uri %q", uri)
	assert.Equal(t, "test_book_purchase_iPhone_X_checkout_error_20260314-103000.png", filepath.Base(path))

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(path)))
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)
}

func TestCapturePageSourceWritesHTML(t *testing.T) {
	c, _ := newTestCapturer(t)
	page := &fakePage{content: "<html></html>"}

	path, uri := c.CapturePageSource(page, "test_plans", "", false)
	require.NotEmpty(t, path)
	assert.True(t, strings.HasSuffix(path, "test_plans_20260314-103000.html"))
	assert.NotEmpty(t, uri)
}

func TestCaptureDriverFailureYieldsEmptyReference(t *testing.T) {
	c, _ := newTestCapturer(t)

	path, uri := c.CaptureScreenshot(&fakePage{fail: true}, "test_x", "", true)
	assert.Empty(t, path)
	assert.Empty(t, uri)

	path, uri = c.CaptureScreenshot(nil, "test_x", "", true)
	assert.Empty(t, path)
	assert.Empty(t, uri)
}

func TestArtifactNameSanitizesAndCaps(t *testing.T) {
	at := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)

	name := artifactName(`test/with:bad*chars?`, "stage one", false, at)
	assert.Equal(t, "test_with_bad_chars_stage_one_20260314-103000", name)

	long := strings.Repeat("a", 300)
	capped := artifactName(long, "", false, at)
	assert.Equal(t, maxStemLen+len("_20060102-150405"), len(capped))
}

func TestFilesystemBackendCleanup(t *testing.T) {
	dir := t.TempDir()
	backend, err := NewFilesystemBackend(dir)
	require.NoError(t, err)

	old := filepath.Join(dir, "old.png")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o644))
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, stale, stale))
	_, err = backend.Store("fresh.png", []byte("y"))
	require.NoError(t, err)

	removed := backend.Cleanup(24 * time.Hour)
	assert.Equal(t, 1, removed)
	_, err = os.Stat(old)
	assert.True(t, os.IsNotExist(err))
}
