package artifacts

import (
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Page is the narrow slice of a live browser session the capturer
// needs. playwright.Page satisfies it.
type Page interface {
	Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error)
	Content() (string, error)
}

// Capturer produces screenshot and page-source artifacts through a
// storage backend.
type Capturer struct {
	backend Backend
	now     func() time.Time
}

func NewCapturer(backend Backend) *Capturer {
	return &Capturer{backend: backend, now: time.Now}
}

// CaptureScreenshot saves a full-page screenshot for the given test.
// Returns empty values when the driver call or the write fails.
func (c *Capturer) CaptureScreenshot(page Page, testName, stage string, isError bool) (string, string) {
	if page == nil {
		return "", ""
	}
	data, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		log.Printf("[artifacts] screenshot failed for %s: %v", testName, err)
		return "", ""
	}
	return c.store(artifactName(testName, stage, isError, c.now())+".png", data, testName)
}

// CapturePageSource saves the current DOM as an HTML dump.
func (c *Capturer) CapturePageSource(page Page, testName, stage string, isError bool) (string, string) {
	if page == nil {
		return "", ""
	}
	content, err := page.Content()
	if err != nil {
		log.Printf("[artifacts] page source failed for %s: %v", testName, err)
		return "", ""
	}
	return c.store(artifactName(testName, stage, isError, c.now())+".html", []byte(content), testName)
}

func (c *Capturer) store(name string, data []byte, testName string) (string, string) {
	ref, err := c.backend.Store(name, data)
	if err != nil {
		log.Printf("[artifacts] store failed for %s: %v", testName, err)
		return "", ""
	}
	return ref.Path, ref.URI
}

const maxStemLen = 150

var invalidFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// artifactName builds a filesystem-safe stem from test name, stage,
// error flag and timestamp.
func artifactName(testName, stage string, isError bool, at time.Time) string {
	parts := []string{sanitizeFilename(testName)}
	if stage != "" {
		parts = append(parts, sanitizeFilename(stage))
	}
	if isError {
		parts = append(parts, "error")
	}
	stem := strings.Join(parts, "_")
	if len(stem) > maxStemLen {
		stem = stem[:maxStemLen]
	}
	return stem + "_" + at.Format("20060102-150405")
}

func sanitizeFilename(s string) string {
	s = invalidFilenameChars.ReplaceAllString(s, "_")
	return strings.Trim(s, "_")
}
