package resultstore

import (
	"regexp"
	"strings"
)

// modulePrefixes are the test-path prefixes stripped from module
// names. Only the first matching prefix is removed, checked in order.
var modulePrefixes = []string{"tests.test_", "tests.", "test."}

// NormalizeModule strips a known test-path prefix from a module name.
func NormalizeModule(module string) string {
	for _, p := range modulePrefixes {
		if strings.HasPrefix(module, p) {
			return strings.TrimPrefix(module, p)
		}
	}
	return module
}

const summaryMaxLen = 250

// exceptionPatterns capture the human-readable text that follows a
// recognized exception class name (or a bare "Message:" token) in a
// raw failure dump. Checked in order; first match wins.
var exceptionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`NoSuchElementException:\s*(.+)`),
	regexp.MustCompile(`TimeoutException:\s*(.+)`),
	regexp.MustCompile(`ElementClickInterceptedException:\s*(.+)`),
	regexp.MustCompile(`ElementNotInteractableException:\s*(.+)`),
	regexp.MustCompile(`StaleElementReferenceException:\s*(.+)`),
	regexp.MustCompile(`WebDriverException:\s*(.+)`),
	regexp.MustCompile(`AssertionError:\s*(.+)`),
	regexp.MustCompile(`Message:\s*(.+)`),
}

// Summarize derives a short error summary from a free-text error
// detail: the first matching exception-signature capture, or the first
// line, capped at 250 characters.
func Summarize(detail string) string {
	if detail == "" {
		return ""
	}
	for _, re := range exceptionPatterns {
		if m := re.FindStringSubmatch(detail); m != nil {
			return truncateSummary(strings.TrimSpace(m[1]))
		}
	}
	first := detail
	if i := strings.IndexByte(detail, '\n'); i >= 0 {
		first = detail[:i]
	}
	return truncateSummary(strings.TrimSpace(first))
}

func truncateSummary(s string) string {
	if len(s) > summaryMaxLen {
		return s[:summaryMaxLen]
	}
	return s
}
