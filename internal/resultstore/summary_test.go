package resultstore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeModule(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"tests.test_checkout", "checkout"},
		{"tests.smoke", "smoke"},
		{"test.foo", "foo"},
		{"plain_module", "plain_module"},
		// Only the first matching prefix is stripped.
		{"tests.test_tests.inner", "tests.inner"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, NormalizeModule(c.in), "module %q", c.in)
	}
}

func TestSummarizeKnownExceptionPatterns(t *testing.T) {
	cases := []struct {
		name   string
		detail string
		want   string
	}{
		{
			"no such element",
			"NoSuchElementException: unable to locate button\nstack trace...",
			"unable to locate button",
		},
		{
			"timeout",
			"TimeoutException: button not clickable",
			"button not clickable",
		},
		{
			"message token",
			"something went wrong\nMessage: element detached from DOM\nmore context",
			"element detached from DOM",
		},
		{
			"assertion",
			"AssertionError: expected total 29.99 got 0.00",
			"expected total 29.99 got 0.00",
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Summarize(c.detail))
		})
	}
}

func TestSummarizeFallsBackToFirstLine(t *testing.T) {
	assert.Equal(t, "plain failure text", Summarize("plain failure text\nsecond line"))
	assert.Equal(t, "", Summarize(""))
}

func TestSummarizeCapsAt250(t *testing.T) {
	long := strings.Repeat("x", 400)
	assert.Len(t, Summarize(long), 250)
	assert.Len(t, Summarize("TimeoutException: "+long), 250)
}
