// Package lifecycle wraps every test execution: it measures duration,
// classifies the outcome, captures failure artifacts and guarantees
// exactly one result-store record per test, no matter how the test
// body ends.
package lifecycle

import (
	"fmt"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/bookhaven-io/checkout-e2e/internal/artifacts"
	"github.com/bookhaven-io/checkout-e2e/internal/browser"
	"github.com/bookhaven-io/checkout-e2e/internal/models"
	"github.com/bookhaven-io/checkout-e2e/internal/resultstore"
)

// OutcomeSink receives the final record for one test.
// *resultstore.Store satisfies it.
type OutcomeSink interface {
	RecordAndCategorize(resultstore.OutcomeInput)
}

// Capturer produces failure artifacts. *artifacts.Capturer satisfies it.
type Capturer interface {
	CaptureScreenshot(page artifacts.Page, testName, stage string, isError bool) (string, string)
	CapturePageSource(page artifacts.Page, testName, stage string, isError bool) (string, string)
}

// Recorder is the per-session half of the fixture: one per test
// module, shared across that module's tests.
type Recorder struct {
	sink     OutcomeSink
	capturer Capturer
	module   string
	now      func() time.Time

	mu        sync.Mutex
	swallowed []resultstore.SoftError
}

func NewRecorder(sink OutcomeSink, capturer Capturer, module string) *Recorder {
	return &Recorder{sink: sink, capturer: capturer, module: module, now: time.Now}
}

// Swallowed returns enrichment failures the fixture absorbed.
func (r *Recorder) Swallowed() []resultstore.SoftError {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]resultstore.SoftError, len(r.swallowed))
	copy(out, r.swallowed)
	return out
}

func (r *Recorder) swallow(op string, err error) {
	log.Printf("[lifecycle] %s: %v", op, err)
	r.mu.Lock()
	r.swallowed = append(r.swallowed, resultstore.SoftError{Op: op, Err: err, At: r.now()})
	r.mu.Unlock()
}

// Fixture tracks one test invocation from Begin to Finish.
type Fixture struct {
	r         *Recorder
	device    browser.DeviceContext
	start     time.Time
	errDetail string
	finished  bool
}

// Begin starts the clock for one test. The device context comes in as
// an explicit parameter from session creation, never from shared
// mutable state.
func (r *Recorder) Begin(device browser.DeviceContext) *Fixture {
	return &Fixture{r: r, device: device, start: r.now()}
}

// NoteError registers failure detail for the eventual record. Page
// objects call this before failing the test, since the Go runner does
// not expose assertion messages at teardown.
func (f *Fixture) NoteError(err error) {
	if err != nil {
		f.errDetail = err.Error()
	}
}

// Finish classifies and records the outcome. Defer it immediately
// after Begin; it runs on pass, fail, skip and panic alike, and
// re-raises any panic after the record is written.
func (f *Fixture) Finish(t *testing.T, page artifacts.Page) {
	rec := recover()
	f.finalize(t, page, rec)
	if rec != nil {
		panic(rec)
	}
}

// outcomeProbe is the slice of testing.T the finalizer reads.
type outcomeProbe interface {
	Name() string
	Failed() bool
	Skipped() bool
}

func (f *Fixture) finalize(probe outcomeProbe, page artifacts.Page, rec any) {
	if f.finished {
		return
	}
	f.finished = true

	duration := f.r.now().Sub(f.start).Seconds()
	status := classify(probe, rec)
	name := CleanTestName(probe.Name())

	detail := f.errDetail
	if rec != nil {
		detail = fmt.Sprintf("panic: %v", rec)
	}

	artifactRef := ""
	if (status == models.StatusFailed || status == models.StatusError) && page != nil {
		artifactRef = f.captureArtifacts(page, name)
	}

	// Losing the outcome record is worse than losing enrichment, so
	// this call is unconditional and last.
	f.r.sink.RecordAndCategorize(resultstore.OutcomeInput{
		Name:        name,
		Module:      f.r.module,
		Status:      status,
		ErrorDetail: detail,
		Duration:    &duration,
		Device:      f.device.Device,
		Resolution:  f.device.Resolution,
		ArtifactRef: artifactRef,
	})
}

// captureArtifacts grabs a screenshot and a page-source dump, keeping
// only the screenshot reference. Any panic from the driver layer is
// absorbed here so the record call still happens.
func (f *Fixture) captureArtifacts(page artifacts.Page, name string) (ref string) {
	defer func() {
		if r := recover(); r != nil {
			f.r.swallow("capture_artifacts", fmt.Errorf("panic: %v", r))
			ref = ""
		}
	}()
	_, uri := f.r.capturer.CaptureScreenshot(page, name, "failure", true)
	f.r.capturer.CapturePageSource(page, name, "failure", true)
	return uri
}

func classify(probe outcomeProbe, rec any) models.TestStatus {
	switch {
	case rec != nil:
		return models.StatusError
	case probe.Skipped():
		return models.StatusSkipped
	case probe.Failed():
		return models.StatusFailed
	default:
		return models.StatusPassed
	}
}
