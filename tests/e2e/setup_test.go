package e2e

import (
	"log"
	"os"
	"testing"

	"github.com/bookhaven-io/checkout-e2e/internal/artifacts"
	"github.com/bookhaven-io/checkout-e2e/internal/browser"
	"github.com/bookhaven-io/checkout-e2e/internal/config"
	"github.com/bookhaven-io/checkout-e2e/internal/lifecycle"
	"github.com/bookhaven-io/checkout-e2e/internal/resultstore"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var (
	baseURL  string
	provider *browser.Provider
	store    *resultstore.Store
	capturer *artifacts.Capturer
)

// discardSink keeps the suite runnable when no result database is
// reachable; outcomes are simply not persisted.
type discardSink struct{}

func (discardSink) RecordAndCategorize(resultstore.OutcomeInput) {}

func outcomeSink() lifecycle.OutcomeSink {
	if store != nil {
		return store
	}
	return discardSink{}
}

func newRecorder(module string) *lifecycle.Recorder {
	return lifecycle.NewRecorder(outcomeSink(), capturer, module)
}

func TestMain(m *testing.M) {
	baseURL = os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	if st, err := resultstore.Open(config.Resolve()); err == nil {
		store = st
		if serr := st.EnsureSchema(); serr != nil {
			log.Printf("[e2e] schema ensure failed: %v", serr)
		}
	} else {
		log.Printf("[e2e] result store unavailable, outcomes will not be recorded: %v", err)
	}

	backend, err := artifacts.NewFilesystemBackend("test-results/screenshots")
	if err != nil {
		log.Printf("[e2e] artifact directory unavailable: %v", err)
	} else {
		capturer = artifacts.NewCapturer(backend)
	}

	if os.Getenv("SKIP_BROWSER") != "true" {
		if p, perr := browser.NewProvider(); perr == nil {
			provider = p
		} else {
			log.Printf("[e2e] browser unavailable, tests will skip: %v", perr)
		}
	}

	code := m.Run()

	if provider != nil {
		provider.Close()
	}
	if store != nil {
		store.Close()
	}
	os.Exit(code)
}

// newSession provisions a per-test browser session for the given
// device profile, skipping the test when no browser is available.
func newSession(t *testing.T, profile browser.DeviceProfile) *browser.Session {
	t.Helper()
	if provider == nil {
		t.Skip("browser not available")
	}
	sess, err := provider.NewSession(profile)
	if err != nil {
		t.Skipf("could not create %s session: %v", profile.Name, err)
	}
	t.Cleanup(sess.Close)
	return sess
}
