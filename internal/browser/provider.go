// Package browser provisions per-device Playwright sessions. Each
// session comes back with an explicit DeviceContext so the lifecycle
// fixture never reads ambient device state.
package browser

import (
	"fmt"
	"os"

	"github.com/playwright-community/playwright-go"
)

// DeviceProfile describes one entry of the device matrix tests run
// against.
type DeviceProfile struct {
	Name      string
	Width     int
	Height    int
	UserAgent string
	IsMobile  bool
}

// DeviceContext is the resolved device metadata attached to every
// recorded outcome.
type DeviceContext struct {
	Device     string
	Resolution string
}

// Context builds the outcome metadata for a profile.
func (p DeviceProfile) Context() DeviceContext {
	return DeviceContext{
		Device:     p.Name,
		Resolution: fmt.Sprintf("%dx%d", p.Width, p.Height),
	}
}

// Profiles is the device matrix, desktop first.
var Profiles = []DeviceProfile{
	{Name: "desktop", Width: 1920, Height: 1080},
	{Name: "laptop", Width: 1366, Height: 768},
	{Name: "iPad", Width: 768, Height: 1024, IsMobile: true},
	{Name: "iPhone X", Width: 375, Height: 812, IsMobile: true,
		UserAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 16_0 like Mac OS X) AppleWebKit/605.1.15"},
}

// ProfileByName returns the named profile, defaulting to desktop.
func ProfileByName(name string) DeviceProfile {
	for _, p := range Profiles {
		if p.Name == name {
			return p
		}
	}
	return Profiles[0]
}

// Provider owns the Playwright runtime and browser process shared by a
// test session.
type Provider struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewProvider starts Playwright and launches Chromium. Set
// PLAYWRIGHT_PREINSTALLED=1 to skip the driver install step and
// HEADLESS=false to watch the browser.
func NewProvider() (*Provider, error) {
	if os.Getenv("PLAYWRIGHT_PREINSTALLED") != "1" {
		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
			return nil, fmt.Errorf("could not install playwright browsers: %w", err)
		}
	}
	pw, err := playwright.Run()
	if err != nil {
		// Retry once after an explicit install; driver version drift
		// between image and module shows up here.
		_ = playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}})
		pw, err = playwright.Run()
		if err != nil {
			return nil, fmt.Errorf("could not start playwright after retry: %w", err)
		}
	}

	headless := os.Getenv("HEADLESS") != "false"
	b, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(headless),
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}
	return &Provider{pw: pw, browser: b}, nil
}

// Session is one isolated browser context plus its resolved device
// metadata.
type Session struct {
	Context playwright.BrowserContext
	Page    playwright.Page
	Device  DeviceContext
}

// NewSession creates an isolated context and page sized to the given
// device profile.
func (p *Provider) NewSession(profile DeviceProfile) (*Session, error) {
	opts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: profile.Width, Height: profile.Height},
	}
	if profile.UserAgent != "" {
		opts.UserAgent = playwright.String(profile.UserAgent)
	}
	if profile.IsMobile {
		opts.IsMobile = playwright.Bool(true)
		opts.HasTouch = playwright.Bool(true)
	}

	ctx, err := p.browser.NewContext(opts)
	if err != nil {
		return nil, fmt.Errorf("could not create context for %s: %w", profile.Name, err)
	}
	page, err := ctx.NewPage()
	if err != nil {
		ctx.Close()
		return nil, fmt.Errorf("could not create page for %s: %w", profile.Name, err)
	}
	return &Session{Context: ctx, Page: page, Device: profile.Context()}, nil
}

// Close tears down one session.
func (s *Session) Close() {
	if s.Page != nil {
		s.Page.Close()
	}
	if s.Context != nil {
		s.Context.Close()
	}
}

// Close stops the shared browser and the Playwright runtime.
func (p *Provider) Close() {
	if p.browser != nil {
		p.browser.Close()
	}
	if p.pw != nil {
		p.pw.Stop()
	}
}
