package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// PlansPage drives the subscription-plan chooser.
type PlansPage struct {
	page    playwright.Page
	baseURL string
}

func NewPlansPage(page playwright.Page, baseURL string) *PlansPage {
	return &PlansPage{page: page, baseURL: baseURL}
}

// Open navigates to the plans listing.
func (p *PlansPage) Open() error {
	if _, err := p.page.Goto(p.baseURL + "/plans"); err != nil {
		return fmt.Errorf("failed to open plans page: %w", err)
	}
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
}

// ChoosePlan clicks the subscribe control for a plan card identified
// by its data-plan attribute (monthly, six_month, onetime, ...).
func (p *PlansPage) ChoosePlan(plan string) error {
	btn := p.page.Locator(fmt.Sprintf("[data-plan='%s'] button.subscribe", plan))
	if err := btn.WaitFor(); err != nil {
		return fmt.Errorf("plan card %q not found: %w", plan, err)
	}
	if err := btn.Click(); err != nil {
		return fmt.Errorf("failed to choose plan %q: %w", plan, err)
	}
	return nil
}

// SubscriptionActive reports whether the active-subscription banner is
// visible after checkout.
func (p *PlansPage) SubscriptionActive() (bool, error) {
	banner := p.page.Locator("[data-testid='subscription-status'][data-status='active']")
	if err := banner.WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		return false, nil
	}
	return true, nil
}
