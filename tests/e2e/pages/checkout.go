package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// CheckoutPage drives the payment form and order confirmation.
type CheckoutPage struct {
	page    playwright.Page
	baseURL string
}

func NewCheckoutPage(page playwright.Page, baseURL string) *CheckoutPage {
	return &CheckoutPage{page: page, baseURL: baseURL}
}

// Open navigates straight to the checkout view for the current cart.
func (c *CheckoutPage) Open() error {
	if _, err := c.page.Goto(c.baseURL + "/checkout"); err != nil {
		return fmt.Errorf("failed to open checkout: %w", err)
	}
	return nil
}

// PaymentDetails is the card form input for a test purchase.
type PaymentDetails struct {
	CardNumber string
	Expiry     string
	CVC        string
	Name       string
}

// TestCard is a card number the sandbox gateway always approves.
var TestCard = PaymentDetails{
	CardNumber: "4242424242424242",
	Expiry:     "12/30",
	CVC:        "123",
	Name:       "QA Default",
}

// FillPayment fills the card form.
func (c *CheckoutPage) FillPayment(d PaymentDetails) error {
	fields := []struct {
		selector string
		value    string
	}{
		{"input#card-number", d.CardNumber},
		{"input#card-expiry", d.Expiry},
		{"input#card-cvc", d.CVC},
		{"input#cardholder-name", d.Name},
	}
	for _, f := range fields {
		if err := c.page.Fill(f.selector, f.value); err != nil {
			return fmt.Errorf("failed to fill %s: %w", f.selector, err)
		}
	}
	return nil
}

// PlaceOrder submits the checkout form.
func (c *CheckoutPage) PlaceOrder() error {
	if err := c.page.Click("button[type='submit'][data-action='place-order']"); err != nil {
		return fmt.Errorf("failed to place order: %w", err)
	}
	return c.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
}

// ConfirmationNumber reads the order number from the confirmation
// banner, failing if the banner never appears.
func (c *CheckoutPage) ConfirmationNumber() (string, error) {
	banner := c.page.Locator("[data-testid='order-confirmation'] .order-number")
	if err := banner.WaitFor(); err != nil {
		return "", fmt.Errorf("order confirmation not shown: %w", err)
	}
	number, err := banner.TextContent()
	if err != nil {
		return "", fmt.Errorf("failed to read order number: %w", err)
	}
	return number, nil
}
