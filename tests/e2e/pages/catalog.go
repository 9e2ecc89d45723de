// Package pages holds the page objects for the storefront under test.
// These are thin click-sequence wrappers; assertions live in the tests.
package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// CatalogPage drives the book catalog and product detail views.
type CatalogPage struct {
	page    playwright.Page
	baseURL string
}

func NewCatalogPage(page playwright.Page, baseURL string) *CatalogPage {
	return &CatalogPage{page: page, baseURL: baseURL}
}

// Open navigates to the catalog listing.
func (c *CatalogPage) Open() error {
	if _, err := c.page.Goto(c.baseURL + "/books"); err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	return c.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State: playwright.LoadStateNetworkidle,
	})
}

// OpenBook opens the detail page of the first book matching title.
func (c *CatalogPage) OpenBook(title string) error {
	link := c.page.Locator(fmt.Sprintf("a.book-title:has-text(%q)", title)).First()
	if err := link.WaitFor(); err != nil {
		return fmt.Errorf("book %q not found in catalog: %w", title, err)
	}
	if err := link.Click(); err != nil {
		return fmt.Errorf("failed to open book %q: %w", title, err)
	}
	return nil
}

// AddToCart clicks the add-to-cart control on a book detail page.
func (c *CatalogPage) AddToCart() error {
	btn := c.page.Locator("button#add-to-cart, button[data-action='add-to-cart']").First()
	if err := btn.WaitFor(); err != nil {
		return fmt.Errorf("add-to-cart button not found: %w", err)
	}
	if err := btn.Click(); err != nil {
		return fmt.Errorf("failed to add book to cart: %w", err)
	}
	return nil
}
