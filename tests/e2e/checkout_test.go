package e2e

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookhaven-io/checkout-e2e/internal/browser"
	"github.com/bookhaven-io/checkout-e2e/internal/models"
	"github.com/bookhaven-io/checkout-e2e/tests/e2e/pages"
)

// TestBookPurchase buys the catalog's default test book on every
// device profile. Each subtest records its own categorized outcome.
func TestBookPurchase(t *testing.T) {
	recorder := newRecorder("tests.test_book")

	for _, profile := range browser.Profiles {
		profile := profile
		t.Run(fmt.Sprintf("test_book_purchase[%s]", profile.Name), func(t *testing.T) {
			sess := newSession(t, profile)
			fx := recorder.Begin(sess.Device)
			defer fx.Finish(t, sess.Page)

			catalog := pages.NewCatalogPage(sess.Page, baseURL)
			checkout := pages.NewCheckoutPage(sess.Page, baseURL)

			if err := catalog.Open(); err != nil {
				fx.NoteError(err)
				require.NoError(t, err)
			}
			if err := catalog.OpenBook(models.DefaultBookTitle); err != nil {
				fx.NoteError(err)
				require.NoError(t, err)
			}
			if err := catalog.AddToCart(); err != nil {
				fx.NoteError(err)
				require.NoError(t, err)
			}
			if err := checkout.Open(); err != nil {
				fx.NoteError(err)
				require.NoError(t, err)
			}
			if err := checkout.FillPayment(pages.TestCard); err != nil {
				fx.NoteError(err)
				require.NoError(t, err)
			}
			if err := checkout.PlaceOrder(); err != nil {
				fx.NoteError(err)
				require.NoError(t, err)
			}

			number, err := checkout.ConfirmationNumber()
			if err != nil {
				fx.NoteError(err)
				require.NoError(t, err)
			}
			require.NotEmpty(t, number, "confirmation should carry an order number")
		})
	}
}
