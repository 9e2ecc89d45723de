package e2e

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bookhaven-io/checkout-e2e/internal/browser"
	"github.com/bookhaven-io/checkout-e2e/tests/e2e/pages"
)

// subscribeToPlan runs the shared plan-purchase flow and asserts the
// subscription ends up active.
func subscribeToPlan(t *testing.T, sess *browser.Session, fx interface{ NoteError(error) }, plan string) {
	t.Helper()

	plansPage := pages.NewPlansPage(sess.Page, baseURL)
	checkout := pages.NewCheckoutPage(sess.Page, baseURL)

	if err := plansPage.Open(); err != nil {
		fx.NoteError(err)
		require.NoError(t, err)
	}
	if err := plansPage.ChoosePlan(plan); err != nil {
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

	active, err := plansPage.SubscriptionActive()
	if err != nil {
		fx.NoteError(err)
		require.NoError(t, err)
	}
	if !active {
		err := fmt.Errorf("subscription for plan %q did not become active", plan)
		fx.NoteError(err)
		require.NoError(t, err)
	}
}

func TestMonthlyPlanPurchase(t *testing.T) {
	recorder := newRecorder("tests.test_monthly")

	for _, name := range []string{"desktop", "iPhone X"} {
		profile := browser.ProfileByName(name)
		t.Run(fmt.Sprintf("test_monthly_plan_purchase[%s]", profile.Name), func(t *testing.T) {
			sess := newSession(t, profile)
			fx := recorder.Begin(sess.Device)
			defer fx.Finish(t, sess.Page)

			subscribeToPlan(t, sess, fx, "monthly")
		})
	}
}

func TestSixMonthPlanPurchase(t *testing.T) {
	recorder := newRecorder("tests.test_six_month")
	profile := browser.ProfileByName("desktop")

	t.Run("test_six_month_plan_purchase[desktop]", func(t *testing.T) {
		sess := newSession(t, profile)
		fx := recorder.Begin(sess.Device)
		defer fx.Finish(t, sess.Page)

		subscribeToPlan(t, sess, fx, "six_month")
	})
}

// TestOnetimeAccess exercises the billing-only one-time plan; the
// result store records an order but no subscription for it.
func TestOnetimeAccess(t *testing.T) {
	recorder := newRecorder("tests.test_onetime")
	profile := browser.ProfileByName("desktop")

	t.Run("test_onetime_access[desktop]", func(t *testing.T) {
		sess := newSession(t, profile)
		fx := recorder.Begin(sess.Device)
		defer fx.Finish(t, sess.Page)

		plansPage := pages.NewPlansPage(sess.Page, baseURL)
		checkout := pages.NewCheckoutPage(sess.Page, baseURL)

		if err := plansPage.Open(); err != nil {
			fx.NoteError(err)
			require.NoError(t, err)
		}
		if err := plansPage.ChoosePlan("onetime"); err != nil {
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
		require.NotEmpty(t, number)
	})
}
