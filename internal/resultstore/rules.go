package resultstore

import (
	"fmt"
	"strings"
	"time"

	"github.com/bookhaven-io/checkout-e2e/internal/models"
)

// fanoutFunc applies one categorization branch. Branches swallow their
// own errors; they never propagate.
type fanoutFunc func(*Store, OutcomeInput)

// rule pairs a keyword predicate with its fan-out handler. Rules are
// evaluated in declaration order and the first match wins, so a name
// like "book_user_test" categorizes as a book purchase.
type rule struct {
	name    string
	keyword string
	apply   fanoutFunc
}

var categoryRules = []rule{
	{"book_purchase", "book", (*Store).fanoutBookPurchase},
	{"monthly_plan", "monthly", func(s *Store, in OutcomeInput) {
		s.fanoutSubscription(in, models.SubscriptionMonthly)
	}},
	{"six_month_plan", "six_month", func(s *Store, in OutcomeInput) {
		s.fanoutSubscription(in, models.SubscriptionSixMonth)
	}},
	{"onetime_plan", "onetime", (*Store).fanoutOnetime},
	{"user_creation", "user", (*Store).fanoutUserCreation},
}

// defaultRule is the catch-all: uncategorized tests still produce an
// auditable financial record.
var defaultRule = rule{name: "general_order", apply: (*Store).fanoutGeneralOrder}

// matchRule picks the first rule whose keyword occurs in the test or
// module name, case-insensitively.
func matchRule(name, module string) rule {
	haystack := strings.ToLower(name + " " + module)
	for _, r := range categoryRules {
		if strings.Contains(haystack, r.keyword) {
			return r
		}
	}
	return defaultRule
}

// planTerms is the fixed subscription pricing/duration table.
type planTerms struct {
	amount    float64
	addYears  int
	addMonths int
}

var planPricing = map[models.SubscriptionType]planTerms{
	models.SubscriptionMonthly:    {amount: 29.99, addMonths: 1},
	models.SubscriptionThreeMonth: {amount: 79.99, addMonths: 3},
	models.SubscriptionPopular:    {amount: 79.99, addMonths: 3},
	models.SubscriptionSixMonth:   {amount: 149.99, addMonths: 6},
	models.SubscriptionAnnual:     {amount: 299.99, addYears: 1},
}

const onetimePlanPrice = 99.99

const defaultPaymentMethod = "credit_card"

// orderInsert holds the derived fields for one order row.
type orderInsert struct {
	op        string
	userID    int64
	bookID    *int64
	orderType models.OrderType
	amount    float64
	status    models.TestStatus
}

func (s *Store) insertOrder(o orderInsert) {
	now := s.now()
	paymentStatus := models.PaymentFailed
	orderStatus := models.OrderCancelled
	var completed *time.Time
	if o.status.Passing() {
		paymentStatus = models.PaymentCompleted
		orderStatus = models.OrderCompleted
		completed = &now
	}
	number := "TEST-" + strings.ToUpper(s.newToken())
	_, err := s.insertID(`INSERT INTO orders
	(order_number, user_id, book_id, order_type, amount, payment_method, payment_status,
	 order_status, order_date, completed_date, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		number, o.userID, o.bookID, string(o.orderType), o.amount, defaultPaymentMethod,
		string(paymentStatus), string(orderStatus), now, completed, now)
	if err != nil {
		s.swallow(o.op, err)
	}
}

// fanoutBookPurchase bills the singleton book against the singleton
// user. Failed tests keep the order as a zero-amount cancelled record.
func (s *Store) fanoutBookPurchase(in OutcomeInput) {
	userID := s.GetOrCreateUser()
	bookID := s.GetOrCreateBook()
	amount := models.DefaultBookPrice
	if !in.Status.Passing() {
		amount = 0
	}
	s.insertOrder(orderInsert{
		op:        "fanout_book_purchase",
		userID:    userID,
		bookID:    &bookID,
		orderType: models.OrderTypeBookPurchase,
		amount:    amount,
		status:    in.Status,
	})
}

// fanoutSubscription creates the subscription row and its paired
// billing order. Unknown plan types fall back to annual terms.
// Subscription amounts stay at the fixed plan price regardless of
// outcome; only the status flags change.
func (s *Store) fanoutSubscription(in OutcomeInput, subType models.SubscriptionType) {
	const op = "fanout_subscription"
	terms, ok := planPricing[subType]
	if !ok {
		subType = models.SubscriptionAnnual
		terms = planPricing[models.SubscriptionAnnual]
	}

	userID := s.GetOrCreateUser()
	start := s.now()
	end := start.AddDate(terms.addYears, terms.addMonths, 0)
	status := models.SubscriptionCancelled
	if in.Status.Passing() {
		status = models.SubscriptionActive
	}

	_, err := s.insertID(`INSERT INTO subscriptions
	(user_id, subscription_type, status, start_date, end_date, amount, auto_renew,
	 payment_method, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, string(subType), string(status), start, end, terms.amount,
		in.Status.Passing(), defaultPaymentMethod, start)
	if err != nil {
		// The subscription and its billing record are a pair; without
		// the subscription row the order is not written either.
		s.swallow(op, err)
		return
	}

	s.insertOrder(orderInsert{
		op:        op,
		userID:    userID,
		orderType: subType.PlanOrderType(),
		amount:    terms.amount,
		status:    in.Status,
	})
}

// fanoutOnetime writes a billing-only order: onetime plans are not
// modeled as recurring subscriptions.
func (s *Store) fanoutOnetime(in OutcomeInput) {
	amount := onetimePlanPrice
	if !in.Status.Passing() {
		amount = 0
	}
	s.insertOrder(orderInsert{
		op:        "fanout_onetime",
		userID:    s.GetOrCreateUser(),
		orderType: models.OrderTypeOnetimePlan,
		amount:    amount,
		status:    in.Status,
	})
}

// fanoutUserCreation inserts a fresh user row, distinct from the
// reusable singleton, for tests that exercise account creation.
func (s *Store) fanoutUserCreation(in OutcomeInput) {
	const op = "fanout_user_creation"
	token := strings.ToLower(s.newToken())
	u := models.User{
		Username:    "qa_user_" + token,
		Email:       fmt.Sprintf("qa_user_%s@bookhaven.test", token),
		FirstName:   "QA",
		LastName:    "Generated",
		Affiliation: "Bookhaven QA",
		UserType:    models.UserTypeStudent,
		IsActive:    in.Status.Passing(),
	}
	if err := u.SetPassword("qa-test-password"); err != nil {
		s.swallow(op, err)
		return
	}
	_, err := s.insertID(`INSERT INTO users
	(username, email, password, first_name, last_name, affiliation, user_type, is_active, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.Email, u.Password, u.FirstName, u.LastName, u.Affiliation,
		string(u.UserType), u.IsActive, s.now())
	if err != nil {
		s.swallow(op, err)
	}
}

// fanoutGeneralOrder is the catch-all: same shape as a book purchase
// so uncategorized tests still leave a financial record.
func (s *Store) fanoutGeneralOrder(in OutcomeInput) {
	userID := s.GetOrCreateUser()
	bookID := s.GetOrCreateBook()
	amount := models.DefaultBookPrice
	if !in.Status.Passing() {
		amount = 0
	}
	s.insertOrder(orderInsert{
		op:        "fanout_general_order",
		userID:    userID,
		bookID:    &bookID,
		orderType: models.OrderTypeBookPurchase,
		amount:    amount,
		status:    in.Status,
	})
}
