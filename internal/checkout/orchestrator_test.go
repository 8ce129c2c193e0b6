package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/pet-shop-orders/internal/cart"
	"github.com/wichananm65/pet-shop-orders/internal/customer"
	"github.com/wichananm65/pet-shop-orders/internal/discount"
	"github.com/wichananm65/pet-shop-orders/internal/failedorder"
	"github.com/wichananm65/pet-shop-orders/internal/order"
	"github.com/wichananm65/pet-shop-orders/internal/storage"
)

type stubResolver struct {
	profile *customer.Profile
	err     error
	calls   int
}

func (r *stubResolver) Resolve(_ context.Context, s *customer.Session) (*customer.Profile, error) {
	r.calls++
	if s == nil {
		return nil, nil
	}
	return r.profile, r.err
}

type stubSubmitter struct {
	err  error
	sent []order.Submission
}

func (s *stubSubmitter) Deliver(_ context.Context, sub order.Submission) (order.Summary, error) {
	s.sent = append(s.sent, sub)
	if s.err != nil {
		return order.Summary{}, s.err
	}
	return order.Summary{SaleID: len(s.sent), Message: "ok", Submission: sub}, nil
}

type fixture struct {
	cart      *cart.Store
	ledger    *discount.Ledger
	queue     *failedorder.Queue
	resolver  *stubResolver
	submitter *stubSubmitter
	orch      *Orchestrator
}

func newFixture() *fixture {
	mem := storage.NewMemoryStore()
	ledger := discount.NewLedger(mem, nil)
	f := &fixture{
		cart:      cart.NewStore(cart.NewStorageRepository(mem), ledger, nil),
		ledger:    ledger,
		queue:     failedorder.NewQueue(mem, nil),
		resolver:  &stubResolver{},
		submitter: &stubSubmitter{},
	}
	f.orch = NewOrchestrator(Deps{
		Cart:      f.cart,
		Discounts: f.ledger,
		Resolver:  f.resolver,
		Submitter: f.submitter,
		Queue:     f.queue,
	})
	return f
}

func guestForm() Form {
	return Form{
		FirstName: "Ana",
		LastName:  "Gómez",
		Document:  "1234567890",
		Email:     "ana@example.com",
		Phone:     "3001234567",
		Address:   "Calle 1 #2-3",
	}
}

func (f *fixture) fillCart(t *testing.T) {
	t.Helper()
	_, err := f.cart.AddItem(context.Background(), cart.Product{ID: 1, Name: "Arena", UnitPrice: decimal.NewFromInt(10000), Stock: 5}, 2)
	require.NoError(t, err)
}

func TestSubmit_WorkedExample(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.fillCart(t)
	res, err := f.ledger.Apply(ctx, "teocat10")
	require.NoError(t, err)
	require.True(t, res.OK)

	summary, err := f.orch.Submit(ctx, Request{Form: guestForm(), PaymentProofRef: "https://cdn.example.com/p.png"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SaleID)

	require.Len(t, f.submitter.sent, 1)
	sub := f.submitter.sent[0]
	assert.Equal(t, "20000", sub.Subtotal.String())
	assert.Equal(t, "3800", sub.Tax.String())
	assert.Equal(t, "5000", sub.ShippingCost.String())
	assert.Equal(t, "10000", sub.DiscountAmount.String())
	assert.Equal(t, "18800", sub.Total.String())
	assert.Equal(t, "TEOCAT10", sub.DiscountCode)
	assert.Equal(t, order.StatusPending, sub.Status)
	assert.Equal(t, order.DefaultPaymentMethod, sub.PaymentMethod)
	assert.Equal(t, "Ana", sub.Customer.FirstName)
	assert.Zero(t, sub.Customer.CustomerID)

	items, err := f.cart.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	active, err := f.ledger.Active(ctx)
	require.NoError(t, err)
	assert.Nil(t, active)
}

func TestSubmit_EmptyCartFailsFast(t *testing.T) {
	f := newFixture()

	_, err := f.orch.Submit(context.Background(), Request{Form: guestForm(), PaymentProofRef: "p"})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, f.resolver.calls)
	assert.Empty(t, f.submitter.sent)
}

func TestSubmit_ValidationFailed(t *testing.T) {
	f := newFixture()
	f.fillCart(t)

	form := guestForm()
	form.Email = "ana@"
	form.Document = "12ab"
	form.Address = " "
	_, err := f.orch.Submit(context.Background(), Request{Form: form, PaymentProofRef: "p"})
	require.ErrorIs(t, err, ErrValidationFailed)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")
	assert.Contains(t, verr.Fields, "document")
	assert.Contains(t, verr.Fields, "address")
	assert.NotContains(t, verr.Fields, "phone")
	assert.Zero(t, f.resolver.calls)
	assert.Empty(t, f.submitter.sent)
}

func TestSubmit_DocumentOnlyRequiredForGuests(t *testing.T) {
	form := guestForm()
	form.Document = ""
	assert.ErrorIs(t, form.Validate(true), ErrValidationFailed)
	assert.NoError(t, form.Validate(false))

	form.Document = "123"
	assert.ErrorIs(t, form.Validate(false), ErrValidationFailed)
}

func TestSubmit_MissingPaymentProof(t *testing.T) {
	f := newFixture()
	f.fillCart(t)

	_, err := f.orch.Submit(context.Background(), Request{Form: guestForm(), PaymentProofRef: "  "})
	assert.ErrorIs(t, err, ErrMissingPaymentProof)
	assert.Zero(t, f.resolver.calls)
	assert.Empty(t, f.submitter.sent)
}

func TestSubmit_IdentityErrorsAbort(t *testing.T) {
	for _, identityErr := range []error{customer.ErrSessionExpired, customer.ErrIdentityLinkMissing} {
		t.Run(identityErr.Error(), func(t *testing.T) {
			ctx := context.Background()
			f := newFixture()
			f.fillCart(t)
			f.resolver.err = identityErr

			_, err := f.orch.Submit(ctx, Request{
				Session:         &customer.Session{UserID: 7, Token: "t"},
				Form:            guestForm(),
				PaymentProofRef: "p",
			})
			assert.ErrorIs(t, err, identityErr)
			assert.Equal(t, OutcomeSignIn, Classify(err))
			assert.Empty(t, f.submitter.sent)

			entries, _ := f.queue.List(ctx)
			assert.Empty(t, entries)
			items, _ := f.cart.ListItems(ctx)
			assert.Len(t, items, 1)
		})
	}
}

func TestSubmit_SignedInUsesResolvedProfile(t *testing.T) {
	f := newFixture()
	f.fillCart(t)
	f.resolver.profile = &customer.Profile{CustomerID: 12, UserID: 7, FirstName: "Ana", Email: "old@example.com", Phone: "300", Address: "Old address"}

	form := guestForm()
	form.Document = ""
	form.Address = "Carrera 9"
	_, err := f.orch.Submit(context.Background(), Request{
		Session:         &customer.Session{UserID: 7, Token: "t"},
		Form:            form,
		PaymentProofRef: "p",
	})
	require.NoError(t, err)

	sent := f.submitter.sent[0].Customer
	assert.Equal(t, 12, sent.CustomerID)
	assert.Equal(t, 7, sent.UserID)
	assert.Equal(t, "Carrera 9", sent.Address)
	assert.Equal(t, "ana@example.com", sent.Email)
}

func TestSubmit_RemoteFailureQueuesThenRetrySucceeds(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	f.fillCart(t)
	_, err := f.ledger.Apply(ctx, "TEOCAT10")
	require.NoError(t, err)
	f.submitter.err = errors.New("connection refused")

	_, err = f.orch.Submit(ctx, Request{Form: guestForm(), PaymentProofRef: "p"})
	require.ErrorIs(t, err, ErrRemoteSubmissionFailed)
	assert.Equal(t, OutcomeSavedForRetry, Classify(err))
	var failed *SubmissionFailedError
	require.ErrorAs(t, err, &failed)

	items, _ := f.cart.ListItems(ctx)
	assert.Len(t, items, 1)
	entries, err := f.orch.Failed(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, failed.QueueID, entries[0].QueueID)

	// still down
	_, err = f.orch.Retry(ctx, failed.QueueID)
	assert.ErrorIs(t, err, ErrRemoteSubmissionFailed)
	entries, _ = f.orch.Failed(ctx)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].Attempts)

	f.submitter.err = nil
	summary, err := f.orch.Retry(ctx, failed.QueueID)
	require.NoError(t, err)
	assert.Equal(t, "18800", summary.Submission.Total.String())

	require.Len(t, f.submitter.sent, 3)
	assert.True(t, f.submitter.sent[0].Total.Equal(f.submitter.sent[2].Total))
	assert.True(t, f.submitter.sent[0].SubmittedAt.Equal(f.submitter.sent[2].SubmittedAt))

	entries, _ = f.orch.Failed(ctx)
	assert.Empty(t, entries)
	items, _ = f.cart.ListItems(ctx)
	assert.Empty(t, items)

	_, err = f.orch.Retry(ctx, failed.QueueID)
	assert.ErrorIs(t, err, failedorder.ErrEntryNotFound)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, OutcomeOK, Classify(nil))
	assert.Equal(t, OutcomeFixData, Classify(ErrEmptyCart))
	assert.Equal(t, OutcomeFixData, Classify(&ValidationError{Fields: map[string]string{"email": "x"}}))
	assert.Equal(t, OutcomeFixData, Classify(&cart.StockError{ItemID: 1, Requested: 9, Available: 2}))
	assert.Equal(t, OutcomeSignIn, Classify(customer.ErrIdentityLinkMissing))
	assert.Equal(t, OutcomeSavedForRetry, Classify(&SubmissionFailedError{QueueID: "q", Cause: errors.New("x")}))
	assert.Equal(t, OutcomeUnexpected, Classify(errors.New("disk full")))
}
