package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/autostore/storefront-backend/internal/cart"
	"github.com/autostore/storefront-backend/internal/checkoutform"
	pkgerrors "github.com/autostore/storefront-backend/pkg/errors"
)

type stubSubmitter struct {
	calls    int
	payloads []PurchasePayload
	conf     *Confirmation
	err      error
}

func (s *stubSubmitter) SubmitOrder(ctx context.Context, payload PurchasePayload) (*Confirmation, error) {
	s.calls++
	s.payloads = append(s.payloads, payload)
	if s.err != nil {
		return nil, s.err
	}
	return s.conf, nil
}

type recordingListener struct {
	completed []string
	failed    []string
}

func (r *recordingListener) OrderCompleted(trackingNumber string) {
	r.completed = append(r.completed, trackingNumber)
}

func (r *recordingListener) OrderFailed(reason string) {
	r.failed = append(r.failed, reason)
}

func validForm() *checkoutform.Form {
	address := checkoutform.Address{
		StreetNo: "12",
		Street:   "Main Street",
		City:     "Springfield",
		Country:  "US",
		ZipCode:  "62704",
	}
	form := checkoutform.New()
	form.SetValues(checkoutform.Values{
		Customer: checkoutform.Customer{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com"},
		Shipping: address,
		Billing:  address,
		Card: checkoutform.Card{
			Type:            "Visa",
			NameOnCard:      "Jane Doe",
			Number:          "4111111111111111",
			SecurityCode:    "123",
			ExpirationMonth: 12,
			ExpirationYear:  2030,
		},
	})
	return form
}

func cartWith(items ...cart.LineItem) *cart.Manager {
	m := cart.NewManager()
	for _, item := range items {
		for i := 0; i < item.Quantity; i++ {
			m.Add(cart.LineItem{ID: item.ID, Name: item.Name, ImageURL: item.ImageURL, UnitPrice: item.UnitPrice})
		}
	}
	return m
}

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestSubmitInvalidFormDoesNotCallCollaborator(t *testing.T) {
	t.Parallel()

	submitter := &stubSubmitter{conf: &Confirmation{TrackingNumber: "T123"}}
	manager := cartWith(cart.LineItem{ID: "1", UnitPrice: price("10.00"), Quantity: 1})
	orchestrator, err := NewOrchestrator(manager, submitter)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	form := checkoutform.New() // blank, invalid

	_, err = orchestrator.Submit(context.Background(), form)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if submitter.calls != 0 {
		t.Fatalf("no submission may be issued for an invalid form, got %d calls", submitter.calls)
	}
	if orchestrator.State() != StateIdle {
		t.Fatalf("expected idle state, got %s", orchestrator.State())
	}
	if !form.Touched("customer.email") || !form.Touched("billing_address.zip_code") {
		t.Fatal("expected all fields marked touched")
	}
	if manager.Totals().Quantity != 1 {
		t.Fatal("cart must be untouched after a validation failure")
	}
}

func TestSubmitSuccessClearsCartAndResetsForm(t *testing.T) {
	t.Parallel()

	submitter := &stubSubmitter{conf: &Confirmation{TrackingNumber: "T123"}}
	manager := cartWith(
		cart.LineItem{ID: "1", UnitPrice: price("10.00"), Quantity: 2},
		cart.LineItem{ID: "2", UnitPrice: price("10.00"), Quantity: 1},
	)
	orchestrator, err := NewOrchestrator(manager, submitter)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	listener := &recordingListener{}
	orchestrator.Subscribe(listener)

	form := validForm()
	confirmation, err := orchestrator.Submit(context.Background(), form)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if confirmation.TrackingNumber != "T123" {
		t.Fatalf("unexpected tracking number %q", confirmation.TrackingNumber)
	}

	if submitter.calls != 1 {
		t.Fatalf("expected exactly one submission call, got %d", submitter.calls)
	}
	payload := submitter.payloads[0]
	if !payload.TotalPrice.Equal(price("30.00")) || payload.TotalQuantity != 3 {
		t.Fatalf("payload totals must equal the cart's last broadcast, got (%s, %d)",
			payload.TotalPrice, payload.TotalQuantity)
	}
	if len(payload.OrderLines) != 2 {
		t.Fatalf("expected 2 order lines, got %d", len(payload.OrderLines))
	}

	if manager.Totals().Quantity != 0 || !manager.Totals().Price.IsZero() {
		t.Fatal("cart must be cleared after a successful order")
	}
	if form.Values() != (checkoutform.Values{}) {
		t.Fatal("form must be reset after a successful order")
	}
	if orchestrator.State() != StateCompleted {
		t.Fatalf("expected completed state, got %s", orchestrator.State())
	}
	if len(listener.completed) != 1 || listener.completed[0] != "T123" {
		t.Fatalf("expected completion event with T123, got %v", listener.completed)
	}
}

func TestSubmitFailurePreservesCartAndForm(t *testing.T) {
	t.Parallel()

	submitter := &stubSubmitter{err: pkgerrors.New(pkgerrors.CodeDependency, "card declined")}
	manager := cartWith(cart.LineItem{ID: "1", UnitPrice: price("10.00"), Quantity: 1})
	orchestrator, err := NewOrchestrator(manager, submitter)
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}

	listener := &recordingListener{}
	orchestrator.Subscribe(listener)

	form := validForm()
	before := form.Values()

	_, err = orchestrator.Submit(context.Background(), form)
	if err == nil {
		t.Fatal("expected submission failure")
	}

	if orchestrator.State() != StateIdle {
		t.Fatalf("expected idle state for retry, got %s", orchestrator.State())
	}
	if manager.Totals().Quantity != 1 {
		t.Fatal("cart must be preserved after a failed order")
	}
	if form.Values() != before {
		t.Fatal("form must be preserved after a failed order")
	}
	if len(listener.failed) != 1 || listener.failed[0] != "card declined" {
		t.Fatalf("expected failure event with verbatim reason, got %v", listener.failed)
	}
}

func TestSubmitFailureSurfacesPlainErrorText(t *testing.T) {
	t.Parallel()

	submitter := &stubSubmitter{err: errors.New("connection reset")}
	manager := cartWith(cart.LineItem{ID: "1", UnitPrice: price("10.00"), Quantity: 1})
	orchestrator, _ := NewOrchestrator(manager, submitter)

	listener := &recordingListener{}
	orchestrator.Subscribe(listener)

	if _, err := orchestrator.Submit(context.Background(), validForm()); err == nil {
		t.Fatal("expected submission failure")
	}
	if len(listener.failed) != 1 || listener.failed[0] != "connection reset" {
		t.Fatalf("expected raw error text as reason, got %v", listener.failed)
	}
}

func TestSubmitEmptyCartIsRejected(t *testing.T) {
	t.Parallel()

	submitter := &stubSubmitter{conf: &Confirmation{TrackingNumber: "T123"}}
	orchestrator, _ := NewOrchestrator(cart.NewManager(), submitter)

	_, err := orchestrator.Submit(context.Background(), validForm())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}
	if submitter.calls != 0 {
		t.Fatal("empty cart must not reach the collaborator")
	}
}

func TestPayloadIsSnapshotIsolatedFromLaterCartMutation(t *testing.T) {
	t.Parallel()

	var captured PurchasePayload
	manager := cartWith(cart.LineItem{ID: "1", UnitPrice: price("10.00"), Quantity: 2})

	submitter := &stubSubmitter{conf: &Confirmation{TrackingNumber: "T9"}}
	orchestrator, _ := NewOrchestrator(manager, submitter)

	if _, err := orchestrator.Submit(context.Background(), validForm()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	captured = submitter.payloads[0]

	// The successful submit already cleared the cart; mutate it further and
	// verify the captured payload is unaffected.
	manager.Add(cart.LineItem{ID: "7", UnitPrice: price("99.00")})

	if len(captured.OrderLines) != 1 || captured.OrderLines[0].Quantity != 2 {
		t.Fatalf("payload lines must be immutable, got %+v", captured.OrderLines)
	}
	if !captured.TotalPrice.Equal(price("20.00")) || captured.TotalQuantity != 2 {
		t.Fatalf("payload totals must be immutable, got (%s, %d)", captured.TotalPrice, captured.TotalQuantity)
	}
}

func TestSubmitAfterCompletionStartsANewOrder(t *testing.T) {
	t.Parallel()

	submitter := &stubSubmitter{conf: &Confirmation{TrackingNumber: "T1"}}
	manager := cartWith(cart.LineItem{ID: "1", UnitPrice: price("10.00"), Quantity: 1})
	orchestrator, _ := NewOrchestrator(manager, submitter)

	if _, err := orchestrator.Submit(context.Background(), validForm()); err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	manager.Add(cart.LineItem{ID: "2", UnitPrice: price("5.00")})
	if _, err := orchestrator.Submit(context.Background(), validForm()); err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if submitter.calls != 2 {
		t.Fatalf("expected two submissions, got %d", submitter.calls)
	}
}
