package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/autostore/storefront-backend/internal/cart"
	"github.com/autostore/storefront-backend/internal/checkoutform"
	pkgerrors "github.com/autostore/storefront-backend/pkg/errors"
)

// State is the orchestrator's position in the submit lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
)

// OrderLine is a point-in-time copy of a cart entry, decoupled from further
// cart mutation.
type OrderLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
}

// PurchasePayload is the immutable snapshot handed to the submission
// collaborator. It is constructed fresh at submit time and never mutated.
type PurchasePayload struct {
	Customer        checkoutform.Customer `json:"customer"`
	ShippingAddress checkoutform.Address  `json:"shipping_address"`
	BillingAddress  checkoutform.Address  `json:"billing_address"`
	OrderLines      []OrderLine           `json:"order_lines"`
	TotalPrice      decimal.Decimal       `json:"total_price"`
	TotalQuantity   int                   `json:"total_quantity"`
}

// Confirmation is the submission collaborator's success response.
type Confirmation struct {
	TrackingNumber string `json:"order_tracking_number"`
}

// Submitter posts a purchase payload and reports exactly one outcome.
type Submitter interface {
	SubmitOrder(ctx context.Context, payload PurchasePayload) (*Confirmation, error)
}

// EventListener observes order outcomes.
type EventListener interface {
	OrderCompleted(trackingNumber string)
	OrderFailed(reason string)
}

// Orchestrator gates submission on form validity, assembles the purchase
// payload from the cart, and drives the submit lifecycle. One orchestrator
// serves one cart.
type Orchestrator struct {
	mu        sync.Mutex
	state     State
	cart      *cart.Manager
	submitter Submitter
	listeners []EventListener
}

// NewOrchestrator builds the orchestrator for the given cart.
func NewOrchestrator(cartManager *cart.Manager, submitter Submitter) (*Orchestrator, error) {
	if cartManager == nil {
		return nil, fmt.Errorf("cart manager required")
	}
	if submitter == nil {
		return nil, fmt.Errorf("submitter required")
	}
	return &Orchestrator{
		state:     StateIdle,
		cart:      cartManager,
		submitter: submitter,
	}, nil
}

// Subscribe registers an outcome listener.
func (o *Orchestrator) Subscribe(listener EventListener) {
	if listener == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, listener)
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Submit runs the checkout flow: an invalid form marks every field touched
// and aborts without calling the collaborator; a valid form is snapshotted
// into a payload and submitted. Success clears the cart and resets the form;
// failure leaves both untouched so the user can retry.
func (o *Orchestrator) Submit(ctx context.Context, form *checkoutform.Form) (*Confirmation, error) {
	if form == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout form required")
	}

	payload, err := o.beginSubmit(form)
	if err != nil {
		return nil, err
	}

	confirmation, err := o.submitter.SubmitOrder(ctx, *payload)
	if err != nil {
		o.finishSubmit(StateIdle)
		o.notifyFailed(reasonFor(err))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "order submission failed")
	}

	o.cart.Clear()
	form.Reset()
	o.finishSubmit(StateCompleted)
	o.notifyCompleted(confirmation.TrackingNumber)
	return confirmation, nil
}

// beginSubmit validates the form, builds the payload, and transitions to
// Submitting while holding the lock, so payload assembly and the state change
// are atomic with respect to concurrent submits.
func (o *Orchestrator) beginSubmit(form *checkoutform.Form) (*PurchasePayload, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state == StateSubmitting {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "submission already in flight")
	}
	o.state = StateIdle

	if ok, fields := form.Validate(); !ok {
		form.MarkAllTouched()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout form is invalid").
			WithDetails(fields)
	}

	items := o.cart.Items()
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	payload := buildPayload(form.Values(), items, o.cart.Totals())
	o.state = StateSubmitting
	return &payload, nil
}

func (o *Orchestrator) finishSubmit(state State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = state
}

// buildPayload snapshots the cart by value. The totals come from the cart
// manager's last broadcast; the orchestrator never recomputes them.
func buildPayload(values checkoutform.Values, items []cart.LineItem, totals cart.Totals) PurchasePayload {
	lines := make([]OrderLine, len(items))
	for i, item := range items {
		lines[i] = OrderLine{
			ProductID: item.ID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			ImageURL:  item.ImageURL,
		}
	}
	return PurchasePayload{
		Customer:        values.Customer,
		ShippingAddress: values.Shipping,
		BillingAddress:  values.Billing,
		OrderLines:      lines,
		TotalPrice:      totals.Price,
		TotalQuantity:   totals.Quantity,
	}
}

func (o *Orchestrator) notifyCompleted(trackingNumber string) {
	for _, listener := range o.snapshotListeners() {
		listener.OrderCompleted(trackingNumber)
	}
}

func (o *Orchestrator) notifyFailed(reason string) {
	for _, listener := range o.snapshotListeners() {
		listener.OrderFailed(reason)
	}
}

func (o *Orchestrator) snapshotListeners() []EventListener {
	o.mu.Lock()
	defer o.mu.Unlock()
	listeners := make([]EventListener, len(o.listeners))
	copy(listeners, o.listeners)
	return listeners
}

// reasonFor surfaces the collaborator's message verbatim when it is one of
// our coded errors, and the raw error text otherwise.
func reasonFor(err error) string {
	if typed := pkgerrors.As(err); typed != nil && typed.Message() != "" {
		return typed.Message()
	}
	return err.Error()
}
