package domain

import "context"

// =============================================================================
// CHECKOUT DOMAIN ERRORS
// =============================================================================

var (
	ErrCheckoutNotFound  = &Error{Code: ENOTFOUND, Message: "No checkout in progress for this session"}
	ErrCheckoutCompleted = &Error{Code: EGONE, Message: "Checkout already completed"}
	ErrTermsNotAccepted  = &Error{Code: EINVALID, Message: "Terms must be accepted before placing the order"}
)

// DeliveryMethod selects how an order reaches the customer.
type DeliveryMethod string

const (
	DeliveryLogistics     DeliveryMethod = "logistics"
	DeliveryPickupStation DeliveryMethod = "pickup_station"
)

// PaymentMethod is the customer's payment selection. No payment is captured
// here; the value is recorded on the order snapshot only.
type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentOnDelivery   PaymentMethod = "pay_on_delivery"
)

// ValidPaymentMethod reports whether m is one of the known methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCard, PaymentBankTransfer, PaymentOnDelivery:
		return true
	}
	return false
}

// LogisticsAddress is the courier destination for logistics delivery.
type LogisticsAddress struct {
	Region string `json:"region"`
	City   string `json:"city"`
	Area   string `json:"area"`
}

// PickupStation is a fixed physical location with its own handling fee,
// selectable in place of courier delivery.
type PickupStation struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	City        string `json:"city"`
	HandlingFee int64  `json:"handling_fee"`
}

// DeliverySelection is the method plus its method-specific fields.
type DeliverySelection struct {
	Method    DeliveryMethod   `json:"method"`
	Address   LogisticsAddress `json:"address"`
	StationID string           `json:"station_id,omitempty"`
}

// ContactInfo holds the checkout contact fields. The messaging phone must
// differ from the primary phone.
type ContactInfo struct {
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required,min=7"`
	MessagingPhone string `json:"messaging_phone" validate:"required,min=7,nefield=Phone"`
}

// Step identifies a checkout wizard step. Steps are linear; forward
// transitions are gated by the current step's validator.
type Step int

const (
	StepDelivery Step = 1
	StepContact  Step = 2
	StepPayment  Step = 3
	StepReview   Step = 4
)

// CheckoutDraft is the in-progress checkout state for one session. It is
// never persisted; abandoned drafts are simply discarded.
type CheckoutDraft struct {
	Delivery DeliverySelection `json:"delivery"`
	Contact  ContactInfo       `json:"contact"`
	Payment  PaymentMethod     `json:"payment"`
}

// CheckoutState is the view of a checkout session returned to callers.
type CheckoutState struct {
	Step        Step              `json:"step"`
	Draft       CheckoutDraft     `json:"draft"`
	CanContinue bool              `json:"can_continue"`
	FieldErrors map[string]string `json:"field_errors,omitempty"`
	Completed   bool              `json:"completed"`
	Exited      bool              `json:"exited"`
	OrderID     string            `json:"order_id,omitempty"`
}

// CheckoutService runs the four-step checkout wizard for shopper sessions.
// Forward transitions require the current step's validator to pass; backward
// transitions are always permitted, and going back from step 1 exits the
// wizard. Placing the order is terminal and irreversible.
type CheckoutService interface {
	// Begin starts a fresh checkout for the session. Fails when the cart
	// is empty.
	Begin(ctx context.Context) (*CheckoutState, error)

	// Get returns the current state, re-evaluating the active step's gate.
	Get(ctx context.Context) (*CheckoutState, error)

	// SetDelivery, SetContact and SetPayment update draft fields. Updates
	// are accepted regardless of validity; validity only gates Next.
	SetDelivery(ctx context.Context, sel DeliverySelection) (*CheckoutState, error)
	SetContact(ctx context.Context, contact ContactInfo) (*CheckoutState, error)
	SetPayment(ctx context.Context, method PaymentMethod) (*CheckoutState, error)

	// Next advances one step when the current gate passes. When it does
	// not, the returned state carries the field errors and the step is
	// unchanged; this is not an error.
	Next(ctx context.Context) (*CheckoutState, error)

	// Back moves one step backward, always. From step 1 it discards the
	// draft and reports Exited.
	Back(ctx context.Context) (*CheckoutState, error)

	// Quote derives the current price breakdown for the draft's delivery
	// selection.
	Quote(ctx context.Context) (*PriceBreakdown, error)

	// PlaceOrder executes the terminal action from the review step:
	// snapshot the order, append it to history, clear the cart, and move
	// to Completed. Requires explicit terms acknowledgement.
	PlaceOrder(ctx context.Context, termsAccepted bool) (*OrderSnapshot, error)
}
