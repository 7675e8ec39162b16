package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/okonkwolabs/kasuwa/internal/address"
	"github.com/okonkwolabs/kasuwa/internal/archive"
	"github.com/okonkwolabs/kasuwa/internal/domain"
	"github.com/okonkwolabs/kasuwa/internal/notify"
	"github.com/okonkwolabs/kasuwa/internal/pricing"
	"github.com/okonkwolabs/kasuwa/internal/shipping"
	"github.com/okonkwolabs/kasuwa/internal/task"
	"github.com/okonkwolabs/kasuwa/internal/tax"
	"github.com/okonkwolabs/kasuwa/internal/telemetry"
)

// sessionTTL bounds how long an untouched checkout draft survives.
const sessionTTL = 2 * time.Hour

// StockReserver deducts item stock when an order is placed.
type StockReserver interface {
	Reserve(ctx context.Context, itemID string, quantity int) error
}

// checkoutSession is one shopper's in-flight wizard state. Drafts are
// memory-only; an abandoned session is garbage collected, never stored.
type checkoutSession struct {
	step      domain.Step
	draft     domain.CheckoutDraft
	placing   bool
	completed bool
	orderID   string
	touchedAt time.Time
}

type Checkout struct {
	mu       sync.Mutex
	sessions map[string]*checkoutSession

	cart      domain.CartService
	provider  shipping.Provider
	stations  shipping.StationDirectory
	addresses address.Validator
	taxes     tax.Calculator
	orders    archive.Archive
	stock     StockReserver
	notifier  notify.Notifier
	validate  *validator.Validate
	logger    *slog.Logger

	confirmDelay time.Duration
	now          func() time.Time
}

// Compile-time check to ensure Checkout implements domain.CheckoutService.
var _ domain.CheckoutService = (*Checkout)(nil)

// CheckoutParams collects the checkout service dependencies.
type CheckoutParams struct {
	Cart         domain.CartService
	Provider     shipping.Provider
	Stations     shipping.StationDirectory
	Addresses    address.Validator
	Taxes        tax.Calculator
	Orders       archive.Archive
	Stock        StockReserver
	Notifier     notify.Notifier
	Logger       *slog.Logger
	ConfirmDelay time.Duration
}

// NewCheckoutService creates the checkout wizard service.
func NewCheckoutService(p CheckoutParams) *Checkout {
	return &Checkout{
		sessions:     make(map[string]*checkoutSession),
		cart:         p.Cart,
		provider:     p.Provider,
		stations:     p.Stations,
		addresses:    p.Addresses,
		taxes:        p.Taxes,
		orders:       p.Orders,
		stock:        p.Stock,
		notifier:     p.Notifier,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		logger:       p.Logger.With(slog.String("component", "checkout_service")),
		confirmDelay: p.ConfirmDelay,
		now:          time.Now,
	}
}

// StartJanitor sweeps expired sessions until ctx is cancelled.
func (s *Checkout) StartJanitor(ctx context.Context, interval time.Duration) *task.Handle {
	return task.Every(ctx, interval, func(ctx context.Context) {
		cutoff := s.now().Add(-sessionTTL)

		s.mu.Lock()
		for token, session := range s.sessions {
			if session.touchedAt.Before(cutoff) {
				delete(s.sessions, token)
			}
		}
		s.mu.Unlock()
	})
}

func (s *Checkout) Begin(ctx context.Context) (*domain.CheckoutState, error) {
	const op = "checkout.begin"

	token := domain.SessionFromContext(ctx)
	if token == "" {
		return nil, &domain.Error{Code: domain.EUNAUTHORIZED, Message: "Session required", Op: op}
	}

	summary := s.cart.Summary()
	if summary.TotalItemCount == 0 {
		return nil, domain.ErrCartEmpty
	}

	session := &checkoutSession{
		step:      domain.StepDelivery,
		draft:     domain.CheckoutDraft{Payment: domain.PaymentCard},
		touchedAt: s.now(),
	}

	s.mu.Lock()
	s.sessions[token] = session
	state := s.stateLocked(ctx, session)
	s.mu.Unlock()

	if telemetry.Business != nil {
		telemetry.Business.CheckoutStarted.Inc()
		telemetry.Business.CartValue.Observe(float64(summary.TotalPrice))
	}
	s.logger.InfoContext(ctx, "checkout started",
		slog.Int("items", summary.TotalItemCount),
		slog.Int64("subtotal", summary.TotalPrice))
	return state, nil
}

func (s *Checkout) Get(ctx context.Context) (*domain.CheckoutState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionLocked(ctx)
	if err != nil {
		return nil, err
	}
	return s.stateLocked(ctx, session), nil
}

func (s *Checkout) SetDelivery(ctx context.Context, sel domain.DeliverySelection) (*domain.CheckoutState, error) {
	return s.updateDraft(ctx, func(d *domain.CheckoutDraft) {
		d.Delivery = sel
	})
}

func (s *Checkout) SetContact(ctx context.Context, contact domain.ContactInfo) (*domain.CheckoutState, error) {
	return s.updateDraft(ctx, func(d *domain.CheckoutDraft) {
		d.Contact = contact
	})
}

func (s *Checkout) SetPayment(ctx context.Context, method domain.PaymentMethod) (*domain.CheckoutState, error) {
	return s.updateDraft(ctx, func(d *domain.CheckoutDraft) {
		d.Payment = method
	})
}

// updateDraft applies a field update. Invalid values are stored as-is;
// validity only matters when the shopper tries to advance.
func (s *Checkout) updateDraft(ctx context.Context, apply func(*domain.CheckoutDraft)) (*domain.CheckoutState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionLocked(ctx)
	if err != nil {
		return nil, err
	}
	apply(&session.draft)
	session.touchedAt = s.now()
	return s.stateLocked(ctx, session), nil
}

func (s *Checkout) Next(ctx context.Context) (*domain.CheckoutState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionLocked(ctx)
	if err != nil {
		return nil, err
	}
	session.touchedAt = s.now()

	fieldErrs := s.gateLocked(ctx, session)
	if len(fieldErrs) > 0 {
		// A failed gate is a normal outcome, not an error.
		if telemetry.Business != nil {
			telemetry.Business.StepGateFailed.WithLabelValues(stepLabel(session.step)).Inc()
		}
		state := s.stateLocked(ctx, session)
		return state, nil
	}

	if session.step == domain.StepDelivery && session.draft.Delivery.Method == domain.DeliveryLogistics {
		// Adopt the canonical address form once the gate has passed.
		if result, err := s.addresses.Validate(ctx, session.draft.Delivery.Address); err == nil && result.Normalized != nil {
			session.draft.Delivery.Address = *result.Normalized
		}
	}

	if session.step < domain.StepReview {
		if telemetry.Business != nil {
			telemetry.Business.CheckoutStep.WithLabelValues(stepLabel(session.step)).Inc()
		}
		session.step++
	}
	return s.stateLocked(ctx, session), nil
}

func (s *Checkout) Back(ctx context.Context) (*domain.CheckoutState, error) {
	token := domain.SessionFromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.sessionLocked(ctx)
	if err != nil {
		return nil, err
	}

	if session.step == domain.StepDelivery {
		// Backing out of the first step leaves the wizard entirely.
		// The draft is gone; re-entering starts clean.
		delete(s.sessions, token)
		if telemetry.Business != nil {
			telemetry.Business.CheckoutExited.Inc()
		}
		s.logger.InfoContext(ctx, "checkout exited")
		return &domain.CheckoutState{Step: domain.StepDelivery, Exited: true}, nil
	}

	session.step--
	session.touchedAt = s.now()
	return s.stateLocked(ctx, session), nil
}

func (s *Checkout) Quote(ctx context.Context) (*domain.PriceBreakdown, error) {
	s.mu.Lock()
	session, err := s.sessionLocked(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	delivery := session.draft.Delivery
	s.mu.Unlock()

	return s.quote(ctx, delivery)
}

func (s *Checkout) quote(ctx context.Context, delivery domain.DeliverySelection) (*domain.PriceBreakdown, error) {
	const op = "checkout.quote"

	summary := s.cart.Summary()

	fee, err := s.provider.GetFee(ctx, shipping.FeeParams{
		Delivery:      delivery,
		ItemsSubtotal: summary.TotalPrice,
	})
	if err != nil {
		return nil, domain.Invalid(op, err.Error())
	}

	taxItems := make([]tax.LineItem, 0, len(summary.Items))
	for _, item := range summary.Items {
		taxItems = append(taxItems, tax.LineItem{
			ItemID:    item.ID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineSubtotal(),
		})
	}
	taxResult, err := s.taxes.CalculateTax(ctx, tax.TaxParams{
		LineItems: taxItems,
		Region:    delivery.Address.Region,
	})
	if err != nil {
		return nil, domain.Internal(err, op, "Failed to calculate tax")
	}

	breakdown := pricing.Derive(summary.Items, fee.Amount, taxResult.TotalTax)
	return &breakdown, nil
}

func (s *Checkout) PlaceOrder(ctx context.Context, termsAccepted bool) (*domain.OrderSnapshot, error) {
	const op = "checkout.place_order"

	s.mu.Lock()
	session, err := s.sessionLocked(ctx)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if session.step != domain.StepReview {
		s.mu.Unlock()
		return nil, domain.Invalid(op, "Order can only be placed from the review step")
	}
	if !termsAccepted {
		s.mu.Unlock()
		return nil, domain.ErrTermsNotAccepted
	}
	if session.placing {
		// A second submit while the first is in flight must not yield
		// a second snapshot.
		s.mu.Unlock()
		return nil, domain.Conflict(op, "Order placement already in progress")
	}
	session.placing = true
	draft := session.draft
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		session.placing = false
		s.mu.Unlock()
	}()

	summary := s.cart.Summary()
	if summary.TotalItemCount == 0 {
		return nil, domain.ErrCartEmpty
	}

	breakdown, err := s.quote(ctx, draft.Delivery)
	if err != nil {
		return nil, err
	}

	if s.stock != nil {
		for _, item := range summary.Items {
			if err := s.stock.Reserve(ctx, item.ID, item.Quantity); err != nil {
				return nil, domain.Conflict(op, err.Error())
			}
		}
	}

	placedAt := s.now().UTC()
	snapshot := domain.OrderSnapshot{
		ID:       uuid.NewString(),
		Number:   orderNumber(placedAt),
		Items:    summary.Items,
		Pricing:  *breakdown,
		Delivery: draft.Delivery,
		Contact:  draft.Contact,
		Payment:  draft.Payment,
		PlacedAt: placedAt,
	}
	if err := s.orders.Append(ctx, snapshot); err != nil {
		return nil, err
	}

	if err := s.cart.Clear(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after order",
			slog.String("order_id", snapshot.ID),
			slog.String("error", err.Error()))
	}

	s.mu.Lock()
	session.completed = true
	session.orderID = snapshot.ID
	s.mu.Unlock()

	// Confirmation notices go out after the simulated processing delay.
	task.After(context.WithoutCancel(ctx), s.confirmDelay, func(ctx context.Context) {
		err := s.notifier.Publish(ctx, notify.Event{
			Kind:       notify.EventOrderPlaced,
			OccurredAt: placedAt,
			OrderID:    snapshot.ID,
			Fields: map[string]any{
				"number":      snapshot.Number,
				"grand_total": snapshot.Pricing.GrandTotal,
			},
		})
		if err != nil {
			s.logger.Error("failed to publish order notice",
				slog.String("order_id", snapshot.ID),
				slog.String("error", err.Error()))
		}
	})

	if telemetry.Business != nil {
		telemetry.Business.CheckoutStep.WithLabelValues(stepLabel(domain.StepReview)).Inc()
		telemetry.Business.OrdersPlaced.WithLabelValues(string(draft.Delivery.Method), string(draft.Payment)).Inc()
		telemetry.Business.OrderValue.Observe(float64(snapshot.Pricing.GrandTotal))
		telemetry.Business.OrderItemCount.Observe(float64(summary.TotalItemCount))
		if snapshot.Pricing.ShippingFee == 0 && draft.Delivery.Method == domain.DeliveryLogistics {
			telemetry.Business.ShippingWaived.Inc()
		}
	}
	s.logger.InfoContext(ctx, "order placed",
		slog.String("order_id", snapshot.ID),
		slog.String("number", snapshot.Number),
		slog.Int64("grand_total", snapshot.Pricing.GrandTotal))
	return &snapshot, nil
}

// sessionLocked resolves the caller's session. Caller holds s.mu.
func (s *Checkout) sessionLocked(ctx context.Context) (*checkoutSession, error) {
	token := domain.SessionFromContext(ctx)
	if token == "" {
		return nil, &domain.Error{Code: domain.EUNAUTHORIZED, Message: "Session required"}
	}
	session, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrCheckoutNotFound
	}
	if session.completed {
		return nil, domain.ErrCheckoutCompleted
	}
	return session, nil
}

// stateLocked builds the caller-facing view, re-running the active
// step's gate so CanContinue is always live. Caller holds s.mu.
func (s *Checkout) stateLocked(ctx context.Context, session *checkoutSession) *domain.CheckoutState {
	fieldErrs := s.gateLocked(ctx, session)
	return &domain.CheckoutState{
		Step:        session.step,
		Draft:       session.draft,
		CanContinue: len(fieldErrs) == 0,
		FieldErrors: fieldErrs,
		Completed:   session.completed,
		OrderID:     session.orderID,
	}
}

// gateLocked validates the active step. Empty result means the step
// may advance.
func (s *Checkout) gateLocked(ctx context.Context, session *checkoutSession) map[string]string {
	switch session.step {
	case domain.StepDelivery:
		return s.validateDelivery(ctx, session.draft.Delivery)
	case domain.StepContact:
		return fieldErrors(s.validate.Struct(session.draft.Contact))
	case domain.StepPayment:
		if !domain.ValidPaymentMethod(session.draft.Payment) {
			return map[string]string{"payment": "Choose a payment method"}
		}
		return nil
	default:
		return nil
	}
}

func (s *Checkout) validateDelivery(ctx context.Context, sel domain.DeliverySelection) map[string]string {
	errs := make(map[string]string)
	switch sel.Method {
	case domain.DeliveryLogistics:
		result, err := s.addresses.Validate(ctx, sel.Address)
		if err != nil {
			errs["address"] = "Unable to validate the delivery address"
		} else if !result.Valid {
			for field, msg := range result.Errors {
				errs[field] = msg
			}
		}
	case domain.DeliveryPickupStation:
		if sel.StationID == "" {
			errs["station_id"] = "Choose a pickup station"
		} else if _, err := s.stations.Station(ctx, sel.StationID); err != nil {
			errs["station_id"] = "Unknown pickup station"
		}
	default:
		errs["method"] = "Choose a delivery method"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func stepLabel(step domain.Step) string {
	switch step {
	case domain.StepDelivery:
		return "delivery"
	case domain.StepContact:
		return "contact"
	case domain.StepPayment:
		return "payment"
	case domain.StepReview:
		return "review"
	default:
		return "unknown"
	}
}

func orderNumber(placedAt time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:8])
	return fmt.Sprintf("KSW-%s-%s", placedAt.Format("20060102"), suffix)
}
