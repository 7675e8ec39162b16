package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okonkwolabs/kasuwa/internal/address"
	"github.com/okonkwolabs/kasuwa/internal/archive"
	"github.com/okonkwolabs/kasuwa/internal/domain"
	"github.com/okonkwolabs/kasuwa/internal/notify"
	"github.com/okonkwolabs/kasuwa/internal/shipping"
	"github.com/okonkwolabs/kasuwa/internal/tax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testBaseFee   = 250000
	testThreshold = 10000000
)

// fakeStock implements StockReserver for testing
type fakeStock struct {
	reserved map[string]int
	err      error
}

func (f *fakeStock) Reserve(ctx context.Context, itemID string, quantity int) error {
	if f.err != nil {
		return f.err
	}
	if f.reserved == nil {
		f.reserved = make(map[string]int)
	}
	f.reserved[itemID] += quantity
	return nil
}

type checkoutFixture struct {
	checkout *Checkout
	cart     domain.CartService
	orders   *archive.FileArchive
	stock    *fakeStock
	ctx      context.Context
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	store := newTestStore(t)
	logger := testLogger()
	ctx := context.Background()

	cart := NewCartService(ctx, store, logger)
	orders := archive.NewFileArchive(store, logger)
	stations := shipping.NewStationProvider(shipping.DefaultStations())
	provider := shipping.NewMethodProvider(
		shipping.NewFlatRateProvider(testBaseFee, testThreshold),
		stations,
	)
	taxes, err := tax.NewPercentageCalculator(0.01)
	require.NoError(t, err)
	stock := &fakeStock{}

	checkout := NewCheckoutService(CheckoutParams{
		Cart:         cart,
		Provider:     provider,
		Stations:     stations,
		Addresses:    address.NewNigeriaValidator(),
		Taxes:        taxes,
		Orders:       orders,
		Stock:        stock,
		Notifier:     notify.NewLogNotifier(logger),
		Logger:       logger,
		ConfirmDelay: time.Millisecond,
	})

	token, err := GenerateSessionID()
	require.NoError(t, err)

	return &checkoutFixture{
		checkout: checkout,
		cart:     cart,
		orders:   orders,
		stock:    stock,
		ctx:      domain.NewContextWithSession(ctx, token),
	}
}

func (f *checkoutFixture) fillCart(t *testing.T, quantity int) {
	t.Helper()
	item := toteBag()
	item.Quantity = quantity
	_, err := f.cart.Add(f.ctx, item)
	require.NoError(t, err)
}

func validContact() domain.ContactInfo {
	return domain.ContactInfo{
		Email:          "amaka@example.com",
		Phone:          "+2348012345678",
		MessagingPhone: "+2348087654321",
	}
}

func logisticsToLagos() domain.DeliverySelection {
	return domain.DeliverySelection{
		Method:  domain.DeliveryLogistics,
		Address: domain.LogisticsAddress{Region: "Lagos", City: "Ikeja", Area: "Allen Avenue"},
	}
}

func TestCheckout_BeginRequiresNonEmptyCart(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.checkout.Begin(f.ctx)
	assert.ErrorIs(t, err, domain.ErrCartEmpty)
}

func TestCheckout_BeginRequiresSession(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)

	_, err := f.checkout.Begin(context.Background())
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err))
}

func TestCheckout_GetWithoutBegin(t *testing.T) {
	f := newCheckoutFixture(t)

	_, err := f.checkout.Get(f.ctx)
	assert.ErrorIs(t, err, domain.ErrCheckoutNotFound)
}

func TestCheckout_DeliveryGateBlocksAdvance(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)

	state, err := f.checkout.Begin(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StepDelivery, state.Step)
	assert.False(t, state.CanContinue)

	// Advancing with no delivery selection stays on step one and
	// reports the field errors without failing the call.
	state, err = f.checkout.Next(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StepDelivery, state.Step)
	assert.Contains(t, state.FieldErrors, "method")

	// A logistics selection missing its city is still blocked.
	sel := logisticsToLagos()
	sel.Address.City = ""
	_, err = f.checkout.SetDelivery(f.ctx, sel)
	require.NoError(t, err)
	state, err = f.checkout.Next(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StepDelivery, state.Step)
	assert.Contains(t, state.FieldErrors, "city")

	// Completing the address unblocks the gate.
	_, err = f.checkout.SetDelivery(f.ctx, logisticsToLagos())
	require.NoError(t, err)
	state, err = f.checkout.Next(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StepContact, state.Step)
}

func TestCheckout_DeliveryGateChecksRegion(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)

	_, err := f.checkout.Begin(f.ctx)
	require.NoError(t, err)

	sel := logisticsToLagos()
	sel.Address.Region = "Wakanda"
	_, err = f.checkout.SetDelivery(f.ctx, sel)
	require.NoError(t, err)

	state, err := f.checkout.Next(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StepDelivery, state.Step)
	assert.Contains(t, state.FieldErrors, "region")
}

func TestCheckout_AdvanceNormalizesAddress(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)

	_, err := f.checkout.Begin(f.ctx)
	require.NoError(t, err)

	sel := logisticsToLagos()
	sel.Address.Region = "lagos"
	_, err = f.checkout.SetDelivery(f.ctx, sel)
	require.NoError(t, err)

	state, err := f.checkout.Next(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StepContact, state.Step)
	assert.Equal(t, "Lagos", state.Draft.Delivery.Address.Region)
}

func TestCheckout_PickupSelectionValidatesStation(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)

	_, err := f.checkout.Begin(f.ctx)
	require.NoError(t, err)

	_, err = f.checkout.SetDelivery(f.ctx, domain.DeliverySelection{
		Method:    domain.DeliveryPickupStation,
		StationID: "lost-station",
	})
	require.NoError(t, err)

	state, err := f.checkout.Next(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StepDelivery, state.Step)
	assert.Contains(t, state.FieldErrors, "station_id")

	_, err = f.checkout.SetDelivery(f.ctx, domain.DeliverySelection{
		Method:    domain.DeliveryPickupStation,
		StationID: "yaba-tech-road",
	})
	require.NoError(t, err)
	state, err = f.checkout.Next(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StepContact, state.Step)
}

func TestCheckout_ContactGate(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)

	_, err := f.checkout.Begin(f.ctx)
	require.NoError(t, err)
	_, err = f.checkout.SetDelivery(f.ctx, logisticsToLagos())
	require.NoError(t, err)
	_, err = f.checkout.Next(f.ctx)
	require.NoError(t, err)

	tests := []struct {
		name      string
		contact   domain.ContactInfo
		wantField string
	}{
		{
			name: "bad email",
			contact: domain.ContactInfo{
				Email: "not-an-email", Phone: "+2348012345678", MessagingPhone: "+2348087654321",
			},
			wantField: "email",
		},
		{
			name: "missing phone",
			contact: domain.ContactInfo{
				Email: "amaka@example.com", MessagingPhone: "+2348087654321",
			},
			wantField: "phone",
		},
		{
			name: "messaging phone matches phone",
			contact: domain.ContactInfo{
				Email: "amaka@example.com", Phone: "+2348012345678", MessagingPhone: "+2348012345678",
			},
			wantField: "messaging_phone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.checkout.SetContact(f.ctx, tt.contact)
			require.NoError(t, err)
			state, err := f.checkout.Next(f.ctx)
			require.NoError(t, err)
			assert.Equal(t, domain.StepContact, state.Step)
			assert.Contains(t, state.FieldErrors, tt.wantField)
		})
	}

	_, err = f.checkout.SetContact(f.ctx, validContact())
	require.NoError(t, err)
	state, err := f.checkout.Next(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StepPayment, state.Step)
}

func TestCheckout_PaymentGate(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)
	advanceToPayment(t, f)

	// Card is preselected, so the step passes untouched.
	state, err := f.checkout.Get(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCard, state.Draft.Payment)
	assert.True(t, state.CanContinue)

	// A bogus method blocks the gate.
	_, err = f.checkout.SetPayment(f.ctx, domain.PaymentMethod("cowries"))
	require.NoError(t, err)
	state, err = f.checkout.Next(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StepPayment, state.Step)
	assert.Contains(t, state.FieldErrors, "payment")

	_, err = f.checkout.SetPayment(f.ctx, domain.PaymentBankTransfer)
	require.NoError(t, err)
	state, err = f.checkout.Next(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StepReview, state.Step)
	assert.True(t, state.CanContinue)
}

func TestCheckout_BackIsAlwaysAllowed(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)
	advanceToPayment(t, f)

	state, err := f.checkout.Back(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StepContact, state.Step)
	// The draft survives backwards movement.
	assert.Equal(t, validContact(), state.Draft.Contact)

	state, err = f.checkout.Back(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StepDelivery, state.Step)
}

func TestCheckout_BackFromFirstStepExits(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)

	_, err := f.checkout.Begin(f.ctx)
	require.NoError(t, err)
	_, err = f.checkout.SetDelivery(f.ctx, logisticsToLagos())
	require.NoError(t, err)

	state, err := f.checkout.Back(f.ctx)
	require.NoError(t, err)
	assert.True(t, state.Exited)

	// The draft is discarded with the session.
	_, err = f.checkout.Get(f.ctx)
	assert.ErrorIs(t, err, domain.ErrCheckoutNotFound)

	// The cart is untouched by an exit.
	assert.Equal(t, 1, f.cart.Summary().TotalItemCount)
}

func TestCheckout_QuoteLogistics(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 2) // 900000 subtotal

	_, err := f.checkout.Begin(f.ctx)
	require.NoError(t, err)
	_, err = f.checkout.SetDelivery(f.ctx, logisticsToLagos())
	require.NoError(t, err)

	quote, err := f.checkout.Quote(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(900000), quote.Subtotal)
	assert.Equal(t, int64(testBaseFee), quote.ShippingFee)
	assert.Equal(t, int64(9000), quote.Tax) // 1% of the item subtotal only
	assert.Equal(t, int64(1159000), quote.GrandTotal)
}

func TestCheckout_QuoteTaxIgnoresDeliveryFee(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 2) // 900000 subtotal

	_, err := f.checkout.Begin(f.ctx)
	require.NoError(t, err)

	// Same cart under logistics and pickup: the fee differs, the tax
	// must not.
	_, err = f.checkout.SetDelivery(f.ctx, logisticsToLagos())
	require.NoError(t, err)
	logisticsQuote, err := f.checkout.Quote(f.ctx)
	require.NoError(t, err)

	_, err = f.checkout.SetDelivery(f.ctx, domain.DeliverySelection{
		Method:    domain.DeliveryPickupStation,
		StationID: "yaba-tech-road",
	})
	require.NoError(t, err)
	pickupQuote, err := f.checkout.Quote(f.ctx)
	require.NoError(t, err)

	assert.NotEqual(t, logisticsQuote.ShippingFee, pickupQuote.ShippingFee)
	assert.Equal(t, int64(9000), logisticsQuote.Tax)
	assert.Equal(t, int64(9000), pickupQuote.Tax)
}

func TestCheckout_QuoteFreeDeliveryStrictlyAboveThreshold(t *testing.T) {
	f := newCheckoutFixture(t)
	ctx := f.ctx

	// 23 totes at 450000 come to 10350000, above the 10000000 mark.
	f.fillCart(t, 23)
	_, err := f.checkout.Begin(ctx)
	require.NoError(t, err)
	_, err = f.checkout.SetDelivery(ctx, logisticsToLagos())
	require.NoError(t, err)

	quote, err := f.checkout.Quote(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), quote.ShippingFee)
}

func TestCheckout_QuotePickupFeeNotWaived(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 40) // far above the free delivery threshold

	_, err := f.checkout.Begin(f.ctx)
	require.NoError(t, err)
	_, err = f.checkout.SetDelivery(f.ctx, domain.DeliverySelection{
		Method:    domain.DeliveryPickupStation,
		StationID: "ikeja-city-mall",
	})
	require.NoError(t, err)

	quote, err := f.checkout.Quote(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), quote.ShippingFee)
}

func TestCheckout_PlaceOrderRequiresTerms(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)
	advanceToReview(t, f)

	_, err := f.checkout.PlaceOrder(f.ctx, false)
	assert.ErrorIs(t, err, domain.ErrTermsNotAccepted)

	// Still on review, still placeable.
	state, err := f.checkout.Get(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StepReview, state.Step)
}

func TestCheckout_PlaceOrderOnlyFromReview(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)

	_, err := f.checkout.Begin(f.ctx)
	require.NoError(t, err)

	_, err = f.checkout.PlaceOrder(f.ctx, true)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestCheckout_PlaceOrderHappyPath(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 2)
	advanceToReview(t, f)

	snapshot, err := f.checkout.PlaceOrder(f.ctx, true)
	require.NoError(t, err)

	assert.NotEmpty(t, snapshot.ID)
	assert.Regexp(t, `^KSW-\d{8}-[0-9A-F]{8}$`, snapshot.Number)
	require.Len(t, snapshot.Items, 1)
	assert.Equal(t, 2, snapshot.Items[0].Quantity)
	assert.Equal(t, int64(900000), snapshot.Pricing.Subtotal)
	assert.Equal(t, domain.PaymentCard, snapshot.Payment)
	assert.Equal(t, validContact(), snapshot.Contact)
	assert.False(t, snapshot.PlacedAt.IsZero())

	// Cart is cleared by the terminal action.
	assert.Equal(t, 0, f.cart.Summary().TotalItemCount)

	// Stock was reserved for what sold.
	assert.Equal(t, 2, f.stock.reserved["sku-ankara-tote"])

	// The snapshot landed in the archive.
	archived, err := f.orders.Get(f.ctx, snapshot.ID)
	require.NoError(t, err)
	assert.Equal(t, *snapshot, *archived)

	latest, err := f.orders.Latest(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, snapshot.ID, latest.ID)
}

func TestCheckout_PlaceOrderIsTerminal(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)
	advanceToReview(t, f)

	_, err := f.checkout.PlaceOrder(f.ctx, true)
	require.NoError(t, err)

	// Every further operation on the session reports completion.
	_, err = f.checkout.PlaceOrder(f.ctx, true)
	assert.ErrorIs(t, err, domain.ErrCheckoutCompleted)
	_, err = f.checkout.Back(f.ctx)
	assert.ErrorIs(t, err, domain.ErrCheckoutCompleted)
	_, err = f.checkout.Next(f.ctx)
	assert.ErrorIs(t, err, domain.ErrCheckoutCompleted)
}

// gatedStock blocks the first reservation until released, holding one
// order placement mid-flight.
type gatedStock struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedStock) Reserve(ctx context.Context, itemID string, quantity int) error {
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return nil
}

func TestCheckout_DoubleSubmitPlacesOneOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)
	advanceToReview(t, f)

	gate := &gatedStock{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	f.checkout.stock = gate

	var snapshot *domain.OrderSnapshot
	var firstErr error
	done := make(chan struct{})
	go func() {
		snapshot, firstErr = f.checkout.PlaceOrder(f.ctx, true)
		close(done)
	}()

	// The second click lands while the first submission is reserving
	// stock. It must be rejected, not produce a sibling order.
	<-gate.entered
	_, err := f.checkout.PlaceOrder(f.ctx, true)
	require.Error(t, err)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	close(gate.release)
	<-done
	require.NoError(t, firstErr)
	require.NotNil(t, snapshot)

	history, err := f.orders.List(f.ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, snapshot.ID, history[0].ID)
}

func TestCheckout_StockShortageBlocksOrder(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)
	advanceToReview(t, f)

	f.stock.err = fmt.Errorf("insufficient stock")
	_, err := f.checkout.PlaceOrder(f.ctx, true)
	assert.Equal(t, domain.ECONFLICT, domain.ErrorCode(err))

	// Nothing was archived and the cart is intact.
	_, err = f.orders.Latest(f.ctx)
	assert.ErrorIs(t, err, domain.ErrNoOrders)
	assert.Equal(t, 1, f.cart.Summary().TotalItemCount)

	// A failed placement releases the session for another attempt.
	f.stock.err = nil
	snapshot, err := f.checkout.PlaceOrder(f.ctx, true)
	require.NoError(t, err)
	assert.NotEmpty(t, snapshot.ID)
}

func TestCheckout_SessionsAreIndependent(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)

	_, err := f.checkout.Begin(f.ctx)
	require.NoError(t, err)
	_, err = f.checkout.SetDelivery(f.ctx, logisticsToLagos())
	require.NoError(t, err)

	otherToken, err := GenerateSessionID()
	require.NoError(t, err)
	otherCtx := domain.NewContextWithSession(context.Background(), otherToken)

	_, err = f.checkout.Get(otherCtx)
	assert.ErrorIs(t, err, domain.ErrCheckoutNotFound)

	state, err := f.checkout.Begin(otherCtx)
	require.NoError(t, err)
	assert.Equal(t, domain.DeliverySelection{}, state.Draft.Delivery)
}

func TestCheckout_JanitorSweepsStaleSessions(t *testing.T) {
	f := newCheckoutFixture(t)
	f.fillCart(t, 1)

	_, err := f.checkout.Begin(f.ctx)
	require.NoError(t, err)

	// Pin the clock far in the future so the session looks stale.
	f.checkout.now = func() time.Time { return time.Now().Add(3 * sessionTTL) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handle := f.checkout.StartJanitor(ctx, 5*time.Millisecond)
	defer handle.Cancel()

	assert.Eventually(t, func() bool {
		_, err := f.checkout.Get(f.ctx)
		return err != nil
	}, time.Second, 5*time.Millisecond)
}

func advanceToPayment(t *testing.T, f *checkoutFixture) {
	t.Helper()
	_, err := f.checkout.Begin(f.ctx)
	require.NoError(t, err)
	_, err = f.checkout.SetDelivery(f.ctx, logisticsToLagos())
	require.NoError(t, err)
	_, err = f.checkout.Next(f.ctx)
	require.NoError(t, err)
	_, err = f.checkout.SetContact(f.ctx, validContact())
	require.NoError(t, err)
	_, err = f.checkout.Next(f.ctx)
	require.NoError(t, err)
}

func advanceToReview(t *testing.T, f *checkoutFixture) {
	t.Helper()
	advanceToPayment(t, f)
	_, err := f.checkout.SetPayment(f.ctx, domain.PaymentCard)
	require.NoError(t, err)
	state, err := f.checkout.Next(f.ctx)
	require.NoError(t, err)
	require.Equal(t, domain.StepReview, state.Step)
}
