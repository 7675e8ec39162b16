package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/okonkwolabs/kasuwa/internal/domain"
	"github.com/okonkwolabs/kasuwa/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) kv.Store {
	t.Helper()
	store, err := kv.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func toteBag() domain.CartLineItem {
	return domain.CartLineItem{
		ID: "sku-ankara-tote", Name: "Ankara Print Tote Bag",
		UnitPrice: 450000, Quantity: 1,
		OriginalUnitPrice: 600000, DiscountPercent: 25,
	}
}

func sheaButter() domain.CartLineItem {
	return domain.CartLineItem{
		ID: "sku-shea-butter", Name: "Raw Shea Butter 500g",
		UnitPrice: 280000, Quantity: 1,
	}
}

func TestCart_AddMergesSameID(t *testing.T) {
	cart := NewCartService(context.Background(), newTestStore(t), testLogger())
	ctx := context.Background()

	_, err := cart.Add(ctx, toteBag())
	require.NoError(t, err)

	item := toteBag()
	item.Quantity = 2
	summary, err := cart.Add(ctx, item)
	require.NoError(t, err)

	require.Len(t, summary.Items, 1)
	assert.Equal(t, 3, summary.Items[0].Quantity)
	assert.Equal(t, 3, summary.TotalItemCount)
	assert.Equal(t, int64(1350000), summary.TotalPrice)
}

func TestCart_AddRejectsMissingIdentity(t *testing.T) {
	cart := NewCartService(context.Background(), newTestStore(t), testLogger())
	ctx := context.Background()

	_, err := cart.Add(ctx, domain.CartLineItem{Name: "nameless"})
	assert.ErrorIs(t, err, domain.ErrInvalidLineItem)

	_, err = cart.Add(ctx, domain.CartLineItem{ID: "sku-x"})
	assert.ErrorIs(t, err, domain.ErrInvalidLineItem)
}

func TestCart_AddZeroQuantityBecomesOne(t *testing.T) {
	cart := NewCartService(context.Background(), newTestStore(t), testLogger())

	item := toteBag()
	item.Quantity = 0
	summary, err := cart.Add(context.Background(), item)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Items[0].Quantity)
}

func TestCart_UpdateQuantityClampsToOne(t *testing.T) {
	cart := NewCartService(context.Background(), newTestStore(t), testLogger())
	ctx := context.Background()

	_, err := cart.Add(ctx, toteBag())
	require.NoError(t, err)

	tests := []struct {
		name string
		set  int
		want int
	}{
		{name: "regular update", set: 4, want: 4},
		{name: "zero clamps to one", set: 0, want: 1},
		{name: "negative clamps to one", set: -3, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, err := cart.UpdateQuantity(ctx, "sku-ankara-tote", tt.set)
			require.NoError(t, err)
			// Clamping means the item is still present.
			require.Len(t, summary.Items, 1)
			assert.Equal(t, tt.want, summary.Items[0].Quantity)
		})
	}
}

func TestCart_UpdateQuantityUnknownIDIsNoop(t *testing.T) {
	cart := NewCartService(context.Background(), newTestStore(t), testLogger())
	ctx := context.Background()

	_, err := cart.Add(ctx, toteBag())
	require.NoError(t, err)

	summary, err := cart.UpdateQuantity(ctx, "sku-ghost", 9)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 1, summary.Items[0].Quantity)
}

func TestCart_RemoveIsExplicitAndIdempotent(t *testing.T) {
	cart := NewCartService(context.Background(), newTestStore(t), testLogger())
	ctx := context.Background()

	_, err := cart.Add(ctx, toteBag())
	require.NoError(t, err)
	_, err = cart.Add(ctx, sheaButter())
	require.NoError(t, err)

	summary, err := cart.Remove(ctx, "sku-ankara-tote")
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "sku-shea-butter", summary.Items[0].ID)

	// Second removal of the same ID changes nothing.
	summary, err = cart.Remove(ctx, "sku-ankara-tote")
	require.NoError(t, err)
	assert.Len(t, summary.Items, 1)
}

func TestCart_TotalsDerivedOnRead(t *testing.T) {
	cart := NewCartService(context.Background(), newTestStore(t), testLogger())
	ctx := context.Background()

	_, err := cart.Add(ctx, toteBag())
	require.NoError(t, err)
	_, err = cart.UpdateQuantity(ctx, "sku-ankara-tote", 5)
	require.NoError(t, err)

	summary := cart.Summary()
	assert.Equal(t, 5, summary.TotalItemCount)
	assert.Equal(t, int64(2250000), summary.TotalPrice)
	assert.Equal(t, 5, cart.ItemCount("sku-ankara-tote"))
	assert.Equal(t, 0, cart.ItemCount("sku-ghost"))
}

func TestCart_Clear(t *testing.T) {
	cart := NewCartService(context.Background(), newTestStore(t), testLogger())
	ctx := context.Background()

	_, err := cart.Add(ctx, toteBag())
	require.NoError(t, err)
	require.NoError(t, cart.Clear(ctx))

	summary := cart.Summary()
	assert.Empty(t, summary.Items)
	assert.Equal(t, 0, summary.TotalItemCount)
	assert.Equal(t, int64(0), summary.TotalPrice)
}

func TestCart_SubscribersNotifiedInOrder(t *testing.T) {
	cart := NewCartService(context.Background(), newTestStore(t), testLogger())
	ctx := context.Background()

	var calls []string
	cart.Subscribe(func(s domain.CartSummary) { calls = append(calls, "first") })
	unsub := cart.Subscribe(func(s domain.CartSummary) { calls = append(calls, "second") })

	_, err := cart.Add(ctx, toteBag())
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, calls)

	calls = nil
	unsub()
	_, err = cart.Add(ctx, sheaButter())
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, calls)
}

func TestCart_NoopMutationsDoNotNotify(t *testing.T) {
	cart := NewCartService(context.Background(), newTestStore(t), testLogger())
	ctx := context.Background()

	_, err := cart.Add(ctx, toteBag())
	require.NoError(t, err)

	notified := 0
	cart.Subscribe(func(s domain.CartSummary) { notified++ })

	_, err = cart.Remove(ctx, "sku-ghost")
	require.NoError(t, err)
	_, err = cart.UpdateQuantity(ctx, "sku-ghost", 3)
	require.NoError(t, err)
	_, err = cart.UpdateQuantity(ctx, "sku-ankara-tote", 1)
	require.NoError(t, err)

	assert.Equal(t, 0, notified)
}

func TestCart_PersistsAcrossRestart(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cart := NewCartService(ctx, store, testLogger())
	_, err := cart.Add(ctx, toteBag())
	require.NoError(t, err)
	_, err = cart.UpdateQuantity(ctx, "sku-ankara-tote", 3)
	require.NoError(t, err)

	reloaded := NewCartService(ctx, store, testLogger())
	summary := reloaded.Summary()
	require.Len(t, summary.Items, 1)
	assert.Equal(t, 3, summary.Items[0].Quantity)
	assert.Equal(t, int64(1350000), summary.TotalPrice)
}

func TestCart_CorruptRecordStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	store, err := kv.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cart.json"), []byte("]broken["), 0644))

	cart := NewCartService(context.Background(), store, testLogger())
	assert.Empty(t, cart.Summary().Items)

	// The cart still works after the discard.
	_, err = cart.Add(context.Background(), toteBag())
	require.NoError(t, err)
	assert.Len(t, cart.Summary().Items, 1)
}

func TestCart_BrowseScenario(t *testing.T) {
	cart := NewCartService(context.Background(), newTestStore(t), testLogger())
	ctx := context.Background()

	// Shopper adds the same bag twice from different pages, then a
	// tub of shea butter, bumps the butter to three, and drops the bag.
	_, err := cart.Add(ctx, toteBag())
	require.NoError(t, err)
	_, err = cart.Add(ctx, toteBag())
	require.NoError(t, err)
	_, err = cart.Add(ctx, sheaButter())
	require.NoError(t, err)
	_, err = cart.UpdateQuantity(ctx, "sku-shea-butter", 3)
	require.NoError(t, err)
	summary, err := cart.Remove(ctx, "sku-ankara-tote")
	require.NoError(t, err)

	require.Len(t, summary.Items, 1)
	assert.Equal(t, 3, summary.TotalItemCount)
	assert.Equal(t, int64(840000), summary.TotalPrice)
}
