package openorders_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/composable-projections-go/example/features/openorders"
	"github.com/AntonStoeckl/composable-projections-go/example/shared/core"
	"github.com/AntonStoeckl/composable-projections-go/projection"
)

type storeCall struct {
	method  string
	orderID core.OrderIDString
}

type fakeStore struct {
	calls []storeCall
	rows  []openorders.OpenOrderRow
}

func (f *fakeStore) InsertOrder(_ context.Context, row openorders.OpenOrderRow) error {
	f.calls = append(f.calls, storeCall{method: "insert", orderID: row.OrderID})
	f.rows = append(f.rows, row)

	return nil
}

func (f *fakeStore) MarkOrderPaid(_ context.Context, orderID core.OrderIDString) error {
	f.calls = append(f.calls, storeCall{method: "markPaid", orderID: orderID})
	return nil
}

func (f *fakeStore) RemoveOrder(_ context.Context, orderID core.OrderIDString) error {
	f.calls = append(f.calls, storeCall{method: "remove", orderID: orderID})
	return nil
}

func Test_Projection_InsertsAnOpenOrder_WhenAnOrderIsPlaced(t *testing.T) {
	// arrange
	store := &fakeStore{}
	proj := openorders.BuildProjection(store)
	orderID := uuid.New()
	placed := core.BuildOrderPlaced(orderID, uuid.New(), 4990, time.Now())

	// act
	err := projection.OnEvent(t.Context(), proj, placed)

	// assert
	require.NoError(t, err)
	require.Len(t, store.rows, 1)
	assert.Equal(t, orderID.String(), store.rows[0].OrderID)
	assert.Equal(t, core.CentsInt(4990), store.rows[0].TotalCents)
	assert.False(t, store.rows[0].Paid)
}

func Test_Projection_MarksTheOrderPaid_WhenThePaymentIsCaptured(t *testing.T) {
	// arrange
	store := &fakeStore{}
	proj := openorders.BuildProjection(store)
	orderID := uuid.New()
	captured := core.BuildPaymentCaptured(orderID, 4990, time.Now())

	// act
	err := projection.OnEvent(t.Context(), proj, captured)

	// assert
	require.NoError(t, err)
	require.Len(t, store.calls, 1)
	assert.Equal(t, storeCall{method: "markPaid", orderID: orderID.String()}, store.calls[0])
}

func Test_Projection_RemovesTheOrder_WhenItIsShippedOrCanceled(t *testing.T) {
	// arrange
	store := &fakeStore{}
	proj := openorders.BuildProjection(store)
	shippedID := uuid.New()
	canceledID := uuid.New()

	// act
	err1 := projection.OnEvent(t.Context(), proj, core.BuildOrderShipped(shippedID, "DHL", "00340434161094042557", time.Now()))
	err2 := projection.OnEvent(t.Context(), proj, core.BuildOrderCanceled(canceledID, "customer request", time.Now()))

	// assert
	require.NoError(t, err1)
	require.NoError(t, err2)
	assert.Equal(t, []storeCall{
		{method: "remove", orderID: shippedID.String()},
		{method: "remove", orderID: canceledID.String()},
	}, store.calls)
}

func Test_Projection_IgnoresEventTypesItIsNotDefinedFor(t *testing.T) {
	// arrange
	store := &fakeStore{}
	proj := openorders.BuildProjection(store)
	unknown := core.BuildUnknownEventObserved("InvoiceArchived", time.Now())

	// act
	err := projection.OnEvent(t.Context(), proj, unknown)

	// assert
	require.NoError(t, err)
	assert.False(t, proj.IsDefinedFor(unknown))
	assert.Empty(t, store.calls)
}

func Test_Projection_RunsExactlyOneBranchPerEvent(t *testing.T) {
	// arrange
	store := &fakeStore{}
	proj := openorders.BuildProjection(store)
	orderID := uuid.New()

	// act
	require.NoError(t, projection.OnEvent(t.Context(), proj, core.BuildOrderPlaced(orderID, uuid.New(), 100, time.Now())))
	require.NoError(t, projection.OnEvent(t.Context(), proj, core.BuildPaymentCaptured(orderID, 100, time.Now())))
	require.NoError(t, projection.OnEvent(t.Context(), proj, core.BuildOrderShipped(orderID, "DHL", "x", time.Now())))

	// assert
	assert.Equal(t, []storeCall{
		{method: "insert", orderID: orderID.String()},
		{method: "markPaid", orderID: orderID.String()},
		{method: "remove", orderID: orderID.String()},
	}, store.calls)
}
