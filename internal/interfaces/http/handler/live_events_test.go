package handler

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/catalog"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/order"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/shared"
)

func registerTestClient(h *LiveEventsHandler) *SSEClient {
	client := &SSEClient{
		ID:   uuid.New().String(),
		Chan: make(chan SSEMessage, 10),
		Done: make(chan struct{}),
	}
	h.clients.Store(client.ID, client)
	return client
}

func TestLiveEventsHandler_EventTypes(t *testing.T) {
	h := NewLiveEventsHandler(zap.NewNop())

	types := h.EventTypes()

	assert.ElementsMatch(t, []string{"StockChanged", "OrderPlaced", "OrderStatusChanged"}, types)
}

func TestLiveEventsHandler_Handle_StockChanged(t *testing.T) {
	h := NewLiveEventsHandler(zap.NewNop())
	client := registerTestClient(h)

	productID := uuid.New()
	event := &catalog.StockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(catalog.EventTypeStockChanged, catalog.AggregateTypeProduct, productID),
		ProductID:       productID,
		Name:            "Brake Pad",
		Stock:           3,
	}

	require.NoError(t, h.Handle(context.Background(), event))

	select {
	case msg := <-client.Chan:
		assert.Equal(t, SSEEventStockUpdate, msg.Event)
		var payload stockUpdatePayload
		require.NoError(t, json.Unmarshal([]byte(msg.Data), &payload))
		assert.Equal(t, productID, payload.ProductID)
		assert.Equal(t, 3, payload.Stock)
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast message")
	}
}

func TestLiveEventsHandler_Handle_OrderPlaced(t *testing.T) {
	h := NewLiveEventsHandler(zap.NewNop())
	client := registerTestClient(h)

	orderID := uuid.New()
	event := &order.OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(order.EventTypeOrderPlaced, order.AggregateTypeOrder, orderID),
		OrderID:         orderID,
		CustomerName:    "Asha Rao",
		Total:           decimal.NewFromInt(450),
		ItemCount:       2,
		TotalQuantity:   3,
	}

	require.NoError(t, h.Handle(context.Background(), event))

	select {
	case msg := <-client.Chan:
		assert.Equal(t, SSEEventNewOrder, msg.Event)
		var payload newOrderPayload
		require.NoError(t, json.Unmarshal([]byte(msg.Data), &payload))
		assert.Equal(t, orderID, payload.OrderID)
		assert.Equal(t, "Asha Rao", payload.CustomerName)
		assert.InDelta(t, 450, payload.Total, 0.001)
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast message")
	}
}

func TestLiveEventsHandler_Handle_OrderStatusChanged(t *testing.T) {
	h := NewLiveEventsHandler(zap.NewNop())
	client := registerTestClient(h)

	orderID := uuid.New()
	event := &order.OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(order.EventTypeOrderStatusChanged, order.AggregateTypeOrder, orderID),
		OrderID:         orderID,
		Status:          order.StatusCompleted,
	}

	require.NoError(t, h.Handle(context.Background(), event))

	select {
	case msg := <-client.Chan:
		assert.Equal(t, SSEEventOrderStatusUpdate, msg.Event)
		var payload orderStatusPayload
		require.NoError(t, json.Unmarshal([]byte(msg.Data), &payload))
		assert.Equal(t, "completed", payload.Status)
	case <-time.After(time.Second):
		t.Fatal("expected a broadcast message")
	}
}

func TestLiveEventsHandler_Handle_IgnoresUnknownEvents(t *testing.T) {
	h := NewLiveEventsHandler(zap.NewNop())
	client := registerTestClient(h)

	productID := uuid.New()
	event := &catalog.ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(catalog.EventTypeProductCreated, catalog.AggregateTypeProduct, productID),
		ProductID:       productID,
		Name:            "Brake Pad",
	}

	require.NoError(t, h.Handle(context.Background(), event))

	select {
	case <-client.Chan:
		t.Fatal("unexpected broadcast for unsubscribed event type")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestLiveEventsHandler_ClientCount(t *testing.T) {
	h := NewLiveEventsHandler(zap.NewNop())
	assert.Equal(t, 0, h.ClientCount())

	registerTestClient(h)
	registerTestClient(h)

	assert.Equal(t, 2, h.ClientCount())
}

func TestLiveEventsHandler_SlowClientDoesNotBlock(t *testing.T) {
	h := NewLiveEventsHandler(zap.NewNop())

	// Client with a full channel
	slow := &SSEClient{
		ID:   uuid.New().String(),
		Chan: make(chan SSEMessage),
		Done: make(chan struct{}),
	}
	h.clients.Store(slow.ID, slow)

	done := make(chan struct{})
	go func() {
		h.broadcast(SSEMessage{Event: "heartbeat", Data: "{}"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow client")
	}
}
