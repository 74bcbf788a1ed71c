package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/catalog"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/order"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/shared"
	"github.com/kartikpareekak-cloud/shopbackend/internal/interfaces/http/middleware"
)

// Wire event names sent over the SSE stream
const (
	SSEEventStockUpdate       = "stock_update"
	SSEEventNewOrder          = "new_order"
	SSEEventOrderStatusUpdate = "order_status_update"
)

// SSEClient represents a connected SSE client
type SSEClient struct {
	ID     string
	UserID string
	Chan   chan SSEMessage
	Done   chan struct{}
}

// SSEMessage represents a message to be sent to SSE clients
type SSEMessage struct {
	Event string `json:"event"`
	Data  string `json:"data"`
	ID    string `json:"id,omitempty"`
}

// stockUpdatePayload is the wire form of a stock change
type stockUpdatePayload struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
}

// newOrderPayload is the wire form of a placed order
type newOrderPayload struct {
	OrderID       uuid.UUID `json:"order_id"`
	CustomerName  string    `json:"customer_name"`
	Total         float64   `json:"total"`
	ItemCount     int       `json:"item_count"`
	TotalQuantity int       `json:"total_quantity"`
}

// orderStatusPayload is the wire form of an order status change
type orderStatusPayload struct {
	OrderID uuid.UUID `json:"order_id"`
	Status  string    `json:"status"`
}

// LiveEventsHandler bridges domain events onto Server-Sent Events streams so
// connected storefront and admin clients see stock and order changes live.
// It subscribes to the in-process event bus as a regular event handler.
type LiveEventsHandler struct {
	BaseHandler
	logger     *zap.Logger
	clients    sync.Map // map[string]*SSEClient
	ctx        context.Context
	cancel     context.CancelFunc
	heartbeat  time.Duration
	maxClients int
}

// LiveEventsOption is a functional option for configuring the handler
type LiveEventsOption func(*LiveEventsHandler)

// WithSSEHeartbeat sets the heartbeat interval
func WithSSEHeartbeat(interval time.Duration) LiveEventsOption {
	return func(h *LiveEventsHandler) {
		h.heartbeat = interval
	}
}

// WithSSEMaxClients sets the maximum number of concurrent SSE clients
func WithSSEMaxClients(max int) LiveEventsOption {
	return func(h *LiveEventsHandler) {
		h.maxClients = max
	}
}

// NewLiveEventsHandler creates a new SSE handler for live store events
func NewLiveEventsHandler(logger *zap.Logger, opts ...LiveEventsOption) *LiveEventsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	h := &LiveEventsHandler{
		logger:     logger,
		ctx:        ctx,
		cancel:     cancel,
		heartbeat:  30 * time.Second,
		maxClients: 1000,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Start begins the heartbeat loop keeping idle connections alive
func (h *LiveEventsHandler) Start() {
	go h.sendHeartbeats()
}

// Stop disconnects all clients and stops broadcasting
func (h *LiveEventsHandler) Stop() {
	h.cancel()
	h.clients.Range(func(key, value any) bool {
		if client, ok := value.(*SSEClient); ok {
			close(client.Done)
		}
		return true
	})
}

// EventTypes implements shared.EventHandler
func (h *LiveEventsHandler) EventTypes() []string {
	return []string{
		catalog.EventTypeStockChanged,
		order.EventTypeOrderPlaced,
		order.EventTypeOrderStatusChanged,
	}
}

// Handle implements shared.EventHandler, translating domain events into
// their wire form and broadcasting to every connected client
func (h *LiveEventsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	msg, ok := h.toSSEMessage(event)
	if !ok {
		return nil
	}
	h.broadcast(msg)
	return nil
}

func (h *LiveEventsHandler) toSSEMessage(event shared.DomainEvent) (SSEMessage, bool) {
	var (
		name    string
		payload any
	)

	switch e := event.(type) {
	case *catalog.StockChangedEvent:
		name = SSEEventStockUpdate
		payload = stockUpdatePayload{
			ProductID: e.ProductID,
			Name:      e.Name,
			Stock:     e.Stock,
		}
	case *order.OrderPlacedEvent:
		name = SSEEventNewOrder
		payload = newOrderPayload{
			OrderID:       e.OrderID,
			CustomerName:  e.CustomerName,
			Total:         e.Total.InexactFloat64(),
			ItemCount:     e.ItemCount,
			TotalQuantity: e.TotalQuantity,
		}
	case *order.OrderStatusChangedEvent:
		name = SSEEventOrderStatusUpdate
		payload = orderStatusPayload{
			OrderID: e.OrderID,
			Status:  string(e.Status),
		}
	default:
		return SSEMessage{}, false
	}

	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to marshal SSE payload",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		return SSEMessage{}, false
	}

	return SSEMessage{
		Event: name,
		Data:  string(data),
		ID:    event.EventID().String(),
	}, true
}

// broadcast sends a message to all connected clients
func (h *LiveEventsHandler) broadcast(msg SSEMessage) {
	h.clients.Range(func(key, value any) bool {
		client, ok := value.(*SSEClient)
		if !ok {
			return true
		}

		select {
		case client.Chan <- msg:
		default:
			// Channel full, client is not keeping up
			h.logger.Warn("client channel full, dropping message",
				zap.String("client_id", client.ID))
		}
		return true
	})
}

func (h *LiveEventsHandler) sendHeartbeats() {
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			h.broadcast(SSEMessage{
				Event: "heartbeat",
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			})
		}
	}
}

// Stream establishes a Server-Sent Events connection for live store updates
func (h *LiveEventsHandler) Stream(c *gin.Context) {
	if h.maxClients > 0 && h.ClientCount() >= h.maxClients {
		c.JSON(503, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MAX_CONNECTIONS_REACHED",
				"message": "Maximum number of live connections reached",
			},
		})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering

	userID := middleware.GetJWTUserID(c)

	const sseMessageBufferSize = 100
	client := &SSEClient{
		ID:     uuid.New().String(),
		UserID: userID.String(),
		Chan:   make(chan SSEMessage, sseMessageBufferSize),
		Done:   make(chan struct{}),
	}

	h.clients.Store(client.ID, client)
	defer func() {
		close(client.Chan)
		h.clients.Delete(client.ID)
	}()

	h.logger.Info("live events client connected",
		zap.String("client_id", client.ID),
		zap.String("user_id", client.UserID))

	h.sendEvent(c.Writer, SSEMessage{
		Event: "connected",
		Data:  fmt.Sprintf(`{"client_id":"%s","timestamp":%d}`, client.ID, time.Now().Unix()),
	})
	c.Writer.Flush()

	reqCtx := c.Request.Context()

	for {
		select {
		case <-reqCtx.Done():
			h.logger.Info("live events client disconnected",
				zap.String("client_id", client.ID))
			return
		case <-client.Done:
			return
		case <-h.ctx.Done():
			return
		case msg, ok := <-client.Chan:
			if !ok {
				return
			}
			h.sendEvent(c.Writer, msg)
			c.Writer.Flush()
		}
	}
}

// sendEvent writes an SSE event to the response writer
func (h *LiveEventsHandler) sendEvent(w io.Writer, msg SSEMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}

// ClientCount returns the number of connected SSE clients
func (h *LiveEventsHandler) ClientCount() int {
	count := 0
	h.clients.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

var _ shared.EventHandler = (*LiveEventsHandler)(nil)
