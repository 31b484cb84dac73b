package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"kioskpos/internal/domain"
	"kioskpos/internal/service"
	"kioskpos/pkg/logger"
)

type OrderHandler struct {
	settlement service.SettlementServiceInterface
	lifecycle  service.LifecycleServiceInterface
	queries    service.OrderQueryServiceInterface
	receipts   service.ReceiptServiceInterface
	logger     *logger.Logger
}

func NewOrderHandler(
	settlement service.SettlementServiceInterface,
	lifecycle service.LifecycleServiceInterface,
	queries service.OrderQueryServiceInterface,
	receipts service.ReceiptServiceInterface,
	logger *logger.Logger,
) *OrderHandler {
	return &OrderHandler{
		settlement: settlement,
		lifecycle:  lifecycle,
		queries:    queries,
		receipts:   receipts,
		logger:     logger.WithComponent("order_handler"),
	}
}

type placeOrderRequest struct {
	MemberID uuid.UUID `json:"member_id"`
	Items    []struct {
		ProductID uuid.UUID `json:"product_id"`
		Quantity  int32     `json:"quantity"`
	} `json:"items"`
}

// PlaceOrder handles POST /api/v1/orders
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	lines := make([]domain.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, domain.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	order, err := h.settlement.PlaceOrder(r.Context(), req.MemberID, lines)
	if err != nil {
		writeError(w, statusForError(err, http.StatusBadRequest), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

// CompleteOrder handles POST /api/v1/orders/{id}/complete
func (h *OrderHandler) CompleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.lifecycle.CompleteOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, statusForError(err, http.StatusInternalServerError), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// CancelOrder handles POST /api/v1/orders/{id}/cancel
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	order, err := h.lifecycle.CancelOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, statusForError(err, http.StatusInternalServerError), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// ListOrders handles GET /api/v1/orders?status=
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	var status *domain.OrderStatus

	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := domain.ToOrderStatus(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		status = &parsed
	}

	orders, err := h.queries.ListOrders(r.Context(), status)
	if err != nil {
		h.logger.Error("Failed to list orders", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	responses := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		resp := toOrderResponse(order.Order)
		resp.MemberName = order.MemberName
		resp.MemberEmail = order.MemberEmail
		responses = append(responses, resp)
	}

	writeJSON(w, http.StatusOK, responses)
}

// GetOrderDetail handles GET /api/v1/orders/{id}
func (h *OrderHandler) GetOrderDetail(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	detail, err := h.queries.GetOrderDetail(r.Context(), orderID)
	if err != nil {
		writeError(w, statusForError(err, http.StatusInternalServerError), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// GetOrderByNumber handles GET /api/v1/orders/by-number/{number}
func (h *OrderHandler) GetOrderByNumber(w http.ResponseWriter, r *http.Request) {
	number := r.PathValue("number")

	order, err := h.queries.GetOrderByNumber(r.Context(), number)
	if err != nil {
		writeError(w, statusForError(err, http.StatusInternalServerError), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// ReprintReceipt handles POST /api/v1/orders/{id}/receipt
func (h *OrderHandler) ReprintReceipt(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	rcpt, err := h.receipts.ReprintReceipt(r.Context(), orderID)
	if err != nil {
		writeError(w, statusForError(err, http.StatusInternalServerError), err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toReceiptResponse(rcpt))
}

// PendingOrders handles GET /api/v1/pos/pending
func (h *OrderHandler) PendingOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.queries.PendingOrdersForPOS(r.Context())
	if err != nil {
		h.logger.Error("Failed to fetch POS feed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch pending orders")
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// MemberOrderHistory handles GET /api/v1/members/{id}/orders
func (h *OrderHandler) MemberOrderHistory(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathUUID(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member ID")
		return
	}

	orders, err := h.queries.GetOrderHistory(r.Context(), memberID)
	if err != nil {
		h.logger.Error("Failed to fetch order history", "member_id", memberID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch order history")
		return
	}

	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}
