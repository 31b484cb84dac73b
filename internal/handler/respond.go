package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"kioskpos/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}

// statusForError maps the domain error taxonomy to HTTP statuses.
// ErrBalanceNotFound is a consistency error, not a user-facing not-found.
func statusForError(err error, fallback int) int {
	switch {
	case errors.Is(err, domain.ErrMemberNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrReceiptNotFound):
		return http.StatusNotFound

	case errors.Is(err, domain.ErrInvalidMember),
		errors.Is(err, domain.ErrProductUnavailable),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrDuplicateCardNumber),
		errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrCurrencyMismatch):
		return http.StatusConflict

	case errors.Is(err, domain.ErrBalanceNotFound):
		return http.StatusInternalServerError

	default:
		return fallback
	}
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(r.PathValue(name))
}

type memberResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	CardNumber string    `json:"card_number"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

func toMemberResponse(m domain.Member) memberResponse {
	return memberResponse{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		CardNumber: m.CardNumber,
		Active:     m.Active,
		CreatedAt:  m.CreatedAt,
	}
}

type balanceResponse struct {
	MemberID  uuid.UUID    `json:"member_id"`
	Amount    domain.Money `json:"amount"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func toBalanceResponse(b domain.Balance) balanceResponse {
	return balanceResponse{
		MemberID:  b.MemberID,
		Amount:    b.Amount,
		UpdatedAt: b.UpdatedAt,
	}
}

type productResponse struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	Price       domain.Money `json:"price"`
	Category    string       `json:"category"`
	Available   bool         `json:"available"`
	ImageURL    *string      `json:"image_url,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func toProductResponse(p domain.Product) productResponse {
	var imageURL *string
	if p.ImageURL != nil {
		imageURL = lo.ToPtr(p.ImageURL.String())
	}

	return productResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
		Available:   p.Available,
		ImageURL:    imageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProductResponses(products []domain.Product) []productResponse {
	return lo.Map(products, func(p domain.Product, _ int) productResponse {
		return toProductResponse(p)
	})
}

type orderItemResponse struct {
	ProductID   uuid.UUID    `json:"product_id"`
	ProductName string       `json:"product_name"`
	UnitPrice   domain.Money `json:"unit_price"`
	Quantity    int32        `json:"quantity"`
}

type orderResponse struct {
	ID          uuid.UUID           `json:"id"`
	MemberID    uuid.UUID           `json:"member_id"`
	OrderNumber string              `json:"order_number"`
	TotalAmount domain.Money        `json:"total_amount"`
	Status      domain.OrderStatus  `json:"status"`
	Items       []orderItemResponse `json:"items"`
	ProductIDs  []uuid.UUID         `json:"product_ids"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`

	MemberName  string `json:"member_name,omitempty"`
	MemberEmail string `json:"member_email,omitempty"`
}

func toOrderResponse(o domain.Order) orderResponse {
	items := lo.Map(o.Items, func(item domain.OrderItem, _ int) orderItemResponse {
		return orderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
		}
	})

	return orderResponse{
		ID:          o.ID,
		MemberID:    o.MemberID,
		OrderNumber: o.Number,
		TotalAmount: o.Total,
		Status:      o.Status,
		Items:       items,
		ProductIDs:  o.ProductIDs,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	return lo.Map(orders, func(o domain.Order, _ int) orderResponse {
		return toOrderResponse(o)
	})
}

type receiptResponse struct {
	ID            uuid.UUID `json:"id"`
	OrderID       uuid.UUID `json:"order_id"`
	ReceiptNumber string    `json:"receipt_number"`
	Content       string    `json:"content"`
	PrintedAt     time.Time `json:"printed_at"`
}

func toReceiptResponse(r domain.Receipt) receiptResponse {
	return receiptResponse{
		ID:            r.ID,
		OrderID:       r.OrderID,
		ReceiptNumber: r.Number,
		Content:       r.Content,
		PrintedAt:     r.PrintedAt,
	}
}
