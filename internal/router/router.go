package router

import (
	"context"
	"net/http"
	"time"

	"kioskpos/internal/handler"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func New(
	orders *handler.OrderHandler,
	members *handler.MemberHandler,
	products *handler.ProductHandler,
	db Pinger,
) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/orders", orders.PlaceOrder)
	mux.HandleFunc("GET /api/v1/orders", orders.ListOrders)
	mux.HandleFunc("GET /api/v1/orders/by-number/{number}", orders.GetOrderByNumber)
	mux.HandleFunc("GET /api/v1/orders/{id}", orders.GetOrderDetail)
	mux.HandleFunc("POST /api/v1/orders/{id}/complete", orders.CompleteOrder)
	mux.HandleFunc("POST /api/v1/orders/{id}/cancel", orders.CancelOrder)
	mux.HandleFunc("POST /api/v1/orders/{id}/receipt", orders.ReprintReceipt)

	mux.HandleFunc("GET /api/v1/pos/pending", orders.PendingOrders)

	mux.HandleFunc("POST /api/v1/members", members.CreateMember)
	mux.HandleFunc("GET /api/v1/members/by-card/{card}", members.GetMemberByCardNumber)
	mux.HandleFunc("GET /api/v1/members/{id}/balance", members.GetBalance)
	mux.HandleFunc("POST /api/v1/members/{id}/balance", members.AddBalance)
	mux.HandleFunc("PATCH /api/v1/members/{id}/active", members.SetMemberActive)
	mux.HandleFunc("GET /api/v1/members/{id}/orders", orders.MemberOrderHistory)

	mux.HandleFunc("POST /api/v1/products", products.CreateProduct)
	mux.HandleFunc("GET /api/v1/products", products.ListAvailableProducts)
	mux.HandleFunc("GET /api/v1/products/all", products.ListAllProducts)
	mux.HandleFunc("GET /api/v1/products/category/{category}", products.ListProductsByCategory)
	mux.HandleFunc("GET /api/v1/products/{id}", products.GetProduct)
	mux.HandleFunc("PUT /api/v1/products/{id}", products.UpdateProduct)
	mux.HandleFunc("DELETE /api/v1/products/{id}", products.DeleteProduct)

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	return mux
}
