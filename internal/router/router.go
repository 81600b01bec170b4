package router

import (
	"net/http"
	"strings"

	"shopstack/internal/handler"
	"shopstack/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers bundles the route handlers the router dispatches to.
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Order        *handler.OrderHandler
	Payment      *handler.PaymentHandler
	Coupon       *handler.CouponHandler
	Notification *handler.NotificationHandler
	Shipping     *handler.ShippingHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, jwtSecret string, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("/api/auth/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		switch strings.TrimSuffix(r.URL.Path, "/") {
		case "/api/auth/register":
			h.Auth.Register(w, r)
		case "/api/auth/login":
			h.Auth.Login(w, r)
		case "/api/auth/forgot-password":
			h.Auth.ForgotPassword(w, r)
		case "/api/auth/reset-password":
			h.Auth.ResetPassword(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	})

	// Product handler function
	productRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		collection := r.URL.Path == "/api/products" || r.URL.Path == "/api/products/"

		switch {
		case r.Method == http.MethodGet && collection:
			h.Product.GetAll(w, r)
		case r.Method == http.MethodPost && collection:
			h.Product.Create(w, r)
		case r.Method == http.MethodGet:
			h.Product.GetByID(w, r)
		case r.Method == http.MethodPut:
			h.Product.Update(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}

	// Register product routes (both with and without trailing slash)
	mux.HandleFunc("/api/products", productRouteHandler)
	mux.HandleFunc("/api/products/", productRouteHandler)

	// Order handler function. The payment gateway endpoints live under the
	// order path prefix, so they dispatch before the {id} routes.
	orderRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		collection := r.URL.Path == "/api/orders" || r.URL.Path == "/api/orders/"

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/api/orders/create-razorpay-order":
			h.Payment.CreateGatewayOrder(w, r)
		case r.Method == http.MethodPost && r.URL.Path == "/api/orders/verify-payment":
			h.Payment.VerifyPayment(w, r)
		case r.Method == http.MethodPost && collection:
			h.Order.Create(w, r)
		case r.Method == http.MethodGet && collection:
			h.Order.List(w, r)
		case r.Method == http.MethodGet:
			h.Order.GetByID(w, r)
		case r.Method == http.MethodPut:
			h.Order.Update(w, r)
		case r.Method == http.MethodDelete:
			h.Order.Delete(w, r)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}

	// Register order routes (both with and without trailing slash)
	mux.HandleFunc("/api/orders", orderRouteHandler)
	mux.HandleFunc("/api/orders/", orderRouteHandler)

	mux.HandleFunc("/api/coupons/validate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.Coupon.Validate(w, r)
	})

	notificationRouteHandler := func(w http.ResponseWriter, r *http.Request) {
		collection := r.URL.Path == "/api/notifications" || r.URL.Path == "/api/notifications/"

		switch {
		case r.Method == http.MethodGet && collection:
			h.Notification.List(w, r)
		case r.Method == http.MethodPost && collection:
			h.Notification.Create(w, r)
		case r.Method == http.MethodPatch && r.URL.Path == "/api/notifications/read-all":
			h.Notification.MarkAllRead(w, r)
		case r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/read"):
			h.Notification.MarkRead(w, r)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}

	mux.HandleFunc("/api/notifications", notificationRouteHandler)
	mux.HandleFunc("/api/notifications/", notificationRouteHandler)

	mux.HandleFunc("/api/shipping/serviceability", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.Shipping.CheckServiceability(w, r)
	})

	// Apply middleware in order: Recovery -> Logging -> CORS -> Auth
	var root http.Handler = mux
	root = middleware.Auth(jwtSecret, logger)(root)
	root = middleware.CORS(root)
	root = middleware.Logging(logger)(root)
	root = middleware.Recovery(logger)(root)

	return root
}
