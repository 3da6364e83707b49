package api

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/coddink/interview-backend/internal/http/handlers/auth/checkemail"
	"github.com/coddink/interview-backend/internal/http/handlers/auth/checknickname"
	"github.com/coddink/interview-backend/internal/http/handlers/auth/forgotpassword"
	"github.com/coddink/interview-backend/internal/http/handlers/auth/login"
	"github.com/coddink/interview-backend/internal/http/handlers/auth/refresh"
	"github.com/coddink/interview-backend/internal/http/handlers/auth/register"
	"github.com/coddink/interview-backend/internal/http/handlers/auth/resetpassword"
	"github.com/coddink/interview-backend/internal/http/handlers/auth/sendverification"
	"github.com/coddink/interview-backend/internal/http/handlers/auth/verifyemail"
	couponcreate "github.com/coddink/interview-backend/internal/http/handlers/coupon/create"
	couponlist "github.com/coddink/interview-backend/internal/http/handlers/coupon/list"
	couponread "github.com/coddink/interview-backend/internal/http/handlers/coupon/read"
	"github.com/coddink/interview-backend/internal/http/handlers/coupon/redeem"
	couponremove "github.com/coddink/interview-backend/internal/http/handlers/coupon/remove"
	couponupdate "github.com/coddink/interview-backend/internal/http/handlers/coupon/update"
	healthcheck "github.com/coddink/interview-backend/internal/http/handlers/health"
	"github.com/coddink/interview-backend/internal/http/handlers/interview/categories"
	"github.com/coddink/interview-backend/internal/http/handlers/interview/next"
	ordercreate "github.com/coddink/interview-backend/internal/http/handlers/order/create"
	orderlist "github.com/coddink/interview-backend/internal/http/handlers/order/list"
	"github.com/coddink/interview-backend/internal/http/handlers/order/paypalcapture"
	"github.com/coddink/interview-backend/internal/http/handlers/order/paypalcreate"
	orderread "github.com/coddink/interview-backend/internal/http/handlers/order/read"
	orderremove "github.com/coddink/interview-backend/internal/http/handlers/order/remove"
	orderstatus "github.com/coddink/interview-backend/internal/http/handlers/order/status"
	paymentcomplete "github.com/coddink/interview-backend/internal/http/handlers/payment/complete"
	paymentcreate "github.com/coddink/interview-backend/internal/http/handlers/payment/create"
	paymentlist "github.com/coddink/interview-backend/internal/http/handlers/payment/list"
	paymentread "github.com/coddink/interview-backend/internal/http/handlers/payment/read"
	paymentstatus "github.com/coddink/interview-backend/internal/http/handlers/payment/status"
	productcreate "github.com/coddink/interview-backend/internal/http/handlers/product/create"
	productlist "github.com/coddink/interview-backend/internal/http/handlers/product/list"
	productread "github.com/coddink/interview-backend/internal/http/handlers/product/read"
	productremove "github.com/coddink/interview-backend/internal/http/handlers/product/remove"
	productupdate "github.com/coddink/interview-backend/internal/http/handlers/product/update"
	"github.com/coddink/interview-backend/internal/http/handlers/subscription/adminedit"
	subscriptionupdate "github.com/coddink/interview-backend/internal/http/handlers/subscription/update"
	"github.com/coddink/interview-backend/internal/http/handlers/user/edit"
	userlist "github.com/coddink/interview-backend/internal/http/handlers/user/list"
	"github.com/coddink/interview-backend/internal/http/handlers/user/profile"
	userremove "github.com/coddink/interview-backend/internal/http/handlers/user/remove"
	"github.com/coddink/interview-backend/internal/http/handlers/user/spendpoints"
	"github.com/coddink/interview-backend/internal/http/handlers/user/stats"
	"github.com/coddink/interview-backend/internal/http/middlewarectx"
	"github.com/coddink/interview-backend/internal/lib/jwt"
	couponservice "github.com/coddink/interview-backend/internal/services/coupon"
	interviewservice "github.com/coddink/interview-backend/internal/services/interview"
	orderservice "github.com/coddink/interview-backend/internal/services/order"
	paymentservice "github.com/coddink/interview-backend/internal/services/payment"
	productservice "github.com/coddink/interview-backend/internal/services/product"
	subscriptionservice "github.com/coddink/interview-backend/internal/services/subscription"
	userservice "github.com/coddink/interview-backend/internal/services/user"
)

// Services carries the business services the routes are built on.
type Services struct {
	Users         *userservice.UserService
	Subscriptions *subscriptionservice.SubscriptionService
	Coupons       *couponservice.CouponService
	Products      *productservice.ProductService
	Orders        *orderservice.OrderService
	Payments      *paymentservice.PaymentService
	Interview     *interviewservice.InterviewService
}

// RegisterRoutes mounts every endpoint of the API.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker, s *Services) {
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Open endpoints
		r.Post("/auth/register", register.New(logger, s.Users).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Users).ServeHTTP)
		r.Post("/auth/refresh", refresh.New(logger, s.Users).ServeHTTP)
		r.Get("/auth/check-email", checkemail.New(logger, s.Users).ServeHTTP)
		r.Get("/auth/check-nickname", checknickname.New(logger, s.Users).ServeHTTP)
		r.Post("/auth/send-verification", sendverification.New(logger, s.Users).ServeHTTP)
		r.Post("/auth/verify-email", verifyemail.New(logger, s.Users).ServeHTTP)
		r.Post("/auth/forgot-password", forgotpassword.New(logger, s.Users).ServeHTTP)
		r.Post("/auth/reset-password", resetpassword.New(logger, s.Users).ServeHTTP)

		r.Get("/products", productlist.New(logger, s.Products).ServeHTTP)
		r.Get("/products/{id}", productread.New(logger, s.Products).ServeHTTP)
		r.Get("/interview/categories", categories.New(logger, s.Interview).ServeHTTP)

		// Authenticated endpoints
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/users/me", profile.New(logger, s.Users).ServeHTTP)
			r.Patch("/users/me", edit.New(logger, s.Users).ServeHTTP)
			r.Delete("/users/me", userremove.New(logger, s.Users).ServeHTTP)
			r.Post("/users/me/points/spend", spendpoints.New(logger, s.Users).ServeHTTP)

			r.Post("/subscriptions", subscriptionupdate.New(logger, s.Subscriptions).ServeHTTP)
			r.Post("/coupons/redeem", redeem.New(logger, s.Coupons).ServeHTTP)

			r.Post("/orders", ordercreate.New(logger, s.Orders).ServeHTTP)
			r.Get("/orders", orderlist.New(logger, s.Orders).ServeHTTP)
			r.Get("/orders/{id}", orderread.New(logger, s.Orders).ServeHTTP)
			r.Post("/orders/paypal", paypalcreate.New(logger, s.Orders).ServeHTTP)
			r.Post("/orders/paypal/capture", paypalcapture.New(logger, s.Orders).ServeHTTP)

			r.Post("/payments", paymentcreate.New(logger, s.Payments).ServeHTTP)
			r.Post("/payments/complete", paymentcomplete.New(logger, s.Payments).ServeHTTP)
			r.Get("/payments/{id}", paymentread.New(logger, s.Payments).ServeHTTP)

			r.Post("/interview/questions/next", next.New(logger, s.Interview).ServeHTTP)
		})

		// Admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.AdminMiddleware(logger))

			r.Get("/admin/users", userlist.New(logger, s.Users).ServeHTTP)
			r.Get("/admin/users/stats", stats.New(logger, s.Users).ServeHTTP)
			r.Put("/admin/subscriptions", adminedit.New(logger, s.Subscriptions).ServeHTTP)

			r.Post("/admin/coupons", couponcreate.New(logger, s.Coupons).ServeHTTP)
			r.Get("/admin/coupons", couponlist.New(logger, s.Coupons).ServeHTTP)
			r.Get("/admin/coupons/{id}", couponread.New(logger, s.Coupons).ServeHTTP)
			r.Put("/admin/coupons/{id}", couponupdate.New(logger, s.Coupons).ServeHTTP)
			r.Delete("/admin/coupons/{id}", couponremove.New(logger, s.Coupons).ServeHTTP)

			r.Post("/admin/products", productcreate.New(logger, s.Products).ServeHTTP)
			r.Put("/admin/products/{id}", productupdate.New(logger, s.Products).ServeHTTP)
			r.Delete("/admin/products/{id}", productremove.New(logger, s.Products).ServeHTTP)

			r.Delete("/admin/orders/{id}", orderremove.New(logger, s.Orders).ServeHTTP)
			r.Put("/admin/orders/status", orderstatus.New(logger, s.Orders).ServeHTTP)

			r.Get("/admin/payments", paymentlist.New(logger, s.Payments).ServeHTTP)
			r.Put("/admin/payments/status", paymentstatus.New(logger, s.Payments).ServeHTTP)
		})
	})

	r.Get("/health", healthcheck.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
