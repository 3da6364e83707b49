// Package complete reconciles a provider payment against a local order.
// The provider record is the source of truth: the handler reports exactly
// why a payment did not complete so the frontend can tell the buyer.
package complete

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/coddink/interview-backend/internal/http/response"
	"github.com/coddink/interview-backend/internal/lib/sl"
	"github.com/coddink/interview-backend/internal/models"
	"github.com/coddink/interview-backend/internal/paymentprovider/portone"
	paymentservice "github.com/coddink/interview-backend/internal/services/payment"
	"github.com/coddink/interview-backend/internal/storage/repository"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	Complete(ctx context.Context, req models.CompletePaymentRequest) (*models.Payment, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Complete a payment
// @Description Fetches the payment from the provider, checks it against
// @Description the order amount and, only when the provider confirmed it
// @Description as paid, completes the local payment and order.
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CompletePaymentRequest true "Provider payment and order"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Unknown payment or order"
// @Failure 409 {object} response.ErrorResponse "Amount mismatch"
// @Failure 422 {object} response.ErrorResponse "Provider has not confirmed the payment"
// @Failure 502 {object} response.ErrorResponse "Provider unavailable"
// @Router /payments/complete [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.complete"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CompletePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	payment, err := h.service.Complete(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, portone.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("payment not found at provider"))
		case errors.Is(err, repository.ErrOrderNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("order not found"))
		case errors.Is(err, repository.ErrPaymentNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("payment record not found"))
		case errors.Is(err, paymentservice.ErrAmountMismatch):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("payment amount does not match the order"))
		case errors.Is(err, paymentservice.ErrVirtualAccountIssued):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("virtual account issued, wait for the deposit"))
		case errors.Is(err, paymentservice.ErrPaymentNotPaid):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("provider has not confirmed the payment"))
		default:
			log.Error("failed to complete payment", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("could not complete payment"))
		}
		return
	}

	log.Info("payment completed",
		slog.Int64("payment_id", payment.ID),
		slog.Int64("order_id", payment.OrderID),
	)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"payment": payment,
	}))
}
