package paypalcapture

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/coddink/interview-backend/internal/http/response"
	"github.com/coddink/interview-backend/internal/lib/sl"
	"github.com/coddink/interview-backend/internal/models"
	"github.com/coddink/interview-backend/internal/paymentprovider/paypal"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	CapturePayPalOrder(ctx context.Context, providerOrderID string) (*paypal.OrderResponse, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Capture a PayPal order
// @Description Captures an approved provider order. The provider status
// @Description is returned as is; COMPLETED means the funds moved.
// @Tags Orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CapturePayPalOrderRequest true "Provider order ID"
// @Success 200 {object} response.Response
// @Failure 502 {object} response.ErrorResponse "Provider unavailable"
// @Router /orders/paypal/capture [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.paypalcapture"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CapturePayPalOrderRequest
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

	provider, err := h.service.CapturePayPalOrder(r.Context(), req.ProviderOrderID)
	if err != nil {
		log.Error("failed to capture paypal order", sl.Err(err))
		w.WriteHeader(http.StatusBadGateway)
		render.JSON(w, r, response.Error("could not capture paypal order"))
		return
	}

	log.Info("paypal order captured",
		slog.String("provider_order_id", req.ProviderOrderID),
		slog.String("status", provider.Status),
	)
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"provider": provider,
	}))
}
