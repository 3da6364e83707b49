// Package redeem applies a coupon code to the caller's account. A code
// can be used once per account; redemption runs in a serializable
// transaction so concurrent attempts on a single-use coupon produce
// exactly one winner.
package redeem

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/coddink/interview-backend/internal/http/middlewarectx"
	"github.com/coddink/interview-backend/internal/http/response"
	"github.com/coddink/interview-backend/internal/lib/sl"
	"github.com/coddink/interview-backend/internal/models"
	"github.com/coddink/interview-backend/internal/storage/repository"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	Redeem(ctx context.Context, userID int64, code string) (*models.User, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Redeem a coupon
// @Tags Coupons
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.RedeemCouponRequest true "Coupon code"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Unknown or inactive coupon"
// @Failure 409 {object} response.ErrorResponse "Already used"
// @Failure 410 {object} response.ErrorResponse "Expired"
// @Router /coupons/redeem [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.coupon.redeem"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.UserIDFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req models.RedeemCouponRequest
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

	user, err := h.service.Redeem(r.Context(), userID, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCouponNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("coupon not found or inactive"))
		case errors.Is(err, repository.ErrCouponExpired):
			w.WriteHeader(http.StatusGone)
			render.JSON(w, r, response.Error("coupon has expired"))
		case errors.Is(err, repository.ErrCouponAlreadyUsed):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("coupon has already been used"))
		default:
			log.Error("failed to redeem coupon", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not redeem coupon"))
		}
		return
	}

	log.Info("coupon redeemed", slog.Int64("user_id", userID), slog.String("code", req.Code))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user": user,
	}))
}
