package verifyemail

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
	userservice "github.com/coddink/interview-backend/internal/services/user"
	"github.com/coddink/interview-backend/internal/storage/repository"
)

type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

type Service interface {
	VerifyEmail(ctx context.Context, email, code string) error
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Verify an email address
// @Description Checks the six digit code sent to the address. Three wrong
// @Description attempts or an expired code force requesting a new one.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.VerifyEmailRequest true "Email and code"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "No pending verification"
// @Failure 410 {object} response.ErrorResponse "Code expired or attempts exhausted"
// @Failure 422 {object} response.ErrorResponse "Wrong code"
// @Router /auth/verify-email [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.verifyemail"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.VerifyEmailRequest
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

	if err := h.service.VerifyEmail(r.Context(), req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, repository.ErrVerificationNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("no pending verification for this email"))
		case errors.Is(err, userservice.ErrVerificationExpired):
			w.WriteHeader(http.StatusGone)
			render.JSON(w, r, response.Error("verification code has expired"))
		case errors.Is(err, userservice.ErrTooManyAttempts):
			w.WriteHeader(http.StatusGone)
			render.JSON(w, r, response.Error("too many failed attempts, request a new code"))
		case errors.Is(err, userservice.ErrInvalidCode):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("wrong verification code"))
		default:
			log.Error("failed to verify email", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not verify email"))
		}
		return
	}

	log.Info("email verified", slog.String("email", req.Email))
	render.JSON(w, r, response.StatusOKWithData(nil))
}
