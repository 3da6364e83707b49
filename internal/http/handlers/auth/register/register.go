// Package register implements the account registration endpoint. The
// email must have passed verification first; a successful registration
// returns the new account together with a token pair.
package register

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

// Service is the registration business logic.
type Service interface {
	Register(ctx context.Context, req models.CreateAccountRequest) (*models.User, *userservice.TokenPair, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Register a new account
// @Description Creates an account for a verified email and logs it in.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body models.CreateAccountRequest true "Registration data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Invalid JSON"
// @Failure 403 {object} response.ErrorResponse "Email not verified"
// @Failure 409 {object} response.ErrorResponse "Email or nickname taken"
// @Failure 422 {object} response.ErrorResponse "Validation error"
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CreateAccountRequest
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

	user, tokens, err := h.service.Register(r.Context(), req)
	if err != nil {
		log.Error("failed to register user", sl.Err(err))
		switch {
		case errors.Is(err, userservice.ErrEmailNotVerified):
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("email is not verified"))
		case errors.Is(err, userservice.ErrInvalidNickname):
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invalid nickname"))
		case errors.Is(err, repository.ErrDuplicateEmail):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("email already in use"))
		case errors.Is(err, repository.ErrDuplicateNickname):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("nickname already in use"))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not register user"))
		}
		return
	}

	log.Info("user registered", slog.Int64("user_id", user.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"user":   user,
		"tokens": tokens,
	}))
}
