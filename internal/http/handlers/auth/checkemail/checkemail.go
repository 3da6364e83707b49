// Package checkemail reports whether an email address is still free,
// for signup form feedback before the user submits.
package checkemail

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/coddink/interview-backend/internal/http/response"
	"github.com/coddink/interview-backend/internal/lib/sl"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	CheckEmail(ctx context.Context, email string) (bool, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Check email availability
// @Tags Auth
// @Produce json
// @Param email query string true "Email to check"
// @Success 200 {object} response.Response
// @Router /auth/check-email [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.checkemail"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	email := r.URL.Query().Get("email")
	if email == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("email query parameter is required"))
		return
	}

	available, err := h.service.CheckEmail(r.Context(), email)
	if err != nil {
		log.Error("failed to check email", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check email"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"available": available,
	}))
}
