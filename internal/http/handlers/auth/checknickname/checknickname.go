package checknickname

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/coddink/interview-backend/internal/http/response"
	"github.com/coddink/interview-backend/internal/lib/sl"
	userservice "github.com/coddink/interview-backend/internal/services/user"
)

type Handler struct {
	log     *slog.Logger
	service Service
}

type Service interface {
	CheckNickname(ctx context.Context, nickname string) (bool, error)
}

func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Check nickname availability
// @Tags Auth
// @Produce json
// @Param nickname query string true "Nickname to check"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.ErrorResponse "Nickname has forbidden characters"
// @Router /auth/check-nickname [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.checknickname"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	nickname := r.URL.Query().Get("nickname")
	if nickname == "" {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("nickname query parameter is required"))
		return
	}

	available, err := h.service.CheckNickname(r.Context(), nickname)
	if err != nil {
		if errors.Is(err, userservice.ErrInvalidNickname) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invalid nickname"))
			return
		}
		log.Error("failed to check nickname", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check nickname"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"available": available,
	}))
}
