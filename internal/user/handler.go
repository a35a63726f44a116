package user

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/expensepro/internal/auth"
	"github.com/frahmantamala/expensepro/internal/transport"
	"github.com/frahmantamala/expensepro/pkg/logger"
)

type ServiceAPI interface {
	GetByID(userID int64) (*User, error)
	GetAll() ([]*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// GetCurrentUser handles GET /users/me
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	viewer, ok := auth.UserFromContext(r.Context())
	if !ok || viewer == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(viewer.ID)
	if err != nil {
		h.Logger.Error("GetCurrentUser: service GetByID failed", "user_id", viewer.ID, "error", err)
		h.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.WriteJSON(w, http.StatusOK, u)
}

// ListUsers handles GET /users. Admin only; everyone else learns about
// other users solely through the rows the dashboard shows them.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.GetAll()
	if err != nil {
		h.Logger.Error("ListUsers: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to list users")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"users": users,
	})
}
