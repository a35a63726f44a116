package expense

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/expensepro/internal"
	"github.com/frahmantamala/expensepro/internal/auth"
	"github.com/frahmantamala/expensepro/internal/role"
	"github.com/frahmantamala/expensepro/internal/transport"
	"github.com/frahmantamala/expensepro/internal/transport/middleware"
	"github.com/frahmantamala/expensepro/pkg/logger"
)

type ServiceAPI interface {
	SubmitExpense(userID int64, dto SubmitExpenseDTO) (*Expense, error)
	GetExpense(viewerID int64, viewerRole role.Role, expenseID int64) (*ExpenseResponse, error)
	ApproveExpense(actorID int64, actorRole role.Role, expenseID int64, dto ApproveExpenseDTO) error
	RejectExpense(actorID int64, actorRole role.Role, expenseID int64, dto RejectExpenseDTO) error
	ListOwnExpenses(viewerID int64) ([]ExpenseResponse, error)
	Dashboard(viewerID int64, viewerRole role.Role) (DashboardView, error)
}

type Handler struct {
	*transport.BaseHandler
	Service   ServiceAPI
	hierarchy role.Hierarchy
}

func NewHandler(service ServiceAPI, hierarchy role.Hierarchy) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	if hierarchy == nil {
		hierarchy = role.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
		hierarchy:   hierarchy,
	}
}

// RequireApprover keeps roles with an empty coverage list away from the
// decision routes. The per-expense check still happens in the service.
func (h *Handler) RequireApprover() func(http.Handler) http.Handler {
	return middleware.RequireApprover(h.hierarchy)
}

func (h *Handler) SubmitExpense(w http.ResponseWriter, r *http.Request) {
	viewer, ok := auth.UserFromContext(r.Context())
	if !ok || viewer == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SubmitExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("SubmitExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	exp, err := h.Service.SubmitExpense(viewer.ID, dto)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, exp)
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	viewer, ok := auth.UserFromContext(r.Context())
	if !ok || viewer == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	expenseID, err := h.expenseIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	exp, err := h.Service.GetExpense(viewer.ID, viewer.Role, expenseID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, exp)
}

func (h *Handler) ApproveExpense(w http.ResponseWriter, r *http.Request) {
	viewer, ok := auth.UserFromContext(r.Context())
	if !ok || viewer == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	expenseID, err := h.expenseIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	// Approval comments are optional, so an empty body is fine.
	var dto ApproveExpenseDTO
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	if err := h.Service.ApproveExpense(viewer.ID, viewer.Role, expenseID, dto); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.Logger.Info("expense approved", "expense_id", expenseID, "actor_id", viewer.ID)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": StatusApproved})
}

func (h *Handler) RejectExpense(w http.ResponseWriter, r *http.Request) {
	viewer, ok := auth.UserFromContext(r.Context())
	if !ok || viewer == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	expenseID, err := h.expenseIDParam(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	var dto RejectExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("RejectExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.RejectExpense(viewer.ID, viewer.Role, expenseID, dto); err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.Logger.Info("expense rejected", "expense_id", expenseID, "actor_id", viewer.ID)
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": StatusRejected})
}

// ListOwnExpenses returns the viewer's submissions regardless of status.
func (h *Handler) ListOwnExpenses(w http.ResponseWriter, r *http.Request) {
	viewer, ok := auth.UserFromContext(r.Context())
	if !ok || viewer == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	expenses, err := h.Service.ListOwnExpenses(viewer.ID)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"expenses": expenses,
	})
}

// Dashboard returns the viewer's complete read model in one response.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	viewer, ok := auth.UserFromContext(r.Context())
	if !ok || viewer == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := h.Service.Dashboard(viewer.ID, viewer.Role)
	if err != nil {
		h.handleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) expenseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		h.WriteAppError(w, appErr)
		return
	}
	h.Logger.Error("unexpected service error", "error", err)
	h.WriteError(w, http.StatusInternalServerError, "internal server error")
}
