package expense

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/expensepro/internal"
	"github.com/frahmantamala/expensepro/internal/core/events"
	"github.com/frahmantamala/expensepro/internal/role"
	"github.com/frahmantamala/expensepro/internal/user"
)

// Repository defines the data access methods for expenses
type Repository interface {
	Create(e *Expense) error
	GetByID(id int64) (*Expense, error)
	GetByUserID(userID int64) ([]*Expense, error)
	GetAll() ([]*Expense, error)
	UpdateStatus(id int64, status string, comments *string) error
}

// UserDirectory is the slice of the user service the expense flow needs.
type UserDirectory interface {
	GetByID(userID int64) (*user.User, error)
	GetAll() ([]*user.User, error)
}

// Service holds the expense lifecycle and the visibility rules around it.
// The hierarchy is injected, so tests and future deployments can reshape
// who approves whom without touching this code.
type Service struct {
	repo      Repository
	users     UserDirectory
	hierarchy role.Hierarchy
	events    *events.EventBus
	logger    *slog.Logger
}

func NewService(repo Repository, users UserDirectory, hierarchy role.Hierarchy, bus *events.EventBus, logger *slog.Logger) *Service {
	if hierarchy == nil {
		hierarchy = role.Default()
	}
	return &Service{
		repo:      repo,
		users:     users,
		hierarchy: hierarchy,
		events:    bus,
		logger:    logger,
	}
}

// SubmitExpense validates and stores a new submission. The stored status is
// always pending regardless of anything in the payload.
func (s *Service) SubmitExpense(userID int64, dto SubmitExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("expense validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	exp := NewExpense(userID, dto)

	if err := s.repo.Create(exp); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", userID)
		return nil, internal.NewPersistenceError("failed to store expense", err)
	}

	s.publish(events.NewExpenseSubmittedEvent(exp.ID, userID, exp.Amount, exp.Currency, exp.Category))

	s.logger.Info("expense submitted",
		"expense_id", exp.ID,
		"user_id", userID,
		"amount", exp.Amount,
		"category", exp.Category)

	return exp, nil
}

// GetExpense returns one expense if the viewer may see it: the owner, an
// admin, or a role that decides on the owner's role.
func (s *Service) GetExpense(viewerID int64, viewerRole role.Role, expenseID int64) (*ExpenseResponse, error) {
	exp, err := s.repo.GetByID(expenseID)
	if err != nil {
		return nil, internal.ErrExpenseNotFound
	}

	if exp.UserID != viewerID && viewerRole != role.Admin {
		owner, err := s.users.GetByID(exp.UserID)
		if err != nil {
			s.logger.Error("failed to load expense owner", "error", err, "expense_id", expenseID)
			return nil, internal.NewPersistenceError("failed to load expense owner", err)
		}
		if !s.hierarchy.CanDecide(viewerRole, owner.Role) {
			s.logger.Warn("expense access denied",
				"expense_id", expenseID,
				"viewer_id", viewerID,
				"viewer_role", viewerRole)
			return nil, internal.ErrNotAuthorizedToDecide
		}
	}

	submitters, err := s.submitterIndex()
	if err != nil {
		return nil, err
	}
	resp := decorate(exp, submitters)
	return &resp, nil
}

// ApproveExpense moves a pending expense to approved, if the actor's role
// covers the submitter's role under the hierarchy.
func (s *Service) ApproveExpense(actorID int64, actorRole role.Role, expenseID int64, dto ApproveExpenseDTO) error {
	return s.decide(actorID, actorRole, expenseID, StatusApproved, dto.Comments, "")
}

// RejectExpense moves a pending expense to rejected with a mandatory reason.
func (s *Service) RejectExpense(actorID int64, actorRole role.Role, expenseID int64, dto RejectExpenseDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	reason := dto.Reason
	return s.decide(actorID, actorRole, expenseID, StatusRejected, &reason, reason)
}

// decide applies the shared preconditions for both terminal transitions:
// the expense must exist, must still be pending, and the actor must be a
// different user whose role decides on the owner's role.
func (s *Service) decide(actorID int64, actorRole role.Role, expenseID int64, status string, comments *string, reason string) error {
	exp, err := s.repo.GetByID(expenseID)
	if err != nil {
		s.logger.Warn("expense not found for decision", "error", err, "expense_id", expenseID)
		return internal.ErrExpenseNotFound
	}

	if !exp.CanBeDecided() {
		s.logger.Warn("expense already decided",
			"expense_id", expenseID,
			"current_status", exp.Status)
		return internal.ErrExpenseAlreadyDecided
	}

	owner, err := s.users.GetByID(exp.UserID)
	if err != nil {
		s.logger.Error("failed to load expense owner", "error", err, "expense_id", expenseID)
		return internal.NewPersistenceError("failed to load expense owner", err)
	}

	if owner.ID == actorID {
		s.logger.Warn("self-decision denied", "expense_id", expenseID, "actor_id", actorID)
		return internal.ErrNotAuthorizedToDecide
	}

	if !s.hierarchy.CanDecide(actorRole, owner.Role) {
		s.logger.Warn("decision denied by role hierarchy",
			"expense_id", expenseID,
			"actor_role", actorRole,
			"owner_role", owner.Role)
		return internal.ErrNotAuthorizedToDecide
	}

	if err := s.repo.UpdateStatus(expenseID, status, comments); err != nil {
		s.logger.Error("failed to update expense status", "error", err, "expense_id", expenseID, "status", status)
		return internal.NewPersistenceError("failed to update expense status", err)
	}

	s.publish(events.NewExpenseDecidedEvent(expenseID, actorID, owner.ID, status, reason))

	s.logger.Info("expense decided",
		"expense_id", expenseID,
		"actor_id", actorID,
		"status", status)

	return nil
}

// ListOwnExpenses returns every submission the viewer made, any status,
// newest first.
func (s *Service) ListOwnExpenses(viewerID int64) ([]ExpenseResponse, error) {
	expenses, err := s.repo.GetByUserID(viewerID)
	if err != nil {
		s.logger.Error("failed to load own expenses", "error", err, "viewer_id", viewerID)
		return nil, internal.NewPersistenceError("failed to load expenses", err)
	}

	submitters, err := s.submitterIndex()
	if err != nil {
		return nil, err
	}

	out := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, decorate(e, submitters))
	}
	return out, nil
}

// Dashboard recomputes the viewer's full read model from storage. There is
// no incremental update path: submit and decide both funnel back through
// here, so the client always renders fresh state.
func (s *Service) Dashboard(viewerID int64, viewerRole role.Role) (DashboardView, error) {
	expenses, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to load expenses for dashboard", "error", err, "viewer_id", viewerID)
		return DashboardView{}, internal.NewPersistenceError("failed to load expenses", err)
	}

	submitters, err := s.submitterIndex()
	if err != nil {
		return DashboardView{}, err
	}

	return ComputeViews(viewerID, viewerRole, s.hierarchy, expenses, submitters), nil
}

func (s *Service) submitterIndex() (map[int64]Submitter, error) {
	users, err := s.users.GetAll()
	if err != nil {
		s.logger.Error("failed to load user directory", "error", err)
		return nil, internal.NewPersistenceError("failed to load user directory", err)
	}

	index := make(map[int64]Submitter, len(users))
	for _, u := range users {
		index[u.ID] = Submitter{ID: u.ID, Name: u.Name, Role: u.Role}
	}
	return index, nil
}

func (s *Service) publish(event events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(context.Background(), event); err != nil {
		s.logger.Error("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
