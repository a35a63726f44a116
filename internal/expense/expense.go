package expense

import (
	"time"

	expenseDatamodel "github.com/frahmantamala/expensepro/internal/core/datamodel/expense"
)

// Expense is the domain entity. Every submission starts pending and ends in
// exactly one of the two terminal states.
type Expense struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Amount      float64   `json:"amount"`
	Currency    string    `json:"currency"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Comments    *string   `json:"comments,omitempty"`
	ExpenseDate time.Time `json:"expense_date"`
	SubmittedAt time.Time `json:"submitted_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"

	DefaultCurrency = "USD"
)

// CanBeDecided reports whether an approve or reject may still be applied.
// Approved and rejected are terminal; there is no reopen transition.
func (e *Expense) CanBeDecided() bool {
	return e.Status == StatusPending
}

func (e *Expense) Approve(comments *string) {
	e.Status = StatusApproved
	e.Comments = comments
	e.UpdatedAt = time.Now()
}

func (e *Expense) Reject(reason string) {
	e.Status = StatusRejected
	e.Comments = &reason
	e.UpdatedAt = time.Now()
}

func NewExpense(userID int64, dto SubmitExpenseDTO) *Expense {
	now := time.Now()

	currency := dto.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	return &Expense{
		UserID:      userID,
		Amount:      dto.Amount,
		Currency:    currency,
		Category:    dto.Category,
		Description: dto.Description,
		Status:      StatusPending,
		ExpenseDate: dto.parsedDate,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func ToDataModel(e *Expense) *expenseDatamodel.Expense {
	return &expenseDatamodel.Expense{
		ID:          e.ID,
		UserID:      e.UserID,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Category:    e.Category,
		Description: e.Description,
		Status:      e.Status,
		Comments:    e.Comments,
		ExpenseDate: e.ExpenseDate,
		SubmittedAt: e.SubmittedAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func FromDataModel(e *expenseDatamodel.Expense) *Expense {
	return &Expense{
		ID:          e.ID,
		UserID:      e.UserID,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Category:    e.Category,
		Description: e.Description,
		Status:      e.Status,
		Comments:    e.Comments,
		ExpenseDate: e.ExpenseDate,
		SubmittedAt: e.SubmittedAt,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
