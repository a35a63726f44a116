package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeExpenseSubmitted = "expense.submitted"
	EventTypeExpenseDecided   = "expense.decided"
)

type ExpenseSubmittedEvent struct {
	BaseEvent
	ExpenseID int64   `json:"expense_id"`
	UserID    int64   `json:"user_id"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Category  string  `json:"category"`
}

func NewExpenseSubmittedEvent(expenseID, userID int64, amount float64, currency, category string) *ExpenseSubmittedEvent {
	return &ExpenseSubmittedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeExpenseSubmitted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"expense_id": expenseID,
				"user_id":    userID,
				"amount":     amount,
				"currency":   currency,
				"category":   category,
			},
		},
		ExpenseID: expenseID,
		UserID:    userID,
		Amount:    amount,
		Currency:  currency,
		Category:  category,
	}
}

// ExpenseDecidedEvent records an approval or rejection, including who acted.
type ExpenseDecidedEvent struct {
	BaseEvent
	ExpenseID int64  `json:"expense_id"`
	ActorID   int64  `json:"actor_id"`
	OwnerID   int64  `json:"owner_id"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

func NewExpenseDecidedEvent(expenseID, actorID, ownerID int64, status, reason string) *ExpenseDecidedEvent {
	return &ExpenseDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeExpenseDecided,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"expense_id": expenseID,
				"actor_id":   actorID,
				"owner_id":   ownerID,
				"status":     status,
				"reason":     reason,
			},
		},
		ExpenseID: expenseID,
		ActorID:   actorID,
		OwnerID:   ownerID,
		Status:    status,
		Reason:    reason,
	}
}
