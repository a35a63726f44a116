package expense

import (
	"time"

	"github.com/frahmantamala/expensepro/internal"
)

// SubmitExpenseDTO is the request payload for submitting an expense. The
// date comes in as YYYY-MM-DD, matching the date picker on the client.
type SubmitExpenseDTO struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency,omitempty"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Date        string  `json:"date"`

	parsedDate time.Time
}

// Validate checks the submission payload. The status field is not part of
// the payload at all: whatever the client sends, a new expense is pending.
func (dto *SubmitExpenseDTO) Validate() error {
	if dto.Amount <= 0 {
		return internal.NewValidationError("amount must be greater than 0", internal.ErrCodeInvalidAmount)
	}
	if dto.Description == "" {
		return internal.NewValidationError("description is required", internal.ErrCodeInvalidDescription)
	}
	if len(dto.Description) > 500 {
		return internal.NewValidationError("description must be less than 500 characters", internal.ErrCodeInvalidDescription)
	}
	if dto.Category == "" {
		return internal.NewValidationError("category is required", internal.ErrCodeInvalidCategory)
	}
	if dto.Date == "" {
		return internal.NewValidationError("date is required", internal.ErrCodeInvalidDate)
	}

	parsed, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		return internal.NewValidationError("date must be in YYYY-MM-DD format", internal.ErrCodeInvalidDate)
	}
	if parsed.After(time.Now()) {
		return internal.NewValidationError("expense date cannot be in the future", internal.ErrCodeInvalidDate)
	}

	dto.parsedDate = parsed
	return nil
}

// ApproveExpenseDTO carries the optional comment attached on approval.
type ApproveExpenseDTO struct {
	Comments *string `json:"comments,omitempty"`
}

// RejectExpenseDTO carries the mandatory rejection reason. An empty reason
// means the caller backed out of the prompt, so the rejection must not
// happen at all.
type RejectExpenseDTO struct {
	Reason string `json:"reason"`
}

func (dto RejectExpenseDTO) Validate() error {
	if dto.Reason == "" {
		return internal.NewValidationError("reason is required when rejecting an expense", internal.ErrCodeMissingReason)
	}
	return nil
}
