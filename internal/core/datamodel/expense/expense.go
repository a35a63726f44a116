package expense

import "time"

type Expense struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null;index"`
	Amount      float64   `gorm:"column:amount;not null"`
	Currency    string    `gorm:"column:currency;not null"`
	Category    string    `gorm:"column:category;not null"`
	Description string    `gorm:"column:description;not null"`
	Status      string    `gorm:"column:status;not null;default:pending;index"`
	Comments    *string   `gorm:"column:comments"`
	ExpenseDate time.Time `gorm:"column:expense_date;type:date;not null"`
	SubmittedAt time.Time `gorm:"column:submitted_at;autoCreateTime"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}
