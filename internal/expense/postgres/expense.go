package postgres

import (
	"time"

	"gorm.io/gorm"

	expenseDatamodel "github.com/frahmantamala/expensepro/internal/core/datamodel/expense"
	"github.com/frahmantamala/expensepro/internal/expense"
)

// ExpenseRepository implements the expense.Repository interface using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.Repository {
	return &ExpenseRepository{db: db}
}

// Create saves a new expense to the database
func (r *ExpenseRepository) Create(exp *expense.Expense) error {
	dm := expense.ToDataModel(exp)
	if err := r.db.Create(dm).Error; err != nil {
		return err
	}
	exp.ID = dm.ID
	return nil
}

// GetByID retrieves an expense by its ID
func (r *ExpenseRepository) GetByID(id int64) (*expense.Expense, error) {
	var dm expenseDatamodel.Expense
	err := r.db.Where("id = ?", id).First(&dm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return expense.FromDataModel(&dm), nil
}

// GetByUserID retrieves a user's expenses, newest submission first
func (r *ExpenseRepository) GetByUserID(userID int64) ([]*expense.Expense, error) {
	var dms []*expenseDatamodel.Expense
	err := r.db.Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return fromDataModels(dms), nil
}

// GetAll retrieves every expense in stable submission order. The dashboard
// derives all of its views from this one list.
func (r *ExpenseRepository) GetAll() ([]*expense.Expense, error) {
	var dms []*expenseDatamodel.Expense
	err := r.db.Order("submitted_at ASC, id ASC").
		Find(&dms).Error
	if err != nil {
		return nil, err
	}
	return fromDataModels(dms), nil
}

// UpdateStatus updates only the status and comments fields of an expense
func (r *ExpenseRepository) UpdateStatus(id int64, status string, comments *string) error {
	updates := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if comments != nil {
		updates["comments"] = *comments
	}

	return r.db.Model(&expenseDatamodel.Expense{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func fromDataModels(dms []*expenseDatamodel.Expense) []*expense.Expense {
	out := make([]*expense.Expense, 0, len(dms))
	for _, dm := range dms {
		out = append(out, expense.FromDataModel(dm))
	}
	return out
}
