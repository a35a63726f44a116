package postgres

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/frahmantamala/expensepro/internal/role"
	"github.com/frahmantamala/expensepro/internal/user"
)

// UserRepository serves the read-only user directory via sqlx. Writes go
// through the seeder and migrations only; the application never mutates users.
type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &UserRepository{db: db}
}

type userRow struct {
	ID           int64     `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	ManagerID    *int64    `db:"manager_id"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const userColumns = `id, email, name, password_hash, role, manager_id, created_at, updated_at`

func (r *UserRepository) GetByID(userID int64) (*user.User, error) {
	var row userRow
	err := r.db.Get(&row, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE id = ?`), userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, user.ErrNotFound
		}
		return nil, err
	}
	return rowToDomain(&row), nil
}

func (r *UserRepository) GetAll() ([]*user.User, error) {
	var rows []userRow
	if err := r.db.Select(&rows, `SELECT `+userColumns+` FROM users ORDER BY id ASC`); err != nil {
		return nil, err
	}

	users := make([]*user.User, len(rows))
	for i := range rows {
		users[i] = rowToDomain(&rows[i])
	}
	return users, nil
}

func rowToDomain(row *userRow) *user.User {
	r, err := role.Parse(row.Role)
	if err != nil {
		r = role.Role(row.Role)
	}
	return &user.User{
		ID:           row.ID,
		Email:        row.Email,
		Name:         row.Name,
		PasswordHash: row.PasswordHash,
		Role:         r,
		ManagerID:    row.ManagerID,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
