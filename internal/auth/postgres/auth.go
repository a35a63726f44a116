package postgres

import (
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/expensepro/internal"
	"github.com/frahmantamala/expensepro/internal/auth"
	"github.com/frahmantamala/expensepro/internal/role"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentialsByEmail(email string) (string, int64, error) {
	var passwordHash string
	var userID int64
	query := `SELECT id, password_hash FROM users WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, internal.ErrUserNotFound
		}
		return "", 0, err
	}
	return passwordHash, userID, nil
}

func (r *Repository) GetUserByID(userID int64) (*auth.User, error) {
	var u auth.User
	var storedRole string

	query := `SELECT id, email, name, role FROM users WHERE id = ?`
	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &storedRole); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}

	parsed, err := role.Parse(storedRole)
	if err != nil {
		// Leave unknown roles intact; the policy denies them everywhere.
		parsed = role.Role(storedRole)
	}
	u.Role = parsed

	return &u, nil
}
