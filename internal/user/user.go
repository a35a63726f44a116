package user

import (
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/expensepro/internal/role"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         role.Role `json:"role"`
	ManagerID    *int64    `json:"manager_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var ErrNotFound = errors.New("user not found")

// ValidateManagerRefs checks that every manager_id points at an existing
// user. The store does not enforce this, so it runs at load/seed time.
func ValidateManagerRefs(users []*User) error {
	ids := make(map[int64]struct{}, len(users))
	for _, u := range users {
		ids[u.ID] = struct{}{}
	}
	for _, u := range users {
		if u.ManagerID == nil {
			continue
		}
		if _, ok := ids[*u.ManagerID]; !ok {
			return fmt.Errorf("user %d references missing manager %d", u.ID, *u.ManagerID)
		}
	}
	return nil
}
