package user

import (
	"fmt"
)

type Repository interface {
	GetByID(userID int64) (*User, error)
	GetAll() ([]*User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

func (s *Service) GetByID(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

// GetAll returns the full roster. Every dashboard render needs it for
// submitter name and role lookups.
func (s *Service) GetAll() ([]*User, error) {
	users, err := s.repo.GetAll()
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// CheckIntegrity validates the manager chain once at startup.
func (s *Service) CheckIntegrity() error {
	users, err := s.repo.GetAll()
	if err != nil {
		return fmt.Errorf("failed to load users for integrity check: %w", err)
	}
	return ValidateManagerRefs(users)
}
