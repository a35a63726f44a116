package category

import (
	"log/slog"

	categoryDatamodel "github.com/frahmantamala/expensepro/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	GetAll() ([]*categoryDatamodel.ExpenseCategory, error)
	GetByName(name string) (*categoryDatamodel.ExpenseCategory, error)
	Create(category *categoryDatamodel.ExpenseCategory) error
	Update(category *categoryDatamodel.ExpenseCategory) error
	Delete(id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAllCategories() ([]CategoryResponse, error) {
	dataCategories, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, err
	}

	var responses []CategoryResponse
	for _, dataCategory := range dataCategories {
		domainCategory := FromDataModel(dataCategory)
		if domainCategory.IsActiveCategory() {
			responses = append(responses, domainCategory.ToResponse())
		}
	}

	return responses, nil
}

func (s *Service) GetCategoryByName(name string) (*CategoryResponse, error) {
	dataCategory, err := s.repo.GetByName(name)
	if err != nil {
		s.logger.Error("failed to look up category", "name", name, "error", err)
		return nil, err
	}
	if dataCategory == nil {
		return nil, nil
	}

	domainCategory := FromDataModel(dataCategory)
	if !domainCategory.IsActiveCategory() {
		return nil, nil
	}

	response := domainCategory.ToResponse()
	return &response, nil
}

// IsValidCategory reports whether a submission may use the named category.
func (s *Service) IsValidCategory(name string) bool {
	category, err := s.GetCategoryByName(name)
	if err != nil {
		s.logger.Warn("error checking category validity", "name", name, "error", err)
		return false
	}
	return category != nil
}
