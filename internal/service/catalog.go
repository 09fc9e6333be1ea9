package service

import "school-canteen/internal/domain"

// featuredLimit caps the items shown on the landing page.
const featuredLimit = 4

type CatalogService struct {
	repo CatalogRepository
}

func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) Home() ([]domain.Category, []domain.MenuItem, error) {
	categories, err := s.repo.ListCategories()
	if err != nil {
		return nil, nil, err
	}
	featured, err := s.repo.ListFeaturedItems(featuredLimit)
	if err != nil {
		return nil, nil, err
	}
	return categories, featured, nil
}

// Menu returns every category with its available items, in catalog order.
func (s *CatalogService) Menu() ([]domain.CategoryMenu, error) {
	categories, err := s.repo.ListCategories()
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListAvailableItems()
	if err != nil {
		return nil, err
	}

	byCategory := make(map[int][]domain.MenuItem, len(categories))
	for _, item := range items {
		byCategory[item.CategoryID] = append(byCategory[item.CategoryID], item)
	}

	sections := make([]domain.CategoryMenu, 0, len(categories))
	for _, category := range categories {
		sections = append(sections, domain.CategoryMenu{
			Category: category,
			Items:    byCategory[category.ID],
		})
	}
	return sections, nil
}

var _ CatalogServiceInterface = (*CatalogService)(nil)
