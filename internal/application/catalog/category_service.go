package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/piora/backend/internal/domain/catalog"
	"github.com/piora/backend/internal/domain/shared"
)

// CategoryService handles category-related business operations
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	txScope      TransactionScope
	storage      ObjectStorageService
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	txScope TransactionScope,
	storage ObjectStorageService,
) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		txScope:      txScope,
		storage:      storage,
	}
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	exists, err := s.categoryRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
	}

	category, err := catalog.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}

	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category, ""), nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, id uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return ToCategoryResponse(category, imageDownloadURL(ctx, s.storage, category.IconKey)), nil
}

// List retrieves categories matching the filter with pagination
func (s *CategoryService) List(ctx context.Context, filter CategoryListFilter) (*shared.Paginated[CategoryResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	domainFilter.OrderBy = "sort_order"
	domainFilter.OrderDir = "asc"

	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	categories, err := s.categoryRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.categoryRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		resp := ToCategoryResponse(&categories[i], imageDownloadURL(ctx, s.storage, categories[i].IconKey))
		items = append(items, *resp)
	}

	result := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// Update modifies a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := category.Name
		description := category.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}

		if req.Name != nil && *req.Name != category.Name {
			exists, err := s.categoryRepo.ExistsByName(ctx, *req.Name)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists")
			}
		}

		if err := category.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.SortOrder != nil {
		category.SetSortOrder(*req.SortOrder)
	}

	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return ToCategoryResponse(category, imageDownloadURL(ctx, s.storage, category.IconKey)), nil
}

// Delete removes a category. Products in the category are moved to the
// "Others" fallback category, which is created on demand and cannot itself
// be deleted. The reassignment and the delete share one transaction.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	var iconKey string
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		category, err := repos.CategoryRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}

		if category.IsDefault() {
			return shared.NewDomainError("INVALID_STATE", "The fallback category cannot be deleted")
		}
		iconKey = category.IconKey

		count, err := repos.ProductRepo().CountByCategory(ctx, id)
		if err != nil {
			return err
		}

		if count > 0 {
			fallback, err := ensureFallbackCategory(ctx, repos.CategoryRepo())
			if err != nil {
				return err
			}
			if err := repos.ProductRepo().ReassignCategory(ctx, id, fallback.ID); err != nil {
				return err
			}
		}

		return repos.CategoryRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if iconKey != "" && s.storage != nil {
		_ = s.storage.DeleteObject(ctx, iconKey)
	}
	return nil
}

// GenerateIconUploadURL creates a presigned URL for uploading the category icon
// and records the storage key on the category.
func (s *CategoryService) GenerateIconUploadURL(ctx context.Context, id uuid.UUID, contentType string) (*ImageUploadResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}

	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("categories/%s/icon", category.ID)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, UploadURLExpiry)
	if err != nil {
		return nil, err
	}

	category.SetIconKey(key)
	if err := s.categoryRepo.Save(ctx, category); err != nil {
		return nil, err
	}

	return &ImageUploadResponse{
		StorageKey: key,
		UploadURL:  url,
		ExpiresAt:  expiresAt,
	}, nil
}

func ensureFallbackCategory(ctx context.Context, repo catalog.CategoryRepository) (*catalog.Category, error) {
	fallback, err := repo.FindByName(ctx, catalog.DefaultCategoryName)
	if err == nil {
		return fallback, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	fallback, err = catalog.NewCategory(catalog.DefaultCategoryName, "Products without a category")
	if err != nil {
		return nil, err
	}
	if err := repo.Save(ctx, fallback); err != nil {
		return nil, err
	}
	return fallback, nil
}
