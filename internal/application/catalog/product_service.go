package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/piora/backend/internal/domain/catalog"
	"github.com/piora/backend/internal/domain/shared"
	"github.com/piora/backend/internal/domain/shared/valueobject"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	storage      ObjectStorageService
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	storage ObjectStorageService,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		storage:      storage,
	}
}

// Create lists a new product for the given seller
func (s *ProductService) Create(ctx context.Context, sellerID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	price, err := valueobject.NewMoney(req.Price, valueobject.DefaultCurrency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", err.Error())
	}

	product, err := catalog.NewProduct(sellerID, req.Name, req.Description, price, req.Quantity)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		product.SetCategory(req.CategoryID)
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product, ""), nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return ToProductResponse(product, imageDownloadURL(ctx, s.storage, product.ImageKey)), nil
}

// List retrieves products matching the filter with pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (*shared.Paginated[ProductResponse], error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search

	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.SellerID != nil {
		domainFilter.Filters["seller_id"] = *filter.SellerID
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		resp := ToProductResponse(&products[i], imageDownloadURL(ctx, s.storage, products[i].ImageKey))
		items = append(items, *resp)
	}

	result := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &result, nil
}

// Update modifies a product. Only the listing seller may update it.
func (s *ProductService) Update(ctx context.Context, sellerID, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.SellerID != sellerID {
		return nil, shared.ErrForbidden
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		description := product.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
		}
		product.SetCategory(req.CategoryID)
	}

	if req.Price != nil {
		price, err := valueobject.NewMoney(*req.Price, valueobject.DefaultCurrency)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PRICE", err.Error())
		}
		if err := product.SetPrice(price); err != nil {
			return nil, err
		}
	}

	if req.Quantity != nil {
		if err := product.SetStock(*req.Quantity); err != nil {
			return nil, err
		}
	}

	if req.Status != nil {
		if err := s.applyStatus(product, catalog.ProductStatus(*req.Status)); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product, imageDownloadURL(ctx, s.storage, product.ImageKey)), nil
}

// Delete removes a product. Only the listing seller may delete it.
func (s *ProductService) Delete(ctx context.Context, sellerID, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if product.SellerID != sellerID {
		return shared.ErrForbidden
	}

	if product.ImageKey != "" && s.storage != nil {
		// best effort cleanup, the row is the source of truth
		_ = s.storage.DeleteObject(ctx, product.ImageKey)
	}

	return s.productRepo.Delete(ctx, id)
}

// GenerateImageUploadURL creates a presigned URL for uploading the product image
// and records the storage key on the product.
func (s *ProductService) GenerateImageUploadURL(ctx context.Context, sellerID, id uuid.UUID, contentType string) (*ImageUploadResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDomainError("STORAGE_UNAVAILABLE", "Object storage is not configured")
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.SellerID != sellerID {
		return nil, shared.ErrForbidden
	}

	key := fmt.Sprintf("products/%s/image", product.ID)
	url, expiresAt, err := s.storage.GenerateUploadURL(ctx, key, contentType, UploadURLExpiry)
	if err != nil {
		return nil, err
	}

	product.SetImageKey(key)
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return &ImageUploadResponse{
		StorageKey: key,
		UploadURL:  url,
		ExpiresAt:  expiresAt,
	}, nil
}

// AdjustStock sets the product's stock to an absolute quantity. Only
// the listing seller may adjust it.
func (s *ProductService) AdjustStock(ctx context.Context, sellerID, id uuid.UUID, quantity int) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if product.SellerID != sellerID {
		return nil, shared.ErrForbidden
	}

	if err := product.SetStock(quantity); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	return ToProductResponse(product, imageDownloadURL(ctx, s.storage, product.ImageKey)), nil
}

func (s *ProductService) applyStatus(product *catalog.Product, status catalog.ProductStatus) error {
	if product.Status == status {
		return nil
	}

	switch status {
	case catalog.ProductStatusActive:
		return product.Activate()
	case catalog.ProductStatusInactive:
		return product.Deactivate()
	case catalog.ProductStatusDiscontinued:
		return product.Discontinue()
	default:
		return shared.NewDomainError("INVALID_STATUS", "Unknown product status")
	}
}
