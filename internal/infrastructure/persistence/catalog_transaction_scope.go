package persistence

import (
	"context"

	"gorm.io/gorm"

	appcatalog "github.com/piora/backend/internal/application/catalog"
	"github.com/piora/backend/internal/domain/catalog"
)

// GormCatalogTransactionScope implements the catalog TransactionScope using
// GORM transactions. Category deletion and the product reassignment it
// triggers run atomically inside it.
type GormCatalogTransactionScope struct {
	db *gorm.DB
}

// NewGormCatalogTransactionScope creates a new GormCatalogTransactionScope
func NewGormCatalogTransactionScope(db *gorm.DB) *GormCatalogTransactionScope {
	return &GormCatalogTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormCatalogTransactionScope) Execute(ctx context.Context, fn func(repos appcatalog.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormCatalogTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormCatalogTransactionalRepositories provides repositories scoped to one transaction
type gormCatalogTransactionalRepositories struct {
	tx *gorm.DB
}

// CategoryRepo returns the category repository scoped to the current transaction
func (r *gormCatalogTransactionalRepositories) CategoryRepo() catalog.CategoryRepository {
	return NewGormCategoryRepository(r.tx)
}

// ProductRepo returns the product repository scoped to the current transaction
func (r *gormCatalogTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

var _ appcatalog.TransactionScope = (*GormCatalogTransactionScope)(nil)
var _ appcatalog.TransactionalRepositories = (*gormCatalogTransactionalRepositories)(nil)
