package persistence

import (
	"context"

	"gorm.io/gorm"

	appcart "github.com/piora/backend/internal/application/cart"
	"github.com/piora/backend/internal/domain/cart"
	"github.com/piora/backend/internal/domain/catalog"
)

// GormCartTransactionScope implements TransactionScope using GORM transactions.
// Cart mutations and the stock checks they depend on run atomically inside it.
type GormCartTransactionScope struct {
	db *gorm.DB
}

// NewGormCartTransactionScope creates a new GormCartTransactionScope
func NewGormCartTransactionScope(db *gorm.DB) *GormCartTransactionScope {
	return &GormCartTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormCartTransactionScope) Execute(ctx context.Context, fn func(repos appcart.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormCartTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormCartTransactionalRepositories provides repositories scoped to one transaction
type gormCartTransactionalRepositories struct {
	tx *gorm.DB
}

// CartRepo returns the cart repository scoped to the current transaction
func (r *gormCartTransactionalRepositories) CartRepo() cart.CartRepository {
	return NewGormCartRepository(r.tx)
}

// ProductRepo returns a product repository whose lookups lock the product row,
// serializing concurrent stock checks against the same product
func (r *gormCartTransactionalRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepositoryForUpdate(r.tx)
}

var _ appcart.TransactionScope = (*GormCartTransactionScope)(nil)
var _ appcart.TransactionalRepositories = (*gormCartTransactionalRepositories)(nil)
