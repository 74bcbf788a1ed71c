package order

import (
	"context"

	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/cart"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/catalog"
	"github.com/kartikpareekak-cloud/shopbackend/internal/domain/order"
)

// TransactionScope provides transactional access to the repositories touched
// by checkout. All operations inside Execute share one database transaction
// and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs fn within a database transaction. If fn returns an error
	// the transaction is rolled back, otherwise it is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the checkout repositories bound to the
// current transaction. Product reads obtained via ProductRepo's locked
// lookups serialize concurrent checkouts per product.
type TransactionalRepositories interface {
	// Products returns the product repository scoped to the transaction
	Products() catalog.ProductRepository
	// Carts returns the cart repository scoped to the transaction
	Carts() cart.CartRepository
	// Orders returns the order repository scoped to the transaction
	Orders() order.OrderRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Used in tests where repositories are in-memory fakes.
type NoOpTransactionScope struct {
	ProductRepo catalog.ProductRepository
	CartRepo    cart.CartRepository
	OrderRepo   order.OrderRepository
}

// Execute runs fn directly against the configured repositories
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Products returns the product repository
func (s *NoOpTransactionScope) Products() catalog.ProductRepository {
	return s.ProductRepo
}

// Carts returns the cart repository
func (s *NoOpTransactionScope) Carts() cart.CartRepository {
	return s.CartRepo
}

// Orders returns the order repository
func (s *NoOpTransactionScope) Orders() order.OrderRepository {
	return s.OrderRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
