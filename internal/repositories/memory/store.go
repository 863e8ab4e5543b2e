// Package memory is an in-process implementation of every repository port.
// Units of work are serialized and roll back by restoring a snapshot.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_backend/internal/core/ports/repositories"
)

type txCtxKey struct{}

type state struct {
	accounts     map[string]domain.Account
	accountCodes map[string]string // tenant|code -> account id
	transactions map[string]domain.Transaction
	customers    map[string]domain.Customer
	suppliers    map[string]domain.Supplier
	orders       map[string]domain.Order
	invoices     map[string]domain.PurchaseInvoice
	payments     map[string]domain.Payment
	companies    map[string]domain.LogisticsCompany
	products     map[string]domain.Product
	shipping     map[string]domain.ShippingSettings
}

func newState() state {
	return state{
		accounts:     map[string]domain.Account{},
		accountCodes: map[string]string{},
		transactions: map[string]domain.Transaction{},
		customers:    map[string]domain.Customer{},
		suppliers:    map[string]domain.Supplier{},
		orders:       map[string]domain.Order{},
		invoices:     map[string]domain.PurchaseInvoice{},
		payments:     map[string]domain.Payment{},
		companies:    map[string]domain.LogisticsCompany{},
		products:     map[string]domain.Product{},
		shipping:     map[string]domain.ShippingSettings{},
	}
}

// clone copies the maps. Stored values are never mutated in place, so a
// shallow copy of each map is a consistent snapshot.
func (s state) clone() state {
	return state{
		accounts:     maps.Clone(s.accounts),
		accountCodes: maps.Clone(s.accountCodes),
		transactions: maps.Clone(s.transactions),
		customers:    maps.Clone(s.customers),
		suppliers:    maps.Clone(s.suppliers),
		orders:       maps.Clone(s.orders),
		invoices:     maps.Clone(s.invoices),
		payments:     maps.Clone(s.payments),
		companies:    maps.Clone(s.companies),
		products:     maps.Clone(s.products),
		shipping:     maps.Clone(s.shipping),
	}
}

// Store keeps all data in memory.
type Store struct {
	txMu sync.Mutex   // held for the whole unit of work, and by writes outside one
	mu   sync.RWMutex // guards data
	data state
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{data: newState()}
}

// NewRepositoryProvider wires one Store behind every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:    store,
		AccountRepo:  store,
		LedgerRepo:   store,
		CustomerRepo: store,
		SupplierRepo: store,
		OrderRepo:    store,
		InvoiceRepo:  store,
		PaymentRepo:  store,
		SettingsRepo: store,
	}
}

var (
	_ portsrepo.TransactionManager              = (*Store)(nil)
	_ portsrepo.AccountRepositoryFacade         = (*Store)(nil)
	_ portsrepo.LedgerRepositoryFacade          = (*Store)(nil)
	_ portsrepo.CustomerRepositoryFacade        = (*Store)(nil)
	_ portsrepo.SupplierRepositoryFacade        = (*Store)(nil)
	_ portsrepo.OrderRepositoryFacade           = (*Store)(nil)
	_ portsrepo.PurchaseInvoiceRepositoryFacade = (*Store)(nil)
	_ portsrepo.PaymentRepositoryFacade         = (*Store)(nil)
	_ portsrepo.SettingsRepositoryFacade        = (*Store)(nil)
)

// WithinTransaction runs fn as one unit of work. When fn fails every change
// it made is discarded.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txCtxKey{}, true)); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txCtxKey{}).(bool)
	return v
}

// write applies fn under the data lock. Outside a unit of work it also waits
// for any running unit of work, so a rollback cannot discard the write.
func (s *Store) write(ctx context.Context, fn func(d *state) error) error {
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}

func (s *Store) read(fn func(d *state)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.data)
}

func key(tenantID, id string) string {
	return tenantID + "|" + id
}
