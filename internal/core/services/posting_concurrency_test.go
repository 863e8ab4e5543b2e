package services_test

import (
	"context"
	"errors"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	portssvc "github.com/SscSPs/shop_ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_backend/internal/core/services"
	"github.com/SscSPs/shop_ledger_backend/internal/dto"
	"github.com/SscSPs/shop_ledger_backend/internal/repositories/memory"
)

// staleReadStore answers the first lookup of an entity with a snapshot taken
// before a competing request committed, the way a concurrent transaction
// reading without a row lock sees it. Later lookups and all writes go to the
// real store.
type staleReadStore struct {
	*memory.Store
	orders    map[string]domain.Order
	customers map[string]domain.Customer
	suppliers map[string]domain.Supplier
	invoices  map[string]domain.PurchaseInvoice
}

func newStaleReadStore(store *memory.Store) *staleReadStore {
	return &staleReadStore{
		Store:     store,
		orders:    map[string]domain.Order{},
		customers: map[string]domain.Customer{},
		suppliers: map[string]domain.Supplier{},
		invoices:  map[string]domain.PurchaseInvoice{},
	}
}

func (s *staleReadStore) FindOrderByID(ctx context.Context, tenantID, orderID string) (*domain.Order, error) {
	if o, ok := s.orders[orderID]; ok {
		delete(s.orders, orderID)
		return &o, nil
	}
	return s.Store.FindOrderByID(ctx, tenantID, orderID)
}

func (s *staleReadStore) FindCustomerByID(ctx context.Context, tenantID, customerID string) (*domain.Customer, error) {
	if c, ok := s.customers[customerID]; ok {
		delete(s.customers, customerID)
		return &c, nil
	}
	return s.Store.FindCustomerByID(ctx, tenantID, customerID)
}

func (s *staleReadStore) FindSupplierByID(ctx context.Context, tenantID, supplierID string) (*domain.Supplier, error) {
	if sup, ok := s.suppliers[supplierID]; ok {
		delete(s.suppliers, supplierID)
		return &sup, nil
	}
	return s.Store.FindSupplierByID(ctx, tenantID, supplierID)
}

func (s *staleReadStore) FindPurchaseInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.PurchaseInvoice, error) {
	if inv, ok := s.invoices[invoiceID]; ok {
		delete(s.invoices, invoiceID)
		return &inv, nil
	}
	return s.Store.FindPurchaseInvoiceByID(ctx, tenantID, invoiceID)
}

// racingServices wires services whose party reads come from stale.
func (suite *PostingServiceTestSuite) racingServices(stale *staleReadStore) *portssvc.ServiceContainer {
	repos := memory.NewRepositoryProvider(suite.env.store)
	repos.CustomerRepo = stale
	repos.SupplierRepo = stale
	repos.OrderRepo = stale
	repos.InvoiceRepo = stale
	return services.NewServiceContainer(nil, repos)
}

func (suite *PostingServiceTestSuite) transactionCount() int {
	resp, err := suite.env.svc.Ledger.GetTransactions(suite.ctx, testTenant, dto.ListTransactionsParams{Limit: 100})
	suite.Require().NoError(err)
	return len(resp.Transactions)
}

func (suite *PostingServiceTestSuite) TestConfirmOrder_LosesRaceToConcurrentConfirmation() {
	before, err := suite.env.store.FindOrderByID(suite.ctx, testTenant, "ord-1")
	suite.Require().NoError(err)
	stale := newStaleReadStore(suite.env.store)
	stale.orders["ord-1"] = *before

	suite.confirmOrder()

	_, err = suite.racingServices(stale).Posting.ConfirmOrder(suite.ctx, testTenant, "ord-1", testUser)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal("1350", suite.balance(domain.CodeAccountsReceivable))
	suite.Equal("1000", suite.balance(domain.CodeSalesRevenue))
	suite.Equal(1, suite.transactionCount())
}

func (suite *PostingServiceTestSuite) TestApplyCustomerAdvance_LosesRaceToConcurrentApplication() {
	suite.confirmOrder()
	_, err := suite.env.svc.Posting.RecordCustomerAdvance(suite.ctx, testTenant, dto.CustomerPaymentRequest{
		CustomerID: "cust-1", Amount: dec("100"),
	}, testUser)
	suite.Require().NoError(err)

	before, err := suite.env.store.FindCustomerByID(suite.ctx, testTenant, "cust-1")
	suite.Require().NoError(err)
	stale := newStaleReadStore(suite.env.store)
	stale.customers["cust-1"] = *before

	apply := dto.ApplyAdvanceRequest{CustomerID: "cust-1", OrderID: "ord-1", Amount: dec("100")}
	_, err = suite.env.svc.Posting.ApplyCustomerAdvance(suite.ctx, testTenant, apply, testUser)
	suite.Require().NoError(err)

	_, err = suite.racingServices(stale).Posting.ApplyCustomerAdvance(suite.ctx, testTenant, apply, testUser)
	var insufficient *apperrors.InsufficientBalanceError
	suite.Require().True(errors.As(err, &insufficient))
	suite.Equal("0", insufficient.Available.String())
	suite.Equal("100", insufficient.Requested.String())

	customer, err := suite.env.store.FindCustomerByID(suite.ctx, testTenant, "cust-1")
	suite.Require().NoError(err)
	suite.Equal("0", customer.AdvanceBalance.String())
	suite.Equal("0", suite.balance(domain.CodeCustomerAdvances))
	suite.Equal("1250", suite.balance(domain.CodeAccountsReceivable))
}

func (suite *PostingServiceTestSuite) TestPostPurchaseInvoice_LosesRaceToConcurrentPosting() {
	suite.env.store.AddPurchaseInvoice(domain.PurchaseInvoice{
		PurchaseInvoiceID: "inv-1", TenantID: testTenant, SupplierID: "sup-1",
		InvoiceNumber: "PI-1", Status: domain.InvoiceDraft, TotalAmount: dec("8000"),
	})
	before, err := suite.env.store.FindPurchaseInvoiceByID(suite.ctx, testTenant, "inv-1")
	suite.Require().NoError(err)
	stale := newStaleReadStore(suite.env.store)
	stale.invoices["inv-1"] = *before

	first, err := suite.env.svc.Posting.PostPurchaseInvoice(suite.ctx, testTenant, "inv-1", testUser)
	suite.Require().NoError(err)

	_, err = suite.racingServices(stale).Posting.PostPurchaseInvoice(suite.ctx, testTenant, "inv-1", testUser)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal("8000", suite.balance(domain.CodeInventory))
	suite.Equal("8000", suite.balance(domain.CodeAccountsPayable))

	inv, err := suite.env.store.FindPurchaseInvoiceByID(suite.ctx, testTenant, "inv-1")
	suite.Require().NoError(err)
	suite.Require().NotNil(inv.TransactionID)
	suite.Equal(first.TransactionID, *inv.TransactionID)
}

func (suite *PostingServiceTestSuite) TestPostOpeningBalance_LosesRaceToConcurrentPosting() {
	before, err := suite.env.store.FindSupplierByID(suite.ctx, testTenant, "sup-1")
	suite.Require().NoError(err)
	stale := newStaleReadStore(suite.env.store)
	stale.suppliers["sup-1"] = *before

	req := dto.OpeningBalanceRequest{PartyType: dto.PartySupplier, PartyID: "sup-1", Amount: dec("700")}
	_, err = suite.env.svc.Posting.PostOpeningBalance(suite.ctx, testTenant, req, testUser)
	suite.Require().NoError(err)

	req.Amount = dec("900")
	_, err = suite.racingServices(stale).Posting.PostOpeningBalance(suite.ctx, testTenant, req, testUser)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Equal("700", suite.balance(domain.CodeAccountsPayable))
	suite.Equal("700", suite.balance(domain.CodeOpeningBalanceEquity))

	supplier, err := suite.env.store.FindSupplierByID(suite.ctx, testTenant, "sup-1")
	suite.Require().NoError(err)
	suite.Equal("700", supplier.Balance.String())
}
