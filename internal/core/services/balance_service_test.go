package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/SscSPs/shop_ledger_backend/internal/core/services"
	"github.com/SscSPs/shop_ledger_backend/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockOrderRepository is a mock type for the OrderRepositoryFacade interface
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindOrderByID(ctx context.Context, tenantID, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, tenantID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByCustomer(ctx context.Context, tenantID, customerID string, status domain.OrderStatus) ([]domain.Order, error) {
	args := m.Called(ctx, tenantID, customerID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) TransitionOrderStatus(ctx context.Context, tenantID, orderID string, from, to domain.OrderStatus, shippingCharges decimal.Decimal) error {
	args := m.Called(ctx, tenantID, orderID, from, to, shippingCharges)
	return args.Error(0)
}

func (m *MockOrderRepository) AddOrderAmounts(ctx context.Context, tenantID, orderID string, payment, refund decimal.Decimal) error {
	args := m.Called(ctx, tenantID, orderID, payment, refund)
	return args.Error(0)
}

type BalanceServiceTestSuite struct {
	suite.Suite
	env *testEnv
	ctx context.Context
}

func (suite *BalanceServiceTestSuite) SetupTest() {
	suite.env = newTestEnv(suite.T())
	suite.ctx = context.Background()
}

func (suite *BalanceServiceTestSuite) addPayment(p domain.Payment) {
	p.TenantID = testTenant
	suite.Require().NoError(suite.env.store.SavePayment(suite.ctx, p))
}

func (suite *BalanceServiceTestSuite) addOrder(id, customerID string, status domain.OrderStatus, price string, qty int, shipping string) {
	suite.env.store.AddOrder(domain.Order{
		OrderID:         id,
		TenantID:        testTenant,
		CustomerID:      customerID,
		OrderNumber:     "ORD-" + id,
		Status:          status,
		Items:           []domain.OrderItem{{ProductID: "p-1", ProductPrice: dec(price), Quantity: qty}},
		ShippingCharges: dec(shipping),
		OrderDate:       day(2024, 1, 1),
	})
}

// seedSupplierWithAdvance is a supplier holding a 10000 advance with one 8000 invoice.
func (suite *BalanceServiceTestSuite) seedSupplierWithAdvance(id string) {
	suite.env.store.AddSupplier(domain.Supplier{SupplierID: id, TenantID: testTenant, Name: "Fabrics Co", Balance: dec("-10000")})
	suite.env.store.AddPurchaseInvoice(domain.PurchaseInvoice{
		PurchaseInvoiceID: "inv-" + id,
		TenantID:          testTenant,
		SupplierID:        id,
		InvoiceNumber:     "PI-1",
		Status:            domain.InvoicePosted,
		TotalAmount:       dec("8000"),
		InvoiceDate:       day(2024, 1, 1),
	})
}

func (suite *BalanceServiceTestSuite) TestSupplierBalance_InvoiceSettledFromAdvance() {
	suite.seedSupplierWithAdvance("sup-1")

	balance, err := suite.env.svc.Balance.CalculateSupplierBalance(suite.ctx, testTenant, "sup-1")
	suite.Require().NoError(err)
	suite.True(dec("8000").Equal(balance.TotalInvoiced))
	suite.True(balance.TotalPaid.IsZero())
	suite.True(dec("-2000").Equal(balance.Pending), "got %s", balance.Pending)
}

func (suite *BalanceServiceTestSuite) TestSupplierBalance_InvoicePaidWithAdditionalCash() {
	suite.seedSupplierWithAdvance("sup-1")
	suite.addPayment(domain.Payment{
		PaymentID:         "pay-1",
		Type:              domain.SupplierPayment,
		Amount:            dec("8000"),
		SupplierID:        strPtr("sup-1"),
		PurchaseInvoiceID: strPtr("inv-sup-1"),
		TransactionID:     strPtr("txn-1"),
	})

	balance, err := suite.env.svc.Balance.CalculateSupplierBalance(suite.ctx, testTenant, "sup-1")
	suite.Require().NoError(err)
	suite.True(dec("-10000").Equal(balance.Pending), "got %s", balance.Pending)
	suite.Require().Len(balance.Invoices, 1)
	suite.True(balance.Invoices[0].Pending.IsZero())
}

func (suite *BalanceServiceTestSuite) TestSupplierBalance_LegacyAmountUsedOnlyWithoutRows() {
	suite.env.store.AddSupplier(domain.Supplier{SupplierID: "sup-2", TenantID: testTenant, Name: "Threads Ltd"})
	suite.env.store.AddPurchaseInvoice(domain.PurchaseInvoice{
		PurchaseInvoiceID: "inv-legacy", TenantID: testTenant, SupplierID: "sup-2",
		Status: domain.InvoicePosted, TotalAmount: dec("1000"), PaymentAmount: dec("600"),
	})
	suite.env.store.AddPurchaseInvoice(domain.PurchaseInvoice{
		PurchaseInvoiceID: "inv-rows", TenantID: testTenant, SupplierID: "sup-2",
		Status: domain.InvoicePosted, TotalAmount: dec("500"), PaymentAmount: dec("500"),
	})
	suite.env.store.AddPurchaseInvoice(domain.PurchaseInvoice{
		PurchaseInvoiceID: "inv-cancelled", TenantID: testTenant, SupplierID: "sup-2",
		Status: domain.InvoiceCancelled, TotalAmount: dec("9999"),
	})
	// The legacy 500 on inv-rows mirrors this row and must not be counted twice.
	suite.addPayment(domain.Payment{
		PaymentID: "pay-rows", Type: domain.SupplierPayment, Amount: dec("500"),
		SupplierID: strPtr("sup-2"), PurchaseInvoiceID: strPtr("inv-rows"), TransactionID: strPtr("txn-2"),
	})
	// Not linked to any invoice.
	suite.addPayment(domain.Payment{
		PaymentID: "pay-unlinked", Type: domain.SupplierPayment, Amount: dec("150"),
		SupplierID: strPtr("sup-2"), TransactionID: strPtr("txn-3"),
	})

	balance, err := suite.env.svc.Balance.CalculateSupplierBalance(suite.ctx, testTenant, "sup-2")
	suite.Require().NoError(err)
	suite.True(dec("1500").Equal(balance.TotalInvoiced))
	suite.True(dec("1250").Equal(balance.TotalPaid), "got %s", balance.TotalPaid)
	suite.True(dec("250").Equal(balance.Pending))
	suite.Len(balance.Invoices, 2)
}

func (suite *BalanceServiceTestSuite) TestCustomerBalance_PendingAndBreakdown() {
	suite.env.store.AddCustomer(domain.Customer{
		CustomerID: "cust-1", TenantID: testTenant, Name: "Ayesha",
		Balance: dec("100"), AdvanceBalance: dec("50"),
	})
	suite.addOrder("o1", "cust-1", domain.OrderConfirmed, "500", 2, "200")
	suite.addOrder("o2", "cust-1", domain.OrderConfirmed, "300", 1, "0")
	suite.addOrder("o3", "cust-1", domain.OrderPending, "999", 1, "0")
	suite.Require().NoError(suite.env.store.AddOrderAmounts(suite.ctx, testTenant, "o2", dec("300"), decimal.Zero))

	suite.addPayment(domain.Payment{
		PaymentID: "pay-1", Type: domain.CustomerPayment, Amount: dec("700"),
		CustomerID: strPtr("cust-1"), OrderID: strPtr("o1"), TransactionID: strPtr("txn-1"),
	})
	// Claimed but never verified.
	suite.addPayment(domain.Payment{
		PaymentID: "pay-2", Type: domain.CustomerPayment, Amount: dec("300"),
		CustomerID: strPtr("cust-1"), OrderID: strPtr("o1"),
	})
	suite.addPayment(domain.Payment{
		PaymentID: "ref-1", Type: domain.Refund, Amount: dec("100"),
		CustomerID: strPtr("cust-1"), OrderID: strPtr("o1"), TransactionID: strPtr("txn-2"),
	})

	balance, err := suite.env.svc.Balance.CalculateCustomerBalance(suite.ctx, testTenant, "cust-1")
	suite.Require().NoError(err)

	suite.True(dec("1500").Equal(balance.TotalOrdered))
	suite.True(dec("1000").Equal(balance.TotalPaid))
	suite.True(dec("100").Equal(balance.TotalRefunded))
	suite.True(dec("400").Equal(balance.TotalPending))
	suite.True(dec("450").Equal(balance.Pending), "got %s", balance.Pending)

	suite.Require().Len(balance.Orders, 1)
	suite.IsType(domain.OrderPendingLine{}, balance.Orders[0])
	suite.Equal("o1", balance.Orders[0].OrderID)
	suite.True(dec("1200").Equal(balance.Orders[0].OrderTotal))
	suite.True(dec("400").Equal(balance.Orders[0].Pending))
}

func (suite *BalanceServiceTestSuite) TestCustomerBalance_OverpaidOrderIsNotNegative() {
	suite.env.store.AddCustomer(domain.Customer{CustomerID: "cust-2", TenantID: testTenant, Name: "Bilal"})
	suite.addOrder("o4", "cust-2", domain.OrderConfirmed, "100", 1, "0")
	suite.addPayment(domain.Payment{
		PaymentID: "pay-3", Type: domain.CustomerPayment, Amount: dec("150"),
		CustomerID: strPtr("cust-2"), OrderID: strPtr("o4"), TransactionID: strPtr("txn-3"),
	})

	balance, err := suite.env.svc.Balance.CalculateCustomerBalance(suite.ctx, testTenant, "cust-2")
	suite.Require().NoError(err)
	suite.True(balance.TotalPending.IsZero())
	suite.True(balance.Pending.IsZero())
	suite.Empty(balance.Orders)
}

func (suite *BalanceServiceTestSuite) TestCustomerBalance_NotFound() {
	_, err := suite.env.svc.Balance.CalculateCustomerBalance(suite.ctx, testTenant, "nobody")
	suite.ErrorIs(err, apperrors.ErrNotFound)

	_, err = suite.env.svc.Balance.CalculateSupplierBalance(suite.ctx, testTenant, "nobody")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *BalanceServiceTestSuite) TestGetAllCustomerBalances_SkipsFailures() {
	suite.env.store.AddCustomer(domain.Customer{CustomerID: "good", TenantID: testTenant, Name: "Good"})
	suite.env.store.AddCustomer(domain.Customer{CustomerID: "bad", TenantID: testTenant, Name: "Bad"})

	orders := new(MockOrderRepository)
	orders.On("ListOrdersByCustomer", mock.Anything, testTenant, "good", domain.OrderConfirmed).
		Return([]domain.Order{{OrderID: "o-good", CustomerID: "good", Status: domain.OrderConfirmed, ShippingCharges: dec("75")}}, nil)
	orders.On("ListOrdersByCustomer", mock.Anything, testTenant, "bad", domain.OrderConfirmed).
		Return(nil, errors.New("connection reset"))

	repos := memory.NewRepositoryProvider(suite.env.store)
	repos.OrderRepo = orders
	svc := services.NewBalanceService(repos)

	result, err := svc.GetAllCustomerBalances(suite.ctx, testTenant)
	suite.Require().NoError(err)
	suite.Equal(1, result.Processed)
	suite.Equal(1, result.Failed)
	suite.Require().Len(result.Balances, 1)
	suite.Equal("good", result.Balances[0].CustomerID)
	suite.True(dec("75").Equal(result.Balances[0].Pending))
	orders.AssertExpectations(suite.T())
}

func (suite *BalanceServiceTestSuite) TestGetBalanceSummary() {
	suite.env.store.AddCustomer(domain.Customer{CustomerID: "owes", TenantID: testTenant, Name: "Owes"})
	suite.addOrder("o5", "owes", domain.OrderConfirmed, "400", 1, "50")
	suite.env.store.AddCustomer(domain.Customer{CustomerID: "ahead", TenantID: testTenant, Name: "Ahead", AdvanceBalance: dec("200")})

	suite.seedSupplierWithAdvance("sup-adv")
	suite.env.store.AddSupplier(domain.Supplier{SupplierID: "sup-owed", TenantID: testTenant, Name: "Owed"})
	suite.env.store.AddPurchaseInvoice(domain.PurchaseInvoice{
		PurchaseInvoiceID: "inv-owed", TenantID: testTenant, SupplierID: "sup-owed",
		Status: domain.InvoiceDraft, TotalAmount: dec("3000"),
	})

	suite.env.post(suite.T(), day(2024, 1, 1), domain.CodeCash, domain.CodeOwnerCapital, "1000")
	suite.env.post(suite.T(), day(2024, 1, 2), domain.CodeBank, domain.CodeOtherIncome, "500")
	suite.env.post(suite.T(), day(2024, 1, 3), domain.CodeAccountsReceivable, domain.CodeSalesRevenue, "999")
	_, err := suite.env.svc.Chart.GetOrCreateAccount(suite.ctx, testTenant, domain.AccountSpec{
		Code: "1030", Name: "Petty Cash Box", AccountType: domain.Asset, ParentCode: domain.CodeAssets,
	}, testUser)
	suite.Require().NoError(err)
	suite.env.post(suite.T(), day(2024, 1, 4), "1030", domain.CodeOtherIncome, "25")

	summary, err := suite.env.svc.Balance.GetBalanceSummary(suite.ctx, testTenant)
	suite.Require().NoError(err)

	suite.True(dec("450").Equal(summary.TotalReceivables), "receivables %s", summary.TotalReceivables)
	suite.True(dec("200").Equal(summary.CustomerAdvances))
	suite.True(dec("3000").Equal(summary.TotalPayables))
	suite.True(dec("2000").Equal(summary.SupplierAdvances), "supplier advances %s", summary.SupplierAdvances)
	suite.True(dec("1525").Equal(summary.CashPosition), "cash %s", summary.CashPosition)
	suite.Equal(2, summary.CustomersProcessed)
	suite.Equal(2, summary.SuppliersProcessed)
	suite.Zero(summary.CustomersFailed)
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}
