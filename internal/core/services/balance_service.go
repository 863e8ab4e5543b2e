package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// balanceService derives party balances from orders, invoices and payments
// instead of trusting a stored running total.
type balanceService struct {
	BaseService
	customerRepo portsrepo.CustomerRepositoryFacade
	supplierRepo portsrepo.SupplierRepositoryFacade
	orderRepo    portsrepo.OrderRepositoryFacade
	invoiceRepo  portsrepo.PurchaseInvoiceRepositoryFacade
	paymentRepo  portsrepo.PaymentRepositoryFacade
	accountRepo  portsrepo.AccountReader
}

// NewBalanceService creates a new balance service.
func NewBalanceService(repos portsrepo.RepositoryProvider) portssvc.BalanceSvc {
	return &balanceService{
		customerRepo: repos.CustomerRepo,
		supplierRepo: repos.SupplierRepo,
		orderRepo:    repos.OrderRepo,
		invoiceRepo:  repos.InvoiceRepo,
		paymentRepo:  repos.PaymentRepo,
		accountRepo:  repos.AccountRepo,
	}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

// paidFromRows sums verified rows of the given type. The second result reports
// whether any row of that type exists at all, verified or not; only then are
// the legacy totals on the order or invoice ignored.
func paidFromRows(payments []domain.Payment, paymentType domain.PaymentType, match func(domain.Payment) bool) (decimal.Decimal, bool) {
	sum, found := decimal.Zero, false
	for _, p := range payments {
		if p.Type != paymentType || !match(p) {
			continue
		}
		found = true
		if p.IsVerified() {
			sum = sum.Add(p.Amount)
		}
	}
	return sum, found
}

func linkedTo(id string, field func(domain.Payment) *string) func(domain.Payment) bool {
	return func(p domain.Payment) bool {
		v := field(p)
		return v != nil && *v == id
	}
}

func paymentOrderID(p domain.Payment) *string   { return p.OrderID }
func paymentInvoiceID(p domain.Payment) *string { return p.PurchaseInvoiceID }

func (s *balanceService) CalculateCustomerBalance(ctx context.Context, tenantID, customerID string) (*domain.CustomerBalance, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, tenantID, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
		}
		return nil, fmt.Errorf("failed to get customer %s: %w", customerID, err)
	}
	orders, err := s.orderRepo.ListOrdersByCustomer(ctx, tenantID, customerID, domain.OrderConfirmed)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders of customer %s: %w", customerID, err)
	}
	payments, err := s.paymentRepo.ListPaymentsByCustomer(ctx, tenantID, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments of customer %s: %w", customerID, err)
	}

	balance := &domain.CustomerBalance{
		CustomerID:     customer.CustomerID,
		Name:           customer.Name,
		OpeningBalance: customer.Balance,
		TotalOrdered:   decimal.Zero,
		TotalPaid:      decimal.Zero,
		TotalRefunded:  decimal.Zero,
		TotalPending:   decimal.Zero,
		AdvanceBalance: customer.AdvanceBalance,
		Orders:         []domain.OrderPendingLine{},
	}

	for _, order := range orders {
		forOrder := linkedTo(order.OrderID, paymentOrderID)

		paid, hasRows := paidFromRows(payments, domain.CustomerPayment, forOrder)
		if !hasRows {
			paid = order.PaymentAmount
		}
		refunded, hasRows := paidFromRows(payments, domain.Refund, forOrder)
		if !hasRows {
			refunded = order.RefundAmount
		}

		total := order.Total()
		pending := decimal.Max(decimal.Zero, total.Sub(paid).Sub(refunded))

		balance.TotalOrdered = balance.TotalOrdered.Add(total)
		balance.TotalPaid = balance.TotalPaid.Add(paid)
		balance.TotalRefunded = balance.TotalRefunded.Add(refunded)
		balance.TotalPending = balance.TotalPending.Add(pending)

		if pending.IsZero() {
			continue
		}
		balance.Orders = append(balance.Orders, domain.OrderPendingLine{
			OrderID:     order.OrderID,
			OrderNumber: order.OrderNumber,
			OrderTotal:  total,
			Paid:        paid,
			Refunded:    refunded,
			Pending:     pending,
		})
	}

	balance.Pending = balance.OpeningBalance.Add(balance.TotalPending).Sub(balance.AdvanceBalance)
	return balance, nil
}

func (s *balanceService) CalculateSupplierBalance(ctx context.Context, tenantID, supplierID string) (*domain.SupplierBalance, error) {
	supplier, err := s.supplierRepo.FindSupplierByID(ctx, tenantID, supplierID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: supplier %s", apperrors.ErrNotFound, supplierID)
		}
		return nil, fmt.Errorf("failed to get supplier %s: %w", supplierID, err)
	}
	invoices, err := s.invoiceRepo.ListActiveInvoicesBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices of supplier %s: %w", supplierID, err)
	}
	payments, err := s.paymentRepo.ListPaymentsBySupplier(ctx, tenantID, supplierID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments of supplier %s: %w", supplierID, err)
	}

	balance := &domain.SupplierBalance{
		SupplierID:     supplier.SupplierID,
		Name:           supplier.Name,
		OpeningBalance: supplier.Balance,
		TotalInvoiced:  decimal.Zero,
		TotalPaid:      decimal.Zero,
		Invoices:       []domain.InvoicePending{},
	}

	for _, inv := range invoices {
		paid, hasRows := paidFromRows(payments, domain.SupplierPayment, linkedTo(inv.PurchaseInvoiceID, paymentInvoiceID))
		if !hasRows {
			paid = inv.PaymentAmount
		}
		balance.TotalInvoiced = balance.TotalInvoiced.Add(inv.TotalAmount)
		balance.TotalPaid = balance.TotalPaid.Add(paid)
		balance.Invoices = append(balance.Invoices, domain.InvoicePending{
			PurchaseInvoiceID: inv.PurchaseInvoiceID,
			InvoiceNumber:     inv.InvoiceNumber,
			TotalAmount:       inv.TotalAmount,
			Paid:              paid,
			Pending:           inv.TotalAmount.Sub(paid),
		})
	}

	// Payments without an invoice (advances, on-account payments) still reduce what is owed.
	unlinked, _ := paidFromRows(payments, domain.SupplierPayment, func(p domain.Payment) bool {
		return p.PurchaseInvoiceID == nil
	})
	balance.TotalPaid = balance.TotalPaid.Add(unlinked)

	balance.Pending = balance.OpeningBalance.Add(balance.TotalInvoiced).Sub(balance.TotalPaid)
	return balance, nil
}

func (s *balanceService) GetAllCustomerBalances(ctx context.Context, tenantID string) (*domain.CustomerBalances, error) {
	customers, err := s.customerRepo.ListCustomers(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list customers", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	result := &domain.CustomerBalances{Balances: make([]domain.CustomerBalance, 0, len(customers))}
	for _, c := range customers {
		balance, err := s.CalculateCustomerBalance(ctx, tenantID, c.CustomerID)
		if err != nil {
			result.Failed++
			s.LogWarn(ctx, err, "Skipping customer in balance aggregate",
				slog.String("tenant_id", tenantID),
				slog.String("customer_id", c.CustomerID))
			continue
		}
		result.Balances = append(result.Balances, *balance)
		result.Processed++
	}
	return result, nil
}

func (s *balanceService) GetAllSupplierBalances(ctx context.Context, tenantID string) (*domain.SupplierBalances, error) {
	suppliers, err := s.supplierRepo.ListSuppliers(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list suppliers", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	result := &domain.SupplierBalances{Balances: make([]domain.SupplierBalance, 0, len(suppliers))}
	for _, sup := range suppliers {
		balance, err := s.CalculateSupplierBalance(ctx, tenantID, sup.SupplierID)
		if err != nil {
			result.Failed++
			s.LogWarn(ctx, err, "Skipping supplier in balance aggregate",
				slog.String("tenant_id", tenantID),
				slog.String("supplier_id", sup.SupplierID))
			continue
		}
		result.Balances = append(result.Balances, *balance)
		result.Processed++
	}
	return result, nil
}

func (s *balanceService) GetBalanceSummary(ctx context.Context, tenantID string) (*domain.BalanceSummary, error) {
	customers, err := s.GetAllCustomerBalances(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.GetAllSupplierBalances(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	summary := &domain.BalanceSummary{
		TotalReceivables:   decimal.Zero,
		TotalPayables:      decimal.Zero,
		CustomerAdvances:   decimal.Zero,
		SupplierAdvances:   decimal.Zero,
		CashPosition:       decimal.Zero,
		CustomersProcessed: customers.Processed,
		CustomersFailed:    customers.Failed,
		SuppliersProcessed: suppliers.Processed,
		SuppliersFailed:    suppliers.Failed,
	}
	for _, c := range customers.Balances {
		if c.Pending.IsPositive() {
			summary.TotalReceivables = summary.TotalReceivables.Add(c.Pending)
		} else {
			summary.CustomerAdvances = summary.CustomerAdvances.Add(c.Pending.Neg())
		}
	}
	for _, sup := range suppliers.Balances {
		if sup.Pending.IsPositive() {
			summary.TotalPayables = summary.TotalPayables.Add(sup.Pending)
		} else {
			summary.SupplierAdvances = summary.SupplierAdvances.Add(sup.Pending.Neg())
		}
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts for cash position", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	for _, acc := range accounts {
		if isCashAccount(acc) {
			summary.CashPosition = summary.CashPosition.Add(acc.Balance)
		}
	}
	return summary, nil
}

func isCashAccount(acc domain.Account) bool {
	if acc.AccountType != domain.Asset {
		return false
	}
	if acc.AccountSubType == domain.SubTypeCash || acc.AccountSubType == domain.SubTypeBank {
		return true
	}
	name := strings.ToLower(acc.Name)
	return strings.Contains(name, "cash") || strings.Contains(name, "bank")
}
