package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AddCustomer stores a customer. Customer management lives outside this
// service; the store exposes it for seeding.
func (s *Store) AddCustomer(c domain.Customer) {
	_ = s.write(context.Background(), func(d *state) error {
		d.customers[key(c.TenantID, c.CustomerID)] = c
		return nil
	})
}

// AddSupplier stores a supplier for seeding.
func (s *Store) AddSupplier(sup domain.Supplier) {
	_ = s.write(context.Background(), func(d *state) error {
		d.suppliers[key(sup.TenantID, sup.SupplierID)] = sup
		return nil
	})
}

// AddOrder stores an order for seeding.
func (s *Store) AddOrder(o domain.Order) {
	o.Items = slices.Clone(o.Items)
	_ = s.write(context.Background(), func(d *state) error {
		d.orders[key(o.TenantID, o.OrderID)] = o
		return nil
	})
}

// AddPurchaseInvoice stores a purchase invoice for seeding.
func (s *Store) AddPurchaseInvoice(inv domain.PurchaseInvoice) {
	_ = s.write(context.Background(), func(d *state) error {
		d.invoices[key(inv.TenantID, inv.PurchaseInvoiceID)] = inv
		return nil
	})
}

func (s *Store) FindCustomerByID(ctx context.Context, tenantID, customerID string) (*domain.Customer, error) {
	var (
		c  domain.Customer
		ok bool
	)
	s.read(func(d *state) { c, ok = d.customers[key(tenantID, customerID)] })
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &c, nil
}

func (s *Store) ListCustomers(ctx context.Context, tenantID string) ([]domain.Customer, error) {
	var out []domain.Customer
	s.read(func(d *state) {
		for _, c := range d.customers {
			if c.TenantID == tenantID {
				out = append(out, c)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) AdjustCustomerAdvance(ctx context.Context, tenantID, customerID string, delta decimal.Decimal) error {
	return s.write(ctx, func(d *state) error {
		c, ok := d.customers[key(tenantID, customerID)]
		if !ok {
			return apperrors.ErrNotFound
		}
		next := c.AdvanceBalance.Add(delta)
		if next.IsNegative() {
			return fmt.Errorf("%w: customer %s", apperrors.ErrInsufficientBalance, customerID)
		}
		c.AdvanceBalance = next
		d.customers[key(tenantID, customerID)] = c
		return nil
	})
}

func (s *Store) SetCustomerOpeningBalance(ctx context.Context, tenantID, customerID string, balance decimal.Decimal) error {
	return s.write(ctx, func(d *state) error {
		c, ok := d.customers[key(tenantID, customerID)]
		if !ok {
			return apperrors.ErrNotFound
		}
		if !c.Balance.IsZero() {
			return fmt.Errorf("%w: customer %s", apperrors.ErrConflict, customerID)
		}
		c.Balance = balance
		d.customers[key(tenantID, customerID)] = c
		return nil
	})
}

func (s *Store) FindSupplierByID(ctx context.Context, tenantID, supplierID string) (*domain.Supplier, error) {
	var (
		sup domain.Supplier
		ok  bool
	)
	s.read(func(d *state) { sup, ok = d.suppliers[key(tenantID, supplierID)] })
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &sup, nil
}

func (s *Store) ListSuppliers(ctx context.Context, tenantID string) ([]domain.Supplier, error) {
	var out []domain.Supplier
	s.read(func(d *state) {
		for _, sup := range d.suppliers {
			if sup.TenantID == tenantID {
				out = append(out, sup)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) SetSupplierOpeningBalance(ctx context.Context, tenantID, supplierID string, balance decimal.Decimal) error {
	return s.write(ctx, func(d *state) error {
		sup, ok := d.suppliers[key(tenantID, supplierID)]
		if !ok {
			return apperrors.ErrNotFound
		}
		if !sup.Balance.IsZero() {
			return fmt.Errorf("%w: supplier %s", apperrors.ErrConflict, supplierID)
		}
		sup.Balance = balance
		d.suppliers[key(tenantID, supplierID)] = sup
		return nil
	})
}

func (s *Store) FindOrderByID(ctx context.Context, tenantID, orderID string) (*domain.Order, error) {
	var (
		o  domain.Order
		ok bool
	)
	s.read(func(d *state) { o, ok = d.orders[key(tenantID, orderID)] })
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	o.Items = slices.Clone(o.Items)
	return &o, nil
}

func (s *Store) ListOrdersByCustomer(ctx context.Context, tenantID, customerID string, status domain.OrderStatus) ([]domain.Order, error) {
	var out []domain.Order
	s.read(func(d *state) {
		for _, o := range d.orders {
			if o.TenantID == tenantID && o.CustomerID == customerID && o.Status == status {
				o.Items = slices.Clone(o.Items)
				out = append(out, o)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OrderDate.Equal(out[j].OrderDate) {
			return out[i].OrderDate.Before(out[j].OrderDate)
		}
		return out[i].OrderID < out[j].OrderID
	})
	return out, nil
}

func (s *Store) TransitionOrderStatus(ctx context.Context, tenantID, orderID string, from, to domain.OrderStatus, shippingCharges decimal.Decimal) error {
	return s.write(ctx, func(d *state) error {
		o, ok := d.orders[key(tenantID, orderID)]
		if !ok {
			return apperrors.ErrNotFound
		}
		if o.Status != from {
			return fmt.Errorf("%w: order %s is %s", apperrors.ErrConflict, orderID, o.Status)
		}
		o.Status = to
		o.ShippingCharges = shippingCharges
		d.orders[key(tenantID, orderID)] = o
		return nil
	})
}

func (s *Store) AddOrderAmounts(ctx context.Context, tenantID, orderID string, payment, refund decimal.Decimal) error {
	return s.write(ctx, func(d *state) error {
		o, ok := d.orders[key(tenantID, orderID)]
		if !ok {
			return apperrors.ErrNotFound
		}
		o.PaymentAmount = o.PaymentAmount.Add(payment)
		o.RefundAmount = o.RefundAmount.Add(refund)
		d.orders[key(tenantID, orderID)] = o
		return nil
	})
}

func (s *Store) FindPurchaseInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.PurchaseInvoice, error) {
	var (
		inv domain.PurchaseInvoice
		ok  bool
	)
	s.read(func(d *state) { inv, ok = d.invoices[key(tenantID, invoiceID)] })
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &inv, nil
}

func (s *Store) ListActiveInvoicesBySupplier(ctx context.Context, tenantID, supplierID string) ([]domain.PurchaseInvoice, error) {
	var out []domain.PurchaseInvoice
	s.read(func(d *state) {
		for _, inv := range d.invoices {
			if inv.TenantID == tenantID && inv.SupplierID == supplierID && inv.Status != domain.InvoiceCancelled {
				out = append(out, inv)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].InvoiceDate.Equal(out[j].InvoiceDate) {
			return out[i].InvoiceDate.Before(out[j].InvoiceDate)
		}
		return out[i].PurchaseInvoiceID < out[j].PurchaseInvoiceID
	})
	return out, nil
}

func (s *Store) MarkInvoicePosted(ctx context.Context, tenantID, invoiceID, transactionID string) error {
	return s.write(ctx, func(d *state) error {
		inv, ok := d.invoices[key(tenantID, invoiceID)]
		if !ok {
			return apperrors.ErrNotFound
		}
		if inv.Status != domain.InvoiceDraft {
			return fmt.Errorf("%w: purchase invoice %s is %s", apperrors.ErrConflict, invoiceID, inv.Status)
		}
		inv.Status = domain.InvoicePosted
		inv.TransactionID = &transactionID
		d.invoices[key(tenantID, invoiceID)] = inv
		return nil
	})
}

func (s *Store) SavePayment(ctx context.Context, payment domain.Payment) error {
	return s.write(ctx, func(d *state) error {
		k := key(payment.TenantID, payment.PaymentID)
		if _, exists := d.payments[k]; exists {
			return fmt.Errorf("%w: payment %s already exists", apperrors.ErrDuplicate, payment.PaymentID)
		}
		d.payments[k] = payment
		return nil
	})
}

func (s *Store) FindPaymentByID(ctx context.Context, tenantID, paymentID string) (*domain.Payment, error) {
	var (
		p  domain.Payment
		ok bool
	)
	s.read(func(d *state) { p, ok = d.payments[key(tenantID, paymentID)] })
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (s *Store) listPayments(tenantID string, match func(domain.Payment) bool) []domain.Payment {
	var out []domain.Payment
	s.read(func(d *state) {
		for _, p := range d.payments {
			if p.TenantID == tenantID && match(p) {
				out = append(out, p)
			}
		}
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PaymentDate.Equal(out[j].PaymentDate) {
			return out[i].PaymentDate.Before(out[j].PaymentDate)
		}
		return out[i].PaymentID < out[j].PaymentID
	})
	return out
}

func (s *Store) ListPaymentsByCustomer(ctx context.Context, tenantID, customerID string) ([]domain.Payment, error) {
	return s.listPayments(tenantID, func(p domain.Payment) bool {
		return p.CustomerID != nil && *p.CustomerID == customerID
	}), nil
}

func (s *Store) ListPaymentsBySupplier(ctx context.Context, tenantID, supplierID string) ([]domain.Payment, error) {
	return s.listPayments(tenantID, func(p domain.Payment) bool {
		return p.SupplierID != nil && *p.SupplierID == supplierID
	}), nil
}

func (s *Store) AttachPaymentTransaction(ctx context.Context, tenantID, paymentID, transactionID, userID string, now time.Time) error {
	return s.write(ctx, func(d *state) error {
		p, ok := d.payments[key(tenantID, paymentID)]
		if !ok {
			return apperrors.ErrNotFound
		}
		if p.IsVerified() {
			return fmt.Errorf("%w: payment %s is already verified", apperrors.ErrConflict, paymentID)
		}
		p.TransactionID = &transactionID
		p.LastUpdatedAt = now
		p.LastUpdatedBy = userID
		d.payments[key(tenantID, paymentID)] = p
		return nil
	})
}
