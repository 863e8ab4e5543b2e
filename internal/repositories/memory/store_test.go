package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tenant = "tenant-1"

func seedAccount(t *testing.T, s *Store, id, code string) {
	t.Helper()
	created, err := s.InsertAccountIfAbsent(context.Background(), domain.Account{
		AccountID: id, TenantID: tenant, Code: code, Name: code, AccountType: domain.Asset, IsActive: true,
	})
	require.NoError(t, err)
	require.True(t, created)
}

func TestWithinTransaction_RollsBackOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedAccount(t, s, "cash", "1000")
	seedAccount(t, s, "ar", "1200")

	boom := errors.New("boom")
	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		require.NoError(t, s.ApplyBalanceDeltas(ctx, tenant, map[string]decimal.Decimal{
			"cash": decimal.NewFromInt(100),
			"ar":   decimal.NewFromInt(-100),
		}, "u1", time.Now()))
		require.NoError(t, s.SaveTransaction(ctx, domain.Transaction{TransactionID: "tx1", TenantID: tenant, TransactionNumber: "TXN-1"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	cash, err := s.FindAccountByID(ctx, tenant, "cash")
	require.NoError(t, err)
	assert.True(t, cash.Balance.IsZero())
	_, err = s.FindTransactionByID(ctx, tenant, "tx1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWithinTransaction_NestedJoinsOuter(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedAccount(t, s, "cash", "1000")

	err := s.WithinTransaction(ctx, func(ctx context.Context) error {
		inner := s.WithinTransaction(ctx, func(ctx context.Context) error {
			return s.ApplyBalanceDeltas(ctx, tenant, map[string]decimal.Decimal{"cash": decimal.NewFromInt(5)}, "u1", time.Now())
		})
		require.NoError(t, inner)
		return errors.New("outer fails")
	})
	require.Error(t, err)

	cash, _ := s.FindAccountByID(ctx, tenant, "cash")
	assert.True(t, cash.Balance.IsZero(), "inner work must roll back with the outer unit")
}

func TestInsertAccountIfAbsent_ConcurrentSingleWinner(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			created, err := s.InsertAccountIfAbsent(ctx, domain.Account{
				AccountID: string(rune('a' + i)), TenantID: tenant, Code: "1000", AccountType: domain.Asset,
			})
			assert.NoError(t, err)
			results <- created
		}(i)
	}
	wg.Wait()
	close(results)

	winners := 0
	for created := range results {
		if created {
			winners++
		}
	}
	assert.Equal(t, 1, winners)

	accounts, err := s.ListAccounts(ctx, tenant)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func TestApplyBalanceDeltas_UnknownAccountChangesNothing(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedAccount(t, s, "cash", "1000")

	err := s.ApplyBalanceDeltas(ctx, tenant, map[string]decimal.Decimal{
		"cash":    decimal.NewFromInt(10),
		"missing": decimal.NewFromInt(-10),
	}, "u1", time.Now())
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	cash, _ := s.FindAccountByID(ctx, tenant, "cash")
	assert.True(t, cash.Balance.IsZero())
}

func TestListTransactions_PaginatesNewestFirst(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		require.NoError(t, s.SaveTransaction(ctx, domain.Transaction{
			TransactionID:     string(rune('a' + i)),
			TenantID:          tenant,
			TransactionNumber: "TXN-" + string(rune('a'+i)),
			Date:              base.AddDate(0, 0, i),
			AuditFields:       domain.AuditFields{CreatedAt: base},
		}))
	}
	require.NoError(t, s.SaveTransaction(ctx, domain.Transaction{TransactionID: "other", TenantID: "tenant-2", TransactionNumber: "TXN-x", Date: base}))

	page, next, err := s.ListTransactions(ctx, tenant, domain.TransactionFilter{}, 2, nil)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.NotNil(t, next)
	assert.Equal(t, "e", page[0].TransactionID)
	assert.Equal(t, "d", page[1].TransactionID)

	page, next, err = s.ListTransactions(ctx, tenant, domain.TransactionFilter{}, 2, next)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b"}, []string{page[0].TransactionID, page[1].TransactionID})

	page, next, err = s.ListTransactions(ctx, tenant, domain.TransactionFilter{}, 2, next)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "a", page[0].TransactionID)
	assert.Nil(t, next)

	bad := "%%%"
	_, _, err = s.ListTransactions(ctx, tenant, domain.TransactionFilter{}, 2, &bad)
	assert.Error(t, err)
}

func TestAttachPaymentTransaction_Conflict(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.SavePayment(ctx, domain.Payment{PaymentID: "p1", TenantID: tenant, Type: domain.CustomerPayment}))

	require.NoError(t, s.AttachPaymentTransaction(ctx, tenant, "p1", "tx1", "u1", time.Now()))
	err := s.AttachPaymentTransaction(ctx, tenant, "p1", "tx2", "u1", time.Now())
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	p, err := s.FindPaymentByID(ctx, tenant, "p1")
	require.NoError(t, err)
	assert.Equal(t, "tx1", *p.TransactionID)
}

func TestGuardedStateChanges(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.AddOrder(domain.Order{OrderID: "o1", TenantID: tenant, Status: domain.OrderPending})
	s.AddPurchaseInvoice(domain.PurchaseInvoice{PurchaseInvoiceID: "i1", TenantID: tenant, Status: domain.InvoiceDraft})
	s.AddCustomer(domain.Customer{CustomerID: "c1", TenantID: tenant, AdvanceBalance: decimal.NewFromInt(50)})
	s.AddSupplier(domain.Supplier{SupplierID: "s1", TenantID: tenant})

	t.Run("order transition", func(t *testing.T) {
		require.NoError(t, s.TransitionOrderStatus(ctx, tenant, "o1", domain.OrderPending, domain.OrderConfirmed, decimal.NewFromInt(200)))
		err := s.TransitionOrderStatus(ctx, tenant, "o1", domain.OrderPending, domain.OrderConfirmed, decimal.Zero)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
		o, err := s.FindOrderByID(ctx, tenant, "o1")
		require.NoError(t, err)
		assert.Equal(t, "200", o.ShippingCharges.String())
		assert.ErrorIs(t, s.TransitionOrderStatus(ctx, tenant, "nope", domain.OrderPending, domain.OrderConfirmed, decimal.Zero), apperrors.ErrNotFound)
	})

	t.Run("invoice posting", func(t *testing.T) {
		require.NoError(t, s.MarkInvoicePosted(ctx, tenant, "i1", "tx1"))
		assert.ErrorIs(t, s.MarkInvoicePosted(ctx, tenant, "i1", "tx2"), apperrors.ErrConflict)
		inv, err := s.FindPurchaseInvoiceByID(ctx, tenant, "i1")
		require.NoError(t, err)
		assert.Equal(t, "tx1", *inv.TransactionID)
	})

	t.Run("advance never goes negative", func(t *testing.T) {
		require.NoError(t, s.AdjustCustomerAdvance(ctx, tenant, "c1", decimal.NewFromInt(-30)))
		err := s.AdjustCustomerAdvance(ctx, tenant, "c1", decimal.NewFromInt(-30))
		assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
		c, err := s.FindCustomerByID(ctx, tenant, "c1")
		require.NoError(t, err)
		assert.Equal(t, "20", c.AdvanceBalance.String())
	})

	t.Run("opening balance set once", func(t *testing.T) {
		require.NoError(t, s.SetSupplierOpeningBalance(ctx, tenant, "s1", decimal.NewFromInt(90)))
		assert.ErrorIs(t, s.SetSupplierOpeningBalance(ctx, tenant, "s1", decimal.NewFromInt(10)), apperrors.ErrConflict)
		require.NoError(t, s.SetCustomerOpeningBalance(ctx, tenant, "c1", decimal.NewFromInt(-5)))
		assert.ErrorIs(t, s.SetCustomerOpeningBalance(ctx, tenant, "c1", decimal.NewFromInt(7)), apperrors.ErrConflict)
	})
}

func TestReturnedValuesAreCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	s.AddOrder(domain.Order{OrderID: "o1", TenantID: tenant, Items: []domain.OrderItem{{ProductID: "p1", Quantity: 1}}})

	o, err := s.FindOrderByID(ctx, tenant, "o1")
	require.NoError(t, err)
	o.Items[0].Quantity = 99

	again, _ := s.FindOrderByID(ctx, tenant, "o1")
	assert.Equal(t, 1, again.Items[0].Quantity)

	_, err = s.FindOrderByID(ctx, "tenant-2", "o1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
