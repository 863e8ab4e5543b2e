package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_backend/internal/core/services"
	"github.com/SscSPs/shop_ledger_backend/internal/dto"
	"github.com/SscSPs/shop_ledger_backend/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	testTenant = "tenant-1"
	testUser   = "user-1"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func strPtr(s string) *string { return &s }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// testEnv wires every service over one in-memory store.
type testEnv struct {
	store *memory.Store
	repos portsrepo.RepositoryProvider
	svc   *portssvc.ServiceContainer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	repos := memory.NewRepositoryProvider(store)
	env := &testEnv{store: store, repos: repos, svc: services.NewServiceContainer(nil, repos)}

	_, err := env.svc.Chart.InitializeChartOfAccounts(context.Background(), testTenant, testUser)
	require.NoError(t, err)
	return env
}

func (e *testEnv) account(t *testing.T, code string) *domain.Account {
	t.Helper()
	acc, err := e.svc.Chart.GetAccountByCode(context.Background(), testTenant, code)
	require.NoError(t, err)
	return acc
}

func (e *testEnv) balance(t *testing.T, code string) decimal.Decimal {
	t.Helper()
	return e.account(t, code).Balance
}

func (e *testEnv) post(t *testing.T, date time.Time, debitCode, creditCode, amount string) *domain.Transaction {
	t.Helper()
	txn, err := e.svc.Ledger.CreateTransaction(context.Background(), testTenant, dto.CreateTransactionRequest{
		Date:        date,
		Description: "test posting",
		Lines: []dto.CreateTransactionLineRequest{
			{AccountCode: debitCode, DebitAmount: dec(amount)},
			{AccountCode: creditCode, CreditAmount: dec(amount)},
		},
	}, testUser)
	require.NoError(t, err)
	return txn
}

// assertLedgerBalanced checks that every stored transaction balances.
func (e *testEnv) assertLedgerBalanced(t *testing.T) {
	t.Helper()
	resp, err := e.svc.Ledger.GetTransactions(context.Background(), testTenant, dto.ListTransactionsParams{Limit: 100})
	require.NoError(t, err)
	for _, txn := range resp.Transactions {
		var debits, credits decimal.Decimal
		for _, l := range txn.Lines {
			debits = debits.Add(l.DebitAmount)
			credits = credits.Add(l.CreditAmount)
		}
		require.True(t, debits.Sub(credits).Abs().LessThanOrEqual(domain.BalanceTolerance),
			"transaction %s is unbalanced: %s vs %s", txn.TransactionNumber, debits, credits)
	}
}
