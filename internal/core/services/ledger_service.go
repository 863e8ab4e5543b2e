package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_backend/internal/dto"
	"github.com/SscSPs/shop_ledger_backend/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultTransactionPageSize = 20
	maxTransactionPageSize     = 100
)

// ledgerService posts balanced transactions and keeps account balances in step.
type ledgerService struct {
	BaseService
	chartSvc    portssvc.ChartSvcFacade
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	txManager   portsrepo.TransactionManager
	tolerance   decimal.Decimal
}

// LedgerOption is a functional option for configuring the ledger service
type LedgerOption func(*ledgerService)

// WithBalanceTolerance overrides the largest debit/credit difference accepted as balanced.
func WithBalanceTolerance(tolerance decimal.Decimal) LedgerOption {
	return func(s *ledgerService) {
		s.tolerance = tolerance
	}
}

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(
	chartSvc portssvc.ChartSvcFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	txManager portsrepo.TransactionManager,
	options ...LedgerOption,
) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		chartSvc:    chartSvc,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		txManager:   txManager,
		tolerance:   domain.BalanceTolerance,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetTransactionByID(ctx context.Context, tenantID, transactionID string) (*domain.Transaction, error) {
	txn, err := s.ledgerRepo.FindTransactionByID(ctx, tenantID, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to get transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

func (s *ledgerService) GetTransactions(ctx context.Context, tenantID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	limit := params.Limit
	switch {
	case limit <= 0:
		limit = defaultTransactionPageSize
	case limit > maxTransactionPageSize:
		limit = maxTransactionPageSize
	}

	txns, nextToken, err := s.ledgerRepo.ListTransactions(ctx, tenantID, params.Filter(), limit, params.NextToken)
	if err != nil {
		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			s.LogError(ctx, err, "Failed to list transactions", slog.String("tenant_id", tenantID))
		}
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	resp := &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}

	if params.AccountID != "" && params.FromDate != nil {
		opening, err := s.openingBalance(ctx, tenantID, params.AccountID, *params.FromDate)
		if err != nil {
			return nil, err
		}
		resp.OpeningBalance = &opening
	}
	return resp, nil
}

// openingBalance folds every line posted to the account before the given date.
func (s *ledgerService) openingBalance(ctx context.Context, tenantID, accountID string, before time.Time) (decimal.Decimal, error) {
	account, err := s.chartSvc.GetAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	debits, credits, err := s.ledgerRepo.SumAccountLinesBefore(ctx, tenantID, accountID, before)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum prior lines", slog.String("account_id", accountID))
		return decimal.Zero, fmt.Errorf("failed to compute opening balance: %w", err)
	}
	return accounting.CalculateSignedAmount(debits, credits, account.AccountType)
}

func (s *ledgerService) CreateTransaction(ctx context.Context, tenantID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	return s.post(ctx, tenantID, req, userID, nil)
}

func (s *ledgerService) ReverseTransaction(ctx context.Context, tenantID, transactionID, userID string) (*domain.Transaction, error) {
	original, err := s.GetTransactionByID(ctx, tenantID, transactionID)
	if err != nil {
		return nil, err
	}

	lines := make([]dto.CreateTransactionLineRequest, len(original.Lines))
	for i, l := range original.Lines {
		lines[i] = dto.CreateTransactionLineRequest{
			AccountID:    l.AccountID,
			DebitAmount:  l.CreditAmount,
			CreditAmount: l.DebitAmount,
			Description:  l.Description,
		}
	}
	req := dto.CreateTransactionRequest{
		Date:              time.Now().UTC(),
		Description:       "Reversal of " + original.TransactionNumber,
		OrderID:           original.OrderID,
		PurchaseInvoiceID: original.PurchaseInvoiceID,
		OrderReturnID:     original.OrderReturnID,
		Lines:             lines,
	}

	reversal, err := s.post(ctx, tenantID, req, userID, &original.TransactionID)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Transaction reversed",
		slog.String("transaction_id", original.TransactionID),
		slog.String("reversal_id", reversal.TransactionID))
	return reversal, nil
}

// post validates the request, then resolves accounts, stores the transaction
// and applies the balance deltas in one unit of work. Called inside an
// existing unit of work it joins it.
func (s *ledgerService) post(ctx context.Context, tenantID string, req dto.CreateTransactionRequest, userID string, reversalOf *string) (*domain.Transaction, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: transaction description is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	date := req.Date
	if date.IsZero() {
		date = now
	}

	txnID := uuid.NewString()
	lines := make([]domain.TransactionLine, len(req.Lines))
	for i, l := range req.Lines {
		if l.AccountID == "" && l.AccountCode == "" {
			return nil, fmt.Errorf("%w: line %d must reference an account id or code", apperrors.ErrValidation, i)
		}
		lines[i] = domain.TransactionLine{
			LineID:        uuid.NewString(),
			TransactionID: txnID,
			AccountID:     l.AccountID,
			DebitAmount:   l.DebitAmount,
			CreditAmount:  l.CreditAmount,
			Description:   l.Description,
		}
	}

	if err := accounting.ValidateTransactionLines(lines, s.tolerance); err != nil {
		s.LogDebug(ctx, "Rejected transaction", slog.String("error", err.Error()))
		return nil, err
	}

	txn := domain.Transaction{
		TransactionID:     txnID,
		TenantID:          tenantID,
		TransactionNumber: newTransactionNumber(date),
		Date:              date,
		Description:       req.Description,
		OrderID:           req.OrderID,
		PurchaseInvoiceID: req.PurchaseInvoiceID,
		OrderReturnID:     req.OrderReturnID,
		ReversalOfID:      reversalOf,
		Lines:             lines,
		AuditFields:       domain.NewAuditFields(userID, now),
	}

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		ids := make([]string, 0, len(lines))
		for i := range txn.Lines {
			if txn.Lines[i].AccountID == "" {
				account, err := s.resolveAccount(ctx, tenantID, req.Lines[i], userID)
				if err != nil {
					return err
				}
				txn.Lines[i].AccountID = account.AccountID
			}
			ids = append(ids, txn.Lines[i].AccountID)
		}

		accounts, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tenantID, uniqueStrings(ids))
		if err != nil {
			return fmt.Errorf("failed to lock accounts: %w", err)
		}
		deltas, err := accounting.CalculateBalanceChanges(txn.Lines, accounts)
		if err != nil {
			return err
		}
		if err := s.ledgerRepo.SaveTransaction(ctx, txn); err != nil {
			return fmt.Errorf("failed to save transaction: %w", err)
		}
		if err := s.accountRepo.ApplyBalanceDeltas(ctx, tenantID, deltas, userID, now); err != nil {
			return fmt.Errorf("failed to update account balances: %w", err)
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post transaction",
			slog.String("tenant_id", tenantID),
			slog.String("description", req.Description))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("transaction_number", txn.TransactionNumber))
	return &txn, nil
}

// resolveAccount finds a line's account by code, creating it from the line's
// spec or from the standard chart when the tenant does not have it yet.
func (s *ledgerService) resolveAccount(ctx context.Context, tenantID string, line dto.CreateTransactionLineRequest, userID string) (*domain.Account, error) {
	account, err := s.chartSvc.GetAccountByCode(ctx, tenantID, line.AccountCode)
	if err == nil {
		return account, nil
	}
	var notFound *apperrors.AccountNotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}

	var spec domain.AccountSpec
	switch standard, ok := domain.LookupStandardAccount(line.AccountCode); {
	case line.AccountSpec != nil:
		spec = line.AccountSpec.ToSpec()
		spec.Code = line.AccountCode
	case ok:
		spec = standard
	default:
		return nil, err
	}
	return s.chartSvc.GetOrCreateAccount(ctx, tenantID, spec, userID)
}

// newTransactionNumber returns TXN-<yyyymmdd>-<8 hex>.
func newTransactionNumber(date time.Time) string {
	return fmt.Sprintf("TXN-%s-%s", date.Format("20060102"), uuid.NewString()[:8])
}

// uniqueStrings returns input without repeats, keeping first-seen order.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
