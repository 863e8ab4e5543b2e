package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger_backend/internal/core/ports/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// chartService manages a tenant's chart of accounts.
type chartService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	txManager   portsrepo.TransactionManager
}

// NewChartService creates a new chart of accounts service.
func NewChartService(accountRepo portsrepo.AccountRepositoryFacade, txManager portsrepo.TransactionManager) portssvc.ChartSvcFacade {
	return &chartService{
		accountRepo: accountRepo,
		txManager:   txManager,
	}
}

var _ portssvc.ChartSvcFacade = (*chartService)(nil)

func (s *chartService) GetAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, &apperrors.AccountNotFoundError{TenantID: tenantID, Code: code}
		}
		s.LogError(ctx, err, "Failed to find account by code",
			slog.String("tenant_id", tenantID),
			slog.String("code", code))
		return nil, fmt.Errorf("failed to get account by code %s: %w", code, err)
	}
	return account, nil
}

func (s *chartService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to get account %s: %w", accountID, err)
	}
	return account, nil
}

func (s *chartService) ListAccounts(ctx context.Context, tenantID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// GetOrCreateAccount resolves spec.Code, inserting it when absent. Concurrent
// callers race on the (tenant, code) uniqueness; losers read back the winner.
func (s *chartService) GetOrCreateAccount(ctx context.Context, tenantID string, spec domain.AccountSpec, userID string) (*domain.Account, error) {
	account, _, err := s.getOrCreate(ctx, tenantID, spec, userID)
	return account, err
}

func (s *chartService) getOrCreate(ctx context.Context, tenantID string, spec domain.AccountSpec, userID string) (*domain.Account, bool, error) {
	if spec.Code == "" || spec.Name == "" {
		return nil, false, fmt.Errorf("%w: account code and name are required", apperrors.ErrValidation)
	}
	if !spec.AccountType.IsValid() {
		return nil, false, fmt.Errorf("%w: invalid account type '%s'", apperrors.ErrValidation, spec.AccountType)
	}

	existing, err := s.accountRepo.FindAccountByCode(ctx, tenantID, spec.Code)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, false, fmt.Errorf("failed to look up account %s: %w", spec.Code, err)
	}

	var parentID string
	if spec.ParentCode != "" {
		parent, err := s.parentAccount(ctx, tenantID, spec.ParentCode, userID)
		if err != nil {
			return nil, false, err
		}
		parentID = parent.AccountID
	}

	balance := decimal.Zero
	if spec.Balance != nil {
		balance = *spec.Balance
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		TenantID:        tenantID,
		Code:            spec.Code,
		Name:            spec.Name,
		AccountType:     spec.AccountType,
		AccountSubType:  spec.AccountSubType,
		ParentAccountID: parentID,
		Description:     spec.Description,
		IsActive:        true,
		Balance:         balance,
		AuditFields:     domain.NewAuditFields(userID, now),
	}

	created, err := s.accountRepo.InsertAccountIfAbsent(ctx, account)
	if err != nil {
		s.LogError(ctx, err, "Failed to insert account",
			slog.String("tenant_id", tenantID),
			slog.String("code", spec.Code))
		return nil, false, fmt.Errorf("failed to create account %s: %w", spec.Code, err)
	}
	if created {
		s.LogInfo(ctx, "Account created",
			slog.String("tenant_id", tenantID),
			slog.String("account_id", account.AccountID),
			slog.String("code", account.Code))
		return &account, true, nil
	}

	winner, err := s.accountRepo.FindAccountByCode(ctx, tenantID, spec.Code)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read back account %s: %w", spec.Code, err)
	}
	return winner, false, nil
}

// parentAccount resolves a parent code. Standard parents are created on demand;
// any other missing parent is an error.
func (s *chartService) parentAccount(ctx context.Context, tenantID, code, userID string) (*domain.Account, error) {
	parent, err := s.accountRepo.FindAccountByCode(ctx, tenantID, code)
	if err == nil {
		return parent, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up parent account %s: %w", code, err)
	}
	standard, ok := domain.LookupStandardAccount(code)
	if !ok {
		return nil, &apperrors.AccountNotFoundError{TenantID: tenantID, Code: code}
	}
	parent, _, err = s.getOrCreate(ctx, tenantID, standard, userID)
	return parent, err
}

// InitializeChartOfAccounts walks the standard chart in order, so every parent
// exists before its children.
func (s *chartService) InitializeChartOfAccounts(ctx context.Context, tenantID string, userID string) (int, error) {
	created := 0
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		created = 0
		for _, spec := range domain.StandardChart {
			_, isNew, err := s.getOrCreate(ctx, tenantID, spec, userID)
			if err != nil {
				return err
			}
			if isNew {
				created++
			}
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to initialize chart of accounts", slog.String("tenant_id", tenantID))
		return 0, err
	}

	s.LogInfo(ctx, "Chart of accounts initialized",
		slog.String("tenant_id", tenantID),
		slog.Int("created", created))
	return created, nil
}
