package services

import (
	portsrepo "github.com/SscSPs/shop_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Chart = NewChartService(repos.AccountRepo, repos.TxManager)

	var ledgerOpts []LedgerOption
	var feeOpts []FeeOption
	if cfg != nil {
		ledgerOpts = append(ledgerOpts, WithBalanceTolerance(cfg.BalanceEpsilon))
		feeOpts = append(feeOpts, WithDefaultCityCharge(cfg.DefaultCityCharge))
	}

	// The ledger resolves account codes through the chart service
	container.Ledger = NewLedgerService(container.Chart, repos.AccountRepo, repos.LedgerRepo, repos.TxManager, ledgerOpts...)
	container.Fee = NewFeeService(repos.SettingsRepo, feeOpts...)
	container.Balance = NewBalanceService(repos)
	container.Posting = NewPostingService(repos, container.Chart, container.Ledger, container.Fee)

	return container
}
