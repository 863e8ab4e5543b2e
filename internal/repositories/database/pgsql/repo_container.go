package pgsql

import (
	portsrepo "github.com/SscSPs/shop_ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	base := BaseRepository{Pool: dbPool}
	return portsrepo.RepositoryProvider{
		TxManager:    &TxManager{BaseRepository: base},
		AccountRepo:  &PgxAccountRepository{BaseRepository: base},
		LedgerRepo:   &PgxLedgerRepository{BaseRepository: base},
		CustomerRepo: &PgxCustomerRepository{BaseRepository: base},
		SupplierRepo: &PgxSupplierRepository{BaseRepository: base},
		OrderRepo:    &PgxOrderRepository{BaseRepository: base},
		InvoiceRepo:  &PgxPurchaseInvoiceRepository{BaseRepository: base},
		PaymentRepo:  &PgxPaymentRepository{BaseRepository: base},
		SettingsRepo: &PgxSettingsRepository{BaseRepository: base},
	}
}
