package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager    TransactionManager
	AccountRepo  AccountRepositoryFacade
	LedgerRepo   LedgerRepositoryFacade
	CustomerRepo CustomerRepositoryFacade
	SupplierRepo SupplierRepositoryFacade
	OrderRepo    OrderRepositoryFacade
	InvoiceRepo  PurchaseInvoiceRepositoryFacade
	PaymentRepo  PaymentRepositoryFacade
	SettingsRepo SettingsRepositoryFacade
}
