package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/SscSPs/shop_ledger_backend/internal/core/pricing"
	portsrepo "github.com/SscSPs/shop_ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// postingService turns business events into ledger transactions. Every
// operation runs in one unit of work; the ledger joins it.
type postingService struct {
	BaseService
	chartSvc     portssvc.ChartSvcFacade
	ledgerSvc    portssvc.LedgerSvcFacade
	feeSvc       portssvc.FeeCalculatorSvc
	txManager    portsrepo.TransactionManager
	accountRepo  portsrepo.AccountRepositoryFacade
	customerRepo portsrepo.CustomerRepositoryFacade
	supplierRepo portsrepo.SupplierRepositoryFacade
	orderRepo    portsrepo.OrderRepositoryFacade
	invoiceRepo  portsrepo.PurchaseInvoiceRepositoryFacade
	paymentRepo  portsrepo.PaymentRepositoryFacade
}

// NewPostingService creates a new posting service.
func NewPostingService(
	repos portsrepo.RepositoryProvider,
	chartSvc portssvc.ChartSvcFacade,
	ledgerSvc portssvc.LedgerSvcFacade,
	feeSvc portssvc.FeeCalculatorSvc,
) portssvc.PostingSvcFacade {
	return &postingService{
		chartSvc:     chartSvc,
		ledgerSvc:    ledgerSvc,
		feeSvc:       feeSvc,
		txManager:    repos.TxManager,
		accountRepo:  repos.AccountRepo,
		customerRepo: repos.CustomerRepo,
		supplierRepo: repos.SupplierRepo,
		orderRepo:    repos.OrderRepo,
		invoiceRepo:  repos.InvoiceRepo,
		paymentRepo:  repos.PaymentRepo,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

func debitCode(code string, amount decimal.Decimal, desc string) dto.CreateTransactionLineRequest {
	return dto.CreateTransactionLineRequest{AccountCode: code, DebitAmount: amount, Description: desc}
}

func creditCode(code string, amount decimal.Decimal, desc string) dto.CreateTransactionLineRequest {
	return dto.CreateTransactionLineRequest{AccountCode: code, CreditAmount: amount, Description: desc}
}

func debitAccount(accountID string, amount decimal.Decimal, desc string) dto.CreateTransactionLineRequest {
	return dto.CreateTransactionLineRequest{AccountID: accountID, DebitAmount: amount, Description: desc}
}

func creditAccount(accountID string, amount decimal.Decimal, desc string) dto.CreateTransactionLineRequest {
	return dto.CreateTransactionLineRequest{AccountID: accountID, CreditAmount: amount, Description: desc}
}

func postingDate(d time.Time) time.Time {
	if d.IsZero() {
		return time.Now().UTC()
	}
	return d
}

func requirePositive(amount decimal.Decimal, what string) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: %s must be greater than zero", apperrors.ErrValidation, what)
	}
	return nil
}

func notFound(err error, what, id string) error {
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: %s %s", apperrors.ErrNotFound, what, id)
	}
	return fmt.Errorf("failed to load %s %s: %w", what, id, err)
}

// cashAccount returns the explicitly chosen asset account, or the standard Cash account.
func (s *postingService) cashAccount(ctx context.Context, tenantID string, accountID *string, userID string) (*domain.Account, error) {
	if accountID != nil && *accountID != "" {
		account, err := s.chartSvc.GetAccountByID(ctx, tenantID, *accountID)
		if err != nil {
			return nil, err
		}
		if account.AccountType != domain.Asset {
			return nil, fmt.Errorf("%w: account %s is not an asset account", apperrors.ErrValidation, account.Code)
		}
		return account, nil
	}
	spec, _ := domain.LookupStandardAccount(domain.CodeCash)
	return s.chartSvc.GetOrCreateAccount(ctx, tenantID, spec, userID)
}

func (s *postingService) newPayment(tenantID string, paymentType domain.PaymentType, amount decimal.Decimal, date time.Time, userID string) domain.Payment {
	now := time.Now().UTC()
	return domain.Payment{
		PaymentID:   uuid.NewString(),
		TenantID:    tenantID,
		Type:        paymentType,
		Amount:      amount,
		PaymentDate: postingDate(date),
		AuditFields: domain.NewAuditFields(userID, now),
	}
}

func (s *postingService) ConfirmOrder(ctx context.Context, tenantID, orderID, userID string) (*domain.Transaction, error) {
	var txn *domain.Transaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.FindOrderByID(ctx, tenantID, orderID)
		if err != nil {
			return notFound(err, "order", orderID)
		}
		if order.Status != domain.OrderPending {
			return fmt.Errorf("%w: order %s is %s", apperrors.ErrConflict, order.OrderNumber, order.Status)
		}

		shipping := order.ShippingCharges
		if shipping.IsZero() && order.City != "" {
			items := make([]pricing.ShippingItem, len(order.Items))
			for i, item := range order.Items {
				items[i] = pricing.ShippingItem{ProductID: item.ProductID, Quantity: item.Quantity}
			}
			quote, err := s.feeSvc.CalculateShippingCharges(ctx, tenantID, order.City, items)
			if err != nil {
				return err
			}
			shipping = quote.Total
		}

		itemsTotal := order.ItemsTotal()
		total := itemsTotal.Add(shipping)
		if err := requirePositive(total, "order total"); err != nil {
			return err
		}

		desc := "Sale " + order.OrderNumber
		lines := []dto.CreateTransactionLineRequest{debitCode(domain.CodeAccountsReceivable, total, desc)}
		if itemsTotal.IsPositive() {
			lines = append(lines, creditCode(domain.CodeSalesRevenue, itemsTotal, desc))
		}
		if shipping.IsPositive() {
			lines = append(lines, creditCode(domain.CodeShippingIncome, shipping, "Shipping "+order.OrderNumber))
		}

		if err := s.orderRepo.TransitionOrderStatus(ctx, tenantID, orderID, domain.OrderPending, domain.OrderConfirmed, shipping); err != nil {
			return fmt.Errorf("failed to confirm order: %w", err)
		}
		txn, err = s.ledgerSvc.CreateTransaction(ctx, tenantID, dto.CreateTransactionRequest{
			Date:        postingDate(order.OrderDate),
			Description: desc,
			OrderID:     &order.OrderID,
			Lines:       lines,
		}, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to confirm order", slog.String("order_id", orderID))
		return nil, err
	}
	return txn, nil
}

func (s *postingService) RecordCustomerPayment(ctx context.Context, tenantID string, req dto.CustomerPaymentRequest, userID string) (*domain.Payment, error) {
	if err := requirePositive(req.Amount, "payment amount"); err != nil {
		return nil, err
	}
	if _, err := s.customerRepo.FindCustomerByID(ctx, tenantID, req.CustomerID); err != nil {
		return nil, notFound(err, "customer", req.CustomerID)
	}
	if req.OrderID != nil {
		order, err := s.orderRepo.FindOrderByID(ctx, tenantID, *req.OrderID)
		if err != nil {
			return nil, notFound(err, "order", *req.OrderID)
		}
		if order.CustomerID != req.CustomerID {
			return nil, fmt.Errorf("%w: order %s does not belong to customer %s", apperrors.ErrValidation, order.OrderNumber, req.CustomerID)
		}
	}

	payment := s.newPayment(tenantID, domain.CustomerPayment, req.Amount, req.PaymentDate, userID)
	payment.CustomerID = &req.CustomerID
	payment.OrderID = req.OrderID
	payment.AccountID = req.AccountID
	payment.Notes = req.Notes

	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		s.LogError(ctx, err, "Failed to save customer payment", slog.String("customer_id", req.CustomerID))
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	s.LogInfo(ctx, "Customer payment recorded, awaiting verification", slog.String("payment_id", payment.PaymentID))
	return &payment, nil
}

func (s *postingService) VerifyPayment(ctx context.Context, tenantID, paymentID, userID string) (*domain.Payment, error) {
	var verified *domain.Payment
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		payment, err := s.paymentRepo.FindPaymentByID(ctx, tenantID, paymentID)
		if err != nil {
			return notFound(err, "payment", paymentID)
		}
		if payment.IsVerified() {
			return fmt.Errorf("%w: payment %s is already verified", apperrors.ErrConflict, paymentID)
		}

		cash, err := s.cashAccount(ctx, tenantID, payment.AccountID, userID)
		if err != nil {
			return err
		}

		desc := fmt.Sprintf("%s %s", payment.Type, payment.PaymentID)
		req := dto.CreateTransactionRequest{
			Date:        payment.PaymentDate,
			Description: desc,
			OrderID:     payment.OrderID,
		}
		payAmount, refundAmount := decimal.Zero, decimal.Zero

		switch payment.Type {
		case domain.CustomerPayment:
			if payment.OrderID == nil {
				// An order-less customer payment is held as an advance.
				req.Lines = []dto.CreateTransactionLineRequest{
					debitAccount(cash.AccountID, payment.Amount, desc),
					creditCode(domain.CodeCustomerAdvances, payment.Amount, desc),
				}
				if payment.CustomerID == nil {
					return fmt.Errorf("%w: payment %s has no customer", apperrors.ErrValidation, paymentID)
				}
				if err := s.customerRepo.AdjustCustomerAdvance(ctx, tenantID, *payment.CustomerID, payment.Amount); err != nil {
					return fmt.Errorf("failed to update customer advance: %w", err)
				}
			} else {
				req.Lines = []dto.CreateTransactionLineRequest{
					debitAccount(cash.AccountID, payment.Amount, desc),
					creditCode(domain.CodeAccountsReceivable, payment.Amount, desc),
				}
				payAmount = payment.Amount
			}
		case domain.SupplierPayment:
			req.PurchaseInvoiceID = payment.PurchaseInvoiceID
			req.Lines = []dto.CreateTransactionLineRequest{
				debitCode(domain.CodeAccountsPayable, payment.Amount, desc),
				creditAccount(cash.AccountID, payment.Amount, desc),
			}
		case domain.Refund:
			req.Lines = []dto.CreateTransactionLineRequest{
				debitCode(domain.CodeSalesReturns, payment.Amount, desc),
				creditAccount(cash.AccountID, payment.Amount, desc),
			}
			refundAmount = payment.Amount
		default:
			return fmt.Errorf("%w: unknown payment type '%s'", apperrors.ErrValidation, payment.Type)
		}

		txn, err := s.ledgerSvc.CreateTransaction(ctx, tenantID, req, userID)
		if err != nil {
			return err
		}
		if payment.OrderID != nil && (payAmount.IsPositive() || refundAmount.IsPositive()) {
			if err := s.orderRepo.AddOrderAmounts(ctx, tenantID, *payment.OrderID, payAmount, refundAmount); err != nil {
				return fmt.Errorf("failed to update order amounts: %w", err)
			}
		}
		now := time.Now().UTC()
		if err := s.paymentRepo.AttachPaymentTransaction(ctx, tenantID, paymentID, txn.TransactionID, userID, now); err != nil {
			return err
		}

		payment.TransactionID = &txn.TransactionID
		payment.LastUpdatedAt = now
		payment.LastUpdatedBy = userID
		verified = payment
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to verify payment", slog.String("payment_id", paymentID))
		return nil, err
	}
	s.LogInfo(ctx, "Payment verified",
		slog.String("payment_id", paymentID),
		slog.String("transaction_id", *verified.TransactionID))
	return verified, nil
}

func (s *postingService) RecordCustomerAdvance(ctx context.Context, tenantID string, req dto.CustomerPaymentRequest, userID string) (*domain.Payment, error) {
	if err := requirePositive(req.Amount, "advance amount"); err != nil {
		return nil, err
	}
	if req.OrderID != nil {
		return nil, fmt.Errorf("%w: an advance must not reference an order", apperrors.ErrValidation)
	}

	payment := s.newPayment(tenantID, domain.CustomerPayment, req.Amount, req.PaymentDate, userID)
	payment.CustomerID = &req.CustomerID
	payment.Notes = req.Notes

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.customerRepo.FindCustomerByID(ctx, tenantID, req.CustomerID); err != nil {
			return notFound(err, "customer", req.CustomerID)
		}
		cash, err := s.cashAccount(ctx, tenantID, req.AccountID, userID)
		if err != nil {
			return err
		}
		payment.AccountID = &cash.AccountID

		desc := "Customer advance " + req.CustomerID
		txn, err := s.ledgerSvc.CreateTransaction(ctx, tenantID, dto.CreateTransactionRequest{
			Date:        payment.PaymentDate,
			Description: desc,
			Lines: []dto.CreateTransactionLineRequest{
				debitAccount(cash.AccountID, req.Amount, desc),
				creditCode(domain.CodeCustomerAdvances, req.Amount, desc),
			},
		}, userID)
		if err != nil {
			return err
		}
		payment.TransactionID = &txn.TransactionID

		if err := s.customerRepo.AdjustCustomerAdvance(ctx, tenantID, req.CustomerID, req.Amount); err != nil {
			return fmt.Errorf("failed to update customer advance: %w", err)
		}
		return s.paymentRepo.SavePayment(ctx, payment)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record customer advance", slog.String("customer_id", req.CustomerID))
		return nil, err
	}
	return &payment, nil
}

func (s *postingService) ApplyCustomerAdvance(ctx context.Context, tenantID string, req dto.ApplyAdvanceRequest, userID string) (*domain.Payment, error) {
	if err := requirePositive(req.Amount, "amount"); err != nil {
		return nil, err
	}

	payment := s.newPayment(tenantID, domain.CustomerPayment, req.Amount, req.Date, userID)
	payment.CustomerID = &req.CustomerID
	payment.OrderID = &req.OrderID
	payment.Notes = "Applied from customer advance"

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		customer, err := s.customerRepo.FindCustomerByID(ctx, tenantID, req.CustomerID)
		if err != nil {
			return notFound(err, "customer", req.CustomerID)
		}
		if customer.AdvanceBalance.LessThan(req.Amount) {
			return &apperrors.InsufficientBalanceError{Available: customer.AdvanceBalance, Requested: req.Amount}
		}
		order, err := s.orderRepo.FindOrderByID(ctx, tenantID, req.OrderID)
		if err != nil {
			return notFound(err, "order", req.OrderID)
		}
		if order.CustomerID != customer.CustomerID {
			return fmt.Errorf("%w: order %s does not belong to customer %s", apperrors.ErrValidation, order.OrderNumber, customer.CustomerID)
		}

		// Fails when a concurrent application already used the advance.
		if err := s.customerRepo.AdjustCustomerAdvance(ctx, tenantID, customer.CustomerID, req.Amount.Neg()); err != nil {
			if errors.Is(err, apperrors.ErrInsufficientBalance) {
				return s.insufficientAdvance(ctx, tenantID, customer.CustomerID, req.Amount)
			}
			return fmt.Errorf("failed to update customer advance: %w", err)
		}

		desc := "Advance applied to " + order.OrderNumber
		txn, err := s.ledgerSvc.CreateTransaction(ctx, tenantID, dto.CreateTransactionRequest{
			Date:        payment.PaymentDate,
			Description: desc,
			OrderID:     &order.OrderID,
			Lines: []dto.CreateTransactionLineRequest{
				debitCode(domain.CodeCustomerAdvances, req.Amount, desc),
				creditCode(domain.CodeAccountsReceivable, req.Amount, desc),
			},
		}, userID)
		if err != nil {
			return err
		}
		payment.TransactionID = &txn.TransactionID

		if err := s.orderRepo.AddOrderAmounts(ctx, tenantID, order.OrderID, req.Amount, decimal.Zero); err != nil {
			return fmt.Errorf("failed to update order amounts: %w", err)
		}
		return s.paymentRepo.SavePayment(ctx, payment)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to apply customer advance",
			slog.String("customer_id", req.CustomerID),
			slog.String("order_id", req.OrderID))
		return nil, err
	}
	return &payment, nil
}

// insufficientAdvance reports the advance as it stands after a concurrent
// application won the race.
func (s *postingService) insufficientAdvance(ctx context.Context, tenantID, customerID string, requested decimal.Decimal) error {
	current, err := s.customerRepo.FindCustomerByID(ctx, tenantID, customerID)
	if err != nil {
		return notFound(err, "customer", customerID)
	}
	return &apperrors.InsufficientBalanceError{Available: current.AdvanceBalance, Requested: requested}
}

// ProcessOrderReturn always stores a REFUND row so returns and cash refunds
// are counted from the same source. Without a refund account the return is a
// credit against the receivable.
func (s *postingService) ProcessOrderReturn(ctx context.Context, tenantID string, req dto.OrderReturnRequest, userID string) (*domain.Transaction, error) {
	if err := requirePositive(req.Amount, "return amount"); err != nil {
		return nil, err
	}

	var txn *domain.Transaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.FindOrderByID(ctx, tenantID, req.OrderID)
		if err != nil {
			return notFound(err, "order", req.OrderID)
		}
		if order.Status != domain.OrderConfirmed {
			return fmt.Errorf("%w: only confirmed orders can be returned, order %s is %s", apperrors.ErrConflict, order.OrderNumber, order.Status)
		}
		if req.Amount.GreaterThan(order.Total()) {
			return fmt.Errorf("%w: return amount %s exceeds order total %s", apperrors.ErrValidation, req.Amount, order.Total())
		}

		desc := "Return on " + order.OrderNumber
		creditLine := creditCode(domain.CodeAccountsReceivable, req.Amount, desc)
		var refundAccountID *string
		if req.RefundAccountID != nil {
			cash, err := s.cashAccount(ctx, tenantID, req.RefundAccountID, userID)
			if err != nil {
				return err
			}
			creditLine = creditAccount(cash.AccountID, req.Amount, desc)
			refundAccountID = &cash.AccountID
		}

		txn, err = s.ledgerSvc.CreateTransaction(ctx, tenantID, dto.CreateTransactionRequest{
			Date:          postingDate(req.Date),
			Description:   desc,
			OrderID:       &order.OrderID,
			OrderReturnID: req.OrderReturnID,
			Lines: []dto.CreateTransactionLineRequest{
				debitCode(domain.CodeSalesReturns, req.Amount, desc),
				creditLine,
			},
		}, userID)
		if err != nil {
			return err
		}

		refund := s.newPayment(tenantID, domain.Refund, req.Amount, req.Date, userID)
		refund.CustomerID = &order.CustomerID
		refund.OrderID = &order.OrderID
		refund.AccountID = refundAccountID
		refund.TransactionID = &txn.TransactionID
		refund.Notes = req.Notes
		if err := s.paymentRepo.SavePayment(ctx, refund); err != nil {
			return err
		}
		return s.orderRepo.AddOrderAmounts(ctx, tenantID, order.OrderID, decimal.Zero, req.Amount)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to process order return", slog.String("order_id", req.OrderID))
		return nil, err
	}
	return txn, nil
}

func (s *postingService) RecordCODSettlement(ctx context.Context, tenantID string, req dto.CODSettlementRequest, userID string) (*domain.Transaction, error) {
	if err := requirePositive(req.CODAmount, "COD amount"); err != nil {
		return nil, err
	}

	var txn *domain.Transaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		order, err := s.orderRepo.FindOrderByID(ctx, tenantID, req.OrderID)
		if err != nil {
			return notFound(err, "order", req.OrderID)
		}
		companyID := req.LogisticsCompanyID
		if companyID == nil {
			companyID = order.LogisticsCompanyID
		}
		if companyID == nil {
			return fmt.Errorf("%w: order %s has no logistics company", apperrors.ErrValidation, order.OrderNumber)
		}

		fee, err := s.feeSvc.CalculateCODFee(ctx, tenantID, *companyID, req.CODAmount)
		if err != nil {
			return err
		}
		if fee.GreaterThanOrEqual(req.CODAmount) {
			return fmt.Errorf("%w: COD fee %s is not less than the collected amount %s", apperrors.ErrValidation, fee, req.CODAmount)
		}
		cash, err := s.cashAccount(ctx, tenantID, req.AccountID, userID)
		if err != nil {
			return err
		}

		desc := "COD settlement " + order.OrderNumber
		lines := []dto.CreateTransactionLineRequest{debitAccount(cash.AccountID, req.CODAmount.Sub(fee), desc)}
		if fee.IsPositive() {
			lines = append(lines, debitCode(domain.CodeCODFeeExpense, fee, "COD fee "+order.OrderNumber))
		}
		lines = append(lines, creditCode(domain.CodeAccountsReceivable, req.CODAmount, desc))

		txn, err = s.ledgerSvc.CreateTransaction(ctx, tenantID, dto.CreateTransactionRequest{
			Date:        postingDate(req.Date),
			Description: desc,
			OrderID:     &order.OrderID,
			Lines:       lines,
		}, userID)
		if err != nil {
			return err
		}

		payment := s.newPayment(tenantID, domain.CustomerPayment, req.CODAmount, req.Date, userID)
		payment.CustomerID = &order.CustomerID
		payment.OrderID = &order.OrderID
		payment.AccountID = &cash.AccountID
		payment.TransactionID = &txn.TransactionID
		payment.Notes = "Cash on delivery via " + *companyID
		if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
			return err
		}
		return s.orderRepo.AddOrderAmounts(ctx, tenantID, order.OrderID, req.CODAmount, decimal.Zero)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record COD settlement", slog.String("order_id", req.OrderID))
		return nil, err
	}
	return txn, nil
}

func (s *postingService) PostPurchaseInvoice(ctx context.Context, tenantID, invoiceID, userID string) (*domain.Transaction, error) {
	var txn *domain.Transaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.invoiceRepo.FindPurchaseInvoiceByID(ctx, tenantID, invoiceID)
		if err != nil {
			return notFound(err, "purchase invoice", invoiceID)
		}
		if inv.Status != domain.InvoiceDraft {
			return fmt.Errorf("%w: purchase invoice %s is %s", apperrors.ErrConflict, inv.InvoiceNumber, inv.Status)
		}
		if err := requirePositive(inv.TotalAmount, "invoice total"); err != nil {
			return err
		}

		desc := "Purchase " + inv.InvoiceNumber
		txn, err = s.ledgerSvc.CreateTransaction(ctx, tenantID, dto.CreateTransactionRequest{
			Date:              postingDate(inv.InvoiceDate),
			Description:       desc,
			PurchaseInvoiceID: &inv.PurchaseInvoiceID,
			Lines: []dto.CreateTransactionLineRequest{
				debitCode(domain.CodeInventory, inv.TotalAmount, desc),
				creditCode(domain.CodeAccountsPayable, inv.TotalAmount, desc),
			},
		}, userID)
		if err != nil {
			return err
		}
		return s.invoiceRepo.MarkInvoicePosted(ctx, tenantID, inv.PurchaseInvoiceID, txn.TransactionID)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post purchase invoice", slog.String("purchase_invoice_id", invoiceID))
		return nil, err
	}
	return txn, nil
}

func (s *postingService) RecordSupplierPayment(ctx context.Context, tenantID string, req dto.SupplierPaymentRequest, userID string) (*domain.Payment, error) {
	if err := requirePositive(req.Amount, "payment amount"); err != nil {
		return nil, err
	}

	payment := s.newPayment(tenantID, domain.SupplierPayment, req.Amount, req.PaymentDate, userID)
	payment.SupplierID = &req.SupplierID
	payment.PurchaseInvoiceID = req.PurchaseInvoiceID
	payment.Notes = req.Notes

	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.supplierRepo.FindSupplierByID(ctx, tenantID, req.SupplierID); err != nil {
			return notFound(err, "supplier", req.SupplierID)
		}
		if req.PurchaseInvoiceID != nil {
			inv, err := s.invoiceRepo.FindPurchaseInvoiceByID(ctx, tenantID, *req.PurchaseInvoiceID)
			if err != nil {
				return notFound(err, "purchase invoice", *req.PurchaseInvoiceID)
			}
			if inv.SupplierID != req.SupplierID {
				return fmt.Errorf("%w: invoice %s does not belong to supplier %s", apperrors.ErrValidation, inv.InvoiceNumber, req.SupplierID)
			}
		}
		cash, err := s.cashAccount(ctx, tenantID, req.AccountID, userID)
		if err != nil {
			return err
		}
		payment.AccountID = &cash.AccountID

		desc := "Supplier payment " + req.SupplierID
		txn, err := s.ledgerSvc.CreateTransaction(ctx, tenantID, dto.CreateTransactionRequest{
			Date:              payment.PaymentDate,
			Description:       desc,
			PurchaseInvoiceID: req.PurchaseInvoiceID,
			Lines: []dto.CreateTransactionLineRequest{
				debitCode(domain.CodeAccountsPayable, req.Amount, desc),
				creditAccount(cash.AccountID, req.Amount, desc),
			},
		}, userID)
		if err != nil {
			return err
		}
		payment.TransactionID = &txn.TransactionID
		return s.paymentRepo.SavePayment(ctx, payment)
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record supplier payment", slog.String("supplier_id", req.SupplierID))
		return nil, err
	}
	return &payment, nil
}

func (s *postingService) RecordExpense(ctx context.Context, tenantID string, req dto.ExpenseRequest, userID string) (*domain.Transaction, error) {
	if err := requirePositive(req.Amount, "expense amount"); err != nil {
		return nil, err
	}
	code := req.ExpenseCode
	if code == "" {
		code = domain.CodeGeneralExpense
	}

	var txn *domain.Transaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		expense, err := s.chartSvc.GetAccountByCode(ctx, tenantID, code)
		if err != nil {
			spec, ok := domain.LookupStandardAccount(code)
			var missing *apperrors.AccountNotFoundError
			if !ok || !errors.As(err, &missing) {
				return err
			}
			if expense, err = s.chartSvc.GetOrCreateAccount(ctx, tenantID, spec, userID); err != nil {
				return err
			}
		}
		if expense.AccountType != domain.Expense {
			return fmt.Errorf("%w: account %s is not an expense account", apperrors.ErrValidation, code)
		}
		cash, err := s.cashAccount(ctx, tenantID, req.AccountID, userID)
		if err != nil {
			return err
		}

		txn, err = s.ledgerSvc.CreateTransaction(ctx, tenantID, dto.CreateTransactionRequest{
			Date:        postingDate(req.Date),
			Description: req.Description,
			Lines: []dto.CreateTransactionLineRequest{
				debitAccount(expense.AccountID, req.Amount, req.Description),
				creditAccount(cash.AccountID, req.Amount, req.Description),
			},
		}, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record expense", slog.String("expense_code", code))
		return nil, err
	}
	return txn, nil
}

func (s *postingService) RecordWithdrawal(ctx context.Context, tenantID string, req dto.WithdrawalRequest, userID string) (*domain.Transaction, error) {
	if err := requirePositive(req.Amount, "withdrawal amount"); err != nil {
		return nil, err
	}
	desc := req.Description
	if desc == "" {
		desc = "Owner withdrawal"
	}

	var txn *domain.Transaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		cash, err := s.cashAccount(ctx, tenantID, req.AccountID, userID)
		if err != nil {
			return err
		}
		locked, err := s.accountRepo.FindAccountsByIDsForUpdate(ctx, tenantID, []string{cash.AccountID})
		if err != nil {
			return fmt.Errorf("failed to lock cash account: %w", err)
		}
		if available := locked[cash.AccountID].Balance; available.LessThan(req.Amount) {
			return &apperrors.InsufficientBalanceError{Available: available, Requested: req.Amount}
		}

		txn, err = s.ledgerSvc.CreateTransaction(ctx, tenantID, dto.CreateTransactionRequest{
			Date:        postingDate(req.Date),
			Description: desc,
			Lines: []dto.CreateTransactionLineRequest{
				debitCode(domain.CodeOwnerDrawings, req.Amount, desc),
				creditAccount(cash.AccountID, req.Amount, desc),
			},
		}, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record withdrawal", slog.String("tenant_id", tenantID))
		return nil, err
	}
	return txn, nil
}

// PostOpeningBalance books a party's pre-ledger balance once. Positive amounts
// are receivables or payables, negative amounts advances.
func (s *postingService) PostOpeningBalance(ctx context.Context, tenantID string, req dto.OpeningBalanceRequest, userID string) (*domain.Transaction, error) {
	if req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: opening balance must not be zero", apperrors.ErrValidation)
	}
	amount := req.Amount.Abs()

	var txn *domain.Transaction
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var (
			desc  string
			lines []dto.CreateTransactionLineRequest
		)
		switch req.PartyType {
		case dto.PartyCustomer:
			customer, err := s.customerRepo.FindCustomerByID(ctx, tenantID, req.PartyID)
			if err != nil {
				return notFound(err, "customer", req.PartyID)
			}
			if !customer.Balance.IsZero() {
				return fmt.Errorf("%w: customer %s already has an opening balance", apperrors.ErrConflict, customer.Name)
			}
			desc = "Opening balance for customer " + customer.Name
			if req.Amount.IsPositive() {
				lines = []dto.CreateTransactionLineRequest{
					debitCode(domain.CodeAccountsReceivable, amount, desc),
					creditCode(domain.CodeOpeningBalanceEquity, amount, desc),
				}
			} else {
				lines = []dto.CreateTransactionLineRequest{
					debitCode(domain.CodeOpeningBalanceEquity, amount, desc),
					creditCode(domain.CodeCustomerAdvances, amount, desc),
				}
			}
			if err := s.customerRepo.SetCustomerOpeningBalance(ctx, tenantID, req.PartyID, req.Amount); err != nil {
				return err
			}
		case dto.PartySupplier:
			supplier, err := s.supplierRepo.FindSupplierByID(ctx, tenantID, req.PartyID)
			if err != nil {
				return notFound(err, "supplier", req.PartyID)
			}
			if !supplier.Balance.IsZero() {
				return fmt.Errorf("%w: supplier %s already has an opening balance", apperrors.ErrConflict, supplier.Name)
			}
			desc = "Opening balance for supplier " + supplier.Name
			if req.Amount.IsPositive() {
				lines = []dto.CreateTransactionLineRequest{
					debitCode(domain.CodeOpeningBalanceEquity, amount, desc),
					creditCode(domain.CodeAccountsPayable, amount, desc),
				}
			} else {
				lines = []dto.CreateTransactionLineRequest{
					debitCode(domain.CodeSupplierAdvances, amount, desc),
					creditCode(domain.CodeOpeningBalanceEquity, amount, desc),
				}
			}
			if err := s.supplierRepo.SetSupplierOpeningBalance(ctx, tenantID, req.PartyID, req.Amount); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: unknown party type '%s'", apperrors.ErrValidation, req.PartyType)
		}

		var err error
		txn, err = s.ledgerSvc.CreateTransaction(ctx, tenantID, dto.CreateTransactionRequest{
			Date:        postingDate(req.Date),
			Description: desc,
			Lines:       lines,
		}, userID)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post opening balance",
			slog.String("party_type", string(req.PartyType)),
			slog.String("party_id", req.PartyID))
		return nil, err
	}
	return txn, nil
}
