package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/shop_ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_backend/internal/dto"
	"github.com/SscSPs/shop_ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// postingHandler turns business events into ledger postings.
type postingHandler struct {
	postingService portssvc.PostingSvcFacade
}

func newPostingHandler(ps portssvc.PostingSvcFacade) *postingHandler {
	return &postingHandler{postingService: ps}
}

// registerPostingRoutes registers one route per business event.
func registerPostingRoutes(rg *gin.RouterGroup, postingService portssvc.PostingSvcFacade) {
	h := newPostingHandler(postingService)

	postings := rg.Group("/postings")
	{
		postings.POST("/orders/:orderID/confirm", h.confirmOrder)
		postings.POST("/order-returns", h.processOrderReturn)
		postings.POST("/cod-settlements", h.recordCODSettlement)

		postings.POST("/customer-payments", h.recordCustomerPayment)
		postings.POST("/customer-payments/:paymentID/verify", h.verifyPayment)
		postings.POST("/customer-advances", h.recordCustomerAdvance)
		postings.POST("/customer-advances/apply", h.applyCustomerAdvance)

		postings.POST("/purchase-invoices/:invoiceID/post", h.postPurchaseInvoice)
		postings.POST("/supplier-payments", h.recordSupplierPayment)

		postings.POST("/expenses", h.recordExpense)
		postings.POST("/withdrawals", h.recordWithdrawal)
		postings.POST("/opening-balances", h.postOpeningBalance)
	}
}

// confirmOrder godoc
// @Summary Confirm an order
// @Tags postings
// @Produce  json
// @Param   orderID path string true "Order ID"
// @Success 201 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Order not found"
// @Failure 409 {object} map[string]string "Already posted"
// @Failure 500 {object} map[string]string "Failed to confirm order"
// @Security BearerAuth
// @Router /postings/orders/{orderID}/confirm [post]
func (h *postingHandler) confirmOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}
	orderID := c.Param("orderID")
	logger = logger.With(slog.String("order_id", orderID))

	result, err := h.postingService.ConfirmOrder(c.Request.Context(), tenantID, orderID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to confirm order")
		return
	}

	logger.Info("Order confirmed", slog.String("transaction_id", result.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(result))
}

// processOrderReturn godoc
// @Summary Process an order return
// @Tags postings
// @Accept  json
// @Produce  json
// @Param   request body dto.OrderReturnRequest true "Process an order return"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Referenced record not found"
// @Failure 409 {object} map[string]string "Record state does not allow the posting"
// @Failure 500 {object} map[string]string "Failed to process order return"
// @Security BearerAuth
// @Router /postings/order-returns [post]
func (h *postingHandler) processOrderReturn(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OrderReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OrderReturn", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	result, err := h.postingService.ProcessOrderReturn(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to process order return")
		return
	}

	logger.Info("Order return posted", slog.String("transaction_id", result.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(result))
}

// recordCODSettlement godoc
// @Summary Record a COD settlement
// @Tags postings
// @Accept  json
// @Produce  json
// @Param   request body dto.CODSettlementRequest true "Record a COD settlement"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Referenced record not found"
// @Failure 409 {object} map[string]string "Record state does not allow the posting"
// @Failure 500 {object} map[string]string "Failed to record COD settlement"
// @Security BearerAuth
// @Router /postings/cod-settlements [post]
func (h *postingHandler) recordCODSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CODSettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CODSettlement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	result, err := h.postingService.RecordCODSettlement(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record COD settlement")
		return
	}

	logger.Info("COD settlement posted", slog.String("transaction_id", result.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(result))
}

// recordCustomerPayment godoc
// @Summary Record a customer payment
// @Tags postings
// @Accept  json
// @Produce  json
// @Param   request body dto.CustomerPaymentRequest true "Record a customer payment"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Referenced record not found"
// @Failure 409 {object} map[string]string "Record state does not allow the posting"
// @Failure 500 {object} map[string]string "Failed to record customer payment"
// @Security BearerAuth
// @Router /postings/customer-payments [post]
func (h *postingHandler) recordCustomerPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CustomerPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CustomerPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	result, err := h.postingService.RecordCustomerPayment(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record customer payment")
		return
	}

	logger.Info("Customer payment recorded", slog.String("payment_id", result.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(result))
}

// verifyPayment godoc
// @Summary Verify a customer payment
// @Tags postings
// @Produce  json
// @Param   paymentID path string true "Payment ID"
// @Success 200 {object} dto.PaymentResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Payment not found"
// @Failure 409 {object} map[string]string "Already posted"
// @Failure 500 {object} map[string]string "Failed to verify payment"
// @Security BearerAuth
// @Router /postings/customer-payments/{paymentID}/verify [post]
func (h *postingHandler) verifyPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}
	paymentID := c.Param("paymentID")
	logger = logger.With(slog.String("payment_id", paymentID))

	result, err := h.postingService.VerifyPayment(c.Request.Context(), tenantID, paymentID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to verify payment")
		return
	}

	logger.Info("Payment verified", slog.String("payment_id", result.PaymentID))
	c.JSON(http.StatusOK, dto.ToPaymentResponse(result))
}

func (h *postingHandler) recordCustomerAdvance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CustomerPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CustomerPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	result, err := h.postingService.RecordCustomerAdvance(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record customer advance")
		return
	}

	logger.Info("Customer advance recorded", slog.String("payment_id", result.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(result))
}

// applyCustomerAdvance godoc
// @Summary Apply a customer advance to an order
// @Tags postings
// @Accept  json
// @Produce  json
// @Param   request body dto.ApplyAdvanceRequest true "Apply a customer advance to an order"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Referenced record not found"
// @Failure 409 {object} map[string]string "Record state does not allow the posting"
// @Failure 500 {object} map[string]string "Failed to apply customer advance"
// @Security BearerAuth
// @Router /postings/customer-advances/apply [post]
func (h *postingHandler) applyCustomerAdvance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ApplyAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ApplyAdvance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	result, err := h.postingService.ApplyCustomerAdvance(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to apply customer advance")
		return
	}

	logger.Info("Customer advance applied", slog.String("payment_id", result.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(result))
}

// postPurchaseInvoice godoc
// @Summary Post a purchase invoice
// @Tags postings
// @Produce  json
// @Param   invoiceID path string true "Purchase invoice ID"
// @Success 201 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Purchase invoice not found"
// @Failure 409 {object} map[string]string "Already posted"
// @Failure 500 {object} map[string]string "Failed to post purchase invoice"
// @Security BearerAuth
// @Router /postings/purchase-invoices/{invoiceID}/post [post]
func (h *postingHandler) postPurchaseInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}
	invoiceID := c.Param("invoiceID")
	logger = logger.With(slog.String("purchase_invoice_id", invoiceID))

	result, err := h.postingService.PostPurchaseInvoice(c.Request.Context(), tenantID, invoiceID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to post purchase invoice")
		return
	}

	logger.Info("Purchase invoice posted", slog.String("transaction_id", result.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(result))
}

// recordSupplierPayment godoc
// @Summary Record a supplier payment
// @Tags postings
// @Accept  json
// @Produce  json
// @Param   request body dto.SupplierPaymentRequest true "Record a supplier payment"
// @Success 201 {object} dto.PaymentResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Referenced record not found"
// @Failure 409 {object} map[string]string "Record state does not allow the posting"
// @Failure 500 {object} map[string]string "Failed to record supplier payment"
// @Security BearerAuth
// @Router /postings/supplier-payments [post]
func (h *postingHandler) recordSupplierPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SupplierPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SupplierPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	result, err := h.postingService.RecordSupplierPayment(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record supplier payment")
		return
	}

	logger.Info("Supplier payment posted", slog.String("payment_id", result.PaymentID))
	c.JSON(http.StatusCreated, dto.ToPaymentResponse(result))
}

// recordExpense godoc
// @Summary Record an expense
// @Tags postings
// @Accept  json
// @Produce  json
// @Param   request body dto.ExpenseRequest true "Record an expense"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Referenced record not found"
// @Failure 409 {object} map[string]string "Record state does not allow the posting"
// @Failure 500 {object} map[string]string "Failed to record expense"
// @Security BearerAuth
// @Router /postings/expenses [post]
func (h *postingHandler) recordExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Expense", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	result, err := h.postingService.RecordExpense(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record expense")
		return
	}

	logger.Info("Expense posted", slog.String("transaction_id", result.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(result))
}

func (h *postingHandler) recordWithdrawal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.WithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Withdrawal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	result, err := h.postingService.RecordWithdrawal(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to record withdrawal")
		return
	}

	logger.Info("Withdrawal posted", slog.String("transaction_id", result.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(result))
}

// postOpeningBalance godoc
// @Summary Post a party's opening balance
// @Tags postings
// @Accept  json
// @Produce  json
// @Param   request body dto.OpeningBalanceRequest true "Post a party's opening balance"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Referenced record not found"
// @Failure 409 {object} map[string]string "Record state does not allow the posting"
// @Failure 500 {object} map[string]string "Failed to post opening balance"
// @Security BearerAuth
// @Router /postings/opening-balances [post]
func (h *postingHandler) postOpeningBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OpeningBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for OpeningBalance", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}
	logger.Info("Received opening balance", slog.String("party_type", string(req.PartyType)), slog.String("party_id", req.PartyID))

	result, err := h.postingService.PostOpeningBalance(c.Request.Context(), tenantID, req, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to post opening balance")
		return
	}

	logger.Info("Opening balance posted", slog.String("transaction_id", result.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(result))
}
