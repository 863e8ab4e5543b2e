package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/shop_ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// balanceHandler serves derived customer and supplier balances.
type balanceHandler struct {
	balanceService portssvc.BalanceSvc
}

func newBalanceHandler(bs portssvc.BalanceSvc) *balanceHandler {
	return &balanceHandler{balanceService: bs}
}

// registerBalanceRoutes registers the balance reconciliation routes.
func registerBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvc) {
	h := newBalanceHandler(balanceService)

	balances := rg.Group("/balances")
	{
		balances.GET("/summary", h.getSummary)
		balances.GET("/customers", h.listCustomerBalances)
		balances.GET("/customers/:customerID", h.getCustomerBalance)
		balances.GET("/suppliers", h.listSupplierBalances)
		balances.GET("/suppliers/:supplierID", h.getSupplierBalance)
	}
}

// getCustomerBalance godoc
// @Summary Get a customer's balance
// @Tags balances
// @Produce  json
// @Param   customerID path string true "Customer ID"
// @Success 200 {object} domain.CustomerBalance
// @Failure 404 {object} map[string]string "Customer not found"
// @Security BearerAuth
// @Router /balances/customers/{customerID} [get]
func (h *balanceHandler) getCustomerBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	_, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}
	customerID := c.Param("customerID")

	balance, err := h.balanceService.CalculateCustomerBalance(c.Request.Context(), tenantID, customerID)
	if err != nil {
		respondError(c, logger.With(slog.String("customer_id", customerID)), err, "Failed to calculate customer balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

// getSupplierBalance godoc
// @Summary Get a supplier's balance
// @Tags balances
// @Produce  json
// @Param   supplierID path string true "Supplier ID"
// @Success 200 {object} domain.SupplierBalance
// @Failure 404 {object} map[string]string "Supplier not found"
// @Security BearerAuth
// @Router /balances/suppliers/{supplierID} [get]
func (h *balanceHandler) getSupplierBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	_, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}
	supplierID := c.Param("supplierID")

	balance, err := h.balanceService.CalculateSupplierBalance(c.Request.Context(), tenantID, supplierID)
	if err != nil {
		respondError(c, logger.With(slog.String("supplier_id", supplierID)), err, "Failed to calculate supplier balance")
		return
	}
	c.JSON(http.StatusOK, balance)
}

func (h *balanceHandler) listCustomerBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	_, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	balances, err := h.balanceService.GetAllCustomerBalances(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate customer balances")
		return
	}
	c.JSON(http.StatusOK, balances)
}

func (h *balanceHandler) listSupplierBalances(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	_, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	balances, err := h.balanceService.GetAllSupplierBalances(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate supplier balances")
		return
	}
	c.JSON(http.StatusOK, balances)
}

// getSummary godoc
// @Summary Get the tenant's balance summary
// @Description Totals receivables, payables, advances and the cash position
// @Tags balances
// @Produce  json
// @Success 200 {object} domain.BalanceSummary
// @Security BearerAuth
// @Router /balances/summary [get]
func (h *balanceHandler) getSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	_, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	summary, err := h.balanceService.GetBalanceSummary(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate balance summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}
