package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/shop_ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_backend/internal/dto"
	"github.com/SscSPs/shop_ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// feeHandler quotes shipping and COD fees and stores the rules behind them.
type feeHandler struct {
	feeService portssvc.FeeSvcFacade
}

func newFeeHandler(fs portssvc.FeeSvcFacade) *feeHandler {
	return &feeHandler{feeService: fs}
}

// registerFeeRoutes registers the fee quote and fee settings routes.
func registerFeeRoutes(rg *gin.RouterGroup, feeService portssvc.FeeSvcFacade) {
	h := newFeeHandler(feeService)

	fees := rg.Group("/fees")
	{
		fees.POST("/shipping/quote", h.quoteShipping)
		fees.PUT("/shipping/settings", h.updateShippingSettings)
		fees.PUT("/products/:productID/shipping", h.updateProductShipping)
		fees.POST("/cod/quote", h.quoteCOD)
		fees.PUT("/logistics-companies/:companyID/cod-rules", h.updateCODRules)
	}
}

// quoteShipping godoc
// @Summary Quote shipping charges
// @Description Returns the city charge plus each item's quantity surcharge
// @Tags fees
// @Accept  json
// @Produce  json
// @Param   quote body dto.ShippingQuoteRequest true "City and items"
// @Success 200 {object} pricing.ShippingQuote
// @Failure 400 {object} map[string]string "Invalid input format"
// @Security BearerAuth
// @Router /fees/shipping/quote [post]
func (h *feeHandler) quoteShipping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ShippingQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ShippingQuote", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	_, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	quote, err := h.feeService.CalculateShippingCharges(c.Request.Context(), tenantID, req.City, req.ToShippingItems())
	if err != nil {
		respondError(c, logger, err, "Failed to calculate shipping charges")
		return
	}
	c.JSON(http.StatusOK, quote)
}

// quoteCOD godoc
// @Summary Quote a COD fee
// @Tags fees
// @Accept  json
// @Produce  json
// @Param   quote body dto.CODQuoteRequest true "Logistics company and amount"
// @Success 200 {object} dto.CODQuoteResponse
// @Failure 400 {object} map[string]string "Invalid input format"
// @Failure 404 {object} map[string]string "Logistics company not found"
// @Security BearerAuth
// @Router /fees/cod/quote [post]
func (h *feeHandler) quoteCOD(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CODQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CODQuote", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	_, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	fee, err := h.feeService.CalculateCODFee(c.Request.Context(), tenantID, req.LogisticsCompanyID, req.Amount)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate COD fee")
		return
	}
	c.JSON(http.StatusOK, dto.CODQuoteResponse{
		LogisticsCompanyID: req.LogisticsCompanyID,
		Amount:             req.Amount,
		Fee:                fee,
	})
}

// updateShippingSettings godoc
// @Summary Replace the tenant's shipping rules
// @Tags fees
// @Accept  json
// @Param   settings body dto.UpdateShippingSettingsRequest true "City charges and quantity rules"
// @Success 204
// @Failure 400 {object} map[string]string "Invalid rule set"
// @Security BearerAuth
// @Router /fees/shipping/settings [put]
func (h *feeHandler) updateShippingSettings(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateShippingSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateShippingSettings", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	_, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	if err := h.feeService.UpdateShippingSettings(c.Request.Context(), tenantID, req); err != nil {
		respondError(c, logger, err, "Failed to update shipping settings")
		return
	}
	c.Status(http.StatusNoContent)
}

// updateProductShipping godoc
// @Summary Replace a product's shipping override
// @Tags fees
// @Accept  json
// @Param   productID path string true "Product ID"
// @Param   settings body dto.UpdateProductShippingRequest true "Override"
// @Success 204
// @Failure 400 {object} map[string]string "Invalid rule set"
// @Failure 404 {object} map[string]string "Product not found"
// @Security BearerAuth
// @Router /fees/products/{productID}/shipping [put]
func (h *feeHandler) updateProductShipping(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateProductShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateProductShipping", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	_, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}
	productID := c.Param("productID")

	if err := h.feeService.UpdateProductShipping(c.Request.Context(), tenantID, productID, req); err != nil {
		respondError(c, logger.With(slog.String("product_id", productID)), err, "Failed to update product shipping")
		return
	}
	c.Status(http.StatusNoContent)
}

// updateCODRules godoc
// @Summary Replace a logistics company's COD rules
// @Tags fees
// @Accept  json
// @Param   companyID path string true "Logistics company ID"
// @Param   rules body dto.UpdateCODRulesRequest true "COD rules"
// @Success 204
// @Failure 400 {object} map[string]string "Invalid rule set"
// @Failure 404 {object} map[string]string "Logistics company not found"
// @Security BearerAuth
// @Router /fees/logistics-companies/{companyID}/cod-rules [put]
func (h *feeHandler) updateCODRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.UpdateCODRulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for UpdateCODRules", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	_, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}
	companyID := c.Param("companyID")

	if err := h.feeService.UpdateLogisticsCODRules(c.Request.Context(), tenantID, companyID, req); err != nil {
		respondError(c, logger.With(slog.String("logistics_company_id", companyID)), err, "Failed to update COD rules")
		return
	}
	c.Status(http.StatusNoContent)
}
