package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/shop_ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_backend/internal/dto"
	"github.com/SscSPs/shop_ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests for the chart of accounts.
type accountHandler struct {
	chartService portssvc.ChartSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(cs portssvc.ChartSvcFacade) *accountHandler {
	return &accountHandler{
		chartService: cs,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, chartService portssvc.ChartSvcFacade) {
	h := newAccountHandler(chartService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.POST("", h.getOrCreateAccount)
		accounts.POST("/initialize", h.initializeChart)
		accounts.GET("/:code", h.getAccountByCode)
	}
}

// listAccounts godoc
// @Summary List accounts
// @Description Lists every account of the tenant ordered by code
// @Tags accounts
// @Produce  json
// @Success 200 {array} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list accounts"
// @Security BearerAuth
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	_, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	accounts, err := h.chartService.ListAccounts(c.Request.Context(), tenantID)
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponses(accounts))
}

// getAccountByCode godoc
// @Summary Get an account by code
// @Tags accounts
// @Produce  json
// @Param   code path string true "Account code"
// @Success 200 {object} dto.AccountResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve account"
// @Security BearerAuth
// @Router /accounts/{code} [get]
func (h *accountHandler) getAccountByCode(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	_, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}
	code := c.Param("code")

	account, err := h.chartService.GetAccountByCode(c.Request.Context(), tenantID, code)
	if err != nil {
		respondError(c, logger.With(slog.String("code", code)), err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// getOrCreateAccount godoc
// @Summary Get or create an account
// @Description Returns the account with the given code, creating it when the code is unused
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.AccountSpecRequest true "Account details"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Parent account not found"
// @Failure 500 {object} map[string]string "Failed to create account"
// @Security BearerAuth
// @Router /accounts [post]
func (h *accountHandler) getOrCreateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AccountSpecRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for GetOrCreateAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	logger.Info("Received request to get or create account", slog.String("code", req.Code))
	account, err := h.chartService.GetOrCreateAccount(c.Request.Context(), tenantID, req.ToSpec(), userID)
	if err != nil {
		respondError(c, logger, err, "Failed to create account")
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// initializeChart godoc
// @Summary Initialize the standard chart of accounts
// @Description Creates every standard account the tenant does not have yet
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.InitializeChartResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to initialize chart of accounts"
// @Security BearerAuth
// @Router /accounts/initialize [post]
func (h *accountHandler) initializeChart(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, tenantID, ok := requestIdentity(c, logger)
	if !ok {
		return
	}

	created, err := h.chartService.InitializeChartOfAccounts(c.Request.Context(), tenantID, userID)
	if err != nil {
		respondError(c, logger, err, "Failed to initialize chart of accounts")
		return
	}

	logger.Info("Chart of accounts initialized", slog.Int("created", created))
	c.JSON(http.StatusOK, dto.InitializeChartResponse{Created: created})
}
