package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	"github.com/SscSPs/shop_ledger_backend/internal/core/pricing"
	"github.com/SscSPs/shop_ledger_backend/internal/core/services"
	"github.com/SscSPs/shop_ledger_backend/internal/dto"
	"github.com/SscSPs/shop_ledger_backend/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// PostingHandlerTestSuite drives the posting, balance and fee routes against
// the in-memory store.
type PostingHandlerTestSuite struct {
	suite.Suite
	router *gin.Engine
	store  *memory.Store
	token  string
}

func (suite *PostingHandlerTestSuite) SetupTest() {
	suite.store = memory.NewStore()
	container := services.NewServiceContainer(nil, memory.NewRepositoryProvider(suite.store))
	suite.router = newTestRouter(container)
	suite.token = generateTestToken(suite.T(), testUser, testTenant)

	suite.store.AddCustomer(domain.Customer{CustomerID: "cust-1", TenantID: testTenant, Name: "Ayesha"})
	suite.store.AddOrder(domain.Order{
		OrderID:     "ord-1",
		TenantID:    testTenant,
		CustomerID:  "cust-1",
		OrderNumber: "ORD-1",
		Status:      domain.OrderPending,
		City:        "Lahore",
		Items:       []domain.OrderItem{{ProductID: "p-1", ProductPrice: decimal.NewFromInt(500), Quantity: 2}},
		OrderDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	suite.store.AddLogisticsCompany(domain.LogisticsCompany{LogisticsCompanyID: "tcs", TenantID: testTenant, Name: "TCS"})

	w := suite.do(http.MethodPost, "/api/v1/accounts/initialize", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodPut, "/api/v1/fees/shipping/settings", map[string]interface{}{
		"cityCharges":   map[string]int{"Lahore": 200},
		"quantityRules": map[string]interface{}{"rules": []interface{}{}, "defaultQuantityCharge": 150},
	})
	suite.Require().Equal(http.StatusNoContent, w.Code, w.Body.String())
}

func (suite *PostingHandlerTestSuite) do(method, url string, body interface{}) *httptest.ResponseRecorder {
	return doRequest(suite.router, method, url, body, suite.token)
}

func (suite *PostingHandlerTestSuite) customerPending() string {
	w := suite.do(http.MethodGet, "/api/v1/balances/customers/cust-1", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var balance domain.CustomerBalance
	decodeBody(suite.T(), w, &balance)
	return balance.Pending.String()
}

func (suite *PostingHandlerTestSuite) TestConfirmOrder_ThenConflict() {
	w := suite.do(http.MethodPost, "/api/v1/postings/orders/ord-1/confirm", nil)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var txn dto.TransactionResponse
	decodeBody(suite.T(), w, &txn)
	suite.Equal("1350", txn.TotalAmount.String())
	suite.Equal("1350", suite.customerPending())

	w = suite.do(http.MethodPost, "/api/v1/postings/orders/ord-1/confirm", nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *PostingHandlerTestSuite) TestConfirmOrder_UnknownOrder() {
	w := suite.do(http.MethodPost, "/api/v1/postings/orders/nope/confirm", nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PostingHandlerTestSuite) TestCustomerPayment_RecordThenVerify() {
	suite.Require().Equal(http.StatusCreated, suite.do(http.MethodPost, "/api/v1/postings/orders/ord-1/confirm", nil).Code)

	w := suite.do(http.MethodPost, "/api/v1/postings/customer-payments", map[string]interface{}{
		"customerID":  "cust-1",
		"orderID":     "ord-1",
		"amount":      "500",
		"paymentDate": "2024-01-03T00:00:00Z",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var recorded dto.PaymentResponse
	decodeBody(suite.T(), w, &recorded)
	suite.False(recorded.Verified)
	suite.Equal("1350", suite.customerPending())

	w = suite.do(http.MethodPost, "/api/v1/postings/customer-payments/"+recorded.Payment.PaymentID+"/verify", nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var verified dto.PaymentResponse
	decodeBody(suite.T(), w, &verified)
	suite.True(verified.Verified)
	suite.Equal("850", suite.customerPending())

	w = suite.do(http.MethodPost, "/api/v1/postings/customer-payments/"+recorded.Payment.PaymentID+"/verify", nil)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *PostingHandlerTestSuite) TestCustomerPayment_NonPositiveAmountRejected() {
	for _, amount := range []string{"0", "-10"} {
		w := suite.do(http.MethodPost, "/api/v1/postings/customer-payments", map[string]interface{}{
			"customerID": "cust-1",
			"amount":     amount,
		})
		suite.Equal(http.StatusBadRequest, w.Code, amount)
	}
}

func (suite *PostingHandlerTestSuite) TestWithdrawal_InsufficientCashIsUnprocessable() {
	w := suite.do(http.MethodPost, "/api/v1/postings/withdrawals", map[string]interface{}{
		"amount":      "60",
		"description": "Owner draw",
	})
	suite.Equal(http.StatusUnprocessableEntity, w.Code, w.Body.String())
}

func (suite *PostingHandlerTestSuite) TestExpense_ThenSummaryShowsCash() {
	w := suite.do(http.MethodPost, "/api/v1/postings/opening-balances", map[string]interface{}{
		"partyType": "CUSTOMER",
		"partyID":   "cust-1",
		"amount":    "250",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, "/api/v1/postings/expenses", map[string]interface{}{
		"amount":      "40",
		"description": "Courier bags",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.do(http.MethodGet, "/api/v1/balances/summary", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var summary domain.BalanceSummary
	decodeBody(suite.T(), w, &summary)
	suite.Equal("250", summary.TotalReceivables.String())
	suite.Equal("-40", summary.CashPosition.String())
	suite.Equal(1, summary.CustomersProcessed)
}

func (suite *PostingHandlerTestSuite) TestOpeningBalance_InvalidPartyType() {
	w := suite.do(http.MethodPost, "/api/v1/postings/opening-balances", map[string]interface{}{
		"partyType": "EMPLOYEE",
		"partyID":   "cust-1",
		"amount":    "250",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *PostingHandlerTestSuite) TestFees_CODRulesAndQuotes() {
	w := suite.do(http.MethodPut, "/api/v1/fees/logistics-companies/tcs/cod-rules", map[string]json.RawMessage{
		"rules": json.RawMessage(`{"calculationType":"RANGE_BASED","ranges":[
			{"min":0,"max":5000,"type":"FIXED","charge":100},
			{"min":5000,"max":null,"type":"PERCENTAGE","charge":2}]}`),
	})
	suite.Require().Equal(http.StatusNoContent, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, "/api/v1/fees/cod/quote", map[string]interface{}{
		"logisticsCompanyID": "tcs",
		"amount":             "8000",
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var cod dto.CODQuoteResponse
	decodeBody(suite.T(), w, &cod)
	suite.Equal("160", cod.Fee.String())

	w = suite.do(http.MethodPost, "/api/v1/fees/shipping/quote", map[string]interface{}{
		"city":  " lahore ",
		"items": []map[string]interface{}{{"productID": "p-1", "quantity": 3}},
	})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var quote pricing.ShippingQuote
	decodeBody(suite.T(), w, &quote)
	suite.Equal("500", quote.Total.String())
}

func (suite *PostingHandlerTestSuite) TestFees_RejectedRulesAndUnknownCompany() {
	w := suite.do(http.MethodPut, "/api/v1/fees/logistics-companies/tcs/cod-rules", map[string]json.RawMessage{
		"rules": json.RawMessage(`{"calculationType":"RANGE_BASED","ranges":[
			{"min":0,"max":5000,"type":"FIXED","charge":100},
			{"min":4000,"max":null,"type":"FIXED","charge":200}]}`),
	})
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/fees/cod/quote", map[string]interface{}{
		"logisticsCompanyID": "nobody",
		"amount":             "100",
	})
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PostingHandlerTestSuite) TestTenantIsolation() {
	other := generateTestToken(suite.T(), testUser, "tenant-2")
	w := doRequest(suite.router, http.MethodGet, "/api/v1/balances/customers/cust-1", nil, other)
	suite.Equal(http.StatusNotFound, w.Code)

	w = doRequest(suite.router, http.MethodPost, "/api/v1/postings/orders/ord-1/confirm", nil, other)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *PostingHandlerTestSuite) postCashIncome(date, amount string) {
	w := suite.do(http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"date":        date,
		"description": "Counter sale",
		"lines": []map[string]string{
			{"accountCode": domain.CodeCash, "debitAmount": amount, "creditAmount": "0"},
			{"accountCode": domain.CodeOtherIncome, "debitAmount": "0", "creditAmount": amount},
		},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (suite *PostingHandlerTestSuite) listTransactions(query string) dto.ListTransactionsResponse {
	w := suite.do(http.MethodGet, "/api/v1/transactions?"+query, nil)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var body dto.ListTransactionsResponse
	decodeBody(suite.T(), w, &body)
	return body
}

func (suite *PostingHandlerTestSuite) TestListTransactions_ToDateCoversWholeDay() {
	suite.postCashIncome("2024-06-14T23:59:59Z", "10")
	suite.postCashIncome("2024-06-15T10:00:00Z", "20")
	suite.postCashIncome("2024-06-15T23:59:59Z", "30")
	suite.postCashIncome("2024-06-16T00:00:00Z", "40")

	body := suite.listTransactions("fromDate=2024-06-15&toDate=2024-06-15")
	suite.Require().Len(body.Transactions, 2)
	for _, txn := range body.Transactions {
		suite.Equal(15, txn.Date.UTC().Day())
	}

	suite.Len(suite.listTransactions("toDate=2024-06-14").Transactions, 1)
	suite.Len(suite.listTransactions("fromDate=2024-06-16&toDate=2024-06-16").Transactions, 1)
}

func (suite *PostingHandlerTestSuite) TestCreateTransaction_SingleLineIsUnbalanced() {
	w := suite.do(http.MethodPost, "/api/v1/transactions", map[string]interface{}{
		"date":        "2024-06-15T10:00:00Z",
		"description": "Half an entry",
		"lines": []map[string]string{
			{"accountCode": domain.CodeCash, "debitAmount": "5", "creditAmount": "0"},
		},
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "at least two lines are required, got 1")
}

func TestPostingHandler(t *testing.T) {
	suite.Run(t, new(PostingHandlerTestSuite))
}
