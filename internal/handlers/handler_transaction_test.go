package handlers_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/SscSPs/shop_ledger_backend/internal/apperrors"
	"github.com/SscSPs/shop_ledger_backend/internal/core/domain"
	portssvc "github.com/SscSPs/shop_ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger_backend/internal/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetTransactionByID(ctx context.Context, tenantID string, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, tenantID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) GetTransactions(ctx context.Context, tenantID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, tenantID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
func (m *MockLedgerService) CreateTransaction(ctx context.Context, tenantID string, req dto.CreateTransactionRequest, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}
func (m *MockLedgerService) ReverseTransaction(ctx context.Context, tenantID string, transactionID string, userID string) (*domain.Transaction, error) {
	args := m.Called(ctx, tenantID, transactionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

type TransactionHandlerTestSuite struct {
	suite.Suite
	router            *gin.Engine
	mockLedgerService *MockLedgerService
	token             string
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	suite.mockLedgerService = new(MockLedgerService)
	suite.router = newTestRouter(&portssvc.ServiceContainer{Ledger: suite.mockLedgerService})
	suite.token = generateTestToken(suite.T(), testUser, testTenant)
}

func (suite *TransactionHandlerTestSuite) TearDownTest() {
	suite.mockLedgerService.AssertExpectations(suite.T())
}

func sampleTransaction() *domain.Transaction {
	return &domain.Transaction{
		TransactionID:     "txn-1",
		TenantID:          testTenant,
		TransactionNumber: "TXN-20240105-0a1b2c3d",
		Date:              time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Description:       "Cash sale",
		Lines: []domain.TransactionLine{
			{LineID: "l-1", AccountID: "cash", DebitAmount: decimal.NewFromInt(500), CreditAmount: decimal.Zero},
			{LineID: "l-2", AccountID: "sales", DebitAmount: decimal.Zero, CreditAmount: decimal.NewFromInt(500)},
		},
	}
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_Created() {
	suite.mockLedgerService.On("CreateTransaction", mock.Anything, testTenant,
		mock.MatchedBy(func(req dto.CreateTransactionRequest) bool {
			return len(req.Lines) == 2 &&
				req.Lines[0].AccountCode == "1000" &&
				req.Lines[0].DebitAmount.Equal(decimal.NewFromInt(500))
		}),
		testUser,
	).Return(sampleTransaction(), nil).Once()

	w := doRequest(suite.router, http.MethodPost, "/api/v1/transactions", `{
		"date": "2024-01-05T00:00:00Z",
		"description": "Cash sale",
		"lines": [
			{"accountCode": "1000", "debitAmount": "500", "creditAmount": "0"},
			{"accountCode": "4000", "debitAmount": 0, "creditAmount": 500}
		]
	}`, suite.token)

	suite.Equal(http.StatusCreated, w.Code, w.Body.String())
	var body dto.TransactionResponse
	decodeBody(suite.T(), w, &body)
	suite.Equal("txn-1", body.TransactionID)
	suite.True(body.TotalAmount.Equal(decimal.NewFromInt(500)))
	suite.Len(body.Lines, 2)
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_BindingRejects() {
	testCases := []struct {
		name string
		body string
	}{
		{name: "negative debit", body: `{"date":"2024-01-05T00:00:00Z","description":"x","lines":[
			{"accountCode":"1000","debitAmount":"-5","creditAmount":"0"},
			{"accountCode":"4000","debitAmount":"0","creditAmount":"-5"}]}`},
		{name: "missing description", body: `{"date":"2024-01-05T00:00:00Z","lines":[
			{"accountCode":"1000","debitAmount":"5","creditAmount":"0"},
			{"accountCode":"4000","debitAmount":"0","creditAmount":"5"}]}`},
		{name: "malformed json", body: `{"lines": [`},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			w := doRequest(suite.router, http.MethodPost, "/api/v1/transactions", tc.body, suite.token)
			suite.Equal(http.StatusBadRequest, w.Code)
		})
	}
	suite.mockLedgerService.AssertNotCalled(suite.T(), "CreateTransaction")
}

func (suite *TransactionHandlerTestSuite) TestCreateTransaction_UnbalancedIsBadRequest() {
	suite.mockLedgerService.On("CreateTransaction", mock.Anything, testTenant, mock.Anything, testUser).
		Return(nil, &apperrors.UnbalancedTransactionError{
			Debits:    decimal.NewFromInt(500),
			Credits:   decimal.NewFromInt(400),
			LineCount: 2,
		}).Once()

	w := doRequest(suite.router, http.MethodPost, "/api/v1/transactions", `{
		"date": "2024-01-05T00:00:00Z",
		"description": "Off by one hundred",
		"lines": [
			{"accountCode": "1000", "debitAmount": "500", "creditAmount": "0"},
			{"accountCode": "4000", "debitAmount": "0", "creditAmount": "400"}
		]
	}`, suite.token)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "unbalanced")
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_BindsQuery() {
	opening := decimal.NewFromInt(100)
	next := "token-2"
	suite.mockLedgerService.On("GetTransactions", mock.Anything, testTenant,
		mock.MatchedBy(func(p dto.ListTransactionsParams) bool {
			return p.Limit == 10 &&
				p.AccountID == "cash" &&
				p.FromDate != nil && p.FromDate.Day() == 1 && p.FromDate.Month() == time.February &&
				p.ToDate == nil
		}),
	).Return(&dto.ListTransactionsResponse{
		Transactions:   dto.ToTransactionResponses([]domain.Transaction{*sampleTransaction()}),
		OpeningBalance: &opening,
		NextToken:      &next,
	}, nil).Once()

	w := doRequest(suite.router, http.MethodGet, "/api/v1/transactions?accountID=cash&fromDate=2024-02-01&limit=10", nil, suite.token)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var body dto.ListTransactionsResponse
	decodeBody(suite.T(), w, &body)
	suite.Len(body.Transactions, 1)
	suite.Require().NotNil(body.OpeningBalance)
	suite.True(body.OpeningBalance.Equal(opening))
	suite.Require().NotNil(body.NextToken)
	suite.Equal(next, *body.NextToken)
}

func (suite *TransactionHandlerTestSuite) TestListTransactions_InvalidQuery() {
	for _, query := range []string{"limit=500", "fromDate=yesterday"} {
		w := doRequest(suite.router, http.MethodGet, "/api/v1/transactions?"+query, nil, suite.token)
		suite.Equal(http.StatusBadRequest, w.Code, query)
	}
	suite.mockLedgerService.AssertNotCalled(suite.T(), "GetTransactions")
}

func (suite *TransactionHandlerTestSuite) TestGetTransaction_NotFound() {
	suite.mockLedgerService.On("GetTransactionByID", mock.Anything, testTenant, "missing").
		Return(nil, apperrors.ErrNotFound).Once()

	w := doRequest(suite.router, http.MethodGet, "/api/v1/transactions/missing", nil, suite.token)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestReverseTransaction_Created() {
	reversal := sampleTransaction()
	reversal.TransactionID = "txn-2"
	original := "txn-1"
	reversal.ReversalOfID = &original
	suite.mockLedgerService.On("ReverseTransaction", mock.Anything, testTenant, "txn-1", testUser).Return(reversal, nil).Once()

	w := doRequest(suite.router, http.MethodPost, "/api/v1/transactions/txn-1/reverse", nil, suite.token)

	suite.Equal(http.StatusCreated, w.Code)
	var body dto.TransactionResponse
	decodeBody(suite.T(), w, &body)
	suite.Require().NotNil(body.ReversalOfID)
	suite.Equal("txn-1", *body.ReversalOfID)
}

func TestTransactionHandler(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
