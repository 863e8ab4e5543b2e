package domain

// Well-known account codes used by postings.
const (
	CodeAssets               = "1"
	CodeCash                 = "1000"
	CodeBank                 = "1010"
	CodeAccountsReceivable   = "1200"
	CodeInventory            = "1300"
	CodeSupplierAdvances     = "1400"
	CodeLiabilities          = "2"
	CodeAccountsPayable      = "2000"
	CodeCustomerAdvances     = "2100"
	CodeEquity               = "3"
	CodeOpeningBalanceEquity = "3000"
	CodeOwnerCapital         = "3100"
	CodeOwnerDrawings        = "3200"
	CodeIncome               = "4"
	CodeSalesRevenue         = "4000"
	CodeShippingIncome       = "4100"
	CodeSalesReturns         = "4200"
	CodeOtherIncome          = "4300"
	CodeExpenses             = "5"
	CodeCostOfGoodsSold      = "5000"
	CodeShippingExpense      = "5100"
	CodeCODFeeExpense        = "5200"
	CodeGeneralExpense       = "5300"
)

// StandardChart is the account set seeded for every tenant. Parents precede children.
var StandardChart = []AccountSpec{
	{Code: CodeAssets, Name: "Assets", AccountType: Asset},
	{Code: CodeCash, Name: "Cash", AccountType: Asset, AccountSubType: SubTypeCash, ParentCode: CodeAssets},
	{Code: CodeBank, Name: "Bank", AccountType: Asset, AccountSubType: SubTypeBank, ParentCode: CodeAssets},
	{Code: CodeAccountsReceivable, Name: "Accounts Receivable", AccountType: Asset, AccountSubType: SubTypeReceivable, ParentCode: CodeAssets},
	{Code: CodeInventory, Name: "Inventory", AccountType: Asset, AccountSubType: SubTypeInventory, ParentCode: CodeAssets},
	{Code: CodeSupplierAdvances, Name: "Supplier Advances", AccountType: Asset, AccountSubType: SubTypeAdvance, ParentCode: CodeAssets},

	{Code: CodeLiabilities, Name: "Liabilities", AccountType: Liability},
	{Code: CodeAccountsPayable, Name: "Accounts Payable", AccountType: Liability, AccountSubType: SubTypePayable, ParentCode: CodeLiabilities},
	{Code: CodeCustomerAdvances, Name: "Customer Advances", AccountType: Liability, AccountSubType: SubTypeAdvance, ParentCode: CodeLiabilities},

	{Code: CodeEquity, Name: "Equity", AccountType: Equity},
	{Code: CodeOpeningBalanceEquity, Name: "Opening Balance Equity", AccountType: Equity, ParentCode: CodeEquity},
	{Code: CodeOwnerCapital, Name: "Owner Capital", AccountType: Equity, ParentCode: CodeEquity},
	{Code: CodeOwnerDrawings, Name: "Owner Drawings", AccountType: Equity, ParentCode: CodeEquity},

	{Code: CodeIncome, Name: "Income", AccountType: Income},
	{Code: CodeSalesRevenue, Name: "Sales Revenue", AccountType: Income, ParentCode: CodeIncome},
	{Code: CodeShippingIncome, Name: "Shipping Income", AccountType: Income, ParentCode: CodeIncome},
	{Code: CodeSalesReturns, Name: "Sales Returns", AccountType: Income, ParentCode: CodeIncome, Description: "Contra revenue"},
	{Code: CodeOtherIncome, Name: "Other Income", AccountType: Income, ParentCode: CodeIncome},

	{Code: CodeExpenses, Name: "Expenses", AccountType: Expense},
	{Code: CodeCostOfGoodsSold, Name: "Cost of Goods Sold", AccountType: Expense, ParentCode: CodeExpenses},
	{Code: CodeShippingExpense, Name: "Shipping Expense", AccountType: Expense, ParentCode: CodeExpenses},
	{Code: CodeCODFeeExpense, Name: "COD Fee Expense", AccountType: Expense, ParentCode: CodeExpenses},
	{Code: CodeGeneralExpense, Name: "General Expense", AccountType: Expense, ParentCode: CodeExpenses},
}

// LookupStandardAccount returns the seed spec for code, if code belongs to the standard chart.
func LookupStandardAccount(code string) (AccountSpec, bool) {
	for _, spec := range StandardChart {
		if spec.Code == code {
			return spec, true
		}
	}
	return AccountSpec{}, false
}
