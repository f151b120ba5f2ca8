package service

import (
	"github.com/shopspring/decimal"
)

// Summary is the month snapshot across the three ledgers. Unused deposits
// of the month count as spending: money moved into savings is money gone
// from the monthly budget.
type Summary struct {
	ExpensesTotal decimal.Decimal
	IncomesTotal  decimal.Decimal
	Balance       decimal.Decimal
}

// SummaryService aggregates the three core engines into one balance figure.
type SummaryService struct {
	expenses *ExpenseService
	incomes  *IncomeService
	savings  *SavingService
}

func NewSummaryService(expenses *ExpenseService, incomes *IncomeService, savings *SavingService) *SummaryService {
	return &SummaryService{
		expenses: expenses,
		incomes:  incomes,
		savings:  savings,
	}
}

// ForPeriod materializes the expense and income lists for the month (so
// recurrent types are counted even before first view) and folds in the
// month's savings deposits.
func (s *SummaryService) ForPeriod(userID uint, year, month int) (Summary, error) {
	expenseRows, err := s.expenses.ListForPeriod(userID, year, month, "")
	if err != nil {
		return Summary{}, err
	}
	incomeRows, err := s.incomes.ListForPeriod(userID, year, month)
	if err != nil {
		return Summary{}, err
	}
	savingsTotal, err := s.savings.UnusedTotalForMonth(userID, year, month)
	if err != nil {
		return Summary{}, err
	}

	expensesTotal := decimal.Zero
	for _, row := range expenseRows {
		expensesTotal = expensesTotal.Add(row.Entry.Value)
	}
	incomesTotal := decimal.Zero
	for _, row := range incomeRows {
		incomesTotal = incomesTotal.Add(row.Entry.Value)
	}

	expensesTotal = expensesTotal.Add(savingsTotal)
	return Summary{
		ExpensesTotal: expensesTotal,
		IncomesTotal:  incomesTotal,
		Balance:       incomesTotal.Sub(expensesTotal),
	}, nil
}
