package handler

import (
	"net/http"

	"github.com/ferrarijessie/j.money.api/internal/middleware"
	"github.com/ferrarijessie/j.money.api/internal/service"
	"github.com/ferrarijessie/j.money.api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SummaryHandler exposes the monthly balance snapshot.
type SummaryHandler struct {
	Service *service.SummaryService
}

func NewSummaryHandler(svc *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{Service: svc}
}

type summaryResp struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	ExpensesTotal decimal.Decimal `json:"expensesTotal"`
	IncomesTotal  decimal.Decimal `json:"incomesTotal"`
	Balance       decimal.Decimal `json:"balance"`
}

// GetSummary serves GET /api/summary/:year/:month.
func (h *SummaryHandler) GetSummary(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	year, month, ok := parsePeriod(c)
	if !ok {
		return
	}

	summary, err := h.Service.ForPeriod(user.ID, year, month)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
		return
	}
	util.Success(c, util.Response{"summary": summaryResp{
		Year:          year,
		Month:         month,
		ExpensesTotal: summary.ExpensesTotal,
		IncomesTotal:  summary.IncomesTotal,
		Balance:       summary.Balance,
	}})
}
