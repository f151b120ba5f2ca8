package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ferrarijessie/j.money.api/internal/middleware"
	"github.com/ferrarijessie/j.money.api/internal/models"
	"github.com/ferrarijessie/j.money.api/internal/service"
	"github.com/ferrarijessie/j.money.api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ExpenseHandler exposes expense types and expenses.
type ExpenseHandler struct {
	Service *service.ExpenseService
}

func NewExpenseHandler(svc *service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{Service: svc}
}

// ---------- request/response shapes ----------

type expenseTypeCreateReq struct {
	Name      string          `json:"name" binding:"required,max=80"`
	Category  string          `json:"category" binding:"required"`
	Recurrent bool            `json:"recurrent"`
	BaseValue decimal.Decimal `json:"baseValue"`
	EndDate   string          `json:"endDate"`
}

type expenseTypeUpdateReq struct {
	Name      *string          `json:"name"`
	Category  *string          `json:"category"`
	Recurrent *bool            `json:"recurrent"`
	BaseValue *decimal.Decimal `json:"baseValue"`
	EndDate   *string          `json:"endDate"`
}

type expenseTypeResp struct {
	ExpenseTypeID uint            `json:"expenseTypeId"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Recurrent     bool            `json:"recurrent"`
	BaseValue     decimal.Decimal `json:"baseValue"`
	EndDate       *string         `json:"endDate"`
}

type expenseCreateReq struct {
	TypeID uint            `json:"typeId" binding:"required"`
	Value  decimal.Decimal `json:"value"`
	Month  int             `json:"month" binding:"required,min=1,max=12"`
	Year   int             `json:"year" binding:"required"`
	Paid   bool            `json:"paid"`
}

type expenseUpdateReq struct {
	Value *decimal.Decimal `json:"value"`
	Paid  *bool            `json:"paid"`
}

type expenseResp struct {
	ExpenseID uint            `json:"expenseId"`
	TypeID    uint            `json:"typeId"`
	TypeName  string          `json:"typeName"`
	Category  string          `json:"category"`
	Value     decimal.Decimal `json:"value"`
	Month     int             `json:"month"`
	Year      int             `json:"year"`
	Paid      bool            `json:"paid"`
}

func toExpenseTypeResp(t *models.ExpenseType) expenseTypeResp {
	return expenseTypeResp{
		ExpenseTypeID: t.ID,
		Name:          t.Name,
		Category:      string(t.Category),
		Recurrent:     t.Recurrent,
		BaseValue:     t.BaseValue,
		EndDate:       formatDate(t.EndDate),
	}
}

func toExpenseResp(e *models.Expense) expenseResp {
	return expenseResp{
		ExpenseID: e.ID,
		TypeID:    e.TypeID,
		TypeName:  e.Type.Name,
		Category:  string(e.Type.Category),
		Value:     e.Value,
		Month:     e.Month,
		Year:      e.Year,
		Paid:      e.Paid,
	}
}

func (h *ExpenseHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExpenseTypeNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Expense Type not found")
	case errors.Is(err, service.ErrExpenseNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Expense not found")
	case errors.Is(err, service.ErrExpenseExists):
		util.Error(c, http.StatusConflict, util.CodeConflict, "Expense already exists for this period")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}

// ---------- expense types ----------

func (h *ExpenseHandler) ListTypes(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var (
		types []models.ExpenseType
		err   error
	)
	if categoryStr := c.Query("category"); categoryStr != "" {
		category := models.ExpenseCategory(categoryStr)
		if !category.Valid() {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unknown category")
			return
		}
		types, err = h.Service.TypesByCategory(user.ID, category)
	} else {
		types, err = h.Service.Types(user.ID)
	}
	if err != nil {
		h.mapError(c, err)
		return
	}

	items := make([]expenseTypeResp, 0, len(types))
	for i := range types {
		items = append(items, toExpenseTypeResp(&types[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *ExpenseHandler) GetType(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	t, err := h.Service.TypeByID(user.ID, id)
	if err != nil {
		h.mapError(c, err)
		return
	}
	util.Success(c, util.Response{"expenseType": toExpenseTypeResp(&t)})
}

func (h *ExpenseHandler) CreateType(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req expenseTypeCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	category := models.ExpenseCategory(req.Category)
	if !category.Valid() {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unknown category")
		return
	}
	if err := util.ValidateAmount(req.BaseValue); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "endDate must be YYYY-MM-DD")
		return
	}

	t := models.ExpenseType{
		UserID:    user.ID,
		Name:      req.Name,
		Category:  category,
		Recurrent: req.Recurrent,
		BaseValue: req.BaseValue,
		EndDate:   endDate,
	}
	if err := h.Service.CreateType(&t); err != nil {
		h.mapError(c, err)
		return
	}
	util.Created(c, util.Response{"expenseType": toExpenseTypeResp(&t)})
}

func (h *ExpenseHandler) UpdateType(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var req expenseTypeUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	patch := service.ExpenseTypePatch{
		Name:      req.Name,
		Recurrent: req.Recurrent,
		BaseValue: req.BaseValue,
	}
	if req.Category != nil {
		category := models.ExpenseCategory(*req.Category)
		if !category.Valid() {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unknown category")
			return
		}
		patch.Category = &category
	}
	if req.BaseValue != nil {
		if err := util.ValidateAmount(*req.BaseValue); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
	}
	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "endDate must be YYYY-MM-DD")
			return
		}
		patch.EndDate = endDate
	}

	t, err := h.Service.UpdateType(user.ID, id, patch, time.Now())
	if err != nil {
		h.mapError(c, err)
		return
	}
	util.Success(c, util.Response{"expenseType": toExpenseTypeResp(&t)})
}

func (h *ExpenseHandler) DeleteType(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	if err := h.Service.DeleteType(user.ID, id); err != nil {
		h.mapError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "expense type deleted"})
}

// ---------- expenses ----------

// ListExpenses serves three shapes of GET /api/expenses:
//   - ?year=&month=[&category=]: the recurrence-engine period list
//   - ?category=: existing expenses of one category
//   - bare: every expense of the caller
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	yearStr, monthStr := c.Query("year"), c.Query("month")
	categoryStr := c.Query("category")

	var category models.ExpenseCategory
	if categoryStr != "" && categoryStr != "all" {
		category = models.ExpenseCategory(categoryStr)
		if !category.Valid() {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "unknown category")
			return
		}
	}

	if yearStr != "" || monthStr != "" {
		year, _ := strconv.Atoi(yearStr)
		month, _ := strconv.Atoi(monthStr)
		if err := util.ValidatePeriod(year, month); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}

		rows, err := h.Service.ListForPeriod(user.ID, year, month, category)
		if err != nil {
			h.mapError(c, err)
			return
		}
		items := make([]expenseResp, 0, len(rows))
		for _, row := range rows {
			items = append(items, expenseResp{
				ExpenseID: row.Entry.ID,
				TypeID:    row.Type.ID,
				TypeName:  row.Type.Name,
				Category:  string(row.Type.Category),
				Value:     row.Entry.Value,
				Month:     row.Entry.Month,
				Year:      row.Entry.Year,
				Paid:      row.Entry.Paid,
			})
		}
		util.Success(c, util.Response{"items": items})
		return
	}

	var (
		expenses []models.Expense
		err      error
	)
	if category != "" {
		expenses, err = h.Service.ExpensesByCategory(user.ID, category)
	} else {
		expenses, err = h.Service.Expenses(user.ID)
	}
	if err != nil {
		h.mapError(c, err)
		return
	}

	items := make([]expenseResp, 0, len(expenses))
	for i := range expenses {
		items = append(items, toExpenseResp(&expenses[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	e, err := h.Service.ExpenseByID(user.ID, id)
	if err != nil {
		h.mapError(c, err)
		return
	}
	util.Success(c, util.Response{"expense": toExpenseResp(&e)})
}

func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req expenseCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if err := util.ValidatePeriod(req.Year, req.Month); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}
	if err := util.ValidateAmount(req.Value); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	e := models.Expense{
		TypeID: req.TypeID,
		Value:  req.Value,
		Month:  req.Month,
		Year:   req.Year,
		Paid:   req.Paid,
	}
	if err := h.Service.CreateExpense(user.ID, &e); err != nil {
		h.mapError(c, err)
		return
	}

	created, err := h.Service.ExpenseByID(user.ID, e.ID)
	if err != nil {
		h.mapError(c, err)
		return
	}
	util.Created(c, util.Response{"expense": toExpenseResp(&created)})
}

func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	var req expenseUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if req.Value != nil {
		if err := util.ValidateAmount(*req.Value); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
	}

	e, err := h.Service.UpdateExpense(user.ID, id, service.ExpensePatch{
		Value: req.Value,
		Paid:  req.Paid,
	})
	if err != nil {
		h.mapError(c, err)
		return
	}
	util.Success(c, util.Response{"expense": toExpenseResp(&e)})
}

func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid id")
		return
	}

	if err := h.Service.DeleteExpense(user.ID, id); err != nil {
		h.mapError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "expense deleted"})
}
