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

// IncomeHandler exposes income types and incomes.
type IncomeHandler struct {
	Service *service.IncomeService
}

func NewIncomeHandler(svc *service.IncomeService) *IncomeHandler {
	return &IncomeHandler{Service: svc}
}

type incomeTypeCreateReq struct {
	Name      string          `json:"name" binding:"required,max=80"`
	Recurrent bool            `json:"recurrent"`
	BaseValue decimal.Decimal `json:"baseValue"`
}

type incomeTypeUpdateReq struct {
	Name      *string          `json:"name"`
	Recurrent *bool            `json:"recurrent"`
	BaseValue *decimal.Decimal `json:"baseValue"`
}

type incomeTypeResp struct {
	IncomeTypeID uint            `json:"incomeTypeId"`
	Name         string          `json:"name"`
	Recurrent    bool            `json:"recurrent"`
	BaseValue    decimal.Decimal `json:"baseValue"`
}

type incomeCreateReq struct {
	TypeID   uint            `json:"typeId" binding:"required"`
	Value    decimal.Decimal `json:"value"`
	Month    int             `json:"month" binding:"required,min=1,max=12"`
	Year     int             `json:"year" binding:"required"`
	Received bool            `json:"received"`
}

type incomeUpdateReq struct {
	Value    *decimal.Decimal `json:"value"`
	Received *bool            `json:"received"`
}

type incomeResp struct {
	IncomeID uint            `json:"incomeId"`
	TypeID   uint            `json:"typeId"`
	TypeName string          `json:"typeName"`
	Value    decimal.Decimal `json:"value"`
	Month    int             `json:"month"`
	Year     int             `json:"year"`
	Received bool            `json:"received"`
}

func toIncomeTypeResp(t *models.IncomeType) incomeTypeResp {
	return incomeTypeResp{
		IncomeTypeID: t.ID,
		Name:         t.Name,
		Recurrent:    t.Recurrent,
		BaseValue:    t.BaseValue,
	}
}

func toIncomeResp(i *models.Income) incomeResp {
	return incomeResp{
		IncomeID: i.ID,
		TypeID:   i.TypeID,
		TypeName: i.Type.Name,
		Value:    i.Value,
		Month:    i.Month,
		Year:     i.Year,
		Received: i.Received,
	}
}

func (h *IncomeHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrIncomeTypeNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Income Type not found")
	case errors.Is(err, service.ErrIncomeNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Income not found")
	case errors.Is(err, service.ErrIncomeExists):
		util.Error(c, http.StatusConflict, util.CodeConflict, "Income already exists for this period")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}

// ---------- income types ----------

func (h *IncomeHandler) ListTypes(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	types, err := h.Service.Types(user.ID)
	if err != nil {
		h.mapError(c, err)
		return
	}
	items := make([]incomeTypeResp, 0, len(types))
	for i := range types {
		items = append(items, toIncomeTypeResp(&types[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *IncomeHandler) GetType(c *gin.Context) {
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
	util.Success(c, util.Response{"incomeType": toIncomeTypeResp(&t)})
}

func (h *IncomeHandler) CreateType(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req incomeTypeCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if err := util.ValidateAmount(req.BaseValue); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	t := models.IncomeType{
		UserID:    user.ID,
		Name:      req.Name,
		Recurrent: req.Recurrent,
		BaseValue: req.BaseValue,
	}
	if err := h.Service.CreateType(&t); err != nil {
		h.mapError(c, err)
		return
	}
	util.Created(c, util.Response{"incomeType": toIncomeTypeResp(&t)})
}

func (h *IncomeHandler) UpdateType(c *gin.Context) {
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

	var req incomeTypeUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if req.BaseValue != nil {
		if err := util.ValidateAmount(*req.BaseValue); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}
	}

	t, err := h.Service.UpdateType(user.ID, id, service.IncomeTypePatch{
		Name:      req.Name,
		Recurrent: req.Recurrent,
		BaseValue: req.BaseValue,
	}, time.Now())
	if err != nil {
		h.mapError(c, err)
		return
	}
	util.Success(c, util.Response{"incomeType": toIncomeTypeResp(&t)})
}

func (h *IncomeHandler) DeleteType(c *gin.Context) {
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
	util.Success(c, util.Response{"message": "income type deleted"})
}

// ---------- incomes ----------

// ListIncomes serves GET /api/incomes, with ?year=&month= switching to the
// recurrence-engine period list.
func (h *IncomeHandler) ListIncomes(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	yearStr, monthStr := c.Query("year"), c.Query("month")
	if yearStr != "" || monthStr != "" {
		year, _ := strconv.Atoi(yearStr)
		month, _ := strconv.Atoi(monthStr)
		if err := util.ValidatePeriod(year, month); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}

		rows, err := h.Service.ListForPeriod(user.ID, year, month)
		if err != nil {
			h.mapError(c, err)
			return
		}
		items := make([]incomeResp, 0, len(rows))
		for _, row := range rows {
			items = append(items, incomeResp{
				IncomeID: row.Entry.ID,
				TypeID:   row.Type.ID,
				TypeName: row.Type.Name,
				Value:    row.Entry.Value,
				Month:    row.Entry.Month,
				Year:     row.Entry.Year,
				Received: row.Entry.Received,
			})
		}
		util.Success(c, util.Response{"items": items})
		return
	}

	incomes, err := h.Service.Incomes(user.ID)
	if err != nil {
		h.mapError(c, err)
		return
	}
	items := make([]incomeResp, 0, len(incomes))
	for i := range incomes {
		items = append(items, toIncomeResp(&incomes[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *IncomeHandler) GetIncome(c *gin.Context) {
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

	i, err := h.Service.IncomeByID(user.ID, id)
	if err != nil {
		h.mapError(c, err)
		return
	}
	util.Success(c, util.Response{"income": toIncomeResp(&i)})
}

func (h *IncomeHandler) CreateIncome(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req incomeCreateReq
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

	i := models.Income{
		TypeID:   req.TypeID,
		Value:    req.Value,
		Month:    req.Month,
		Year:     req.Year,
		Received: req.Received,
	}
	if err := h.Service.CreateIncome(user.ID, &i); err != nil {
		h.mapError(c, err)
		return
	}

	created, err := h.Service.IncomeByID(user.ID, i.ID)
	if err != nil {
		h.mapError(c, err)
		return
	}
	util.Created(c, util.Response{"income": toIncomeResp(&created)})
}

func (h *IncomeHandler) UpdateIncome(c *gin.Context) {
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

	var req incomeUpdateReq
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

	i, err := h.Service.UpdateIncome(user.ID, id, service.IncomePatch{
		Value:    req.Value,
		Received: req.Received,
	})
	if err != nil {
		h.mapError(c, err)
		return
	}
	util.Success(c, util.Response{"income": toIncomeResp(&i)})
}

func (h *IncomeHandler) DeleteIncome(c *gin.Context) {
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

	if err := h.Service.DeleteIncome(user.ID, id); err != nil {
		h.mapError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "income deleted"})
}
