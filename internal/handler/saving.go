package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ferrarijessie/j.money.api/internal/middleware"
	"github.com/ferrarijessie/j.money.api/internal/models"
	"github.com/ferrarijessie/j.money.api/internal/service"
	"github.com/ferrarijessie/j.money.api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SavingHandler exposes saving types and their monthly values.
type SavingHandler struct {
	Service *service.SavingService
}

func NewSavingHandler(svc *service.SavingService) *SavingHandler {
	return &SavingHandler{Service: svc}
}

type savingTypeCreateReq struct {
	Name      string          `json:"name" binding:"required,max=80"`
	Active    *bool           `json:"active"`
	Recurrent bool            `json:"recurrent"`
	BaseValue decimal.Decimal `json:"baseValue"`
}

type savingTypeUpdateReq struct {
	Name      *string          `json:"name"`
	Active    *bool            `json:"active"`
	Recurrent *bool            `json:"recurrent"`
	BaseValue *decimal.Decimal `json:"baseValue"`
}

type savingTypeResp struct {
	SavingTypeID uint            `json:"savingTypeId"`
	Name         string          `json:"name"`
	Active       bool            `json:"active"`
	Recurrent    bool            `json:"recurrent"`
	BaseValue    decimal.Decimal `json:"baseValue"`
}

type savingValueCreateReq struct {
	TypeID uint            `json:"typeId" binding:"required"`
	Value  decimal.Decimal `json:"value"`
	Month  int             `json:"month" binding:"required,min=1,max=12"`
	Year   int             `json:"year" binding:"required"`
	Used   bool            `json:"used"`
}

type savingValueUpdateReq struct {
	Value *decimal.Decimal `json:"value"`
	Used  *bool            `json:"used"`
}

type savingValueResp struct {
	SavingValueID uint            `json:"savingValueId"`
	TypeID        uint            `json:"typeId"`
	TypeName      string          `json:"typeName"`
	Value         decimal.Decimal `json:"value"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	Used          bool            `json:"used"`
}

type savingSummaryResp struct {
	TypeID            uint            `json:"typeId"`
	Name              string          `json:"name"`
	Balance           decimal.Decimal `json:"balance"`
	CurrentMonthValue decimal.Decimal `json:"currentMonthValue"`
}

func toSavingTypeResp(t *models.SavingType) savingTypeResp {
	return savingTypeResp{
		SavingTypeID: t.ID,
		Name:         t.Name,
		Active:       t.Active,
		Recurrent:    t.Recurrent,
		BaseValue:    t.BaseValue,
	}
}

func toSavingValueResp(v *models.SavingValue) savingValueResp {
	return savingValueResp{
		SavingValueID: v.ID,
		TypeID:        v.TypeID,
		TypeName:      v.Type.Name,
		Value:         v.Value,
		Month:         v.Month,
		Year:          v.Year,
		Used:          v.Used,
	}
}

func (h *SavingHandler) mapError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSavingTypeNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Saving Type not found")
	case errors.Is(err, service.ErrSavingValueNotFound):
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "Saving Value not found")
	case errors.Is(err, service.ErrSavingValueExists):
		util.Error(c, http.StatusConflict, util.CodeConflict, "Saving deposit already exists for this period")
	default:
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "internal error")
	}
}

// ---------- saving types ----------

// ListTypes serves GET /api/saving-types, with ?active=true narrowing to
// buckets still receiving deposits.
func (h *SavingHandler) ListTypes(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var (
		types []models.SavingType
		err   error
	)
	if c.Query("active") == "true" {
		types, err = h.Service.ActiveTypes(user.ID)
	} else {
		types, err = h.Service.Types(user.ID)
	}
	if err != nil {
		h.mapError(c, err)
		return
	}
	items := make([]savingTypeResp, 0, len(types))
	for i := range types {
		items = append(items, toSavingTypeResp(&types[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *SavingHandler) GetType(c *gin.Context) {
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
	util.Success(c, util.Response{"savingType": toSavingTypeResp(&t)})
}

func (h *SavingHandler) CreateType(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req savingTypeCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if err := util.ValidateAmount(req.BaseValue); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return
	}

	// New buckets are active unless the request says otherwise.
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	t := models.SavingType{
		UserID:    user.ID,
		Name:      req.Name,
		Active:    active,
		Recurrent: req.Recurrent,
		BaseValue: req.BaseValue,
	}
	if err := h.Service.CreateType(&t); err != nil {
		h.mapError(c, err)
		return
	}
	util.Created(c, util.Response{"savingType": toSavingTypeResp(&t)})
}

func (h *SavingHandler) UpdateType(c *gin.Context) {
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

	var req savingTypeUpdateReq
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

	t, err := h.Service.UpdateType(user.ID, id, service.SavingTypePatch{
		Name:      req.Name,
		Active:    req.Active,
		Recurrent: req.Recurrent,
		BaseValue: req.BaseValue,
	})
	if err != nil {
		h.mapError(c, err)
		return
	}
	util.Success(c, util.Response{"savingType": toSavingTypeResp(&t)})
}

func (h *SavingHandler) DeleteType(c *gin.Context) {
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
	util.Success(c, util.Response{"message": "saving type deleted"})
}

// ---------- saving values ----------

// ListValues serves GET /api/savings, with ?year=&month= switching to the
// recurrence-engine period list.
func (h *SavingHandler) ListValues(c *gin.Context) {
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
		items := make([]savingValueResp, 0, len(rows))
		for _, row := range rows {
			items = append(items, savingValueResp{
				SavingValueID: row.Entry.ID,
				TypeID:        row.Type.ID,
				TypeName:      row.Type.Name,
				Value:         row.Entry.Value,
				Month:         row.Entry.Month,
				Year:          row.Entry.Year,
				Used:          row.Entry.Used,
			})
		}
		util.Success(c, util.Response{"items": items})
		return
	}

	values, err := h.Service.Values(user.ID)
	if err != nil {
		h.mapError(c, err)
		return
	}
	items := make([]savingValueResp, 0, len(values))
	for i := range values {
		items = append(items, toSavingValueResp(&values[i]))
	}
	util.Success(c, util.Response{"items": items})
}

func (h *SavingHandler) GetValue(c *gin.Context) {
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

	v, err := h.Service.ValueByID(user.ID, id)
	if err != nil {
		h.mapError(c, err)
		return
	}
	util.Success(c, util.Response{"savingValue": toSavingValueResp(&v)})
}

func (h *SavingHandler) CreateValue(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}

	var req savingValueCreateReq
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

	v := models.SavingValue{
		TypeID: req.TypeID,
		Value:  req.Value,
		Month:  req.Month,
		Year:   req.Year,
		Used:   req.Used,
	}
	if err := h.Service.CreateValue(user.ID, &v); err != nil {
		h.mapError(c, err)
		return
	}

	created, err := h.Service.ValueByID(user.ID, v.ID)
	if err != nil {
		h.mapError(c, err)
		return
	}
	util.Created(c, util.Response{"savingValue": toSavingValueResp(&created)})
}

func (h *SavingHandler) UpdateValue(c *gin.Context) {
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

	var req savingValueUpdateReq
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

	v, err := h.Service.UpdateValue(user.ID, id, service.SavingValuePatch{
		Value: req.Value,
		Used:  req.Used,
	})
	if err != nil {
		h.mapError(c, err)
		return
	}
	util.Success(c, util.Response{"savingValue": toSavingValueResp(&v)})
}

func (h *SavingHandler) DeleteValue(c *gin.Context) {
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

	if err := h.Service.DeleteValue(user.ID, id); err != nil {
		h.mapError(c, err)
		return
	}
	util.Success(c, util.Response{"message": "saving value deleted"})
}

// ---------- savings summary ----------

// SavingsSummary serves GET /api/summary/:year/:month/savings.
func (h *SavingHandler) SavingsSummary(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	year, month, ok := parsePeriod(c)
	if !ok {
		return
	}

	rows, err := h.Service.SummaryForPeriod(user.ID, year, month)
	if err != nil {
		h.mapError(c, err)
		return
	}
	items := make([]savingSummaryResp, 0, len(rows))
	for _, row := range rows {
		items = append(items, savingSummaryResp{
			TypeID:            row.TypeID,
			Name:              row.Name,
			Balance:           row.Balance,
			CurrentMonthValue: row.CurrentMonthValue,
		})
	}
	util.Success(c, util.Response{"items": items})
}
