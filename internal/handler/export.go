package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ferrarijessie/j.money.api/internal/middleware"
	"github.com/ferrarijessie/j.money.api/internal/service"
	"github.com/ferrarijessie/j.money.api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler renders a year of entries across all three ledgers as a
// downloadable CSV or XLSX file.
type ExportHandler struct {
	Expenses *service.ExpenseService
	Incomes  *service.IncomeService
	Savings  *service.SavingService
}

func NewExportHandler(expenses *service.ExpenseService, incomes *service.IncomeService, savings *service.SavingService) *ExportHandler {
	return &ExportHandler{
		Expenses: expenses,
		Incomes:  incomes,
		Savings:  savings,
	}
}

type exportRow struct {
	Ledger   string
	TypeName string
	Category string
	Month    int
	Year     int
	Value    string
	Settled  bool
}

var exportHeaders = []string{"Ledger", "Type", "Category", "Month", "Year", "Value", "Settled"}

func (r exportRow) strings() []string {
	return []string{
		r.Ledger,
		r.TypeName,
		r.Category,
		strconv.Itoa(r.Month),
		strconv.Itoa(r.Year),
		r.Value,
		strconv.FormatBool(r.Settled),
	}
}

// rowsForYear collects every entry of the year, expenses first, ordered the
// way the list endpoints return them.
func (h *ExportHandler) rowsForYear(userID uint, year int) ([]exportRow, error) {
	var rows []exportRow

	expenses, err := h.Expenses.Expenses(userID)
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		if e.Year != year {
			continue
		}
		rows = append(rows, exportRow{
			Ledger:   "expense",
			TypeName: e.Type.Name,
			Category: string(e.Type.Category),
			Month:    e.Month,
			Year:     e.Year,
			Value:    e.Value.StringFixed(2),
			Settled:  e.Paid,
		})
	}

	incomes, err := h.Incomes.Incomes(userID)
	if err != nil {
		return nil, err
	}
	for _, i := range incomes {
		if i.Year != year {
			continue
		}
		rows = append(rows, exportRow{
			Ledger:   "income",
			TypeName: i.Type.Name,
			Month:    i.Month,
			Year:     i.Year,
			Value:    i.Value.StringFixed(2),
			Settled:  i.Received,
		})
	}

	values, err := h.Savings.Values(userID)
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		if v.Year != year {
			continue
		}
		rows = append(rows, exportRow{
			Ledger:   "saving",
			TypeName: v.Type.Name,
			Month:    v.Month,
			Year:     v.Year,
			Value:    v.Value.StringFixed(2),
			Settled:  v.Used,
		})
	}
	return rows, nil
}

func exportYear(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1970 || year > 9999 {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid year")
		return 0, false
	}
	return year, true
}

// ExportCSV serves GET /api/export/csv?year=.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	year, ok := exportYear(c)
	if !ok {
		return
	}

	rows, err := h.rowsForYear(user.ID, year)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"jmoney_%d_%s.csv\"",
		year, time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(exportHeaders)
	for _, row := range rows {
		writer.Write(row.strings())
	}
}

// ExportXLSX serves GET /api/export/xlsx?year=.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not logged in")
		return
	}
	year, ok := exportYear(c)
	if !ok {
		return
	}

	rows, err := h.rowsForYear(user.ID, year)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "query failed")
		return
	}

	f := excelize.NewFile()
	sheetName := fmt.Sprintf("Entries %d", year)
	index, err := f.NewSheet(sheetName)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "sheet creation failed")
		return
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, header := range exportHeaders {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}
	for idx, row := range rows {
		n := idx + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", n), row.Ledger)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", n), row.TypeName)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", n), row.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", n), row.Month)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", n), row.Year)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", n), row.Value)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", n), row.Settled)
	}

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 25)
	f.SetColWidth(sheetName, "C", "C", 12)
	f.SetColWidth(sheetName, "D", "E", 8)
	f.SetColWidth(sheetName, "F", "F", 12)
	f.SetColWidth(sheetName, "G", "G", 10)

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"jmoney_%d_%s.xlsx\"",
		year, time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "export failed")
	}
}
