package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ferrarijessie/j.money.api/internal/util"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// parsePeriod reads the :year/:month path parameters and writes the error
// response itself when they are out of range.
func parsePeriod(c *gin.Context) (year, month int, ok bool) {
	year, _ = strconv.Atoi(c.Param("year"))
	month, _ = strconv.Atoi(c.Param("month"))
	if err := util.ValidatePeriod(year, month); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
		return 0, 0, false
	}
	return year, month, true
}

// parseDate parses an optional YYYY-MM-DD string into *time.Time.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
