package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
)

// Each parser writes the 400 response itself and reports ok=false.

func doctorIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_doctor_id", "Invalid doctor.")
		return 0, false
	}
	return uint(id), true
}

func telegramIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("telegramId"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_telegram_id", "Invalid Telegram id.")
		return 0, false
	}
	return id, true
}

func dateValue(c *gin.Context, raw string) (schedule.Date, bool) {
	if raw == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return schedule.Date{}, false
	}
	d, err := schedule.ParseDate(raw)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return schedule.Date{}, false
	}
	return d, true
}

func optionalDate(c *gin.Context, key string) (schedule.Date, bool) {
	raw := c.Query(key)
	if raw == "" {
		return schedule.Date{}, true
	}
	return dateValue(c, raw)
}

// listFilter reads status, limit, from and to from the query string.
func listFilter(c *gin.Context) (domain.ListFilter, bool) {
	status, ok := domain.ParseStatusFilter(c.Query("status"))
	if !ok {
		httperr.BadRequest(c, "invalid_status_filter", "Status must be all, confirmed, visited or noshow.")
		return domain.ListFilter{}, false
	}

	filter := domain.ListFilter{Status: status}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			httperr.BadRequest(c, "invalid_limit", "Invalid limit.")
			return domain.ListFilter{}, false
		}
		filter.Limit = limit
	}

	if filter.From, ok = optionalDate(c, "from"); !ok {
		return domain.ListFilter{}, false
	}
	if filter.To, ok = optionalDate(c, "to"); !ok {
		return domain.ListFilter{}, false
	}
	return filter, true
}

func currentUserID(c *gin.Context) uint {
	return c.GetUint(middleware.ContextUserID)
}
