package handler

import (
	"github.com/gofiber/fiber/v2"

	"solemate/internal/service"
)

// Dashboard returns sales and spending statistics for a period.
//
// @Summary Dashboard statistics
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param period query string false "last_week, last_month, last_6_months, last_year or all_time"
// @Success 200 {object} model.Dashboard
// @Failure 400 {object} errorPayload
// @Router /api/dashboard/ [get]
func Dashboard(svc service.DashboardService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := svc.Get(c.UserContext(), currentUserID(c), c.Query("period", service.PeriodAllTime))
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(d)
	}
}
