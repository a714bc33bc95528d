package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"solemate/internal/service"
)

const saleDateLayout = "2006-01-02"

type saleRequest struct {
	InventoryItemID string  `json:"inventory_item_id" form:"inventory_item_id" validate:"required,uuid"`
	Quantity        int     `json:"quantity" form:"quantity" validate:"gte=1"`
	PriceSold       float64 `json:"price_sold" form:"price_sold" validate:"gte=0"`
	SaleDate        string  `json:"sale_date" form:"sale_date" validate:"omitempty,datetime=2006-01-02"`
}

// ListSales returns the user's sales with the total value sold.
//
// @Summary List sales
// @Tags sales
// @Produce json
// @Security BearerAuth
// @Param limit query int false "page size (max 100)"
// @Param offset query int false "offset"
// @Success 200 {object} service.SaleListResult
// @Router /api/sales/ [get]
func ListSales(svc service.SaleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok, err := pagination(c)
		if !ok {
			return err
		}
		res, err := svc.List(c.UserContext(), currentUserID(c), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// RecordSale sells stock from an inventory item.
//
// @Summary Record a sale
// @Tags sales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body saleRequest true "sale"
// @Success 201 {object} model.Sale
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Failure 409 {object} errorPayload
// @Router /api/sales/ [post]
func RecordSale(svc service.SaleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req saleRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		var saleDate time.Time
		if req.SaleDate != "" {
			// Already checked by the datetime validator.
			saleDate, _ = time.Parse(saleDateLayout, req.SaleDate)
		}

		sl, err := svc.Record(c.UserContext(), currentUserID(c), service.SaleInput{
			InventoryItemID: req.InventoryItemID,
			Quantity:        req.Quantity,
			PriceSold:       req.PriceSold,
			SaleDate:        saleDate,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(sl)
	}
}

// DeleteSale removes a sale record without restocking.
//
// @Summary Delete a sale
// @Tags sales
// @Security BearerAuth
// @Param id path string true "sale id"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /api/sales/{id}/ [delete]
func DeleteSale(svc service.SaleService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := validID(c)
		if !ok {
			return err
		}
		if err := svc.Delete(c.UserContext(), currentUserID(c), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
