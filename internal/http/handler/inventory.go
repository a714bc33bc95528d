package handler

import (
	"github.com/docker/go-units"
	"github.com/gofiber/fiber/v2"

	"solemate/internal/http/middleware"
	"solemate/internal/service"
)

type inventoryRequest struct {
	ProductName string  `json:"product_name" form:"product_name" validate:"required,max=255"`
	Brand       string  `json:"brand" form:"brand" validate:"required,max=100"`
	Size        float64 `json:"size" form:"size" validate:"gt=0,lte=30"`
	Quantity    int     `json:"quantity" form:"quantity" validate:"gte=1"`
	Price       float64 `json:"price" form:"price" validate:"gte=0"`
}

// inventoryUpdateRequest allows a quantity of zero: an item may be kept at no stock.
type inventoryUpdateRequest struct {
	ProductName string  `json:"product_name" validate:"required,max=255"`
	Brand       string  `json:"brand" validate:"required,max=100"`
	Size        float64 `json:"size" validate:"gt=0,lte=30"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Price       float64 `json:"price" validate:"gte=0"`
}

func (r inventoryUpdateRequest) input() service.InventoryInput {
	return inventoryRequest(r).input()
}

func (r inventoryRequest) input() service.InventoryInput {
	return service.InventoryInput{
		ProductName: r.ProductName,
		Brand:       r.Brand,
		Size:        r.Size,
		Quantity:    r.Quantity,
		Price:       r.Price,
	}
}

func currentUserID(c *fiber.Ctx) string {
	if u := middleware.CurrentUser(c); u != nil {
		return u.ID
	}
	return ""
}

// ListInventory returns the user's items, newest first.
//
// @Summary List inventory
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param limit query int false "page size (max 100)"
// @Param offset query int false "offset"
// @Success 200 {object} service.InventoryListResult
// @Router /api/inventory/ [get]
func ListInventory(svc service.InventoryService) fiber.Handler {
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

// CreateInventory adds an item to the user's inventory.
//
// @Summary Create inventory item
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body inventoryRequest true "item"
// @Success 201 {object} model.InventoryItem
// @Failure 400 {object} errorPayload
// @Router /api/inventory/ [post]
func CreateInventory(svc service.InventoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req inventoryRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		it, err := svc.Create(c.UserContext(), currentUserID(c), req.input())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(it)
	}
}

// GetInventory returns one of the user's items.
//
// @Summary Get inventory item
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param id path string true "item id"
// @Success 200 {object} model.InventoryItem
// @Failure 404 {object} errorPayload
// @Router /api/inventory/{id}/ [get]
func GetInventory(svc service.InventoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := validID(c)
		if !ok {
			return err
		}
		it, err := svc.Get(c.UserContext(), currentUserID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(it)
	}
}

// UpdateInventory replaces the editable fields of an item.
//
// @Summary Update inventory item
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "item id"
// @Param body body inventoryUpdateRequest true "item"
// @Success 200 {object} model.InventoryItem
// @Failure 404 {object} errorPayload
// @Router /api/inventory/{id}/ [put]
func UpdateInventory(svc service.InventoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := validID(c)
		if !ok {
			return err
		}
		var req inventoryUpdateRequest
		if ok, err := bind(c, &req); !ok {
			return err
		}
		it, err := svc.Update(c.UserContext(), currentUserID(c), id, req.input())
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(it)
	}
}

// DeleteInventory removes an item and its image.
//
// @Summary Delete inventory item
// @Tags inventory
// @Security BearerAuth
// @Param id path string true "item id"
// @Success 204
// @Failure 404 {object} errorPayload
// @Router /api/inventory/{id}/ [delete]
func DeleteInventory(svc service.InventoryService) fiber.Handler {
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

// UploadInventoryImage stores a picture for an item (multipart field "image").
//
// @Summary Upload item image
// @Tags inventory
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "item id"
// @Param image formData file true "image file"
// @Success 200 {object} model.InventoryItem
// @Failure 400 {object} errorPayload
// @Failure 413 {object} errorPayload
// @Router /api/inventory/{id}/image/ [post]
func UploadInventoryImage(svc service.InventoryService, maxSize int64) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := validID(c)
		if !ok {
			return err
		}
		fh, err := c.FormFile("image")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "image is required")
		}
		if maxSize > 0 && fh.Size > maxSize {
			return writeError(c, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
				"image exceeds "+units.HumanSize(float64(maxSize)))
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		it, err := svc.UploadImage(c.UserContext(), currentUserID(c), id, service.ImageUpload{
			Reader:      f,
			Filename:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
		})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(it)
	}
}

// InventoryImage redirects to a short-lived download link for the item's image.
//
// @Summary Item image
// @Tags inventory
// @Security BearerAuth
// @Param id path string true "item id"
// @Success 302
// @Failure 404 {object} errorPayload
// @Router /api/inventory/{id}/image/ [get]
func InventoryImage(svc service.InventoryService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := validID(c)
		if !ok {
			return err
		}
		url, err := svc.ImageURL(c.UserContext(), currentUserID(c), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Redirect(url, fiber.StatusFound)
	}
}
