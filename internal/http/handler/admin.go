package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"solemate/internal/service"
)

const adminSiteHeader = "SoleMate administration"

type adminModel struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type adminUserPatch struct {
	IsActive *bool `json:"is_active"`
	IsStaff  *bool `json:"is_staff"`
}

// AdminIndex lists the models managed by the admin site.
//
// @Summary Admin site index
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]any
// @Failure 401 {object} errorPayload
// @Failure 403 {object} errorPayload
// @Router /admin/ [get]
func AdminIndex() fiber.Handler {
	models := []adminModel{
		{Name: "users", URL: "/admin/users/"},
		{Name: "inventory", URL: "/admin/inventory/"},
		{Name: "sales", URL: "/admin/sales/"},
	}
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"site_header": adminSiteHeader, "models": models})
	}
}

// AdminListUsers lists all accounts.
//
// @Summary Admin: list users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.UserListResult
// @Router /admin/users/ [get]
func AdminListUsers(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok, err := pagination(c)
		if !ok {
			return err
		}
		res, err := svc.ListUsers(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// AdminGetUser returns one account.
//
// @Summary Admin: get user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "user id"
// @Success 200 {object} model.User
// @Router /admin/users/{id}/ [get]
func AdminGetUser(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := validID(c)
		if !ok {
			return err
		}
		u, err := svc.GetUser(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}

// AdminPatchUser changes the active and staff flags of an account.
//
// @Summary Admin: update user flags
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "user id"
// @Param body body adminUserPatch true "flags"
// @Success 200 {object} model.User
// @Router /admin/users/{id}/ [patch]
func AdminPatchUser(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := validID(c)
		if !ok {
			return err
		}
		var req adminUserPatch
		if ok, err := bind(c, &req); !ok {
			return err
		}
		u, err := svc.PatchUser(c.UserContext(), id, service.UserPatch{IsActive: req.IsActive, IsStaff: req.IsStaff})
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(u)
	}
}

// AdminDeleteUser removes an account with its inventory and sales.
//
// @Summary Admin: delete user
// @Tags admin
// @Security BearerAuth
// @Param id path string true "user id"
// @Success 204
// @Router /admin/users/{id}/ [delete]
func AdminDeleteUser(svc service.AdminService) fiber.Handler {
	return adminDelete(svc.DeleteUser)
}

// AdminListInventory lists items across all users.
//
// @Summary Admin: list inventory
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.InventoryListResult
// @Router /admin/inventory/ [get]
func AdminListInventory(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok, err := pagination(c)
		if !ok {
			return err
		}
		res, err := svc.ListInventory(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// AdminDeleteInventory removes any user's item.
//
// @Summary Admin: delete inventory item
// @Tags admin
// @Security BearerAuth
// @Param id path string true "item id"
// @Success 204
// @Router /admin/inventory/{id}/ [delete]
func AdminDeleteInventory(svc service.AdminService) fiber.Handler {
	return adminDelete(svc.DeleteInventory)
}

// AdminListSales lists sales across all users.
//
// @Summary Admin: list sales
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.SaleListResult
// @Router /admin/sales/ [get]
func AdminListSales(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, offset, ok, err := pagination(c)
		if !ok {
			return err
		}
		res, err := svc.ListSales(c.UserContext(), limit, offset)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(res)
	}
}

// AdminDeleteSale removes any user's sale.
//
// @Summary Admin: delete sale
// @Tags admin
// @Security BearerAuth
// @Param id path string true "sale id"
// @Success 204
// @Router /admin/sales/{id}/ [delete]
func AdminDeleteSale(svc service.AdminService) fiber.Handler {
	return adminDelete(svc.DeleteSale)
}

func adminDelete(del func(ctx context.Context, id string) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok, err := validID(c)
		if !ok {
			return err
		}
		if err := del(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
