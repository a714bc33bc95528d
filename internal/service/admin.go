package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"solemate/internal/auth"
	"solemate/internal/model"
	"solemate/internal/repository"
	"solemate/internal/storage"
)

// UserListResult is the service-level DTO for paginated users.
type UserListResult struct {
	Items []model.User `json:"data"`
	Total int          `json:"total"`
}

// UserPatch holds the account flags staff may change. Nil fields are left as they are.
type UserPatch struct {
	IsActive *bool
	IsStaff  *bool
}

// SuperuserInput carries the fields for createsuperuser.
type SuperuserInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AdminService exposes cross-user management for staff.
type AdminService interface {
	ListUsers(ctx context.Context, limit, offset int) (*UserListResult, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	PatchUser(ctx context.Context, id string, p UserPatch) (*model.User, error)
	DeleteUser(ctx context.Context, id string) error

	ListInventory(ctx context.Context, limit, offset int) (*InventoryListResult, error)
	DeleteInventory(ctx context.Context, id string) error

	ListSales(ctx context.Context, limit, offset int) (*SaleListResult, error)
	DeleteSale(ctx context.Context, id string) error

	// CreateSuperuser creates an active staff superuser.
	CreateSuperuser(ctx context.Context, in SuperuserInput) (*model.User, error)
}

type adminService struct {
	store     storage.Storage
	users     repository.UserRepository
	inventory repository.InventoryRepository
	sales     repository.SaleRepository
	now       func() time.Time
}

// NewAdminService constructs a new AdminService.
func NewAdminService(store storage.Storage, users repository.UserRepository, inventory repository.InventoryRepository, sales repository.SaleRepository) AdminService {
	return &adminService{store: store, users: users, inventory: inventory, sales: sales, now: time.Now}
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *adminService) ListUsers(ctx context.Context, limit, offset int) (*UserListResult, error) {
	limit, offset = normalizePage(limit, offset)
	res, err := s.users.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &UserListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *adminService) GetUser(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *adminService) PatchUser(ctx context.Context, id string, p UserPatch) (*model.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.IsStaff != nil {
		u.IsStaff = *p.IsStaff
	}
	if err := s.users.UpdateFlags(ctx, id, u.IsActive, u.IsStaff); err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// DeleteUser removes the user's stored images, then the user. Inventory,
// sales and shoe log rows go with the user through ON DELETE CASCADE.
func (s *adminService) DeleteUser(ctx context.Context, id string) error {
	if _, err := s.GetUser(ctx, id); err != nil {
		return err
	}
	keys, err := s.imageKeys(ctx, id)
	if err != nil {
		return fmt.Errorf("list user inventory: %w", err)
	}
	for _, key := range keys {
		// Best effort; the rows are removed regardless.
		_ = s.store.Delete(ctx, key)
	}
	return s.users.Delete(ctx, id)
}

// imageKeys pages through every inventory item owned by userID.
func (s *adminService) imageKeys(ctx context.Context, userID string) ([]string, error) {
	var keys []string
	page := repository.PageQuery{Limit: maxPageLimit}
	for {
		res, err := s.inventory.List(ctx, repository.ListFilter{UserID: userID, PageQuery: page})
		if err != nil {
			return nil, err
		}
		for _, it := range res.Items {
			if it.ImageKey != "" {
				keys = append(keys, it.ImageKey)
			}
		}
		page.Offset += len(res.Items)
		if len(res.Items) == 0 || page.Offset >= res.Total {
			return keys, nil
		}
	}
}

func (s *adminService) ListInventory(ctx context.Context, limit, offset int) (*InventoryListResult, error) {
	limit, offset = normalizePage(limit, offset)
	res, err := s.inventory.List(ctx, repository.ListFilter{PageQuery: repository.PageQuery{Limit: limit, Offset: offset}})
	if err != nil {
		return nil, err
	}
	for i := range res.Items {
		withImageURL(&res.Items[i])
	}
	return &InventoryListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *adminService) DeleteInventory(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	it, err := s.inventory.FindByID(ctx, id)
	if err != nil {
		return notFound(err)
	}
	return deleteItem(ctx, s.store, s.inventory, it)
}

func (s *adminService) ListSales(ctx context.Context, limit, offset int) (*SaleListResult, error) {
	limit, offset = normalizePage(limit, offset)
	res, err := s.sales.List(ctx, repository.ListFilter{PageQuery: repository.PageQuery{Limit: limit, Offset: offset}})
	if err != nil {
		return nil, err
	}
	var value float64
	for _, sl := range res.Items {
		value += sl.PriceSold
	}
	return &SaleListResult{Items: res.Items, Total: res.Total, TotalValue: model.RoundMoney(value)}, nil
}

func (s *adminService) DeleteSale(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if _, err := s.sales.FindByID(ctx, id); err != nil {
		return notFound(err)
	}
	return s.sales.Delete(ctx, id)
}

func (s *adminService) CreateSuperuser(ctx context.Context, in SuperuserInput) (*model.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, errors.New("email and password are required")
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.Create(ctx, &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: hash,
		IsActive:     true,
		IsStaff:      true,
		IsSuperuser:  true,
		DateJoined:   s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}
