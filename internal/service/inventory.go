package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"solemate/internal/model"
	"solemate/internal/repository"
	"solemate/internal/storage"
)

// ImageURLExpiry is how long a pre-signed image link stays valid.
const ImageURLExpiry = 15 * time.Minute

const imagePrefix = "shoe-images"

// InventoryInput carries the user editable fields of an item.
type InventoryInput struct {
	ProductName string
	Brand       string
	Size        float64
	Quantity    int
	Price       float64
}

// InventoryListResult is the service-level DTO for paginated inventory.
type InventoryListResult struct {
	Items []model.InventoryItem `json:"data"`
	Total int                   `json:"total"`
}

// ImageUpload describes an uploaded image file.
// ContentType is what the client declared; the stored type is sniffed from the content.
type ImageUpload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// sniffLimit is how many leading bytes are inspected to detect the file type.
const sniffLimit = 3072

// sniffImage detects the content type from the leading bytes of r and returns
// a reader that replays them. Anything that is not an image is ErrInvalidImage.
func sniffImage(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLimit)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	mt := mimetype.Detect(head)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", nil, ErrInvalidImage
	}
	return mt.String(), io.MultiReader(bytes.NewReader(head), r), nil
}

// InventoryService defines the use cases for a user's sneaker stock.
// Every method is scoped to userID; items owned by someone else are reported as ErrNotFound.
type InventoryService interface {
	List(ctx context.Context, userID string, limit, offset int) (*InventoryListResult, error)

	// Create stores a new item and appends it to the shoe log.
	Create(ctx context.Context, userID string, in InventoryInput) (*model.InventoryItem, error)

	Get(ctx context.Context, userID, id string) (*model.InventoryItem, error)
	Update(ctx context.Context, userID, id string, in InventoryInput) (*model.InventoryItem, error)

	// Delete removes the item and its stored image.
	Delete(ctx context.Context, userID, id string) error

	// UploadImage stores the image under a generated key and replaces the item's previous image.
	// The uploaded object is removed again if the item cannot be updated.
	UploadImage(ctx context.Context, userID, id string, img ImageUpload) (*model.InventoryItem, error)

	// ImageURL returns a pre-signed download link for the item's image.
	ImageURL(ctx context.Context, userID, id string) (string, error)
}

type inventoryService struct {
	store storage.Storage
	repo  repository.InventoryRepository
	now   func() time.Time
}

// NewInventoryService constructs a new InventoryService.
func NewInventoryService(store storage.Storage, repo repository.InventoryRepository) InventoryService {
	return &inventoryService{store: store, repo: repo, now: time.Now}
}

// withImageURL points clients at the image redirect endpoint rather than at the bucket.
func withImageURL(it *model.InventoryItem) *model.InventoryItem {
	if it.ImageKey != "" {
		it.ImageURL = "/api/inventory/" + it.ID + "/image"
	}
	return it
}

func (s *inventoryService) List(ctx context.Context, userID string, limit, offset int) (*InventoryListResult, error) {
	limit, offset = normalizePage(limit, offset)

	res, err := s.repo.List(ctx, repository.ListFilter{
		UserID:    userID,
		PageQuery: repository.PageQuery{Limit: limit, Offset: offset},
	})
	if err != nil {
		return nil, err
	}
	for i := range res.Items {
		withImageURL(&res.Items[i])
	}
	return &InventoryListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *inventoryService) Create(ctx context.Context, userID string, in InventoryInput) (*model.InventoryItem, error) {
	now := s.now().UTC()
	item := &model.InventoryItem{
		ID:          uuid.New().String(),
		UserID:      userID,
		ProductName: strings.TrimSpace(in.ProductName),
		Brand:       strings.TrimSpace(in.Brand),
		Size:        in.Size,
		Quantity:    in.Quantity,
		Price:       model.RoundMoney(in.Price),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stored, err := s.repo.Create(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("create inventory item: %w", err)
	}
	return withImageURL(stored), nil
}

// owned loads an item and hides it from anyone but its owner.
func (s *inventoryService) owned(ctx context.Context, userID, id string) (*model.InventoryItem, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	it, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if it.UserID != userID {
		return nil, ErrNotFound
	}
	return it, nil
}

func (s *inventoryService) Get(ctx context.Context, userID, id string) (*model.InventoryItem, error) {
	it, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return withImageURL(it), nil
}

func (s *inventoryService) Update(ctx context.Context, userID, id string, in InventoryInput) (*model.InventoryItem, error) {
	it, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	it.ProductName = strings.TrimSpace(in.ProductName)
	it.Brand = strings.TrimSpace(in.Brand)
	it.Size = in.Size
	it.Quantity = in.Quantity
	it.Price = model.RoundMoney(in.Price)
	it.UpdatedAt = s.now().UTC()

	stored, err := s.repo.Update(ctx, it)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update inventory item: %w", err)
	}
	return withImageURL(stored), nil
}

func (s *inventoryService) Delete(ctx context.Context, userID, id string) error {
	it, err := s.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	return deleteItem(ctx, s.store, s.repo, it)
}

// deleteItem removes the stored image first so a storage failure leaves the row intact.
func deleteItem(ctx context.Context, store storage.Storage, repo repository.InventoryRepository, it *model.InventoryItem) error {
	if it.ImageKey != "" {
		if err := store.Delete(ctx, it.ImageKey); err != nil {
			return fmt.Errorf("delete storage: %w", err)
		}
	}
	return repo.Delete(ctx, it.ID)
}

func (s *inventoryService) UploadImage(ctx context.Context, userID, id string, img ImageUpload) (*model.InventoryItem, error) {
	if img.Reader == nil {
		return nil, ErrReaderNil
	}
	contentType, body, err := sniffImage(img.Reader)
	if err != nil {
		return nil, err
	}
	it, err := s.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(img.Filename))
	key := path.Join(imagePrefix, uuid.New().String()+ext)

	objInfo, err := s.store.Put(ctx, key, body, storage.PutObjectOptions{
		Size:        img.Size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": img.Filename,
			"inventory-item-id": it.ID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	previous := it.ImageKey
	it.ImageKey = objInfo.Key
	it.UpdatedAt = s.now().UTC()
	stored, err := s.repo.Update(ctx, it)
	if err != nil {
		if delErr := s.store.Delete(ctx, objInfo.Key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	if previous != "" && previous != objInfo.Key {
		// Best effort: the new image is already committed.
		_ = s.store.Delete(ctx, previous)
	}
	return withImageURL(stored), nil
}

func (s *inventoryService) ImageURL(ctx context.Context, userID, id string) (string, error) {
	it, err := s.owned(ctx, userID, id)
	if err != nil {
		return "", err
	}
	if it.ImageKey == "" {
		return "", ErrNotFound
	}
	return s.store.PresignGet(ctx, it.ImageKey, ImageURLExpiry)
}
