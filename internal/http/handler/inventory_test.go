package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"solemate/internal/model"
	"solemate/internal/service"
	serviceMocks "solemate/internal/service/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestListInventory(t *testing.T) {
	mockSvc := new(serviceMocks.MockInventoryService)
	app := newTestApp()
	app.Get("/api/inventory", asUser(testUser), ListInventory(mockSvc))

	t.Run("success", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, testUser.ID, 20, 40).Return(&service.InventoryListResult{
			Items: []model.InventoryItem{{ID: "i1", Brand: "Nike"}},
			Total: 41,
		}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/inventory?limit=20&offset=40", nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.InventoryListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 41, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/inventory?limit=abc", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, testUser.ID, 10, 0).Return(nil, errors.New("db down")).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/inventory", nil))
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp).Error.Code)
	})
}

func TestCreateInventory(t *testing.T) {
	mockSvc := new(serviceMocks.MockInventoryService)
	app := newTestApp()
	app.Post("/api/inventory", asUser(testUser), CreateInventory(mockSvc))

	t.Run("success", func(t *testing.T) {
		in := service.InventoryInput{ProductName: "Jordan 1", Brand: "Nike", Size: 10.5, Quantity: 2, Price: 170}
		mockSvc.On("Create", mock.Anything, testUser.ID, in).Return(&model.InventoryItem{ID: "i1", Quantity: 2}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/inventory", map[string]any{
			"product_name": "Jordan 1", "brand": "Nike", "size": 10.5, "quantity": 2, "price": 170,
		}))
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("validation", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPost, "/api/inventory", map[string]any{
			"product_name": "Jordan 1", "brand": "Nike", "size": 10, "quantity": 0, "price": -1,
		}))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		body := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		assert.Contains(t, body.Error.Message, "quantity")
		assert.Contains(t, body.Error.Message, "price")
	})
}

func TestGetInventory(t *testing.T) {
	mockSvc := new(serviceMocks.MockInventoryService)
	app := newTestApp()
	app.Get("/api/inventory/:id", asUser(testUser), GetInventory(mockSvc))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, testUser.ID, id).Return(&model.InventoryItem{ID: id}, nil).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/inventory/"+id, nil))
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.InventoryItem
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.ID)
	})

	t.Run("other user's item", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, testUser.ID, id).Return(nil, service.ErrNotFound).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/inventory/"+id, nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/inventory/invalid-uuid", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})
}

func TestUpdateAndDeleteInventory(t *testing.T) {
	mockSvc := new(serviceMocks.MockInventoryService)
	app := newTestApp()
	app.Put("/api/inventory/:id", asUser(testUser), UpdateInventory(mockSvc))
	app.Delete("/api/inventory/:id", asUser(testUser), DeleteInventory(mockSvc))
	id := uuid.New().String()

	mockSvc.On("Update", mock.Anything, testUser.ID, id, mock.MatchedBy(func(in service.InventoryInput) bool {
		return in.Quantity == 4
	})).Return(&model.InventoryItem{ID: id, Quantity: 4}, nil).Once()
	mockSvc.On("Delete", mock.Anything, testUser.ID, id).Return(nil).Once()

	resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/inventory/"+id, map[string]any{
		"product_name": "Samba", "brand": "Adidas", "size": 9, "quantity": 4, "price": 90,
	}))
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = app.Test(httptest.NewRequest(http.MethodDelete, "/api/inventory/"+id, nil))
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	mockSvc.AssertExpectations(t)
}

func TestUpdateInventory_Quantity(t *testing.T) {
	mockSvc := new(serviceMocks.MockInventoryService)
	app := newTestApp()
	app.Put("/api/inventory/:id", asUser(testUser), UpdateInventory(mockSvc))
	id := uuid.New().String()

	t.Run("zero stock is allowed", func(t *testing.T) {
		mockSvc.On("Update", mock.Anything, testUser.ID, id, mock.MatchedBy(func(in service.InventoryInput) bool {
			return in.Quantity == 0 && in.Brand == "Adidas"
		})).Return(&model.InventoryItem{ID: id, Quantity: 0}, nil).Once()

		resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/inventory/"+id, map[string]any{
			"product_name": "Samba", "brand": "Adidas", "size": 9, "quantity": 0, "price": 90,
		}))
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("negative stock is rejected", func(t *testing.T) {
		resp, _ := app.Test(jsonRequest(http.MethodPut, "/api/inventory/"+id, map[string]any{
			"product_name": "Samba", "brand": "Adidas", "size": 9, "quantity": -1, "price": 90,
		}))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
		assert.Contains(t, body.Error.Message, "quantity")
	})
}

func imageForm(t *testing.T, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="shoe.png"`)
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	part.Write(content)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestUploadInventoryImage(t *testing.T) {
	mockSvc := new(serviceMocks.MockInventoryService)
	app := newTestApp()
	app.Post("/api/inventory/:id/image", asUser(testUser), UploadInventoryImage(mockSvc, 16))
	id := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		body, ct := imageForm(t, "image/png", []byte("\x89PNG"))
		mockSvc.On("UploadImage", mock.Anything, testUser.ID, id, mock.MatchedBy(func(img service.ImageUpload) bool {
			return img.Filename == "shoe.png" && img.ContentType == "image/png" && img.Size == 4
		})).Return(&model.InventoryItem{ID: id, ImageURL: "/api/inventory/" + id + "/image"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/inventory/"+id+"/image", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("too large", func(t *testing.T) {
		body, ct := imageForm(t, "image/png", bytes.Repeat([]byte("x"), 64))
		req := httptest.NewRequest(http.MethodPost, "/api/inventory/"+id+"/image", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
		assert.Equal(t, "PAYLOAD_TOO_LARGE", decodeError(t, resp).Error.Code)
	})

	t.Run("not an image", func(t *testing.T) {
		body, ct := imageForm(t, "text/plain", []byte("hi"))
		mockSvc.On("UploadImage", mock.Anything, testUser.ID, id, mock.Anything).Return(nil, service.ErrInvalidImage).Once()

		req := httptest.NewRequest(http.MethodPost, "/api/inventory/"+id+"/image", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_IMAGE", decodeError(t, resp).Error.Code)
	})

	t.Run("no file", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodPost, "/api/inventory/"+id+"/image", nil))
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})
}

func TestInventoryImage(t *testing.T) {
	mockSvc := new(serviceMocks.MockInventoryService)
	app := newTestApp()
	app.Get("/api/inventory/:id/image", asUser(testUser), InventoryImage(mockSvc))
	id := uuid.New().String()

	mockSvc.On("ImageURL", mock.Anything, testUser.ID, id).Return("https://minio.local/shoe-images/a.png?sig=1", nil).Once()

	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/api/inventory/"+id+"/image", nil))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "https://minio.local/shoe-images/a.png?sig=1", resp.Header.Get("Location"))
}
