package categories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lumiere-jewels/storefront/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mock Repository ---

type MockCategoryRepo struct {
	Categories []models.Category
	CreateErr  error
	ListErr    error
	UpdateErr  error
	DeleteErr  error

	LastSaved   *models.Category
	LastUpdated *models.Category
	LastDeleted string
}

func (m *MockCategoryRepo) GetAllCategories(_ context.Context) ([]models.Category, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Categories, nil
}

func (m *MockCategoryRepo) GetByID(_ context.Context, id string) (*models.Category, error) {
	for _, c := range m.Categories {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (m *MockCategoryRepo) GetBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range m.Categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, models.ErrCategoryNotFound
}

func (m *MockCategoryRepo) CreateCategory(_ context.Context, cat *models.Category) error {
	m.LastSaved = cat
	if m.CreateErr == nil {
		cat.ID = "new-id"
	}
	return m.CreateErr
}

func (m *MockCategoryRepo) UpdateCategory(_ context.Context, cat *models.Category) error {
	m.LastUpdated = cat
	return m.UpdateErr
}

func (m *MockCategoryRepo) DeleteCategory(_ context.Context, id string) error {
	m.LastDeleted = id
	return m.DeleteErr
}

func seeded() *MockCategoryRepo {
	return &MockCategoryRepo{
		Categories: []models.Category{
			{ID: "c1", Name: "Rings", Slug: "rings"},
			{ID: "c2", Name: "Necklaces", Slug: "necklaces", DisplayOrder: 2},
		},
	}
}

func newMux(h *CategoryHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/categories", h.HandleGetAll)
	mux.HandleFunc("GET /api/categories/{slug}", h.HandleGet)
	mux.HandleFunc("POST /api/categories", h.HandleCreate)
	mux.HandleFunc("PUT /api/categories/{id}", h.HandleUpdate)
	mux.HandleFunc("DELETE /api/categories/{id}", h.HandleDelete)
	return mux
}

// --- Tests: GET /api/categories ---

func TestHandleGetAll(t *testing.T) {
	testCases := []struct {
		name               string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name:               "Success with multiple categories",
			mockRepoSetup:      seeded,
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []models.Category
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Len(t, resp, 2)
				assert.Equal(t, "rings", resp[0].Slug)
				assert.Equal(t, "Necklaces", resp[1].Name)
			},
		},
		{
			name: "Success with empty list",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.JSONEq(t, `[]`, rec.Body.String())
			},
		},
		{
			name: "Repository error",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{ListErr: &models.PersistenceError{Op: "list categories", Err: errors.New("db down")}}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				assert.JSONEq(t, `{"message": "internal server error"}`, rec.Body.String())
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			handler := NewCategoryHandler(tc.mockRepoSetup())
			req := httptest.NewRequest(http.MethodGet, "/api/categories", nil)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleGetAll(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			tc.checkResponse(t, rec)
		})
	}
}

// --- Tests: single category and writes ---

func TestCategoryRoutes(t *testing.T) {
	testCases := []struct {
		name               string
		method             string
		url                string
		body               string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		check              func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockCategoryRepo)
	}{
		{
			name:               "Get by slug",
			method:             http.MethodGet,
			url:                "/api/categories/necklaces",
			mockRepoSetup:      seeded,
			expectedStatusCode: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder, _ *MockCategoryRepo) {
				var c models.Category
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&c))
				assert.Equal(t, "c2", c.ID)
			},
		},
		{
			name:               "Get unknown slug",
			method:             http.MethodGet,
			url:                "/api/categories/watches",
			mockRepoSetup:      seeded,
			expectedStatusCode: http.StatusNotFound,
			check: func(t *testing.T, rec *httptest.ResponseRecorder, _ *MockCategoryRepo) {
				assert.JSONEq(t, `{"message": "Category not found"}`, rec.Body.String())
			},
		},
		{
			name:               "Create derives slug",
			method:             http.MethodPost,
			url:                "/api/categories",
			body:               `{"name": "Engagement Rings", "displayOrder": 3}`,
			mockRepoSetup:      seeded,
			expectedStatusCode: http.StatusCreated,
			check: func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockCategoryRepo) {
				require.NotNil(t, repo.LastSaved)
				assert.Equal(t, "engagement-rings", repo.LastSaved.Slug)
				assert.Equal(t, 3, repo.LastSaved.DisplayOrder)
			},
		},
		{
			name:               "Create with missing name",
			method:             http.MethodPost,
			url:                "/api/categories",
			body:               `{"slug": "rings"}`,
			mockRepoSetup:      seeded,
			expectedStatusCode: http.StatusBadRequest,
			check: func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockCategoryRepo) {
				assert.Nil(t, repo.LastSaved)
			},
		},
		{
			name:               "Create with invalid JSON",
			method:             http.MethodPost,
			url:                "/api/categories",
			body:               `{invalid-json}`,
			mockRepoSetup:      seeded,
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:   "Create duplicate",
			method: http.MethodPost,
			url:    "/api/categories",
			body:   `{"name": "Rings"}`,
			mockRepoSetup: func() *MockCategoryRepo {
				repo := seeded()
				repo.CreateErr = fmt.Errorf("create category: %w", models.ErrConflict)
				return repo
			},
			expectedStatusCode: http.StatusConflict,
		},
		{
			name:               "Partial update",
			method:             http.MethodPut,
			url:                "/api/categories/c1",
			body:               `{"displayOrder": 9}`,
			mockRepoSetup:      seeded,
			expectedStatusCode: http.StatusOK,
			check: func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockCategoryRepo) {
				require.NotNil(t, repo.LastUpdated)
				assert.Equal(t, "c1", repo.LastUpdated.ID)
				assert.Equal(t, "Rings", repo.LastUpdated.Name)
				assert.Equal(t, 9, repo.LastUpdated.DisplayOrder)
			},
		},
		{
			name:               "Update with bad image url",
			method:             http.MethodPut,
			url:                "/api/categories/c1",
			body:               `{"imageUrl": "not a url"}`,
			mockRepoSetup:      seeded,
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "Update unknown category",
			method:             http.MethodPut,
			url:                "/api/categories/zz",
			body:               `{}`,
			mockRepoSetup:      seeded,
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name:               "Delete",
			method:             http.MethodDelete,
			url:                "/api/categories/c2",
			mockRepoSetup:      seeded,
			expectedStatusCode: http.StatusNoContent,
			check: func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockCategoryRepo) {
				assert.Equal(t, "c2", repo.LastDeleted)
			},
		},
		{
			name:   "Delete unknown category",
			method: http.MethodDelete,
			url:    "/api/categories/zz",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{DeleteErr: models.ErrCategoryNotFound}
			},
			expectedStatusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := tc.mockRepoSetup()
			req := httptest.NewRequest(tc.method, tc.url, strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			// Act
			newMux(NewCategoryHandler(repo)).ServeHTTP(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.check != nil {
				tc.check(t, rec, repo)
			}
		})
	}
}
