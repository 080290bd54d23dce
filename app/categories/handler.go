package categories

import (
	"context"
	"net/http"

	"github.com/lumiere-jewels/storefront/app/web"
	"github.com/lumiere-jewels/storefront/models"
)

type CategoryProvider interface {
	GetAllCategories(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// CategoryInput is the body of a create. An empty slug is derived from the
// name.
type CategoryInput struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Slug         string  `json:"slug" validate:"omitempty,slug"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"imageUrl" validate:"omitempty,uri"`
	DisplayOrder int     `json:"displayOrder"`
}

// CategoryPatch is the body of an update; nil fields are left alone.
type CategoryPatch struct {
	Name         *string `json:"name"`
	Slug         *string `json:"slug"`
	Description  *string `json:"description"`
	ImageURL     *string `json:"imageUrl"`
	DisplayOrder *int    `json:"displayOrder"`
}

type CategoryHandler struct {
	repo CategoryProvider
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAllCategories(r.Context())
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	web.WriteJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	category, err := h.repo.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, category)
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input CategoryInput
	if err := web.DecodeJSON(r, &input); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}

	category, err := build(input)
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	if err := h.repo.CreateCategory(r.Context(), category); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, category)
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch CategoryPatch
	if err := web.DecodeJSON(r, &patch); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}

	existing, err := h.repo.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}

	input := CategoryInput{
		Name:         existing.Name,
		Slug:         existing.Slug,
		Description:  existing.Description,
		ImageURL:     existing.ImageURL,
		DisplayOrder: existing.DisplayOrder,
	}
	if patch.Name != nil {
		input.Name = *patch.Name
	}
	if patch.Slug != nil {
		input.Slug = *patch.Slug
	}
	if patch.Description != nil {
		input.Description = patch.Description
	}
	if patch.ImageURL != nil {
		input.ImageURL = patch.ImageURL
	}
	if patch.DisplayOrder != nil {
		input.DisplayOrder = *patch.DisplayOrder
	}

	category, err := build(input)
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	category.ID = existing.ID
	if err := h.repo.UpdateCategory(r.Context(), category); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, category)
}

// HandleDelete removes a category. Its products keep their categoryId.
func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.repo.DeleteCategory(r.Context(), r.PathValue("id")); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func build(input CategoryInput) (*models.Category, error) {
	if err := models.Validate(input); err != nil {
		return nil, err
	}
	slug := input.Slug
	if slug == "" {
		slug = models.Slugify(input.Name)
	}
	if slug == "" {
		return nil, models.NewValidationError("slug", "cannot be derived from the name")
	}
	return &models.Category{
		Name:         input.Name,
		Slug:         slug,
		Description:  input.Description,
		ImageURL:     input.ImageURL,
		DisplayOrder: input.DisplayOrder,
	}, nil
}
