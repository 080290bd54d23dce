package catalog

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/lumiere-jewels/storefront/app/web"
	"github.com/lumiere-jewels/storefront/models"
)

const (
	maxPageSize   = 100
	maxUploadSize = 10 << 20
	xlsxMIME      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ProductService interface {
	List(ctx context.Context, q ListQuery) ([]models.Product, int64, error)
	Featured(ctx context.Context) ([]models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	Create(ctx context.Context, in ProductInput) (*models.Product, error)
	Update(ctx context.Context, id string, patch ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context, w io.Writer) error
	Import(ctx context.Context, r io.ReaderAt, size int64) (*ImportResult, error)
}

type CatalogHandler struct {
	service ProductService
}

func NewCatalogHandler(s ProductService) *CatalogHandler {
	return &CatalogHandler{
		service: s,
	}
}

// HandleGet serves GET /api/products. The body is the page of products and
// X-Total-Count carries the number of matches.
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// Parse pagination query params. Without a limit the whole catalog is
	// returned.
	var query ListQuery
	if oStr := q.Get("offset"); oStr != "" {
		if o, err := strconv.Atoi(oStr); err == nil && o >= 0 {
			query.Offset = o
		}
	}
	if lStr := q.Get("limit"); lStr != "" {
		if l, err := strconv.Atoi(lStr); err == nil {
			query.Limit = min(max(l, 1), maxPageSize)
		}
	}

	// Parse filters
	query.CategorySlug = q.Get("category")
	if fStr := q.Get("featured"); fStr != "" {
		if f, err := strconv.ParseBool(fStr); err == nil {
			query.Featured = &f
		}
	}
	if priceStr := q.Get("price_lt"); priceStr != "" {
		if price, err := models.ParseMoney(priceStr); err == nil {
			query.PriceLessThan = &price
		}
	}

	products, total, err := h.service.List(r.Context(), query)
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}

	w.Header().Set("X-Total-Count", strconv.FormatInt(total, 10))
	web.WriteJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) HandleGetFeatured(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.Featured(r.Context())
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	web.WriteJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in ProductInput
	if err := web.DecodeJSON(r, &in); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}

	product, err := h.service.Create(r.Context(), in)
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusCreated, product)
}

func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var patch ProductPatch
	if err := web.DecodeJSON(r, &patch); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}

	product, err := h.service.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), r.PathValue("id")); err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleExport serves GET /api/products/export as a workbook download.
func (h *CatalogHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Disposition", "attachment; filename=products.xlsx")
	w.Header().Set("Content-Type", xlsxMIME)
	if err := h.service.Export(r.Context(), w); err != nil {
		w.Header().Del("Content-Disposition")
		web.WriteServiceError(w, r, err)
	}
}

// HandleImport serves POST /api/products/import with the workbook in the
// multipart field "file".
func (h *CatalogHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		web.WriteServiceError(w, r, models.NewValidationError("file", "an .xlsx upload is required"))
		return
	}
	defer file.Close()

	res, err := h.service.Import(r.Context(), file, header.Size)
	if err != nil {
		web.WriteServiceError(w, r, err)
		return
	}
	web.WriteJSON(w, http.StatusOK, res)
}
