package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lumiere-jewels/storefront/models"
	"github.com/tealeg/xlsx"
)

const sheetName = "Products"

var sheetHeader = []string{
	"ID", "Name", "Slug", "Description", "Price", "Category",
	"Images", "Stock", "Material", "Featured", "CreatedAt",
}

// Column positions in sheetHeader.
const (
	colID = iota
	colName
	colSlug
	colDescription
	colPrice
	colCategory
	colImages
	colStock
	colMaterial
	colFeatured
	colCreatedAt
)

// RowError reports a spreadsheet row that was not imported. Row is
// 1-based, counting the header.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportResult struct {
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Skipped int        `json:"skipped"`
	Errors  []RowError `json:"errors,omitempty"`
}

// Export writes the whole catalog as an xlsx workbook. The Category column
// holds the category slug.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	products, err := s.products.GetAllProducts(ctx)
	if err != nil {
		return err
	}
	categories, err := s.categories.GetAllCategories(ctx)
	if err != nil {
		return err
	}
	slugs := make(map[string]string, len(categories))
	for _, c := range categories {
		slugs[c.ID] = c.Slug
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return fmt.Errorf("add sheet: %w", err)
	}
	header := sheet.AddRow()
	for _, h := range sheetHeader {
		header.AddCell().SetString(h)
	}

	for _, p := range products {
		category := slugs[p.CategoryID]
		if category == "" {
			category = p.CategoryID
		}
		material := ""
		if p.Material != nil {
			material = *p.Material
		}

		row := sheet.AddRow()
		row.AddCell().SetString(p.ID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Slug)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetString(p.Price.String())
		row.AddCell().SetString(category)
		row.AddCell().SetString(strings.Join(p.Images, ", "))
		row.AddCell().SetInt(p.Stock)
		row.AddCell().SetString(material)
		row.AddCell().SetBool(p.Featured)
		row.AddCell().SetString(p.CreatedAt.UTC().Format(time.RFC3339))
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Import upserts products from the first sheet of an xlsx workbook laid
// out like Export's. Rows are matched to existing products by slug. A row
// that fails validation is skipped and reported; the rest still import.
func (s *Service) Import(ctx context.Context, r io.ReaderAt, size int64) (*ImportResult, error) {
	file, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, models.NewValidationError("file", "not a readable xlsx workbook")
	}
	if len(file.Sheets) == 0 || len(file.Sheets[0].Rows) < 2 {
		return nil, models.NewValidationError("file", "workbook is empty or has no data rows")
	}

	res := &ImportResult{}
	for i, row := range file.Sheets[0].Rows[1:] {
		line := i + 2
		if rowEmpty(row) {
			continue
		}
		in, err := s.rowInput(ctx, row)
		if err == nil {
			err = s.upsert(ctx, in, res)
		}
		if err != nil {
			if !models.IsValidation(err) && !errors.Is(err, models.ErrConflict) {
				return nil, err
			}
			res.Skipped++
			res.Errors = append(res.Errors, RowError{Row: line, Message: err.Error()})
		}
	}

	slog.Info("Products imported", "created", res.Created, "updated", res.Updated, "skipped", res.Skipped)
	return res, nil
}

func (s *Service) upsert(ctx context.Context, in ProductInput, res *ImportResult) error {
	slug := in.Slug
	if slug == "" {
		slug = models.Slugify(in.Name)
	}
	existing, err := s.products.GetBySlug(ctx, slug)
	switch {
	case errors.Is(err, models.ErrNotFound):
		if _, err := s.Create(ctx, in); err != nil {
			return err
		}
		res.Created++
		return nil
	case err != nil:
		return err
	}

	in.Slug = slug
	if _, err := s.Update(ctx, existing.ID, patchFrom(in)); err != nil {
		return err
	}
	res.Updated++
	return nil
}

// rowInput maps a sheet row onto a ProductInput. The Category cell may hold
// a category slug or id.
func (s *Service) rowInput(ctx context.Context, row *xlsx.Row) (ProductInput, error) {
	get := func(col int) string {
		if col < len(row.Cells) {
			return strings.TrimSpace(row.Cells[col].Value)
		}
		return ""
	}

	in := ProductInput{
		Name:        get(colName),
		Slug:        get(colSlug),
		Description: get(colDescription),
		Price:       get(colPrice),
	}

	if v := get(colStock); v != "" {
		stock, err := strconv.Atoi(v)
		if err != nil {
			return in, models.NewValidationError("stock", "must be a whole number")
		}
		in.Stock = stock
	}
	for _, img := range strings.Split(get(colImages), ",") {
		if img = strings.TrimSpace(img); img != "" {
			in.Images = append(in.Images, img)
		}
	}
	if m := get(colMaterial); m != "" {
		in.Material = &m
	}
	switch strings.ToLower(get(colFeatured)) {
	case "1", "true", "yes", "y":
		in.Featured = true
	}

	category := get(colCategory)
	if c, err := s.categories.GetBySlug(ctx, category); err == nil {
		in.CategoryID = c.ID
	} else if errors.Is(err, models.ErrNotFound) {
		in.CategoryID = category
	} else {
		return in, err
	}
	return in, nil
}

func patchFrom(in ProductInput) ProductPatch {
	return ProductPatch{
		Name:        &in.Name,
		Slug:        &in.Slug,
		Description: &in.Description,
		Price:       &in.Price,
		CategoryID:  &in.CategoryID,
		Images:      &in.Images,
		Stock:       &in.Stock,
		Material:    in.Material,
		Featured:    &in.Featured,
	}
}

func rowEmpty(row *xlsx.Row) bool {
	for _, c := range row.Cells {
		if strings.TrimSpace(c.Value) != "" {
			return false
		}
	}
	return true
}
