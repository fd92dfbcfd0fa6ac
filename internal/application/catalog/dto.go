package catalog

import (
	"time"

	appshared "github.com/erp/distribution/internal/application/shared"
	"github.com/erp/distribution/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Code        string     `json:"code" binding:"required,min=1,max=50"`
	Name        string     `json:"name" binding:"required,min=1,max=200"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
}

// UpdateCategoryRequest represents a request to update a category
type UpdateCategoryRequest struct {
	Name        string     `json:"name" binding:"omitempty,min=1,max=200"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Status      string     `json:"status" binding:"omitempty,oneof=active inactive"`
}

// CategoryResponse is the API representation of a category
type CategoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// CreateBrandRequest represents a request to create a brand
type CreateBrandRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// UpdateBrandRequest represents a request to update a brand
type UpdateBrandRequest struct {
	Name   string `json:"name" binding:"omitempty,min=1,max=200"`
	Status string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// BrandResponse is the API representation of a brand
type BrandResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToBrandResponse converts a domain Brand to BrandResponse
func ToBrandResponse(b *catalog.Brand) BrandResponse {
	return BrandResponse{
		ID:        b.ID,
		Code:      b.Code,
		Name:      b.Name,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// StatusListFilter is the query of category and brand listings
type StatusListFilter struct {
	appshared.PageQuery
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Code          string           `json:"code" binding:"required,min=1,max=50"`
	Name          string           `json:"name" binding:"required,min=1,max=200"`
	Barcode       string           `json:"barcode" binding:"max=50"`
	Description   string           `json:"description"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	BrandID       *uuid.UUID       `json:"brand_id"`
	UnitOfMeasure string           `json:"unit_of_measure" binding:"max=20"`
	SellingPrice  decimal.Decimal  `json:"selling_price"`
	CostPrice     decimal.Decimal  `json:"cost_price"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
}

// UpdateProductRequest represents a request to update a product.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Barcode       *string          `json:"barcode" binding:"omitempty,max=50"`
	Description   *string          `json:"description"`
	CategoryID    *uuid.UUID       `json:"category_id"`
	BrandID       *uuid.UUID       `json:"brand_id"`
	UnitOfMeasure *string          `json:"unit_of_measure" binding:"omitempty,max=20"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	CostPrice     *decimal.Decimal `json:"cost_price"`
	TaxRate       *decimal.Decimal `json:"tax_rate"`
	Status        *string          `json:"status" binding:"omitempty,oneof=active inactive"`
}

// ProductListFilter is the query of GET /products
type ProductListFilter struct {
	appshared.PageQuery
	CategoryID *uuid.UUID `form:"category_id"`
	BrandID    *uuid.UUID `form:"brand_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=active inactive"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	Code          string          `json:"code"`
	Barcode       string          `json:"barcode,omitempty"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	CategoryID    *uuid.UUID      `json:"category_id,omitempty"`
	BrandID       *uuid.UUID      `json:"brand_id,omitempty"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	CostPrice     decimal.Decimal `json:"cost_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Barcode:       p.Barcode,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		BrandID:       p.BrandID,
		UnitOfMeasure: p.UnitOfMeasure,
		SellingPrice:  p.SellingPrice,
		CostPrice:     p.CostPrice,
		TaxRate:       p.TaxRate,
		Status:        string(p.Status),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
}
