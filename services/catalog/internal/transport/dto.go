package transport

import "github.com/shopspring/decimal"

type CreateProductRequest struct {
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"image_url"`
	Size        *string          `json:"size"`
	Weight      *float64         `json:"weight"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	IVA         *decimal.Decimal `json:"iva"`
	CategoryID  *uint            `json:"category_id"`
}

type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"image_url"`
	Size        *string          `json:"size"`
	Weight      *float64         `json:"weight"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	IVA         *decimal.Decimal `json:"iva"`
	CategoryID  *uint            `json:"category_id"`
}

type CreateCategoryRequest struct {
	Name string `json:"name"`
}
