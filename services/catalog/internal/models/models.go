package models

import "github.com/shopspring/decimal"

type Product struct {
	ID          uint             `gorm:"primaryKey;autoIncrement"      json:"id"`
	Name        string           `gorm:"uniqueIndex;not null"          json:"name"`
	Description *string          `gorm:"type:text"                     json:"description"`
	ImageURL    *string          `json:"image_url"`
	Size        *string          `json:"size"`
	Weight      *float64         `json:"weight"`
	UnitPrice   decimal.Decimal  `gorm:"type:numeric(12,2);not null"   json:"unit_price"`
	IVA         decimal.Decimal  `gorm:"type:numeric(5,2);not null"    json:"iva"`
	CategoryID  *uint            `gorm:"index"                         json:"category_id"`
	Category    *Category        `json:"category,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null"     json:"name"`
}

func (Category) TableName() string {
	return "categories"
}
