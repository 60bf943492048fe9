package model

import (
	"math"
	"time"
)

// Product represents a product in the catalogue.
type Product struct {
	ID          string    `json:"id" bson:"id" db:"id" validate:"required"`
	Name        string    `json:"name" bson:"name" db:"name" validate:"required,notblank"`
	Description string    `json:"description" bson:"description" db:"description" validate:"required,notblank"`
	Price       float64   `json:"price" bson:"price" db:"price" validate:"gte=0"`
	Category    string    `json:"category" bson:"category" db:"category" validate:"required,notblank"`
	InStock     bool      `json:"inStock" bson:"inStock" db:"in_stock"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" db:"created_at" validate:"required"`
}

// ProductInput is the payload accepted by create and full-replace requests.
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	InStock     *bool   `json:"inStock,omitempty"`
}

// ProductQuery holds the list filters and pagination parameters.
type ProductQuery struct {
	Category string
	Name     string
	Page     int
	Limit    int
}

// Skip returns the number of records preceding the requested page.
func (q ProductQuery) Skip() int64 {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	if int64(q.Page-1) > math.MaxInt64/int64(q.Limit) {
		return math.MaxInt64
	}
	return int64(q.Page-1) * int64(q.Limit)
}

// ProductPage is one page of a filtered product listing.
type ProductPage struct {
	Status        string    `json:"status"`
	Results       int       `json:"results"`
	TotalProducts int64     `json:"totalProducts"`
	CurrentPage   int       `json:"currentPage"`
	TotalPages    int64     `json:"totalPages"`
	Data          []Product `json:"data"`
}

// CategoryStats holds aggregate figures for one product category.
type CategoryStats struct {
	Category     string  `json:"category" bson:"_id"`
	ProductCount int64   `json:"productCount" bson:"productCount"`
	TotalStock   int64   `json:"totalStock" bson:"totalStock"`
	AvgPrice     float64 `json:"avgPrice" bson:"avgPrice"`
	MinPrice     float64 `json:"minPrice" bson:"minPrice"`
	MaxPrice     float64 `json:"maxPrice" bson:"maxPrice"`
}
