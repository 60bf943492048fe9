package repository

import (
	"errors"
	"testing"
	"time"

	"product-api/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduct() *model.Product {
	return &model.Product{
		ID:          "6f1c2c1e-8d1a-4c53-9b55-0e0f8a7a4d11",
		Name:        "Laptop",
		Description: "High-performance laptop with 16GB RAM",
		Price:       1200,
		Category:    "electronics",
		InStock:     true,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestCheckProduct(t *testing.T) {
	tests := []struct {
		name           string
		mutate         func(p *model.Product)
		expectedFields []model.FieldError
	}{
		{
			name:   "Valid product",
			mutate: func(p *model.Product) {},
		},
		{
			name:   "Zero price is allowed",
			mutate: func(p *model.Product) { p.Price = 0 },
		},
		{
			name:   "Negative price",
			mutate: func(p *model.Product) { p.Price = -5 },
			expectedFields: []model.FieldError{
				{Field: "price", Message: "price must be greater than or equal to 0"},
			},
		},
		{
			name: "Blank strings",
			mutate: func(p *model.Product) {
				p.Name = "  "
				p.Category = ""
			},
			expectedFields: []model.FieldError{
				{Field: "name", Message: "name is required"},
				{Field: "category", Message: "category is required"},
			},
		},
		{
			name:   "Missing id",
			mutate: func(p *model.Product) { p.ID = "" },
			expectedFields: []model.FieldError{
				{Field: "id", Message: "id is required"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProduct()
			tt.mutate(p)

			err := checkProduct(p)
			if tt.expectedFields == nil {
				assert.NoError(t, err)
				return
			}

			var valErr *model.ValidationError
			require.True(t, errors.As(err, &valErr))
			assert.Equal(t, tt.expectedFields, valErr.Fields)
		})
	}
}

func TestCheckInput(t *testing.T) {
	err := checkInput(model.ProductInput{
		Name:        "Kettle",
		Description: "1.7L",
		Price:       30,
		Category:    "kitchen",
	})
	assert.NoError(t, err)

	err = checkInput(model.ProductInput{Name: "Kettle", Price: -1, Category: "kitchen"})
	var valErr *model.ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Len(t, valErr.Fields, 2)
}

func TestCheckPrice(t *testing.T) {
	assert.NoError(t, checkPrice(0))
	assert.NoError(t, checkPrice(10.5))

	var valErr *model.ValidationError
	require.True(t, errors.As(checkPrice(-0.5), &valErr))
	assert.Equal(t, "price", valErr.Fields[0].Field)
}
