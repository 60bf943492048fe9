package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"product-api/internal/model"
)

// generateSampleProducts writes the sample catalogue used by the seed command,
// both as plain JSON and gzip-compressed for S3 uploads.
func main() {
	dataDir := "data"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create directory: %v\n", err)
		os.Exit(1)
	}

	inStock, outOfStock := true, false
	products := []model.ProductInput{
		{
			Name:        "Laptop",
			Description: "High-performance laptop with 16GB RAM",
			Price:       1200,
			Category:    "electronics",
			InStock:     &inStock,
		},
		{
			Name:        "Smartphone",
			Description: "Latest model with advanced camera",
			Price:       800,
			Category:    "electronics",
			InStock:     &inStock,
		},
		{
			Name:        "Coffee Maker",
			Description: "Automatic drip coffee maker",
			Price:       50,
			Category:    "kitchen",
			InStock:     &outOfStock,
		},
	}

	body, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode products: %v\n", err)
		os.Exit(1)
	}
	body = append(body, '\n')

	plainPath := filepath.Join(dataDir, "products.json")
	if err := os.WriteFile(plainPath, body, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", plainPath, err)
		os.Exit(1)
	}
	fmt.Printf("Created %s with %d products\n", plainPath, len(products))

	gzPath := plainPath + ".gz"
	if err := writeGzip(gzPath, body); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", gzPath, err)
		os.Exit(1)
	}
	fmt.Printf("Created %s\n", gzPath)
}

func writeGzip(path string, body []byte) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	if _, err := gzipWriter.Write(body); err != nil {
		return fmt.Errorf("failed to write products: %w", err)
	}

	return gzipWriter.Close()
}
