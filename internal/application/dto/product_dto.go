package dto

import "time"

// CreateProductRequest entrada para crear un producto. El stock nace en 0 con costo 0.
type CreateProductRequest struct {
	SKU               string   `json:"sku" validate:"required,min=1,max=100"`
	Name              string   `json:"name" validate:"required,min=1,max=200"`
	Category          string   `json:"category" validate:"max=100"`
	Description       string   `json:"description"`
	Tags              []string `json:"tags" validate:"omitempty,dive,min=1,max=50"`
	LowStockThreshold int      `json:"low_stock_threshold" validate:"gte=0"`
}

// UpdateProductRequest campos descriptivos editables (el SKU no cambia).
type UpdateProductRequest struct {
	Name              string   `json:"name" validate:"required,min=1,max=200"`
	Category          string   `json:"category" validate:"max=100"`
	Description       string   `json:"description"`
	Tags              []string `json:"tags" validate:"omitempty,dive,min=1,max=50"`
	LowStockThreshold int      `json:"low_stock_threshold" validate:"gte=0"`
}

// ProductFilter filtros de GET /api/products.
type ProductFilter struct {
	Query    string `query:"q"`
	SKU      string `query:"sku"`
	Category string `query:"category"`
	Tag      string `query:"tag"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                string    `json:"product_id"`
	SKU               string    `json:"sku"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	Description       string    `json:"description"`
	Tags              []string  `json:"tags"`
	LowStockThreshold int       `json:"low_stock_threshold"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ProductMetaResponse categorías y etiquetas en uso por productos activos.
type ProductMetaResponse struct {
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

// CatalogImportResponse resultado de la importación de catálogo.
type CatalogImportResponse struct {
	Message     string `json:"message"`
	Created     int    `json:"created"`
	Reactivated int    `json:"reactivated"`
}
