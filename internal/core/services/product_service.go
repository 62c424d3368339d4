package services

import (
	"context"
	"errors"

	"rema-partners/internal/adapters/persistence/models"
	"rema-partners/internal/adapters/persistence/repositories"
	"rema-partners/internal/core/domain"

	"gorm.io/gorm"
)

// ProductService handles catalog business logic
type ProductService struct {
	productRepo repositories.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repositories.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateInput represents product creation input
type CreateInput struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Currency    string  `json:"currency"`
}

// Create creates a product owned by the given seller
func (s *ProductService) Create(ctx context.Context, sellerID uint, input *CreateInput) (*models.Product, error) {
	if input.Title == "" || input.Price <= 0 {
		return nil, domain.ErrInvalidInput
	}

	currency := input.Currency
	if currency == "" {
		currency = "EUR"
	}

	product := &models.Product{
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Currency:    currency,
		SellerID:    sellerID,
		Published:   true,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID gets a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

// ListPublished lists published products with pagination
func (s *ProductService) ListPublished(ctx context.Context, offset, limit int) ([]*models.Product, int64, error) {
	return s.productRepo.ListPublished(ctx, offset, limit)
}
