package service

import (
	"account-storefront/internal/apperr"
	"account-storefront/internal/dto"
	"account-storefront/internal/model"
	"account-storefront/internal/repository"
	"context"
	"fmt"
	"regexp"
	"strings"
)

var productSlug = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

type CatalogService interface {
	ListProducts(ctx context.Context) ([]*model.Product, error)
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	CreateProduct(ctx context.Context, req *dto.ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, productID string, req *dto.ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, productID string) error
}

type catalogServiceImpl struct {
	productRepo repository.ProductRepository
}

func NewCatalogService(
	productRepo repository.ProductRepository,
) CatalogService {
	return &catalogServiceImpl{
		productRepo: productRepo,
	}
}

func (s *catalogServiceImpl) ListProducts(ctx context.Context) ([]*model.Product, error) {
	return s.productRepo.List(ctx)
}

func (s *catalogServiceImpl) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	return s.productRepo.FindByID(ctx, productID)
}

func (s *catalogServiceImpl) CreateProduct(ctx context.Context, req *dto.ProductRequest) (*model.Product, error) {
	id := strings.TrimSpace(req.ID)
	if !productSlug.MatchString(id) {
		return nil, fmt.Errorf("product id %q must be a lowercase slug: %w", req.ID, apperr.ErrInvalidProduct)
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("product name is required: %w", apperr.ErrInvalidProduct)
	}
	if req.Price == nil || *req.Price <= 0 {
		return nil, fmt.Errorf("product price must be positive: %w", apperr.ErrInvalidProduct)
	}

	product := &model.Product{
		ID:    id,
		Name:  strings.TrimSpace(*req.Name),
		Price: *req.Price,
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Image != nil {
		product.Image = *req.Image
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("store product in db: %w", err)
	}

	return product, nil
}

func (s *catalogServiceImpl) UpdateProduct(ctx context.Context, productID string, req *dto.ProductRequest) (*model.Product, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, fmt.Errorf("product name cannot be empty: %w", apperr.ErrInvalidProduct)
		}
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, fmt.Errorf("product price must be positive: %w", apperr.ErrInvalidProduct)
		}
		updates["price"] = *req.Price
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}

	if len(updates) == 0 {
		return s.productRepo.FindByID(ctx, productID)
	}

	return s.productRepo.Update(ctx, productID, updates)
}

func (s *catalogServiceImpl) DeleteProduct(ctx context.Context, productID string) error {
	return s.productRepo.Delete(ctx, productID)
}
