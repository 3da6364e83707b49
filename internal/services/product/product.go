// Package services implements the product catalog: public reads plus the
// admin CRUD.
package services

import (
	"context"
	"log/slog"

	"github.com/coddink/interview-backend/internal/models"
	"github.com/coddink/interview-backend/internal/storage/repository"
)

// ProductRepository is the catalog storage contract.
type ProductRepository interface {
	CreateProduct(ctx context.Context, req models.CreateProductRequest) (int64, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	UpdateProduct(ctx context.Context, id int64, req models.EditProductRequest) (int, error)
	DeleteProduct(ctx context.Context, id int64) (int, error)
}

type ProductService struct {
	repo ProductRepository
	log  *slog.Logger
}

func NewProductService(repo ProductRepository, log *slog.Logger) *ProductService {
	return &ProductService{repo: repo, log: log}
}

func (s *ProductService) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	id, err := s.repo.CreateProduct(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("product created", slog.Int64("product_id", id))
	return s.repo.GetProductByID(ctx, id)
}

func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	return s.repo.GetProductByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context) ([]*models.Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *ProductService) Update(ctx context.Context, id int64, req models.EditProductRequest) (*models.Product, error) {
	count, err := s.repo.UpdateProduct(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, repository.ErrProductNotFound
	}
	return s.repo.GetProductByID(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id int64) error {
	count, err := s.repo.DeleteProduct(ctx, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return repository.ErrProductNotFound
	}
	return nil
}
