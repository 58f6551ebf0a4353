package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ahmad-hanafi1/product-store-pern/internal/domain"
	"github.com/ahmad-hanafi1/product-store-pern/internal/dto"
	"github.com/ahmad-hanafi1/product-store-pern/internal/repository"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/logger"
)

// ProductService defines catalog operations
type ProductService interface {
	ListProducts(ctx context.Context) ([]*domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, req *dto.ProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, req *dto.ProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type productService struct {
	repo repository.ProductRepository
	log  *logger.Logger
}

// NewProductService creates a new ProductService
func NewProductService(repo repository.ProductRepository, log *logger.Logger) ProductService {
	if log == nil {
		log = logger.NewNop()
	}
	return &productService{repo: repo, log: log}
}

func (s *productService) ListProducts(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.internal("product.List", err)
	}
	return products, nil
}

func (s *productService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "product.Get"

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.internal(op, err)
	}
	if product == nil {
		return nil, domain.Wrap(domain.ErrProductNotFound, op, nil)
	}
	return product, nil
}

func (s *productService) CreateProduct(ctx context.Context, req *dto.ProductRequest) (*domain.Product, error) {
	const op = "product.Create"

	req.Normalize()
	if ok, msg := req.Validate(); !ok {
		return nil, domain.E(domain.KindValidation, op, msg, nil)
	}

	product := &domain.Product{Name: req.Name, Price: req.Price, Image: req.Image}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, s.internal(op, err)
	}
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int64, req *dto.ProductRequest) (*domain.Product, error) {
	const op = "product.Update"

	req.Normalize()
	if ok, msg := req.Validate(); !ok {
		return nil, domain.E(domain.KindValidation, op, msg, nil)
	}

	updated, err := s.repo.Update(ctx, &domain.Product{ID: id, Name: req.Name, Price: req.Price, Image: req.Image})
	if err != nil {
		return nil, s.internal(op, err)
	}
	if updated == nil {
		return nil, domain.Wrap(domain.ErrProductNotFound, op, nil)
	}
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) error {
	const op = "product.Delete"

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return s.internal(op, err)
	}
	if !deleted {
		return domain.Wrap(domain.ErrProductNotFound, op, nil)
	}
	return nil
}

func (s *productService) internal(op string, err error) error {
	s.log.Error("product operation failed", zap.String("op", op), zap.Error(err))
	return domain.E(domain.KindInternal, op, "store failure", err)
}
