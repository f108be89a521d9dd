package service

import (
	"context"

	"github.com/safar/order-management/internal/database"
	"github.com/safar/order-management/internal/models"
	"github.com/safar/order-management/internal/repo"
	"github.com/safar/order-management/internal/schema"
	"github.com/safar/order-management/internal/validate"
)

type ProductService struct {
	products *repo.Repo[models.Product]
}

func NewProductService(q repo.Querier) *ProductService {
	return &ProductService{products: repo.New(q, schema.Products)}
}

func (s *ProductService) Add(ctx context.Context, product models.Product) (int, error) {
	if _, found, err := s.products.FindByID(ctx, product.ID); err != nil {
		return 0, err
	} else if found {
		return 0, database.ErrDuplicateEntity
	}

	if err := validate.Price(product.Price); err != nil {
		return 0, err
	}

	return s.products.Create(ctx, &product)
}

func (s *ProductService) Update(ctx context.Context, product models.Product) error {
	if _, found, err := s.products.FindByID(ctx, product.ID); err != nil {
		return err
	} else if !found {
		return database.ErrProductNotFound
	}

	if err := validate.Price(product.Price); err != nil {
		return err
	}

	return s.products.Update(ctx, product.ID, &product)
}

func (s *ProductService) Delete(ctx context.Context, id int) error {
	if _, found, err := s.products.FindByID(ctx, id); err != nil {
		return err
	} else if !found {
		return database.ErrProductNotFound
	}

	return s.products.Delete(ctx, id)
}

func (s *ProductService) Get(ctx context.Context, id int) (models.Product, error) {
	product, found, err := s.products.FindByID(ctx, id)
	if err != nil {
		return models.Product{}, err
	}
	if !found {
		return models.Product{}, database.ErrProductNotFound
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	return s.products.FindAll(ctx)
}
