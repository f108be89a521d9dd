// Package service gates repository writes behind the field validations and
// duplicate/existence checks the entity workflows require.
package service

import (
	"context"

	"github.com/safar/order-management/internal/database"
	"github.com/safar/order-management/internal/models"
	"github.com/safar/order-management/internal/repo"
	"github.com/safar/order-management/internal/schema"
	"github.com/safar/order-management/internal/validate"
)

type ClientService struct {
	clients *repo.Repo[models.Client]
}

func NewClientService(q repo.Querier) *ClientService {
	return &ClientService{clients: repo.New(q, schema.Clients)}
}

// Add validates the client and inserts it, returning the generated id. A
// client arriving with an id that is already persisted is a duplicate.
func (s *ClientService) Add(ctx context.Context, client models.Client) (int, error) {
	if _, found, err := s.clients.FindByID(ctx, client.ID); err != nil {
		return 0, err
	} else if found {
		return 0, database.ErrDuplicateEntity
	}

	if err := validate.Phone(client.Phone); err != nil {
		return 0, err
	}
	if err := validate.Email(client.Email); err != nil {
		return 0, err
	}

	return s.clients.Create(ctx, &client)
}

func (s *ClientService) Update(ctx context.Context, client models.Client) error {
	if _, found, err := s.clients.FindByID(ctx, client.ID); err != nil {
		return err
	} else if !found {
		return database.ErrClientNotFound
	}

	if err := validate.Phone(client.Phone); err != nil {
		return err
	}
	if err := validate.Email(client.Email); err != nil {
		return err
	}

	return s.clients.Update(ctx, client.ID, &client)
}

func (s *ClientService) Delete(ctx context.Context, id int) error {
	if _, found, err := s.clients.FindByID(ctx, id); err != nil {
		return err
	} else if !found {
		return database.ErrClientNotFound
	}

	return s.clients.Delete(ctx, id)
}

func (s *ClientService) Get(ctx context.Context, id int) (models.Client, error) {
	client, found, err := s.clients.FindByID(ctx, id)
	if err != nil {
		return models.Client{}, err
	}
	if !found {
		return models.Client{}, database.ErrClientNotFound
	}
	return client, nil
}

func (s *ClientService) List(ctx context.Context) ([]models.Client, error) {
	return s.clients.FindAll(ctx)
}
