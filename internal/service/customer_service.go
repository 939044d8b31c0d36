package service

import (
	"context"
	"time"

	"storefront-admin-server/internal/domain"
	"storefront-admin-server/internal/repository"

	"github.com/google/uuid"
)

type CustomerService struct {
	repo   repository.CustomerRepository
	events EventPublisher
}

func NewCustomerService(repo repository.CustomerRepository, events EventPublisher) *CustomerService {
	return &CustomerService{
		repo:   repo,
		events: publisherOrNoop(events),
	}
}

func (s *CustomerService) Create(ctx context.Context, in *domain.CustomerInput) (*domain.Customer, error) {
	now := time.Now()
	customer := &domain.Customer{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	applyCustomerInput(customer, in)

	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.events.Publish(EventCustomerCreated, customer)
	return customer, nil
}

func (s *CustomerService) List(ctx context.Context) ([]*domain.Customer, error) {
	return s.repo.List(ctx)
}

func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *CustomerService) Update(ctx context.Context, id string, in *domain.CustomerInput) (*domain.Customer, error) {
	customer, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	applyCustomerInput(customer, in)
	customer.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, err
	}

	s.events.Publish(EventCustomerUpdated, customer)
	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.events.Publish(EventCustomerDeleted, deletedPayload{ID: id})
	return nil
}

func applyCustomerInput(c *domain.Customer, in *domain.CustomerInput) {
	c.Name = in.Name
	c.Email = in.Email
	c.Phone = in.Phone
	c.City = in.City
	c.Address = in.Address
	c.Occupation = in.Occupation
}
