package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"bank_ledger/internal/domain"
	"bank_ledger/internal/repository"
)

type CustomerRegistry struct {
	mu        sync.RWMutex
	customers map[string]*domain.Customer
}

func NewCustomerRegistry() *CustomerRegistry {
	return &CustomerRegistry{
		customers: make(map[string]*domain.Customer),
	}
}

func (r *CustomerRegistry) Save(ctx context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.customers[customer.ID]; exists {
		return fmt.Errorf("%w: customer %s", repository.ErrDuplicate, customer.ID)
	}

	r.customers[customer.ID] = customer

	return nil
}

func (r *CustomerRegistry) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, exists := r.customers[id]
	if !exists {
		return nil, fmt.Errorf("%w: customer %s", repository.ErrNotFound, id)
	}
	return customer, nil
}

func (r *CustomerRegistry) GetAll(ctx context.Context) ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*domain.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		result = append(result, customer)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result, nil
}

func (r *CustomerRegistry) Update(ctx context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.customers[customer.ID]; !exists {
		return fmt.Errorf("%w: customer %s", repository.ErrNotFound, customer.ID)
	}

	r.customers[customer.ID] = customer

	return nil
}
