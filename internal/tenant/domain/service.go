package domain

import "context"

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	// Transfer moves a tenant to another room atomically; both rooms' occupant
	// sets follow from the tenant's room reference once the transaction commits.
	Transfer(ctx context.Context, req TransferRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}
