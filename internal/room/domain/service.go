package domain

import "context"

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	// AdjustBalance applies a signed delta to the carried balance. It is the
	// only client-facing path to the balance field.
	AdjustBalance(ctx context.Context, req AdjustBalanceRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
}
