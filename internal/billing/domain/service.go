package domain

import "context"

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context) ([]Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error

	// Recompute re-derives the charge from current usage and the room's live
	// prices. Charges never recompute implicitly on read or on price change.
	Recompute(ctx context.Context, id string) (*Response, error)
	// AppendPayment adds one ledger entry; it never triggers settlement.
	AppendPayment(ctx context.Context, id string, entry EntryRequest) (*Response, error)
	// ReplaceLedger is the destructive full-resend path.
	ReplaceLedger(ctx context.Context, id string, entries []EntryRequest) (*Response, error)
	// Settle sums the ledger and rolls the shortfall into the room's carried
	// balance. Idempotent: with no new entries a second call is a no-op.
	Settle(ctx context.Context, id string) (*SettleResponse, error)
}
