package app

import (
	"context"

	"admithub/internal/common"
)

// TxRunner scopes one public operation to a single commit. Everything
// mutated inside fn is staged on the same transaction; mail sends are
// the only side effect outside of it.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Actor identifies the admin driving an operation, as resolved from the
// request token.
type Actor struct {
	UserID         common.UUID
	OrganizationID common.UUID
}
