package leadstore

import (
	"context"
	"errors"

	"github.com/AnshRaj112/multicrypto-funnel/internal/models"
)

// TableName is the remote relation leads are written to.
const TableName = "pre_order"

// ErrUndefinedTable is wrapped by Remote implementations when the target
// relation does not exist.
var ErrUndefinedTable = errors.New("undefined table")

// Remote is the optional remote lead store.
type Remote interface {
	Name() string
	// Probe is a lightweight read that fails with ErrUndefinedTable when the table is absent.
	Probe(ctx context.Context) error
	// EnsureSchema idempotently creates the table and its insert policy.
	EnsureSchema(ctx context.Context) error
	Insert(ctx context.Context, name, phone string) (models.LeadRecord, error)
}

// IsUndefinedTable reports whether err means the remote table is missing.
func IsUndefinedTable(err error) bool {
	return errors.Is(err, ErrUndefinedTable)
}
