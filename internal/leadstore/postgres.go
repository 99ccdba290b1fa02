package leadstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/AnshRaj112/multicrypto-funnel/internal/models"
)

const (
	undefinedTableCode = "42P01"
	insertPolicyName   = "Allow public insert"
)

// PostgresRemote writes leads to a Postgres pre_order table.
type PostgresRemote struct {
	db         *sql.DB
	policyRole string
	now        func() time.Time
	newID      func() string
}

// NewPostgresRemote returns a remote whose insert policy grants policyRole.
func NewPostgresRemote(db *sql.DB, policyRole string) *PostgresRemote {
	if policyRole == "" {
		policyRole = "anon"
	}
	return &PostgresRemote{
		db:         db,
		policyRole: policyRole,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
	}
}

func (p *PostgresRemote) Name() string { return "postgres" }

// SchemaStatements are the idempotent setup statements for the lead table.
func SchemaStatements(policyRole string) []string {
	policy := pq.QuoteIdentifier(insertPolicyName)
	return []string{
		`CREATE TABLE IF NOT EXISTS public.pre_order (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			nome TEXT NOT NULL,
			telefone TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_pre_order_created_at ON public.pre_order(created_at)`,
		`ALTER TABLE public.pre_order ENABLE ROW LEVEL SECURITY`,
		fmt.Sprintf(`DROP POLICY IF EXISTS %s ON public.pre_order`, policy),
		fmt.Sprintf(`CREATE POLICY %s ON public.pre_order FOR INSERT TO %s WITH CHECK (true)`,
			policy, pq.QuoteIdentifier(policyRole)),
	}
}

func (p *PostgresRemote) Probe(ctx context.Context) error {
	var id string
	err := p.db.QueryRowContext(ctx, `SELECT id FROM pre_order LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return classifyPQ(err)
}

// Exec runs raw statements in one transaction.
func (p *PostgresRemote) Exec(ctx context.Context, statements ...string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				return fmt.Errorf("%w (rollback: %v)", classifyPQ(err), rbErr)
			}
			return classifyPQ(err)
		}
	}
	return tx.Commit()
}

func (p *PostgresRemote) EnsureSchema(ctx context.Context) error {
	return p.Exec(ctx, SchemaStatements(p.policyRole)...)
}

// insertLead carries no RETURNING: under the insert-only policy the writer
// role cannot read the row back, so id and created_at are assigned here.
const insertLead = `INSERT INTO pre_order (id, nome, telefone, created_at) VALUES ($1, $2, $3, $4)`

func (p *PostgresRemote) Insert(ctx context.Context, name, phone string) (models.LeadRecord, error) {
	rec := models.LeadRecord{
		ID:             p.newID(),
		DisplayName:    name,
		CanonicalPhone: phone,
		CreatedAt:      p.now().UTC(),
	}
	if _, err := p.db.ExecContext(ctx, insertLead, rec.ID, rec.DisplayName, rec.CanonicalPhone, rec.CreatedAt); err != nil {
		return models.LeadRecord{}, classifyPQ(err)
	}
	return rec, nil
}

// classifyPQ maps SQLSTATE 42P01 onto ErrUndefinedTable.
func classifyPQ(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == undefinedTableCode {
		return fmt.Errorf("%w: %s", ErrUndefinedTable, pqErr.Message)
	}
	return err
}
