package leadstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingDriver is a database/sql driver that records executed statements
// and fails those containing failOn.
type recordingDriver struct {
	mu          sync.Mutex
	execs       []string
	args        [][]driver.NamedValue
	failOn      string
	failErr     error
	rollbackErr error
	rollbacks   int
	commits     int
}

func (d *recordingDriver) Open(string) (driver.Conn, error) { return &recordingConn{d: d}, nil }

type recordingConn struct{ d *recordingDriver }

func (c *recordingConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("prepare not supported")
}

func (c *recordingConn) Close() error { return nil }

func (c *recordingConn) Begin() (driver.Tx, error) { return &recordingTx{d: c.d}, nil }

func (c *recordingConn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	c.d.mu.Lock()
	defer c.d.mu.Unlock()
	c.d.execs = append(c.d.execs, query)
	c.d.args = append(c.d.args, args)
	if c.d.failOn != "" && strings.Contains(query, c.d.failOn) {
		return nil, c.d.failErr
	}
	return driver.RowsAffected(1), nil
}

type recordingTx struct{ d *recordingDriver }

func (t *recordingTx) Commit() error {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	t.d.commits++
	return nil
}

func (t *recordingTx) Rollback() error {
	t.d.mu.Lock()
	defer t.d.mu.Unlock()
	t.d.rollbacks++
	return t.d.rollbackErr
}

type recordingConnector struct{ d *recordingDriver }

func (c recordingConnector) Connect(context.Context) (driver.Conn, error) { return c.d.Open("") }
func (c recordingConnector) Driver() driver.Driver                         { return c.d }

func newRecordingRemote(t *testing.T, d *recordingDriver) *PostgresRemote {
	t.Helper()
	db := sql.OpenDB(recordingConnector{d: d})
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRemote(db, "anon")
}

func TestPostgresInsert_AssignsIDWithoutReadBack(t *testing.T) {
	d := &recordingDriver{}
	p := newRecordingRemote(t, d)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	p.now = func() time.Time { return at }
	p.newID = func() string { return "11111111-2222-3333-4444-555555555555" }

	rec, err := p.Insert(context.Background(), "Ana", "+5511999999999")
	require.NoError(t, err)
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", rec.ID)
	assert.Equal(t, "Ana", rec.DisplayName)
	assert.Equal(t, "+5511999999999", rec.CanonicalPhone)
	assert.True(t, at.Equal(rec.CreatedAt))
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())

	require.Len(t, d.execs, 1)
	assert.NotContains(t, strings.ToUpper(d.execs[0]), "RETURNING")
	assert.Contains(t, d.execs[0], "(id, nome, telefone, created_at)")
	require.Len(t, d.args[0], 4)
	assert.Equal(t, rec.ID, d.args[0][0].Value)
}

func TestPostgresInsert_ClassifiesMissingTable(t *testing.T) {
	d := &recordingDriver{
		failOn:  "INSERT INTO pre_order",
		failErr: &pq.Error{Code: "42P01", Message: `relation "pre_order" does not exist`},
	}
	_, err := newRecordingRemote(t, d).Insert(context.Background(), "Ana", "+5511999999999")
	assert.True(t, IsUndefinedTable(err))
}

func TestPostgresExec_RollsBackOnFailure(t *testing.T) {
	d := &recordingDriver{failOn: "ENABLE ROW LEVEL SECURITY", failErr: errors.New("permission denied")}
	p := newRecordingRemote(t, d)

	err := p.EnsureSchema(context.Background())
	require.EqualError(t, err, "permission denied")
	assert.Equal(t, 1, d.rollbacks)
	assert.Zero(t, d.commits)
	assert.Len(t, d.execs, 3)
}

func TestPostgresExec_ReportsRollbackFailure(t *testing.T) {
	d := &recordingDriver{
		failOn:      "CREATE TABLE",
		failErr:     &pq.Error{Code: "42P01", Message: "missing schema"},
		rollbackErr: errors.New("connection reset"),
	}
	err := newRecordingRemote(t, d).EnsureSchema(context.Background())
	require.Error(t, err)
	assert.True(t, IsUndefinedTable(err))
	assert.Contains(t, err.Error(), "rollback: connection reset")
	assert.Equal(t, 1, d.rollbacks)
}

func TestPostgresExec_CommitsAllStatements(t *testing.T) {
	d := &recordingDriver{}
	require.NoError(t, newRecordingRemote(t, d).EnsureSchema(context.Background()))
	assert.Len(t, d.execs, len(SchemaStatements("anon")))
	assert.Equal(t, 1, d.commits)
	assert.Zero(t, d.rollbacks)
}
