package leadstore

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AnshRaj112/multicrypto-funnel/internal/kv"
	"github.com/AnshRaj112/multicrypto-funnel/internal/models"
)

// LocalLog is the append-only lead queue kept in the device's key/value
// store under kv.KeyPreorders. Insertion order is preserved.
type LocalLog struct {
	store  kv.Store
	now    func() time.Time
	newID  func() string
	logger *zap.Logger

	mu sync.Mutex
}

type LocalOption func(*LocalLog)

func WithLocalLogger(logger *zap.Logger) LocalOption {
	return func(l *LocalLog) {
		if logger != nil {
			l.logger = logger
		}
	}
}

func NewLocalLog(store kv.Store, opts ...LocalOption) *LocalLog {
	l := &LocalLog{
		store:  store,
		now:    time.Now,
		newID:  func() string { return uuid.New().String() },
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append assigns a local id and appends the lead.
func (l *LocalLog) Append(ctx context.Context, name, phone string) (models.LeadRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.loadForAppend(ctx)
	if err != nil {
		return models.LeadRecord{}, err
	}

	rec := models.LeadRecord{
		ID:             l.newID(),
		DisplayName:    name,
		CanonicalPhone: phone,
		CreatedAt:      l.now().UTC(),
	}
	records = append(records, rec)
	if err := kv.SetJSON(ctx, l.store, kv.KeyPreorders, records); err != nil {
		return models.LeadRecord{}, err
	}

	rec.Source = models.SourceLocal
	return rec, nil
}

// loadForAppend reads the queue. An undecodable value is copied to a
// quarantine key and the queue restarts empty; the copy must succeed first.
func (l *LocalLog) loadForAppend(ctx context.Context) ([]models.LeadRecord, error) {
	raw, ok, err := l.store.Get(ctx, kv.KeyPreorders)
	if err != nil || !ok {
		return nil, err
	}
	var records []models.LeadRecord
	jerr := json.Unmarshal([]byte(raw), &records)
	if jerr == nil {
		return records, nil
	}
	key := QuarantineKey(l.now())
	if err := l.store.Set(ctx, key, raw); err != nil {
		return nil, err
	}
	l.logger.Warn("unreadable local lead queue moved aside",
		zap.String("quarantine_key", key), zap.Error(jerr))
	return nil, nil
}

// QuarantineKey is where an unreadable queue found at t is kept for operators.
func QuarantineKey(t time.Time) string {
	return kv.KeyPreorders + "_unreadable_" + strconv.FormatInt(t.UnixMilli(), 10)
}

// List returns every queued lead, oldest first.
func (l *LocalLog) List(ctx context.Context) ([]models.LeadRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	records := []models.LeadRecord{}
	if _, err := kv.GetJSON(ctx, l.store, kv.KeyPreorders, &records); err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Source = models.SourceLocal
	}
	return records, nil
}
