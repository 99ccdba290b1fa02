// Package leadstore persists captured leads. A configured remote store is
// tried first, healing a missing table on the way; any remote failure falls
// back to the device-local log. Only a failed local write reaches the caller.
package leadstore

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/AnshRaj112/multicrypto-funnel/internal/apperr"
	"github.com/AnshRaj112/multicrypto-funnel/internal/models"
)

// KeySaveError is shown when neither store accepted the lead.
const KeySaveError = "capture.saveError"

const defaultRemoteTimeout = 5 * time.Second

type Store struct {
	remote   Remote
	local    *LocalLog
	selfHeal bool
	timeout  time.Duration
	logger   *zap.Logger
}

type Option func(*Store)

// WithRemote enables the remote path. A nil remote leaves it disabled.
func WithRemote(r Remote) Option {
	return func(s *Store) { s.remote = r }
}

// WithSelfHeal controls whether a missing remote table is created on demand.
func WithSelfHeal(enabled bool) Option {
	return func(s *Store) { s.selfHeal = enabled }
}

// WithRemoteTimeout bounds each remote call.
func WithRemoteTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func New(local *LocalLog, opts ...Option) *Store {
	s := &Store{
		local:    local,
		selfHeal: true,
		timeout:  defaultRemoteTimeout,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Local exposes the fallback log.
func (s *Store) Local() *LocalLog { return s.local }

// RemoteConfigured reports whether a remote store is wired in.
func (s *Store) RemoteConfigured() bool { return s.remote != nil }

// Submit records one lead. Once started it runs to completion even if ctx
// is cancelled; the returned error is always apperr.PersistenceExhausted.
func (s *Store) Submit(ctx context.Context, name, phone string) (models.LeadRecord, error) {
	ctx = context.WithoutCancel(ctx)

	if s.remote != nil {
		rec, err := s.submitRemote(ctx, name, phone)
		if err == nil {
			rec.Source = models.SourceRemote
			return rec, nil
		}
		s.logger.Warn("remote lead store failed, using local log",
			zap.String("remote", s.remote.Name()),
			zap.Stringer("kind", apperr.KindOf(err)),
			zap.Error(err))
	}

	rec, err := s.local.Append(ctx, name, phone)
	if err != nil {
		s.logger.Error("local lead log write failed", zap.Error(err))
		return models.LeadRecord{}, apperr.New(apperr.PersistenceExhausted, KeySaveError, err)
	}
	return rec, nil
}

// submitRemote is the sequential remote pipeline:
// probe -> (heal) -> insert -> (heal -> insert once more).
// Every failure comes back as an *apperr.Error of kind SchemaMissing or RemoteUnavailable.
func (s *Store) submitRemote(ctx context.Context, name, phone string) (models.LeadRecord, error) {
	if err := s.probe(ctx); err != nil {
		if apperr.KindOf(err) != apperr.SchemaMissing {
			return models.LeadRecord{}, err
		}
		if err := s.heal(ctx); err != nil {
			return models.LeadRecord{}, err
		}
	}

	rec, err := s.insert(ctx, name, phone)
	if apperr.KindOf(err) == apperr.SchemaMissing {
		// Another client may have dropped or not yet created the table.
		if err := s.heal(ctx); err != nil {
			return models.LeadRecord{}, err
		}
		rec, err = s.insert(ctx, name, phone)
	}
	return rec, err
}

func (s *Store) probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return classify(s.remote.Probe(ctx))
}

func (s *Store) insert(ctx context.Context, name, phone string) (models.LeadRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rec, err := s.remote.Insert(ctx, name, phone)
	return rec, classify(err)
}

func (s *Store) heal(ctx context.Context) error {
	if !s.selfHeal {
		return apperr.New(apperr.SchemaMissing, "", ErrUndefinedTable)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Info("remote lead table missing, creating it", zap.String("remote", s.remote.Name()))
	if err := s.remote.EnsureSchema(ctx); err != nil {
		return apperr.New(apperr.RemoteUnavailable, "", err)
	}
	return nil
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case IsUndefinedTable(err):
		return apperr.New(apperr.SchemaMissing, "", err)
	default:
		return apperr.New(apperr.RemoteUnavailable, "", err)
	}
}
