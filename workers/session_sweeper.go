package workers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/camden-git/personsweb/repository"
)

// SessionSweeper periodically drops page sessions that have not been written
// within TTL.
type SessionSweeper struct {
	Repo     repository.SessionRepository
	TTL      time.Duration
	Interval time.Duration
	Log      *zap.Logger
	Now      func() time.Time
}

func NewSessionSweeper(repo repository.SessionRepository, ttl, interval time.Duration, log *zap.Logger) *SessionSweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionSweeper{
		Repo:     repo,
		TTL:      ttl,
		Interval: interval,
		Log:      log.Named("sweeper"),
		Now:      time.Now,
	}
}

// Run sweeps every Interval until ctx is cancelled. A zero TTL disables sweeping.
func (s *SessionSweeper) Run(ctx context.Context) error {
	if s.TTL <= 0 {
		s.Log.Info("session sweeping disabled")
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	s.Log.Info("session sweeper started", zap.Duration("ttl", s.TTL), zap.Duration("interval", s.Interval))

	for {
		select {
		case <-ticker.C:
			if _, err := s.SweepOnce(); err != nil {
				s.Log.Error("session sweep failed", zap.Error(err))
			}
		case <-ctx.Done():
			s.Log.Info("session sweeper stopping")
			return nil
		}
	}
}

// SweepOnce deletes every session last written before Now minus TTL.
func (s *SessionSweeper) SweepOnce() (int64, error) {
	cutoff := s.Now().Add(-s.TTL)
	n, err := s.Repo.DeleteExpired(cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.Log.Debug("expired sessions removed", zap.Int64("count", n), zap.Time("cutoff", cutoff))
	}
	return n, nil
}
