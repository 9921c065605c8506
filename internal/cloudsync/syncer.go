package cloudsync

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/cognify-quest/internal/profile"
)

// DefaultTimeout bounds a single background push.
const DefaultTimeout = 10 * time.Second

// Status is the outcome of the last sync attempt.
type Status struct {
	LastAttempt time.Time
	LastSuccess time.Time
	LastErr     error
}

// Syncer pushes and pulls profiles. All methods are safe for concurrent
// use and a nil *Syncer is a no-op, so callers can run without a remote.
type Syncer struct {
	remote  Remote
	logger  *log.Logger
	timeout time.Duration

	mu     sync.Mutex
	status Status
	wg     sync.WaitGroup
}

// NewSyncer creates a syncer. A nil logger discards output.
func NewSyncer(remote Remote, logger *log.Logger) *Syncer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Syncer{remote: remote, logger: logger, timeout: DefaultTimeout}
}

// SetTimeout changes the per-push timeout used by PushAsync.
func (s *Syncer) SetTimeout(d time.Duration) {
	if s == nil || d <= 0 {
		return
	}
	s.timeout = d
}

// Push saves p remotely.
func (s *Syncer) Push(ctx context.Context, p *profile.Profile) error {
	if s == nil {
		return nil
	}
	err := wrap("push", s.remote.SaveProfile(ctx, p))
	s.record(err)
	if err != nil {
		s.logger.Warn("profile push failed", "profile", p.ID, "transient", IsTransient(err), "err", err)
		return err
	}
	s.logger.Debug("profile pushed", "profile", p.ID)
	return nil
}

// PushAsync pushes a copy of p in the background. The outcome is only
// visible through Status.
func (s *Syncer) PushAsync(p *profile.Profile) {
	if s == nil || p == nil {
		return
	}
	c := p.Clone()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		_ = s.Push(ctx, c)
	}()
}

// Wait blocks until background pushes have finished.
func (s *Syncer) Wait() {
	if s == nil {
		return
	}
	s.wg.Wait()
}

// Pull fetches the remote copy of profile id.
func (s *Syncer) Pull(ctx context.Context, id uuid.UUID) (*profile.Profile, error) {
	if s == nil {
		return nil, nil
	}
	p, err := s.remote.FetchProfile(ctx, id)
	err = wrap("pull", err)
	s.record(err)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Sync pulls the remote copy of local, keeps whichever was played more
// recently and pushes it back. The chosen profile is returned even when
// the push fails.
func (s *Syncer) Sync(ctx context.Context, local *profile.Profile) (*profile.Profile, error) {
	if s == nil {
		return local, nil
	}
	remote, err := s.Pull(ctx, local.ID)
	if err != nil && !isNotFound(err) {
		return local, err
	}
	merged := Reconcile(local, remote)
	return merged, s.Push(ctx, merged)
}

// Available reports whether the remote store answers a ping.
func (s *Syncer) Available(ctx context.Context) bool {
	if s == nil {
		return false
	}
	return s.remote.Ping(ctx) == nil
}

// Status returns the outcome of the last attempt.
func (s *Syncer) Status() Status {
	if s == nil {
		return Status{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Syncer) record(err error) {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastAttempt = now
	s.status.LastErr = err
	if err == nil {
		s.status.LastSuccess = now
	}
}

// Reconcile picks the copy with the later LastPlayedAt. Ties and missing
// timestamps keep local.
func Reconcile(local, remote *profile.Profile) *profile.Profile {
	switch {
	case remote == nil:
		return local
	case local == nil:
		return remote
	case remote.LastPlayedAt == nil:
		return local
	case local.LastPlayedAt == nil:
		return remote
	case remote.LastPlayedAt.After(*local.LastPlayedAt):
		return remote
	default:
		return local
	}
}
