package artifact

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// SaverConfig holds resource limits for batch uploads.
type SaverConfig struct {
	// Workers is the maximum number of concurrent uploads.
	// If 0, defaults to 4.
	Workers int

	// InFlightLimitBytes bounds the total size of uploads in flight.
	// If 0, no limit is enforced.
	InFlightLimitBytes int64

	// ThroughputBytesPerSec is the maximum upload throughput.
	// If 0, unlimited.
	ThroughputBytesPerSec int64
}

// Saver uploads batches of artifacts concurrently while keeping memory and
// bandwidth usage bounded. A single Saver can be shared by multiple batches.
type Saver struct {
	store   Store
	workers int

	inFlightSem   *semaphore.Weighted // nil if unlimited
	inFlightLimit int64

	limiter *rate.Limiter
}

// NewSaver creates a new Saver writing to the given store.
func NewSaver(store Store, cfg SaverConfig) *Saver {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	s := &Saver{
		store:   store,
		workers: cfg.Workers,
	}

	if cfg.InFlightLimitBytes > 0 {
		s.inFlightSem = semaphore.NewWeighted(cfg.InFlightLimitBytes)
		s.inFlightLimit = cfg.InFlightLimitBytes
	}

	if cfg.ThroughputBytesPerSec > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.ThroughputBytesPerSec), int(cfg.ThroughputBytesPerSec))
	}

	return s
}

// Save uploads all artifacts. It stops at the first failure and returns its
// error; uploads already in flight are canceled through the group context.
func (s *Saver) Save(ctx context.Context, artifacts map[string][]byte) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for name, data := range artifacts {
		g.Go(func() error {
			if err := s.acquire(ctx, int64(len(data))); err != nil {
				return err
			}
			defer s.release(int64(len(data)))

			if err := s.waitThroughput(ctx, len(data)); err != nil {
				return err
			}

			if err := s.store.Put(ctx, name, data); err != nil {
				return fmt.Errorf("save artifact %s: %w", name, err)
			}

			return nil
		})
	}

	return g.Wait()
}

func (s *Saver) acquire(ctx context.Context, size int64) error {
	if s.inFlightSem == nil {
		return nil
	}

	// An artifact larger than the whole budget still gets one full slot,
	// otherwise it could never be uploaded.
	if size > s.inFlightLimit {
		size = s.inFlightLimit
	}

	return s.inFlightSem.Acquire(ctx, size)
}

func (s *Saver) release(size int64) {
	if s.inFlightSem == nil {
		return
	}

	if size > s.inFlightLimit {
		size = s.inFlightLimit
	}

	s.inFlightSem.Release(size)
}

// waitThroughput blocks until the rate limiter admits n bytes. Requests
// larger than the burst are split so WaitN never rejects them outright.
func (s *Saver) waitThroughput(ctx context.Context, n int) error {
	if s.limiter == nil {
		return nil
	}

	burst := s.limiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}

		if err := s.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}

		n -= chunk
	}

	return nil
}
