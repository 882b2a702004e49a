package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"wishlist/api/internal/storage"
)

const userImagePrefix = "users/"

type ImageLister interface {
	List(ctx context.Context, prefix string) ([]storage.Object, error)
	Remove(ctx context.Context, key string) error
}

type ImageReferences interface {
	ImageKeys(ctx context.Context) (map[string]struct{}, error)
}

// ImageSweeper removes stored user images that no user row points at any
// more, for example after a failed upload or a crash between the object
// write and the row update.
type ImageSweeper struct {
	store ImageLister
	refs  ImageReferences
	grace time.Duration
	now   func() time.Time
	log   zerolog.Logger
}

func NewImageSweeper(store ImageLister, refs ImageReferences, grace time.Duration, log zerolog.Logger) *ImageSweeper {
	return &ImageSweeper{
		store: store,
		refs:  refs,
		grace: grace,
		now:   time.Now,
		log:   log,
	}
}

func (s *ImageSweeper) Name() string { return "image_sweep" }

func (s *ImageSweeper) Run(ctx context.Context) error {
	// list objects first so an image uploaded mid-sweep is either
	// referenced already or younger than the grace period
	objects, err := s.store.List(ctx, userImagePrefix)
	if err != nil {
		return fmt.Errorf("list images: %w", err)
	}
	referenced, err := s.refs.ImageKeys(ctx)
	if err != nil {
		return fmt.Errorf("load image references: %w", err)
	}

	cutoff := s.now().Add(-s.grace)
	removed := 0
	for _, obj := range objects {
		if _, ok := referenced[obj.Key]; ok || obj.LastModified.After(cutoff) {
			continue
		}
		if err := s.store.Remove(ctx, obj.Key); err != nil {
			s.log.Warn().Err(err).Str("key", obj.Key).Msg("remove orphaned image failed")
			continue
		}
		removed++
	}

	s.log.Info().Int("scanned", len(objects)).Int("removed", removed).Msg("image sweep done")
	return nil
}

type Pruner interface {
	Prune() int
}

// LimiterPrune drops idle per-client rate limit buckets.
type LimiterPrune struct {
	limiter Pruner
	log     zerolog.Logger
}

func NewLimiterPrune(limiter Pruner, log zerolog.Logger) *LimiterPrune {
	return &LimiterPrune{limiter: limiter, log: log}
}

func (p *LimiterPrune) Name() string { return "limiter_prune" }

func (p *LimiterPrune) Run(context.Context) error {
	if n := p.limiter.Prune(); n > 0 {
		p.log.Debug().Int("removed", n).Msg("pruned idle rate limiters")
	}
	return nil
}
