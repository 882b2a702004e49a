package jobs

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wishlist/api/internal/storage"
)

type fakeBucket struct {
	objects   []storage.Object
	removed   []string
	listErr   error
	removeErr map[string]error
}

func (f *fakeBucket) List(context.Context, string) ([]storage.Object, error) {
	return f.objects, f.listErr
}

func (f *fakeBucket) Remove(_ context.Context, key string) error {
	if err := f.removeErr[key]; err != nil {
		return err
	}
	f.removed = append(f.removed, key)
	return nil
}

type fakeRefs map[string]struct{}

func (f fakeRefs) ImageKeys(context.Context) (map[string]struct{}, error) {
	return f, nil
}

func TestImageSweeper(t *testing.T) {
	now := time.Date(2026, 5, 1, 3, 0, 0, 0, time.UTC)
	old := now.Add(-2 * time.Hour)
	bucket := &fakeBucket{
		objects: []storage.Object{
			{Key: "users/a/1.png", LastModified: old},
			{Key: "users/a/2.png", LastModified: old},
			{Key: "users/b/3.png", LastModified: now.Add(-time.Minute)},
			{Key: "users/c/4.png", LastModified: old},
		},
		removeErr: map[string]error{"users/c/4.png": errors.New("access denied")},
	}
	refs := fakeRefs{"users/a/1.png": {}}

	sweeper := NewImageSweeper(bucket, refs, time.Hour, zerolog.Nop())
	sweeper.now = func() time.Time { return now }

	require.NoError(t, sweeper.Run(context.Background()))
	sort.Strings(bucket.removed)
	assert.Equal(t, []string{"users/a/2.png"}, bucket.removed)
}

func TestImageSweeper_ListError(t *testing.T) {
	bucket := &fakeBucket{listErr: errors.New("unreachable")}
	err := NewImageSweeper(bucket, fakeRefs{}, time.Hour, zerolog.Nop()).Run(context.Background())
	assert.ErrorContains(t, err, "list images")
}

type countingJob struct{ runs atomic.Int32 }

func (j *countingJob) Name() string { return "counting" }
func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	return nil
}

func TestScheduler(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	assert.Error(t, s.Add("not a spec", &countingJob{}))

	job := &countingJob{}
	require.NoError(t, s.Add("* * * * * *", job))
	s.Start()
	assert.Eventually(t, func() bool { return job.runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
}

type fakePruner struct{ calls int }

func (f *fakePruner) Prune() int {
	f.calls++
	return 2
}

func TestLimiterPrune(t *testing.T) {
	p := &fakePruner{}
	require.NoError(t, NewLimiterPrune(p, zerolog.Nop()).Run(context.Background()))
	assert.Equal(t, 1, p.calls)
}
