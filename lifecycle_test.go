package featgo_test

import (
	"context"
	"sync"
	"testing"

	"github.com/hupe1980/featgo"
	"github.com/hupe1980/featgo/artifact"
	"github.com/hupe1980/featgo/discretise"
	"github.com/hupe1980/featgo/encode"
	"github.com/hupe1980/featgo/frame"
	"github.com/hupe1980/featgo/snapshot"
	"github.com/hupe1980/featgo/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLifecycle_Discretise covers the full round trip for the discretiser:
// fit, transform, persist the learned state through an artifact store, and
// restore an equivalent transformer from it.
func TestLifecycle_Discretise(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(4711)
	train := rng.TrainingFrame(500)

	disc, err := discretise.New(func(o *discretise.Options) {
		o.Variables = []string{"fare", "age"}
		o.Bins = 8
	})
	require.NoError(t, err)

	expected, err := disc.FitTransform(train)
	require.NoError(t, err)

	state, err := disc.State()
	require.NoError(t, err)

	store := artifact.NewMemory()
	require.NoError(t, snapshot.Save(ctx, store, "models/discretise/v1", "discretise", state))

	var loaded discretise.State
	kind, err := snapshot.Load(ctx, store, "models/discretise/v1", &loaded)
	require.NoError(t, err)
	assert.Equal(t, "discretise", kind)

	restored, err := discretise.Restore(&loaded)
	require.NoError(t, err)

	got, err := restored.Transform(train)
	require.NoError(t, err)
	assert.True(t, expected.Equal(got))
}

// TestLifecycle_Encode covers the same round trip for the similarity encoder.
func TestLifecycle_Encode(t *testing.T) {
	ctx := context.Background()
	rng := testutil.NewRNG(4711)
	train := rng.TrainingFrame(500)

	enc, err := encode.New(func(o *encode.Options) {
		o.Variables = []string{"city", "class"}
		o.TopCategories = 4
	})
	require.NoError(t, err)

	expected, err := enc.FitTransform(train)
	require.NoError(t, err)

	state, err := enc.State()
	require.NoError(t, err)

	store := artifact.NewMemory()
	require.NoError(t, snapshot.Save(ctx, store, "models/encode/v1", "encode", state))

	var loaded encode.State
	kind, err := snapshot.Load(ctx, store, "models/encode/v1", &loaded)
	require.NoError(t, err)
	assert.Equal(t, "encode", kind)

	restored, err := encode.Restore(&loaded)
	require.NoError(t, err)

	got, err := restored.Transform(train)
	require.NoError(t, err)
	assert.True(t, expected.Equal(got))
}

// TestConcurrentTransform verifies that a fitted transformer can serve
// Transform from multiple goroutines at once.
func TestConcurrentTransform(t *testing.T) {
	rng := testutil.NewRNG(42)
	train := rng.TrainingFrame(200)

	var transformers []featgo.Transformer

	disc, err := discretise.New(func(o *discretise.Options) {
		o.Variables = []string{"fare"}
		o.Bins = 5
	})
	require.NoError(t, err)
	transformers = append(transformers, disc)

	enc, err := encode.New(func(o *encode.Options) {
		o.Variables = []string{"city"}
		o.TopCategories = 3
	})
	require.NoError(t, err)
	transformers = append(transformers, enc)

	for _, tr := range transformers {
		require.NoError(t, tr.Fit(train))

		expected, err := tr.Transform(train)
		require.NoError(t, err)

		var wg sync.WaitGroup
		results := make([]*frame.Frame, 8)
		errs := make([]error, 8)

		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = tr.Transform(train)
			}(i)
		}
		wg.Wait()

		for i := 0; i < 8; i++ {
			require.NoError(t, errs[i])
			assert.True(t, expected.Equal(results[i]))
		}
	}
}
