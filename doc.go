// Package featgo provides fit/transform feature engineering for tabular data.
//
// Featgo transforms raw columns into model-ready features using the classic
// estimator contract: a transformer learns its parameters from a training
// frame (Fit) and applies them to any compatible frame afterwards (Transform).
// Learned state never changes after a successful fit, so a fitted transformer
// is safe for concurrent Transform calls.
//
// # Quick Start
//
// Discretise skewed numeric columns into bins of increasing width:
//
//	disc, _ := discretise.New(func(o *discretise.Options) {
//		o.Variables = []string{"fare"}
//		o.Bins = 8
//	})
//	binned, _ := disc.FitTransform(train)
//
// Encode high-cardinality categoricals as similarity scores against the most
// frequent categories:
//
//	enc, _ := encode.New(func(o *encode.Options) {
//		o.Variables = []string{"city"}
//		o.TopCategories = 10
//	})
//	encoded, _ := enc.FitTransform(train)
//
// # Persistence
//
// Fitted state serializes into a self-describing snapshot envelope that can
// live on the local filesystem, in memory or in object storage:
//
//	state, _ := enc.State()
//	_ = snapshot.Save(ctx, store, "models/city/v1", "encode", state)
//
// # Key Features
//
//   - Increasing width discretisation with open-ended outer intervals
//   - String similarity encoding with a bounded, frequency-ranked vocabulary
//   - Typed column container with roaring null masks and a CSV bridge
//   - Pluggable similarity scorers (quick ratio, Ratcliff/Obershelp, Jaccard, Levenshtein)
//   - Snapshots on local disk, S3, MinIO with optional zstd/lz4 compression
//   - CLI for fitting and applying feature pipelines to CSV files
package featgo
