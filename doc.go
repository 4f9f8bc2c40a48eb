// Package featgo attaches side-information feature vectors to entity IDs
// for recommender-model training.
//
// A FeatureModule is loaded with a raw mapping from entity ID to feature
// vector, re-indexed once against a canonical ID ordering into a dense
// row-major matrix, and then serves read-only batch row lookups during
// minibatch construction.
//
// # Quick Start
//
//	raw := map[string][]float32{
//	    "item-1": {0.5, 1.0, 0.0},
//	    "item-2": {1.0, 0.0, 1.0},
//	}
//
//	fm := featgo.New(featgo.WithFeatures(raw), featgo.WithNormalization())
//	if err := fm.Build([]string{"item-1", "item-2"}); err != nil {
//	    log.Fatal(err)
//	}
//
//	batch, _ := fm.BatchFeature([]int{1, 0, 1})
//	fmt.Println(batch.Rows(), batch.Dim()) // 3 3
//
// The ordered ID list usually comes from a vocab.IDMap that establishes the
// canonical row ordering shared across all feature sources of a training
// pipeline, and raw maps are typically parsed from feature files with the
// loader package.
//
// # Lifecycle
//
// Build consumes the raw map (ownership transfer; the module drops its
// reference after a successful build) and may be called exactly once.
// After a data-bearing build the module is immutable: BatchFeature is safe
// for concurrent readers. Built matrices can be persisted to and restored
// from a blob store via the persistence package.
package featgo
