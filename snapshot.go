package featgo

import (
	"context"

	"github.com/hupe1980/featgo/persistence"
)

// SaveTo persists the built feature matrix as a snapshot blob.
//
// Only a data-bearing module can be saved; otherwise ErrNoFeatureData is
// returned.
func (m *FeatureModule) SaveTo(ctx context.Context, mgr *persistence.Manager, name string) error {
	if m.state != StateBuiltWithData {
		m.logger.LogSnapshot("save", name, ErrNoFeatureData)
		return ErrNoFeatureData
	}

	err := mgr.Save(ctx, name, &persistence.Snapshot{
		Rows:       m.matrix.rows,
		Dim:        m.matrix.dim,
		Normalized: m.normalized,
		Data:       m.matrix.data,
	})
	m.logger.LogSnapshot("save", name, err)

	return err
}

// LoadFrom restores a FeatureModule from a snapshot blob.
//
// The returned module is already in the built state with data: rows were
// normalized (or not) when the snapshot was written, and Build on it
// returns ErrAlreadyBuilt. Only WithLogger is meaningful here; feature and
// normalization options are ignored in favor of the snapshot metadata.
func LoadFrom(ctx context.Context, mgr *persistence.Manager, name string, opts ...Option) (*FeatureModule, error) {
	o := options{
		logger: NoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	snap, err := mgr.Load(ctx, name)
	if err != nil {
		o.logger.LogSnapshot("load", name, err)
		return nil, err
	}

	m := &FeatureModule{
		normalized: snap.Normalized,
		logger:     o.logger,
		state:      StateBuiltWithData,
		matrix: &Matrix{
			data: snap.Data,
			rows: snap.Rows,
			dim:  snap.Dim,
		},
	}
	m.logger.LogSnapshot("load", name, nil)

	return m, nil
}
