package featgo

import (
	"github.com/hupe1980/featgo/internal/math32"
)

// State describes the build lifecycle of a FeatureModule.
type State uint8

const (
	// StateUnbuilt means Build has not been called yet.
	StateUnbuilt State = iota
	// StateBuiltEmpty means Build ran without feature data; this is a valid
	// terminal state ("no feature data configured").
	StateBuiltEmpty
	// StateBuiltWithData means Build produced a feature matrix.
	StateBuiltWithData
)

// String returns a string representation of the State.
func (s State) String() string {
	switch s {
	case StateUnbuilt:
		return "unbuilt"
	case StateBuiltEmpty:
		return "built-empty"
	case StateBuiltWithData:
		return "built"
	default:
		return "unknown"
	}
}

// FeatureModule indexes side-information feature vectors by entity ID and
// serves batch row lookups for model training.
//
// A module is constructed with a raw ID → vector mapping, built exactly once
// against a canonical ID ordering, and read-only afterwards. Build must
// happen-before any BatchFeature call; once built, concurrent readers are
// safe.
type FeatureModule struct {
	raw        map[string][]float32
	normalized bool
	logger     *Logger

	state  State
	matrix *Matrix
}

// New creates a FeatureModule. Without WithFeatures the module carries no
// raw data and Build terminates in the built-empty state.
func New(opts ...Option) *FeatureModule {
	o := options{
		logger: NoopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &FeatureModule{
		raw:        o.raw,
		normalized: o.normalized,
		logger:     o.logger,
	}
}

// Build re-indexes the raw feature map into a dense matrix whose row i holds
// the feature vector of orderedIDs[i].
//
// If orderedIDs is empty or no raw features were supplied, the module ends
// in the built-empty state without error. A successful data-bearing build
// drains the raw map (ownership transfer) and optionally L2-normalizes each
// row; zero-norm rows stay all-zero.
//
// Build may be called exactly once; further calls return ErrAlreadyBuilt.
// On a lookup or dimension failure the module stays unbuilt and keeps its
// raw map, so the caller may retry with a corrected ordering.
func (m *FeatureModule) Build(orderedIDs []string) error {
	if m.state != StateUnbuilt {
		return ErrAlreadyBuilt
	}

	if len(orderedIDs) == 0 || len(m.raw) == 0 {
		m.raw = nil
		m.state = StateBuiltEmpty
		m.logger.LogBuild(0, 0, m.normalized, nil)
		return nil
	}

	dim := -1
	var data []float32
	for _, id := range orderedIDs {
		vec, ok := m.raw[id]
		if !ok {
			err := &ErrMissingFeature{ID: id}
			m.logger.LogBuild(0, 0, m.normalized, err)
			return err
		}
		if dim < 0 {
			dim = len(vec)
			data = make([]float32, 0, len(orderedIDs)*dim)
		} else if len(vec) != dim {
			err := &ErrInconsistentDimension{ID: id, Expected: dim, Actual: len(vec)}
			m.logger.LogBuild(0, 0, m.normalized, err)
			return err
		}
		data = append(data, vec...)
	}

	mat := &Matrix{
		data: data,
		rows: len(orderedIDs),
		dim:  dim,
	}

	if m.normalized {
		for i := 0; i < mat.rows; i++ {
			math32.NormalizeInPlace(mat.Row(i))
		}
	}

	// Drain the raw map: the matrix is the sole feature store from now on.
	m.raw = nil
	m.matrix = mat
	m.state = StateBuiltWithData
	m.logger.LogBuild(mat.rows, mat.dim, m.normalized, nil)

	return nil
}

// BatchFeature gathers the given row indices into a new matrix, order
// preserved, duplicates allowed.
//
// It returns ErrNoFeatureData unless the module is in the built state with
// data, and *ErrIndexOutOfRange if any index falls outside [0, Rows()); no
// partial result is produced. BatchFeature performs no mutation and is safe
// for concurrent use after Build.
func (m *FeatureModule) BatchFeature(batchIDs []int) (*Matrix, error) {
	if m.state != StateBuiltWithData {
		m.logger.LogBatchFeature(len(batchIDs), ErrNoFeatureData)
		return nil, ErrNoFeatureData
	}

	for _, idx := range batchIDs {
		if idx < 0 || idx >= m.matrix.rows {
			err := &ErrIndexOutOfRange{Index: idx, Rows: m.matrix.rows}
			m.logger.LogBatchFeature(len(batchIDs), err)
			return nil, err
		}
	}

	out := NewMatrix(len(batchIDs), m.matrix.dim)
	for i, idx := range batchIDs {
		out.setRow(i, m.matrix.Row(idx))
	}

	m.logger.LogBatchFeature(len(batchIDs), nil)

	return out, nil
}

// State returns the build lifecycle state.
func (m *FeatureModule) State() State { return m.state }

// FeatureDim returns the number of feature columns, or 0 when no matrix
// was built.
func (m *FeatureModule) FeatureDim() int {
	if m.matrix == nil {
		return 0
	}
	return m.matrix.dim
}

// Rows returns the number of matrix rows, or 0 when no matrix was built.
func (m *FeatureModule) Rows() int {
	if m.matrix == nil {
		return 0
	}
	return m.matrix.rows
}

// Features returns the built feature matrix, or nil when no matrix was
// built. The matrix must be treated as read-only.
func (m *FeatureModule) Features() *Matrix { return m.matrix }

// Normalized reports whether rows were L2-normalized during Build.
func (m *FeatureModule) Normalized() bool { return m.normalized }

// RawFeatureCount returns the number of entries still held in the raw
// feature map. It is 0 after any successful Build (drained).
func (m *FeatureModule) RawFeatureCount() int { return len(m.raw) }
