package featgo

import (
	"errors"
	"fmt"
)

var (
	// ErrNoFeatureData is returned by BatchFeature when no data-bearing
	// build has happened (the module is unbuilt, or was built without
	// feature data).
	ErrNoFeatureData = errors.New("no feature data configured")

	// ErrAlreadyBuilt is returned when Build is called a second time.
	// The raw feature map is drained by the first build, so a faithful
	// rebuild is impossible.
	ErrAlreadyBuilt = errors.New("feature module already built")
)

// ErrMissingFeature indicates an ID in the build ordering that has no entry
// in the raw feature map.
type ErrMissingFeature struct {
	ID string
}

func (e *ErrMissingFeature) Error() string {
	return fmt.Sprintf("missing feature vector for id %q", e.ID)
}

// ErrInconsistentDimension indicates a feature vector whose length differs
// from the dimension established by the first vector of the build.
type ErrInconsistentDimension struct {
	ID       string
	Expected int
	Actual   int
}

func (e *ErrInconsistentDimension) Error() string {
	return fmt.Sprintf("inconsistent feature dimension for id %q: expected %d, got %d", e.ID, e.Expected, e.Actual)
}

// ErrIndexOutOfRange indicates a batch row index outside the built matrix.
type ErrIndexOutOfRange struct {
	Index int
	Rows  int
}

func (e *ErrIndexOutOfRange) Error() string {
	return fmt.Sprintf("row index %d out of range [0, %d)", e.Index, e.Rows)
}
