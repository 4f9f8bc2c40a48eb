// Package codec centralizes snapshot-header encoding.
//
// Snapshot files are self-describing: the codec name is stored in the file
// header, and the matching codec is selected by name on load. Changing the
// default codec therefore never breaks previously written snapshots.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// Default is the codec used for newly written snapshots.
//
// Existing files record their codec name and are decoded with the codec
// they were written with.
var Default Codec = GoJSON{}
