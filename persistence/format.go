// Package persistence serializes built feature matrices so the offline
// build job and training workers can exchange them through a blob store.
//
// The file format is self-describing:
//
//	magic "FGO1" | version u8 | compression u8 |
//	codec name (u8 length + bytes) | header (u32 length + codec bytes) |
//	payload block | crc32 u32
//
// The header is codec-encoded metadata (rows, dim, normalized). The payload
// block is `uncompressedSize u32 | storedSize u32 | bytes`, holding the
// row-major little-endian float32 matrix; storedSize == 0 means the bytes
// are stored uncompressed. The trailing CRC32 covers the payload block as
// written.
package persistence

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/featgo/codec"
)

var magic = [4]byte{'F', 'G', 'O', '1'}

// formatVersion is bumped on incompatible layout changes.
const formatVersion = 1

// maxHeaderLen bounds the codec-encoded header section. The header is a
// small fixed-field object; anything larger is a corrupt or hostile file,
// and the length must not be trusted for allocation.
const maxHeaderLen = 4 * 1024

var (
	// ErrBadMagic is returned when the input is not a feature snapshot.
	ErrBadMagic = errors.New("bad magic: not a feature snapshot")

	// ErrUnsupportedVersion is returned for snapshots written by a newer
	// format revision.
	ErrUnsupportedVersion = errors.New("unsupported snapshot format version")

	// ErrUnknownCodec is returned when the header codec named in the file
	// is not built in.
	ErrUnknownCodec = errors.New("unknown header codec")
)

// Snapshot is a built feature matrix together with the metadata needed to
// reconstruct a feature module in its built state.
type Snapshot struct {
	Rows       int
	Dim        int
	Normalized bool
	Data       []float32 // row-major, len == Rows*Dim
}

// header is the codec-encoded metadata section.
type header struct {
	Rows       int  `json:"rows"`
	Dim        int  `json:"dim"`
	Normalized bool `json:"normalized"`
}

// Write serializes a snapshot to w.
func Write(w io.Writer, snap *Snapshot, c codec.Codec, comp Compression) error {
	if c == nil {
		c = codec.Default
	}
	if snap.Rows <= 0 || snap.Dim <= 0 {
		return fmt.Errorf("invalid snapshot shape: %dx%d", snap.Rows, snap.Dim)
	}
	if len(snap.Data) != snap.Rows*snap.Dim {
		return fmt.Errorf("snapshot data length %d does not match shape %dx%d", len(snap.Data), snap.Rows, snap.Dim)
	}

	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	if _, err := w.Write([]byte{formatVersion, byte(comp)}); err != nil {
		return err
	}

	name := []byte(c.Name())
	if len(name) > 255 {
		return fmt.Errorf("codec name too long: %q", c.Name())
	}
	if _, err := w.Write([]byte{byte(len(name))}); err != nil {
		return err
	}
	if _, err := w.Write(name); err != nil {
		return err
	}

	head, err := c.Marshal(header{
		Rows:       snap.Rows,
		Dim:        snap.Dim,
		Normalized: snap.Normalized,
	})
	if err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(head))); err != nil {
		return err
	}
	if _, err := w.Write(head); err != nil {
		return err
	}

	raw := floatsToBytes(snap.Data)
	stored, err := compress(comp, raw)
	if err != nil {
		return err
	}

	cw := NewChecksumWriter(w)
	if err := binary.Write(cw, binary.LittleEndian, uint32(len(raw))); err != nil {
		return err
	}
	if err := binary.Write(cw, binary.LittleEndian, uint32(len(stored))); err != nil {
		return err
	}
	if stored == nil {
		if _, err := cw.Write(raw); err != nil {
			return err
		}
	} else {
		if _, err := cw.Write(stored); err != nil {
			return err
		}
	}

	return binary.Write(w, binary.LittleEndian, cw.Sum())
}

// Read deserializes a snapshot from r, verifying the payload checksum.
func Read(r io.Reader) (*Snapshot, error) {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return nil, err
	}
	if m != magic {
		return nil, ErrBadMagic
	}

	var meta [2]byte
	if _, err := io.ReadFull(r, meta[:]); err != nil {
		return nil, err
	}
	if meta[0] != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, meta[0])
	}
	comp := Compression(meta[1])

	var nameLen [1]byte
	if _, err := io.ReadFull(r, nameLen[:]); err != nil {
		return nil, err
	}
	name := make([]byte, nameLen[0])
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, err
	}
	c, ok := codec.ByName(string(name))
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, string(name))
	}

	var headLen uint32
	if err := binary.Read(r, binary.LittleEndian, &headLen); err != nil {
		return nil, err
	}
	if headLen > maxHeaderLen {
		return nil, fmt.Errorf("header length %d exceeds maximum %d", headLen, maxHeaderLen)
	}
	head := make([]byte, headLen)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, err
	}
	var h header
	if err := c.Unmarshal(head, &h); err != nil {
		return nil, err
	}
	if h.Rows <= 0 || h.Dim <= 0 {
		return nil, fmt.Errorf("invalid snapshot shape: %dx%d", h.Rows, h.Dim)
	}

	cr := NewChecksumReader(r)
	var rawSize, storedSize uint32
	if err := binary.Read(cr, binary.LittleEndian, &rawSize); err != nil {
		return nil, err
	}
	if err := binary.Read(cr, binary.LittleEndian, &storedSize); err != nil {
		return nil, err
	}

	// Both sizes come from the untrusted file and must be validated
	// against the header shape before any allocation.
	if int64(rawSize) != int64(h.Rows)*int64(h.Dim)*4 {
		return nil, fmt.Errorf("payload size %d does not match shape %dx%d", rawSize, h.Rows, h.Dim)
	}
	if storedSize != 0 && int64(storedSize) > int64(rawSize)+int64(rawSize)/8+1024 {
		return nil, fmt.Errorf("implausible compressed payload size %d for %d raw bytes", storedSize, rawSize)
	}

	readSize := storedSize
	if readSize == 0 {
		readSize = rawSize
	}
	stored := make([]byte, readSize)
	if _, err := io.ReadFull(cr, stored); err != nil {
		return nil, err
	}

	var expected uint32
	if err := binary.Read(r, binary.LittleEndian, &expected); err != nil {
		return nil, err
	}
	if err := cr.Verify(expected); err != nil {
		return nil, err
	}

	raw := stored
	if storedSize != 0 {
		var err error
		raw, err = decompress(comp, stored, int(rawSize))
		if err != nil {
			return nil, err
		}
	}
	if len(raw) != int(rawSize) {
		return nil, fmt.Errorf("payload size %d does not match declared size %d", len(raw), rawSize)
	}

	return &Snapshot{
		Rows:       h.Rows,
		Dim:        h.Dim,
		Normalized: h.Normalized,
		Data:       bytesToFloats(raw),
	}, nil
}

func floatsToBytes(f []float32) []byte {
	buf := make([]byte, 4*len(f))
	for i, v := range f {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func bytesToFloats(b []byte) []float32 {
	f := make([]float32, len(b)/4)
	for i := range f {
		f[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return f
}

// Bytes serializes a snapshot to a byte slice. Convenience for blob stores.
func Bytes(snap *Snapshot, c codec.Codec, comp Compression) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, snap, c, comp); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
