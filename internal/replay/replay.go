// Package replay decodes recorded input sessions into the domain Replay
// model and validates they belong to the supported game mode.
//
// The container is the osu! .osr format: a little-endian binary header
// (mode, version, fingerprints, hit counts), then an LZMA-compressed
// stream of "Δt|x|y|keys," input frames. Length-prefixed strings use a
// 0x0b marker followed by a ULEB128 byte count.
package replay

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz/lzma"

	"github.com/okian/senstune/internal/domain/model"
)

// String markers in the binary header.
const (
	stringAbsent  = 0x00
	stringPresent = 0x0b
)

// maxFrameStream caps the decompressed frame stream at 64 MiB. Real
// replays are a few hundred KiB; the cap guards against a corrupt
// length field feeding the LZMA reader.
const maxFrameStream = 64 << 20

// hitCountFields is the number of uint16 hit-result counters in the header.
const hitCountFields = 6

// Load reads, decodes, and validates the replay file at path. Replays
// recorded under any mode other than standard are rejected with
// ErrUnsupportedMode.
func Load(path string) (*model.Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open replay file: %w", err)
	}
	defer f.Close()

	r, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if r.Mode != model.ModeStandard {
		return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedMode, path, r.Mode)
	}
	return r, nil
}

// Decode parses a replay from its binary stream. Header fields beyond
// what the analysis needs (hit counts, score, mods, life bar) are read
// and discarded to keep the stream position honest.
func Decode(r io.Reader) (*model.Replay, error) {
	d := &decoder{r: r}

	mode := d.readByte()
	d.readUint32() // client version
	fingerprint := d.readString()
	player := d.readString()
	d.readString() // replay digest
	for range hitCountFields {
		d.readUint16()
	}
	d.readUint32() // total score
	d.readUint16() // max combo
	d.readByte()   // perfect flag
	d.readUint32() // mods
	d.readString() // life bar graph
	d.readUint64() // timestamp
	compressed := d.readBytes(int(d.readUint32()))
	if d.err != nil {
		return nil, d.err
	}

	actions, err := decompressFrames(compressed)
	if err != nil {
		return nil, err
	}

	return &model.Replay{
		Mode:        model.GameMode(mode),
		Fingerprint: fingerprint,
		Player:      player,
		Actions:     actions,
	}, nil
}

// decompressFrames expands the LZMA frame stream and parses it.
func decompressFrames(compressed []byte) ([]model.ActionSample, error) {
	if len(compressed) == 0 {
		return nil, nil
	}
	lr, err := lzma.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("open frame stream: %w", err)
	}
	raw, err := io.ReadAll(io.LimitReader(lr, maxFrameStream))
	if err != nil {
		return nil, fmt.Errorf("decompress frame stream: %w", err)
	}
	return ParseFrames(string(raw)), nil
}

// decoder reads little-endian header fields, latching the first error
// so callers can check once at the end.
type decoder struct {
	r   io.Reader
	err error
}

func (d *decoder) read(buf []byte) {
	if d.err != nil {
		return
	}
	if _, err := io.ReadFull(d.r, buf); err != nil {
		d.err = fmt.Errorf("%w: %s", ErrTruncated, err)
	}
}

func (d *decoder) readByte() byte {
	var buf [1]byte
	d.read(buf[:])
	return buf[0]
}

func (d *decoder) readUint16() uint16 {
	var buf [2]byte
	d.read(buf[:])
	return binary.LittleEndian.Uint16(buf[:])
}

func (d *decoder) readUint32() uint32 {
	var buf [4]byte
	d.read(buf[:])
	return binary.LittleEndian.Uint32(buf[:])
}

func (d *decoder) readUint64() uint64 {
	var buf [8]byte
	d.read(buf[:])
	return binary.LittleEndian.Uint64(buf[:])
}

func (d *decoder) readBytes(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 {
		d.err = fmt.Errorf("%w: negative byte-block length", ErrTruncated)
		return nil
	}
	buf := make([]byte, n)
	d.read(buf)
	return buf
}

// readString decodes a marker-prefixed string: 0x00 means absent, 0x0b
// means a ULEB128 length followed by that many UTF-8 bytes.
func (d *decoder) readString() string {
	switch marker := d.readByte(); marker {
	case stringAbsent:
		return ""
	case stringPresent:
		return string(d.readBytes(d.readULEB128()))
	default:
		if d.err == nil {
			d.err = fmt.Errorf("%w: bad string marker 0x%02x", ErrTruncated, marker)
		}
		return ""
	}
}

// readULEB128 decodes an unsigned little-endian base-128 integer.
func (d *decoder) readULEB128() int {
	result := 0
	shift := 0
	for {
		b := d.readByte()
		if d.err != nil {
			return 0
		}
		result |= int(b&0x7f) << shift
		if b&0x80 == 0 {
			return result
		}
		shift += 7
	}
}
