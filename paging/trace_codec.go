package paging

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
)

// CompressionType represents the compression algorithm used for a trace archive
type CompressionType uint8

const (
	CompressionNone   CompressionType = 0
	CompressionLZ4    CompressionType = 1
	CompressionSnappy CompressionType = 2
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionSnappy:
		return "snappy"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression parses "none", "lz4" or "snappy"
func ParseCompression(s string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "snappy":
		return CompressionSnappy, nil
	default:
		return 0, NewSimulationError(ErrCodeInvalidArgument, "ParseCompression",
			fmt.Sprintf("unsupported compression %q (must be none, lz4 or snappy)", s), nil)
	}
}

// Trace archive header layout:
// [0-1]: Magic number (0x5053, "PS")
// [2]: Compression type (0=none, 1=LZ4, 2=Snappy)
// [3]: Format version
// [4-7]: Uncompressed payload size
// [8-11]: CRC32 of the uncompressed payload
// [12+]: Payload

const (
	TraceMagic      = 0x5053
	TraceVersion    = 1
	TraceHeaderSize = 12

	MaxTracePayload = 256 << 20
)

// EncodeTrace serializes a result into a self-checking archive. When the
// requested compression does not shrink the payload it is stored raw and the
// header says so. Equal results always encode to equal bytes.
func EncodeTrace(r *Result, compression CompressionType) ([]byte, error) {
	payload := marshalResult(r)
	checksum := crc32.ChecksumIEEE(payload)

	var body []byte
	switch compression {
	case CompressionNone:
		body = payload

	case CompressionLZ4:
		buf := make([]byte, lz4.CompressBlockBound(len(payload)))
		n, err := lz4.CompressBlock(payload, buf, nil)
		if err != nil {
			return nil, fmt.Errorf("LZ4 compression failed: %w", err)
		}
		body = buf[:n]

	case CompressionSnappy:
		body = snappy.Encode(nil, payload)

	default:
		return nil, fmt.Errorf("unsupported compression type: %d", compression)
	}

	// lz4 reports 0 bytes for incompressible input
	if compression != CompressionNone && (len(body) == 0 || len(body) >= len(payload)) {
		compression = CompressionNone
		body = payload
	}

	out := make([]byte, TraceHeaderSize, TraceHeaderSize+len(body))
	binary.LittleEndian.PutUint16(out[0:2], TraceMagic)
	out[2] = uint8(compression)
	out[3] = TraceVersion
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(payload)))
	binary.LittleEndian.PutUint32(out[8:12], checksum)
	return append(out, body...), nil
}

// DecodeTrace reverses EncodeTrace, verifying header and checksum
func DecodeTrace(data []byte) (*Result, error) {
	const op = "DecodeTrace"
	if len(data) < TraceHeaderSize {
		return nil, ErrTraceCorrupted(op, fmt.Sprintf("data too short for trace header: %d bytes", len(data)))
	}

	magic := binary.LittleEndian.Uint16(data[0:2])
	if magic != TraceMagic {
		return nil, ErrTraceCorrupted(op, fmt.Sprintf("invalid magic number: got %04x, expected %04x", magic, TraceMagic))
	}
	if data[3] != TraceVersion {
		return nil, ErrTraceCorrupted(op, fmt.Sprintf("unsupported format version %d", data[3]))
	}

	size := binary.LittleEndian.Uint32(data[4:8])
	checksum := binary.LittleEndian.Uint32(data[8:12])
	body := data[TraceHeaderSize:]
	if size > MaxTracePayload {
		return nil, ErrTraceCorrupted(op, fmt.Sprintf("payload size %d exceeds limit", size))
	}

	var payload []byte
	switch CompressionType(data[2]) {
	case CompressionNone:
		payload = body

	case CompressionLZ4:
		payload = make([]byte, size)
		n, err := lz4.UncompressBlock(body, payload)
		if err != nil {
			return nil, NewSimulationError(ErrCodeCorruptTrace, op, "LZ4 decompression failed", err)
		}
		payload = payload[:n]

	case CompressionSnappy:
		var err error
		payload, err = snappy.Decode(nil, body)
		if err != nil {
			return nil, NewSimulationError(ErrCodeCorruptTrace, op, "snappy decompression failed", err)
		}

	default:
		return nil, ErrTraceCorrupted(op, fmt.Sprintf("unsupported compression type: %d", data[2]))
	}

	if uint32(len(payload)) != size {
		return nil, ErrTraceCorrupted(op, fmt.Sprintf("payload size mismatch: got %d, expected %d", len(payload), size))
	}
	if got := crc32.ChecksumIEEE(payload); got != checksum {
		return nil, ErrTraceCorrupted(op, fmt.Sprintf("checksum mismatch: got %08x, expected %08x", got, checksum))
	}

	return unmarshalResult(payload)
}

// ChooseBestCompression tries both algorithms and returns the smaller archive
func ChooseBestCompression(r *Result) ([]byte, error) {
	lz4Archive, err := EncodeTrace(r, CompressionLZ4)
	if err != nil {
		return nil, err
	}

	snappyArchive, err := EncodeTrace(r, CompressionSnappy)
	if err != nil {
		return nil, err
	}

	if len(lz4Archive) <= len(snappyArchive) {
		return lz4Archive, nil
	}
	return snappyArchive, nil
}

// ArchiveCompression reports the compression recorded in an archive header
func ArchiveCompression(data []byte) (CompressionType, error) {
	if len(data) < TraceHeaderSize || binary.LittleEndian.Uint16(data[0:2]) != TraceMagic {
		return 0, ErrTraceCorrupted("ArchiveCompression", "not a trace archive")
	}
	return CompressionType(data[2]), nil
}

// payload: algorithm, faults, hits, step count, then per step
// page, fault flag, frame count and frames
func marshalResult(r *Result) []byte {
	buf := make([]byte, 0, 16+len(r.Algorithm)+len(r.Steps)*8)
	buf = binary.AppendUvarint(buf, uint64(len(r.Algorithm)))
	buf = append(buf, r.Algorithm...)
	buf = binary.AppendUvarint(buf, uint64(r.Faults))
	buf = binary.AppendUvarint(buf, uint64(r.Hits))
	buf = binary.AppendUvarint(buf, uint64(len(r.Steps)))
	for _, s := range r.Steps {
		buf = binary.AppendVarint(buf, int64(s.Page))
		if s.Fault {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
		buf = binary.AppendUvarint(buf, uint64(len(s.Frames)))
		for _, f := range s.Frames {
			buf = binary.AppendVarint(buf, int64(f))
		}
	}
	return buf
}

type payloadReader struct {
	buf []byte
	err error
}

func (pr *payloadReader) uvarint() uint64 {
	if pr.err != nil {
		return 0
	}
	v, n := binary.Uvarint(pr.buf)
	if n <= 0 {
		pr.err = ErrTraceCorrupted("DecodeTrace", "truncated unsigned varint")
		return 0
	}
	pr.buf = pr.buf[n:]
	return v
}

func (pr *payloadReader) varint() int64 {
	if pr.err != nil {
		return 0
	}
	v, n := binary.Varint(pr.buf)
	if n <= 0 {
		pr.err = ErrTraceCorrupted("DecodeTrace", "truncated varint")
		return 0
	}
	pr.buf = pr.buf[n:]
	return v
}

func (pr *payloadReader) bytes(n uint64) []byte {
	if pr.err != nil {
		return nil
	}
	if uint64(len(pr.buf)) < n {
		pr.err = ErrTraceCorrupted("DecodeTrace", "truncated payload")
		return nil
	}
	b := pr.buf[:n]
	pr.buf = pr.buf[n:]
	return b
}

func unmarshalResult(payload []byte) (*Result, error) {
	pr := &payloadReader{buf: payload}

	algorithm := string(pr.bytes(pr.uvarint()))
	faults := pr.uvarint()
	hits := pr.uvarint()
	count := pr.uvarint()
	if pr.err != nil {
		return nil, pr.err
	}
	// each step needs at least three bytes, so this bounds the allocation
	if count > uint64(len(pr.buf)) {
		return nil, ErrTraceCorrupted("DecodeTrace", fmt.Sprintf("step count %d exceeds payload", count))
	}

	rec := NewRecorder(algorithm, int(count))
	for i := uint64(0); i < count; i++ {
		page := Page(pr.varint())
		fault := pr.bytes(1)
		nframes := pr.uvarint()
		if pr.err != nil {
			return nil, pr.err
		}
		if nframes > uint64(len(pr.buf)) {
			return nil, ErrTraceCorrupted("DecodeTrace", fmt.Sprintf("frame count %d exceeds payload", nframes))
		}
		if fault[0] > 1 {
			return nil, ErrTraceCorrupted("DecodeTrace", fmt.Sprintf("step %d has fault flag %d", i, fault[0]))
		}
		frames := make([]Page, nframes)
		for j := range frames {
			frames[j] = Page(pr.varint())
		}
		if pr.err != nil {
			return nil, pr.err
		}
		rec.Record(page, frames, fault[0] == 1)
	}

	if len(pr.buf) != 0 {
		return nil, ErrTraceCorrupted("DecodeTrace", fmt.Sprintf("%d trailing bytes", len(pr.buf)))
	}

	result := rec.Result()
	if uint64(result.Faults) != faults || uint64(result.Hits) != hits {
		return nil, ErrTraceCorrupted("DecodeTrace", "fault/hit totals do not match steps")
	}
	return result, nil
}
