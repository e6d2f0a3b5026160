package serialize

import (
	"errors"
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// maxSnapshotSize bounds the decoded size of a registry snapshot. Snapshot
// files come from disk or other processes and are not trusted.
const maxSnapshotSize = 64 << 20

// errEmptySnapshot is returned when asked to decompress zero bytes.
var errEmptySnapshot = errors.New("empty registry snapshot")

// Snapshots are written rarely and read at startup, so one encoder and one
// decoder are shared process-wide. EncodeAll and DecodeAll are safe for
// concurrent use.
var (
	sharedEncoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedBestCompression),
			zstd.WithEncoderConcurrency(1),
		)
	})
	sharedDecoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil,
			zstd.WithDecoderMaxMemory(maxSnapshotSize),
		)
	})
)

// compress compresses a serialized snapshot with ZStandard.
func compress(data []byte) ([]byte, error) {
	enc, err := sharedEncoder()
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
	}

	// Registry streams are repetitive; half the input is a generous estimate.
	return enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// decompress reverses compress.
// Returns error for empty input, corrupt data, or output over maxSnapshotSize.
func decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, errEmptySnapshot
	}

	dec, err := sharedDecoder()
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}

	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress snapshot: %w", err)
	}
	return out, nil
}
