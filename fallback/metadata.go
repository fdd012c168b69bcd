package fallback

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/qfold/qfold/convert"
)

// Metadata describes the quantum analysis of a payload that was compressed
// classically, so a later run can decide whether the quantum pipeline is
// worth retrying.
type Metadata struct {
	OriginalSize  int       `msgpack:"original_size"`
	Entropy       float64   `msgpack:"entropy"`
	UniqueBytes   int       `msgpack:"unique_bytes"`
	FailureReason string    `msgpack:"failure_reason"`
	CreatedAt     time.Time `msgpack:"created_at"`
}

type metadataEnvelope struct {
	Meta    Metadata `msgpack:"meta"`
	Payload []byte   `msgpack:"payload"`
}

// metadataCompress gzips the payload and wraps it with analysis metadata.
func metadataCompress(data []byte, failureReason string) ([]byte, error) {
	payload, err := gzipCompress(data)
	if err != nil {
		return nil, err
	}

	analysis := convert.AnalyzeDataPatterns(data)

	envelope := metadataEnvelope{
		Meta: Metadata{
			OriginalSize:  len(data),
			Entropy:       analysis.Entropy,
			UniqueBytes:   analysis.UniqueBytes,
			FailureReason: failureReason,
			CreatedAt:     time.Now().UTC(),
		},
		Payload: payload,
	}

	out, err := msgpack.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("metadata envelope: %w", err)
	}

	return out, nil
}

func metadataDecompress(data []byte) ([]byte, error) {
	var envelope metadataEnvelope
	if err := msgpack.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("metadata envelope: %w", err)
	}

	return gzipDecompress(envelope.Payload)
}

// ExtractMetadata reads the metadata from a StrategyWithMetadata payload
// without decompressing the data itself.
func ExtractMetadata(compressed []byte) (Metadata, error) {
	var envelope metadataEnvelope
	if err := msgpack.Unmarshal(compressed, &envelope); err != nil {
		return Metadata{}, fmt.Errorf("metadata envelope: %w", err)
	}

	return envelope.Meta, nil
}
