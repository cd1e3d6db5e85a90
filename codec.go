package stash

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// encode serializes value to JSON, applying a gzip pass when compress is set.
func encode(value any, compress bool) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	if !compress {
		return data, nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("failed to compress result: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to compress result: %w", err)
	}

	return buf.Bytes(), nil
}

// decode parses an encoded entry back into a value of type T, reversing the
// gzip pass first when compress is set. A compression flag that disagrees
// with the actual bytes surfaces here as a decode failure.
func decode[T any](data []byte, compress bool) (T, error) {
	var value T

	if compress {
		zr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return value, fmt.Errorf("failed to decompress entry: %w", err)
		}
		data, err = io.ReadAll(zr)
		if err != nil {
			return value, fmt.Errorf("failed to decompress entry: %w", err)
		}
		if err := zr.Close(); err != nil {
			return value, fmt.Errorf("failed to decompress entry: %w", err)
		}
	}

	if err := json.Unmarshal(data, &value); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to unmarshal entry: %w", err)
	}

	return value, nil
}
