// Package chunk partitions value lists into fixed-size batches for
// operators that cap the number of values per request.
package chunk

import "fmt"

// Split partitions values into contiguous chunks of at most size elements,
// preserving order. The final chunk holds the remainder and may be shorter.
// An empty input yields no chunks.
func Split[T any](values []T, size int) ([][]T, error) {
	if size < 1 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if len(values) == 0 {
		return nil, nil
	}
	chunks := make([][]T, 0, Count(len(values), size))
	for start := 0; start < len(values); start += size {
		end := min(start+size, len(values))
		chunks = append(chunks, values[start:end:end])
	}
	return chunks, nil
}

// Count returns the number of chunks Split produces for n values.
// Size values below 1 are treated as 1.
func Count(n, size int) int {
	if n <= 0 {
		return 0
	}
	if size < 1 {
		size = 1
	}
	return (n + size - 1) / size
}
