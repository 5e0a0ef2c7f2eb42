package planner

// One contiguous byte range of a file, uploaded independently.
type Part struct {
	// 1-based part number.
	Number int
	// First byte offset, inclusive.
	Start int64
	// Last byte offset, exclusive.
	End int64
}

// Length of the part in bytes.
func (p Part) Len() int64 {
	return p.End - p.Start
}

// Compute the ordered list of byte ranges to upload for a file of
// totalSize bytes, split into chunks of at most chunkSize bytes.
//
// Ranges are contiguous, non-overlapping and cover exactly [0, totalSize).
// Every part has length chunkSize except possibly the last. A zero-byte
// file yields a single empty part covering [0, 0), so that even empty
// files go through the full initiate/upload/complete protocol.
//
// Pure and deterministic. chunkSize must be positive and totalSize
// non-negative; invalid input returns nil.
func Plan(totalSize, chunkSize int64) []Part {
	if totalSize < 0 || chunkSize <= 0 {
		return nil
	}

	if totalSize == 0 {
		return []Part{{Number: 1, Start: 0, End: 0}}
	}

	count := totalSize / chunkSize
	if totalSize%chunkSize != 0 {
		count++
	}

	parts := make([]Part, 0, count)
	for i := int64(0); i < count; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > totalSize {
			end = totalSize
		}

		parts = append(parts, Part{
			Number: int(i) + 1,
			Start:  start,
			End:    end,
		})
	}

	return parts
}
