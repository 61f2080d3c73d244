package rag

import "strings"

const minChunkSize = 200

// SplitIntoChunks splits text into overlapping rune windows.
func SplitIntoChunks(text string, chunkSize, overlap int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	r := []rune(text)

	if chunkSize < minChunkSize {
		chunkSize = minChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	out := make([]string, 0, (len(r)/step)+1)
	for start := 0; start < len(r); start += step {
		end := min(start+chunkSize, len(r))
		if p := strings.TrimSpace(string(r[start:end])); p != "" {
			out = append(out, p)
		}
		if end == len(r) {
			break
		}
	}
	return out
}
