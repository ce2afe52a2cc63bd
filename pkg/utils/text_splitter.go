package utils

import "unicode"

// SplitText splits text into chunks of roughly chunkSize runes with the given
// overlap between consecutive chunks. Chunk boundaries back off to the nearest
// whitespace within margin so words are not cut in half.
func SplitText(text string, chunkSize int, overlap int) []string {
	runes := []rune(text)
	totalLen := len(runes)
	if totalLen <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	// How far back we look for a whitespace boundary. Never beyond the
	// overlap, or text between chunks would be dropped.
	margin := chunkSize / 10
	if margin > overlap {
		margin = overlap
	}

	var chunks []string
	for i := 0; i < totalLen; i += step {
		end := i + chunkSize
		if end >= totalLen {
			chunks = append(chunks, string(runes[i:totalLen]))
			break
		}

		cut := end
		for cut > end-margin && !unicode.IsSpace(runes[cut-1]) {
			cut--
		}
		if cut == end-margin {
			cut = end
		}

		chunks = append(chunks, string(runes[i:cut]))
	}

	return chunks
}
