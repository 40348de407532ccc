package identity

import (
	"github.com/akolanti/InvoiceAPI/internal/domain/commonModels"
	"github.com/google/uuid"
)

// ChunkIdentity maps chunk text to its stable id: a name-based UUID (v5,
// SHA-1) in the DNS namespace over the exact content bytes. Position, page
// and source file play no part, so byte-identical content hashes to the same
// id across files and across runs.
func ChunkIdentity(content string) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(content)).String()
}

// Stamp fills in the ChunkId of every chunk from its content.
func Stamp(chunks []commonModels.DocChunk) []commonModels.DocChunk {
	for i := range chunks {
		chunks[i].ChunkId = ChunkIdentity(chunks[i].Chunk)
	}
	return chunks
}

// Dedup filters stamped chunks down to the first occurrence of each id,
// keeping strict input order. The iteration order is pinned to the slice so
// the result is deterministic.
func Dedup(chunks []commonModels.DocChunk) []commonModels.DocChunk {
	seen := make(map[string]bool, len(chunks))
	unique := make([]commonModels.DocChunk, 0, len(chunks))

	for _, c := range chunks {
		if seen[c.ChunkId] {
			continue
		}
		seen[c.ChunkId] = true
		unique = append(unique, c)
	}
	return unique
}
