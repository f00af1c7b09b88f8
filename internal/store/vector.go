package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/minio/highwayhash"
)

// highwayKey is a fixed 32-byte key for content-addressing vector rows.
// It does not need to be secret; it only needs to be stable across the
// life of a store file so the same content always hashes the same way.
var highwayKey = make([]byte, 32)

// EncodeEmbedding packs a float32 slice into a little-endian byte blob.
// The pair with DecodeEmbedding MUST round-trip exactly (bitwise) per
// the store's vector-encoding invariant.
func EncodeEmbedding(vec []float32) ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.Grow(len(vec) * 4)
	for _, f := range vec {
		if err := binary.Write(buf, binary.LittleEndian, f); err != nil {
			return nil, fmt.Errorf("encode embedding: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// DecodeEmbedding is the inverse of EncodeEmbedding.
func DecodeEmbedding(blob []byte) ([]float32, error) {
	if len(blob)%4 != 0 {
		return nil, fmt.Errorf("decode embedding: blob length %d not a multiple of 4", len(blob))
	}
	n := len(blob) / 4
	out := make([]float32, n)
	r := bytes.NewReader(blob)
	for i := 0; i < n; i++ {
		if err := binary.Read(r, binary.LittleEndian, &out[i]); err != nil {
			return nil, fmt.Errorf("decode embedding: %w", err)
		}
	}
	return out, nil
}

// ContentHash content-addresses a piece of text for vector-row
// deduplication. Uses highwayhash, the same hash the teacher's sibling
// repo (ODSapper-CLIAIRMONITOR) applies to content-addressed blobs.
func ContentHash(content string) string {
	h, _ := highwayhash.New64(highwayKey)
	h.Write([]byte(content))
	return fmt.Sprintf("%016x", h.Sum64())
}

func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 2.0 // max possible cosine distance
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 2.0
	}
	cos := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return 1 - cos
}

// VecHit is one K-NN result: a row id paired with its cosine distance
// from the query vector (smaller is closer).
type VecHit struct {
	ID       string
	Distance float64
}

// knnRow is one id/embedding pair loaded from the vec table backing
// memory or knowledge embeddings.
type knnRow struct {
	id  string
	vec []float32
}

// bruteForceKNN scans every row in a small vector table and returns the
// K closest by cosine distance. This is the pure-Go default path: no
// cgo, no sqlite-vec extension load. At JayBrain's single-user scale
// (thousands, not millions, of memories) a full scan comfortably meets
// the retrieval latency budget; see DESIGN.md for why the cgo-gated
// vec0 path (vec_accel.go) is kept as an optional accelerator instead
// of the default.
func bruteForceKNN(rows []knnRow, query []float32, k int) []VecHit {
	hits := make([]VecHit, 0, len(rows))
	for _, r := range rows {
		hits = append(hits, VecHit{ID: r.id, Distance: cosineDistance(r.vec, query)})
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if k > 0 && k < len(hits) {
		hits = hits[:k]
	}
	return hits
}
