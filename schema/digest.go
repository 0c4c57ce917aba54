package schema

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Digest returns a stable content hash of the schema. Two schemas with
// the same tables, columns and options in the same order share a digest,
// which makes it usable as a cache key for resolved maps.
func (s *Schema) Digest() (string, error) {
	buf, err := msgpack.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("schema: encoding digest: %w", err)
	}
	sum := sha256.Sum256(buf)
	return hex.EncodeToString(sum[:]), nil
}
