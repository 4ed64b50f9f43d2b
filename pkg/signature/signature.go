// Package signature derives the fixed-width cache fingerprint for an
// interaction from its identifying attributes.
package signature

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/rehash-ai/rehash/pkg/bucket"
)

// ErrInvalidInteraction marks a request missing required identifying
// fields. A degenerate key would pollute the store with overly broad
// matches, so this fails before any hashing or I/O.
var ErrInvalidInteraction = errors.New("invalid interaction")

// Compute derives a signature from an interaction's identifying tuple.
// Each component is length-prefixed before hashing, and the bucketed
// state is hashed as a field-count prefix followed by each field's
// name and label as separate components, so no two distinct tuples can
// collide in the pre-hash byte string even when categorical labels
// contain delimiter characters. The hash itself is xxhash64, fast and
// non-cryptographic. The result is a 16-character hex token. Identical
// inputs always produce identical signatures: there is no salting and
// no dependence on clock or process state.
func Compute(agentID, situationCategory string, state bucket.State, inputIntent string) (string, error) {
	if agentID == "" {
		return "", fmt.Errorf("%w: empty agent id", ErrInvalidInteraction)
	}
	if situationCategory == "" {
		return "", fmt.Errorf("%w: empty situation category", ErrInvalidInteraction)
	}

	h := xxhash.New()
	writeComponent(h, agentID)
	writeComponent(h, situationCategory)
	writeCount(h, len(state))
	for _, f := range state {
		writeComponent(h, f.Name)
		writeComponent(h, f.Label)
	}
	writeComponent(h, inputIntent)
	return fmt.Sprintf("%016x", h.Sum64()), nil
}

// writeCount hashes a big-endian field count, keeping the boundary
// between the state fields and the trailing intent unambiguous.
func writeCount(h *xxhash.Digest, n int) {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(n))
	h.Write(buf[:])
}

// writeComponent hashes a big-endian length prefix followed by the
// component bytes, making every component self-delimiting.
func writeComponent(h *xxhash.Digest, s string) {
	var prefix [8]byte
	binary.BigEndian.PutUint64(prefix[:], uint64(len(s)))
	h.Write(prefix[:])
	h.WriteString(s)
}

// NormalizeIntent canonicalizes a free-text intent classification:
// lowercase, trimmed, inner whitespace collapsed. Raising hit rate
// without changing meaning.
func NormalizeIntent(intent string) string {
	return strings.Join(strings.Fields(strings.ToLower(intent)), " ")
}
