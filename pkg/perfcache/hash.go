package perfcache

import "strconv"

// Hash computes a fast, non-cryptographic 32-bit rolling hash of s.
// Collisions are possible and accepted: cache values are re-validated by their
// consumers, so a collision can only surface as a stale-looking hit, never as
// data corruption.
func Hash(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = (h << 5) - h + uint32(s[i])
	}
	return h
}

// ContentKey derives a bounded cache key from arbitrary content: the rolling
// hash concatenated with the content length. Appending the length narrows the
// collision space without growing the key with the content.
func ContentKey(content string) string {
	return strconv.FormatUint(uint64(Hash(content)), 16) + ":" + strconv.Itoa(len(content))
}
