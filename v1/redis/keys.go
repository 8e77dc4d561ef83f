package redis

import "strings"

// Keyspace prepends a fixed client identifier to every key, isolating the data of
// one tenant from the others sharing the same Redis deployment.
//
// The prefix is set once and never changes. The zero value has an empty prefix and
// passes keys through untouched.
type Keyspace struct {
	prefix string
}

// NewKeyspace returns a Keyspace for the given prefix.
func NewKeyspace(prefix string) Keyspace {
	return Keyspace{prefix: prefix}
}

// Prefix returns the client identifier.
func (k Keyspace) Prefix() string {
	return k.prefix
}

// Key returns the full key stored in Redis for a caller key.
func (k Keyspace) Key(key string) string {
	return k.prefix + key
}

// Keys returns the full keys for a list of caller keys.
func (k Keyspace) Keys(keys ...string) []string {
	out := make([]string, len(keys))
	for i, key := range keys {
		out[i] = k.prefix + key
	}
	return out
}

// Strip returns the caller key for a full key. The second result is false when
// the full key does not carry this prefix, in which case it is returned unchanged.
func (k Keyspace) Strip(full string) (string, bool) {
	if !strings.HasPrefix(full, k.prefix) {
		return full, false
	}
	return full[len(k.prefix):], true
}
