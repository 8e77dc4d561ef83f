package redis

import "github.com/mediocregopher/radix/v3"

// SlotCount is the number of hash slots in a Redis Cluster.
const SlotCount = 16384

// KeySlot returns the cluster hash slot of a full key. When the key contains a
// non-empty {hash tag}, only the tag is hashed, so keys sharing a tag share a slot.
func KeySlot(key string) int {
	return int(radix.ClusterSlot([]byte(key)))
}
