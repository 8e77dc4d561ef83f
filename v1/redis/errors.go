package redis

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

// Common Redis errors
var (
	// Nil is returned when a key does not exist. It is the go-redis sentinel,
	// so errors.Is works against either name.
	Nil = redis.Nil

	// ErrClosed is returned when the client is closed.
	ErrClosed = errors.New("redis: client is closed")

	// ErrPoolTimeout is returned when all connections in the pool are busy
	// and MaxWait was reached.
	ErrPoolTimeout = redis.ErrPoolTimeout

	// ErrNoAddress is returned when a client is configured without any address.
	ErrNoAddress = errors.New("redis: no address configured")

	// ErrBatchClosed is returned when a batch is used after Close.
	ErrBatchClosed = errors.New("redis: batch is closed")

	// ErrNotProtoMessage is returned by ProtoCodec for values that are not proto messages.
	ErrNotProtoMessage = errors.New("redis: value is not a proto.Message")
)

// IsNilError checks if the error is a "key does not exist" error.
func IsNilError(err error) bool {
	return errors.Is(err, Nil)
}

// IsClosedError checks if the error is a "client is closed" error.
func IsClosedError(err error) bool {
	return errors.Is(err, ErrClosed) || errors.Is(err, redis.ErrClosed)
}

// IsPoolTimeoutError checks if the error is a pool timeout error.
func IsPoolTimeoutError(err error) bool {
	return errors.Is(err, ErrPoolTimeout)
}

// IsMovedError reports whether the server answered with a MOVED redirection,
// meaning the slot is owned by another node.
func IsMovedError(err error) bool {
	return err != nil && redis.HasErrorPrefix(err, "MOVED")
}

// IsAskError reports whether the server answered with an ASK redirection,
// meaning the slot is being migrated.
func IsAskError(err error) bool {
	return err != nil && redis.HasErrorPrefix(err, "ASK")
}

// IsRedirectError reports whether err is a MOVED or ASK redirection. A batch that
// fails with a redirection should be rebuilt after Batch.Refresh.
func IsRedirectError(err error) bool {
	return IsMovedError(err) || IsAskError(err)
}
