// Package medium defines the durable key-value port the ledger persists to.
package medium

import (
	"context"
	"errors"
)

// ErrClosed is returned by media used after Close.
var ErrClosed = errors.New("medium closed")

// Ports for outbound adapters.
type (
	// Loader reads the bytes stored under key. ok is false when nothing is stored.
	Loader interface {
		Load(ctx context.Context, key string) (data []byte, ok bool, err error)
	}

	// Saver replaces the bytes stored under key.
	Saver interface {
		Save(ctx context.Context, key string, data []byte) error
	}

	// Medium is a synchronous key-value store treated as a black box by the ledger.
	Medium interface {
		Loader
		Saver
	}
)
