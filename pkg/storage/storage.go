package storage

import (
	"context"
	"errors"

	"github.com/jwebster45206/dialogue-engine/pkg/dialogue"
	"github.com/jwebster45206/dialogue-engine/pkg/portrait"
)

// ErrTranscriptsDisabled is returned by transcript operations when no
// transcript store is configured.
var ErrTranscriptsDisabled = errors.New("transcript store not configured")

// Storage defines a unified interface for all storage operations
// This interface combines transcript persistence (Redis) with resource loading (filesystem)
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Transcript operations (Redis-backed)
	SaveTranscript(ctx context.Context, t *dialogue.Transcript) error
	LoadTranscript(ctx context.Context, sessionID string) (*dialogue.Transcript, error)
	DeleteTranscript(ctx context.Context, sessionID string) error

	// Source operations (filesystem-backed)
	// GetSource returns the descriptor with its script compiled into
	// Source.Compiled. Event effects are left for the caller to bind.
	ListSources(ctx context.Context) ([]string, error)
	GetSource(ctx context.Context, id string) (*dialogue.Source, error)

	// Script operations (filesystem-backed)
	GetScript(ctx context.Context, name string) ([]byte, error)

	// GetPortraits returns nil without error when no portrait data exists.
	GetPortraits(ctx context.Context) (*portrait.Data, error)
}
