package storage

import (
	"context"
	"time"

	"github.com/proteoform/thyme/core"
	"github.com/proteoform/thyme/spectrum"
)

// SourceFile is the manifest entry for one loaded peak-list file. The ID is
// content-derived from the file path, so reloading the same file replaces
// its entry instead of accumulating duplicates.
type SourceFile struct {
	ID       core.ID
	Path     string
	Spectra  int
	LoadedAt time.Time
}

// Repository provides common storage operations shared across all
// repositories. Implementations must be thread-safe and support concurrent
// access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// SpectrumRepository provides operations for managing raw spectra.
type SpectrumRepository interface {
	Repository

	// AddSpectra stores one or more raw spectra, keyed by scan number.
	// A spectrum with an already stored scan number replaces the old one.
	AddSpectra(ctx context.Context, spectra ...*spectrum.Raw) error

	// GetSpectrum retrieves a single spectrum by scan number.
	// Returns ErrNotFound if the spectrum doesn't exist.
	GetSpectrum(ctx context.Context, scanID int) (*spectrum.Raw, error)

	// GetSpectra retrieves multiple spectra by scan number.
	// Returns only the spectra that exist (no error for missing scans).
	GetSpectra(ctx context.Context, scanIDs ...int) ([]*spectrum.Raw, error)

	// DeleteSpectra removes spectra by scan number.
	// Returns ErrNotFound if any scan doesn't exist.
	DeleteSpectra(ctx context.Context, scanIDs ...int) error

	// ListScanIDs returns every stored scan number in ascending order.
	ListScanIDs(ctx context.Context) ([]int, error)

	// CountSpectra returns the number of stored spectra.
	CountSpectra(ctx context.Context) (int, error)
}

// SourceFileRepository tracks which peak-list files have been loaded.
type SourceFileRepository interface {
	// SaveSourceFile persists a manifest entry, stamping LoadedAt.
	SaveSourceFile(ctx context.Context, file *SourceFile) error

	// LoadSourceFile retrieves a manifest entry by file ID.
	// Returns nil, nil if no entry exists.
	LoadSourceFile(ctx context.Context, id core.ID) (*SourceFile, error)

	// ListSourceFiles returns every manifest entry.
	ListSourceFiles(ctx context.Context) ([]*SourceFile, error)
}
