package badger

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"

	"github.com/proteoform/thyme/spectrum"
	"github.com/proteoform/thyme/storage"
)

// SpectrumRepository implements storage.SpectrumRepository for BadgerDB.
type SpectrumRepository struct {
	backend *Backend
}

var _ storage.SpectrumRepository = (*SpectrumRepository)(nil)

// NewSpectrumRepository creates a new SpectrumRepository.
func NewSpectrumRepository(backend *Backend) *SpectrumRepository {
	return &SpectrumRepository{backend: backend}
}

// Close releases repository resources. The shared backend stays open.
func (r *SpectrumRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *SpectrumRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddSpectra stores one or more raw spectra, keyed by scan number.
func (r *SpectrumRepository) AddSpectra(ctx context.Context, spectra ...*spectrum.Raw) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, raw := range spectra {
			key := makeSpectrumKey(raw.ScanID)
			if err := tx.Set(key, storage.MarshalSpectrum(raw)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetSpectrum retrieves a single spectrum by scan number.
func (r *SpectrumRepository) GetSpectrum(ctx context.Context, scanID int) (*spectrum.Raw, error) {
	var result *spectrum.Raw
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readSpectrum(tx, makeSpectrumKey(scanID))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetSpectra retrieves multiple spectra by scan number, skipping missing
// scans.
func (r *SpectrumRepository) GetSpectra(ctx context.Context, scanIDs ...int) ([]*spectrum.Raw, error) {
	var result []*spectrum.Raw
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, scanID := range scanIDs {
			raw, err := r.readSpectrum(tx, makeSpectrumKey(scanID))
			if err != nil {
				return err
			}
			if raw != nil {
				result = append(result, raw)
			}
		}
		return nil
	}, false)
	return result, err
}

// DeleteSpectra removes spectra by scan number.
func (r *SpectrumRepository) DeleteSpectra(ctx context.Context, scanIDs ...int) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, scanID := range scanIDs {
			key := makeSpectrumKey(scanID)
			if _, err := tx.Get(key); err != nil {
				if errors.Is(err, badger.ErrKeyNotFound) {
					return storage.ErrNotFound
				}
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// ListScanIDs returns every stored scan number in ascending order.
func (r *SpectrumRepository) ListScanIDs(ctx context.Context) ([]int, error) {
	var scanIDs []int
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(spectrumPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			scanIDs = append(scanIDs, scanIDFromKey(iter.Item().Key()))
		}
		return nil
	}, false)
	return scanIDs, err
}

// CountSpectra returns the number of stored spectra.
func (r *SpectrumRepository) CountSpectra(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(spectrumPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// readSpectrum reads and deserializes one spectrum, returning nil when the
// key is absent.
func (r *SpectrumRepository) readSpectrum(tx *badger.Txn, key []byte) (*spectrum.Raw, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var raw *spectrum.Raw
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		raw, unmarshalErr = storage.UnmarshalSpectrum(val)
		return unmarshalErr
	})
	return raw, err
}
