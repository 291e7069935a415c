// Copyright 2025 Proteoform Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/proteoform/thyme/core"
	"github.com/proteoform/thyme/storage"
)

// SourceFileRepository implements storage.SourceFileRepository for BadgerDB.
type SourceFileRepository struct {
	backend *Backend
}

var _ storage.SourceFileRepository = (*SourceFileRepository)(nil)

// NewSourceFileRepository creates a new SourceFileRepository.
func NewSourceFileRepository(backend *Backend) *SourceFileRepository {
	return &SourceFileRepository{backend: backend}
}

// SaveSourceFile persists a manifest entry for a loaded file.
func (r *SourceFileRepository) SaveSourceFile(ctx context.Context, file *storage.SourceFile) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		file.LoadedAt = time.Now().UTC()
		key := makeSourceFileKey(file.ID)
		if err := tx.Set(key, storage.MarshalSourceFile(file)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// LoadSourceFile retrieves a manifest entry by file ID.
// Returns nil, nil if no entry exists.
func (r *SourceFileRepository) LoadSourceFile(ctx context.Context, id core.ID) (*storage.SourceFile, error) {
	var file *storage.SourceFile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSourceFileKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			file, unmarshalErr = storage.UnmarshalSourceFile(val)
			return unmarshalErr
		})
	}, false)

	return file, err
}

// ListSourceFiles returns every manifest entry.
func (r *SourceFileRepository) ListSourceFiles(ctx context.Context) ([]*storage.SourceFile, error) {
	var files []*storage.SourceFile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(sourceFilePrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				file, unmarshalErr := storage.UnmarshalSourceFile(val)
				if unmarshalErr != nil {
					return unmarshalErr
				}
				files = append(files, file)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	return files, err
}
