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

// Package thyme assembles the open-search engine: a fragment index built
// from FASTA, a spectrum store, and scoring over HTTP or in process.
package thyme

import (
	"context"
	"log/slog"

	"github.com/proteoform/thyme/core"
	"github.com/proteoform/thyme/index"
	"github.com/proteoform/thyme/search"
	"github.com/proteoform/thyme/server"
	"github.com/proteoform/thyme/spectrum"
	"github.com/proteoform/thyme/storage"
	"github.com/proteoform/thyme/storage/badger"
)

// Engine bundles the built fragment index with the spectrum store. One
// Engine serves a deployment for its lifetime; the index is immutable after
// construction.
type Engine struct {
	index   *index.Index
	backend *badger.Backend
	spectra storage.SpectrumRepository
	files   storage.SourceFileRepository
	logger  *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	inMemory bool
}

// WithInMemoryStorage keeps the spectrum store in memory instead of on
// disk. Used in tests and for ephemeral deployments.
func WithInMemoryStorage() EngineOption {
	return func(o *engineOptions) {
		o.inMemory = true
	}
}

// NewEngine builds the fragment index from the builder config at configPath
// and opens the spectrum store at dbPath.
func NewEngine(configPath, dbPath string, opts ...EngineOption) (*Engine, error) {
	options := &engineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	builder, err := index.FromFile(configPath)
	if err != nil {
		return nil, err
	}
	params, err := builder.MakeParameters()
	if err != nil {
		return nil, err
	}
	ix, err := params.Build()
	if err != nil {
		return nil, err
	}

	backend, err := badger.OpenBackend(dbPath, options.inMemory)
	if err != nil {
		return nil, err
	}

	return &Engine{
		index:   ix,
		backend: backend,
		spectra: badger.NewSpectrumRepository(backend),
		files:   badger.NewSourceFileRepository(backend),
		logger:  slog.Default(),
	}, nil
}

func (e *Engine) Close() error {
	if err := e.spectra.Close(); err != nil {
		e.logger.Error("error closing spectrum repository", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (e *Engine) Index() *index.Index {
	return e.index
}

func (e *Engine) SpectrumRepository() storage.SpectrumRepository {
	return e.spectra
}

func (e *Engine) SourceFileRepository() storage.SourceFileRepository {
	return e.files
}

func (e *Engine) NewScorer(precursorTol, fragmentTol core.Tolerance, opts ...search.Option) (*search.Scorer, error) {
	return search.NewScorer(e.index, precursorTol, fragmentTol, opts...)
}

func (e *Engine) NewServer(opts ...server.Option) (*server.Server, error) {
	return server.New(e.index, e.spectra, opts...)
}

// LoadMGF parses a peak-list file, stores every spectrum, and records the
// file in the source manifest. Returns the number of spectra loaded.
func (e *Engine) LoadMGF(ctx context.Context, path string) (int, error) {
	spectra, err := spectrum.OpenMGF(path)
	if err != nil {
		return 0, err
	}
	if err := e.spectra.AddSpectra(ctx, spectra...); err != nil {
		return 0, err
	}

	entry := &storage.SourceFile{
		ID:      core.IDFromContent(path),
		Path:    path,
		Spectra: len(spectra),
	}
	if err := e.files.SaveSourceFile(ctx, entry); err != nil {
		return 0, err
	}

	e.logger.Info("loaded peak list", "path", path, "spectra", len(spectra))
	return len(spectra), nil
}
