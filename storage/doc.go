// Copyright 2025 The ClassMate Authors
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

// Package storage provides the storage abstraction layer for classmate.
//
// This package defines the repository interface that decouples storage
// implementation from the retrieval core. Search never touches storage:
// queries run entirely against in-memory snapshots, and the repository
// exists so collections survive process restarts without re-chunking or
// re-embedding their content.
//
// # Constructor Return Type Pattern
//
// Public constructors return the interface, not the concrete type:
//
//	repo, err := badger.NewCollectionRepository(path)  // returns storage.CollectionRepository
//
// This keeps consumers decoupled from BadgerDB specifics and lets tests
// substitute the in-memory variant without modification.
//
// # Usage
//
// Create a repository instance:
//
//	repo, err := badger.NewCollectionRepository("/path/to/db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer repo.Close()
//
// Use in tests with in-memory storage:
//
//	repo, err := badger.NewMemoryRepository()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation and
// timeout support.
package storage
