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


// Package ai provides abstractions for the embedding services used by the
// retrieval engine.
//
// The ingestion pipeline and the searcher depend only on the interfaces
// defined here; concrete backends live in sub-packages:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: deterministic test doubles with no external dependencies
//
// Public constructors in the implementation packages return interface types
// to enforce abstraction:
//
//	provider, err := openai.NewProvider(config)  // returns ai.Provider
//
// Mock constructors return concrete types so tests can inject behavior and
// assert on call counts:
//
//	mockEmbed := mock.NewMockEmbedder()  // returns *mock.MockEmbedder
//	mockEmbed.EmbedTextsFunc = ...       // behavior injection
package ai
