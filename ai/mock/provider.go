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


package mock

import "github.com/esinocchi/ClassMate/ai"

// MockProvider is a test double for ai.Provider.
type MockProvider struct {
	embedder *MockEmbedder
}

// NewMockProvider creates a provider wrapping a default mock embedder.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		embedder: NewMockEmbedder(),
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// GetMockEmbedder returns the concrete mock for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// Close is a no-op.
func (p *MockProvider) Close() error {
	return nil
}
