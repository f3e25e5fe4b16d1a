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


package classmate

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esinocchi/ClassMate/ai/mock"
	"github.com/esinocchi/ClassMate/core"
	"github.com/esinocchi/ClassMate/ingestion"
	"github.com/esinocchi/ClassMate/search"
)

func newTestDatabase(t *testing.T, opts ...DatabaseOption) *Database {
	t.Helper()
	opts = append([]DatabaseOption{
		WithInMemoryStorage(),
		WithProvider(mock.NewMockProvider()),
	}, opts...)

	db, err := NewDatabase("", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func courseContent() ([]*core.ContentItem, []*core.Course) {
	due := time.Now().UTC().AddDate(0, 0, 7)
	items := []*core.ContentItem{
		{
			Id: 1, CourseId: 10, Type: core.ItemTypeAssignment,
			Title: "Thermodynamics Problem Set", Body: "Entropy and enthalpy exercises.",
			UpdatedAt: time.Now().UTC(), DueAt: &due,
		},
		{
			Id: 2, CourseId: 10, Type: core.ItemTypeAnnouncement,
			Title: "Lecture Moved", Body: "Thursday lecture moved to room 204.",
			UpdatedAt: time.Now().UTC(),
		},
		{
			Id: 3, CourseId: 11, Type: core.ItemTypeSyllabus,
			Title: "Syllabus", Body: "Grading policy and weekly schedule.",
			UpdatedAt: time.Now().UTC(),
		},
	}
	courses := []*core.Course{
		{Id: 10, Name: "Physical Chemistry", Code: "CHEM340"},
		{Id: 11, Name: "World History", Code: "HIST101"},
	}
	return items, courses
}

func TestReindexAndSearch(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	items, courses := courseContent()
	result, err := db.Reindex(ctx, "user-1", items, WithCourses(courses))
	require.NoError(t, err)
	assert.Equal(t, 3, result.ItemCount)
	assert.False(t, result.Partial())

	results, err := db.Search(ctx, "user-1", search.Request{Query: "entropy exercises"})
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, core.ID(1), results[0].Item.Id)
	assert.Equal(t, "CHEM340", results[0].CourseCode)
}

func TestSearchUnknownCollection(t *testing.T) {
	db := newTestDatabase(t)

	_, err := db.Search(context.Background(), "nobody", search.Request{Query: "anything"})
	assert.ErrorIs(t, err, core.ErrUnknownCollection)
}

func TestReindexReplacesSnapshot(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	items, courses := courseContent()
	_, err := db.Reindex(ctx, "user-1", items, WithCourses(courses))
	require.NoError(t, err)

	// Drop the announcement and reindex; it must vanish from results.
	trimmed := []*core.ContentItem{items[0], items[2]}
	_, err = db.Reindex(ctx, "user-1", trimmed, WithCourses(courses))
	require.NoError(t, err)

	results, err := db.Search(ctx, "user-1", search.Request{Query: "lecture moved room"})
	require.NoError(t, err)
	for _, r := range results {
		assert.NotEqual(t, core.ID(2), r.Item.Id)
	}
}

func TestConcurrentReindexFailsFast(t *testing.T) {
	provider := mock.NewMockProvider()
	embedder := provider.(*mock.MockProvider).GetMockEmbedder()

	// Stall the first rebuild inside its embedding call. Gate with an
	// atomic flag rather than sync.Once: Once.Do would block every
	// concurrent caller, deadlocking the user-2 reindex below.
	entered := make(chan struct{})
	proceed := make(chan struct{})
	var first atomic.Bool
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		if first.CompareAndSwap(false, true) {
			close(entered)
			<-proceed
		}
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = make([]float32, 384)
			vectors[i][0] = 1
		}
		return vectors, nil
	}

	db := newTestDatabase(t,
		WithProvider(provider),
		WithPipelineOptions(ingestion.WithPoolSize(4)))
	ctx := context.Background()
	items, courses := courseContent()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := db.Reindex(ctx, "user-1", items, WithCourses(courses))
		assert.NoError(t, err)
	}()

	<-entered
	_, err := db.Reindex(ctx, "user-1", items, WithCourses(courses))
	assert.ErrorIs(t, err, core.ErrRebuildInProgress)

	// A different collection is unaffected.
	_, err = db.Reindex(ctx, "user-2", items, WithCourses(courses))
	assert.NoError(t, err)

	close(proceed)
	wg.Wait()
}

func TestSearchDuringRebuildUsesOldSnapshot(t *testing.T) {
	provider := mock.NewMockProvider()
	embedder := provider.(*mock.MockProvider).GetMockEmbedder()

	db := newTestDatabase(t, WithProvider(provider))
	ctx := context.Background()
	items, courses := courseContent()

	_, err := db.Reindex(ctx, "user-1", items, WithCourses(courses))
	require.NoError(t, err)

	// Stall the second rebuild and search while it runs.
	entered := make(chan struct{})
	proceed := make(chan struct{})
	var once sync.Once
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		once.Do(func() {
			close(entered)
			<-proceed
		})
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = make([]float32, 384)
			vectors[i][0] = 1
		}
		return vectors, nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := db.Reindex(ctx, "user-1", items, WithCourses(courses))
		assert.NoError(t, err)
	}()

	<-entered
	results, err := db.Search(ctx, "user-1", search.Request{Query: "grading policy"})
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	close(proceed)
	wg.Wait()
}

func TestConcurrentColdSearches(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	items, courses := courseContent()
	_, err := db.Reindex(ctx, "user-1", items, WithCourses(courses))
	require.NoError(t, err)

	// Forget the in-memory holder so both searches start cold and must
	// restore the collection from storage.
	db.mu.Lock()
	delete(db.collections, "user-1")
	db.mu.Unlock()

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := db.Search(ctx, "user-1", search.Request{Query: "grading policy"})
			assert.NoError(t, err)
			assert.NotEmpty(t, results)
		}()
	}
	wg.Wait()
}

func TestSearchDuringFirstReindexReportsUnknown(t *testing.T) {
	provider := mock.NewMockProvider()
	embedder := provider.(*mock.MockProvider).GetMockEmbedder()

	// Stall the first-ever rebuild inside its embedding call.
	entered := make(chan struct{})
	proceed := make(chan struct{})
	var once sync.Once
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		once.Do(func() {
			close(entered)
			<-proceed
		})
		vectors := make([][]float32, len(texts))
		for i := range vectors {
			vectors[i] = make([]float32, 384)
			vectors[i][0] = 1
		}
		return vectors, nil
	}

	db := newTestDatabase(t,
		WithProvider(provider),
		WithPipelineOptions(ingestion.WithPoolSize(4)))
	ctx := context.Background()
	items, courses := courseContent()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := db.Reindex(ctx, "user-1", items, WithCourses(courses))
		assert.NoError(t, err)
	}()

	// Nothing is published or persisted yet, so the query must report the
	// collection as unknown rather than rebuild-busy.
	<-entered
	_, err := db.Search(ctx, "user-1", search.Request{Query: "grading policy"})
	assert.ErrorIs(t, err, core.ErrUnknownCollection)
	assert.NotErrorIs(t, err, core.ErrRebuildInProgress)

	close(proceed)
	wg.Wait()

	// Once the reindex lands, the same query succeeds.
	results, err := db.Search(ctx, "user-1", search.Request{Query: "grading policy"})
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}

func TestCollectionsListing(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	items, courses := courseContent()
	_, err := db.Reindex(ctx, "alice", items, WithCourses(courses))
	require.NoError(t, err)
	_, err = db.Reindex(ctx, "bob", items, WithCourses(courses))
	require.NoError(t, err)

	ids, err := db.Collections(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "bob"}, ids)
}

func TestReindexWithoutPersistence(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()

	items, courses := courseContent()
	_, err := db.Reindex(ctx, "scratch", items, WithCourses(courses), WithoutPersistence())
	require.NoError(t, err)

	ids, err := db.Collections(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)

	// The in-memory snapshot still serves queries.
	results, err := db.Search(ctx, "scratch", search.Request{Query: "grading policy"})
	require.NoError(t, err)
	assert.NotEmpty(t, results)
}
