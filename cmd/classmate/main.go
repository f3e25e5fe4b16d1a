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


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	classmate "github.com/esinocchi/ClassMate"
	"github.com/esinocchi/ClassMate/ai"
	"github.com/esinocchi/ClassMate/chunker"
	"github.com/esinocchi/ClassMate/core"
	"github.com/esinocchi/ClassMate/filter"
	"github.com/esinocchi/ClassMate/ingestion"
	"github.com/esinocchi/ClassMate/search"
)

func main() {
	app := &cli.App{
		Name:  "classmate",
		Usage: "Hybrid retrieval engine for Canvas course content",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "reindex",
				Usage:  "Rebuild a collection from a JSON export of course content",
				Action: reindexCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "collection",
						Aliases:  []string{"c"},
						Usage:    "Collection identifier (typically one user)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to JSON file with items and courses",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "e5-small-v2",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Chunk size in word tokens",
						Value: chunker.DefaultChunkSize,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Chunk overlap in word tokens",
						Value: chunker.DefaultChunkOverlap,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks per embedding request",
						Value: 64,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed embedding batches",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 500 * time.Millisecond,
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Run a hybrid search against a collection",
				Action:    searchCommand,
				ArgsUsage: "QUERY...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "collection",
						Aliases:  []string{"c"},
						Usage:    "Collection identifier",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "embedding-host",
						Usage: "Embedding service host URL",
						Value: "http://localhost:11434/v1",
					},
					&cli.StringFlag{
						Name:  "embedding-model",
						Usage: "Embedding model name",
						Value: "e5-small-v2",
					},
					&cli.Int64SliceFlag{
						Name:  "course",
						Usage: "Restrict to course ID (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "type",
						Usage: "Restrict to item type (assignment, announcement, file, quiz, syllabus, calendar_event)",
					},
					&cli.StringFlag{
						Name:  "after",
						Usage: "Only items effective on or after this date (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "before",
						Usage: "Only items effective before this date (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "on",
						Usage: "Only items effective on this exact date (YYYY-MM-DD)",
					},
					&cli.IntFlag{
						Name:  "top-k",
						Usage: "Maximum number of results",
						Value: search.DefaultTopK,
					},
					&cli.Float64Flag{
						Name:  "semantic-weight",
						Usage: "Weight of the semantic score in fusion",
						Value: 0.5,
					},
					&cli.Float64Flag{
						Name:  "keyword-weight",
						Usage: "Weight of the keyword score in fusion",
						Value: 0.5,
					},
					&cli.BoolFlag{
						Name:  "multi-chunk",
						Usage: "Keep every matching chunk per item instead of the best one",
					},
				},
			},
			{
				Name:   "collections",
				Usage:  "List persisted collections",
				Action: collectionsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to BadgerDB database directory",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// contentExport is the JSON shape produced by the Canvas extraction layer.
type contentExport struct {
	Courses []courseDoc `json:"courses"`
	Items   []itemDoc   `json:"items"`
}

type courseDoc struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type itemDoc struct {
	Id             uint64     `json:"id"`
	CourseId       int64      `json:"course_id"`
	Type           string     `json:"type"`
	Title          string     `json:"title"`
	Body           string     `json:"body"`
	AttachmentText string     `json:"attachment_text"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DueAt          *time.Time `json:"due_at"`
	EventAt        *time.Time `json:"event_at"`
	SourceURL      string     `json:"source_url"`
}

func reindexCommand(c *cli.Context) error {
	ctx := context.Background()

	export, err := loadExport(c.String("input"))
	if err != nil {
		return err
	}

	items := make([]*core.ContentItem, 0, len(export.Items))
	for _, doc := range export.Items {
		itemType, ok := core.ParseItemType(doc.Type)
		if !ok {
			return fmt.Errorf("item %d: unknown type %q", doc.Id, doc.Type)
		}
		items = append(items, &core.ContentItem{
			Id:             core.ID(doc.Id),
			CourseId:       doc.CourseId,
			Type:           itemType,
			Title:          doc.Title,
			Body:           doc.Body,
			AttachmentText: doc.AttachmentText,
			CreatedAt:      doc.CreatedAt,
			UpdatedAt:      doc.UpdatedAt,
			DueAt:          doc.DueAt,
			EventAt:        doc.EventAt,
			SourceURL:      doc.SourceURL,
		})
	}

	courses := make([]*core.Course, 0, len(export.Courses))
	for _, doc := range export.Courses {
		courses = append(courses, &core.Course{Id: doc.Id, Name: doc.Name, Code: doc.Code})
	}

	chk := chunker.New(
		chunker.WithChunkSize(c.Int("chunk-size")),
		chunker.WithOverlap(c.Int("chunk-overlap")),
	)

	db, err := openDatabase(c,
		classmate.WithPipelineOptions(
			ingestion.WithChunker(chk),
			ingestion.WithBatchSize(c.Int("batch-size")),
			ingestion.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
		),
	)
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := db.Reindex(ctx, c.String("collection"), items, classmate.WithCourses(courses))
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d items into %d chunks\n", result.ItemCount, result.ChunkCount)
	if len(result.SkippedItems) > 0 {
		fmt.Fprintf(os.Stderr, "Skipped %d invalid items\n", len(result.SkippedItems))
	}
	if result.KeywordOnlyChunks > 0 {
		fmt.Fprintf(os.Stderr, "%d chunks indexed keyword-only (embedding failures)\n", result.KeywordOnlyChunks)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if query == "" {
		return fmt.Errorf("query is required")
	}

	constraints, err := buildConstraints(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.Search(ctx, c.String("collection"), search.Request{
		Query:   query,
		Filters: constraints,
		TopK:    c.Int("top-k"),
		Weights: &search.Weights{
			Semantic: c.Float64("semantic-weight"),
			Keyword:  c.Float64("keyword-weight"),
		},
		MultiChunk: c.Bool("multi-chunk"),
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Printf("Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Printf("%d: %s [%s] (%0.3f)\n", i+1, hit.Item.Title, hit.Item.Type, hit.Score)
		if hit.CourseCode != "" {
			fmt.Printf("   %s (%s)\n", hit.CourseCode, hit.CourseName)
		}
		if hit.LocalDueAt != "" {
			fmt.Printf("   Due %s (%s)\n", hit.LocalDueAt, hit.RelativeTime)
		}
		if hit.Snippet != "" {
			fmt.Printf("   %s\n", hit.Snippet)
		}
	}
	return nil
}

func collectionsCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ids, err := db.Collections(context.Background())
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	return nil
}

func openDatabase(c *cli.Context, extra ...classmate.DatabaseOption) (*classmate.Database, error) {
	opts := []classmate.DatabaseOption{
		classmate.WithAIConfig(ai.NewConfig(
			ai.WithHost(c.String("embedding-host")),
			ai.WithModel(c.String("embedding-model")),
		)),
	}
	opts = append(opts, extra...)

	db, err := classmate.NewDatabase(c.String("db"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func loadExport(path string) (*contentExport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	var export contentExport
	if err := json.NewDecoder(f).Decode(&export); err != nil {
		return nil, fmt.Errorf("failed to parse input file: %w", err)
	}
	return &export, nil
}

func buildConstraints(c *cli.Context) (filter.Constraints, error) {
	constraints := filter.Constraints{
		CourseIds: c.Int64Slice("course"),
		Location:  time.Local,
	}

	for _, name := range c.StringSlice("type") {
		itemType, ok := core.ParseItemType(name)
		if !ok {
			return filter.Constraints{}, fmt.Errorf("unknown item type %q", name)
		}
		constraints.Types = append(constraints.Types, itemType)
	}

	parseDate := func(flag string) (*time.Time, error) {
		value := c.String(flag)
		if value == "" {
			return nil, nil
		}
		t, err := time.ParseInLocation("2006-01-02", value, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s date %q: expected YYYY-MM-DD", flag, value)
		}
		return &t, nil
	}

	after, err := parseDate("after")
	if err != nil {
		return filter.Constraints{}, err
	}
	before, err := parseDate("before")
	if err != nil {
		return filter.Constraints{}, err
	}
	on, err := parseDate("on")
	if err != nil {
		return filter.Constraints{}, err
	}
	constraints.After = after
	constraints.Before = before
	constraints.OnDate = on

	return constraints, nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
