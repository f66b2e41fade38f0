package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/minions/pkg/adapters/fs"
	"github.com/aretw0/minions/pkg/core"
)

func main() {
	count := flag.Int("count", 1000, "Number of records to generate")
	format := flag.String("format", "json", "File format: json or yaml")
	keep := flag.Bool("keep", false, "Keep the benchmark store after running")
	flag.Parse()

	// 1. Setup Namespace
	benchDir, err := os.MkdirTemp("", "minions_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	serializer, err := fs.SerializerFor(*format, false)
	if err != nil {
		panic(err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	open := func() *fs.Repository {
		return fs.NewRepository(fs.Config{Path: benchDir, Serializer: serializer, Logger: logger})
	}

	ctx := context.TODO()

	// 2. Generate
	fmt.Printf("Generating %d records in %s...\n", *count, benchDir)
	startGen := time.Now()
	repo := open()
	if err := repo.Initialize(ctx); err != nil {
		panic(err)
	}
	tx, err := repo.Begin(ctx)
	if err != nil {
		panic(err)
	}
	now := core.Now()
	for i := 0; i < *count; i++ {
		m := core.Minion{
			ID:           core.NewID(),
			Title:        fmt.Sprintf("Note %d", i),
			MinionTypeID: "builtin-note",
			Fields:       map[string]any{"content": fmt.Sprintf("Benchmark note %d", i)},
			Tags:         []string{"benchmark", "test"},
			Status:       core.StatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := tx.Set(ctx, m); err != nil {
			panic(err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		panic(err)
	}
	fmt.Printf("Generation took: %v\n", time.Since(startGen))

	// Run 1: Cold (no persisted index, every file is parsed)
	if err := os.RemoveAll(filepath.Join(benchDir, fs.DefaultSystemDir)); err != nil {
		panic(err)
	}
	fmt.Println("Running Initialize+List (Run 1 - Cold)...")
	cold, n1 := measure(ctx, open())
	fmt.Printf("Run 1 Result: %v (Items: %d)\n", cold, n1)

	// Run 2: Warm (index written by run 1, files only stat'ed)
	fmt.Println("Running Initialize+List (Run 2 - Warm)...")
	warm, n2 := measure(ctx, open())
	fmt.Printf("Run 2 Result: %v (Items: %d)\n", warm, n2)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d records, %s):\n", *count, *format)
	fmt.Printf("  Cold: %v\n", cold)
	fmt.Printf("  Warm: %v\n", warm)
	fmt.Printf("--------------------------------------------------\n")
}

func measure(ctx context.Context, repo *fs.Repository) (time.Duration, int) {
	start := time.Now()
	if err := repo.Initialize(ctx); err != nil {
		panic(err)
	}
	list, err := repo.List(ctx, core.Filter{})
	if err != nil {
		panic(err)
	}
	return time.Since(start), len(list)
}
