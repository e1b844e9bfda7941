// Copyright (C) 2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command dbexplorer lists the recordings and annotations saved with --db.
// Usage:
//
//	go run ./cmd/dev/dbexplorer
//	go run ./cmd/dev/dbexplorer --path rec/rec01.wav
//	go run ./cmd/dev/dbexplorer --path rec/rec01.wav --json
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/toneswiper/toneswiper/internal/config"
	"github.com/toneswiper/toneswiper/internal/store"
)

func main() {
	path := flag.String("path", "", "Recording to show annotations for")
	asJSON := flag.Bool("json", false, "Print annotations as JSON")
	configFile := flag.String("config", "", "Config file path")

	flag.Parse()

	ctx := context.Background()

	cfg, err := config.NewConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := store.NewGormDB(&cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.ValidateSchema(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *path == "" {
		listRecordings(ctx, db)
		return
	}

	rec, err := db.GetRecording(ctx, *path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load recording: %v\n", err)
		os.Exit(1)
	}
	if rec == nil {
		fmt.Fprintf(os.Stderr, "No annotations saved for %s\n", *path)
		os.Exit(1)
	}

	if *asJSON {
		printJSON(rec)
		return
	}
	printRecording(rec)
}

func listRecordings(ctx context.Context, db *store.GormDB) {
	list, err := db.ListRecordings(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list recordings: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d recordings\n", len(list))
	fmt.Println(strings.Repeat("=", 80))
	for _, r := range list {
		fmt.Printf("%-50s | %8s | %4d points | %s\n",
			truncate(r.Path, 50),
			(time.Duration(r.DurationMS) * time.Millisecond).String(),
			r.Annotations,
			r.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

func printRecording(rec *store.Recording) {
	fmt.Printf("%s (%s)\n", rec.Path, time.Duration(rec.DurationMS)*time.Millisecond)
	fmt.Println(strings.Repeat("=", 60))
	for _, a := range rec.Annotations {
		fmt.Printf("  %8.3fs  %-10s  #%d\n", a.Time, a.Label, a.Position)
	}
	fmt.Printf("\n%d annotations, last saved %s\n", len(rec.Annotations), rec.UpdatedAt.Format("2006-01-02 15:04:05"))
}

func printJSON(rec *store.Recording) {
	type point struct {
		Time  float64 `json:"time"`
		Label string  `json:"label"`
	}
	points := make([]point, 0, len(rec.Annotations))
	for _, a := range rec.Annotations {
		points = append(points, point{Time: a.Time, Label: a.Label})
	}

	out, err := json.MarshalIndent(map[string][]point{rec.Path: points}, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return "..."
	}
	return "..." + s[len(s)-max+3:]
}
