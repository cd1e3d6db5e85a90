package stash_test

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/gophersatwork/stash"
	"github.com/spf13/afero"
)

// Transpiled mimics the output of a toy source-to-source compiler.
type Transpiled struct {
	Code string `json:"code"`
}

func TestTranspileCache(t *testing.T) {
	isDebug := false // Set to true when you want to troubleshoot issues visually.
	memFs := afero.NewMemMapFs()

	cache, err := stash.New("transpiler", stash.WithFs(memFs))
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	var invocations atomic.Int64
	transpile := func(_ context.Context, source string, options map[string]string) (Transpiled, error) {
		invocations.Add(1)
		code := strings.ReplaceAll(source, "let ", "var ") + ";"
		return Transpiled{Code: code}, nil
	}

	req := stash.Request[Transpiled]{
		Source:     "let x=1",
		Identifier: "v1",
		Options:    map[string]string{},
		Dir:        "/c1",
		Transform:  transpile,
	}

	// First call computes and persists the result.
	first, err := stash.Do(context.Background(), cache, req)
	if err != nil {
		t.Fatalf("First call failed: %v", err)
	}
	if isDebug {
		spew.Dump(first)
		printDirTree(memFs, "/c1")
	}

	if first.Code != "var x=1;" {
		t.Fatalf("Unexpected transpiled code: %q", first.Code)
	}

	key := cache.Fingerprint(req.Source, req.Identifier, req.Options)
	entryPath := cache.EntryPath("/c1", key, false)
	if exists, _ := afero.Exists(memFs, entryPath); !exists {
		t.Fatalf("Expected a persisted entry at %s", entryPath)
	}

	// Second identical call returns the persisted result without invoking
	// the transpiler again.
	second, err := stash.Do(context.Background(), cache, req)
	if err != nil {
		t.Fatalf("Second call failed: %v", err)
	}
	if second.Code != first.Code {
		t.Fatalf("Cached result %q differs from computed result %q", second.Code, first.Code)
	}
	if invocations.Load() != 1 {
		t.Fatalf("Transpiler invoked %d times, want 1", invocations.Load())
	}
}

// SalesReport aggregates a CSV of sales rows.
type SalesReport struct {
	TotalSales    float64            `json:"total_sales"`
	RecordCount   int                `json:"record_count"`
	SalesByRegion map[string]float64 `json:"sales_by_region"`
}

func TestCompressedReportCache(t *testing.T) {
	isDebug := false // Set to true when you want to troubleshoot issues visually.
	memFs := afero.NewMemMapFs()

	cache, err := stash.New("report-gen",
		stash.WithFs(memFs),
		stash.WithDiscover(func(name string) (string, bool) {
			return "/home/user/.cache/" + name, true
		}),
	)
	if err != nil {
		t.Fatalf("Failed to create cache: %v", err)
	}

	csvData := "region,amount\n" +
		"north,100.50\n" +
		"south,200.25\n" +
		"north,50.00\n"

	var invocations atomic.Int64
	aggregate := func(_ context.Context, source string, options map[string]string) (SalesReport, error) {
		invocations.Add(1)
		rep := SalesReport{SalesByRegion: make(map[string]float64)}
		for i, line := range strings.Split(strings.TrimSpace(source), "\n") {
			if i == 0 {
				continue // header
			}
			parts := strings.Split(line, ",")
			var amount float64
			if _, err := fmt.Sscanf(parts[1], "%f", &amount); err != nil {
				return SalesReport{}, fmt.Errorf("bad row %d: %w", i, err)
			}
			rep.TotalSales += amount
			rep.RecordCount++
			rep.SalesByRegion[parts[0]] += amount
		}
		return rep, nil
	}

	req := stash.Request[SalesReport]{
		Source:     csvData,
		Identifier: "report-v1",
		Options:    map[string]string{"currency": "EUR"},
		Compress:   true,
		Transform:  aggregate,
	}

	report, err := stash.Do(context.Background(), cache, req)
	if err != nil {
		t.Fatalf("First call failed: %v", err)
	}
	if isDebug {
		spew.Dump(report)
		printDirTree(memFs, "/home/user/.cache/report-gen")
	}

	if report.RecordCount != 3 || report.TotalSales != 350.75 {
		t.Fatalf("Unexpected report: %+v", report)
	}
	if report.SalesByRegion["north"] != 150.50 {
		t.Fatalf("Unexpected north total: %v", report.SalesByRegion["north"])
	}

	// The entry landed compressed in the discovered default directory.
	entries, err := cache.Entries("/home/user/.cache/report-gen")
	if err != nil {
		t.Fatalf("Failed to list entries: %v", err)
	}
	if len(entries) != 1 || !entries[0].Compressed {
		t.Fatalf("Expected one compressed entry, got %+v", entries)
	}

	cached, err := stash.Do(context.Background(), cache, req)
	if err != nil {
		t.Fatalf("Second call failed: %v", err)
	}
	if invocations.Load() != 1 {
		t.Fatalf("Aggregation invoked %d times, want 1", invocations.Load())
	}
	if cached.TotalSales != report.TotalSales {
		t.Fatalf("Cached total %v differs from computed total %v", cached.TotalSales, report.TotalSales)
	}

	stats, err := cache.Stats("/home/user/.cache/report-gen")
	if err != nil {
		t.Fatalf("Failed to compute stats: %v", err)
	}
	if stats.Entries != 1 || stats.TotalSize != entries[0].Size {
		t.Fatalf("Unexpected stats: %+v", stats)
	}
}

// printDirTree prints all files below root, for visual troubleshooting.
func printDirTree(fs afero.Fs, root string) {
	var paths []string
	_ = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		paths = append(paths, fmt.Sprintf("%s (%d bytes)", path, info.Size()))
		return nil
	})
	sort.Strings(paths)
	for _, p := range paths {
		fmt.Println(p)
	}
}
