// Command report-cache demonstrates caching an expensive data aggregation.
// A CSV of sales rows is aggregated into a summary report; the report is
// cached compressed, keyed by the CSV content and the report version.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gophersatwork/stash"
)

// Bump when the aggregation logic changes to invalidate old reports.
const reportVersion = "v1.0.0"

// simulated aggregation cost
const aggregateDelay = 3 * time.Second

// Report summarizes the sales rows of one CSV input.
type Report struct {
	TotalSales    float64            `json:"total_sales"`
	TotalUnits    int                `json:"total_units"`
	RecordCount   int                `json:"record_count"`
	SalesByRegion map[string]float64 `json:"sales_by_region"`
}

func main() {
	var (
		rows = flag.Int("rows", 1000, "number of sales rows to generate")
		seed = flag.Int64("seed", 42, "seed for the generated dataset")
	)
	flag.Parse()

	cache, err := stash.New("report-cache")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create cache: %v\n", err)
		os.Exit(1)
	}

	csvData := generateSales(*rows, *seed)

	start := time.Now()
	report, err := stash.Do(context.Background(), cache, stash.Request[Report]{
		Source:     csvData,
		Options:    map[string]string{"group_by": "region"},
		Identifier: reportVersion,
		Compress:   true,
		Transform:  aggregate,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build report: %v\n", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)

	fmt.Printf("records:     %d\n", report.RecordCount)
	fmt.Printf("total sales: %.2f\n", report.TotalSales)
	fmt.Printf("total units: %d\n", report.TotalUnits)
	for region, sales := range report.SalesByRegion {
		fmt.Printf("  %-8s %.2f\n", region, sales)
	}
	fmt.Printf("took %.2fs", elapsed.Seconds())
	if elapsed < aggregateDelay {
		fmt.Printf(" (cache hit)")
	}
	fmt.Println()

	if dir, ok := stash.DiscoverUserCacheDir("report-cache"); ok {
		if stats, err := cache.Stats(dir); err == nil {
			fmt.Printf("cache: %d entries, %d bytes in %s\n", stats.Entries, stats.TotalSize, dir)
		}
	}
}

// generateSales produces a deterministic CSV dataset for the given seed.
func generateSales(rows int, seed int64) string {
	regions := []string{"north", "south", "east", "west"}
	rng := rand.New(rand.NewSource(seed))

	var sb strings.Builder
	w := csv.NewWriter(&sb)
	_ = w.Write([]string{"region", "units", "price"})
	for range rows {
		_ = w.Write([]string{
			regions[rng.Intn(len(regions))],
			strconv.Itoa(1 + rng.Intn(20)),
			strconv.FormatFloat(5+rng.Float64()*95, 'f', 2, 64),
		})
	}
	w.Flush()
	return sb.String()
}

// aggregate parses the CSV and computes the summary report, slowly.
func aggregate(_ context.Context, source string, options map[string]string) (Report, error) {
	time.Sleep(aggregateDelay)

	r := csv.NewReader(strings.NewReader(source))
	records, err := r.ReadAll()
	if err != nil {
		return Report{}, fmt.Errorf("failed to parse csv: %w", err)
	}

	report := Report{SalesByRegion: make(map[string]float64)}
	for i, rec := range records {
		if i == 0 {
			continue // header
		}
		units, err := strconv.Atoi(rec[1])
		if err != nil {
			return Report{}, fmt.Errorf("row %d: bad units: %w", i, err)
		}
		price, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return Report{}, fmt.Errorf("row %d: bad price: %w", i, err)
		}

		sale := float64(units) * price
		report.TotalSales += sale
		report.TotalUnits += units
		report.RecordCount++
		if options["group_by"] == "region" {
			report.SalesByRegion[rec[0]] += sale
		}
	}

	return report, nil
}
