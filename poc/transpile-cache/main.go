// Command transpile-cache demonstrates caching a slow source-to-source
// transform across process runs. Run it twice: the first run pays the
// simulated transpile cost, the second is served from disk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gophersatwork/stash"
	"github.com/rs/zerolog"
)

const transpilerVersion = "v1.0.0"

// simulated per-file transpile cost
const transpileDelay = 2 * time.Second

// Transpiled is the structured result of one transpile run.
type Transpiled struct {
	Code     string `json:"code"`
	Warnings int    `json:"warnings"`
}

var sources = map[string]string{
	"app.js":   "let counter = 0\nlet step = 1",
	"utils.js": "let cache = {}\nlet hits = 0\nlet misses = 0",
	"index.js": "let main = () => {}",
}

func main() {
	var (
		dir      = flag.String("dir", "", "explicit cache directory (default: discovered)")
		compress = flag.Bool("compress", false, "store entries gzip-compressed")
		verbose  = flag.Bool("v", false, "log cache events")
	)
	flag.Parse()

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel)
	}

	cache, err := stash.New("transpile-cache", stash.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create cache: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	options := map[string]string{"target": "es5"}

	start := time.Now()
	for name, source := range sources {
		fileStart := time.Now()

		result, err := stash.Do(ctx, cache, stash.Request[Transpiled]{
			Source:     source,
			Options:    options,
			Identifier: transpilerVersion,
			Dir:        *dir,
			Compress:   *compress,
			Transform:  transpile,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to transpile %s: %v\n", name, err)
			os.Exit(1)
		}

		fmt.Printf("%-10s %6.2fs  %d warning(s)  %d bytes of output\n",
			name, time.Since(fileStart).Seconds(), result.Warnings, len(result.Code))
	}

	fmt.Printf("\ntotal: %.2fs (run again to see cache hits)\n", time.Since(start).Seconds())
}

// transpile rewrites let-declarations to var-declarations, slowly.
func transpile(_ context.Context, source string, options map[string]string) (Transpiled, error) {
	time.Sleep(transpileDelay)

	code := strings.ReplaceAll(source, "let ", "var ")
	if options["target"] == "es5" {
		code = strings.ReplaceAll(code, "() => {}", "function() {}")
	}

	return Transpiled{
		Code:     code,
		Warnings: strings.Count(source, "=>"),
	}, nil
}
