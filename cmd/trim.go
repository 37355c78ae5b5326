// One-shot trim command: reduce text from args or stdin to stdout.
// Statistics go to stderr so the reduced text stays pipeable.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/compresr/prompt-trim/internal/history"
	"github.com/compresr/prompt-trim/internal/pipeline"
	"github.com/compresr/prompt-trim/internal/pricing"
	"github.com/compresr/prompt-trim/internal/stats"
	"github.com/compresr/prompt-trim/internal/stemmer"
	"github.com/compresr/prompt-trim/internal/tokencount"
)

// runTrimCommand parses flags and performs one reduction.
func runTrimCommand(args []string) {
	loadEnvFiles()
	setupLogging(false)

	fs := flag.NewFlagSet("trim", flag.ExitOnError)
	keepStopwords := fs.Bool("keep-stopwords", false, "keep stopwords")
	dropPunct := fs.Bool("drop-punctuation", false, "remove punctuation tokens")
	keepSpaces := fs.Bool("keep-spaces", false, "join tokens with spaces")
	stem := fs.Bool("stem", false, "apply stemming")
	variant := fs.String("stemmer", "light", "stemmer variant: light | extended | aggressive")
	language := fs.String("language", "english", "stopword language")
	showStats := fs.Bool("stats", false, "print size statistics to stderr")
	showSavings := fs.Bool("savings", false, "print token and cost savings to stderr")
	historyPath := fs.String("history", "", "append the run to a SQLite ledger at this path")
	_ = fs.Parse(args) // ExitOnError handles errors

	text, err := readInput(fs.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "prompt-trim: %v\n", err)
		os.Exit(1)
	}

	opts := pipeline.Options{
		RemoveStopwords:   !*keepStopwords,
		RemovePunctuation: *dropPunct,
		RemoveSpaces:      !*keepSpaces,
		UseStemming:       *stem,
		Stemmer:           stemmer.ParseVariant(*variant),
		Language:          *language,
	}

	reduced := pipeline.Trim(text, opts)
	fmt.Println(reduced)

	compStats := stats.Compute(text, reduced)
	var savings *stats.TokenSavings

	if *showStats {
		fmt.Fprintf(os.Stderr, "chars: %d -> %d (%d%% reduction)\n",
			compStats.OriginalChars, compStats.CompressedChars, compStats.CharReduction)
		fmt.Fprintf(os.Stderr, "words: %d -> %d\n",
			compStats.OriginalWords, compStats.CompressedWords)
	}

	if *showSavings {
		s := stats.CalculateTokenSavings(text, reduced, tokencount.Default(), pricing.Default())
		savings = &s
		fmt.Fprintf(os.Stderr, "tokens: %d -> %d (saved %d, %.1f%%)\n",
			s.OriginalTokens, s.CompressedTokens, s.TokensSaved, s.PercentageSaved)
		for _, mc := range s.CostSavings {
			fmt.Fprintf(os.Stderr, "  %-20s $%.6f\n", mc.Model, mc.TotalCost)
		}
	}

	if *historyPath != "" {
		recordToLedger(*historyPath, opts, compStats, savings)
	}
}

// readInput joins positional args, or reads stdin when none are given.
func readInput(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// recordToLedger appends the run to the SQLite ledger, best-effort.
func recordToLedger(path string, opts pipeline.Options, cs stats.CompressionStats, savings *stats.TokenSavings) {
	ledger, err := history.Open(path)
	if err != nil {
		log.Warn().Err(err).Msg("history ledger not opened")
		return
	}
	defer ledger.Close()

	rec := history.Record{
		Source:          "cli",
		Language:        opts.Language,
		OriginalChars:   cs.OriginalChars,
		CompressedChars: cs.CompressedChars,
		OriginalWords:   cs.OriginalWords,
		CompressedWords: cs.CompressedWords,
	}
	if opts.UseStemming {
		rec.Stemmer = string(opts.Stemmer)
	}
	if savings != nil {
		rec.OriginalTokens = savings.OriginalTokens
		rec.CompressedTokens = savings.CompressedTokens
		rec.TokensSaved = savings.TokensSaved
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ledger.Record(ctx, rec); err != nil {
		log.Warn().Err(err).Msg("history record failed")
	}
}
