// Package wordlist fetches reference vocabulary lists and maintains the
// local word catalog with exposure counters.
package wordlist

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Canonical list identifiers accepted by `words fetch`
const (
	SourceNGSL   = "ngsl"
	SourceNAWL   = "nawl"
	SourceSpoken = "ngsl-spoken"
)

// DefaultSources maps list identifiers to their published URLs
var DefaultSources = map[string]string{
	SourceNGSL:   "https://www.newgeneralservicelist.com/s/NGSL_12_alphabetized_description.txt",
	SourceNAWL:   "https://www.newgeneralservicelist.com/s/NAWL_12_alphabetized_description.txt",
	SourceSpoken: "https://www.newgeneralservicelist.com/s/NGSL-Spoken_12_alphabetized_description.txt",
}

// ListLabel maps a source identifier to its catalog tag
func ListLabel(source string) (string, error) {
	switch source {
	case SourceNGSL:
		return "NGSL", nil
	case SourceNAWL:
		return "NAWL", nil
	case SourceSpoken:
		return "Spoken", nil
	}
	return "", fmt.Errorf("unknown word list: %s (supported: ngsl, nawl, ngsl-spoken)", source)
}

// TextFetcher retrieves the raw body of a URL
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// FetchList downloads and parses one published word list
func FetchList(ctx context.Context, fetcher TextFetcher, url string) ([]string, error) {
	raw, err := fetcher.FetchText(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch word list: %w", err)
	}
	return ParseList(raw), nil
}

// WriteColumn saves words to a one-column CSV file, the format SeedCSV reads
func WriteColumn(path string, words []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create list csv: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	for _, w := range words {
		if err := writer.Write([]string{w}); err != nil {
			return fmt.Errorf("write list csv: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

var (
	wordOnly   = regexp.MustCompile(`^[a-z\-']+$`)
	headerLine = regexp.MustCompile(`(?i)ngsl|nawl|spoken.*ver|version|copyright|corpus|cambridge`)
	asciiWord  = regexp.MustCompile(`^[A-Za-z-]+$`)
	hasSpace   = regexp.MustCompile(`\s`)
)

// ParseList extracts lowercase words from a published list file. The files
// mix one-word-per-line, CSV and TSV layouts and carry version/copyright
// headers, so the delimiter is sniffed from the first cleaned lines.
func ParseList(raw string) []string {
	raw = strings.ReplaceAll(raw, "\uFEFF", "")
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var cleaned []string
	for _, line := range strings.Split(raw, "\n") {
		s := strings.TrimSpace(line)
		if s == "" || strings.HasPrefix(s, "#") || strings.HasPrefix(s, "//") {
			continue
		}
		if headerLine.MatchString(s) && hasSpace.MatchString(s) && !asciiWord.MatchString(s) {
			continue
		}
		cleaned = append(cleaned, s)
	}

	sample := cleaned
	if len(sample) > 5 {
		sample = sample[:5]
	}
	var delim rune
	for _, s := range sample {
		if strings.Contains(s, ",") {
			delim = ','
			break
		}
	}
	if delim == 0 {
		for _, s := range sample {
			if strings.Contains(s, "\t") {
				delim = '\t'
				break
			}
		}
	}

	var words []string
	seen := make(map[string]bool)
	keep := func(w string) {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || !wordOnly.MatchString(w) || seen[w] {
			return
		}
		seen[w] = true
		words = append(words, w)
	}

	if delim != 0 {
		reader := csv.NewReader(strings.NewReader(strings.Join(cleaned, "\n")))
		reader.Comma = delim
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true
		for {
			row, err := reader.Read()
			if err != nil {
				break
			}
			if len(row) > 0 {
				keep(row[0])
			}
		}
		return words
	}

	for _, s := range cleaned {
		keep(s)
	}
	return words
}
