package wordlist

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"lexipipe/internal/model"
)

var csvHeader = []string{"word", "lists", "seen_tokens", "seen_articles", "last_seen"}

// Repo is the words.csv-backed catalog of known words
type Repo struct {
	path string
}

// NewRepo creates a repo over the given CSV path
func NewRepo(path string) *Repo {
	return &Repo{path: path}
}

// Path returns the backing CSV location
func (r *Repo) Path() string {
	return r.path
}

// Load reads all entries; a missing file yields an empty catalog
func (r *Repo) Load() (map[string]*model.WordEntry, error) {
	entries := make(map[string]*model.WordEntry)

	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return nil, fmt.Errorf("open words csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read words csv: %w", err)
	}

	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == "word" {
			continue
		}
		if len(row) < 5 {
			continue
		}
		word := strings.ToLower(strings.TrimSpace(row[0]))
		if word == "" {
			continue
		}
		entry := model.NewWordEntry(word)
		for _, tag := range strings.Split(row[1], ";") {
			if tag = strings.TrimSpace(tag); tag != "" {
				entry.Lists[tag] = true
			}
		}
		entry.SeenTokens, _ = strconv.Atoi(row[2])
		entry.SeenArticles, _ = strconv.Atoi(row[3])
		entry.LastSeen = strings.TrimSpace(row[4])
		entries[word] = entry
	}
	return entries, nil
}

// Save writes the catalog sorted by word
func (r *Repo) Save(entries map[string]*model.WordEntry) error {
	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create words dir: %w", err)
		}
	}

	f, err := os.Create(r.path)
	if err != nil {
		return fmt.Errorf("create words csv: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	words := make([]string, 0, len(entries))
	for w := range entries {
		words = append(words, w)
	}
	sort.Strings(words)

	for _, w := range words {
		entry := entries[w]
		tags := make([]string, 0, len(entry.Lists))
		for tag := range entry.Lists {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		row := []string{
			w,
			strings.Join(tags, ";"),
			strconv.Itoa(entry.SeenTokens),
			strconv.Itoa(entry.SeenArticles),
			entry.LastSeen,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// MergeResult summarises a MergeList call
type MergeResult struct {
	Created int // words new to the catalog
	Tagged  int // existing words that gained the tag
	Total   int // catalog size afterwards
}

// MergeList tags every word with the given list label, creating entries for
// unknown words.
func (r *Repo) MergeList(words []string, label string) (*MergeResult, error) {
	entries, err := r.Load()
	if err != nil {
		return nil, err
	}

	res := &MergeResult{}
	for _, word := range words {
		entry, ok := entries[word]
		if !ok {
			entry = model.NewWordEntry(word)
			entries[word] = entry
		}
		if !entry.Lists[label] {
			entry.Lists[label] = true
			if !ok {
				res.Created++
			} else {
				res.Tagged++
			}
		}
	}
	res.Total = len(entries)

	if err := r.Save(entries); err != nil {
		return nil, err
	}
	return res, nil
}

// SeedCSV merges bare words from a one-column CSV file into the catalog.
// Returns the number of rows read.
func (r *Repo) SeedCSV(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open seed csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return 0, fmt.Errorf("read seed csv: %w", err)
	}

	entries, err := r.Load()
	if err != nil {
		return 0, err
	}

	added := 0
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		word := strings.ToLower(strings.TrimSpace(row[0]))
		if word == "" {
			continue
		}
		if _, ok := entries[word]; !ok {
			entries[word] = model.NewWordEntry(word)
		}
		added++
	}

	if err := r.Save(entries); err != nil {
		return 0, err
	}
	return added, nil
}

// ApplyEncounters adds this article's token counts to catalog entries.
// Unknown words are ignored; each encountered word gains one article.
func (r *Repo) ApplyEncounters(encounters map[string]int, now time.Time) (int, error) {
	entries, err := r.Load()
	if err != nil {
		return 0, err
	}

	stamp := now.UTC().Truncate(time.Second).Format(time.RFC3339)
	updated := 0
	for w, c := range encounters {
		entry, ok := entries[w]
		if !ok {
			continue
		}
		entry.SeenTokens += c
		entry.SeenArticles++
		entry.LastSeen = stamp
		updated++
	}

	if err := r.Save(entries); err != nil {
		return 0, err
	}
	return updated, nil
}

// RevertEncounters subtracts counts previously applied for an article.
// Counters floor at zero; last_seen clears when no articles remain.
func (r *Repo) RevertEncounters(encounters map[string]int) (int, error) {
	entries, err := r.Load()
	if err != nil {
		return 0, err
	}

	reverted := 0
	for w, c := range encounters {
		entry, ok := entries[w]
		if !ok {
			continue
		}
		entry.SeenTokens = max(entry.SeenTokens-c, 0)
		entry.SeenArticles = max(entry.SeenArticles-1, 0)
		if entry.SeenArticles == 0 {
			entry.LastSeen = ""
		}
		reverted++
	}

	if err := r.Save(entries); err != nil {
		return 0, err
	}
	return reverted, nil
}

// Reset modes
const (
	ResetZero    = "zero"    // zero every counter, keep the words
	ResetArchive = "archive" // drop every entry
)

// Reset applies the given mode and returns the prior entry count
func (r *Repo) Reset(mode string) (int, error) {
	entries, err := r.Load()
	if err != nil {
		return 0, err
	}
	before := len(entries)

	switch mode {
	case ResetArchive:
		entries = make(map[string]*model.WordEntry)
	case ResetZero:
		for _, entry := range entries {
			entry.SeenTokens = 0
			entry.SeenArticles = 0
			entry.LastSeen = ""
		}
	default:
		return 0, fmt.Errorf("unknown reset mode: %s (supported: zero, archive)", mode)
	}

	if err := r.Save(entries); err != nil {
		return 0, err
	}
	return before, nil
}

// Catalog groups entries by list tag for the analyzer
func Catalog(entries map[string]*model.WordEntry) map[string]map[string]bool {
	byList := make(map[string]map[string]bool)
	for word, entry := range entries {
		for tag := range entry.Lists {
			if byList[tag] == nil {
				byList[tag] = make(map[string]bool)
			}
			byList[tag][word] = true
		}
	}
	return byList
}
