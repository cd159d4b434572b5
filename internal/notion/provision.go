package notion

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
)

// ProvisionResult holds the IDs of the created databases
type ProvisionResult struct {
	ArticlesDB string
	PatternsDB string
	OutputsDB  string
}

// Provision creates the Articles, Patterns and Outputs databases under a
// parent page.
func (c *Client) Provision(ctx context.Context, parentPageID string) (*ProvisionResult, error) {
	articlesID, err := c.CreateDatabase(ctx, parentPageID, "Articles", articlesSchema())
	if err != nil {
		return nil, fmt.Errorf("create Articles database: %w", err)
	}

	patternsID, err := c.CreateDatabase(ctx, parentPageID, "Patterns", patternsSchema())
	if err != nil {
		return nil, fmt.Errorf("create Patterns database: %w", err)
	}

	outputsID, err := c.CreateDatabase(ctx, parentPageID, "Outputs", outputsSchema(articlesID, patternsID))
	if err != nil {
		return nil, fmt.Errorf("create Outputs database: %w", err)
	}

	return &ProvisionResult{
		ArticlesDB: articlesID,
		PatternsDB: patternsID,
		OutputsDB:  outputsID,
	}, nil
}

func articlesSchema() map[string]any {
	levels := []any{}
	for _, lvl := range []string{"A2", "B1", "B2", "C1"} {
		levels = append(levels, map[string]any{"name": lvl})
	}
	status := []any{
		map[string]any{"name": "Ready", "color": "green"},
		map[string]any{"name": "Draft", "color": "yellow"},
	}
	return map[string]any{
		"Title":                           map[string]any{"title": map[string]any{}},
		"URL":                             map[string]any{"url": map[string]any{}},
		"ImportedAt":                      map[string]any{"date": map[string]any{}},
		"TargetLevel":                     map[string]any{"select": map[string]any{"options": levels}},
		"TokensTotal":                     map[string]any{"number": map[string]any{}},
		"TokensTotalSpecializedFree":      map[string]any{"number": map[string]any{}},
		"NGSL_Tokens":                     map[string]any{"number": map[string]any{}},
		"NAWL_Tokens":                     map[string]any{"number": map[string]any{}},
		"WrittenCore_Tokens":              map[string]any{"number": map[string]any{}},
		"WrittenCore_TokensExSpecialized": map[string]any{"number": map[string]any{}},
		"CoverageSummary":                 map[string]any{"rich_text": map[string]any{}},
		"TopNonCore":                      map[string]any{"rich_text": map[string]any{}},
		"Status":                          map[string]any{"select": map[string]any{"options": status}},
		"Tags":                            map[string]any{"multi_select": map[string]any{}},
		"Body":                            map[string]any{"rich_text": map[string]any{}},
		"Glossary":                        map[string]any{"rich_text": map[string]any{}},
		"SpecializedTermsManual":          map[string]any{"multi_select": map[string]any{}},
		"SpecializedTermsAI":              map[string]any{"multi_select": map[string]any{}},
		"Audio":                           map[string]any{"files": map[string]any{}},
		"CountsApplied":                   map[string]any{"checkbox": map[string]any{}},
		"CountsAppliedAt":                 map[string]any{"date": map[string]any{}},
		"VocabNotes":                      map[string]any{"rich_text": map[string]any{}},
	}
}

func patternsSchema() map[string]any {
	tags := []any{}
	for _, t := range []string{"opinion", "cause-effect", "solution", "comparison", "contrast", "future", "experience", "conditional", "description", "other"} {
		tags = append(tags, map[string]any{"name": t})
	}
	levels := []any{}
	for _, lvl := range []string{"A2", "A2–B1", "B1", "B2"} {
		levels = append(levels, map[string]any{"name": lvl})
	}
	return map[string]any{
		"Name":      map[string]any{"title": map[string]any{}},
		"Pattern":   map[string]any{"rich_text": map[string]any{}},
		"Example":   map[string]any{"rich_text": map[string]any{}},
		"Tags":      map[string]any{"multi_select": map[string]any{"options": tags}},
		"CEFR":      map[string]any{"select": map[string]any{"options": levels}},
		"UsedCount": map[string]any{"number": map[string]any{}},
		"LastUsed":  map[string]any{"date": map[string]any{}},
	}
}

func outputsSchema(articlesDB, patternsDB string) map[string]any {
	status := []any{
		map[string]any{"name": "Draft", "color": "yellow"},
		map[string]any{"name": "Done", "color": "green"},
	}
	return map[string]any{
		"Title": map[string]any{"title": map[string]any{}},
		"Article": map[string]any{
			"relation": map[string]any{
				"database_id":     articlesDB,
				"type":            "single_property",
				"single_property": map[string]any{},
			},
		},
		"Pattern": map[string]any{
			"relation": map[string]any{
				"database_id":     patternsDB,
				"type":            "single_property",
				"single_property": map[string]any{},
			},
		},
		"Keywords":      map[string]any{"multi_select": map[string]any{}},
		"Draft":         map[string]any{"rich_text": map[string]any{}},
		"Corrected":     map[string]any{"rich_text": map[string]any{}},
		"Feedback":      map[string]any{"rich_text": map[string]any{}},
		"Tokens721Used": map[string]any{"number": map[string]any{}},
		"Date":          map[string]any{"date": map[string]any{}},
		"Status":        map[string]any{"select": map[string]any{"options": status}},
	}
}

// UpdateEnvFile rewrites key=value lines in an env file, appending keys
// that are not present yet.
func UpdateEnvFile(path string, updates map[string]string) error {
	var lines []string
	if data, err := os.ReadFile(path); err == nil {
		lines = strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read env file: %w", err)
	}

	seen := make(map[string]bool)
	out := make([]string, 0, len(lines)+len(updates))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if idx := strings.Index(line, "="); idx > 0 && !strings.HasPrefix(trimmed, "#") {
			key := line[:idx]
			if val, ok := updates[key]; ok {
				out = append(out, key+"="+val)
				seen[key] = true
				continue
			}
		}
		out = append(out, line)
	}

	// Preserve a stable append order for new keys.
	for _, key := range sortedKeys(updates) {
		if !seen[key] {
			out = append(out, key+"="+updates[key])
		}
	}

	content := strings.Join(out, "\n") + "\n"
	if len(out) == 0 {
		content = ""
	}
	return os.WriteFile(path, []byte(content), 0o644)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
