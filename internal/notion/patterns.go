package notion

import (
	"context"
	"fmt"
	"time"

	"lexipipe/internal/model"
)

// ListPatterns returns every pattern page in the Patterns database
func (c *Client) ListPatterns(ctx context.Context) ([]model.Pattern, error) {
	if c.PatternsDB == "" {
		return nil, fmt.Errorf("patterns database ID is not configured")
	}
	pages, err := c.QueryDatabase(ctx, c.PatternsDB, nil)
	if err != nil {
		return nil, err
	}

	patterns := make([]model.Pattern, 0, len(pages))
	for _, page := range pages {
		name := page.Text("Name")
		if name == "" {
			continue
		}
		p := model.Pattern{
			ID:       page.ID,
			Name:     name,
			Template: page.Text("Pattern"),
			Example:  page.Text("Example"),
		}
		if sel := page.Properties["CEFR"].Select; sel != nil {
			p.CEFR = sel.Name
		}
		for _, tag := range page.Properties["Tags"].MultiSelect {
			p.Tags = append(p.Tags, tag.Name)
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// CreatePattern adds one sentence pattern and returns the page ID
func (c *Client) CreatePattern(ctx context.Context, p model.Pattern) (string, error) {
	if c.PatternsDB == "" {
		return "", fmt.Errorf("patterns database ID is not configured")
	}

	props := Props{
		"Name":      TitleProp(p.Name),
		"Pattern":   RichTextProp(p.Template),
		"Example":   RichTextProp(p.Example),
		"UsedCount": NumberProp(0),
	}
	if len(p.Tags) > 0 {
		props["Tags"] = MultiSelectProp(p.Tags)
	}
	if p.CEFR != "" {
		props["CEFR"] = SelectProp(p.CEFR)
	}

	payload := map[string]any{
		"parent":     map[string]any{"database_id": c.PatternsDB},
		"properties": props,
	}
	return c.CreatePage(ctx, payload)
}

// TouchPattern bumps a pattern's usage counter and last-used date
func (c *Client) TouchPattern(ctx context.Context, patternID string) error {
	page, err := c.GetPage(ctx, patternID)
	if err != nil {
		return err
	}
	return c.UpdatePage(ctx, patternID, Props{
		"UsedCount": NumberProp(page.NumberValue("UsedCount") + 1),
		"LastUsed":  DateProp(isoNow(time.Now())),
	})
}
