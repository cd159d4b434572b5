package notion

import (
	"context"
	"fmt"
	"time"

	"lexipipe/internal/model"
)

// OutputInput is one completed writing exercise
type OutputInput struct {
	ArticleID  string
	PatternID  string
	Keywords   []string
	Correction model.Correction
	TokensUsed int
}

// CreateOutput records a writing exercise and returns the page ID
func (c *Client) CreateOutput(ctx context.Context, in OutputInput) (string, error) {
	if c.OutputsDB == "" {
		return "", fmt.Errorf("outputs database ID is not configured")
	}

	title := "Output for article " + in.ArticleID
	if len(in.ArticleID) > 8 {
		title = "Output for article " + in.ArticleID[:8]
	}

	props := Props{
		"Title":         TitleProp(title),
		"Article":       RelationProp(in.ArticleID),
		"Pattern":       RelationProp(in.PatternID),
		"Keywords":      MultiSelectProp(in.Keywords),
		"Draft":         RichTextProp(in.Correction.Draft),
		"Corrected":     RichTextProp(in.Correction.Corrected),
		"Feedback":      RichTextProp(in.Correction.Feedback),
		"Tokens721Used": NumberProp(float64(in.TokensUsed)),
		"Date":          DateProp(isoNow(time.Now())),
		"Status":        SelectProp("Done"),
	}

	payload := map[string]any{
		"parent":     map[string]any{"database_id": c.OutputsDB},
		"properties": props,
	}
	return c.CreatePage(ctx, payload)
}
