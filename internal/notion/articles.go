package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lexipipe/internal/analyze"
	"lexipipe/internal/model"
)

// ArticleInput carries everything needed to record one processed article
type ArticleInput struct {
	Title    string
	URL      string
	Level    string
	Body     string
	Glossary []model.GlossaryEntry
	Metrics  *analyze.Metrics
	AudioURL string
	Tags     []string
}

// BuildArticleProps assembles the Articles page payload
func BuildArticleProps(in ArticleInput, now time.Time) Props {
	m := in.Metrics
	glossJSON, _ := json.MarshalIndent(in.Glossary, "", "  ")

	props := Props{
		"Title":                           TitleProp(in.Title),
		"URL":                             URLProp(in.URL),
		"ImportedAt":                      DateProp(isoNow(now)),
		"TargetLevel":                     SelectProp(in.Level),
		"TokensTotal":                     NumberProp(float64(m.TokensTotal)),
		"TokensTotalSpecializedFree":      NumberProp(float64(m.TokensTotalFiltered)),
		"NGSL_Tokens":                     NumberProp(float64(m.PerList[model.ListNGSL].TokensAll)),
		"NAWL_Tokens":                     NumberProp(float64(m.PerList[model.ListNAWL].TokensAll)),
		"WrittenCore_Tokens":              NumberProp(float64(m.TokensCore())),
		"WrittenCore_TokensExSpecialized": NumberProp(float64(m.WrittenTokens)),
		"CoverageSummary":                 RichTextProp(joinLines(m.SummaryLines())),
		"TopNonCore":                      RichTextProp(m.TopNonCoreText()),
		"Status":                          SelectProp("Ready"),
		"Body":                            RichTextProp(in.Body),
		"Glossary":                        RichTextProp(string(glossJSON)),
	}
	if len(in.Tags) > 0 {
		props["Tags"] = MultiSelectProp(in.Tags)
	}
	if len(m.SpecializedManual) > 0 {
		props["SpecializedTermsManual"] = MultiSelectProp(m.SpecializedManual)
	}
	if len(m.SpecializedAI) > 0 {
		props["SpecializedTermsAI"] = MultiSelectProp(m.SpecializedAI)
	}
	if in.AudioURL != "" {
		props["Audio"] = ExternalFileProp("audio.mp3", in.AudioURL)
	}
	return props
}

// CreateArticle records a processed article and returns the page ID
func (c *Client) CreateArticle(ctx context.Context, in ArticleInput) (string, error) {
	if c.ArticlesDB == "" {
		return "", fmt.Errorf("articles database ID is not configured")
	}
	payload := map[string]any{
		"parent":     map[string]any{"database_id": c.ArticlesDB},
		"properties": BuildArticleProps(in, time.Now()),
	}
	return c.CreatePage(ctx, payload)
}

// GetArticleBody returns an article page's title and stored body text
func (c *Client) GetArticleBody(ctx context.Context, pageID string) (title, body string, err error) {
	page, err := c.GetPage(ctx, pageID)
	if err != nil {
		return "", "", err
	}
	title = page.Text("Title")
	if title == "" {
		title = pageID
	}
	return title, page.Text("Body"), nil
}

// CountsApplied reports whether the page already has the applied mark
func (c *Client) CountsApplied(ctx context.Context, pageID string) (bool, error) {
	page, err := c.GetPage(ctx, pageID)
	if err != nil {
		return false, err
	}
	return page.Properties["CountsApplied"].Checkbox, nil
}

// MarkCountsApplied stamps the page after word counters were updated.
// Databases without the checkbox property are left untouched.
func (c *Client) MarkCountsApplied(ctx context.Context, pageID string) error {
	err := c.UpdatePage(ctx, pageID, Props{
		"CountsApplied":   CheckboxProp(true),
		"CountsAppliedAt": DateProp(isoNow(time.Now())),
	})
	if IsNotFound(err) {
		return nil
	}
	return err
}

// UnmarkCountsApplied clears the applied mark after counters were reverted
func (c *Client) UnmarkCountsApplied(ctx context.Context, pageID string) error {
	err := c.UpdatePage(ctx, pageID, Props{
		"CountsApplied":   CheckboxProp(false),
		"CountsAppliedAt": DateProp(""),
	})
	if IsNotFound(err) {
		return nil
	}
	return err
}

// VocabNotes returns the page's stored vocabulary notes
func (c *Client) VocabNotes(ctx context.Context, pageID string) (string, error) {
	page, err := c.GetPage(ctx, pageID)
	if err != nil {
		return "", err
	}
	return page.Text("VocabNotes"), nil
}

// AppendVocabNotes merges new notes under any prior notes on the page
func (c *Client) AppendVocabNotes(ctx context.Context, pageID, notes string) error {
	prior, err := c.VocabNotes(ctx, pageID)
	if err != nil {
		return err
	}
	combined := notes
	if prior != "" {
		combined = prior + "\n" + notes
	}
	return c.UpdatePage(ctx, pageID, Props{"VocabNotes": RichTextProp(combined)})
}

func isoNow(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
