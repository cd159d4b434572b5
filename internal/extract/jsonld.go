package extract

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// jsonldArticle looks for an Article-typed JSON-LD object carrying the full
// body text. Returns ok only when the body exceeds 200 characters.
func jsonldArticle(doc *goquery.Document) (title, body string, ok bool) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		raw := strings.TrimSpace(s.Text())
		if raw == "" {
			return true
		}

		var data any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return true
		}

		candidates, isList := data.([]any)
		if !isList {
			candidates = []any{data}
		}
		for _, c := range candidates {
			obj, isMap := c.(map[string]any)
			if !isMap || !isArticleType(obj["@type"]) {
				continue
			}
			b := firstString(obj, "articleBody", "description")
			if len(b) <= 200 {
				continue
			}
			title = strings.TrimSpace(firstString(obj, "headline", "name"))
			body = strings.TrimSpace(b)
			ok = true
			return false
		}
		return true
	})
	return title, body, ok
}

func isArticleType(typ any) bool {
	var types []string
	switch t := typ.(type) {
	case string:
		types = []string{t}
	case []any:
		for _, v := range t {
			if s, isStr := v.(string); isStr {
				types = append(types, s)
			}
		}
	default:
		return false
	}

	for _, t := range types {
		switch strings.ToLower(t) {
		case "article", "newsarticle", "blogposting":
			return true
		}
	}
	return false
}

func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, isStr := obj[k].(string); isStr && s != "" {
			return s
		}
	}
	return ""
}
