package notion

import "strings"

// richTextLimit keeps property values inside Notion's 2000-character cap
const richTextLimit = 1900

// multiSelectLimit bounds option counts on generated multi-selects
const (
	multiSelectLimit = 20
	optionNameLimit  = 90
)

// Props is a Notion page properties payload
type Props map[string]any

// TitleProp builds a title property
func TitleProp(text string) any {
	return map[string]any{
		"title": []any{textSpan(text)},
	}
}

// RichTextProp builds a rich_text property, truncated to the API limit
func RichTextProp(text string) any {
	if len(text) > richTextLimit {
		text = text[:richTextLimit]
	}
	return map[string]any{
		"rich_text": []any{textSpan(text)},
	}
}

// NumberProp builds a number property
func NumberProp(n float64) any {
	return map[string]any{"number": n}
}

// SelectProp builds a select property
func SelectProp(name string) any {
	return map[string]any{"select": map[string]any{"name": name}}
}

// MultiSelectProp builds a multi_select property with capped option names
func MultiSelectProp(names []string) any {
	if len(names) > multiSelectLimit {
		names = names[:multiSelectLimit]
	}
	options := make([]any, 0, len(names))
	for _, n := range names {
		if len(n) > optionNameLimit {
			n = n[:optionNameLimit]
		}
		options = append(options, map[string]any{"name": n})
	}
	return map[string]any{"multi_select": options}
}

// DateProp builds a date property; empty start clears the date
func DateProp(start string) any {
	if start == "" {
		return map[string]any{"date": nil}
	}
	return map[string]any{"date": map[string]any{"start": start}}
}

// CheckboxProp builds a checkbox property
func CheckboxProp(v bool) any {
	return map[string]any{"checkbox": v}
}

// URLProp builds a url property
func URLProp(u string) any {
	return map[string]any{"url": u}
}

// RelationProp builds a relation property
func RelationProp(pageIDs ...string) any {
	refs := make([]any, 0, len(pageIDs))
	for _, id := range pageIDs {
		refs = append(refs, map[string]any{"id": id})
	}
	return map[string]any{"relation": refs}
}

// ExternalFileProp builds a files property pointing at an external URL
func ExternalFileProp(name, url string) any {
	return map[string]any{
		"files": []any{map[string]any{
			"name":     name,
			"type":     "external",
			"external": map[string]any{"url": url},
		}},
	}
}

func textSpan(text string) map[string]any {
	return map[string]any{
		"type": "text",
		"text": map[string]any{"content": text},
	}
}

// Page is a Notion page as returned by the API
type Page struct {
	ID         string              `json:"id"`
	Properties map[string]Property `json:"properties"`
}

// Property is one decoded page property. Only the fields this tool reads
// are modeled.
type Property struct {
	Type        string         `json:"type"`
	Title       []RichTextSpan `json:"title"`
	RichText    []RichTextSpan `json:"rich_text"`
	Number      *float64       `json:"number"`
	Select      *SelectOption  `json:"select"`
	MultiSelect []SelectOption `json:"multi_select"`
	Checkbox    bool           `json:"checkbox"`
	Relation    []RelationRef  `json:"relation"`
}

// RichTextSpan is one span of a title or rich_text value
type RichTextSpan struct {
	PlainText string `json:"plain_text"`
}

// SelectOption is a select or multi_select option
type SelectOption struct {
	Name string `json:"name"`
}

// RelationRef points at a related page
type RelationRef struct {
	ID string `json:"id"`
}

// PlainText joins a property's text spans
func (p Property) PlainText() string {
	spans := p.Title
	if len(spans) == 0 {
		spans = p.RichText
	}
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.PlainText)
	}
	return strings.TrimSpace(b.String())
}

// Text returns the named property's text, or "" when absent
func (pg *Page) Text(name string) string {
	return pg.Properties[name].PlainText()
}

// NumberValue returns the named property's number, or 0 when absent
func (pg *Page) NumberValue(name string) float64 {
	prop, ok := pg.Properties[name]
	if !ok || prop.Number == nil {
		return 0
	}
	return *prop.Number
}
