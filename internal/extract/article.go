package extract

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"lexipipe/internal/model"
)

var (
	adClassPat = regexp.MustCompile(`(?i)(advert|ads?|promo|sponsor|subscribe|newsletter|related|share|social|cookie|banner|signup|footer|header|nav|sidebar|outbrain|taboola)`)
	adTextPat  = regexp.MustCompile(`(?i)(black\s*friday|buy\s*now|subscribe|sign\s*up|sponsored|deal(s)?|coupon|newsletter|shop|read\s*more|related\s*articles?)`)
)

// bodySelectors are tried in order when no structured body is available
var bodySelectors = []string{
	"article",
	"[role=main]",
	"main",
	"[class*=entry-content]",
	".td-post-content",
	".post-content",
	".article-content",
	".story-content",
	".content-body",
	".c-article__body",
	".article-body",
}

// Extractor turns a fetched page into a clean article
type Extractor struct {
	fetcher *Fetcher
}

// NewExtractor creates an extractor over the given fetcher
func NewExtractor(fetcher *Fetcher) *Extractor {
	return &Extractor{fetcher: fetcher}
}

// Extract fetches the URL and recovers the article title and body text.
// The ladder: JSON-LD body, the AMP variant, scored content blocks, and
// finally every paragraph on the page.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*model.Article, error) {
	res, err := e.fetcher.FetchHTML(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	fallbackTitle := strings.TrimSpace(doc.Find("title").First().Text())
	if fallbackTitle == "" {
		fallbackTitle = rawURL
	}

	if title, body, ok := jsonldArticle(doc); ok && len(body) > 300 {
		if title == "" {
			title = fallbackTitle
		}
		return &model.Article{Title: title, URL: rawURL, Body: normalizeText(body)}, nil
	}

	if ampURL := ampCandidateURL(doc, rawURL); ampURL != "" {
		if article := e.tryAMP(ctx, ampURL, rawURL, fallbackTitle); article != nil {
			return article, nil
		}
	}

	pruneNoise(doc)
	text := bestFromSelectors(doc)
	if text == "" {
		text = bestParentBlock(doc)
	}
	if text != "" {
		if cleaned := normalizeText(cleanLines(text)); len(cleaned) > 200 {
			return &model.Article{Title: pageTitle(doc, fallbackTitle, rawURL), URL: rawURL, Body: cleaned}, nil
		}
	}

	// Last resort: concatenate every paragraph on the page.
	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if t := textOf(s); t != "" {
			parts = append(parts, t)
		}
	})
	return &model.Article{
		Title: fallbackTitle,
		URL:   rawURL,
		Body:  normalizeText(strings.Join(parts, " ")),
	}, nil
}

// tryAMP fetches the AMP variant and extracts from it; any failure falls
// back to the canonical page.
func (e *Extractor) tryAMP(ctx context.Context, ampURL, origURL, fallbackTitle string) *model.Article {
	res, err := e.fetcher.FetchHTML(ctx, ampURL)
	if err != nil {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(res.Body))
	if err != nil {
		return nil
	}

	ampTitle := strings.TrimSpace(doc.Find("title").First().Text())
	if ampTitle == "" {
		ampTitle = fallbackTitle
	}

	if title, body, ok := jsonldArticle(doc); ok && len(body) > 300 {
		if title == "" {
			title = ampTitle
		}
		return &model.Article{Title: title, URL: origURL, Body: normalizeText(body)}
	}

	pruneNoise(doc)
	text := bestFromSelectors(doc)
	if text == "" {
		text = bestParentBlock(doc)
	}
	if text == "" {
		return nil
	}
	cleaned := normalizeText(cleanLines(text))
	if len(cleaned) <= 200 {
		return nil
	}
	return &model.Article{Title: pageTitle(doc, fallbackTitle, origURL), URL: origURL, Body: cleaned}
}

// ampCandidateURL resolves the page's AMP variant, if any
func ampCandidateURL(doc *goquery.Document, baseURL string) string {
	var href string
	doc.Find("link[rel]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel, _ := s.Attr("rel")
		if strings.Contains(strings.ToLower(rel), "amphtml") {
			href, _ = s.Attr("href")
			return false
		}
		return true
	})
	if href != "" {
		base, err := url.Parse(baseURL)
		if err != nil {
			return href
		}
		ref, err := url.Parse(href)
		if err != nil {
			return ""
		}
		return base.ResolveReference(ref).String()
	}
	if !strings.HasSuffix(baseURL, "/amp") {
		return strings.TrimRight(baseURL, "/") + "/amp"
	}
	return ""
}

// pruneNoise strips scripts, boilerplate containers and link farms
func pruneNoise(doc *goquery.Document) {
	doc.Find("script,style,noscript,svg,form,iframe,picture").Remove()

	doc.Find("*").Each(func(_ int, s *goquery.Selection) {
		node := s.Get(0)
		class, _ := s.Attr("class")
		id, _ := s.Attr("id")
		if adClassPat.MatchString(class) || adClassPat.MatchString(id) || adClassPat.MatchString(node.Data) {
			s.Remove()
			return
		}
		if linkDensity(s) > 0.5 && len(textOf(s)) < 1200 {
			s.Remove()
		}
	})
}

// linkDensity is the share of a block's text living inside anchors
func linkDensity(s *goquery.Selection) float64 {
	text := textOf(s)
	if len(text) == 0 {
		return 1.0
	}
	var linkText []string
	s.Find("a").Each(func(_ int, a *goquery.Selection) {
		linkText = append(linkText, textOf(a))
	})
	return float64(len(strings.Join(linkText, " "))) / float64(len(text))
}

func bestFromSelectors(doc *goquery.Document) string {
	var blocks []*goquery.Selection
	for _, sel := range bodySelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			blocks = append(blocks, s)
		})
	}
	return pickBestBlock(blocks)
}

func pickBestBlock(blocks []*goquery.Selection) string {
	best := ""
	bestScore := -1.0
	for _, el := range blocks {
		txt := textOf(el)
		if len(txt) < 200 || adTextPat.MatchString(txt) {
			continue
		}
		score := float64(len(txt)) * (1.0 - min(linkDensity(el), 1.0))
		if score > bestScore {
			bestScore = score
			best = txt
		}
	}
	return best
}

// bestParentBlock scores the elements holding the most paragraphs
func bestParentBlock(doc *goquery.Document) string {
	type parentCount struct {
		sel   *goquery.Selection
		count int
		order int
	}
	counts := make(map[*html.Node]*parentCount)
	order := 0
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		parent := p.Parent()
		node := parent.Get(0)
		if node == nil {
			return
		}
		if pc, ok := counts[node]; ok {
			pc.count++
		} else {
			counts[node] = &parentCount{sel: parent, count: 1, order: order}
			order++
		}
	})

	candidates := make([]*parentCount, 0, len(counts))
	for _, pc := range counts {
		candidates = append(candidates, pc)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].count != candidates[j].count {
			return candidates[i].count > candidates[j].count
		}
		return candidates[i].order < candidates[j].order
	})
	if len(candidates) > 8 {
		candidates = candidates[:8]
	}

	blocks := make([]*goquery.Selection, len(candidates))
	for i, pc := range candidates {
		blocks[i] = pc.sel
	}
	return pickBestBlock(blocks)
}

// cleanLines drops promotional lines and rejoins the rest
func cleanLines(text string) string {
	var kept []string
	for _, ln := range regexp.MustCompile(`[\r\n]+`).Split(text, -1) {
		ln = strings.TrimSpace(ln)
		if ln != "" && !adTextPat.MatchString(ln) {
			kept = append(kept, ln)
		}
	}
	return strings.Join(kept, " ")
}

func pageTitle(doc *goquery.Document, fallback, rawURL string) string {
	if h1 := textOf(doc.Find("h1").First()); h1 != "" {
		return h1
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if fallback != "" {
		return fallback
	}
	return rawURL
}

// textOf extracts visible text with single-space separators
func textOf(s *goquery.Selection) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range s.Nodes {
		walk(n)
	}
	return normalizeText(b.String())
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
