package tts

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// maxChunkLen is the longest text fragment the translate endpoint accepts
const maxChunkLen = 200

const endpoint = "https://translate.google.com/translate_tts"

// Synthesizer turns article text into an MP3 file using the public
// Google Translate speech endpoint.
type Synthesizer struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	outDir     string
	baseURL    string
}

// NewSynthesizer creates a synthesizer writing files under outDir
func NewSynthesizer(outDir, userAgent string) *Synthesizer {
	return &Synthesizer{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
		userAgent:  userAgent,
		outDir:     outDir,
		baseURL:    endpoint,
	}
}

// SetBaseURL points the synthesizer at a different endpoint
func (s *Synthesizer) SetBaseURL(u string) {
	s.baseURL = u
}

// Synthesize speaks text into an MP3 named after the title. Returns the
// written file path.
func (s *Synthesizer) Synthesize(ctx context.Context, text, title, lang string) (string, error) {
	if lang == "" {
		lang = "en"
	}
	chunks := ChunkText(text, maxChunkLen)
	if len(chunks) == 0 {
		return "", fmt.Errorf("no speakable text")
	}

	if err := os.MkdirAll(s.outDir, 0o755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}
	outPath := filepath.Join(s.outDir, fmt.Sprintf("%s-%s.mp3", Slug(title, 60), shortID()))

	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("create audio file: %w", err)
	}
	defer f.Close()

	for _, chunk := range chunks {
		if err := s.limiter.Wait(ctx); err != nil {
			return "", err
		}
		if err := s.fetchChunk(ctx, f, chunk, lang); err != nil {
			os.Remove(outPath)
			return "", err
		}
	}
	return outPath, nil
}

func (s *Synthesizer) fetchChunk(ctx context.Context, w io.Writer, chunk, lang string) error {
	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("tl", lang)
	params.Set("q", chunk)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch audio: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("audio endpoint status %d", resp.StatusCode)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	return nil
}

var sentenceEndPat = regexp.MustCompile(`([.!?])\s+`)

// ChunkText splits text into fragments of at most limit characters,
// breaking on sentence ends where possible and on word boundaries
// otherwise.
func ChunkText(text string, limit int) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}

	sentences := splitSentences(text)
	var chunks []string
	current := ""
	for _, sent := range sentences {
		for _, piece := range splitLongSentence(sent, limit) {
			switch {
			case current == "":
				current = piece
			case len(current)+1+len(piece) <= limit:
				current += " " + piece
			default:
				chunks = append(chunks, current)
				current = piece
			}
		}
	}
	if current != "" {
		chunks = append(chunks, current)
	}
	return chunks
}

func splitSentences(text string) []string {
	marked := sentenceEndPat.ReplaceAllString(text, "$1\x00")
	parts := strings.Split(marked, "\x00")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// splitLongSentence breaks an over-long sentence on word boundaries
func splitLongSentence(sent string, limit int) []string {
	if len(sent) <= limit {
		return []string{sent}
	}
	words := strings.Fields(sent)
	var out []string
	current := ""
	for _, w := range words {
		if len(w) > limit {
			w = w[:limit]
		}
		switch {
		case current == "":
			current = w
		case len(current)+1+len(w) <= limit:
			current += " " + w
		default:
			out = append(out, current)
			current = w
		}
	}
	if current != "" {
		out = append(out, current)
	}
	return out
}

var slugPat = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Slug turns a title into a filesystem-safe name
func Slug(text string, n int) string {
	s := slugPat.ReplaceAllString(strings.ToLower(strings.TrimSpace(text)), "-")
	s = strings.Trim(s, "-")
	if len(s) > n {
		s = s[:n]
	}
	if s == "" {
		s = "audio"
	}
	return s
}

func shortID() string {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "000000"
	}
	return hex.EncodeToString(b)
}
