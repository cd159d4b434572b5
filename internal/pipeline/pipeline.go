package pipeline

import (
	"fmt"

	"lexipipe/internal/cache"
	"lexipipe/internal/extract"
	"lexipipe/internal/llm"
	"lexipipe/internal/model"
	"lexipipe/internal/notion"
	"lexipipe/internal/tts"
	"lexipipe/internal/wordlist"
)

// Pipeline wires the extractor, the LLM, the word catalog and the
// workspace client together.
type Pipeline struct {
	fetcher   *extract.Fetcher
	extractor *extract.Extractor
	provider  llm.Provider
	words     *wordlist.Repo
	client    *notion.Client
	synth     *tts.Synthesizer
	config    *model.Config

	providerErr error
}

// NewPipeline creates a pipeline from the full configuration. A missing or
// misconfigured LLM provider is deferred: commands that never talk to the
// model (word catalog, setup, counters) still work without an API key.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	var store cache.Cache
	if cfg.Cache.Enabled {
		store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	}
	fetcher := extract.NewFetcher(cfg.HTTP, store, cfg.Cache.DiskTTL)

	p := &Pipeline{
		fetcher:   fetcher,
		extractor: extract.NewExtractor(fetcher),
		words:     wordlist.NewRepo(cfg.Words.CSVPath),
		client:    notion.NewClient(cfg.Notion),
		synth:     tts.NewSynthesizer(cfg.Output.AudioDir, cfg.HTTP.UserAgent),
		config:    cfg,
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		p.providerErr = fmt.Errorf("init LLM provider: %w", err)
	} else {
		p.provider = provider
	}
	return p, nil
}

// requireProvider guards the commands that need the LLM
func (p *Pipeline) requireProvider() error {
	if p.provider == nil {
		if p.providerErr != nil {
			return p.providerErr
		}
		return fmt.Errorf("LLM provider is not configured")
	}
	return nil
}

// Fetcher exposes the shared HTTP fetcher for word-list downloads
func (p *Pipeline) Fetcher() *extract.Fetcher {
	return p.fetcher
}

// Words exposes the local word catalog
func (p *Pipeline) Words() *wordlist.Repo {
	return p.words
}

// Client exposes the workspace client
func (p *Pipeline) Client() *notion.Client {
	return p.client
}

// Provider exposes the LLM provider
func (p *Pipeline) Provider() llm.Provider {
	return p.provider
}
