package fetch

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Page is a fetched profile page reduced to model-readable forms.
type Page struct {
	URL        string
	HTML       string
	Text       string
	Markdown   string
	JSONLD     string // schema.org Person block, when the page carries one
	StatusCode int
	Rendered   bool // true when the headless browser produced the HTML
	FromCache  bool
}

// PageFetcherConfig configures a PageFetcher.
type PageFetcherConfig struct {
	Options        *Options
	UseBrowser     bool
	ChromePath     string
	BrowserTimeout time.Duration
	CacheTTL       time.Duration // 0 disables caching
}

// DefaultPageFetcherConfig returns a configuration with a 10 minute cache
// and the browser fallback disabled.
func DefaultPageFetcherConfig() PageFetcherConfig {
	return PageFetcherConfig{
		Options:        DefaultOptions(),
		BrowserTimeout: DefaultTimeout,
		CacheTTL:       10 * time.Minute,
	}
}

type cacheEntry struct {
	page    *Page
	expires time.Time
}

// PageFetcher fetches pages with a short in-memory cache. Concurrent
// requests for the same URL share one fetch.
type PageFetcher struct {
	cfg     PageFetcherConfig
	mu      sync.Mutex
	entries map[string]cacheEntry
	group   singleflight.Group
	now     func() time.Time
	browse  func(ctx context.Context, url string) (string, error)
}

// NewPageFetcher creates a fetcher.
func NewPageFetcher(cfg PageFetcherConfig) *PageFetcher {
	if cfg.Options == nil {
		cfg.Options = DefaultOptions()
	}
	if cfg.BrowserTimeout <= 0 {
		cfg.BrowserTimeout = DefaultTimeout
	}
	f := &PageFetcher{
		cfg:     cfg,
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
	f.browse = func(ctx context.Context, url string) (string, error) {
		return WithBrowser(ctx, url, cfg.ChromePath, cfg.BrowserTimeout)
	}
	return f
}

// Fetch returns the page at url, from cache when fresh.
func (f *PageFetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	if page := f.cached(url); page != nil {
		return page, nil
	}

	v, err, _ := f.group.Do(url, func() (any, error) {
		return f.fetchFresh(ctx, url)
	})
	if err != nil {
		return nil, err
	}
	page := *v.(*Page)
	return &page, nil
}

// Invalidate drops any cached copy of url.
func (f *PageFetcher) Invalidate(url string) {
	f.mu.Lock()
	delete(f.entries, url)
	f.mu.Unlock()
}

func (f *PageFetcher) cached(url string) *Page {
	if f.cfg.CacheTTL <= 0 {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[url]
	if !ok {
		return nil
	}
	if f.now().After(entry.expires) {
		delete(f.entries, url)
		return nil
	}
	page := *entry.page
	page.FromCache = true
	return &page
}

func (f *PageFetcher) fetchFresh(ctx context.Context, url string) (*Page, error) {
	result, err := URL(ctx, url, f.cfg.Options)
	if err != nil {
		return nil, err
	}

	platform := DetectPlatform(url)
	selectors := ProfileContentSelectors(platform)
	noise := ProfileNoiseSelectors(platform)

	page := &Page{URL: url, HTML: result.HTML, StatusCode: result.StatusCode}
	page.Text, _ = ExtractMainText(page.HTML, selectors, noise...)

	if f.cfg.UseBrowser && ShouldUseBrowser(page.Text) {
		rendered, err := f.browse(ctx, url)
		if err != nil {
			log.Printf("[fetch] browser fallback failed for %s: %v", url, err)
		} else {
			page.HTML = rendered
			page.Rendered = true
			page.Text, _ = ExtractMainText(page.HTML, selectors, noise...)
		}
	}

	if md, err := ToMarkdown(page.HTML, selectors, noise...); err != nil {
		log.Printf("[fetch] markdown conversion failed for %s: %v", url, err)
	} else {
		page.Markdown = md
	}
	page.JSONLD = ExtractJSONLD(page.HTML, "Person")

	if f.cfg.CacheTTL > 0 {
		f.mu.Lock()
		f.entries[url] = cacheEntry{page: page, expires: f.now().Add(f.cfg.CacheTTL)}
		f.mu.Unlock()
	}
	return page, nil
}
