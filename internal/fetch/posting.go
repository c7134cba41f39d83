package fetch

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/cache"
)

// Cache stores fetched postings. *cache.ResultCache satisfies it.
type Cache interface {
	Get(ctx context.Context, key string, v any) (bool, error)
	Set(ctx context.Context, key string, v any) error
}

// Posting is the job description text extracted from one URL.
type Posting struct {
	URL       string    `json:"url"`
	Platform  Platform  `json:"platform"`
	Text      string    `json:"text"`
	Rendered  bool      `json:"rendered"`
	FetchedAt time.Time `json:"fetched_at"`
}

// PostingFetcher turns job posting URLs into job description text, with an optional
// cache and an optional browser fallback for client-rendered boards.
type PostingFetcher struct {
	options  *Options
	cache    Cache
	renderer Renderer
	logger   *zap.Logger
}

// PostingOption configures a PostingFetcher.
type PostingOption func(*PostingFetcher)

// WithCache reuses earlier fetches of the same URL.
func WithCache(c Cache) PostingOption {
	return func(f *PostingFetcher) { f.cache = c }
}

// WithRenderer enables the browser fallback for short pages.
func WithRenderer(r Renderer) PostingOption {
	return func(f *PostingFetcher) { f.renderer = r }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) PostingOption {
	return func(f *PostingFetcher) { f.logger = l }
}

// NewPostingFetcher creates a fetcher. A nil opts means DefaultOptions.
func NewPostingFetcher(opts *Options, options ...PostingOption) *PostingFetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	f := &PostingFetcher{options: opts, logger: zap.NewNop()}
	for _, o := range options {
		o(f)
	}
	return f
}

// Fetch returns the posting at rawURL. Cache failures are logged and otherwise ignored.
func (f *PostingFetcher) Fetch(ctx context.Context, rawURL string) (*Posting, error) {
	key := cache.Key("jd", rawURL)
	if f.cache != nil {
		var cached Posting
		hit, err := f.cache.Get(ctx, key, &cached)
		if err != nil {
			f.logger.Warn("posting cache lookup failed", zap.String("url", rawURL), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	posting, err := f.fetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.Set(ctx, key, posting); err != nil {
			f.logger.Warn("posting cache store failed", zap.String("url", rawURL), zap.Error(err))
		}
	}
	return posting, nil
}

func (f *PostingFetcher) fetch(ctx context.Context, rawURL string) (*Posting, error) {
	platform := DetectPlatform(rawURL)
	result, err := URL(ctx, rawURL, f.options)
	if err != nil {
		return nil, err
	}

	text, err := ExtractMainText(result.HTML, platform.ContentSelectors(), platform.NoiseSelectors()...)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to extract posting text", Cause: err}
	}

	posting := &Posting{URL: rawURL, Platform: platform, Text: text, FetchedAt: time.Now().UTC()}
	if !NeedsBrowser(text) {
		return posting, nil
	}
	if f.renderer == nil {
		if text == "" {
			return nil, &Error{URL: rawURL, Message: "no posting text found", Cause: errRendererRequired}
		}
		f.logger.Debug("short posting text, no renderer configured",
			zap.String("url", rawURL), zap.Int("chars", len(text)))
		return posting, nil
	}

	f.logger.Debug("rendering posting in browser", zap.String("url", rawURL), zap.String("platform", string(platform)))
	html, err := f.renderer.Render(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	rendered, err := ExtractMainText(html, platform.ContentSelectors(), platform.NoiseSelectors()...)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to extract rendered text", Cause: err}
	}
	if len(rendered) > len(text) {
		posting.Text = rendered
		posting.Rendered = true
	}
	return posting, nil
}
