package dataflows

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"coinsage/config"
)

const cryptoPanicBaseURL = "https://cryptopanic.com/api/developer/v2/posts/"

// CryptoPanicClient serves the news collector.
type CryptoPanicClient struct {
	client *resty.Client
	cache  *Cache
	apiKey string
}

func NewCryptoPanicClient(cfg *config.Config) *CryptoPanicClient {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &CryptoPanicClient{
		client: client,
		cache:  NewCache(filepath.Join(cfg.DataCacheDir, "cryptopanic"), 30*time.Minute, cfg.CacheEnabled),
		apiKey: cfg.CryptoPanicAPIKey,
	}
}

// Configured reports whether an API key is available; callers fall back to
// the news scraper otherwise.
func (c *CryptoPanicClient) Configured() bool {
	return c.apiKey != ""
}

type cpPostsResponse struct {
	Results []struct {
		Title       string `json:"title"`
		PublishedAt string `json:"published_at"`
		URL         string `json:"url"`
		OriginalURL string `json:"original_url"`
		Source      struct {
			Title string `json:"title"`
		} `json:"source"`
	} `json:"results"`
}

// GetNews fetches hot news posts for a coin.
func (c *CryptoPanicClient) GetNews(ctx context.Context, coin string) ([]*NewsItem, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("CryptoPanic API key not configured")
	}

	symbol := CoinSymbol(coin)

	var cached []*NewsItem
	if c.cache.Get("cryptopanic", "posts", symbol, &cached) {
		return cached, nil
	}

	var items []*NewsItem
	err := WithRetry(ctx, DefaultRetryConfig(), func() error {
		var posts cpPostsResponse
		resp, err := c.client.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"auth_token": c.apiKey,
				"filter":     "hot",
				"kind":       "news",
				"public":     "true",
				"currencies": symbol,
			}).
			SetResult(&posts).
			Get(cryptoPanicBaseURL)
		if err != nil {
			return fmt.Errorf("fetch news for %s: %w", symbol, err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("news for %s failed: HTTP %d", symbol, resp.StatusCode())
		}

		items = items[:0]
		for _, post := range posts.Results {
			title := strings.TrimSpace(post.Title)
			if title == "" || post.PublishedAt == "" {
				continue
			}

			published := post.PublishedAt
			if t, err := time.Parse(time.RFC3339, post.PublishedAt); err == nil {
				published = t.UTC().Format("Jan 02 2006 15:04 UTC")
			}

			url := post.URL
			if url == "" {
				url = post.OriginalURL
			}
			if url == "" {
				url = "https://cryptopanic.com/"
			}

			source := post.Source.Title
			if source == "" {
				source = "Unknown"
			}

			items = append(items, &NewsItem{
				Title:     title,
				Source:    source,
				Published: published,
				URL:       url,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.cache.Set("cryptopanic", "posts", symbol, items)
	return items, nil
}
