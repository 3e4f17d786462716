package dataflows

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"coinsage/config"
)

// NewsScraperClient scrapes Google News search results; it is the fallback
// news source when no CryptoPanic key is configured.
type NewsScraperClient struct {
	client *resty.Client
	cache  *Cache
}

func NewNewsScraperClient(cfg *config.Config) *NewsScraperClient {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; coinsage/1.0)")

	return &NewsScraperClient{
		client: client,
		cache:  NewCache(filepath.Join(cfg.DataCacheDir, "google_news"), 2*time.Hour, cfg.CacheEnabled),
	}
}

// GetNews scrapes recent news articles mentioning the coin.
func (ns *NewsScraperClient) GetNews(ctx context.Context, coin string) ([]*NewsItem, error) {
	query := strings.TrimSpace(coin) + " crypto"

	var cached []*NewsItem
	if ns.cache.Get("google_news", "search", query, &cached) {
		return cached, nil
	}

	searchURL := fmt.Sprintf("https://news.google.com/search?q=%s&hl=en-US&gl=US&ceid=US:en",
		url.QueryEscape(query))

	var items []*NewsItem
	err := WithRetry(ctx, DefaultRetryConfig(), func() error {
		resp, err := ns.client.R().SetContext(ctx).Get(searchURL)
		if err != nil {
			return fmt.Errorf("fetch Google News: %w", err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("Google News failed: HTTP %d", resp.StatusCode())
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
		if err != nil {
			return fmt.Errorf("parse Google News HTML: %w", err)
		}

		items = parseNewsDocument(doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	ns.cache.Set("google_news", "search", query, items)
	return items, nil
}

// parseNewsDocument extracts articles from a Google News result page. The
// markup changes over time; this relies only on article/h3/h4/time tags.
func parseNewsDocument(doc *goquery.Document) []*NewsItem {
	var items []*NewsItem

	doc.Find("article").Each(func(_ int, s *goquery.Selection) {
		if len(items) >= 20 {
			return
		}

		title := strings.TrimSpace(s.Find("h3").Text())
		if title == "" {
			title = strings.TrimSpace(s.Find("h4").Text())
		}
		if title == "" {
			return
		}

		link := ""
		if href, ok := s.Find("a").First().Attr("href"); ok {
			link = strings.TrimPrefix(href, ".")
			if link != "" && !strings.HasPrefix(link, "http") {
				link = "https://news.google.com" + link
			}
		}

		published := ""
		if dt, ok := s.Find("time").First().Attr("datetime"); ok {
			if t, err := time.Parse(time.RFC3339, dt); err == nil {
				published = t.UTC().Format("Jan 02 2006 15:04 UTC")
			}
		}

		items = append(items, &NewsItem{
			Title:     title,
			Source:    strings.TrimSpace(s.Find("div[data-n-tid]").First().Text()),
			Published: published,
			URL:       link,
		})
	})

	return items
}
