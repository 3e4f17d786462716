package dataflows

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"

	"coinsage/config"
)

// Subreddits searched for coin discussion, in order.
var sentimentSubreddits = []string{
	"CryptoCurrency",
	"CryptoMarkets",
	"Bitcoin",
	"ethereum",
	"altcoin",
}

const (
	redditPostLimit   = 10
	maxPostTextLength = 500
	minPostTextLength = 20
)

var (
	urlPattern        = regexp.MustCompile(`https?://\S+`)
	mentionPattern    = regexp.MustCompile(`[@#]\w+`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// RedditPost is one cleaned discussion post.
type RedditPost struct {
	Subreddit string `json:"subreddit"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	Score     int    `json:"score"`
	Comments  int    `json:"comments"`
	CreatedAt string `json:"created_at"`
}

// RedditClient searches public subreddit JSON endpoints; no OAuth needed.
type RedditClient struct {
	client *resty.Client
	cache  *Cache
}

func NewRedditClient(cfg *config.Config) *RedditClient {
	client := resty.New()
	client.SetBaseURL("https://www.reddit.com")
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", cfg.RedditUserAgent)

	return &RedditClient{
		client: client,
		cache:  NewCache(filepath.Join(cfg.DataCacheDir, "reddit"), 30*time.Minute, cfg.CacheEnabled),
	}
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Subreddit  string  `json:"subreddit"`
				Title      string  `json:"title"`
				Selftext   string  `json:"selftext"`
				Score      int     `json:"score"`
				Comments   int     `json:"num_comments"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// GetPosts searches each sentiment subreddit for the coin and returns cleaned
// posts, newest first per subreddit. Posts whose combined title and body is
// too short after cleaning are dropped.
func (rc *RedditClient) GetPosts(ctx context.Context, coin string) ([]*RedditPost, error) {
	query := strings.TrimSpace(coin)

	var cached []*RedditPost
	if rc.cache.Get("reddit", "search", query, &cached) {
		return cached, nil
	}

	var posts []*RedditPost
	for _, subreddit := range sentimentSubreddits {
		var listing redditListing
		err := WithRetry(ctx, DefaultRetryConfig(), func() error {
			resp, err := rc.client.R().
				SetContext(ctx).
				SetQueryParams(map[string]string{
					"q":           query,
					"restrict_sr": "true",
					"sort":        "new",
					"limit":       fmt.Sprintf("%d", redditPostLimit),
				}).
				SetResult(&listing).
				Get(fmt.Sprintf("/r/%s/search.json", subreddit))
			if err != nil {
				return fmt.Errorf("search r/%s: %w", subreddit, err)
			}
			if resp.StatusCode() != 200 {
				return fmt.Errorf("search r/%s failed: HTTP %d", subreddit, resp.StatusCode())
			}
			return nil
		})
		if err != nil {
			// One failing subreddit should not kill the whole search.
			continue
		}

		for _, child := range listing.Data.Children {
			title := CleanPostText(child.Data.Title)
			text := CleanPostText(child.Data.Selftext)
			if len(title)+len(text) <= minPostTextLength {
				continue
			}

			posts = append(posts, &RedditPost{
				Subreddit: child.Data.Subreddit,
				Title:     title,
				Text:      text,
				Score:     child.Data.Score,
				Comments:  child.Data.Comments,
				CreatedAt: time.Unix(int64(child.Data.CreatedUTC), 0).UTC().Format("Jan 02 2006 15:04 UTC"),
			})
		}
	}

	rc.cache.Set("reddit", "search", query, posts)
	return posts, nil
}

// CleanPostText strips links, mentions and hashtags, collapses whitespace,
// and truncates long bodies. Truncation lands on a rune boundary so posts
// with multi-byte characters never become invalid UTF-8.
func CleanPostText(text string) string {
	text = urlPattern.ReplaceAllString(text, "")
	text = mentionPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if len(text) > maxPostTextLength {
		cut := maxPostTextLength
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}
