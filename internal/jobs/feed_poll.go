package jobs

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"jaybrain/internal/store"

	"github.com/sony/gobreaker"
)

// rssFeed is the minimal RSS 2.0 shape feed_poll needs: title, link,
// and publish date per item. Atom feeds are out of scope (no news
// source in the default config publishes Atom).
type rssFeed struct {
	Channel struct {
		Items []struct {
			Title   string `xml:"title"`
			Link    string `xml:"link"`
			PubDate string `xml:"pubDate"`
			GUID    string `xml:"guid"`
		} `xml:"item"`
	} `xml:"channel"`
}

// FeedPoll fetches every active news feed source, parses new RSS
// items, and records them. Each source's host gets its own circuit
// breaker so a single dead feed doesn't starve the others.
func (j *Jobs) FeedPoll() (bool, error) {
	sources, err := j.st.ActiveNewsFeedSources()
	if err != nil {
		return false, fmt.Errorf("feed_poll: %w", err)
	}

	created := 0
	var firstErr error
	for _, src := range sources {
		n, err := j.pollOneFeed(src)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		created += n
	}
	return created > 0, firstErr
}

func (j *Jobs) pollOneFeed(src store.NewsFeedSource) (int, error) {
	host := src.URL
	if u, err := url.Parse(src.URL); err == nil && u.Host != "" {
		host = u.Host
	}

	result, err := j.breakerFor(host).Execute(func() (interface{}, error) {
		return j.fetchFeed(src.URL)
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			return 0, nil // host is cooling down, try again next poll
		}
		return 0, fmt.Errorf("feed %s: %w", src.Name, err)
	}

	feed := result.(rssFeed)
	created := 0
	for _, item := range feed.Channel.Items {
		var publishedAt *time.Time
		if t, err := time.Parse(time.RFC1123Z, item.PubDate); err == nil {
			publishedAt = &t
		}
		_, err := j.st.CreateNewsFeedArticle(store.NewsFeedArticle{
			SourceID:    src.ID,
			Title:       item.Title,
			URL:         item.Link,
			PublishedAt: publishedAt,
		})
		if err != nil {
			continue
		}
		created++
	}
	return created, nil
}

func (j *Jobs) fetchFeed(rawURL string) (rssFeed, error) {
	resp, err := j.client.Get(rawURL)
	if err != nil {
		return rssFeed{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return rssFeed{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var feed rssFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return rssFeed{}, err
	}
	return feed, nil
}
