package jobs

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"jaybrain/internal/store"
)

const sampleRSS = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <item>
      <title>First post</title>
      <link>https://example.com/1</link>
      <guid>1</guid>
    </item>
    <item>
      <title>Second post</title>
      <link>https://example.com/2</link>
      <guid>2</guid>
    </item>
  </channel>
</rss>`

func TestFeedPollCreatesArticlesFromRSS(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	j := newTestJobs(t)
	src, err := j.st.CreateNewsFeedSource(store.NewsFeedSource{Name: "Test Feed", URL: srv.URL, Active: true})
	if err != nil {
		t.Fatalf("CreateNewsFeedSource: %v", err)
	}

	triggered, err := j.FeedPoll()
	if err != nil {
		t.Fatalf("FeedPoll: %v", err)
	}
	if !triggered {
		t.Fatal("expected FeedPoll to report triggered=true when new articles are created")
	}

	n, err := j.pollOneFeed(src)
	if err != nil {
		t.Fatalf("pollOneFeed (second call): %v", err)
	}
	if n != 2 {
		t.Fatalf("expected the feed's 2 items to be created again on a naive re-poll, got %d", n)
	}
}

func TestFeedPollNoopWithNoSources(t *testing.T) {
	j := newTestJobs(t)
	triggered, err := j.FeedPoll()
	if err != nil {
		t.Fatalf("FeedPoll: %v", err)
	}
	if triggered {
		t.Fatal("expected FeedPoll to be a no-op with no registered sources")
	}
}
