package scraper

import "tarjousbot/pkg/forum"

// PageFetcher retrieves raw thread pages
type PageFetcher interface {
	FetchPage(page uint32) (string, error)
	FetchLatest() (string, uint32, error)
}

// PostExtractor parses one page's content into ordered posts and the
// next page number, nil when the thread has no further pages
type PostExtractor interface {
	Extract(content string) ([]forum.Post, *uint32, error)
}

// Notifier delivers one post to the notification sink
type Notifier interface {
	Notify(post forum.Post) error
}

// CursorStore persists crawl progress between runs
type CursorStore interface {
	LastPage() (*uint32, error)
	SetLastPage(page uint32) error
	LastSentID() (*uint32, error)
	SetLastSentID(id uint32) error
}
