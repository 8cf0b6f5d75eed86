package forum

// Post is one message scraped from a thread page. Posts are immutable
// once extracted and are never persisted; only the id outlives the run,
// as the delivery watermark.
type Post struct {
	// ID is the page-local post number, the sole ordering and dedup key.
	// Within a page posts are assumed to appear in ascending ID order.
	ID uint32

	// Timestamp is the post's datetime attribute, passed through verbatim
	Timestamp string

	AuthorName string
	AuthorURL  string

	// AvatarURL is empty when the post has no avatar element
	AvatarURL string

	// Content is the plain-text reconstruction of the post body
	Content string

	// Title is derived from Content; see DeriveTitle
	Title string
}
