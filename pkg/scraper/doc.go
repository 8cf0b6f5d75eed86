// Package scraper drives one incremental crawl over a forum thread.
//
// A run loads the persisted cursor, walks pages from the last scanned
// one (or the thread's latest page on a first run), delivers every post
// above the watermark in document order, and persists the cursor exactly
// once at the end.
//
// The two failure classes propagate differently on purpose. A delivery
// failure stops further deliveries but checkpoints the progress made so
// far and the run still succeeds. A scraping, fetch, or state failure
// aborts the run with no cursor write at all, so the next run replays
// the same pages; deliveries that already happened in the aborted run
// can then be repeated.
package scraper
