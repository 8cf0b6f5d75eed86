// Package cursor persists crawl progress between runs.
//
// The cursor is a pair of durable counters: the page number last being
// scanned and the highest post id ever delivered. Each counter lives in
// its own file under the state directory as a fixed-width 4-byte
// little-endian unsigned integer. A missing or truncated record reads as
// unset, which a first run uses to establish its baseline without
// delivering a backlog.
package cursor
