package webhook

import (
	"tarjousbot/pkg/forum"
)

// Character budgets for embed fields, counted in Unicode codepoints
const (
	maxTitleChars       = 256
	maxDescriptionChars = 2048
	maxAuthorChars      = 256
)

// FormatPost maps one post onto a sink-ready embed. Oversized fields are
// prefix-cut at a codepoint boundary, with no ellipsis added.
func FormatPost(post forum.Post) Embed {
	author := &EmbedAuthor{
		Name: Truncate(post.AuthorName, maxAuthorChars),
		URL:  post.AuthorURL,
	}
	if post.AvatarURL != "" {
		author.IconURL = post.AvatarURL
	}

	return Embed{
		Title:       Truncate(post.Title, maxTitleChars),
		Description: Truncate(post.Content, maxDescriptionChars),
		Timestamp:   post.Timestamp,
		Author:      author,
	}
}

// Truncate cuts s to at most maxChars codepoints. Counting codepoints
// rather than bytes keeps multi-byte characters from being split.
func Truncate(s string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}

	n := 0
	for i := range s {
		if n == maxChars {
			return s[:i]
		}
		n++
	}
	return s
}
