package forum

import "strings"

const (
	// titleMarker starts a post body that carries an explicit title
	titleMarker = "Tuote:"

	// defaultTitle is used when a post has no usable title
	defaultTitle = "Uusi tarjous"
)

// DeriveTitle computes a post title from its plain-text content. Content
// starting with the title marker titles the post with the text between
// the marker and the first newline; anything else gets the default.
func DeriveTitle(content string) string {
	rest, ok := strings.CutPrefix(content, titleMarker)
	if !ok {
		return defaultTitle
	}

	title, _, _ := strings.Cut(rest, "\n")
	if title == "" {
		return defaultTitle
	}
	return title
}
