package forum

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"tarjousbot/pkg/errors"
)

// Selectors for the forum's XenForo markup
const (
	postSelector     = ".message"
	timeSelector     = ".u-dt"
	usernameSelector = ".username"
	avatarSelector   = ".avatar img"
	contentSelector  = ".bbWrapper"
	nextPageSelector = ".pageNav-page--current + .pageNav-page"
)

const postIDPrefix = "post-"

// Extractor parses thread pages into ordered posts. Relative author and
// avatar links are resolved against the forum origin.
type Extractor struct {
	origin string
}

// NewExtractor creates an extractor for the given forum origin
func NewExtractor(origin string) *Extractor {
	return &Extractor{origin: origin}
}

// Extract parses one page's content into its posts, in document order,
// and the next page number when the thread continues. A nil next page
// means the thread has no further pages. Any malformed post structure
// is fatal for the whole run, not skippable.
func (e *Extractor) Extract(content string) ([]Post, *uint32, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, nil, errors.Newf(errors.ErrorTypeScraping, "failed to parse page: %v", err)
	}

	var posts []Post
	var postErr error
	doc.Find(postSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		post, err := e.extractPost(sel)
		if err != nil {
			postErr = err
			return false
		}
		posts = append(posts, post)
		return true
	})
	if postErr != nil {
		return nil, nil, postErr
	}

	nextPage, err := extractNextPage(doc)
	if err != nil {
		return nil, nil, err
	}

	return posts, nextPage, nil
}

// extractPost reads one post container into a Post record
func (e *Extractor) extractPost(sel *goquery.Selection) (Post, error) {
	id, err := extractPostID(sel)
	if err != nil {
		return Post{}, err
	}

	timeSel := sel.Find(timeSelector).First()
	if timeSel.Length() == 0 {
		return Post{}, errors.Newf(errors.ErrorTypeScraping, "post %d has no time element", id)
	}
	timestamp, ok := timeSel.Attr("datetime")
	if !ok {
		return Post{}, errors.Newf(errors.ErrorTypeScraping, "post %d time element has no datetime", id)
	}

	userSel := sel.Find(usernameSelector).First()
	if userSel.Length() == 0 {
		return Post{}, errors.Newf(errors.ErrorTypeScraping, "post %d has no username element", id)
	}
	authorName := firstText(userSel.Nodes[0])
	if authorName == "" {
		return Post{}, errors.Newf(errors.ErrorTypeScraping, "post %d username element has no text", id)
	}
	userHref, ok := userSel.Attr("href")
	if !ok {
		return Post{}, errors.Newf(errors.ErrorTypeScraping, "post %d username element has no link", id)
	}

	// A missing avatar element is fine; a present one must carry a source
	var avatarURL string
	if avatarSel := sel.Find(avatarSelector).First(); avatarSel.Length() > 0 {
		src, ok := avatarSel.Attr("src")
		if !ok {
			return Post{}, errors.Newf(errors.ErrorTypeScraping, "post %d avatar has no source", id)
		}
		avatarURL = e.origin + src
	}

	bodySel := sel.Find(contentSelector).First()
	if bodySel.Length() == 0 {
		return Post{}, errors.Newf(errors.ErrorTypeScraping, "post %d has no body container", id)
	}
	content := flattenBody(bodySel.Nodes[0])

	return Post{
		ID:         id,
		Timestamp:  timestamp,
		AuthorName: authorName,
		AuthorURL:  e.origin + userHref,
		AvatarURL:  avatarURL,
		Content:    content,
		Title:      DeriveTitle(content),
	}, nil
}

// extractPostID reads the post number from the container's marker attribute
func extractPostID(sel *goquery.Selection) (uint32, error) {
	marker, ok := sel.Attr("data-content")
	if !ok {
		return 0, errors.New(errors.ErrorTypeScraping, "post container has no id marker")
	}

	digits, ok := strings.CutPrefix(marker, postIDPrefix)
	if !ok {
		return 0, errors.Newf(errors.ErrorTypeScraping, "malformed post id marker %q", marker)
	}

	id, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, errors.Newf(errors.ErrorTypeScraping, "malformed post id marker %q", marker)
	}

	return uint32(id), nil
}

// extractNextPage finds the navigation element immediately following the
// current-page marker. Absence means the thread ends here.
func extractNextPage(doc *goquery.Document) (*uint32, error) {
	sel := doc.Find(nextPageSelector).First()
	if sel.Length() == 0 {
		return nil, nil
	}

	text := strings.TrimSpace(firstText(sel.Nodes[0]))
	page, err := strconv.ParseUint(text, 10, 32)
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeScraping, "malformed next page number %q", text)
	}

	next := uint32(page)
	return &next, nil
}

// flattenBody reconstructs the post body as plain text by walking the
// container's child nodes in document order with per-kind rules:
// text verbatim, <br> as a newline, <a> as its target URL, and any
// other element collapsed to the first text run found inside it. The
// first-text-only rule is intentional; it reduces embedded widgets
// (quotes, images, spoilers) to a single token instead of flattening
// their whole subtree.
func flattenBody(container *html.Node) string {
	var b strings.Builder
	for child := container.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.TextNode:
			b.WriteString(child.Data)
		case html.ElementNode:
			switch child.Data {
			case "br":
				b.WriteString("\n")
			case "a":
				b.WriteString(attrValue(child, "href"))
			default:
				b.WriteString(firstText(child))
			}
		}
	}
	return b.String()
}

// firstText returns the first text node found by depth-first descent
func firstText(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if text := firstText(child); text != "" {
			return text
		}
	}
	return ""
}

// attrValue returns the named attribute's value, or "" when absent
func attrValue(n *html.Node, name string) string {
	for _, attr := range n.Attr {
		if attr.Key == name {
			return attr.Val
		}
	}
	return ""
}
