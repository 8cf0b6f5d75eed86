package scraper

import (
	"tarjousbot/pkg/config"
	"tarjousbot/pkg/cursor"
	"tarjousbot/pkg/errors"
	"tarjousbot/pkg/forum"
	"tarjousbot/pkg/logger"
	"tarjousbot/pkg/webhook"
)

// Scraper orchestrates one crawl over the monitored thread
type Scraper struct {
	fetcher   PageFetcher
	extractor PostExtractor
	notifier  Notifier
	cursor    CursorStore
	logger    logger.Logger
}

// New creates a Scraper wired to the real collaborators
func New(cfg *config.Config, webhookURL string) (*Scraper, error) {
	log := logger.GetLogger()

	store, err := cursor.NewStore(cfg.State.Directory, log)
	if err != nil {
		return nil, errors.Newf(errors.ErrorTypeState, "failed to open cursor store: %v", err)
	}

	return &Scraper{
		fetcher:   forum.NewClient(&cfg.Forum, log),
		extractor: forum.NewExtractor(cfg.Forum.Origin),
		notifier:  webhook.NewNotifier(webhookURL, log),
		cursor:    store,
		logger:    log,
	}, nil
}

// Run executes one incremental crawl. It returns nil when the run
// completed or was cut short by a delivery failure (progress is
// checkpointed either way), and an error for scraping, fetch, or state
// failures, in which case the cursor is left untouched.
func (s *Scraper) Run() error {
	lastPage, err := s.cursor.LastPage()
	if err != nil {
		return errors.Newf(errors.ErrorTypeState, "failed to load cursor: %v", err)
	}
	lastSentID, err := s.cursor.LastSentID()
	if err != nil {
		return errors.Newf(errors.ErrorTypeState, "failed to load cursor: %v", err)
	}

	// A baseline run has never delivered anything: it only establishes
	// the watermark, without backfilling notifications.
	baseline := lastSentID == nil

	var watermark uint32
	if !baseline {
		watermark = *lastSentID
	}

	var page uint32
	havePage := lastPage != nil
	if havePage {
		page = *lastPage
	}

	failed := false
	for {
		var content string
		if havePage {
			content, err = s.fetcher.FetchPage(page)
		} else {
			content, page, err = s.fetcher.FetchLatest()
			havePage = true
		}
		if err != nil {
			return err
		}

		s.logger.InfoWithFields("scanning page", map[string]interface{}{
			"page": page,
		})

		posts, nextPage, err := s.extractor.Extract(content)
		if err != nil {
			return err
		}

		if baseline {
			if len(posts) == 0 {
				return errors.Newf(errors.ErrorTypeScraping, "page %d has no posts", page)
			}
			watermark = posts[len(posts)-1].ID
		} else {
			failed = !s.deliverNewPosts(posts, &watermark)
		}

		// A delivery failure holds the page so the next run retries it
		if failed || nextPage == nil {
			break
		}
		page = *nextPage
	}

	if err := s.cursor.SetLastPage(page); err != nil {
		return errors.Newf(errors.ErrorTypeState, "failed to persist cursor: %v", err)
	}
	if err := s.cursor.SetLastSentID(watermark); err != nil {
		return errors.Newf(errors.ErrorTypeState, "failed to persist cursor: %v", err)
	}

	s.logger.InfoWithFields("run complete", map[string]interface{}{
		"page":      page,
		"watermark": watermark,
		"aborted":   failed,
	})

	return nil
}

// deliverNewPosts delivers every post above the watermark in document
// order, advancing the watermark after each success. It reports false
// when a delivery failed; the remaining posts are neither delivered nor
// retried this run.
func (s *Scraper) deliverNewPosts(posts []forum.Post, watermark *uint32) bool {
	for _, post := range posts {
		if post.ID <= *watermark {
			continue
		}

		s.logger.InfoWithFields("new post", map[string]interface{}{
			"id":     post.ID,
			"author": post.AuthorName,
			"title":  post.Title,
		})

		if err := s.notifier.Notify(post); err != nil {
			s.logger.WarnWithFields("delivery failed, keeping progress made so far", map[string]interface{}{
				"id":    post.ID,
				"error": err.Error(),
			})
			return false
		}

		*watermark = post.ID
	}
	return true
}
