// Define an interface for all scrapers
// Ensure consistency

package scraper

import (
	"context"

	"go-rapidapply-scraper/internal/models"
)

// JobHandler receives each extracted raw record together with the emails
// found on its page. This is the pipeline hook.
type JobHandler func(ctx context.Context, raw models.RawScrapeRecord, emails []string) error

//Scraper defines the interface that all board scrapers must implement
type Scraper interface {
	//Run walks the board and feeds every parsed job to the handler
	Run(ctx context.Context, handle JobHandler) (models.RunStats, error)

	//Name is the board name
	Name() string
}
