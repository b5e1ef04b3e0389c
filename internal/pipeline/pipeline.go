// The pipeline composes normalization, splitting, classification, identity
// and projection into one "raw record in, zero-or-more written records
// out" operation. Every failure mode here is per-record: a guard rejection
// or a store error skips that record and the batch keeps going.

package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-rapidapply-scraper/internal/category"
	"go-rapidapply-scraper/internal/identity"
	"go-rapidapply-scraper/internal/models"
	"go-rapidapply-scraper/internal/normalize"
	"go-rapidapply-scraper/internal/schema"
	"go-rapidapply-scraper/internal/splitter"
)

// Store is the persistence collaborator: keyed, idempotent, last write wins.
type Store interface {
	UpsertJob(ctx context.Context, id string, payload []byte) error
}

// Options are the pipeline-wide normalization defaults.
type Options struct {
	Source       string
	TargetRegion string
	CountryCode  string
}

type Pipeline struct {
	normalizer normalize.TitleNormalizer
	store      Store // nil means dry run: assemble and log, write nothing
	target     *schema.TargetSchema
	opts       Options
	log        *zap.SugaredLogger

	// onReject is called for every guard rejection, after logging.
	onReject func(title, category, id string)

	now func() time.Time
}

func New(normalizer normalize.TitleNormalizer, store Store, target *schema.TargetSchema, opts Options, log *zap.SugaredLogger) *Pipeline {
	return &Pipeline{
		normalizer: normalizer,
		store:      store,
		target:     target,
		opts:       opts,
		log:        log,
		now:        time.Now,
	}
}

// OnGuardReject registers a hook invoked for each guard rejection.
func (p *Pipeline) OnGuardReject(fn func(title, category, id string)) {
	p.onReject = fn
}

// Process expands a raw record (multi-role postings fan out first) and runs
// each resulting record through normalize, classify, guard and upsert.
// Returned records are the ones actually written, in input order. The
// error aggregates per-record store failures; guard rejections are not
// errors at this level.
func (p *Pipeline) Process(ctx context.Context, raw models.RawScrapeRecord, emails []string) ([]models.NormalizedJobRecord, error) {
	expanded := splitter.SplitMultiRoles(raw)

	var written []models.NormalizedJobRecord
	var errs []error
	for _, item := range expanded {
		job, err := p.processOne(ctx, item, emails)
		if err != nil {
			var gv *identity.GuardViolation
			if errors.As(err, &gv) {
				p.log.Warnf("🚧 %v", gv)
				if p.onReject != nil {
					p.onReject(gv.Title, gv.Category, gv.ID)
				}
				continue
			}
			p.log.Errorf("❌ record for %s not written: %v", item.URL, err)
			errs = append(errs, err)
			continue
		}
		written = append(written, job)
	}
	return written, errors.Join(errs...)
}

func (p *Pipeline) processOne(ctx context.Context, raw models.RawScrapeRecord, emails []string) (models.NormalizedJobRecord, error) {
	now := p.now().UTC()

	title := p.normalizer.NormalizeTitle(ctx, raw.Title, raw.Description)
	location := normalize.CleanLocation(raw.Location, p.opts.TargetRegion)
	snippet := normalize.Snippet(raw.Description)

	classifyText := snippet
	if classifyText == "" {
		classifyText = raw.Description
	}
	cat := category.Choose(title, classifyText)

	id := identity.Fingerprint(firstNonEmpty(raw.URL, raw.ApplyURL), title)
	if err := identity.Guard(title, cat, id); err != nil {
		return models.NormalizedJobRecord{}, err
	}

	scrapedAt := raw.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = now
	}

	source := raw.Source
	if source == "" {
		source = p.opts.Source
	}
	if emails == nil {
		emails = []string{}
	}

	job := models.NormalizedJobRecord{
		ID:                 id,
		Source:             source,
		URL:                firstNonEmpty(raw.URL, raw.ApplyURL),
		ApplyURL:           firstNonEmpty(raw.ApplyURL, raw.URL),
		Title:              title,
		Category:           cat,
		Company:            raw.Company,
		Location:           location,
		Country:            p.opts.CountryCode,
		Salary:             raw.Salary,
		DescriptionSnippet: snippet,
		PostedAt:           normalize.CoerceISODate(raw.PostedAtText, now),
		ScrapedAt:          normalize.FormatISO(scrapedAt),
		LastUpdated:        normalize.FormatISO(now),
		Emails:             emails,
		AssembledAt:        now,
	}

	if err := p.write(ctx, job); err != nil {
		return models.NormalizedJobRecord{}, err
	}

	p.log.Debugf("✍️ [WROTE] title=%q category=%q location=%q id=%s", job.Title, job.Category, job.Location, job.ID)
	return job, nil
}

// write projects the record onto the target schema and upserts the result.
// A record either projects and writes whole, or not at all.
func (p *Pipeline) write(ctx context.Context, job models.NormalizedJobRecord) error {
	projection := p.target.Project(job.Fields())
	payload, err := json.Marshal(projection)
	if err != nil {
		return fmt.Errorf("projecting record %s: %w", job.ID, err)
	}
	if p.store == nil {
		return nil
	}
	return p.store.UpsertJob(ctx, job.ID, payload)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
