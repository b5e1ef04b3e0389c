// Scraper for the saudijobs.in board: one logical worker walking list
// pages and their job links strictly in discovery order, with a fixed
// pause (plus jitter) between outbound requests. Failures are isolated
// per link and per page; a run always proceeds to the end.

package saudijobs

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"go-rapidapply-scraper/internal/config"
	"go-rapidapply-scraper/internal/dedup"
	"go-rapidapply-scraper/internal/email"
	"go-rapidapply-scraper/internal/extract"
	"go-rapidapply-scraper/internal/fetch"
	"go-rapidapply-scraper/internal/models"
	"go-rapidapply-scraper/internal/scraper"
)

type Scraper struct {
	cfg     *config.Config
	fetcher fetch.Fetcher
	seen    *dedup.SeenCache
	dumper  *dumper
	log     *zap.SugaredLogger
}

func New(cfg *config.Config, fetcher fetch.Fetcher, seen *dedup.SeenCache, log *zap.SugaredLogger) *Scraper {
	return &Scraper{
		cfg:     cfg,
		fetcher: fetcher,
		seen:    seen,
		dumper:  newDumper(cfg.DumpHTML, cfg.DumpDir, log),
		log:     log,
	}
}

func (s *Scraper) Name() string {
	return "SaudiJobs"
}

// Run walks the configured number of list pages sequentially.
func (s *Scraper) Run(ctx context.Context, handle scraper.JobHandler) (models.RunStats, error) {
	stats := models.RunStats{}

	s.log.Infof("🚀 Starting scraper: pages=%d, pauseMs=%d", s.cfg.Pages, s.cfg.PauseMs)
	s.warmUp(ctx)

	for page := 1; page <= s.cfg.Pages; page++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Pages++

		links, err := s.fetchListPage(ctx, page)
		if err != nil {
			stats.Errors++
			s.log.Warnf("⚠️ [list error] page=%d: %v", page, err)
			continue
		}

		for _, link := range links {
			if s.seen != nil && s.seen.IsSeen(link) {
				stats.Skipped++
				continue
			}
			if err := s.scrapeJob(ctx, link, handle); err != nil {
				stats.Errors++
				s.log.Warnf("⚠️ [job error] %s: %v", link, err)
			} else {
				stats.Found++
				if s.seen != nil {
					s.seen.Add(link)
				}
			}
			s.pause()
		}

		s.pause()
	}

	s.log.Infof("🏁 Done. found=%d, skipped=%d, errors=%d", stats.Found, stats.Skipped, stats.Errors)
	return stats, nil
}

// warmUp hits the board root once so the session cookie is in the jar
// before the first list request. Non-fatal.
func (s *Scraper) warmUp(ctx context.Context) {
	if _, err := s.fetcher.Fetch(ctx, s.cfg.BaseURL+"/"); err != nil {
		s.log.Warnf("⚠️ [warmUp] non-fatal: %v", err)
	}
}

// fetchListPage tries the known list URL shapes in order until one of them
// yields links. Pages that parse but list nothing get dumped for
// inspection.
func (s *Scraper) fetchListPage(ctx context.Context, page int) ([]string, error) {
	candidates := []string{
		fmt.Sprintf("%s/index?page=%d", s.cfg.BaseURL, page),
		fmt.Sprintf("%s/?page=%d", s.cfg.BaseURL, page),
		fmt.Sprintf("%s/index.php?page=%d", s.cfg.BaseURL, page),
	}

	var lastErr error
	for _, url := range candidates {
		s.log.Infof("📄 [list] %s", url)
		result, err := s.fetcher.Fetch(ctx, url)
		if err != nil {
			lastErr = err
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
		if err != nil {
			lastErr = err
			continue
		}

		links := extract.JobLinks(doc, url)
		if len(links) > 0 {
			s.log.Infof("🔗 [links] page %d: found %d", page, len(links))
			return links, nil
		}

		s.dumper.dump(fmt.Sprintf("list-p%d", page), result.HTML)
		s.pause()
	}

	if lastErr != nil {
		return nil, lastErr
	}
	s.log.Warnf("🔗 [links] page %d: all fallbacks yielded 0", page)
	return nil, nil
}

// scrapeJob fetches one detail page, extracts the raw record and the
// emails, and hands both to the pipeline hook.
func (s *Scraper) scrapeJob(ctx context.Context, link string, handle scraper.JobHandler) error {
	result, err := s.fetcher.Fetch(ctx, link)
	if err != nil {
		return err
	}
	s.dumper.dump("job", result.HTML)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(result.HTML))
	if err != nil {
		return err
	}

	var emails []string
	if s.cfg.EnableEmailExtraction {
		emails = email.Extract(doc, result.HTML)
	}

	raw := extract.ParseJob(doc, link, s.cfg.Source)
	return handle(ctx, raw, emails)
}

// pause is the cooperative rate limiter between outbound requests: the
// configured base delay plus up to 200ms of jitter.
func (s *Scraper) pause() {
	if s.cfg.PauseMs <= 0 {
		return
	}
	jitter := time.Duration(rand.Intn(200)) * time.Millisecond
	time.Sleep(time.Duration(s.cfg.PauseMs)*time.Millisecond + jitter)
}
