package main

import (
	"context"
	"os"
	"time"

	"go-rapidapply-scraper/internal/ai"
	"go-rapidapply-scraper/internal/config"
	"go-rapidapply-scraper/internal/database"
	"go-rapidapply-scraper/internal/dedup"
	"go-rapidapply-scraper/internal/fetch"
	"go-rapidapply-scraper/internal/logger"
	"go-rapidapply-scraper/internal/models"
	"go-rapidapply-scraper/internal/normalize"
	"go-rapidapply-scraper/internal/pipeline"
	"go-rapidapply-scraper/internal/scraper/saudijobs"
	"go-rapidapply-scraper/internal/schema"
	"go-rapidapply-scraper/internal/telegram"
)

func main() {
	log, err := logger.New(os.Getenv("DEBUG") == "1")
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	//load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config error: %v", err)
	}
	log.Infof("🔧 Config loaded. pages=%d pauseMs=%d emails=%v persistence=%v",
		cfg.Pages, cfg.PauseMs, cfg.EnableEmailExtraction, cfg.EnablePersistence)

	//the output contract is non-negotiable: a broken schema stops the run
	target, err := schema.Load(cfg.SchemaPath)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	//setup context with timeout = 30 mins
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	//optional telegram reporting
	var bot *telegram.Bot
	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		bot, err = telegram.NewBot(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			log.Warnf("⚠️ Telegram disabled: %v", err)
			bot = nil
		} else {
			log.Infof("🤖 Telegram Bot initialized.")
		}
	}

	//optional persistence
	var store pipeline.Store
	if cfg.EnablePersistence {
		repo, err := database.ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect database: %v", err)
		}
		defer repo.Close()
		store = repo
		log.Infof("🗄️ Database connected.")
	} else {
		log.Infof("🗄️ Persistence disabled, dry run.")
	}

	//title cleanup policy: AI first when a key is present, heuristics only otherwise
	var normalizer normalize.TitleNormalizer
	if cfg.GroqAPIKey != "" {
		normalizer = normalize.NewAINormalizer(ai.NewGroqClient(cfg.GroqAPIKey), log)
		log.Infof("🧠 AI title cleanup enabled.")
	} else {
		normalizer = normalize.NewHeuristicNormalizer()
		log.Infof("🧠 No GROQ_API_KEY, heuristic title cleanup only.")
	}

	pipe := pipeline.New(normalizer, store, target, pipeline.Options{
		Source:       cfg.Source,
		TargetRegion: cfg.TargetRegion,
		CountryCode:  cfg.CountryCode,
	}, log)
	if bot != nil {
		pipe.OnGuardReject(func(title, category, id string) {
			if err := bot.SendGuardAlert(title, category, id); err != nil {
				log.Warnf("⚠️ Telegram alert failed: %v", err)
			}
		})
	}

	//page source: plain HTTP, browser fallback only when configured
	var fetcher fetch.Fetcher = fetch.NewHTTPFetcher(cfg.UserAgent, log)
	if cfg.EnableBrowserFallback {
		browser, err := fetch.NewBrowserFetcher(log)
		if err != nil {
			log.Warnf("⚠️ Browser fallback unavailable: %v", err)
		} else {
			defer browser.Close()
			fetcher = fetch.NewFallbackFetcher(fetcher, browser, log)
		}
	}

	seen := dedup.NewSeenCache(cfg.CachePath, log)
	s := saudijobs.New(cfg, fetcher, seen, log)

	written := 0
	stats, err := s.Run(ctx, func(ctx context.Context, raw models.RawScrapeRecord, emails []string) error {
		jobs, err := pipe.Process(ctx, raw, emails)
		written += len(jobs)
		return err
	})
	stats.Written = written
	if err != nil {
		log.Errorf("❌ Run aborted: %v", err)
		if bot != nil {
			_ = bot.SendError(err)
		}
	}

	log.Infof("📊 pages=%d found=%d written=%d skipped=%d errors=%d",
		stats.Pages, stats.Found, stats.Written, stats.Skipped, stats.Errors)
	if bot != nil {
		if err := bot.SendRunSummary(stats); err != nil {
			log.Warnf("⚠️ Telegram summary failed: %v", err)
		}
	}
}
