// Field extraction from job-board HTML. Pure transformation: malformed
// markup degrades to empty fields, never to an error. Title and
// description resolution are layered fallback chains because the board's
// markup drifts between postings.

package extract

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"

	"go-rapidapply-scraper/internal/models"
	"go-rapidapply-scraper/internal/normalize"
)

var (
	genericTitle = regexp.MustCompile(`(?i)^(recent jobs|home|saudi jobs)$`)
	urlTitleSep  = regexp.MustCompile(`[-_/]+`)
	companyLabel = regexp.MustCompile(`(?i)Company\s*:\s*([A-Za-z0-9&.\-\s]{2,80})`)
	salaryText   = regexp.MustCompile(`(?i)(SAR|SR)\s?[\d,]+(?:\s*-\s*[\d,]+)?`)
	jobLinkFrag  = regexp.MustCompile(`(?i)job-details\?jobid=\d+[^"']*`)
	boardNoise   = regexp.MustCompile(`(?i)(adsbygoogle|Back To Main Jobs|Home About Sign Up Login Contact Post A Job)`)
	spaceRun     = regexp.MustCompile(`\s+`)
)

// descriptionSelectors are the likely content containers, in priority order.
var descriptionSelectors = []string{
	".job-description", ".post-content", ".content", "article", "#content", "main",
}

// ParseJob turns one job-detail document into a RawScrapeRecord. Never
// fails: anything it cannot find is an empty string.
func ParseJob(doc *goquery.Document, pageURL, source string) models.RawScrapeRecord {
	doc.Find("script, style, noscript").Remove()

	title := resolveTitle(doc, pageURL)
	desc := resolveDescription(doc)

	return models.RawScrapeRecord{
		Source:       source,
		URL:          pageURL,
		ApplyURL:     pageURL,
		Title:        title,
		Description:  desc,
		Company:      guessCompany(doc, desc),
		Location:     guessLocation(doc, desc),
		Salary:       salaryText.FindString(desc),
		PostedAtText: strings.TrimSpace(doc.Find(`[class*="date"], time, .posted, .post-date`).First().Text()),
		ScrapedAt:    time.Now().UTC(),
	}
}

// resolveTitle walks the candidate chain (page heading, og:title, <title>,
// title embedded in the URL query), skipping generic site headings so a
// bare board name never wins over a real role further down the chain.
func resolveTitle(doc *goquery.Document, pageURL string) string {
	candidates := []string{
		strings.TrimSpace(doc.Find("h1").First().Text()),
		strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", "")),
		strings.TrimSpace(doc.Find("title").First().Text()),
		titleFromURL(pageURL),
	}

	first := ""
	for _, c := range candidates {
		c = spaceRun.ReplaceAllString(c, " ")
		if c == "" {
			continue
		}
		if first == "" {
			first = c
		}
		if !genericTitle.MatchString(c) {
			return c
		}
	}
	// All candidates generic or empty: keep whatever we had.
	return first
}

// titleFromURL decodes a role name smuggled in the jobtitle query param.
func titleFromURL(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	t := u.Query().Get("jobtitle")
	t = urlTitleSep.ReplaceAllString(t, " ")
	return strings.TrimSpace(html.UnescapeString(t))
}

// resolveDescription tries the known content containers first, then falls
// back to the longest text block on the page: noise blocks are short,
// content blocks are long.
func resolveDescription(doc *goquery.Document) string {
	for _, sel := range descriptionSelectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return cleanDescription(text)
		}
	}
	return cleanDescription(largestText(doc))
}

// largestText scans paragraph/container elements for the longest text run.
func largestText(doc *goquery.Document) string {
	best := ""
	doc.Find("p, div, section, article, main").Each(func(_ int, sel *goquery.Selection) {
		t := strings.TrimSpace(spaceRun.ReplaceAllString(sel.Text(), " "))
		if len(t) > len(best) {
			best = t
		}
	})
	return best
}

func cleanDescription(raw string) string {
	s := boardNoise.ReplaceAllString(raw, " ")
	s = strings.ReplaceAll(s, " ", " ")
	// Keep line structure: the multi-role splitter needs bullets on their
	// own lines, so only runs of spaces/tabs collapse.
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.Join(strings.Fields(line), " "))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// guessCompany: narrow label-based lookup first, then a "Company:" regex
// over the description.
func guessCompany(doc *goquery.Document, desc string) string {
	for _, sel := range []string{`[class*="company"], [id*="company"]`, `[class*="employer"], [id*="employer"]`} {
		cand := strings.TrimSpace(doc.Find(sel).First().Text())
		if len(cand) > 1 && len(cand) < 120 {
			return spaceRun.ReplaceAllString(cand, " ")
		}
	}
	if m := companyLabel.FindStringSubmatch(desc); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// guessLocation: label-based lookup, then the city gazetteer over the
// description. Empty means "let the normalizer default it".
func guessLocation(doc *goquery.Document, desc string) string {
	if lab := strings.TrimSpace(doc.Find(`[class*="location"], [id*="location"]`).First().Text()); lab != "" {
		return spaceRun.ReplaceAllString(lab, " ")
	}
	return normalize.MatchCity(desc)
}

// JobLinks pulls job-detail links out of a listing page: plain anchors
// first, then onclick handlers some cards hide the link in. Output is
// absolute and deduplicated, in discovery order; the pipeline's ordering
// guarantee starts here.
func JobLinks(doc *goquery.Document, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}
	seen := mapset.NewThreadUnsafeSet[string]()
	var out []string
	add := func(raw string) {
		abs, err := base.Parse(raw)
		if err != nil {
			return
		}
		if seen.Add(abs.String()) {
			out = append(out, abs.String())
		}
	}

	doc.Find(`a[href*="job-details?jobid="]`).Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			add(href)
		}
	})

	doc.Find(`[onclick]`).Each(func(_ int, sel *goquery.Selection) {
		onclick, _ := sel.Attr("onclick")
		if frag := jobLinkFrag.FindString(onclick); frag != "" {
			add(frag)
		}
	})

	return out
}
