// Title normalization: one canonical TitleNormalizer interface, with the
// AI-first strategy as a constructor-time policy choice on top of the
// deterministic heuristic baseline. Terminal outcome is always a usable
// title; total failure of every path still yields the truncated raw title,
// never an empty string.

package normalize

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"go.uber.org/zap"

	"go-rapidapply-scraper/internal/ai"
)

// MaxTitleLen is the hard cap on a normalized title.
const MaxTitleLen = 80

// fallbackTitle is the absolute last resort when even the raw title is blank.
const fallbackTitle = "Recent Jobs"

// TitleNormalizer turns a raw scraped title plus the posting body into a
// clean role-only title.
type TitleNormalizer interface {
	NormalizeTitle(ctx context.Context, rawTitle, body string) string
}

var (
	leadingNoise  = regexp.MustCompile(`(?i)^(?:[^a-z0-9]+|(?:urgent(?:ly)?|hiring|vacancy|vacancies|required|wanted|needed|immediately|apply now|job|jobs|opening|openings)\b[\s:,\-]*)+`)
	trailingCount = regexp.MustCompile(`(?i)(?:[\s\-(]*\d+\s*nos?\.?\)?|\s+x\s*\d+)\s*$`)
	trailingPunct = regexp.MustCompile(`[\s\-–—:;,.|/*!#~]+$`)
	spaceRun      = regexp.MustCompile(`\s+`)
	positionLabel = regexp.MustCompile(`(?i)\b(?:position|role)\s*[:\-]\s*([^\n\r|.;]{2,100})`)
	rolePhrase    = regexp.MustCompile(`\b([A-Z][A-Za-z&/.-]*(?:\s+[A-Za-z&/.-]+){0,4}\s+(?:Engineer|Supervisor|Manager|Officer|Surveyor|Controller|Technician|Foreman|Inspector|Coordinator|Electrician|Accountant|Planner|Estimator|Draftsman|Operator))\b`)
)

// StrictTrim deterministically strips leading symbols and marketing words,
// trailing headcounts ("3 Nos") and trailing location clauses, collapses
// whitespace and drops trailing punctuation. ok is false when fewer than
// two characters survive.
func StrictTrim(s string) (cleaned string, ok bool) {
	s = spaceRun.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	s = leadingNoise.ReplaceAllString(s, "")
	// Counts and location clauses stack in either order
	// ("... in Riyadh - 3 Nos", "... - 3 Nos in Riyadh"), so strip until stable.
	for {
		next := trailingCount.ReplaceAllString(s, "")
		next = stripTrailingLocation(next)
		if next == s {
			break
		}
		s = next
	}
	s = trailingPunct.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if len([]rune(s)) < 2 {
		return "", false
	}
	return Truncate(s, MaxTitleLen), true
}

// stripTrailingLocation removes "... in Riyadh" style clauses using the
// city gazetteer plus the bare country words.
func stripTrailingLocation(s string) string {
	return trailingLocation.ReplaceAllString(s, "")
}

// Truncate clamps s to n runes.
func Truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return strings.TrimSpace(string(r[:n]))
}

// heuristicTitle is the deterministic fallback chain: explicit
// "Position:"/"Role:" label in the body, else the first capitalized phrase
// ending in a known role noun, else the truncated raw title.
func heuristicTitle(rawTitle, body string) string {
	if m := positionLabel.FindStringSubmatch(body); m != nil {
		if t, ok := StrictTrim(m[1]); ok {
			return t
		}
	}
	if m := rolePhrase.FindStringSubmatch(body); m != nil {
		if t, ok := StrictTrim(m[1]); ok {
			return t
		}
	}
	return Truncate(rawTitle, MaxTitleLen)
}

// guardrail strips gazetteer city names that leaked into the title and
// restores the raw title when everything was eaten. The returned string is
// never empty and never longer than MaxTitleLen.
func guardrail(title, rawTitle string) string {
	title = StripCities(title)
	title = trailingPunct.ReplaceAllString(strings.TrimSpace(title), "")
	if title == "" {
		title = Truncate(rawTitle, MaxTitleLen)
	}
	if title == "" {
		title = fallbackTitle
	}
	return Truncate(title, MaxTitleLen)
}

// HeuristicNormalizer is the model-free policy: StrictTrim on the raw
// title, then the heuristic chain, then the guardrail.
type HeuristicNormalizer struct{}

func NewHeuristicNormalizer() *HeuristicNormalizer {
	return &HeuristicNormalizer{}
}

func (n *HeuristicNormalizer) NormalizeTitle(_ context.Context, rawTitle, body string) string {
	if t, ok := StrictTrim(rawTitle); ok {
		return guardrail(t, rawTitle)
	}
	return guardrail(heuristicTitle(rawTitle, body), rawTitle)
}

// AINormalizer attempts the text-cleanup service first and falls back to
// the heuristic chain on an exhausted retry budget or an unusable answer.
type AINormalizer struct {
	client   ai.Client
	fallback *HeuristicNormalizer
	log      *zap.SugaredLogger

	attempts uint
	delay    time.Duration
}

func NewAINormalizer(client ai.Client, log *zap.SugaredLogger) *AINormalizer {
	return &AINormalizer{
		client:   client,
		fallback: NewHeuristicNormalizer(),
		log:      log,
		attempts: 3,
		delay:    500 * time.Millisecond,
	}
}

func (n *AINormalizer) NormalizeTitle(ctx context.Context, rawTitle, body string) string {
	result, available := n.attemptAI(ctx, rawTitle, body)
	if available {
		if t, ok := StrictTrim(result.Title); ok {
			return guardrail(t, rawTitle)
		}
		n.log.Debugf("🤏 AI title %q trimmed to nothing, using heuristics", result.Title)
	}
	return n.fallback.NormalizeTitle(ctx, rawTitle, body)
}

// attemptAI runs the bounded retry budget against the cleanup service and
// reports unavailability as a typed outcome instead of an error.
func (n *AINormalizer) attemptAI(ctx context.Context, rawTitle, body string) (ai.TitleResult, bool) {
	excerpt := Truncate(body, 1200)
	result, err := retry.DoWithData(
		func() (ai.TitleResult, error) {
			return n.client.CleanTitle(ctx, ai.TitleRequest{
				RawTitle:    rawTitle,
				BodyExcerpt: excerpt,
			})
		},
		retry.Context(ctx),
		retry.Attempts(n.attempts),
		retry.Delay(n.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.MaxJitter(200*time.Millisecond),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		n.log.Warnf("🧠 AI cleanup unavailable after %d attempts: %v", n.attempts, err)
		return ai.TitleResult{}, false
	}
	return result, true
}
