// Splits multi-role posts into individual role records when the content
// lists roles. Pure order-preserving fan-out: one record in, N >= 1 out.

package splitter

import (
	"regexp"
	"strings"

	"go-rapidapply-scraper/internal/models"
)

const maxRoles = 12

var (
	roleHints  = regexp.MustCompile(`(?i)(positions?|roles?)\b.*:|following positions|we are hiring|openings?\b`)
	bulletLine = regexp.MustCompile(`^[•\-\*\x{2022}]`)
	numberLine = regexp.MustCompile(`^\d+\.`)
	bulletTrim = regexp.MustCompile(`^[•\-\*\x{2022}]\s*`)
	numberTrim = regexp.MustCompile(`^\d+\.\s*`)
	roleNoun   = regexp.MustCompile(`(?i)engineer|officer|supervisor|manager|surveyor|controller`)
)

// SplitMultiRoles detects a multi-role posting via phrase triggers against
// title+description and expands its bulleted role lines into clones of the
// record with only the title replaced. If no trigger matches, or splitting
// yields nothing usable, the original record comes back alone.
func SplitMultiRoles(raw models.RawScrapeRecord) []models.RawScrapeRecord {
	blob := raw.Title + "\n" + raw.Description
	if !roleHints.MatchString(blob) {
		return []models.RawScrapeRecord{raw}
	}

	var roles []string
	for _, line := range strings.Split(raw.Description, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}
		if !bulletLine.MatchString(line) && !numberLine.MatchString(line) {
			continue
		}
		line = bulletTrim.ReplaceAllString(line, "")
		line = numberTrim.ReplaceAllString(line, "")
		if !roleNoun.MatchString(line) {
			continue
		}
		roles = append(roles, line)
		if len(roles) == maxRoles {
			break
		}
	}

	if len(roles) == 0 {
		return []models.RawScrapeRecord{raw}
	}

	out := make([]models.RawScrapeRecord, 0, len(roles))
	for _, r := range roles {
		out = append(out, raw.CloneWithTitle(r))
	}
	return out
}
