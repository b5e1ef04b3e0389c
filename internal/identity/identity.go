// Stable record identity plus the business-rule guard that sits between
// normalization and persistence.

package identity

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"regexp"
)

// Fingerprint is the record id and the idempotency key for persistence:
// writing the same fingerprint twice overwrites, never duplicates.
func Fingerprint(url, title string) string {
	sum := sha1.Sum([]byte(url + "|" + title))
	return hex.EncodeToString(sum[:])
}

// FingerprintURL is the url-only variant for contexts where a single
// record per URL is expected.
func FingerprintURL(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// suspectTitle is the generic placeholder the AI fallback chain is known
// to collapse unrelated postings onto.
const suspectTitle = "Senior Data Analyst"

var dataCategory = regexp.MustCompile(`(?i)(data|analyst|analytics|bi|business intelligence)`)

// GuardViolation is a business-rule rejection: the record must not be
// written, but the batch continues.
type GuardViolation struct {
	Title    string
	Category string
	ID       string
}

func (e *GuardViolation) Error() string {
	return fmt.Sprintf("guard: refusing suspicious generic title %q for non-data category %q (id=%s)", e.Title, e.Category, e.ID)
}

// Guard rejects the known generic placeholder title when its category is
// outside the data/analytics family. This is a deliberate circuit breaker
// against the cleanup chain's worst failure mode, not a silent correction.
func Guard(title, category, id string) error {
	if title == suspectTitle && !dataCategory.MatchString(category) {
		return &GuardViolation{Title: title, Category: category, ID: id}
	}
	return nil
}
