// Location normalization is a separate deterministic pass: entity decode,
// whitespace collapse, abbreviation expansion, and a target-region default.
// It never calls the cleanup service.

package normalize

import (
	"html"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// cityNames is the gazetteer of cities the source board posts for. Matching
// is done on the diacritic-folded form because transliterations vary
// ("Al Khubār", "Al-Khobar", "Khobar").
var cityNames = []string{
	"Riyadh", "Jeddah", "Dammam", "Al-Khobar", "Al Khobar", "Khobar",
	"Dhahran", "Jubail", "Yanbu", "Makkah", "Mecca", "Madinah", "Medina",
	"Tabuk", "Jazan", "NEOM", "KAEC",
}

var (
	// CityPattern matches any gazetteer city; shared with the field extractor.
	CityPattern = regexp.MustCompile(`(?i)\b(Riyadh|Jeddah|Dammam|Al[-\s]?Khobar|Khobar|Dhahran|Jubail|Yanbu|Makkah|Mecca|Madinah|Medina|Tabuk|Jazan|NEOM|KAEC)\b`)

	trailingLocation = regexp.MustCompile(`(?i)\s+(?:in|at|for)\s+(?:Riyadh|Jeddah|Dammam|Al[-\s]?Khobar|Khobar|Dhahran|Jubail|Yanbu|Makkah|Mecca|Madinah|Medina|Tabuk|Jazan|NEOM|KAEC|KSA|Saudi(?:\s+Arabia)?)\s*\.?\s*$`)

	countryAbbrev = regexp.MustCompile(`(?i)^(?:ksa|k\.s\.a\.?|saudi|saudia|kingdom of saudi arabia)$`)
)

// foldText lowercases and strips combining marks so gazetteer lookups are
// transliteration tolerant.
func foldText(str string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, str)
	return strings.ToLower(result)
}

// CleanLocation trims and entity-decodes a scraped location, expands the
// country abbreviations to the target region string and defaults to the
// target region when nothing survives.
func CleanLocation(raw, targetRegion string) string {
	s := html.UnescapeString(raw)
	s = spaceRun.ReplaceAllString(s, " ")
	s = strings.Trim(strings.TrimSpace(s), ",;-")
	s = strings.TrimSpace(s)
	if s == "" {
		return targetRegion
	}
	if countryAbbrev.MatchString(s) {
		return targetRegion
	}
	return s
}

// MatchCity reports the first gazetteer city found in the text, in its
// canonical spelling, or "" when none matches.
func MatchCity(text string) string {
	folded := foldText(text)
	for _, city := range cityNames {
		if strings.Contains(folded, foldText(city)) {
			return city
		}
	}
	return ""
}

// StripCities removes gazetteer city names that leaked into a title.
func StripCities(s string) string {
	s = CityPattern.ReplaceAllString(s, "")
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}
