// Robust email extractor for job-detail pages.
// Handles:
//  - <a href="mailto:hr@company.com?subject=...">
//  - onclick="window.location='mailto:hr@...';" and similar inline JS
//  - Cloudflare obfuscation: <a class="__cf_email__" data-cfemail="...">
//  - Fallback regex over the whole HTML/text

package email

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	mapset "github.com/deckarep/golang-set/v2"
)

var (
	emailRegex  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	mailtoFrag  = regexp.MustCompile(`(?i)mailto:[^'"]+`)
	cfHexDigits = regexp.MustCompile(`^[0-9a-fA-F]+$`)
)

// Extract returns the deduplicated, lowercased set of addresses found in
// the document, sorted for deterministic output. All channels are applied
// and unioned; none is authoritative over another. The doc may be nil, in
// which case only the raw-text sweep runs.
func Extract(doc *goquery.Document, html string) []string {
	found := mapset.NewThreadUnsafeSet[string]()

	add := func(addr string) {
		addr = strings.ToLower(strings.TrimSpace(addr))
		if addr != "" {
			found.Add(addr)
		}
	}

	if doc != nil {
		// 1) <a href="mailto:...">
		doc.Find(`a[href^="mailto:"], a[href^="MAILTO:"]`).Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			if addr := FromMailto(href); addr != "" {
				add(addr)
			}
		})

		// 2) onclick / inline JS that navigates to mailto:
		doc.Find(`[onclick]`).Each(func(_ int, sel *goquery.Selection) {
			onclick, _ := sel.Attr("onclick")
			if frag := mailtoFrag.FindString(onclick); frag != "" {
				if addr := FromMailto(frag); addr != "" {
					add(addr)
				}
			}
		})

		// 3) Cloudflare obfuscation <a class="__cf_email__" data-cfemail="...">
		doc.Find(`a.__cf_email__, span.__cf_email__`).Each(func(_ int, sel *goquery.Selection) {
			cf, _ := sel.Attr("data-cfemail")
			decoded := DecodeCFEmail(strings.TrimSpace(cf))
			for _, m := range emailRegex.FindAllString(decoded, -1) {
				add(m)
			}
		})
	}

	// 4) Fallback: search raw HTML for visible email strings
	for _, m := range emailRegex.FindAllString(html, -1) {
		add(m)
	}

	out := found.ToSlice()
	sort.Strings(out)
	return out
}

// FromMailto pulls "user@domain" out of a mailto href, percent-decoded and
// stripped of any ?subject=... query string.
func FromMailto(href string) string {
	_, after, ok := strings.Cut(href, ":")
	if !ok {
		return ""
	}
	addr, _, _ := strings.Cut(after, "?")
	if decoded, err := url.QueryUnescape(addr); err == nil {
		addr = decoded
	}
	return emailRegex.FindString(addr)
}

// DecodeCFEmail reverses the Cloudflare data-cfemail scheme: the first hex
// pair is the XOR key, each following pair an obfuscated character.
func DecodeCFEmail(cfhex string) string {
	if len(cfhex) < 4 || len(cfhex)%2 != 0 || !cfHexDigits.MatchString(cfhex) {
		return ""
	}
	key, err := strconv.ParseUint(cfhex[:2], 16, 8)
	if err != nil {
		return ""
	}
	var b strings.Builder
	for i := 2; i < len(cfhex); i += 2 {
		code, err := strconv.ParseUint(cfhex[i:i+2], 16, 8)
		if err != nil {
			return ""
		}
		b.WriteByte(byte(code) ^ byte(key))
	}
	return b.String()
}
