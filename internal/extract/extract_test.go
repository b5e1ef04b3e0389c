package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestParseJob_FullDetailPage(t *testing.T) {
	html := `<html><head>
		<title>Saudi Jobs</title>
		<meta property="og:title" content="Recent Jobs">
		</head><body>
		<h1>Mechanical Engineer</h1>
		<div class="company-name">Alpha Contracting Co.</div>
		<div class="job-location">Jubail</div>
		<span class="post-date">12 Oct 2025</span>
		<div class="job-description">
			Company: Alpha Contracting Co.
			We need a mechanical engineer for our Jubail site.
			Salary SAR 8,000 - 10,000 per month.
		</div>
		<script>var tracking = 1;</script>
		</body></html>`

	raw := ParseJob(mustDoc(t, html), "https://saudijobs.in/job-details?jobid=42", "saudijobs.in")

	assert.Equal(t, "Mechanical Engineer", raw.Title)
	assert.Equal(t, "https://saudijobs.in/job-details?jobid=42", raw.URL)
	assert.Equal(t, raw.URL, raw.ApplyURL)
	assert.Equal(t, "saudijobs.in", raw.Source)
	assert.Equal(t, "Alpha Contracting Co.", raw.Company)
	assert.Equal(t, "Jubail", raw.Location)
	assert.Equal(t, "SAR 8,000 - 10,000", raw.Salary)
	assert.Equal(t, "12 Oct 2025", raw.PostedAtText)
	assert.Contains(t, raw.Description, "mechanical engineer for our Jubail site")
	assert.NotContains(t, raw.Description, "tracking")
	assert.False(t, raw.ScrapedAt.IsZero())
}

func TestParseJob_TitleChainSkipsGenericHeadings(t *testing.T) {
	html := `<html><head>
		<title>Recent Jobs</title>
		<meta property="og:title" content="Electrical Supervisor - Saudi Jobs">
		</head><body><h1>Recent Jobs</h1><p>body</p></body></html>`

	raw := ParseJob(mustDoc(t, html), "https://saudijobs.in/job-details?jobid=7", "saudijobs.in")

	assert.Equal(t, "Electrical Supervisor - Saudi Jobs", raw.Title)
}

func TestParseJob_TitleFromURLParam(t *testing.T) {
	html := `<html><head><title>Recent Jobs</title></head><body><h1>Home</h1></body></html>`

	raw := ParseJob(mustDoc(t, html), "https://saudijobs.in/job-details?jobid=9&jobtitle=qa-qc-inspector", "saudijobs.in")

	assert.Equal(t, "qa qc inspector", raw.Title)
}

func TestParseJob_AllGenericKeepsFirst(t *testing.T) {
	html := `<html><head><title>Saudi Jobs</title></head><body><h1>Recent Jobs</h1></body></html>`

	raw := ParseJob(mustDoc(t, html), "https://saudijobs.in/job-details?jobid=9", "saudijobs.in")

	assert.Equal(t, "Recent Jobs", raw.Title)
}

func TestParseJob_DescriptionFallsBackToLargestBlock(t *testing.T) {
	long := strings.Repeat("responsibilities and requirements ", 10)
	html := `<html><body>
		<div class="sidebar">Home About Sign Up Login Contact Post A Job</div>
		<div class="whatever">` + long + `</div>
		</body></html>`

	raw := ParseJob(mustDoc(t, html), "https://saudijobs.in/job-details?jobid=3", "saudijobs.in")

	assert.Contains(t, raw.Description, "responsibilities and requirements")
}

func TestParseJob_DescriptionKeepsLineStructure(t *testing.T) {
	html := `<html><body><div class="job-description">We are hiring for the following positions:
• Civil   Engineer
• Safety Officer
</div></body></html>`

	raw := ParseJob(mustDoc(t, html), "https://saudijobs.in/job-details?jobid=5", "saudijobs.in")

	lines := strings.Split(raw.Description, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "• Civil Engineer", lines[1])
	assert.Equal(t, "• Safety Officer", lines[2])
}

func TestParseJob_LocationFromGazetteerWhenNoLabel(t *testing.T) {
	html := `<html><body><div class="job-description">Work site is in Dammam, 10 hours/day.</div></body></html>`

	raw := ParseJob(mustDoc(t, html), "https://saudijobs.in/job-details?jobid=6", "saudijobs.in")

	assert.Equal(t, "Dammam", raw.Location)
}

func TestJobLinks_DiscoveryOrderAndDedup(t *testing.T) {
	html := `<html><body>
		<a href="job-details?jobid=11&jobtitle=site-engineer">Site Engineer</a>
		<a href="/job-details?jobid=12">Foreman</a>
		<a href="job-details?jobid=11&jobtitle=site-engineer">Site Engineer (again)</a>
		<div onclick="window.location='job-details?jobid=13'">card</div>
		</body></html>`

	links := JobLinks(mustDoc(t, html), "https://saudijobs.in/")

	assert.Equal(t, []string{
		"https://saudijobs.in/job-details?jobid=11&jobtitle=site-engineer",
		"https://saudijobs.in/job-details?jobid=12",
		"https://saudijobs.in/job-details?jobid=13",
	}, links)
}

func TestJobLinks_NoLinks(t *testing.T) {
	links := JobLinks(mustDoc(t, `<html><body><p>nothing here</p></body></html>`), "https://saudijobs.in/")
	assert.Empty(t, links)
}
