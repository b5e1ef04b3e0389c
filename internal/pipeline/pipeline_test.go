package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-rapidapply-scraper/internal/logger"
	"go-rapidapply-scraper/internal/models"
	"go-rapidapply-scraper/internal/schema"
)

type fakeStore struct {
	writes []storeWrite
	failOn map[string]error
}

type storeWrite struct {
	id      string
	payload []byte
}

func (f *fakeStore) UpsertJob(_ context.Context, id string, payload []byte) error {
	if err, ok := f.failOn[id]; ok {
		return err
	}
	f.writes = append(f.writes, storeWrite{id: id, payload: payload})
	return nil
}

const testSchemaJSON = `{
	"id": "",
	"source": "saudijobs.in",
	"url": "",
	"apply_url": "",
	"title": "",
	"category": "Other",
	"company": "",
	"location": "Saudi Arabia",
	"country": "SA",
	"salary": "",
	"description_snippet": "",
	"posted_at": "",
	"scraped_at": "",
	"last_updated": "",
	"emails": []
}`

func newTestPipeline(t *testing.T, store Store) *Pipeline {
	t.Helper()
	target, err := schema.Parse(strings.NewReader(testSchemaJSON))
	require.NoError(t, err)
	p := New(nil, store, target, Options{
		Source:       "saudijobs.in",
		TargetRegion: "Saudi Arabia",
		CountryCode:  "SA",
	}, logger.Nop())
	p.normalizer = stubNormalizer{}
	p.now = func() time.Time { return time.Date(2025, time.October, 20, 12, 0, 0, 0, time.UTC) }
	return p
}

// stubNormalizer keeps titles as-is so tests control them exactly.
type stubNormalizer struct{}

func (stubNormalizer) NormalizeTitle(_ context.Context, rawTitle, _ string) string {
	return rawTitle
}

func rawRecord(title string) models.RawScrapeRecord {
	return models.RawScrapeRecord{
		Source:       "saudijobs.in",
		URL:          "https://saudijobs.in/job-details?jobid=1",
		ApplyURL:     "https://saudijobs.in/job-details?jobid=1",
		Title:        title,
		Description:  "Long term project, transportation provided.",
		Company:      "Alpha Contracting",
		Location:     "Jubail",
		PostedAtText: "12 Oct 2025",
		ScrapedAt:    time.Date(2025, time.October, 20, 11, 59, 0, 0, time.UTC),
	}
}

func TestProcess_SingleRecordWritten(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(t, store)

	written, err := p.Process(context.Background(), rawRecord("Civil Engineer"), []string{"hr@alpha.com"})

	require.NoError(t, err)
	require.Len(t, written, 1)
	job := written[0]
	assert.Equal(t, "Civil Engineer", job.Title)
	assert.Equal(t, "Civil Engineering", job.Category)
	assert.Equal(t, "Jubail", job.Location)
	assert.Equal(t, "SA", job.Country)
	assert.Equal(t, "2025-10-12T00:00:00.000Z", job.PostedAt)
	assert.Len(t, job.ID, 40)

	require.Len(t, store.writes, 1)
	assert.Equal(t, job.ID, store.writes[0].id)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(store.writes[0].payload, &payload))
	assert.Equal(t, "Civil Engineer", payload["title"])
	assert.Equal(t, []any{"hr@alpha.com"}, payload["emails"])
	assert.Len(t, payload, 15)
}

func TestProcess_MultiRoleFanOutKeepsOrder(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(t, store)

	raw := rawRecord("Multiple Openings")
	raw.Description = "We are hiring for the following positions:\n• Civil Engineer\n• Safety Officer\n• Planning Engineer"

	written, err := p.Process(context.Background(), raw, nil)

	require.NoError(t, err)
	require.Len(t, written, 3)
	assert.Equal(t, "Civil Engineer", written[0].Title)
	assert.Equal(t, "Safety Officer", written[1].Title)
	assert.Equal(t, "Planning Engineer", written[2].Title)
	// every split record keeps the shared posting URL but gets its own identity
	assert.Equal(t, written[0].URL, written[1].URL)
	assert.NotEqual(t, written[0].ID, written[1].ID)
	assert.Len(t, store.writes, 3)
}

func TestProcess_GuardRejectionIsNotAnError(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(t, store)

	var rejected []string
	p.OnGuardReject(func(title, category, id string) {
		rejected = append(rejected, title+"/"+category)
	})

	written, err := p.Process(context.Background(), rawRecord("Senior Data Analyst"), nil)

	require.NoError(t, err)
	assert.Empty(t, written)
	assert.Empty(t, store.writes)
	assert.Equal(t, []string{"Senior Data Analyst/Other"}, rejected)
}

func TestProcess_StoreErrorAggregatesAndContinues(t *testing.T) {
	boom := errors.New("connection reset")
	store := &fakeStore{failOn: map[string]error{}}
	p := newTestPipeline(t, store)

	// first run finds the id that will fail
	probe := &fakeStore{}
	pProbe := newTestPipeline(t, probe)
	seed, err := pProbe.Process(context.Background(), rawRecord("Civil Engineer"), nil)
	require.NoError(t, err)
	store.failOn[seed[0].ID] = boom

	raw := rawRecord("ignored")
	raw.Description = "We are hiring for the following positions:\n• Civil Engineer\n• Safety Officer"

	written, err := p.Process(context.Background(), raw, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	require.Len(t, written, 1)
	assert.Equal(t, "Safety Officer", written[0].Title)
}

func TestProcess_NilEmailsBecomeEmptyList(t *testing.T) {
	store := &fakeStore{}
	p := newTestPipeline(t, store)

	written, err := p.Process(context.Background(), rawRecord("Storekeeper"), nil)

	require.NoError(t, err)
	require.Len(t, written, 1)
	assert.Equal(t, []string{}, written[0].Emails)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(store.writes[0].payload, &payload))
	assert.Equal(t, []any{}, payload["emails"])
}

func TestProcess_DryRunWithoutStore(t *testing.T) {
	p := newTestPipeline(t, nil)

	written, err := p.Process(context.Background(), rawRecord("Civil Engineer"), nil)

	require.NoError(t, err)
	assert.Len(t, written, 1)
}
