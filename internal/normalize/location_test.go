package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanLocation(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"Riyadh", "Riyadh"},
		{"  Jubail ,", "Jubail"},
		{"Riyadh &amp; Jeddah", "Riyadh & Jeddah"},
		{"KSA", "Saudi Arabia"},
		{"k.s.a.", "Saudi Arabia"},
		{"Saudi", "Saudi Arabia"},
		{"Kingdom of Saudi Arabia", "Saudi Arabia"},
		{"", "Saudi Arabia"},
		{"   ", "Saudi Arabia"},
		{",;-", "Saudi Arabia"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CleanLocation(tc.raw, "Saudi Arabia"), "raw=%q", tc.raw)
	}
}

func TestMatchCity(t *testing.T) {
	assert.Equal(t, "Riyadh", MatchCity("office based in riyadh, immediate joiners"))
	assert.Equal(t, "Al Khobar", MatchCity("Al Khobār branch"))
	assert.Equal(t, "Jubail", MatchCity("Jubail Industrial City"))
	assert.Equal(t, "", MatchCity("remote work from home"))
}

func TestStripCities(t *testing.T) {
	assert.Equal(t, "Sales Engineer", StripCities("Sales Engineer Riyadh"))
	assert.Equal(t, "Project Manager -", StripCities("Project Manager - Jeddah"))
	assert.Equal(t, "Planner", StripCities("Planner NEOM"))
	assert.Equal(t, "Storekeeper", StripCities("Storekeeper"))
}
