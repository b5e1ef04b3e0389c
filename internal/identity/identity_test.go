package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_Deterministic(t *testing.T) {
	a := Fingerprint("https://www.saudijobs.in/job-details?jobid=42", "Civil Engineer")
	b := Fingerprint("https://www.saudijobs.in/job-details?jobid=42", "Civil Engineer")
	assert.Equal(t, a, b)
	assert.Len(t, a, 40) //sha1 hex
}

func TestFingerprint_ChangesWithEitherInput(t *testing.T) {
	base := Fingerprint("https://example.com/j/1", "Civil Engineer")
	assert.NotEqual(t, base, Fingerprint("https://example.com/j/2", "Civil Engineer"))
	assert.NotEqual(t, base, Fingerprint("https://example.com/j/1", "Safety Officer"))
}

func TestFingerprintURL(t *testing.T) {
	a := FingerprintURL("https://example.com/j/1")
	b := FingerprintURL("https://example.com/j/1")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, FingerprintURL("https://example.com/j/2"))
}

func TestGuard_RejectsGenericTitleOutsideDataFamily(t *testing.T) {
	err := Guard("Senior Data Analyst", "Civil Engineering", "abc123")

	var gv *GuardViolation
	assert.ErrorAs(t, err, &gv)
	assert.Equal(t, "Senior Data Analyst", gv.Title)
	assert.Equal(t, "Civil Engineering", gv.Category)
	assert.Equal(t, "abc123", gv.ID)
}

func TestGuard_AllowsDataFamily(t *testing.T) {
	assert.NoError(t, Guard("Senior Data Analyst", "Data & Analytics", "abc123"))
	assert.NoError(t, Guard("Senior Data Analyst", "Business Intelligence", "abc123"))
}

func TestGuard_IgnoresOtherTitles(t *testing.T) {
	assert.NoError(t, Guard("Civil Engineer", "Civil Engineering", "abc123"))
}
