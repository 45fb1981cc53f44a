package meta_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/adpulse/internal/importer/meta"
	"github.com/MrJamesThe3rd/adpulse/internal/report"
)

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "cpmcostper1000impressionsnok", meta.NormalizeHeader("CPM (cost per 1,000 impressions) (NOK)"))
	assert.Equal(t, "beløpbruktnok", meta.NormalizeHeader(" Beløp brukt (NOK) "))
	// Decomposed å (a + combining ring) as written by some macOS tools.
	assert.Equal(t, "p\u00e5begynt", meta.NormalizeHeader("pa\u030abegynt"))
}

func TestVocabulary_Lookup(t *testing.T) {
	vocab := meta.DefaultVocabulary()

	tests := []struct {
		name   string
		header string
		match  meta.HeaderMatch
		want   report.Field
		wantOK bool
	}{
		{"EnglishExact", "Reporting starts", meta.MatchExact, report.FieldDate, true},
		{"NorwegianExact", "Rapportering starter", meta.MatchExact, report.FieldDate, true},
		{"CasingExactMisses", "REPORTING STARTS", meta.MatchExact, "", false},
		{"CasingNormalized", "REPORTING STARTS", meta.MatchNormalized, report.FieldDate, true},
		{"PunctuationNormalized", "CPM (cost per 1000 impressions) (NOK)", meta.MatchNormalized, report.FieldCPM, true},
		{"NorwegianSpend", "Beløp brukt (NOK)", meta.MatchNormalized, report.FieldSpend, true},
		{"LinkCTR", "CTR (link click-through rate)", meta.MatchExact, report.FieldCTRLink, true},
		{"CostPerLandingPageView", "Kostnad per visning av landingsside (NOK)", meta.MatchExact, report.FieldCostPerLandingPageView, true},
		{"Unknown", "Custom column", meta.MatchNormalized, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := vocab.Lookup(tt.header, tt.match)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVocabulary_Resolve(t *testing.T) {
	vocab := meta.DefaultVocabulary()

	header := []string{"Reporting starts", "My custom column", "Impressions", "", "Link clicks"}

	columns, unmapped := vocab.Resolve(header, meta.MatchNormalized)

	assert.Equal(t, []meta.Column{
		{Index: 0, Field: report.FieldDate},
		{Index: 2, Field: report.FieldImpressions},
		{Index: 4, Field: report.FieldLinkClicks},
	}, columns)
	assert.Equal(t, []string{"My custom column"}, unmapped)
}

func TestVocabulary_ResolveDuplicateLastWins(t *testing.T) {
	vocab := meta.DefaultVocabulary()

	columns, _ := vocab.Resolve([]string{"Reach", "Rekkevidde"}, meta.MatchExact)

	assert.Equal(t, []meta.Column{{Index: 1, Field: report.FieldReach}}, columns)
}

func TestNewVocabulary_Custom(t *testing.T) {
	vocab := meta.NewVocabulary(map[report.Field][]string{
		report.FieldDate:  {"Day"},
		report.FieldSpend: {"Amount spent (EUR)"},
	})

	f, ok := vocab.Lookup("amount spent eur", meta.MatchNormalized)
	assert.True(t, ok)
	assert.Equal(t, report.FieldSpend, f)

	_, ok = vocab.Lookup("Reporting starts", meta.MatchNormalized)
	assert.False(t, ok)
}

func TestParseHeaderMatch(t *testing.T) {
	m, ok := meta.ParseHeaderMatch("Exact")
	assert.True(t, ok)
	assert.Equal(t, meta.MatchExact, m)

	m, ok = meta.ParseHeaderMatch("")
	assert.True(t, ok)
	assert.Equal(t, meta.MatchNormalized, m)

	_, ok = meta.ParseHeaderMatch("fuzzy")
	assert.False(t, ok)
}
