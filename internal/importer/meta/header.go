package meta

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/MrJamesThe3rd/adpulse/internal/report"
)

// HeaderMatch selects how header cells are compared with a vocabulary.
type HeaderMatch int

const (
	// MatchNormalized compares headers after NormalizeHeader, so casing,
	// spacing and punctuation differences between export versions still match.
	MatchNormalized HeaderMatch = iota
	// MatchExact compares the trimmed header text as is.
	MatchExact
)

func (m HeaderMatch) String() string {
	if m == MatchExact {
		return "exact"
	}

	return "normalized"
}

// ParseHeaderMatch maps "exact" and "normalized" to a HeaderMatch.
func ParseHeaderMatch(s string) (HeaderMatch, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "normalized", "":
		return MatchNormalized, true
	case "exact":
		return MatchExact, true
	}

	return MatchNormalized, false
}

// Vocabulary maps raw export headers to canonical fields.
// The zero value matches nothing; build one with NewVocabulary.
type Vocabulary struct {
	exact      map[string]report.Field
	normalized map[string]report.Field
}

// NewVocabulary builds a vocabulary from canonical fields and their accepted headers.
func NewVocabulary(headers map[report.Field][]string) Vocabulary {
	v := Vocabulary{
		exact:      make(map[string]report.Field),
		normalized: make(map[string]report.Field),
	}

	for field, names := range headers {
		for _, name := range names {
			v.exact[strings.TrimSpace(name)] = field
			v.normalized[NormalizeHeader(name)] = field
		}
	}

	return v
}

// Lookup resolves a single header cell.
func (v Vocabulary) Lookup(header string, match HeaderMatch) (report.Field, bool) {
	if match == MatchExact {
		f, ok := v.exact[strings.TrimSpace(header)]
		return f, ok
	}

	f, ok := v.normalized[NormalizeHeader(header)]

	return f, ok
}

// Column is a header position resolved to a canonical field.
type Column struct {
	Index int
	Field report.Field
}

// Resolve maps a header row to columns. Unknown headers are returned
// separately and otherwise ignored. When two columns resolve to the same
// field the rightmost one wins.
func (v Vocabulary) Resolve(header []string, match HeaderMatch) ([]Column, []string) {
	byField := make(map[report.Field]int, len(header))

	var unmapped []string

	for i, cell := range header {
		field, ok := v.Lookup(cell, match)
		if !ok {
			if cell != "" {
				unmapped = append(unmapped, cell)
			}

			continue
		}

		byField[field] = i
	}

	columns := make([]Column, 0, len(byField))

	for i, cell := range header {
		field, ok := v.Lookup(cell, match)
		if ok && byField[field] == i {
			columns = append(columns, Column{Index: i, Field: field})
		}
	}

	return columns, unmapped
}

// NormalizeHeader composes the text to NFC, lowercases it and keeps only
// letters and digits: "CPM (cost per 1,000 impressions) (NOK)" becomes
// "cpmcostper1000impressionsnok".
func NormalizeHeader(s string) string {
	s = norm.NFC.String(s)

	var b strings.Builder

	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// DefaultVocabulary returns the English and Norwegian Ads Manager headers.
func DefaultVocabulary() Vocabulary {
	return NewVocabulary(defaultHeaders)
}

var defaultHeaders = map[report.Field][]string{
	report.FieldDate:        {"Reporting starts", "Reporting Starts", "Rapportering starter"},
	report.FieldReach:       {"Reach", "Rekkevidde"},
	report.FieldImpressions: {"Impressions", "Eksponeringer"},
	report.FieldSpend:       {"Amount spent (NOK)", "Beløp brukt (NOK)"},
	report.FieldFrequency:   {"Frequency", "Frekvens"},
	report.FieldCPM: {
		"CPM (cost per 1,000 impressions) (NOK)",
		"CPM (Cost per 1,000 Impressions) (NOK)",
		"CPM (kostnad per 1000 eksponeringer) (NOK)",
	},
	report.FieldLinkClicks: {"Link clicks", "Klikk på lenke"},
	report.FieldCPCLink: {
		"CPC (cost per link click) (NOK)",
		"CPC (Cost per Link Click) (NOK)",
		"CPC (kostnad per klikk på lenke) (NOK)",
	},
	report.FieldClicksAll:        {"Clicks (all)", "Klikk (alle)"},
	report.FieldCTRAll:           {"CTR (all)", "CTR (alle)"},
	report.FieldCPCAll:           {"CPC (all) (NOK)", "CPC (All) (NOK)", "CPC (alle) (NOK)"},
	report.FieldCTRLink:          {"CTR (link click-through rate)", "CTR (klikkfrekvens for lenke)"},
	report.FieldLandingPageViews: {"Landing page views", "Visninger av landingsside"},
	report.FieldCostPerLandingPageView: {
		"Cost per landing page view (NOK)",
		"Kostnad per visning av landingsside (NOK)",
	},
	report.FieldCampaignName: {"Campaign name", "Kampanjenavn"},
	report.FieldDelivery:     {"Campaign delivery", "Kampanjelevering"},
	report.FieldATC:          {"Adds to cart", "Legg i handlekurv"},
	report.FieldATCValue:     {"Adds to cart conversion value", "Konverteringsverdi for Legg i handlekurv"},
	report.FieldCheckouts:    {"Checkouts initiated", "Betalinger startet"},
	report.FieldPurchases:    {"Purchases", "Kjøp"},
	report.FieldRevenue:      {"Purchases conversion value", "Konverteringsverdi for kjøp"},
	report.FieldROAS:         {"Purchase ROAS (return on ad spend)", "ROAS (avkastning på annonseforbruk) for kjøp"},
}
