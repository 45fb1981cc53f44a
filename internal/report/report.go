package report

import (
	"sort"

	"github.com/google/uuid"
)

// Field is a canonical field key shared by every export vocabulary.
type Field string

const (
	FieldDate                   Field = "date"
	FieldCampaignName           Field = "campaignName"
	FieldDelivery               Field = "delivery"
	FieldReach                  Field = "reach"
	FieldImpressions            Field = "impressions"
	FieldSpend                  Field = "spend"
	FieldFrequency              Field = "frequency"
	FieldCPM                    Field = "cpm"
	FieldLinkClicks             Field = "linkClicks"
	FieldCPCLink                Field = "cpcLink"
	FieldClicksAll              Field = "clicksAll"
	FieldCTRAll                 Field = "ctrAll"
	FieldCPCAll                 Field = "cpcAll"
	FieldCTRLink                Field = "ctrLink"
	FieldLandingPageViews       Field = "landingPageViews"
	FieldCostPerLandingPageView Field = "costPerLandingPageView"
	FieldATC                    Field = "atc"
	FieldATCValue               Field = "atcValue"
	FieldCheckouts              Field = "checkouts"
	FieldPurchases              Field = "purchases"
	FieldRevenue                Field = "revenue"
	FieldROAS                   Field = "roas"
)

// DeliveryActive is the delivery status of a campaign that was running on the reported date.
const DeliveryActive = "active"

// IsText reports whether the field carries free text rather than a number.
func (f Field) IsText() bool {
	switch f {
	case FieldDate, FieldCampaignName, FieldDelivery:
		return true
	}

	return false
}

// MetricFields lists the numeric fields in display order.
var MetricFields = []Field{
	FieldSpend,
	FieldImpressions,
	FieldReach,
	FieldFrequency,
	FieldCPM,
	FieldLinkClicks,
	FieldCPCLink,
	FieldCTRLink,
	FieldClicksAll,
	FieldCTRAll,
	FieldCPCAll,
	FieldLandingPageViews,
	FieldCostPerLandingPageView,
	FieldATC,
	FieldATCValue,
	FieldCheckouts,
	FieldPurchases,
	FieldRevenue,
	FieldROAS,
}

// Record is one normalized row of a performance export.
// A metric missing from Metrics was absent in the source; it is not zero.
type Record struct {
	ID           uuid.UUID
	Date         string // YYYY-MM-DD, as exported
	CampaignName string
	Delivery     string
	Metrics      map[Field]float64
}

// Metric returns the value of a numeric field and whether it was present.
func (r Record) Metric(f Field) (float64, bool) {
	v, ok := r.Metrics[f]
	return v, ok
}

// SortByDateDesc orders records newest first. Dates compare lexically.
func SortByDateDesc(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
}
