package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTierForBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  Tier
	}{
		{1.0, TierTop},
		{0.8, TierTop},
		{0.79, TierHot},
		{0.7, TierHot},
		{0.69, TierWarm},
		{0.6, TierWarm},
		{0.59, TierLukewarm},
		{0.4, TierLukewarm},
		{0.39, TierCold},
		{0, TierCold},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TierFor(c.score), "score %.2f", c.score)
	}
}

func TestDateFieldStrings(t *testing.T) {
	d := Scheduled(time.Date(2025, 10, 3, 17, 45, 0, 0, time.UTC))
	assert.Equal(t, "2025-10-03", d.String())
	assert.Equal(t, "2025-10-08", d.AddDays(5).String())

	var none DateField
	assert.False(t, none.IsScheduled())
	assert.Equal(t, NotApplicable, none.String())
	assert.Equal(t, NotApplicable, none.AddDays(3).String())
}

func TestParseDateCell(t *testing.T) {
	assert.Equal(t, "2025-09-27", ParseDateCell("2025-09-27 13:01:00").String())
	assert.Equal(t, "2025-09-27", ParseDateCell("2025-09-27").String())
	assert.Equal(t, "2025-09-27", ParseDateCell("09-27-25").String())
	assert.False(t, ParseDateCell("N/A").IsScheduled())
	assert.False(t, ParseDateCell("  ").IsScheduled())
	assert.False(t, ParseDateCell("DONE").IsScheduled())
}

func TestColumnLayout(t *testing.T) {
	cols := ScheduleColumns()
	assert.Len(t, cols, 6+PromoCount)
	assert.Equal(t, ColLastContact, cols[0])
	assert.Equal(t, ColLanguage, cols[5])
	assert.Equal(t, "Promo 7 Date", cols[len(cols)-1])
	assert.Len(t, DerivedColumns(), 3+6+PromoCount)
}

func TestHistoricalValue(t *testing.T) {
	l := Lead{PreviousPurchases: 4, AveragePurchaseValue: 250.5}
	assert.InDelta(t, 1002.0, l.HistoricalValue(), 1e-9)
}
