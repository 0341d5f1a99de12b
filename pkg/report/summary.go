// Package report aggregates a scored lead table and renders it as charts,
// an HTML dashboard and a PDF document.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"leadscore/pkg/apperr"
	"leadscore/pkg/models"
	"leadscore/pkg/sheet"
)

// RangeCount is the number of score ranges, one per tenth.
const RangeCount = 10

// Group is one aggregated value per grouping key.
type Group struct {
	Key   string
	Value float64
}

// Summary holds everything the renderers draw.
type Summary struct {
	Leads int

	RangeLabels  [RangeCount]string
	RangePercent [RangeCount]float64

	ScoreByIndustry []Group
	ScoreByCity     []Group
	ScoreBySource   []Group

	// Revenue is previous purchases × average purchase value, averaged per customer.
	RevenueByIndustry []Group
	RevenueByCity     []Group
	RevenueBySource   []Group
}

// RangeLabels returns "0.0-0.1" … "0.9-1.0".
func RangeLabels() [RangeCount]string {
	var out [RangeCount]string
	for i := range out {
		out[i] = fmt.Sprintf("%.1f-%.1f", float64(i)/10, float64(i+1)/10)
	}
	return out
}

// rangeIndex puts a score in [0,1] into its tenth. Upper edges are
// inclusive; 0 belongs to the first range.
func rangeIndex(score float64) int {
	for k := 0; k < RangeCount-1; k++ {
		if score <= float64(k+1)/10 {
			return k
		}
	}
	return RangeCount - 1
}

type leadRow struct {
	score    float64
	revenue  float64
	hasValue bool
	industry string
	city     string
	source   string
}

// Summarize aggregates a scored table. Rows whose lead score is missing or
// outside [0,1] are left out. Optional grouping columns that are absent
// produce empty groupings.
func Summarize(t *sheet.Table) (Summary, error) {
	if !t.HasColumn(models.ColLeadScore) {
		return Summary{}, apperr.Schema(models.ColLeadScore, 0, "column missing, run score first").WithOp("summarize")
	}
	hasRevenue := t.HasColumn(models.ColPreviousPurchases) && t.HasColumn(models.ColAveragePurchaseValue)

	var rows []leadRow
	for r := range t.Rows {
		score, err := strconv.ParseFloat(strings.TrimSpace(t.Cell(r, models.ColLeadScore)), 64)
		if err != nil || score < 0 || score > 1 {
			continue
		}
		lr := leadRow{
			score:    score,
			industry: strings.TrimSpace(t.Cell(r, models.ColIndustry)),
			city:     strings.TrimSpace(t.Cell(r, models.ColCity)),
			source:   strings.TrimSpace(t.Cell(r, models.ColLeadSource)),
		}
		if hasRevenue {
			p, errP := strconv.ParseFloat(strings.TrimSpace(t.Cell(r, models.ColPreviousPurchases)), 64)
			v, errV := strconv.ParseFloat(strings.TrimSpace(t.Cell(r, models.ColAveragePurchaseValue)), 64)
			if errP == nil && errV == nil {
				lr.revenue, lr.hasValue = p*v, true
			}
		}
		rows = append(rows, lr)
	}

	s := Summary{Leads: len(rows), RangeLabels: RangeLabels()}
	if len(rows) > 0 {
		var counts [RangeCount]int
		for _, lr := range rows {
			counts[rangeIndex(lr.score)]++
		}
		for i, c := range counts {
			s.RangePercent[i] = float64(c) / float64(len(rows)) * 100
		}
	}

	score := func(lr leadRow) (float64, bool) { return lr.score, true }
	revenue := func(lr leadRow) (float64, bool) { return lr.revenue, lr.hasValue }
	industry := func(lr leadRow) string { return lr.industry }
	city := func(lr leadRow) string { return lr.city }
	source := func(lr leadRow) string { return lr.source }

	if t.HasColumn(models.ColIndustry) {
		s.ScoreByIndustry = groupMean(rows, industry, score)
		if hasRevenue {
			s.RevenueByIndustry = groupMean(rows, industry, revenue)
		}
	}
	if t.HasColumn(models.ColCity) {
		s.ScoreByCity = groupMean(rows, city, score)
		if hasRevenue {
			s.RevenueByCity = groupMean(rows, city, revenue)
		}
	}
	if t.HasColumn(models.ColLeadSource) {
		s.ScoreBySource = groupMean(rows, source, score)
		if hasRevenue {
			s.RevenueBySource = groupMean(rows, source, revenue)
		}
	}
	return s, nil
}

// groupMean averages value per key, highest first. Empty keys are skipped.
func groupMean(rows []leadRow, key func(leadRow) string, value func(leadRow) (float64, bool)) []Group {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range rows {
		k := key(r)
		v, ok := value(r)
		if k == "" || !ok {
			continue
		}
		sums[k] += v
		counts[k]++
	}
	out := make([]Group, 0, len(sums))
	for k, sum := range sums {
		out = append(out, Group{Key: k, Value: sum / float64(counts[k])})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Key < out[j].Key
	})
	return out
}
