package calculator

import (
	"fmt"
	"strconv"

	"leadscore/pkg/models"
	"leadscore/pkg/sheet"
)

// ApplyResults writes the computed fields into t. Existing derived columns
// are replaced: scores go directly after the average value column, dates
// and language are appended. Every date column, including Date Added, ends
// up as a plain calendar date or N/A.
func ApplyResults(t *sheet.Table, avgCol int, results []models.Result) error {
	if len(results) != t.Len() {
		return fmt.Errorf("apply: %d results for %d rows", len(results), t.Len())
	}
	if avgCol < 0 || avgCol >= len(t.Headers) {
		return fmt.Errorf("apply: average value column %d out of range", avgCol)
	}

	derived := make(map[string]bool)
	for _, c := range models.DerivedColumns() {
		derived[c] = true
	}
	insertAt := avgCol + 1
	for i := 0; i < avgCol; i++ {
		if derived[t.Headers[i]] {
			insertAt--
		}
	}
	t.DropColumns(models.DerivedColumns()...)

	scores := [][]string{
		make([]string, len(results)),
		make([]string, len(results)),
		make([]string, len(results)),
	}
	for i, r := range results {
		scores[0][i] = formatScore(r.PurchaseScore)
		scores[1][i] = formatScore(r.LifetimeValue)
		scores[2][i] = formatScore(r.LeadScore)
	}
	for k, name := range models.ScoreColumns {
		if err := t.InsertColumn(insertAt+k, name, scores[k]); err != nil {
			return err
		}
	}

	for _, name := range models.ScheduleColumns() {
		vals := make([]string, len(results))
		for i, r := range results {
			vals[i] = scheduleCell(r.Schedule, name)
		}
		if err := t.SetColumn(name, vals); err != nil {
			return err
		}
	}

	NormalizeDates(t)
	return nil
}

// NormalizeDates rewrites every present date column to YYYY-MM-DD or N/A.
func NormalizeDates(t *sheet.Table) {
	for _, name := range models.DateColumns() {
		i := t.ColumnIndex(name)
		if i < 0 {
			continue
		}
		for _, row := range t.Rows {
			row[i] = models.ParseDateCell(row[i]).String()
		}
	}
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func scheduleCell(s models.Schedule, column string) string {
	switch column {
	case models.ColLastContact:
		return s.LastContact.String()
	case models.ColNextFollowUp:
		return s.NextFollowUp.String()
	case models.ColEducation:
		return s.Education.String()
	case models.ColFeedback:
		return s.Feedback.String()
	case models.ColWelcome:
		return s.Welcome.String()
	case models.ColLanguage:
		return s.Language.String()
	}
	for n := 1; n <= models.PromoCount; n++ {
		if column == models.PromoColumn(n) {
			return s.Promos[n-1].String()
		}
	}
	return models.NotApplicable
}
