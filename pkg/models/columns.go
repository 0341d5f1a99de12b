package models

import "fmt"

// Column headers of the lead sheet.
const (
	ColFirstName            = "First Name"
	ColEmail                = "Email"
	ColIndustry             = "Industry"
	ColCity                 = "City"
	ColLeadSource           = "Lead Source"
	ColPreviousPurchases    = "Previous Purchases"
	ColTimeSinceLast        = "Time Since Last Purchase"
	ColAveragePurchaseValue = "Average Purchase Value (SEK)"
	ColDateAdded            = "Date Added"

	ColPurchaseScore = "Purchase Score"
	ColLifetimeValue = "Lifetime Value"
	ColLeadScore     = "Lead Score"

	ColLastContact  = "Last Contact Date"
	ColNextFollowUp = "Next Follow-up Date"
	ColEducation    = "Education Date"
	ColFeedback     = "Feedback Date"
	ColWelcome      = "Welcome Date"
	ColLanguage     = "Swedish/English"
)

// PromoColumn returns the header of promo n (1-based).
func PromoColumn(n int) string {
	return fmt.Sprintf("Promo %d Date", n)
}

// ScoreColumns are inserted after the average value column, in this order.
var ScoreColumns = []string{ColPurchaseScore, ColLifetimeValue, ColLeadScore}

// ScheduleColumns are appended after the existing columns, in this order.
func ScheduleColumns() []string {
	cols := []string{ColLastContact, ColNextFollowUp, ColEducation, ColFeedback, ColWelcome, ColLanguage}
	for i := 1; i <= PromoCount; i++ {
		cols = append(cols, PromoColumn(i))
	}
	return cols
}

// DerivedColumns lists every column a scoring run replaces.
func DerivedColumns() []string {
	return append(append([]string{}, ScoreColumns...), ScheduleColumns()...)
}

// DateColumns lists every date-bearing column the writer normalises.
func DateColumns() []string {
	cols := []string{ColDateAdded, ColLastContact, ColNextFollowUp, ColEducation, ColFeedback, ColWelcome}
	for i := 1; i <= PromoCount; i++ {
		cols = append(cols, PromoColumn(i))
	}
	return cols
}
