package models

import (
	"math/rand/v2"
	"time"
)

/*
LOAD → simple types for the raw lead rows read from the tabular file.
*/

// Lead holds the three numeric features of one row.
type Lead struct {
	PreviousPurchases     int     // purchase count, >= 0
	TimeSinceLastPurchase int     // recency in days, >= 0
	AveragePurchaseValue  float64 // average order value, >= 0
}

// HistoricalValue is the raw lifetime value: purchases × average order value.
func (l Lead) HistoricalValue() float64 {
	return float64(l.PreviousPurchases) * l.AveragePurchaseValue
}

/*
COMPUTE → scores and outreach schedule per row
*/

// Score holds the derived scores of one row, each in [0,1] rounded to 2 decimals.
type Score struct {
	PurchaseScore float64
	LifetimeValue float64
	LeadScore     float64
}

// Language is the outreach language of a lead.
type Language int

const (
	Swedish Language = iota
	English
)

func (l Language) String() string {
	if l == English {
		return "English"
	}
	return "Swedish"
}

// PromoCount is the number of promotional touchpoints per lead.
const PromoCount = 7

// Schedule is the outreach calendar of one row.
type Schedule struct {
	Tier         Tier
	LastContact  DateField
	NextFollowUp DateField
	Education    DateField
	Feedback     DateField
	Welcome      DateField
	Language     Language
	Promos       [PromoCount]DateField
}

// Result is the full computed output for one row.
type Result struct {
	Score
	Schedule
}

/*
CONFIG → run parameters
*/

// Config contains the parameters passed to calculator.Run.
type Config struct {
	Today            time.Time  // reference day for schedules, date part only is used
	Rand             *rand.Rand // source for contact sampling and language assignment
	Columns          FeatureColumns
	RecencyThreshold int     // recency below this many days labels a lead as likely buyer
	SwedishShare     float64 // probability of assigning Swedish
	Verbose          bool    // show progress
}

// FeatureColumns are the 0-based positions of the feature columns.
type FeatureColumns struct {
	PreviousPurchases     int
	TimeSinceLastPurchase int
	AveragePurchaseValue  int
}

// DefaultFeatureColumns matches the lead sheet layout (J, K, L).
var DefaultFeatureColumns = FeatureColumns{
	PreviousPurchases:     9,
	TimeSinceLastPurchase: 10,
	AveragePurchaseValue:  11,
}
