// Package outreach turns a lead score into an outreach calendar.
//
// Each score band has a lookback window for the last contact date and a
// fixed ladder of offsets from it. The anchor is sampled, everything else is
// arithmetic on the anchor, so two runs over the same scores differ only in
// their sampled anchors and language draws.
package outreach

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"leadscore/pkg/apperr"
	"leadscore/pkg/models"
)

// cadence is the offset ladder of one tier, in days from the anchor.
type cadence struct {
	lookback  int   // anchor is today minus 1..lookback days
	followUp  int   // next follow-up offset
	education int   // education offset
	feedback  int   // feedback offset, 0 for none
	promos    []int // increments between consecutive promos, first from the anchor
}

var cadences = map[models.Tier]cadence{
	models.TierTop: {
		lookback: 5, followUp: 5, education: 10, feedback: 30,
		promos: []int{5, 5, 5, 5, 5, 5, 5},
	},
	models.TierHot: {
		lookback: 7, followUp: 7, education: 14, feedback: 28,
		promos: []int{7, 7, 7, 7, 7, 7, 7},
	},
	models.TierWarm: {
		lookback: 10, followUp: 10, education: 20, feedback: 30,
		promos: []int{10, 30, 30, 30, 30, 30, 30},
	},
	models.TierLukewarm: {
		lookback: 15, followUp: 15, education: 15, feedback: 30,
	},
	models.TierCold: {
		lookback: 30, followUp: 30, education: 30,
	},
}

// Lookback returns the anchor sampling window of a tier in days.
func Lookback(t models.Tier) int {
	return cadences[t].lookback
}

// Scheduler builds schedules against a fixed day with an injected random source.
type Scheduler struct {
	today        time.Time
	rng          *rand.Rand
	swedishShare float64
}

// NewScheduler returns a scheduler for the calendar day of today.
func NewScheduler(today time.Time, rng *rand.Rand, swedishShare float64) *Scheduler {
	return &Scheduler{today: models.Day(today), rng: rng, swedishShare: swedishShare}
}

// Today returns the reference day.
func (s *Scheduler) Today() time.Time { return s.today }

// Plan schedules one lead. recency is the lead's days since last purchase,
// used for the welcome date.
func (s *Scheduler) Plan(leadScore float64, recency int) (models.Schedule, error) {
	if math.IsNaN(leadScore) || leadScore < 0 || leadScore > 1 {
		return models.Schedule{}, apperr.DateArithmetic(fmt.Sprintf("no cadence for lead score %v", leadScore)).WithOp("schedule")
	}
	tier := models.TierFor(leadScore)
	c, ok := cadences[tier]
	if !ok || c.lookback < 1 {
		return models.Schedule{}, apperr.DateArithmetic(fmt.Sprintf("tier %s has no cadence", tier)).WithOp("schedule")
	}

	anchor := models.Scheduled(s.today.AddDate(0, 0, -(1 + s.rng.IntN(c.lookback))))
	sched := models.Schedule{
		Tier:         tier,
		LastContact:  anchor,
		NextFollowUp: anchor.AddDays(c.followUp),
		Education:    anchor.AddDays(c.education),
	}
	if c.feedback > 0 {
		sched.Feedback = anchor.AddDays(c.feedback)
	}
	next := anchor
	for i, step := range c.promos {
		if step <= 0 {
			return models.Schedule{}, apperr.DateArithmetic(fmt.Sprintf("tier %s promo %d has step %d", tier, i+1, step)).WithOp("schedule")
		}
		next = next.AddDays(step)
		sched.Promos[i] = next
	}

	sched.Language = models.English
	if s.rng.Float64() < s.swedishShare {
		sched.Language = models.Swedish
	}
	sched.Welcome = s.welcome(recency)
	return sched, nil
}

// welcome greets fresh customers: tomorrow for a purchase one day ago,
// today for two days ago.
func (s *Scheduler) welcome(recency int) models.DateField {
	switch recency {
	case 1:
		return models.Scheduled(s.today.AddDate(0, 0, 1))
	case 2:
		return models.Scheduled(s.today)
	default:
		return models.Unscheduled()
	}
}
