package calculator

import (
	"context"
	"math"
	"strconv"
	"testing"
	"time"

	"leadscore/pkg/apperr"
	"leadscore/pkg/logger"
	"leadscore/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runConfig(seed uint64) models.Config {
	return models.Config{
		Today:            time.Date(2025, 10, 1, 9, 0, 0, 0, time.UTC),
		Rand:             seeded(seed),
		Columns:          models.DefaultFeatureColumns,
		RecencyThreshold: 200,
		SwedishShare:     0.6,
	}
}

func TestRunScoresEveryLead(t *testing.T) {
	in := leadTable(80)
	before := in.Clone()

	out, results, err := Run(context.Background(), in, runConfig(1), logger.Discard())
	require.NoError(t, err)
	require.Len(t, results, 80)
	assert.Equal(t, before, in, "input table must not be modified")

	for i, r := range results {
		for _, v := range []float64{r.PurchaseScore, r.LifetimeValue, r.LeadScore} {
			assert.True(t, v >= 0 && v <= 1, "row %d: %v out of range", i, v)
		}
		assert.GreaterOrEqual(t, r.LeadScore, math.Min(r.PurchaseScore, r.LifetimeValue))
		assert.LessOrEqual(t, r.LeadScore, math.Max(r.PurchaseScore, r.LifetimeValue))
		assert.Equal(t, models.TierFor(r.LeadScore), r.Tier)

		cell, err := strconv.ParseFloat(out.Cell(i, models.ColLeadScore), 64)
		require.NoError(t, err)
		assert.Equal(t, r.LeadScore, cell)
		assert.Equal(t, r.LastContact.String(), out.Cell(i, models.ColLastContact))
		assert.Equal(t, r.Language.String(), out.Cell(i, models.ColLanguage))
	}
}

func TestRunIsRepeatableOnScoresOnly(t *testing.T) {
	in := leadTable(60)

	_, first, err := Run(context.Background(), in, runConfig(1), logger.Discard())
	require.NoError(t, err)
	_, second, err := Run(context.Background(), in, runConfig(2), logger.Discard())
	require.NoError(t, err)

	datesDiffer := false
	for i := range first {
		assert.Equal(t, first[i].Score, second[i].Score, "row %d", i)
		if first[i].LastContact != second[i].LastContact || first[i].Language != second[i].Language {
			datesDiffer = true
		}
	}
	// different seeds resample anchors and languages
	assert.True(t, datesDiffer)
}

func TestRunSameSeedSameOutput(t *testing.T) {
	in := leadTable(30)
	a, _, err := Run(context.Background(), in, runConfig(7), logger.Discard())
	require.NoError(t, err)
	b, _, err := Run(context.Background(), in, runConfig(7), logger.Discard())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRunOnItsOwnOutputKeepsColumnSet(t *testing.T) {
	first, _, err := Run(context.Background(), leadTable(25), runConfig(3), logger.Discard())
	require.NoError(t, err)
	second, _, err := Run(context.Background(), first, runConfig(4), logger.Discard())
	require.NoError(t, err)

	assert.Equal(t, first.Headers, second.Headers)
	firstScores, _ := first.Column(models.ColLeadScore)
	secondScores, _ := second.Column(models.ColLeadScore)
	assert.Equal(t, firstScores, secondScores)
}

func TestRunDegenerateLifetimeValue(t *testing.T) {
	in := leadTable(10)
	for _, row := range in.Rows {
		row[9], row[11] = "2", "500"
	}
	_, results, err := Run(context.Background(), in, runConfig(1), logger.Discard())
	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, 0.0, r.LifetimeValue)
	}
}

func TestRunAbortsOnSchemaError(t *testing.T) {
	in := leadTable(5)
	in.Rows[3][10] = "soon"
	out, results, err := Run(context.Background(), in, runConfig(1), logger.Discard())
	assert.ErrorIs(t, err, apperr.ErrSchema)
	assert.Nil(t, out)
	assert.Nil(t, results)
}

func TestRunRequiresRandomSource(t *testing.T) {
	cfg := runConfig(1)
	cfg.Rand = nil
	_, _, err := Run(context.Background(), leadTable(3), cfg, nil)
	assert.ErrorIs(t, err, apperr.ErrConfig)
}

func TestRunHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Run(ctx, leadTable(5), runConfig(1), logger.Discard())
	assert.ErrorIs(t, err, context.Canceled)
}
