package calculator

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"leadscore/pkg/apperr"
	"leadscore/pkg/models"
	"leadscore/pkg/sheet"

	"gonum.org/v1/gonum/mat"
)

// ExtractFeatures reads the three feature columns by position. Every cell
// must be numeric; counts must be non-negative integers.
func ExtractFeatures(t *sheet.Table, cols models.FeatureColumns) ([]models.Lead, error) {
	positions := []int{cols.PreviousPurchases, cols.TimeSinceLastPurchase, cols.AveragePurchaseValue}
	for _, p := range positions {
		if p < 0 || p >= len(t.Headers) {
			return nil, apperr.Schema(fmt.Sprintf("#%d", p+1), 0,
				fmt.Sprintf("table has %d columns, feature column missing", len(t.Headers))).WithOp("extract")
		}
	}
	if t.Len() == 0 {
		return nil, apperr.Schema("", 0, "table has no lead rows").WithOp("extract")
	}

	leads := make([]models.Lead, t.Len())
	for r, row := range t.Rows {
		purchases, err := countCell(t, row, r, cols.PreviousPurchases)
		if err != nil {
			return nil, err
		}
		recency, err := countCell(t, row, r, cols.TimeSinceLastPurchase)
		if err != nil {
			return nil, err
		}
		avg, err := numberCell(t, row, r, cols.AveragePurchaseValue)
		if err != nil {
			return nil, err
		}
		if avg < 0 {
			return nil, schemaErr(t, r, cols.AveragePurchaseValue, "negative value")
		}
		leads[r] = models.Lead{
			PreviousPurchases:     purchases,
			TimeSinceLastPurchase: recency,
			AveragePurchaseValue:  avg,
		}
	}
	return leads, nil
}

func numberCell(t *sheet.Table, row []string, r, col int) (float64, error) {
	raw := strings.TrimSpace(row[col])
	if raw == "" {
		return 0, schemaErr(t, r, col, "empty cell")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, schemaErr(t, r, col, fmt.Sprintf("non-numeric value %q", raw))
	}
	return v, nil
}

func countCell(t *sheet.Table, row []string, r, col int) (int, error) {
	v, err := numberCell(t, row, r, col)
	if err != nil {
		return 0, err
	}
	if v < 0 || v != math.Trunc(v) {
		return 0, schemaErr(t, r, col, fmt.Sprintf("expected non-negative integer, got %v", v))
	}
	return int(v), nil
}

func schemaErr(t *sheet.Table, r, col int, msg string) error {
	return apperr.Schema(t.Headers[col], r+1, msg).WithOp("extract")
}

// FeatureMatrix lays the leads out as an n×3 matrix in fixed column order:
// previous purchases, recency, average value.
func FeatureMatrix(leads []models.Lead) *mat.Dense {
	data := make([]float64, 0, len(leads)*3)
	for _, l := range leads {
		data = append(data, float64(l.PreviousPurchases), float64(l.TimeSinceLastPurchase), l.AveragePurchaseValue)
	}
	return mat.NewDense(len(leads), 3, data)
}
