package calculator

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// inverseRegularization is the C of an L2-penalised logistic loss:
// C·Σ logloss + ½‖w‖². The intercept is not penalised.
const inverseRegularization = 1.0

// PurchaseModel is a logistic classifier fitted on standardised features.
// It is trained on the same batch it scores, so its output is a smoothed,
// feature-weighted version of the recency label rather than a held-out
// prediction.
type PurchaseModel struct {
	Means     []float64
	Scales    []float64
	Weights   []float64
	Intercept float64

	// SingleClass is set when every label was equal; the model then
	// predicts that label for every record.
	SingleClass bool
	// Converged is false when the optimiser stopped without meeting its
	// gradient threshold; the best location found is used.
	Converged bool
}

// RecencyLabels marks records bought from within threshold days.
func RecencyLabels(x *mat.Dense, threshold int) []float64 {
	n, _ := x.Dims()
	labels := make([]float64, n)
	for i := 0; i < n; i++ {
		if x.At(i, 1) < float64(threshold) {
			labels[i] = 1
		}
	}
	return labels
}

// Standardize centres every column to zero mean and unit population variance
// using the batch's own statistics. Constant columns get scale 1.
func Standardize(x *mat.Dense) (z *mat.Dense, means, scales []float64) {
	n, d := x.Dims()
	means = make([]float64, d)
	scales = make([]float64, d)
	z = mat.NewDense(n, d, nil)
	col := make([]float64, n)
	for j := 0; j < d; j++ {
		mat.Col(col, j, x)
		mean, std := stat.PopMeanStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		means[j], scales[j] = mean, std
		for i := 0; i < n; i++ {
			z.Set(i, j, (col[i]-mean)/std)
		}
	}
	return z, means, scales
}

// FitPurchaseModel fits the classifier with L-BFGS starting from zero.
func FitPurchaseModel(x *mat.Dense, labels []float64) (*PurchaseModel, error) {
	n, d := x.Dims()
	if n != len(labels) {
		return nil, fmt.Errorf("fit: %d rows but %d labels", n, len(labels))
	}
	z, means, scales := Standardize(x)
	m := &PurchaseModel{Means: means, Scales: scales, Weights: make([]float64, d), Converged: true}

	positives := floats.Sum(labels)
	if positives == 0 || positives == float64(n) {
		m.SingleClass = true
		m.Intercept = math.Inf(-1)
		if positives > 0 {
			m.Intercept = math.Inf(1)
		}
		return m, nil
	}

	row := make([]float64, d)
	problem := optimize.Problem{
		Func: func(theta []float64) float64 {
			w, b := theta[:d], theta[d]
			var loss float64
			for i := 0; i < n; i++ {
				mat.Row(row, i, z)
				s := floats.Dot(w, row) + b
				loss += softplus(s) - labels[i]*s
			}
			return inverseRegularization*loss + 0.5*floats.Dot(w, w)
		},
		Grad: func(grad, theta []float64) {
			w, b := theta[:d], theta[d]
			for k := range grad {
				grad[k] = 0
			}
			for i := 0; i < n; i++ {
				mat.Row(row, i, z)
				r := inverseRegularization * (sigmoid(floats.Dot(w, row)+b) - labels[i])
				floats.AddScaled(grad[:d], r, row)
				grad[d] += r
			}
			floats.Add(grad[:d], w)
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: 1e-6,
		MajorIterations:   500,
	}
	res, err := optimize.Minimize(problem, make([]float64, d+1), settings, &optimize.LBFGS{})
	if res == nil {
		if err == nil {
			err = errors.New("optimizer returned no result")
		}
		return nil, fmt.Errorf("fit purchase model: %w", err)
	}
	for _, v := range res.X {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("fit purchase model: non-finite coefficient")
		}
	}
	m.Converged = err == nil && res.Status == optimize.GradientThreshold
	copy(m.Weights, res.X[:d])
	m.Intercept = res.X[d]
	return m, nil
}

// Predict returns the positive-class probability for every row of x.
func (m *PurchaseModel) Predict(x *mat.Dense) []float64 {
	n, d := x.Dims()
	out := make([]float64, n)
	if m.SingleClass {
		p := 0.0
		if m.Intercept > 0 {
			p = 1
		}
		for i := range out {
			out[i] = p
		}
		return out
	}
	row := make([]float64, d)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			row[j] = (x.At(i, j) - m.Means[j]) / m.Scales[j]
		}
		out[i] = sigmoid(floats.Dot(m.Weights, row) + m.Intercept)
	}
	return out
}

// PurchaseScores labels, fits and scores the batch, rounding to 2 decimals.
func PurchaseScores(x *mat.Dense, threshold int) ([]float64, *PurchaseModel, error) {
	m, err := FitPurchaseModel(x, RecencyLabels(x, threshold))
	if err != nil {
		return nil, nil, err
	}
	probs := m.Predict(x)
	for i, p := range probs {
		probs[i] = round2(p)
	}
	return probs, m, nil
}

func sigmoid(s float64) float64 {
	if s >= 0 {
		return 1 / (1 + math.Exp(-s))
	}
	e := math.Exp(s)
	return e / (1 + e)
}

// softplus is log(1+e^s) without overflow.
func softplus(s float64) float64 {
	if s > 0 {
		return s + math.Log1p(math.Exp(-s))
	}
	return math.Log1p(math.Exp(s))
}
