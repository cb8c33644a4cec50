// Package forecast projects a numeric time series forward. It is pure:
// same input, same output, no clocks, no I/O. Callers that want cheap
// repeated reads memoize the result behind a TTL cache.
package forecast

import (
	"fmt"
	"math"
	"time"
)

// Point is one observed or predicted period value.
type Point struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Result is the forecast output. With fewer than two history points it
// is degenerate: stable trend, zero growth, no predictions.
type Result struct {
	Trend      Trend   `json:"trend"`
	GrowthRate float64 `json:"growth_rate"` // mean period-over-period relative change
	Seasonal   bool    `json:"seasonal"`
	Points     []Point `json:"points"`
}

// slopeThreshold separates "stable" from a real trend, measured as
// slope relative to the series mean.
const slopeThreshold = 0.02

// Forecast fits a least-squares line through the history and projects
// horizon periods forward. Fewer than two points yields a degenerate
// result rather than an error.
func Forecast(history []Point, horizon int) Result {
	if len(history) < 2 || horizon < 1 {
		return Result{Trend: TrendStable}
	}

	slope, intercept := linearFit(history)

	result := Result{
		Trend:      classify(slope, history),
		GrowthRate: growthRate(history),
		Seasonal:   seasonal(history),
		Points:     make([]Point, 0, horizon),
	}

	n := float64(len(history))
	for i := 1; i <= horizon; i++ {
		predicted := intercept + slope*(n+float64(i)-1)
		if predicted < 0 {
			predicted = 0
		}
		result.Points = append(result.Points, Point{
			Period: nextPeriod(history[len(history)-1].Period, i),
			Value:  math.Round(predicted*100) / 100,
		})
	}

	return result
}

func linearFit(points []Point) (slope, intercept float64) {
	n := float64(len(points))
	var sumX, sumY, sumXY, sumXX float64
	for i, p := range points {
		x := float64(i)
		sumX += x
		sumY += p.Value
		sumXY += x * p.Value
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func classify(slope float64, points []Point) Trend {
	var mean float64
	for _, p := range points {
		mean += p.Value
	}
	mean /= float64(len(points))

	if mean == 0 {
		if slope > 0 {
			return TrendIncreasing
		}
		if slope < 0 {
			return TrendDecreasing
		}
		return TrendStable
	}

	relative := slope / math.Abs(mean)
	switch {
	case relative > slopeThreshold:
		return TrendIncreasing
	case relative < -slopeThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// growthRate is the mean of period-over-period relative changes,
// skipping divisions by zero.
func growthRate(points []Point) float64 {
	var sum float64
	var count int
	for i := 1; i < len(points); i++ {
		prev := points[i-1].Value
		if prev == 0 {
			continue
		}
		sum += (points[i].Value - prev) / prev
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// seasonal checks for a repeating cycle via autocorrelation on the
// detrended series at small lags. A strong spike at any lag in [2, n/2]
// flags seasonality.
func seasonal(points []Point) bool {
	n := len(points)
	if n < 6 {
		return false
	}

	slope, intercept := linearFit(points)
	residuals := make([]float64, n)
	for i, p := range points {
		residuals[i] = p.Value - (intercept + slope*float64(i))
	}

	var variance float64
	for _, r := range residuals {
		variance += r * r
	}
	if variance == 0 {
		return false
	}

	for lag := 2; lag <= n/2; lag++ {
		var acf float64
		for i := lag; i < n; i++ {
			acf += residuals[i] * residuals[i-lag]
		}
		if acf/variance > 0.5 {
			return true
		}
	}

	return false
}

// nextPeriod labels predicted points. Period labels are opaque to the
// math; "YYYY-MM" labels advance by calendar month, anything else gets
// a "+N" suffix.
func nextPeriod(last string, step int) string {
	if t, err := time.Parse("2006-01", last); err == nil {
		return t.AddDate(0, step, 0).Format("2006-01")
	}
	return fmt.Sprintf("%s+%d", last, step)
}
