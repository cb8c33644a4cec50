package service

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"laundry-service-api/internal/apperror"
	"laundry-service-api/internal/cache"
	"laundry-service-api/internal/forecast"
	"laundry-service-api/internal/model"
)

// RevenueForecast bundles observed monthly revenue with its projection.
type RevenueForecast struct {
	History  []forecast.Point `json:"history"`
	Forecast forecast.Result  `json:"forecast"`
}

type AnalyticsService interface {
	// RevenueForecast aggregates completed payments into monthly
	// revenue and projects it forward. Results are memoized behind the
	// injected TTL cache.
	RevenueForecast(ctx context.Context, months int, actor Actor) (*RevenueForecast, error)
}

type analyticsServiceImpl struct {
	db    *gorm.DB
	cache cache.Cache
}

func NewAnalyticsService(db *gorm.DB, c cache.Cache) AnalyticsService {
	return &analyticsServiceImpl{
		db:    db,
		cache: c,
	}
}

func (s *analyticsServiceImpl) RevenueForecast(ctx context.Context, months int, actor Actor) (*RevenueForecast, error) {
	if !actor.Role.Can(model.CapViewAnalytics) {
		return nil, apperror.ErrForbidden
	}
	if months < 1 || months > 24 {
		return nil, apperror.NewValidation(apperror.FieldError{
			Field:  "months",
			Reason: "must be between 1 and 24",
		})
	}

	key := fmt.Sprintf("revenue-forecast:%d", months)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*RevenueForecast), nil
	}

	history, err := s.monthlyRevenue(ctx)
	if err != nil {
		return nil, err
	}

	result := &RevenueForecast{
		History:  history,
		Forecast: forecast.Forecast(history, months),
	}

	s.cache.Set(key, result)
	return result, nil
}

// monthlyRevenue buckets completed payments by verification month.
// Aggregation happens in Go so the query stays portable across MySQL
// and SQLite.
func (s *analyticsServiceImpl) monthlyRevenue(ctx context.Context) ([]forecast.Point, error) {
	var payments []*model.Payment
	err := s.db.WithContext(ctx).
		Where("status = ? AND verified_at IS NOT NULL", model.PaymentCompleted).
		Find(&payments).Error
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]float64)
	for _, p := range payments {
		period := p.VerifiedAt.Format("2006-01")
		amount, _ := p.Amount.Float64()
		buckets[period] += amount
	}

	periods := make([]string, 0, len(buckets))
	for period := range buckets {
		periods = append(periods, period)
	}
	sort.Strings(periods)

	points := make([]forecast.Point, 0, len(periods))
	for _, period := range periods {
		points = append(points, forecast.Point{Period: period, Value: buckets[period]})
	}

	return points, nil
}
