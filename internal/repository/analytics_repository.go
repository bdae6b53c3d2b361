package repository

import (
	"time"

	"github.com/fadilmartias/career-compass/internal/model"
	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db}
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type TierRevenue struct {
	Tier    string `json:"tier"`
	Count   int64  `json:"count"`
	Revenue int64  `json:"revenue"` // cents
}

type DailySignups struct {
	Day   time.Time `json:"day"`
	Count int64     `json:"count"`
}

func (r *AnalyticsRepository) CountAssessmentsByStatus() ([]StatusCount, error) {
	var out []StatusCount
	err := r.db.Model(&model.Assessment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&out).Error
	return out, err
}

// RevenueByTier sums paid payments per tier within [from, to).
func (r *AnalyticsRepository) RevenueByTier(from, to time.Time) ([]TierRevenue, error) {
	var out []TierRevenue
	err := r.db.Model(&model.Payment{}).
		Select("tier, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS revenue").
		Where("status = ? AND paid_at >= ? AND paid_at < ?", model.PaymentPaid, from, to).
		Group("tier").
		Scan(&out).Error
	return out, err
}

func (r *AnalyticsRepository) SignupsPerDay(from, to time.Time) ([]DailySignups, error) {
	var out []DailySignups
	err := r.db.Model(&model.User{}).
		Select("DATE_TRUNC('day', created_at) AS day, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("day").
		Order("day").
		Scan(&out).Error
	return out, err
}

func (r *AnalyticsRepository) CountUsers() (int64, error) {
	var n int64
	err := r.db.Model(&model.User{}).Count(&n).Error
	return n, err
}
