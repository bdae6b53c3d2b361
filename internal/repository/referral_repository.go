package repository

import (
	"github.com/fadilmartias/career-compass/internal/model"
	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db}
}

func (r *ReferralRepository) CreateReferral(ref *model.Referral) error {
	return r.db.Create(ref).Error
}

func (r *ReferralRepository) UpdateReferral(ref *model.Referral) error {
	return r.db.Save(ref).Error
}

func (r *ReferralRepository) FindReferralByReferred(referredID string) (*model.Referral, error) {
	var ref model.Referral
	err := r.db.First(&ref, "referred_id = ?", referredID).Error
	return &ref, err
}

func (r *ReferralRepository) ListReferralsByAffiliate(affiliateID string) ([]model.Referral, error) {
	var out []model.Referral
	err := r.db.Where("affiliate_id = ?", affiliateID).Order("created_at DESC").Find(&out).Error
	return out, err
}

// AffiliateStats aggregates an affiliate's referral ledger.
type AffiliateStats struct {
	TotalReferred  int64 `json:"total_referred"`
	TotalConverted int64 `json:"total_converted"`
	TotalEarned    int64 `json:"total_earned"` // cents
}

func (r *ReferralRepository) GetAffiliateStats(affiliateID string) (*AffiliateStats, error) {
	var stats AffiliateStats
	base := r.db.Model(&model.Referral{}).Where("affiliate_id = ?", affiliateID)

	if err := base.Session(&gorm.Session{}).Count(&stats.TotalReferred).Error; err != nil {
		return nil, err
	}
	if err := base.Session(&gorm.Session{}).
		Where("status IN ?", []string{model.ReferralConverted, model.ReferralRedeemed}).
		Count(&stats.TotalConverted).Error; err != nil {
		return nil, err
	}
	err := r.db.Model(&model.Referral{}).
		Where("affiliate_id = ?", affiliateID).
		Select("COALESCE(SUM(commission), 0)").
		Scan(&stats.TotalEarned).Error
	return &stats, err
}
