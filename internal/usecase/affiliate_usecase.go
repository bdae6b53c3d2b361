package usecase

import (
	"errors"

	"github.com/fadilmartias/career-compass/internal/model"
	"github.com/fadilmartias/career-compass/internal/repository"
	"github.com/google/uuid"
)

var ErrNotRedeemable = errors.New("referral has no converted commission to redeem")

type AffiliateReferralRepo interface {
	ListReferralsByAffiliate(affiliateID string) ([]model.Referral, error)
	GetAffiliateStats(affiliateID string) (*repository.AffiliateStats, error)
	UpdateReferral(ref *model.Referral) error
}

type AffiliateUsecase struct {
	referralRepo AffiliateReferralRepo
}

func NewAffiliateUsecase(referralRepo AffiliateReferralRepo) *AffiliateUsecase {
	return &AffiliateUsecase{referralRepo: referralRepo}
}

func (uc *AffiliateUsecase) Dashboard(affiliateID uuid.UUID) (*repository.AffiliateStats, error) {
	return uc.referralRepo.GetAffiliateStats(affiliateID.String())
}

func (uc *AffiliateUsecase) Referrals(affiliateID uuid.UUID) ([]model.Referral, error) {
	return uc.referralRepo.ListReferralsByAffiliate(affiliateID.String())
}

// Redeem marks a converted referral's commission as paid out. Only the
// owning affiliate may redeem, and only from the converted state.
func (uc *AffiliateUsecase) Redeem(affiliateID uuid.UUID, referralID string) (*model.Referral, error) {
	refs, err := uc.referralRepo.ListReferralsByAffiliate(affiliateID.String())
	if err != nil {
		return nil, err
	}
	for i := range refs {
		if refs[i].ID.String() != referralID {
			continue
		}
		if refs[i].Status != model.ReferralConverted {
			return nil, ErrNotRedeemable
		}
		refs[i].Status = model.ReferralRedeemed
		if err := uc.referralRepo.UpdateReferral(&refs[i]); err != nil {
			return nil, err
		}
		return &refs[i], nil
	}
	return nil, ErrNotRedeemable
}
