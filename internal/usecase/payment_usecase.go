package usecase

import (
	"errors"
	"time"

	"github.com/fadilmartias/career-compass/internal/logger"
	"github.com/fadilmartias/career-compass/internal/metrics"
	"github.com/fadilmartias/career-compass/internal/model"
	"github.com/google/uuid"
)

var (
	ErrAlreadyPaid    = errors.New("assessment is already paid")
	ErrPaymentClosed  = errors.New("payment is not pending")
	ErrNotPaymentUser = errors.New("payment does not belong to this user")
)

type PaymentRepo interface {
	CreatePayment(p *model.Payment) error
	UpdatePayment(p *model.Payment) error
	FindPaymentByID(id string) (*model.Payment, error)
	FindPendingByAssessment(assessmentID string) (*model.Payment, error)
	ListPaymentsByUser(userID string) ([]model.Payment, error)
}

type PaymentAssessmentRepo interface {
	FindAssessmentByID(id string) (*model.Assessment, error)
	UpdateAssessment(a *model.Assessment) error
}

type PaymentReferralRepo interface {
	FindReferralByReferred(referredID string) (*model.Referral, error)
	UpdateReferral(ref *model.Referral) error
}

type PaymentUsecase struct {
	paymentRepo    PaymentRepo
	assessmentRepo PaymentAssessmentRepo
	referralRepo   PaymentReferralRepo
}

func NewPaymentUsecase(paymentRepo PaymentRepo, assessmentRepo PaymentAssessmentRepo, referralRepo PaymentReferralRepo) *PaymentUsecase {
	return &PaymentUsecase{paymentRepo: paymentRepo, assessmentRepo: assessmentRepo, referralRepo: referralRepo}
}

// Create opens a pending payment for an assessment, snapshotting the tier
// price. Re-creating while a pending payment exists returns the existing one.
func (uc *PaymentUsecase) Create(userID uuid.UUID, assessmentID, method string) (*model.Payment, error) {
	a, err := uc.assessmentRepo.FindAssessmentByID(assessmentID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrNotOwner
	}
	if a.Paid {
		return nil, ErrAlreadyPaid
	}

	if existing, err := uc.paymentRepo.FindPendingByAssessment(assessmentID); err == nil {
		return existing, nil
	}

	amount, err := model.TierPrice(a.Tier)
	if err != nil {
		return nil, err
	}

	p := &model.Payment{
		UserID:       userID,
		AssessmentID: a.ID,
		Amount:       amount,
		Tier:         a.Tier,
		Status:       model.PaymentPending,
		Method:       method,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := uc.paymentRepo.CreatePayment(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Pay settles a pending payment, marks the assessment paid and converts the
// referrer's pending referral exactly once.
func (uc *PaymentUsecase) Pay(paymentID string, userID uuid.UUID) (*model.Payment, error) {
	p, err := uc.paymentRepo.FindPaymentByID(paymentID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, ErrNotPaymentUser
	}
	if p.Status != model.PaymentPending {
		return nil, ErrPaymentClosed
	}

	now := time.Now()
	p.Status = model.PaymentPaid
	p.PaidAt = &now
	p.UpdatedAt = now
	if err := uc.paymentRepo.UpdatePayment(p); err != nil {
		return nil, err
	}
	metrics.PaymentsTotal.WithLabelValues(model.PaymentPaid).Inc()

	if a, err := uc.assessmentRepo.FindAssessmentByID(p.AssessmentID.String()); err == nil {
		a.Paid = true
		a.UpdatedAt = now
		if err := uc.assessmentRepo.UpdateAssessment(a); err != nil {
			log := logger.Get()
			log.Error().Err(err).Str("assessment_id", a.ID.String()).Msg("failed to flag assessment as paid")
		}
	}

	uc.convertReferral(p)

	return p, nil
}

// convertReferral books commission for the referring affiliate. Referrals
// already converted stay untouched, so a user's later payments earn nothing
// extra.
func (uc *PaymentUsecase) convertReferral(p *model.Payment) {
	ref, err := uc.referralRepo.FindReferralByReferred(p.UserID.String())
	if err != nil {
		return
	}
	if ref.Status != model.ReferralPending {
		return
	}

	now := time.Now()
	ref.Status = model.ReferralConverted
	ref.Commission = model.CommissionFor(p.Amount)
	ref.ConvertedAt = &now
	ref.UpdatedAt = now
	if err := uc.referralRepo.UpdateReferral(ref); err != nil {
		log := logger.Get()
		log.Error().Err(err).Str("referral_id", ref.ID.String()).Msg("failed to convert referral")
	}
}

// Expire closes a stale pending payment. Admin only.
func (uc *PaymentUsecase) Expire(paymentID string) (*model.Payment, error) {
	p, err := uc.paymentRepo.FindPaymentByID(paymentID)
	if err != nil {
		return nil, err
	}
	if p.Status != model.PaymentPending {
		return nil, ErrPaymentClosed
	}
	p.Status = model.PaymentExpired
	p.UpdatedAt = time.Now()
	if err := uc.paymentRepo.UpdatePayment(p); err != nil {
		return nil, err
	}
	metrics.PaymentsTotal.WithLabelValues(model.PaymentExpired).Inc()
	return p, nil
}

func (uc *PaymentUsecase) ListMine(userID uuid.UUID) ([]model.Payment, error) {
	return uc.paymentRepo.ListPaymentsByUser(userID.String())
}
