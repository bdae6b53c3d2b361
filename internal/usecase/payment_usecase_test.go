package usecase

import (
	"errors"
	"testing"

	"github.com/fadilmartias/career-compass/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubPaymentRepo struct {
	store map[string]*model.Payment
}

func newStubPaymentRepo() *stubPaymentRepo {
	return &stubPaymentRepo{store: map[string]*model.Payment{}}
}

func (r *stubPaymentRepo) CreatePayment(p *model.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.store[p.ID.String()] = p
	return nil
}

func (r *stubPaymentRepo) UpdatePayment(p *model.Payment) error {
	r.store[p.ID.String()] = p
	return nil
}

func (r *stubPaymentRepo) FindPaymentByID(id string) (*model.Payment, error) {
	p, ok := r.store[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubPaymentRepo) FindPendingByAssessment(assessmentID string) (*model.Payment, error) {
	for _, p := range r.store {
		if p.AssessmentID.String() == assessmentID && p.Status == model.PaymentPending {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubPaymentRepo) ListPaymentsByUser(userID string) ([]model.Payment, error) {
	var out []model.Payment
	for _, p := range r.store {
		if p.UserID.String() == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

type stubReferralRepo struct {
	byReferred map[string]*model.Referral
	created    []*model.Referral
	createErr  error
	updateErr  error
}

func newStubReferralRepo() *stubReferralRepo {
	return &stubReferralRepo{byReferred: map[string]*model.Referral{}}
}

func (r *stubReferralRepo) CreateReferral(ref *model.Referral) error {
	if r.createErr != nil {
		return r.createErr
	}
	if ref.ID == uuid.Nil {
		ref.ID = uuid.New()
	}
	r.byReferred[ref.ReferredID.String()] = ref
	r.created = append(r.created, ref)
	return nil
}

func (r *stubReferralRepo) FindReferralByReferred(referredID string) (*model.Referral, error) {
	ref, ok := r.byReferred[referredID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ref, nil
}

func (r *stubReferralRepo) UpdateReferral(ref *model.Referral) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.byReferred[ref.ReferredID.String()] = ref
	return nil
}

func TestCreatePaymentSnapshotsTierPrice(t *testing.T) {
	assessments := newStubAssessmentRepo()
	owner := uuid.New()
	a := seedAssessment(assessments, owner, model.TierPremium, model.StatusPending)

	uc := NewPaymentUsecase(newStubPaymentRepo(), assessments, newStubReferralRepo())

	p, err := uc.Create(owner, a.ID.String(), "dummy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Amount != 9900 {
		t.Fatalf("amount = %d, want 9900", p.Amount)
	}
	if p.Status != model.PaymentPending {
		t.Fatalf("status = %q, want pending", p.Status)
	}
}

func TestCreatePaymentIsIdempotentWhilePending(t *testing.T) {
	assessments := newStubAssessmentRepo()
	owner := uuid.New()
	a := seedAssessment(assessments, owner, model.TierBasic, model.StatusPending)

	payments := newStubPaymentRepo()
	uc := NewPaymentUsecase(payments, assessments, newStubReferralRepo())

	first, err := uc.Create(owner, a.ID.String(), "transfer")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := uc.Create(owner, a.ID.String(), "transfer")
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("expected the existing pending payment to be returned")
	}
	if len(payments.store) != 1 {
		t.Fatalf("payment count = %d, want 1", len(payments.store))
	}
}

func TestCreatePaymentRejectsOthersAndPaid(t *testing.T) {
	assessments := newStubAssessmentRepo()
	owner := uuid.New()
	a := seedAssessment(assessments, owner, model.TierBasic, model.StatusPending)

	uc := NewPaymentUsecase(newStubPaymentRepo(), assessments, newStubReferralRepo())

	if _, err := uc.Create(uuid.New(), a.ID.String(), "dummy"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}

	a.Paid = true
	if _, err := uc.Create(owner, a.ID.String(), "dummy"); !errors.Is(err, ErrAlreadyPaid) {
		t.Fatalf("expected ErrAlreadyPaid, got %v", err)
	}
}

func TestPayMarksAssessmentAndConvertsReferralOnce(t *testing.T) {
	assessments := newStubAssessmentRepo()
	owner := uuid.New()
	a := seedAssessment(assessments, owner, model.TierStandard, model.StatusPending)

	referrals := newStubReferralRepo()
	affiliate := uuid.New()
	_ = referrals.CreateReferral(&model.Referral{
		AffiliateID: affiliate,
		ReferredID:  owner,
		Status:      model.ReferralPending,
	})

	payments := newStubPaymentRepo()
	uc := NewPaymentUsecase(payments, assessments, referrals)

	p, err := uc.Create(owner, a.ID.String(), "transfer")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	paid, err := uc.Pay(p.ID.String(), owner)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if paid.Status != model.PaymentPaid || paid.PaidAt == nil {
		t.Fatalf("payment not settled: %+v", paid)
	}
	if !assessments.store[a.ID.String()].Paid {
		t.Fatal("assessment not flagged as paid")
	}

	ref := referrals.byReferred[owner.String()]
	if ref.Status != model.ReferralConverted {
		t.Fatalf("referral status = %q, want converted", ref.Status)
	}
	if want := model.CommissionFor(4900); ref.Commission != want {
		t.Fatalf("commission = %d, want %d", ref.Commission, want)
	}

	// Paying again must fail and must not double the commission.
	if _, err := uc.Pay(p.ID.String(), owner); !errors.Is(err, ErrPaymentClosed) {
		t.Fatalf("expected ErrPaymentClosed, got %v", err)
	}
	if ref.Commission != model.CommissionFor(4900) {
		t.Fatal("commission changed on repeated pay")
	}
}

func TestPaySucceedsWhenSideEffectWritesFail(t *testing.T) {
	assessments := newStubAssessmentRepo()
	owner := uuid.New()
	a := seedAssessment(assessments, owner, model.TierBasic, model.StatusPending)

	referrals := newStubReferralRepo()
	_ = referrals.CreateReferral(&model.Referral{
		AffiliateID: uuid.New(),
		ReferredID:  owner,
		Status:      model.ReferralPending,
	})

	uc := NewPaymentUsecase(newStubPaymentRepo(), assessments, referrals)
	p, err := uc.Create(owner, a.ID.String(), "transfer")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// The paid flag and referral conversion are best-effort; their write
	// failures are logged, not returned.
	assessments.updateFail = true
	referrals.updateErr = errors.New("referrals table unavailable")

	paid, err := uc.Pay(p.ID.String(), owner)
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if paid.Status != model.PaymentPaid {
		t.Fatalf("status = %q, want paid", paid.Status)
	}
}

func TestPayRejectsNonOwner(t *testing.T) {
	assessments := newStubAssessmentRepo()
	owner := uuid.New()
	a := seedAssessment(assessments, owner, model.TierBasic, model.StatusPending)

	uc := NewPaymentUsecase(newStubPaymentRepo(), assessments, newStubReferralRepo())
	p, err := uc.Create(owner, a.ID.String(), "dummy")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := uc.Pay(p.ID.String(), uuid.New()); !errors.Is(err, ErrNotPaymentUser) {
		t.Fatalf("expected ErrNotPaymentUser, got %v", err)
	}
}

func TestExpireOnlyClosesPending(t *testing.T) {
	assessments := newStubAssessmentRepo()
	owner := uuid.New()
	a := seedAssessment(assessments, owner, model.TierBasic, model.StatusPending)

	uc := NewPaymentUsecase(newStubPaymentRepo(), assessments, newStubReferralRepo())
	p, err := uc.Create(owner, a.ID.String(), "manual")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	expired, err := uc.Expire(p.ID.String())
	if err != nil {
		t.Fatalf("expire: %v", err)
	}
	if expired.Status != model.PaymentExpired {
		t.Fatalf("status = %q, want expired", expired.Status)
	}
	if _, err := uc.Expire(p.ID.String()); !errors.Is(err, ErrPaymentClosed) {
		t.Fatalf("expected ErrPaymentClosed, got %v", err)
	}
}
