package repository

import (
	"github.com/fadilmartias/career-compass/internal/model"
	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db}
}

func (r *PaymentRepository) CreatePayment(p *model.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) UpdatePayment(p *model.Payment) error {
	return r.db.Save(p).Error
}

func (r *PaymentRepository) FindPaymentByID(id string) (*model.Payment, error) {
	var p model.Payment
	err := r.db.First(&p, "id = ?", id).Error
	return &p, err
}

func (r *PaymentRepository) FindPendingByAssessment(assessmentID string) (*model.Payment, error) {
	var p model.Payment
	err := r.db.First(&p, "assessment_id = ? AND status = ?", assessmentID, model.PaymentPending).Error
	return &p, err
}

func (r *PaymentRepository) ListPaymentsByUser(userID string) ([]model.Payment, error) {
	var out []model.Payment
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *PaymentRepository) ListPayments(status string, page, pageSize int) ([]model.Payment, int64, error) {
	var out []model.Payment
	var total int64

	q := r.db.Model(&model.Payment{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&out).Error
	return out, total, err
}

func (r *PaymentRepository) GetPayments() ([]model.Payment, error) {
	var out []model.Payment
	err := r.db.Order("created_at DESC").Find(&out).Error
	return out, err
}
