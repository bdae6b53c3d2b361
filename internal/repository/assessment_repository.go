package repository

import (
	"time"

	"github.com/fadilmartias/career-compass/internal/model"
	"gorm.io/gorm"
)

type AssessmentRepository struct {
	db *gorm.DB
}

func NewAssessmentRepository(db *gorm.DB) *AssessmentRepository {
	return &AssessmentRepository{db}
}

func (r *AssessmentRepository) CreateAssessment(a *model.Assessment) error {
	return r.db.Create(a).Error
}

func (r *AssessmentRepository) UpdateAssessment(a *model.Assessment) error {
	return r.db.Save(a).Error
}

func (r *AssessmentRepository) FindAssessmentByID(id string) (*model.Assessment, error) {
	var a model.Assessment
	err := r.db.First(&a, "id = ?", id).Error
	return &a, err
}

// ClaimForProcessing flips an assessment into "processing" only when its
// current status allows it. The status check and the write happen in a
// single conditional UPDATE, so under concurrent requests exactly one
// claim wins; the losers get gorm.ErrRecordNotFound.
func (r *AssessmentRepository) ClaimForProcessing(id string) (*model.Assessment, error) {
	res := r.db.Model(&model.Assessment{}).
		Where("id = ? AND status IN ?", id, model.ProcessableStatuses()).
		Updates(map[string]any{"status": model.StatusProcessing, "updated_at": time.Now()})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var a model.Assessment
	if err := r.db.First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssessmentRepository) ListAssessments(status string, page, pageSize int) ([]model.Assessment, int64, error) {
	var out []model.Assessment
	var total int64

	q := r.db.Model(&model.Assessment{})
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

func (r *AssessmentRepository) ListAssessmentsByUser(userID string) ([]model.Assessment, error) {
	var out []model.Assessment
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

// ListReviewQueue returns completed, not-yet-reviewed assessments for clerks.
func (r *AssessmentRepository) ListReviewQueue(page, pageSize int) ([]model.Assessment, int64, error) {
	var out []model.Assessment
	var total int64

	q := r.db.Model(&model.Assessment{}).
		Where("status = ? AND reviewed = ?", model.StatusCompleted, false)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Order("created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&out).Error
	return out, total, err
}
