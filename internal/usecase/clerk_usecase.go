package usecase

import (
	"errors"
	"time"

	"github.com/fadilmartias/career-compass/internal/model"
	"github.com/fadilmartias/career-compass/internal/response"
	"github.com/google/uuid"
)

var ErrNotReviewable = errors.New("assessment is not ready for review")

type ClerkAssessmentRepo interface {
	FindAssessmentByID(id string) (*model.Assessment, error)
	UpdateAssessment(a *model.Assessment) error
	ListReviewQueue(page, pageSize int) ([]model.Assessment, int64, error)
}

type ClerkUsecase struct {
	repo ClerkAssessmentRepo
}

func NewClerkUsecase(repo ClerkAssessmentRepo) *ClerkUsecase {
	return &ClerkUsecase{repo: repo}
}

func (uc *ClerkUsecase) ReviewQueue(page, pageSize int) ([]model.Assessment, *response.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	items, total, err := uc.repo.ListReviewQueue(page, pageSize)
	if err != nil {
		return nil, nil, err
	}
	return items, BuildPagination(page, pageSize, total), nil
}

// SubmitReview records the clerk's manual verdict on a completed assessment.
// The stored AI scores stay untouched; EffectiveScore averages them with the
// adjusted score.
func (uc *ClerkUsecase) SubmitReview(assessmentID string, reviewerID uuid.UUID, adjustedScore float64, note string) (*model.Assessment, error) {
	a, err := uc.repo.FindAssessmentByID(assessmentID)
	if err != nil {
		return nil, err
	}
	if a.Status != model.StatusCompleted {
		return nil, ErrNotReviewable
	}

	a.Reviewed = true
	a.ReviewerID = &reviewerID
	a.ReviewNote = note
	a.AdjustedScore = &adjustedScore
	a.ScoreSource = model.ScoreSourceManual
	a.UpdatedAt = time.Now()

	if err := uc.repo.UpdateAssessment(a); err != nil {
		return nil, err
	}
	return a, nil
}
