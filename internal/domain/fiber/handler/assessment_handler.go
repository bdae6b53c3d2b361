package handler

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fadilmartias/career-compass/internal/dto"
	"github.com/fadilmartias/career-compass/internal/middleware"
	"github.com/fadilmartias/career-compass/internal/model"
	"github.com/fadilmartias/career-compass/internal/usecase"
	"github.com/fadilmartias/career-compass/internal/util"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AssessmentHandler struct {
	uc *usecase.AssessmentUsecase
}

func NewAssessmentHandler(uc *usecase.AssessmentUsecase) *AssessmentHandler {
	return &AssessmentHandler{uc: uc}
}

func (h *AssessmentHandler) RegisterRoutes(app *fiber.App) {
	g := app.Group("/api/assessment", middleware.Auth())
	g.Post("/", h.Create)
	g.Get("/", h.ListMine)
	g.Post("/:id/resume", middleware.RateLimiter(5, 1*time.Minute), h.UploadResume)
	g.Post("/:id/process", middleware.RateLimiter(1, 4*time.Second), h.Process)
	g.Get("/:id", h.Get)
	g.Get("/:id/recommendations", h.Recommendations)
}

func (h *AssessmentHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req dto.CreateAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid payload",
		}, err)
	}
	if err := util.ValidateStruct(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusUnprocessableEntity,
			Message: "validation failed",
		}, err)
	}

	a, err := h.uc.Create(userID, req.Tier, req.Responses)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "failed to create assessment",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create assessment",
		Data:    fiber.Map{"id": a.ID, "status": a.Status, "tier": a.Tier},
	})
}

// UploadResume accepts a multipart PDF, extracts its text server-side and
// stores it on the assessment.
func (h *AssessmentHandler) UploadResume(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	file, err := c.FormFile("resume")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "resume file is required",
		}, err)
	}
	if file.Size > 5*1024*1024 {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "resume file size is too large (max 5MB)",
		})
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "unsupported resume file type",
		})
	}

	savePath := filepath.Join("./uploads/resume/", fmt.Sprintf("%s-%s", c.Params("id"), filepath.Base(file.Filename)))
	if err := c.SaveFile(file, savePath); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "cannot save resume file",
		}, err)
	}

	content, err := util.ExtractPDFOCR(savePath)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusUnprocessableEntity,
			Message: "failed to extract resume text",
		}, err)
	}

	if err := h.uc.AttachResume(c.Params("id"), userID, content); err != nil {
		return h.assessmentError(c, err, "failed to attach resume")
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success upload resume",
	})
}

func (h *AssessmentHandler) Process(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	a, err := h.uc.Process(c.Params("id"), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrNotProcessable) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusConflict,
				Message: "assessment is already processing or completed",
			})
		}
		return h.assessmentError(c, err, "failed to start processing")
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusAccepted,
		Message: "Success submit assessment for processing",
		Data:    fiber.Map{"id": a.ID, "status": a.Status},
	})
}

func (h *AssessmentHandler) Get(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	a, err := h.uc.Get(c.Params("id"), userID, isStaff(c))
	if err != nil {
		return h.assessmentError(c, err, "assessment not found")
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get assessment",
		Data:    toAssessmentDTO(a),
	})
}

func (h *AssessmentHandler) ListMine(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	items, err := h.uc.ListMine(userID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list assessments",
		}, err)
	}

	out := make([]dto.AssessmentDTO, 0, len(items))
	for i := range items {
		out = append(out, toAssessmentDTO(&items[i]))
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success list assessments",
		Data:    out,
	})
}

func (h *AssessmentHandler) Recommendations(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	profiles, err := h.uc.Recommendations(c.Params("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrTierLocked):
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusForbidden,
				Message: "recommendations require the premium tier",
			})
		case errors.Is(err, usecase.ErrNotCompleted):
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusConflict,
				Message: "assessment has not completed yet",
			})
		default:
			return h.assessmentError(c, err, "failed to build recommendations")
		}
	}

	out := make([]dto.RecommendationDTO, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, dto.RecommendationDTO{Title: p.Title, Description: p.Description})
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get recommendations",
		Data:    out,
	})
}

func (h *AssessmentHandler) assessmentError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, usecase.ErrNotOwner):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusForbidden,
			Message: "forbidden",
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "assessment not found",
		})
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: fallback,
		}, err)
	}
}

func toAssessmentDTO(a *model.Assessment) dto.AssessmentDTO {
	return dto.AssessmentDTO{
		ID:             a.ID,
		Tier:           a.Tier,
		Status:         a.Status,
		MatchRate:      a.MatchRate,
		EffectiveScore: a.EffectiveScore(),
		Feedback:       a.Feedback,
		OverallSummary: a.OverallSummary,
		Breakdown:      a.Breakdown,
		ScoreSource:    a.ScoreSource,
		Paid:           a.Paid,
		Reviewed:       a.Reviewed,
		ReviewNote:     a.ReviewNote,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}
