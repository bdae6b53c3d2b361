package handler

import (
	"errors"

	"github.com/fadilmartias/career-compass/internal/dto"
	"github.com/fadilmartias/career-compass/internal/middleware"
	"github.com/fadilmartias/career-compass/internal/usecase"
	"github.com/fadilmartias/career-compass/internal/util"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ClerkHandler struct {
	uc *usecase.ClerkUsecase
}

func NewClerkHandler(uc *usecase.ClerkUsecase) *ClerkHandler {
	return &ClerkHandler{uc: uc}
}

func (h *ClerkHandler) RegisterRoutes(app *fiber.App) {
	g := app.Group("/api/clerk", middleware.Auth(), middleware.RequireRole("clerk"))
	g.Get("/queue", h.Queue)
	g.Post("/assessments/:id/review", h.Review)
}

func (h *ClerkHandler) Queue(c *fiber.Ctx) error {
	items, pagination, err := h.uc.ReviewQueue(
		c.QueryInt("page", 1),
		c.QueryInt("page_size", 10),
	)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to load review queue",
		}, err)
	}

	out := make([]dto.AssessmentDTO, 0, len(items))
	for i := range items {
		out = append(out, toAssessmentDTO(&items[i]))
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:       fiber.StatusOK,
		Message:    "Success load review queue",
		Data:       out,
		Pagination: pagination,
	})
}

func (h *ClerkHandler) Review(c *fiber.Ctx) error {
	reviewerID, err := currentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req dto.ReviewRequest
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

	a, err := h.uc.SubmitReview(c.Params("id"), reviewerID, req.AdjustedScore, req.Note)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotReviewable):
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusConflict,
				Message: "assessment is not ready for review",
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusNotFound,
				Message: "assessment not found",
			})
		default:
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Message: "failed to submit review",
			}, err)
		}
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success submit review",
		Data:    toAssessmentDTO(a),
	})
}
