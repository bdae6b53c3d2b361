package handler

import (
	"errors"

	"github.com/fadilmartias/career-compass/internal/dto"
	"github.com/fadilmartias/career-compass/internal/middleware"
	"github.com/fadilmartias/career-compass/internal/model"
	"github.com/fadilmartias/career-compass/internal/usecase"
	"github.com/fadilmartias/career-compass/internal/util"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

func (h *PaymentHandler) RegisterRoutes(app *fiber.App) {
	g := app.Group("/api/payment", middleware.Auth())
	g.Post("/", h.Create)
	g.Get("/", h.ListMine)
	g.Post("/:id/pay", h.Pay)
}

func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	var req dto.CreatePaymentRequest
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

	p, err := h.uc.Create(userID, req.AssessmentID, req.Method)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrAlreadyPaid):
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusConflict,
				Message: "assessment is already paid",
			})
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
				Message: "failed to create payment",
			}, err)
		}
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create payment",
		Data:    toPaymentDTO(p),
	})
}

func (h *PaymentHandler) Pay(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	p, err := h.uc.Pay(c.Params("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotPaymentUser):
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusForbidden,
				Message: "forbidden",
			})
		case errors.Is(err, usecase.ErrPaymentClosed):
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusConflict,
				Message: "payment is not pending",
			})
		case errors.Is(err, gorm.ErrRecordNotFound):
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusNotFound,
				Message: "payment not found",
			})
		default:
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Message: "failed to settle payment",
			}, err)
		}
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success pay",
		Data:    toPaymentDTO(p),
	})
}

func (h *PaymentHandler) ListMine(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	items, err := h.uc.ListMine(userID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list payments",
		}, err)
	}

	out := make([]dto.PaymentDTO, 0, len(items))
	for i := range items {
		out = append(out, toPaymentDTO(&items[i]))
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success list payments",
		Data:    out,
	})
}

func toPaymentDTO(p *model.Payment) dto.PaymentDTO {
	return dto.PaymentDTO{
		ID:           p.ID,
		AssessmentID: p.AssessmentID,
		Amount:       p.Amount,
		Tier:         p.Tier,
		Status:       p.Status,
		Method:       p.Method,
		PaidAt:       p.PaidAt,
		CreatedAt:    p.CreatedAt,
	}
}
