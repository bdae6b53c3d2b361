package handler

import (
	"errors"
	"time"

	"github.com/fadilmartias/career-compass/internal/dto"
	"github.com/fadilmartias/career-compass/internal/middleware"
	"github.com/fadilmartias/career-compass/internal/usecase"
	"github.com/fadilmartias/career-compass/internal/util"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdminHandler struct {
	uc           *usecase.AdminUsecase
	paymentUC    *usecase.PaymentUsecase
	assessmentUC *usecase.AssessmentUsecase
}

func NewAdminHandler(uc *usecase.AdminUsecase, paymentUC *usecase.PaymentUsecase, assessmentUC *usecase.AssessmentUsecase) *AdminHandler {
	return &AdminHandler{uc: uc, paymentUC: paymentUC, assessmentUC: assessmentUC}
}

func (h *AdminHandler) RegisterRoutes(app *fiber.App) {
	g := app.Group("/api/admin", middleware.Auth(), middleware.RequireRole("admin"))
	g.Get("/users", h.ListUsers)
	g.Patch("/users/:id/roles", h.UpdateRoles)
	g.Get("/assessments", h.ListAssessments)
	g.Get("/payments", h.ListPayments)
	g.Post("/payments/:id/expire", h.ExpirePayment)
	g.Get("/analytics", h.Analytics)
	g.Get("/export/users.csv", h.ExportUsers)
	g.Get("/export/payments.csv", h.ExportPayments)
	g.Post("/career-profiles/rebuild-embeddings", h.RebuildProfileEmbeddings)
}

func (h *AdminHandler) RebuildProfileEmbeddings(c *fiber.Ctx) error {
	if err := h.assessmentUC.RebuildProfileEmbeddings(c.Context()); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to rebuild profile embeddings",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success rebuild profile embeddings",
	})
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, pagination, err := h.uc.ListUsers(
		c.Query("search"),
		c.QueryInt("page", 1),
		c.QueryInt("page_size", 10),
	)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list users",
		}, err)
	}

	out := make([]dto.UserDTO, 0, len(users))
	for i := range users {
		out = append(out, toUserDTO(&users[i]))
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:       fiber.StatusOK,
		Message:    "Success list users",
		Data:       out,
		Pagination: pagination,
	})
}

func (h *AdminHandler) UpdateRoles(c *fiber.Ctx) error {
	var req dto.UpdateRolesRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid payload",
		}, err)
	}

	user, err := h.uc.UpdateRoles(c.Params("id"), req.IsAdmin, req.IsClerk, req.IsAffiliate, req.Active)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusNotFound,
				Message: "user not found",
			})
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to update roles",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success update roles",
		Data:    toUserDTO(user),
	})
}

func (h *AdminHandler) ListAssessments(c *fiber.Ctx) error {
	items, pagination, err := h.uc.ListAssessments(
		c.Query("status"),
		c.QueryInt("page", 1),
		c.QueryInt("page_size", 10),
	)
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
		Code:       fiber.StatusOK,
		Message:    "Success list assessments",
		Data:       out,
		Pagination: pagination,
	})
}

func (h *AdminHandler) ListPayments(c *fiber.Ctx) error {
	items, pagination, err := h.uc.ListPayments(
		c.Query("status"),
		c.QueryInt("page", 1),
		c.QueryInt("page_size", 10),
	)
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
		Code:       fiber.StatusOK,
		Message:    "Success list payments",
		Data:       out,
		Pagination: pagination,
	})
}

func (h *AdminHandler) ExpirePayment(c *fiber.Ctx) error {
	p, err := h.paymentUC.Expire(c.Params("id"))
	if err != nil {
		switch {
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
				Message: "failed to expire payment",
			}, err)
		}
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success expire payment",
		Data:    toPaymentDTO(p),
	})
}

// Analytics returns the dashboard aggregates. Defaults to the last 30 days
// when no range is supplied; from/to are RFC3339 dates.
func (h *AdminHandler) Analytics(c *fiber.Ctx) error {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: "invalid from date",
			}, err)
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: "invalid to date",
			}, err)
		}
		to = parsed
	}

	summary, err := h.uc.Analytics(c.Context(), from, to)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to load analytics",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get analytics",
		Data:    summary,
	})
}

func (h *AdminHandler) ExportUsers(c *fiber.Ctx) error {
	data, err := h.uc.ExportUsersCSV()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to export users",
		}, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="users.csv"`)
	return c.Send(data)
}

func (h *AdminHandler) ExportPayments(c *fiber.Ctx) error {
	data, err := h.uc.ExportPaymentsCSV()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to export payments",
		}, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="payments.csv"`)
	return c.Send(data)
}
