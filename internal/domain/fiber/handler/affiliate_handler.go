package handler

import (
	"errors"

	"github.com/fadilmartias/career-compass/internal/middleware"
	"github.com/fadilmartias/career-compass/internal/usecase"
	"github.com/fadilmartias/career-compass/internal/util"
	"github.com/gofiber/fiber/v2"
)

type AffiliateHandler struct {
	uc *usecase.AffiliateUsecase
}

func NewAffiliateHandler(uc *usecase.AffiliateUsecase) *AffiliateHandler {
	return &AffiliateHandler{uc: uc}
}

func (h *AffiliateHandler) RegisterRoutes(app *fiber.App) {
	g := app.Group("/api/affiliate", middleware.Auth(), middleware.RequireRole("affiliate"))
	g.Get("/dashboard", h.Dashboard)
	g.Get("/referrals", h.Referrals)
	g.Post("/referrals/:id/redeem", h.Redeem)
}

func (h *AffiliateHandler) Dashboard(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	stats, err := h.uc.Dashboard(userID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to load dashboard",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get affiliate dashboard",
		Data:    stats,
	})
}

func (h *AffiliateHandler) Referrals(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	refs, err := h.uc.Referrals(userID)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list referrals",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success list referrals",
		Data:    refs,
	})
}

func (h *AffiliateHandler) Redeem(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}

	ref, err := h.uc.Redeem(userID, c.Params("id"))
	if err != nil {
		if errors.Is(err, usecase.ErrNotRedeemable) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusConflict,
				Message: "referral has no redeemable commission",
			})
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to redeem referral",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success redeem referral",
		Data:    ref,
	})
}
