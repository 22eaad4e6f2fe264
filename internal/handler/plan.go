package handler

import (
	"errors"
	"net/http"

	"recipe-payments/internal/dto"
	"recipe-payments/internal/model"
	"recipe-payments/internal/repository"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type PlanHandler struct {
	planRepo repository.PlanRepository
}

func NewPlanHandler(planRepo repository.PlanRepository) *PlanHandler {
	return &PlanHandler{
		planRepo: planRepo,
	}
}

func (h *PlanHandler) ListPlans(c echo.Context) error {
	ctx := c.Request().Context()

	plans, err := h.planRepo.List(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, plans)
}

func (h *PlanHandler) GetPlan(c echo.Context) error {
	ctx := c.Request().Context()

	plan, err := h.planRepo.FindByPlanID(ctx, c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "plan not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) CreatePlan(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.PlanID == "" || req.Tier == "" || req.Name == "" || req.BillingCycle == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "plan_id, tier, name and billing_cycle are required")
	}

	if _, err := h.planRepo.FindByPlanID(ctx, req.PlanID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "plan_id already exists")
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	plan := &model.SubscriptionPlan{
		PlanID:       req.PlanID,
		Tier:         req.Tier,
		Name:         req.Name,
		Price:        req.Price,
		Currency:     currency,
		BillingCycle: req.BillingCycle,
		Features:     req.Features,
		PopularPlan:  req.PopularPlan,
	}
	if err := h.planRepo.Create(ctx, plan); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, plan)
}

func (h *PlanHandler) UpdatePlan(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.PlanRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	plan := &model.SubscriptionPlan{
		PlanID:       c.Param("id"),
		Tier:         req.Tier,
		Name:         req.Name,
		Price:        req.Price,
		Currency:     req.Currency,
		BillingCycle: req.BillingCycle,
		Features:     req.Features,
		PopularPlan:  req.PopularPlan,
	}
	err := h.planRepo.Update(ctx, plan)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "plan not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) DeletePlan(c echo.Context) error {
	ctx := c.Request().Context()

	deleted, err := h.planRepo.Delete(ctx, c.Param("id"))
	if err != nil {
		return err
	}
	if !deleted {
		return echo.NewHTTPError(http.StatusNotFound, "plan not found")
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "plan deleted"})
}
