package controller

import (
	"virtual-budtender-be/internal/dto"
	"virtual-budtender-be/internal/pkg/serverutils"
	"virtual-budtender-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IBudtenderController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	Recommendations(ctx *fiber.Ctx) error
	UpdatePreferences(ctx *fiber.Ctx) error
	GetPreferences(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type budtenderController struct {
	service service.IBudtenderService
}

func NewBudtenderController(service service.IBudtenderService) IBudtenderController {
	return &budtenderController{service: service}
}

func (c *budtenderController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/budtender/v1")
	h.Post("/chat", c.Chat)
	h.Post("/recommendations", c.Recommendations)
	h.Post("/preferences", c.UpdatePreferences)
	h.Get("/preferences/:userId", c.GetPreferences)
	h.Get("/health", c.Health)
}

func (c *budtenderController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Chat response generated", res))
}

func (c *budtenderController) Recommendations(ctx *fiber.Ctx) error {
	var req dto.RecommendationFilterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Recommendations(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("More recommendations", res))
}

func (c *budtenderController) UpdatePreferences(ctx *fiber.Ctx) error {
	var req dto.UpdatePreferencesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.UpdatePreferences(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Preferences updated successfully", res))
}

func (c *budtenderController) GetPreferences(ctx *fiber.Ctx) error {
	userId := ctx.Params("userId")
	if userId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "User ID is required")
	}

	res, err := c.service.GetPreferences(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("User preferences", res))
}

func (c *budtenderController) Health(ctx *fiber.Ctx) error {
	res, err := c.service.Health(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Service health", res))
}
