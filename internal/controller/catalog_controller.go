package controller

import (
	"virtual-budtender-be/internal/pkg/serverutils"
	"virtual-budtender-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	Reload(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
}

type catalogController struct {
	service service.ICatalogService
}

func NewCatalogController(service service.ICatalogService) ICatalogController {
	return &catalogController{service: service}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/catalog/v1")
	h.Post("/reload", c.Reload)
	h.Get("/stats", c.Stats)
}

func (c *catalogController) Reload(ctx *fiber.Ctx) error {
	res, err := c.service.Reload(ctx.Context())
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}

	return ctx.JSON(serverutils.SuccessResponse("Catalog reloaded", res))
}

func (c *catalogController) Stats(ctx *fiber.Ctx) error {
	res, err := c.service.Stats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Catalog stats", res))
}
