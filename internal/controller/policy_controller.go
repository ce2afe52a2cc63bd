package controller

import (
	"github.com/Hirdyansh9/priv-lens/internal/dto"
	"github.com/Hirdyansh9/priv-lens/internal/pkg/serverutils"
	"github.com/Hirdyansh9/priv-lens/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPolicyController interface {
	RegisterRoutes(r fiber.Router)
	Analyze(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type policyController struct {
	service service.IPolicyService
}

func NewPolicyController(service service.IPolicyService) IPolicyController {
	return &policyController{service: service}
}

func (c *policyController) RegisterRoutes(r fiber.Router) {
	r.Post("/analyze", serverutils.JwtMiddleware, c.Analyze)
	r.Get("/chats", serverutils.JwtMiddleware, c.List)
	r.Get("/chats/:id", serverutils.JwtMiddleware, c.Get)
	r.Put("/chats/:id", serverutils.JwtMiddleware, c.Rename)
	r.Delete("/chats/:id", serverutils.JwtMiddleware, c.Delete)
}

func (c *policyController) Analyze(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.AnalyzeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.Analyze(ctx.Context(), userId, &req)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(res)
}

func (c *policyController) List(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	items, err := c.service.List(ctx.Context(), userId)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(items)
}

func (c *policyController) Get(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	policyId, err := service.ParsePolicyId(ctx.Params("id"))
	if err != nil {
		return httpError(err)
	}

	res, err := c.service.Get(ctx.Context(), userId, policyId)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(res)
}

func (c *policyController) Rename(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	policyId, err := service.ParsePolicyId(ctx.Params("id"))
	if err != nil {
		return httpError(err)
	}

	var req dto.RenamePolicyRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.Rename(ctx.Context(), userId, policyId, req.Title); err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Chat renamed successfully", nil))
}

func (c *policyController) Delete(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}
	policyId, err := service.ParsePolicyId(ctx.Params("id"))
	if err != nil {
		return httpError(err)
	}

	if err := c.service.Delete(ctx.Context(), userId, policyId); err != nil {
		return httpError(err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Chat deleted successfully", nil))
}
