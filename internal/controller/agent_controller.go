package controller

import (
	"github.com/Hirdyansh9/priv-lens/internal/dto"
	"github.com/Hirdyansh9/priv-lens/internal/pkg/serverutils"
	"github.com/Hirdyansh9/priv-lens/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Run(ctx *fiber.Ctx) error
	Compare(ctx *fiber.Ctx) error
}

type agentController struct {
	service service.IAgentService
}

func NewAgentController(service service.IAgentService) IAgentController {
	return &agentController{service: service}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	r.Get("/agents", serverutils.JwtMiddleware, c.List)
	r.Post("/agents/:agent_type/analyze", serverutils.JwtMiddleware, c.Run)
	r.Post("/compare-policies", serverutils.JwtMiddleware, c.Compare)
}

func (c *agentController) List(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.ListAgents())
}

func (c *agentController) Run(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.RunAgentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.RunAgent(ctx.Context(), userId, ctx.Params("agent_type"), &req)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(res)
}

func (c *agentController) Compare(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.ComparePoliciesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.ComparePolicies(ctx.Context(), userId, &req)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(res)
}
