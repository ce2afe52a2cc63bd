package controller

import (
	"github.com/Hirdyansh9/priv-lens/internal/dto"
	"github.com/Hirdyansh9/priv-lens/internal/pkg/serverutils"
	"github.com/Hirdyansh9/priv-lens/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Signup(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Session(ctx *fiber.Ctx) error
	OAuthLogin(ctx *fiber.Ctx) error
	OAuthCallback(ctx *fiber.Ctx) error
}

type authController struct {
	service      service.IAuthService
	oauthService service.IOAuthService
}

func NewAuthController(service service.IAuthService, oauthService service.IOAuthService) IAuthController {
	return &authController{
		service:      service,
		oauthService: oauthService,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	r.Post("/signup", c.Signup)
	r.Post("/login", c.Login)
	r.Post("/logout", serverutils.JwtMiddleware, c.Logout)
	r.Get("/session", serverutils.OptionalJwtMiddleware, c.Session)

	oauth := r.Group("/oauth")
	oauth.Get("/:provider/login", c.OAuthLogin)
	oauth.Get("/:provider/callback", c.OAuthCallback)
}

func (c *authController) Signup(ctx *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.Signup(ctx.Context(), &req); err != nil {
		return httpError(err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse[any]("User created successfully", nil))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(res)
}

// Logout acknowledges the request; tokens are stateless, the client simply
// discards its copy.
func (c *authController) Logout(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse[any]("Logged out successfully", nil))
}

func (c *authController) Session(ctx *fiber.Ctx) error {
	userId, _ := ctx.Locals("user_id").(string)

	res, err := c.service.Session(ctx.Context(), userId)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(res)
}

func (c *authController) OAuthLogin(ctx *fiber.Ctx) error {
	url, err := c.oauthService.GetLoginURL(ctx.Params("provider"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return ctx.Redirect(url, fiber.StatusTemporaryRedirect)
}

func (c *authController) OAuthCallback(ctx *fiber.Ctx) error {
	code := ctx.Query("code")
	if code == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing authorization code")
	}

	res, err := c.oauthService.HandleCallback(ctx.Context(), ctx.Params("provider"), code)
	if err != nil {
		return httpError(err)
	}
	return ctx.JSON(res)
}
