package controller

import (
	"demarches-be/internal/dto"
	"demarches-be/internal/pkg/serverutils"
	"demarches-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWizardController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	GetState(ctx *fiber.Ctx) error
	SearchTemplates(ctx *fiber.Ctx) error
	SelectTemplate(ctx *fiber.Ctx) error
	EditBinding(ctx *fiber.Ctx) error
	Commit(ctx *fiber.Ctx) error
	Rename(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
}

type wizardController struct {
	wizardService service.IWizardService
}

func NewWizardController(wizardService service.IWizardService) IWizardController {
	return &wizardController{wizardService: wizardService}
}

func (c *wizardController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/wizard/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Start)
	h.Get(":sessionId", c.GetState)
	h.Get(":sessionId/templates", c.SearchTemplates)
	h.Put(":sessionId/template", c.SelectTemplate)
	h.Put(":sessionId/binding", c.EditBinding)
	h.Post(":sessionId/commit", c.Commit)
	h.Put(":sessionId/title", c.Rename)
	h.Delete(":sessionId", c.Cancel)
}

func (c *wizardController) Start(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.wizardService.Start(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success start wizard", res))
}

func (c *wizardController) GetState(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.wizardService.GetState(ctx.Context(), userId, ctx.Params("sessionId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get wizard state", res))
}

func (c *wizardController) SearchTemplates(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	req := dto.WizardSearchRequest{
		SessionId: ctx.Params("sessionId"),
		Query:     ctx.Query("q"),
		Category:  ctx.Query("category"),
	}

	res, err := c.wizardService.SearchTemplates(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search templates", res))
}

func (c *wizardController) SelectTemplate(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.WizardSelectTemplateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.SessionId = ctx.Params("sessionId")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.wizardService.SelectTemplate(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success select template", res))
}

func (c *wizardController) EditBinding(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.WizardEditBindingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.SessionId = ctx.Params("sessionId")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.wizardService.EditBinding(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success edit binding", res))
}

func (c *wizardController) Commit(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.WizardCommitRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.SessionId = ctx.Params("sessionId")

	res, err := c.wizardService.Commit(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success commit wizard", res))
}

func (c *wizardController) Rename(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.WizardRenameRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.SessionId = ctx.Params("sessionId")

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.wizardService.Rename(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success rename procedure", nil))
}

func (c *wizardController) Cancel(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	if err := c.wizardService.Cancel(ctx.Context(), userId, ctx.Params("sessionId")); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success cancel wizard", nil))
}
