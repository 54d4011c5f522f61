package controller

import (
	"demarches-be/internal/dto"
	"demarches-be/internal/pkg/serverutils"
	"demarches-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IProcedureController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Progress(ctx *fiber.Ctx) error
	Bind(ctx *fiber.Ctx) error
	MarkComplete(ctx *fiber.Ctx) error
	Abandon(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type procedureController struct {
	procedureService service.IProcedureService
}

func NewProcedureController(procedureService service.IProcedureService) IProcedureController {
	return &procedureController{procedureService: procedureService}
}

func (c *procedureController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/procedure/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
	h.Get(":id/progress", c.Progress)
	h.Put(":id", c.Update)
	h.Put(":id/bind", c.Bind)
	h.Put(":id/complete", c.MarkComplete)
	h.Put(":id/abandon", c.Abandon)
	h.Delete(":id", c.Delete)
}

func (c *procedureController) Create(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateProcedureRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.procedureService.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create procedure", res))
}

func (c *procedureController) GetAll(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.procedureService.GetAll(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get procedures", res))
}

func (c *procedureController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.procedureService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show procedure", res))
}

func (c *procedureController) Progress(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.procedureService.Progress(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get procedure progress", res))
}

func (c *procedureController) Bind(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.BindRequirementRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.InstanceId = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.procedureService.Bind(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success bind requirement", res))
}

func (c *procedureController) MarkComplete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.MarkCompleteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.InstanceId = id

	res, err := c.procedureService.MarkComplete(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success complete procedure", res))
}

func (c *procedureController) Abandon(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.procedureService.Abandon(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success abandon procedure", nil))
}

func (c *procedureController) Update(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	var req dto.UpdateProcedureRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.InstanceId = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.procedureService.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update procedure", res))
}

func (c *procedureController) Delete(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	id, _ := uuid.Parse(ctx.Params("id"))

	if err := c.procedureService.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete procedure", nil))
}
