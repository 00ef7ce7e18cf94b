package handlers

import (
	"wallet-ledger/internal/dto"
	"wallet-ledger/internal/models"
	"wallet-ledger/internal/policy"
	"wallet-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SubCategoryHandler struct {
	subCategoryService *service.SubCategoryService
	logger             *zap.Logger
}

func NewSubCategoryHandler(subCategoryService *service.SubCategoryService, logger *zap.Logger) *SubCategoryHandler {
	return &SubCategoryHandler{
		subCategoryService: subCategoryService,
		logger:             logger,
	}
}

// List godoc
// @Summary List subcategories
// @Description Admins get every subcategory; other users get the visible subcategories of category_id
// @Tags subcategories
// @Produce json
// @Param category_id query string false "Parent category ID (required for non-admins)"
// @Security Bearer
// @Success 200 {array} dto.SubCategoryResponse
// @Failure 400 {object} map[string]string
// @Router /subcategories [get]
func (h *SubCategoryHandler) List(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	var categoryID uuid.UUID
	if raw := c.Query("category_id"); raw != "" {
		if categoryID, err = uuid.Parse(raw); err != nil {
			return badRequest(c, "Invalid category ID")
		}
	}

	return h.list(c, caller, categoryID)
}

// ListInCategory godoc
// @Summary List the visible subcategories of a category
// @Tags subcategories
// @Produce json
// @Param id path string true "Category ID"
// @Security Bearer
// @Success 200 {array} dto.SubCategoryResponse
// @Router /categories/{id}/subcategories [get]
func (h *SubCategoryHandler) ListInCategory(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	categoryID, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid category ID")
	}

	return h.list(c, caller, categoryID)
}

func (h *SubCategoryHandler) list(c *fiber.Ctx, caller policy.Caller, categoryID uuid.UUID) error {
	subCategories, err := h.subCategoryService.List(c.Context(), caller, categoryID)
	if err != nil {
		return respondError(c, h.logger, "List subcategories", err)
	}

	return c.JSON(dto.NewSubCategoryResponses(subCategories))
}

// Count godoc
// @Summary Count subcategories
// @Tags subcategories
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.CountResponse
// @Router /subcategories/count [get]
func (h *SubCategoryHandler) Count(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	n, err := h.subCategoryService.Count(c.Context(), caller)
	if err != nil {
		return respondError(c, h.logger, "Count subcategories", err)
	}

	return c.JSON(dto.CountResponse{Count: n})
}

// GetByID godoc
// @Summary Get a subcategory by id
// @Tags subcategories
// @Produce json
// @Param id path string true "Subcategory ID"
// @Security Bearer
// @Success 200 {object} dto.SubCategoryResponse
// @Failure 404 {object} map[string]string
// @Router /subcategories/{id} [get]
func (h *SubCategoryHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid subcategory ID")
	}

	sc, err := h.subCategoryService.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, "Get subcategory", err)
	}

	return c.JSON(dto.NewSubCategoryResponse(sc))
}

// GetByName godoc
// @Summary Get the first subcategory with a name
// @Tags subcategories
// @Produce json
// @Param name query string true "Subcategory name"
// @Security Bearer
// @Success 200 {object} dto.SubCategoryResponse
// @Failure 404 {object} map[string]string
// @Router /subcategories/by-name [get]
func (h *SubCategoryHandler) GetByName(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return badRequest(c, "Name is required")
	}

	sc, err := h.subCategoryService.GetByName(c.Context(), name)
	if err != nil {
		return respondError(c, h.logger, "Get subcategory", err)
	}

	return c.JSON(dto.NewSubCategoryResponse(sc))
}

// Create godoc
// @Summary Create a subcategory
// @Tags subcategories
// @Accept json
// @Produce json
// @Param request body dto.CreateSubCategoryRequest true "Subcategory"
// @Security Bearer
// @Success 201 {object} dto.SubCategoryResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /subcategories [post]
func (h *SubCategoryHandler) Create(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateSubCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return badRequest(c, "Invalid category ID")
	}

	sc, err := h.subCategoryService.Create(c.Context(), caller, categoryID, req.Name, req.IsCustom)
	if err != nil {
		return respondError(c, h.logger, "Create subcategory", err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewSubCategoryResponse(sc))
}

// Update godoc
// @Summary Rename a subcategory
// @Tags subcategories
// @Accept json
// @Produce json
// @Param id path string true "Subcategory ID"
// @Param request body dto.UpdateSubCategoryRequest true "Fields to change"
// @Security Bearer
// @Success 200 {object} dto.SubCategoryResponse
// @Failure 404 {object} map[string]string
// @Router /subcategories/{id} [patch]
func (h *SubCategoryHandler) Update(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid subcategory ID")
	}

	var req dto.UpdateSubCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	sc, err := h.subCategoryService.Update(c.Context(), caller, id, models.SubCategoryPatch{Name: req.Name})
	if err != nil {
		return respondError(c, h.logger, "Update subcategory", err)
	}

	return c.JSON(dto.NewSubCategoryResponse(sc))
}

// Delete godoc
// @Summary Inactivate a subcategory
// @Tags subcategories
// @Param id path string true "Subcategory ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /subcategories/{id} [delete]
func (h *SubCategoryHandler) Delete(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid subcategory ID")
	}

	if err := h.subCategoryService.Inactivate(c.Context(), caller, id); err != nil {
		return respondError(c, h.logger, "Delete subcategory", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
