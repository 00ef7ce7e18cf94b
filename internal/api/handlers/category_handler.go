package handlers

import (
	"wallet-ledger/internal/dto"
	"wallet-ledger/internal/models"
	"wallet-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
	logger          *zap.Logger
}

func NewCategoryHandler(categoryService *service.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		logger:          logger,
	}
}

// List godoc
// @Summary List categories
// @Description Admins get every category; other users get global and own custom active categories
// @Tags categories
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.CategoryResponse
// @Failure 401 {object} map[string]string
// @Router /categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	categories, err := h.categoryService.List(c.Context(), caller)
	if err != nil {
		return respondError(c, h.logger, "List categories", err)
	}

	return c.JSON(dto.NewCategoryResponses(categories))
}

// Count godoc
// @Summary Count categories
// @Tags categories
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.CountResponse
// @Router /categories/count [get]
func (h *CategoryHandler) Count(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	n, err := h.categoryService.Count(c.Context(), caller)
	if err != nil {
		return respondError(c, h.logger, "Count categories", err)
	}

	return c.JSON(dto.CountResponse{Count: n})
}

// GetByID godoc
// @Summary Get a category by id
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Security Bearer
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} map[string]string
// @Router /categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid category ID")
	}

	category, err := h.categoryService.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, "Get category", err)
	}

	return c.JSON(dto.NewCategoryResponse(category))
}

// GetByName godoc
// @Summary Get the first category with a name
// @Tags categories
// @Produce json
// @Param name query string true "Category name"
// @Security Bearer
// @Success 200 {object} dto.CategoryResponse
// @Failure 404 {object} map[string]string
// @Router /categories/by-name [get]
func (h *CategoryHandler) GetByName(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return badRequest(c, "Name is required")
	}

	category, err := h.categoryService.GetByName(c.Context(), name)
	if err != nil {
		return respondError(c, h.logger, "Get category", err)
	}

	return c.JSON(dto.NewCategoryResponse(category))
}

// Create godoc
// @Summary Create a category
// @Description Global names must be unique; a custom name already in use adds the caller as co-owner
// @Tags categories
// @Accept json
// @Produce json
// @Param request body dto.CreateCategoryRequest true "Category"
// @Security Bearer
// @Success 201 {object} dto.CategoryResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	category, err := h.categoryService.Create(c.Context(), caller, req.Name, req.IsCustom)
	if err != nil {
		return respondError(c, h.logger, "Create category", err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewCategoryResponse(category))
}

// Update godoc
// @Summary Update a category
// @Tags categories
// @Accept json
// @Produce json
// @Param id path string true "Category ID"
// @Param request body dto.UpdateCategoryRequest true "Fields to change"
// @Security Bearer
// @Success 200 {object} dto.CategoryResponse
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /categories/{id} [patch]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid category ID")
	}

	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	category, err := h.categoryService.Update(c.Context(), caller, id, models.CategoryPatch{
		Name:     req.Name,
		IsCustom: req.IsCustom,
		IsActive: req.IsActive,
	})
	if err != nil {
		return respondError(c, h.logger, "Update category", err)
	}

	return c.JSON(dto.NewCategoryResponse(category))
}

// Delete godoc
// @Summary Inactivate a category
// @Tags categories
// @Param id path string true "Category ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid category ID")
	}

	if err := h.categoryService.Inactivate(c.Context(), caller, id); err != nil {
		return respondError(c, h.logger, "Delete category", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
