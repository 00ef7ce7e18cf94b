package handlers

import (
	"wallet-ledger/internal/dto"
	"wallet-ledger/internal/models"
	"wallet-ledger/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	txService  *service.TransactionService
	recService *service.RecommendationService
	logger     *zap.Logger
}

func NewTransactionHandler(txService *service.TransactionService, recService *service.RecommendationService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService:  txService,
		recService: recService,
		logger:     logger,
	}
}

// List godoc
// @Summary List transactions
// @Description Admins get every transaction; other users get their own active transactions
// @Tags transactions
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.TransactionResponse
// @Router /transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	transactions, err := h.txService.List(c.Context(), caller)
	if err != nil {
		return respondError(c, h.logger, "List transactions", err)
	}

	return c.JSON(dto.NewTransactionResponses(transactions))
}

// GetByID godoc
// @Summary Get a transaction by id
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Security Bearer
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string
// @Router /transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid transaction ID")
	}

	tx, err := h.txService.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, h.logger, "Get transaction", err)
	}

	return c.JSON(dto.NewTransactionResponse(tx))
}

// Create godoc
// @Summary Record a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.CreateTransactionRequest true "Transaction"
// @Security Bearer
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	var req dto.CreateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	subCategoryID, err := uuid.Parse(req.SubCategoryID)
	if err != nil {
		return badRequest(c, "Invalid subcategory ID")
	}

	tx, err := h.txService.Create(c.Context(), caller, service.CreateTransactionInput{
		SubCategoryID:   subCategoryID,
		Amount:          req.Amount,
		Description:     req.Description,
		TransactionType: models.TransactionType(req.TransactionType),
	})
	if err != nil {
		return respondError(c, h.logger, "Create transaction", err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewTransactionResponse(tx))
}

// Update godoc
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body dto.UpdateTransactionRequest true "Fields to change"
// @Security Bearer
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /transactions/{id} [patch]
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid transaction ID")
	}

	var req dto.UpdateTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	patch := models.TransactionPatch{
		Amount:      req.Amount,
		Description: req.Description,
	}
	if req.SubCategoryID != nil {
		subCategoryID, err := uuid.Parse(*req.SubCategoryID)
		if err != nil {
			return badRequest(c, "Invalid subcategory ID")
		}
		patch.SubCategoryID = &subCategoryID
	}

	tx, err := h.txService.Update(c.Context(), caller, id, patch)
	if err != nil {
		return respondError(c, h.logger, "Update transaction", err)
	}

	return c.JSON(dto.NewTransactionResponse(tx))
}

// Delete godoc
// @Summary Inactivate a transaction
// @Tags transactions
// @Param id path string true "Transaction ID"
// @Security Bearer
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "Invalid transaction ID")
	}

	if err := h.txService.Inactivate(c.Context(), caller, id); err != nil {
		return respondError(c, h.logger, "Delete transaction", err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// NetAmount godoc
// @Summary Net amount of the caller's active transactions
// @Tags transactions
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.NetAmountResponse
// @Router /transactions/net-amount [get]
func (h *TransactionHandler) NetAmount(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	net, err := h.txService.CalculateNetAmount(c.Context(), caller.UserID)
	if err != nil {
		return respondError(c, h.logger, "Calculate net amount", err)
	}

	return c.JSON(dto.NetAmountResponse{NetAmount: net})
}

// Recommendations godoc
// @Summary Most used subcategories
// @Description Up to five subcategories ranked by how many of the caller's active transactions use them
// @Tags transactions
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.SubCategoryResponse
// @Router /transactions/recommendations [get]
func (h *TransactionHandler) Recommendations(c *fiber.Ctx) error {
	caller, err := getCaller(c)
	if err != nil {
		return unauthorized(c)
	}

	recs, err := h.recService.Recommend(c.Context(), caller.UserID)
	if err != nil {
		return respondError(c, h.logger, "Recommend subcategories", err)
	}

	return c.JSON(dto.NewSubCategoryResponses(recs))
}
