package handler

import (
	"net/http"
	"time"

	"cardstack/internal/model"
	"cardstack/internal/rbac"
	"cardstack/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CardHandler struct {
	cardRepo *repository.CardRepository
	deckRepo *repository.DeckRepository
	resolver *rbac.Resolver
}

func NewCardHandler(
	cardRepo *repository.CardRepository,
	deckRepo *repository.DeckRepository,
	resolver *rbac.Resolver,
) *CardHandler {
	return &CardHandler{cardRepo: cardRepo, deckRepo: deckRepo, resolver: resolver}
}

type CreateCardRequest struct {
	DeckID   string `json:"deck_id" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content"`
	Position int    `json:"position"`
}

type UpdateCardRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Position *int   `json:"position"`
}

type MoveCardRequest struct {
	DeckID   string `json:"deck_id" binding:"required"`
	Position int    `json:"position"`
}

type AssignCardRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type DueDateRequest struct {
	DueDate *time.Time `json:"due_date"`
}

type CardResponse struct {
	ID         string     `json:"id"`
	DeckID     string     `json:"deck_id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Position   int        `json:"position"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	CreatedBy  string     `json:"created_by"`
	AssignedTo *string    `json:"assigned_to,omitempty"`
}

func cardResponse(card *model.Card) CardResponse {
	resp := CardResponse{
		ID:        card.ID.String(),
		DeckID:    card.DeckID.String(),
		Title:     card.Title,
		Content:   card.Content,
		Position:  card.Position,
		DueDate:   card.DueDate,
		CreatedBy: card.CreatedBy.String(),
	}
	if card.AssignedTo != nil {
		assignee := card.AssignedTo.String()
		resp.AssignedTo = &assignee
	}
	return resp
}

// boardOfDeck находит доску, которой принадлежит колода карты
func (h *CardHandler) boardOfDeck(c *gin.Context, deckID uuid.UUID) (uuid.UUID, bool) {
	deck, err := h.deckRepo.GetByID(c.Request.Context(), deckID)
	if err != nil {
		if err == repository.ErrDeckNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve deck"})
		}
		return uuid.Nil, false
	}
	return deck.BoardID, true
}

func (h *CardHandler) checkCardPermission(c *gin.Context, userID, boardID uuid.UUID, permission string) bool {
	set, err := h.resolver.EffectivePermissions(c.Request.Context(), userID, &boardID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if !set.Has(permission) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return false
	}
	return true
}

func (h *CardHandler) Create(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	deckID, err := uuid.Parse(req.DeckID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deck ID format"})
		return
	}

	boardID, ok := h.boardOfDeck(c, deckID)
	if !ok {
		return
	}
	if !h.checkCardPermission(c, userID, boardID, model.PermCardsEdit) {
		return
	}

	card := &model.Card{
		DeckID:    deckID,
		Title:     req.Title,
		Content:   req.Content,
		Position:  req.Position,
		CreatedBy: userID,
	}

	if err := h.cardRepo.Create(c.Request.Context(), card); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create card"})
		return
	}

	c.JSON(http.StatusCreated, cardResponse(card))
}

// getCardChecked загружает карту и проверяет разрешение в контексте ее доски
func (h *CardHandler) getCardChecked(c *gin.Context, userID uuid.UUID, permission string) (*model.Card, bool) {
	cardID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid card ID format"})
		return nil, false
	}

	card, err := h.cardRepo.GetByID(c.Request.Context(), cardID)
	if err != nil {
		if err == repository.ErrCardNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve card"})
		}
		return nil, false
	}

	boardID, ok := h.boardOfDeck(c, card.DeckID)
	if !ok {
		return nil, false
	}
	if !h.checkCardPermission(c, userID, boardID, permission) {
		return nil, false
	}
	return card, true
}

func (h *CardHandler) GetByID(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	card, ok := h.getCardChecked(c, userID, model.PermCardsView)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, cardResponse(card))
}

func (h *CardHandler) GetByDeck(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	deckID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deck ID format"})
		return
	}

	boardID, ok := h.boardOfDeck(c, deckID)
	if !ok {
		return
	}
	if !h.checkCardPermission(c, userID, boardID, model.PermCardsView) {
		return
	}

	cards, err := h.cardRepo.GetByDeck(c.Request.Context(), deckID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve cards"})
		return
	}

	response := make([]CardResponse, len(cards))
	for i := range cards {
		response[i] = cardResponse(&cards[i])
	}

	c.JSON(http.StatusOK, response)
}

func (h *CardHandler) Update(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	card, ok := h.getCardChecked(c, userID, model.PermCardsEdit)
	if !ok {
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Title != "" {
		card.Title = req.Title
	}
	if req.Content != "" {
		card.Content = req.Content
	}
	if req.Position != nil {
		card.Position = *req.Position
	}

	if err := h.cardRepo.Update(c.Request.Context(), card); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update card"})
		return
	}

	c.JSON(http.StatusOK, cardResponse(card))
}

func (h *CardHandler) Delete(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	card, ok := h.getCardChecked(c, userID, model.PermCardsEdit)
	if !ok {
		return
	}

	if err := h.cardRepo.Delete(c.Request.Context(), card.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete card"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Move переносит карту в другую колоду той же доски
func (h *CardHandler) Move(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	card, ok := h.getCardChecked(c, userID, model.PermCardsEdit)
	if !ok {
		return
	}

	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	targetDeckID, err := uuid.Parse(req.DeckID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deck ID format"})
		return
	}

	sourceBoardID, ok := h.boardOfDeck(c, card.DeckID)
	if !ok {
		return
	}
	targetBoardID, ok := h.boardOfDeck(c, targetDeckID)
	if !ok {
		return
	}
	if sourceBoardID != targetBoardID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot move card to another board"})
		return
	}

	if err := h.cardRepo.Move(c.Request.Context(), card.ID, targetDeckID, req.Position); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to move card"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CardHandler) Assign(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	card, ok := h.getCardChecked(c, userID, model.PermCardsEdit)
	if !ok {
		return
	}

	var req AssignCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	assigneeID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	if err := h.cardRepo.Assign(c.Request.Context(), card.ID, &assigneeID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign card"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CardHandler) Unassign(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	card, ok := h.getCardChecked(c, userID, model.PermCardsEdit)
	if !ok {
		return
	}

	if err := h.cardRepo.Assign(c.Request.Context(), card.ID, nil); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unassign card"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *CardHandler) SetDueDate(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	card, ok := h.getCardChecked(c, userID, model.PermCardsEdit)
	if !ok {
		return
	}

	var req DueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.cardRepo.SetDueDate(c.Request.Context(), card.ID, req.DueDate); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to set due date"})
		return
	}

	c.Status(http.StatusNoContent)
}
