package handler

import (
	"net/http"

	"cardstack/internal/model"
	"cardstack/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MembershipHandler обслуживает состав участников доски:
// инвайт-коды, вступление, добавление и удаление участников
type MembershipHandler struct {
	lifecycle *rbac.Lifecycle
	resolver  *rbac.Resolver
}

func NewMembershipHandler(lifecycle *rbac.Lifecycle, resolver *rbac.Resolver) *MembershipHandler {
	return &MembershipHandler{lifecycle: lifecycle, resolver: resolver}
}

type JoinRequest struct {
	Code string `json:"code" binding:"required"`
}

type AddMembersRequest struct {
	Members []struct {
		UserID  string   `json:"user_id" binding:"required"`
		RoleIDs []string `json:"role_ids"`
	} `json:"members" binding:"required"`
}

type RemoveMembersRequest struct {
	UserIDs []string `json:"user_ids" binding:"required"`
}

type CardStateRequest struct {
	State string `json:"state" binding:"required"`
}

type MemberResponse struct {
	UserID  string   `json:"user_id"`
	Email   string   `json:"email"`
	Name    string   `json:"name"`
	Roles   []string `json:"roles"`
	IsAdmin bool     `json:"is_admin"`
}

// requireBoardAdmin пропускает только администраторов доски.
// Проверка по ролям, а не по производным разрешениям.
func (h *MembershipHandler) requireBoardAdmin(c *gin.Context, userID, boardID uuid.UUID) bool {
	isAdmin, err := h.resolver.IsBoardAdmin(c.Request.Context(), userID, boardID)
	if err != nil {
		respondError(c, err)
		return false
	}
	if !isAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only a board admin can manage members"})
		return false
	}
	return true
}

// RotateInviteCode выпускает новый инвайт-код; старый перестает
// действовать немедленно
func (h *MembershipHandler) RotateInviteCode(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	boardID, ok := parseBoardID(c)
	if !ok {
		return
	}

	if !h.requireBoardAdmin(c, userID, boardID) {
		return
	}

	code, err := h.lifecycle.RotateInviteCode(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invite_code": code})
}

// Join вступает на доску по инвайт-коду
func (h *MembershipHandler) Join(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	boardID, ok := parseBoardID(c)
	if !ok {
		return
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.lifecycle.JoinByCode(c.Request.Context(), boardID, userID, req.Code); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AddMembers добавляет участников с наборами board-ролей
func (h *MembershipHandler) AddMembers(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	boardID, ok := parseBoardID(c)
	if !ok {
		return
	}

	if !h.requireBoardAdmin(c, userID, boardID) {
		return
	}

	var req AddMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	adds := make([]rbac.MemberAdd, 0, len(req.Members))
	for _, member := range req.Members {
		memberID, err := uuid.Parse(member.UserID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
			return
		}
		roleIDs, ok := parseUUIDs(member.RoleIDs)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role ID format"})
			return
		}
		adds = append(adds, rbac.MemberAdd{UserID: memberID, RoleIDs: roleIDs})
	}

	if err := h.lifecycle.AddMembers(c.Request.Context(), boardID, adds); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RemoveMembers удаляет участников; вызов атомарен и отклоняется
// целиком, если доска осталась бы без администратора
func (h *MembershipHandler) RemoveMembers(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	boardID, ok := parseBoardID(c)
	if !ok {
		return
	}

	if !h.requireBoardAdmin(c, userID, boardID) {
		return
	}

	var req RemoveMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userIDs, ok := parseUUIDs(req.UserIDs)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	if err := h.lifecycle.RemoveMembers(c.Request.Context(), boardID, userIDs); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Leave — самостоятельный выход с доски; защита последнего
// администратора действует так же, как при удалении другим админом
func (h *MembershipHandler) Leave(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	boardID, ok := parseBoardID(c)
	if !ok {
		return
	}

	if err := h.lifecycle.Leave(c.Request.Context(), boardID, userID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListMembers возвращает состав участников доски
func (h *MembershipHandler) ListMembers(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	boardID, ok := parseBoardID(c)
	if !ok {
		return
	}

	set, err := h.resolver.EffectivePermissions(c.Request.Context(), userID, &boardID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !set.Has(model.PermBoardsView) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
		return
	}

	members, err := h.lifecycle.Members(c.Request.Context(), boardID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]MemberResponse, len(members))
	for i, member := range members {
		roles := make([]string, len(member.Roles))
		for j, role := range member.Roles {
			roles[j] = role.Name
		}
		response[i] = MemberResponse{
			UserID:  member.UserID.String(),
			Email:   member.User.Email,
			Name:    member.User.Name,
			Roles:   roles,
			IsAdmin: model.HasAdminRole(member.Roles),
		}
	}

	c.JSON(http.StatusOK, response)
}

// SetCardState сохраняет непрозрачное состояние карт текущего участника
func (h *MembershipHandler) SetCardState(c *gin.Context) {
	userID, ok := authenticatedUser(c)
	if !ok {
		return
	}

	boardID, ok := parseBoardID(c)
	if !ok {
		return
	}

	var req CardStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.lifecycle.SetCardState(c.Request.Context(), boardID, userID, req.State); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
