package rbac_test

import (
	"context"
	"testing"

	"cardstack/internal/model"
	"cardstack/internal/rbac"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func permission(name string) model.Permission {
	return model.Permission{ID: uuid.New(), Name: name}
}

func globalRole(name string, perms ...model.Permission) model.Role {
	return model.Role{ID: uuid.New(), Name: name, Scope: model.ScopeGlobal, Permissions: perms}
}

func boardRole(name string, isAdmin bool, perms ...model.Permission) model.Role {
	return model.Role{ID: uuid.New(), Name: name, Scope: model.ScopeBoard, IsAdmin: isAdmin, Permissions: perms}
}

func TestEffectivePermissions_GlobalUnion(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	membershipRepo := new(MockMembershipRepository)
	resolver := rbac.NewResolver(userRepo, membershipRepo)

	userID := uuid.New()
	shared := permission("API:BOARDS:VIEW")
	user := &model.User{
		ID: userID,
		GlobalRoles: []model.Role{
			globalRole("viewer", shared, permission("API:DECKS:VIEW")),
			globalRole("editor", shared, permission("API:DECKS:EDIT")),
		},
	}
	userRepo.On("GetWithGrants", mock.Anything, userID).Return(user, nil)

	// Act
	set, err := resolver.EffectivePermissions(context.Background(), userID, nil)

	// Assert
	assert.NoError(t, err)
	// Разрешение, достижимое через две роли, учитывается один раз
	assert.Equal(t, []string{"API:BOARDS:VIEW", "API:DECKS:EDIT", "API:DECKS:VIEW"}, set.Names())
}

func TestEffectivePermissions_RevocationWins(t *testing.T) {
	// Arrange: сценарий "роль выдает X:Y, затем X:Y отзывается"
	userRepo := new(MockUserRepository)
	membershipRepo := new(MockMembershipRepository)
	resolver := rbac.NewResolver(userRepo, membershipRepo)

	userID := uuid.New()
	perm := permission("X:Y")
	user := &model.User{
		ID: userID,
		GlobalRoles: []model.Role{
			globalRole("tester", perm),
			globalRole("backup-tester", perm), // выдана и второй ролью
		},
		RevokedPermissions: []model.Permission{perm},
	}
	userRepo.On("GetWithGrants", mock.Anything, userID).Return(user, nil)

	// Act
	set, err := resolver.EffectivePermissions(context.Background(), userID, nil)

	// Assert: отзыв побеждает независимо от числа выдавших ролей
	assert.NoError(t, err)
	assert.Empty(t, set.Names())
	assert.False(t, set.Has("X:Y"))
}

func TestEffectivePermissions_BoardContextUnion(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	membershipRepo := new(MockMembershipRepository)
	resolver := rbac.NewResolver(userRepo, membershipRepo)

	userID := uuid.New()
	boardID := uuid.New()
	user := &model.User{
		ID:          userID,
		GlobalRoles: []model.Role{globalRole("base", permission("API:BOARDS:VIEW"))},
	}
	membership := &model.Membership{
		BoardID: boardID,
		UserID:  userID,
		Roles:   []model.Role{boardRole("board-member", false, permission("API:CARDS:EDIT"))},
	}
	userRepo.On("GetWithGrants", mock.Anything, userID).Return(user, nil)
	membershipRepo.On("GetByBoardAndUser", mock.Anything, boardID, userID).Return(membership, nil)

	// Act
	set, err := resolver.EffectivePermissions(context.Background(), userID, &boardID)

	// Assert: board-роли членства объединяются с глобальными
	assert.NoError(t, err)
	assert.Equal(t, []string{"API:BOARDS:VIEW", "API:CARDS:EDIT"}, set.Names())
}

func TestEffectivePermissions_NoMembershipIsNotAnError(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	membershipRepo := new(MockMembershipRepository)
	resolver := rbac.NewResolver(userRepo, membershipRepo)

	userID := uuid.New()
	boardID := uuid.New()
	user := &model.User{
		ID:          userID,
		GlobalRoles: []model.Role{globalRole("base", permission("API:BOARDS:VIEW"))},
	}
	userRepo.On("GetWithGrants", mock.Anything, userID).Return(user, nil)
	membershipRepo.On("GetByBoardAndUser", mock.Anything, boardID, userID).Return(nil, nil)

	// Act
	set, err := resolver.EffectivePermissions(context.Background(), userID, &boardID)

	// Assert: отсутствие членства просто пропускает board-шаг
	assert.NoError(t, err)
	assert.Equal(t, []string{"API:BOARDS:VIEW"}, set.Names())
}

func TestEffectivePermissions_UnknownUser(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	membershipRepo := new(MockMembershipRepository)
	resolver := rbac.NewResolver(userRepo, membershipRepo)

	userID := uuid.New()
	userRepo.On("GetWithGrants", mock.Anything, userID).Return(nil, nil)

	// Act
	_, err := resolver.EffectivePermissions(context.Background(), userID, nil)

	// Assert
	assert.ErrorIs(t, err, rbac.ErrUserNotFound)
}

func TestEffectivePermissions_CachedResolutionIsStable(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	membershipRepo := new(MockMembershipRepository)
	resolver := rbac.NewResolver(userRepo, membershipRepo)

	userID := uuid.New()
	user := &model.User{
		ID:          userID,
		GlobalRoles: []model.Role{globalRole("base", permission("API:BOARDS:VIEW"))},
	}
	// Хранилище должно быть опрошено ровно один раз
	userRepo.On("GetWithGrants", mock.Anything, userID).Return(user, nil).Once()

	// Act
	first, err1 := resolver.EffectivePermissions(context.Background(), userID, nil)
	second, err2 := resolver.EffectivePermissions(context.Background(), userID, nil)

	// Assert: повторное разрешение без промежуточных мутаций дает тот же набор
	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.Equal(t, first.Names(), second.Names())
	userRepo.AssertExpectations(t)
}

func TestEffectivePermissions_ResultMutationDoesNotPoisonCache(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	membershipRepo := new(MockMembershipRepository)
	resolver := rbac.NewResolver(userRepo, membershipRepo)

	userID := uuid.New()
	user := &model.User{
		ID:          userID,
		GlobalRoles: []model.Role{globalRole("base", permission("API:BOARDS:VIEW"))},
	}
	userRepo.On("GetWithGrants", mock.Anything, userID).Return(user, nil).Once()

	// Act: мутируем полученный набор между двумя разрешениями
	first, err1 := resolver.EffectivePermissions(context.Background(), userID, nil)
	assert.NoError(t, err1)
	first.Remove("API:BOARDS:VIEW")
	first.Add("API:FORGED:EDIT")

	second, err2 := resolver.EffectivePermissions(context.Background(), userID, nil)

	// Assert: кешированный набор не затронут мутациями вызывающей стороны
	assert.NoError(t, err2)
	assert.True(t, second.Has("API:BOARDS:VIEW"))
	assert.False(t, second.Has("API:FORGED:EDIT"))
	userRepo.AssertExpectations(t)
}

func TestEffectivePermissions_InvalidateUserDropsCache(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	membershipRepo := new(MockMembershipRepository)
	resolver := rbac.NewResolver(userRepo, membershipRepo)

	userID := uuid.New()
	user := &model.User{
		ID:          userID,
		GlobalRoles: []model.Role{globalRole("base", permission("API:BOARDS:VIEW"))},
	}
	userRepo.On("GetWithGrants", mock.Anything, userID).Return(user, nil).Twice()

	// Act: разрешаем, сбрасываем кеш, разрешаем снова
	_, _ = resolver.EffectivePermissions(context.Background(), userID, nil)
	resolver.InvalidateUser(userID)
	_, err := resolver.EffectivePermissions(context.Background(), userID, nil)

	// Assert: после инвалидации хранилище опрошено повторно
	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestIsBoardAdmin_AdminRoleHolder(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	membershipRepo := new(MockMembershipRepository)
	resolver := rbac.NewResolver(userRepo, membershipRepo)

	userID := uuid.New()
	boardID := uuid.New()
	membership := &model.Membership{
		BoardID: boardID,
		UserID:  userID,
		Roles:   []model.Role{boardRole("board-admin", true)},
	}
	membershipRepo.On("GetByBoardAndUser", mock.Anything, boardID, userID).Return(membership, nil)

	// Act
	isAdmin, err := resolver.IsBoardAdmin(context.Background(), userID, boardID)

	// Assert
	assert.NoError(t, err)
	assert.True(t, isAdmin)
}

func TestIsBoardAdmin_RegularMember(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	membershipRepo := new(MockMembershipRepository)
	resolver := rbac.NewResolver(userRepo, membershipRepo)

	userID := uuid.New()
	boardID := uuid.New()
	membership := &model.Membership{
		BoardID: boardID,
		UserID:  userID,
		Roles:   []model.Role{boardRole("board-member", false)},
	}
	membershipRepo.On("GetByBoardAndUser", mock.Anything, boardID, userID).Return(membership, nil)

	// Act
	isAdmin, err := resolver.IsBoardAdmin(context.Background(), userID, boardID)

	// Assert
	assert.NoError(t, err)
	assert.False(t, isAdmin)
}

func TestIsBoardAdmin_NotAMember(t *testing.T) {
	// Arrange
	userRepo := new(MockUserRepository)
	membershipRepo := new(MockMembershipRepository)
	resolver := rbac.NewResolver(userRepo, membershipRepo)

	userID := uuid.New()
	boardID := uuid.New()
	membershipRepo.On("GetByBoardAndUser", mock.Anything, boardID, userID).Return(nil, nil)

	// Act
	isAdmin, err := resolver.IsBoardAdmin(context.Background(), userID, boardID)

	// Assert
	assert.NoError(t, err)
	assert.False(t, isAdmin)
}
