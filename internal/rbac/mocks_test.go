package rbac_test

import (
	"context"

	"cardstack/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Моки репозиториев для тестов RBAC-ядра

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetWithGrants(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

type MockMembershipRepository struct {
	mock.Mock
}

func (m *MockMembershipRepository) GetByBoardAndUser(ctx context.Context, boardID, userID uuid.UUID) (*model.Membership, error) {
	args := m.Called(ctx, boardID, userID)
	membership := args.Get(0)
	if membership == nil {
		return nil, args.Error(1)
	}
	return membership.(*model.Membership), args.Error(1)
}

func (m *MockMembershipRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Membership, error) {
	args := m.Called(ctx, boardID)
	memberships := args.Get(0)
	if memberships == nil {
		return nil, args.Error(1)
	}
	return memberships.([]model.Membership), args.Error(1)
}

func (m *MockMembershipRepository) CreateBatch(ctx context.Context, memberships []model.Membership, roleIDs map[uuid.UUID][]uuid.UUID) error {
	args := m.Called(ctx, memberships, roleIDs)
	return args.Error(0)
}

func (m *MockMembershipRepository) DeleteBatch(ctx context.Context, boardID uuid.UUID, userIDs []uuid.UUID) error {
	args := m.Called(ctx, boardID, userIDs)
	return args.Error(0)
}

func (m *MockMembershipRepository) UpdateCardState(ctx context.Context, boardID, userID uuid.UUID, state string) error {
	args := m.Called(ctx, boardID, userID, state)
	return args.Error(0)
}

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) CreateWithGrants(ctx context.Context, role *model.Role, grantUserIDs []uuid.UUID) error {
	args := m.Called(ctx, role, grantUserIDs)
	return args.Error(0)
}

func (m *MockRoleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	args := m.Called(ctx, name)
	role := args.Get(0)
	if role == nil {
		return nil, args.Error(1)
	}
	return role.(*model.Role), args.Error(1)
}

func (m *MockRoleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	args := m.Called(ctx, id)
	role := args.Get(0)
	if role == nil {
		return nil, args.Error(1)
	}
	return role.(*model.Role), args.Error(1)
}

func (m *MockRoleRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Role, error) {
	args := m.Called(ctx, ids)
	roles := args.Get(0)
	if roles == nil {
		return nil, args.Error(1)
	}
	return roles.([]model.Role), args.Error(1)
}

func (m *MockRoleRepository) List(ctx context.Context, scope string) ([]model.Role, error) {
	args := m.Called(ctx, scope)
	roles := args.Get(0)
	if roles == nil {
		return nil, args.Error(1)
	}
	return roles.([]model.Role), args.Error(1)
}

func (m *MockRoleRepository) Update(ctx context.Context, role *model.Role, permissions *[]model.Permission) error {
	args := m.Called(ctx, role, permissions)
	return args.Error(0)
}

func (m *MockRoleRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoleRepository) ListUserIDsWithRole(ctx context.Context, roleName string) ([]uuid.UUID, error) {
	args := m.Called(ctx, roleName)
	ids := args.Get(0)
	if ids == nil {
		return nil, args.Error(1)
	}
	return ids.([]uuid.UUID), args.Error(1)
}

type MockPermissionRepository struct {
	mock.Mock
}

func (m *MockPermissionRepository) Create(ctx context.Context, permission *model.Permission) error {
	args := m.Called(ctx, permission)
	return args.Error(0)
}

func (m *MockPermissionRepository) FindByName(ctx context.Context, name string) (*model.Permission, error) {
	args := m.Called(ctx, name)
	permission := args.Get(0)
	if permission == nil {
		return nil, args.Error(1)
	}
	return permission.(*model.Permission), args.Error(1)
}

func (m *MockPermissionRepository) FindByNames(ctx context.Context, names []string) ([]model.Permission, error) {
	args := m.Called(ctx, names)
	permissions := args.Get(0)
	if permissions == nil {
		return nil, args.Error(1)
	}
	return permissions.([]model.Permission), args.Error(1)
}

func (m *MockPermissionRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Permission, error) {
	args := m.Called(ctx, ids)
	permissions := args.Get(0)
	if permissions == nil {
		return nil, args.Error(1)
	}
	return permissions.([]model.Permission), args.Error(1)
}

func (m *MockPermissionRepository) List(ctx context.Context) ([]model.Permission, error) {
	args := m.Called(ctx)
	permissions := args.Get(0)
	if permissions == nil {
		return nil, args.Error(1)
	}
	return permissions.([]model.Permission), args.Error(1)
}

func (m *MockPermissionRepository) DeleteCascade(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockBoardRepository struct {
	mock.Mock
}

func (m *MockBoardRepository) CreateWithOwner(ctx context.Context, board *model.Board, ownerID, adminRoleID uuid.UUID) error {
	args := m.Called(ctx, board, ownerID, adminRoleID)
	return args.Error(0)
}

func (m *MockBoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	args := m.Called(ctx, id)
	board := args.Get(0)
	if board == nil {
		return nil, args.Error(1)
	}
	return board.(*model.Board), args.Error(1)
}

func (m *MockBoardRepository) GetForUser(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	args := m.Called(ctx, userID)
	boards := args.Get(0)
	if boards == nil {
		return nil, args.Error(1)
	}
	return boards.([]model.Board), args.Error(1)
}

func (m *MockBoardRepository) Update(ctx context.Context, board *model.Board) error {
	args := m.Called(ctx, board)
	return args.Error(0)
}

func (m *MockBoardRepository) UpdateInviteCode(ctx context.Context, boardID uuid.UUID, code string) error {
	args := m.Called(ctx, boardID, code)
	return args.Error(0)
}

type MockRevocationRepository struct {
	mock.Mock
}

func (m *MockRevocationRepository) Add(ctx context.Context, userID uuid.UUID, permissions []model.Permission) error {
	args := m.Called(ctx, userID, permissions)
	return args.Error(0)
}

func (m *MockRevocationRepository) Set(ctx context.Context, userID uuid.UUID, permissions []model.Permission) error {
	args := m.Called(ctx, userID, permissions)
	return args.Error(0)
}

func (m *MockRevocationRepository) Remove(ctx context.Context, userID uuid.UUID, permissions []model.Permission) error {
	args := m.Called(ctx, userID, permissions)
	return args.Error(0)
}

func (m *MockRevocationRepository) Get(ctx context.Context, userID uuid.UUID) ([]model.Permission, error) {
	args := m.Called(ctx, userID)
	permissions := args.Get(0)
	if permissions == nil {
		return nil, args.Error(1)
	}
	return permissions.([]model.Permission), args.Error(1)
}
