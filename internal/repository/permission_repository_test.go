package repository_test

import (
	"context"
	"testing"
	"time"

	"cardstack/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestPermissionRepository_FindByName_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	permRepo := repository.NewPermissionRepository(gormDB)

	permID := uuid.New()

	// Ожидаем SQL запрос на поиск разрешения по имени
	mock.ExpectQuery(`SELECT .* FROM "permissions" WHERE name = .* LIMIT 1`).
		WithArgs("API:BOARDS:VIEW").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).
			AddRow(permID.String(), "API:BOARDS:VIEW", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))

	// Act
	permission, err := permRepo.FindByName(context.Background(), "API:BOARDS:VIEW")

	// Assert
	assert.NoError(t, err)
	assert.NotNil(t, permission)
	assert.Equal(t, permID, permission.ID)
	assert.Equal(t, "API:BOARDS:VIEW", permission.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionRepository_FindByName_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	permRepo := repository.NewPermissionRepository(gormDB)

	// Ожидаем SQL запрос на поиск разрешения по имени - не найдено
	mock.ExpectQuery(`SELECT .* FROM "permissions" WHERE name = .* LIMIT 1`).
		WithArgs("API:GHOST:VIEW").
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	permission, err := permRepo.FindByName(context.Background(), "API:GHOST:VIEW")

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, permission)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionRepository_DeleteCascade(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	permRepo := repository.NewPermissionRepository(gormDB)

	permID := uuid.New()

	// Ожидаем транзакцию: чистка ссылок из ролей и denylist'ов,
	// затем удаление самого разрешения
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM role_permissions WHERE permission_id = .*`).
		WithArgs(permID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM user_revoked_permissions WHERE permission_id = .*`).
		WithArgs(permID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "permissions" WHERE id = .*`).
		WithArgs(permID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := permRepo.DeleteCascade(context.Background(), permID)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPermissionRepository_DeleteCascade_RollbackOnError(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	permRepo := repository.NewPermissionRepository(gormDB)

	permID := uuid.New()

	// Ожидаем откат всей транзакции при ошибке на первом шаге
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM role_permissions WHERE permission_id = .*`).
		WithArgs(permID).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	// Act
	err := permRepo.DeleteCascade(context.Background(), permID)

	// Assert
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
