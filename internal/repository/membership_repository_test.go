package repository_test

import (
	"context"
	"testing"

	"cardstack/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMembershipRepository_GetByBoardAndUser_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	userID := uuid.New()

	// Ожидаем SQL запрос на поиск членства - не найдено
	mock.ExpectQuery(`SELECT .* FROM "memberships" WHERE board_id = .* AND user_id = .* LIMIT 1`).
		WithArgs(boardID, userID).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	membership, err := membershipRepo.GetByBoardAndUser(context.Background(), boardID, userID)

	// Assert
	assert.NoError(t, err)
	assert.Nil(t, membership)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_DeleteBatch(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	userID := uuid.New()

	// Ожидаем транзакцию: чистка назначений ролей, затем удаление членств
	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM membership_roles WHERE membership_id IN`).
		WithArgs(boardID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "memberships" WHERE board_id = .* AND user_id IN`).
		WithArgs(boardID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := membershipRepo.DeleteBatch(context.Background(), boardID, []uuid.UUID{userID})

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_DeleteBatch_Empty(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	// Act: пустой список - ни одного запроса к БД
	err := membershipRepo.DeleteBatch(context.Background(), uuid.New(), nil)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMembershipRepository_UpdateCardState(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	membershipRepo := repository.NewMembershipRepository(gormDB)

	boardID := uuid.New()
	userID := uuid.New()
	state := `{"hand":["c1","c2"]}`

	// Ожидаем SQL запрос на замену состояния карт
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "memberships" SET "card_state"=.* WHERE board_id = .* AND user_id = .*`).
		WithArgs(state, boardID, userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := membershipRepo.UpdateCardState(context.Background(), boardID, userID, state)

	// Assert
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
