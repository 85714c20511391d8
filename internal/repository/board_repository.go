package repository

import (
	"context"
	"errors"

	"cardstack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BoardRepository struct {
	db *gorm.DB
}

type BoardRepositoryInterface interface {
	CreateWithOwner(ctx context.Context, board *model.Board, ownerID, adminRoleID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error)
	GetForUser(ctx context.Context, userID uuid.UUID) ([]model.Board, error)
	Update(ctx context.Context, board *model.Board) error
	UpdateInviteCode(ctx context.Context, boardID uuid.UUID, code string) error
}

var _ BoardRepositoryInterface = (*BoardRepository)(nil)

func NewBoardRepository(db *gorm.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// CreateWithOwner создает доску и в той же транзакции членство владельца
// с административной ролью доски
func (r *BoardRepository) CreateWithOwner(ctx context.Context, board *model.Board, ownerID, adminRoleID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(board).Error; err != nil {
			return err
		}
		membership := model.Membership{
			BoardID: board.ID,
			UserID:  ownerID,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}
		return tx.Exec(
			"INSERT INTO membership_roles (membership_id, role_id) VALUES (?, ?)",
			membership.ID, adminRoleID,
		).Error
	})
}

func (r *BoardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Board, error) {
	var board model.Board
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&board).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // Return nil, nil to indicate that the board was not found
		}
		return nil, err
	}
	return &board, nil
}

// GetForUser возвращает доски, на которых пользователь состоит участником
func (r *BoardRepository) GetForUser(ctx context.Context, userID uuid.UUID) ([]model.Board, error) {
	var boards []model.Board
	err := r.db.WithContext(ctx).
		Joins("JOIN memberships ON memberships.board_id = boards.id").
		Where("memberships.user_id = ?", userID).
		Find(&boards).Error
	return boards, err
}

func (r *BoardRepository) Update(ctx context.Context, board *model.Board) error {
	return r.db.WithContext(ctx).Omit("Memberships").Save(board).Error
}

// UpdateInviteCode атомарно заменяет инвайт-код доски;
// старый код перестает действовать сразу после коммита
func (r *BoardRepository) UpdateInviteCode(ctx context.Context, boardID uuid.UUID, code string) error {
	return r.db.WithContext(ctx).
		Model(&model.Board{}).
		Where("id = ?", boardID).
		Update("invite_code", code).Error
}
