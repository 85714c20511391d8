package repository

import (
	"context"
	"errors"

	"cardstack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipRepository struct {
	db *gorm.DB
}

type MembershipRepositoryInterface interface {
	GetByBoardAndUser(ctx context.Context, boardID, userID uuid.UUID) (*model.Membership, error)
	ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Membership, error)
	CreateBatch(ctx context.Context, memberships []model.Membership, roleIDs map[uuid.UUID][]uuid.UUID) error
	DeleteBatch(ctx context.Context, boardID uuid.UUID, userIDs []uuid.UUID) error
	UpdateCardState(ctx context.Context, boardID, userID uuid.UUID, state string) error
}

var _ MembershipRepositoryInterface = (*MembershipRepository)(nil)

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) GetByBoardAndUser(ctx context.Context, boardID, userID uuid.UUID) (*model.Membership, error) {
	var membership model.Membership
	err := r.db.WithContext(ctx).
		Preload("Roles.Permissions").
		Where("board_id = ? AND user_id = ?", boardID, userID).
		First(&membership).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &membership, nil
}

// ListByBoard возвращает всех участников доски вместе с их board-ролями
func (r *MembershipRepository) ListByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Membership, error) {
	var memberships []model.Membership
	err := r.db.WithContext(ctx).
		Preload("Roles").
		Preload("User").
		Where("board_id = ?", boardID).
		Find(&memberships).Error
	return memberships, err
}

// CreateBatch создает членства вместе с назначением ролей в одной транзакции.
// roleIDs сопоставляет ID пользователя со списком назначаемых ему board-ролей.
func (r *MembershipRepository) CreateBatch(ctx context.Context, memberships []model.Membership, roleIDs map[uuid.UUID][]uuid.UUID) error {
	if len(memberships) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range memberships {
			if err := tx.Create(&memberships[i]).Error; err != nil {
				return err
			}
			for _, roleID := range roleIDs[memberships[i].UserID] {
				err := tx.Exec(
					"INSERT INTO membership_roles (membership_id, role_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
					memberships[i].ID, roleID,
				).Error
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// DeleteBatch удаляет членства перечисленных пользователей на доске.
// Либо удаляются все, либо ни одного.
func (r *MembershipRepository) DeleteBatch(ctx context.Context, boardID uuid.UUID, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			"DELETE FROM membership_roles WHERE membership_id IN (SELECT id FROM memberships WHERE board_id = ? AND user_id IN ?)",
			boardID, userIDs,
		).Error
		if err != nil {
			return err
		}
		return tx.Where("board_id = ? AND user_id IN ?", boardID, userIDs).
			Delete(&model.Membership{}).Error
	})
}

// UpdateCardState заменяет непрозрачное состояние карт участника
func (r *MembershipRepository) UpdateCardState(ctx context.Context, boardID, userID uuid.UUID, state string) error {
	return r.db.WithContext(ctx).
		Model(&model.Membership{}).
		Where("board_id = ? AND user_id = ?", boardID, userID).
		Update("card_state", state).Error
}
