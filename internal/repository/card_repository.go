package repository

import (
	"context"
	"errors"
	"time"

	"cardstack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Create(card).Error
}

func (r *CardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) GetByDeck(ctx context.Context, deckID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Where("deck_id = ?", deckID).
		Order("position").
		Find(&cards).Error
	return cards, err
}

func (r *CardRepository) Update(ctx context.Context, card *model.Card) error {
	return r.db.WithContext(ctx).Save(card).Error
}

func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM card_set_cards WHERE card_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Card{}, "id = ?", id).Error
	})
}

// Move переносит карту в другую колоду на указанную позицию
func (r *CardRepository) Move(ctx context.Context, cardID, deckID uuid.UUID, position int) error {
	return r.db.WithContext(ctx).
		Model(&model.Card{}).
		Where("id = ?", cardID).
		Updates(map[string]interface{}{"deck_id": deckID, "position": position}).Error
}

func (r *CardRepository) Assign(ctx context.Context, cardID uuid.UUID, userID *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&model.Card{}).
		Where("id = ?", cardID).
		Update("assigned_to", userID).Error
}

func (r *CardRepository) SetDueDate(ctx context.Context, cardID uuid.UUID, dueDate *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Card{}).
		Where("id = ?", cardID).
		Update("due_date", dueDate).Error
}
