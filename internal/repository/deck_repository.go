package repository

import (
	"context"
	"errors"

	"cardstack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DeckRepository struct {
	db *gorm.DB
}

func NewDeckRepository(db *gorm.DB) *DeckRepository {
	return &DeckRepository{db: db}
}

func (r *DeckRepository) Create(ctx context.Context, deck *model.Deck) error {
	return r.db.WithContext(ctx).Create(deck).Error
}

func (r *DeckRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Deck, error) {
	var deck model.Deck
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&deck).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, err
	}
	return &deck, nil
}

func (r *DeckRepository) GetByBoard(ctx context.Context, boardID uuid.UUID) ([]model.Deck, error) {
	var decks []model.Deck
	err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("position").
		Find(&decks).Error
	return decks, err
}

func (r *DeckRepository) Update(ctx context.Context, deck *model.Deck) error {
	return r.db.WithContext(ctx).Save(deck).Error
}

// Delete удаляет колоду вместе с ее картами
func (r *DeckRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(
			"DELETE FROM card_set_cards WHERE card_id IN (SELECT id FROM cards WHERE deck_id = ?)", id,
		).Error
		if err != nil {
			return err
		}
		if err := tx.Where("deck_id = ?", id).Delete(&model.Card{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Deck{}, "id = ?", id).Error
	})
}
