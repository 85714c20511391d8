package repository

import (
	"context"
	"errors"

	"cardstack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CardSetRepository struct {
	db *gorm.DB
}

func NewCardSetRepository(db *gorm.DB) *CardSetRepository {
	return &CardSetRepository{db: db}
}

func (r *CardSetRepository) Create(ctx context.Context, set *model.CardSet) error {
	return r.db.WithContext(ctx).Create(set).Error
}

func (r *CardSetRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CardSet, error) {
	var set model.CardSet
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&set).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCardSetNotFound
		}
		return nil, err
	}
	return &set, nil
}

func (r *CardSetRepository) GetByBoard(ctx context.Context, boardID uuid.UUID) ([]model.CardSet, error) {
	var sets []model.CardSet
	err := r.db.WithContext(ctx).Where("board_id = ?", boardID).Find(&sets).Error
	return sets, err
}

// GetCards возвращает карты, входящие в набор
func (r *CardSetRepository) GetCards(ctx context.Context, setID uuid.UUID) ([]model.Card, error) {
	var cards []model.Card
	set := model.CardSet{ID: setID}
	err := r.db.WithContext(ctx).Model(&set).Association("Cards").Find(&cards)
	return cards, err
}

func (r *CardSetRepository) AddCard(ctx context.Context, setID, cardID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"INSERT INTO card_set_cards (card_set_id, card_id) VALUES (?, ?) ON CONFLICT DO NOTHING",
		setID, cardID,
	).Error
}

func (r *CardSetRepository) RemoveCard(ctx context.Context, setID, cardID uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(
		"DELETE FROM card_set_cards WHERE card_set_id = ? AND card_id = ?",
		setID, cardID,
	).Error
}

func (r *CardSetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM card_set_cards WHERE card_set_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.CardSet{}, "id = ?", id).Error
	})
}
