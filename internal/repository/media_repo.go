package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/StratSim/stratsim_api/internal/models"
)

// MediaRepository reads the promotion media catalog.
type MediaRepository struct {
	db *sqlx.DB
}

// NewMediaRepository creates a new MediaRepository.
func NewMediaRepository(db *sqlx.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// GetAll returns the full catalog, active entries first.
func (r *MediaRepository) GetAll() ([]models.MediaChannel, error) {
	const q = `SELECT * FROM media_channels ORDER BY is_active DESC, id`
	var media []models.MediaChannel
	if err := r.db.Select(&media, q); err != nil {
		return nil, err
	}
	return media, nil
}

// GetActiveIDs returns the ids of the currently valid media channels, the
// set decisions are normalized against.
func (r *MediaRepository) GetActiveIDs() ([]string, error) {
	const q = `SELECT id FROM media_channels WHERE is_active = true ORDER BY id`
	var ids []string
	if err := r.db.Select(&ids, q); err != nil {
		return nil, err
	}
	return ids, nil
}
