package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/StratSim/stratsim_api/internal/models"
)

// ProductRepository reads the simulated product portfolio.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetAll returns the full portfolio.
func (r *ProductRepository) GetAll() ([]models.Product, error) {
	const q = `SELECT * FROM products ORDER BY id`
	var products []models.Product
	if err := r.db.Select(&products, q); err != nil {
		return nil, err
	}
	return products, nil
}

// GetActiveIDs returns the ids of the products currently in play.
func (r *ProductRepository) GetActiveIDs() ([]string, error) {
	const q = `SELECT id FROM products WHERE is_active = true ORDER BY id`
	var ids []string
	if err := r.db.Select(&ids, q); err != nil {
		return nil, err
	}
	return ids, nil
}
