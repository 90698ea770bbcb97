package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/StratSim/stratsim_api/internal/repository"
	"github.com/StratSim/stratsim_api/internal/utils"
)

// CatalogHandler serves the static catalogs decisions reference.
type CatalogHandler struct {
	productRepo *repository.ProductRepository
	mediaRepo   *repository.MediaRepository
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(productRepo *repository.ProductRepository, mediaRepo *repository.MediaRepository) *CatalogHandler {
	return &CatalogHandler{
		productRepo: productRepo,
		mediaRepo:   mediaRepo,
	}
}

// ListProducts handles GET /v1/catalog/products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	products, err := h.productRepo.GetAll()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load products")
		return
	}
	utils.Success(c, 200, "Products retrieved", products)
}

// ListMedia handles GET /v1/catalog/media
func (h *CatalogHandler) ListMedia(c *gin.Context) {
	media, err := h.mediaRepo.GetAll()
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to load media channels")
		return
	}
	utils.Success(c, 200, "Media channels retrieved", media)
}
