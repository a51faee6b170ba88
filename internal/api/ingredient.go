package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platewise/recipe-api/internal/middleware"
	"github.com/platewise/recipe-api/internal/service"
)

type IngredientHandler struct {
	ingredientService *service.IngredientService
}

func NewIngredientHandler(ingredientService *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredientService: ingredientService}
}

// RegisterRoutes registers the ingredient routes on an authenticated group.
func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.PATCH("/:id", h.UpdateIngredient)
		ingredients.DELETE("/:id", h.DeleteIngredient)
	}
}

type UpdateIngredientRequest struct {
	Name string `json:"name" binding:"required"`
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	assignedOnly := c.Query("assigned_only") == "1" || c.Query("assigned_only") == "true"

	ingredients, err := h.ingredientService.ListIngredients(c.Request.Context(), userID, assignedOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": toIngredientResponses(ingredients)})
}

func (h *IngredientHandler) UpdateIngredient(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not found"})
		return
	}

	var req UpdateIngredientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ingredient, err := h.ingredientService.UpdateIngredient(c.Request.Context(), userID, id, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredient": IngredientResponse{ID: ingredient.ID, Name: ingredient.Name}})
}

func (h *IngredientHandler) DeleteIngredient(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ingredient not found"})
		return
	}

	if err := h.ingredientService.DeleteIngredient(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
