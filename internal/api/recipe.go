package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platewise/recipe-api/internal/apperrors"
	"github.com/platewise/recipe-api/internal/middleware"
	"github.com/platewise/recipe-api/internal/service"
)

// maxImageSize caps recipe image uploads at 5 MiB.
const maxImageSize = 5 << 20

type RecipeHandler struct {
	recipeService *service.RecipeService
	imageService  service.IImageService
	writeLimiter  *middleware.RateLimiter
	uploadLimiter *middleware.RateLimiter
}

func NewRecipeHandler(recipeService *service.RecipeService, imageService service.IImageService, writeLimiter, uploadLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		imageService:  imageService,
		writeLimiter:  writeLimiter,
		uploadLimiter: uploadLimiter,
	}
}

// RegisterRoutes registers the recipe routes on an authenticated group.
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.DELETE("/:id", h.DeleteRecipe)

		writes := recipes.Group("")
		if h.writeLimiter != nil {
			writes.Use(h.writeLimiter.RateLimitMiddleware())
		}
		{
			writes.POST("", h.CreateRecipe)
			writes.PUT("/:id", h.UpdateRecipe)
			writes.PATCH("/:id", h.PatchRecipe)
		}

		uploads := recipes.Group("")
		if h.uploadLimiter != nil {
			uploads.Use(h.uploadLimiter.RateLimitMiddleware())
		}
		uploads.POST("/:id/image", h.UploadRecipeImage)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	recipes, err := h.recipeService.ListRecipes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]interface{}, len(recipes))
	for i := range recipes {
		out[i] = renderRecipe(actionList, &recipes[i])
	}
	c.JSON(http.StatusOK, gin.H{"recipes": out})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), userID, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": renderRecipe(actionDetail, recipe)})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.RecipeInput{
		Title:       req.Title,
		TimeMinutes: *req.TimeMinutes,
		Price:       *req.Price,
		Description: req.Description,
		Link:        req.Link,
	}
	if req.Tags != nil {
		input.Tags = *req.Tags
	}
	if req.Ingredients != nil {
		input.Ingredients = *req.Ingredients
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), userID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": renderRecipe(actionDetail, recipe)})
}

// UpdateRecipe handles PUT: all scalar fields are required and replace the
// stored values; tag/ingredient sets are replaced only when the key is present.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := service.RecipePatch{
		Title:       &req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: &req.Description,
		Link:        &req.Link,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), userID, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": renderRecipe(actionDetail, recipe)})
}

// PatchRecipe handles PATCH: absent fields keep their stored values.
func (h *RecipeHandler) PatchRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	patch := service.RecipePatch{
		Title:       req.Title,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Description: req.Description,
		Link:        req.Link,
		Tags:        req.Tags,
		Ingredients: req.Ingredients,
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), userID, id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": renderRecipe(actionDetail, recipe)})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	if err := h.recipeService.DeleteRecipe(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UploadRecipeImage accepts a multipart form with an "image" file, stores the
// blob and records the returned reference on the recipe.
func (h *RecipeHandler) UploadRecipeImage(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	// Ownership check first so a non-owner learns nothing beyond "not found".
	if _, err := h.recipeService.GetRecipe(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds maximum size"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image file"})
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read image file"})
		return
	}

	imageURL, err := h.imageService.UploadRecipeImage(c.Request.Context(), id, data, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "image upload failed"})
		return
	}

	recipe, err := h.recipeService.SetRecipeImage(c.Request.Context(), userID, id, imageURL)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": renderRecipe(actionDetail, recipe)})
}

// respondError translates a domain error into a transport response.
func respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		c.JSON(status, gin.H{"error": ve.Error()})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
