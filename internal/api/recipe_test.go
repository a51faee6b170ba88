package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createRecipeBody() gin.H {
	return gin.H{
		"title":        "Thai Prawn Curry",
		"time_minutes": 30,
		"price":        "12.50",
		"description":  "A fragrant red curry with king prawns.",
		"tags":         []gin.H{{"name": "Thai"}, {"name": "Dinner"}},
		"ingredients":  []gin.H{{"name": "Prawns"}, {"name": "Coconut milk"}},
	}
}

func decodeRecipe(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Contains(t, resp, "recipe")
	return resp["recipe"]
}

func TestRecipeRoutesRequireAuthentication(t *testing.T) {
	env := setupTestEnv(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/recipes"},
		{http.MethodPost, "/api/v1/recipes"},
		{http.MethodGet, "/api/v1/tags"},
		{http.MethodGet, "/api/v1/ingredients"},
		{http.MethodGet, "/api/v1/users/me"},
	} {
		w := env.request(t, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, route.path)
	}

	w := env.request(t, http.MethodGet, "/api/v1/recipes", "not-a-valid-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateRecipe(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	recipe := decodeRecipe(t, w)
	assert.Equal(t, "Thai Prawn Curry", recipe["title"])
	assert.Equal(t, "12.50", recipe["price"])
	assert.Equal(t, "A fragrant red curry with king prawns.", recipe["description"])
	assert.Len(t, recipe["tags"], 2)
	assert.Len(t, recipe["ingredients"], 2)
}

func TestCreateRecipeMissingTitle(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, gin.H{
		"time_minutes": 10,
		"price":        "5.00",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRecipesOmitsDescription(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/recipes", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Recipes []map[string]interface{} `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Recipes, 1)
	assert.Equal(t, "Thai Prawn Curry", resp.Recipes[0]["title"])
	assert.NotContains(t, resp.Recipes[0], "description")
}

func TestGetRecipeIncludesDescription(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeRecipe(t, w)["id"].(string)

	w = env.request(t, http.MethodGet, "/api/v1/recipes/"+id, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	recipe := decodeRecipe(t, w)
	assert.Equal(t, "A fragrant red curry with king prawns.", recipe["description"])
}

func TestRecipesAreInvisibleToOtherUsers(t *testing.T) {
	env := setupTestEnv(t)
	aliceToken := env.registerUser(t, "alice@example.com")
	bobToken := env.registerUser(t, "bob@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", aliceToken, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeRecipe(t, w)["id"].(string)

	w = env.request(t, http.MethodGet, "/api/v1/recipes/"+id, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodDelete, "/api/v1/recipes/"+id, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/recipes", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Recipes []map[string]interface{} `json:"recipes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Recipes)
}

func TestPatchRecipeEmptyTagsClearsSet(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeRecipe(t, w)["id"].(string)

	w = env.request(t, http.MethodPatch, "/api/v1/recipes/"+id, token, gin.H{"tags": []gin.H{}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	recipe := decodeRecipe(t, w)
	assert.Len(t, recipe["tags"], 0)
	assert.Len(t, recipe["ingredients"], 2)
}

func TestPatchRecipeWithoutTagsLeavesSet(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeRecipe(t, w)["id"].(string)

	w = env.request(t, http.MethodPatch, "/api/v1/recipes/"+id, token, gin.H{"title": "Renamed Curry"})
	require.Equal(t, http.StatusOK, w.Code)

	recipe := decodeRecipe(t, w)
	assert.Equal(t, "Renamed Curry", recipe["title"])
	assert.Len(t, recipe["tags"], 2)
}

func TestPutRecipeReplacesFields(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeRecipe(t, w)["id"].(string)

	w = env.request(t, http.MethodPut, "/api/v1/recipes/"+id, token, gin.H{
		"title":        "Prawn Laksa",
		"time_minutes": 45,
		"price":        "14.00",
		"tags":         []gin.H{{"name": "Malaysian"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	recipe := decodeRecipe(t, w)
	assert.Equal(t, "Prawn Laksa", recipe["title"])
	assert.Equal(t, "14.00", recipe["price"])
	assert.Len(t, recipe["tags"], 1)
}

func TestDeleteRecipe(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeRecipe(t, w)["id"].(string)

	w = env.request(t, http.MethodDelete, "/api/v1/recipes/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/recipes/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadRecipeImage(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeRecipe(t, w)["id"].(string)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("image", "curry.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/recipes/%s/image", id), &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	recipe := decodeRecipe(t, rec)
	assert.Equal(t, env.images.url, recipe["image_url"])
	assert.Equal(t, 1, env.images.uploads)
	assert.Equal(t, "curry.jpg", env.images.lastName)
}

func TestUploadRecipeImageMissingFile(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeRecipe(t, w)["id"].(string)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/recipes/%s/image", id), &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, env.images.uploads)
}
