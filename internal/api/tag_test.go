package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) listTags(t *testing.T, token, query string) []map[string]interface{} {
	t.Helper()

	w := e.request(t, http.MethodGet, "/api/v1/tags"+query, token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Tags []map[string]interface{} `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Tags
}

func TestListTags(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")
	otherToken := env.registerUser(t, "other@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)

	tags := env.listTags(t, token, "")
	require.Len(t, tags, 2)
	assert.Equal(t, "Thai", tags[0]["name"])
	assert.Equal(t, "Dinner", tags[1]["name"])

	assert.Empty(t, env.listTags(t, otherToken, ""))
}

func TestListTagsAssignedOnly(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)
	id := decodeRecipe(t, w)["id"].(string)

	// Detach everything; the tags remain but are no longer assigned.
	w = env.request(t, http.MethodPatch, "/api/v1/recipes/"+id, token, gin.H{"tags": []gin.H{}})
	require.Equal(t, http.StatusOK, w.Code)

	assert.Len(t, env.listTags(t, token, ""), 2)
	assert.Empty(t, env.listTags(t, token, "?assigned_only=1"))
}

func TestRenameTag(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)

	tags := env.listTags(t, token, "")
	require.NotEmpty(t, tags)
	id := tags[0]["id"].(string)

	w = env.request(t, http.MethodPatch, "/api/v1/tags/"+id, token, gin.H{"name": "Thai Street Food"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Tag map[string]interface{} `json:"tag"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Thai Street Food", resp.Tag["name"])
}

func TestRenameTagToExistingNameConflicts(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)

	tags := env.listTags(t, token, "")
	require.Len(t, tags, 2)

	w = env.request(t, http.MethodPatch, "/api/v1/tags/"+tags[0]["id"].(string), token, gin.H{"name": tags[1]["name"]})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteTag(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")
	otherToken := env.registerUser(t, "other@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)

	tags := env.listTags(t, token, "")
	require.NotEmpty(t, tags)
	id := tags[0]["id"].(string)

	w = env.request(t, http.MethodDelete, "/api/v1/tags/"+id, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodDelete, "/api/v1/tags/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, env.listTags(t, token, ""), 1)
}

func TestListIngredients(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/ingredients", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Ingredients []map[string]interface{} `json:"ingredients"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Ingredients, 2)
	assert.Equal(t, "Prawns", resp.Ingredients[0]["name"])
	assert.Equal(t, "Coconut milk", resp.Ingredients[1]["name"])
}

func TestRenameAndDeleteIngredient(t *testing.T) {
	env := setupTestEnv(t)
	token := env.registerUser(t, "cook@example.com")

	w := env.request(t, http.MethodPost, "/api/v1/recipes", token, createRecipeBody())
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodGet, "/api/v1/ingredients", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Ingredients []map[string]interface{} `json:"ingredients"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Ingredients)
	id := resp.Ingredients[0]["id"].(string)

	w = env.request(t, http.MethodPatch, "/api/v1/ingredients/"+id, token, gin.H{"name": "King Prawns"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.request(t, http.MethodDelete, "/api/v1/ingredients/"+id, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
