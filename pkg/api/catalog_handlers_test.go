package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategoryRequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodPost, "/categories", "", map[string]string{
		"category_name": "Electronics",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token is required", env.Message)
}

func TestCreateCategoryRejectsNonAdmin(t *testing.T) {
	ts := newTestServer(t)
	token := ts.registerAndLogin(t, "user@example.com", "secret123")

	rec, env := ts.do(t, http.MethodPost, "/categories", token, map[string]string{
		"category_name": "Electronics",
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Unauthorized user", env.Message)
}

func TestCreateCategoryAsAdmin(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t)

	rec, env := ts.do(t, http.MethodPost, "/categories", token, map[string]string{
		"category_name": "Electronics",
	})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Category added successfully", env.Message)
}

func TestCreateCategoryMissingName(t *testing.T) {
	ts := newTestServer(t)
	token := ts.adminToken(t)

	rec, env := ts.do(t, http.MethodPost, "/categories", token, map[string]string{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "category_name is required", env.Message)
}

func TestListCategories(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken(t)
	user := ts.registerAndLogin(t, "user@example.com", "secret123")

	for _, name := range []string{"Electronics", "Books"} {
		rec, _ := ts.do(t, http.MethodPost, "/categories", admin, map[string]string{"category_name": name})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec, env := ts.do(t, http.MethodGet, "/categories", user, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Categories fetched successfully", env.Message)

	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var categories []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &categories))
	assert.Len(t, categories, 2)
}

func TestListCategoriesRequiresValidToken(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodGet, "/categories", "deadbeef", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", env.Message)
}

func TestCreateAndListProducts(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken(t)
	user := ts.registerAndLogin(t, "user@example.com", "secret123")

	rec, env := ts.do(t, http.MethodPost, "/categories", admin, map[string]string{"category_name": "Electronics"})
	require.Equal(t, http.StatusCreated, rec.Code)

	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var created struct {
		ID int64 `json:"category_id"`
	}
	require.NoError(t, json.Unmarshal(data, &created))

	rec, env = ts.do(t, http.MethodPost, "/products", admin, map[string]interface{}{
		"product_name": "Wireless Mouse",
		"price":        24.99,
		"description":  "2.4GHz wireless mouse",
		"category_id":  created.ID,
		"image_url":    "uploads/mouse.jpg",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Product added successfully", env.Message)

	rec, env = ts.do(t, http.MethodGet, "/products", user, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Products fetched successfully", env.Message)

	data, err = json.Marshal(env.Data)
	require.NoError(t, err)
	var products []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Wireless Mouse", products[0]["product_title"])
	assert.Equal(t, "Electronics", products[0]["category_name"])
}

func TestCreateProductMissingFields(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken(t)

	rec, env := ts.do(t, http.MethodPost, "/products", admin, map[string]interface{}{
		"description": "no name, no price, no category",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "product_name, price and category_id are required", env.Message)
}

func TestCreateProductMissingDescription(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken(t)

	rec, env := ts.do(t, http.MethodPost, "/products", admin, map[string]interface{}{
		"product_name": "Wireless Mouse",
		"price":        24.99,
		"category_id":  1,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "description is required", env.Message)
}

func TestCreateProductUnknownCategory(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.adminToken(t)

	rec, env := ts.do(t, http.MethodPost, "/products", admin, map[string]interface{}{
		"product_name": "Orphan",
		"price":        5.0,
		"description":  "points at a category that does not exist",
		"category_id":  999,
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Message, "category_id")
}

func TestCreateProductRejectsNonAdmin(t *testing.T) {
	ts := newTestServer(t)
	user := ts.registerAndLogin(t, "user@example.com", "secret123")

	rec, env := ts.do(t, http.MethodPost, "/products", user, map[string]interface{}{
		"product_name": "Mouse",
		"price":        24.99,
		"category_id":  1,
	})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Unauthorized user", env.Message)
}

func TestUnknownRouteReturnsEnvelope(t *testing.T) {
	ts := newTestServer(t)

	rec, env := ts.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}
