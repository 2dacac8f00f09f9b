package client

import (
	"context"
	"fmt"
	"net/http"

	"skillswap/internal/model"
)

const keyCategories = "categories"

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	return Query(ctx, c.Cache, keyCategories, func(ctx context.Context) ([]model.Category, error) {
		var out []model.Category
		err := c.do(ctx, request{method: http.MethodGet, path: "/categories", fallback: "Failed to load categories"}, &out)
		return out, err
	})
}

func (c *Client) CreateCategory(ctx context.Context, in CategoryInput) (*model.Category, error) {
	var out model.Category
	err := c.do(ctx, request{method: http.MethodPost, path: "/categories", body: in, fallback: "Failed to create category"}, &out)
	if err != nil {
		return nil, err
	}
	c.Cache.Invalidate(keyCategories)
	return &out, nil
}

func (c *Client) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (*model.Category, error) {
	var out model.Category
	err := c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/categories/%d", id), body: in, fallback: "Failed to update category"}, &out)
	if err != nil {
		return nil, err
	}
	c.Cache.Invalidate(keyCategories)
	return &out, nil
}

// DeleteCategory also drops skill listings, whose category is cleared server-side.
func (c *Client) DeleteCategory(ctx context.Context, id uint) error {
	err := c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/categories/%d", id), fallback: "Failed to delete category"}, nil)
	if err != nil {
		return err
	}
	c.Cache.Invalidate(keyCategories, keySkills, keyMySkills)
	return nil
}
