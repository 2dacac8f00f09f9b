package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"skillswap/internal/model"
)

const keyReviews = "reviews"

type ReviewInput struct {
	SessionID  uint   `json:"session_id"`
	ReviewedID *uint  `json:"reviewed_id,omitempty"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

type reviewUpdate struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func validRating(r int) bool {
	return r >= model.MinRating && r <= model.MaxRating
}

func (c *Client) listReviews(ctx context.Context, key string, query url.Values) ([]model.Review, error) {
	return Query(ctx, c.Cache, key, func(ctx context.Context) ([]model.Review, error) {
		var out []model.Review
		err := c.do(ctx, request{method: http.MethodGet, path: "/reviews", query: query, fallback: "Failed to load reviews"}, &out)
		return out, err
	})
}

// MyReviews lists reviews the caller gave or received.
func (c *Client) MyReviews(ctx context.Context) ([]model.Review, error) {
	return c.listReviews(ctx, Key(keyReviews, "mine"), nil)
}

// UserReviews lists reviews received by userID.
func (c *Client) UserReviews(ctx context.Context, userID uint) ([]model.Review, error) {
	id := strconv.FormatUint(uint64(userID), 10)
	return c.listReviews(ctx, Key(keyReviews, "user", id), url.Values{"user_id": {id}})
}

func (c *Client) SessionReviews(ctx context.Context, sessionID uint) ([]model.Review, error) {
	id := strconv.FormatUint(uint64(sessionID), 10)
	return c.listReviews(ctx, Key(keyReviews, "session", id), url.Values{"session": {id}})
}

// CreateReview posts a review. A rating outside 1..5 is rejected locally;
// duplicates are left to the server.
func (c *Client) CreateReview(ctx context.Context, in ReviewInput) (*model.Review, error) {
	if !validRating(in.Rating) {
		return nil, ErrRatingRequired
	}
	var out model.Review
	if err := c.do(ctx, request{method: http.MethodPost, path: "/reviews", body: in, fallback: "Failed to submit review"}, &out); err != nil {
		return nil, err
	}
	c.Cache.Invalidate(keyReviews, keySessions)
	return &out, nil
}

func (c *Client) UpdateReview(ctx context.Context, id uint, rating int, comment string) (*model.Review, error) {
	if !validRating(rating) {
		return nil, ErrRatingRequired
	}
	var out model.Review
	err := c.do(ctx, request{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/reviews/%d", id),
		body:     reviewUpdate{Rating: rating, Comment: comment},
		fallback: "Failed to update review",
	}, &out)
	if err != nil {
		return nil, err
	}
	c.Cache.Invalidate(keyReviews, keySessions)
	return &out, nil
}

func (c *Client) DeleteReview(ctx context.Context, id uint) error {
	if err := c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/reviews/%d", id), fallback: "Failed to delete review"}, nil); err != nil {
		return err
	}
	c.Cache.Invalidate(keyReviews, keySessions)
	return nil
}
