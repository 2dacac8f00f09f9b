package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"skillswap/internal/model"
)

const (
	keySkills   = "skills"
	keyMySkills = "my-skills"
)

// SkillQuery narrows the server-side listing. Zero values match everything.
type SkillQuery struct {
	CategoryID uint
	Level      model.SkillLevel
}

func (q SkillQuery) key() string {
	cat := ""
	if q.CategoryID != 0 {
		cat = strconv.FormatUint(uint64(q.CategoryID), 10)
	}
	return Key(keySkills, "list", cat, string(q.Level))
}

func (q SkillQuery) values() url.Values {
	v := url.Values{}
	if q.CategoryID != 0 {
		v.Set("category", strconv.FormatUint(uint64(q.CategoryID), 10))
	}
	if q.Level != "" {
		v.Set("level", string(q.Level))
	}
	return v
}

type SkillInput struct {
	CategoryID      *uint            `json:"category"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Level           model.SkillLevel `json:"level,omitempty"`
	DurationMinutes int              `json:"duration_minutes"`
	Tags            string           `json:"tags"`
}

func (c *Client) Skills(ctx context.Context, q SkillQuery) ([]model.Skill, error) {
	return Query(ctx, c.Cache, q.key(), func(ctx context.Context) ([]model.Skill, error) {
		var out []model.Skill
		err := c.do(ctx, request{method: http.MethodGet, path: "/skills", query: q.values(), fallback: "Failed to load skills"}, &out)
		return out, err
	})
}

func (c *Client) MySkills(ctx context.Context) ([]model.Skill, error) {
	return Query(ctx, c.Cache, keyMySkills, func(ctx context.Context) ([]model.Skill, error) {
		var out []model.Skill
		err := c.do(ctx, request{method: http.MethodGet, path: "/skills/my_skills", fallback: "Failed to load your skills"}, &out)
		return out, err
	})
}

func (c *Client) Skill(ctx context.Context, id uint) (*model.Skill, error) {
	key := Key(keySkills, "detail", strconv.FormatUint(uint64(id), 10))
	return Query(ctx, c.Cache, key, func(ctx context.Context) (*model.Skill, error) {
		var out model.Skill
		if err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/skills/%d", id), fallback: "Failed to load skill"}, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
}

func (c *Client) CreateSkill(ctx context.Context, in SkillInput) (*model.Skill, error) {
	var out model.Skill
	if err := c.do(ctx, request{method: http.MethodPost, path: "/skills", body: in, fallback: "Failed to create skill"}, &out); err != nil {
		return nil, err
	}
	c.Cache.Invalidate(keySkills, keyMySkills)
	return &out, nil
}

func (c *Client) UpdateSkill(ctx context.Context, id uint, in SkillInput) (*model.Skill, error) {
	var out model.Skill
	if err := c.do(ctx, request{method: http.MethodPut, path: fmt.Sprintf("/skills/%d", id), body: in, fallback: "Failed to update skill"}, &out); err != nil {
		return nil, err
	}
	c.Cache.Invalidate(keySkills, keyMySkills)
	return &out, nil
}

func (c *Client) DeleteSkill(ctx context.Context, id uint) error {
	if err := c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/skills/%d", id), fallback: "Failed to delete skill"}, nil); err != nil {
		return err
	}
	c.Cache.Invalidate(keySkills, keyMySkills)
	return nil
}
