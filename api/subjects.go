package api

import (
	"context"
	"fmt"
)

// CreateSubjectRequest creates a subject. Optional fields left nil are omitted.
type CreateSubjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

// UpdateSubjectRequest updates a subject; nil fields are left unchanged.
type UpdateSubjectRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Color       *string `json:"color,omitempty"`
}

func (c *Client) ListSubjects(ctx context.Context) ([]Subject, error) {
	var subjects []Subject
	if err := c.get(ctx, "/api/subjects", nil, &subjects); err != nil {
		return nil, err
	}
	return subjects, nil
}

func (c *Client) GetSubject(ctx context.Context, id int) (*Subject, error) {
	var subject Subject
	if err := c.get(ctx, fmt.Sprintf("/api/subjects/%d", id), nil, &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

func (c *Client) CreateSubject(ctx context.Context, req CreateSubjectRequest) (*Subject, error) {
	var subject Subject
	if err := c.post(ctx, "/api/subjects", req, &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

func (c *Client) UpdateSubject(ctx context.Context, id int, req UpdateSubjectRequest) (*Subject, error) {
	var subject Subject
	if err := c.put(ctx, fmt.Sprintf("/api/subjects/%d", id), req, &subject); err != nil {
		return nil, err
	}
	return &subject, nil
}

func (c *Client) DeleteSubject(ctx context.Context, id int) error {
	return c.delete(ctx, fmt.Sprintf("/api/subjects/%d", id))
}
