package api

import "context"

// Health checks backend availability.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var status HealthStatus
	if err := c.get(ctx, "/api/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
