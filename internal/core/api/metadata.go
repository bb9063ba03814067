package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

// GetTier fetches the caller's tier. The endpoint has returned both a bare
// Tier and a {tier: Tier} wrapper across API versions; accept either.
func (c *Client) GetTier(ctx context.Context, token string) (*models.Tier, error) {
	payload, err := c.do(ctx, http.MethodGet, "/metadata/tier", token, nil, "", nil)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Tier *models.Tier `json:"tier"`
	}
	if err := json.Unmarshal(payload, &wrapped); err == nil && wrapped.Tier != nil {
		return wrapped.Tier, nil
	}

	var tier models.Tier
	if err := json.Unmarshal(payload, &tier); err != nil || tier.Name == "" {
		return nil, &Error{Message: MsgUnexpected}
	}
	return &tier, nil
}
