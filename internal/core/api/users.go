package api

import (
	"context"
	"net/http"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

type UserInfo struct {
	UserID string `json:"userId"`
}

// RegisterUser creates the backend user record for a freshly signed-up
// identity. Idempotent on the server side.
func (c *Client) RegisterUser(ctx context.Context, token string) (UserInfo, *models.Tier, error) {
	return doJSON[UserInfo](c, ctx, http.MethodPost, "/users", token, nil, nil)
}
