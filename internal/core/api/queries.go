package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

// ExecuteQuery runs the query's SQL against the project's tables.
func (c *Client) ExecuteQuery(ctx context.Context, token string, q models.Query) (models.Result, *models.Tier, error) {
	overrides := map[int]string{
		400: "SQL execution failed. Please check the query.",
	}
	return doJSON[models.Result](c, ctx, http.MethodPost, "/queries", token, q, overrides)
}

// TranslateQuery asks the server to fill the query's SQL from its
// natural-language text.
func (c *Client) TranslateQuery(ctx context.Context, token string, q models.Query) (models.Query, *models.Tier, error) {
	overrides := map[int]string{
		422: "Translation failed. Please check the natural language content.",
	}
	return doJSON[models.Query](c, ctx, http.MethodPost, "/queries/translate", token, q, overrides)
}

// QueryHistory returns the project's completed queries, most recent first.
func (c *Client) QueryHistory(ctx context.Context, token, projectID string) ([]models.Query, *models.Tier, error) {
	path := "/queries?projectId=" + url.QueryEscape(projectID)
	return doJSON[[]models.Query](c, ctx, http.MethodGet, path, token, nil, nil)
}
