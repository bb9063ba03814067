package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

type projectCreateRequest struct {
	Name string `json:"name"`
}

func (c *Client) ListProjects(ctx context.Context, token string) ([]models.Project, *models.Tier, error) {
	return doJSON[[]models.Project](c, ctx, http.MethodGet, "/projects", token, nil, nil)
}

func (c *Client) GetProject(ctx context.Context, token, projectID string) (models.Project, *models.Tier, error) {
	return doJSON[models.Project](c, ctx, http.MethodGet, "/projects/"+url.PathEscape(projectID), token, nil, nil)
}

func (c *Client) CreateProject(ctx context.Context, token, name string) (models.Project, *models.Tier, error) {
	return doJSON[models.Project](c, ctx, http.MethodPost, "/projects", token, projectCreateRequest{Name: name}, nil)
}

func (c *Client) DeleteProject(ctx context.Context, token, projectID string) (*models.Tier, error) {
	_, tier, err := doJSON[json.RawMessage](c, ctx, http.MethodDelete, "/projects/"+url.PathEscape(projectID), token, nil, nil)
	return tier, err
}

func (c *Client) DeleteTable(ctx context.Context, token, projectID, tableID string) (*models.Tier, error) {
	path := "/projects/" + url.PathEscape(projectID) + "/tables/" + url.PathEscape(tableID)
	_, tier, err := doJSON[json.RawMessage](c, ctx, http.MethodDelete, path, token, nil, nil)
	return tier, err
}

// UploadFile sends one spreadsheet file as multipart form data. The caller
// is responsible for the client-side size gate; the server revalidates.
func (c *Client) UploadFile(ctx context.Context, token, projectID, fileName string, file io.Reader) (models.Project, *models.Tier, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return models.Project{}, nil, fmt.Errorf("build upload: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return models.Project{}, nil, fmt.Errorf("read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return models.Project{}, nil, fmt.Errorf("build upload: %w", err)
	}

	overrides := map[int]string{
		422: "Data validation failed. Please check the file contents.",
	}
	path := "/projects/" + url.PathEscape(projectID) + "/upload"
	payload, err := c.do(ctx, http.MethodPost, path, token, buf, mw.FormDataContentType(), overrides)
	if err != nil {
		return models.Project{}, nil, err
	}

	var env envelope[models.Project]
	if err := json.Unmarshal(payload, &env); err != nil {
		return models.Project{}, nil, &Error{Message: MsgUnexpected}
	}
	return env.Data, env.Meta.Tier, nil
}
