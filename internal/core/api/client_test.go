package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

func TestRequestCarriesAuthHeaders(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		_, _ = w.Write([]byte(`{"meta":{"tier":null},"data":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, _, err := c.ListProjects(context.Background(), "tok-123"); err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotReqID == "" {
		t.Error("X-Request-ID not set")
	}
}

func TestEnvelopeDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"meta": {"tier": {"name": "Free", "queryLimit": "10", "queryLimitUsage": "3"}},
			"data": {"id": "p1", "name": "demo", "tables": []}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	project, tier, err := c.GetProject(context.Background(), "tok", "p1")
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if project.ID != "p1" || project.Name != "demo" {
		t.Errorf("project = %+v", project)
	}
	if tier == nil || tier.Name != "Free" || tier.QueryLimitUsage != "3" {
		t.Errorf("tier = %+v", tier)
	}
}

func TestStatusErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		call    func(c *Client) error
		wantMsg string
	}{
		{
			name:   "403 default",
			status: http.StatusForbidden,
			call: func(c *Client) error {
				_, _, err := c.ListProjects(context.Background(), "tok")
				return err
			},
			wantMsg: "Forbidden: You do not have permission to perform this action.",
		},
		{
			name:   "422 translate override",
			status: http.StatusUnprocessableEntity,
			call: func(c *Client) error {
				_, _, err := c.TranslateQuery(context.Background(), "tok", models.Query{NLQuery: "x"})
				return err
			},
			wantMsg: "Translation failed. Please check the natural language content.",
		},
		{
			name:   "422 upload override",
			status: http.StatusUnprocessableEntity,
			call: func(c *Client) error {
				_, _, err := c.UploadFile(context.Background(), "tok", "p1", "data.xlsx", strings.NewReader("bytes"))
				return err
			},
			wantMsg: "Data validation failed. Please check the file contents.",
		},
		{
			name:   "500 default",
			status: http.StatusInternalServerError,
			call: func(c *Client) error {
				_, _, err := c.ExecuteQuery(context.Background(), "tok", models.Query{SQLQuery: "SELECT 1"})
				return err
			},
			wantMsg: "Server error: Something went wrong on our end.",
		},
		{
			name:   "unmapped status uses server body",
			status: http.StatusConflict,
			body:   "project name taken",
			call: func(c *Client) error {
				_, _, err := c.CreateProject(context.Background(), "tok", "demo")
				return err
			},
			wantMsg: "project name taken",
		},
		{
			name:   "unmapped status with empty body",
			status: http.StatusConflict,
			call: func(c *Client) error {
				_, _, err := c.CreateProject(context.Background(), "tok", "demo")
				return err
			},
			wantMsg: MsgUnexpected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := tt.call(New(srv.URL))
			if err == nil {
				t.Fatal("expected error")
			}
			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("error type = %T", err)
			}
			if apiErr.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", apiErr.Message, tt.wantMsg)
			}
		})
	}
}

func TestNetworkErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // unreachable from here on

	_, _, err := New(srv.URL).ListProjects(context.Background(), "tok")
	if err == nil || err.Error() != MsgNetworkError {
		t.Errorf("err = %v, want network error message", err)
	}
}

func TestGetTierAcceptsBothShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"wrapped", `{"tier": {"name": "Pro", "queryLimit": "-1"}}`},
		{"bare", `{"name": "Pro", "queryLimit": "-1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			tier, err := New(srv.URL).GetTier(context.Background(), "tok")
			if err != nil {
				t.Fatalf("GetTier: %v", err)
			}
			if tier.Name != "Pro" || tier.QueryLimit != "-1" {
				t.Errorf("tier = %+v", tier)
			}
		})
	}
}

func TestFeedbackMessages(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := New(srv.URL).SubmitFeedback(context.Background(), "tok", models.Feedback{Type: models.FeedbackBug, Message: "hi"})
	if err == nil || err.Error() != "Too many requests. Please wait a moment and try again." {
		t.Errorf("err = %v", err)
	}
}
