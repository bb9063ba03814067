package query

import (
	"context"

	"github.com/aidb-dev/aidb-cli/internal/core/auth"
	"github.com/aidb-dev/aidb-cli/internal/core/models"
	"github.com/aidb-dev/aidb-cli/internal/core/tier"
)

// API is the slice of the backend client the workflow needs.
type API interface {
	TranslateQuery(ctx context.Context, token string, q models.Query) (models.Query, *models.Tier, error)
	ExecuteQuery(ctx context.Context, token string, q models.Query) (models.Result, *models.Tier, error)
	QueryHistory(ctx context.Context, token, projectID string) ([]models.Query, *models.Tier, error)
}

// Controller coordinates one project's query workflow: it gates every
// network action on the session and tier state, merges returned tier
// metadata, and invalidates history after mutations.
type Controller struct {
	session  *auth.Session
	tiers    *tier.Store
	api      API
	workflow *Workflow
	history  *HistoryCache
}

func NewController(session *auth.Session, tiers *tier.Store, backend API, projectID string) *Controller {
	c := &Controller{
		session:  session,
		tiers:    tiers,
		api:      backend,
		workflow: NewWorkflow(projectID),
	}
	c.history = NewHistoryCache(c.fetchHistory, tiers.UpdateIfNotNull)
	return c
}

func (c *Controller) Workflow() *Workflow    { return c.workflow }
func (c *Controller) History() *HistoryCache { return c.history }

type queryWithTier struct {
	query models.Query
	tier  *models.Tier
}

type resultWithTier struct {
	result models.Result
	tier   *models.Tier
}

// Translate runs the translate action: preconditions, guarded network
// call, tier merge, translation memo, history invalidation. On failure
// the workflow state is untouched and history stays fresh.
func (c *Controller) Translate(ctx context.Context) (models.Query, error) {
	if err := c.workflow.CheckTranslate(c.tiers.Tier()); err != nil {
		return models.Query{}, err
	}

	user, token := c.session.Credentials()
	out, err := auth.Guard(user, token, func(token string) (queryWithTier, error) {
		q, t, err := c.api.TranslateQuery(ctx, token, c.workflow.Query())
		return queryWithTier{query: q, tier: t}, err
	})
	if err != nil {
		return models.Query{}, err
	}

	c.tiers.UpdateIfNotNull(out.tier)
	c.workflow.CompleteTranslate(out.query)
	c.history.MarkStale()
	return c.workflow.Query(), nil
}

// Submit executes the working query's SQL. The finalized query (trimmed,
// semicolon stripped) is what goes over the wire; on success a fresh
// working query is started and history is invalidated.
func (c *Controller) Submit(ctx context.Context) (models.Result, error) {
	q, err := c.workflow.PrepareSubmit(c.tiers.Tier())
	if err != nil {
		return models.Result{}, err
	}

	user, token := c.session.Credentials()
	out, err := auth.Guard(user, token, func(token string) (resultWithTier, error) {
		r, t, err := c.api.ExecuteQuery(ctx, token, q)
		return resultWithTier{result: r, tier: t}, err
	})
	if err != nil {
		return models.Result{}, err
	}

	c.tiers.UpdateIfNotNull(out.tier)
	c.workflow.CompleteSubmit()
	c.history.MarkStale()
	return out.result, nil
}

// HistoryEntries returns the project's history, fetching only when stale.
func (c *Controller) HistoryEntries(ctx context.Context) ([]models.Query, error) {
	return c.history.EnsureFresh(ctx)
}

// SelectHistoryEntry rehydrates the working query from a history entry.
// The entry stays in the cache and can be reselected.
func (c *Controller) SelectHistoryEntry(entry models.Query) {
	c.workflow.LoadHistoryEntry(entry)
}

// FetchTierIfNeeded lazily loads the tier for this view, through the
// guard like every other authenticated call.
func (c *Controller) FetchTierIfNeeded(ctx context.Context) error {
	user, token := c.session.Credentials()
	_, err := auth.Guard(user, token, func(token string) (struct{}, error) {
		return struct{}{}, c.tiers.FetchIfNeeded(ctx, token)
	})
	return err
}

func (c *Controller) fetchHistory(ctx context.Context) ([]models.Query, *models.Tier, error) {
	user, token := c.session.Credentials()
	type historyWithTier struct {
		entries []models.Query
		tier    *models.Tier
	}
	out, err := auth.Guard(user, token, func(token string) (historyWithTier, error) {
		entries, t, err := c.api.QueryHistory(ctx, token, c.workflow.ProjectID())
		return historyWithTier{entries: entries, tier: t}, err
	})
	if err != nil {
		return nil, nil, err
	}
	return out.entries, out.tier, nil
}
