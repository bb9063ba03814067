package query

import (
	"context"
	"errors"
	"testing"

	"github.com/aidb-dev/aidb-cli/internal/core/auth"
	"github.com/aidb-dev/aidb-cli/internal/core/models"
	"github.com/aidb-dev/aidb-cli/internal/core/tier"
)

type fakeAPI struct {
	translateCalls int
	executeCalls   int
	historyCalls   int

	translateResult models.Query
	executeResult   models.Result
	historyResult   []models.Query
	tier            *models.Tier
	err             error
}

func (f *fakeAPI) TranslateQuery(ctx context.Context, token string, q models.Query) (models.Query, *models.Tier, error) {
	f.translateCalls++
	return f.translateResult, f.tier, f.err
}

func (f *fakeAPI) ExecuteQuery(ctx context.Context, token string, q models.Query) (models.Result, *models.Tier, error) {
	f.executeCalls++
	return f.executeResult, f.tier, f.err
}

func (f *fakeAPI) QueryHistory(ctx context.Context, token, projectID string) ([]models.Query, *models.Tier, error) {
	f.historyCalls++
	return f.historyResult, f.tier, f.err
}

func signedInSession() *auth.Session {
	s := auth.NewSession(nil)
	s.HandleIdentityChange(&auth.Identity{User: auth.User{ID: "u1"}, Token: "tok"})
	return s
}

func staticTier(t *models.Tier) *tier.Store {
	s := tier.NewStore(nil)
	s.UpdateIfNotNull(t)
	return s
}

func TestTranslateFlow(t *testing.T) {
	api := &fakeAPI{
		translateResult: models.Query{NLQuery: "count customers", SQLQuery: "SELECT COUNT(*) FROM customers"},
		tier:            &models.Tier{Name: "Free", QueryLimitUsage: "1"},
	}
	c := NewController(signedInSession(), tier.NewStore(nil), api, "p1")
	c.Workflow().SetNL("count customers")

	q, err := c.Translate(context.Background())
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if q.SQLQuery != "SELECT COUNT(*) FROM customers" {
		t.Errorf("sql = %q", q.SQLQuery)
	}
	if !c.Workflow().Translated() {
		t.Error("workflow should be translated")
	}
	if !c.History().Stale() {
		t.Error("translate must mark history stale")
	}

	// Repeat translate: rejected client-side, no second network call.
	if _, err := c.Translate(context.Background()); err == nil {
		t.Fatal("expected already-translated rejection")
	}
	if api.translateCalls != 1 {
		t.Errorf("translate network calls = %d, want 1", api.translateCalls)
	}
}

func TestTranslateFailureDoesNotMarkStale(t *testing.T) {
	api := &fakeAPI{err: errors.New("Server error: Something went wrong on our end.")}
	c := NewController(signedInSession(), tier.NewStore(nil), api, "p1")

	// Drain the initial staleness first so the assertion is meaningful.
	api.err = nil
	if _, err := c.HistoryEntries(context.Background()); err != nil {
		t.Fatalf("history: %v", err)
	}
	api.err = errors.New("Server error: Something went wrong on our end.")

	c.Workflow().SetNL("count customers")
	if _, err := c.Translate(context.Background()); err == nil {
		t.Fatal("expected translate failure")
	}
	if c.History().Stale() {
		t.Error("failed translate must not mark history stale")
	}
	if c.Workflow().Translated() {
		t.Error("failed translate must not mark the workflow translated")
	}
}

func TestSubmitBlockedByTierMakesNoNetworkCall(t *testing.T) {
	api := &fakeAPI{}
	blocked := &models.Tier{Name: "Free", QueryLimit: "10", QueryLimitUsage: "10"}
	c := NewController(signedInSession(), staticTier(blocked), api, "p1")
	c.Workflow().SetSQL("SELECT 1")

	_, err := c.Submit(context.Background())
	if err == nil {
		t.Fatal("expected limit rejection")
	}
	if api.executeCalls != 0 {
		t.Errorf("execute network calls = %d, want 0", api.executeCalls)
	}
}

func TestSubmitProceedsWhenUnlimited(t *testing.T) {
	api := &fakeAPI{executeResult: models.Result{Columns: []string{"n"}, Rows: [][]any{{1}}}}
	unlimited := &models.Tier{Name: "Pro", QueryLimit: "-1", QueryLimitUsage: "999", DataRowLimit: "-1", DataRowLimitUsage: "999"}
	c := NewController(signedInSession(), staticTier(unlimited), api, "p1")
	c.Workflow().SetSQL("SELECT 1;")

	result, err := c.Submit(context.Background())
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if api.executeCalls != 1 {
		t.Errorf("execute network calls = %d", api.executeCalls)
	}
	if len(result.Rows) != 1 {
		t.Errorf("result = %+v", result)
	}
	if c.Workflow().State() != StateEmpty {
		t.Error("submit must start a fresh working query")
	}
	if !c.History().Stale() {
		t.Error("submit must mark history stale")
	}
}

func TestSubmitMergesReturnedTier(t *testing.T) {
	updated := &models.Tier{Name: "Free", QueryLimit: "10", QueryLimitUsage: "4"}
	api := &fakeAPI{tier: updated}
	tiers := staticTier(&models.Tier{Name: "Free", QueryLimit: "10", QueryLimitUsage: "3"})
	c := NewController(signedInSession(), tiers, api, "p1")
	c.Workflow().SetSQL("SELECT 1")

	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := tiers.Tier(); got.QueryLimitUsage != "4" {
		t.Errorf("tier usage after merge = %q", got.QueryLimitUsage)
	}
}

func TestUnauthenticatedActionsRejected(t *testing.T) {
	api := &fakeAPI{}
	session := auth.NewSession(nil)
	session.HandleIdentityChange(nil) // signed out
	c := NewController(session, tier.NewStore(nil), api, "p1")
	c.Workflow().SetSQL("SELECT 1")

	if _, err := c.Submit(context.Background()); !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Errorf("submit err = %v", err)
	}
	if _, err := c.HistoryEntries(context.Background()); !errors.Is(err, auth.ErrNotAuthenticated) {
		t.Errorf("history err = %v", err)
	}
	if api.executeCalls != 0 || api.historyCalls != 0 {
		t.Error("no network call may happen without credentials")
	}
}

func TestHistoryStaleness(t *testing.T) {
	api := &fakeAPI{historyResult: []models.Query{{ID: "q1", SQLQuery: "SELECT 1"}}}
	c := NewController(signedInSession(), tier.NewStore(nil), api, "p1")

	// Initial state is stale: first view fetches.
	entries, err := c.HistoryEntries(context.Background())
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 1 || api.historyCalls != 1 {
		t.Fatalf("entries=%d calls=%d", len(entries), api.historyCalls)
	}

	// Second consecutive view: zero fetches.
	if _, err := c.HistoryEntries(context.Background()); err != nil {
		t.Fatalf("history: %v", err)
	}
	if api.historyCalls != 1 {
		t.Errorf("history calls = %d, want 1", api.historyCalls)
	}

	// A mutation invalidates; the next view fetches exactly once more.
	c.Workflow().SetSQL("SELECT 2")
	if _, err := c.Submit(context.Background()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := c.HistoryEntries(context.Background()); err != nil {
		t.Fatalf("history: %v", err)
	}
	if api.historyCalls != 2 {
		t.Errorf("history calls after mutation = %d, want 2", api.historyCalls)
	}
}

func TestHistorySelectionIsRepeatable(t *testing.T) {
	entry := models.Query{ID: "q1", NLQuery: "count", SQLQuery: "SELECT 1"}
	api := &fakeAPI{historyResult: []models.Query{entry}}
	c := NewController(signedInSession(), tier.NewStore(nil), api, "p1")

	if _, err := c.HistoryEntries(context.Background()); err != nil {
		t.Fatalf("history: %v", err)
	}
	c.SelectHistoryEntry(entry)
	c.Workflow().Reset()
	c.SelectHistoryEntry(entry)

	if got := c.Workflow().Query(); got.SQLQuery != "SELECT 1" {
		t.Errorf("reselected query = %+v", got)
	}
	entries, _ := c.HistoryEntries(context.Background())
	if len(entries) != 1 {
		t.Error("selection must not remove the entry from the cache")
	}
}

func TestHistoryMergesTier(t *testing.T) {
	api := &fakeAPI{tier: &models.Tier{Name: "Free", QueryLimitUsage: "7"}}
	tiers := tier.NewStore(nil)
	c := NewController(signedInSession(), tiers, api, "p1")

	if _, err := c.HistoryEntries(context.Background()); err != nil {
		t.Fatalf("history: %v", err)
	}
	if got := tiers.Tier(); got == nil || got.QueryLimitUsage != "7" {
		t.Errorf("tier after history fetch = %+v", got)
	}
}

func TestHistoryFetchFailureStaysStale(t *testing.T) {
	api := &fakeAPI{err: errors.New("boom")}
	c := NewController(signedInSession(), tier.NewStore(nil), api, "p1")

	if _, err := c.HistoryEntries(context.Background()); err == nil {
		t.Fatal("expected history failure")
	}
	if !c.History().Stale() {
		t.Error("failed fetch must leave the cache stale for retry")
	}
}
