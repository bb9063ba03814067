// Package query implements the natural-language → SQL → execution
// workflow for one project: a pure state machine over the working query,
// a lazily-fetched history cache, and a controller that runs the guarded
// network calls around them.
package query

import (
	"fmt"
	"strings"

	"github.com/aidb-dev/aidb-cli/internal/core/models"
)

// Mode selects between the translator surface and the raw-SQL surface.
type Mode int

const (
	ModeTranslate Mode = iota
	ModeSQL
)

// State classifies the working query.
type State int

const (
	StateEmpty State = iota
	StateDrafting
	StateTranslated
	StateManualSQL
)

// User-facing precondition messages.
const (
	MsgEnterText         = "Please enter text to translate."
	MsgAlreadyTranslated = "This input has already been translated. Please modify the text to translate again."
	MsgEnterSQL          = "Please enter SQL before submitting."
	MsgGeneric           = "An error occurred. Please try again."
)

// PreconditionError is a recoverable client-side rejection raised before
// any network call. Never logged as exceptional.
type PreconditionError struct {
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

func limitError(resource, limit, tierName string) *PreconditionError {
	return &PreconditionError{Message: fmt.Sprintf(
		"You have reached your %s limit of %s for your %s tier.",
		resource, models.FormatLimit(limit), tierName)}
}

// Workflow is the per-project query editing session: the working query,
// the input mode, and the memo of the text that produced the current
// translation. Plain data with pure transitions; no I/O.
type Workflow struct {
	projectID      string
	query          models.Query
	mode           Mode
	translated     bool
	lastTranslated string
}

func NewWorkflow(projectID string) *Workflow {
	return &Workflow{
		projectID: projectID,
		query:     models.Query{ProjectID: projectID},
		mode:      ModeTranslate,
	}
}

func (w *Workflow) ProjectID() string   { return w.projectID }
func (w *Workflow) Query() models.Query { return w.query }
func (w *Workflow) Mode() Mode          { return w.mode }
func (w *Workflow) Translated() bool    { return w.translated }

func (w *Workflow) State() State {
	switch {
	case w.translated:
		return StateTranslated
	case w.mode == ModeSQL && w.query.SQLQuery != "":
		return StateManualSQL
	case w.query.NLQuery != "":
		return StateDrafting
	case w.query.SQLQuery != "":
		return StateManualSQL
	default:
		return StateEmpty
	}
}

// SetNL applies a natural-language edit. Diverging from the text that
// produced the current translation starts a fresh query with the SQL
// cleared, so stale SQL never survives an NL edit; reverting to the
// last-translated text re-enables the already-translated short-circuit.
func (w *Workflow) SetNL(text string) {
	switch {
	case text == w.lastTranslated && w.lastTranslated != "":
		w.query.NLQuery = text
		w.translated = true
	case w.translated:
		w.query = models.Query{ProjectID: w.projectID, NLQuery: text}
		w.translated = false
	default:
		w.query.NLQuery = text
	}
}

// SetSQL applies a manual SQL edit. Hand-editing a translated query
// demotes it back to not-translated.
func (w *Workflow) SetSQL(text string) {
	w.query.SQLQuery = text
	w.translated = false
}

// CheckTranslate enforces the translate preconditions against the given
// tier (which may be nil when not yet fetched). No state change.
func (w *Workflow) CheckTranslate(t *models.Tier) error {
	if w.query.NLQuery == "" {
		return &PreconditionError{Message: MsgEnterText}
	}
	if w.translated && w.query.NLQuery == w.lastTranslated {
		return &PreconditionError{Message: MsgAlreadyTranslated}
	}
	if t != nil && models.IsLimitReached(t.TranslationLimitUsage, t.TranslationLimit) {
		return limitError("translation", t.TranslationLimit, t.Name)
	}
	return nil
}

// CompleteTranslate installs the server-returned query and records the
// input text that produced it.
func (w *Workflow) CompleteTranslate(result models.Query) {
	if result.ProjectID == "" {
		result.ProjectID = w.projectID
	}
	if result.NLQuery == "" {
		result.NLQuery = w.query.NLQuery
	}
	w.query = result
	w.translated = true
	w.lastTranslated = w.query.NLQuery
}

// PrepareSubmit enforces the submit preconditions and returns the
// finalized query: SQL trimmed, one trailing semicolon stripped.
func (w *Workflow) PrepareSubmit(t *models.Tier) (models.Query, error) {
	sql := strings.TrimSpace(w.query.SQLQuery)
	sql = strings.TrimSuffix(sql, ";")
	if sql == "" {
		return models.Query{}, &PreconditionError{Message: MsgEnterSQL}
	}
	if t != nil {
		if models.IsLimitReached(t.QueryLimitUsage, t.QueryLimit) {
			return models.Query{}, limitError("query", t.QueryLimit, t.Name)
		}
		if models.IsLimitReached(t.DataRowLimitUsage, t.DataRowLimit) {
			return models.Query{}, limitError("data row", t.DataRowLimit, t.Name)
		}
	}
	q := w.query
	q.SQLQuery = sql
	return q, nil
}

// CompleteSubmit ends this query instance: the executed query lives on in
// history while a fresh empty one takes its place. The mode is kept.
func (w *Workflow) CompleteSubmit() {
	w.query = models.Query{ProjectID: w.projectID}
	w.translated = false
	w.lastTranslated = ""
}

// SetMode switches between translate and raw-SQL mode, clearing the
// working query. Switching to the current mode is a no-op.
func (w *Workflow) SetMode(m Mode) {
	if m == w.mode {
		return
	}
	w.mode = m
	w.Reset()
}

// Reset clears the working query back to empty for the current project.
func (w *Workflow) Reset() {
	w.query = models.Query{ProjectID: w.projectID}
	w.translated = false
	w.lastTranslated = ""
}

// LoadHistoryEntry rehydrates the working query from a history entry. An
// entry with both texts counts as translated for its own NL text; the
// mode follows the presence of NL text.
func (w *Workflow) LoadHistoryEntry(entry models.Query) {
	entry.ProjectID = w.projectID
	w.query = entry
	if entry.Translated() {
		w.translated = true
		w.lastTranslated = entry.NLQuery
	} else {
		w.translated = false
		w.lastTranslated = ""
	}
	if entry.NLQuery != "" {
		w.mode = ModeTranslate
	} else {
		w.mode = ModeSQL
	}
}
