// Package session holds the per-client view state machine. All transitions go
// through Reduce so the document-view invariant holds for any action sequence.
package session

import (
	"errors"
	"fmt"
	"time"

	"legaldesk/internal/model"
)

type View string

const (
	ViewDashboard View = "dashboard"
	ViewAnalyzing View = "analyzing"
	ViewDocument  View = "document"
)

var (
	// ErrNoDocument is returned when an action needs an open document.
	ErrNoDocument = errors.New("no document is open")
	// ErrUnknownAction is returned for action types Reduce does not handle.
	ErrUnknownAction = errors.New("unknown action")
	// ErrAlreadyProcessing rejects a second submission while one is in flight.
	ErrAlreadyProcessing = errors.New("a document is already being processed")
)

// State is one client's session.
type State struct {
	ActiveView       View                    `json:"active_view"`
	CurrentDocument  *model.Document         `json:"current_document"`
	UploadedFile     *model.Upload           `json:"uploaded_file"`
	IsProcessing     bool                    `json:"is_processing"`
	LastError        *string                 `json:"last_error"`
	BackendHealth    model.HealthSnapshot    `json:"backend_health"`
	ProcessingStatus *model.ProcessingStatus `json:"processing_status,omitempty"`
}

// Initial returns the state every session starts from and ResetState returns to.
func Initial() State {
	return State{ActiveView: ViewDashboard}
}

type ActionType string

const (
	ActionSetView             ActionType = "SET_VIEW"
	ActionSetDocument         ActionType = "SET_DOCUMENT"
	ActionSetUploadedFile     ActionType = "SET_UPLOADED_FILE"
	ActionSetProcessing       ActionType = "SET_PROCESSING"
	ActionSetError            ActionType = "SET_ERROR"
	ActionSetAnalysisData     ActionType = "SET_ANALYSIS_DATA"
	ActionSetBackendHealth    ActionType = "SET_BACKEND_HEALTH"
	ActionSetProcessingStatus ActionType = "SET_PROCESSING_STATUS"
	ActionClearDocument       ActionType = "CLEAR_DOCUMENT"
	ActionResetState          ActionType = "RESET_STATE"
)

// Action is a dispatched transition. Build it with the constructors below.
type Action struct {
	Type       ActionType
	View       View
	Document   *model.Document
	Upload     *model.Upload
	Processing bool
	Error      *string
	Analysis   *model.AnalysisResult
	Health     model.HealthSnapshot
	Status     *model.ProcessingStatus
}

func SetView(v View) Action { return Action{Type: ActionSetView, View: v} }

// SetDocument opens a document. A nil analysis leaves it hydrating.
func SetDocument(id, filename string, analysis *model.AnalysisResult) Action {
	return Action{
		Type:     ActionSetDocument,
		Document: &model.Document{ID: id, Filename: filename, Analysis: analysis},
	}
}

func SetUploadedFile(u *model.Upload) Action { return Action{Type: ActionSetUploadedFile, Upload: u} }

func SetProcessing(on bool) Action { return Action{Type: ActionSetProcessing, Processing: on} }

// SetError sets or clears lastError. Pass an empty string to clear.
func SetError(msg string) Action {
	if msg == "" {
		return Action{Type: ActionSetError}
	}
	return Action{Type: ActionSetError, Error: &msg}
}

func SetAnalysisData(res *model.AnalysisResult) Action {
	return Action{Type: ActionSetAnalysisData, Analysis: res}
}

func SetBackendHealth(h model.HealthSnapshot) Action {
	return Action{Type: ActionSetBackendHealth, Health: h}
}

func SetProcessingStatus(st *model.ProcessingStatus) Action {
	return Action{Type: ActionSetProcessingStatus, Status: st}
}

// ClearDocument is the "back to dashboard" transition.
func ClearDocument() Action { return Action{Type: ActionClearDocument} }

func ResetState() Action { return Action{Type: ActionResetState} }

// Reduce applies a to s. On error the returned state equals s.
//
// SetError with a message also moves to the dashboard and clears IsProcessing.
// SetAnalysisData without an open document is refused with ErrNoDocument.
func Reduce(s State, a Action) (State, error) {
	switch a.Type {
	case ActionSetView:
		switch a.View {
		case ViewDashboard, ViewAnalyzing:
		case ViewDocument:
			if s.CurrentDocument == nil {
				return s, ErrNoDocument
			}
		default:
			return s, fmt.Errorf("%w: view %q", ErrUnknownAction, a.View)
		}
		s.ActiveView = a.View

	case ActionSetDocument:
		if a.Document == nil {
			return s, fmt.Errorf("%w: document missing", ErrUnknownAction)
		}
		doc := *a.Document
		if cur := s.CurrentDocument; cur != nil && cur.ID == doc.ID {
			if doc.Analysis == nil {
				doc.Analysis = cur.Analysis
			}
			doc.OpenedAt = cur.OpenedAt
		}
		if doc.OpenedAt.IsZero() {
			doc.OpenedAt = time.Now().UTC()
		}
		if s.ProcessingStatus != nil && s.ProcessingStatus.DocumentID != doc.ID {
			s.ProcessingStatus = nil
		}
		s.CurrentDocument = &doc

	case ActionSetUploadedFile:
		if a.Upload == nil {
			s.UploadedFile = nil
		} else {
			u := *a.Upload
			s.UploadedFile = &u
		}

	case ActionSetProcessing:
		s.IsProcessing = a.Processing

	case ActionSetError:
		if a.Error == nil {
			s.LastError = nil
			break
		}
		msg := *a.Error
		s.LastError = &msg
		s.IsProcessing = false
		s.ActiveView = ViewDashboard

	case ActionSetAnalysisData:
		if s.CurrentDocument == nil {
			return s, ErrNoDocument
		}
		doc := *s.CurrentDocument
		doc.Analysis = a.Analysis
		s.CurrentDocument = &doc

	case ActionSetBackendHealth:
		s.BackendHealth = a.Health

	case ActionSetProcessingStatus:
		if a.Status == nil {
			s.ProcessingStatus = nil
		} else {
			st := *a.Status
			s.ProcessingStatus = &st
		}

	case ActionClearDocument:
		s.ActiveView = ViewDashboard
		s.CurrentDocument = nil
		s.UploadedFile = nil
		s.LastError = nil
		s.ProcessingStatus = nil

	case ActionResetState:
		return Initial(), nil

	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
	return s, nil
}
