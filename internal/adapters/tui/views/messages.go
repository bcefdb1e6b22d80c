package views

import "pmboard/internal/application"

// View switching messages
type (
	SwitchToTimelineMsg struct{}
	SwitchToGraphMsg    struct{}
	SwitchToTableMsg    struct{}
	SwitchToChatMsg     struct{}
	SwitchToHelpMsg     struct{}

	// SwitchToEditMsg opens an edit session on Project
	SwitchToEditMsg struct {
		Project string
	}
)

// RefreshedMsg reports the end of a full fetch
type RefreshedMsg struct {
	Err error
}

// SubmittedMsg reports the end of a submit that closed the edit session
type SubmittedMsg struct {
	Result *application.SubmitResult
}

// AnalysisMsg carries the analysis text of one project
type AnalysisMsg struct {
	Project string
	Text    string
	Err     error
}
