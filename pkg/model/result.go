package model

import "fmt"

// CommandResult is the outcome of one CLI command.
//
// NewView, when set, must be applied to the session. NewHostname, when set,
// tells the caller to refresh any cached device label. NewInterface, NewPool
// and NewACL name the context entered along with the new view.
type CommandResult struct {
	Success      bool     `json:"success"`
	Output       string   `json:"output"`
	NewView      *CliView `json:"newView,omitempty"`
	NewHostname  string   `json:"newHostname,omitempty"`
	NewInterface string   `json:"newInterface,omitempty"`
	NewPool      string   `json:"newPool,omitempty"`
	NewACL       string   `json:"newAcl,omitempty"`
}

// Ok returns a successful result.
func Ok(output string) *CommandResult {
	return &CommandResult{Success: true, Output: output}
}

// Okf returns a successful result with formatted output.
func Okf(format string, args ...interface{}) *CommandResult {
	return Ok(fmt.Sprintf(format, args...))
}

// Fail returns a failed result.
func Fail(output string) *CommandResult {
	return &CommandResult{Output: output}
}

// Failf returns a failed result with formatted output.
func Failf(format string, args ...interface{}) *CommandResult {
	return Fail(fmt.Sprintf(format, args...))
}

// Errorf returns a failed result prefixed with "Error: ".
func Errorf(format string, args ...interface{}) *CommandResult {
	return Fail("Error: " + fmt.Sprintf(format, args...))
}

// WithView sets the view transition and returns r.
func (r *CommandResult) WithView(v CliView) *CommandResult {
	r.NewView = &v
	return r
}

// TargetView returns the requested view, or "" when none.
func (r *CommandResult) TargetView() CliView {
	if r.NewView == nil {
		return ""
	}
	return *r.NewView
}
