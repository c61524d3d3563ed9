// Package moderation owns the authoritative ban state and the cascade
// that propagates it onto dependent records. No other package writes
// the denormalized isBanned flags.
package moderation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUserNotFound means the ban target does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrBlogNotFound means the blog referenced by a blog-level ban
	// does not exist.
	ErrBlogNotFound = errors.New("blog not found")

	// ErrReasonRequired means a ban was requested without a reason.
	// Unbans ignore the reason entirely.
	ErrReasonRequired = errors.New("ban reason is required")
)

// Step identifies one stage of the global ban cascade. Steps always run
// in the order declared here.
type Step string

const (
	StepComments Step = "comments"
	StepLikes    Step = "like_statuses"
	StepDevices  Step = "devices"
)

// CascadeSteps lists the dependent-record steps in execution order.
// The authoritative user flag is written before any of these.
var CascadeSteps = []Step{StepComments, StepLikes, StepDevices}

// StepResult reports one cascade step. Affected is the number of
// records touched; Err is nil on success.
type StepResult struct {
	Step     Step
	Affected int64
	Err      error
}

// CascadeError reports a cascade that failed after the authoritative
// ban flag was already committed. The flag is NOT rolled back: every
// step is an idempotent set-to-value write, so the caller can invoke
// RetryCascade to converge the denormalized state.
type CascadeError struct {
	UserID string
	Banned bool
	Steps  []StepResult
}

func (e *CascadeError) Error() string {
	var failed []string
	for _, r := range e.Steps {
		if r.Err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", r.Step, r.Err))
		}
	}
	return fmt.Sprintf("ban cascade for user %s incomplete (authoritative flag committed): %s",
		e.UserID, strings.Join(failed, "; "))
}

// FailedSteps returns only the steps that errored.
func (e *CascadeError) FailedSteps() []StepResult {
	var failed []StepResult
	for _, r := range e.Steps {
		if r.Err != nil {
			failed = append(failed, r)
		}
	}
	return failed
}

func validReason(reason string) bool {
	return strings.TrimSpace(reason) != ""
}
