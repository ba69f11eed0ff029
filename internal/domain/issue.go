package domain

import "time"

// Issue is a tracked work item scoped to a project.
//
// AssignedTo and StatusText are always empty strings when unset, never
// null. CreatedOn is set once at creation; UpdatedOn is refreshed on
// every successful update.
type Issue struct {
	ID         string    `bson:"_id" json:"_id"`
	Project    string    `bson:"project" json:"project"`
	IssueTitle string    `bson:"issue_title" json:"issue_title"`
	IssueText  string    `bson:"issue_text" json:"issue_text"`
	CreatedBy  string    `bson:"created_by" json:"created_by"`
	AssignedTo string    `bson:"assigned_to" json:"assigned_to"`
	StatusText string    `bson:"status_text" json:"status_text"`
	Open       bool      `bson:"open" json:"open"`
	CreatedOn  time.Time `bson:"created_on" json:"created_on"`
	UpdatedOn  time.Time `bson:"updated_on" json:"updated_on"`
}

// IssueInput represents input for creating an issue
type IssueInput struct {
	ID         string `json:"_id" form:"_id"`
	IssueTitle string `json:"issue_title" form:"issue_title" validate:"required"`
	IssueText  string `json:"issue_text" form:"issue_text" validate:"required"`
	CreatedBy  string `json:"created_by" form:"created_by" validate:"required"`
	AssignedTo string `json:"assigned_to" form:"assigned_to"`
	StatusText string `json:"status_text" form:"status_text"`
}

// IssueUpdate represents a partial update of an issue. Nil fields are
// left untouched; UpdatedOn is set by the service on every update.
type IssueUpdate struct {
	IssueTitle *string
	IssueText  *string
	CreatedBy  *string
	AssignedTo *string
	StatusText *string
	Open       *bool
	UpdatedOn  time.Time
}

// HasFields reports whether the update carries at least one issue field
func (u *IssueUpdate) HasFields() bool {
	return u.IssueTitle != nil ||
		u.IssueText != nil ||
		u.CreatedBy != nil ||
		u.AssignedTo != nil ||
		u.StatusText != nil ||
		u.Open != nil
}

// Filter is a set of exact-match conditions applied as a conjunction
// over a project-scoped result set. Keys that are not issue fields are
// ignored.
type Filter map[string]string

// filterFields maps each recognized filter key to its comparison.
// Timestamps compare against their RFC3339 rendering.
var filterFields = map[string]func(*Issue, string) bool{
	"_id":         func(i *Issue, v string) bool { return i.ID == v },
	"issue_title": func(i *Issue, v string) bool { return i.IssueTitle == v },
	"issue_text":  func(i *Issue, v string) bool { return i.IssueText == v },
	"created_by":  func(i *Issue, v string) bool { return i.CreatedBy == v },
	"assigned_to": func(i *Issue, v string) bool { return i.AssignedTo == v },
	"status_text": func(i *Issue, v string) bool { return i.StatusText == v },
	"open":        matchOpen,
	"created_on":  func(i *Issue, v string) bool { return i.CreatedOn.Format(time.RFC3339) == v },
	"updated_on":  func(i *Issue, v string) bool { return i.UpdatedOn.Format(time.RFC3339) == v },
}

// matchOpen coerces "true"/"false" to a boolean before comparison.
// An empty value is handled in Match; any other value matches nothing.
func matchOpen(i *Issue, v string) bool {
	switch v {
	case "true":
		return i.Open
	case "false":
		return !i.Open
	default:
		return false
	}
}

// Match reports whether the issue satisfies every condition in the filter
func (f Filter) Match(i *Issue) bool {
	for key, value := range f {
		if key == "open" && value == "" {
			continue
		}
		match, ok := filterFields[key]
		if !ok {
			continue
		}
		if !match(i, value) {
			return false
		}
	}
	return true
}
