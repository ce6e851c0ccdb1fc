// Package models defines the domain models for the workflow service
package models

import "time"

// WorkflowStatus represents the lifecycle status of a workflow
type WorkflowStatus string

const (
	WorkflowStatusDraft     WorkflowStatus = "draft"
	WorkflowStatusPublished WorkflowStatus = "published"
	WorkflowStatusArchived  WorkflowStatus = "archived"
)

// StepStatus represents the lifecycle status of a workflow step
type StepStatus string

const (
	StepStatusPending    StepStatus = "pending"
	StepStatusInProgress StepStatus = "in_progress"
	StepStatusCompleted  StepStatus = "completed"
	StepStatusBlocked    StepStatus = "blocked"
)

// EntityType identifies the kind of entity an activity entry refers to
type EntityType string

const (
	EntityWorkflow EntityType = "workflow"
	EntityStep     EntityType = "step"
	EntityComment  EntityType = "comment"
)

// Action identifies the mutation recorded by an activity entry
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionDeleted   Action = "deleted"
	ActionCompleted Action = "completed"
)

// Member roles. Roles are free-form strings; these are the two the
// service assigns itself.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Organization groups workflows and members.
type Organization struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   *string   `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	UpdatedAt   time.Time `json:"updated_at,omitzero"`

	// Derived at read time, never stored.
	MemberCount   *int `json:"member_count,omitempty"`
	WorkflowCount *int `json:"workflow_count,omitempty"`
}

// OrgMember is the (organization, user) membership pair.
type OrgMember struct {
	OrganizationID string    `json:"organization_id"`
	UserID         string    `json:"user_id"`
	Role           string    `json:"role"`
	JoinedAt       time.Time `json:"joined_at,omitzero"`

	// Enriched from the users table on member listings.
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Workflow is a named, ordered procedure composed of steps, optionally
// scoped to an organization.
type Workflow struct {
	ID             string         `json:"id,omitempty"`
	OrganizationID *string        `json:"organization_id,omitempty"`
	Title          string         `json:"title"`
	Description    string         `json:"description,omitempty"`
	Status         WorkflowStatus `json:"status"`
	CreatedBy      *string        `json:"created_by,omitempty"`
	CreatedAt      time.Time      `json:"created_at,omitzero"`
	UpdatedAt      time.Time      `json:"updated_at,omitzero"`

	// Derived at read time.
	StepCount *int    `json:"step_count,omitempty"`
	Steps     []*Step `json:"steps,omitempty"`
}

// Step is one ordered unit of work within a workflow.
type Step struct {
	ID          string     `json:"id,omitempty"`
	WorkflowID  string     `json:"workflow_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      StepStatus `json:"status"`
	AssignedTo  *string    `json:"assigned_to,omitempty"`
	Role        *string    `json:"role,omitempty"`
	Order       int        `json:"step_order"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CompletedBy *string    `json:"completed_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at,omitzero"`
	UpdatedAt   time.Time  `json:"updated_at,omitzero"`
}

// Comment is attached to a workflow and/or a step.
type Comment struct {
	ID         string    `json:"id,omitempty"`
	WorkflowID *string   `json:"workflow_id,omitempty"`
	StepID     *string   `json:"step_id,omitempty"`
	CreatedBy  *string   `json:"created_by,omitempty"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	UpdatedAt  time.Time `json:"updated_at,omitzero"`
}

// ActivityLog is one immutable audit fact about a mutation. Entries are
// never updated or deleted once written.
type ActivityLog struct {
	ID             string     `json:"id,omitempty"`
	OrganizationID *string    `json:"organization_id,omitempty"`
	WorkflowID     *string    `json:"workflow_id,omitempty"`
	UserID         *string    `json:"user_id,omitempty"`
	EntityType     EntityType `json:"entity_type"`
	EntityID       string     `json:"entity_id"`
	Action         Action     `json:"action"`
	Details        string     `json:"details,omitempty"`
	CreatedAt      time.Time  `json:"created_at,omitzero"`
}

// User is created implicitly on first sight at the auth boundary.
type User struct {
	ID        string    `json:"id,omitempty"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}
