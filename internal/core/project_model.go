package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProjectType distinguishes client work from internal work.
type ProjectType string

const (
	ProjectExternal ProjectType = "EXTERNAL"
	ProjectInternal ProjectType = "INTERNAL"
)

// ParseProjectType converts a project type; an empty string defaults to EXTERNAL.
func ParseProjectType(s string) (ProjectType, error) {
	switch t := ProjectType(s); t {
	case ProjectExternal, ProjectInternal:
		return t, nil
	case "":
		return ProjectExternal, nil
	}
	return "", validationErrorf("unknown project type %q", s)
}

// ProjectStatus is the execution state of a project.
type ProjectStatus string

const (
	ProjectPlanned   ProjectStatus = "PLANNED"
	ProjectRunning   ProjectStatus = "RUNNING"
	ProjectHold      ProjectStatus = "HOLD"
	ProjectCompleted ProjectStatus = "COMPLETED"
)

// ParseProjectStatus converts a stored or user-supplied project status.
func ParseProjectStatus(s string) (ProjectStatus, error) {
	switch st := ProjectStatus(s); st {
	case ProjectPlanned, ProjectRunning, ProjectHold, ProjectCompleted:
		return st, nil
	}
	return "", validationErrorf("unknown project status %q", s)
}

// NextProjectStatus validates a project status change.
//
//	PLANNED → RUNNING → COMPLETED
//	RUNNING ↔ HOLD
func NextProjectStatus(from, to ProjectStatus) error {
	ok := false
	switch from {
	case ProjectPlanned:
		ok = to == ProjectRunning
	case ProjectRunning:
		ok = to == ProjectHold || to == ProjectCompleted
	case ProjectHold:
		ok = to == ProjectRunning
	case ProjectCompleted:
	}
	if !ok {
		return &InvalidTransitionError{Entity: "project", From: string(from), Action: "move to " + string(to)}
	}
	return nil
}

// Project is a billable (or internal) unit of work, optionally originating from a quotation.
type Project struct {
	ID                     int             `json:"id"`
	Name                   string          `json:"name"`
	ClientID               int             `json:"client_id"`
	Type                   ProjectType     `json:"type"`
	StartDate              *time.Time      `json:"start_date,omitempty"`
	PlannedCost            decimal.Decimal `json:"planned_cost"`
	OriginatingQuotationID *int            `json:"originating_quotation_id,omitempty"`
	Status                 ProjectStatus   `json:"status"`
	CreatedBy              int             `json:"created_by"`
	CreatedAt              time.Time       `json:"created_at"`
	SubGroups              []SubGroup      `json:"sub_groups"`
}

// SubGroup is a trackable unit of work owned by exactly one project.
type SubGroup struct {
	ID              int              `json:"id"`
	ProjectID       int              `json:"project_id"`
	Name            string           `json:"name"`
	PlannedQuantity decimal.Decimal  `json:"planned_quantity"`
	PlannedArea     *decimal.Decimal `json:"planned_area,omitempty"`
}

// SubGroupSeed is the caller-supplied shape of a subgroup to create.
type SubGroupSeed struct {
	Name            string
	PlannedQuantity decimal.Decimal
	PlannedArea     *decimal.Decimal
}

// ProjectInput holds the fields for creating a standalone project.
type ProjectInput struct {
	Name        string
	ClientID    int
	Type        ProjectType
	StartDate   *time.Time
	PlannedCost decimal.Decimal
	SubGroups   []SubGroupSeed
}

// ProjectService provides project operations outside quotation conversion.
type ProjectService interface {
	// CreateProject creates a project without an originating quotation, with its
	// subgroups, in one transaction.
	CreateProject(ctx context.Context, actor Actor, input ProjectInput) (*Project, error)

	// GetProject returns a project with its subgroups.
	GetProject(ctx context.Context, projectID int) (*Project, error)

	// ChangeProjectStatus moves a project along PLANNED → RUNNING ↔ HOLD → COMPLETED.
	ChangeProjectStatus(ctx context.Context, projectID int, to ProjectStatus) (*Project, error)
}

func validateSubGroupSeeds(seeds []SubGroupSeed) error {
	for i, sg := range seeds {
		if sg.Name == "" {
			return validationErrorf("subgroup %d: name is required", i+1)
		}
		if sg.PlannedQuantity.IsNegative() {
			return validationErrorf("subgroup %d: planned quantity must not be negative", i+1)
		}
		if sg.PlannedArea != nil && sg.PlannedArea.IsNegative() {
			return validationErrorf("subgroup %d: planned area must not be negative", i+1)
		}
	}
	return nil
}
