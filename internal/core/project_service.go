package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared query helpers.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type projectService struct {
	pool *pgxpool.Pool
}

// NewProjectService constructs a ProjectService backed by PostgreSQL.
func NewProjectService(pool *pgxpool.Pool) ProjectService {
	return &projectService{pool: pool}
}

// CreateProject creates a standalone project and its subgroups atomically.
func (s *projectService) CreateProject(ctx context.Context, actor Actor, input ProjectInput) (*Project, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, validationErrorf("project name is required")
	}
	pt, err := ParseProjectType(string(input.Type))
	if err != nil {
		return nil, err
	}
	input.Type = pt
	if input.PlannedCost.IsNegative() {
		return nil, validationErrorf("planned cost must not be negative")
	}
	if err := validateSubGroupSeeds(input.SubGroups); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := requireClient(ctx, tx, input.ClientID); err != nil {
		return nil, err
	}

	projectID, err := insertProjectTx(ctx, tx, input, nil, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: create project %q: %w", ErrAtomicity, input.Name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%w: commit project %q: %w", ErrAtomicity, input.Name, err)
	}

	return s.GetProject(ctx, projectID)
}

// GetProject returns a project with its subgroups.
func (s *projectService) GetProject(ctx context.Context, projectID int) (*Project, error) {
	return getProject(ctx, s.pool, projectID)
}

// ChangeProjectStatus applies a guarded project status change.
func (s *projectService) ChangeProjectStatus(ctx context.Context, projectID int, to ProjectStatus) (*Project, error) {
	if _, err := ParseProjectStatus(string(to)); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current string
	if err := tx.QueryRow(ctx,
		"SELECT status FROM projects WHERE id = $1 FOR UPDATE",
		projectID,
	).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("project %d", projectID)
		}
		return nil, fmt.Errorf("fetch project %d: %w", projectID, err)
	}

	if err := NextProjectStatus(ProjectStatus(current), to); err != nil {
		var ite *InvalidTransitionError
		if errors.As(err, &ite) {
			ite.ID = projectID
		}
		return nil, err
	}

	if _, err := tx.Exec(ctx,
		"UPDATE projects SET status = $1 WHERE id = $2",
		string(to), projectID,
	); err != nil {
		return nil, fmt.Errorf("update project %d status: %w", projectID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit project status: %w", err)
	}

	return s.GetProject(ctx, projectID)
}

// insertProjectTx inserts a project and its subgroups inside tx and returns the project ID.
// The caller owns the transaction; any error must abort it.
func insertProjectTx(ctx context.Context, tx pgx.Tx, input ProjectInput, quotationID *int, createdBy int) (int, error) {
	var startDate *string
	if input.StartDate != nil {
		d := input.StartDate.Format("2006-01-02")
		startDate = &d
	}

	var projectID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO projects (name, client_id, type, start_date, planned_cost,
		                      originating_quotation_id, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, 'PLANNED', $7)
		RETURNING id`,
		input.Name, input.ClientID, string(input.Type), startDate, input.PlannedCost,
		quotationID, createdBy,
	).Scan(&projectID); err != nil {
		return 0, fmt.Errorf("insert project: %w", err)
	}

	for i, sg := range input.SubGroups {
		if _, err := tx.Exec(ctx, `
			INSERT INTO project_subgroups (project_id, name, planned_quantity, planned_area)
			VALUES ($1, $2, $3, $4)`,
			projectID, sg.Name, sg.PlannedQuantity, sg.PlannedArea,
		); err != nil {
			return 0, fmt.Errorf("insert subgroup %d (%s): %w", i+1, sg.Name, err)
		}
	}

	return projectID, nil
}

// requireClient returns ErrNotFound if the client does not exist.
func requireClient(ctx context.Context, q pgxQuerier, clientID int) error {
	var exists bool
	if err := q.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1)", clientID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("validate client: %w", err)
	}
	if !exists {
		return notFoundf("client %d", clientID)
	}
	return nil
}

func getProject(ctx context.Context, q pgxQuerier, projectID int) (*Project, error) {
	p := &Project{}
	var projectType, status string
	var startDate *time.Time
	if err := q.QueryRow(ctx, `
		SELECT id, name, client_id, type, start_date, planned_cost,
		       originating_quotation_id, status, created_by, created_at
		FROM projects
		WHERE id = $1`,
		projectID,
	).Scan(
		&p.ID, &p.Name, &p.ClientID, &projectType, &startDate, &p.PlannedCost,
		&p.OriginatingQuotationID, &status, &p.CreatedBy, &p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFoundf("project %d", projectID)
		}
		return nil, fmt.Errorf("get project %d: %w", projectID, err)
	}
	p.Type = ProjectType(projectType)
	p.Status = ProjectStatus(status)
	p.StartDate = startDate

	rows, err := q.Query(ctx, `
		SELECT id, project_id, name, planned_quantity, planned_area
		FROM project_subgroups
		WHERE project_id = $1
		ORDER BY id`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch subgroups for project %d: %w", projectID, err)
	}
	defer rows.Close()

	p.SubGroups = []SubGroup{}
	for rows.Next() {
		var sg SubGroup
		var area *decimal.Decimal
		if err := rows.Scan(&sg.ID, &sg.ProjectID, &sg.Name, &sg.PlannedQuantity, &area); err != nil {
			return nil, fmt.Errorf("scan subgroup: %w", err)
		}
		sg.PlannedArea = area
		p.SubGroups = append(p.SubGroups, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subgroups: %w", err)
	}
	return p, nil
}
