package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"tonearm/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS deployments (
    id              TEXT PRIMARY KEY,
    release_id      TEXT NOT NULL,
    user_id         TEXT,
    org_id          TEXT,
    distributor_id  TEXT NOT NULL,
    status          TEXT NOT NULL,
    external_id     TEXT,
    submitted_at    TEXT NOT NULL,
    last_checked_at TEXT,
    last_updated_at TEXT NOT NULL,
    errors_json     TEXT,
    tracking_link   TEXT,
    UNIQUE (release_id, distributor_id)
);
CREATE INDEX IF NOT EXISTS idx_deployments_release ON deployments (release_id);
CREATE INDEX IF NOT EXISTS idx_deployments_status ON deployments (status);
`

// Store manages deployment persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the ledger database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.LogDir, "ledger.db"))
}

// OpenPath opens the ledger database at an explicit path.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Create inserts a new deployment row. A missing ID is assigned, a missing
// status defaults to pending, and timestamps are stamped with the current
// time.
func (s *Store) Create(ctx context.Context, deployment *Deployment) (*Deployment, error) {
	if deployment == nil {
		return nil, errors.New("deployment is nil")
	}
	if deployment.ReleaseID == "" {
		return nil, errors.New("deployment release id is required")
	}
	if deployment.DistributorID == "" {
		return nil, errors.New("deployment distributor id is required")
	}
	if deployment.ID == "" {
		deployment.ID = uuid.NewString()
	}
	if deployment.Status == "" {
		deployment.Status = StatusPending
	}
	if !deployment.Status.IsValid() {
		return nil, fmt.Errorf("unknown deployment status %q", deployment.Status)
	}

	now := time.Now().UTC()
	if deployment.SubmittedAt.IsZero() {
		deployment.SubmittedAt = now
	}
	deployment.LastUpdatedAt = now

	errorsJSON, err := marshalErrors(deployment.Errors)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO deployments (
            id, release_id, user_id, org_id, distributor_id, status,
            external_id, submitted_at, last_checked_at, last_updated_at,
            errors_json, tracking_link
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		deployment.ID,
		deployment.ReleaseID,
		nullableString(deployment.UserID),
		nullableString(deployment.OrgID),
		deployment.DistributorID,
		deployment.Status,
		nullableString(deployment.ExternalID),
		deployment.SubmittedAt.Format(time.RFC3339Nano),
		nullableTime(deployment.LastCheckedAt),
		deployment.LastUpdatedAt.Format(time.RFC3339Nano),
		nullableString(errorsJSON),
		nullableString(deployment.TrackingLink),
	)
	if err != nil {
		return nil, fmt.Errorf("insert deployment: %w", err)
	}
	return s.GetByID(ctx, deployment.ID)
}

// Update persists changes to an existing deployment. Last write wins.
func (s *Store) Update(ctx context.Context, deployment *Deployment) error {
	if deployment == nil {
		return errors.New("deployment is nil")
	}
	if !deployment.Status.IsValid() {
		return fmt.Errorf("unknown deployment status %q", deployment.Status)
	}
	deployment.LastUpdatedAt = time.Now().UTC()

	errorsJSON, err := marshalErrors(deployment.Errors)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(
		ctx,
		`UPDATE deployments
         SET status = ?, external_id = ?, last_checked_at = ?, last_updated_at = ?,
             errors_json = ?, tracking_link = ?
         WHERE id = ?`,
		deployment.Status,
		nullableString(deployment.ExternalID),
		nullableTime(deployment.LastCheckedAt),
		deployment.LastUpdatedAt.Format(time.RFC3339Nano),
		nullableString(errorsJSON),
		nullableString(deployment.TrackingLink),
		deployment.ID,
	)
	if err != nil {
		return fmt.Errorf("update deployment: %w", err)
	}
	return nil
}

// GetByID fetches a deployment by identifier. Returns nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*Deployment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+deploymentColumns+` FROM deployments WHERE id = ?`, id)
	deployment, err := scanDeployment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get deployment: %w", err)
	}
	return deployment, nil
}

// Get fetches the deployment for a release and distributor pairing. Returns
// nil when the release was never submitted to that distributor.
func (s *Store) Get(ctx context.Context, releaseID, distributorID string) (*Deployment, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT `+deploymentColumns+` FROM deployments WHERE release_id = ? AND distributor_id = ?`,
		releaseID, distributorID,
	)
	deployment, err := scanDeployment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get deployment: %w", err)
	}
	return deployment, nil
}

// ListByRelease returns every deployment of a release, ordered by
// submission time.
func (s *Store) ListByRelease(ctx context.Context, releaseID string) ([]*Deployment, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+deploymentColumns+` FROM deployments WHERE release_id = ? ORDER BY submitted_at`,
		releaseID,
	)
	if err != nil {
		return nil, fmt.Errorf("list deployments by release: %w", err)
	}
	defer rows.Close()
	return collectDeployments(rows)
}

// List returns deployments filtered by status set, or all deployments when
// no status is provided, ordered by submission time.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Deployment, error) {
	baseQuery := `SELECT ` + deploymentColumns + ` FROM deployments`
	orderClause := ` ORDER BY submitted_at`

	var (
		rows *sql.Rows
		err  error
	)
	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE status IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	defer rows.Close()
	return collectDeployments(rows)
}

// SetStatus updates a deployment's status, optionally appending an error
// message to its error list.
func (s *Store) SetStatus(ctx context.Context, id string, status Status, errorMessage string) error {
	deployment, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if deployment == nil {
		return fmt.Errorf("deployment %s not found", id)
	}
	deployment.Status = status
	if errorMessage != "" {
		deployment.Errors = append(deployment.Errors, errorMessage)
	}
	return s.Update(ctx, deployment)
}

// MarkChecked records a status poll, updating the partner-reported status
// and the last-checked timestamp.
func (s *Store) MarkChecked(ctx context.Context, id string, status Status) error {
	deployment, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if deployment == nil {
		return fmt.Errorf("deployment %s not found", id)
	}
	now := time.Now().UTC()
	deployment.Status = status
	deployment.LastCheckedAt = &now
	return s.Update(ctx, deployment)
}

// Stats returns a count of deployments grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM deployments GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("ledger stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Summary aggregates ledger state for diagnostic output.
func (s *Store) Summary(ctx context.Context) (StatsSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return StatsSummary{}, err
	}
	summary := StatsSummary{}
	for status, count := range stats {
		summary.Total += count
		switch status {
		case StatusDelivered:
			summary.Delivered += count
		case StatusLive:
			summary.Live += count
		case StatusFailed:
			summary.Failed += count
		case StatusRejected:
			summary.Rejected += count
		default:
			summary.InFlight += count
		}
	}
	return summary, nil
}

const deploymentColumns = "id, release_id, user_id, org_id, distributor_id, status, external_id, submitted_at, last_checked_at, last_updated_at, errors_json, tracking_link"

func scanDeployment(scanner interface{ Scan(dest ...any) error }) (*Deployment, error) {
	var (
		id             string
		releaseID      string
		userID         sql.NullString
		orgID          sql.NullString
		distributorID  string
		statusStr      string
		externalID     sql.NullString
		submittedRaw   sql.NullString
		lastCheckedRaw sql.NullString
		lastUpdatedRaw sql.NullString
		errorsRaw      sql.NullString
		trackingLink   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&releaseID,
		&userID,
		&orgID,
		&distributorID,
		&statusStr,
		&externalID,
		&submittedRaw,
		&lastCheckedRaw,
		&lastUpdatedRaw,
		&errorsRaw,
		&trackingLink,
	); err != nil {
		return nil, err
	}

	deployment := &Deployment{
		ID:            id,
		ReleaseID:     releaseID,
		UserID:        userID.String,
		OrgID:         orgID.String,
		DistributorID: distributorID,
		Status:        Status(statusStr),
		ExternalID:    externalID.String,
		TrackingLink:  trackingLink.String,
	}

	if submitted, err := parseTimeString(submittedRaw.String); err == nil {
		deployment.SubmittedAt = submitted
	}
	if updated, err := parseTimeString(lastUpdatedRaw.String); err == nil {
		deployment.LastUpdatedAt = updated
	}
	if lastCheckedRaw.Valid {
		if checked, err := parseTimeString(lastCheckedRaw.String); err == nil {
			deployment.LastCheckedAt = &checked
		}
	}
	if errorsRaw.Valid && errorsRaw.String != "" {
		if err := json.Unmarshal([]byte(errorsRaw.String), &deployment.Errors); err != nil {
			return nil, fmt.Errorf("decode deployment errors: %w", err)
		}
	}
	return deployment, nil
}

func collectDeployments(rows *sql.Rows) ([]*Deployment, error) {
	var deployments []*Deployment
	for rows.Next() {
		deployment, err := scanDeployment(rows)
		if err != nil {
			return nil, err
		}
		deployments = append(deployments, deployment)
	}
	return deployments, rows.Err()
}

func marshalErrors(list []string) (string, error) {
	if len(list) == 0 {
		return "", nil
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("encode deployment errors: %w", err)
	}
	return string(data), nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
