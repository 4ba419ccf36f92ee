package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"muin/internal/domain"
	"muin/internal/infra"
	"muin/internal/sqlinline"
)

// EntitlementRepositoryPG implements domain.EntitlementRepository and
// domain.FeatureRepository backed by PostgreSQL.
type EntitlementRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewEntitlementRepository creates a new EntitlementRepositoryPG.
func NewEntitlementRepository(sql infra.SQLExecutor) *EntitlementRepositoryPG {
	return &EntitlementRepositoryPG{sql: sql}
}

// FindActive returns the active entitlement for identifier.
func (r *EntitlementRepositoryPG) FindActive(ctx context.Context, identifier string) (*domain.Entitlement, error) {
	row := r.sql.QueryRow(ctx, sqlinline.QSelectActiveEntitlement, identifier)
	return scanEntitlement(row)
}

// CountByIdentifier counts every row for identifier, active or not.
func (r *EntitlementRepositoryPG) CountByIdentifier(ctx context.Context, identifier string) (int, error) {
	var n int
	if err := r.sql.QueryRow(ctx, sqlinline.QCountEntitlements, identifier).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Insert creates a new entitlement row. It returns domain.ErrAlreadyExists
// when identifier already has one.
func (r *EntitlementRepositoryPG) Insert(ctx context.Context, e *domain.Entitlement) error {
	features, err := encodeFeatures(e.EnabledFeatures)
	if err != nil {
		return err
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertEntitlement,
		e.Identifier,
		string(e.Type),
		e.IsActive,
		e.StartDate,
		e.EndDate,
		features,
		e.ActivatedBy,
		e.Notes,
	)
	if err := row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Upsert inserts or replaces the row keyed on identifier.
func (r *EntitlementRepositoryPG) Upsert(ctx context.Context, e *domain.Entitlement) error {
	features, err := encodeFeatures(e.EnabledFeatures)
	if err != nil {
		return err
	}
	row := r.sql.QueryRow(ctx, sqlinline.QUpsertEntitlement,
		e.Identifier,
		string(e.Type),
		e.IsActive,
		e.StartDate,
		e.EndDate,
		features,
		e.ActivatedBy,
		e.LastActivated,
		e.Notes,
	)
	return row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// Deactivate marks a row inactive. The row itself is kept.
func (r *EntitlementRepositoryPG) Deactivate(ctx context.Context, id string, at time.Time) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeactivateEntitlement, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeactivateExpired deactivates every active row whose end date passed.
func (r *EntitlementRepositoryPG) DeactivateExpired(ctx context.Context, now time.Time) (int, error) {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeactivateExpiredEntitlements, now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// RecordActivation writes the activation audit row.
func (r *EntitlementRepositoryPG) RecordActivation(ctx context.Context, a *domain.Activation) error {
	features, err := encodeFeatures(a.Features)
	if err != nil {
		return err
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertActivation,
		a.Identifier,
		a.EntitlementID,
		features,
		a.ActivatedBy,
		a.Notes,
		a.ActivatedAt,
	)
	return row.Scan(&a.ID)
}

// ListFeatures returns the feature catalogue.
func (r *EntitlementRepositoryPG) ListFeatures(ctx context.Context) ([]domain.Feature, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QListFeatures)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Feature
	for rows.Next() {
		var f domain.Feature
		if err := rows.Scan(&f.Key, &f.NameAr, &f.DescriptionAr, &f.IsPremium, &f.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func scanEntitlement(row pgx.Row) (*domain.Entitlement, error) {
	var (
		e        domain.Entitlement
		typ      string
		features []byte
	)
	err := row.Scan(
		&e.ID,
		&e.Identifier,
		&typ,
		&e.IsActive,
		&e.StartDate,
		&e.EndDate,
		&features,
		&e.ActivatedBy,
		&e.LastActivated,
		&e.Notes,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	e.Type = domain.EntitlementType(typ)
	set, err := decodeFeatures(features)
	if err != nil {
		return nil, fmt.Errorf("decode features_enabled: %w", err)
	}
	e.EnabledFeatures = set
	return &e, nil
}

func encodeFeatures(set domain.FeatureSet) ([]byte, error) {
	if set == nil {
		set = domain.FeatureSet{}
	}
	return json.Marshal(set)
}

// decodeFeatures accepts the legacy shape where values were not strictly
// booleans; any truthy value enables the key.
func decodeFeatures(raw []byte) (domain.FeatureSet, error) {
	set := domain.FeatureSet{}
	if len(raw) == 0 {
		return set, nil
	}
	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return nil, err
	}
	for k, v := range loose {
		switch val := v.(type) {
		case bool:
			set[k] = val
		case float64:
			set[k] = val != 0
		case string:
			set[k] = val != "" && val != "false"
		default:
			set[k] = val != nil
		}
	}
	return set, nil
}
