package stats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"

	apperrors "sportfund/internal/errors"
	"sportfund/internal/models"
	"sportfund/internal/pagination"
)

// Accessor reads and appends season-stats snapshots for one sport.
type Accessor interface {
	Descriptor() Descriptor
	// FindLatest returns the newest snapshot for the athlete, or nil if none exists.
	FindLatest(ctx context.Context, athleteID string) (models.StatsSnapshot, error)
	// CreateSnapshot inserts a new snapshot. When base is non-nil its values are
	// copied first and fields are applied on top.
	CreateSnapshot(ctx context.Context, athleteID string, base models.StatsSnapshot, fields Fields) (models.StatsSnapshot, error)
	// Diff lists the accepted fields whose value differs from existing.
	Diff(ctx context.Context, existing models.StatsSnapshot, fields Fields) []FieldChange
	// Accepted returns the fields that map onto stats columns, sorted by column.
	Accepted(fields Fields) []FieldValue
	History(ctx context.Context, athleteID string, page pagination.PageRequest) (*pagination.PageResponse[models.StatsSnapshot], error)
}

// snapshotStore is the single implementation behind every sport. T is the
// sport's row type; PT is *T and carries the StatsSnapshot methods.
type snapshotStore[T any, PT interface {
	*T
	models.StatsSnapshot
}] struct {
	db     *gorm.DB
	desc   Descriptor
	schema *schema.Schema
	namer  schema.Namer
}

func newSnapshotStore[T any, PT interface {
	*T
	models.StatsSnapshot
}](db *gorm.DB, desc Descriptor) (*snapshotStore[T, PT], error) {
	sch, err := schema.Parse(new(T), &sync.Map{}, db.NamingStrategy)
	if err != nil {
		return nil, fmt.Errorf("parse %s stats schema: %w", desc.Sport, err)
	}
	desc.Table = sch.Table
	return &snapshotStore[T, PT]{db: db, desc: desc, schema: sch, namer: db.NamingStrategy}, nil
}

func (s *snapshotStore[T, PT]) Descriptor() Descriptor { return s.desc }

func (s *snapshotStore[T, PT]) FindLatest(ctx context.Context, athleteID string) (models.StatsSnapshot, error) {
	var row T
	err := s.db.WithContext(ctx).
		Where("athlete_id = ?", athleteID).
		Scopes(pagination.NewestFirst).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return PT(&row), nil
}

func (s *snapshotStore[T, PT]) CreateSnapshot(ctx context.Context, athleteID string, base models.StatsSnapshot, fields Fields) (models.StatsSnapshot, error) {
	row := PT(new(T))
	if prev, ok := base.(PT); ok && prev != nil {
		*row = *prev
	}
	row.ResetIdentity(athleteID)

	target := reflect.ValueOf(row).Elem()
	for _, fv := range s.resolve(fields) {
		if !fitsColumn(fv.field, fv.value) {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
				fmt.Sprintf("%s must be a whole number, got %v", fv.field.DBName, fv.value))
		}
		if err := fv.field.Set(ctx, target, fv.value); err != nil {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput,
				fmt.Sprintf("Invalid value for %s: %v", fv.field.DBName, fv.value))
		}
	}

	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return row, nil
}

func (s *snapshotStore[T, PT]) Diff(ctx context.Context, existing models.StatsSnapshot, fields Fields) []FieldChange {
	resolved := s.resolve(fields)
	changes := make([]FieldChange, 0, len(resolved))

	prev, ok := existing.(PT)
	if !ok || prev == nil {
		for _, fv := range resolved {
			changes = append(changes, FieldChange{Column: fv.field.DBName, To: fv.value})
		}
		return changes
	}

	source := reflect.ValueOf(prev).Elem()
	for _, fv := range resolved {
		stored, _ := fv.field.ValueOf(ctx, source)
		if !sameValue(stored, fv.value) {
			changes = append(changes, FieldChange{Column: fv.field.DBName, From: stored, To: fv.value})
		}
	}
	return changes
}

func (s *snapshotStore[T, PT]) Accepted(fields Fields) []FieldValue {
	resolved := s.resolve(fields)
	out := make([]FieldValue, 0, len(resolved))
	for _, fv := range resolved {
		out = append(out, FieldValue{Column: fv.field.DBName, Value: fv.value})
	}
	return out
}

func (s *snapshotStore[T, PT]) History(ctx context.Context, athleteID string, page pagination.PageRequest) (*pagination.PageResponse[models.StatsSnapshot], error) {
	query := s.db.WithContext(ctx).Model(new(T)).Where("athlete_id = ?", athleteID)
	rows, err := pagination.Fetch[T](query, page, pagination.NewestFirst)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	snapshots := make([]models.StatsSnapshot, len(rows.Data))
	for i := range rows.Data {
		snapshots[i] = PT(&rows.Data[i])
	}
	result := pagination.NewPageResponse(snapshots, rows.Page, rows.PageSize, rows.TotalItems)
	return &result, nil
}

type resolvedField struct {
	field *schema.Field
	value any
}

// resolve maps payload keys onto stats columns, dropping unknown and reserved
// keys. The result is sorted by column name.
func (s *snapshotStore[T, PT]) resolve(fields Fields) []resolvedField {
	byColumn := make(map[string]resolvedField, len(fields))
	for key, value := range fields {
		f := s.lookup(key)
		if f == nil {
			continue
		}
		byColumn[f.DBName] = resolvedField{field: f, value: value}
	}

	out := make([]resolvedField, 0, len(byColumn))
	for _, rf := range byColumn {
		out = append(out, rf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].field.DBName < out[j].field.DBName })
	return out
}

func (s *snapshotStore[T, PT]) lookup(key string) *schema.Field {
	f := s.schema.LookUpField(key)
	if f == nil {
		f = s.schema.LookUpField(s.namer.ColumnName("", key))
	}
	if f == nil || f.DBName == "" || reservedColumns[f.DBName] {
		return nil
	}
	return f
}

// fitsColumn reports whether a numeric value can be stored in the column
// unchanged. gorm truncates fractions and wraps negatives for integer
// columns, which would make the stored value differ from the one diffed.
func fitsColumn(f *schema.Field, value any) bool {
	n, ok := asNumber(value)
	if !ok {
		return true
	}
	switch f.IndirectFieldType.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return n == math.Trunc(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return n == math.Trunc(n) && n >= 0
	}
	return true
}
