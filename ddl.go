package ormnaming

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CreateTables creates the tables of the given mappings, if they do not
// exist yet, in a single transaction.
//
// Example:
//
//	err := session.CreateTables(ctx, ormnaming.Load[domain.UserRecord]())
func (s *Session) CreateTables(ctx context.Context, mappings ...*EntityMapping) error {
	ctx, span := s.obs.startSpan(ctx, "ormnaming.CreateTables",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", s.dialect.Name()),
			attribute.StringSlice("ormnaming.tables", lo.Map(mappings, func(m *EntityMapping, _ int) string {
				return m.TableName()
			})),
		),
	)
	defer span.End()

	err := s.Transaction(ctx, func(tx *Session) error {
		for _, m := range mappings {
			if _, err := tx.Exec(ctx, CreateTableSQL(tx.dialect, m)); err != nil {
				return fmt.Errorf("ormnaming: create table %s: %w", m.TableName(), err)
			}
		}
		return nil
	})
	if err != nil {
		span.RecordError(err)
	}
	return err
}

// TableColumns returns the column names of an existing table in ordinal
// order. A table that does not exist has no columns.
func (s *Session) TableColumns(ctx context.Context, table string) ([]string, error) {
	query, args, err := s.dialect.ColumnsQuery(table).ToSql()
	if err != nil {
		return nil, err
	}

	var cols []string
	if err := s.Select(ctx, &cols, query, args...); err != nil {
		return nil, fmt.Errorf("ormnaming: list columns of %s: %w", table, err)
	}
	return cols, nil
}

// ValidateSchema checks that every resolved column of m exists in the
// database. It returns a *SchemaMismatchError when the table or some of its
// columns are missing.
//
// After the column check, a SELECT of all resolved columns with LIMIT 0 is
// run against the table, so the names are known to be usable as written.
func (s *Session) ValidateSchema(ctx context.Context, m *EntityMapping) error {
	ctx, span := s.obs.startSpan(ctx, "ormnaming.ValidateSchema",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", s.dialect.Name()),
			attribute.String("ormnaming.table", m.TableName()),
		),
	)
	defer span.End()

	if err := s.validateSchema(ctx, m); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

func (s *Session) validateSchema(ctx context.Context, m *EntityMapping) error {
	existing, err := s.TableColumns(ctx, m.TableName())
	if err != nil {
		return err
	}

	resolved := m.SelectColumns()
	if len(existing) == 0 {
		return &SchemaMismatchError{Table: m.TableName(), Missing: resolved, TableMissing: true}
	}

	missing, _ := lo.Difference(resolved, existing)
	if len(missing) > 0 {
		return &SchemaMismatchError{Table: m.TableName(), Missing: missing}
	}

	query, args, err := ProbeQuery(s.dialect, m).ToSql()
	if err != nil {
		return err
	}
	rows, err := s.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("ormnaming: probe %s: %w", m.TableName(), err)
	}
	defer rows.Close()
	return rows.Err()
}

// ProbeQuery builds a query selecting every resolved column of m and no rows.
func ProbeQuery(d Dialect, m *EntityMapping) sq.SelectBuilder {
	cols := lo.Map(m.columns, func(c ColumnMapping, _ int) string {
		return d.Quote(c.Physical)
	})
	return sq.Select(cols...).
		From(d.Quote(m.TableName())).
		Limit(0).
		PlaceholderFormat(d.PlaceholderFormat())
}
