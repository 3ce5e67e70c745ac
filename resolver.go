package ormnaming

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Resolver runs the implicit and physical naming stages over model sources.
// A Resolver is immutable after construction and safe for concurrent use.
type Resolver struct {
	implicit ImplicitNamingStrategy
	physical PhysicalNamingStrategy
	obs      ObservabilityConfig
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithImplicitStrategy sets the first naming stage.
func WithImplicitStrategy(s ImplicitNamingStrategy) ResolverOption {
	return func(r *Resolver) {
		if s != nil {
			r.implicit = s
		}
	}
}

// WithPhysicalStrategy sets the second naming stage.
func WithPhysicalStrategy(s PhysicalNamingStrategy) ResolverOption {
	return func(r *Resolver) {
		if s != nil {
			r.physical = s
		}
	}
}

// WithObservability applies logging, tracing and metrics options.
func WithObservability(opts ...ObservabilityOption) ResolverOption {
	return func(r *Resolver) {
		for _, opt := range opts {
			opt(&r.obs)
		}
	}
}

// NewResolver creates a Resolver. Without options it uses ImplicitJPA and
// PhysicalSnakeCase.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		implicit: ImplicitJPA,
		physical: PhysicalSnakeCase,
		obs:      defaultObservabilityConfig(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewResolverByName creates a Resolver from strategy names as they appear in
// configuration files and command-line flags. Empty names select the defaults.
func NewResolverByName(implicit, physical string, opts ...ResolverOption) (*Resolver, error) {
	is, err := ImplicitStrategyByName(implicit)
	if err != nil {
		return nil, err
	}
	ps, err := PhysicalStrategyByName(physical)
	if err != nil {
		return nil, err
	}
	return NewResolver(append([]ResolverOption{WithImplicitStrategy(is), WithPhysicalStrategy(ps)}, opts...)...), nil
}

// ImplicitStrategy returns the first naming stage.
func (r *Resolver) ImplicitStrategy() ImplicitNamingStrategy { return r.implicit }

// PhysicalStrategy returns the second naming stage.
func (r *Resolver) PhysicalStrategy() PhysicalNamingStrategy { return r.physical }

// TableName runs both stages for an entity.
func (r *Resolver) TableName(src EntitySource) NameResolution {
	logical := src.LogicalName
	if logical == "" {
		logical = src.GoName
	}
	implicit := r.implicit.TableName(src)
	return NameResolution{
		Logical:  logical,
		Override: src.TableOverride,
		Implicit: implicit,
		Physical: r.physical.ToPhysicalTableName(implicit),
	}
}

// ColumnName runs both stages for a field.
func (r *Resolver) ColumnName(src FieldSource) NameResolution {
	logical := src.LogicalName
	if logical == "" {
		logical = LogicalName(src.GoName)
	}
	implicit := r.implicit.ColumnName(src)
	return NameResolution{
		Logical:  logical,
		Override: src.Override,
		Implicit: implicit,
		Physical: r.physical.ToPhysicalColumnName(implicit),
	}
}

// Resolve builds the mapping of an entity.
//
// Resolution fails with ErrNoPrimaryKey when no field is tagged primaryKey
// and no field is named id, with ErrDuplicateColumn when two fields end up
// with the same physical name, and with ErrEmptyName when a stage produces
// an empty name.
func (r *Resolver) Resolve(ctx context.Context, src EntitySource) (*EntityMapping, error) {
	start := time.Now()
	ctx, span := r.obs.startSpan(ctx, "ormnaming.Resolve",
		trace.WithAttributes(
			attribute.String("ormnaming.entity", src.GoName),
			attribute.String("ormnaming.implicit", r.implicit.Name()),
			attribute.String("ormnaming.physical", r.physical.Name()),
		),
	)
	defer span.End()

	m, err := r.resolve(src)

	normalized := 0
	if m != nil {
		for _, c := range m.columns {
			if c.Normalized() {
				normalized++
			}
		}
		span.SetAttributes(
			attribute.String("ormnaming.table", m.table.Physical),
			attribute.Int("ormnaming.columns", len(m.columns)),
		)
	}
	r.obs.recordResolve(ctx, src.GoName, time.Since(start), normalized, err)

	if err != nil {
		span.RecordError(err)
		if r.obs.Logger != nil {
			r.obs.Logger.LogAttrs(ctx, slog.LevelError, "mapping resolution failed",
				slog.String("entity", src.GoName),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}

	r.logMapping(ctx, m)
	return m, nil
}

func (r *Resolver) resolve(src EntitySource) (*EntityMapping, error) {
	table := r.TableName(src)
	if table.Physical == "" {
		return nil, fmt.Errorf("%w: table of %s", ErrEmptyName, src.GoName)
	}

	m := &EntityMapping{
		entity:     src.GoName,
		table:      table,
		columns:    make([]ColumnMapping, 0, len(src.Fields)),
		pk:         -1,
		byName:     make(map[string]int, len(src.Fields)*2),
		byPhysical: make(map[string]int, len(src.Fields)),
		implicit:   r.implicit.Name(),
		physical:   r.physical.Name(),
	}

	for _, f := range src.Fields {
		name := r.ColumnName(f)
		if name.Physical == "" {
			return nil, fmt.Errorf("%w: column of %s.%s", ErrEmptyName, src.GoName, f.GoName)
		}
		if prev, ok := m.byPhysical[name.Physical]; ok {
			return nil, fmt.Errorf("%w: %s.%s and %s.%s both map to %q",
				ErrDuplicateColumn, src.GoName, m.columns[prev].Field, src.GoName, f.GoName, name.Physical)
		}

		col := ColumnMapping{
			NameResolution: name,
			Field:          f.GoName,
			PrimaryKey:     f.PrimaryKey,
			AutoIncrement:  f.AutoIncrement,
			GoType:         f.GoType,
			Kind:           f.Kind,
		}
		i := len(m.columns)
		m.columns = append(m.columns, col)
		m.byName[f.GoName] = i
		m.byName[name.Logical] = i
		m.byPhysical[name.Physical] = i

		if f.PrimaryKey && m.pk < 0 {
			m.pk = i
		}
	}

	if m.pk < 0 {
		m.pk = conventionalPrimaryKey(m.columns)
	}
	if m.pk < 0 {
		return nil, fmt.Errorf("%w: %s has no field tagged primaryKey or named ID", ErrNoPrimaryKey, src.GoName)
	}
	m.columns[m.pk].PrimaryKey = true

	return m, nil
}

// conventionalPrimaryKey finds a field whose logical name is id.
func conventionalPrimaryKey(cols []ColumnMapping) int {
	for i, c := range cols {
		if strings.EqualFold(c.Logical, "id") {
			return i
		}
	}
	return -1
}

func (r *Resolver) logMapping(ctx context.Context, m *EntityMapping) {
	logger := r.obs.Logger
	if logger == nil {
		return
	}

	logger.LogAttrs(ctx, slog.LevelDebug, "table name resolved",
		slog.String("entity", m.entity),
		slog.String("implicit", m.table.Implicit),
		slog.String("physical", m.table.Physical),
	)
	for _, c := range m.columns {
		logger.LogAttrs(ctx, slog.LevelDebug, "column name resolved",
			slog.String("entity", m.entity),
			slog.String("field", c.Logical),
			slog.String("implicit", c.Implicit),
			slog.String("physical", c.Physical),
		)
		if c.HasOverride() && c.Normalized() {
			logger.LogAttrs(ctx, slog.LevelWarn, "column override rewritten by physical naming",
				slog.String("entity", m.entity),
				slog.String("override", c.Override),
				slog.String("physical", c.Physical),
				slog.String("strategy", m.physical),
			)
		}
	}
}

// Resolve builds the mapping of model type T.
func Resolve[T any](ctx context.Context, r *Resolver) (*EntityMapping, error) {
	src, err := SourceOf(reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return r.Resolve(ctx, src)
}
