package repository

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/alcohol-tracker/internal/drink/domain"
)

var tracer = otel.Tracer("drink-repository")

func finish(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// TracingDrinkRepository wraps a DrinkRepository with spans
type TracingDrinkRepository struct {
	next domain.DrinkRepository
}

// NewTracingDrinkRepository creates a new repository with tracing
func NewTracingDrinkRepository(next domain.DrinkRepository) *TracingDrinkRepository {
	return &TracingDrinkRepository{next: next}
}

func (r *TracingDrinkRepository) Create(ctx context.Context, drink *domain.Drink) (err error) {
	ctx, span := tracer.Start(ctx, "repository.Drink.Create",
		trace.WithAttributes(
			attribute.String("drink.name", drink.Name),
			attribute.String("drink.type", drink.Type),
			attribute.Float64("drink.standard_units", drink.StandardUnits),
		),
	)
	defer func() { finish(span, err) }()

	if err = r.next.Create(ctx, drink); err != nil {
		return err
	}
	span.SetAttributes(attribute.Int("drink.id", int(drink.ID)))
	return nil
}

func (r *TracingDrinkRepository) FindByID(ctx context.Context, id uint) (_ *domain.Drink, err error) {
	ctx, span := tracer.Start(ctx, "repository.Drink.FindByID",
		trace.WithAttributes(attribute.Int("drink.id", int(id))),
	)
	defer func() { finish(span, err) }()

	return r.next.FindByID(ctx, id)
}

func (r *TracingDrinkRepository) FindAll(ctx context.Context) (_ []domain.Drink, err error) {
	ctx, span := tracer.Start(ctx, "repository.Drink.FindAll")
	defer func() { finish(span, err) }()

	drinks, err := r.next.FindAll(ctx)
	span.SetAttributes(attribute.Int("result.count", len(drinks)))
	return drinks, err
}

func (r *TracingDrinkRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := tracer.Start(ctx, "repository.Drink.Delete",
		trace.WithAttributes(attribute.Int("drink.id", int(id))),
	)
	defer func() { finish(span, err) }()

	return r.next.Delete(ctx, id)
}

func (r *TracingDrinkRepository) Count(ctx context.Context) (_ int64, err error) {
	ctx, span := tracer.Start(ctx, "repository.Drink.Count")
	defer func() { finish(span, err) }()

	return r.next.Count(ctx)
}

// TracingEntryRepository wraps an EntryRepository with spans
type TracingEntryRepository struct {
	next domain.EntryRepository
}

// NewTracingEntryRepository creates a new repository with tracing
func NewTracingEntryRepository(next domain.EntryRepository) *TracingEntryRepository {
	return &TracingEntryRepository{next: next}
}

func (r *TracingEntryRepository) Create(ctx context.Context, entry *domain.DrinkEntry) (err error) {
	ctx, span := tracer.Start(ctx, "repository.Entry.Create",
		trace.WithAttributes(
			attribute.Int("drink.id", int(entry.DrinkID)),
			attribute.String("entry.timestamp", entry.Timestamp.Format(time.RFC3339)),
		),
	)
	defer func() { finish(span, err) }()

	if err = r.next.Create(ctx, entry); err != nil {
		return err
	}
	span.SetAttributes(attribute.Int("entry.id", int(entry.ID)))
	return nil
}

func (r *TracingEntryRepository) FindByID(ctx context.Context, id uint) (_ *domain.DrinkEntry, err error) {
	ctx, span := tracer.Start(ctx, "repository.Entry.FindByID",
		trace.WithAttributes(attribute.Int("entry.id", int(id))),
	)
	defer func() { finish(span, err) }()

	return r.next.FindByID(ctx, id)
}

func (r *TracingEntryRepository) FindAll(ctx context.Context) (_ []domain.DrinkEntry, err error) {
	ctx, span := tracer.Start(ctx, "repository.Entry.FindAll")
	defer func() { finish(span, err) }()

	entries, err := r.next.FindAll(ctx)
	span.SetAttributes(attribute.Int("result.count", len(entries)))
	return entries, err
}

func (r *TracingEntryRepository) Update(ctx context.Context, entry *domain.DrinkEntry) (err error) {
	ctx, span := tracer.Start(ctx, "repository.Entry.Update",
		trace.WithAttributes(
			attribute.Int("entry.id", int(entry.ID)),
			attribute.Int("drink.id", int(entry.DrinkID)),
		),
	)
	defer func() { finish(span, err) }()

	return r.next.Update(ctx, entry)
}

func (r *TracingEntryRepository) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := tracer.Start(ctx, "repository.Entry.Delete",
		trace.WithAttributes(attribute.Int("entry.id", int(id))),
	)
	defer func() { finish(span, err) }()

	return r.next.Delete(ctx, id)
}

func (r *TracingEntryRepository) DeleteAll(ctx context.Context) (_ int64, err error) {
	ctx, span := tracer.Start(ctx, "repository.Entry.DeleteAll")
	defer func() { finish(span, err) }()

	n, err := r.next.DeleteAll(ctx)
	span.SetAttributes(attribute.Int64("result.deleted", n))
	return n, err
}

func (r *TracingEntryRepository) Count(ctx context.Context) (_ int64, err error) {
	ctx, span := tracer.Start(ctx, "repository.Entry.Count")
	defer func() { finish(span, err) }()

	return r.next.Count(ctx)
}
