package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bao1311/EventFinder/services/api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.pool, fn)
}

const eventColumns = `
id, source, source_id, name, url, image_url,
segment_id, segment, genre,
starts_at, timezone, date_tba, time_tba, status,
venue_name, venue_address, venue_city, venue_state, venue_country, venue_postal_code,
price_min, price_max, price_currency,
latitude, longitude, geocoded, fetched_at`

// UpsertEvents inserts events keyed by (source, source_id), updating
// the mutable fields of rows that already exist. The stored ID of an
// existing row is kept. Returns the number of rows written.
func (r *EventRepository) UpsertEvents(ctx context.Context, events []domain.Event) (int, error) {
	const stmt = `
INSERT INTO events (` + eventColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
ON CONFLICT (source, source_id) DO UPDATE SET
	name = EXCLUDED.name,
	url = EXCLUDED.url,
	image_url = EXCLUDED.image_url,
	segment_id = EXCLUDED.segment_id,
	segment = EXCLUDED.segment,
	genre = EXCLUDED.genre,
	starts_at = EXCLUDED.starts_at,
	timezone = EXCLUDED.timezone,
	date_tba = EXCLUDED.date_tba,
	time_tba = EXCLUDED.time_tba,
	status = EXCLUDED.status,
	venue_name = EXCLUDED.venue_name,
	venue_address = EXCLUDED.venue_address,
	venue_city = EXCLUDED.venue_city,
	venue_state = EXCLUDED.venue_state,
	venue_country = EXCLUDED.venue_country,
	venue_postal_code = EXCLUDED.venue_postal_code,
	price_min = EXCLUDED.price_min,
	price_max = EXCLUDED.price_max,
	price_currency = EXCLUDED.price_currency,
	latitude = EXCLUDED.latitude,
	longitude = EXCLUDED.longitude,
	geocoded = EXCLUDED.geocoded,
	fetched_at = EXCLUDED.fetched_at`

	written := 0
	err := r.WithTx(ctx, func(txCtx context.Context) error {
		for _, ev := range events {
			var startsAt *time.Time
			if !ev.DateTBA {
				t := ev.StartsAt
				startsAt = &t
			}
			_, err := r.exec(txCtx, stmt,
				ev.ID, ev.Source, ev.SourceID, ev.Name, ev.URL, ev.ImageURL,
				ev.SegmentID, ev.Segment, ev.Genre,
				startsAt, ev.Timezone, ev.DateTBA, ev.TimeTBA, ev.Status,
				ev.Venue.Name, ev.Venue.Address, ev.Venue.City, ev.Venue.State, ev.Venue.Country, ev.Venue.PostalCode,
				ev.Price.Min, ev.Price.Max, ev.Price.Currency,
				ev.Latitude, ev.Longitude, ev.Geocoded, ev.FetchedAt,
			)
			if err != nil {
				return fmt.Errorf("upsert event %s/%s: %w", ev.Source, ev.SourceID, err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// ListEvents queries the cache with the given filter. Date-TBA rows
// sort last on the date keys; unpriced rows sort last on the price
// keys.
func (r *EventRepository) ListEvents(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + eventColumns + ` FROM events WHERE LOWER(venue_city) = LOWER($1)`)
	args := []any{filter.City}

	if !filter.From.IsZero() {
		args = append(args, filter.From)
		fmt.Fprintf(&sb, ` AND (date_tba OR starts_at >= $%d)`, len(args))
	}
	if len(filter.SegmentIDs) > 0 {
		args = append(args, filter.SegmentIDs)
		fmt.Fprintf(&sb, ` AND segment_id = ANY($%d)`, len(args))
	}
	if filter.Keyword != "" {
		args = append(args, "%"+escapeLike(filter.Keyword)+"%")
		fmt.Fprintf(&sb, ` AND (name ILIKE $%d OR venue_name ILIKE $%d OR genre ILIKE $%d)`, len(args), len(args), len(args))
	}

	sb.WriteString(orderClause(filter.Sort))

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&sb, ` LIMIT $%d`, len(args))
	}

	rows, err := r.query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func orderClause(sortKey domain.EventSort) string {
	switch sortKey {
	case domain.SortDateDesc:
		return ` ORDER BY date_tba ASC, starts_at DESC, name ASC`
	case domain.SortNameAsc:
		return ` ORDER BY name ASC, starts_at ASC`
	case domain.SortNameDesc:
		return ` ORDER BY name DESC, starts_at ASC`
	case domain.SortPriceAsc:
		return ` ORDER BY (price_currency = '') ASC, price_min ASC, name ASC`
	case domain.SortPriceDesc:
		return ` ORDER BY (price_currency = '') ASC, price_min DESC, name ASC`
	default:
		return ` ORDER BY date_tba ASC, starts_at ASC, name ASC`
	}
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

func (r *EventRepository) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	ev, err := scanEvent(r.queryRow(ctx, query, id))
	if err != nil {
		if isInvalidUUID(err) {
			return domain.Event{}, domain.ErrInvalidID
		}
		if err == pgx.ErrNoRows {
			return domain.Event{}, domain.ErrEventNotFound
		}
		return domain.Event{}, fmt.Errorf("get event: %w", err)
	}
	return ev, nil
}

// LatestFetch returns the newest fetched_at for a city, or the zero
// time when the city has never been cached.
func (r *EventRepository) LatestFetch(ctx context.Context, city string) (time.Time, error) {
	const query = `SELECT MAX(fetched_at) FROM events WHERE LOWER(venue_city) = LOWER($1)`

	var latest *time.Time
	if err := r.queryRow(ctx, query, city).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("latest fetch: %w", err)
	}
	if latest == nil {
		return time.Time{}, nil
	}
	return *latest, nil
}

// PruneStartedBefore deletes events whose start is known and older than
// the cutoff. Date-TBA rows are never pruned.
func (r *EventRepository) PruneStartedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	const stmt = `DELETE FROM events WHERE NOT date_tba AND starts_at < $1`

	tag, err := r.exec(ctx, stmt, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune events: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func scanEvent(row pgx.Row) (domain.Event, error) {
	var ev domain.Event
	var startsAt *time.Time
	err := row.Scan(
		&ev.ID, &ev.Source, &ev.SourceID, &ev.Name, &ev.URL, &ev.ImageURL,
		&ev.SegmentID, &ev.Segment, &ev.Genre,
		&startsAt, &ev.Timezone, &ev.DateTBA, &ev.TimeTBA, &ev.Status,
		&ev.Venue.Name, &ev.Venue.Address, &ev.Venue.City, &ev.Venue.State, &ev.Venue.Country, &ev.Venue.PostalCode,
		&ev.Price.Min, &ev.Price.Max, &ev.Price.Currency,
		&ev.Latitude, &ev.Longitude, &ev.Geocoded, &ev.FetchedAt,
	)
	if err != nil {
		return domain.Event{}, err
	}
	if startsAt != nil {
		ev.StartsAt = *startsAt
	}
	return ev, nil
}

func (r *EventRepository) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return r.pool.Exec(ctx, sql, args...)
}

func (r *EventRepository) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return r.pool.Query(ctx, sql, args...)
}

func (r *EventRepository) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return r.pool.QueryRow(ctx, sql, args...)
}
