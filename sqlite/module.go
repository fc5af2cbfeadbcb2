package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/gridscrape"
	"github.com/google/uuid"
)

// Ensure ModuleService implements gridscrape.ModuleService at compile time.
var _ gridscrape.ModuleService = (*ModuleService)(nil)

// ModuleService implements gridscrape.ModuleService using SQLite.
type ModuleService struct {
	db *DB
}

// NewModuleService creates a new ModuleService.
func NewModuleService(db *DB) *ModuleService {
	return &ModuleService{db: db}
}

// SaveModule inserts the module or updates the row with the same URL.
// A module whose content is unchanged leaves the stored row untouched.
func (s *ModuleService) SaveModule(ctx context.Context, m *gridscrape.Module) error {
	if err := m.Validate(); err != nil {
		return err
	}

	scrapedAt := m.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO modules (
			id, url, name, manufacturer,
			width, depth, current_pos12, current_neg12, current_5v,
			description, content_hash, scraped_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			name = excluded.name,
			manufacturer = excluded.manufacturer,
			width = excluded.width,
			depth = excluded.depth,
			current_pos12 = excluded.current_pos12,
			current_neg12 = excluded.current_neg12,
			current_5v = excluded.current_5v,
			description = excluded.description,
			content_hash = excluded.content_hash,
			scraped_at = excluded.scraped_at
		WHERE modules.content_hash <> excluded.content_hash
	`,
		uuid.New().String(),
		m.URL,
		m.Name,
		m.Manufacturer,
		quantityValue(m.Width),
		quantityValue(m.Depth),
		quantityValue(m.CurrentPos12),
		quantityValue(m.CurrentNeg12),
		quantityValue(m.Current5V),
		m.Description,
		contentHash(m),
		scrapedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to save module: %w", err)
	}
	return nil
}

// FindModuleByURL retrieves a module by its detail page URL.
func (s *ModuleService) FindModuleByURL(ctx context.Context, url string) (*gridscrape.Module, error) {
	m, err := scanModule(s.db.QueryRowContext(ctx, selectModules+` WHERE url = ?`, url))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, gridscrape.Errorf(gridscrape.ENOTFOUND, "module not found")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// FindModules retrieves modules matching the filter, ordered by name.
func (s *ModuleService) FindModules(ctx context.Context, filter gridscrape.ModuleFilter) ([]*gridscrape.Module, error) {
	var query strings.Builder
	query.WriteString(selectModules + ` WHERE 1=1`)
	var args []any

	if filter.Manufacturer != nil {
		query.WriteString(" AND manufacturer = ?")
		args = append(args, *filter.Manufacturer)
	}
	if filter.MaxWidth != nil {
		query.WriteString(" AND width IS NOT NULL AND width <= ?")
		args = append(args, *filter.MaxWidth)
	}

	query.WriteString(" ORDER BY name ASC, url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	modules := make([]*gridscrape.Module, 0)
	for rows.Next() {
		m, err := scanModule(rows)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return modules, nil
}

// DeleteModule removes a module by URL.
func (s *ModuleService) DeleteModule(ctx context.Context, url string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM modules WHERE url = ?`, url)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return gridscrape.Errorf(gridscrape.ENOTFOUND, "module not found")
	}
	return nil
}

const selectModules = `
	SELECT url, name, manufacturer,
		width, depth, current_pos12, current_neg12, current_5v,
		description, scraped_at
	FROM modules`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanModule(row scanner) (*gridscrape.Module, error) {
	var (
		m                                  gridscrape.Module
		width, depth, pos12, neg12, plus5v sql.NullInt64
		scrapedAt                          string
	)
	err := row.Scan(
		&m.URL,
		&m.Name,
		&m.Manufacturer,
		&width,
		&depth,
		&pos12,
		&neg12,
		&plus5v,
		&m.Description,
		&scrapedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Width = nullQuantity(width)
	m.Depth = nullQuantity(depth)
	m.CurrentPos12 = nullQuantity(pos12)
	m.CurrentNeg12 = nullQuantity(neg12)
	m.Current5V = nullQuantity(plus5v)

	m.ScrapedAt, err = parseRFC3339(scrapedAt, "scraped_at")
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// contentHash fingerprints the scraped fields of a module.
func contentHash(m *gridscrape.Module) string {
	h := xxhash.New()
	for _, field := range []string{
		m.Name,
		m.Manufacturer,
		m.Width.String(),
		m.Depth.String(),
		m.CurrentPos12.String(),
		m.CurrentNeg12.String(),
		m.Current5V.String(),
		m.Description,
	} {
		_, _ = h.WriteString(field)
		_, _ = h.Write([]byte{0})
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
