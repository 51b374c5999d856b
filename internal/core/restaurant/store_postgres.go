// Copyright (c) 2026 Restora. All rights reserved.
// Author: minh.dao.dev@gmail.com

package restaurant

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minhdao/restora/internal/core/geo"
	"github.com/minhdao/restora/internal/platform/database/schema"
	"github.com/minhdao/restora/internal/platform/dberr"
)

// PostgresRepository implements [Repository] on PostgreSQL + PostGIS.
//
// # Geography Round-Trip
//
// The location column is geography(Point, 4326). Writes send the EWKT
// literal produced by [geo.LocationPoint.EWKT] and let the server cast
// it; reads select the column as text, which yields the extended-WKB
// hex form decoded by [geo.DecodeText]. A stored value that fails to
// decode is logged and surfaced as a nil location rather than an error,
// so one corrupt row cannot break a listing page.
type PostgresRepository struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

func NewPostgresRepository(db *pgxpool.Pool, logger *slog.Logger) *PostgresRepository {
	return &PostgresRepository{db: db, logger: logger}
}

// selectColumns is the shared projection for every read query. The
// location column is rendered as text so the geography arrives as
// WKB hex.
func selectColumns() string {
	t := schema.CoreRestaurant
	return fmt.Sprintf(
		"%s, %s, %s, %s, %s, %s, %s, %s, %s, %s::text, %s, %s, %s, %s, %s, %s, %s, %s",
		t.ID, t.OwnerID, t.Name, t.Slug, t.Description, t.CuisineTypes,
		t.Phone, t.Address, t.City, t.Location, t.LogoURL, t.CoverURL,
		t.GalleryURLs, t.MenuURLs, t.CertificateURLs, t.Status,
		t.CreatedAt, t.UpdatedAt,
	)
}

// scanRestaurant reads one projected row into an entity, decoding the
// geography column last.
func (repository *PostgresRepository) scanRestaurant(row pgx.Row) (*Restaurant, error) {
	r := &Restaurant{}
	var locationHex *string

	err := row.Scan(
		&r.ID, &r.OwnerID, &r.Name, &r.Slug, &r.Description, &r.CuisineTypes,
		&r.Phone, &r.Address, &r.City, &locationHex, &r.LogoURL, &r.CoverURL,
		&r.GalleryURLs, &r.MenuURLs, &r.CertificateURLs, &r.Status,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if locationHex != nil {
		if point, ok := geo.DecodeText(*locationHex); ok {
			r.Location = &point
		} else {
			// Swallowed by design: display paths tolerate a missing
			// location, but an operator should know the row is bad.
			repository.logger.Warn("restaurant_location_undecodable",
				slog.String("restaurant_id", r.ID))
		}
	}

	return r, nil
}

// locationParam renders the write-path value for the geography column.
func locationParam(point *geo.LocationPoint) any {
	if point == nil {
		return nil
	}
	return point.EWKT()
}

func (repository *PostgresRepository) ListRestaurants(context context.Context, f Filter, limit, offset int) ([]*Restaurant, int, error) {
	t := schema.CoreRestaurant

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s IS NULL", selectColumns(), t.Table, t.DeletedAt)
	countQuery := fmt.Sprintf("SELECT count(*) FROM %s WHERE %s IS NULL", t.Table, t.DeletedAt)

	args := []any{}
	countArgs := []any{}

	appendClause := func(clause string, value any) {
		placeholder := "$" + itos(len(args)+1)
		query += fmt.Sprintf(clause, placeholder)
		countQuery += fmt.Sprintf(clause, placeholder)
		args = append(args, value)
		countArgs = append(countArgs, value)
	}

	if f.Query != "" {
		appendClause(fmt.Sprintf(" AND %s ILIKE %%s", t.Name), "%"+f.Query+"%")
	}
	if f.City != "" {
		appendClause(fmt.Sprintf(" AND %s = %%s", t.City), f.City)
	}
	if f.Cuisine != "" {
		appendClause(fmt.Sprintf(" AND %%s = ANY(%s)", t.CuisineTypes), f.Cuisine)
	}
	if f.Status != "" {
		appendClause(fmt.Sprintf(" AND %s = %%s", t.Status), string(f.Status))
	}

	query += fmt.Sprintf(" ORDER BY %s DESC LIMIT $%s OFFSET $%s",
		t.CreatedAt, itos(len(args)+1), itos(len(args)+2))
	args = append(args, limit, offset)

	var total int
	if err := repository.db.QueryRow(context, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_restaurants")
	}

	rows, err := repository.db.Query(context, query, args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_restaurants")
	}
	defer rows.Close()

	var restaurants []*Restaurant
	for rows.Next() {
		r, err := repository.scanRestaurant(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_restaurant")
		}
		restaurants = append(restaurants, r)
	}

	return restaurants, total, nil
}

func (repository *PostgresRepository) GetRestaurant(context context.Context, id string) (*Restaurant, error) {
	t := schema.CoreRestaurant
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL",
		selectColumns(), t.Table, t.ID, t.DeletedAt)

	r, err := repository.scanRestaurant(repository.db.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "get_restaurant")
	}
	return r, nil
}

func (repository *PostgresRepository) GetRestaurantBySlug(context context.Context, slug string) (*Restaurant, error) {
	t := schema.CoreRestaurant
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL",
		selectColumns(), t.Table, t.Slug, t.DeletedAt)

	r, err := repository.scanRestaurant(repository.db.QueryRow(context, query, slug))
	if err != nil {
		return nil, dberr.Wrap(err, "get_restaurant_by_slug")
	}
	return r, nil
}

// insertRestaurantSQL builds the INSERT for a new restaurant row. Every
// writable column appears in the list, including the media slots — a
// duplicated restaurant arrives with copied logo/cover URLs that must
// land in the row, not fall back to the column defaults.
func insertRestaurantSQL() string {
	t := schema.CoreRestaurant
	return fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::geography, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING %s, %s
	`,
		t.Table, t.ID, t.OwnerID, t.Name, t.Slug, t.Description, t.CuisineTypes,
		t.Phone, t.Address, t.City, t.Location, t.LogoURL, t.CoverURL,
		t.GalleryURLs, t.MenuURLs, t.CertificateURLs, t.Status,
		t.CreatedAt, t.UpdatedAt,
		t.CreatedAt, t.UpdatedAt,
	)
}

// insertRestaurantArgs renders the bind parameters for [insertRestaurantSQL],
// in placeholder order.
func insertRestaurantArgs(r *Restaurant) []any {
	return []any{
		r.ID, r.OwnerID, r.Name, r.Slug, r.Description, r.CuisineTypes,
		r.Phone, r.Address, r.City, locationParam(r.Location),
		r.LogoURL, r.CoverURL,
		r.GalleryURLs, r.MenuURLs, r.CertificateURLs, string(r.Status),
	}
}

func (repository *PostgresRepository) CreateRestaurant(context context.Context, r *Restaurant) error {
	err := repository.db.QueryRow(context, insertRestaurantSQL(), insertRestaurantArgs(r)...).
		Scan(&r.CreatedAt, &r.UpdatedAt)

	return dberr.Wrap(err, "create_restaurant")
}

func (repository *PostgresRepository) UpdateRestaurant(context context.Context, r *Restaurant) error {
	t := schema.CoreRestaurant
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7,
		    %s = $8::geography, %s = $9, %s = NOW()
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s
	`,
		t.Table, t.Name, t.Description, t.CuisineTypes, t.Phone, t.Address,
		t.City, t.Location, t.Status, t.UpdatedAt,
		t.ID, t.DeletedAt,
		t.UpdatedAt,
	)

	err := repository.db.QueryRow(context, query,
		r.ID, r.Name, r.Description, r.CuisineTypes, r.Phone, r.Address,
		r.City, locationParam(r.Location), string(r.Status),
	).Scan(&r.UpdatedAt)

	return dberr.Wrap(err, "update_restaurant")
}

// UpdateMedia performs a partial update of the URL columns. Only non-nil
// fields of the update are written.
func (repository *PostgresRepository) UpdateMedia(context context.Context, id string, update MediaUpdate) error {
	t := schema.CoreRestaurant

	set := ""
	args := []any{id}

	appendSet := func(column string, value any) {
		if set != "" {
			set += ", "
		}
		args = append(args, value)
		set += column + " = $" + itos(len(args))
	}

	if update.LogoURL != nil {
		appendSet(t.LogoURL, *update.LogoURL)
	}
	if update.CoverURL != nil {
		appendSet(t.CoverURL, *update.CoverURL)
	}
	if update.GalleryURLs != nil {
		appendSet(t.GalleryURLs, *update.GalleryURLs)
	}
	if update.MenuURLs != nil {
		appendSet(t.MenuURLs, *update.MenuURLs)
	}
	if update.CertificateURLs != nil {
		appendSet(t.CertificateURLs, *update.CertificateURLs)
	}

	if set == "" {
		return nil
	}

	query := fmt.Sprintf("UPDATE %s SET %s, %s = NOW() WHERE %s = $1 AND %s IS NULL",
		t.Table, set, t.UpdatedAt, t.ID, t.DeletedAt)

	cmd, err := repository.db.Exec(context, query, args...)
	if err != nil {
		return dberr.Wrap(err, "update_restaurant_media")
	}
	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func (repository *PostgresRepository) DeleteRestaurant(context context.Context, id string) error {
	t := schema.CoreRestaurant
	query := fmt.Sprintf("UPDATE %s SET %s = NOW() WHERE %s = $1 AND %s IS NULL",
		t.Table, t.DeletedAt, t.ID, t.DeletedAt)

	cmd, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_restaurant")
	}

	if cmd.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func itos(i int) string {
	return strconv.Itoa(i)
}
