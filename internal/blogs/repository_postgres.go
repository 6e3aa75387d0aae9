package blogs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var _ Repository = (*postgresRepository)(nil)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{db: db}
}

const blogColumns = `b.id, b.title, b.description, b.body, b.tags, b.author_id, b.state, b.read_count, b.created_at, b.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBlog(row rowScanner) (*Blog, error) {
	var b Blog
	err := row.Scan(&b.ID, &b.Title, &b.Description, &b.Body, pq.Array(&b.Tags),
		&b.AuthorID, &b.State, &b.ReadCount, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func scanBlogWithAuthor(row rowScanner) (*Blog, error) {
	var b Blog
	var a Author
	err := row.Scan(&b.ID, &b.Title, &b.Description, &b.Body, pq.Array(&b.Tags),
		&b.AuthorID, &b.State, &b.ReadCount, &b.CreatedAt, &b.UpdatedAt,
		&a.FirstName, &a.LastName)
	if err != nil {
		return nil, err
	}
	b.Author = &a
	return &b, nil
}

func (r *postgresRepository) Create(ctx context.Context, b *Blog) (*Blog, error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO blogs (id, title, description, body, tags, author_id, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+strings.ReplaceAll(blogColumns, "b.", ""),
		b.ID, b.Title, b.Description, b.Body, pq.Array(b.Tags), b.AuthorID, b.State)
	created, err := scanBlog(row)
	if err != nil {
		return nil, fmt.Errorf("insert blog: %w", err)
	}
	return created, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Blog, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+blogColumns+`, u.first_name, u.last_name
		FROM blogs b
		JOIN users u ON u.id = b.author_id
		WHERE b.id = $1`, id)
	b, err := scanBlogWithAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get blog: %w", err)
	}
	return b, nil
}

func (r *postgresRepository) IncrementReadCount(ctx context.Context, id uuid.UUID) (*Blog, error) {
	// Single-statement increment so concurrent fetches cannot lose updates.
	row := r.db.QueryRowContext(ctx, `
		WITH bumped AS (
			UPDATE blogs SET read_count = read_count + 1
			WHERE id = $1
			RETURNING *
		)
		SELECT `+blogColumns+`, u.first_name, u.last_name
		FROM bumped b
		JOIN users u ON u.id = b.author_id`, id)
	b, err := scanBlogWithAuthor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("increment read count: %w", err)
	}
	return b, nil
}

// listPredicate builds the WHERE clause for the public listing. The
// published-only term is unconditional; caller filters can only narrow it.
func listPredicate(params ListParams) (string, []any) {
	where := []string{"b.state = 'published'"}
	var args []any

	if params.ID != nil {
		args = append(args, *params.ID)
		where = append(where, fmt.Sprintf("b.id = $%d", len(args)))
	}
	if params.AuthorID != nil {
		args = append(args, *params.AuthorID)
		where = append(where, fmt.Sprintf("b.author_id = $%d", len(args)))
	}
	if params.Title != "" {
		args = append(args, params.Title)
		where = append(where, fmt.Sprintf("b.title ILIKE '%%' || $%d || '%%'", len(args)))
	}
	if len(params.Tags) > 0 {
		args = append(args, pq.Array(params.Tags))
		where = append(where, fmt.Sprintf("b.tags && $%d", len(args)))
	}

	return strings.Join(where, " AND "), args
}

func (r *postgresRepository) List(ctx context.Context, params ListParams) ([]*Blog, error) {
	where, args := listPredicate(params)

	column := string(SortCreatedAt)
	if params.SortBy != "" {
		column = string(params.SortBy)
	}
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}

	args = append(args, params.Limit, params.Offset)
	query := fmt.Sprintf(`
		SELECT `+blogColumns+`, u.first_name, u.last_name
		FROM blogs b
		JOIN users u ON u.id = b.author_id
		WHERE %s
		ORDER BY b.%s %s
		LIMIT $%d OFFSET $%d`,
		where, column, direction, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list blogs: %w", err)
	}
	defer rows.Close()

	var out []*Blog
	for rows.Next() {
		b, err := scanBlogWithAuthor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *postgresRepository) Count(ctx context.Context, params ListParams) (int64, error) {
	where, args := listPredicate(params)

	var total int64
	err := r.db.QueryRowContext(ctx,
		"SELECT count(*) FROM blogs b WHERE "+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count blogs: %w", err)
	}
	return total, nil
}

func (r *postgresRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*Blog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+blogColumns+`
		FROM blogs b
		WHERE b.author_id = $1
		ORDER BY b.created_at DESC`, authorID)
	if err != nil {
		return nil, fmt.Errorf("list blogs by author: %w", err)
	}
	defer rows.Close()

	var out []*Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan blog: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, b *Blog) (*Blog, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE blogs
		SET title = $2, description = $3, body = $4, tags = $5, state = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+strings.ReplaceAll(blogColumns, "b.", ""),
		b.ID, b.Title, b.Description, b.Body, pq.Array(b.Tags), b.State)
	updated, err := scanBlog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update blog: %w", err)
	}
	return updated, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete blog: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
