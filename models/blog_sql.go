package models

import (
	"database/sql"
	"errors"
)

type sqlBlogRepo struct{ db *sql.DB }

func NewSQLBlogRepository(db *sql.DB) BlogRepository { return &sqlBlogRepo{db} }

const blogCols = `id, title, slug, excerpt, content, category, image_url, author_id, published_at, created_at`

func scanBlogPost(row *sql.Row) (BlogPost, error) {
	var p BlogPost
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.Category,
		&p.ImageURL, &p.AuthorID, &p.PublishedAt, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return BlogPost{}, ErrNotFound
	}
	return p, err
}

func (r *sqlBlogRepo) GetAll() ([]BlogPost, error) {
	rows, err := r.db.Query(`SELECT ` + blogCols + ` FROM blog_posts ORDER BY published_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BlogPost
	for rows.Next() {
		var p BlogPost
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.Category,
			&p.ImageURL, &p.AuthorID, &p.PublishedAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *sqlBlogRepo) GetByID(id int64) (BlogPost, error) {
	return scanBlogPost(r.db.QueryRow(`SELECT `+blogCols+` FROM blog_posts WHERE id=$1`, id))
}

func (r *sqlBlogRepo) GetBySlug(slug string) (BlogPost, error) {
	return scanBlogPost(r.db.QueryRow(`SELECT `+blogCols+` FROM blog_posts WHERE slug=$1`, slug))
}

func (r *sqlBlogRepo) Create(p *BlogPost) error {
	err := r.db.QueryRow(`
		INSERT INTO blog_posts(title, slug, excerpt, content, category, image_url, author_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, published_at, created_at`,
		p.Title, p.Slug, p.Excerpt, p.Content, p.Category, p.ImageURL, p.AuthorID).
		Scan(&p.ID, &p.PublishedAt, &p.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	return err
}

func (r *sqlBlogRepo) Update(p *BlogPost) error {
	res, err := r.db.Exec(`
		UPDATE blog_posts SET title=$2, slug=$3, excerpt=$4, content=$5, category=$6, image_url=$7
		WHERE id=$1`,
		p.ID, p.Title, p.Slug, p.Excerpt, p.Content, p.Category, p.ImageURL)
	if isUniqueViolation(err) {
		return ErrDuplicateSlug
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

func (r *sqlBlogRepo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM blog_posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}
