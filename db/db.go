package db

import (
	"database/sql"

	_ "github.com/lib/pq"
)

func Open(dsn string) (*sql.DB, error) {
	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := sqldb.Ping(); err != nil {
		return nil, err
	}
	sqldb.SetMaxOpenConns(20)
	sqldb.SetMaxIdleConns(10)

	if err := createTables(sqldb); err != nil {
		return nil, err
	}
	return sqldb, nil
}

func createTables(sqldb *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			first_name TEXT NOT NULL DEFAULT '',
			last_name TEXT NOT NULL DEFAULT '',
			profile_image_url TEXT NOT NULL DEFAULT '',
			student_id TEXT NOT NULL DEFAULT '',
			course TEXT NOT NULL DEFAULT '',
			year_of_study TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			password TEXT,
			reset_token TEXT NOT NULL DEFAULT '',
			reset_token_expiry TIMESTAMPTZ,
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`CREATE TABLE IF NOT EXISTS blog_posts (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			slug TEXT NOT NULL UNIQUE,
			excerpt TEXT NOT NULL,
			content TEXT NOT NULL,
			category TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			author_id BIGINT NOT NULL REFERENCES users(id),
			published_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		`CREATE TABLE IF NOT EXISTS events (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			date TIMESTAMPTZ NOT NULL,
			time TEXT NOT NULL,
			location TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			attendee_count TEXT NOT NULL DEFAULT '0',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		// 複合唯一鍵：一人一事件最多報名一次
		`CREATE TABLE IF NOT EXISTS event_registrations (
			id BIGSERIAL PRIMARY KEY,
			event_id BIGINT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			registered_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (event_id, user_id)
		);`,

		`CREATE TABLE IF NOT EXISTS discussions (
			id BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			author_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,

		// 刪討論連回覆一起刪
		`CREATE TABLE IF NOT EXISTS discussion_replies (
			id BIGSERIAL PRIMARY KEY,
			discussion_id BIGINT NOT NULL REFERENCES discussions(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			image_url TEXT NOT NULL DEFAULT '',
			author_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);`,
	}

	for _, stmt := range stmts {
		if _, err := sqldb.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
