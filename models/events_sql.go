package models

import (
	"database/sql"
	"errors"
)

type sqlEventRepo struct{ db *sql.DB }

func NewSQLEventRepository(db *sql.DB) EventRepository { return &sqlEventRepo{db} }

const eventCols = `id, title, description, date, time, location, image_url, attendee_count, created_at`

func (r *sqlEventRepo) GetAll() ([]Event, error) {
	rows, err := r.db.Query(`SELECT ` + eventCols + ` FROM events ORDER BY date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Time,
			&e.Location, &e.ImageURL, &e.AttendeeCount, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *sqlEventRepo) GetByID(id int64) (Event, error) {
	var e Event
	err := r.db.QueryRow(`SELECT `+eventCols+` FROM events WHERE id=$1`, id).
		Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Time,
			&e.Location, &e.ImageURL, &e.AttendeeCount, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Event{}, ErrNotFound
	}
	return e, err
}

func (r *sqlEventRepo) Create(e *Event) error {
	return r.db.QueryRow(`
		INSERT INTO events(title, description, date, time, location, image_url)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, attendee_count, created_at`,
		e.Title, e.Description, e.Date, e.Time, e.Location, e.ImageURL).
		Scan(&e.ID, &e.AttendeeCount, &e.CreatedAt)
}

func (r *sqlEventRepo) Update(e *Event) error {
	res, err := r.db.Exec(`
		UPDATE events SET title=$2, description=$3, date=$4, time=$5, location=$6, image_url=$7
		WHERE id=$1`,
		e.ID, e.Title, e.Description, e.Date, e.Time, e.Location, e.ImageURL)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

// 連同報名紀錄一起刪（schema 上的 ON DELETE CASCADE）
func (r *sqlEventRepo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}
