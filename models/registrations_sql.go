package models

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

type sqlRegistrationRepo struct{ db *sql.DB }

func NewSQLRegistrationRepository(db *sql.DB) RegistrationRepository {
	return &sqlRegistrationRepo{db}
}

// 報名 + 重算 events.attendee_count 放同一個 tx
// 重複報名靠 UNIQUE (event_id, user_id) 擋，不靠先查再插
func (r *sqlRegistrationRepo) Register(eventID, userID int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO event_registrations(event_id, user_id) VALUES ($1,$2)`,
		eventID, userID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505": // unique_violation → 已報名
				return ErrAlreadyRegistered
			case "23503": // foreign_key_violation → 事件（或使用者）不存在
				return ErrNotFound
			}
		}
		return err
	}
	if err := refreshAttendeeCount(tx, eventID); err != nil {
		return err
	}
	return tx.Commit()
}

// 冪等：刪不存在的報名也回成功
func (r *sqlRegistrationRepo) Cancel(eventID, userID int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM event_registrations WHERE event_id=$1 AND user_id=$2`,
		eventID, userID); err != nil {
		return err
	}
	if err := refreshAttendeeCount(tx, eventID); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *sqlRegistrationRepo) IsRegistered(eventID, userID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`SELECT EXISTS(
		SELECT 1 FROM event_registrations WHERE event_id=$1 AND user_id=$2)`,
		eventID, userID).Scan(&exists)
	return exists, err
}

func (r *sqlRegistrationRepo) Count(eventID int64) (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM event_registrations WHERE event_id=$1`,
		eventID).Scan(&n)
	return n, err
}

// 存的 attendee_count 只是顯示快取，每次異動都從 ledger 重算
func refreshAttendeeCount(tx *sql.Tx, eventID int64) error {
	_, err := tx.Exec(`
		UPDATE events SET attendee_count = (
			SELECT COUNT(*)::text FROM event_registrations WHERE event_id=$1
		) WHERE id=$1`, eventID)
	return err
}
