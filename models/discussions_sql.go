package models

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

type sqlDiscussionRepo struct{ db *sql.DB }

func NewSQLDiscussionRepository(db *sql.DB) DiscussionRepository {
	return &sqlDiscussionRepo{db}
}

// 最新在前，join 作者顯示欄位，子查詢算回覆數（免得 N+1）
func (r *sqlDiscussionRepo) List() ([]DiscussionSummary, error) {
	rows, err := r.db.Query(`
		SELECT d.id, d.title, d.content, d.image_url, d.author_id, d.created_at,
		       COALESCE(u.first_name,''), COALESCE(u.last_name,''), COALESCE(u.email,''),
		       (SELECT COUNT(*) FROM discussion_replies r WHERE r.discussion_id = d.id)
		FROM discussions d
		LEFT JOIN users u ON u.id = d.author_id
		ORDER BY d.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DiscussionSummary
	for rows.Next() {
		var s DiscussionSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.Content, &s.ImageURL, &s.AuthorID, &s.CreatedAt,
			&s.AuthorFirstName, &s.AuthorLastName, &s.AuthorEmail, &s.ReplyCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *sqlDiscussionRepo) Get(id int64) (DiscussionDetail, error) {
	var d DiscussionDetail
	err := r.db.QueryRow(`
		SELECT d.id, d.title, d.content, d.image_url, d.author_id, d.created_at,
		       COALESCE(u.first_name,''), COALESCE(u.last_name,''), COALESCE(u.email,''),
		       (SELECT COUNT(*) FROM discussion_replies r WHERE r.discussion_id = d.id)
		FROM discussions d
		LEFT JOIN users u ON u.id = d.author_id
		WHERE d.id=$1`, id).
		Scan(&d.ID, &d.Title, &d.Content, &d.ImageURL, &d.AuthorID, &d.CreatedAt,
			&d.AuthorFirstName, &d.AuthorLastName, &d.AuthorEmail, &d.ReplyCount)
	if errors.Is(err, sql.ErrNoRows) {
		return DiscussionDetail{}, ErrNotFound
	}
	if err != nil {
		return DiscussionDetail{}, err
	}

	// 回覆時間正序
	rows, err := r.db.Query(`
		SELECT r.id, r.discussion_id, r.content, r.image_url, r.author_id, r.created_at,
		       COALESCE(u.first_name,''), COALESCE(u.last_name,''), COALESCE(u.email,'')
		FROM discussion_replies r
		LEFT JOIN users u ON u.id = r.author_id
		WHERE r.discussion_id=$1
		ORDER BY r.created_at ASC`, id)
	if err != nil {
		return DiscussionDetail{}, err
	}
	defer rows.Close()

	d.Replies = []DiscussionReply{}
	for rows.Next() {
		var rep DiscussionReply
		if err := rows.Scan(&rep.ID, &rep.DiscussionID, &rep.Content, &rep.ImageURL,
			&rep.AuthorID, &rep.CreatedAt,
			&rep.AuthorFirstName, &rep.AuthorLastName, &rep.AuthorEmail); err != nil {
			return DiscussionDetail{}, err
		}
		d.Replies = append(d.Replies, rep)
	}
	return d, rows.Err()
}

func (r *sqlDiscussionRepo) Create(d *Discussion) error {
	return r.db.QueryRow(`
		INSERT INTO discussions(title, content, image_url, author_id)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		d.Title, d.Content, d.ImageURL, d.AuthorID).
		Scan(&d.ID, &d.CreatedAt)
}

func (r *sqlDiscussionRepo) CreateReply(rep *DiscussionReply) error {
	err := r.db.QueryRow(`
		INSERT INTO discussion_replies(discussion_id, content, image_url, author_id)
		VALUES ($1,$2,$3,$4)
		RETURNING id, created_at`,
		rep.DiscussionID, rep.Content, rep.ImageURL, rep.AuthorID).
		Scan(&rep.ID, &rep.CreatedAt)
	// FK 撞到 → 討論不存在
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" {
		return ErrNotFound
	}
	return err
}

// schema 上 discussion_replies 有 ON DELETE CASCADE，刪討論連回覆一起走
func (r *sqlDiscussionRepo) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM discussions WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

// 刪回覆前先驗證它真的屬於這個討論
func (r *sqlDiscussionRepo) DeleteReply(discussionID, replyID int64) error {
	var actual int64
	err := r.db.QueryRow(`SELECT discussion_id FROM discussion_replies WHERE id=$1`, replyID).
		Scan(&actual)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if actual != discussionID {
		return ErrReplyMismatch
	}
	_, err = r.db.Exec(`DELETE FROM discussion_replies WHERE id=$1`, replyID)
	return err
}
