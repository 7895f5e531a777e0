package models

import (
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"clubapi/utils"
)

type sqlUserRepo struct{ db *sql.DB }

func NewSQLUserRepository(db *sql.DB) UserRepository { return &sqlUserRepo{db} }

const userCols = `id, email, first_name, last_name, profile_image_url, student_id,
	course, year_of_study, phone, COALESCE(password, ''), is_admin, created_at, updated_at`

func scanUser(row *sql.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.ProfileImageURL,
		&u.StudentID, &u.Course, &u.YearOfStudy, &u.Phone, &u.Password,
		&u.IsAdmin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// 23505 = unique_violation（email UNIQUE）
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func (r *sqlUserRepo) Create(u *User) error {
	hashed, err := utils.HashPassword(u.Password)
	if err != nil {
		return err
	}
	u.Password = hashed

	err = r.db.QueryRow(`
		INSERT INTO users(email, first_name, last_name, student_id, course, year_of_study, phone, password)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id, created_at, updated_at`,
		u.Email, u.FirstName, u.LastName, u.StudentID, u.Course, u.YearOfStudy, u.Phone, u.Password).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *sqlUserRepo) ValidateCredentials(email, plain string) (User, error) {
	u, err := r.GetByEmail(email)
	if err != nil {
		// 查無此人跟密碼錯誤回同一個錯，避免洩漏帳號是否存在
		return User{}, ErrInvalidCredentials
	}
	// 外部身分帳號沒有本地密碼，不能走密碼登入
	if u.Password == "" || !utils.CheckPasswordHash(plain, u.Password) {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func (r *sqlUserRepo) GetByID(id int64) (User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (r *sqlUserRepo) GetByEmail(email string) (User, error) {
	return scanUser(r.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email=$1`, email))
}

// 空字串欄位代表不更動（COALESCE(NULLIF(...)) 做合併）
func (r *sqlUserRepo) UpdateProfile(id int64, p ProfileUpdate) (User, error) {
	return scanUser(r.db.QueryRow(`
		UPDATE users SET
			first_name    = COALESCE(NULLIF($2,''), first_name),
			last_name     = COALESCE(NULLIF($3,''), last_name),
			student_id    = COALESCE(NULLIF($4,''), student_id),
			course        = COALESCE(NULLIF($5,''), course),
			year_of_study = COALESCE(NULLIF($6,''), year_of_study),
			phone         = COALESCE(NULLIF($7,''), phone),
			updated_at    = now()
		WHERE id=$1
		RETURNING `+userCols,
		id, p.FirstName, p.LastName, p.StudentID, p.Course, p.YearOfStudy, p.Phone))
}

func (r *sqlUserRepo) UpdateAvatar(id int64, imageData string) (User, error) {
	return scanUser(r.db.QueryRow(`
		UPDATE users SET profile_image_url=$2, updated_at=now()
		WHERE id=$1
		RETURNING `+userCols, id, imageData))
}

func (r *sqlUserRepo) SetResetToken(email, token string, expiry time.Time) error {
	res, err := r.db.Exec(`
		UPDATE users SET reset_token=$2, reset_token_expiry=$3, updated_at=now()
		WHERE email=$1`, email, token, expiry)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrNotFound
	}
	return err
}

func (r *sqlUserRepo) VerifyResetToken(token string) (User, error) {
	if token == "" {
		return User{}, ErrInvalidToken
	}
	u, err := scanUser(r.db.QueryRow(`
		SELECT `+userCols+` FROM users
		WHERE reset_token=$1 AND reset_token_expiry > now()`, token))
	if errors.Is(err, ErrNotFound) {
		// token 不對跟過期回同一個錯
		return User{}, ErrInvalidToken
	}
	return u, err
}

// 換密碼 + 清 token 在同一條 UPDATE：原子性保證 token 只能用一次
func (r *sqlUserRepo) ResetPassword(token, plain string) error {
	if token == "" {
		return ErrInvalidToken
	}
	hashed, err := utils.HashPassword(plain)
	if err != nil {
		return err
	}
	res, err := r.db.Exec(`
		UPDATE users SET password=$2, reset_token='', reset_token_expiry=NULL, updated_at=now()
		WHERE reset_token=$1 AND reset_token_expiry > now()`, token, hashed)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return ErrInvalidToken
	}
	return err
}
