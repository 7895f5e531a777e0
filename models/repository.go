package models

import "time"

// ===== Users =====
type User struct {
	ID              int64     `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	ProfileImageURL string    `json:"profileImageUrl"`
	StudentID       string    `json:"studentId"`
	Course          string    `json:"course"`
	YearOfStudy     string    `json:"yearOfStudy"`
	Phone           string    `json:"phone"`
	Password        string    `json:"-"` // bcrypt hash；外部身分帳號可為空
	IsAdmin         bool      `json:"isAdmin"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// 更新 profile 用的欄位集合；空字串代表「不更動」
type ProfileUpdate struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	StudentID   string `json:"studentId"`
	Course      string `json:"course"`
	YearOfStudy string `json:"yearOfStudy"`
	Phone       string `json:"phone"`
}

type UserRepository interface {
	Create(u *User) error // 內部做 bcrypt；email 撞 UNIQUE → ErrDuplicateEmail
	ValidateCredentials(email, plain string) (User, error)
	GetByID(id int64) (User, error)
	GetByEmail(email string) (User, error)
	UpdateProfile(id int64, p ProfileUpdate) (User, error)
	UpdateAvatar(id int64, imageData string) (User, error)
	SetResetToken(email, token string, expiry time.Time) error
	VerifyResetToken(token string) (User, error)
	ResetPassword(token, plain string) error // 單次有效；同一語句內清掉 token
}

// ===== Events =====
type Event struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	Time          string    `json:"time"`
	Location      string    `json:"location"`
	ImageURL      string    `json:"imageUrl"`
	AttendeeCount string    `json:"attendeeCount"` // 顯示用快取；真值在 registrations
	CreatedAt     time.Time `json:"createdAt"`
}

type EventRepository interface {
	GetAll() ([]Event, error)
	GetByID(id int64) (Event, error)
	Create(e *Event) error
	Update(e *Event) error
	Delete(id int64) error
}

// ===== Registrations（事件報名帳本）=====
type RegistrationRepository interface {
	Register(eventID, userID int64) error // 重複 → ErrAlreadyRegistered；事件不存在 → ErrNotFound
	Cancel(eventID, userID int64) error   // 冪等：不存在的報名刪除視同成功
	IsRegistered(eventID, userID int64) (bool, error)
	Count(eventID int64) (int, error) // 權威人數 = ledger row count
}

// ===== Blog =====
type BlogPost struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Excerpt     string    `json:"excerpt"`
	Content     string    `json:"content"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	AuthorID    int64     `json:"authorId"`
	PublishedAt time.Time `json:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt"`
}

type BlogRepository interface {
	GetAll() ([]BlogPost, error)
	GetByID(id int64) (BlogPost, error)
	GetBySlug(slug string) (BlogPost, error)
	Create(p *BlogPost) error // slug 撞 UNIQUE → ErrDuplicateSlug
	Update(p *BlogPost) error
	Delete(id int64) error
}

// ===== Gallery（Mongo）=====
type GalleryImage struct {
	ID         string    `json:"id" bson:"id"`
	Title      string    `json:"title" bson:"title"`
	ImageURL   string    `json:"imageUrl" bson:"imageUrl"`
	Caption    string    `json:"caption" bson:"caption"`
	Category   string    `json:"category" bson:"category"`
	UploadedAt time.Time `json:"uploadedAt" bson:"uploadedAt"`
}

type GalleryRepository interface {
	GetAll() ([]GalleryImage, error)
	GetByID(id string) (GalleryImage, error)
	Create(img *GalleryImage) error
	Update(img *GalleryImage) error
	Delete(id string) error
}

// ===== Discussions =====
type Discussion struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	AuthorID  int64     `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}

// 列表用：join 出作者顯示欄位，附回覆數
type DiscussionSummary struct {
	Discussion
	AuthorFirstName string `json:"authorFirstName"`
	AuthorLastName  string `json:"authorLastName"`
	AuthorEmail     string `json:"authorEmail"`
	ReplyCount      int    `json:"replyCount"`
}

type DiscussionReply struct {
	ID              int64     `json:"id"`
	DiscussionID    int64     `json:"discussionId"`
	Content         string    `json:"content"`
	ImageURL        string    `json:"imageUrl"`
	AuthorID        int64     `json:"authorId"`
	CreatedAt       time.Time `json:"createdAt"`
	AuthorFirstName string    `json:"authorFirstName"`
	AuthorLastName  string    `json:"authorLastName"`
	AuthorEmail     string    `json:"authorEmail"`
}

// 單篇：討論 + 回覆（時間正序）
type DiscussionDetail struct {
	DiscussionSummary
	Replies []DiscussionReply `json:"replies"`
}

type DiscussionRepository interface {
	List() ([]DiscussionSummary, error) // 最新在前
	Get(id int64) (DiscussionDetail, error)
	Create(d *Discussion) error
	CreateReply(r *DiscussionReply) error // 討論不存在 → ErrNotFound
	Delete(id int64) error                // cascade 連回覆一起刪
	DeleteReply(discussionID, replyID int64) error
}
