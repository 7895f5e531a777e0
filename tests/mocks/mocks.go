package mocks

import (
	"fmt"
	"sort"
	"time"

	"clubapi/models"
)

/* ---------------- Users ---------------- */

type resetEntry struct {
	Email  string
	Expiry time.Time
}

// 假 db：map 實作 UserRepository（密碼存明碼，登入直接比對）
type MockUserRepo struct {
	Users  map[string]models.User // key 是 email
	Tokens map[string]resetEntry  // reset token -> email/expiry
	nextID int64
}

func NewMockUserRepo() *MockUserRepo {
	return &MockUserRepo{Users: map[string]models.User{}, Tokens: map[string]resetEntry{}}
}

func (m *MockUserRepo) Create(u *models.User) error {
	if _, ok := m.Users[u.Email]; ok {
		return models.ErrDuplicateEmail
	}
	m.nextID++
	u.ID = m.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.Users[u.Email] = *u
	return nil
}

func (m *MockUserRepo) ValidateCredentials(email, plain string) (models.User, error) {
	u, ok := m.Users[email]
	if !ok || u.Password == "" || u.Password != plain {
		return models.User{}, models.ErrInvalidCredentials
	}
	return u, nil
}

func (m *MockUserRepo) GetByID(id int64) (models.User, error) {
	for _, u := range m.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, models.ErrNotFound
}

func (m *MockUserRepo) GetByEmail(email string) (models.User, error) {
	u, ok := m.Users[email]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return u, nil
}

func merge(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func (m *MockUserRepo) UpdateProfile(id int64, p models.ProfileUpdate) (models.User, error) {
	u, err := m.GetByID(id)
	if err != nil {
		return models.User{}, err
	}
	merge(&u.FirstName, p.FirstName)
	merge(&u.LastName, p.LastName)
	merge(&u.StudentID, p.StudentID)
	merge(&u.Course, p.Course)
	merge(&u.YearOfStudy, p.YearOfStudy)
	merge(&u.Phone, p.Phone)
	u.UpdatedAt = time.Now()
	m.Users[u.Email] = u
	return u, nil
}

func (m *MockUserRepo) UpdateAvatar(id int64, imageData string) (models.User, error) {
	u, err := m.GetByID(id)
	if err != nil {
		return models.User{}, err
	}
	u.ProfileImageURL = imageData
	m.Users[u.Email] = u
	return u, nil
}

func (m *MockUserRepo) SetResetToken(email, token string, expiry time.Time) error {
	if _, ok := m.Users[email]; !ok {
		return models.ErrNotFound
	}
	m.Tokens[token] = resetEntry{Email: email, Expiry: expiry}
	return nil
}

// 測試要壓過期情境用
func (m *MockUserRepo) ExpireToken(token string) {
	if e, ok := m.Tokens[token]; ok {
		e.Expiry = time.Now().Add(-time.Minute)
		m.Tokens[token] = e
	}
}

func (m *MockUserRepo) VerifyResetToken(token string) (models.User, error) {
	e, ok := m.Tokens[token]
	if !ok || time.Now().After(e.Expiry) {
		return models.User{}, models.ErrInvalidToken
	}
	return m.Users[e.Email], nil
}

func (m *MockUserRepo) ResetPassword(token, plain string) error {
	u, err := m.VerifyResetToken(token)
	if err != nil {
		return err
	}
	u.Password = plain
	m.Users[u.Email] = u
	delete(m.Tokens, token) // 單次有效
	return nil
}

/* ---------------- Events ---------------- */

type MockEventRepo struct {
	Items  map[int64]models.Event
	nextID int64
}

func NewMockEventRepo() *MockEventRepo { return &MockEventRepo{Items: map[int64]models.Event{}} }

func (m *MockEventRepo) GetAll() ([]models.Event, error) {
	out := make([]models.Event, 0, len(m.Items))
	for _, e := range m.Items {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *MockEventRepo) GetByID(id int64) (models.Event, error) {
	e, ok := m.Items[id]
	if !ok {
		return models.Event{}, models.ErrNotFound
	}
	return e, nil
}

func (m *MockEventRepo) Create(e *models.Event) error {
	m.nextID++
	e.ID = m.nextID
	e.AttendeeCount = "0"
	e.CreatedAt = time.Now()
	m.Items[e.ID] = *e
	return nil
}

func (m *MockEventRepo) Update(e *models.Event) error {
	if _, ok := m.Items[e.ID]; !ok {
		return models.ErrNotFound
	}
	m.Items[e.ID] = *e
	return nil
}

func (m *MockEventRepo) Delete(id int64) error {
	if _, ok := m.Items[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.Items, id)
	return nil
}

/* ------------- Registrations ------------ */

// Events 給 nil 就不檢查事件存在
type MockRegRepo struct {
	Pairs  map[string]bool // "eventId:userId"
	Events *MockEventRepo
}

func NewMockRegRepo(events *MockEventRepo) *MockRegRepo {
	return &MockRegRepo{Pairs: map[string]bool{}, Events: events}
}

func regKey(eventID, userID int64) string { return fmt.Sprintf("%d:%d", eventID, userID) }

func (m *MockRegRepo) Register(eventID, userID int64) error {
	if m.Events != nil {
		if _, ok := m.Events.Items[eventID]; !ok {
			return models.ErrNotFound
		}
	}
	k := regKey(eventID, userID)
	if m.Pairs[k] {
		return models.ErrAlreadyRegistered
	}
	m.Pairs[k] = true
	return nil
}

func (m *MockRegRepo) Cancel(eventID, userID int64) error {
	delete(m.Pairs, regKey(eventID, userID))
	return nil
}

func (m *MockRegRepo) IsRegistered(eventID, userID int64) (bool, error) {
	return m.Pairs[regKey(eventID, userID)], nil
}

func (m *MockRegRepo) Count(eventID int64) (int, error) {
	prefix := fmt.Sprintf("%d:", eventID)
	n := 0
	for k := range m.Pairs {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			n++
		}
	}
	return n, nil
}

/* ---------------- Blog ------------------ */

type MockBlogRepo struct {
	Items  map[int64]models.BlogPost
	nextID int64
}

func NewMockBlogRepo() *MockBlogRepo { return &MockBlogRepo{Items: map[int64]models.BlogPost{}} }

func (m *MockBlogRepo) GetAll() ([]models.BlogPost, error) {
	out := make([]models.BlogPost, 0, len(m.Items))
	for _, p := range m.Items {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PublishedAt.After(out[j].PublishedAt) })
	return out, nil
}

func (m *MockBlogRepo) GetByID(id int64) (models.BlogPost, error) {
	p, ok := m.Items[id]
	if !ok {
		return models.BlogPost{}, models.ErrNotFound
	}
	return p, nil
}

func (m *MockBlogRepo) GetBySlug(slug string) (models.BlogPost, error) {
	for _, p := range m.Items {
		if p.Slug == slug {
			return p, nil
		}
	}
	return models.BlogPost{}, models.ErrNotFound
}

func (m *MockBlogRepo) Create(p *models.BlogPost) error {
	if _, err := m.GetBySlug(p.Slug); err == nil {
		return models.ErrDuplicateSlug
	}
	m.nextID++
	p.ID = m.nextID
	p.PublishedAt = time.Now()
	p.CreatedAt = p.PublishedAt
	m.Items[p.ID] = *p
	return nil
}

func (m *MockBlogRepo) Update(p *models.BlogPost) error {
	old, ok := m.Items[p.ID]
	if !ok {
		return models.ErrNotFound
	}
	if other, err := m.GetBySlug(p.Slug); err == nil && other.ID != p.ID {
		return models.ErrDuplicateSlug
	}
	p.PublishedAt = old.PublishedAt
	p.CreatedAt = old.CreatedAt
	m.Items[p.ID] = *p
	return nil
}

func (m *MockBlogRepo) Delete(id int64) error {
	if _, ok := m.Items[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.Items, id)
	return nil
}

/* --------------- Gallery ---------------- */

type MockGalleryRepo struct{ Items map[string]models.GalleryImage }

func NewMockGalleryRepo() *MockGalleryRepo {
	return &MockGalleryRepo{Items: map[string]models.GalleryImage{}}
}

func (m *MockGalleryRepo) GetAll() ([]models.GalleryImage, error) {
	out := make([]models.GalleryImage, 0, len(m.Items))
	for _, img := range m.Items {
		out = append(out, img)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (m *MockGalleryRepo) GetByID(id string) (models.GalleryImage, error) {
	img, ok := m.Items[id]
	if !ok {
		return models.GalleryImage{}, models.ErrNotFound
	}
	return img, nil
}

func (m *MockGalleryRepo) Create(img *models.GalleryImage) error {
	m.Items[img.ID] = *img
	return nil
}

func (m *MockGalleryRepo) Update(img *models.GalleryImage) error {
	if _, ok := m.Items[img.ID]; !ok {
		return models.ErrNotFound
	}
	m.Items[img.ID] = *img
	return nil
}

func (m *MockGalleryRepo) Delete(id string) error {
	if _, ok := m.Items[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.Items, id)
	return nil
}

/* ------------- Discussions -------------- */

type MockDiscussionRepo struct {
	Discussions map[int64]models.Discussion
	Replies     map[int64]models.DiscussionReply
	nextID      int64
}

func NewMockDiscussionRepo() *MockDiscussionRepo {
	return &MockDiscussionRepo{
		Discussions: map[int64]models.Discussion{},
		Replies:     map[int64]models.DiscussionReply{},
	}
}

func (m *MockDiscussionRepo) replyCount(discussionID int64) int {
	n := 0
	for _, r := range m.Replies {
		if r.DiscussionID == discussionID {
			n++
		}
	}
	return n
}

func (m *MockDiscussionRepo) List() ([]models.DiscussionSummary, error) {
	out := make([]models.DiscussionSummary, 0, len(m.Discussions))
	for _, d := range m.Discussions {
		out = append(out, models.DiscussionSummary{
			Discussion: d,
			ReplyCount: m.replyCount(d.ID),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *MockDiscussionRepo) Get(id int64) (models.DiscussionDetail, error) {
	d, ok := m.Discussions[id]
	if !ok {
		return models.DiscussionDetail{}, models.ErrNotFound
	}
	detail := models.DiscussionDetail{
		DiscussionSummary: models.DiscussionSummary{Discussion: d, ReplyCount: m.replyCount(id)},
		Replies:           []models.DiscussionReply{},
	}
	for _, r := range m.Replies {
		if r.DiscussionID == id {
			detail.Replies = append(detail.Replies, r)
		}
	}
	sort.Slice(detail.Replies, func(i, j int) bool { return detail.Replies[i].ID < detail.Replies[j].ID })
	return detail, nil
}

func (m *MockDiscussionRepo) Create(d *models.Discussion) error {
	m.nextID++
	d.ID = m.nextID
	d.CreatedAt = time.Now()
	m.Discussions[d.ID] = *d
	return nil
}

func (m *MockDiscussionRepo) CreateReply(r *models.DiscussionReply) error {
	if _, ok := m.Discussions[r.DiscussionID]; !ok {
		return models.ErrNotFound
	}
	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Now()
	m.Replies[r.ID] = *r
	return nil
}

// cascade：連回覆一起刪
func (m *MockDiscussionRepo) Delete(id int64) error {
	if _, ok := m.Discussions[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.Discussions, id)
	for rid, r := range m.Replies {
		if r.DiscussionID == id {
			delete(m.Replies, rid)
		}
	}
	return nil
}

func (m *MockDiscussionRepo) DeleteReply(discussionID, replyID int64) error {
	r, ok := m.Replies[replyID]
	if !ok {
		return models.ErrNotFound
	}
	if r.DiscussionID != discussionID {
		return models.ErrReplyMismatch
	}
	delete(m.Replies, replyID)
	return nil
}
