// 測試目的：/api/auth 註冊、登入、session、profile（mock repo + miniredis）
package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"clubapi/models"
	"clubapi/routes"
	"clubapi/tests/mocks"
	"clubapi/utils"
)

/* ---------- helpers ---------- */

type serverDeps struct {
	s  *gin.Engine
	ur *mocks.MockUserRepo
	rr *mocks.MockRegRepo
	er *mocks.MockEventRepo
	br *mocks.MockBlogRepo
	gr *mocks.MockGalleryRepo
	dr *mocks.MockDiscussionRepo
}

func setupServerWithDeps(t *testing.T) serverDeps {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	t.Cleanup(func() { mr.Close() })

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	inv := utils.NewCacheInvalidator(rdb)

	ur := mocks.NewMockUserRepo()
	er := mocks.NewMockEventRepo()
	rr := mocks.NewMockRegRepo(er)
	br := mocks.NewMockBlogRepo()
	gr := mocks.NewMockGalleryRepo()
	dr := mocks.NewMockDiscussionRepo()

	s := gin.New()
	routes.RegisterRoutes(s, routes.Repos{
		Users: ur, Regs: rr, Events: er, Blog: br, Gallery: gr, Discussions: dr,
	}, rdb, inv, true) // devMode: forgot-password 回應帶 token
	return serverDeps{s: s, ur: ur, rr: rr, er: er, br: br, gr: gr, dr: dr}
}

// 直接塞一個使用者進 mock，回傳可用的 session token
func seedUser(t *testing.T, ur *mocks.MockUserRepo, email string, admin bool) (models.User, string) {
	t.Helper()
	u := models.User{Email: email, Password: "secret1", FirstName: "Test", LastName: "User", IsAdmin: admin}
	if err := ur.Create(&u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if admin {
		// Create 不會設 isAdmin，直接改 map
		u.IsAdmin = true
		ur.Users[email] = u
	}
	token, err := utils.GenerateSessionToken(u.ID, u.Email, u.FirstName, u.LastName, "")
	if err != nil {
		t.Fatalf("gen token: %v", err)
	}
	return u, token
}

func doReq(s *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token) // middleware 讀 cookie 或原字串
	}
	s.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode body: %v (%s)", err, w.Body.String())
	}
}

/* ---------- tests ---------- */

// POST /api/auth/register → 201 + 公開 profile（不含 password）；session cookie 一起種
func TestRegister_201_SetsSession(t *testing.T) {
	deps := setupServerWithDeps(t)

	body := `{"email":"alice@x.com","password":"secret1","firstName":"Alice","lastName":"Ng"}`
	w := doReq(deps.s, http.MethodPost, "/api/auth/register", body, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d body=%s", w.Code, w.Body.String())
	}

	var resp map[string]any
	decodeBody(t, w, &resp)
	if resp["email"] != "alice@x.com" {
		t.Fatalf("unexpected profile: %v", resp)
	}
	if _, ok := resp["password"]; ok {
		t.Fatalf("password must not leak: %v", resp)
	}

	// session cookie
	found := false
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "session" && ck.Value != "" && ck.HttpOnly {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected HttpOnly session cookie")
	}
}

// 同 email 註冊第二次 → 400 DuplicateEmail
func TestRegister_DuplicateEmail_400(t *testing.T) {
	deps := setupServerWithDeps(t)

	body := `{"email":"dup@x.com","password":"secret1","firstName":"A","lastName":"B"}`
	if w := doReq(deps.s, http.MethodPost, "/api/auth/register", body, ""); w.Code != 201 {
		t.Fatalf("first register: %d", w.Code)
	}
	// 嚴格限速 burst=2，連打兩次還在額度內
	w := doReq(deps.s, http.MethodPost, "/api/auth/register", body, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d body=%s", w.Code, w.Body.String())
	}
}

// 註冊缺必填欄位 → 400 ValidationFailed
func TestRegister_MissingFields_400(t *testing.T) {
	deps := setupServerWithDeps(t)
	w := doReq(deps.s, http.MethodPost, "/api/auth/register", `{"email":"x@x.com"}`, "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
}

// 登入成功 → 200 + isAdmin 欄位 + cookie
func TestLogin_200(t *testing.T) {
	deps := setupServerWithDeps(t)
	seedUser(t, deps.ur, "bob@x.com", false)

	w := doReq(deps.s, http.MethodPost, "/api/auth/login", `{"email":"bob@x.com","password":"secret1"}`, "")
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Email   string `json:"email"`
		IsAdmin bool   `json:"isAdmin"`
		Token   string `json:"token"`
	}
	decodeBody(t, w, &resp)
	if resp.Email != "bob@x.com" || resp.Token == "" {
		t.Fatalf("unexpected login response: %+v", resp)
	}
}

// GET /api/auth/user：有 session → 200；沒 session → 401
func TestCurrentUser(t *testing.T) {
	deps := setupServerWithDeps(t)
	u, token := seedUser(t, deps.ur, "carol@x.com", false)

	w := doReq(deps.s, http.MethodGet, "/api/auth/user", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, w, &resp)
	if resp.ID != u.ID {
		t.Fatalf("want id=%d got %d", u.ID, resp.ID)
	}

	if w := doReq(deps.s, http.MethodGet, "/api/auth/user", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("no session: want 401, got %d", w.Code)
	}
}

// PUT /api/auth/profile：只動給的欄位（空字串不覆蓋）
func TestUpdateProfile_Merges(t *testing.T) {
	deps := setupServerWithDeps(t)
	_, token := seedUser(t, deps.ur, "dave@x.com", false)

	w := doReq(deps.s, http.MethodPut, "/api/auth/profile", `{"course":"CompSci","phone":"0912345678"}`, token)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d body=%s", w.Code, w.Body.String())
	}
	u := deps.ur.Users["dave@x.com"]
	if u.Course != "CompSci" || u.Phone != "0912345678" {
		t.Fatalf("profile not merged: %+v", u)
	}
	if u.FirstName != "Test" {
		t.Fatalf("untouched field must survive, got %q", u.FirstName)
	}
}

// POST /api/auth/upload-avatar：非 data:image/ 開頭 → 400
func TestUploadAvatar_InvalidFormat_400(t *testing.T) {
	deps := setupServerWithDeps(t)
	_, token := seedUser(t, deps.ur, "eve@x.com", false)

	w := doReq(deps.s, http.MethodPost, "/api/auth/upload-avatar", `{"imageData":"data:text/plain;base64,aGk="}`, token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d body=%s", w.Code, w.Body.String())
	}

	ok := doReq(deps.s, http.MethodPost, "/api/auth/upload-avatar", `{"imageData":"data:image/png;base64,aGk="}`, token)
	if ok.Code != http.StatusOK {
		t.Fatalf("want 200, got %d body=%s", ok.Code, ok.Body.String())
	}
	if deps.ur.Users["eve@x.com"].ProfileImageURL == "" {
		t.Fatalf("avatar not stored")
	}
}

// POST /api/auth/logout → 清掉 session cookie
func TestLogout_ClearsCookie(t *testing.T) {
	deps := setupServerWithDeps(t)
	_, token := seedUser(t, deps.ur, "frank@x.com", false)

	w := doReq(deps.s, http.MethodPost, "/api/auth/logout", "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "session" && ck.MaxAge >= 0 {
			t.Fatalf("cookie not cleared: %+v", ck)
		}
	}
}
