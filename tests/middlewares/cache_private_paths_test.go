// 測試目的：回應快取掛在整條 chain 最前面時，登入限定的個人化 GET
// （registration-status）絕不能進共用快取——A 的答案不能端給 B 或匿名者
package tests

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"clubapi/middlewares"
	"clubapi/models"
	"clubapi/routes"
	"clubapi/tests/mocks"
	"clubapi/utils"
)

func TestCache_RegistrationStatusNotShared(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	ur := mocks.NewMockUserRepo()
	er := mocks.NewMockEventRepo()
	rr := mocks.NewMockRegRepo(er)

	gin.SetMode(gin.TestMode)
	s := gin.New()
	s.Use(middlewares.ResponseCache(rdb, 30*time.Second))
	routes.RegisterRoutes(s, routes.Repos{
		Users:       ur,
		Regs:        rr,
		Events:      er,
		Blog:        mocks.NewMockBlogRepo(),
		Gallery:     mocks.NewMockGalleryRepo(),
		Discussions: mocks.NewMockDiscussionRepo(),
	}, rdb, utils.NewCacheInvalidator(rdb), true)

	seed := func(email string) (models.User, string) {
		u := models.User{Email: email, Password: "secret1", FirstName: "T", LastName: "U"}
		if err := ur.Create(&u); err != nil {
			t.Fatalf("seed %s: %v", email, err)
		}
		token, _ := utils.GenerateSessionToken(u.ID, u.Email, u.FirstName, u.LastName, "")
		return u, token
	}
	alice, aliceTok := seed("alice@x.com")
	_, bobTok := seed("bob@x.com")

	ev := models.Event{Title: "E", Description: "D", Date: time.Now(), Time: "18:00", Location: "L"}
	_ = er.Create(&ev)
	if err := rr.Register(ev.ID, alice.ID); err != nil {
		t.Fatalf("register alice: %v", err)
	}

	status := func(token string) (*httptest.ResponseRecorder, bool) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/events/1/registration-status", nil)
		if token != "" {
			req.Header.Set("Authorization", token)
		}
		s.ServeHTTP(w, req)
		var body struct {
			IsRegistered bool `json:"isRegistered"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		return w, body.IsRegistered
	}

	// Alice 有報名
	w, registered := status(aliceTok)
	if w.Code != http.StatusOK || !registered {
		t.Fatalf("alice: want 200/registered, got %d %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Cache"); got != "" {
		t.Fatalf("per-user path must bypass cache, got X-Cache=%q", got)
	}

	// Bob 沒報名：不能吃到 Alice 的快取
	w, registered = status(bobTok)
	if w.Code != http.StatusOK || registered {
		t.Fatalf("bob: want 200/not registered, got %d %s", w.Code, w.Body.String())
	}

	// 匿名：一樣要被 Authenticate 擋下，而不是快取直接回 200
	if w, _ = status(""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: want 401, got %d %s", w.Code, w.Body.String())
	}

	// 純公開單筆還是照常進快取
	w = httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events/1", nil))
	if got := w.Header().Get("X-Cache"); got != "MISS" {
		t.Fatalf("public item: want MISS, got %q", got)
	}
}
