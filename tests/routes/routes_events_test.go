// 測試目的：events CRUD 的 admin 把關 + 報名帳本（重複報名、冪等取消、權威人數）
package tests

import (
	"net/http"
	"testing"
	"time"

	"clubapi/models"
)

func seedEvent(deps serverDeps) models.Event {
	e := models.Event{
		Title:       "AGM",
		Description: "Annual general meeting",
		Date:        time.Now().Add(24 * time.Hour).UTC(),
		Time:        "18:00",
		Location:    "Main hall",
	}
	_ = deps.er.Create(&e)
	return e
}

// 未登入建立事件 → 401；一般會員 → 403；admin → 201
func TestEvents_AdminGate(t *testing.T) {
	deps := setupServerWithDeps(t)
	_, memberTok := seedUser(t, deps.ur, "member@x.com", false)
	_, adminTok := seedUser(t, deps.ur, "admin@x.com", true)

	body := `{"title":"T","description":"D","date":"2026-10-01T00:00:00Z","time":"19:00","location":"L"}`

	if w := doReq(deps.s, http.MethodPost, "/api/events", body, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: want 401, got %d", w.Code)
	}
	if w := doReq(deps.s, http.MethodPost, "/api/events", body, memberTok); w.Code != http.StatusForbidden {
		t.Fatalf("member: want 403, got %d", w.Code)
	}
	w := doReq(deps.s, http.MethodPost, "/api/events", body, adminTok)
	if w.Code != http.StatusCreated {
		t.Fatalf("admin: want 201, got %d body=%s", w.Code, w.Body.String())
	}

	var created models.Event
	decodeBody(t, w, &created)
	if _, ok := deps.er.Items[created.ID]; !ok {
		t.Fatalf("event not written into repo")
	}
	if created.AttendeeCount != "0" {
		t.Fatalf("new event should start at 0 attendees, got %q", created.AttendeeCount)
	}
}

// 報名兩次：一次成功一次 400，人數維持 1；取消後人數 0 且取消是冪等的
func TestRegistration_Lifecycle(t *testing.T) {
	deps := setupServerWithDeps(t)
	_, token := seedUser(t, deps.ur, "alice@x.com", false)
	ev := seedEvent(deps)

	path := "/api/events/1/register"

	// 第一次 → 200 + attendeeCount 1
	w := doReq(deps.s, http.MethodPost, path, "", token)
	if w.Code != http.StatusOK {
		t.Fatalf("first register: want 200, got %d body=%s", w.Code, w.Body.String())
	}
	var r1 struct {
		AttendeeCount int `json:"attendeeCount"`
	}
	decodeBody(t, w, &r1)
	if r1.AttendeeCount != 1 {
		t.Fatalf("want attendeeCount=1, got %d", r1.AttendeeCount)
	}

	// 第二次 → 400 AlreadyRegistered，人數不變
	w = doReq(deps.s, http.MethodPost, path, "", token)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: want 400, got %d body=%s", w.Code, w.Body.String())
	}
	if n, _ := deps.rr.Count(ev.ID); n != 1 {
		t.Fatalf("ledger must still hold exactly 1 row, got %d", n)
	}

	// 狀態查詢
	w = doReq(deps.s, http.MethodGet, "/api/events/1/registration-status", "", token)
	var st struct {
		IsRegistered  bool `json:"isRegistered"`
		AttendeeCount int  `json:"attendeeCount"`
	}
	decodeBody(t, w, &st)
	if !st.IsRegistered || st.AttendeeCount != 1 {
		t.Fatalf("unexpected status: %+v", st)
	}

	// 取消 → 200 + 0；再取消一次照樣 200（冪等）
	for i := 0; i < 2; i++ {
		w = doReq(deps.s, http.MethodDelete, path, "", token)
		if w.Code != http.StatusOK {
			t.Fatalf("cancel #%d: want 200, got %d", i+1, w.Code)
		}
	}
	var r2 struct {
		AttendeeCount int `json:"attendeeCount"`
	}
	decodeBody(t, w, &r2)
	if r2.AttendeeCount != 0 {
		t.Fatalf("want attendeeCount=0, got %d", r2.AttendeeCount)
	}
	if reg, _ := deps.rr.IsRegistered(ev.ID, 1); reg {
		t.Fatalf("must not be registered after cancel")
	}
}

// 報名不存在的事件 → 404
func TestRegistration_EventNotFound_404(t *testing.T) {
	deps := setupServerWithDeps(t)
	_, token := seedUser(t, deps.ur, "bob@x.com", false)

	w := doReq(deps.s, http.MethodPost, "/api/events/999/register", "", token)
	if w.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d body=%s", w.Code, w.Body.String())
	}
}

// 公開列表/單筆不用登入；單筆查無 → 404
func TestEvents_PublicRead(t *testing.T) {
	deps := setupServerWithDeps(t)
	seedEvent(deps)

	if w := doReq(deps.s, http.MethodGet, "/api/events", "", ""); w.Code != http.StatusOK {
		t.Fatalf("list: want 200, got %d", w.Code)
	}
	if w := doReq(deps.s, http.MethodGet, "/api/events/1", "", ""); w.Code != http.StatusOK {
		t.Fatalf("detail: want 200, got %d", w.Code)
	}
	if w := doReq(deps.s, http.MethodGet, "/api/events/42", "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("missing: want 404, got %d", w.Code)
	}
}

// admin 刪除事件 → 204；再查 → 404
func TestEvents_Delete(t *testing.T) {
	deps := setupServerWithDeps(t)
	_, adminTok := seedUser(t, deps.ur, "admin@x.com", true)
	seedEvent(deps)

	if w := doReq(deps.s, http.MethodDelete, "/api/events/1", "", adminTok); w.Code != http.StatusNoContent {
		t.Fatalf("delete: want 204, got %d", w.Code)
	}
	if w := doReq(deps.s, http.MethodGet, "/api/events/1", "", ""); w.Code != http.StatusNotFound {
		t.Fatalf("after delete: want 404, got %d", w.Code)
	}
}
