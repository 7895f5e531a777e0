// 測試目的：密碼重設流程——通用回應（anti-enumeration）、token 單次有效、過期失效
package tests

import (
	"net/http"
	"testing"
)

type forgotResp struct {
	Message    string `json:"message"`
	ResetToken string `json:"resetToken"`
}

// email 存在與否都回同一句話；devMode 下存在的帳號會多帶 token
func TestForgotPassword_GenericMessage(t *testing.T) {
	deps := setupServerWithDeps(t)
	seedUser(t, deps.ur, "known@x.com", false)

	w1 := doReq(deps.s, http.MethodPost, "/api/auth/forgot-password", `{"email":"known@x.com"}`, "")
	if w1.Code != http.StatusOK {
		t.Fatalf("known email: want 200, got %d", w1.Code)
	}
	var r1 forgotResp
	decodeBody(t, w1, &r1)
	if r1.ResetToken == "" {
		t.Fatalf("devMode should include token for existing account")
	}

	deps2 := setupServerWithDeps(t)
	w2 := doReq(deps2.s, http.MethodPost, "/api/auth/forgot-password", `{"email":"ghost@x.com"}`, "")
	if w2.Code != http.StatusOK {
		t.Fatalf("unknown email: want 200, got %d", w2.Code)
	}
	var r2 forgotResp
	decodeBody(t, w2, &r2)
	if r2.Message != r1.Message {
		t.Fatalf("messages must match to avoid enumeration: %q vs %q", r1.Message, r2.Message)
	}
	if r2.ResetToken != "" {
		t.Fatalf("unknown email must not get a token")
	}
}

// token 用一次就失效：第二次 reset → 400
func TestResetPassword_SingleUse(t *testing.T) {
	deps := setupServerWithDeps(t)
	seedUser(t, deps.ur, "reset@x.com", false)

	w := doReq(deps.s, http.MethodPost, "/api/auth/forgot-password", `{"email":"reset@x.com"}`, "")
	var fr forgotResp
	decodeBody(t, w, &fr)
	if fr.ResetToken == "" {
		t.Fatalf("no token issued")
	}

	body := `{"token":"` + fr.ResetToken + `","password":"newpass1"}`
	if w := doReq(deps.s, http.MethodPost, "/api/auth/reset-password", body, ""); w.Code != http.StatusOK {
		t.Fatalf("first reset: want 200, got %d body=%s", w.Code, w.Body.String())
	}

	// 新密碼可登入
	if w := doReq(deps.s, http.MethodPost, "/api/auth/login", `{"email":"reset@x.com","password":"newpass1"}`, ""); w.Code != http.StatusOK {
		t.Fatalf("login with new password: want 200, got %d", w.Code)
	}

	// 重放同一個 token → 400
	body2 := `{"token":"` + fr.ResetToken + `","password":"evil"}`
	if w := doReq(deps.s, http.MethodPost, "/api/auth/reset-password", body2, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("replay: want 400, got %d", w.Code)
	}
}

// 過期 token → 400（跟 token 不存在同一個錯誤訊息）
func TestResetPassword_Expired_400(t *testing.T) {
	deps := setupServerWithDeps(t)
	seedUser(t, deps.ur, "old@x.com", false)

	w := doReq(deps.s, http.MethodPost, "/api/auth/forgot-password", `{"email":"old@x.com"}`, "")
	var fr forgotResp
	decodeBody(t, w, &fr)

	deps.ur.ExpireToken(fr.ResetToken)

	body := `{"token":"` + fr.ResetToken + `","password":"whatever1"}`
	if w := doReq(deps.s, http.MethodPost, "/api/auth/reset-password", body, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expired: want 400, got %d body=%s", w.Code, w.Body.String())
	}
}

// 亂猜 token → 400
func TestResetPassword_BogusToken_400(t *testing.T) {
	deps := setupServerWithDeps(t)
	body := `{"token":"deadbeef","password":"whatever1"}`
	if w := doReq(deps.s, http.MethodPost, "/api/auth/reset-password", body, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
}
