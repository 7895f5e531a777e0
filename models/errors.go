package models

import "errors"

// Repo 層統一回傳這些 sentinel error，handler 用 errors.Is 轉成 HTTP 狀態碼
var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrDuplicateSlug      = errors.New("slug already in use")
	ErrAlreadyRegistered  = errors.New("already registered for this event")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired reset token")
	ErrReplyMismatch      = errors.New("reply does not belong to this discussion")
)
