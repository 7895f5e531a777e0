package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// 256-bit 亂數 token（密碼重設用，hex 編碼 64 字元）
func GenerateResetToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
