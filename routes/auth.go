package routes

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"clubapi/middlewares"
	"clubapi/models"
	"clubapi/utils"
)

const (
	sessionMaxAge = 24 * 60 * 60 // 跟 token 有效期一致：一天
	resetTokenTTL = time.Hour
	maxAvatarSize = 5 << 20
)

func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.SessionCookie, token, sessionMaxAge, "/", "", false, true)
}

func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.SessionCookie, "", -1, "/", "", false, true)
}

// 對外只回公開 profile，不帶 hash / token
func publicProfile(u models.User) gin.H {
	return gin.H{
		"id":              u.ID,
		"email":           u.Email,
		"firstName":       u.FirstName,
		"lastName":        u.LastName,
		"profileImageUrl": u.ProfileImageURL,
		"studentId":       u.StudentID,
		"course":          u.Course,
		"yearOfStudy":     u.YearOfStudy,
		"phone":           u.Phone,
		"isAdmin":         u.IsAdmin,
	}
}

// POST /api/auth/register
func (d *deps) register(c *gin.Context) {
	var req struct {
		Email       string `json:"email" binding:"required,email"`
		Password    string `json:"password" binding:"required,min=6"`
		FirstName   string `json:"firstName" binding:"required"`
		LastName    string `json:"lastName" binding:"required"`
		StudentID   string `json:"studentId"`
		Course      string `json:"course"`
		YearOfStudy string `json:"yearOfStudy"`
		Phone       string `json:"phone"`
	}
	if !bindJSON(c, &req) {
		return
	}

	u := models.User{
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		StudentID:   req.StudentID,
		Course:      req.Course,
		YearOfStudy: req.YearOfStudy,
		Phone:       req.Phone,
	}
	if err := d.Users.Create(&u); err != nil {
		if errors.Is(err, models.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered."})
			return
		}
		internalError(c, err, "Could not create user. Try again later.")
		return
	}

	// 註冊即登入
	token, err := utils.GenerateSessionToken(u.ID, u.Email, u.FirstName, u.LastName, u.ProfileImageURL)
	if err != nil {
		log.Printf("register: could not issue session token for user %d: %v", u.ID, err)
	} else {
		setSessionCookie(c, token)
	}
	c.JSON(http.StatusCreated, publicProfile(u))
}

// POST /api/auth/login
func (d *deps) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	user, err := d.Users.ValidateCredentials(strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password."})
		return
	}

	token, err := utils.GenerateSessionToken(user.ID, user.Email, user.FirstName, user.LastName, user.ProfileImageURL)
	if err != nil {
		internalError(c, err, "Could not establish session.")
		return
	}
	setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"firstName": user.FirstName,
		"lastName":  user.LastName,
		"isAdmin":   user.IsAdmin,
		"token":     token,
	})
}

// POST /api/auth/logout
func (d *deps) logout(c *gin.Context) {
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

// GET /api/auth/user
func (d *deps) currentUser(c *gin.Context) {
	u, err := d.Users.GetByID(c.GetInt64("userId"))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}
		internalError(c, err, "Failed to fetch user.")
		return
	}
	c.JSON(http.StatusOK, publicProfile(u))
}

// PUT /api/auth/profile
func (d *deps) updateProfile(c *gin.Context) {
	var req models.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}

	u, err := d.Users.UpdateProfile(c.GetInt64("userId"), req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}
		internalError(c, err, "Could not update profile.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully.", "user": publicProfile(u)})
}

// POST /api/auth/upload-avatar
// client 端已擋 5MB；這邊重驗 MIME prefix 跟大小
func (d *deps) uploadAvatar(c *gin.Context) {
	var req struct {
		ImageData string `json:"imageData" binding:"required"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if !strings.HasPrefix(req.ImageData, "data:image/") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid image format."})
		return
	}
	if len(req.ImageData) > maxAvatarSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "Image too large. Maximum size is 5MB."})
		return
	}

	u, err := d.Users.UpdateAvatar(c.GetInt64("userId"), req.ImageData)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "User not found."})
			return
		}
		internalError(c, err, "Could not upload avatar.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Avatar updated successfully.", "user": publicProfile(u)})
}

/* ---------------- password reset ---------------- */

// POST /api/auth/forgot-password
// 找不到 email 也回同一句話，避免帳號枚舉
func (d *deps) forgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if !bindJSON(c, &req) {
		return
	}

	const genericMsg = "If an account with that email exists, a password reset link has been sent."

	token, err := utils.GenerateResetToken()
	if err != nil {
		internalError(c, err, "Could not process request.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	err = d.Users.SetResetToken(email, token, time.Now().Add(resetTokenTTL))
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		internalError(c, err, "Could not process request.")
		return
	}

	if err == nil {
		// 還沒接 mailer，token 先進 log（production 不回給 client）
		log.Printf("password reset token issued for %s", email)
		if d.devMode {
			c.JSON(http.StatusOK, gin.H{"message": genericMsg, "resetToken": token})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": genericMsg})
}

// POST /api/auth/reset-password
func (d *deps) resetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := d.Users.ResetPassword(req.Token, req.Password); err != nil {
		if errors.Is(err, models.ErrInvalidToken) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid or expired reset token."})
			return
		}
		internalError(c, err, "Could not reset password.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully."})
}
