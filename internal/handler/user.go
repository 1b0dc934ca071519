package handler

import (
	"net/http"
	"strings"

	"github.com/VncsRaniery/habitask-sub001/internal/authz"
	"github.com/VncsRaniery/habitask-sub001/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// GetMe returns the current principal.
func GetMe(c *gin.Context) {
	user, err := authz.Require(c)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, http.StatusOK, user)
}

type updateMeReq struct {
	Name string `json:"name" binding:"required,max=64"`
}

// UpdateMe changes the display name of the current principal.
func UpdateMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authz.Require(c)
		if err != nil {
			util.Fail(c, err)
			return
		}

		var req updateMeReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Fail(c, util.Invalid("Nome inválido"))
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if err := util.ValidateName(req.Name, 64); err != nil {
			util.Fail(c, err)
			return
		}

		if err := db.WithContext(c.Request.Context()).Model(user).Update("name", req.Name).Error; err != nil {
			util.Fail(c, err)
			return
		}
		user.Name = req.Name
		util.Success(c, http.StatusOK, user)
	}
}

type changePasswordReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// ChangePassword sets a new password. Accounts created through Google have
// no password yet and may set one without providing the old one.
func ChangePassword(db *gorm.DB, cost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := authz.Require(c)
		if err != nil {
			util.Fail(c, err)
			return
		}

		var req changePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Fail(c, util.Invalid("Dados inválidos"))
			return
		}

		if user.PasswordHash != "" &&
			bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
			util.Fail(c, util.Invalid("Senha atual incorreta"))
			return
		}
		if err := util.ValidatePassword(req.NewPassword); err != nil {
			util.Fail(c, err)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), cost)
		if err != nil {
			util.Fail(c, err)
			return
		}
		if err := db.WithContext(c.Request.Context()).Model(user).Update("password_hash", string(hash)).Error; err != nil {
			util.Fail(c, err)
			return
		}

		util.Success(c, http.StatusOK, gin.H{"message": "Senha alterada com sucesso"})
	}
}
