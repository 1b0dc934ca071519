package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/VncsRaniery/habitask-sub001/internal/models"

	"gorm.io/gorm"
)

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindByEmail looks a user up case-insensitively. It returns
// gorm.ErrRecordNotFound when there is none.
func FindByEmail(ctx context.Context, db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpsertUser returns the local user for a provider profile, creating it on
// first sign-in. Name and picture are filled in only when still empty.
func UpsertUser(ctx context.Context, db *gorm.DB, p *Profile) (*models.User, error) {
	email := NormalizeEmail(p.Email)
	if email == "" {
		return nil, errors.New("profile without email")
	}

	user, err := FindByEmail(ctx, db, email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = &models.User{Email: email, Name: p.Name, Image: p.Picture}
		if err := db.WithContext(ctx).Create(user).Error; err != nil {
			return nil, fmt.Errorf("create user: %w", err)
		}
		return user, nil
	case err != nil:
		return nil, fmt.Errorf("find user: %w", err)
	}

	updates := map[string]any{}
	if user.Name == "" && p.Name != "" {
		updates["name"] = p.Name
		user.Name = p.Name
	}
	if user.Image == "" && p.Picture != "" {
		updates["image"] = p.Picture
		user.Image = p.Picture
	}
	if len(updates) > 0 {
		if err := db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("update user: %w", err)
		}
	}
	return user, nil
}
