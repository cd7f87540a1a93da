package models

import (
	"errors"
	"regexp"
	"strings"
)

type Session struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Token    string `json:"-"`
	DarkMode bool   `json:"darkMode"`
}

func (s Session) Authenticated() bool {
	return s.Token != "" && s.Username != ""
}

type ActiveUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

type RegisterRequest struct {
	Username         string `json:"username" binding:"required"`
	Email            string `json:"email" binding:"required"`
	Password         string `json:"password" binding:"required"`
	Role             string `json:"role"`
	SecurityQuestion string `json:"securityQuestion"`
	SecurityAnswer   string `json:"securityAnswer"`
}

func (r *RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" {
		return errors.New("username cannot be empty")
	}
	if len(r.Username) < 3 || len(r.Username) > 50 {
		return errors.New("username must be between 3 and 50 characters")
	}
	if !emailRegex.MatchString(strings.ToLower(r.Email)) {
		return errors.New("invalid email format")
	}
	if len(r.Password) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	return nil
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (r *LoginRequest) Validate() error {
	if strings.TrimSpace(r.Username) == "" || r.Password == "" {
		return errors.New("username and password are required")
	}
	return nil
}

type ForgotPasswordRequest struct {
	Email            string `json:"email" binding:"required"`
	SecurityQuestion string `json:"securityQuestion" binding:"required"`
	SecurityAnswer   string `json:"securityAnswer" binding:"required"`
	NewPassword      string `json:"newPassword" binding:"required"`
}

func (r *ForgotPasswordRequest) Validate() error {
	if !emailRegex.MatchString(strings.ToLower(r.Email)) {
		return errors.New("invalid email format")
	}
	if strings.TrimSpace(r.SecurityAnswer) == "" {
		return errors.New("security answer cannot be empty")
	}
	if len(r.NewPassword) < 8 {
		return errors.New("password must be at least 8 characters long")
	}
	return nil
}
