package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/mvolkov/storefront/internal/auth"
	"github.com/mvolkov/storefront/internal/events"
	"github.com/mvolkov/storefront/internal/hash"
	"github.com/mvolkov/storefront/internal/models"
	"github.com/mvolkov/storefront/pkg/logging"
)

type AuthHTTP struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
	Producer      *events.Producer
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req credentials
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Username == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "username and password required")
	}

	var existing models.User
	err := h.DB.WithContext(ctx).Where("username = ?", req.Username).First(&existing).Error
	if err == nil {
		return echo.NewHTTPError(http.StatusConflict, "user already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		l.Error("register_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := models.User{Username: req.Username, PasswordHash: pwHash, Role: "user"}
	if err := h.DB.WithContext(ctx).Create(&user).Error; err != nil {
		l.Error("register_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	publish(c, h.Producer, "user_events", fmt.Sprint(user.ID), map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	})

	l.Info("user registered", "user_id", user.ID)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req credentials
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var user models.User
	if err := h.DB.WithContext(ctx).Where("username = ?", req.Username).First(&user).Error; err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}
	if !hash.CheckPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid username or password")
	}

	accessToken, err := auth.SignAccessToken(user.ID, user.Role, h.JWTSecret)
	if err != nil {
		l.Error("login_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	refreshToken, err := auth.SignRefreshToken(user.ID, user.Role, h.RefreshSecret)
	if err != nil {
		l.Error("login_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
	if err := auth.SaveRefreshToken(h.DB.WithContext(ctx), refreshToken, user.ID); err != nil {
		l.Error("login_error", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(auth.CreateCookie("accessToken", accessToken, "/", time.Now().Add(auth.AccessTokenTTL)))
	c.SetCookie(auth.CreateCookie("refreshToken", refreshToken, "/", time.Now().Add(auth.RefreshTokenTTL)))

	l.Info("user logged in", "user_id", user.ID)
	return c.JSON(http.StatusOK, map[string]any{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	if cookie, err := c.Cookie("refreshToken"); err == nil && cookie.Value != "" {
		if err := auth.RevokeRefreshToken(h.DB.WithContext(c.Request().Context()), cookie.Value); err != nil {
			logging.FromContext(c.Request().Context()).Error("logout_error", "error", err)
		}
	}

	c.SetCookie(auth.DeleteCookie("accessToken", "/"))
	c.SetCookie(auth.DeleteCookie("refreshToken", "/"))
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}
