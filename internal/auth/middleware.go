package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Middleware struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

func NewMiddleware(db *gorm.DB, jwtSecret, refreshSecret []byte) *Middleware {
	return &Middleware{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}
}

func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuth(next, nil)
}

func (m *Middleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.requireAuth(next, func(claims *Claims) error {
		if claims.Role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		return nil
	})
}

// requireAuth validates the access cookie and, when it has merely
// expired, rotates the pair using the refresh cookie before letting the
// request through.
func (m *Middleware) requireAuth(next echo.HandlerFunc, validate func(*Claims) error) echo.HandlerFunc {
	return func(c echo.Context) error {
		accessCookie, err := c.Cookie("accessToken")
		if err != nil || accessCookie.Value == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}

		claims, err := ParseAccessToken(accessCookie.Value, m.JWTSecret)
		if err == nil {
			if validate != nil {
				if vErr := validate(claims); vErr != nil {
					return vErr
				}
			}
			setUserContext(c, claims)
			return next(c)
		}

		if !errors.Is(err, jwt.ErrTokenExpired) {
			m.clearCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
		}

		refreshCookie, rErr := c.Cookie("refreshToken")
		if rErr != nil || refreshCookie.Value == "" {
			m.clearCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "refresh token missing")
		}

		claims, newAccess, newRefresh, err := m.rotate(refreshCookie.Value)
		if err != nil {
			m.clearCookies(c)
			return echo.NewHTTPError(http.StatusUnauthorized, "cannot rotate token: "+err.Error())
		}

		c.SetCookie(CreateCookie("accessToken", newAccess, "/", time.Now().Add(AccessTokenTTL)))
		c.SetCookie(CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(RefreshTokenTTL)))

		if validate != nil {
			if vErr := validate(claims); vErr != nil {
				m.clearCookies(c)
				return vErr
			}
		}
		setUserContext(c, claims)
		return next(c)
	}
}

func (m *Middleware) rotate(rawRefresh string) (*Claims, string, string, error) {
	claims, err := ValidateRefreshToken(m.DB, rawRefresh, m.RefreshSecret)
	if err != nil {
		return nil, "", "", err
	}

	newAccess, err := SignAccessToken(claims.UserID, claims.Role, m.JWTSecret)
	if err != nil {
		return nil, "", "", err
	}
	newRefresh, err := SignRefreshToken(claims.UserID, claims.Role, m.RefreshSecret)
	if err != nil {
		return nil, "", "", err
	}

	if err := RevokeRefreshToken(m.DB, rawRefresh); err != nil {
		return nil, "", "", err
	}
	if err := SaveRefreshToken(m.DB, newRefresh, claims.UserID); err != nil {
		return nil, "", "", err
	}
	return claims, newAccess, newRefresh, nil
}

func (m *Middleware) clearCookies(c echo.Context) {
	c.SetCookie(DeleteCookie("accessToken", "/"))
	c.SetCookie(DeleteCookie("refreshToken", "/"))
}

func setUserContext(c echo.Context, claims *Claims) {
	c.Set("user_id", claims.UserID)
	c.Set("role", claims.Role)
}

// UserID pulls the authenticated user out of the echo context.
func UserID(c echo.Context) (uint, error) {
	v, ok := c.Get("user_id").(uint)
	if !ok || v == 0 {
		return 0, errors.New("unauthorized")
	}
	return v, nil
}
