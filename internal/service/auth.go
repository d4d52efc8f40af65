package service

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/templui/folio/internal/metrics"
	"github.com/templui/folio/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	SessionCookieName = "editor_session"
	sessionSubject    = "editor"
)

var (
	ErrInvalidPIN     = errors.New("invalid PIN")
	ErrInvalidSession = errors.New("invalid session")
)

type AuthService struct {
	pinHash      []byte
	jwtSecret    string
	jwtExpiry    time.Duration
	isProduction bool
	metrics      *metrics.Metrics
}

// NewAuthService keeps only a bcrypt hash of pin in memory.
func NewAuthService(pin, jwtSecret string, jwtExpiry time.Duration, isProduction bool) (*AuthService, error) {
	hash, err := HashPIN(pin)
	if err != nil {
		return nil, fmt.Errorf("failed to hash PIN: %w", err)
	}

	return &AuthService{
		pinHash:      []byte(hash),
		jwtSecret:    jwtSecret,
		jwtExpiry:    jwtExpiry,
		isProduction: isProduction,
		metrics:      metrics.Get(),
	}, nil
}

func HashPIN(pin string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) CheckPIN(pin string) error {
	err := bcrypt.CompareHashAndPassword(s.pinHash, []byte(pin))
	if err != nil {
		return ErrInvalidPIN
	}
	return nil
}

// Login checks pin and issues a signed session token.
func (s *AuthService) Login(pin string) (string, *model.Session, error) {
	err := s.CheckPIN(pin)
	if err != nil {
		s.metrics.Logins.WithLabelValues("denied").Inc()
		return "", nil, err
	}

	now := time.Now()
	session := &model.Session{
		ID:        uuid.NewString(),
		IssuedAt:  now.Truncate(time.Second),
		ExpiresAt: now.Add(s.jwtExpiry).Truncate(time.Second),
	}

	token, err := s.GenerateJWT(session)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign session: %w", err)
	}

	s.metrics.Logins.WithLabelValues("ok").Inc()
	return token, session, nil
}

func (s *AuthService) GenerateJWT(session *model.Session) (string, error) {
	claims := jwt.MapClaims{
		"sub": sessionSubject,
		"jti": session.ID,
		"exp": session.ExpiresAt.Unix(),
		"iat": session.IssuedAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

func (s *AuthService) VerifyJWT(tokenString string) (*model.Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}

	sub, _ := claims.GetSubject()
	if sub != sessionSubject {
		return nil, ErrInvalidSession
	}

	session := &model.Session{}
	session.ID, _ = claims["jti"].(string)
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		session.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		session.ExpiresAt = exp.Time
	}

	return session, nil
}

func (s *AuthService) SetSessionCookie(w http.ResponseWriter, token string, expiry time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  expiry,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *AuthService) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.isProduction,
		SameSite: http.SameSiteLaxMode,
	})
}
