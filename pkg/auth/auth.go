package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/arnavshah/bloodclub-api-go/pkg/database"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Roles, in increasing order of privilege
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrInvalidKeyFormat = errors.New("invalid key format")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidRole      = errors.New("invalid role")
	ErrInvalidPartner   = errors.New("partner name is required and must not contain '.'")
)

var jwtAlgorithm = jwt.SigningMethodHS256

// Claims represents the JWT claims
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Service issues admin tokens and partner keys
type Service struct {
	jwtSecret []byte
	keySecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewService creates an auth service from the configured secrets
func NewService(jwtSecret, keySecret string, tokenTTL time.Duration, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		jwtSecret: []byte(jwtSecret),
		keySecret: []byte(keySecret),
		tokenTTL:  tokenTTL,
		now:       now,
	}
}

// ValidRole reports whether role is a known role
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin || role == RoleSuperadmin
}

// IsAdminLike reports whether role grants admin access
func IsAdminLike(role string) bool {
	return role == RoleAdmin || role == RoleSuperadmin
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CreateToken creates a new JWT token for a user
func (s *Service) CreateToken(username, role string) (string, error) {
	expirationTime := s.now().Add(s.tokenTTL)
	claims := &Claims{
		Username: username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(s.now()),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(s.jwtSecret)
}

// VerifyToken verifies a JWT token
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwtAlgorithm.Alg()}), jwt.WithoutClaimsValidation())

	if err != nil {
		return nil, err
	}

	// Expiry is checked against the service clock rather than jwt.TimeFunc.
	if !token.Valid || !claims.VerifyExpiresAt(s.now(), true) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// EnsureAdminExists creates the bootstrap superadmin when no users exist
func EnsureAdminExists(db *gorm.DB, username, password string) (bool, error) {
	var count int64
	if err := db.Model(&database.MasterUser{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	user := database.MasterUser{
		Username:     username,
		PasswordHash: hash,
		Role:         RoleSuperadmin,
	}
	if err := db.Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}

// ValidatePartnerName checks that a partner name can round-trip through VerifyHMACKey
func ValidatePartnerName(partner string) error {
	if strings.TrimSpace(partner) == "" || strings.Contains(partner, ".") {
		return ErrInvalidPartner
	}
	return nil
}

// GenerateHMACKey creates a signed partner key using HMAC-SHA256
func (s *Service) GenerateHMACKey(partner string) string {
	return GenerateHMACKey(s.keySecret, partner)
}

// VerifyHMACKey validates a partner key and returns the partner name
func (s *Service) VerifyHMACKey(key string) (string, error) {
	parts := strings.Split(key, ".")
	if len(parts) != 2 || parts[0] == "" {
		return "", ErrInvalidKeyFormat
	}

	expected := GenerateHMACKey(s.keySecret, parts[0])
	if !hmac.Equal([]byte(key), []byte(expected)) {
		return "", ErrInvalidSignature
	}

	return parts[0], nil
}

// GenerateHMACKey signs partner with secret, producing "<partner>.<hex signature>"
func GenerateHMACKey(secret []byte, partner string) string {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(partner))
	return partner + "." + hex.EncodeToString(h.Sum(nil))
}
