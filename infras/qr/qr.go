package qr

//go:generate go run go.uber.org/mock/mockgen -source=./qr.go -destination=./mocks/qr_mock.go -package=mocks

import (
	"errors"
	"fmt"
	"gatepass/config"
	"gatepass/shared/timezone"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidSignature is returned when a scanned token fails integrity
	// verification. The payload cannot be trusted, including its booking id.
	ErrInvalidSignature = errors.New("qr token signature mismatch")
)

// Payload is the verified content of a check-in token.
type Payload struct {
	BookingID       string
	AdmissibleCount int
	IssuedAt        time.Time
}

type tokenClaims struct {
	BookingID       string `json:"booking_id"`
	AdmissibleCount int    `json:"admissible_count"`
	jwt.RegisteredClaims
}

// QR signs and verifies check-in tokens. The token embeds the booking id and
// its admissible count under an HMAC-SHA256 tag, so a client cannot edit the
// payload to inflate how many people it admits. Tokens carry no expiry; a
// booking's token stays valid for the booking's lifetime and is stored on the
// booking row at issue time, which keeps repeated display/download stable.
type QR interface {
	Issue(bookingID string, admissibleCount int) (string, error)
	Decode(token string) (Payload, error)
}

type codecImpl struct {
	config *config.Config
}

func New(cfg *config.Config) QR {
	return &codecImpl{
		config: cfg,
	}
}

// Issue implements QR.
func (c *codecImpl) Issue(bookingID string, admissibleCount int) (string, error) {
	now := timezone.Now()

	claims := tokenClaims{
		BookingID:       bookingID,
		AdmissibleCount: admissibleCount,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
			Issuer:   c.config.App.Name,
			Subject:  bookingID,
			ID:       uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString([]byte(c.config.QR.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign qr token: %w", err)
	}

	return signed, nil
}

// Decode implements QR. Any parse or verification failure collapses to
// ErrInvalidSignature; a scanner cannot distinguish a forged tag from a
// malformed token, and must not.
func (c *codecImpl) Decode(tokenString string) (Payload, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}

		return []byte(c.config.QR.Secret), nil
	})
	if err != nil {
		return Payload{}, ErrInvalidSignature
	}

	claims, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid || claims.BookingID == "" {
		return Payload{}, ErrInvalidSignature
	}

	issuedAt := time.Time{}
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}

	return Payload{
		BookingID:       claims.BookingID,
		AdmissibleCount: claims.AdmissibleCount,
		IssuedAt:        issuedAt,
	}, nil
}
