package qr_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"gatepass/config"
	"gatepass/infras/qr"
)

func newCodec(secret string) qr.QR {
	cfg := &config.Config{}
	cfg.App.Name = "gatepass-test"
	cfg.QR.Secret = secret

	return qr.New(cfg)
}

func TestQR_RoundTrip(t *testing.T) {
	codec := newCodec("test-secret")

	token, err := codec.Issue("booking-123", 4)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	payload, err := codec.Decode(token)
	assert.NoError(t, err)
	assert.Equal(t, "booking-123", payload.BookingID)
	assert.Equal(t, 4, payload.AdmissibleCount)
	assert.False(t, payload.IssuedAt.IsZero())
}

func TestQR_StableToken(t *testing.T) {
	codec := newCodec("test-secret")

	token, err := codec.Issue("booking-123", 2)
	assert.NoError(t, err)

	first, err := codec.Decode(token)
	assert.NoError(t, err)

	second, err := codec.Decode(token)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestQR_TamperedToken(t *testing.T) {
	codec := newCodec("test-secret")

	token, err := codec.Issue("booking-123", 4)
	assert.NoError(t, err)

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	assert.Len(t, parts, 3)

	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	parts[1] = string(payload)

	_, err = codec.Decode(strings.Join(parts, "."))
	assert.ErrorIs(t, err, qr.ErrInvalidSignature)
}

func TestQR_WrongSecret(t *testing.T) {
	issuer := newCodec("issuer-secret")
	verifier := newCodec("other-secret")

	token, err := issuer.Issue("booking-123", 1)
	assert.NoError(t, err)

	_, err = verifier.Decode(token)
	assert.ErrorIs(t, err, qr.ErrInvalidSignature)
}

func TestQR_Garbage(t *testing.T) {
	codec := newCodec("test-secret")

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Decode(token)
		assert.ErrorIs(t, err, qr.ErrInvalidSignature)
	}
}
