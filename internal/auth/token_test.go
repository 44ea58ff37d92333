package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret-32-characters!!"

func TestSessionRoundTrip(t *testing.T) {
	sm := NewSessionManager(testSecret, 7*24*time.Hour)

	token, err := sm.Issue()
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims := sm.Verify(token)
	require.NotNil(t, claims)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestVerify_WrongSecret(t *testing.T) {
	sm := NewSessionManager(testSecret, 7*24*time.Hour)
	other := NewSessionManager("a-completely-different-secret-!!", 7*24*time.Hour)

	token, err := sm.Issue()
	require.NoError(t, err)

	assert.Nil(t, other.Verify(token))
}

func TestVerify_ExpiredToken(t *testing.T) {
	issuedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	sm := NewSessionManager(testSecret, 7*24*time.Hour)
	sm.now = func() time.Time { return issuedAt }

	token, err := sm.Issue()
	require.NoError(t, err)

	// Six days later the token is still good
	sm.now = func() time.Time { return issuedAt.Add(6 * 24 * time.Hour) }
	assert.NotNil(t, sm.Verify(token))

	// Eight days later it is not
	sm.now = func() time.Time { return issuedAt.Add(8 * 24 * time.Hour) }
	assert.Nil(t, sm.Verify(token))
}

func TestVerify_RejectsClaimMismatch(t *testing.T) {
	sign := func(subject, role string) string {
		claims := &SessionClaims{
			Role: role,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   subject,
				IssuedAt:  jwt.NewNumericDate(time.Now()),
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return token
	}

	sm := NewSessionManager(testSecret, 7*24*time.Hour)

	assert.NotNil(t, sm.Verify(sign("admin", "admin")))
	assert.Nil(t, sm.Verify(sign("admin", "user")), "wrong role must be rejected")
	assert.Nil(t, sm.Verify(sign("editor", "admin")), "wrong subject must be rejected")
	assert.Nil(t, sm.Verify(sign("admin", "")), "missing role must be rejected")
}

func TestVerify_RejectsWrongAlgorithm(t *testing.T) {
	claims := &SessionClaims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	sm := NewSessionManager(testSecret, 7*24*time.Hour)
	assert.Nil(t, sm.Verify(token))
}

func TestVerify_RejectsTamperedToken(t *testing.T) {
	sm := NewSessionManager(testSecret, 7*24*time.Hour)

	token, err := sm.Issue()
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	assert.Nil(t, sm.Verify(tampered))
}

func TestVerify_EmptyInputs(t *testing.T) {
	sm := NewSessionManager(testSecret, 7*24*time.Hour)
	empty := NewSessionManager("", 7*24*time.Hour)

	token, err := sm.Issue()
	require.NoError(t, err)

	assert.Nil(t, sm.Verify(""))
	assert.Nil(t, empty.Verify(token))
}

func TestIssue_RequiresSecret(t *testing.T) {
	sm := NewSessionManager("", 7*24*time.Hour)

	_, err := sm.Issue()
	assert.Error(t, err)
}
