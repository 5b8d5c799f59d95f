package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gradebook/internal/auth"
)

func TestSessionRoundTrip(t *testing.T) {
	token, expiresAt, err := auth.IssueSession("user-1", "teacher", "gradebook-test", "secret", time.Hour)
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := auth.Parse(token, "secret", "gradebook-test")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "teacher", claims.Role)
}

func TestParseRejectsWrongKey(t *testing.T) {
	token, _, err := auth.IssueSession("user-1", "student", "gradebook-test", "secret", time.Hour)
	require.NoError(t, err)

	_, err = auth.Parse(token, "other-secret", "gradebook-test")
	assert.Error(t, err)
}

func TestParseRejectsIssuerMismatch(t *testing.T) {
	token, _, err := auth.IssueSession("user-1", "student", "someone-else", "secret", time.Hour)
	require.NoError(t, err)

	_, err = auth.Parse(token, "secret", "gradebook-test")
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	token, _, err := auth.IssueSession("user-1", "student", "gradebook-test", "secret", -time.Minute)
	require.NoError(t, err)

	_, err = auth.Parse(token, "secret", "gradebook-test")
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := auth.Parse("not-a-token", "secret", "gradebook-test")
	assert.Error(t, err)
}
