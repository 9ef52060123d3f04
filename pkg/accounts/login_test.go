package accounts

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nosborn/idcodec/internal/testutil"
	"github.com/nosborn/idcodec/pkg/rules"
)

const password = "testpass123"

func setupLoginTest(t *testing.T, name, status string) (*testutil.DatabaseSetup, Session) {
	setup := testutil.SetupTestDatabase(t)

	hash, err := PasswordHash(password)
	require.NoError(t, err)
	setup.CreateTestAccount(t, name, hash, status)

	return setup, Session{}
}

func TestLogin(t *testing.T) {
	t.Run("successful login for active account", func(t *testing.T) {
		_, session := setupLoginTest(t, "testuser", "A")

		result := Login("testuser", password, "192.0.2.1", &session)

		assert.Equal(t, LoginOK, result)
		assert.EqualValues(t, 1912822283035, session.Code)
		assert.Equal(t, "Testuser", session.Name)
		assert.Equal(t, "NEVER", session.SLogin) // First login
		assert.Equal(t, "NEVER", session.ULogin)
	})

	t.Run("nil session allowed", func(t *testing.T) {
		setup, _ := setupLoginTest(t, "testuser", "A")

		assert.Equal(t, LoginOK, Login("testuser", password, "192.0.2.1", nil))

		code, err := CodeOf("testuser")
		require.NoError(t, err)
		assert.Equal(t, "192.0.2.1", setup.Column(t, code, "sucip"))
	})

	t.Run("second login reports the first", func(t *testing.T) {
		setup, session := setupLoginTest(t, "testuser", "A")

		require.Equal(t, LoginOK, Login("testuser", password, "192.0.2.1", &session))
		require.Equal(t, LoginOK, Login("testuser", password, "192.0.2.2", &session))

		assert.NotEqual(t, "NEVER", session.SLogin)
		assert.Equal(t, "192.0.2.1", session.SucIP)
		assert.Equal(t, "192.0.2.2", setup.Column(t, session.Code, "sucip"))
	})

	t.Run("login fails for non-existent user", func(t *testing.T) {
		_, session := setupLoginTest(t, "testuser", "A")

		result := Login("nonexistent", password, "192.0.2.1", &session)

		assert.Equal(t, LoginIncorrect, result)
	})

	t.Run("login fails for wrong password", func(t *testing.T) {
		setup, session := setupLoginTest(t, "testuser2", "A")

		result := Login("testuser2", "wrongpassword", "192.0.2.1", &session)
		assert.Equal(t, LoginIncorrect, result)

		code, err := CodeOf("testuser2")
		require.NoError(t, err)
		assert.EqualValues(t, 1, setup.Column(t, code, "nunsuclog"))
		assert.Equal(t, "192.0.2.1", setup.Column(t, code, "unsucip"))
	})

	t.Run("successful login clears failure count", func(t *testing.T) {
		setup, session := setupLoginTest(t, "testuser2", "A")

		require.Equal(t, LoginIncorrect, Login("testuser2", "wrongpassword", "192.0.2.1", &session))
		require.Equal(t, LoginOK, Login("testuser2", password, "192.0.2.1", &session))

		assert.EqualValues(t, 0, setup.Column(t, session.Code, "nunsuclog"))
		assert.Equal(t, "192.0.2.1", session.UnsucIP)
		assert.NotEqual(t, "NEVER", session.ULogin)
	})

	t.Run("login fails for suspended account", func(t *testing.T) {
		_, session := setupLoginTest(t, "suspended", "S")

		assert.Equal(t, LoginSuspended, Login("suspended", password, "192.0.2.1", &session))
	})

	t.Run("suspended account with wrong password is just incorrect", func(t *testing.T) {
		_, session := setupLoginTest(t, "suspended", "S")

		assert.Equal(t, LoginIncorrect, Login("suspended", "wrongpassword", "192.0.2.1", &session))
	})

	t.Run("login fails for canceled account", func(t *testing.T) {
		_, session := setupLoginTest(t, "canceled", "X")

		assert.Equal(t, LoginIncorrect, Login("canceled", password, "192.0.2.1", &session))
	})

	t.Run("login fails after too many password attempts", func(t *testing.T) {
		_, session := setupLoginTest(t, "lockedout", "A")

		for i := 0; i < MaxPasswordTries; i++ {
			require.Equal(t, LoginIncorrect, Login("lockedout", "wrongpassword", "192.0.2.1", &session))
		}

		assert.Equal(t, LoginIncorrect, Login("lockedout", password, "192.0.2.1", &session))
	})

	t.Run("login refused while rules lock file exists", func(t *testing.T) {
		_, session := setupLoginTest(t, "newplayer", "A")
		code, err := CodeOf("newplayer")
		require.NoError(t, err)

		require.NoError(t, rules.LockOut(code))
		t.Cleanup(func() { rules.Release(code) })

		assert.Equal(t, LoginLockedOut, Login("newplayer", password, "192.0.2.1", &session))

		require.NoError(t, rules.Release(code))
		assert.Equal(t, LoginOK, Login("newplayer", password, "192.0.2.1", &session))
	})
}

func TestLoginParameterValidation(t *testing.T) {
	t.Run("fails with empty name", func(t *testing.T) {
		var session Session
		assert.Equal(t, LoginError, Login("", "password", "192.0.2.1", &session))
	})

	t.Run("fails with empty password", func(t *testing.T) {
		var session Session
		assert.Equal(t, LoginError, Login("username", "", "192.0.2.1", &session))
	})

	t.Run("fails with whitespace-only name", func(t *testing.T) {
		var session Session
		assert.Equal(t, LoginIncorrect, Login("   ", "password", "192.0.2.1", &session))
	})

	t.Run("fails with whitespace-only password", func(t *testing.T) {
		var session Session
		assert.Equal(t, LoginIncorrect, Login("username", "   ", "192.0.2.1", &session))
	})

	t.Run("fails with name too long", func(t *testing.T) {
		var session Session
		assert.Equal(t, LoginError, Login(strings.Repeat("a", 13), "password", "192.0.2.1", &session))
	})

	t.Run("fails with password too long", func(t *testing.T) {
		var session Session
		assert.Equal(t, LoginError, Login("username", strings.Repeat("a", PasswordSize+1), "192.0.2.1", &session))
	})

	t.Run("fails with name of punctuation only", func(t *testing.T) {
		var buf bytes.Buffer
		log.SetOutput(&buf)
		defer log.SetOutput(os.Stderr)

		var session Session
		assert.Equal(t, LoginIncorrect, Login("! ! !", "password", "192.0.2.1", &session))
		assert.Contains(t, buf.String(), `No usable name in "!!!"`)
	})

	t.Run("trims whitespace from name and password", func(t *testing.T) {
		_, session := setupLoginTest(t, "trimtest", "A")

		assert.Equal(t, LoginOK, Login("  trimtest  ", "  testpass123  ", "192.0.2.1", &session))
	})

	t.Run("handles case-insensitive usernames", func(t *testing.T) {
		_, session := setupLoginTest(t, "casetest", "A")

		for _, username := range []string{"casetest", "CaseTest", "CASETEST", "cAsEtEsT"} {
			result := Login(username, password, "192.0.2.1", &session)
			assert.Equal(t, LoginOK, result, "should login with username: %q", username)
			assert.Equal(t, "Casetest", session.Name)
		}
	})

	t.Run("blank and underscore are interchangeable", func(t *testing.T) {
		_, session := setupLoginTest(t, "mod ash", "A")

		assert.Equal(t, LoginOK, Login("Mod_Ash", password, "192.0.2.1", &session))
		assert.Equal(t, "Mod Ash", session.Name)
	})
}
