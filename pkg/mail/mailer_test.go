package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderResetMail(t *testing.T) {
	body, err := RenderResetMail(ResetMailData{
		UserName:  "alice",
		ResetURL:  "http://localhost:3000/resetpassword/abc123",
		ExpiresIn: 15,
	})
	require.NoError(t, err)

	assert.Contains(t, body, "Alice")
	assert.Contains(t, body, "http://localhost:3000/resetpassword/abc123")
	assert.Contains(t, body, "15 minutes")
}

func TestResetURL(t *testing.T) {
	url := ResetURL("http://localhost:3000/resetpassword", "deadbeef")
	assert.Equal(t, "http://localhost:3000/resetpassword/deadbeef", url)
}
