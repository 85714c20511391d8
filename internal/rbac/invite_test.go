package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewInviteCode(t *testing.T) {
	// Act
	first, err := newInviteCode()
	assert.NoError(t, err)
	second, err := newInviteCode()
	assert.NoError(t, err)

	// Assert: 12 байт энтропии дают 16 URL-safe символов без паддинга
	assert.Len(t, first, 16)
	assert.NotContains(t, first, "=")
	assert.NotContains(t, first, "/")
	assert.NotContains(t, first, "+")
	assert.NotEqual(t, first, second)
}
