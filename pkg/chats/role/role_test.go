package role

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, User.Valid())
	assert.True(t, Assistant.Valid())
	assert.False(t, Role("system").Valid())
	assert.False(t, Role("").Valid())
}

func TestRole_String(t *testing.T) {
	assert.Equal(t, "user", User.String())
	assert.Equal(t, "assistant", Assistant.String())
}
