package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCan(t *testing.T) {
	a := NewAuthorizer()

	assert.True(t, a.Can([]string{"deals:read", "users:manage"}, "users:manage"))
	assert.False(t, a.Can([]string{"deals:read"}, "users:manage"))
	assert.False(t, a.Can(nil, "deals:read"))
}

func TestCan_CuringaLiberaTudo(t *testing.T) {
	a := NewAuthorizer()

	assert.True(t, a.Can([]string{Wildcard}, "users:manage"))
	assert.True(t, a.Can([]string{Wildcard}, "qualquer:coisa"))
}
