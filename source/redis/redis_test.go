package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterRequiresClient(t *testing.T) {
	assert.ErrorIs(t, Register(Config{}), ErrNilClient)
}
