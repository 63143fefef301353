package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateDepth(t *testing.T) {
	assert.NoError(t, validateDepth(1))
	assert.NoError(t, validateDepth(12))
	assert.Error(t, validateDepth(0))
	assert.Error(t, validateDepth(-3))
}
