package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeInmateNumber(t *testing.T) {
	assert.Equal(t, "AB1234", NormalizeInmateNumber("AB-1234"))
	assert.Equal(t, "AB1234", NormalizeInmateNumber("ab 1234"))
	assert.Equal(t, "AB1234", NormalizeInmateNumber("  Ab.12-34 "))
	assert.Equal(t, "QQ7777", NormalizeInmateNumber("QQ7777"))
	assert.Equal(t, "", NormalizeInmateNumber(""))
	assert.Equal(t, "", NormalizeInmateNumber("---"))
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusNone))
	assert.True(t, ValidStatus(StatusSolitary))
	assert.True(t, ValidStatus(StatusLifer))
	assert.False(t, ValidStatus("paroled"))
}
