package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPrisonType(t *testing.T) {
	assert.True(t, ValidPrisonType(PrisonTypeSCI))
	assert.True(t, ValidPrisonType(PrisonTypeCounty))
	assert.True(t, ValidPrisonType(PrisonTypeImmigrationDetention))
	assert.False(t, ValidPrisonType("halfway_house"))
	assert.False(t, ValidPrisonType(""))
}
