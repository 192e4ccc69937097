package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSolutionPercent(t *testing.T) {
	assert.Equal(t, 0, SolutionPercent(0, 0), "no answers yields 0, never divides")
	assert.Equal(t, 0, SolutionPercent(0, 3))
	assert.Equal(t, 50, SolutionPercent(1, 2))
	assert.Equal(t, 33, SolutionPercent(1, 3), "percentage truncates toward zero")
	assert.Equal(t, 66, SolutionPercent(2, 3))
	assert.Equal(t, 100, SolutionPercent(4, 4))
}
