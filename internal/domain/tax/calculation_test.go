package tax

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculationState_Next(t *testing.T) {
	state := StateIdle
	visited := []CalculationState{state}
	for {
		next, ok := state.Next()
		if !ok {
			break
		}
		visited = append(visited, next)
		state = next
	}

	assert.Equal(t, CalculationStates, visited)
	assert.Equal(t, StateDone, state)
}

func TestDiagnosticEventsPerCalculation(t *testing.T) {
	assert.Equal(t, 6, DiagnosticEventsPerCalculation)
}

func TestCalculationState_NextUnknown(t *testing.T) {
	_, ok := CalculationState("BOGUS").Next()
	assert.False(t, ok)
}
