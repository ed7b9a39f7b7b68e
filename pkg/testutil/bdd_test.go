package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type counter struct {
	steps []string
	n     int
}

func TestScenarioThreadsStateInOrder(t *testing.T) {
	var cleaned bool
	s := Given(t, "a counter", func(t *testing.T) *counter {
		t.Cleanup(func() { cleaned = true })
		return &counter{steps: []string{"given"}}
	}).
		When("it is incremented", func(t *testing.T, c *counter) {
			assert.False(t, cleaned, "fixture cleanup runs only after the scenario")
			c.n++
			c.steps = append(c.steps, "when")
		}).
		Then("the count is one", func(t *testing.T, c *counter) {
			assert.Equal(t, 1, c.n)
			c.steps = append(c.steps, "then")
		}).
		When("it is incremented again", func(t *testing.T, c *counter) {
			c.n++
		}).
		Then("the count is two", func(t *testing.T, c *counter) {
			assert.Equal(t, 2, c.n)
		})

	assert.Equal(t, []string{"given", "when", "then"}, s.State().steps)
}

func TestScenarioWithValueState(t *testing.T) {
	var seen string
	Given(t, "a name", func(*testing.T) string { return "jane" }).
		Then("it reaches every step", func(t *testing.T, name string) {
			seen = name
		})

	assert.Equal(t, "jane", seen)
}
