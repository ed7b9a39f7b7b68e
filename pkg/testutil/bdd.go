package testutil

import "testing"

// Scenario carries a fixture from its Given step through When and Then steps.
//
//	testutil.Given(t, "a running gateway", newWorld).
//		When("the applicant submits", submit).
//		Then("the approved card is shown", assertApproved)
//
// Given runs on the parent test so cleanups it registers last for the whole
// scenario. When and Then run as sibling subtests in call order. Once a When
// step fails, every later step is skipped.
type Scenario[T any] struct {
	t         *testing.T
	state     T
	failedAct string
}

// Given builds the fixture under test.
func Given[T any](t *testing.T, desc string, setup func(t *testing.T) T) *Scenario[T] {
	t.Helper()
	t.Logf("Given %s", desc)
	return &Scenario[T]{t: t, state: setup(t)}
}

// When performs the action under test. Results belong on state.
func (s *Scenario[T]) When(desc string, act func(t *testing.T, state T)) *Scenario[T] {
	s.t.Helper()
	if !s.run("When "+desc, act) {
		s.failedAct = desc
	}
	return s
}

// Then checks state. A failed Then does not skip the Thens after it.
func (s *Scenario[T]) Then(desc string, check func(t *testing.T, state T)) *Scenario[T] {
	s.t.Helper()
	s.run("Then "+desc, check)
	return s
}

// State returns the fixture, for assertions outside the scenario chain.
func (s *Scenario[T]) State() T {
	return s.state
}

func (s *Scenario[T]) run(name string, fn func(t *testing.T, state T)) bool {
	s.t.Helper()
	if s.failedAct != "" {
		return s.t.Run(name, func(t *testing.T) {
			t.Skipf("skipped after %q failed", s.failedAct)
		})
	}
	return s.t.Run(name, func(t *testing.T) {
		fn(t, s.state)
	})
}
