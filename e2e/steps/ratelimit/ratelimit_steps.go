package ratelimit

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// maxAttempts bounds the budget exhaustion loop so a misconfigured server
// fails the scenario instead of hanging it.
const maxAttempts = 5000

// TestContext is the part of the scenario state the rate limit steps use.
type TestContext interface {
	Request(method, path string, body any) error
	LastStatus() int
	LastHeader(name string) string
}

// RegisterSteps registers steps that drive an operator past its budget.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &ratelimitSteps{tc: tc}

	ctx.Step(`^I exhaust my write budget on "([^"]*)"$`, steps.exhaustWriteBudget)
	ctx.Step(`^I exhaust my read budget on "([^"]*)"$`, steps.exhaustReadBudget)
	ctx.Step(`^the budget allowed at least (\d+) requests$`, steps.budgetAllowedAtLeast)
}

type ratelimitSteps struct {
	tc      TestContext
	allowed int
}

func (s *ratelimitSteps) exhaustWriteBudget(ctx context.Context, path string) error {
	return s.exhaust(http.MethodPost, path, "{}")
}

func (s *ratelimitSteps) exhaustReadBudget(ctx context.Context, path string) error {
	return s.exhaust(http.MethodGet, path, nil)
}

// exhaust repeats the request until the server answers 429. Rejected bodies
// still count against the budget, so an empty write is enough.
func (s *ratelimitSteps) exhaust(method, path string, body any) error {
	s.allowed = 0
	for range maxAttempts {
		if err := s.tc.Request(method, path, body); err != nil {
			return err
		}
		if s.tc.LastStatus() == http.StatusTooManyRequests {
			return nil
		}
		s.allowed++
	}
	return fmt.Errorf("no 429 after %d %s requests to %s", maxAttempts, method, path)
}

func (s *ratelimitSteps) budgetAllowedAtLeast(ctx context.Context, n int) error {
	if s.allowed < n {
		return fmt.Errorf("expected at least %d requests before the limit, got %d", n, s.allowed)
	}
	return nil
}
