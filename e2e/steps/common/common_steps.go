package common

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/cucumber/godog"
)

// TestContext is the part of the scenario state the generic steps use.
type TestContext interface {
	UseRole(role string) error
	Request(method, path string, body any) error
	ExpectStatus(want int) error
	ResponseField(path string) (any, error)
	ResponseString(path string) (string, error)
	LastHeader(name string) string
	Save(name, value string)
	Expand(s string) string
}

// RegisterSteps registers authentication, request and assertion steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^I am an? (viewer|agent|admin)$`, steps.useRole)
	ctx.Step(`^I am not authenticated$`, steps.unauthenticated)

	ctx.Step(`^I (GET|POST|DELETE) "([^"]*)"$`, steps.request)
	ctx.Step(`^I (POST|PATCH|PUT) "([^"]*)" with:$`, steps.requestWithBody)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be (-?\d+(?:\.\d+)?)$`, steps.fieldShouldBeNumber)
	ctx.Step(`^the response field "([^"]*)" should be at least (-?\d+(?:\.\d+)?)$`, steps.fieldShouldBeAtLeast)
	ctx.Step(`^the response field "([^"]*)" should match "([^"]*)"$`, steps.fieldShouldMatch)
	ctx.Step(`^the response field "([^"]*)" should be present$`, steps.fieldShouldBePresent)
	ctx.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, steps.headerShouldBe)
	ctx.Step(`^the response header "([^"]*)" should be present$`, steps.headerShouldBePresent)
	ctx.Step(`^I save the response field "([^"]*)" as "([^"]*)"$`, steps.saveField)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) useRole(ctx context.Context, role string) error {
	return s.tc.UseRole(role)
}

func (s *commonSteps) unauthenticated(ctx context.Context) error {
	return s.tc.UseRole("")
}

func (s *commonSteps) request(ctx context.Context, method, path string) error {
	return s.tc.Request(method, path, nil)
}

func (s *commonSteps) requestWithBody(ctx context.Context, method, path string, body *godog.DocString) error {
	return s.tc.Request(method, path, body.Content)
}

func (s *commonSteps) statusShouldBe(ctx context.Context, status int) error {
	return s.tc.ExpectStatus(status)
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, field, want string) error {
	got, err := s.tc.ResponseString(field)
	if err != nil {
		return err
	}
	want = s.tc.Expand(want)
	if got != want {
		return fmt.Errorf("expected %s to be %q, got %q", field, want, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeNumber(ctx context.Context, field, want string) error {
	got, expected, err := s.numbers(field, want)
	if err != nil {
		return err
	}
	if got != expected {
		return fmt.Errorf("expected %s to be %v, got %v", field, expected, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeAtLeast(ctx context.Context, field, want string) error {
	got, expected, err := s.numbers(field, want)
	if err != nil {
		return err
	}
	if got < expected {
		return fmt.Errorf("expected %s to be at least %v, got %v", field, expected, got)
	}
	return nil
}

func (s *commonSteps) numbers(field, want string) (float64, float64, error) {
	v, err := s.tc.ResponseField(field)
	if err != nil {
		return 0, 0, err
	}
	got, ok := v.(float64)
	if !ok {
		return 0, 0, fmt.Errorf("expected %s to be a number, got %T", field, v)
	}
	expected, err := strconv.ParseFloat(want, 64)
	if err != nil {
		return 0, 0, err
	}
	return got, expected, nil
}

func (s *commonSteps) fieldShouldMatch(ctx context.Context, field, pattern string) error {
	got, err := s.tc.ResponseString(field)
	if err != nil {
		return err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	if !re.MatchString(got) {
		return fmt.Errorf("expected %s to match %s, got %q", field, pattern, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBePresent(ctx context.Context, field string) error {
	_, err := s.tc.ResponseField(field)
	return err
}

func (s *commonSteps) headerShouldBe(ctx context.Context, name, want string) error {
	if got := s.tc.LastHeader(name); got != want {
		return fmt.Errorf("expected header %s to be %q, got %q", name, want, got)
	}
	return nil
}

func (s *commonSteps) headerShouldBePresent(ctx context.Context, name string) error {
	if s.tc.LastHeader(name) == "" {
		return fmt.Errorf("expected header %s to be set", name)
	}
	return nil
}

func (s *commonSteps) saveField(ctx context.Context, field, name string) error {
	v, err := s.tc.ResponseString(field)
	if err != nil {
		return err
	}
	s.tc.Save(name, v)
	return nil
}
