package registry

import (
	"context"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext is the part of the scenario state the registry fixtures use.
type TestContext interface {
	RequestAs(role, method, path string, body any) error
	ExpectStatus(want int) error
	ResponseString(path string) (string, error)
	Save(name, value string)
	Saved(name string) (string, bool)
}

// RegisterSteps registers fixtures that put households, persons and
// assessments in place. They act as a field agent regardless of the
// scenario's current role and save the created ids.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &registrySteps{tc: tc}

	ctx.Step(`^a registered household in "([^"]*)"$`, steps.registeredHousehold)
	ctx.Step(`^a registered person "([^"]*)" "([^"]*)" in "([^"]*)" born "([^"]*)"$`, steps.registeredPerson)
	ctx.Step(`^the person has been assessed$`, steps.personAssessed)
}

type registrySteps struct {
	tc TestContext
}

func (s *registrySteps) registeredHousehold(ctx context.Context, province string) error {
	body := map[string]any{
		"province":        province,
		"zone":            "rural",
		"size":            6,
		"members_under5":  2,
		"members_under15": 3,
		"monthly_income":  60_000,
		"housing":         "precarious",
		"has_water":       false,
		"has_electricity": false,
	}
	return s.create("/api/v1/households", body, "household_id")
}

func (s *registrySteps) registeredPerson(ctx context.Context, first, last, province, birthDate string) error {
	body := map[string]any{
		"first_name":        first,
		"last_name":         last,
		"birth_date":        birthDate,
		"gender":            "F",
		"province":          province,
		"zone":              "rural",
		"monthly_income":    20_000,
		"employment_status": "informal",
		"education_level":   "primary",
	}
	if householdID, ok := s.tc.Saved("household_id"); ok {
		body["household_id"] = householdID
	}
	if err := s.create("/api/v1/persons", body, "person_id"); err != nil {
		return err
	}
	rsuID, err := s.tc.ResponseString("rsu_id")
	if err != nil {
		return err
	}
	s.tc.Save("rsu_id", rsuID)
	return nil
}

func (s *registrySteps) personAssessed(ctx context.Context) error {
	if err := s.tc.RequestAs("agent", http.MethodPost, "/api/v1/persons/{person_id}/assessments", nil); err != nil {
		return err
	}
	return s.tc.ExpectStatus(http.StatusCreated)
}

func (s *registrySteps) create(path string, body any, saveAs string) error {
	if err := s.tc.RequestAs("agent", http.MethodPost, path, body); err != nil {
		return err
	}
	if err := s.tc.ExpectStatus(http.StatusCreated); err != nil {
		return err
	}
	v, err := s.tc.ResponseString("id")
	if err != nil {
		return err
	}
	s.tc.Save(saveAs, v)
	return nil
}
