package programs

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext is the part of the scenario state the program fixtures use.
type TestContext interface {
	RequestAs(role, method, path string, body any) error
	ExpectStatus(want int) error
	ResponseField(path string) (any, error)
	ResponseString(path string) (string, error)
	Save(name, value string)
}

// RegisterSteps registers program, enrollment and payment fixtures plus the
// audit trail assertion.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &programSteps{tc: tc}

	ctx.Step(`^an active program "([^"]*)" for province "([^"]*)" paying (\d+)$`, steps.activeProgram)
	ctx.Step(`^the person is enrolled and active in the program$`, steps.enrolledAndActive)
	ctx.Step(`^a payment has been created for the enrollment$`, steps.paymentCreated)
	ctx.Step(`^the audit trail of (person|household|assessment|program|enrollment|payment) "([^"]*)" should contain "([^"]*)"$`, steps.auditTrailContains)
}

type programSteps struct {
	tc TestContext
}

func (s *programSteps) activeProgram(ctx context.Context, code, province string, amount int) error {
	body := map[string]any{
		"code":               code,
		"name":               "Cash transfer " + province,
		"budget_total":       amount * 100,
		"max_beneficiaries":  50,
		"amount_per_payment": amount,
		"frequency":          "monthly",
		"start_date":         "2026-01-01",
		"criteria":           map[string]any{"provinces": []string{province}},
	}
	if err := s.as("admin", http.MethodPost, "/api/v1/programs", body, http.StatusCreated, "program_id"); err != nil {
		return err
	}
	return s.as("admin", http.MethodPost, "/api/v1/programs/{program_id}/activate", nil, http.StatusOK, "")
}

func (s *programSteps) enrolledAndActive(ctx context.Context) error {
	body := `{"program_id":"{program_id}","person_id":"{person_id}"}`
	if err := s.as("agent", http.MethodPost, "/api/v1/enrollments", body, http.StatusCreated, "enrollment_id"); err != nil {
		return err
	}
	if err := s.as("admin", http.MethodPost, "/api/v1/enrollments/{enrollment_id}/approve", nil, http.StatusOK, ""); err != nil {
		return err
	}
	return s.as("admin", http.MethodPost, "/api/v1/enrollments/{enrollment_id}/activate", nil, http.StatusOK, "")
}

func (s *programSteps) paymentCreated(ctx context.Context) error {
	return s.as("admin", http.MethodPost, "/api/v1/payments", `{"enrollment_id":"{enrollment_id}"}`, http.StatusCreated, "payment_id")
}

func (s *programSteps) auditTrailContains(ctx context.Context, kind, entity, action string) error {
	path := fmt.Sprintf("/api/v1/audit?kind=%s&entity_id={%s}", kind, entity)
	if err := s.tc.RequestAs("admin", http.MethodGet, path, nil); err != nil {
		return err
	}
	if err := s.tc.ExpectStatus(http.StatusOK); err != nil {
		return err
	}
	results, err := s.tc.ResponseField("results")
	if err != nil {
		return err
	}
	entries, _ := results.([]any)
	var seen []string
	for _, e := range entries {
		entry, _ := e.(map[string]any)
		got, _ := entry["action"].(string)
		if got == action {
			return nil
		}
		seen = append(seen, got)
	}
	return fmt.Errorf("audit trail of %s has no %q entry, saw %v", kind, action, seen)
}

func (s *programSteps) as(role, method, path string, body any, status int, saveAs string) error {
	if err := s.tc.RequestAs(role, method, path, body); err != nil {
		return err
	}
	if err := s.tc.ExpectStatus(status); err != nil {
		return err
	}
	if saveAs == "" {
		return nil
	}
	v, err := s.tc.ResponseString("id")
	if err != nil {
		return err
	}
	s.tc.Save(saveAs, v)
	return nil
}
