package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"rsu/internal/programs/handler/mocks"
	"rsu/internal/programs/models"
	"rsu/internal/programs/service"
	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
	"rsu/pkg/platform/httputil"
	"rsu/pkg/testutil"
)

type ProgramsHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func TestProgramsHandlerSuite(t *testing.T) {
	suite.Run(t, new(ProgramsHandlerSuite))
}

func (s *ProgramsHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.service, logger).Register(s.router)
}

func (s *ProgramsHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func sampleProgram() *models.Program {
	at := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	return &models.Program{
		ID:               id.NewProgramID(),
		Code:             "CASH-01",
		Name:             "Cash transfer",
		BudgetTotal:      10_000,
		BudgetSpent:      2_500,
		MaxBeneficiaries: 10,
		AmountPerPayment: 500,
		Frequency:        models.FrequencyMonthly,
		StartDate:        time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		Status:           models.ProgramActive,
		CreatedAt:        at,
		UpdatedAt:        at,
	}
}

func sampleEnrollment() *models.Enrollment {
	at := time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC)
	return &models.Enrollment{
		ID:               id.NewEnrollmentID(),
		ProgramID:        id.NewProgramID(),
		PersonID:         id.NewPersonID(),
		EligibilityScore: 80,
		Status:           models.EnrollmentPending,
		CreatedAt:        at,
		UpdatedAt:        at,
	}
}

func samplePayment() *models.Payment {
	at := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	return &models.Payment{
		ID:           id.NewPaymentID(),
		EnrollmentID: id.NewEnrollmentID(),
		ProgramID:    id.NewProgramID(),
		Amount:       500,
		Status:       models.PaymentPending,
		Reference:    "PAY-20250301-0A1B2C3D",
		CreatedAt:    at,
		UpdatedAt:    at,
	}
}

func (s *ProgramsHandlerSuite) TestCreateProgram() {
	s.Run("parses dates and criteria and returns 201", func() {
		p := sampleProgram()
		s.service.EXPECT().CreateProgram(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, d models.ProgramDetails) (*models.Program, error) {
				s.Equal(models.FrequencyMonthly, d.Frequency)
				s.Equal(2025, d.StartDate.Year())
				s.Nil(d.EndDate)
				s.Require().NotNil(d.Criteria.MinAge)
				s.Equal(18, *d.Criteria.MinAge)
				return p, nil
			})

		req := testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/programs", map[string]any{
			"code":               "cash-01",
			"name":               "Cash transfer",
			"budget_total":       10000,
			"max_beneficiaries":  10,
			"amount_per_payment": 500,
			"frequency":          "monthly",
			"start_date":         "2025-02-01",
			"criteria":           map[string]any{"min_age": 18},
		}))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[ProgramResponse](s.T(), rr)
		s.Equal(int64(7_500), resp.RemainingBudget)
		s.InDelta(25.0, resp.Utilization, 1e-9)
		s.Equal("2025-02-01", resp.StartDate)
		s.Nil(resp.EndDate)
	})

	s.Run("rejects bad fields before calling the service", func() {
		req := testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/programs", map[string]any{
			"code":      "X",
			"frequency": "weekly",
			"end_date":  "01/02/2025",
			"criteria":  map[string]any{"min_age": "eighteen"},
		}))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertFieldError(s.T(), rr, "frequency")
		resp := testutil.UnmarshalErrorResponse(s.T(), rr)
		s.Contains(resp.Fields, "start_date")
		s.Contains(resp.Fields, "end_date")
	})
}

func (s *ProgramsHandlerSuite) TestListPrograms() {
	s.Run("passes the status filter", func() {
		s.service.EXPECT().ListPrograms(gomock.Any(), models.ProgramFilter{Status: models.ProgramActive}, 0, httputil.PageSize).
			Return([]*models.Program{sampleProgram()}, 1, nil)

		rr := testutil.DoRequest(s.router, testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodGet, "/programs?status=active", nil)))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		page := testutil.UnmarshalPage[ProgramResponse](s.T(), rr)
		s.Equal(1, page.Count)
		s.Len(page.Results, 1)
	})

	s.Run("rejects an unknown status", func() {
		rr := testutil.DoRequest(s.router, testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodGet, "/programs?status=archived", nil)))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})
}

func (s *ProgramsHandlerSuite) TestProgramTransitions() {
	s.Run("activate returns the updated program", func() {
		p := sampleProgram()
		s.service.EXPECT().ActivateProgram(gomock.Any(), p.ID).Return(p, nil)

		rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/programs/"+p.ID.String()+"/activate", nil)))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[ProgramResponse](s.T(), rr)
		s.Equal("active", resp.Status)
	})

	s.Run("illegal transition is a conflict", func() {
		programID := id.NewProgramID()
		s.service.EXPECT().PauseProgram(gomock.Any(), programID).
			Return(nil, dErrors.New(dErrors.CodeConflict, "cannot move program from draft to paused"))

		rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/programs/"+programID.String()+"/pause", nil)))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, string(dErrors.CodeConflict))
	})
}

func (s *ProgramsHandlerSuite) TestUpdateProgram() {
	p := sampleProgram()
	s.service.EXPECT().UpdateProgram(gomock.Any(), p.ID, gomock.Any()).
		DoAndReturn(func(_ any, _ id.ProgramID, patch models.ProgramPatch) (*models.Program, error) {
			s.Require().NotNil(patch.BudgetTotal)
			s.Equal(int64(20_000), *patch.BudgetTotal)
			s.Nil(patch.Name)
			s.Nil(patch.Criteria)
			return p, nil
		})

	req := testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPatch, "/programs/"+p.ID.String(),
		map[string]any{"budget_total": 20000}))
	rr := testutil.DoRequest(s.router, req)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
}

func (s *ProgramsHandlerSuite) TestReconcile() {
	programID := id.NewProgramID()
	enrollmentID := id.NewEnrollmentID()
	s.service.EXPECT().Reconcile(gomock.Any(), programID).Return(&models.Reconciliation{
		ProgramID: programID,
		Recorded:  models.Counters{CurrentBeneficiaries: 2, BudgetSpent: 1_000},
		Derived:   models.Counters{CurrentBeneficiaries: 2, BudgetSpent: 1_500},
		Enrollments: []models.EnrollmentDrift{{
			EnrollmentID:          enrollmentID,
			RecordedTotalReceived: 500,
			DerivedTotalReceived:  1_000,
			RecordedPaymentsCount: 1,
			DerivedPaymentsCount:  2,
		}},
	}, nil)

	rr := testutil.DoRequest(s.router, testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodGet, "/programs/"+programID.String()+"/reconciliation", nil)))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[ReconciliationResponse](s.T(), rr)
	s.True(resp.Drift)
	s.Equal(int64(1_500), resp.Derived.BudgetSpent)
	s.Require().Len(resp.Enrollments, 1)
	s.Equal(enrollmentID.String(), resp.Enrollments[0].EnrollmentID)
}

func (s *ProgramsHandlerSuite) TestCreateEnrollment() {
	s.Run("returns 201 with the stored score", func() {
		e := sampleEnrollment()
		s.service.EXPECT().CreateEnrollment(gomock.Any(), service.EnrollmentRequest{
			ProgramID: e.ProgramID,
			PersonID:  e.PersonID,
			Notes:     "referred by clinic",
		}).Return(e, nil)

		req := testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/enrollments", map[string]string{
			"program_id": e.ProgramID.String(),
			"person_id":  e.PersonID.String(),
			"notes":      "referred by clinic",
		}))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[EnrollmentResponse](s.T(), rr)
		s.Equal("PENDING", resp.Status)
		s.InDelta(80.0, resp.EligibilityScore, 1e-9)
	})

	s.Run("duplicate enrollment surfaces as a person_id field error", func() {
		s.service.EXPECT().CreateEnrollment(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.FieldError("person_id", "person is already enrolled in this program"))

		req := testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/enrollments", map[string]string{
			"program_id": id.NewProgramID().String(),
			"person_id":  id.NewPersonID().String(),
		}))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertFieldError(s.T(), rr, "person_id")
	})

	s.Run("invalid ids never reach the service", func() {
		req := testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/enrollments", map[string]string{
			"program_id": "nope",
		}))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertFieldError(s.T(), rr, "program_id")
		resp := testutil.UnmarshalErrorResponse(s.T(), rr)
		s.Contains(resp.Fields, "person_id")
	})
}

func (s *ProgramsHandlerSuite) TestListEnrollments() {
	programID := id.NewProgramID()
	s.service.EXPECT().ListEnrollments(gomock.Any(), models.EnrollmentFilter{ProgramID: &programID, Status: models.EnrollmentActive}, 0, httputil.PageSize).
		Return(nil, 0, nil)

	rr := testutil.DoRequest(s.router, testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodGet,
		"/enrollments?program_id="+programID.String()+"&status=ACTIVE", nil)))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	page := testutil.UnmarshalPage[EnrollmentResponse](s.T(), rr)
	s.NotNil(page.Results)
	s.Empty(page.Results)
}

func (s *ProgramsHandlerSuite) TestApproveEnrollment() {
	s.Run("an empty body approves without a reason", func() {
		e := sampleEnrollment()
		e.Status = models.EnrollmentApproved
		s.service.EXPECT().ApproveEnrollment(gomock.Any(), e.ID, "").Return(e, nil)

		rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/enrollments/"+e.ID.String()+"/approve", nil)))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("the reason is trimmed", func() {
		e := sampleEnrollment()
		s.service.EXPECT().ApproveEnrollment(gomock.Any(), e.ID, "committee review").Return(e, nil)

		rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/enrollments/"+e.ID.String()+"/approve",
			map[string]string{"reason": "  committee review "})))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("full program is a validation error", func() {
		enrollmentID := id.NewEnrollmentID()
		s.service.EXPECT().ApproveEnrollment(gomock.Any(), enrollmentID, "").
			Return(nil, dErrors.FieldError("program_id", "program is full"))

		rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/enrollments/"+enrollmentID.String()+"/approve", nil)))
		testutil.AssertFieldError(s.T(), rr, "program_id")
	})

	s.Run("malformed body is a bad request", func() {
		rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewRequestWithBody(s.T(), http.MethodPost, "/enrollments/"+id.NewEnrollmentID().String()+"/approve", "{")))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})
}

func (s *ProgramsHandlerSuite) TestEnrollmentDecisions() {
	s.Run("reject forwards the reason", func() {
		e := sampleEnrollment()
		e.Status = models.EnrollmentRejected
		s.service.EXPECT().RejectEnrollment(gomock.Any(), e.ID, "income above threshold").Return(e, nil)

		rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/enrollments/"+e.ID.String()+"/reject",
			map[string]string{"reason": "income above threshold"})))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[EnrollmentResponse](s.T(), rr)
		s.Equal("REJECTED", resp.Status)
	})

	s.Run("suspend requires a body", func() {
		rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/enrollments/"+id.NewEnrollmentID().String()+"/suspend", nil)))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("complete takes no body", func() {
		e := sampleEnrollment()
		e.Status = models.EnrollmentCompleted
		s.service.EXPECT().CompleteEnrollment(gomock.Any(), e.ID).Return(e, nil)

		rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/enrollments/"+e.ID.String()+"/complete", nil)))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})
}

func (s *ProgramsHandlerSuite) TestCreatePayment() {
	s.Run("amount and schedule are optional", func() {
		p := samplePayment()
		s.service.EXPECT().CreatePayment(gomock.Any(), service.PaymentRequest{EnrollmentID: p.EnrollmentID}).Return(p, nil)

		rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/payments",
			map[string]string{"enrollment_id": p.EnrollmentID.String()})))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[PaymentResponse](s.T(), rr)
		s.Equal(p.Reference, resp.Reference)
		s.Nil(resp.ScheduledFor)
	})

	s.Run("non-positive amount is rejected", func() {
		rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/payments", map[string]any{
			"enrollment_id": id.NewEnrollmentID().String(),
			"amount":        0,
		})))
		testutil.AssertFieldError(s.T(), rr, "amount")
	})
}

func (s *ProgramsHandlerSuite) TestPaymentTransitions() {
	s.Run("complete over budget is a validation error", func() {
		paymentID := id.NewPaymentID()
		s.service.EXPECT().CompletePayment(gomock.Any(), paymentID).
			Return(nil, dErrors.FieldError("amount", "payment exceeds remaining program budget"))

		rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/payments/"+paymentID.String()+"/complete", nil)))
		testutil.AssertFieldError(s.T(), rr, "amount")
	})

	s.Run("fail forwards the reason", func() {
		p := samplePayment()
		p.Status = models.PaymentFailed
		p.FailureReason = "bank rejected transfer"
		s.service.EXPECT().FailPayment(gomock.Any(), p.ID, "bank rejected transfer").Return(p, nil)

		rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodPost, "/payments/"+p.ID.String()+"/fail",
			map[string]string{"reason": "bank rejected transfer"})))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[PaymentResponse](s.T(), rr)
		s.Equal("FAILED", resp.Status)
		s.Equal("bank rejected transfer", resp.FailureReason)
	})

	s.Run("unknown payment maps to 404", func() {
		paymentID := id.NewPaymentID()
		s.service.EXPECT().GetPayment(gomock.Any(), paymentID).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "payment not found"))

		rr := testutil.DoRequest(s.router, testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodGet, "/payments/"+paymentID.String(), nil)))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})
}
