package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"rsu/internal/eligibility"
	"rsu/internal/eligibility/handler/mocks"
	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
	"rsu/pkg/testutil"
)

type EligibilityHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func TestEligibilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(EligibilityHandlerSuite))
}

func (s *EligibilityHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *EligibilityHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *EligibilityHandlerSuite) TestCheck() {
	s.Run("returns score and eligibility flag", func() {
		programID := id.NewProgramID()
		personID := id.NewPersonID()
		minAge := 18
		result := eligibility.Match(eligibility.Profile{Age: 30}, eligibility.Criteria{MinAge: &minAge})
		s.service.EXPECT().Check(gomock.Any(), programID, personID).
			Return(&eligibility.Check{ProgramID: programID, PersonID: personID, Result: result}, nil)

		req := testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/programs/"+programID.String()+"/eligibility",
			map[string]string{"person_id": personID.String()}))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[CheckResponse](s.T(), rr)
		s.Equal(100.0, resp.Score)
		s.True(resp.Eligible)
		s.Equal(eligibility.Threshold, resp.Threshold)
		s.Len(resp.Criteria, 5)
	})

	s.Run("requires person_id", func() {
		req := testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/programs/"+id.NewProgramID().String()+"/eligibility",
			map[string]string{}))
		testutil.AssertFieldError(s.T(), testutil.DoRequest(s.router, req), "person_id")
	})

	s.Run("unknown program", func() {
		programID := id.NewProgramID()
		personID := id.NewPersonID()
		s.service.EXPECT().Check(gomock.Any(), programID, personID).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "program not found"))

		req := testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/programs/"+programID.String()+"/eligibility",
			map[string]string{"person_id": personID.String()}))
		testutil.AssertStatusAndError(s.T(), testutil.DoRequest(s.router, req), http.StatusNotFound, string(dErrors.CodeNotFound))
	})
}

func (s *EligibilityHandlerSuite) TestBulk() {
	programID := id.NewProgramID()
	found := id.NewPersonID()
	missing := id.NewPersonID()
	s.service.EXPECT().CheckBulk(gomock.Any(), programID, []id.PersonID{found, missing}).
		Return(&eligibility.BulkResult{
			ProgramID: programID,
			Checked:   1,
			Eligible:  0,
			Checks:    []eligibility.Check{{ProgramID: programID, PersonID: found, Result: eligibility.Result{Score: 40}}},
			Missing:   []id.PersonID{missing},
		}, nil)

	req := testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/programs/"+programID.String()+"/eligibility/bulk",
		map[string]any{"person_ids": []string{found.String(), missing.String()}}))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[BulkResponse](s.T(), rr)
	s.Equal(1, resp.Checked)
	s.Equal([]string{missing.String()}, resp.Missing)
	s.Require().Len(resp.Results, 1)
	s.False(resp.Results[0].Eligible)
}
