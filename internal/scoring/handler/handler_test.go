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

	"rsu/internal/scoring"
	"rsu/internal/scoring/handler/mocks"
	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
	"rsu/pkg/platform/httputil"
	"rsu/pkg/testutil"
)

type ScoringHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func TestScoringHandlerSuite(t *testing.T) {
	suite.Run(t, new(ScoringHandlerSuite))
}

func (s *ScoringHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.service, logger, nil).Register(s.router)
}

func (s *ScoringHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func sampleAssessment(personID id.PersonID, partial bool) *scoring.Assessment {
	r := scoring.Result{
		Score:      68.5,
		Economic:   80,
		Household:  50,
		Social:     75,
		Tier:       scoring.TierHigh,
		ComputedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	if partial {
		r.Partial = true
		r.MissingComponents = []string{scoring.ComponentHousehold, scoring.ComponentHousing}
	}
	return scoring.NewAssessment(personID, nil, r, id.NewOperatorID())
}

func (s *ScoringHandlerSuite) TestAssess() {
	s.Run("returns the new assessment", func() {
		personID := id.NewPersonID()
		s.service.EXPECT().Assess(gomock.Any(), personID).Return(sampleAssessment(personID, true), nil)

		rr := testutil.DoRequest(s.router, testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/persons/"+personID.String()+"/assessments", nil)))
		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[AssessmentResponse](s.T(), rr)
		s.Equal(68.5, resp.Score)
		s.Equal("HIGH", resp.Tier)
		s.True(resp.Partial)
		s.Len(resp.MissingComponents, 2)
		s.Nil(resp.HouseholdID)
	})

	s.Run("unknown person is 404", func() {
		personID := id.NewPersonID()
		s.service.EXPECT().Assess(gomock.Any(), personID).Return(nil, dErrors.New(dErrors.CodeNotFound, "person not found"))

		rr := testutil.DoRequest(s.router, testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/persons/"+personID.String()+"/assessments", nil)))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})
}

func (s *ScoringHandlerSuite) TestHistory() {
	personID := id.NewPersonID()
	s.service.EXPECT().History(gomock.Any(), personID).
		Return([]*scoring.Assessment{sampleAssessment(personID, false), sampleAssessment(personID, false)}, nil)

	rr := testutil.DoRequest(s.router, testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodGet, "/persons/"+personID.String()+"/assessments", nil)))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[[]AssessmentResponse](s.T(), rr)
	s.Len(*resp, 2)
	s.Equal([]string{}, (*resp)[0].MissingComponents)
}

func (s *ScoringHandlerSuite) TestBatch() {
	s.Run("reports per-item failures with a 200", func() {
		ok := id.NewPersonID()
		missing := id.NewPersonID()
		s.service.EXPECT().AssessBatch(gomock.Any(), []id.PersonID{ok, missing}).
			Return(&scoring.BatchResult{
				Processed: 2,
				Succeeded: 1,
				Failed:    1,
				Results:   []*scoring.Assessment{sampleAssessment(ok, false)},
				Errors:    []scoring.BatchError{{PersonID: missing, Reason: scoring.ReasonNotFound, Message: "person not found"}},
			}, nil)

		req := testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/assessments/batch",
			map[string]any{"person_ids": []string{ok.String(), missing.String()}}))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[BatchResponse](s.T(), rr)
		s.Equal(2, resp.Processed)
		s.Equal(1, resp.Failed)
		s.Require().Len(resp.Errors, 1)
		s.Equal(missing.String(), resp.Errors[0].PersonID)
		s.Equal(scoring.ReasonNotFound, resp.Errors[0].Reason)
	})

	s.Run("rejects malformed ids", func() {
		req := testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/assessments/batch",
			map[string]any{"person_ids": []string{id.NewPersonID().String(), "nope"}}))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertFieldError(s.T(), rr, "person_ids[1]")
	})

	s.Run("rejects an empty batch", func() {
		req := testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/assessments/batch",
			map[string]any{"person_ids": []string{}}))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertFieldError(s.T(), rr, "person_ids")
	})
}

func (s *ScoringHandlerSuite) TestList() {
	s.Run("filters by tier", func() {
		s.service.EXPECT().ListAssessments(gomock.Any(), scoring.AssessmentFilter{Tier: scoring.TierExtreme}, 0, httputil.PageSize).
			Return([]*scoring.Assessment{sampleAssessment(id.NewPersonID(), false)}, 1, nil)

		rr := testutil.DoRequest(s.router, testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodGet, "/assessments?tier=EXTREME", nil)))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		page := testutil.UnmarshalPage[AssessmentResponse](s.T(), rr)
		s.Equal(1, page.Count)
		s.Equal(httputil.PageSize, page.PageSize)
	})

	s.Run("rejects an unknown tier", func() {
		rr := testutil.DoRequest(s.router, testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodGet, "/assessments?tier=SEVERE", nil)))
		testutil.AssertFieldError(s.T(), rr, "tier")
	})
}
