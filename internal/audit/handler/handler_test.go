package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	id "rsu/pkg/domain"
	audit "rsu/pkg/platform/audit"
	"rsu/pkg/platform/audit/publisher"
	auditmemory "rsu/pkg/platform/audit/store/memory"
	"rsu/pkg/requestcontext"
	"rsu/pkg/testutil"
)

type AuditHandlerSuite struct {
	suite.Suite
	publisher *publisher.Publisher
	router    chi.Router
	programID id.ProgramID
	operator  id.OperatorID
}

func TestAuditHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuditHandlerSuite))
}

func (s *AuditHandlerSuite) SetupTest() {
	s.publisher = publisher.New(auditmemory.NewInMemoryStore())
	s.router = chi.NewRouter()
	New(s.publisher, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)

	s.programID = id.NewProgramID()
	s.operator = id.NewOperatorID()
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithOperator(context.Background(), s.operator, requestcontext.RoleAdmin)

	emit := func(at time.Time, target audit.Target, action audit.Action) {
		s.Require().NoError(s.publisher.Emit(requestcontext.WithTime(ctx, at), target, action, map[string]string{"source": "test"}))
	}
	emit(base, audit.Program(s.programID), audit.ActionProgramCreated)
	emit(base.Add(time.Minute), audit.Program(s.programID), audit.ActionProgramActivated)
	emit(base.Add(2*time.Minute), audit.Person(id.NewPersonID()), audit.ActionPersonCreated)
}

func (s *AuditHandlerSuite) TestListAll() {
	rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodGet, "/audit", nil)))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	page := testutil.UnmarshalPage[EntryResponse](s.T(), rr)
	s.Equal(3, page.Count)
	s.Require().Len(page.Results, 3)
	s.Equal("person_created", page.Results[0].Action, "newest first")
	s.Equal(s.operator.String(), page.Results[0].ActorID)
}

func (s *AuditHandlerSuite) TestFilterByEntity() {
	path := "/audit?kind=PROGRAM&entity_id=" + s.programID.String()
	rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodGet, path, nil)))
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	page := testutil.UnmarshalPage[EntryResponse](s.T(), rr)
	s.Equal(2, page.Count)
	for _, e := range page.Results {
		s.Equal("program", e.Kind)
		s.Equal(s.programID.String(), e.EntityID)
	}
	s.Equal("program_activated", page.Results[0].Action)
}

func (s *AuditHandlerSuite) TestUnknownKind() {
	rr := testutil.DoRequest(s.router, testutil.AsAdmin(testutil.NewJSONRequest(s.T(), http.MethodGet, "/audit?kind=vault", nil)))
	testutil.AssertFieldError(s.T(), rr, "kind")
}
