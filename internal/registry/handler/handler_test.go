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

	"rsu/internal/registry/handler/mocks"
	"rsu/internal/registry/models"
	id "rsu/pkg/domain"
	dErrors "rsu/pkg/domain-errors"
	"rsu/pkg/platform/httputil"
	"rsu/pkg/testutil"
)

type RegistryHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
}

func TestRegistryHandlerSuite(t *testing.T) {
	suite.Run(t, new(RegistryHandlerSuite))
}

func (s *RegistryHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.router = chi.NewRouter()
	New(s.service, logger, nil).Register(s.router)
}

func (s *RegistryHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func samplePerson() *models.Person {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	return &models.Person{
		ID:               id.NewPersonID(),
		RSUID:            id.NewRSUID(at),
		FirstName:        "Amina",
		LastName:         "Said",
		BirthDate:        time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC),
		Gender:           models.GenderFemale,
		Province:         "Anjouan",
		Zone:             models.ZoneRural,
		EmploymentStatus: models.EmploymentInformal,
		EducationLevel:   models.EducationPrimary,
		Entity:           models.Entity{CreatedAt: at, UpdatedAt: at},
	}
}

func (s *RegistryHandlerSuite) TestCreatePerson() {
	s.Run("parses the body and returns 201", func() {
		p := samplePerson()
		s.service.EXPECT().CreatePerson(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, d models.PersonDetails) (*models.Person, error) {
				s.Equal(models.GenderFemale, d.Gender)
				s.Equal(models.ZoneRural, d.Zone)
				s.Equal(1990, d.BirthDate.Year())
				return p, nil
			})

		req := testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/persons", map[string]any{
			"first_name":        "Amina",
			"last_name":         "Said",
			"birth_date":        "1990-05-12",
			"gender":            "f",
			"province":          "Anjouan",
			"zone":              "rural",
			"employment_status": "informal",
			"education_level":   "primary",
		}))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[PersonResponse](s.T(), rr)
		s.Equal(p.RSUID.String(), resp.RSUID)
		s.Equal("1990-05-12", resp.BirthDate)
	})

	s.Run("rejects bad enums before calling the service", func() {
		req := testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/persons", map[string]any{
			"first_name": "Amina",
			"last_name":  "Said",
			"birth_date": "12/05/1990",
			"gender":     "X",
			"zone":       "suburb",
		}))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertFieldError(s.T(), rr, "gender")
		resp := testutil.UnmarshalErrorResponse(s.T(), rr)
		s.Contains(resp.Fields, "birth_date")
		s.Contains(resp.Fields, "zone")
	})

	s.Run("malformed json is a bad request", func() {
		req := testutil.AsAgent(testutil.NewRequestWithBody(s.T(), http.MethodPost, "/persons", "{"))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})
}

func (s *RegistryHandlerSuite) TestGetPerson() {
	s.Run("invalid id", func() {
		rr := testutil.DoRequest(s.router, testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodGet, "/persons/not-a-uuid", nil)))
		testutil.AssertStatus(s.T(), rr, http.StatusBadRequest)
	})

	s.Run("not found maps to 404", func() {
		personID := id.NewPersonID()
		s.service.EXPECT().GetPerson(gomock.Any(), personID).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "person not found"))

		rr := testutil.DoRequest(s.router, testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodGet, "/persons/"+personID.String(), nil)))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, string(dErrors.CodeNotFound))
	})

	s.Run("by rsu id normalizes case", func() {
		p := samplePerson()
		s.service.EXPECT().GetPersonByRSUID(gomock.Any(), p.RSUID).Return(p, nil)

		path := "/persons/by-rsu/" + "rsu-" + p.RSUID.String()[4:]
		rr := testutil.DoRequest(s.router, testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodGet, path, nil)))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})
}

func (s *RegistryHandlerSuite) TestListPersons() {
	s.Run("passes filters and fixed page size", func() {
		s.service.EXPECT().ListPersons(gomock.Any(), models.PersonFilter{Province: "Anjouan", Gender: models.GenderFemale}, 20, httputil.PageSize).
			Return([]*models.Person{samplePerson()}, 21, nil)

		rr := testutil.DoRequest(s.router, testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodGet, "/persons?province=Anjouan&gender=F&page=2", nil)))
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		page := testutil.UnmarshalPage[PersonResponse](s.T(), rr)
		s.Equal(21, page.Count)
		s.Equal(2, page.Page)
		s.Equal(20, page.PageSize)
		s.Len(page.Results, 1)
	})

	s.Run("rejects an invalid page", func() {
		rr := testutil.DoRequest(s.router, testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodGet, "/persons?page=0", nil)))
		testutil.AssertFieldError(s.T(), rr, "page")
	})
}

func (s *RegistryHandlerSuite) TestDeletePerson() {
	personID := id.NewPersonID()
	s.service.EXPECT().DeletePerson(gomock.Any(), personID).Return(nil)

	rr := testutil.DoRequest(s.router, testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodDelete, "/persons/"+personID.String(), nil)))
	testutil.AssertStatus(s.T(), rr, http.StatusNoContent)
}

func (s *RegistryHandlerSuite) TestSetHead() {
	s.Run("surfaces the membership invariant as a field error", func() {
		householdID := id.NewHouseholdID()
		personID := id.NewPersonID()
		s.service.EXPECT().SetHead(gomock.Any(), householdID, personID).
			Return(nil, dErrors.FieldError("person_id", "head of household must be a member of the household"))

		req := testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/households/"+householdID.String()+"/head",
			map[string]string{"person_id": personID.String()}))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertFieldError(s.T(), rr, "person_id")
	})

	s.Run("requires person_id", func() {
		req := testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/households/"+id.NewHouseholdID().String()+"/head",
			map[string]string{}))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertFieldError(s.T(), rr, "person_id")
	})
}

func (s *RegistryHandlerSuite) TestCreateHousehold() {
	s.service.EXPECT().CreateHousehold(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, d models.HouseholdDetails) (*models.Household, error) {
			return &models.Household{ID: id.NewHouseholdID(), Province: d.Province, Zone: d.Zone, Size: d.Size, MembersUnder15: d.MembersUnder15, Housing: d.Housing}, nil
		})

	req := testutil.AsAgent(testutil.NewJSONRequest(s.T(), http.MethodPost, "/households", map[string]any{
		"province":        "Anjouan",
		"zone":            "remote",
		"size":            4,
		"members_under15": 2,
		"housing":         "makeshift",
	}))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	resp := testutil.UnmarshalResponse[HouseholdResponse](s.T(), rr)
	s.InDelta(0.5, resp.DependencyRatio, 1e-9)
	s.Nil(resp.HeadID)
}
