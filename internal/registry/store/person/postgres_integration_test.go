//go:build integration

package person_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rsu/internal/registry/models"
	"rsu/internal/registry/store/person"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
	"rsu/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *person.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = person.NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "assessments", "persons", "households"))
}

func newTestPerson(s *PostgresStoreSuite, province string) *models.Person {
	now := time.Now().UTC().Truncate(time.Microsecond)
	p, err := models.NewPerson(id.NewPersonID(), id.NewRSUID(now), models.PersonDetails{
		FirstName:        "Amina",
		LastName:         "Said",
		BirthDate:        time.Date(1988, 3, 14, 0, 0, 0, 0, time.UTC),
		Gender:           models.GenderFemale,
		Province:         province,
		Zone:             models.ZoneRural,
		EmploymentStatus: models.EmploymentInformal,
		EducationLevel:   models.EducationPrimary,
		MonthlyIncome:    45_000,
	}, now, id.NewOperatorID())
	s.Require().NoError(err)
	return p
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	ctx := context.Background()
	p := newTestPerson(s, "Anjouan")
	s.Require().NoError(s.store.Create(ctx, p))

	byID, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p.RSUID, byID.RSUID)
	s.Equal("Anjouan", byID.Province)
	s.Equal(int64(45_000), byID.MonthlyIncome)

	byRSUID, err := s.store.FindByRSUID(ctx, p.RSUID)
	s.Require().NoError(err)
	s.Equal(p.ID, byRSUID.ID)

	_, err = s.store.FindByID(ctx, id.NewPersonID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestDuplicateRSUID() {
	ctx := context.Background()
	first := newTestPerson(s, "Anjouan")
	s.Require().NoError(s.store.Create(ctx, first))

	second := newTestPerson(s, "Mohéli")
	second.RSUID = first.RSUID
	err := s.store.Create(ctx, second)
	s.ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *PostgresStoreSuite) TestExecuteRejectsWithoutWriting() {
	ctx := context.Background()
	p := newTestPerson(s, "Anjouan")
	s.Require().NoError(s.store.Create(ctx, p))

	rejected := errors.New("rejected")
	_, err := s.store.Execute(ctx, p.ID,
		func(*models.Person) error { return rejected },
		func(p *models.Person) { p.Province = "Mohéli" },
	)
	s.ErrorIs(err, rejected)

	got, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Anjouan", got.Province)
}

func (s *PostgresStoreSuite) TestConcurrentExecuteSerializes() {
	ctx := context.Background()
	p := newTestPerson(s, "Anjouan")
	s.Require().NoError(s.store.Create(ctx, p))

	const writers = 10
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(ctx, p.ID,
				func(*models.Person) error { return nil },
				func(p *models.Person) { p.MonthlyIncome += 1_000 },
			)
			s.NoError(err)
		}()
	}
	wg.Wait()

	got, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(int64(45_000+writers*1_000), got.MonthlyIncome)
}

func (s *PostgresStoreSuite) TestAllSkipsDeleted() {
	ctx := context.Background()
	kept := newTestPerson(s, "Anjouan")
	gone := newTestPerson(s, "Mohéli")
	s.Require().NoError(s.store.Create(ctx, kept))
	s.Require().NoError(s.store.Create(ctx, gone))

	_, err := s.store.Execute(ctx, gone.ID,
		func(*models.Person) error { return nil },
		func(p *models.Person) {
			now := time.Now().UTC()
			p.DeletedAt = &now
		},
	)
	s.Require().NoError(err)

	all, err := s.store.All(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 1)
	s.Equal(kept.ID, all[0].ID)
}
