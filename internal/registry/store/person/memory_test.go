package person

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"rsu/internal/registry/models"
	id "rsu/pkg/domain"
	"rsu/pkg/platform/sentinel"
)

type PersonStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func (s *PersonStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
}

func TestPersonStoreSuite(t *testing.T) {
	suite.Run(t, new(PersonStoreSuite))
}

func (s *PersonStoreSuite) newPerson(province string, createdAt time.Time) *models.Person {
	p, err := models.NewPerson(id.NewPersonID(), id.NewRSUID(createdAt), models.PersonDetails{
		FirstName:        "Amina",
		LastName:         "Said",
		BirthDate:        time.Date(1990, 5, 12, 0, 0, 0, 0, time.UTC),
		Gender:           models.GenderFemale,
		Province:         province,
		Zone:             models.ZoneRural,
		EmploymentStatus: models.EmploymentInformal,
		EducationLevel:   models.EducationPrimary,
	}, createdAt, id.NewOperatorID())
	s.Require().NoError(err)
	return p
}

func (s *PersonStoreSuite) TestCreateAndFind() {
	s.Run("finds by id and rsu id", func() {
		p := s.newPerson("Anjouan", s.now)
		s.Require().NoError(s.store.Create(s.ctx, p))

		byID, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(p.RSUID, byID.RSUID)

		byRSU, err := s.store.FindByRSUID(s.ctx, p.RSUID)
		s.Require().NoError(err)
		s.Equal(p.ID, byRSU.ID)
	})

	s.Run("rejects a duplicate rsu id", func() {
		p := s.newPerson("Anjouan", s.now)
		s.Require().NoError(s.store.Create(s.ctx, p))

		dup := s.newPerson("Anjouan", s.now)
		dup.RSUID = p.RSUID
		err := s.store.Create(s.ctx, dup)
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("returned records are copies", func() {
		p := s.newPerson("Anjouan", s.now)
		s.Require().NoError(s.store.Create(s.ctx, p))

		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		found.FirstName = "Changed"

		again, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal("Amina", again.FirstName)
	})
}

func (s *PersonStoreSuite) TestSoftDeletedIsInvisible() {
	p := s.newPerson("Anjouan", s.now)
	s.Require().NoError(s.store.Create(s.ctx, p))

	_, err := s.store.Execute(s.ctx, p.ID,
		func(*models.Person) error { return nil },
		func(p *models.Person) { p.MarkDeleted(s.now, id.NewOperatorID()) },
	)
	s.Require().NoError(err)

	_, err = s.store.FindByID(s.ctx, p.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.FindByRSUID(s.ctx, p.RSUID)
	s.ErrorIs(err, sentinel.ErrNotFound)

	list, total, err := s.store.List(s.ctx, models.PersonFilter{}, 0, 20)
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(list)

	found, err := s.store.FindMany(s.ctx, []id.PersonID{p.ID})
	s.Require().NoError(err)
	s.Empty(found)
}

func (s *PersonStoreSuite) TestListFiltersAndPages() {
	for i := 0; i < 25; i++ {
		s.Require().NoError(s.store.Create(s.ctx, s.newPerson("Anjouan", s.now.Add(time.Duration(i)*time.Minute))))
	}
	s.Require().NoError(s.store.Create(s.ctx, s.newPerson("Mohéli", s.now)))

	page1, total, err := s.store.List(s.ctx, models.PersonFilter{Province: " anjouan "}, 0, 20)
	s.Require().NoError(err)
	s.Equal(25, total)
	s.Len(page1, 20)
	s.True(page1[0].CreatedAt.After(page1[1].CreatedAt), "newest first")

	page2, _, err := s.store.List(s.ctx, models.PersonFilter{Province: "Anjouan"}, 20, 20)
	s.Require().NoError(err)
	s.Len(page2, 5)

	beyond, total, err := s.store.List(s.ctx, models.PersonFilter{}, 40, 20)
	s.Require().NoError(err)
	s.Equal(26, total)
	s.Empty(beyond)

	males, total, err := s.store.List(s.ctx, models.PersonFilter{Gender: models.GenderMale}, 0, 20)
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(males)
}

func (s *PersonStoreSuite) TestHouseholdMembership() {
	householdID := id.NewHouseholdID()
	member := s.newPerson("Anjouan", s.now)
	member.HouseholdID = &householdID
	other := s.newPerson("Anjouan", s.now)
	s.Require().NoError(s.store.Create(s.ctx, member))
	s.Require().NoError(s.store.Create(s.ctx, other))

	members, err := s.store.ListByHousehold(s.ctx, householdID)
	s.Require().NoError(err)
	s.Require().Len(members, 1)
	s.Equal(member.ID, members[0].ID)

	filtered, total, err := s.store.List(s.ctx, models.PersonFilter{HouseholdID: &householdID}, 0, 20)
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Equal(member.ID, filtered[0].ID)
}

func (s *PersonStoreSuite) TestExecute() {
	p := s.newPerson("Anjouan", s.now)
	s.Require().NoError(s.store.Create(s.ctx, p))

	s.Run("validation failure leaves the record unchanged", func() {
		errBlocked := errors.New("blocked")
		_, err := s.store.Execute(s.ctx, p.ID,
			func(*models.Person) error { return errBlocked },
			func(p *models.Person) { p.FirstName = "Never" },
		)
		s.ErrorIs(err, errBlocked)

		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal("Amina", found.FirstName)
	})

	s.Run("mutation is persisted", func() {
		updated, err := s.store.Execute(s.ctx, p.ID,
			func(p *models.Person) error { return p.CanVerifyIdentity() },
			func(p *models.Person) { p.IdentityVerified = true },
		)
		s.Require().Error(err, "no national id on file")
		s.Nil(updated)

		updated, err = s.store.Execute(s.ctx, p.ID,
			func(*models.Person) error { return nil },
			func(p *models.Person) { p.Phone = "+269 333 00 00" },
		)
		s.Require().NoError(err)
		s.Equal("+269 333 00 00", updated.Phone)
	})

	s.Run("unknown person", func() {
		_, err := s.store.Execute(s.ctx, id.NewPersonID(),
			func(*models.Person) error { return nil },
			func(*models.Person) {},
		)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}
