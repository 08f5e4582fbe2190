package handler

import (
	"time"

	"rsu/internal/registry/models"
)

type PersonResponse struct {
	ID               string    `json:"id"`
	RSUID            string    `json:"rsu_id"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	BirthDate        string    `json:"birth_date"`
	Age              int       `json:"age"`
	Gender           string    `json:"gender"`
	Province         string    `json:"province"`
	Zone             string    `json:"zone"`
	Phone            string    `json:"phone,omitempty"`
	NationalIDNumber string    `json:"national_id_number,omitempty"`
	IdentityVerified bool      `json:"identity_verified"`
	MonthlyIncome    int64     `json:"monthly_income"`
	EmploymentStatus string    `json:"employment_status"`
	HasBankAccount   bool      `json:"has_bank_account"`
	HasDisability    bool      `json:"has_disability"`
	IsPregnant       bool      `json:"is_pregnant"`
	EducationLevel   string    `json:"education_level"`
	HouseholdID      *string   `json:"household_id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func FromPerson(p *models.Person, now time.Time) PersonResponse {
	resp := PersonResponse{
		ID:               p.ID.String(),
		RSUID:            p.RSUID.String(),
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		BirthDate:        p.BirthDate.Format(dateLayout),
		Age:              p.Age(now),
		Gender:           string(p.Gender),
		Province:         p.Province,
		Zone:             string(p.Zone),
		Phone:            p.Phone,
		NationalIDNumber: p.NationalIDNumber,
		IdentityVerified: p.IdentityVerified,
		MonthlyIncome:    p.MonthlyIncome,
		EmploymentStatus: string(p.EmploymentStatus),
		HasBankAccount:   p.HasBankAccount,
		HasDisability:    p.HasDisability,
		IsPregnant:       p.IsPregnant,
		EducationLevel:   string(p.EducationLevel),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	if p.HouseholdID != nil {
		hid := p.HouseholdID.String()
		resp.HouseholdID = &hid
	}
	return resp
}

func FromPersons(persons []*models.Person, now time.Time) []PersonResponse {
	out := make([]PersonResponse, 0, len(persons))
	for _, p := range persons {
		out = append(out, FromPerson(p, now))
	}
	return out
}

type HouseholdResponse struct {
	ID              string    `json:"id"`
	HeadID          *string   `json:"head_id"`
	Province        string    `json:"province"`
	Zone            string    `json:"zone"`
	Size            int       `json:"size"`
	MembersUnder5   int       `json:"members_under5"`
	MembersUnder15  int       `json:"members_under15"`
	MembersOver64   int       `json:"members_over64"`
	DisabledMembers int       `json:"disabled_members"`
	PregnantMembers int       `json:"pregnant_members"`
	DependencyRatio float64   `json:"dependency_ratio"`
	MonthlyIncome   int64     `json:"monthly_income"`
	Housing         string    `json:"housing"`
	HasWater        bool      `json:"has_water"`
	HasElectricity  bool      `json:"has_electricity"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func FromHousehold(h *models.Household) HouseholdResponse {
	resp := HouseholdResponse{
		ID:              h.ID.String(),
		Province:        h.Province,
		Zone:            string(h.Zone),
		Size:            h.Size,
		MembersUnder5:   h.MembersUnder5,
		MembersUnder15:  h.MembersUnder15,
		MembersOver64:   h.MembersOver64,
		DisabledMembers: h.DisabledMembers,
		PregnantMembers: h.PregnantMembers,
		DependencyRatio: h.DependencyRatio(),
		MonthlyIncome:   h.MonthlyIncome,
		Housing:         string(h.Housing),
		HasWater:        h.HasWater,
		HasElectricity:  h.HasElectricity,
		CreatedAt:       h.CreatedAt,
		UpdatedAt:       h.UpdatedAt,
	}
	if h.HeadID != nil {
		head := h.HeadID.String()
		resp.HeadID = &head
	}
	return resp
}

func FromHouseholds(households []*models.Household) []HouseholdResponse {
	out := make([]HouseholdResponse, 0, len(households))
	for _, h := range households {
		out = append(out, FromHousehold(h))
	}
	return out
}
