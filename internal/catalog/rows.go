package catalog

import (
	"time"

	"gorm.io/datatypes"

	"github.com/vijay-prabhu/jobmatch/internal/model"
)

// itemRow is the persisted form of a job or team posting
type itemRow struct {
	ID              string `gorm:"primaryKey"`
	Kind            string `gorm:"index"`
	Title           string
	Description     string
	Location        string
	SalaryMin       int
	SalaryMax       int
	SalaryText      string
	WorkType        string
	Industry        string
	RequiredSkills  datatypes.JSONSlice[string]
	PreferredSkills datatypes.JSONSlice[string]
	Experience      string
	SourceID        string `gorm:"index"`
	Culture         datatypes.JSONSlice[string]
	Benefits        datatypes.JSONSlice[string]
	Personality     datatypes.JSONSlice[string]
	PostedAt        time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (itemRow) TableName() string { return "items" }

// profileRow is the persisted form of a user profile
type profileRow struct {
	UserID          string `gorm:"primaryKey"`
	DesiredJob      string
	Skills          datatypes.JSONSlice[model.Skill]
	Industries      datatypes.JSONSlice[string]
	Locations       datatypes.JSONSlice[string]
	SalaryMin       int
	SalaryMax       int
	WorkTypes       datatypes.JSONSlice[string]
	CareerType      string
	YearsExperience int
	CulturePrefs    datatypes.JSONSlice[string]
	Personality     datatypes.JSONSlice[string]
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (profileRow) TableName() string { return "profiles" }

func toItemRow(it model.Item) itemRow {
	return itemRow{
		ID:              it.ID,
		Kind:            string(it.Kind),
		Title:           it.Title,
		Description:     it.Description,
		Location:        it.Location,
		SalaryMin:       it.SalaryMin,
		SalaryMax:       it.SalaryMax,
		SalaryText:      it.SalaryText,
		WorkType:        it.WorkType,
		Industry:        it.Industry,
		RequiredSkills:  datatypes.JSONSlice[string](it.RequiredSkills),
		PreferredSkills: datatypes.JSONSlice[string](it.PreferredSkills),
		Experience:      it.Experience,
		SourceID:        it.SourceID,
		Culture:         datatypes.JSONSlice[string](it.Culture),
		Benefits:        datatypes.JSONSlice[string](it.Benefits),
		Personality:     datatypes.JSONSlice[string](it.Personality),
		PostedAt:        it.CreatedAt,
	}
}

func (r itemRow) item() model.Item {
	return model.Item{
		ID:              r.ID,
		Kind:            model.Kind(r.Kind),
		Title:           r.Title,
		Description:     r.Description,
		Location:        r.Location,
		SalaryMin:       r.SalaryMin,
		SalaryMax:       r.SalaryMax,
		SalaryText:      r.SalaryText,
		WorkType:        r.WorkType,
		Industry:        r.Industry,
		RequiredSkills:  []string(r.RequiredSkills),
		PreferredSkills: []string(r.PreferredSkills),
		Experience:      r.Experience,
		SourceID:        r.SourceID,
		Culture:         []string(r.Culture),
		Benefits:        []string(r.Benefits),
		Personality:     []string(r.Personality),
		CreatedAt:       r.PostedAt,
	}
}

func toProfileRow(p model.Profile) profileRow {
	return profileRow{
		UserID:          p.UserID,
		DesiredJob:      p.DesiredJob,
		Skills:          datatypes.JSONSlice[model.Skill](p.Skills),
		Industries:      datatypes.JSONSlice[string](p.Industries),
		Locations:       datatypes.JSONSlice[string](p.Locations),
		SalaryMin:       p.SalaryMin,
		SalaryMax:       p.SalaryMax,
		WorkTypes:       datatypes.JSONSlice[string](p.WorkTypes),
		CareerType:      string(p.CareerType),
		YearsExperience: p.YearsExperience,
		CulturePrefs:    datatypes.JSONSlice[string](p.CulturePrefs),
		Personality:     datatypes.JSONSlice[string](p.Personality),
	}
}

func (r profileRow) profile() model.Profile {
	return model.Profile{
		UserID:          r.UserID,
		DesiredJob:      r.DesiredJob,
		Skills:          []model.Skill(r.Skills),
		Industries:      []string(r.Industries),
		Locations:       []string(r.Locations),
		SalaryMin:       r.SalaryMin,
		SalaryMax:       r.SalaryMax,
		WorkTypes:       []string(r.WorkTypes),
		CareerType:      model.CareerType(r.CareerType),
		YearsExperience: r.YearsExperience,
		CulturePrefs:    []string(r.CulturePrefs),
		Personality:     []string(r.Personality),
	}
}
