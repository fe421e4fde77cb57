package model

import "time"

// Kind distinguishes job listings from team recruitment postings
type Kind string

const (
	KindJob  Kind = "job"
	KindTeam Kind = "team"
)

// Proficiency is a self-reported skill level
type Proficiency string

const (
	LevelBeginner     Proficiency = "beginner"
	LevelIntermediate Proficiency = "intermediate"
	LevelAdvanced     Proficiency = "advanced"
)

// Multiplier returns the weight a skill at this level carries in skill matching
func (p Proficiency) Multiplier() float64 {
	switch p {
	case LevelAdvanced:
		return 1.5
	case LevelIntermediate:
		return 1.2
	default:
		return 1.0
	}
}

// CareerType separates first-time job seekers from experienced candidates
type CareerType string

const (
	CareerNewcomer    CareerType = "newcomer"
	CareerExperienced CareerType = "experienced"
)

// Item represents a job listing or a team posting
type Item struct {
	ID              string    `json:"id" yaml:"id"`
	Kind            Kind      `json:"kind" yaml:"kind"`
	Title           string    `json:"title" yaml:"title"`
	Description     string    `json:"description,omitempty" yaml:"description"`
	Location        string    `json:"location,omitempty" yaml:"location"`
	SalaryMin       int       `json:"salary_min,omitempty" yaml:"salary_min"`
	SalaryMax       int       `json:"salary_max,omitempty" yaml:"salary_max"`
	SalaryText      string    `json:"salary_text,omitempty" yaml:"salary_text"`
	WorkType        string    `json:"work_type,omitempty" yaml:"work_type"`
	Industry        string    `json:"industry,omitempty" yaml:"industry"`
	RequiredSkills  []string  `json:"required_skills,omitempty" yaml:"required_skills"`
	PreferredSkills []string  `json:"preferred_skills,omitempty" yaml:"preferred_skills"`
	Experience      string    `json:"experience,omitempty" yaml:"experience"`
	SourceID        string    `json:"source_id,omitempty" yaml:"source_id"`
	Culture         []string  `json:"culture,omitempty" yaml:"culture"`
	Benefits        []string  `json:"benefits,omitempty" yaml:"benefits"`
	Personality     []string  `json:"personality,omitempty" yaml:"personality"`
	CreatedAt       time.Time `json:"created_at" yaml:"created_at"`
}

// Skills returns required and preferred skills together
func (i *Item) Skills() []string {
	out := make([]string, 0, len(i.RequiredSkills)+len(i.PreferredSkills))
	out = append(out, i.RequiredSkills...)
	return append(out, i.PreferredSkills...)
}

// Source returns the diversification key, falling back to the item ID
func (i *Item) Source() string {
	if i.SourceID != "" {
		return i.SourceID
	}
	return i.ID
}

// Skill is a profile skill with its proficiency
type Skill struct {
	Name  string      `json:"name" yaml:"name"`
	Level Proficiency `json:"level,omitempty" yaml:"level"`
}

// Profile holds the user preferences read by the scorers
type Profile struct {
	UserID          string     `json:"user_id" yaml:"user_id"`
	DesiredJob      string     `json:"desired_job,omitempty" yaml:"desired_job"`
	Skills          []Skill    `json:"skills,omitempty" yaml:"skills"`
	Industries      []string   `json:"industries,omitempty" yaml:"industries"`
	Locations       []string   `json:"locations,omitempty" yaml:"locations"`
	SalaryMin       int        `json:"salary_min,omitempty" yaml:"salary_min"`
	SalaryMax       int        `json:"salary_max,omitempty" yaml:"salary_max"`
	WorkTypes       []string   `json:"work_types,omitempty" yaml:"work_types"`
	CareerType      CareerType `json:"career_type,omitempty" yaml:"career_type"`
	YearsExperience int        `json:"years_experience,omitempty" yaml:"years_experience"`
	CulturePrefs    []string   `json:"culture_prefs,omitempty" yaml:"culture_prefs"`
	Personality     []string   `json:"personality,omitempty" yaml:"personality"`
}

// Years returns the experience used for tier matching. Newcomers count as zero.
func (p *Profile) Years() int {
	if p.CareerType == CareerNewcomer || p.YearsExperience < 0 {
		return 0
	}
	return p.YearsExperience
}

// SkillNames returns the profile skill names
func (p *Profile) SkillNames() []string {
	names := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		names = append(names, s.Name)
	}
	return names
}
