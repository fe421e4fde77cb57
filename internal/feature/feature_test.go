package feature

import (
	"math"
	"testing"

	"github.com/vijay-prabhu/jobmatch/internal/model"
)

func TestIndustry(t *testing.T) {
	tests := []struct {
		name     string
		industry string
		prefs    []string
		expected float64
	}{
		{"exact match", "IT/소프트웨어", []string{"it/소프트웨어"}, 30},
		{"partial keywords", "게임 개발", []string{"게임 서비스"}, 15},
		{"no overlap", "금융", []string{"IT/소프트웨어"}, 0},
		{"missing item industry", "", []string{"IT"}, 0},
		{"missing preferences", "IT", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &model.Item{Industry: tt.industry}
			p := &model.Profile{Industries: tt.prefs}
			got := Industry(item, p, 30)
			if got.Score != tt.expected {
				t.Errorf("Industry() = %v, want %v", got.Score, tt.expected)
			}
		})
	}
}

func TestSkills(t *testing.T) {
	t.Run("one of two matched", func(t *testing.T) {
		item := &model.Item{RequiredSkills: []string{"React", "Node.js"}}
		p := &model.Profile{Skills: []model.Skill{{Name: "React"}, {Name: "TypeScript"}}}

		got := Skills(item, p, 25)
		if got.Score != 12.5 {
			t.Errorf("Score = %v, want 12.5", got.Score)
		}
		if len(got.Matched) != 1 || got.Matched[0] != "React" {
			t.Errorf("Matched = %v, want [React]", got.Matched)
		}
		if len(got.Missing) != 1 || got.Missing[0] != "Node.js" {
			t.Errorf("Missing = %v, want [Node.js]", got.Missing)
		}
	})

	t.Run("proficiency scales contribution", func(t *testing.T) {
		item := &model.Item{RequiredSkills: []string{"Go"}}
		p := &model.Profile{Skills: []model.Skill{
			{Name: "Go", Level: model.LevelAdvanced},
			{Name: "Java", Level: model.LevelBeginner},
		}}

		got := Skills(item, p, 25)
		want := 1.5 / 2.5 * 25
		if math.Abs(got.Score-want) > 1e-9 {
			t.Errorf("Score = %v, want %v", got.Score, want)
		}
	})

	t.Run("substring either direction", func(t *testing.T) {
		item := &model.Item{RequiredSkills: []string{"react native"}}
		p := &model.Profile{Skills: []model.Skill{{Name: "React"}}}

		if got := Skills(item, p, 25); got.Score != 25 {
			t.Errorf("Score = %v, want 25", got.Score)
		}
	})

	t.Run("no item requirement", func(t *testing.T) {
		p := &model.Profile{Skills: []model.Skill{{Name: "Go"}}}
		if got := Skills(&model.Item{}, p, 25); got.Score != 25 {
			t.Errorf("Score = %v, want 25", got.Score)
		}
	})

	t.Run("no profile skills", func(t *testing.T) {
		item := &model.Item{RequiredSkills: []string{"Go"}}
		got := Skills(item, &model.Profile{}, 25)
		if got.Score != 0 {
			t.Errorf("Score = %v, want 0", got.Score)
		}
		if len(got.Missing) != 1 {
			t.Errorf("Missing = %v, want [Go]", got.Missing)
		}
	})
}

func TestLocation(t *testing.T) {
	tests := []struct {
		location string
		prefs    []string
		expected float64
	}{
		{"서울 강남구", []string{"서울"}, 15},
		{"서울", []string{"서울 강남구"}, 15},
		{"경기 성남시 분당구", []string{"성남시 판교"}, 7.5},
		{"부산", []string{"서울"}, 0},
		{"", []string{"서울"}, 0},
	}

	for _, tt := range tests {
		item := &model.Item{Location: tt.location}
		p := &model.Profile{Locations: tt.prefs}
		if got := Location(item, p, 15); got.Score != tt.expected {
			t.Errorf("Location(%q, %v) = %v, want %v", tt.location, tt.prefs, got.Score, tt.expected)
		}
	}
}

func TestParseSalaryText(t *testing.T) {
	tests := []struct {
		text   string
		want   float64
		wantOK bool
	}{
		{"3500~4500", 4000, true},
		{"3,000 - 5,000만원", 4000, true},
		{"연봉 4200만원", 4200, true},
		{"회사내규에 따름", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseSalaryText(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseSalaryText(%q) = (%v, %v), want (%v, %v)", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestSalary(t *testing.T) {
	p := &model.Profile{SalaryMin: 3000, SalaryMax: 5000}

	tests := []struct {
		name     string
		item     model.Item
		expected float64
	}{
		{"inside range from text", model.Item{SalaryText: "3500~4500"}, 15},
		{"inside range from bounds", model.Item{SalaryMin: 3000, SalaryMax: 4000}, 15},
		// midpoint 4000, 1000 below the minimum
		{"below range decays", model.Item{SalaryMin: 2000}, 15 * 0.75},
		{"far above range floors at zero", model.Item{SalaryMin: 20000}, 0},
		{"unparseable text", model.Item{SalaryText: "협의"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Salary(&tt.item, p, 15); math.Abs(got.Score-tt.expected) > 1e-9 {
				t.Errorf("Salary() = %v, want %v", got.Score, tt.expected)
			}
		})
	}

	if got := Salary(&model.Item{SalaryMin: 4000}, &model.Profile{}, 15); got.Score != 0 {
		t.Errorf("Salary() without desired range = %v, want 0", got.Score)
	}
}

func TestWorkType(t *testing.T) {
	tests := []struct {
		workType string
		prefs    []string
		expected float64
	}{
		{"재택근무", []string{"remote"}, 10},
		{"Hybrid", []string{"파견"}, 10},
		{"사무실 출근", []string{"onsite"}, 10},
		{"remote", []string{"onsite"}, 0},
		{"", []string{"remote"}, 0},
		{"원격 근무", []string{"onsite", "재택"}, 10},
		{"사무실 출근", []string{"remote", "hybrid", "onsite"}, 10},
	}

	for _, tt := range tests {
		item := &model.Item{WorkType: tt.workType}
		p := &model.Profile{WorkTypes: tt.prefs}
		if got := WorkType(item, p, 10); got.Score != tt.expected {
			t.Errorf("WorkType(%q, %v) = %v, want %v", tt.workType, tt.prefs, got.Score, tt.expected)
		}
	}
}

func TestClassifyExperience(t *testing.T) {
	tests := []struct {
		text     string
		expected Tier
	}{
		{"", TierAny},
		{"경력무관", TierAny},
		{"신입/경력", TierAny},
		{"신입", TierNewGrad},
		{"Junior developer", TierNewGrad},
		{"경력 3년 이상", TierMid},
		{"2-5 years", TierMid},
		{"5년 이상", TierSenior},
		{"Senior engineer", TierSenior},
		{"시니어", TierSenior},
		{"경력", TierMid},
		{"Team leader wanted", TierAny},
		{"Tech lead", TierSenior},
		{"Staffing agency role", TierAny},
		{"Middleware engineer", TierAny},
		{"Mid-level backend", TierMid},
		{"International sales", TierAny},
		{"Summer intern", TierNewGrad},
	}

	for _, tt := range tests {
		if got := ClassifyExperience(tt.text); got != tt.expected {
			t.Errorf("ClassifyExperience(%q) = %v, want %v", tt.text, got, tt.expected)
		}
	}
}

func TestExperience(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		profile  model.Profile
		expected float64
	}{
		{"newcomer fits new grad", "신입", model.Profile{CareerType: model.CareerNewcomer}, 5},
		{"newcomer misses senior", "시니어", model.Profile{CareerType: model.CareerNewcomer}, 0},
		{"seven years fits senior", "5년 이상", model.Profile{YearsExperience: 7}, 5},
		{"any tier always fits", "무관", model.Profile{YearsExperience: 12}, 5},
		{"newcomer ignores stored years", "시니어", model.Profile{CareerType: model.CareerNewcomer, YearsExperience: 9}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &model.Item{Experience: tt.text}
			if got := Experience(item, &tt.profile, 5); got.Score != tt.expected {
				t.Errorf("Experience() = %v, want %v", got.Score, tt.expected)
			}
		})
	}
}

func TestScorersStayWithinCap(t *testing.T) {
	items := []model.Item{
		{},
		{Industry: "IT", RequiredSkills: []string{"Go", "Go"}, Location: "서울", SalaryText: "99999", WorkType: "remote"},
		{Industry: "it it it", PreferredSkills: []string{"g"}, Location: "서울 서울", SalaryMin: 1, Experience: "20년"},
	}
	profiles := []model.Profile{
		{},
		{Industries: []string{"it"}, Skills: []model.Skill{{Name: "go", Level: model.LevelAdvanced}, {Name: "g"}},
			Locations: []string{"서울"}, SalaryMin: 100, WorkTypes: []string{"remote"}, YearsExperience: 30},
		{SalaryMax: 1, Locations: []string{"서울 부산"}},
	}

	for _, d := range Dimensions {
		fn := ByDimension(d)
		for i := range items {
			for j := range profiles {
				got := fn(&items[i], &profiles[j], 10)
				if got.Score < 0 || got.Score > 10 {
					t.Errorf("%s scorer out of range: item %d profile %d = %v", d, i, j, got.Score)
				}
			}
		}
	}
}

func TestScorersAreIdempotent(t *testing.T) {
	item := &model.Item{Industry: "IT/소프트웨어", RequiredSkills: []string{"React", "Node.js"}, Location: "서울 강남구", SalaryText: "3500~4500"}
	p := &model.Profile{
		Industries: []string{"IT/소프트웨어"},
		Skills:     []model.Skill{{Name: "React"}, {Name: "TypeScript"}},
		Locations:  []string{"서울"},
		SalaryMin:  3000,
		SalaryMax:  5000,
	}

	for _, d := range Dimensions {
		fn := ByDimension(d)
		first := fn(item, p, 20)
		second := fn(item, p, 20)
		if first.Score != second.Score || first.Reason != second.Reason {
			t.Errorf("%s scorer not idempotent: %+v vs %+v", d, first, second)
		}
	}
}

func TestReason(t *testing.T) {
	if got := Reason("업종 일치", 15); got != "업종 일치 (+15점)" {
		t.Errorf("Reason() = %q", got)
	}
	if got := Reason("기술 스택 1개 일치", 12.5); got != "기술 스택 1개 일치 (+12.5점)" {
		t.Errorf("Reason() = %q", got)
	}
}
