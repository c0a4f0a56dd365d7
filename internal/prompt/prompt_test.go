package prompt

import (
	"strings"
	"testing"

	"github.com/manash/babygen/pkg/models"
)

func TestAgeDescription(t *testing.T) {
	tests := []struct {
		name string
		age  int
		unit models.AgeUnit
		want string
	}{
		{"one month", 1, models.UnitMonths, "1 months old baby"},
		{"six months", 6, models.UnitMonths, "6 months old baby"},
		{"twelve months", 12, models.UnitMonths, "12 months old baby"},
		{"thirteen months clamps to one year", 13, models.UnitMonths, "1 year old baby"},
		{"thirty months clamps to one year", 30, models.UnitMonths, "1 year old baby"},
		{"one year", 1, models.UnitYears, "1 year old child"},
		{"sixteen years", 16, models.UnitYears, "16 year old child"},
		{"seventeen years", 17, models.UnitYears, "17 years old person"},
		{"forty years", 40, models.UnitYears, "40 years old person"},
		{"unknown unit falls through to years", 5, models.AgeUnit("weeks"), "5 year old child"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AgeDescription(tt.age, tt.unit); got != tt.want {
				t.Errorf("AgeDescription(%d, %q) = %q, want %q", tt.age, tt.unit, got, tt.want)
			}
		})
	}
}

func TestWeightDescriptor(t *testing.T) {
	tests := []struct {
		weight models.Weight
		want   string
	}{
		{models.WeightLight, "thin and light"},
		{models.WeightHeavy, "chubby and well-fed"},
		{models.WeightNormal, "healthy weight"},
		{"", "healthy weight"},
		{models.Weight("unknown"), "healthy weight"},
	}

	for _, tt := range tests {
		t.Run(string(tt.weight), func(t *testing.T) {
			if got := WeightDescriptor(tt.weight); got != tt.want {
				t.Errorf("WeightDescriptor(%q) = %q, want %q", tt.weight, got, tt.want)
			}
		})
	}
}

func TestGeneration(t *testing.T) {
	base := &models.GenerateRequest{Age: 6, AgeUnit: models.UnitMonths}

	got := Generation(base)

	if !strings.HasPrefix(got, "Generate a realistic photo of a 6 months old baby") {
		t.Errorf("Generation() prefix = %q", firstLine(got))
	}
	if !strings.Contains(got, "- Appropriate age characteristics for 6 months old baby") {
		t.Error("Generation() missing age characteristics line")
	}
	if !strings.Contains(got, "- healthy weight appearance") {
		t.Error("Generation() missing default weight line")
	}
	for _, absent := range []string{"- Gender:", "existing baby photo", "ultrasound image"} {
		if strings.Contains(got, absent) {
			t.Errorf("Generation() unexpectedly contains %q", absent)
		}
	}
}

func TestGeneration_ConditionalLines(t *testing.T) {
	req := &models.GenerateRequest{
		Age:             2,
		AgeUnit:         models.UnitYears,
		Gender:          models.GenderFemale,
		Weight:          models.WeightLight,
		BabyImage:       "aGVsbG8=",
		UltrasoundImage: "d29ybGQ=",
	}

	got := Generation(req)

	wantLines := []string{
		"Generate a realistic photo of a 2 year old child",
		"- thin and light appearance",
		"- Gender: female",
		"- Use the existing baby photo as reference for current features and age-progress accordingly",
		"- Consider the ultrasound image as additional reference for facial structure",
	}
	for _, want := range wantLines {
		if !strings.Contains(got, want) {
			t.Errorf("Generation() missing %q", want)
		}
	}
}

func TestGeneration_Deterministic(t *testing.T) {
	req := &models.GenerateRequest{Age: 3, AgeUnit: models.UnitYears, Weight: models.WeightHeavy}
	if Generation(req) != Generation(req) {
		t.Error("Generation() is not deterministic")
	}
}

func TestProgression(t *testing.T) {
	got := Progression(5, models.UnitYears)

	if !strings.HasPrefix(got, "Transform this person to show how they would look as a 5 year old child") {
		t.Errorf("Progression() prefix = %q", firstLine(got))
	}
	wantLines := []string{
		"- Maintain the same facial features and characteristics",
		"- Natural aging/growth progression",
		"- Appropriate age characteristics for 5 year old child",
		"- Natural and realistic transformation",
	}
	for _, want := range wantLines {
		if !strings.Contains(got, want) {
			t.Errorf("Progression() missing %q", want)
		}
	}
	if strings.Contains(got, "appearance") || strings.Contains(got, "Gender") {
		t.Error("Progression() must not carry weight or gender lines")
	}
}

func TestProgression_ClampedMonths(t *testing.T) {
	got := Progression(18, models.UnitMonths)
	if !strings.Contains(got, "1 year old baby") {
		t.Errorf("Progression(18 months) should render the clamped age, got %q", firstLine(got))
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
