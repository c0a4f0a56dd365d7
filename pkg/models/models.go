package models

import (
	"errors"
	"regexp"
	"slices"
)

var (
	ErrAgeRequired               = errors.New("age and age unit are required")
	ErrExtrapolateFieldsRequired = errors.New("generation ID, new age, and age unit are required")
)

type AgeUnit string

const (
	UnitMonths AgeUnit = "months"
	UnitYears  AgeUnit = "years"
)

func ValidAgeUnits() []AgeUnit {
	return []AgeUnit{UnitMonths, UnitYears}
}

func (u AgeUnit) IsValid() bool {
	return slices.Contains(ValidAgeUnits(), u)
}

func (u AgeUnit) String() string {
	return string(u)
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

type Weight string

const (
	WeightLight  Weight = "light"
	WeightNormal Weight = "normal"
	WeightHeavy  Weight = "heavy"
)

func (w Weight) IsValid() bool {
	return w == WeightLight || w == WeightNormal || w == WeightHeavy
}

// GenerateRequest carries the inputs for one child-image synthesis. All image
// fields are base64 strings, optionally prefixed with a data URI header.
type GenerateRequest struct {
	MotherImage     string  `json:"motherImage,omitempty"`
	FatherImage     string  `json:"fatherImage,omitempty"`
	BabyImage       string  `json:"babyImage,omitempty"`
	UltrasoundImage string  `json:"ultrasoundImage,omitempty"`
	Gender          Gender  `json:"gender,omitempty"`
	Age             int     `json:"age"`
	AgeUnit         AgeUnit `json:"ageUnit"`
	Weight          Weight  `json:"weight,omitempty"`
}

func (r *GenerateRequest) Validate() error {
	if r.Age <= 0 || r.AgeUnit == "" {
		return ErrAgeRequired
	}
	return nil
}

// ExtrapolateRequest asks for a re-aged version of a prior generation's output.
type ExtrapolateRequest struct {
	GenerationID string  `json:"generationId"`
	NewAge       int     `json:"newAge"`
	NewAgeUnit   AgeUnit `json:"newAgeUnit"`
}

func (r *ExtrapolateRequest) Validate() error {
	if r.GenerationID == "" || r.NewAge <= 0 || r.NewAgeUnit == "" {
		return ErrExtrapolateFieldsRequired
	}
	return nil
}

// GenerationResult is the upstream output: raw base64 image bytes and the
// exact prompt that produced them.
type GenerationResult struct {
	Image  string
	Prompt string
}

var dataURIPrefix = regexp.MustCompile(`^data:image/[a-z]+;base64,`)

// StripDataURI removes a leading data URI header, leaving bare base64.
// Strings without the header pass through unchanged.
func StripDataURI(s string) string {
	return dataURIPrefix.ReplaceAllString(s, "")
}

// DataURI wraps bare base64 image bytes for embedding in a JSON response.
func DataURI(b64 string) string {
	return "data:image/png;base64," + b64
}
