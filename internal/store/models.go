package store

import "github.com/manash/babygen/pkg/models"

// Generation is one stored synthesis result. Records are write-once: a row is
// only inserted after the upstream call succeeded, so GeneratedImage and
// Prompt are always present together.
type Generation struct {
	ID              string
	MotherImage     string
	FatherImage     string
	BabyImage       string
	UltrasoundImage string
	Gender          models.Gender
	Age             int
	AgeUnit         models.AgeUnit
	Weight          models.Weight
	GeneratedImage  string
	Prompt          string
	CreatedAt       int64 // epoch milliseconds
}

// AgeProgression is a re-aging transform applied to a Generation's output.
// GenerationID is a logical reference; the schema does not enforce it, so
// deletion must remove progressions before their generation.
type AgeProgression struct {
	ID              string
	GenerationID    string
	NewAge          int
	NewAgeUnit      models.AgeUnit
	ProgressedImage string
	CreatedAt       int64 // epoch milliseconds
}
