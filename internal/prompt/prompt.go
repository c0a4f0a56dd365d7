// Package prompt builds the natural-language prompts sent to the image
// generation model. All functions are pure and never fail.
package prompt

import (
	"fmt"
	"strings"

	"github.com/manash/babygen/pkg/models"
)

// AgeDescription renders the target age as prose. Ages above 12 months are
// always rendered as "1 year old baby" rather than converted to years; this
// mirrors the behavior the stored prompts were produced with.
func AgeDescription(age int, unit models.AgeUnit) string {
	if unit == models.UnitMonths {
		if age <= 12 {
			return fmt.Sprintf("%d months old baby", age)
		}
		return "1 year old baby"
	}
	if age <= 16 {
		return fmt.Sprintf("%d year old child", age)
	}
	return fmt.Sprintf("%d years old person", age)
}

// WeightDescriptor maps the weight modifier to its prompt phrase. Anything
// other than light or heavy reads as a normal build.
func WeightDescriptor(w models.Weight) string {
	switch w {
	case models.WeightLight:
		return "thin and light"
	case models.WeightHeavy:
		return "chubby and well-fed"
	default:
		return "healthy weight"
	}
}

// Generation builds the full prompt for synthesizing a child image from the
// supplied parent photos and target attributes.
func Generation(req *models.GenerateRequest) string {
	ageDesc := AgeDescription(req.Age, req.AgeUnit)

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a realistic photo of a %s that combines the facial features and characteristics from the parent photos. The image should be:\n", ageDesc)
	b.WriteString("- High quality, photorealistic\n")
	b.WriteString("- Natural lighting and composition\n")
	b.WriteString("- Clear facial features\n")
	fmt.Fprintf(&b, "- Appropriate age characteristics for %s\n", ageDesc)
	b.WriteString("- Natural skin tone blending from the parents\n")
	b.WriteString("- Professional portrait style\n")
	fmt.Fprintf(&b, "- %s appearance", WeightDescriptor(req.Weight))
	if req.Gender != "" {
		fmt.Fprintf(&b, "\n- Gender: %s", req.Gender)
	}
	if req.BabyImage != "" {
		b.WriteString("\n- Use the existing baby photo as reference for current features and age-progress accordingly")
	}
	if req.UltrasoundImage != "" {
		b.WriteString("\n- Consider the ultrasound image as additional reference for facial structure")
	}
	return b.String()
}

// Progression builds the prompt for re-aging a previously generated image
// while preserving identity.
func Progression(newAge int, newAgeUnit models.AgeUnit) string {
	ageDesc := AgeDescription(newAge, newAgeUnit)

	var b strings.Builder
	fmt.Fprintf(&b, "Transform this person to show how they would look as a %s. The image should be:\n", ageDesc)
	b.WriteString("- High quality, photorealistic\n")
	b.WriteString("- Maintain the same facial features and characteristics\n")
	b.WriteString("- Natural aging/growth progression\n")
	fmt.Fprintf(&b, "- Appropriate age characteristics for %s\n", ageDesc)
	b.WriteString("- Same lighting and composition style\n")
	b.WriteString("- Professional portrait style\n")
	b.WriteString("- Natural and realistic transformation")
	return b.String()
}
