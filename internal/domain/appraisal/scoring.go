package appraisal

import (
	"fmt"
	"math"
	"sort"
)

// ComputeScore turns a rating set into the weighted aggregate for the
// template. Weights of omitted optional criteria are excluded from the
// denominator, so the score stays a percentage of what was actually rated.
// Pure: no I/O, identical inputs give identical output.
func ComputeScore(tmpl Template, ratings []Rating) (Score, error) {
	byKey := make(map[string]Rating, len(ratings))
	var violations []string
	for _, rating := range ratings {
		if _, dup := byKey[rating.Key]; dup {
			violations = append(violations, fmt.Sprintf("duplicate rating for criterion %q", rating.Key))
		}
		byKey[rating.Key] = rating
	}

	known := make(map[string]Criterion, len(tmpl.Criteria))
	for _, criterion := range tmpl.Criteria {
		known[criterion.Key] = criterion
		if _, ok := byKey[criterion.Key]; !ok && criterion.Required {
			violations = append(violations, fmt.Sprintf("required criterion %q is not rated", criterion.Key))
		}
	}
	for key := range byKey {
		if _, ok := known[key]; !ok {
			violations = append(violations, fmt.Sprintf("rating key %q is not in the template", key))
		}
	}
	if len(violations) > 0 {
		sort.Strings(violations)
		return Score{}, &ValidationError{Violations: violations}
	}

	var weighted, weightSum float64
	for _, criterion := range tmpl.Criteria {
		rating, ok := byKey[criterion.Key]
		if !ok {
			continue
		}
		maxScore := criterion.MaxScore
		if maxScore <= 0 {
			maxScore = tmpl.RatingScale.Max
		}
		if maxScore <= 0 {
			continue
		}
		weighted += rating.RatingValue / maxScore * float64(criterion.Weight)
		weightSum += float64(criterion.Weight)
	}

	total := 0.0
	if weightSum > 0 {
		total = weighted / weightSum * 100
	}
	total = math.Round(total*100) / 100
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return Score{TotalScore: total, OverallRatingLabel: labelFor(tmpl.RatingScale, total)}, nil
}

// labelFor maps a 0-100 score onto the scale labels proportionally across
// [min, max]. Empty labels leave the overall label unset.
func labelFor(scale RatingScale, totalScore float64) string {
	if len(scale.Labels) == 0 {
		return ""
	}
	span := scale.Max - scale.Min
	if span <= 0 {
		return scale.Labels[len(scale.Labels)-1]
	}
	equivalent := scale.Min + totalScore/100*span
	idx := int((equivalent - scale.Min) / span * float64(len(scale.Labels)))
	if idx >= len(scale.Labels) {
		idx = len(scale.Labels) - 1
	}
	if idx < 0 {
		idx = 0
	}
	return scale.Labels[idx]
}
