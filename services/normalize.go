package services

import (
	"fmt"
	"math"

	"github.com/MaximeWq/challenge-mobilite-app/models"
)

// StepsPerKm is the fixed conversion constant: 1500 steps ≈ 1 km.
const StepsPerKm = 1500.0

// NormalizeActivity derives the stored (distance, steps) pair from a
// declaration. Cycling takes the declared distance and never carries steps;
// walk/run derives its distance from the step count. The same function runs
// on create and update so the conversion cannot drift between the two paths.
func NormalizeActivity(activityType string, distanceKm *float64, steps *int) (float64, *int, error) {
	switch activityType {
	case models.TypeVelo:
		if distanceKm == nil {
			return 0, nil, fmt.Errorf("%w: distance_km requise pour le vélo", ErrValidation)
		}
		if *distanceKm < 0 {
			return 0, nil, fmt.Errorf("%w: distance_km doit être positive", ErrValidation)
		}
		return *distanceKm, nil, nil
	case models.TypeMarcheCourse:
		if steps == nil {
			return 0, nil, fmt.Errorf("%w: pas requis pour la marche/course", ErrValidation)
		}
		if *steps < 0 {
			return 0, nil, fmt.Errorf("%w: pas doit être positif", ErrValidation)
		}
		return StepsToKm(*steps), steps, nil
	default:
		return 0, nil, fmt.Errorf("%w: type d'activité inconnu %q", ErrValidation, activityType)
	}
}

// StepsToKm converts a step count to kilometers, rounded to 2 decimals.
func StepsToKm(steps int) float64 {
	return round2(float64(steps) / StepsPerKm)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
