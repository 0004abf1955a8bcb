// Package stats contains statistics calculations and reporting.
package stats

import "math"

// AverageWordLength is the number of characters counted as one word.
const AverageWordLength = 5

// Wpm holds words per minute without penalty, penalized by errors, and
// penalized by errors and corrections.
type Wpm struct {
	Raw       float64
	Corrected float64
	Actual    float64
}

// Ipm holds inputs per minute.
type Ipm struct {
	Raw    float64
	Actual float64
}

// Accuracy holds accuracy percentages.
type Accuracy struct {
	Raw    float64
	Actual float64
}

// Consistency holds the standard deviation of each WPM series and the
// matching steadiness percentage.
type Consistency struct {
	RawDeviation       float64
	RawPercent         float64
	CorrectedDeviation float64
	CorrectedPercent   float64
	ActualDeviation    float64
	ActualPercent      float64
}

// CalculateWpm computes WPM for the given number of characters. Non-positive
// minutes yield zero values.
func CalculateWpm(characters, errors, corrections int, minutes float64) Wpm {
	if minutes <= 0 {
		return Wpm{}
	}
	raw := (float64(characters) / AverageWordLength) / minutes
	epm := float64(errors) / minutes
	cepm := float64(errors+corrections) / minutes
	return Wpm{
		Raw:       raw,
		Corrected: raw - epm,
		Actual:    raw - cepm,
	}
}

// CalculateIpm computes inputs per minute. Non-positive minutes yield zero values.
func CalculateIpm(actualInputs, rawInputs int, minutes float64) Ipm {
	if minutes <= 0 {
		return Ipm{}
	}
	return Ipm{
		Raw:    float64(rawInputs) / minutes,
		Actual: float64(actualInputs) / minutes,
	}
}

// CalculateAccuracy computes accuracy percentages against the current input
// length. Corrections offset errors for the actual value. An empty input
// yields zero values.
func CalculateAccuracy(inputLen, errors, corrections int) Accuracy {
	if inputLen <= 0 {
		return Accuracy{}
	}
	n := float64(inputLen)
	actualErrors := math.Max(float64(errors-corrections), 0)
	return Accuracy{
		Raw:    (1 - float64(errors)/n) * 100,
		Actual: (1 - actualErrors/n) * 100,
	}
}

// CalculateConsistency computes the population standard deviation of each WPM
// series and converts it to a percentage via the coefficient of variation.
func CalculateConsistency(measurements []Wpm) Consistency {
	raw := make([]float64, len(measurements))
	corrected := make([]float64, len(measurements))
	actual := make([]float64, len(measurements))
	for i, m := range measurements {
		raw[i] = m.Raw
		corrected[i] = m.Corrected
		actual[i] = m.Actual
	}
	c := Consistency{
		RawDeviation:       StdDev(raw),
		CorrectedDeviation: StdDev(corrected),
		ActualDeviation:    StdDev(actual),
	}
	c.RawPercent = deviationPercent(c.RawDeviation, Mean(raw))
	c.CorrectedPercent = deviationPercent(c.CorrectedDeviation, Mean(corrected))
	c.ActualPercent = deviationPercent(c.ActualDeviation, Mean(actual))
	return c
}

// StdDev returns the population standard deviation using Welford's update.
// Series with fewer than two values have no spread.
func StdDev(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	var mean, m2 float64
	for i, v := range values {
		delta := v - mean
		mean += delta / float64(i+1)
		m2 += delta * (v - mean)
	}
	return math.Sqrt(m2 / float64(len(values)))
}

// Mean returns the arithmetic mean, or zero for an empty series.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func deviationPercent(stdDev, mean float64) float64 {
	if mean == 0 {
		return 100
	}
	cv := math.Min(stdDev/mean, 1)
	return math.Max((1-cv)*100, 0)
}
