package charts

import (
	"fmt"

	"datalens/domain/profile"
)

// Attempt is the outcome of building one chart. Spec is nil when the chart
// was skipped; Skip then carries the reason. Failures in one attempt never
// abort the others.
type Attempt struct {
	Key  string
	Spec *profile.ChartSpec
	Skip string
}

// Ok reports whether the attempt produced a spec
func (a Attempt) Ok() bool {
	return a.Spec != nil
}

func ok(key string, spec *profile.ChartSpec) Attempt {
	return Attempt{Key: key, Spec: spec}
}

func skip(key, reason string) Attempt {
	return Attempt{Key: key, Skip: reason}
}

// attempt runs one chart builder, converting a nil result or a panic into
// a skipped attempt.
func attempt(key string, build func() (*profile.ChartSpec, string)) (a Attempt) {
	defer func() {
		if r := recover(); r != nil {
			a = skip(key, fmt.Sprintf("chart computation panicked: %v", r))
		}
	}()

	spec, reason := build()
	if spec == nil {
		return skip(key, reason)
	}
	return ok(key, spec)
}

// Collect keeps the specs of successful attempts, keyed by their stable
// chart id.
func Collect(attempts []Attempt) map[string]profile.ChartSpec {
	out := make(map[string]profile.ChartSpec)
	for _, a := range attempts {
		if a.Ok() {
			out[a.Key] = *a.Spec
		}
	}
	return out
}
