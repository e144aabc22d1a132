package pipeline

// Step is a pipeline state.
type Step string

const (
	StepIdle       Step = "idle"
	StepValidating Step = "validating"
	StepExtracting Step = "extracting"
	StepMatching   Step = "matching"
	StepStaging    Step = "staging"
	StepManifest   Step = "manifest"
	StepMerging    Step = "merging"
	StepSucceeded  Step = "succeeded"
	StepFailed     Step = "failed"
)

// Terminal reports whether s ends a run.
func (s Step) Terminal() bool {
	return s == StepSucceeded || s == StepFailed
}

// progress milestones per step, out of 100.
var stepProgress = map[Step]int{
	StepExtracting: 5,
	StepMatching:   20,
	StepStaging:    25,
	StepManifest:   60,
	StepMerging:    70,
	StepSucceeded:  100,
}
