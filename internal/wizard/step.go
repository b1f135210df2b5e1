package wizard

// Step is one page of the partner onboarding flow.
type Step struct {
	Index    int
	Title    string
	Subtitle string
	IconID   string
}

const (
	StepRestaurantInfo = iota
	StepMenuAndOperations
	StepDocuments
)

var steps = [...]Step{
	{
		Index:    StepRestaurantInfo,
		Title:    "Restaurant information",
		Subtitle: "Name, location and contact number",
		IconID:   "building.2",
	},
	{
		Index:    StepMenuAndOperations,
		Title:    "Menu and operational details",
		Subtitle: "Menu details and operational hours",
		IconID:   "list.clipboard",
	},
	{
		Index:    StepDocuments,
		Title:    "Restaurant documents",
		Subtitle: "Upload required documents",
		IconID:   "doc.text",
	},
}

// StepCount is the number of steps in the flow.
const StepCount = len(steps)

// Steps returns the ordered steps. The slice is a copy.
func Steps() []Step {
	out := make([]Step, StepCount)
	copy(out, steps[:])
	return out
}

// StepAt returns the step with the given index.
func StepAt(index int) (Step, error) {
	if !validIndex(index) {
		return Step{}, ErrInvalidStep
	}
	return steps[index], nil
}

func validIndex(i int) bool { return i >= 0 && i < StepCount }
