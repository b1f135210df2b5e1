package wizard

type Kind string

const (
	KindText   Kind = "text"
	KindToggle Kind = "toggle"
)

// Field describes one input of a step. Required is a display marker only.
type Field struct {
	Name     string
	Label    string
	Kind     Kind
	Required bool
	Default  any
}

// Field names used across the flow.
const (
	FieldRestaurantName    = "restaurantName"
	FieldOwnerName         = "ownerName"
	FieldOwnerEmail        = "ownerEmail"
	FieldOwnerPhone        = "ownerPhone"
	FieldWhatsappUpdates   = "getUpdatesOnWhatsapp"
	FieldPrimaryContact    = "primaryContact"
	FieldSameAsOwnerMobile = "sameAsOwnerMobile"

	FieldCuisineType    = "cuisineType"
	FieldOperationHours = "operationHours"
	FieldAvgMealCost    = "avgMealCost"

	FieldHasLicense        = "hasLicense"
	FieldHasFoodSafetyCert = "hasFoodSafetyCert"
)

var catalog = [StepCount][]Field{
	StepRestaurantInfo: {
		{Name: FieldRestaurantName, Label: "Restaurant name", Kind: KindText, Required: true, Default: ""},
		{Name: FieldOwnerName, Label: "Full name", Kind: KindText, Required: true, Default: ""},
		{Name: FieldOwnerEmail, Label: "Email address", Kind: KindText, Required: true, Default: ""},
		{Name: FieldOwnerPhone, Label: "Phone number", Kind: KindText, Required: true, Default: ""},
		{Name: FieldWhatsappUpdates, Label: "Get updates on WhatsApp", Kind: KindToggle, Default: true},
		{Name: FieldPrimaryContact, Label: "Primary contact number", Kind: KindText, Default: ""},
		{Name: FieldSameAsOwnerMobile, Label: "Same as owner mobile", Kind: KindToggle, Default: true},
	},
	StepMenuAndOperations: {
		{Name: FieldCuisineType, Label: "Cuisine type", Kind: KindText, Default: ""},
		{Name: FieldOperationHours, Label: "Operation hours (e.g., 9AM-10PM)", Kind: KindText, Default: ""},
		{Name: FieldAvgMealCost, Label: "Average meal cost", Kind: KindText, Default: ""},
	},
	StepDocuments: {
		{Name: FieldHasLicense, Label: "Restaurant license", Kind: KindToggle, Default: false},
		{Name: FieldHasFoodSafetyCert, Label: "Food safety certificate", Kind: KindToggle, Default: false},
	},
}

// Fields returns the declared fields of a step in display order.
func Fields(stepIndex int) ([]Field, error) {
	if !validIndex(stepIndex) {
		return nil, ErrInvalidStep
	}
	out := make([]Field, len(catalog[stepIndex]))
	copy(out, catalog[stepIndex])
	return out, nil
}

// LookupField finds a declared field of a step by name.
func LookupField(stepIndex int, name string) (Field, bool) {
	if !validIndex(stepIndex) {
		return Field{}, false
	}
	for _, f := range catalog[stepIndex] {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldSet holds the values of one step. Values are string or bool.
type FieldSet map[string]any

func defaults(stepIndex int) FieldSet {
	fs := make(FieldSet, len(catalog[stepIndex]))
	for _, f := range catalog[stepIndex] {
		fs[f.Name] = f.Default
	}
	return fs
}
