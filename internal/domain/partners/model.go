package partners

import (
	"time"

	"github.com/Spok95/rasoichef-partner-bot/internal/wizard"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Application is a completed onboarding flow as the admin sees it.
type Application struct {
	ID         int64
	TelegramID int64
	Username   string

	RestaurantName    string
	OwnerName         string
	OwnerEmail        string
	OwnerPhone        string
	WhatsappUpdates   bool
	PrimaryContact    string
	SameAsOwnerMobile bool

	CuisineType    string
	OperationHours string
	AvgMealCost    string

	HasLicense        bool
	HasFoodSafetyCert bool

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Telegram struct {
	ID       int64
	Username string
}

// FromWizard copies the field sets of a controller into a pending application.
// With "same as owner mobile" set, the primary contact is the owner phone.
func FromWizard(tg Telegram, w *wizard.Controller) Application {
	a := Application{
		TelegramID: tg.ID,
		Username:   tg.Username,

		RestaurantName:    w.Text(wizard.StepRestaurantInfo, wizard.FieldRestaurantName),
		OwnerName:         w.Text(wizard.StepRestaurantInfo, wizard.FieldOwnerName),
		OwnerEmail:        w.Text(wizard.StepRestaurantInfo, wizard.FieldOwnerEmail),
		OwnerPhone:        w.Text(wizard.StepRestaurantInfo, wizard.FieldOwnerPhone),
		WhatsappUpdates:   w.Flag(wizard.StepRestaurantInfo, wizard.FieldWhatsappUpdates),
		PrimaryContact:    w.Text(wizard.StepRestaurantInfo, wizard.FieldPrimaryContact),
		SameAsOwnerMobile: w.Flag(wizard.StepRestaurantInfo, wizard.FieldSameAsOwnerMobile),

		CuisineType:    w.Text(wizard.StepMenuAndOperations, wizard.FieldCuisineType),
		OperationHours: w.Text(wizard.StepMenuAndOperations, wizard.FieldOperationHours),
		AvgMealCost:    w.Text(wizard.StepMenuAndOperations, wizard.FieldAvgMealCost),

		HasLicense:        w.Flag(wizard.StepDocuments, wizard.FieldHasLicense),
		HasFoodSafetyCert: w.Flag(wizard.StepDocuments, wizard.FieldHasFoodSafetyCert),

		Status: StatusPending,
	}
	if a.SameAsOwnerMobile {
		a.PrimaryContact = a.OwnerPhone
	}
	return a
}
