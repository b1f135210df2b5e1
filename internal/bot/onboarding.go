package bot

import (
	"fmt"
	"math"
	"strings"

	"github.com/Spok95/rasoichef-partner-bot/internal/auth"
	"github.com/Spok95/rasoichef-partner-bot/internal/domain/partners"
	"github.com/Spok95/rasoichef-partner-bot/internal/wizard"
)

var stepIcons = map[string]string{
	"building.2":     "🏢",
	"list.clipboard": "📋",
	"doc.text":       "📄",
}

func authText(mode auth.Mode) string {
	if mode == auth.ModeSignup {
		return mode.Title() + "\n\nRegister your restaurant on RasoiChef in three short steps."
	}
	return mode.Title() + "\n\nLog in to check the status of your partner application."
}

// stepperText mirrors the vertical stepper: finished steps are ticked and only the
// active step shows its subtitle.
func stepperText(w *wizard.Controller) string {
	cur := w.CurrentStep().Index

	var sb strings.Builder
	sb.WriteString(auth.ModeSignup.Title())
	sb.WriteString("\n")
	sb.WriteString(progressBar(w.ProgressFraction(), 10))
	sb.WriteString("\n\n")
	for _, s := range wizard.Steps() {
		switch {
		case s.Index < cur:
			_, _ = fmt.Fprintf(&sb, "✅ %s\n", s.Title)
		case s.Index == cur:
			_, _ = fmt.Fprintf(&sb, "%s ▶ %s\n", stepIcons[s.IconID], s.Title)
			if s.Subtitle != "" {
				_, _ = fmt.Fprintf(&sb, "      %s\n", s.Subtitle)
			}
		default:
			_, _ = fmt.Fprintf(&sb, "%s %s\n", stepIcons[s.IconID], s.Title)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formText(w *wizard.Controller) string {
	step := w.CurrentStep()
	fields, _ := wizard.Fields(step.Index)

	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "%s (step %d of %d)\n", step.Title, step.Index+1, wizard.StepCount)
	if step.Subtitle != "" {
		sb.WriteString(step.Subtitle)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	for _, f := range fields {
		if f.Kind == wizard.KindToggle {
			_, _ = fmt.Fprintf(&sb, "%s %s\n", checkbox(w.Flag(step.Index, f.Name)), f.Label)
			continue
		}
		v := w.Text(step.Index, f.Name)
		if v == "" {
			v = "—"
		}
		_, _ = fmt.Fprintf(&sb, "%s: %s\n", fieldLabel(f), v)
	}
	sb.WriteString("\nFields marked * are shown to customers and our team.")
	return sb.String()
}

func fieldPrompt(stepIndex int, name string) string {
	if f, ok := wizard.LookupField(stepIndex, name); ok {
		return fmt.Sprintf("Send the %s as a message.", strings.ToLower(f.Label))
	}
	return fmt.Sprintf("Send the value for %q as a message.", name)
}

func applicationSummary(a *partners.Application) string {
	var sb strings.Builder
	_, _ = fmt.Fprintf(&sb, "— Restaurant: %s\n", orDash(a.RestaurantName))
	_, _ = fmt.Fprintf(&sb, "— Owner: %s\n", orDash(a.OwnerName))
	_, _ = fmt.Fprintf(&sb, "— Email: %s\n", orDash(a.OwnerEmail))
	_, _ = fmt.Fprintf(&sb, "— Phone: +91 %s\n", orDash(a.OwnerPhone))
	_, _ = fmt.Fprintf(&sb, "— Primary contact: %s\n", orDash(a.PrimaryContact))
	_, _ = fmt.Fprintf(&sb, "— WhatsApp updates: %s\n", checkbox(a.WhatsappUpdates))
	_, _ = fmt.Fprintf(&sb, "— Cuisine: %s\n", orDash(a.CuisineType))
	_, _ = fmt.Fprintf(&sb, "— Hours: %s\n", orDash(a.OperationHours))
	_, _ = fmt.Fprintf(&sb, "— Average meal cost: %s\n", orDash(a.AvgMealCost))
	_, _ = fmt.Fprintf(&sb, "— Restaurant license: %s\n", checkbox(a.HasLicense))
	_, _ = fmt.Fprintf(&sb, "— Food safety certificate: %s", checkbox(a.HasFoodSafetyCert))
	return sb.String()
}

// progressBar renders f in [0,1] as width cells plus a percentage.
func progressBar(f float64, width int) string {
	f = math.Max(0, math.Min(1, f))
	filled := int(math.Round(f * float64(width)))
	return fmt.Sprintf("%s%s %d%%",
		strings.Repeat("▰", filled),
		strings.Repeat("▱", width-filled),
		int(math.Round(f*100)),
	)
}

func fieldLabel(f wizard.Field) string {
	if f.Required {
		return f.Label + "*"
	}
	return f.Label
}

func checkbox(on bool) string {
	if on {
		return "☑️"
	}
	return "⬜"
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}

func statusText(s partners.Status) string {
	switch s {
	case partners.StatusApproved:
		return "approved ✅"
	case partners.StatusRejected:
		return "rejected ⛔"
	default:
		return "under review ⏳"
	}
}
