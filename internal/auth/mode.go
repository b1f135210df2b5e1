// Package auth holds the login/signup switch shown before onboarding.
package auth

type Mode string

const (
	ModeLogin  Mode = "login"
	ModeSignup Mode = "signup"
)

// Toggle returns the other mode. Anything but signup counts as login.
func (m Mode) Toggle() Mode {
	if m == ModeSignup {
		return ModeLogin
	}
	return ModeSignup
}

func (m Mode) Title() string {
	if m == ModeSignup {
		return "Chef Registration"
	}
	return "Partner Login"
}

// SwitchPrompt is the label of the control that flips the mode.
func (m Mode) SwitchPrompt() string {
	if m == ModeSignup {
		return "Already have an account? Log In"
	}
	return "Don't have an account? Sign Up"
}
