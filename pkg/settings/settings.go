package settings

// Theme is the UI theme preference.
type Theme string

const (
	ThemeSystem Theme = "System"
	ThemeLight  Theme = "Light"
	ThemeDark   Theme = "Dark"
)

func (t Theme) IsValid() bool {
	switch t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	}
	return false
}

type Settings struct {
	Theme               Theme
	OnboardingCompleted bool
}
