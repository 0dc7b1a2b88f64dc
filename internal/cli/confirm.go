package cli

import "github.com/charmbracelet/huh"

// confirm shows an interactive yes/no form and returns the choice.
func confirm(title, affirmative, negative string) (bool, error) {
	var yes bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative(affirmative).
				Negative(negative).
				Value(&yes),
		),
	).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return false, err
	}
	return yes, nil
}
