package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ErrPickCancelled is returned when the user aborts the unit picker
var ErrPickCancelled = errors.New("unit selection cancelled")

// newPickerForm builds the multi-select form used by PickUnits
func newPickerForm(names []string, selected *[]string) *huh.Form {
	height := len(names) + 2
	if height > 20 {
		height = 20
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Units to run").
				Description("space to toggle, / to filter, enter to start").
				Options(huh.NewOptions(names...)...).
				Value(selected).
				Filterable(true).
				Height(height).
				Validate(validateSelection),
		),
	)
}

func validateSelection(selected []string) error {
	if len(selected) == 0 {
		return fmt.Errorf("select at least one unit")
	}
	return nil
}

// PickUnits asks the user which of names to run and returns the selection
// in the order of names.
func PickUnits(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var selected []string
	if err := newPickerForm(names, &selected).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, ErrPickCancelled
		}
		return nil, fmt.Errorf("unit picker failed: %w", err)
	}

	return keepOrder(names, selected), nil
}

func keepOrder(names, selected []string) []string {
	chosen := make(map[string]bool, len(selected))
	for _, s := range selected {
		chosen[s] = true
	}
	ordered := make([]string, 0, len(selected))
	for _, name := range names {
		if chosen[name] {
			ordered = append(ordered, name)
		}
	}
	return ordered
}
