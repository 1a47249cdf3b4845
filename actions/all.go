package actions

import "fmt"

// All runs every generation action in order
func All(ctx *Context) error {
	steps := []struct {
		name string
		run  func(*Context) error
	}{
		{"badges", Badges},
		{"course", Course},
		{"topics", Topics},
		{"tests", Tests},
	}

	for _, step := range steps {
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}
