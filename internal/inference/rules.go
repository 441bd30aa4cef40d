package inference

import (
	"context"
	"fmt"

	"lifeops/internal/models"
)

// RuleEngine is a deterministic, dependency-free Engine used as the
// default wiring. It maps the relocation/employment fact pattern onto
// the administrative tasks a newly arrived worker typically faces.
type RuleEngine struct{}

// NewRuleEngine creates a RuleEngine.
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

// Infer derives tasks from the fact set. Rules fire in a fixed order
// and IDs are assigned sequentially, so identical input yields an
// identical task list.
func (e *RuleEngine) Infer(ctx context.Context, facts []models.Fact) ([]models.Task, error) {
	byEntity := make(map[string]string, len(facts))
	for _, f := range facts {
		byEntity[f.Entity] = f.Value
	}

	var tasks []models.Task
	nextID := 1
	add := func(title, description, action string) {
		tasks = append(tasks, models.Task{
			ID:          nextID,
			Title:       title,
			Description: description,
			Status:      models.TaskPending,
			Action:      action,
		})
		nextID++
	}

	if _, ok := byEntity["Employment"]; ok {
		add(
			"Check SSN Status",
			"Agent will verify if an SSN has been issued for your work permit.",
			"Simulate Call",
		)
		add(
			"Draft W-4 Form",
			"Agent will auto-fill your federal tax withholding form based on your profile.",
			"View Draft",
		)
	}

	if location, ok := byEntity["Location"]; ok {
		add(
			"State ID Appointment",
			fmt.Sprintf("%s DMV appointment needed within 90 days.", location),
			"Schedule",
		)
	}

	if _, ok := byEntity["Arrival"]; ok {
		if _, hasLocation := byEntity["Location"]; !hasLocation {
			add(
				"Confirm Residence Details",
				"Agent needs your current state to line up local registration steps.",
				"Provide Info",
			)
		}
	}

	return tasks, nil
}
