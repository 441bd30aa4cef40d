package models

// PipelineResult summarizes one completed inference run: the facts
// extracted from the input text and how many tasks were inferred.
type PipelineResult struct {
	Facts     []Fact `json:"context_facts"`
	TaskCount int    `json:"tasks_inferred"`
}
