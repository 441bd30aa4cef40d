package models

// Fact is a single (entity, value) attribute known about a user.
// Entity is the natural key within a user's fact set: merging a later
// fact with the same entity overwrites the value (last-write-wins).
type Fact struct {
	Entity string `json:"entity"`
	Value  string `json:"value"`
}
