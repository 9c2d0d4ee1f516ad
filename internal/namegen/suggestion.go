package namegen

// Suggestion is one name produced by the generation webhook after
// normalization. Only Name is guaranteed to be present.
type Suggestion struct {
	Name    string `json:"name"`
	Meaning string `json:"meaning,omitempty"`
	Origin  string `json:"origin,omitempty"`
	Gender  string `json:"gender,omitempty"`
}
