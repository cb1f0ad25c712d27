package dto

// CreateDropdownRequest admin-managed option
type CreateDropdownRequest struct {
	Field string `json:"field" binding:"required,max=100,dropdown_field"`
	Value string `json:"value" binding:"required,max=150"`
}

// DropdownValueResponse stored option
type DropdownValueResponse struct {
	ID    string `json:"id"`
	Field string `json:"field"`
	Value string `json:"value"`
}

// DropdownsResponse merged option lists for profile and filter forms
type DropdownsResponse struct {
	Programs  []string `json:"programs"`
	Branches  []string `json:"branches"`
	Years     []string `json:"years"`
	Sections  []string `json:"sections"`
	Semesters []string `json:"semesters"`
	// Custom holds admin-defined fields outside the five above.
	Custom map[string][]string     `json:"custom,omitempty"`
	Values []DropdownValueResponse `json:"values"`
}
