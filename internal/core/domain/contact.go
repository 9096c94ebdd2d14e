package domain

// Contact is the thin view of a provider contact that operations pass
// outward. Field mapping is deliberately minimal; the provider's full
// person shape stays inside the People adapter.
type Contact struct {
	// ResourceName is the provider's stable identifier (people/c123...).
	ResourceName string `json:"resource_name"`
	// Etag guards concurrent updates.
	Etag string `json:"etag,omitempty"`

	DisplayName  string   `json:"display_name,omitempty"`
	GivenName    string   `json:"given_name,omitempty"`
	FamilyName   string   `json:"family_name,omitempty"`
	Emails       []string `json:"emails,omitempty"`
	Phones       []string `json:"phones,omitempty"`
	Organization string   `json:"organization,omitempty"`
}

// ContactPage is one page of a contact listing.
type ContactPage struct {
	Contacts      []Contact `json:"contacts"`
	NextPageToken string    `json:"next_page_token,omitempty"`
	TotalItems    int64     `json:"total_items,omitempty"`
}

// ContactInput carries the writable fields for create and update.
type ContactInput struct {
	GivenName    string   `json:"given_name,omitempty"`
	FamilyName   string   `json:"family_name,omitempty"`
	Emails       []string `json:"emails,omitempty"`
	Phones       []string `json:"phones,omitempty"`
	Organization string   `json:"organization,omitempty"`
}

// IsEmpty reports whether the input carries no writable data.
func (in ContactInput) IsEmpty() bool {
	return in.GivenName == "" && in.FamilyName == "" &&
		len(in.Emails) == 0 && len(in.Phones) == 0 && in.Organization == ""
}
