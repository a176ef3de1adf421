package types

// Data structure to organize and store link-preview metadata from a page.
// Fields are populated first from Open Graph Protocol tags and then from
// standard HTML tags; a field left nil means no matching tag was found.
type Metadata struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Image       *string `json:"image,omitempty"`
}

// Creates a Metadata record with the given title, description and image.
func New(title, description, image *string) Metadata {
	return Metadata{
		Title:       title,
		Description: description,
		Image:       image,
	}
}

// Reports whether two records carry the same field values.
// Nil and pointer-to-empty-string are distinct: the former means the
// tag was absent, the latter that it was present with no content.
func (m Metadata) Equal(other Metadata) bool {
	return equalField(m.Title, other.Title) &&
		equalField(m.Description, other.Description) &&
		equalField(m.Image, other.Image)
}

func equalField(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
