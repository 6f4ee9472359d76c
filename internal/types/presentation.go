package types

// Template identifiers. Compact and Executive are aliases resolved by the renderer.
const (
	TemplateMinimal   = "minimal"
	TemplateTwoColumn = "twoColumn"
	TemplateClassic   = "classic"
	TemplateCompact   = "compact"
	TemplateExecutive = "executive"
)

// Presentation defaults applied when a field is absent.
const (
	DefaultTemplateID   = TemplateMinimal
	DefaultPrimaryColor = "#000000"
	DefaultAccentColor  = "#333333"
	DefaultFontScale    = "md"
	DefaultDensity      = "cozy"
)

// Presentation is the visual configuration applied at render time.
type Presentation struct {
	TemplateID       string `json:"templateId"`
	PrimaryColor     string `json:"primaryColor"`
	AccentColor      string `json:"accentColor"`
	FontScale        string `json:"fontScale"`
	Density          string `json:"density"`
	ShowProfilePhoto bool   `json:"showProfilePhoto"`
}

// DefaultPresentation returns the configuration used when a document has none.
func DefaultPresentation() Presentation {
	return Presentation{
		TemplateID:   DefaultTemplateID,
		PrimaryColor: DefaultPrimaryColor,
		AccentColor:  DefaultAccentColor,
		FontScale:    DefaultFontScale,
		Density:      DefaultDensity,
	}
}

// PresentationPatch carries a partial presentation update. Nil fields are
// left untouched by a merge.
type PresentationPatch struct {
	TemplateID       *string `json:"templateId,omitempty" validate:"omitempty,oneof=minimal twoColumn classic compact executive"`
	PrimaryColor     *string `json:"primaryColor,omitempty" validate:"omitempty,hexcolor"`
	AccentColor      *string `json:"accentColor,omitempty" validate:"omitempty,hexcolor"`
	FontScale        *string `json:"fontScale,omitempty" validate:"omitempty,oneof=sm md lg"`
	Density          *string `json:"density,omitempty" validate:"omitempty,oneof=comfortable cozy compact"`
	ShowProfilePhoto *bool   `json:"showProfilePhoto,omitempty"`
}

// Fields returns only the keys set on the patch, keyed by their JSON names.
func (p *PresentationPatch) Fields() map[string]any {
	fields := make(map[string]any)
	if p == nil {
		return fields
	}
	if p.TemplateID != nil {
		fields["templateId"] = *p.TemplateID
	}
	if p.PrimaryColor != nil {
		fields["primaryColor"] = *p.PrimaryColor
	}
	if p.AccentColor != nil {
		fields["accentColor"] = *p.AccentColor
	}
	if p.FontScale != nil {
		fields["fontScale"] = *p.FontScale
	}
	if p.Density != nil {
		fields["density"] = *p.Density
	}
	if p.ShowProfilePhoto != nil {
		fields["showProfilePhoto"] = *p.ShowProfilePhoto
	}
	return fields
}

// Apply returns a copy of base with the patch's set fields overwritten.
func (p *PresentationPatch) Apply(base Presentation) Presentation {
	if p == nil {
		return base
	}
	if p.TemplateID != nil {
		base.TemplateID = *p.TemplateID
	}
	if p.PrimaryColor != nil {
		base.PrimaryColor = *p.PrimaryColor
	}
	if p.AccentColor != nil {
		base.AccentColor = *p.AccentColor
	}
	if p.FontScale != nil {
		base.FontScale = *p.FontScale
	}
	if p.Density != nil {
		base.Density = *p.Density
	}
	if p.ShowProfilePhoto != nil {
		base.ShowProfilePhoto = *p.ShowProfilePhoto
	}
	return base
}

// IsEmpty reports whether the patch sets no fields.
func (p *PresentationPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}
