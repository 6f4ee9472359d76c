package rendering

import (
	"regexp"

	"github.com/jonathan/resume-builder/internal/types"
)

var hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// templateAliases maps every accepted template id to the strategy that draws it.
var templateAliases = map[string]string{
	types.TemplateMinimal:   types.TemplateMinimal,
	types.TemplateTwoColumn: types.TemplateTwoColumn,
	types.TemplateClassic:   types.TemplateClassic,
	types.TemplateCompact:   types.TemplateMinimal,
	types.TemplateExecutive: types.TemplateClassic,
}

// ResolveTemplate returns the strategy name for id. Unknown ids fall back
// to minimal.
func ResolveTemplate(id string) string {
	if name, ok := templateAliases[id]; ok {
		return name
	}
	return types.TemplateMinimal
}

// ResolvePresentation fills absent or unusable fields of p with defaults.
// A nil p yields the default presentation.
func ResolvePresentation(p *types.Presentation) types.Presentation {
	out := types.DefaultPresentation()
	if p == nil {
		return out
	}
	if _, ok := templateAliases[p.TemplateID]; ok {
		out.TemplateID = p.TemplateID
	}
	if hexColorPattern.MatchString(p.PrimaryColor) {
		out.PrimaryColor = p.PrimaryColor
	}
	if hexColorPattern.MatchString(p.AccentColor) {
		out.AccentColor = p.AccentColor
	}
	if _, ok := fontScales[p.FontScale]; ok {
		out.FontScale = p.FontScale
	}
	if _, ok := densities[p.Density]; ok {
		out.Density = p.Density
	}
	out.ShowProfilePhoto = p.ShowProfilePhoto
	return out
}

type fontScale struct {
	BasePx    int
	HeadingPx int
	SmallPx   int
}

var fontScales = map[string]fontScale{
	"sm": {BasePx: 13, HeadingPx: 20, SmallPx: 11},
	"md": {BasePx: 15, HeadingPx: 24, SmallPx: 13},
	"lg": {BasePx: 17, HeadingPx: 30, SmallPx: 15},
}

// densities is the vertical gap between sections, in pixels.
var densities = map[string]int{
	"comfortable": 24,
	"cozy":        16,
	"compact":     8,
}
