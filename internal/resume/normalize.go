// Package resume converts loosely typed structured data into the canonical
// resume model and back, and owns the editing state container.
package resume

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/types"
)

// Key aliases accepted for each canonical field. Language-model output
// drifts between these names, so every lookup goes through them.
var (
	personalKeys    = []string{"personalDetails", "personalInfo", "personal"}
	fullNameKeys    = []string{"fullName", "name"}
	locationKeys    = []string{"location", "address", "city"}
	linkedinKeys    = []string{"linkedinUrl", "linkedInUrl", "linkedin"}
	websiteKeys     = []string{"websiteUrl", "website", "portfolio", "url"}
	experienceKeys  = []string{"experience", "workExperience", "work"}
	jobTitleKeys    = []string{"jobTitle", "position", "title", "role"}
	companyKeys     = []string{"company", "employer", "organization"}
	startKeys       = []string{"startDate", "start", "from"}
	endKeys         = []string{"endDate", "end", "to"}
	currentKeys     = []string{"current", "isCurrent"}
	bulletKeys      = []string{"bullets", "highlights", "responsibilities", "achievements"}
	schoolKeys      = []string{"school", "institution", "university"}
	fieldKeys       = []string{"fieldOfStudy", "field", "major"}
	skillNameKeys   = []string{"name", "skill", "title"}
	linkLabelKeys   = []string{"label", "name", "title"}
	linkURLKeys     = []string{"url", "href", "link"}
	sectionNameKeys = []string{"title", "name", "heading"}
	itemTitleKeys   = []string{"title", "name"}
	itemDescKeys    = []string{"description", "details", "summary"}
)

// folded lists top-level arrays that become custom sections.
var folded = []struct {
	key   string
	id    string
	title string
}{
	{key: "projects", id: "projects", title: "Projects"},
	{key: "certifications", id: "certifications", title: "Certifications"},
	{key: "extras", id: "extras", title: "Additional"},
}

// Normalize builds a typed view of doc. It never fails: missing or
// wrong-typed values read as empty, and list items without an id receive
// one derived from their position.
func Normalize(doc types.Document) *types.ResumeData {
	data := &types.ResumeData{
		Experience:     []types.ExperienceItem{},
		Education:      []types.EducationItem{},
		Skills:         []types.SkillItem{},
		Links:          []types.LinkItem{},
		CustomSections: []types.CustomSection{},
	}
	if doc == nil {
		return data
	}

	if pd := firstObject(doc, personalKeys...); pd != nil {
		data.PersonalDetails = &types.PersonalDetails{
			FullName:    firstString(pd, fullNameKeys...),
			Email:       firstString(pd, "email"),
			Phone:       firstString(pd, "phone", "phoneNumber"),
			Location:    firstString(pd, locationKeys...),
			LinkedInURL: firstString(pd, linkedinKeys...),
			WebsiteURL:  firstString(pd, websiteKeys...),
			Summary:     firstString(pd, "summary"),
		}
	}

	data.Summary = firstString(doc, "summary")
	if data.PersonalDetails != nil && data.PersonalDetails.Summary == "" {
		data.PersonalDetails.Summary = data.Summary
	}

	for i, obj := range objects(firstValue(doc, experienceKeys...)) {
		data.Experience = append(data.Experience, normalizeExperience(obj, i))
	}
	for i, obj := range objects(doc["education"]) {
		data.Education = append(data.Education, normalizeEducation(obj, i))
	}

	data.Skills = normalizeSkills(doc["skills"])
	data.Links = normalizeLinks(doc["links"])

	for i, obj := range objects(doc["customSections"]) {
		data.CustomSections = append(data.CustomSections, normalizeSection(obj, fmt.Sprintf("section-%d", i+1)))
	}
	for _, f := range folded {
		if section, ok := foldSection(doc[f.key], f.id, f.title); ok {
			data.CustomSections = append(data.CustomSections, section)
		}
	}

	if p := firstObject(doc, "presentation"); p != nil {
		data.Presentation = &types.Presentation{
			TemplateID:       firstString(p, "templateId"),
			PrimaryColor:     firstString(p, "primaryColor"),
			AccentColor:      firstString(p, "accentColor"),
			FontScale:        firstString(p, "fontScale"),
			Density:          firstString(p, "density"),
			ShowProfilePhoto: boolean(p, "showProfilePhoto"),
		}
	}

	if r := firstObject(doc, "review"); r != nil {
		data.Review = normalizeReview(r)
	}

	return data
}

// ToDocument serializes a typed view into the loosely typed form stored in
// a session.
func ToDocument(data *types.ResumeData) (types.Document, error) {
	if data == nil {
		return types.Document{}, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resume data: %w", err)
	}
	var doc types.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume data: %w", err)
	}
	return doc, nil
}

// ParseReview reads a review object, returning nil when obj is nil.
func ParseReview(obj map[string]any) *types.Review {
	if obj == nil {
		return nil
	}
	return normalizeReview(obj)
}

func normalizeExperience(obj map[string]any, index int) types.ExperienceItem {
	item := types.ExperienceItem{
		ID:          firstString(obj, "id"),
		JobTitle:    firstString(obj, jobTitleKeys...),
		Company:     firstString(obj, companyKeys...),
		Location:    firstString(obj, "location"),
		StartDate:   firstString(obj, startKeys...),
		EndDate:     firstString(obj, endKeys...),
		Current:     firstBool(obj, currentKeys...),
		Description: text(obj["description"]),
	}
	if item.ID == "" {
		item.ID = fmt.Sprintf("exp-%d", index+1)
	}
	if isPresent(item.EndDate) {
		item.EndDate = ""
		item.Current = true
	}
	if item.Description == "" {
		item.Description = text(firstValue(obj, bulletKeys...))
	}
	return item
}

func normalizeEducation(obj map[string]any, index int) types.EducationItem {
	item := types.EducationItem{
		ID:           firstString(obj, "id"),
		School:       firstString(obj, schoolKeys...),
		Degree:       firstString(obj, "degree", "qualification"),
		FieldOfStudy: firstString(obj, fieldKeys...),
		StartDate:    firstString(obj, startKeys...),
		EndDate:      firstString(obj, endKeys...),
		Current:      firstBool(obj, currentKeys...),
		Description:  text(obj["description"]),
	}
	if item.ID == "" {
		item.ID = fmt.Sprintf("edu-%d", index+1)
	}
	if isPresent(item.EndDate) {
		item.EndDate = ""
		item.Current = true
	}
	return item
}

func normalizeSkills(v any) []types.SkillItem {
	var names []types.SkillItem
	add := func(name, level, id string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		names = append(names, types.SkillItem{ID: id, Name: name, Level: level})
	}

	switch val := v.(type) {
	case string:
		for _, part := range strings.Split(val, ",") {
			add(part, "", "")
		}
	case []any:
		for _, item := range val {
			switch s := item.(type) {
			case string:
				add(s, "", "")
			default:
				if m, ok := asObject(s); ok {
					add(firstString(m, skillNameKeys...), firstString(m, "level"), firstString(m, "id"))
				}
			}
		}
	case map[string]any:
		// Grouped skills such as {"technical": [...], "soft": [...]}.
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			for _, s := range stringList(val[k]) {
				add(s, "", "")
			}
		}
	}

	out := make([]types.SkillItem, 0, len(names))
	for i, s := range names {
		if s.ID == "" {
			s.ID = fmt.Sprintf("skill-%d", i+1)
		}
		out = append(out, s)
	}
	return out
}

func normalizeLinks(v any) []types.LinkItem {
	out := []types.LinkItem{}
	items, _ := v.([]any)
	for i, item := range items {
		var link types.LinkItem
		switch l := item.(type) {
		case string:
			link = types.LinkItem{Label: l, URL: l}
		case map[string]any:
			link = types.LinkItem{
				ID:    firstString(l, "id"),
				Label: firstString(l, linkLabelKeys...),
				URL:   firstString(l, linkURLKeys...),
			}
		default:
			continue
		}
		if link.URL == "" && link.Label == "" {
			continue
		}
		if link.ID == "" {
			link.ID = fmt.Sprintf("link-%d", i+1)
		}
		out = append(out, link)
	}
	return out
}

func normalizeSection(obj map[string]any, fallbackID string) types.CustomSection {
	section := types.CustomSection{
		ID:    firstString(obj, "id"),
		Title: firstString(obj, sectionNameKeys...),
	}
	if section.ID == "" {
		section.ID = fallbackID
	}
	section.Items = normalizeItems(obj["items"], section.ID)
	return section
}

func foldSection(v any, id, title string) (types.CustomSection, bool) {
	items := normalizeItems(v, id)
	if len(items) == 0 {
		return types.CustomSection{}, false
	}
	return types.CustomSection{ID: id, Title: title, Items: items}, true
}

func normalizeItems(v any, sectionID string) []types.CustomItem {
	out := []types.CustomItem{}
	list, _ := v.([]any)
	for i, raw := range list {
		var item types.CustomItem
		switch it := raw.(type) {
		case string:
			item.Title = strings.TrimSpace(it)
		case map[string]any:
			item.ID = firstString(it, "id")
			item.Title = firstString(it, itemTitleKeys...)
			item.Description = text(firstValue(it, itemDescKeys...))
		default:
			continue
		}
		if item.Title == "" && item.Description == "" {
			continue
		}
		if item.ID == "" {
			item.ID = fmt.Sprintf("%s-item-%d", sectionID, i+1)
		}
		out = append(out, item)
	}
	return out
}

func normalizeReview(obj map[string]any) *types.Review {
	review := &types.Review{
		OverallScore:  integer(obj["overallScore"]),
		SummaryRating: firstString(obj, "summaryRating"),
		Strengths:     stringList(obj["strengths"]),
		WeakAreas:     stringList(obj["weakAreas"]),
		QuickTips:     stringList(obj["quickTips"]),
	}
	if ts := firstString(obj, "createdAt"); ts != "" {
		if t, err := time.Parse(time.RFC3339Nano, ts); err == nil {
			review.CreatedAt = t
		}
	}
	return review
}

// firstValue returns the first non-nil value among keys.
func firstValue(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func firstObject(obj map[string]any, keys ...string) map[string]any {
	for _, k := range keys {
		if m, ok := asObject(obj[k]); ok {
			return m
		}
	}
	return nil
}

func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case types.Document:
		return m, true
	}
	return nil, false
}

// firstString returns the first non-blank scalar among keys, trimmed.
func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := scalar(obj[k]); s != "" {
			return s
		}
	}
	return ""
}

func firstBool(obj map[string]any, keys ...string) bool {
	for _, k := range keys {
		if boolean(obj, k) {
			return true
		}
	}
	return false
}

func boolean(obj map[string]any, key string) bool {
	switch v := obj[key].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	}
	return false
}

func scalar(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case int:
		return strconv.Itoa(val)
	}
	return ""
}

func integer(v any) int {
	switch val := v.(type) {
	case float64:
		return int(math.Round(val))
	case int:
		return val
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(val))
		return n
	}
	return 0
}

// text reads a description that may be a string or a list of bullet strings.
func text(v any) string {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.Join(stringList(v), "\n")
}

// stringList collects the string elements of a list, trimmed and non-blank.
func stringList(v any) []string {
	out := []string{}
	list, _ := v.([]any)
	for _, item := range list {
		if s := scalar(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func objects(v any) []map[string]any {
	list, _ := v.([]any)
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := asObject(item); ok {
			out = append(out, m)
		}
	}
	return out
}

func isPresent(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present", "current", "now", "ongoing":
		return true
	}
	return false
}
