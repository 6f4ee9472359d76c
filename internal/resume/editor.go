package resume

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/types"
)

// ItemNotFoundError is returned when a mutation targets an unknown item id.
type ItemNotFoundError struct {
	List string
	ID   string
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("%s item not found: %s", e.List, e.ID)
}

// IndexError is returned when a reorder index is out of range.
type IndexError struct {
	List  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.List, e.Index, e.Len)
}

// Editor owns one resume being edited. All list mutations build a new
// slice, so a Snapshot taken earlier never observes later changes.
type Editor struct {
	mu        sync.RWMutex
	data      types.ResumeData
	listeners map[int]func(types.ResumeData)
	nextID    int
}

// NewEditor starts an editor from data. A nil value starts empty.
func NewEditor(data *types.ResumeData) *Editor {
	e := &Editor{listeners: make(map[int]func(types.ResumeData))}
	if data != nil {
		e.data = *data
	}
	if e.data.PersonalDetails != nil {
		pd := *e.data.PersonalDetails
		e.data.PersonalDetails = &pd
	}
	return e
}

// Snapshot returns the current state.
func (e *Editor) Snapshot() types.ResumeData {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.data
}

// Subscribe registers fn to receive every new state. The returned function
// removes the subscription.
func (e *Editor) Subscribe(fn func(types.ResumeData)) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.listeners, id)
		e.mu.Unlock()
	}
}

// mutate applies fn under the write lock, then notifies listeners outside it.
func (e *Editor) mutate(fn func(d *types.ResumeData) error) error {
	e.mu.Lock()
	next := e.data
	if err := fn(&next); err != nil {
		e.mu.Unlock()
		return err
	}
	e.data = next
	listeners := make([]func(types.ResumeData), 0, len(e.listeners))
	for _, l := range e.listeners {
		listeners = append(listeners, l)
	}
	e.mu.Unlock()

	for _, l := range listeners {
		l(next)
	}
	return nil
}

// UpdatePersonal replaces the personal details block.
func (e *Editor) UpdatePersonal(pd types.PersonalDetails) {
	_ = e.mutate(func(d *types.ResumeData) error {
		d.PersonalDetails = &pd
		return nil
	})
}

// UpdateSummary sets the personal summary, creating the personal block if needed.
func (e *Editor) UpdateSummary(summary string) {
	_ = e.mutate(func(d *types.ResumeData) error {
		var pd types.PersonalDetails
		if d.PersonalDetails != nil {
			pd = *d.PersonalDetails
		}
		pd.Summary = summary
		d.PersonalDetails = &pd
		d.Summary = ""
		return nil
	})
}

// AddExperience appends item and returns its id.
func (e *Editor) AddExperience(item types.ExperienceItem) string {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	_ = e.mutate(func(d *types.ResumeData) error {
		d.Experience = appended(d.Experience, item)
		return nil
	})
	return item.ID
}

// UpdateExperience replaces the entry with the given id. The id is kept.
func (e *Editor) UpdateExperience(id string, item types.ExperienceItem) error {
	return e.mutate(func(d *types.ResumeData) error {
		idx := indexOf(d.Experience, id, func(x types.ExperienceItem) string { return x.ID })
		if idx < 0 {
			return &ItemNotFoundError{List: "experience", ID: id}
		}
		item.ID = id
		d.Experience = replaced(d.Experience, idx, item)
		return nil
	})
}

// RemoveExperience deletes the entry with the given id.
func (e *Editor) RemoveExperience(id string) error {
	return e.mutate(func(d *types.ResumeData) error {
		idx := indexOf(d.Experience, id, func(x types.ExperienceItem) string { return x.ID })
		if idx < 0 {
			return &ItemNotFoundError{List: "experience", ID: id}
		}
		d.Experience = removed(d.Experience, idx)
		return nil
	})
}

// ReorderExperience moves the entry at from to position to.
func (e *Editor) ReorderExperience(from, to int) error {
	return e.mutate(func(d *types.ResumeData) error {
		out, err := moved("experience", d.Experience, from, to)
		if err != nil {
			return err
		}
		d.Experience = out
		return nil
	})
}

// AddEducation appends item and returns its id.
func (e *Editor) AddEducation(item types.EducationItem) string {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	_ = e.mutate(func(d *types.ResumeData) error {
		d.Education = appended(d.Education, item)
		return nil
	})
	return item.ID
}

// UpdateEducation replaces the entry with the given id.
func (e *Editor) UpdateEducation(id string, item types.EducationItem) error {
	return e.mutate(func(d *types.ResumeData) error {
		idx := indexOf(d.Education, id, func(x types.EducationItem) string { return x.ID })
		if idx < 0 {
			return &ItemNotFoundError{List: "education", ID: id}
		}
		item.ID = id
		d.Education = replaced(d.Education, idx, item)
		return nil
	})
}

// RemoveEducation deletes the entry with the given id.
func (e *Editor) RemoveEducation(id string) error {
	return e.mutate(func(d *types.ResumeData) error {
		idx := indexOf(d.Education, id, func(x types.EducationItem) string { return x.ID })
		if idx < 0 {
			return &ItemNotFoundError{List: "education", ID: id}
		}
		d.Education = removed(d.Education, idx)
		return nil
	})
}

// ReorderEducation moves the entry at from to position to.
func (e *Editor) ReorderEducation(from, to int) error {
	return e.mutate(func(d *types.ResumeData) error {
		out, err := moved("education", d.Education, from, to)
		if err != nil {
			return err
		}
		d.Education = out
		return nil
	})
}

// AddSkill appends a skill and returns its id.
func (e *Editor) AddSkill(item types.SkillItem) string {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	_ = e.mutate(func(d *types.ResumeData) error {
		d.Skills = appended(d.Skills, item)
		return nil
	})
	return item.ID
}

// UpdateSkill replaces the skill with the given id.
func (e *Editor) UpdateSkill(id string, item types.SkillItem) error {
	return e.mutate(func(d *types.ResumeData) error {
		idx := indexOf(d.Skills, id, func(x types.SkillItem) string { return x.ID })
		if idx < 0 {
			return &ItemNotFoundError{List: "skills", ID: id}
		}
		item.ID = id
		d.Skills = replaced(d.Skills, idx, item)
		return nil
	})
}

// RemoveSkill deletes the skill with the given id.
func (e *Editor) RemoveSkill(id string) error {
	return e.mutate(func(d *types.ResumeData) error {
		idx := indexOf(d.Skills, id, func(x types.SkillItem) string { return x.ID })
		if idx < 0 {
			return &ItemNotFoundError{List: "skills", ID: id}
		}
		d.Skills = removed(d.Skills, idx)
		return nil
	})
}

// AddLink appends a link and returns its id.
func (e *Editor) AddLink(item types.LinkItem) string {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	_ = e.mutate(func(d *types.ResumeData) error {
		d.Links = appended(d.Links, item)
		return nil
	})
	return item.ID
}

// UpdateLink replaces the link with the given id.
func (e *Editor) UpdateLink(id string, item types.LinkItem) error {
	return e.mutate(func(d *types.ResumeData) error {
		idx := indexOf(d.Links, id, func(x types.LinkItem) string { return x.ID })
		if idx < 0 {
			return &ItemNotFoundError{List: "links", ID: id}
		}
		item.ID = id
		d.Links = replaced(d.Links, idx, item)
		return nil
	})
}

// RemoveLink deletes the link with the given id.
func (e *Editor) RemoveLink(id string) error {
	return e.mutate(func(d *types.ResumeData) error {
		idx := indexOf(d.Links, id, func(x types.LinkItem) string { return x.ID })
		if idx < 0 {
			return &ItemNotFoundError{List: "links", ID: id}
		}
		d.Links = removed(d.Links, idx)
		return nil
	})
}

// AddCustomSection appends a section and returns its id.
func (e *Editor) AddCustomSection(section types.CustomSection) string {
	if section.ID == "" {
		section.ID = uuid.NewString()
	}
	_ = e.mutate(func(d *types.ResumeData) error {
		d.CustomSections = appended(d.CustomSections, section)
		return nil
	})
	return section.ID
}

// UpdateCustomSection replaces the section with the given id.
func (e *Editor) UpdateCustomSection(id string, section types.CustomSection) error {
	return e.mutate(func(d *types.ResumeData) error {
		idx := indexOf(d.CustomSections, id, func(x types.CustomSection) string { return x.ID })
		if idx < 0 {
			return &ItemNotFoundError{List: "customSections", ID: id}
		}
		section.ID = id
		d.CustomSections = replaced(d.CustomSections, idx, section)
		return nil
	})
}

// RemoveCustomSection deletes the section with the given id.
func (e *Editor) RemoveCustomSection(id string) error {
	return e.mutate(func(d *types.ResumeData) error {
		idx := indexOf(d.CustomSections, id, func(x types.CustomSection) string { return x.ID })
		if idx < 0 {
			return &ItemNotFoundError{List: "customSections", ID: id}
		}
		d.CustomSections = removed(d.CustomSections, idx)
		return nil
	})
}

func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

func appended[T any](items []T, item T) []T {
	out := make([]T, len(items), len(items)+1)
	copy(out, items)
	return append(out, item)
}

func replaced[T any](items []T, idx int, item T) []T {
	out := make([]T, len(items))
	copy(out, items)
	out[idx] = item
	return out
}

func removed[T any](items []T, idx int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:idx]...)
	return append(out, items[idx+1:]...)
}

func moved[T any](list string, items []T, from, to int) ([]T, error) {
	if from < 0 || from >= len(items) {
		return nil, &IndexError{List: list, Index: from, Len: len(items)}
	}
	if to < 0 || to >= len(items) {
		return nil, &IndexError{List: list, Index: to, Len: len(items)}
	}
	out := removed(items, from)
	item := items[from]
	out = append(out[:to], append([]T{item}, out[to:]...)...)
	return out, nil
}
