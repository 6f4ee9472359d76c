// Package prompts loads the embedded prompt templates used by intake,
// rewriting, review and the interview chat.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"log"
	"maps"
	"regexp"
	"slices"
	"sync"
)

// Prompt files. Each is a flat JSON object of key to template.
const (
	IntakeFile  = "intake.json"
	RewriteFile = "rewrite.json"
	ReviewFile  = "review.json"
	ChatFile    = "chat.json"
)

//go:embed *.json
var promptFiles embed.FS

// Set is the parsed content of one prompt file.
type Set map[string]string

// Lookup returns the template stored under key.
func (s Set) Lookup(key string) (string, error) {
	tmpl, ok := s[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found", key)
	}
	return tmpl, nil
}

// Keys returns the keys of s in sorted order.
func (s Set) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// sets parses each embedded file at most once.
var sets = map[string]func() (Set, error){
	IntakeFile:  parseOnce(IntakeFile),
	RewriteFile: parseOnce(RewriteFile),
	ReviewFile:  parseOnce(ReviewFile),
	ChatFile:    parseOnce(ChatFile),
}

func parseOnce(filename string) func() (Set, error) {
	return sync.OnceValues(func() (Set, error) {
		raw, err := promptFiles.ReadFile(filename)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filename, err)
		}
		var set Set
		if err := json.Unmarshal(raw, &set); err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
		return set, nil
	})
}

// Load returns the parsed prompt file.
func Load(filename string) (Set, error) {
	parse, ok := sets[filename]
	if !ok {
		return nil, fmt.Errorf("unknown prompt file %q", filename)
	}
	return parse()
}

// Get returns the template stored under key in filename.
func Get(filename, key string) (string, error) {
	set, err := Load(filename)
	if err != nil {
		return "", err
	}
	tmpl, err := set.Lookup(key)
	if err != nil {
		return "", fmt.Errorf("%s: %w", filename, err)
	}
	return tmpl, nil
}

// MustGet is Get for templates the binary ships with. It panics when the
// template is absent.
func MustGet(filename, key string) string {
	tmpl, err := Get(filename, key)
	if err != nil {
		panic("prompts: " + err.Error())
	}
	return tmpl
}

var placeholder = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

// Format fills {{.Key}} placeholders from data. A placeholder without a
// value stays in the output. Values are inserted once and never rescanned.
func Format(tmpl string, data map[string]string) string {
	if len(data) == 0 {
		return tmpl
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		if v, ok := data[placeholder.FindStringSubmatch(m)[1]]; ok {
			return v
		}
		return m
	})
}

// Render is MustGet followed by Format. Placeholders left without a value
// are logged.
func Render(filename, key string, data map[string]string) string {
	tmpl := MustGet(filename, key)
	for _, name := range Placeholders(tmpl) {
		if _, ok := data[name]; !ok {
			log.Printf("[prompts] %s/%s: no value for {{.%s}}", filename, key, name)
		}
	}
	return Format(tmpl, data)
}

// Placeholders lists the distinct placeholder names in tmpl, in order of
// first use.
func Placeholders(tmpl string) []string {
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(tmpl, -1) {
		if !slices.Contains(names, m[1]) {
			names = append(names, m[1])
		}
	}
	return names
}
