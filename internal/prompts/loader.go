// Package prompts holds the model prompt templates. Each embedded JSON file
// maps a prompt key to its template text.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// library maps file name to that file's prompts
type library map[string]map[string]string

// load parses every embedded file once
var load = sync.OnceValues(func() (library, error) {
	return parseFiles(promptFiles)
})

func parseFiles(fsys fs.FS) (library, error) {
	names, err := fs.Glob(fsys, "*.json")
	if err != nil {
		return nil, err
	}

	lib := make(library, len(names))
	for _, name := range names {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read prompt file %s: %w", name, err)
		}
		var prompts map[string]string
		if err := json.Unmarshal(data, &prompts); err != nil {
			return nil, fmt.Errorf("failed to parse prompt file %s: %w", name, err)
		}
		lib[name] = prompts
	}
	return lib, nil
}

// Get returns the template stored under key in filename, e.g.
// Get("analysis.json", "resume-analysis").
func Get(filename, key string) (string, error) {
	lib, err := load()
	if err != nil {
		return "", err
	}
	return lib.get(filename, key)
}

func (l library) get(filename, key string) (string, error) {
	prompts, ok := l[filename]
	if !ok {
		return "", fmt.Errorf("prompt file %s not found", filename)
	}
	prompt, ok := prompts[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for prompts the binary cannot run without. It panics if the
// prompt is missing.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Keys returns the prompt keys in filename, sorted.
func Keys(filename string) ([]string, error) {
	lib, err := load()
	if err != nil {
		return nil, err
	}
	prompts, ok := lib[filename]
	if !ok {
		return nil, fmt.Errorf("prompt file %s not found", filename)
	}
	return slices.Sorted(maps.Keys(prompts)), nil
}

// Format replaces {{.Key}} placeholders with values from data in a single
// pass, so placeholder text inside a value is left as is.
func Format(template string, data map[string]string) string {
	pairs := make([]string, 0, 2*len(data))
	for _, key := range slices.Sorted(maps.Keys(data)) {
		pairs = append(pairs, "{{."+key+"}}", data[key])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
