// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"fmt"
	"sort"
	"sync"

	"carvel.dev/liquid/pkg/errs"
	"carvel.dev/liquid/pkg/runtime"
)

type Registry struct {
	mu      sync.RWMutex
	tags    map[string]TagParser
	filters map[string]Filter
	frozen  bool
}

var _ runtime.FilterSource = &Registry{}

func New() *Registry {
	return &Registry{tags: map[string]TagParser{}, filters: map[string]Filter{}}
}

func (r *Registry) RegisterTag(tag TagParser) error {
	return r.addTag(tag, false)
}

// OverrideTag registers tag, replacing any tag with the same name.
func (r *Registry) OverrideTag(tag TagParser) error {
	return r.addTag(tag, true)
}

func (r *Registry) RegisterFilter(filter Filter) error {
	return r.addFilter(filter, false)
}

// OverrideFilter registers filter, replacing any filter with the same name.
func (r *Registry) OverrideFilter(filter Filter) error {
	return r.addFilter(filter, true)
}

func (r *Registry) addTag(tag TagParser, override bool) error {
	refl := tag.Reflection()
	if len(refl.Name) == 0 {
		return fmt.Errorf("Expected tag to have a name")
	}
	if refl.Raw && refl.EndTag != BlockEndTag(refl.Name) {
		return fmt.Errorf("Expected raw tag '%s' to use end tag '%s'", refl.Name, BlockEndTag(refl.Name))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errs.ErrFrozen
	}
	if _, found := r.tags[refl.Name]; found && !override {
		return &errs.DuplicateNameError{Kind: "tag", Name: refl.Name}
	}
	r.tags[refl.Name] = tag
	return nil
}

func (r *Registry) addFilter(filter Filter, override bool) error {
	name := filter.Reflection().Name
	if len(name) == 0 {
		return fmt.Errorf("Expected filter to have a name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		return errs.ErrFrozen
	}
	if _, found := r.filters[name]; found && !override {
		return &errs.DuplicateNameError{Kind: "filter", Name: name}
	}
	r.filters[name] = filter
	return nil
}

func (r *Registry) Tag(name string) (TagParser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tag, found := r.tags[name]
	return tag, found
}

func (r *Registry) Filter(name string) (Filter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	filter, found := r.filters[name]
	return filter, found
}

// RuntimeFilter resolves late-bound filters during rendering.
func (r *Registry) RuntimeFilter(name string) (runtime.Filter, bool) {
	filter, found := r.Filter(name)
	if !found {
		return nil, false
	}
	return filter, true
}

// Closes reports whether name is the end tag or a marker of some
// registered block tag.
func (r *Registry) Closes(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, tag := range r.tags {
		refl := tag.Reflection()
		if refl.EndTag == name || refl.HasMarker(name) {
			return true
		}
	}
	return false
}

func (r *Registry) TagNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.tags)
}

func (r *Registry) FilterNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.filters)
}

// RawTags lists the tags whose bodies the lexer must not tokenize.
func (r *Registry) RawTags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []string
	for name, tag := range r.tags {
		if tag.Reflection().Raw {
			result = append(result, name)
		}
	}
	sort.Strings(result)
	return result
}

// Freeze makes the registry read-only. Freezing twice is allowed.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

func (r *Registry) Frozen() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frozen
}

// Clone returns an unfrozen registry with the same tags and filters.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := New()
	for name, tag := range r.tags {
		result.tags[name] = tag
	}
	for name, filter := range r.filters {
		result.filters[name] = filter
	}
	return result
}

func sortedKeys[V any](m map[string]V) []string {
	result := make([]string, 0, len(m))
	for key := range m {
		result = append(result, key)
	}
	sort.Strings(result)
	return result
}
