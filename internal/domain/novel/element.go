package novel

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// Link is a hyperlink attached to an element. Path is stored relative to the
// project file where possible; FullPath is the resolved absolute path.
type Link struct {
	Path     string
	FullPath string
}

// Field is a custom key/value attribute.
type Field struct {
	Key   string
	Value string
}

// Element carries the attributes shared by every project element and the
// single change hook the owning project installs.
type Element struct {
	id       string
	title    string
	desc     string
	links    []Link
	fields   []Field
	onChange func(id string)
}

// ID returns the element ID.
func (e *Element) ID() string { return e.id }

// SetOnChange installs the change hook, replacing any previous one.
func (e *Element) SetOnChange(fn func(id string)) { e.onChange = fn }

func (e *Element) notify() {
	if e.onChange != nil {
		e.onChange(e.id)
	}
}

func (e *Element) Title() string       { return e.title }
func (e *Element) SetTitle(v string)   { setValue(e, &e.title, v) }
func (e *Element) Desc() string        { return e.desc }
func (e *Element) SetDesc(v string)    { setValue(e, &e.desc, v) }
func (e *Element) Links() []Link       { return slices.Clone(e.links) }
func (e *Element) SetLinks(v []Link)   { setList(e, &e.links, v) }
func (e *Element) Fields() []Field     { return slices.Clone(e.fields) }
func (e *Element) SetFields(v []Field) { setList(e, &e.fields, v) }

// Field returns the value stored under key.
func (e *Element) Field(key string) (string, bool) {
	for _, f := range e.fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// SetField sets key to value, appending a new field if key is absent.
func (e *Element) SetField(key, value string) {
	fields := slices.Clone(e.fields)
	for i, f := range fields {
		if f.Key == key {
			fields[i].Value = value
			e.SetFields(fields)
			return
		}
	}
	e.SetFields(append(fields, Field{Key: key, Value: value}))
}

// setValue assigns v and fires the hook only when the value differs.
func setValue[T comparable](e *Element, dst *T, v T) {
	if *dst == v {
		return
	}
	*dst = v
	e.notify()
}

// setList assigns a copy of v. A nil list ("absent") and an empty list are
// different values.
func setList[T comparable](e *Element, dst *[]T, v []T) {
	if sameList(*dst, v) {
		return
	}
	*dst = slices.Clone(v)
	e.notify()
}

func sameList[T comparable](a, b []T) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return slices.Equal(a, b)
}

func setMap(e *Element, dst *map[string]string, v map[string]string) {
	if (*dst == nil) == (v == nil) && maps.Equal(*dst, v) {
		return
	}
	*dst = maps.Clone(v)
	e.notify()
}

func setDate(e *Element, dst *string, v string) error {
	if v != "" {
		if _, err := time.Parse(time.DateOnly, v); err != nil {
			return ErrInvalidDate
		}
	}
	setValue(e, dst, v)
	return nil
}

func setClock(e *Element, dst *string, v string) error {
	if v != "" {
		if _, err := time.Parse(time.TimeOnly, v); err != nil {
			if _, err := time.Parse("15:04", v); err != nil {
				return ErrInvalidDate
			}
		}
	}
	setValue(e, dst, v)
	return nil
}

// cleanTags trims tags, strips the ";" list separator and drops empty ones,
// keeping nil as nil.
func cleanTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(strings.ReplaceAll(t, ";", "")); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func removeID(list []string, id string) ([]string, bool) {
	i := slices.Index(list, id)
	if i < 0 {
		return list, false
	}
	return slices.Delete(slices.Clone(list), i, i+1), true
}
