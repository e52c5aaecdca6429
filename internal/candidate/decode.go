package candidate

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Record is a loosely typed candidate document as it comes out of a store.
type Record map[string]any

const (
	fieldSkills     = "Skills"
	fieldExperience = "Experience"
	fieldName       = "Name"
)

var idKeys = []string{"_id", "id"}

// Decode converts a store record into a Candidate. Skills may be given either as a list
// or as a single pre-joined string; absent values decode to empty.
func Decode(index int, rec Record) (Candidate, error) {
	c := Candidate{ID: recordID(index, rec)}

	if name, ok := rec.lookup(fieldName); ok && name != nil {
		c.Name = strings.TrimSpace(valueAsString(name))
	}

	skillsValue, _ := rec.lookup(fieldSkills)
	skills, err := decodeSkills(skillsValue)
	if err != nil {
		return Candidate{}, &FieldError{Index: index, ID: c.ID, Field: fieldSkills, Err: err}
	}
	c.Skills = skills

	experienceValue, _ := rec.lookup(fieldExperience)
	experience, err := decodeExperience(experienceValue)
	if err != nil {
		return Candidate{}, &FieldError{Index: index, ID: c.ID, Field: fieldExperience, Err: err}
	}
	c.Experience = experience

	return c, nil
}

// DecodeAll decodes records in order and stops at the first malformed one.
func DecodeAll(records []Record) (*Corpus, error) {
	items := make([]Candidate, 0, len(records))
	for i, rec := range records {
		c, err := Decode(i, rec)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}

	return NewCorpus(items), nil
}

func decodeSkills(v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}

	var raw []string
	cfg := &mapstructure.DecoderConfig{
		DecodeHook: joinedSkillsHook,
		Result:     &raw,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(v); err != nil {
		return nil, err
	}

	skills := make([]string, 0, len(raw))
	for _, s := range raw {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}

	return skills, nil
}

// joinedSkillsHook lifts a pre-joined skills string into a single element list.
func joinedSkillsHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice {
		return data, nil
	}

	s := strings.TrimSpace(reflect.ValueOf(data).String())
	if s == "" {
		return []string{}, nil
	}

	return []string{s}, nil
}

func decodeExperience(v any) ([]ExperienceEntry, error) {
	if v == nil {
		return nil, nil
	}

	var entries []ExperienceEntry
	cfg := &mapstructure.DecoderConfig{
		Result:  &entries,
		TagName: "mapstructure",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(v); err != nil {
		return nil, err
	}

	return entries, nil
}

// lookup finds a key, preferring an exact match and then a case-insensitive one
// in sorted key order so the result does not depend on map iteration.
func (r Record) lookup(key string) (any, bool) {
	if v, ok := r[key]; ok {
		return v, true
	}

	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if strings.EqualFold(k, key) {
			return r[k], true
		}
	}

	return nil, false
}

func recordID(index int, rec Record) string {
	for _, key := range idKeys {
		if v, ok := rec.lookup(key); ok && v != nil {
			if id := strings.TrimSpace(valueAsString(v)); id != "" {
				return id
			}
		}
	}

	return fmt.Sprintf("#%d", index)
}

func valueAsString(v any) string {
	switch typed := v.(type) {
	case string:
		return typed
	case fmt.Stringer:
		return typed.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
