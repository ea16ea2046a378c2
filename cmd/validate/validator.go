package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jwebster45206/dialogue-engine/pkg/dialogue"
	"github.com/jwebster45206/dialogue-engine/pkg/directive"
	"github.com/jwebster45206/dialogue-engine/pkg/portrait"
	"github.com/jwebster45206/dialogue-engine/pkg/story"
	"gopkg.in/yaml.v3"
)

// ScriptValidator collects problems found in a script for one mode.
type ScriptValidator struct {
	Mode      dialogue.Mode
	Portraits *portrait.Data
	Source    *dialogue.Source
	Strict    bool

	errors   []string
	warnings []string
}

func (v *ScriptValidator) LoadPortraits(path string) error {
	var d portrait.Data
	if err := decodeFile(path, &d); err != nil {
		return err
	}
	if err := d.Validate(); err != nil {
		return fmt.Errorf("portrait data %s: %w", path, err)
	}
	v.Portraits = &d
	return nil
}

func (v *ScriptValidator) LoadSource(path string) error {
	var s dialogue.Source
	if err := decodeFile(path, &s); err != nil {
		return err
	}
	v.Source = &s
	return nil
}

// ValidateFile reads and checks a script file.
func (v *ScriptValidator) ValidateFile(filename string) error {
	var s story.Script
	if err := decodeFile(filename, &s); err != nil {
		return err
	}
	return v.ValidateScript(&s)
}

// ValidateScript checks the graph and every tag of s. Warnings never fail
// validation unless Strict is set.
func (v *ScriptValidator) ValidateScript(s *story.Script) error {
	v.errors = nil
	v.warnings = nil

	if err := s.Validate(); err != nil {
		for _, msg := range strings.Split(err.Error(), "\n") {
			v.addError(msg)
		}
	}

	for _, name := range s.KnotNames() {
		knot := s.Knots[name]
		if len(knot.Lines) == 0 && len(knot.Choices) > 0 {
			v.addWarning(fmt.Sprintf("knot %q has choices but no lines; reaching it ends the dialogue", name))
		}
		for i, line := range knot.Lines {
			where := fmt.Sprintf("knot %q line %d", name, i)
			directives, failures := directive.ParseAll(line.Tags)
			for _, f := range failures {
				v.addError(fmt.Sprintf("%s: %v", where, f.Err))
			}
			for _, d := range directives {
				v.validateDirective(where, d)
			}
		}
	}

	problems := v.errors
	if v.Strict {
		problems = append(problems, v.warnings...)
	}
	if len(problems) > 0 {
		return fmt.Errorf("validation errors:\n%s", strings.Join(indent(problems), "\n"))
	}
	return nil
}

func (v *ScriptValidator) Warnings() []string {
	return v.warnings
}

func (v *ScriptValidator) validateDirective(where string, d directive.Directive) {
	if !v.Mode.Recognizes(d.Key) {
		v.addError(fmt.Sprintf("%s: %q is not recognized in %s mode", where, d.Key, v.Mode))
		return
	}

	switch d.Key {
	case directive.Event:
		v.validateEvent(where, d)
	case directive.Emotion:
		if _, err := portrait.ParseEmotion(d.Value); err != nil {
			v.addError(fmt.Sprintf("%s: %v", where, err))
		}
	case directive.Speaker, directive.Start, directive.Active:
		if v.Portraits.Empty() {
			return
		}
		if _, ok := v.Portraits.Lookup(d.Value); !ok {
			v.addWarning(fmt.Sprintf("%s: no portrait set for %q; the default set is used", where, d.Value))
		}
	case directive.Side, directive.Enter, directive.Exit, directive.Flip:
		if d.Value != "left" && d.Value != "right" {
			v.addError(fmt.Sprintf("%s: %s=%q, want right or left", where, d.Key, d.Value))
		}
	case directive.Move:
		point, err := strconv.ParseFloat(d.Value, 64)
		if err != nil || point < 0 || point > 1 {
			v.addError(fmt.Sprintf("%s: move=%q, want a number in [0,1]", where, d.Value))
		}
	case directive.Show:
		if d.Value != "show" && d.Value != "hide" {
			v.addError(fmt.Sprintf("%s: show=%q, want show or hide", where, d.Value))
		}
	}
}

func (v *ScriptValidator) validateEvent(where string, d directive.Directive) {
	index, err := strconv.Atoi(d.Value)
	if err != nil || index < 0 {
		v.addError(fmt.Sprintf("%s: event=%q, want a non-negative integer", where, d.Value))
		return
	}
	if v.Source != nil && index >= len(v.Source.Events) {
		v.addError(fmt.Sprintf("%s: event %d out of range, source %q declares %d", where, index, v.Source.ID, len(v.Source.Events)))
	}
}

func (v *ScriptValidator) addError(msg string) {
	v.errors = append(v.errors, msg)
}

func (v *ScriptValidator) addWarning(msg string) {
	v.warnings = append(v.warnings, msg)
}

func indent(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = "  - " + l
	}
	return out
}

// decodeFile reads YAML or strict JSON depending on the file extension.
func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("file %s contains invalid YAML: %w", path, err)
		}
	case ".json":
		if !json.Valid(data) {
			return fmt.Errorf("file %s contains invalid JSON", path)
		}
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(v); err != nil {
			return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported file extension for %s: want .json, .yaml or .yml", path)
	}
	return nil
}
