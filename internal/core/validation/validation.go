// Package validation enforces the hard structural rules that gate save,
// import and export. Every violation is reported, not just the first.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/example/storyforge/internal/core/narrative"
)

// ErrInvalid matches any *Error via errors.Is.
var ErrInvalid = errors.New("validation failed")

// Finding is a single rule violation located by a JSON-style path.
type Finding struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s %s", f.Path, f.Message)
}

// Error enumerates all findings for one record.
type Error struct {
	Subject  string
	Findings []Finding
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Findings))
	for i, f := range e.Findings {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s is invalid (%d problems): %s", e.Subject, len(e.Findings), strings.Join(parts, "; "))
}

// Is makes errors.Is(err, ErrInvalid) true.
func (e *Error) Is(target error) bool {
	return target == ErrInvalid
}

// Validator checks episodes and campaigns.
type Validator struct {
	v *validator.Validate
}

// New creates a Validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	return &Validator{v: v}
}

// ValidateEpisode returns *Error listing every violation, or nil.
// Rules: id and title required; at least one scene; a start scene; each
// scene's id present and equal to its key; text and choices are lists;
// each choice has text and a target.
func (val *Validator) ValidateEpisode(ep *narrative.Episode) error {
	if ep == nil {
		return &Error{Subject: "episode", Findings: []Finding{{Path: "episode", Message: "is required"}}}
	}

	findings := val.structFindings(ep, "")

	if ep.Scenes.Len() == 0 {
		findings = append(findings, Finding{Path: "scenes", Message: "must contain at least one scene"})
	} else if !ep.Scenes.Has(narrative.StartSceneID) {
		findings = append(findings, Finding{Path: "scenes." + narrative.StartSceneID, Message: "is required (entry scene missing)"})
	}

	ep.Scenes.Each(func(key string, sc narrative.Scene) bool {
		prefix := "scenes." + key + "."
		findings = append(findings, val.structFindings(sc, prefix)...)
		if sc.ID != "" && sc.ID != key {
			findings = append(findings, Finding{
				Path:    prefix + "id",
				Message: fmt.Sprintf("must match its key %q (got %q)", key, sc.ID),
			})
		}
		return true
	})

	return result(subject("episode", ep.ID), findings)
}

// ValidateCampaign returns *Error listing every violation, or nil.
// Rules: id and title required; episodes is a list; each entry names an
// episode and has a non-negative order.
func (val *Validator) ValidateCampaign(c *narrative.Campaign) error {
	if c == nil {
		return &Error{Subject: "campaign", Findings: []Finding{{Path: "campaign", Message: "is required"}}}
	}
	return result(subject("campaign", c.ID), val.structFindings(c, ""))
}

func (val *Validator) structFindings(s any, prefix string) []Finding {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []Finding{{Path: strings.TrimSuffix(prefix, "."), Message: err.Error()}}
	}

	findings := make([]Finding, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		findings = append(findings, Finding{
			Path:    prefix + trimRoot(fe.Namespace()),
			Message: message(fe),
		})
	}
	return findings
}

// trimRoot drops the leading struct type name from a validator namespace.
func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		if fe.Kind() == reflect.Slice {
			return "must be a list"
		}
		return "is required"
	case "gte":
		return fmt.Sprintf("must be >= %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}

func subject(kind, id string) string {
	if id == "" {
		return kind
	}
	return fmt.Sprintf("%s %s", kind, id)
}

func result(subject string, findings []Finding) error {
	if len(findings) == 0 {
		return nil
	}
	return &Error{Subject: subject, Findings: findings}
}
