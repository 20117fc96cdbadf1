// Package types provides type definitions for structured data used throughout the governance assessor.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// QuestionType discriminates how a question's answer is interpreted
type QuestionType string

// Known question types. Anything else is scored like a document review.
const (
	QuestionTypeBoolean        QuestionType = "boolean"
	QuestionTypeScale          QuestionType = "scale"
	QuestionTypePercentage     QuestionType = "percentage"
	QuestionTypeDocumentReview QuestionType = "document-review"
	QuestionTypeOther          QuestionType = "other"
)

// IsKnown reports whether t is one of the declared question types
func (t QuestionType) IsKnown() bool {
	switch t {
	case QuestionTypeBoolean, QuestionTypeScale, QuestionTypePercentage, QuestionTypeDocumentReview, QuestionTypeOther:
		return true
	}
	return false
}

// DefaultQuestionWeight applies when a question omits its weight
const DefaultQuestionWeight = 1.0

// DefaultStandardWeight applies when a standard omits its weight
const DefaultStandardWeight = 10.0

// Answer is the typed value of an answered question. A nil Answer means unanswered.
type Answer interface {
	answer()
	value() any
}

// BoolAnswer answers a boolean question
type BoolAnswer bool

// ScaleAnswer answers a 1-5 scale question
type ScaleAnswer int

// PercentageAnswer answers a 0-100 percentage question
type PercentageAnswer float64

// EvidenceAnswer answers a document-review or free-form question.
// Provided records whether the raw answer was truthy.
type EvidenceAnswer struct {
	Provided bool
	Note     string
}

func (BoolAnswer) answer()       {}
func (ScaleAnswer) answer()      {}
func (PercentageAnswer) answer() {}
func (EvidenceAnswer) answer()   {}

func (a BoolAnswer) value() any       { return bool(a) }
func (a ScaleAnswer) value() any      { return int(a) }
func (a PercentageAnswer) value() any { return float64(a) }
func (a EvidenceAnswer) value() any {
	if a.Provided && a.Note != "" {
		return a.Note
	}
	return a.Provided
}

// Question is a single assessment question owned by a Standard
type Question struct {
	ID              string       `json:"id"`
	Text            string       `json:"text" validate:"required"`
	Type            QuestionType `json:"type"`
	Answer          Answer       `json:"-"`
	Weight          *float64     `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Importance      int          `json:"importance,omitempty" validate:"gte=0,lte=5"`
	IsNotApplicable bool         `json:"isNotApplicable,omitempty"`
	Evidence        []string     `json:"evidence,omitempty"`
	Notes           string       `json:"notes,omitempty"`
}

// Standard is a named group of questions covering one governance topic
type Standard struct {
	ID          string     `json:"id"`
	Name        string     `json:"name" validate:"required"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	Weight      *float64   `json:"weight,omitempty" validate:"omitempty,gte=0"`
	Questions   []Question `json:"questions" validate:"dive"`
}

// Project is the root aggregate of an assessment
type Project struct {
	ID                   string     `json:"id,omitempty"`
	Name                 string     `json:"name" validate:"required"`
	Description          string     `json:"description,omitempty"`
	Standards            []Standard `json:"standards" validate:"dive"`
	OverallMaturityScore *float64   `json:"overallMaturityScore,omitempty"`
}

// EffectiveWeight returns the question weight, defaulting to DefaultQuestionWeight
func (q *Question) EffectiveWeight() float64 {
	if q.Weight == nil {
		return DefaultQuestionWeight
	}
	return *q.Weight
}

// IsAnswered reports whether the question carries an answer
func (q *Question) IsAnswered() bool {
	return q.Answer != nil
}

// EffectiveWeight returns the standard weight, defaulting to DefaultStandardWeight
func (s *Standard) EffectiveWeight() float64 {
	if s.Weight == nil {
		return DefaultStandardWeight
	}
	return *s.Weight
}

// Validate validates the Project using the validator.
func (p *Project) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// Clone returns a deep copy of the project so callers can score a settled snapshot.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	out := *p
	if p.OverallMaturityScore != nil {
		v := *p.OverallMaturityScore
		out.OverallMaturityScore = &v
	}
	if p.Standards != nil {
		out.Standards = make([]Standard, len(p.Standards))
		for i, s := range p.Standards {
			out.Standards[i] = s.clone()
		}
	}
	return &out
}

func (s Standard) clone() Standard {
	out := s
	if s.Weight != nil {
		w := *s.Weight
		out.Weight = &w
	}
	if s.Questions != nil {
		out.Questions = make([]Question, len(s.Questions))
		for i, q := range s.Questions {
			cq := q
			if q.Weight != nil {
				w := *q.Weight
				cq.Weight = &w
			}
			if q.Evidence != nil {
				cq.Evidence = append([]string(nil), q.Evidence...)
			}
			out.Questions[i] = cq
		}
	}
	return out
}

// questionJSON mirrors Question with the raw answer kept undecoded
type questionJSON struct {
	ID              string          `json:"id"`
	Text            string          `json:"text"`
	Type            QuestionType    `json:"type"`
	Answer          json.RawMessage `json:"answer,omitempty"`
	Weight          *float64        `json:"weight,omitempty"`
	Importance      int             `json:"importance,omitempty"`
	IsNotApplicable bool            `json:"isNotApplicable,omitempty"`
	Evidence        []string        `json:"evidence,omitempty"`
	Notes           string          `json:"notes,omitempty"`
}

// MarshalJSON writes the answer back as a plain JSON value
func (q Question) MarshalJSON() ([]byte, error) {
	out := questionJSON{
		ID:              q.ID,
		Text:            q.Text,
		Type:            q.Type,
		Weight:          q.Weight,
		Importance:      q.Importance,
		IsNotApplicable: q.IsNotApplicable,
		Evidence:        q.Evidence,
		Notes:           q.Notes,
	}
	if q.Answer != nil {
		raw, err := json.Marshal(q.Answer.value())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal answer for question %s: %w", q.ID, err)
		}
		out.Answer = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON resolves the raw answer through the question type
func (q *Question) UnmarshalJSON(data []byte) error {
	var in questionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	answer, err := DecodeAnswer(in.Type, in.Answer)
	if err != nil {
		return fmt.Errorf("failed to decode answer for question %s: %w", in.ID, err)
	}

	*q = Question{
		ID:              in.ID,
		Text:            in.Text,
		Type:            in.Type,
		Answer:          answer,
		Weight:          in.Weight,
		Importance:      in.Importance,
		IsNotApplicable: in.IsNotApplicable,
		Evidence:        in.Evidence,
		Notes:           in.Notes,
	}
	return nil
}

// DecodeAnswer converts a raw JSON answer into the variant selected by the question type.
// Missing, null and empty-string answers decode to nil (unanswered).
func DecodeAnswer(qType QuestionType, raw json.RawMessage) (Answer, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	if s, ok := v.(string); ok && s == "" {
		return nil, nil
	}

	switch qType {
	case QuestionTypeBoolean:
		b, ok := v.(bool)
		return BoolAnswer(ok && b), nil
	case QuestionTypeScale:
		n := toNumber(v)
		if n == 0 {
			n = 1
		}
		return ScaleAnswer(int(n)), nil
	case QuestionTypePercentage:
		return PercentageAnswer(toNumber(v)), nil
	default:
		return toEvidence(v), nil
	}
}

// toNumber coerces a decoded JSON value to a number, returning 0 when it cannot
func toNumber(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

func toEvidence(v any) EvidenceAnswer {
	switch t := v.(type) {
	case bool:
		return EvidenceAnswer{Provided: t}
	case float64:
		return EvidenceAnswer{Provided: t != 0, Note: strconv.FormatFloat(t, 'f', -1, 64)}
	case string:
		return EvidenceAnswer{Provided: true, Note: t}
	default:
		return EvidenceAnswer{Provided: true}
	}
}
