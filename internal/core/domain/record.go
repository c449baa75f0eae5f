package domain

import (
	"encoding/json"
	"fmt"
)

// AnswerKind enumerates the supported question answer shapes.
type AnswerKind string

const (
	AnswerSingleChoice AnswerKind = "SINGLE_CHOICE"
	AnswerYesNo        AnswerKind = "YES_NO"
	AnswerInput        AnswerKind = "INPUT"
	AnswerOrder        AnswerKind = "ORDER"
)

// Valid reports whether the kind is one of the four enumerated values.
func (k AnswerKind) Valid() bool {
	switch k {
	case AnswerSingleChoice, AnswerYesNo, AnswerInput, AnswerOrder:
		return true
	}
	return false
}

// Region enumerates the regional applicability of a question.
type Region string

const (
	RegionNational Region = "national"
	RegionBrussels Region = "brussels"
	RegionFlanders Region = "flanders"
	RegionWallonia Region = "wallonia"
)

// Valid reports whether the region is one of the four enumerated values.
func (r Region) Valid() bool {
	switch r {
	case RegionNational, RegionBrussels, RegionFlanders, RegionWallonia:
		return true
	}
	return false
}

// CategoryKey is a category identifier that may be a legacy numeric series
// id or a free-form string key. The raw corpus contains both shapes.
type CategoryKey struct {
	// Num holds the numeric key when Numeric is true.
	Num int

	// Str holds the string key when Numeric is false.
	Str string

	// Numeric distinguishes the two shapes.
	Numeric bool
}

// UnmarshalJSON accepts either a JSON number or a JSON string.
func (k *CategoryKey) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		k.Num = n
		k.Numeric = true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		k.Str = s
		k.Numeric = false
		return nil
	}

	return fmt.Errorf("%w: category key must be a number or string", ErrInvalidInput)
}

// MarshalJSON writes the key back in its original shape.
func (k CategoryKey) MarshalJSON() ([]byte, error) {
	if k.Numeric {
		return json.Marshal(k.Num)
	}
	return json.Marshal(k.Str)
}

// AnswerValue is the answer to a question. The raw corpus encodes it as a
// number (choice index), a string (free input) or an ordered list of numbers.
// Exactly one of the fields is populated after decoding.
type AnswerValue struct {
	// Index is the zero-based choice index for SINGLE_CHOICE and YES_NO.
	Index *int

	// Text is the expected free-form input for INPUT.
	Text *string

	// Order is the expected ordering for ORDER.
	Order []int
}

// UnmarshalJSON accepts a number, a string or an array of numbers.
func (a *AnswerValue) UnmarshalJSON(data []byte) error {
	var idx int
	if err := json.Unmarshal(data, &idx); err == nil {
		a.Index = &idx
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		a.Text = &text
		return nil
	}

	var order []int
	if err := json.Unmarshal(data, &order); err == nil {
		a.Order = order
		return nil
	}

	return fmt.Errorf("%w: answer must be a number, string or number list", ErrInvalidInput)
}

// MarshalJSON writes the answer back in its original shape.
func (a AnswerValue) MarshalJSON() ([]byte, error) {
	switch {
	case a.Index != nil:
		return json.Marshal(*a.Index)
	case a.Text != nil:
		return json.Marshal(*a.Text)
	case a.Order != nil:
		return json.Marshal(a.Order)
	}
	return []byte("null"), nil
}

// RawOption is a single answer choice as read from the raw corpus.
// A choice carries text, an image reference, or both.
type RawOption struct {
	Text     string `json:"text,omitempty"`
	ImageRef string `json:"imageRef,omitempty"`
}

// RawRecord is a question record as read from the raw corpus.
// It is immutable once read.
type RawRecord struct {
	// ID is the external identifier assigned by the corpus provider.
	ID string `json:"id"`

	// SeriesID is the category key; numeric for legacy series, string otherwise.
	SeriesID CategoryKey `json:"seriesId"`

	// Question is the question markup (HTML).
	Question string `json:"question"`

	// Explanation is the explanation markup (HTML).
	Explanation string `json:"explanation"`

	// Answer is the expected answer in one of three encodings.
	Answer AnswerValue `json:"answer"`

	// AnswerType is one of the four AnswerKind values.
	AnswerType AnswerKind `json:"answerType"`

	// Choices are the ordered answer options.
	Choices []RawOption `json:"choices"`

	// MajorFault marks questions whose wrong answer is an automatic fail.
	MajorFault bool `json:"majorFault"`

	// ImageRef and VideoRef are optional asset references.
	ImageRef string `json:"imageRef,omitempty"`
	VideoRef string `json:"videoRef,omitempty"`

	// Source is the integer provenance identifier of the record.
	Source int `json:"source"`
}

// CanonicalOption is a position-indexed answer choice.
type CanonicalOption struct {
	// Position is the zero-based index; contiguous and matching input order.
	Position int `json:"position"`

	Text     string `json:"text,omitempty"`
	ImageRef string `json:"imageRef,omitempty"`
}

// CanonicalRecord is the normalised form of a RawRecord. It is created once
// by the normaliser and mutated at most once per rewrite run when a
// RewriteResult is merged into its question and explanation fields.
type CanonicalRecord struct {
	ID string `json:"id"`

	// SeriesID preserves the raw category key for audit.
	SeriesID CategoryKey `json:"seriesId"`

	// CategorySlug is the stable, normalised category key.
	CategorySlug string `json:"categorySlug"`

	// RegionCode is derived deterministically from the text content.
	RegionCode Region `json:"regionCode"`

	// QuestionText and ExplanationText are the live plain-text fields.
	// The *Original copies preserve the pre-rewrite text for audit and are
	// written at most once across rewrite runs.
	QuestionText            string `json:"questionText"`
	QuestionTextOriginal    string `json:"questionTextOriginal,omitempty"`
	ExplanationText         string `json:"explanationText"`
	ExplanationTextOriginal string `json:"explanationTextOriginal,omitempty"`

	Answer     AnswerValue `json:"answer"`
	AnswerType AnswerKind  `json:"answerType"`

	Options []CanonicalOption `json:"options"`

	MajorFault bool `json:"majorFault"`

	ImageRef string `json:"imageRef,omitempty"`
	VideoRef string `json:"videoRef,omitempty"`

	Source int `json:"source"`
}
