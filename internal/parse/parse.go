// Package parse decodes the model's text payload into typed results.
package parse

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/thejatinbaghel/JobReady-AI/internal/model"
)

// Parse decodes raw into the result type for kind. Every failure wraps
// model.ErrParse. Parse is pure: identical input yields identical output.
func Parse(kind model.TaskKind, raw string) (model.Result, error) {
	switch kind {
	case model.TaskTailor:
		return parseTailor(raw)
	case model.TaskEnhance:
		return parseEnhance(raw)
	case model.TaskPredict:
		return parsePredict(raw)
	default:
		return nil, fmt.Errorf("%w: unknown task kind %q", model.ErrParse, kind)
	}
}

// rawTailor uses pointers so a missing field can be told apart from a zero value.
type rawTailor struct {
	TailoredCV  *string         `json:"tailoredCv"`
	CoverLetter *string         `json:"coverLetter"`
	ATSScore    json.RawMessage `json:"atsScore"`
	Suggestions *[]*string      `json:"suggestions"`
}

func parseTailor(raw string) (model.TailorResult, error) {
	var rt rawTailor
	if err := decodeObject(raw, &rt); err != nil {
		return model.TailorResult{}, err
	}

	switch {
	case rt.TailoredCV == nil:
		return model.TailorResult{}, missing("tailoredCv")
	case rt.CoverLetter == nil:
		return model.TailorResult{}, missing("coverLetter")
	case rt.ATSScore == nil:
		return model.TailorResult{}, missing("atsScore")
	case rt.Suggestions == nil:
		return model.TailorResult{}, missing("suggestions")
	case len(*rt.Suggestions) == 0:
		return model.TailorResult{}, fmt.Errorf("%w: suggestions is empty", model.ErrParse)
	}

	score, err := parseScore(rt.ATSScore)
	if err != nil {
		return model.TailorResult{}, err
	}
	suggestions, err := stringList("suggestions", *rt.Suggestions)
	if err != nil {
		return model.TailorResult{}, err
	}

	return model.TailorResult{
		TailoredCV:  *rt.TailoredCV,
		CoverLetter: *rt.CoverLetter,
		ATSScore:    score,
		Suggestions: suggestions,
	}, nil
}

// parseScore accepts an integral JSON number, or a string holding one. The
// value is not range-checked.
func parseScore(msg json.RawMessage) (int, error) {
	if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
		return 0, missing("atsScore")
	}

	var num json.Number
	if err := json.Unmarshal(msg, &num); err != nil {
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			return 0, fmt.Errorf("%w: atsScore is not numeric", model.ErrParse)
		}
		num = json.Number(strings.TrimSpace(s))
	}

	if i, err := strconv.Atoi(num.String()); err == nil {
		return i, nil
	}
	f, err := num.Float64()
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: atsScore %q is not an integer", model.ErrParse, num)
	}
	return int(f), nil
}

func parseEnhance(raw string) (model.EnhanceResult, error) {
	if raw == "" {
		return model.EnhanceResult{}, fmt.Errorf("%w: empty enhance text", model.ErrParse)
	}
	return model.EnhanceResult{BulletText: raw}, nil
}

type rawPredict struct {
	Behavioral  *[]*string `json:"behavioral"`
	Technical   *[]*string `json:"technical"`
	Situational *[]*string `json:"situational"`
}

func parsePredict(raw string) (model.PredictResult, error) {
	var rp rawPredict
	if err := decodeObject(raw, &rp); err != nil {
		return model.PredictResult{}, err
	}

	switch {
	case rp.Behavioral == nil:
		return model.PredictResult{}, missing("behavioral")
	case rp.Technical == nil:
		return model.PredictResult{}, missing("technical")
	case rp.Situational == nil:
		return model.PredictResult{}, missing("situational")
	}

	var (
		res model.PredictResult
		err error
	)
	if res.Behavioral, err = stringList("behavioral", *rp.Behavioral); err != nil {
		return model.PredictResult{}, err
	}
	if res.Technical, err = stringList("technical", *rp.Technical); err != nil {
		return model.PredictResult{}, err
	}
	if res.Situational, err = stringList("situational", *rp.Situational); err != nil {
		return model.PredictResult{}, err
	}
	return res, nil
}

// decodeObject unmarshals a single JSON object. Trailing data after the
// object is rejected.
func decodeObject(raw string, v any) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", model.ErrParse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("%w: trailing data after JSON object", model.ErrParse)
	}
	return nil
}

func missing(field string) error {
	return fmt.Errorf("%w: missing required field %q", model.ErrParse, field)
}

// stringList dereferences a decoded list. A null element is a type error.
func stringList(field string, items []*string) ([]string, error) {
	out := make([]string, 0, len(items))
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("%w: %s[%d] is null", model.ErrParse, field, i)
		}
		out = append(out, *item)
	}
	return out, nil
}
