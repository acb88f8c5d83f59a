package model

import "strings"

// Result is the decoded payload of a successful request. It is one of
// TailorResult, EnhanceResult or PredictResult.
type Result interface {
	Kind() TaskKind
}

// TailorResult holds the tailored application produced for a CV and job.
type TailorResult struct {
	TailoredCV  string   `json:"tailoredCv"`
	CoverLetter string   `json:"coverLetter"`
	ATSScore    int      `json:"atsScore"`
	Suggestions []string `json:"suggestions"`
}

func (TailorResult) Kind() TaskKind { return TaskTailor }

// DisplayScore clamps ATSScore into the 0-100 display range. The stored
// score is left as the model returned it.
func (r TailorResult) DisplayScore() int {
	return min(max(r.ATSScore, 0), 100)
}

// EnhanceResult is free-form text, one "• "-prefixed bullet per line.
type EnhanceResult struct {
	BulletText string `json:"bulletText"`
}

func (EnhanceResult) Kind() TaskKind { return TaskEnhance }

// Bullets splits BulletText into its non-empty lines.
func (r EnhanceResult) Bullets() []string {
	var out []string
	for _, line := range strings.Split(r.BulletText, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// PredictResult groups likely interview questions by category. Any category
// may be empty.
type PredictResult struct {
	Behavioral  []string `json:"behavioral"`
	Technical   []string `json:"technical"`
	Situational []string `json:"situational"`
}

func (PredictResult) Kind() TaskKind { return TaskPredict }

// QuestionCategory is one labelled group of predicted questions.
type QuestionCategory struct {
	Name      string
	Questions []string
}

// Categories returns the non-empty categories in a fixed order.
func (r PredictResult) Categories() []QuestionCategory {
	all := []QuestionCategory{
		{Name: "Behavioral", Questions: r.Behavioral},
		{Name: "Technical", Questions: r.Technical},
		{Name: "Situational", Questions: r.Situational},
	}
	var out []QuestionCategory
	for _, c := range all {
		if len(c.Questions) > 0 {
			out = append(out, c)
		}
	}
	return out
}
