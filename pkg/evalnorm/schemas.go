package evalnorm

import "fmt"

// A recognizer attempts to read criteria out of one known response schema.
// Recognizers are tried in order, first match wins; appending a new schema
// never touches existing ones.
type recognizer struct {
	name string
	read func(doc map[string]any) ([]Criterion, bool)
}

var recognizers = []recognizer{
	{name: "criteria", read: readExplicitCriteria},
	{name: "evaluation_criteria", read: readEvaluationCriteria},
	{name: "fixed_questions", read: readFixedQuestions},
}

// The legacy flat schema scores three canonical questions.
var fixedQuestions = [3]string{
	"Did the student come to the discussion prepared, having read the case?",
	"Did the student answer the protagonist's questions thoughtfully?",
	"Did the student cite specific facts from the case to support their answers?",
}

func recognizeCriteria(doc map[string]any) []Criterion {
	for _, r := range recognizers {
		if criteria, ok := r.read(doc); ok {
			return criteria
		}
	}
	return []Criterion{}
}

// readExplicitCriteria handles the current schema: a "criteria" array of
// {question, score, feedback} objects.
func readExplicitCriteria(doc map[string]any) ([]Criterion, bool) {
	items, ok := doc["criteria"].([]any)
	if !ok {
		return nil, false
	}
	criteria := make([]Criterion, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		criteria = append(criteria, Criterion{
			Question: stringValue(entry["question"]),
			Score:    scoreValue(entry["score"]),
			Feedback: stringValue(entry["feedback"]),
		})
	}
	return criteria, true
}

// readEvaluationCriteria handles the intermediate schema: an
// "evaluation_criteria" array of {criterion, score, feedback} objects.
func readEvaluationCriteria(doc map[string]any) ([]Criterion, bool) {
	items, ok := doc["evaluation_criteria"].([]any)
	if !ok {
		return nil, false
	}
	criteria := make([]Criterion, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		criteria = append(criteria, Criterion{
			Question: stringValue(entry["criterion"]),
			Score:    scoreValue(entry["score"]),
			Feedback: stringValue(entry["feedback"]),
		})
	}
	return criteria, true
}

// readFixedQuestions handles the oldest schema: flat q1_score/q1_feedback
// through q3_* keys for the three canonical questions.
func readFixedQuestions(doc map[string]any) ([]Criterion, bool) {
	present := false
	for i := 1; i <= len(fixedQuestions); i++ {
		if _, ok := doc[fmt.Sprintf("q%d_score", i)]; ok {
			present = true
			break
		}
		if _, ok := doc[fmt.Sprintf("q%d_feedback", i)]; ok {
			present = true
			break
		}
	}
	if !present {
		return nil, false
	}

	criteria := make([]Criterion, 0, len(fixedQuestions))
	for i, question := range fixedQuestions {
		criteria = append(criteria, Criterion{
			Question: question,
			Score:    scoreValue(doc[fmt.Sprintf("q%d_score", i+1)]),
			Feedback: stringValue(doc[fmt.Sprintf("q%d_feedback", i+1)]),
		})
	}
	return criteria, true
}
