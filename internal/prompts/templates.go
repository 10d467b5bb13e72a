package prompts

import (
	"fmt"
	"strings"

	"github.com/maumlog/maumlog-backend/internal/bigfive"
)

// Prompt builders for every model call the pipeline makes. Prompts are in
// English; user-facing commentary and advice are requested in Korean
// because that is the product language.

const InventorySystem = `You are a psychological assessment assistant. You infer how a person would rate personality inventory items based on journal-style answers they wrote about themselves. You only ever answer with the requested structured output.`

// InventoryUser lays out the answer corpus, the Likert rubric, and one
// batch of 20 inventory items to rate.
func InventoryUser(answers []string, items []string) string {
	var b strings.Builder
	b.WriteString("Below are a person's written answers to self-reflection questions, in chronological order.\n\n")
	for i, a := range answers {
		fmt.Fprintf(&b, "Answer %d: %s\n", i+1, a)
	}
	b.WriteString("\nRate how this person would respond to each statement below on a 1-5 Likert scale:\n")
	b.WriteString("1 = strongly disagree, 2 = disagree, 3 = neutral, 4 = agree, 5 = strongly agree.\n")
	b.WriteString("Base every rating on evidence from the answers; use 3 when the answers carry no signal.\n\n")
	b.WriteString("Statements:\n")
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item)
	}
	fmt.Fprintf(&b, "\nReturn exactly %d ratings, in statement order.\n", len(items))
	return b.String()
}

const ValueExtractionSystem = `You analyze a journal answer and surface the personal values the writer implicitly expresses. You tag each value with its Big-Five category, a facet label from the given vocabulary, confidence, intensity, polarity, and short evidence quotes. You only ever answer with the requested structured output.`

func ValueExtractionUser(question, answer string) string {
	var b strings.Builder
	b.WriteString("Question the person was asked:\n")
	b.WriteString(question)
	b.WriteString("\n\nTheir answer:\n")
	b.WriteString(answer)
	b.WriteString("\n\nExtract between 0 and 6 personal values expressed in the answer.\n")
	b.WriteString("For each value:\n")
	b.WriteString("- category: the Big-Five dimension it belongs to.\n")
	b.WriteString("- value: the facet label, chosen from this vocabulary only: ")
	b.WriteString(strings.Join(bigfive.AllFacets(), ", "))
	b.WriteString(".\n")
	b.WriteString("- confidence: 0-1, how sure you are the value is present.\n")
	b.WriteString("- intensity: 0-1, how strongly the answer expresses it.\n")
	b.WriteString("- polarity: 1 if expressed positively, -1 if the writer expresses the opposite of the value, 0 if neutral or ambivalent.\n")
	b.WriteString("- evidence: up to 2 short quotes from the answer.\n")
	b.WriteString("Return an empty list when the answer expresses no clear value.\n")
	return b.String()
}

const OppositeValueSystem = `You name the positive counterpart of a personality value. You only ever answer with the requested structured output.`

func OppositeValueUser(value, category string) string {
	return fmt.Sprintf(
		"The value %q (category: %s) was expressed negatively. Give the positive value that is its direct opposite, as a single short English noun phrase, staying within the same category. Example: Anxiety -> Calmness.",
		value, category,
	)
}

const ValueMapCommentarySystem = `You write warm, concrete feedback about a person's value profile for a self-reflection journaling app. You write in Korean, addressing the reader directly and gently. You only ever answer with the requested structured output.`

// SlotNames are the display names of the seven value-map categories, in
// slot order 0..6.
var SlotNames = [7]string{"안정", "관계", "성장", "조화", "성취", "자율", "활력"}

func ValueMapCommentaryUser(scores [7]float64) string {
	var b strings.Builder
	b.WriteString("The person's value map (0 means no signal yet, 1 means very strong):\n")
	for i, name := range SlotNames {
		fmt.Fprintf(&b, "- %s: %.2f\n", name, scores[i])
	}
	b.WriteString("\nWrite:\n")
	b.WriteString("- comment: one Korean sentence summarizing what this person values most.\n")
	b.WriteString("- personality_insight: 2-3 Korean sentences describing the personality these values suggest.\n")
	return b.String()
}

const AxisCommentarySystem = `You explain one personality dimension score to the person it belongs to, for a self-reflection journaling app. You write 2-3 sentences in Korean, supportive in tone and free of clinical jargon.`

// axisExplanations are the per-axis framing texts sent with a commentary
// request.
var axisExplanations = map[string]string{
	bigfive.Neuroticism:       "Neuroticism reflects how readily a person experiences stress, worry, and mood swings. Low scores suggest emotional steadiness.",
	bigfive.Extraversion:      "Extraversion reflects how much a person is energized by social contact, activity, and stimulation.",
	bigfive.Openness:          "Openness reflects curiosity, imagination, and appetite for new experiences and ideas.",
	bigfive.Agreeableness:     "Agreeableness reflects warmth, trust, and the tendency to prioritize getting along with others.",
	bigfive.Conscientiousness: "Conscientiousness reflects self-discipline, organization, and persistence toward goals.",
}

func AxisCommentaryUser(axis string, scores map[string]int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dimension: %s\n", axis)
	fmt.Fprintf(&b, "Background: %s\n\n", axisExplanations[axis])
	b.WriteString("The person's percentile scores (0-100):\n")
	for i, name := range bigfive.Axes {
		fmt.Fprintf(&b, "- %s: %d\n", name, scores[bigfive.AxisCodes[i]])
	}
	fmt.Fprintf(&b, "\nWrite 2-3 Korean sentences explaining what their %s score means for daily life.\n", axis)
	return b.String()
}

const AdviceSystem = `You are a wellness coach for a self-reflection journaling app. You write one short, actionable piece of advice in Korean, grounded in the given therapeutic framework. Plain encouragement, no diagnosis.`

// AdviceTheories are the frameworks a daily advice line may draw on.
var AdviceTheories = []string{"CBT", "ACT", "EQ"}

var theoryDescriptions = map[string]string{
	"CBT": "Cognitive Behavioral Therapy: noticing automatic thoughts and testing them against evidence.",
	"ACT": "Acceptance and Commitment Therapy: accepting difficult feelings while acting on personal values.",
	"EQ":  "Emotional intelligence practice: naming emotions precisely and using them as information.",
}

func AdviceUser(theory string, scores map[string]int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Framework: %s. %s\n\n", theory, theoryDescriptions[theory])
	b.WriteString("The person's Big-Five percentile scores (0-100):\n")
	for i, name := range bigfive.Axes {
		fmt.Fprintf(&b, "- %s: %d\n", name, scores[bigfive.AxisCodes[i]])
	}
	b.WriteString("\nWrite 2-3 Korean sentences of personalized advice for today, in the spirit of the framework, tailored to this score profile.\n")
	return b.String()
}

const QuestionGenSystem = `You write one self-reflection question for a journaling app, in Korean. The question should be open-ended, concrete, and answerable in a few sentences. Return only the question text.`

func QuestionGenUser(recentAnswers []string) string {
	var b strings.Builder
	if len(recentAnswers) == 0 {
		b.WriteString("This is the person's first question. Ask something gentle about what mattered to them today.\n")
		return b.String()
	}
	b.WriteString("The person's recent journal answers:\n")
	for i, a := range recentAnswers {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a)
	}
	b.WriteString("\nWrite one new reflection question that goes a little deeper than what they already wrote about. Avoid repeating earlier topics verbatim.\n")
	return b.String()
}
