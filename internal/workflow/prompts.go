package workflow

import (
	"fmt"
	"strings"
)

// Delimiters the writer must wrap its draft in, and the stop sequence that
// ends generation after them.
const (
	ResponseStart = "RESPONSE_START"
	ResponseEnd   = "RESPONSE_END"
	StopSequence  = "<-stop->"
)

const platformProfile = `Threads is a text-based social network from Meta, launched in July 2023 and closely tied to Instagram. Posts carry up to 500 characters of text and may include links, photos and short videos. It is widely seen as a competitor to Twitter.`

func languageLine(lang string) string {
	if lang == "" {
		return ""
	}
	return fmt.Sprintf("\nThe draft is written in %s. Keep all output in %s.\n", lang, lang)
}

func buildResearcherPrompt(draft, lang string) string {
	return fmt.Sprintf(`You are a researcher analyzing a draft of a threads.net status update.

Draft: %s
%s
Your role is to describe who this post will reach and what it connects to.
Do NOT give any guidance on writing style, structure or wording. Research only.

Cover:
* Target Audience: the most likely audiences on Threads (demographics, interests, online behaviour), with examples.
* Relevant Topics: the broader themes and any current Threads discussions the post touches.
* Opinion Groups: communities on Threads likely to hold strong views on the subject.
* Key Insights: any further data points the writer should consider.

Platform profile:
%s

Provide research-based information only and make no writing suggestions.`,
		draft, languageLine(lang), platformProfile)
}

func buildDraftAnalyzerPrompt(draft string, maxChars int, lang string) string {
	return fmt.Sprintf(`Analyze the following initial draft of a threads.net status update. Do not use subheadings in your answer.

Draft: %s
%s
Instructions:
* Break the draft into its components: Hook, Introduction, Main Content, Value Proposition, Call to Action.
* Judge how well each component works against the guidelines below.
* Suggest concrete improvements per component.
* Never propose a version of the status update. Analyze and advise only; do not write or rewrite it.

Guidelines for a strong status update:
* Within %d characters.
* Text only, a single paragraph, no subheadings.
* Clear, engaging and opinionated.
* No hashtags, links or URLs.
* No unnecessary words or technical jargon.`,
		draft, languageLine(lang), maxChars)
}

func buildWriterPrompt(s *State, history string, maxChars int, lang string) string {
	researcher := orDefault(s.ResearcherAnalysis, "No research analysis available")
	feedback := orDefault(s.EditorFeedback, "No editor feedback yet")
	analysis := orDefault(s.DraftAnalysis, "No draft analysis available.")

	return fmt.Sprintf(`You are a professional writer creating a text-only status update for threads.net. Create or revise it from the information below, without subheadings.

Original draft: %s
Researcher's analysis: %s
Editor's feedback: %s
Draft analysis: %s
Previous versions and rejection reasons:
%s
%s
Instructions:
1. Work in the researcher's insights where relevant.
2. Address the editor's feedback.
3. Study the previous versions and why they were rejected; do not repeat those mistakes.

Structure (the whole update must stay within %d characters):
1. Hook, about 10%%: a compelling fact, statistic or provocative question.
2. Introduction, about 15%%: the key point in one or two sentences.
3. Main Content, about 50%%: details, insight or analysis.
4. Value Proposition, about 20%%: why it matters.
5. Call to Action, about 5%%: a very short question inviting replies.

Rules:
- Text only, one paragraph, no line breaks, no title or heading.
- No hashtags, links or URLs.
- Take a clear, opinionated stance.
- Prefer abbreviations to long jargon; use strong verbs and active voice.

Reply in exactly this format:

%s
[Write your status update here]
%s
%s`,
		s.Draft, researcher, feedback, analysis, history, languageLine(lang), maxChars,
		ResponseStart, ResponseEnd, StopSequence)
}

func buildEditorPrompt(draft string, approveAbove int, lang string) string {
	return fmt.Sprintf(`You are a professional editor reviewing a text-only status update for threads.net. Work with the writer toward a high-quality post.

Draft: %s
%s
Score the draft from 0 to 10, where 0 is the lowest and 10 the highest. A score above %d means approval. Give constructive feedback regardless of the score.

Review criteria:
* Hook: does it grab attention with a fact, statistic or provocative question?
* Introduction: does it summarize the key point briefly?
* Main Content: does it add detail, insight or analysis?
* Value Proposition: does it make the significance clear?
* Call to Action: does it end with a short question inviting engagement?
* Text only, single paragraph, no subheadings or titles, no hashtags, links or URLs.
* Clear, concise, opinionated.

Feedback rules:
* Name strengths and weaknesses with specific suggestions.
* State the score explicitly.
* Do not suggest hashtags.
* Never propose a version of the status update. Analyze and advise only.

Example:
Score: 7
Feedback: Engaging and well written, but the hook could be stronger. Open with a more surprising statistic.`,
		draft, languageLine(lang), approveAbove)
}

// ExtractGeneration returns the text strictly between ResponseStart and the
// first ResponseEnd after it.
func ExtractGeneration(response string) (string, error) {
	start := strings.Index(response, ResponseStart)
	if start < 0 {
		return "", fmt.Errorf("%w: missing %s", ErrMalformedGeneration, ResponseStart)
	}
	rest := response[start+len(ResponseStart):]
	end := strings.Index(rest, ResponseEnd)
	if end < 0 {
		return "", fmt.Errorf("%w: missing %s", ErrMalformedGeneration, ResponseEnd)
	}
	return strings.TrimSpace(rest[:end]), nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
