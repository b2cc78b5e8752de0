package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/valpere/threadsmith/internal/ctxlog"
	"github.com/valpere/threadsmith/internal/llm"
	"github.com/valpere/threadsmith/internal/markdown"
)

// Handlers read the state and return an Update; none of them mutates s.

func (e *Engine) user(ctx context.Context, s *State) (Update, error) {
	log := ctxlog.FromContext(ctx)

	switch s.Status {
	case StatusInitial:
		draft, err := e.human.ReadMultiline(ctx, "Please enter your initial draft for the status update:")
		if err != nil {
			return Update{}, fmt.Errorf("read initial draft: %w", err)
		}
		u := Update{
			Draft:     ref(draft),
			StartTime: ref(e.now()),
			Status:    ref(StatusDraftSubmitted),
			Messages:  []Message{e.message(RoleHuman, draft)},
		}
		if e.languages != nil {
			if lang, ok := e.languages.DetectISO(draft); ok {
				u.Language = ref(lang)
				log.Debug("detected draft language", slog.String("language", lang))
			}
		}
		log.Info("user submitted the initial draft, sending it to the draft analyzer",
			slog.Int("characters", CharCount(draft)))
		return u, nil

	case StatusUserApproval:
		e.human.Show(fmt.Sprintf("\nFinal draft for approval (%d characters):\n%s\n", s.CharacterCount, s.Draft))
		approved, err := e.human.Confirm(ctx, "Do you approve this draft? (yes/no): ")
		if err != nil {
			return Update{}, fmt.Errorf("read approval: %w", err)
		}
		if approved {
			log.Info("user approved the final draft")
			return Update{
				Status:   ref(StatusApproved),
				Messages: []Message{e.message(RoleHuman, "Approved.")},
			}, nil
		}

		feedback, err := e.human.ReadMultiline(ctx, "Please provide feedback for revision:")
		if err != nil {
			return Update{}, fmt.Errorf("read revision feedback: %w", err)
		}
		log.Info("user requested revision")
		return Update{
			EditorFeedback: ref(feedback),
			Status:         ref(StatusNeedsRevision),
			Messages:       []Message{e.message(RoleHuman, feedback)},
		}, nil
	}

	return Update{}, nil
}

func (e *Engine) researcher(ctx context.Context, s *State) (Update, error) {
	ctxlog.FromContext(ctx).Info("the researcher is analyzing the draft")

	analysis, err := e.complete(ctx, buildResearcherPrompt(s.Draft, e.languageName(s)))
	if err != nil {
		return Update{}, err
	}
	return Update{
		ResearcherAnalysis: ref(analysis),
		Status:             ref(StatusResearchComplete),
		Messages:           []Message{e.message(RoleResearcher, analysis)},
	}, nil
}

func (e *Engine) draftAnalyzer(ctx context.Context, s *State) (Update, error) {
	ctxlog.FromContext(ctx).Info("the draft analyzer is reviewing the status update")

	analysis, err := e.complete(ctx, buildDraftAnalyzerPrompt(s.Draft, e.config.MaxChars, e.languageName(s)))
	if err != nil {
		return Update{}, err
	}
	return Update{
		DraftAnalysis: ref(analysis),
		Status:        ref(StatusDraftAnalyzed),
		Messages:      []Message{e.message(RoleDraftAnalyzer, analysis)},
	}, nil
}

func (e *Engine) writer(ctx context.Context, s *State) (Update, error) {
	log := ctxlog.FromContext(ctx)
	log.Info("the writer is working on the status update", slog.Int("versions", len(s.Versions)-1))

	limit := e.config.MaxChars
	prompt := buildWriterPrompt(s, Narrative(s, limit), limit, e.languageName(s))

	var text string
	for attempt := 1; ; attempt++ {
		resp, err := e.complete(ctx, prompt, StopSequence)
		if err != nil {
			return Update{}, err
		}
		text, err = ExtractGeneration(resp)
		if err == nil {
			break
		}
		if attempt >= e.config.WriterAttempts {
			return Update{}, fmt.Errorf("after %d attempts: %w", attempt, err)
		}
		log.Warn("writer response malformed, regenerating",
			slog.Int("attempt", attempt),
			slog.Any("error", err))
	}

	if e.config.StripMarkdown {
		text = markdown.ToPlainText([]byte(text))
	}
	if e.languages != nil && s.Language != "" {
		if err := e.languages.Check(text, s.Language); err != nil {
			log.Warn("writer drifted from the draft language", slog.Any("error", err))
		}
	}

	n := CharCount(text)
	if n <= limit {
		log.Info("the writer is sending the draft to the editor", slog.Int("characters", n))
		return Update{
			AppendVersion:  ref(text),
			Draft:          ref(text),
			CharacterCount: ref(n),
			Status:         ref(StatusReadyForEditor),
			Messages:       []Message{e.message(RoleWriter, text)},
		}, nil
	}

	excess := n - limit
	log.Info("the writer is revising to meet the character limit",
		slog.Int("characters", n),
		slog.Int("excess", excess))
	note := fmt.Sprintf("\nPlease shorten the draft to be within %d characters. It is currently %d characters too long. "+
		"Focus on the most critical information and remove any unnecessary details.", limit, excess)
	return Update{
		EditorFeedback: ref(s.EditorFeedback + note),
		Status:         ref(StatusEditing),
		Messages:       []Message{e.message(RoleWriter, text)},
	}, nil
}

func (e *Engine) editor(ctx context.Context, s *State) (Update, error) {
	log := ctxlog.FromContext(ctx)
	log.Info("the editor is reviewing the draft")

	feedback, err := e.complete(ctx, buildEditorPrompt(s.Draft, e.config.ApproveAbove, e.languageName(s)))
	if err != nil {
		return Update{}, err
	}

	sc, rule, ok := e.scores.Extract(feedback)
	if !ok {
		log.Warn("no score found in editor feedback, assuming needs revision")
	} else {
		log.Info("editor scored the draft", slog.Int("score", sc), slog.String("rule", rule))
	}

	u := Update{
		AppendReview:   ref(feedback),
		EditorFeedback: ref(feedback),
		Messages:       []Message{e.message(RoleEditor, feedback)},
	}
	if sc > e.config.ApproveAbove {
		elapsed := e.now().Sub(s.StartTime)
		log.Info("the editor approved the draft, sending it to the user",
			slog.Duration("since_submission", elapsed))
		u.EditorApprovedAfter = ref(elapsed)
		u.Status = ref(StatusUserApproval)
		return u, nil
	}

	log.Info("the editor requested revisions")
	u.Status = ref(StatusNeedsRevision)
	return u, nil
}

func (e *Engine) complete(ctx context.Context, prompt string, stop ...string) (string, error) {
	text, err := e.client.Complete(ctx, llm.UserPrompt(e.config.Model, prompt, e.config.Temperature, stop...))
	if err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	return text, nil
}

func (e *Engine) languageName(s *State) string {
	if s.Language == "" || e.languages == nil {
		return ""
	}
	return e.languages.Name(s.Language)
}
