/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/threadsmith/internal"
	"github.com/valpere/threadsmith/internal/llm"
	"github.com/valpere/threadsmith/internal/workflow"
)

// envKeyReplacer maps nested keys to env names:
// limits.max_chars → THREADSMITH_LIMITS_MAX_CHARS.
var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

func setDefaults() {
	d := workflow.DefaultConfig()
	viper.SetDefault("backend", "openai")
	viper.SetDefault("model", d.Model)
	viper.SetDefault("temperature", d.Temperature)
	viper.SetDefault("timeout", 2*time.Minute)
	viper.SetDefault("max_attempts", 3)
	viper.SetDefault("retry_delay", 2*time.Second)
	viper.SetDefault("limits.max_chars", d.MaxChars)
	viper.SetDefault("limits.max_iterations", d.MaxIterations)
	viper.SetDefault("limits.governor_ceiling", d.GovernorCeiling)
	viper.SetDefault("limits.max_steps", d.MaxSteps)
	viper.SetDefault("editor.approve_above", d.ApproveAbove)
	viper.SetDefault("writer.max_attempts", d.WriterAttempts)
	viper.SetDefault("writer.strip_markdown", false)
	viper.SetDefault("log_level", "info")
}

// buildClient constructs the configured completion backend wrapped with the
// per-call timeout and retry policy.
func buildClient() (llm.Client, error) {
	client, err := llm.New(llm.Settings{
		Backend: viper.GetString("backend"),
		Model:   viper.GetString("model"),
		BaseURL: viper.GetString("base_url"),
		APIKey:  viper.GetString("api_key"),
	})
	if err != nil {
		return nil, err
	}
	return llm.NewRetrying(client, llm.RetryConfig{
		Timeout:     viper.GetDuration("timeout"),
		MaxAttempts: viper.GetInt("max_attempts"),
		RetryDelay:  viper.GetDuration("retry_delay"),
	}), nil
}

func workflowConfig() workflow.Config {
	return workflow.Config{
		Model:           viper.GetString("model"),
		Temperature:     viper.GetFloat64("temperature"),
		MaxChars:        viper.GetInt("limits.max_chars"),
		MaxIterations:   viper.GetInt("limits.max_iterations"),
		GovernorCeiling: viper.GetInt("limits.governor_ceiling"),
		MaxSteps:        viper.GetInt("limits.max_steps"),
		ApproveAbove:    viper.GetInt("editor.approve_above"),
		WriterAttempts:  viper.GetInt("writer.max_attempts"),
		StripMarkdown:   viper.GetBool("writer.strip_markdown"),
	}
}

// journalRecord converts a finished run into its archived form.
func journalRecord(s *workflow.State, model string) internal.RunRecord {
	rec := internal.RunRecord{
		InitialDraft:       initialDraft(s),
		FinalDraft:         s.Draft,
		Status:             string(s.Status),
		Language:           s.Language,
		Model:              model,
		Iterations:         s.IterationCount,
		CharacterCount:     s.CharacterCount,
		StartedAt:          s.StartTime,
		ApprovedAfter:      s.EditorApprovedAfter,
		ResearcherAnalysis: s.ResearcherAnalysis,
		DraftAnalysis:      s.DraftAnalysis,
		EditorFeedback:     s.EditorFeedback,
		Versions:           s.Versions,
		Reviews:            s.EditorHistory,
	}
	for _, m := range s.Messages {
		rec.Messages = append(rec.Messages, internal.RunMessage{Role: string(m.Role), Content: m.Content, At: m.At})
	}
	return rec
}

// initialDraft returns the first human message, which is the submitted draft.
func initialDraft(s *workflow.State) string {
	for _, m := range s.Messages {
		if m.Role == workflow.RoleHuman {
			return m.Content
		}
	}
	return ""
}
