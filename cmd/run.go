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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/threadsmith/internal/console"
	"github.com/valpere/threadsmith/internal/ctxlog"
	"github.com/valpere/threadsmith/internal/llm"
	"github.com/valpere/threadsmith/internal/report"
	"github.com/valpere/threadsmith/internal/store"
	"github.com/valpere/threadsmith/internal/validator"
	"github.com/valpere/threadsmith/internal/workflow"
)

var (
	reportPath  string
	noLanguage  bool
	printConfig bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Write a status update interactively",
	Long: `Start a workflow run. You type a draft (end it with //done on its own line),
the agents revise it, and you approve or reject the editor-approved result.

Backends:
  - openai      any OpenAI-compatible server (default: LM Studio at http://localhost:1234/v1)
  - ollama      Ollama chat API (default: http://localhost:11434)
  - openrouter  OpenRouter (requires --api-key)

Every flag can also be set in threadsmith.yaml or as THREADSMITH_<KEY>,
e.g. THREADSMITH_LIMITS_MAX_CHARS=400.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := workflowConfig()
		if printConfig {
			fmt.Printf("%+v\n", cfg)
			return nil
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		client, err := buildClient()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		log := ctxlog.FromContext(ctx)

		var opts []workflow.Option
		if !noLanguage {
			opts = append(opts, workflow.WithLanguageGuard(validator.New(nil)))
		}
		engine := workflow.New(client, console.New(os.Stdin, os.Stdout), cfg, opts...)

		log.Info("starting run",
			slog.String("backend", viper.GetString("backend")),
			slog.String("model", cfg.Model),
			slog.Int("max_chars", cfg.MaxChars),
			slog.Int("max_iterations", cfg.MaxIterations))

		state, runErr := engine.Run(ctx, workflow.NewState())
		if runErr != nil && !errors.Is(runErr, workflow.ErrStepLimit) {
			return fmt.Errorf("workflow failed: %w", runErr)
		}
		if runErr != nil {
			log.Warn("run stopped early", slog.Any("error", runErr))
		}

		if err := report.Write(os.Stdout, state); err != nil {
			return err
		}

		var runID string
		if dbPath := viper.GetString("db"); dbPath != "" {
			runID, err = saveRun(ctx, dbPath, state, cfg.Model)
			if err != nil {
				log.Error("failed to archive run", slog.Any("error", err))
			} else {
				fmt.Printf("\nRun archived as %s\n", runID)
			}
		}

		if reportPath != "" {
			if err := writeReport(reportPath, state, runID); err != nil {
				return err
			}
			fmt.Printf("Report written to %s\n", reportPath)
		}
		return nil
	},
}

func saveRun(ctx context.Context, dbPath string, state *workflow.State, model string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := store.New(dbPath)
	if err != nil {
		return "", err
	}
	defer db.Close()

	// the interrupt may already have fired; archiving must still finish
	return db.SaveRun(context.WithoutCancel(ctx), journalRecord(state, model))
}

func writeReport(path string, state *workflow.State, runID string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	defer f.Close()
	return report.WriteYAML(f, state, runID)
}

func init() {
	rootCmd.AddCommand(runCmd)

	d := workflow.DefaultConfig()
	f := runCmd.Flags()

	f.StringP("backend", "b", "openai", fmt.Sprintf("Completion backend (%v)", llm.Backends))
	f.StringP("model", "m", d.Model, "Model name")
	f.String("base-url", "", "Backend base URL (backend default if empty)")
	f.String("api-key", "", "Backend API key")
	f.Float64("temperature", d.Temperature, "Sampling temperature")
	f.Duration("timeout", 2*time.Minute, "Per-completion timeout")
	f.Int("max-attempts", 3, "Total attempts per completion including the first")
	f.Duration("retry-delay", 2*time.Second, "Delay between completion attempts")

	f.Int("max-chars", d.MaxChars, "Character limit for the status update")
	f.Int("max-iterations", d.MaxIterations, "Agent invocations before the run ends")
	f.Int("governor-ceiling", d.GovernorCeiling, "Invocations after which the draft is force-approved")
	f.Int("max-steps", d.MaxSteps, "Hard ceiling on driver steps")
	f.Int("approve-above", d.ApproveAbove, "Editor score that must be exceeded for approval")
	f.Int("writer-attempts", d.WriterAttempts, "Writer regenerations allowed for malformed output")
	f.Bool("strip-markdown", false, "Reduce writer output to plain text")

	f.StringVar(&reportPath, "report", "", "Write a YAML report of the run to this file")
	f.BoolVar(&noLanguage, "no-language-check", false, "Disable draft language detection")
	f.BoolVar(&printConfig, "print-config", false, "Print the effective workflow configuration and exit")

	for key, flag := range map[string]string{
		"backend":                 "backend",
		"model":                   "model",
		"base_url":                "base-url",
		"api_key":                 "api-key",
		"temperature":             "temperature",
		"timeout":                 "timeout",
		"max_attempts":            "max-attempts",
		"retry_delay":             "retry-delay",
		"limits.max_chars":        "max-chars",
		"limits.max_iterations":   "max-iterations",
		"limits.governor_ceiling": "governor-ceiling",
		"limits.max_steps":        "max-steps",
		"editor.approve_above":    "approve-above",
		"writer.max_attempts":     "writer-attempts",
		"writer.strip_markdown":   "strip-markdown",
	} {
		viper.BindPFlag(key, f.Lookup(flag))
	}
}
