package cli

import (
	"context"
	"fmt"
	"io"
	"sort"

	"gyani-service/internal/app"
	"gyani-service/internal/config"
	"gyani-service/internal/content"
	"gyani-service/internal/domain"
	redisinfra "gyani-service/internal/infra/redis"

	"github.com/spf13/cobra"
)

// NewStatsCmd reports question bank coverage and, where the backend can
// list them, stored learner progress.
func NewStatsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print question bank and learner progress statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			res, err := openResources(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer res.Close()
			return printStats(cmd.Context(), cmd.OutOrStdout(), cfg, res)
		},
	}
}

func printStats(ctx context.Context, out io.Writer, cfg config.Config, res *resources) error {
	bankID := cfg.Quiz.Bank
	if bankID == "" {
		bankID = content.KnowledgeBankID
	}
	bank, err := res.bankRepository(cfg).GetBank(ctx, bankID)
	if err != nil {
		return fmt.Errorf("load bank %s: %w", bankID, err)
	}
	fmt.Fprintf(out, "bank %s: %d questions\n", bankID, len(bank))
	for _, line := range breakdown(bank) {
		fmt.Fprintf(out, "  %s\n", line)
	}

	if res.redis != nil {
		live, err := redisinfra.NewSessionStore(res.redis, 0).LiveSessions(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "live quiz sessions: %d\n", live)
	}

	if res.sqlite == nil {
		fmt.Fprintf(out, "progress backend %s cannot list profiles\n", cfg.ProgressBackend())
		return nil
	}
	profiles, err := res.sqlite.Profiles(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "profiles: %d\n", len(profiles))
	for _, id := range profiles {
		store := app.NewProgressStore(id, res.sqlite, app.WithCatalog(content.ModuleIDs()))
		if _, err := store.Load(ctx); err != nil {
			return err
		}
		s := store.Summary()
		fmt.Fprintf(out, "  %s: %d/%d modules (%s), %d quizzes\n", id, s.CompletedCount, s.TotalCount, s.KnowledgeLevel, s.QuizzesTaken)
	}
	return nil
}

func breakdown(bank []domain.QuizQuestion) []string {
	counts := map[string]int{}
	for _, q := range bank {
		counts[fmt.Sprintf("%s / %s", q.Category, q.Difficulty)]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	return lines
}
