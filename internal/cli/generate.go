package cli

import (
	"encoding/json"

	"arithmetic-quiz-service/internal/app"
	"arithmetic-quiz-service/internal/infra/memory"
	"github.com/spf13/cobra"
)

// NewGenerateCmd prints a batch of generated tasks as JSON.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print generated tasks as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			operators, _ := cmd.Flags().GetString("operator")
			grade, _ := cmd.Flags().GetInt("grade")
			count, _ := cmd.Flags().GetInt("count")
			seed, _ := cmd.Flags().GetUint64("seed")

			rnd := app.NewTimeSeededSource()
			if seed != 0 {
				rnd = app.NewRandomSource(seed)
			}
			quiz := app.NewQuizService(memory.NewSessionStore(), app.NewTaskGenerator(rnd), quizOptions(cfg.Quiz))
			ops, _ := app.ParseOperators(operators)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(quiz.Tasks(count, ops, grade))
		},
	}
	f := cmd.Flags()
	f.StringP("operator", "o", "+", "comma separated operators (+, -, ×, ÷ or aliases)")
	f.IntP("grade", "g", 0, "grade 1-6 (0 = configured default)")
	f.IntP("count", "n", 0, "number of tasks (0 = configured default)")
	f.Uint64("seed", 0, "random seed for reproducible output (0 = time based)")
	return cmd
}
