package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/tawjihai/tawjih-be/config"
	"github.com/tawjihai/tawjih-be/logger"
	"github.com/tawjihai/tawjih-be/service"
)

// corpusCmd normalizes the configured knowledge sources and prints the
// result, which is useful to check a new document before deploying it.
var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Load and print the normalized knowledge corpus",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		zlog := logger.New("warn", cfg.LogFormat)
		knowledgeService, err := service.NewKnowledgeService(cfg.KnowledgeSources, zlog)
		if err != nil {
			log.Fatalf("Failed to load knowledge corpus: %v", err)
		}

		language, _ := cmd.Flags().GetString("language")
		full, _ := cmd.Flags().GetBool("full")

		for _, doc := range knowledgeService.Documents() {
			if language != "" && doc.Language != language {
				continue
			}
			fmt.Printf("=== %s: %s (%d chars) ===\n", doc.Language, doc.Description, len(doc.Text))
			if full {
				fmt.Println(doc.Text)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(corpusCmd)
	corpusCmd.Flags().StringP("language", "l", "", "only this language")
	corpusCmd.Flags().Bool("full", false, "print the full normalized text")
}
