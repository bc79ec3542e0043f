package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ponderworks/ponder"
	"github.com/ponderworks/ponder/internal/config"
	"github.com/ponderworks/ponder/internal/logging"
	"github.com/ponderworks/ponder/internal/presentation/tui"
	"github.com/ponderworks/ponder/pkg/domain"
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search arXiv from the terminal",
	Long:  `Runs a one-shot arXiv search and renders the results as markdown.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSearch(cmd, args); err != nil {
			fmt.Printf("Search failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().Int("max-results", 10, "Maximum number of results (capped at 50)")
	searchCmd.Flags().String("sort-by", "relevance", "Sort criterion: relevance, submittedDate, lastUpdatedDate")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	sortBy, _ := cmd.Flags().GetString("sort-by")
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	svc := ponder.New(ponder.Config{
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		CacheTTL:      cfg.CacheTTL(),
	}, ponder.WithLogger(logging.NewNop()))
	defer svc.Close()

	tui.PrintBanner()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	papers, err := svc.Papers.Search(ctx, query, maxResults, sortBy, "descending")
	if err != nil {
		return err
	}

	render := tui.NewRenderer()
	out, err := render(resultsMarkdown(query, papers))
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func resultsMarkdown(query string, papers []domain.Paper) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# arXiv results for %q\n\n", query)
	if len(papers) == 0 {
		b.WriteString("_No papers found._\n")
		return b.String()
	}
	for i, p := range papers {
		fmt.Fprintf(&b, "## %d. %s\n\n", i+1, p.Title)
		fmt.Fprintf(&b, "**%s** · %s · `%s`\n\n", strings.Join(p.Authors, ", "), p.Published.Format("2006-01-02"), p.ArxivID)
		if p.Abstract != "" {
			fmt.Fprintf(&b, "%s\n\n", p.Abstract)
		}
		fmt.Fprintf(&b, "[abs](%s) · [pdf](%s)\n\n", p.ArxivURL, p.PDFURL)
	}
	return b.String()
}
