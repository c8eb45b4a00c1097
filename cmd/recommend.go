package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/talentsift/shl-recommender/internal/jobdesc"
	"github.com/talentsift/shl-recommender/internal/logger"
	"github.com/talentsift/shl-recommender/internal/recommender"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend [query...]",
	Short: "Run a one-shot recommendation for a job description",
	Run: func(cmd *cobra.Command, args []string) {
		recommend(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)

	recommendCmd.Flags().StringP("url", "u", "", "fetch the job description from a posting URL instead of the arguments")
	recommendCmd.Flags().IntP("top-k", "k", -1, "maximum number of recommendations (default from config)")
	recommendCmd.Flags().Float64P("max-duration", "m", -1, "maximum assessment duration in minutes (default from config)")
}

func recommend(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	query, err := resolveQuery(ctx, cmd, args, logger)
	if err != nil {
		logger.Fatal("resolving query", zap.Error(err))
	}

	if strings.TrimSpace(query) == "" {
		logger.Warn("please enter a query or URL")
		return
	}

	service, err := newService(ctx, config, logger)
	if err != nil {
		logger.Fatal("building recommendation service", zap.Error(err))
	}

	req := recommender.Request{Query: query}
	if topK, err := cmd.Flags().GetInt("top-k"); err == nil && topK >= 0 {
		req.TopK = &topK
	}
	if maxDuration, err := cmd.Flags().GetFloat64("max-duration"); err == nil && maxDuration >= 0 {
		req.MaxDuration = &maxDuration
	}

	resp, err := service.Recommend(ctx, req)
	if err != nil {
		logger.Fatal("recommendation failed", zap.Error(err))
	}

	if len(resp.RecommendedAssessments) == 0 {
		fmt.Println("No assessments matched the query within the duration limit.")
		return
	}

	for i, rec := range resp.RecommendedAssessments {
		fmt.Printf("%d. %s (%s)\n", i+1, rec.Name, rec.URL)
		fmt.Printf("   score: %.3f | duration: %s | types: %s | remote: %s | adaptive: %s\n",
			rec.Score, rec.Duration, rec.TestType, rec.RemoteSupport, rec.AdaptiveSupport)
	}
}

// resolveQuery takes the job description from the --url flag, the positional
// arguments or an interactive prompt, in that order.
func resolveQuery(ctx context.Context, cmd *cobra.Command, args []string, log *zap.Logger) (string, error) {
	url, _ := cmd.Flags().GetString("url")
	if url = strings.TrimSpace(url); url != "" {
		log.Info("extracting job description from url", zap.String("url", url))
		return jobdesc.NewFetcher(log).Extract(ctx, url)
	}

	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	prompt := promptui.Prompt{Label: "Job description"}
	return prompt.Run()
}
