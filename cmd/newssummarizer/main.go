package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/peterdokim/news-summary-ai/internal/app"
	"github.com/peterdokim/news-summary-ai/internal/config"
	"github.com/peterdokim/news-summary-ai/internal/logging"
	"github.com/peterdokim/news-summary-ai/internal/metrics"
	"github.com/peterdokim/news-summary-ai/internal/usecase"
)

var (
	keyword     string
	maxArticles int
	clusters    int
	configPath  string
	jsonOutput  bool
	notify      bool
	metricsAddr string
)

func main() {
	// A missing .env is fine as long as the variables are exported.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:          "newssummarizer",
		Short:        "Group and summarize Naver News articles for a keyword",
		SilenceUsage: true,
		RunE:         run,
	}

	rootCmd.Flags().StringVarP(&keyword, "keyword", "k", "", "search keyword (prompted when omitted)")
	rootCmd.Flags().IntVarP(&maxArticles, "max-articles", "n", 0, "maximum number of articles to fetch (default from config)")
	rootCmd.Flags().IntVarP(&clusters, "clusters", "c", 0, "number of groups to build (default from config)")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to YAML config (default $NEWS_SUMMARIZER_CONFIG)")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")
	rootCmd.Flags().BoolVar(&notify, "notify", false, "publish the digest to Telegram")
	rootCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "expose Prometheus /metrics on this address")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load(configPath)
	// stdout carries the digest; logs go to stderr.
	logger := logging.NewWithWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)

	if metricsAddr == "" {
		metricsAddr = cfg.Metrics.Addr
	}
	if metricsAddr != "" {
		srv, err := metrics.Start(metricsAddr, logger.With("component", "metrics"))
		if err != nil {
			logger.Error("metrics server failed", "error", err)
			return err
		}
		defer srv.Stop(context.Background())
		logger.Info("metrics server listening", "addr", srv.Addr())
	}

	if !cmd.Flags().Changed("keyword") {
		keyword = promptKeyword(cmd.InOrStdin(), cmd.OutOrStdout())
	}
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		logger.Error("keyword cannot be empty")
		return fmt.Errorf("keyword cannot be empty")
	}

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return err
	}

	res, err := application.Run(ctx, app.RunOptions{
		Keyword:     keyword,
		MaxArticles: maxArticles,
		Clusters:    clusters,
		Notify:      notify,
	})
	if err != nil {
		logger.Error("run failed", "error", err)
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(res)
	}
	_, err = fmt.Fprint(out, usecase.FormatDigest(res))
	return err
}

func promptKeyword(in io.Reader, out io.Writer) string {
	fmt.Fprint(out, "검색어를 입력하세요: ")
	input, _ := bufio.NewReader(in).ReadString('\n')
	return strings.TrimSpace(input)
}
