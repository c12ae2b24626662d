package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/learnscout/internal/classify"
	"github.com/jonathan/learnscout/internal/config"
	"github.com/jonathan/learnscout/internal/llm"
	"github.com/jonathan/learnscout/internal/logger"
	"github.com/jonathan/learnscout/internal/observability"
	"github.com/jonathan/learnscout/internal/pipeline"
	"github.com/jonathan/learnscout/internal/reddit"
	"github.com/jonathan/learnscout/internal/types"
)

// newLLMClient builds the classifier client; tests replace it with a fake.
var newLLMClient = llm.NewClient

// gatherFlags holds the raw flag values for one invocation.
type gatherFlags struct {
	configPath     string
	apiKey         string
	model          string
	baseURL        string
	userAgent      string
	windowYears    int
	searchLimit    int
	concurrency    int
	maxReplyDepth  int
	bodyCap        int
	commentCap     int
	commentBodyCap int
	logLevel       string
	verbose        bool
	out            string
}

func newGatherCommand() *cobra.Command {
	var f gatherFlags

	cmd := &cobra.Command{
		Use:   "gather <topic>",
		Short: "Build a corpus of beginner-relevant threads for a topic",
		Long: `Runs the full gathering pipeline: community suggestion -> search -> deduplication -> relevance filtering -> detail fetching -> trimming.

Progress is printed to stderr; the corpus JSON goes to stdout or --out.
Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGather(cmd, args[0], f)
		},
	}

	// Config file flag (processed first)
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	cmd.Flags().StringVar(&f.model, "model", "", "Override the classifier model")

	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "Content platform base URL")
	cmd.Flags().StringVar(&f.userAgent, "user-agent", "", "User-Agent sent to the content platform")
	cmd.Flags().IntVar(&f.windowYears, "window-years", 0, "Only keep posts from the last N years (-1 for no limit)")
	cmd.Flags().IntVar(&f.searchLimit, "search-limit", 0, "Results requested per search")
	cmd.Flags().IntVar(&f.concurrency, "concurrency", 0, "Maximum concurrent detail fetches")
	cmd.Flags().IntVar(&f.maxReplyDepth, "max-reply-depth", 0, "Deepest reply level parsed")
	cmd.Flags().IntVar(&f.bodyCap, "body-cap", 0, "Maximum characters kept from each post body")
	cmd.Flags().IntVar(&f.commentCap, "comment-cap", 0, "Maximum comments kept per post")
	cmd.Flags().IntVar(&f.commentBodyCap, "comment-body-cap", 0, "Maximum characters kept from each comment")

	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().BoolVarP(&f.verbose, "verbose", "v", false, "Print detailed debug information")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Write the corpus to this file instead of stdout")

	return cmd
}

// resolveConfig loads the config file, applies explicitly set flags, and fills defaults.
func resolveConfig(cmd *cobra.Command, f gatherFlags) (config.Config, error) {
	// Step 1: Load config file if provided
	var cfg config.Config
	if f.configPath != "" {
		loadedCfg, err := config.LoadConfig(f.configPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("api-key") {
		cfg.APIKey = f.apiKey
	}
	if flags.Changed("model") {
		cfg.Model = f.model
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = f.baseURL
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = f.userAgent
	}
	if flags.Changed("window-years") {
		cfg.WindowYears = f.windowYears
	}
	if flags.Changed("search-limit") {
		cfg.SearchLimit = f.searchLimit
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if flags.Changed("max-reply-depth") {
		cfg.MaxDepth = f.maxReplyDepth
	}
	if flags.Changed("body-cap") {
		cfg.BodyCap = f.bodyCap
	}
	if flags.Changed("comment-cap") {
		cfg.CommentCap = f.commentCap
	}
	if flags.Changed("comment-body-cap") {
		cfg.CommentBodyCap = f.commentBodyCap
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if flags.Changed("verbose") {
		cfg.Verbose = f.verbose
	}

	// Step 3: Validate before defaults so bad explicit values are reported
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	// Step 4: Apply defaults for unset values
	return cfg.MergeWithDefaults(config.Default()), nil
}

func runGather(cmd *cobra.Command, topic string, f gatherFlags) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := resolveConfig(cmd, f)
	if err != nil {
		return err
	}

	apiKey := cfg.ResolveAPIKey()
	if apiKey == "" {
		return fmt.Errorf("%s environment variable or --api-key flag is required", config.APIKeyEnv)
	}

	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	client, err := newLLMClient(ctx, cfg.LLMConfig(), apiKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	source := reddit.NewClient(cfg.RedditOptions(), log)
	printer := observability.NewPrinter(cmd.ErrOrStderr())

	result, err := pipeline.Run(ctx, pipeline.RunOptions{
		Topic:       topic,
		WindowYears: cfg.WindowYears,
		Concurrency: cfg.Concurrency,
		Limits:      cfg.Limits(),
		Searcher:    source,
		Details:     source,
		Communities: classify.NewCommunitySelector(client, log),
		Relevance:   classify.NewRelevanceFilter(client, log),
		Logger:      log,
		OnProgress:  func(e types.ProgressEvent) { printer.PrintProgress(e) },
	})
	if err != nil {
		if msg, ok := pipeline.UserMessage(err); ok {
			log.Error("gather failed", zap.Error(err))
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("gather failed: %w", err)
	}

	if cfg.Verbose {
		printer.PrintCommunities(topic, result.Communities)
		printer.PrintCorpusSummary(result.Corpus)
	}

	text, err := result.Corpus.Serialize()
	if err != nil {
		return err
	}
	return writeCorpus(cmd, f.out, text)
}

// writeCorpus writes to path, creating parent directories, or to stdout when path is empty.
func writeCorpus(cmd *cobra.Command, path, text string) error {
	if path == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(text+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write corpus: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Corpus written to %s\n", path)
	return nil
}
