package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sable-systems/caseroute/pkg/config"
	"github.com/sable-systems/caseroute/pkg/evalnorm"
	"github.com/sable-systems/caseroute/pkg/llm"
	"github.com/sable-systems/caseroute/pkg/metrics"
	"github.com/sable-systems/caseroute/pkg/position"
	"github.com/sable-systems/caseroute/pkg/provider"
	"github.com/sable-systems/caseroute/pkg/server"
)

var debugFlag bool

func main() {
	rootCmd := &cobra.Command{
		Use:   "caseroute",
		Short: "Model-aware LLM routing with normalized responses",
		Long: `Caseroute routes requests to OpenAI, Anthropic, or Gemini based on the
	model identifier, normalizes provider responses into a single shape, and
	tracks token usage and cache metrics per request.`,
	}

	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(evaluateCmd())
	rootCmd.AddCommand(modelsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() (*zap.Logger, error) {
	if debugFlag {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// buildRouter wires config, the metrics sink, and the provider clients.
// A missing or unreachable metrics database disables tracking rather than
// failing the command.
func buildRouter(log *zap.Logger) (*llm.Router, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	var sink metrics.Sink
	if cfg.DatabaseDSN != "" {
		dbSink, err := metrics.NewDBSink(cfg.DatabaseDSN, log)
		if err != nil {
			log.Warn("metrics database unavailable, usage tracking disabled", zap.Error(err))
		} else {
			sink = dbSink
		}
	}

	router, err := llm.NewRouter(cfg, sink, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create router: %w", err)
	}
	return router, cfg, nil
}

func serveCmd() *cobra.Command {
	var addrFlag string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  "Starts the HTTP server exposing chat, evaluation, outline, and position inference endpoints.",
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			router, cfg, err := buildRouter(log)
			if err != nil {
				return err
			}

			addr := cfg.ServerAddr
			if addrFlag != "" {
				addr = addrFlag
			}

			inferrer := position.New(router, log)
			srv := server.New(router, inferrer, log, addr)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Run()
			}()

			log.Info("server started", zap.String("addr", addr))

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (overrides config)")

	return cmd
}

func askCmd() *cobra.Command {
	var modelFlag string
	var systemFlag string
	var tempFlag float64
	var effortFlag string
	var caseFlag string

	cmd := &cobra.Command{
		Use:   "ask [prompt]",
		Short: "Send a prompt to the provider matching the model",
		Long: `Routes the prompt to OpenAI, Anthropic, or Gemini based on the --model
	identifier and prints the response text. Metadata about the call goes to
	stderr.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			router, _, err := buildRouter(log)
			if err != nil {
				return err
			}

			routeCfg := llm.RouteConfig{
				ReasoningEffort: effortFlag,
				CaseID:          caseFlag,
			}
			if cmd.Flags().Changed("temperature") {
				routeCfg.Temperature = llm.Float64(tempFlag)
			}

			result, err := router.Chat(cmd.Context(), modelFlag, systemFlag, nil, args[0], routeCfg)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "Routed to %s\n", result.Meta.Provider.Display())
			fmt.Println(result.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&modelFlag, "model", "", "model identifier (required)")
	cmd.Flags().StringVar(&systemFlag, "system", "", "system prompt")
	cmd.Flags().Float64Var(&tempFlag, "temperature", 0, "sampling temperature")
	cmd.Flags().StringVar(&effortFlag, "effort", "", "reasoning effort for reasoning models (low, medium, high)")
	cmd.Flags().StringVar(&caseFlag, "case", "", "case identifier for usage tracking")
	cmd.MarkFlagRequired("model")

	return cmd
}

func evaluateCmd() *cobra.Command {
	var modelFlag string
	var caseFlag string

	cmd := &cobra.Command{
		Use:   "evaluate [prompt]",
		Short: "Run an evaluation prompt and normalize the response",
		Long: `Sends the prompt in JSON mode, normalizes the response into the
	criteria/score/feedback shape, and prints it as JSON. Reads the prompt
	from stdin when no argument is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			prompt := ""
			if len(args) > 0 {
				prompt = args[0]
			} else {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				prompt = strings.TrimSpace(string(data))
			}
			if prompt == "" {
				return fmt.Errorf("prompt is required")
			}

			router, _, err := buildRouter(log)
			if err != nil {
				return err
			}

			result, err := router.Evaluate(cmd.Context(), modelFlag, prompt, llm.RouteConfig{CaseID: caseFlag})
			if err != nil {
				return err
			}

			evaluation, err := evalnorm.New(log).Parse(result.Text)
			if err != nil {
				fmt.Fprintln(os.Stderr, result.Text)
				return err
			}

			data, err := json.MarshalIndent(evaluation, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().StringVar(&modelFlag, "model", "", "model identifier (required)")
	cmd.Flags().StringVar(&caseFlag, "case", "", "case identifier for usage tracking")
	cmd.MarkFlagRequired("model")

	return cmd
}

func modelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models [model-id...]",
		Short: "Show provider routing and key status",
		Long: `With no arguments, lists each provider and whether its API key is
	configured. With model identifiers as arguments, shows which provider
	each one routes to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

			if len(args) > 0 {
				fmt.Fprintln(w, "MODEL\tPROVIDER\tREASONING\tSTATUS")
				for _, id := range args {
					kind := provider.Detect(id)
					reasoning := "no"
					if provider.IsReasoningModel(id) {
						reasoning = "yes"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, kind.Display(), reasoning, keyStatus(cfg, kind))
				}
				return w.Flush()
			}

			fmt.Fprintln(w, "PROVIDER\tKEY\tSTATUS")
			for _, kind := range []provider.Kind{provider.OpenAI, provider.Anthropic, provider.Google} {
				fmt.Fprintf(w, "%s\t%s\t%s\n", kind.Display(), kind.APIKeyEnv(), keyStatus(cfg, kind))
			}
			return w.Flush()
		},
	}

	return cmd
}

func keyStatus(cfg *config.Config, kind provider.Kind) string {
	if cfg.HasProvider(kind) {
		return "ready"
	}
	return "no key"
}
