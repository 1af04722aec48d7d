package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/integrail/askgpt/internal/build"
	"github.com/integrail/askgpt/pkg/client"
	"github.com/integrail/askgpt/pkg/config"
	"github.com/integrail/askgpt/pkg/llm"
	"github.com/integrail/askgpt/pkg/util"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type cliFlags struct {
	config      config.Config
	configPath  string
	headers     []string
	output      string
	interactive bool
}

func newRootCmd() *cobra.Command {
	f := cliFlags{config: config.Default()}

	rootCmd := &cobra.Command{
		Use:          "askgpt [question...]",
		Version:      build.Version,
		Short:        "Ask a chat model a single question",
		Long:         "Sends one system prompt and one question to an OpenAI-compatible chat completions endpoint and prints the first answer",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, f)
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			headers, err := util.SliceToMap(f.headers)
			if err != nil {
				return errors.Wrapf(err, "invalid --header")
			}
			chat, err := newChatClient(cfg, headers, log)
			if err != nil {
				return err
			}

			if f.interactive {
				// the prompt reports failures itself, log lines would tear the screen
				log.SetOutput(io.Discard)
				return startInteractive(cmd.Context(), cfg, chat, f.output)
			}
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return errors.Errorf("a question is required unless --interactive is set")
			}
			return ask(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), chat, cfg, question, f.output)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	flags.StringVarP(&f.config.System, "system", "s", f.config.System, "System prompt sent before the question")
	flags.StringVarP(&f.config.Model, "model", "m", f.config.Model, "Chat model (deployment name for Azure)")
	flags.Float64VarP(&f.config.Temperature, "temperature", "T", f.config.Temperature, "Sampling temperature within [0, 2]")
	flags.DurationVarP(&f.config.Timeout, "timeout", "t", f.config.Timeout, "Max request duration (duration, e.g. 30s)")
	flags.StringVarP(&f.config.Backend, "backend", "b", f.config.Backend, "Client backend: openai or langchain")
	flags.StringVarP(&f.config.BaseURL, "base-url", "u", f.config.BaseURL, "OpenAI-compatible API base URL")
	flags.StringVar(&f.config.AzureEndpoint, "azure-endpoint", f.config.AzureEndpoint, "Azure OpenAI endpoint (uses Azure credentials unless AZURE_OPENAI_API_KEY is set)")
	flags.StringVar(&f.config.LogLevel, "log-level", f.config.LogLevel, "Log level: debug, info, warn or error")
	flags.StringSliceVarP(&f.headers, "header", "H", []string{}, "Extra HTTP header KEY=VALUE to send with each request")
	flags.StringVarP(&f.output, "output", "o", "", "Save the answer to this file (a directory with --interactive)")
	flags.BoolVarP(&f.interactive, "interactive", "i", false, "Start an interactive prompt, each question is asked on its own")

	return rootCmd
}

// resolveConfig layers explicitly set flags over the file and environment configuration.
func resolveConfig(cmd *cobra.Command, f cliFlags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return cfg, err
	}
	overrides := map[string]func(){
		"system":         func() { cfg.System = f.config.System },
		"model":          func() { cfg.Model = f.config.Model },
		"temperature":    func() { cfg.Temperature = f.config.Temperature },
		"timeout":        func() { cfg.Timeout = f.config.Timeout },
		"backend":        func() { cfg.Backend = f.config.Backend },
		"base-url":       func() { cfg.BaseURL = f.config.BaseURL },
		"azure-endpoint": func() { cfg.AzureEndpoint = f.config.AzureEndpoint },
		"log-level":      func() { cfg.LogLevel = f.config.LogLevel },
	}
	for name, override := range overrides {
		if cmd.Flags().Changed(name) {
			override()
		}
	}
	return cfg, cfg.Validate()
}

func newLogger(level string, out io.Writer) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log level")
	}
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(lvl)
	return log, nil
}

func newChatClient(cfg config.Config, headers map[string]string, log logrus.FieldLogger) (llm.Client, error) {
	opts := append(llm.FromConfig(cfg), llm.WithHeaders(headers), llm.WithLogger(log))
	if cfg.Backend == config.BackendLangChain {
		return llm.NewLangChain(cfg.Timeout, opts...)
	}
	return llm.New(cfg.Timeout, opts...)
}

func ask(ctx context.Context, out, errOut io.Writer, chat llm.Client, cfg config.Config, question, output string) error {
	answer, err := chat.AskQuestion(ctx, cfg.System, question, cfg.Model, cfg.Temperature)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(out, answer)
	if output == "" {
		return nil
	}
	report, err := client.SaveAnswer(output, answer)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(errOut, report)
	return nil
}

func startInteractive(ctx context.Context, cfg config.Config, chat llm.Client, outDir string) error {
	m := client.BubbleClient(ctx, client.Config{
		System:      cfg.System,
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		OutDir:      outDir,
	}, chat)
	if _, err := tea.NewProgram(m, tea.WithContext(ctx)).Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Wrapf(err, "interactive prompt failed")
	}
	return nil
}
