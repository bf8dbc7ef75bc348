package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"chat-widget/internal/config"
	"chat-widget/internal/logger"
	"chat-widget/internal/models"
	"chat-widget/internal/services"
	"chat-widget/internal/tui"
	"chat-widget/internal/widget"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	endpoint string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "chatwidget",
		Short: "Chat with a backend /chat endpoint from the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts)
		},
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.endpoint, "endpoint", "", "backend base URL (overrides CHAT_BACKEND_URL)")

	cmd.AddCommand(newSendCmd(opts))
	return cmd
}

func newSendCmd(opts *rootOptions) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "send <message...>",
		Short: "Send one message and print the rendered turns",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.LogLevel, cmd.ErrOrStderr(), cfg.IsDevelopment())
			if err != nil {
				return err
			}

			chatService := services.NewChatService(cfg.BackendURL, nil)
			return runSend(cmd.Context(), cmd.OutOrStdout(), chatService, log, strings.Join(args, " "), asHTML)
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "print the chat-box markup instead of plain text")
	return cmd
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.endpoint != "" {
		cfg.BackendURL = opts.endpoint
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// runSend drives the widget once against in-memory elements.
func runSend(ctx context.Context, out io.Writer, fetcher widget.ReplyFetcher, log zerolog.Logger, message string, asHTML bool) error {
	input := widget.NewTextInput(message)
	box := widget.NewChatBox()

	ctrl := widget.NewController(input, box, fetcher, widget.WithLogger(log))
	<-ctrl.SendMessage(ctx)

	if asHTML {
		html, err := box.HTML()
		if err != nil {
			return fmt.Errorf("failed to render chat box: %w", err)
		}
		_, err = fmt.Fprintln(out, html)
		return err
	}

	for _, b := range box.Bubbles() {
		if _, err := fmt.Fprintln(out, plainBubble(b)); err != nil {
			return err
		}
	}
	return nil
}

func plainBubble(b models.Bubble) string {
	return b.Sender + " " + b.Text
}

func runTUI(ctx context.Context, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logPath := cfg.LogFile
	if logPath == "" {
		logPath = config.DefaultTUILogFile
	}
	logFile, err := logger.OpenFile(logPath)
	if err != nil {
		return err
	}
	defer logFile.Close()

	log, err := logger.New(cfg.LogLevel, logFile, false)
	if err != nil {
		return err
	}

	log.Info().Str("backend", cfg.BackendURL).Msg("Starting chat widget")
	app := tui.New(services.NewChatService(cfg.BackendURL, nil), log)
	if err := app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("Chat widget stopped with error")
		return err
	}
	log.Info().Msg("Chat widget stopped")
	return nil
}
