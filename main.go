package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"friendchat/api"
	"friendchat/app"
	"friendchat/commands"
	"friendchat/config"
	"friendchat/socket"
	"friendchat/view"

	"github.com/c-bata/go-prompt"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "friendchat",
	Short: "Terminal client for the friends chat server",
	RunE:  runChat,
}

var (
	flagServerURL string
	flagWSURL     string
	flagLogLevel  string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&flagServerURL, "server-url", "", "chat server base URL (env CHAT_SERVER_URL)")
	flags.StringVar(&flagWSURL, "ws-url", "", "realtime channel URL; derived from the server URL when empty (env CHAT_WS_URL)")
	flags.StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execute chat command")
	}
}

func clearCommand(goos string) *exec.Cmd {
	if goos == "windows" {
		return exec.Command("cmd", "/c", "cls")
	}
	return exec.Command("clear")
}

func clearScreen() {
	cmd := clearCommand(runtime.GOOS)
	cmd.Stdout = os.Stdout
	if err := cmd.Run(); err != nil {
		log.Debug().Err(err).Str("cmd", cmd.Path).Msg("[shell] clear screen failed")
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("server-url") {
		cfg.ServerURL = flagServerURL
		if os.Getenv("CHAT_WS_URL") == "" {
			cfg.WSURL = ""
		}
	}
	if flags.Changed("ws-url") {
		cfg.WSURL = flagWSURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	return cfg, cfg.Resolve()
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	return nil
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := setupLogging(cfg.LogLevel); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := api.New(cfg.ServerURL, cfg.RequestTimeout)
	dial := func(ctx context.Context) (app.Channel, error) {
		conn, err := socket.Dial(ctx, cfg.WSURL, client.CookieJar())
		if err != nil {
			return nil, err
		}
		return conn, nil
	}
	opts := app.DefaultOptions()
	opts.TypingTimeout = cfg.TypingTimeout
	a := app.New(client, dial, view.New(os.Stdout), opts)
	defer a.Close()

	log.Info().Str("server", cfg.ServerURL).Str("ws", cfg.WSURL).Msg("[session] starting")
	fmt.Println("Welcome to Chat Application")
	fmt.Println("Type 'help' to see available commands")

	// an unreachable server leaves the login screen up
	_ = a.Bootstrap(ctx)

	shell := commands.New(ctx, a, os.Stdin, os.Stdout)
	shell.Clear = clearScreen
	shell.Exit = func() {
		if a.Store().ChatPartner() != nil {
			a.CloseChat()
		}
		a.Close()
		os.Exit(0)
	}

	go func() {
		<-ctx.Done()
		log.Info().Msg("[session] interrupted")
		shell.Exit()
	}()

	p := prompt.New(
		shell.Execute,
		shell.Complete,
		prompt.OptionPrefix("> "),
		prompt.OptionLivePrefix(shell.LivePrefix),
		prompt.OptionTitle("CLI Chat App"),
		prompt.OptionHistory([]string{}),
	)
	p.Run()
	return nil
}
