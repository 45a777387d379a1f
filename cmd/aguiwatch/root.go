package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/spetersoncode/agentview"
	"github.com/spetersoncode/agentview/client"
	"github.com/spetersoncode/agentview/wire"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aguiwatch [message]",
		Short: "Watch an AG-UI agent stream from the terminal",
		Long: `aguiwatch connects to an AG-UI endpoint and prints every event as it
arrives. If a message is given it is sent to the agent once the stream
is connected. Pending approvals can be resolved automatically with
--auto-approve or --auto-reject.`,
		Args: cobra.ArbitraryArgs,
		RunE: runWatch,
	}

	cmd.Flags().String("url", "http://localhost:8080", "AG-UI endpoint base URL (or AGUI_URL)")
	cmd.Flags().String("env-file", "", "env file to load before reading AGUI_* variables")
	cmd.Flags().Bool("auto-approve", false, "approve every pending tool call")
	cmd.Flags().Bool("auto-reject", false, "reject every pending tool call")
	cmd.Flags().Bool("abort-on-disconnect", false, "abort the active run when the stream drops")
	cmd.Flags().BoolP("verbose", "v", false, "enable debug logging")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("failed to load env file: %w", err)
		}
	} else if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	url, _ := cmd.Flags().GetString("url")
	if env := os.Getenv("AGUI_URL"); env != "" && !cmd.Flags().Changed("url") {
		url = env
	}
	autoApprove, _ := cmd.Flags().GetBool("auto-approve")
	autoReject, _ := cmd.Flags().GetBool("auto-reject")
	abortOnDisconnect, _ := cmd.Flags().GetBool("abort-on-disconnect")
	verbose, _ := cmd.Flags().GetBool("verbose")

	if autoApprove && autoReject {
		return fmt.Errorf("--auto-approve and --auto-reject are mutually exclusive")
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	c := client.New(client.Config{
		BaseURL:           url,
		AbortOnDisconnect: abortOnDisconnect,
	}, client.WithLogger(log))
	defer c.Close()

	c.Subscribe(func(ev wire.Event) bool {
		printEvent(ev)
		return true
	})

	if autoApprove || autoReject {
		c.Subscribe(autoDecider(c, autoApprove, log))
	}

	c.Connect()
	log.Info("watching stream", "url", url)

	if msg := strings.TrimSpace(strings.Join(args, " ")); msg != "" {
		if err := c.SendMessage(msg); err != nil {
			return err
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("stopping")
	return nil
}

// autoDecider resolves approval requests as soon as their tool call
// terminates, so argument streaming is complete before deciding.
func autoDecider(c *client.Client, approve bool, log *slog.Logger) client.Subscriber {
	return func(ev wire.Event) bool {
		end, ok := ev.(*wire.ToolCallEnd)
		if !ok {
			return true
		}

		for _, a := range c.Snapshot().Approvals {
			if a.ToolCallID != end.ToolCallID {
				continue
			}
			var err error
			if approve {
				err = c.ApproveToolCall(a.ToolCallID)
			} else {
				err = c.RejectToolCall(a.ToolCallID)
			}
			if err != nil {
				log.Warn("failed to resolve approval", "tool_call_id", a.ToolCallID, "error", err)
			} else {
				log.Info("approval resolved", "tool_call_id", a.ToolCallID, "approved", approve)
			}
		}
		return true
	}
}

func printEvent(ev wire.Event) {
	switch e := ev.(type) {
	case *wire.RunStarted:
		fmt.Printf("▶ run %s started (thread %s)\n", e.RunID, e.ThreadID)
	case *wire.RunFinished:
		fmt.Println("■ run finished")
	case *wire.RunError:
		fmt.Printf("✗ run error: %s\n", e.Message)
	case *wire.StepStarted:
		fmt.Printf("  step: %s\n", e.StepName)
	case *wire.TextMessageContent:
		fmt.Print(e.Delta)
	case *wire.TextMessageChunk:
		fmt.Print(e.Delta)
	case *wire.TextMessageEnd:
		fmt.Println()
	case *wire.ToolCallStart:
		if e.ToolCallName == agentview.ApprovalToolName {
			fmt.Printf("  approval requested (%s)\n", e.ToolCallID)
		} else {
			fmt.Printf("  tool: %s (%s)\n", e.ToolCallName, e.ToolCallID)
		}
	case *wire.ToolCallResult:
		fmt.Printf("  tool result: %s\n", e.Content)
	case *wire.Activity:
		fmt.Printf("  activity [%s]: %s\n", e.Kind, e.Content)
	case *wire.Custom:
		fmt.Printf("  custom %s: %s\n", e.Name, string(e.Value))
	case *wire.Unknown:
		fmt.Printf("  unknown event: %s\n", e.EventType)
	}
}
