package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ocscaffold/ocscaffold/chat"
	"github.com/ocscaffold/ocscaffold/constants/lipgloss"
	"github.com/ocscaffold/ocscaffold/providers/echo"
	"github.com/ocscaffold/ocscaffold/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the OpenCart assistant chat.",
	Long: `The 'chat' subcommand opens a line-based chat session. The assistant is not backed
by a model: every message is acknowledged and kept in the session history.
Type /help for the available commands.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		return runChat(cmd.Context(), rootDependencies, os.Stdin)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

const chatHelpFallback = "/help  Show this help\n/history  Print the messages of this session\n/clear  Clear the screen and the session history\n/exit  Leave the chat"

func runChat(ctx context.Context, rootDependencies *RootDependencies, input io.Reader) error {
	out := rootDependencies.Out
	session := chat.NewSession(echo.NewEchoChatProvider())

	lines := utils.NewLineReader(input)
	defer lines.Close()

	printHelp := func() {
		welcome, err := chat.RenderWelcome(80)
		if err != nil {
			rootDependencies.Logger.Debug("falling back to plain help", zap.Error(err))
			fmt.Fprintln(out, lipgloss.BoxStyle.Render(chatHelpFallback))
			return
		}
		fmt.Fprint(out, welcome)
	}
	printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		userInput, err := utils.InputPromptWithContext(ctx, lines)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				fmt.Fprintln(out, lipgloss.Yellow.Render("🔄 Exiting..."))
				return nil
			}
			return err
		}
		if userInput == "" {
			continue
		}

		switch chat.ParseCommand(userInput) {
		case chat.CommandHelp:
			printHelp()
		case chat.CommandHistory:
			fmt.Fprintln(out, chat.FormatHistory(session.History()))
		case chat.CommandClear:
			session.Clear()
			fmt.Fprint(out, "\033[2J\033[H")
		case chat.CommandExit:
			return nil
		case chat.CommandUnknown:
			fmt.Fprintln(out, lipgloss.Yellow.Render(fmt.Sprintf("Unknown command %s, type /help for the list.", userInput)))
		default:
			reply, err := session.Send(ctx, userInput)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				fmt.Fprintln(out, lipgloss.Red.Render(fmt.Sprintf("%v", err)))
				continue
			}
			fmt.Fprintln(out, lipgloss.BlueSky.Render(reply.Text))
		}
	}
}
