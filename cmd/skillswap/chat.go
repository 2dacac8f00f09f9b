package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"skillswap/internal/client"
	"skillswap/internal/model"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Message the other participant of a session",
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history <session-id>",
	Short: "Print the messages of a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		msgs, err := api.Messages(cmd.Context(), id)
		if err != nil {
			return err
		}
		if len(msgs) == 0 {
			fmt.Println("No messages yet")
			return nil
		}
		printMessages(msgs)
		return nil
	},
}

var chatSendCmd = &cobra.Command{
	Use:   "send <session-id> <message...>",
	Short: "Send one message",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		msg, err := api.SendMessage(cmd.Context(), id, strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		if msg != nil {
			printMessages([]model.SessionMessage{*msg})
		}
		return nil
	},
}

var chatOpenCmd = &cobra.Command{
	Use:   "open <session-id>",
	Short: "Interactive chat: lines typed on stdin are sent, new messages are printed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := requireLogin(cmd.Context()); err != nil {
			return err
		}
		mode, _ := cmd.Flags().GetString("mode")

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		switch mode {
		case "live":
			live := api.LiveChat(id)
			go live.Run(ctx)
			go readLines(ctx, cancel, func(text string) error {
				_, err := live.Send(ctx, text)
				return err
			})
			return printSnapshots(live.Updates())
		case "session":
			chat := api.SessionChat(id)
			go chat.Run(ctx)
			go readLines(ctx, cancel, func(text string) error {
				return chat.Send(ctx, text)
			})
			return printSnapshots(chat.Updates())
		case "stream":
			history, err := api.Messages(ctx, id)
			if err != nil {
				return err
			}
			printMessages(history)
			events, err := api.StreamMessages(ctx, id)
			if err != nil {
				return err
			}
			go readLines(ctx, cancel, func(text string) error {
				_, err := api.SendMessage(ctx, id, text)
				return err
			})
			for ev := range events {
				if ev.Message != nil {
					printMessages([]model.SessionMessage{*ev.Message})
				}
			}
			return nil
		}
		return fmt.Errorf("unknown mode %q, use live, session or stream", mode)
	},
}

// printSnapshots prints the messages not shown yet, assuming the list only
// grows between snapshots.
func printSnapshots(updates <-chan client.ChatSnapshot) error {
	shown := 0
	for snap := range updates {
		if snap.Err != nil {
			fmt.Fprintln(os.Stderr, "refresh failed:", snap.Err)
			continue
		}
		if len(snap.Messages) < shown {
			shown = 0
		}
		printMessages(snap.Messages[shown:])
		shown = len(snap.Messages)
	}
	return nil
}

func readLines(ctx context.Context, done context.CancelFunc, send func(string) error) {
	defer done()
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		if err := send(scanner.Text()); err != nil {
			fmt.Fprintln(os.Stderr, "send failed:", err)
		}
	}
}

func init() {
	chatOpenCmd.Flags().String("mode", "live", "live (3s poll), session (5s cached poll) or stream (websocket)")
	chatCmd.AddCommand(chatHistoryCmd, chatSendCmd, chatOpenCmd)
}
