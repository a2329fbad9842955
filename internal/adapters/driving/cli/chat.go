package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about a document",
	Long: `Chat with the selected document, or the one given with --doc.

Select a document with "docchat document select <doc-id>".`,
}

var chatSendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send a message, or start an interactive chat without one",
	Long: `Send a message about the document and print the answer.

Without a message, docchat reads one question per line until end of input
or "/exit".`,
	RunE: runChatSend,
}

var chatHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the chat history",
	Args:  cobra.NoArgs,
	RunE:  runChatHistory,
}

// chatDocID overrides the selected document.
var chatDocID string

func init() {
	chatCmd.PersistentFlags().StringVarP(&chatDocID, "doc", "d", "", "Document ID (defaults to the selected document)")

	chatCmd.AddCommand(chatSendCmd)
	chatCmd.AddCommand(chatHistoryCmd)
	rootCmd.AddCommand(chatCmd)
}

func runChatSend(cmd *cobra.Command, args []string) error {
	if err := requireWorkspace(); err != nil {
		return err
	}

	doc, err := openChat(cmd.Context())
	if err != nil {
		return err
	}

	if len(args) > 0 {
		return sendMessage(cmd, strings.Join(args, " "))
	}

	cmd.Printf("Chatting with %s. Type /exit to quit.\n", doc.Title)
	p := newPrompter(cmd)
	for {
		message := p.line("> ")
		if message == "/exit" {
			return nil
		}
		if message == "" {
			if _, err := p.reader.Peek(1); err != nil {
				return nil
			}
			continue
		}
		if err := sendMessage(cmd, message); err != nil {
			cmd.PrintErrf("Error: %v\n", err)
		}
	}
}

func sendMessage(cmd *cobra.Command, message string) error {
	entry, err := workspace.Send(cmd.Context(), message)
	if err != nil {
		return err
	}
	if entry == nil {
		return errors.New("message was not sent")
	}

	cmd.Println(renderAnswer(entry.BotResponse))
	cmd.Println()
	return nil
}

func runChatHistory(cmd *cobra.Command, _ []string) error {
	if err := requireWorkspace(); err != nil {
		return err
	}

	doc, err := openChat(cmd.Context())
	if err != nil {
		return err
	}

	entries := workspace.Chat().Entries
	if len(entries) == 0 {
		cmd.Printf("No messages yet for %s.\n", doc.Title)
		return nil
	}

	cmd.Printf("Chat history for %s:\n\n", doc.Title)
	for i := range entries {
		cmd.Printf("[%s] You: %s\n", formatTime(entries[i].Timestamp), entries[i].UserMessage)
		cmd.Println(renderAnswer(entries[i].BotResponse))
		cmd.Println()
	}
	return nil
}

// openChat resolves the target document, opens it and checks the
// transcript loaded.
func openChat(ctx context.Context) (*domain.Document, error) {
	id := chatDocID
	if id == "" {
		id = storedSelection(ctx)
	}
	if id == "" {
		return nil, fmt.Errorf("%w: pass --doc or run \"docchat document select\"", domain.ErrNoDocumentSelected)
	}

	if _, err := findDocument(ctx, id); err != nil {
		return nil, err
	}
	doc, err := workspace.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return doc, nil
}
