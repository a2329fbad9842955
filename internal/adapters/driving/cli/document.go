package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat-cli/internal/core/domain"
)

// selectedDocumentKey stores the document chat commands default to.
const selectedDocumentKey = "docchat.selected_document"

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"doc", "documents"},
	Short:   "Manage uploaded documents",
	Long:    `List, upload, delete, or select the documents you chat with.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a document",
	Long: `Upload a PDF, Word, or text document with a title.

Example:
  docchat document upload report.pdf --title "Q3 report" --select`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentUpload,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Delete a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentSelectCmd = &cobra.Command{
	Use:   "select [doc-id]",
	Short: "Select the document chat commands use",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentSelect,
}

// Flags for upload.
var (
	uploadTitle  string
	uploadSelect bool
)

func init() {
	documentUploadCmd.Flags().StringVarP(&uploadTitle, "title", "t", "", "Document title (required)")
	documentUploadCmd.Flags().BoolVarP(&uploadSelect, "select", "s", false, "Select the new document")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentUploadCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentSelectCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if err := requireWorkspace(); err != nil {
		return err
	}

	if err := workspace.Refresh(cmd.Context()); err != nil {
		return err
	}

	docs := workspace.Documents()
	if len(docs) == 0 {
		cmd.Println("No documents uploaded yet.")
		cmd.Println("Upload one with: docchat document upload <file> --title <title>")
		return nil
	}

	selected := storedSelection(cmd.Context())
	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		marker := " "
		if docs[i].ID == selected {
			marker = "*"
		}
		cmd.Printf("%s %s\n", marker, docs[i].ID)
		cmd.Printf("    Title:    %s\n", docs[i].Title)
		cmd.Printf("    Uploaded: %s\n", formatTime(docs[i].UploadedAt))
		if docs[i].FileURL != "" {
			cmd.Printf("    File:     %s\n", docs[i].FileURL)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentUpload(cmd *cobra.Command, args []string) error {
	if err := requireWorkspace(); err != nil {
		return err
	}

	file, closeFile, err := openFile(args[0])
	if err != nil {
		return err
	}
	defer closeFile()

	cmd.Printf("Uploading %s (%s)...\n", file.Name, units.HumanSize(float64(file.Size)))
	id, err := workspace.Upload(cmd.Context(), domain.UploadRequest{File: file, Title: uploadTitle}, false)
	if err != nil {
		printFieldErrors(cmd, err)
		return err
	}

	cmd.Printf("Uploaded document %s\n", id)
	if uploadSelect {
		if err := saveSelection(cmd.Context(), id); err != nil {
			return err
		}
		cmd.Println("Selected for chat")
	}
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if err := requireWorkspace(); err != nil {
		return err
	}

	id := args[0]
	if err := workspace.Remove(cmd.Context(), id); err != nil {
		return err
	}
	if storedSelection(cmd.Context()) == id {
		_ = selectionStore.Remove(cmd.Context(), selectedDocumentKey)
	}

	cmd.Printf("Deleted document %s\n", id)
	return nil
}

func runDocumentSelect(cmd *cobra.Command, args []string) error {
	if err := requireWorkspace(); err != nil {
		return err
	}

	doc, err := findDocument(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := saveSelection(cmd.Context(), doc.ID); err != nil {
		return err
	}

	cmd.Printf("Selected %s (%s)\n", doc.Title, doc.ID)
	return nil
}

// findDocument refreshes the registry and looks id up.
func findDocument(ctx context.Context, id string) (*domain.Document, error) {
	if err := workspace.Refresh(ctx); err != nil {
		return nil, err
	}
	doc := domain.FindDocument(workspace.Documents(), id)
	if doc == nil {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	return doc, nil
}

func storedSelection(ctx context.Context) string {
	if selectionStore == nil {
		return ""
	}
	id, err := selectionStore.Get(ctx, selectedDocumentKey)
	if err != nil {
		return ""
	}
	return id
}

func saveSelection(ctx context.Context, id string) error {
	if selectionStore == nil {
		return errors.New("selection store not configured")
	}
	if err := selectionStore.Set(ctx, selectedDocumentKey, id); err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return nil
}
