package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docbase/internal/core/domain"
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage indexed documents",
	Long:  `List, view, print, or delete indexed documents.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id]",
	Short: "Print document content",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentDeleteCmd = &cobra.Command{
	Use:   "delete [doc-id]",
	Short: "Remove a document from the index",
	Long:  `Removes a document and all of its chunks. It no longer appears in search results.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentDelete,
}

var documentCategoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories with document counts",
	Args:  cobra.NoArgs,
	RunE:  runDocumentCategories,
}

// documentCategory filters document list.
var documentCategory string

func init() {
	documentListCmd.Flags().StringVarP(&documentCategory, "category", "c", "", "only list documents in this category")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	documentCmd.AddCommand(documentCategoriesCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	docs, err := documentService.List(cmd.Context(), domain.DocumentFilter{Category: documentCategory})
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    File: %s\n", docs[i].Filename)
		if docs[i].Category != "" {
			cmd.Printf("    Category: %s\n", docs[i].Category)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return documentErr("get document", args[0], err)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  File:      %s\n", doc.Filename)
	if doc.Path != "" {
		cmd.Printf("  Path:      %s\n", doc.Path)
	}
	cmd.Printf("  Format:    %s\n", doc.Format)
	cmd.Printf("  Category:  %s\n", doc.Category)
	cmd.Printf("  Size:      %d bytes\n", doc.SizeBytes)
	cmd.Printf("  Chunks:    %d\n", doc.ChunkCount)
	cmd.Printf("  Uploaded:  %s\n", doc.UploadedAt.Local().Format("2006-01-02 15:04:05"))
	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	content, err := documentService.GetContent(cmd.Context(), args[0])
	if err != nil {
		return documentErr("get document content", args[0], err)
	}

	cmd.Println(content)
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	if err := documentService.Delete(cmd.Context(), args[0]); err != nil {
		return documentErr("delete document", args[0], err)
	}

	cmd.Printf("Document %s deleted.\n", args[0])
	return nil
}

func runDocumentCategories(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errNotConfigured("document")
	}

	categories, err := documentService.Categories(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	if len(categories) == 0 {
		cmd.Println("No categories found.")
		return nil
	}
	for _, c := range categories {
		name := c.Name
		if name == "" {
			name = "(none)"
		}
		cmd.Printf("  %-30s %d\n", name, c.DocumentCount)
	}
	return nil
}

func documentErr(op, id string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("document %s not found", id)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
