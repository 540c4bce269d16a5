package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/docstacker/docsign/client/services/workflow"
	"github.com/docstacker/docsign/fsm/types/responses"
	"github.com/docstacker/docsign/qr"
	"github.com/docstacker/docsign/storage"
	"github.com/docstacker/docsign/types"
)

const (
	flagListenAddr    = "listen_addr"
	flagQRCodesFolder = "qr_codes_folder"
	flagOutput        = "output"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	okColor     = color.New(color.FgGreen)
	missColor   = color.New(color.FgYellow)
)

func init() {
	rootCmd.PersistentFlags().String(flagListenAddr, "localhost:8080", "Daemon Listen Address")
	rootCmd.PersistentFlags().String(flagQRCodesFolder, "/tmp", "Folder to save QR codes")
}

var rootCmd = &cobra.Command{
	Use:          "docsign_cli",
	Short:        "docsign daemon cli utilities",
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(
		createSessionCommand(),
		getSessionCommand(),
		getSessionsCommand(),
		deleteSessionCommand(),
		getCoverageCommand(),
		getSigningStatusCommand(),
		getAuditLogCommand(),
		getDownloadURLCommand(),
		getDownloadQRCommand(),
		decodeQRCommand(),
		getFSMGraphCommand(),
	)
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Failed to execute root command: %v", err)
		os.Exit(1)
	}
}

func host(cmd *cobra.Command) (string, error) {
	listenAddr, err := cmd.Flags().GetString(flagListenAddr)
	if err != nil {
		return "", fmt.Errorf("failed to read configuration: %w", err)
	}
	return listenAddr, nil
}

func createSessionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create_session [signer names...]",
		Short: "creates a new signing session, one signer per name",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := host(cmd)
			if err != nil {
				return err
			}
			var view workflow.View
			if err = postRequest(listenAddr, "createSession", map[string][]string{"signers": args}, &view); err != nil {
				return fmt.Errorf("failed to create session: %w", err)
			}
			printView(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

func getSessionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get_session [session ID]",
		Args:  cobra.ExactArgs(1),
		Short: "shows the stage, roster and fields of a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := host(cmd)
			if err != nil {
				return err
			}
			output, err := cmd.Flags().GetString(flagOutput)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %w", err)
			}
			var view workflow.View
			if err = getRequest(listenAddr, "getSession", sessionQuery(args[0]), &view); err != nil {
				return fmt.Errorf("failed to get session: %w", err)
			}
			return writeOutput(cmd.OutOrStdout(), output, view)
		},
	}
	cmd.Flags().StringP(flagOutput, "o", "text", "Output format: text, json or yaml")
	return cmd
}

func getSessionsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_sessions",
		Short: "lists all sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := host(cmd)
			if err != nil {
				return err
			}
			var views []workflow.View
			if err = getRequest(listenAddr, "getSessions", nil, &views); err != nil {
				return fmt.Errorf("failed to get sessions: %w", err)
			}
			w := cmd.OutOrStdout()
			for _, view := range views {
				fmt.Fprintf(w, "%s\t%s\t%d signer(s)\t%d field(s)\n",
					view.ID, view.Stage, len(view.Roster), len(view.Fields))
			}
			return nil
		},
	}
}

func deleteSessionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete_session [session ID]",
		Args:  cobra.ExactArgs(1),
		Short: "deletes a session and its persisted state",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := host(cmd)
			if err != nil {
				return err
			}
			if err = postRequest(listenAddr, "deleteSession", map[string]string{"sessionID": args[0]}, nil); err != nil {
				return fmt.Errorf("failed to delete session: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "session %s deleted\n", args[0])
			return nil
		},
	}
}

func getCoverageCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_coverage [session ID]",
		Args:  cobra.ExactArgs(1),
		Short: "lists the signers that still have no field",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := host(cmd)
			if err != nil {
				return err
			}
			var uncovered []types.Signer
			if err = getRequest(listenAddr, "getCoverage", sessionQuery(args[0]), &uncovered); err != nil {
				return fmt.Errorf("failed to get coverage: %w", err)
			}
			w := cmd.OutOrStdout()
			if len(uncovered) == 0 {
				okColor.Fprintln(w, "every signer has at least one field")
				return nil
			}
			for _, signer := range uncovered {
				missColor.Fprintf(w, "%s (%s) has no field\n", signer.Name, signer.ID)
			}
			return nil
		},
	}
}

func getSigningStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_signing_status [session ID]",
		Args:  cobra.ExactArgs(1),
		Short: "shows the signing sequence progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := host(cmd)
			if err != nil {
				return err
			}
			var status responses.SigningStatusResponse
			if err = getRequest(listenAddr, "getSigningStatus", sessionQuery(args[0]), &status); err != nil {
				return fmt.Errorf("failed to get signing status: %w", err)
			}
			printSigningStatus(cmd.OutOrStdout(), &status)
			return nil
		},
	}
}

func getAuditLogCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_audit_log [session ID]",
		Args:  cobra.ExactArgs(1),
		Short: "prints the audit log of a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := host(cmd)
			if err != nil {
				return err
			}
			var messages []storage.Message
			if err = getRequest(listenAddr, "getAuditLog", sessionQuery(args[0]), &messages); err != nil {
				return fmt.Errorf("failed to get audit log: %w", err)
			}
			w := cmd.OutOrStdout()
			for _, m := range messages {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", m.Offset, m.CreatedAt.Format("2006-01-02 15:04:05"), m.Event, string(m.Data))
			}
			return nil
		},
	}
}

func getDownloadURLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_download_url [session ID]",
		Args:  cobra.ExactArgs(1),
		Short: "prints the download and preview links of the result document",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := host(cmd)
			if err != nil {
				return err
			}
			var links struct {
				DownloadURL string `json:"downloadUrl"`
				PreviewURL  string `json:"previewUrl"`
			}
			if err = getRequest(listenAddr, "getDownloadURL", sessionQuery(args[0]), &links); err != nil {
				return fmt.Errorf("failed to get download url: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "download: %s\npreview:  %s\n", links.DownloadURL, links.PreviewURL)
			return nil
		},
	}
}

func getDownloadQRCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get_download_qr [session ID]",
		Args:  cobra.ExactArgs(1),
		Short: "saves the QR code of the download link as PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := host(cmd)
			if err != nil {
				return err
			}
			folder, err := cmd.Flags().GetString(flagQRCodesFolder)
			if err != nil {
				return fmt.Errorf("failed to read configuration: %w", err)
			}
			png, err := getBlob(listenAddr, "getDownloadQR", sessionQuery(args[0]))
			if err != nil {
				return fmt.Errorf("failed to get download QR: %w", err)
			}
			path := filepath.Join(folder, fmt.Sprintf("docsign_%s_download.png", args[0]))
			if err = os.WriteFile(path, png, 0644); err != nil {
				return fmt.Errorf("failed to save QR code: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "QR code was saved to: %s\n", path)
			return nil
		},
	}
}

func decodeQRCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode_qr [path]",
		Args:  cobra.ExactArgs(1),
		Short: "prints the text encoded in a QR code image",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := qr.ReadQRFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read QR code: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), data)
			return nil
		},
	}
}

func getFSMGraphCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fsm_graph [session ID]",
		Args:  cobra.ExactArgs(1),
		Short: "prints the state machines of a session in DOT format",
		RunE: func(cmd *cobra.Command, args []string) error {
			listenAddr, err := host(cmd)
			if err != nil {
				return err
			}
			var graphs []string
			if err = getRequest(listenAddr, "getFSMGraph", sessionQuery(args[0]), &graphs); err != nil {
				return fmt.Errorf("failed to get FSM graph: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(graphs, "\n"))
			return nil
		},
	}
}

func writeOutput(w io.Writer, format string, view workflow.View) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case "yaml":
		// round trip through JSON so YAML keys follow the API names
		data, err := json.Marshal(view)
		if err != nil {
			return err
		}
		var generic map[string]interface{}
		if err = json.Unmarshal(data, &generic); err != nil {
			return err
		}
		return yaml.NewEncoder(w).Encode(generic)
	case "text":
		printView(w, view)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func printView(w io.Writer, view workflow.View) {
	headerColor.Fprintf(w, "Session %s\n", view.ID)
	fmt.Fprintf(w, "Stage: %s (%d/4)\n", view.Stage, view.StageIndex+1)
	if view.DocumentID != "" {
		fmt.Fprintf(w, "Document: %s, %d page(s)\n", view.DocumentID, view.PageCount)
	}
	if view.SignedDocumentID != "" {
		fmt.Fprintf(w, "Signed document: %s\n", view.SignedDocumentID)
	}
	if view.FinalDocumentID != "" {
		fmt.Fprintf(w, "Final document: %s\n", view.FinalDocumentID)
	}

	headerColor.Fprintln(w, "Signers:")
	for _, signer := range view.Roster {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", signer.ID, signer.Name, signer.Color)
	}
	if len(view.Fields) > 0 {
		headerColor.Fprintln(w, "Fields:")
		for _, f := range view.Fields {
			fmt.Fprintf(w, "  %s\t%s\tpage %d\t(%.3f, %.3f)\t%s\n",
				f.ID, f.FieldType, f.PageNumber, f.XNorm, f.YNorm, f.SignerRole)
		}
	}
	if view.Signing != nil {
		printSigningStatus(w, view.Signing)
	}
}

func printSigningStatus(w io.Writer, status *responses.SigningStatusResponse) {
	headerColor.Fprintf(w, "Signing: %d/%d complete, %s\n", status.CompleteCount, status.Total, status.State)
	for i, signer := range status.Signers {
		marker := " "
		if i == status.Index {
			marker = ">"
		}
		if signer.Complete {
			okColor.Fprintf(w, "%s %s signed (%s)\n", marker, signer.Name, signer.Digest)
		} else {
			missColor.Fprintf(w, "%s %s pending\n", marker, signer.Name)
		}
	}
}
