package cli

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opencode-ai/brandkit/internal/db"
	"github.com/opencode-ai/brandkit/internal/models"
	"github.com/opencode-ai/brandkit/internal/tui/components"
	"github.com/opencode-ai/brandkit/internal/tui/styles"
)

// maxKnowledgeFileSize bounds files registered in the knowledge base.
const maxKnowledgeFileSize = 50 << 20

var kbAddName string

func init() {
	rootCmd.AddCommand(kbCmd)
	kbCmd.AddCommand(kbAddCmd)
	kbCmd.AddCommand(kbListCmd)
	kbCmd.AddCommand(kbRemoveCmd)

	kbAddCmd.Flags().StringVar(&kbAddName, "name", "", "display name (default: file name; single file only)")
}

var kbCmd = &cobra.Command{
	Use:     "kb",
	Aliases: []string{"knowledge"},
	Short:   "Manage the knowledge base",
	Long: `Manage the knowledge base.

Files are registered by path with their size, media type and SHA-256 digest.
Their contents stay where they are.`,
}

var kbAddCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Register files in the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if kbAddName != "" && len(args) > 1 {
			return fmt.Errorf("--name can only be used with a single file")
		}

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()
		repo := db.NewKnowledgeRepository(database)

		added := make([]*models.KnowledgeFile, 0, len(args))
		for _, path := range args {
			step := startProgress(cmd, "Hashing "+filepath.Base(path))
			file, err := describeKnowledgeFile(path)
			if err != nil {
				step.Fail(err)
				return err
			}
			step.Done()
			if kbAddName != "" {
				file.Name = kbAddName
			}

			if err := repo.Create(ctx, file); err != nil {
				if errors.Is(err, db.ErrKnowledgeFileAlreadyExists) {
					return fmt.Errorf("%s is already in the knowledge base", file.Path)
				}
				return err
			}
			recordEvent(ctx, database, models.EventTypeKnowledgeFileAdded, models.EntityTypeKnowledgeFile, file.ID)
			added = append(added, file)
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(out, added)
		}
		for _, file := range added {
			fmt.Fprintf(out, "Added %s (%s, %s)\n", file.Name, formatBytes(file.SizeBytes), shortID(file.ID))
		}
		return nil
	},
}

var kbListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List knowledge base files",
	RunE: func(cmd *cobra.Command, args []string) error {
		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		files, err := db.NewKnowledgeRepository(database).List(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() || IsJSONLOutput() {
			if files == nil {
				files = []*models.KnowledgeFile{}
			}
			return WriteOutput(out, files)
		}
		if len(files) == 0 {
			fmt.Fprintln(out, components.EmptyKnowledge().Render(styles.DefaultStyles()))
			return nil
		}

		rows := make([][]string, 0, len(files))
		for _, file := range files {
			rows = append(rows, []string{
				shortID(file.ID),
				file.Name,
				formatBytes(file.SizeBytes),
				file.MediaType,
				file.SHA256[:12],
				file.Path,
			})
		}
		return writeTable(out, []string{"ID", "NAME", "SIZE", "TYPE", "SHA256", "PATH"}, rows)
	},
}

var kbRemoveCmd = &cobra.Command{
	Use:     "remove <id>",
	Aliases: []string{"rm"},
	Short:   "Remove a file from the knowledge base",
	Long:    "Remove a file record from the knowledge base. The file on disk is not touched.",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		database, err := openDatabase()
		if err != nil {
			return err
		}
		defer database.Close()

		if err := db.NewKnowledgeRepository(database).Delete(ctx, args[0]); err != nil {
			if errors.Is(err, db.ErrKnowledgeFileNotFound) {
				return &PreflightError{
					Message:  fmt.Sprintf("knowledge file %q not found", args[0]),
					NextStep: "brandkit kb list",
				}
			}
			return err
		}
		recordEvent(ctx, database, models.EventTypeKnowledgeFileRemoved, models.EntityTypeKnowledgeFile, args[0])

		if IsJSONOutput() || IsJSONLOutput() {
			return WriteOutput(cmd.OutOrStdout(), map[string]string{"removed": args[0]})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

// describeKnowledgeFile stats, sniffs and hashes a file.
func describeKnowledgeFile(path string) (*models.KnowledgeFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > maxKnowledgeFileSize {
		return nil, fmt.Errorf("%s is larger than %s", path, formatBytes(maxKnowledgeFileSize))
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	head = head[:n]

	hash := sha256.New()
	hash.Write(head)
	if _, err := io.Copy(hash, f); err != nil {
		return nil, fmt.Errorf("hash %s: %w", path, err)
	}

	return &models.KnowledgeFile{
		Name:      filepath.Base(abs),
		Path:      abs,
		SizeBytes: info.Size(),
		MediaType: mediaType(abs, head),
		SHA256:    hex.EncodeToString(hash.Sum(nil)),
	}, nil
}

func mediaType(path string, head []byte) string {
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); byExt != "" {
		return byExt
	}
	return http.DetectContentType(head)
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
