// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/MKhiriev/vaultlock/internal/app"
	"github.com/MKhiriev/vaultlock/internal/logger"
	"github.com/MKhiriev/vaultlock/internal/service"
	"github.com/MKhiriev/vaultlock/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Sub-commands understood by [CLI.Run].
const (
	CmdExport   = "export"
	CmdImport   = "import"
	CmdList     = "list"
	CmdGenerate = "generate"
	CmdVersion  = "version"
)

// MaxBackupSize caps the size of a file accepted by import.
const MaxBackupSize = 16 << 20

// CLI runs one non-interactive command against the vault session.
// Command output goes to out, prompts and notices to errOut.
type CLI struct {
	services     *service.Services
	out          io.Writer
	errOut       io.Writer
	readPassword PasswordReader
	now          func() time.Time
	logger       *logger.Logger
}

func NewCLI(services *service.Services, out, errOut io.Writer, readPassword PasswordReader, log *logger.Logger) *CLI {
	return &CLI{
		services:     services,
		out:          out,
		errOut:       errOut,
		readPassword: readPassword,
		now:          time.Now,
		logger:       log,
	}
}

// Run dispatches args[0]. The session is locked before Run returns.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", ErrMissingArgument)
	}
	defer c.services.Session.Lock()

	ctx = c.logger.WithContext(ctx)
	cmd, rest := args[0], args[1:]

	switch cmd {
	case CmdExport:
		path := ""
		if len(rest) > 0 {
			path = rest[0]
		}
		return c.Export(ctx, path)
	case CmdImport:
		if len(rest) == 0 {
			return fmt.Errorf("%w: import needs a backup file", ErrMissingArgument)
		}
		return c.Import(ctx, rest[0])
	case CmdList:
		return c.List(ctx)
	case CmdGenerate:
		return c.Generate()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
}

// BackupFileName is the default export file name for day.
func BackupFileName(day time.Time) string {
	return "vaultlock-backup-" + day.Format(time.DateOnly) + ".vault"
}

// Export writes the stored vault verbatim to path, or to BackupFileName in
// the working directory when path is empty. Existing files are never
// overwritten.
func (c *CLI) Export(ctx context.Context, path string) error {
	if path == "" {
		path = BackupFileName(c.now())
	}

	data, err := c.services.Session.ExportEnvelope(ctx)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %s", ErrBackupExists, path)
	}
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	if _, err = f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write backup: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("close backup: %w", err)
	}

	logger.FromContext(ctx).Info().Str("func", "CLI.Export").Str("path", path).Msg("vault exported")
	fmt.Fprintf(c.errOut, "Backup written to %s\n", path)
	return nil
}

// Import replaces the stored vault with the backup at path. The backup keeps
// its own master password.
func (c *CLI) Import(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open backup: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxBackupSize+1))
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	if len(data) > MaxBackupSize {
		return fmt.Errorf("%w: %s", ErrBackupTooLarge, path)
	}

	if err = c.services.Session.ImportEnvelope(ctx, data); err != nil {
		return err
	}

	logger.FromContext(ctx).Info().Str("func", "CLI.Import").Str("path", path).Msg("vault imported")
	fmt.Fprintln(c.errOut, "Vault imported. Unlock it with the master password of the backup.")
	return nil
}

// List unlocks the vault and prints titles, usernames and categories.
// Secrets are never printed.
func (c *CLI) List(ctx context.Context) error {
	session := c.services.Session
	if session.State() == models.SessionNoVault {
		return service.ErrNoVault
	}

	password, err := c.readPassword("Master password: ")
	if err != nil {
		return err
	}
	if err = session.Unlock(ctx, password); err != nil {
		return err
	}
	defer session.Lock()

	records, err := session.ListRecords()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(c.errOut, "The vault is empty.")
		return nil
	}

	fmt.Fprintln(c.out, renderRecordTable(records))
	return nil
}

func renderRecordTable(records []models.Credential) string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Title,
			rec.Username,
			rec.Category.DisplayName(),
			rec.UpdatedAt.Local().Format(time.DateOnly),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TITLE", "USERNAME", "CATEGORY", "UPDATED").
		Rows(rows...).
		Render()
}

// Generate prints one password built from the configured policy and reports
// its strength on errOut.
func (c *CLI) Generate() error {
	password, err := c.services.Generator.Generate(c.services.Policy)
	if err != nil {
		return fmt.Errorf("generate password: %w", err)
	}

	strength := c.services.Generator.Strength(password)
	fmt.Fprintln(c.out, password)
	fmt.Fprintf(c.errOut, "Strength: %s (%d/4)\n", strength.Label(), strength.Score)
	return nil
}

// ErrorMessage turns err into the line shown to a CLI user.
func ErrorMessage(err error) string {
	if msg := service.UserMessage(err); msg != app.MsgInternalError {
		return msg
	}
	return err.Error()
}
