package patcher

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/grovetools/core/logging"
	"github.com/sirupsen/logrus"
)

// Action represents a single file operation performed or simulated by the writer
type Action struct {
	Type        ActionType
	Description string
	Path        string
	Success     bool
	Error       error
}

// ActionType represents the type of action being performed
type ActionType string

const (
	ActionWriteFile ActionType = "write_file"
	ActionBackup    ActionType = "backup"
)

// Writer encapsulates file output for the patcher.
// It respects dry-run mode and keeps a log of actions for the summary.
type Writer struct {
	dryRun  bool
	backup  bool
	actions []Action
	logger  *logrus.Entry
}

// NewWriter creates a new writer
func NewWriter(dryRun, backup bool) *Writer {
	return &Writer{
		dryRun:  dryRun,
		backup:  backup,
		actions: []Action{},
		logger:  logging.NewLogger("patcher"),
	}
}

// IsDryRun returns whether the writer is in dry-run mode
func (w *Writer) IsDryRun() bool {
	return w.dryRun
}

// Actions returns all actions performed or simulated
func (w *Writer) Actions() []Action {
	return w.actions
}

func (w *Writer) logAction(actionType ActionType, description string, path string, success bool, err error) {
	w.actions = append(w.actions, Action{
		Type:        actionType,
		Description: description,
		Path:        path,
		Success:     success,
		Error:       err,
	})
}

// BackupPath returns where the backup of path is written.
func BackupPath(path string) string {
	return path + ".bak"
}

// WriteFile replaces the content of an existing file atomically: the new
// content goes to a temporary file in the same directory, which is then
// renamed over the original. The original file mode is kept.
func (w *Writer) WriteFile(path string, content []byte) error {
	description := fmt.Sprintf("Write %s", path)

	info, err := os.Stat(path)
	if err != nil {
		w.logAction(ActionWriteFile, description, path, false, err)
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	if w.dryRun {
		w.logger.Infof("[dry-run] Would write to %s", path)
		if w.backup {
			w.logAction(ActionBackup, fmt.Sprintf("Back up %s", path), BackupPath(path), true, nil)
		}
		w.logAction(ActionWriteFile, description, path, true, nil)
		return nil
	}

	if w.backup {
		if err := w.writeBackup(path, info.Mode().Perm()); err != nil {
			return err
		}
	}

	if err := writeAtomic(path, content, info.Mode().Perm()); err != nil {
		w.logAction(ActionWriteFile, description, path, false, err)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.logger.Infof("Wrote %s", path)
	w.logAction(ActionWriteFile, description, path, true, nil)
	return nil
}

func (w *Writer) writeBackup(path string, perm os.FileMode) error {
	backupPath := BackupPath(path)
	description := fmt.Sprintf("Back up %s", path)

	original, err := os.ReadFile(path)
	if err != nil {
		w.logAction(ActionBackup, description, backupPath, false, err)
		return fmt.Errorf("failed to read %s for backup: %w", path, err)
	}
	if err := os.WriteFile(backupPath, original, perm); err != nil {
		w.logAction(ActionBackup, description, backupPath, false, err)
		return fmt.Errorf("failed to write backup %s: %w", backupPath, err)
	}

	w.logger.Infof("Backed up %s to %s", path, backupPath)
	w.logAction(ActionBackup, description, backupPath, true, nil)
	return nil
}

func writeAtomic(path string, content []byte, perm os.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once renamed

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
