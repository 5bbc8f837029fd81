package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/gitbatch/internal/logfields"
)

const prefix = "gitbatch-"

// Manager handles one ephemeral workspace directory.
type Manager struct {
	baseDir string
	tempDir string
	logger  *slog.Logger
}

// NewManager creates a workspace manager rooted at baseDir ("" means os.TempDir()).
func NewManager(baseDir string, logger *slog.Logger) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{baseDir: baseDir, logger: logger}
}

// Create creates a fresh, empty, uniquely named directory.
func (m *Manager) Create() error {
	if m.tempDir != "" {
		return fmt.Errorf("workspace already created at %s", m.tempDir)
	}
	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return fmt.Errorf("failed to create workspace base directory: %w", err)
	}
	name := fmt.Sprintf("%s%s-%s", prefix, time.Now().Format("20060102-150405"), uuid.NewString()[:8])
	tempDir := filepath.Join(m.baseDir, name)

	if err := os.Mkdir(tempDir, 0o700); err != nil {
		return fmt.Errorf("failed to create workspace directory: %w", err)
	}

	m.tempDir = tempDir
	m.logger.Debug("Created workspace", logfields.Path(tempDir))
	return nil
}

// Path returns the workspace directory, or "" before Create.
func (m *Manager) Path() string {
	return m.tempDir
}

// Cleanup removes the workspace directory. It is safe to call more than once.
func (m *Manager) Cleanup() error {
	if m.tempDir == "" {
		return nil
	}
	if err := os.RemoveAll(m.tempDir); err != nil {
		return fmt.Errorf("failed to cleanup workspace: %w", err)
	}
	m.logger.Debug("Cleaned up workspace", logfields.Path(m.tempDir))
	m.tempDir = ""
	return nil
}

// Scoped creates a workspace, runs fn with its path and removes it again on every exit path.
// fn's error takes precedence; a cleanup failure is only returned when fn succeeded.
func Scoped(baseDir string, logger *slog.Logger, fn func(dir string) error) (err error) {
	m := NewManager(baseDir, logger)
	if err := m.Create(); err != nil {
		return err
	}
	defer func() {
		cerr := m.Cleanup()
		if cerr == nil {
			return
		}
		if err != nil {
			m.logger.Warn("Workspace cleanup failed", logfields.Error(cerr))
			return
		}
		err = cerr
	}()
	return fn(m.Path())
}
