package infrastructure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourusername/mediafetch/internal/domain"
	"go.uber.org/zap"
)

// YTDLPEngine implements domain.Engine by invoking the yt-dlp binary
type YTDLPEngine struct {
	config  *domain.EngineConfig
	logsDir string
	logger  *zap.Logger
}

// NewYTDLPEngine creates a new yt-dlp engine adapter
func NewYTDLPEngine(config *domain.EngineConfig, logsDir string, logger *zap.Logger) *YTDLPEngine {
	return &YTDLPEngine{
		config:  config,
		logsDir: logsDir,
		logger:  logger,
	}
}

// stderr markers that identify failures tied to the source media rather
// than the engine or the host. Matched case-insensitively.
var mediaErrorMarkers = []string{
	"unsupported url",
	"is not a valid url",
	"private video",
	"sign in to confirm",
	"age-restricted",
	"age restricted",
	"video unavailable",
	"content is not available",
	"requested format is not available",
	"no video formats found",
}

// Acquire runs yt-dlp synchronously, writing the produced file into
// workspace. The call blocks for the full fetch plus post-processing; the
// caller bounds it via ctx.
func (e *YTDLPEngine) Acquire(ctx context.Context, url, workspace string, inst domain.EngineInstructions) (*domain.Artifact, error) {
	args := e.buildArgs(workspace, inst, url)

	engineLog, err := e.openLogFile()
	if err != nil {
		return nil, fmt.Errorf("%w: open engine log: %v", domain.ErrEngineUnexpected, err)
	}
	defer engineLog.Close()

	// Command header with proper shell escaping for display
	e.writeLogHeader(engineLog, url, ShellEscapeCommand(e.config.Binary, args...))

	// Capture combined output for failure classification while mirroring
	// it to the engine log (like cmd > file 2>&1)
	var output bytes.Buffer
	sink := io.MultiWriter(engineLog, &output)

	cmd := exec.CommandContext(ctx, e.config.Binary, args...)
	cmd.Stdout = sink
	cmd.Stderr = sink

	runErr := cmd.Run()
	if runErr != nil {
		e.writeLogFooter(engineLog, false, fmt.Sprintf("yt-dlp failed: %v", runErr))
		return nil, e.classifyFailure(ctx, runErr, output.String())
	}

	artifact, err := e.findArtifact(workspace)
	if err != nil {
		e.writeLogFooter(engineLog, false, err.Error())
		return nil, err
	}

	e.writeLogFooter(engineLog, true, fmt.Sprintf("Produced: %s", artifact.Name))
	return artifact, nil
}

// buildArgs assembles the yt-dlp argument list for one acquisition.
// exec.Command passes args directly to the process, no shell quoting needed.
func (e *YTDLPEngine) buildArgs(workspace string, inst domain.EngineInstructions, url string) []string {
	args := []string{
		"--no-progress",
		"--no-warnings",
		"-f", inst.StreamSelector,
		"-o", inst.OutputTemplate,
		"-P", workspace,
	}

	if inst.NoPlaylist {
		args = append(args, "--no-playlist")
	}

	for _, step := range inst.PostProcessing {
		args = append(args,
			"--extract-audio",
			"--audio-format", step.Codec,
			"--audio-quality", step.Quality,
		)
	}

	// Opaque pass-through for authenticated sources
	if e.config.CookieFile != "" && fileExists(e.config.CookieFile) {
		args = append(args, "--cookies", e.config.CookieFile)
	}
	if e.config.UserAgent != "" {
		args = append(args, "--user-agent", e.config.UserAgent)
	}

	return append(args, url)
}

// classifyFailure maps a yt-dlp failure onto the domain failure kinds.
// Raw engine output stays server-side: it goes into the wrapped error for
// logs, and callers only ever show the kind to the client.
func (e *YTDLPEngine) classifyFailure(ctx context.Context, runErr error, output string) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%w: engine timed out", domain.ErrEngineUnexpected)
		}
		return fmt.Errorf("%w: %v", domain.ErrEngineUnexpected, ctxErr)
	}

	lowered := strings.ToLower(output)
	for _, marker := range mediaErrorMarkers {
		if strings.Contains(lowered, marker) {
			return fmt.Errorf("%w: %s", domain.ErrExtractionFailed, marker)
		}
	}

	e.logger.Error("Engine failed with unclassified output",
		zap.Error(runErr),
		zap.String("output", truncate(output, 2000)))
	return fmt.Errorf("%w: %v", domain.ErrEngineUnexpected, runErr)
}

// findArtifact locates the single media file yt-dlp produced in the
// workspace. The engine may have renamed the output while merging
// containers, so the concrete path is resolved here rather than predicted
// from the template. Partial downloads and metadata files are skipped.
func (e *YTDLPEngine) findArtifact(workspace string) (*domain.Artifact, error) {
	entries, err := os.ReadDir(workspace)
	if err != nil {
		return nil, fmt.Errorf("%w: read workspace: %v", domain.ErrEngineUnexpected, err)
	}

	var newest string
	var newestMod time.Time
	for _, entry := range entries {
		if entry.IsDir() || isTransientFile(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = entry.Name()
			newestMod = info.ModTime()
		}
	}

	if newest == "" {
		return nil, fmt.Errorf("%w: engine reported success but produced no file", domain.ErrEngineUnexpected)
	}

	return &domain.Artifact{
		Path: filepath.Join(workspace, newest),
		Name: newest,
	}, nil
}

// isTransientFile reports whether a workspace entry is a partial download
// or engine metadata rather than the final artifact
func isTransientFile(name string) bool {
	switch {
	case strings.HasSuffix(name, ".part"),
		strings.HasSuffix(name, ".ytdl"),
		strings.HasSuffix(name, ".temp"),
		strings.HasSuffix(name, ".info.json"):
		return true
	default:
		return false
	}
}

// openLogFile opens the engine log file for today.
// All engine output (stdout and stderr) goes to this single file.
func (e *YTDLPEngine) openLogFile() (*os.File, error) {
	if err := os.MkdirAll(e.logsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	dateStr := time.Now().Format("20060102")
	logPath := filepath.Join(e.logsDir, "engine-"+dateStr+".log")
	return os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
}

// writeLogHeader writes the acquisition start marker
func (e *YTDLPEngine) writeLogHeader(file *os.File, url, cmdLine string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	file.WriteString(fmt.Sprintf("\n=== [%s] Acquire: %s ===\n", timestamp, url))
	file.WriteString(fmt.Sprintf("$ %s\n", cmdLine))
}

// writeLogFooter writes the acquisition end marker
func (e *YTDLPEngine) writeLogFooter(file *os.File, success bool, message string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	status := "SUCCESS"
	if !success {
		status = "FAILED"
	}
	file.WriteString(fmt.Sprintf("[%s] %s: %s\n", timestamp, status, message))
	file.WriteString("=== END ===\n\n")
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// truncate shortens a string for log fields
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
