package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mwhitt/trivvy/internal/models"
)

const (
	sessionFileExt  = ".json"
	tempFileExt     = ".json.tmp"
	migratedFileExt = ".json.migrated"
)

// FileConfig holds configuration for the file-backed session repository
type FileConfig struct {
	// DataDir is the directory holding one JSON document per guild
	DataDir string

	// Logger for corruption warnings
	Logger zerolog.Logger
}

// fileRepository implements the Repository interface with one JSON file per
// guild, written atomically via temp-file-then-rename.
type fileRepository struct {
	dir string
	log zerolog.Logger
}

// NewFile creates a new file-backed session repository
func NewFile(cfg *FileConfig) (*fileRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.DataDir == "" {
		return nil, errors.New("data directory cannot be empty")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return &fileRepository{
		dir: cfg.DataDir,
		log: cfg.Logger,
	}, nil
}

func (r *fileRepository) sessionPath(guildID string) string {
	return filepath.Join(r.dir, guildID+sessionFileExt)
}

// GetSession retrieves the session for a guild from disk
func (r *fileRepository) GetSession(ctx context.Context, input *GetSessionInput) (*models.Session, error) {
	if input == nil || input.GuildID == "" {
		return nil, errors.New("input and guild ID cannot be empty")
	}

	data, err := os.ReadFile(r.sessionPath(input.GuildID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	sess, err := decodeSession(data, input.GuildID, r.log)
	if err != nil {
		r.log.Warn().
			Err(err).
			Str("guild_id", input.GuildID).
			Msg("Discarding malformed session file")
		return nil, ErrSessionNotFound
	}

	return sess, nil
}

// SaveSession persists a session to disk. The document is written to a temp
// path and renamed over the destination so readers never observe a partial
// write. On failure the temp artifact is removed and the error propagated.
func (r *fileRepository) SaveSession(ctx context.Context, input *SaveSessionInput) error {
	if input == nil || input.Session == nil {
		return errors.New("input and session cannot be nil")
	}

	data, err := encodeSession(input.Session)
	if err != nil {
		return err
	}

	// Pretty-print on disk for auditability
	var indented json.RawMessage = data
	pretty, err := json.MarshalIndent(indented, "", "  ")
	if err == nil {
		data = pretty
	}

	path := r.sessionPath(input.Session.GuildID)
	tempPath := filepath.Join(r.dir, input.Session.GuildID+tempFileExt)

	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write session file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to commit session file: %w", err)
	}

	return nil
}

// DeleteSession removes a session file. Idempotent.
func (r *fileRepository) DeleteSession(ctx context.Context, input *DeleteSessionInput) error {
	if input == nil || input.GuildID == "" {
		return errors.New("input and guild ID cannot be empty")
	}

	if err := os.Remove(r.sessionPath(input.GuildID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}

	return nil
}

// GetAllSessions loads every session file in the data directory, used to warm
// memory at startup. Corrupt files are logged and skipped.
func (r *fileRepository) GetAllSessions(ctx context.Context, input *GetAllSessionsInput) (*GetAllSessionsOutput, error) {
	matches, err := filepath.Glob(filepath.Join(r.dir, "*"+sessionFileExt))
	if err != nil {
		return nil, fmt.Errorf("failed to list session files: %w", err)
	}

	sessions := make(map[string]*models.Session, len(matches))
	for _, path := range matches {
		guildID := strings.TrimSuffix(filepath.Base(path), sessionFileExt)

		sess, err := r.GetSession(ctx, &GetSessionInput{GuildID: guildID})
		if err != nil {
			// GetSession already logged malformed files
			if errors.Is(err, ErrSessionNotFound) {
				continue
			}
			return nil, err
		}

		sessions[guildID] = sess
	}

	return &GetAllSessionsOutput{Sessions: sessions}, nil
}

// MigrateTo copies every legacy session file into the destination repository,
// then renames each migrated file to a .migrated suffix so the run is
// re-run-safe and auditable. Individual record failures are counted, not
// fatal.
func (r *fileRepository) MigrateTo(ctx context.Context, dest Repository) (*MigrateOutput, error) {
	if dest == nil {
		return nil, errors.New("destination repository cannot be nil")
	}

	matches, err := filepath.Glob(filepath.Join(r.dir, "*"+sessionFileExt))
	if err != nil {
		return nil, fmt.Errorf("failed to list session files: %w", err)
	}

	out := &MigrateOutput{}
	for _, path := range matches {
		guildID := strings.TrimSuffix(filepath.Base(path), sessionFileExt)

		sess, err := r.GetSession(ctx, &GetSessionInput{GuildID: guildID})
		if err != nil {
			r.log.Warn().
				Err(err).
				Str("guild_id", guildID).
				Msg("Skipping unreadable session during migration")
			out.Failed++
			continue
		}

		if err := dest.SaveSession(ctx, &SaveSessionInput{Session: sess}); err != nil {
			r.log.Warn().
				Err(err).
				Str("guild_id", guildID).
				Msg("Failed to migrate session")
			out.Failed++
			continue
		}

		// Mark as migrated, never delete
		migratedPath := filepath.Join(r.dir, guildID+migratedFileExt)
		if err := os.Rename(path, migratedPath); err != nil {
			r.log.Warn().
				Err(err).
				Str("guild_id", guildID).
				Msg("Failed to mark session as migrated")
			out.Failed++
			continue
		}

		out.Migrated++
	}

	return out, nil
}
