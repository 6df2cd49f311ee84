package saver

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/pkg/errors"
)

// LocalFileSaver stores audio blobs on local disk.
// Paths handed out are relative to StoragePath - they are what goes
// into Meeting.AudioPath.
type LocalFileSaver struct {
	// StoragePath is the main folder to save into
	StoragePath string
}

// NewLocalFileSaver creates LocalFileSaver instance
func NewLocalFileSaver(storagePath string) (*LocalFileSaver, error) {
	if storagePath == "" {
		return nil, errors.New("No storage path provided")
	}
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return nil, errors.Wrap(err, "Can't create storage dir "+storagePath)
	}
	return &LocalFileSaver{StoragePath: storagePath}, nil
}

// Save stores the audio and returns the storage path for the meeting.
// File name is unique per save to avoid collisions on re-upload.
func (fs *LocalFileSaver) Save(reader io.Reader, originalName string, meetingID string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	storagePath := filepath.Join(meetingID, meetingID+"_"+uuid.New().String()[:8]+ext)
	fullPath := filepath.Join(fs.StoragePath, storagePath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", errors.Wrap(err, "Can't create dir for "+fullPath)
	}
	f, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", errors.Wrap(err, "Can't create file "+fullPath)
	}
	defer f.Close()
	savedBytes, err := io.Copy(f, reader)
	if err != nil {
		return "", errors.Wrap(err, "Can't save file "+fullPath)
	}
	cmdapp.Log.Infof("Saved file %s. Size = %d b", fullPath, savedBytes)
	return storagePath, nil
}

// Resolve returns the local file path for a storage path, "" if missing
func (fs *LocalFileSaver) Resolve(storagePath string) string {
	if storagePath == "" {
		return ""
	}
	fullPath := filepath.Join(fs.StoragePath, storagePath)
	if _, err := os.Stat(fullPath); err != nil {
		return ""
	}
	return fullPath
}

// Delete removes the stored file. A missing file is not an error -
// it returns false so best-effort cleanup can log and move on.
func (fs *LocalFileSaver) Delete(storagePath string) (bool, error) {
	if storagePath == "" {
		return false, nil
	}
	fullPath := filepath.Join(fs.StoragePath, storagePath)
	if _, err := os.Stat(fullPath); err != nil {
		return false, nil
	}
	if err := os.Remove(fullPath); err != nil {
		return false, errors.Wrap(err, "Can't delete "+fullPath)
	}
	// drop the per-meeting dir if it became empty
	_ = os.Remove(filepath.Dir(fullPath))
	return true, nil
}

// HealthyFunc returns a liveness check testing the storage dir is writable
func (fs *LocalFileSaver) HealthyFunc() func() error {
	return func() error {
		info, err := os.Stat(fs.StoragePath)
		if err != nil {
			return errors.Wrap(err, "Can't stat storage dir")
		}
		if !info.IsDir() {
			return errors.New(fs.StoragePath + " is not a dir")
		}
		return nil
	}
}
