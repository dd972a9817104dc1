package style

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// NotFoundError indicates a user-recoverable missing input: an empty
// samples batch or a missing style profile document.
type NotFoundError struct {
	Path string
	Hint string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Hint)
}

// IsNotFound reports whether err (or any error in its chain) is a
// NotFoundError.
func IsNotFound(err error) bool {
	var nfErr *NotFoundError
	return errors.As(err, &nfErr)
}

// SaveProfile serializes the profile as an indented JSON document at
// path, replacing any existing document. The write goes through a
// temporary file and rename so readers never observe a partial
// document.
func SaveProfile(profile *Profile, path string) error {
	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing style profile: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating profile directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".style_profile-*.json")
	if err != nil {
		return fmt.Errorf("creating temp profile file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing style profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp profile file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing style profile %s: %w", path, err)
	}

	return nil
}

// LoadProfile reads the style profile document at path. A missing
// document is a NotFoundError telling the operator to run extraction;
// no placeholder file is created.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{
				Path: path,
				Hint: "no style profile found; run 'quill extract' first",
			}
		}
		return nil, fmt.Errorf("reading style profile %s: %w", path, err)
	}

	var profile Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("decoding style profile %s: %w", path, err)
	}

	return &profile, nil
}
