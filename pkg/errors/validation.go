package errors

import (
	"os"
	"strings"
	"unicode"
)

// ValidateCollageID checks that a collage id can be used as a frontend key
// and inside output file names.
func ValidateCollageID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidConfig, "collage id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidConfig, "collage id too long (max 128 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidConfig, "collage id contains whitespace or control characters")
		}
	}
	if strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return New(ErrCodeInvalidConfig, "collage id cannot contain path components: %q", id)
	}
	return nil
}

// ValidateDir checks that path is an existing directory.
func ValidateDir(path, what string) error {
	if path == "" {
		return New(ErrCodeInvalidConfig, "%s is required", what)
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return New(ErrCodeDirNotFound, "%s does not exist: %s", what, path)
	}
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "%s", what)
	}
	if !info.IsDir() {
		return New(ErrCodeInvalidPath, "%s is not a directory: %s", what, path)
	}
	return nil
}

// ValidateFile checks that path is an existing regular file.
func ValidateFile(path, what string) error {
	if path == "" {
		return New(ErrCodeInvalidConfig, "%s is required", what)
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return New(ErrCodeFileNotFound, "%s does not exist: %s", what, path)
	}
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "%s", what)
	}
	if info.IsDir() {
		return New(ErrCodeInvalidPath, "%s is a directory: %s", what, path)
	}
	return nil
}
