package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// JSONHandler reads and writes a version string at a gjson path inside a
// JSON manifest. Writes go through sjson so the rest of the document keeps
// its formatting and key order.
type JSONHandler struct {
	file string
	path string
}

func NewJSONHandler(file, path string) *JSONHandler {
	return &JSONHandler{file: file, path: path}
}

// NewExpoHandler handles app.json with the version at expo.version.
func NewExpoHandler() *JSONHandler {
	return NewJSONHandler("app.json", "expo.version")
}

// NewNodeHandler handles package.json with the version at the top level.
func NewNodeHandler() *JSONHandler {
	return NewJSONHandler("package.json", "version")
}

func (h *JSONHandler) ManifestFile() string { return h.file }
func (h *JSONHandler) VersionPath() string  { return h.path }

func (h *JSONHandler) manifestPath(projectRoot string) string {
	if filepath.IsAbs(h.file) {
		return h.file
	}
	return filepath.Join(projectRoot, h.file)
}

func (h *JSONHandler) HasManifestFile(projectRoot string) bool {
	_, err := os.Stat(h.manifestPath(projectRoot))
	return err == nil
}

func (h *JSONHandler) GetVersion(projectRoot string) (string, error) {
	manifestPath := h.manifestPath(projectRoot)

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", h.file, err)
	}
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("parsing %s: invalid JSON", h.file)
	}

	result := gjson.GetBytes(data, h.path)
	if !result.Exists() || result.Type != gjson.String || result.String() == "" {
		return "", fmt.Errorf("%w: %s has no string at %q", ErrVersionNotFound, h.file, h.path)
	}

	return result.String(), nil
}

func (h *JSONHandler) SetVersion(projectRoot string, version string) error {
	manifestPath := h.manifestPath(projectRoot)

	info, err := os.Stat(manifestPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", h.file, err)
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", h.file, err)
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("parsing %s: invalid JSON", h.file)
	}

	updated, err := sjson.SetBytes(data, h.path, version)
	if err != nil {
		return fmt.Errorf("updating %s at %q: %w", h.file, h.path, err)
	}

	if err := os.WriteFile(manifestPath, updated, info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", h.file, err)
	}

	return nil
}
