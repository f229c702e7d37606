package cmd

import (
	"github.com/grovetools/gradlever/pkg/patchconfig"
	"github.com/grovetools/gradlever/pkg/versioncode"
)

type manifestInfo struct {
	File    string `json:"file" yaml:"file"`
	Path    string `json:"path" yaml:"path"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Code    int    `json:"code,omitempty" yaml:"code,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
}

// readManifest reads the version from the configured manifest and computes
// the version code the injected Groovy will produce. Failures are reported in
// the Error field as well as returned.
func readManifest(cfg *patchconfig.Config, projectRoot string) (manifestInfo, error) {
	h, err := cfg.Handler()
	if err != nil {
		return manifestInfo{Error: err.Error()}, err
	}

	info := manifestInfo{File: h.ManifestFile(), Path: h.VersionPath()}

	version, err := h.GetVersion(projectRoot)
	if err != nil {
		info.Error = err.Error()
		return info, err
	}
	info.Version = version

	code, err := versioncode.Compute(version)
	if err != nil {
		info.Error = err.Error()
		return info, err
	}
	info.Code = code

	return info, nil
}
