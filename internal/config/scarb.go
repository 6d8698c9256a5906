package config

import (
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ScarbManifest is the part of Scarb.toml we read
type ScarbManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
}

// ScarbPackageName returns [package].name from Scarb.toml, or "" when unavailable
func ScarbPackageName(projectRoot string) string {
	var manifest ScarbManifest
	if _, err := toml.DecodeFile(filepath.Join(projectRoot, "Scarb.toml"), &manifest); err != nil {
		return ""
	}
	return manifest.Package.Name
}
