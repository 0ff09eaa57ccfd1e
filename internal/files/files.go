// Package files resolves where timetrack keeps its data and configuration,
// following the XDG base directory conventions.
package files

import (
	"path/filepath"

	"github.com/adrg/xdg"
	log "github.com/sirupsen/logrus"
)

const (
	ScopeName             = "timetrack"
	DefaultConfigFilename = "config.yaml"
	ActivityFileName      = "activities"
	EntryFileName         = "entries"
)

type Paths struct {
	DataDir    string
	ConfigFile string
}

// Resolve returns the standard locations, creating the XDG directories of
// the scope when missing. A non-empty dataDir overrides the XDG data
// directory.
func Resolve(dataDir string) (Paths, error) {
	if dataDir == "" {
		entryFile, err := xdg.DataFile(filepath.Join(ScopeName, EntryFileName))
		if err != nil {
			log.Errorf("could not resolve data directory: %v", err)
			return Paths{}, err
		}
		dataDir = filepath.Dir(entryFile)
	}
	configFile, err := xdg.ConfigFile(filepath.Join(ScopeName, DefaultConfigFilename))
	if err != nil {
		log.Errorf("could not resolve config directory: %v", err)
		return Paths{}, err
	}
	return Paths{
		DataDir:    dataDir,
		ConfigFile: configFile,
	}, nil
}

func (p Paths) ActivityFile() string {
	return filepath.Join(p.DataDir, ActivityFileName)
}

func (p Paths) EntryFile() string {
	return filepath.Join(p.DataDir, EntryFileName)
}
