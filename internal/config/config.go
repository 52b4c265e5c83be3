// Package config resolves tool settings from the environment, loading
// a local .env file first when one exists.
package config

import (
	"os"

	"github.com/joho/godotenv"
)

// DefaultMasterPath is where the XMage checkout lives unless
// XMAGE_MASTER points elsewhere.
const DefaultMasterPath = "/opt/git/github.com/magefree/mage/master"

const masterEnv = "XMAGE_MASTER"

// Config carries the resolved settings.
type Config struct {
	// MasterPath is the git checkout of the XMage source tree that
	// all maintenance commands operate on.
	MasterPath string
}

// Load reads an optional .env file into the environment and resolves
// settings. Variables already set in the environment win over file
// entries; a missing file is not an error.
func Load(filenames ...string) Config {
	_ = godotenv.Load(filenames...)
	return FromEnv()
}

// FromEnv resolves settings from the current environment only.
func FromEnv() Config {
	c := Config{MasterPath: DefaultMasterPath}
	if v := os.Getenv(masterEnv); v != "" {
		c.MasterPath = v
	}
	return c
}
