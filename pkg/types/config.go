// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for engines that make network
// requests.
type HTTPConfig struct {
	// Timeout bounds the whole request round trip (connect, send, receive).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with requests
	// (e.g. "metasearch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// EBSCOConfig configures the EBSCO Host EIT engine. ProfileID,
// ProfilePassword, and at least one database are required.
type EBSCOConfig struct {
	ProfileID       string `json:"profile_id" yaml:"profile_id"`
	ProfilePassword string `json:"profile_password,omitempty" yaml:"profile_password,omitempty"`

	// Databases lists the EBSCO short database names to search
	// (e.g. "a9h", "awn"). Overridable per call via Query.Databases.
	Databases []string `json:"databases" yaml:"databases"`
}

// WorldCatConfig configures the WorldCat SRU Dublin Core engine.
type WorldCatConfig struct {
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// Auth requests servicelevel=full by default. Overridable per call via
	// Query.Auth.
	Auth bool `json:"auth" yaml:"auth"`
}

// JournalTOCsConfig configures the JournalTOCs RSS engine.
type JournalTOCsConfig struct {
	// RegisteredEmail is the account registered with JournalTOCs; sent as
	// the user parameter and required for every fetch.
	RegisteredEmail string `json:"registered_email,omitempty" yaml:"registered_email,omitempty"`

	// BaseURL overrides the production endpoint, mainly for tests.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// EnginesConfig groups all engine configurations. A nil engine section
// means that engine is not configured and is left out of the registry.
type EnginesConfig struct {
	HTTP        HTTPConfig         `json:"http" yaml:"http"`
	EBSCO       *EBSCOConfig       `json:"ebsco,omitempty" yaml:"ebsco,omitempty"`
	WorldCat    *WorldCatConfig    `json:"worldcat,omitempty" yaml:"worldcat,omitempty"`
	JournalTOCs *JournalTOCsConfig `json:"journal_tocs,omitempty" yaml:"journal_tocs,omitempty"`
}
