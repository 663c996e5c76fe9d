package fueltools

import (
	"strings"
	"time"
)

// ServerConfig describes a Fuel server.
// Two configs refer to the same server iff their URL fields are equal.
type ServerConfig struct {
	// URL is the scheme and host of the server.
	// Example: "https://api.ignitionfuel.org"
	URL string `yaml:"url" json:"url"`

	// Version is the REST API version, e.g. "1.0".
	Version string `yaml:"version" json:"version"`

	// LocalName is the alias this server is known by locally.
	// It never appears in a model URL and can only come from configuration.
	LocalName string `yaml:"name" json:"name"`
}

// Incomplete reports whether the local name or API version is missing.
func (s ServerConfig) Incomplete() bool {
	return s.LocalName == "" || s.Version == ""
}

// String returns a multi-line description of the server.
func (s ServerConfig) String() string {
	var b strings.Builder
	b.WriteString("Name: " + s.LocalName + "\n")
	b.WriteString("URL: " + s.URL + "\n")
	b.WriteString("Version: " + s.Version + "\n")
	return b.String()
}

// ModelIdentifier names a model hosted on a Fuel server.
// Owner and Name are required; everything else is metadata filled in
// from the server's JSON description when available.
type ModelIdentifier struct {
	// Owner is the user or organization owning the model.
	Owner string `json:"owner"`

	// Name is the model name exactly as the server reports it.
	// It is never normalized in place; see normalizeName.
	Name string `json:"name"`

	// Server is the server the model lives on.
	Server ServerConfig `json:"server"`

	Description  string    `json:"description,omitempty"`
	FileSize     int64     `json:"filesize,omitempty"`
	UploadDate   time.Time `json:"upload_date,omitempty"`
	ModifyDate   time.Time `json:"modify_date,omitempty"`
	Likes        uint32    `json:"likes,omitempty"`
	Downloads    uint32    `json:"downloads,omitempty"`
	LicenseName  string    `json:"license_name,omitempty"`
	LicenseURL   string    `json:"license_url,omitempty"`
	LicenseImage string    `json:"license_image,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
}

// UniqueName returns "<server url>/<owner>/models/<name>".
// This is the unversioned URL form accepted by ParseModelURL.
func (m ModelIdentifier) UniqueName() string {
	return m.Server.URL + "/" + m.Owner + "/models/" + m.Name
}

// String returns "owner/name".
func (m ModelIdentifier) String() string {
	return m.Owner + "/" + m.Name
}

// normalizeName converts a model name into its on-disk form:
// lower case with spaces replaced by underscores.
func normalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
