package fueltools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// modelJSON is a model as described by the Fuel REST API.
type modelJSON struct {
	Name         string   `json:"name"`
	Owner        string   `json:"owner"`
	Description  string   `json:"description"`
	Likes        uint32   `json:"likes"`
	Downloads    uint32   `json:"downloads"`
	FileSize     int64    `json:"filesize"`
	UploadDate   string   `json:"upload_date"`
	ModifyDate   string   `json:"modify_date"`
	LicenseName  string   `json:"license_name"`
	LicenseURL   string   `json:"license_url"`
	LicenseImage string   `json:"license_image"`
	Tags         []string `json:"tags"`
}

// toIdentifier converts the wire form, attaching srv.
// Unparseable dates are left zero.
func (m modelJSON) toIdentifier(srv ServerConfig) ModelIdentifier {
	return ModelIdentifier{
		Owner:        m.Owner,
		Name:         m.Name,
		Server:       srv,
		Description:  m.Description,
		FileSize:     m.FileSize,
		UploadDate:   parseTime(m.UploadDate),
		ModifyDate:   parseTime(m.ModifyDate),
		Likes:        m.Likes,
		Downloads:    m.Downloads,
		LicenseName:  m.LicenseName,
		LicenseURL:   m.LicenseURL,
		LicenseImage: m.LicenseImage,
		Tags:         m.Tags,
	}
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ParseModel decodes a single model description returned by the server.
// The result's Server is set to srv.
func ParseModel(data []byte, srv ServerConfig) (ModelIdentifier, error) {
	var m modelJSON
	if err := json.Unmarshal(data, &m); err != nil {
		return ModelIdentifier{}, fmt.Errorf("parsing model: %w: %v", ErrInvalidResponse, err)
	}
	if m.Owner == "" || m.Name == "" {
		return ModelIdentifier{}, fmt.Errorf("parsing model: missing owner or name: %w", ErrInvalidResponse)
	}
	return m.toIdentifier(srv), nil
}

// ParseModels decodes a model listing. The body may be a JSON array or a
// single model object; list reports which one it was.
func ParseModels(data []byte, srv ServerConfig) (models []ModelIdentifier, list bool, err error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		m, err := ParseModel(trimmed, srv)
		if err != nil {
			return nil, false, err
		}
		return []ModelIdentifier{m}, false, nil
	}

	var raw []modelJSON
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, true, fmt.Errorf("parsing model list: %w: %v", ErrInvalidResponse, err)
	}

	models = make([]ModelIdentifier, 0, len(raw))
	for _, m := range raw {
		models = append(models, m.toIdentifier(srv))
	}
	return models, true, nil
}
