// Package payload decodes calculation requests.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"

	"fjacquet/household-split/internal/models"
	"fjacquet/household-split/internal/spliterror"
)

var errEmptyDocument = errors.New("empty document")

// Request is the document accepted by the calculate, classify and
// validate commands: {"records": [...], "settings": {...}}.
type Request struct {
	Records  []models.Transaction `json:"records"`
	Settings *models.Settings     `json:"settings,omitempty"`

	// ratiosSet records that the document carried owner_ratio or
	// spouse_ratio, so an explicit 0 is not mistaken for an omitted one.
	ratiosSet bool
}

// ratioKeys detects which ratio keys a document sets to a non-null value.
type ratioKeys struct {
	Settings *struct {
		OwnerRatio  *json.RawMessage `json:"owner_ratio"`
		SpouseRatio *json.RawMessage `json:"spouse_ratio"`
	} `json:"settings"`
}

// Decode reads one request from r. source names the input in errors.
// A document without "records" is accepted as an empty record list.
func Decode(r io.Reader, source string) (*Request, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &spliterror.PayloadError{Source: source, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &spliterror.PayloadError{Source: source, Err: errEmptyDocument}
	}

	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, &spliterror.PayloadError{Source: source, Err: err}
	}
	var keys ratioKeys
	if err := json.Unmarshal(data, &keys); err != nil {
		return nil, &spliterror.PayloadError{Source: source, Err: err}
	}
	if keys.Settings != nil {
		req.ratiosSet = keys.Settings.OwnerRatio != nil || keys.Settings.SpouseRatio != nil
	}
	if req.Records == nil {
		req.Records = []models.Transaction{}
	}
	return &req, nil
}

// DecodeFile opens path and decodes the request it contains.
func DecodeFile(path string) (*Request, error) {
	f, err := os.Open(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return nil, &spliterror.PayloadError{Source: path, Err: err}
	}
	defer func() {
		_ = f.Close()
	}()
	return Decode(f, path)
}

// ResolveSettings returns the request settings, or defaults when the
// request carries none. Fields the request leaves empty are taken from
// defaults. Ratios are taken as a pair: defaults apply only when the
// document sets neither ratio, so the sum check still sees what the
// caller sent, including an explicit 0/0.
func (r *Request) ResolveSettings(defaults models.Settings) models.Settings {
	if r.Settings == nil {
		return defaults
	}
	s := *r.Settings
	if s.IdentificationColumn == "" {
		s.IdentificationColumn = defaults.IdentificationColumn
	}
	if s.OwnerPattern == "" {
		s.OwnerPattern = defaults.OwnerPattern
	}
	if s.SpousePattern == "" {
		s.SpousePattern = defaults.SpousePattern
	}
	if !r.ratiosSet && s.OwnerRatio.IsZero() && s.SpouseRatio.IsZero() {
		s.OwnerRatio = defaults.OwnerRatio
		s.SpouseRatio = defaults.SpouseRatio
	}
	if s.AmountSign == "" {
		s.AmountSign = defaults.AmountSign
	}
	return s
}
