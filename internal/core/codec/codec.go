// Package codec converts episodes, campaigns and backups to and from their
// portable JSON form.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/storyforge/internal/core/narrative"
)

// ErrNilDocument is returned when there is nothing to export.
var ErrNilDocument = errors.New("nothing to export: document is nil")

// ParseError reports malformed input and keeps the decoder's error.
type ParseError struct {
	Kind string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s JSON: %v", e.Kind, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Backup is a whole-database document.
type Backup struct {
	Version   int                   `json:"version"`
	Timestamp time.Time             `json:"timestamp"`
	Episodes  []*narrative.Episode  `json:"episodes"`
	Campaigns []*narrative.Campaign `json:"campaigns"`
}

// ExportEpisode encodes ep for sharing. lastModified is stripped.
func ExportEpisode(ep *narrative.Episode) ([]byte, error) {
	if ep == nil {
		return nil, ErrNilDocument
	}
	cp := ep.Clone()
	cp.LastModified = nil
	return encode(cp)
}

// ExportCampaign encodes c for sharing. lastModified is stripped.
func ExportCampaign(c *narrative.Campaign) ([]byte, error) {
	if c == nil {
		return nil, ErrNilDocument
	}
	cp := c.Clone()
	cp.LastModified = nil
	return encode(cp)
}

// EncodeBackup encodes a backup document.
func EncodeBackup(b *Backup) ([]byte, error) {
	return encode(b)
}

// MarshalEpisode is the compact storage encoding, lastModified included.
func MarshalEpisode(ep *narrative.Episode) ([]byte, error) {
	return json.Marshal(ep)
}

// MarshalCampaign is the compact storage encoding, lastModified included.
func MarshalCampaign(c *narrative.Campaign) ([]byte, error) {
	return json.Marshal(c)
}

// DecodeEpisode parses an episode document.
func DecodeEpisode(data []byte) (*narrative.Episode, error) {
	var ep narrative.Episode
	if err := decode(data, &ep); err != nil {
		return nil, &ParseError{Kind: "episode", Err: err}
	}
	return &ep, nil
}

// DecodeCampaign parses a campaign document.
func DecodeCampaign(data []byte) (*narrative.Campaign, error) {
	var c narrative.Campaign
	if err := decode(data, &c); err != nil {
		return nil, &ParseError{Kind: "campaign", Err: err}
	}
	return &c, nil
}

// DecodeBackup parses a backup document.
func DecodeBackup(data []byte) (*Backup, error) {
	var b Backup
	if err := decode(data, &b); err != nil {
		return nil, &ParseError{Kind: "backup", Err: err}
	}
	return &b, nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty document")
	}
	if trimmed[0] != '{' {
		return fmt.Errorf("expected a JSON object")
	}
	return json.Unmarshal(trimmed, v)
}
