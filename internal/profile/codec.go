package profile

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var errMissingID = errors.New("profile: missing id")

// Encode serializes p as JSON.
func Encode(p *Profile) ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("profile: encode: %w", err)
	}
	return data, nil
}

// DecodeStrict parses a serialized profile and reports malformed input.
func DecodeStrict(data []byte) (*Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("profile: decode: %w", err)
	}
	if p.ID == uuid.Nil {
		return nil, errMissingID
	}
	if p.AvatarEmoji == "" {
		p.AvatarEmoji = DefaultAvatar
	}
	if !p.Settings.DifficultyPreference.Valid() {
		p.Settings.DifficultyPreference = ""
	}
	return &p, nil
}

// Decode parses a serialized profile. Malformed input yields a fresh
// default profile instead of an error.
func Decode(data []byte) *Profile {
	p, err := DecodeStrict(data)
	if err != nil {
		return Default()
	}
	return p
}
