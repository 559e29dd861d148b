// Package manifest reads and writes the JSON content files that describe
// units (phonemes, words) in display order.
package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	apperrors "phonics-audio/pkg/errors"
	"phonics-audio/pkg/util"
)

// Manifest is the top-level JSON array of unit records.
type Manifest struct {
	Entries []*Record
}

func Parse(r io.Reader) (*Manifest, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	v, err := decodeValue(dec)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeManifestInvalid, "Manifest is not valid JSON", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, apperrors.New(apperrors.CodeManifestInvalid, "Manifest has trailing data")
	}
	arr, ok := v.([]any)
	if !ok {
		return nil, apperrors.ErrManifestInvalid
	}
	m := &Manifest{Entries: make([]*Record, 0, len(arr))}
	for i, item := range arr {
		rec, ok := item.(*Record)
		if !ok {
			return nil, apperrors.WrapWithDetail(apperrors.CodeManifestInvalid, "Manifest entry is not an object",
				fmt.Sprintf("index %d", i), nil)
		}
		m.Entries = append(m.Entries, rec)
	}
	return m, nil
}

func Load(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.WrapWithDetail(apperrors.CodeFileNotFound, "Manifest not found", path, err)
		}
		return nil, fmt.Errorf("open manifest %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Encode writes the manifest with two-space indentation and without
// escaping non-ASCII or HTML characters.
func (m *Manifest) Encode(w io.Writer) error {
	entries := m.Entries
	if entries == nil {
		entries = []*Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

// Save writes the manifest through a temp file so a crash never leaves a
// truncated content file behind.
func (m *Manifest) Save(path string) error {
	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := util.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return apperrors.WrapWithDetail(apperrors.CodeFileWriteError, "Write manifest failed", path, err)
	}
	return nil
}
