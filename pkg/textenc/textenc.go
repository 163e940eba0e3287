// Package textenc decodes raw manifest bytes into text.
//
// Decoding follows a detect → decode → fallback strategy. A [Detector]
// guesses the charset, the name is resolved through the WHATWG encoding
// index (or the IANA registry), and the bytes are decoded. When detection fails or names a charset
// the index does not know, the [Decoder] falls back to its fallback encoding
// (UTF-8 unless configured) and marks the result best-effort so callers can
// tell a confident decode from a guess.
package textenc

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"

	errs "github.com/matzehuels/devinventory/pkg/errors"
)

// DefaultMinConfidence is the chardet confidence (0-100) below which a
// detection is treated as failed.
const DefaultMinConfidence = 10

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Detector guesses the charset of raw bytes.
type Detector interface {
	// Detect returns a charset name such as "UTF-8" or "windows-1252".
	Detect(raw []byte) (string, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(raw []byte) (string, error)

// Detect calls f(raw).
func (f DetectorFunc) Detect(raw []byte) (string, error) { return f(raw) }

// Chardet detects charsets with github.com/saintfish/chardet.
type Chardet struct {
	// MinConfidence rejects guesses below this score. Zero accepts any guess.
	MinConfidence int
}

// Detect implements Detector.
func (c Chardet) Detect(raw []byte) (string, error) {
	res, err := chardet.NewTextDetector().DetectBest(raw)
	if err != nil {
		return "", fmt.Errorf("detect charset: %w", err)
	}
	if res.Confidence < c.MinConfidence {
		return "", fmt.Errorf("detect charset: %s confidence %d below %d", res.Charset, res.Confidence, c.MinConfidence)
	}
	return res.Charset, nil
}

// aliases maps detector charset names that neither index knows to the
// WHATWG label of the same encoding.
var aliases = map[string]string{
	"gb-18030": "gb18030",
}

// Lookup resolves a charset name to an encoding. Names are tried against
// the WHATWG index first and the IANA registry second.
func Lookup(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	if enc, err := htmlindex.Get(key); err == nil {
		return enc, nil
	}
	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil {
		return nil, fmt.Errorf("charset %q: %w", name, err)
	}
	// The IANA registry lists charsets x/text has no decoder for.
	if enc == nil {
		return nil, fmt.Errorf("charset %q: no decoder available", name)
	}
	return enc, nil
}

// Text is decoded manifest content.
type Text struct {
	Content    string
	Charset    string // charset actually used to decode
	BestEffort bool   // true when the fallback encoding was used
}

// Decoder decodes bytes using a Detector with a fallback encoding.
type Decoder struct {
	Detector     Detector
	Fallback     encoding.Encoding
	FallbackName string
}

// NewDecoder returns a Decoder using chardet with a UTF-8 fallback.
func NewDecoder() *Decoder {
	return &Decoder{
		Detector:     Chardet{MinConfidence: DefaultMinConfidence},
		Fallback:     unicode.UTF8,
		FallbackName: "UTF-8",
	}
}

// Decode converts raw to text.
//
// Byte order marks take precedence over detection and are stripped. An
// error is returned only when the fallback encoding also fails; it carries
// [errs.ErrCodeDecode].
func (d *Decoder) Decode(raw []byte) (Text, error) {
	if len(raw) == 0 {
		return Text{Charset: "UTF-8"}, nil
	}

	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		return Text{Content: string(raw[len(bomUTF8):]), Charset: "UTF-8"}, nil
	case bytes.HasPrefix(raw, bomUTF16LE):
		return d.decodeWith(raw, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), "UTF-16LE")
	case bytes.HasPrefix(raw, bomUTF16BE):
		return d.decodeWith(raw, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), "UTF-16BE")
	}

	if d.Detector == nil {
		return d.fallback(raw)
	}
	name, err := d.Detector.Detect(raw)
	if err != nil {
		return d.fallback(raw)
	}
	enc, err := Lookup(name)
	if err != nil {
		return d.fallback(raw)
	}
	text, err := d.decodeWith(raw, enc, name)
	if err != nil {
		return d.fallback(raw)
	}
	return text, nil
}

func (d *Decoder) decodeWith(raw []byte, enc encoding.Encoding, name string) (Text, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return Text{}, err
	}
	return Text{Content: string(out), Charset: name}, nil
}

func (d *Decoder) fallback(raw []byte) (Text, error) {
	enc, name := d.Fallback, d.FallbackName
	if enc == nil {
		enc, name = unicode.UTF8, "UTF-8"
	}
	text, err := d.decodeWith(raw, enc, name)
	if err != nil {
		return Text{}, errs.Wrap(errs.ErrCodeDecode, err, "decode with fallback %s", name)
	}
	text.BestEffort = true
	return text, nil
}
