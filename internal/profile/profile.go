// Package profile decodes Thunderstore legacy profile bundles.
//
// A bundle is a text document whose second line is the base64 encoding of a
// zip archive. The archive carries a mods.yml entry listing every mod of the
// profile with its enabled flag and declared dependencies.
package profile

import (
	"archive/zip"
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/git-pkgs/modsync/internal/core"
)

// ModsEntry is the archive entry holding the mod list.
const ModsEntry = "mods.yml"

var (
	errMissingLine = errors.New("document has no second line")
	errNotList     = errors.New("mods.yml is not a list of mods")
)

// Decode turns a profile document into its mod list, in archive order.
func Decode(document string) ([]core.ProfileMod, error) {
	lines := strings.Split(document, "\n")
	if len(lines) < 2 {
		return nil, &core.DecodeError{Stage: "document", Err: errMissingLine}
	}
	payload := strings.TrimSpace(lines[1])
	if payload == "" {
		return nil, &core.DecodeError{Stage: "document", Err: errMissingLine}
	}

	archive, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, &core.DecodeError{Stage: "base64", Err: err}
	}

	raw, err := readEntry(archive, ModsEntry)
	if err != nil {
		return nil, &core.DecodeError{Stage: "archive", Err: err}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, &core.DecodeError{Stage: "yaml", Err: err}
	}
	// An empty document, null or a mapping is not a mod list.
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.SequenceNode {
		return nil, &core.DecodeError{Stage: "yaml", Err: errNotList}
	}

	var mods []core.ProfileMod
	if err := root.Content[0].Decode(&mods); err != nil {
		return nil, &core.DecodeError{Stage: "yaml", Err: err}
	}
	return mods, nil
}

func readEntry(archive []byte, name string) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, err
	}

	f, err := zr.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	return io.ReadAll(f)
}

// Encode builds a profile document from mods, the inverse of Decode.
// The first line is the export header the registry emits.
func Encode(mods []core.ProfileMod) (string, error) {
	raw, err := yaml.Marshal(mods)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(ModsEntry)
	if err != nil {
		return "", err
	}
	if _, err := w.Write(raw); err != nil {
		return "", err
	}
	if err := zw.Close(); err != nil {
		return "", err
	}

	return "#r2modman\n" + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
