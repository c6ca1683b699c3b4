package key

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"taxakey/internal/archive"
	"taxakey/internal/xmldoc"
)

// Load decodes a raw key archive into a Key. name is the archive's file
// name, used as the fallback title. Fatal problems (unreadable container,
// missing required entries) abort the load and leave no model; everything
// else is accumulated into Key.Warnings.
func Load(data []byte, name string) (*Key, error) {
	r, err := archive.Open(data)
	if err != nil {
		return nil, err
	}

	dataDir, ok := r.FindDirSuffix("data/")
	if !ok {
		return nil, &archive.StructureError{Path: "data/"}
	}
	rootPrefix := dataDir[:len(dataDir)-len("data/")]

	innerPath, baseName, ok := findInnerArchive(r, dataDir)
	if !ok {
		return nil, &archive.StructureError{Path: dataDir + "*.data"}
	}

	keyXML, err := r.ReadInner(innerPath, "key.data")
	if err != nil {
		if errors.Is(err, archive.ErrEntryNotFound) {
			return nil, &archive.StructureError{Path: innerPath + "!/key.data"}
		}
		return nil, err
	}

	doc, err := xmldoc.Parse(keyXML)
	if err != nil {
		return nil, fmt.Errorf("parsing key.data: %w", err)
	}

	k := build(doc, fallbackTitle(name))

	scoPath := dataDir + baseName + ".sco"
	if _, ok := r.FindEntry(scoPath); !ok {
		return nil, &archive.StructureError{Path: scoPath}
	}
	scoXML, err := r.ReadInner(scoPath, "normal.sco")
	switch {
	case err != nil:
		k.warnf("scoring data unavailable: %v", err)
	default:
		scoDoc, err := xmldoc.Parse(scoXML)
		if err != nil {
			k.warnf("scoring data unavailable: %v", err)
		} else {
			parseScores(k, scoDoc)
		}
	}

	resolveMedia(k, r, doc.Child("media"), rootPrefix)

	return k, nil
}

// findInnerArchive locates the nested <base>.data archive directly inside
// the data directory and returns its entry path and base name.
func findInnerArchive(r *archive.Reader, dataDir string) (entry, base string, ok bool) {
	prefix := archive.Normalize(dataDir)
	for _, name := range r.Entries() {
		normalized := archive.Normalize(name)
		if !strings.HasPrefix(normalized, prefix) {
			continue
		}
		rest := normalized[len(prefix):]
		if rest == "" || strings.Contains(rest, "/") {
			continue
		}
		if !strings.HasSuffix(rest, ".data") {
			continue
		}
		fileName := path.Base(strings.ReplaceAll(name, `\`, "/"))
		return name, strings.TrimSuffix(fileName, path.Ext(fileName)), true
	}
	return "", "", false
}

func fallbackTitle(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}
