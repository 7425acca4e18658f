package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// ErrCorrupt is returned by LoadDir when the blob's checksum does not
// match its payload. Callers discard the whole blob and reparse the
// directory from scratch; corruption is recoverable, never fatal.
var ErrCorrupt = errors.New("cache blob checksum mismatch")

// blob is the on-disk envelope: the checksum covers the serialized payload
// bytes and is verified before the payload is trusted.
type blob struct {
	Checksum string
	Payload  []byte
}

// BlobName derives the cache filename for a source directory.
func BlobName(dir string) string {
	return fmt.Sprintf("dxstyles-cache-%016x.bin", HashBytes([]byte(dir)))
}

// SaveDir persists the path→entry mapping for one source directory as a
// compressed, checksummed blob under cacheDir. The write goes through a
// temp file and rename so readers never observe a partial blob.
func SaveDir(cacheDir, dir string, entries map[string]Entry) error {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(entries); err != nil {
		return fmt.Errorf("encode cache payload: %w", err)
	}

	sum := sha256.Sum256(payload.Bytes())
	var envelope bytes.Buffer
	if err := gob.NewEncoder(&envelope).Encode(blob{
		Checksum: hex.EncodeToString(sum[:]),
		Payload:  payload.Bytes(),
	}); err != nil {
		return fmt.Errorf("encode cache envelope: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return err
	}
	compressed := enc.EncodeAll(envelope.Bytes(), nil)
	if err := enc.Close(); err != nil {
		return err
	}

	final := filepath.Join(cacheDir, BlobName(dir))
	tmp, err := os.CreateTemp(cacheDir, ".tmp-"+BlobName(dir)+"-")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), final)
}

// LoadDir reads the persisted blob for one source directory. A missing
// blob returns (nil, nil) so callers treat it as "nothing cached".
// A checksum mismatch returns ErrCorrupt. Entries whose backing file no
// longer exists are pruned; hash freshness is checked later at lookup,
// when the live file is read anyway.
func LoadDir(cacheDir, dir string) (map[string]Entry, error) {
	raw, err := os.ReadFile(filepath.Join(cacheDir, BlobName(dir)))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	envelope, err := dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var b blob
	if err := gob.NewDecoder(bytes.NewReader(envelope)).Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	sum := sha256.Sum256(b.Payload)
	if hex.EncodeToString(sum[:]) != b.Checksum {
		return nil, ErrCorrupt
	}

	var entries map[string]Entry
	if err := gob.NewDecoder(bytes.NewReader(b.Payload)).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	for path := range entries {
		if _, err := os.Stat(path); err != nil {
			delete(entries, path)
		}
	}
	return entries, nil
}

// RemoveBlob deletes the persisted blob for dir. Used after corruption is
// detected so the next save starts clean. Missing blobs are fine.
func RemoveBlob(cacheDir, dir string) error {
	err := os.Remove(filepath.Join(cacheDir, BlobName(dir)))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
