// Package persistence stores finished runs: a compressed archive per run
// and a SQLite catalog for finding them again.
package persistence

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/pthm-cable/terrarium/telemetry"
)

// ArchiveVersion is bumped on any layout change of the gob payload.
const ArchiveVersion = 1

// RunMeta identifies one finished run. It doubles as the plain-JSON
// header line of the archive, so a run can be identified with zstdcat
// and head alone.
type RunMeta struct {
	Version   int       `json:"version"`
	RunID     string    `json:"run_id"`
	Seed      int64     `json:"seed"`
	Biome     string    `json:"biome"`
	TickLimit int       `json:"tick_limit"`
	Ticks     int       `json:"ticks"`
	StartedAt time.Time `json:"started_at"`
}

// Archive is everything kept from a finished run: metadata, the flushed
// telemetry windows, and the final organism snapshot.
type Archive struct {
	Meta    RunMeta
	Windows []telemetry.WindowStats
	Final   []telemetry.OrganismState
}

// WriteArchive writes an archive file: one JSON header line, then the gob
// payload, both behind zstd.
func WriteArchive(path string, a *Archive) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 64*1024)
	defer bw.Flush()

	hb, err := json.Marshal(a.Meta)
	if err != nil {
		return err
	}
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(a); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

// ReadArchive loads an archive file written by WriteArchive.
func ReadArchive(path string) (*Archive, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)

	// Skip the header line; the gob payload carries the same metadata.
	if _, err := br.ReadBytes('\n'); err != nil {
		return nil, fmt.Errorf("reading archive header: %w", err)
	}

	var a Archive
	if err := gob.NewDecoder(br).Decode(&a); err != nil {
		return nil, fmt.Errorf("gob decode: %w", err)
	}
	if a.Meta.Version != ArchiveVersion {
		return nil, fmt.Errorf("unsupported archive version %d", a.Meta.Version)
	}
	return &a, nil
}

// ReadArchiveMeta decodes only the JSON header line of an archive.
func ReadArchiveMeta(path string) (RunMeta, error) {
	var meta RunMeta
	f, err := os.Open(path)
	if err != nil {
		return meta, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return meta, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return meta, fmt.Errorf("reading archive header: %w", err)
	}
	if err := json.Unmarshal(line, &meta); err != nil {
		return meta, fmt.Errorf("parsing archive header: %w", err)
	}
	return meta, nil
}
