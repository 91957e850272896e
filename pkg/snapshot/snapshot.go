// Package snapshot persists built network graphs so repeated runs can skip
// GTFS ingestion. Files are snappy-compressed gob with a checksummed header.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"hash/crc32"
	"os"
	"path/filepath"

	"github.com/golang/snappy"

	"github.com/urbanmesh/linescout/pkg/network"
)

// File layout: [magic:4][version:1][payload len:4][snappy payload][crc32:4]
// The checksum covers the compressed payload.
var magic = [4]byte{'L', 'S', 'N', 'P'}

const version byte = 1

var (
	ErrBadMagic    = errors.New("not a snapshot file")
	ErrBadVersion  = errors.New("unsupported snapshot version")
	ErrBadChecksum = errors.New("snapshot checksum mismatch")
	ErrTruncated   = errors.New("snapshot file truncated")
)

// graphSnapshot is the gob-portable form of a built graph.
type graphSnapshot struct {
	Mode  network.Mode
	Stops []network.Stop
	Edges []network.Edge
}

// Save writes the graph to path, creating parent directories as needed.
func Save(path string, g *network.NetworkGraph) error {
	snap := graphSnapshot{Mode: g.Mode(), Edges: g.Edges()}
	for _, s := range g.Stops() {
		snap.Stops = append(snap.Stops, *s)
	}

	var payload bytes.Buffer
	if err := gob.NewEncoder(&payload).Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	compressed := snappy.Encode(nil, payload.Bytes())

	var out bytes.Buffer
	out.Write(magic[:])
	out.WriteByte(version)
	if err := binary.Write(&out, binary.BigEndian, uint32(len(compressed))); err != nil {
		return err
	}
	out.Write(compressed)
	if err := binary.Write(&out, binary.BigEndian, crc32.ChecksumIEEE(compressed)); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}
	if err := os.WriteFile(path, out.Bytes(), 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// Load reads a snapshot and rebuilds the immutable graph through the normal
// builder, so a corrupt file cannot smuggle in malformed topology.
func Load(path string) (*network.NetworkGraph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	if len(data) < len(magic)+1+4+4 {
		return nil, ErrTruncated
	}
	if !bytes.Equal(data[:4], magic[:]) {
		return nil, ErrBadMagic
	}
	if data[4] != version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, data[4])
	}

	payloadLen := binary.BigEndian.Uint32(data[5:9])
	body := data[9:]
	if uint32(len(body)) != payloadLen+4 {
		return nil, ErrTruncated
	}
	compressed := body[:payloadLen]
	storedSum := binary.BigEndian.Uint32(body[payloadLen:])
	if crc32.ChecksumIEEE(compressed) != storedSum {
		return nil, ErrBadChecksum
	}

	payload, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}

	var snap graphSnapshot
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	b := network.NewBuilder(snap.Mode)
	for _, s := range snap.Stops {
		if err := b.AddStop(s); err != nil {
			return nil, err
		}
	}
	for _, e := range snap.Edges {
		if e.Transfer {
			// Stored weights already include the boarding penalty
			if err := b.AddTransferEdge(e.From, e.To, e.Weight); err != nil {
				return nil, err
			}
		} else {
			if err := b.AddEdge(e.From, e.To, e.Weight); err != nil {
				return nil, err
			}
		}
	}
	return b.Build()
}

// SnapshotPath returns the conventional file name for a mode under dir.
func SnapshotPath(dir string, mode network.Mode) string {
	return filepath.Join(dir, fmt.Sprintf("network_%s.snap", mode))
}
