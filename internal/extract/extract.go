// Package extract materializes every record of an MCFG container as a
// file on disk and builds per-run reports for the inspection surfaces.
package extract

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/samcharles93/mbnkit/internal/logger"
	"github.com/samcharles93/mbnkit/pkg/mcfg"
)

// Type-identifying name suffixes appended to file records, matching the
// layout produced by the vendor tooling this replaces.
const (
	suffixNVFile = "__E1FF_F"
	suffixFile   = "__81FF_0"
)

// Options control record naming.
type Options struct {
	// BareNames writes file records under their decoded name with no
	// type suffix.
	BareNames bool
}

// Record is one container entry as reported to callers.
type Record struct {
	Kind string  `json:"kind"`
	Name string  `json:"name"`
	NVID *uint16 `json:"nv_id,omitempty"`
	Size int     `json:"size"`
}

// Report summarizes one decode pass over a container.
type Report struct {
	ID           string   `json:"id"`
	OutputDir    string   `json:"output_dir,omitempty"`
	CarrierIndex uint16   `json:"carrier_index"`
	Version      uint32   `json:"version"`
	ItemCount    uint32   `json:"item_count"`
	Records      []Record `json:"records"`
}

// Name returns the on-disk name for a decoded record.
func Name(item mcfg.Item, bare bool) string {
	switch v := item.(type) {
	case mcfg.NVItem:
		return fmt.Sprintf("NvItem__%08d", v.ID)
	case mcfg.FileItem:
		if bare {
			return v.Path
		}
		if v.NVFile {
			return v.Path + suffixNVFile
		}
		return v.Path + suffixFile
	default:
		return ""
	}
}

// Run decodes the container held in data and writes every record through
// sink as soon as it is decoded. Decoding is fail-fast: records written
// before a structural failure stay on disk.
func Run(data []byte, sink Sink, opts Options, log logger.Logger) (*Report, error) {
	if log == nil {
		log = logger.Default()
	}
	rep := newReport("run_", sink.Dir)

	hdr, err := mcfg.Walk(data, func(item mcfg.Item) error {
		rec := rep.add(item, opts)
		switch v := item.(type) {
		case mcfg.NVItem:
			log.Info("nv item", "id", v.ID, "bytes", len(v.Data))
		case mcfg.FileItem:
			log.Info(v.Type().String(), "name", v.Path, "bytes", len(v.Data))
		}
		return sink.Write(rec.Name, itemData(item))
	})
	if err != nil {
		return nil, err
	}
	rep.finish(hdr)
	return rep, nil
}

// Inspect decodes the container without touching the filesystem.
func Inspect(data []byte, opts Options) (*Report, error) {
	rep := newReport("rpt_", "")
	hdr, err := mcfg.Walk(data, func(item mcfg.Item) error {
		rep.add(item, opts)
		return nil
	})
	if err != nil {
		return nil, err
	}
	rep.finish(hdr)
	return rep, nil
}

func newReport(idPrefix, outDir string) *Report {
	return &Report{
		ID:        idPrefix + uuid.NewString(),
		OutputDir: outDir,
		Records:   []Record{},
	}
}

func (r *Report) add(item mcfg.Item, opts Options) Record {
	rec := Record{
		Kind: item.Type().String(),
		Name: Name(item, opts.BareNames),
		Size: len(itemData(item)),
	}
	if nv, ok := item.(mcfg.NVItem); ok {
		id := nv.ID
		rec.NVID = &id
	}
	r.Records = append(r.Records, rec)
	return rec
}

func (r *Report) finish(hdr mcfg.Header) {
	r.CarrierIndex = hdr.CarrierIndex
	r.Version = hdr.Version
	r.ItemCount = hdr.ItemCount
}

func itemData(item mcfg.Item) []byte {
	switch v := item.(type) {
	case mcfg.NVItem:
		return v.Data
	case mcfg.FileItem:
		return v.Data
	default:
		return nil
	}
}
