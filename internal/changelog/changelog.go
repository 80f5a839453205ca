// Package changelog is the entry point that turns two snapshot payloads into
// a rendered changelog. It owns loading, diffing, merging, rendering, and
// the optional result cache and run history.
package changelog

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"time"

	"github.com/google/uuid"

	"apidiff/internal/apidump"
	"apidiff/internal/descriptor"
	"apidiff/internal/errors"
	"apidiff/internal/logging"
	"apidiff/internal/merge"
	"apidiff/internal/output"
	"apidiff/internal/render"
	"apidiff/internal/storage"
)

// Format selects the changelog rendering.
type Format string

const (
	FormatText   Format = "text"
	FormatMarkup Format = "markup"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
)

// ParseFormat validates a format name. The empty string means text.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "":
		return FormatText, nil
	case FormatText, FormatMarkup:
		return Format(s), nil
	}
	structured, err := output.ParseFormat(s)
	if err != nil {
		return "", errors.New(errors.InvalidRequest, "unknown output format (want text, markup, json or yaml)", err)
	}
	return Format(structured), nil
}

// Request holds the payloads of one comparison. The security payloads are
// optional reduced dumps that patch class security after loading.
type Request struct {
	Old         []byte
	New         []byte
	OldSecurity []byte
	NewSecurity []byte
	Format      Format
}

// Result is a rendered changelog.
type Result struct {
	RunID     string
	CacheKey  string
	Output    string
	DiffCount int
	CacheHit  bool
}

// History records completed runs.
type History interface {
	RecordRun(run *storage.Run) error
}

// Generator produces changelogs. Cache and History are optional.
type Generator struct {
	Logger     *logging.Logger
	Cache      *storage.Cache
	History    History
	Pipeline   *merge.Pipeline
	TTLSeconds int
	// LineEnding overrides CRLF for text output.
	LineEnding string
}

// NewGenerator returns a generator with the default merge pipeline and no
// cache.
func NewGenerator(logger *logging.Logger) *Generator {
	return &Generator{Logger: logger, Pipeline: merge.Default(), TTLSeconds: 3600}
}

// Generate compares req.Old against req.New and renders the result. The
// context is only consulted between stages; the core itself does not block.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format, err := ParseFormat(string(req.Format))
	if err != nil {
		return nil, err
	}
	if len(req.Old) == 0 || len(req.New) == 0 {
		return nil, errors.New(errors.InvalidRequest, "both snapshot payloads are required", nil)
	}

	start := time.Now()
	res := &Result{
		RunID:    uuid.New().String(),
		CacheKey: CacheKey(req, format, g.LineEnding),
	}
	logger := g.Logger.With(map[string]interface{}{"runId": res.RunID})

	if hit := g.lookup(logger, res.CacheKey); hit != nil {
		res.Output, res.DiffCount, res.CacheHit = hit.Output, hit.DiffCount, true
		g.record(logger, res, format, start)
		return res, nil
	}

	loader := apidump.NewLoader(logger)
	oldDB, err := loadSnapshot(loader, req.Old, req.OldSecurity)
	if err != nil {
		return nil, err
	}
	newDB, err := loadSnapshot(loader, req.New, req.NewSecurity)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pipeline := g.Pipeline
	if pipeline == nil {
		pipeline = merge.Default()
	}
	diffs := pipeline.Compare(&merge.Context{Old: oldDB, New: newDB, Logger: logger})

	switch format {
	case FormatText:
		res.Output = render.TextRenderer{LineEnding: g.LineEnding}.Render(diffs)
	case FormatMarkup:
		res.Output, err = render.Markup(diffs)
	case FormatJSON, FormatYAML:
		res.Output, err = render.EncodeReport(diffs, output.Format(format))
	}
	if err != nil {
		return nil, err
	}
	res.DiffCount = len(diffs)

	logger.Info("Changelog generated", map[string]interface{}{
		"format":  string(format),
		"diffs":   res.DiffCount,
		"classes": newDB.ClassCount(),
		"enums":   newDB.EnumCount(),
	})

	g.store(logger, res, format)
	g.record(logger, res, format, start)
	return res, nil
}

func loadSnapshot(loader *apidump.Loader, payload, security []byte) (*descriptor.Database, error) {
	db, err := loader.Load(payload)
	if err != nil {
		return nil, err
	}
	if len(security) > 0 {
		if _, err := loader.ApplySecurity(db, security); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// lookup returns a cached rendering or nil. Cache failures are logged and
// treated as misses.
func (g *Generator) lookup(logger *logging.Logger, key string) *storage.CacheEntry {
	if g.Cache == nil {
		return nil
	}
	entry, found, err := g.Cache.Get(key)
	if err != nil {
		logger.Warn("Changelog cache lookup failed", map[string]interface{}{
			"error": errors.New(errors.CacheFailed, "cache lookup failed", err).Error(),
		})
		return nil
	}
	if !found {
		return nil
	}
	logger.Debug("Changelog cache hit", map[string]interface{}{"key": key})
	return entry
}

func (g *Generator) store(logger *logging.Logger, res *Result, format Format) {
	if g.Cache == nil {
		return
	}
	if _, err := g.Cache.Set(res.CacheKey, string(format), res.Output, res.DiffCount, g.TTLSeconds); err != nil {
		logger.Warn("Changelog cache write failed", map[string]interface{}{
			"error": errors.New(errors.CacheFailed, "cache write failed", err).Error(),
		})
	}
}

func (g *Generator) record(logger *logging.Logger, res *Result, format Format, start time.Time) {
	if g.History == nil {
		return
	}
	err := g.History.RecordRun(&storage.Run{
		RunID:     res.RunID,
		CacheKey:  res.CacheKey,
		Format:    string(format),
		DiffCount: res.DiffCount,
		CacheHit:  res.CacheHit,
		Duration:  time.Since(start),
	})
	if err != nil {
		logger.Warn("Failed to record run", map[string]interface{}{"error": err.Error()})
	}
}

// CacheKey digests everything that determines the output of a request.
// Payload lengths are mixed in so adjacent payloads cannot collide by
// shifting bytes between them.
func CacheKey(req Request, format Format, lineEnding string) string {
	h := sha256.New()
	var n [8]byte
	for _, part := range [][]byte{req.Old, req.New, req.OldSecurity, req.NewSecurity, []byte(format), []byte(lineEnding)} {
		binary.BigEndian.PutUint64(n[:], uint64(len(part)))
		h.Write(n[:])
		h.Write(part)
	}
	return hex.EncodeToString(h.Sum(nil))
}
