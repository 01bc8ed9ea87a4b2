// Package export wires the parser, engine, and report packages into
// per-entity migration pipelines: read the legacy extract, remap
// identifiers, reclassify lifecycle state, project onto the target schema,
// and write the target CSV.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"remap/pkg/config"
	"remap/pkg/engine"
	"remap/pkg/parser"
	"remap/pkg/report"
	"remap/pkg/schema"
)

// Exporter runs entity pipelines against one configuration and accumulates
// a single run report across them.
type Exporter struct {
	cfg      *config.Config
	log      *zap.Logger
	rep      *report.RunReport
	policy   engine.OrphanPolicy
	groups   *schema.GroupsDocument
	generate bool
}

// New builds an Exporter. When generate is false the pipelines run fully
// (preview mode) but no output files are written.
func New(cfg *config.Config, log *zap.Logger, generate bool) (*Exporter, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	groups, found, err := schema.LoadGroupsDocument(cfg.GroupsPath)
	if err != nil {
		return nil, err
	}
	if !found {
		log.Warn("groups document not found, using built-in lists",
			zap.String("path", cfg.GroupsPath))
	}
	log.Info("loaded groups document",
		zap.String("version", groups.Version),
		zap.Int("funded", len(groups.Funded)),
		zap.Int("keep", len(groups.Keep)))

	return &Exporter{
		cfg:      cfg,
		log:      log,
		rep:      report.New(),
		policy:   policy,
		groups:   groups,
		generate: generate,
	}, nil
}

// Report returns the accumulated run report.
func (e *Exporter) Report() *report.RunReport {
	return e.rep
}

// readTable reads and parses one input extract, folding parse warnings into
// the entity's report section.
func (e *Exporter) readTable(entity, filename string) (*schema.Table, error) {
	path := filepath.Join(e.cfg.InputDir, filename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: read extract: %w", entity, err)
	}

	res, err := parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: parse %s: %w", entity, filename, err)
	}

	rep := e.rep.Entity(entity)
	rep.RecordsIn = res.Table.Len()
	rep.ParseWarnings += len(res.Warnings)
	for _, w := range res.Warnings {
		e.log.Warn("parse warning",
			zap.String("entity", entity),
			zap.Int("row", w.Row),
			zap.String("message", w.Message))
	}
	e.log.Info("loaded extract",
		zap.String("entity", entity),
		zap.String("file", filename),
		zap.String("encoding", res.Encoding),
		zap.Int("records", res.Table.Len()))
	return res.Table, nil
}

// finish projects the table onto the entity's column configuration, records
// the outcome, and writes the output file when generating.
func (e *Exporter) finish(entity string, tbl *schema.Table, outFile string) error {
	cfgPath := filepath.Join(e.cfg.ColumnConfigDir, entity+"_column_config.json")
	columns, found, err := schema.LoadColumnConfig(cfgPath)
	if err != nil {
		return err
	}
	if !found {
		e.log.Warn("no column configuration, emitting all columns",
			zap.String("entity", entity),
			zap.String("path", cfgPath))
	}

	proj := engine.Project(tbl, columns)
	rep := e.rep.Entity(entity)
	rep.AddProjection(proj)
	rep.RecordsOut = proj.Table.Len()

	for _, col := range proj.Missing {
		e.log.Warn("configured column not in data, emitting null",
			zap.String("entity", entity),
			zap.String("column", col))
	}

	if !e.generate {
		e.log.Info("preview only, skipping write",
			zap.String("entity", entity),
			zap.String("file", outFile))
		return nil
	}

	outPath := filepath.Join(e.cfg.OutputDir, outFile)
	if err := WriteCSV(outPath, proj.Table); err != nil {
		return fmt.Errorf("%s: write output: %w", entity, err)
	}
	e.log.Info("wrote output",
		zap.String("entity", entity),
		zap.String("file", outPath),
		zap.Int("records", proj.Table.Len()),
		zap.Int("columns", len(proj.Table.Columns)))
	return nil
}

// assignUUIDs appends a uuid column with a freshly generated identifier per
// record, in row order. Rows are cloned; the input table is not mutated.
func assignUUIDs(tbl *schema.Table) *schema.Table {
	out := schema.NewTable(tbl.Columns)
	out.AddColumn("uuid")
	for _, row := range tbl.Rows {
		r := row.Clone()
		r["uuid"] = schema.String(uuid.NewString())
		out.Rows = append(out.Rows, r)
	}
	return out
}

// intCell renders a derived integer attribute as a cell value.
func intCell(n int) schema.Value {
	return schema.String(strconv.Itoa(n))
}

// copyColumn sets dst from src on every row where dst is missing or null.
func copyColumn(tbl *schema.Table, dst, src string) {
	tbl.AddColumn(dst)
	for _, row := range tbl.Rows {
		if row.Get(dst).IsNull() {
			row[dst] = row.Get(src)
		}
	}
}

// constColumn sets every row's dst to the same value.
func constColumn(tbl *schema.Table, dst string, v schema.Value) {
	tbl.AddColumn(dst)
	for _, row := range tbl.Rows {
		row[dst] = v
	}
}
