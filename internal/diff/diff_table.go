package diff

import (
	"strings"

	"dbchecker/internal/core"
)

// compareTable reconciles one table pair. Statements are returned as index
// drops, then table and column changes, then index creations.
func (e *engine) compareTable(current, desired *core.Table) ([]string, error) {
	cur := e.project(current)
	des := e.project(desired)

	curCols, err := cur.Columns()
	if err != nil {
		return nil, err
	}
	desCols, err := des.Columns()
	if err != nil {
		return nil, err
	}

	if equalTable(cur, des) {
		return nil, nil
	}

	var drops, changes, creates []string
	changes = append(changes, tableOptionStatements(cur, des)...)

	changed := make(map[string]struct{})
	for _, c := range curCols {
		d, ok := des.FindColumn(c.Name())
		if !ok {
			if !e.opts.DropStatement {
				e.log.Debug("column missing from desired schema, skipped", "table", cur.Name(), "column", c.Name())
				continue
			}
			stmts, err := c.DeleteStatement()
			if err != nil {
				return nil, err
			}
			changes = append(changes, stmts...)
			markChanged(changed, c.Name(), stmts)
			continue
		}
		if equalColumn(c, d) {
			continue
		}
		stmts, err := d.AlterStatement()
		if err != nil {
			return nil, err
		}
		changes = append(changes, stmts...)
		markChanged(changed, d.Name(), stmts)
	}

	for _, d := range desCols {
		if _, ok := cur.FindColumn(d.Name()); ok {
			continue
		}
		stmts, err := d.CreateStatement()
		if err != nil {
			return nil, err
		}
		changes = append(changes, stmts...)
		markChanged(changed, d.Name(), stmts)
	}

	for _, ci := range cur.Indexes() {
		di, ok := des.FindIndex(ci.Name())
		if !ok {
			if !e.opts.DropStatement {
				e.log.Debug("index missing from desired schema, skipped", "table", cur.Name(), "index", ci.Name())
				continue
			}
			stmts, err := ci.DeleteStatement()
			if err != nil {
				return nil, err
			}
			drops = append(drops, stmts...)
			continue
		}
		if equalIndex(ci, di) {
			continue
		}
		stmts, err := di.AlterStatement()
		if err != nil {
			return nil, err
		}
		drops = append(drops, stmts[0])
		creates = append(creates, stmts[1:]...)
	}

	for _, di := range des.Indexes() {
		if _, ok := cur.FindIndex(di.Name()); ok {
			continue
		}
		stmts, err := di.CreateStatement()
		if err != nil {
			return nil, err
		}
		creates = append(creates, stmts...)
	}

	for _, di := range des.Indexes() {
		if !coversAny(di.Columns(), changed) {
			continue
		}
		e.log.Debug("index covers a changed column, rebuilding", "table", des.Name(), "index", di.Name())
		if _, exists := cur.FindIndex(di.Name()); exists && e.opts.DropStatement {
			stmts, err := di.DeleteStatement()
			if err != nil {
				return nil, err
			}
			drops = append(drops, stmts...)
		}
		stmts, err := di.CreateStatement()
		if err != nil {
			return nil, err
		}
		creates = append(creates, stmts...)
	}

	return flatten(drops, changes, creates), nil
}

// project returns a normalized copy of t: collations are cleared when they
// are not checked, and so is the engine. t itself is left untouched.
func (e *engine) project(t *core.Table) *core.Table {
	p := t.Clone()
	if !e.opts.CheckCollation {
		p.SetCollation("")
		if cols, err := p.Columns(); err == nil {
			for _, c := range cols {
				c.SetCollation("")
			}
		}
	}
	if !e.opts.CheckEngine {
		p.SetEngine("")
	}
	return p
}

// tableOptionStatements returns the desired table's collation and engine
// statements for the attributes that differ.
func tableOptionStatements(cur, des *core.Table) []string {
	var stmts []string
	if !strings.EqualFold(cur.Collation(), des.Collation()) {
		stmts = append(stmts, des.CollationStatement()...)
	}
	if !strings.EqualFold(cur.Engine(), des.Engine()) {
		stmts = append(stmts, des.EngineStatement()...)
	}
	return stmts
}

func markChanged(changed map[string]struct{}, column string, stmts []string) {
	if len(stmts) == 0 {
		return
	}
	changed[strings.ToLower(column)] = struct{}{}
}

func coversAny(columns []string, changed map[string]struct{}) bool {
	for _, c := range columns {
		if _, ok := changed[strings.ToLower(c)]; ok {
			return true
		}
	}
	return false
}
