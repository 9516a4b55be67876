package mysql

import (
	"strconv"
	"strings"

	"github.com/pingcap/tidb/pkg/parser/ast"
	pmysql "github.com/pingcap/tidb/pkg/parser/mysql"
	"github.com/pingcap/tidb/pkg/parser/types"

	"dbchecker/internal/core"
)

func (p *Parser) parseColumn(colDef *ast.ColumnDef, table *core.TableView) core.ColumnView {
	col := newColumnFromDef(colDef)

	var extra []string
	hasDefault := false
	for _, opt := range colDef.Options {
		switch opt.Tp {
		case ast.ColumnOptionNotNull:
			col.Nullable = false
		case ast.ColumnOptionNull:
			col.Nullable = true
		case ast.ColumnOptionPrimaryKey:
			col.Nullable = false
			table.Primary = append(table.Primary, col.Name)
		case ast.ColumnOptionAutoIncrement:
			extra = append(extra, "auto_increment")
		case ast.ColumnOptionDefaultValue:
			hasDefault = true
			col.DefaultValue = strings.TrimSuffix(p.exprToString(opt.Expr), "()")
		case ast.ColumnOptionOnUpdate:
			extra = append(extra, "on update "+strings.TrimSuffix(p.exprToString(opt.Expr), "()"))
		case ast.ColumnOptionUniqKey:
			table.Uniques = append(table.Uniques, core.IndexView{Columns: []string{col.Name}})
		case ast.ColumnOptionCollate:
			col.Collate = opt.StrValue
		}
	}
	col.Extra = strings.Join(extra, " ")

	if col.Nullable && !hasDefault {
		col.DefaultValue = core.DefaultNull
	}
	if strings.EqualFold(col.DefaultValue, core.DefaultNull) && !col.Nullable {
		col.DefaultValue = ""
	}
	if col.Collate == "" {
		col.Collate = table.Collate
	}
	return col
}

func newColumnFromDef(colDef *ast.ColumnDef) core.ColumnView {
	tp := colDef.Tp
	col := core.ColumnView{
		Name:     colDef.Name.Name.O,
		Type:     types.TypeToStr(tp.GetType(), tp.GetCharset()),
		Nullable: true,
		Collate:  tp.GetCollate(),
	}

	switch tp.GetType() {
	case pmysql.TypeEnum, pmysql.TypeSet:
		col.Type += "(" + quoteElems(tp.GetElems()) + ")"
	default:
		col.Length = columnLength(tp.GetType(), tp.GetFlen(), tp.GetDecimal())
	}

	var mods []string
	if pmysql.HasUnsignedFlag(tp.GetFlag()) {
		mods = append(mods, "unsigned")
	}
	if pmysql.HasZerofillFlag(tp.GetFlag()) {
		mods = append(mods, "zerofill")
	}
	if len(mods) > 0 {
		col.Length = strings.TrimSpace(col.Length + " " + strings.Join(mods, " "))
	}
	return col
}

// columnLength renders the parenthesised part of a type. Temporal types only
// carry their fractional seconds precision.
func columnLength(tp byte, flen, decimal int) string {
	switch tp {
	case pmysql.TypeDatetime, pmysql.TypeTimestamp, pmysql.TypeDuration:
		if decimal > 0 {
			return strconv.Itoa(decimal)
		}
		return ""
	case pmysql.TypeNewDecimal, pmysql.TypeFloat, pmysql.TypeDouble:
		if flen <= 0 {
			return ""
		}
		if decimal >= 0 {
			return strconv.Itoa(flen) + "," + strconv.Itoa(decimal)
		}
		return strconv.Itoa(flen)
	}
	if flen <= 0 || !core.IsSizedType(types.TypeToStr(tp, "")) {
		return ""
	}
	return strconv.Itoa(flen)
}

func quoteElems(elems []string) string {
	quoted := make([]string, len(elems))
	for i, e := range elems {
		quoted[i] = core.QuoteString(e)
	}
	return strings.Join(quoted, ",")
}
