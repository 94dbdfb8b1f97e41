// Package pdf renders record listings as A4 PDF reports.
package pdf

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/SscSPs/pettycash_backend/internal/core/domain"
	"github.com/SscSPs/pettycash_backend/internal/utils"
	"github.com/go-pdf/fpdf"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	pageMargin   = 10.0
	footerHeight = 12.0
	rowHeight    = 7.0
	headerHeight = 8.0
	placeholder  = "-"

	// FailureMarker is printed into a document whose rows could not be rendered.
	FailureMarker = "Report generation failed"
)

type column struct {
	title string
	width float64
	align string
	value func(r domain.Record) string
}

func dateCol(w float64) column {
	return column{"Date", w, "L", func(r domain.Record) string { return r.Date.Format(domain.DateLayout) }}
}

func descCol(w float64) column {
	return column{"Description", w, "L", func(r domain.Record) string { return r.Description }}
}

func categoryCol(title string, w float64) column {
	return column{title, w, "L", func(r domain.Record) string { return humanize(r.Category) }}
}

func paymentCol(w float64) column {
	return column{"Payment", w, "L", func(r domain.Record) string { return humanize(r.PaymentMethod) }}
}

func referenceCol(w float64) column {
	return column{"Reference", w, "L", func(r domain.Record) string { return r.Reference }}
}

func statusCol(w float64) column {
	return column{"Status", w, "C", func(r domain.Record) string { return humanize(string(r.Status)) }}
}

func amountCol(w float64) column {
	return column{"Amount", w, "R", func(r domain.Record) string { return utils.FormatAmount(r.Amount) }}
}

// Column widths add up to the 190mm printable width of A4 portrait.
var layouts = map[domain.RecordKind][]column{
	domain.KindPettyCash: {
		dateCol(24), descCol(62), categoryCol("Category", 30), paymentCol(28), statusCol(22), amountCol(24),
	},
	domain.KindExpense: {
		dateCol(22), descCol(50), categoryCol("Category", 28), paymentCol(26), referenceCol(22), statusCol(20), amountCol(22),
	},
	domain.KindRevenue: {
		dateCol(22), descCol(52), categoryCol("Source", 30), paymentCol(26), referenceCol(22), statusCol(18), amountCol(20),
	},
}

func humanize(v string) string {
	if v == "" {
		return ""
	}
	v = strings.ReplaceAll(v, "_", " ")
	return strings.ToUpper(v[:1]) + v[1:]
}

// Meta describes the report heading.
type Meta struct {
	Kind         domain.RecordKind
	Organization string
	From         *time.Time
	To           *time.Time
	GeneratedAt  time.Time
}

// RangeLabel renders the date window of the report.
func (m Meta) RangeLabel() string {
	switch {
	case m.From != nil && m.To != nil:
		return fmt.Sprintf("%s to %s", m.From.Format(domain.DateLayout), m.To.Format(domain.DateLayout))
	case m.From != nil:
		return "From " + m.From.Format(domain.DateLayout)
	case m.To != nil:
		return "Up to " + m.To.Format(domain.DateLayout)
	default:
		return "All dates"
	}
}

// RecordDocument is a PDF listing of records of one kind.
type RecordDocument struct {
	meta     Meta
	records  []domain.Record
	columns  []column
	compress bool
	// beforeRow runs ahead of every row; tests use it to inject failures.
	beforeRow func(i int, r domain.Record)
}

// NewRecordDocument prepares a document; nothing is rendered until Render.
func NewRecordDocument(meta Meta, records []domain.Record) *RecordDocument {
	return &RecordDocument{
		meta:     meta,
		records:  records,
		columns:  layouts[meta.Kind],
		compress: true,
	}
}

var fileSlugs = map[domain.RecordKind]string{
	domain.KindPettyCash: "petty-cash",
	domain.KindExpense:   "expenses",
	domain.KindRevenue:   "revenues",
}

func (d *RecordDocument) Filename() string {
	return fmt.Sprintf("%s-report-%s.pdf", fileSlugs[d.meta.Kind], d.meta.GeneratedAt.Format("20060102-150405"))
}

func (d *RecordDocument) ContentType() string { return "application/pdf" }

func (d *RecordDocument) newPDF() *fpdf.Fpdf {
	p := fpdf.New("P", "mm", "A4", "")
	p.SetMargins(pageMargin, pageMargin, pageMargin)
	p.SetAutoPageBreak(false, footerHeight)
	p.SetCompression(d.compress)
	p.SetTitle(d.meta.Kind.Title()+" Report", true)
	p.SetCreator("pettycash-backend", true)
	p.AliasNbPages("")
	p.SetFooterFunc(func() {
		p.SetY(-footerHeight)
		p.SetFont("Helvetica", "I", 8)
		p.SetTextColor(120, 120, 120)
		p.CellFormat(0, 8, fmt.Sprintf("Page %d of {nb}", p.PageNo()), "", 0, "C", false, 0, "")
	})
	return p
}

// Render writes the complete document to w. When rows cannot be rendered the
// document still carries the failure marker and a valid trailer; the row error
// is returned after the bytes are written.
func (d *RecordDocument) Render(w io.Writer) error {
	p := d.newPDF()
	renderErr := d.renderBody(p)
	if renderErr != nil {
		p = d.failurePDF(p, renderErr)
	}
	if err := p.Output(w); err != nil {
		return errors.Wrap(err, "write pdf")
	}
	return renderErr
}

func (d *RecordDocument) renderBody(p *fpdf.Fpdf) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("render rows: %v", rec)
		}
	}()

	tr := p.UnicodeTranslatorFromDescriptor("")
	p.AddPage()
	d.drawHeading(p, tr)
	d.drawTableHeader(p)

	total := decimal.Zero
	_, pageHeight := p.GetPageSize()
	for i, r := range d.records {
		if d.beforeRow != nil {
			d.beforeRow(i, r)
		}
		if p.GetY()+rowHeight > pageHeight-footerHeight {
			p.AddPage()
			d.drawTableHeader(p)
		}
		d.drawRow(p, tr, i, r)
		total = total.Add(r.Amount)
		if p.Err() {
			return errors.Wrapf(p.Error(), "render row %d", i)
		}
	}

	d.drawSummary(p, len(d.records), total)
	return p.Error()
}

// failurePDF writes the marker into p, or into a fresh document when p is unusable.
func (d *RecordDocument) failurePDF(p *fpdf.Fpdf, cause error) *fpdf.Fpdf {
	if p.Err() || p.PageNo() == 0 {
		p = d.newPDF()
		p.AddPage()
	}
	_, pageHeight := p.GetPageSize()
	if p.GetY()+30 > pageHeight-footerHeight {
		p.AddPage()
	}
	p.Ln(6)
	p.SetFont("Helvetica", "B", 12)
	p.SetTextColor(200, 0, 0)
	p.CellFormat(0, 8, FailureMarker, "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "", 9)
	p.MultiCell(0, 5, "The listing could not be completed: "+cause.Error(), "", "L", false)
	p.SetTextColor(0, 0, 0)
	return p
}

func (d *RecordDocument) drawHeading(p *fpdf.Fpdf, tr func(string) string) {
	p.SetFont("Helvetica", "B", 16)
	p.CellFormat(0, 10, tr(d.meta.Kind.Title()+" Report"), "", 1, "L", false, 0, "")

	p.SetFont("Helvetica", "", 10)
	org := d.meta.Organization
	if org == "" {
		org = placeholder
	}
	p.CellFormat(0, 6, tr("Organization: "+org), "", 1, "L", false, 0, "")
	p.CellFormat(0, 6, "Period: "+d.meta.RangeLabel(), "", 1, "L", false, 0, "")
	p.CellFormat(0, 6, "Generated: "+d.meta.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	p.Ln(4)
}

func (d *RecordDocument) drawTableHeader(p *fpdf.Fpdf) {
	p.SetFont("Helvetica", "B", 9)
	p.SetFillColor(230, 230, 230)
	for _, c := range d.columns {
		p.CellFormat(c.width, headerHeight, c.title, "1", 0, "C", true, 0, "")
	}
	p.Ln(-1)
}

// fit shortens text with an ellipsis until it fits width.
func fit(p *fpdf.Fpdf, text string, width float64) string {
	const pad = 2.0
	if p.GetStringWidth(text) <= width-pad {
		return text
	}
	for len(text) > 0 && p.GetStringWidth(text+"...") > width-pad {
		text = text[:len(text)-1]
	}
	return text + "..."
}

func (d *RecordDocument) drawRow(p *fpdf.Fpdf, tr func(string) string, i int, r domain.Record) {
	p.SetFont("Helvetica", "", 8)
	fill := i%2 == 1
	p.SetFillColor(247, 247, 247)
	for _, c := range d.columns {
		v := strings.TrimSpace(c.value(r))
		if v == "" {
			v = placeholder
		}
		p.CellFormat(c.width, rowHeight, fit(p, tr(v), c.width), "1", 0, c.align, fill, 0, "")
	}
	p.Ln(-1)
}

func (d *RecordDocument) drawSummary(p *fpdf.Fpdf, count int, total decimal.Decimal) {
	_, pageHeight := p.GetPageSize()
	if p.GetY()+20 > pageHeight-footerHeight {
		p.AddPage()
	}
	p.Ln(4)
	p.SetFont("Helvetica", "B", 10)
	p.CellFormat(40, 6, "Records:", "", 0, "L", false, 0, "")
	p.SetFont("Helvetica", "", 10)
	p.CellFormat(0, 6, fmt.Sprintf("%d", count), "", 1, "L", false, 0, "")
	p.SetFont("Helvetica", "B", 10)
	p.CellFormat(40, 6, "Total amount:", "", 0, "L", false, 0, "")
	p.SetFont("Helvetica", "", 10)
	p.CellFormat(0, 6, utils.FormatAmount(total), "", 1, "L", false, 0, "")
}
