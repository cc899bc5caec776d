package report

import (
	"fmt"
	"os"
	"strconv"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/mattn/go-runewidth"
	"golang.org/x/image/font/basicfont"
)

const (
	imgWidth  = 1200
	imgHeight = 800
	tableX    = 50.0
	tableY    = 50.0
	rowHeight = 60.0
	fontSize  = 22.0
)

// Options controls typesetting. FontPath points at a TTF with CJK
// glyphs; when empty the built-in bitmap face is used, which renders
// ASCII only.
type Options struct {
	FontPath string
}

// Render typesets one week's statistics as a table image and writes it
// to a temp PNG. The caller owns the returned file and is expected to
// delete it after delivery.
func Render(stats map[string]any, opts Options) (string, error) {
	dc := gg.NewContext(imgWidth, imgHeight)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(2)

	if opts.FontPath != "" {
		if err := dc.LoadFontFace(opts.FontPath, fontSize); err != nil {
			return "", fmt.Errorf("load font %s: %w", opts.FontPath, err)
		}
	} else {
		dc.SetFontFace(basicfont.Face7x13)
	}

	colWidth := float64(imgWidth-100) / 3
	y := tableY

	// Header row: week number, then the date range spanning two columns.
	cell(dc, tableX, y, colWidth, rowHeight,
		fmt.Sprintf("第几周: %s", formatValue(stats["第几周"])))
	cell(dc, tableX+colWidth, y, colWidth*2, rowHeight,
		fmt.Sprintf("日期: %s ~ %s", formatValue(stats["周一日期"]), formatValue(stats["周日日期"])))
	y += rowHeight

	rows := [][3]string{
		{
			fmt.Sprintf("本周入住率: %s", formatValue(stats["入住率"])),
			fmt.Sprintf("周营业额: %s", formatValue(stats["周营业额"])),
			fmt.Sprintf("总晚数: %s", formatValue(stats["总晚数"])),
		},
		{
			fmt.Sprintf("平均房价: %s", formatValue(stats["平均房价"])),
			fmt.Sprintf("Repar: %s", formatValue(stats["repar"])),
			"",
		},
		{
			fmt.Sprintf("订单数: %s", formatValue(stats["订单数"])),
			"",
			"",
		},
		{
			fmt.Sprintf("总接待人数: %s", formatValue(stats["总接待人数"])),
			fmt.Sprintf("总接待人晚: %s", formatValue(stats["总接待人晚"])),
			fmt.Sprintf("总儿童数: %s", formatValue(stats["总儿童数"])),
		},
	}
	for _, row := range rows {
		for col, text := range row {
			cell(dc, tableX+colWidth*float64(col), y, colWidth, rowHeight, text)
		}
		y += rowHeight
	}

	// Merged room-sales cell, two centered lines.
	dc.DrawRectangle(tableX, y, colWidth*3, rowHeight*3)
	dc.Stroke()
	lines := []string{
		fmt.Sprintf("101已售%s晚; 201已售%s晚; 202已售%s晚;",
			formatValue(stats["101已售房晚"]), formatValue(stats["201已售房晚"]), formatValue(stats["202已售房晚"])),
		fmt.Sprintf("301已售%s晚; 302已售%s晚; 401已售%s晚",
			formatValue(stats["301已售房晚"]), formatValue(stats["302已售房晚"]), formatValue(stats["401已售房晚"])),
	}
	for i, line := range lines {
		dc.DrawStringAnchored(line, tableX+colWidth*1.5, y+rowHeight*1.5+(float64(i)-0.5)*fontSize*1.4, 0.5, 0.5)
	}

	tmp, err := os.CreateTemp("", "okami_report_*.png")
	if err != nil {
		return "", fmt.Errorf("create report temp file: %w", err)
	}
	tmp.Close()

	if err := imaging.Save(dc.Image(), tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("save report image: %w", err)
	}
	return tmp.Name(), nil
}

// cell strokes one table cell and centers its text, truncated to the
// cell's display width so wide CJK text never overflows the border.
func cell(dc *gg.Context, x, y, w, h float64, text string) {
	dc.DrawRectangle(x, y, w, h)
	dc.Stroke()
	if text == "" {
		return
	}
	maxCols := int(w / (fontSize / 2))
	if runewidth.StringWidth(text) > maxCols {
		text = runewidth.Truncate(text, maxCols, "…")
	}
	dc.DrawStringAnchored(text, x+w/2, y+h/2, 0.5, 0.5)
}

// formatValue renders table values compactly: floats that carry no
// fraction print as integers.
func formatValue(v any) string {
	switch value := v.(type) {
	case nil:
		return "-"
	case string:
		return value
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		if value == float64(int64(value)) {
			return strconv.FormatInt(int64(value), 10)
		}
		return strconv.FormatFloat(value, 'f', 2, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
