package view

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter 依語系產生顯示文字（千分位、小數位數）。
type Formatter struct {
	printer *message.Printer
}

// NewFormatter 以 BCP 47 語系字串建立 Formatter，解析失敗時退回希伯來文。
func NewFormatter(locale string) Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Hebrew
	}
	return Formatter{printer: message.NewPrinter(tag)}
}

func (f Formatter) p() *message.Printer {
	if f.printer == nil {
		return message.NewPrinter(language.Hebrew)
	}
	return f.printer
}

// Count 格式化整數。
func (f Formatter) Count(n int64) string {
	return f.p().Sprintf("%d", n)
}

// Money 格式化新謝克爾金額；整數不顯示小數。
func (f Formatter) Money(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return "₪" + f.p().Sprintf("%d", int64(v))
	}
	return "₪" + f.p().Sprintf("%.2f", v)
}

// Percent 以三位小數格式化百分比。
func (f Formatter) Percent(v float64) string {
	return f.p().Sprintf("%.3f", v) + "%"
}
