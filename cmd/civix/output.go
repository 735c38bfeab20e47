package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/kailas-cloud/civix/internal/domain/indicator/alias"
	chiTransport "github.com/kailas-cloud/civix/internal/transport/chi"
)

// table aligns columns by display width, so place names in Indic scripts
// line up with Latin ones.
type table struct {
	header []string
	rows   [][]string
}

func (t *table) add(cells ...string) {
	t.rows = append(t.rows, cells)
}

func (t *table) render(w io.Writer) error {
	widths := make([]int, len(t.header))
	for _, row := range append([][]string{t.header}, t.rows...) {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if n := runewidth.StringWidth(row[i]); n > widths[i] {
				widths[i] = n
			}
		}
	}

	var sb strings.Builder
	line := func(row []string) {
		for i := range widths {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if i == len(widths)-1 {
				sb.WriteString(cell)
				break
			}
			sb.WriteString(runewidth.FillRight(cell, widths[i]))
			sb.WriteString("  ")
		}
		sb.WriteString("\n")
	}
	line(t.header)
	for _, row := range t.rows {
		line(row)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func writeCategory(w io.Writer, resp chiTransport.CategoryResponse) error {
	t := &table{header: []string{"LOCATION", "GEOGRAPHY", "PERIOD", "INDICATOR", "VALUE", "UNIT"}}
	for _, it := range resp.Data {
		t.add(it.Location, it.Geography, it.Period, it.Indicator, formatValue(it.Value), deref(it.Unit))
	}
	if err := t.render(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%d records, category %s, last updated %s\n",
		resp.Count, resp.Category, resp.LastUpdated.Format(time.RFC3339))
	return err
}

func writeState(w io.Writer, resp chiTransport.StateResponse) error {
	if resp.Count == 0 {
		_, err := fmt.Fprintln(w, resp.Message)
		return err
	}
	for _, category := range resp.Categories {
		if _, err := fmt.Fprintf(w, "== %s ==\n", category); err != nil {
			return err
		}
		t := &table{header: []string{"INDICATOR", "PERIOD", "VALUE", "UNIT"}}
		for _, it := range resp.Data[category] {
			t.add(it.Indicator, it.Period, formatValue(it.Value), deref(it.Unit))
		}
		if err := t.render(w); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	updated := "unknown"
	if resp.LastUpdated != nil {
		updated = resp.LastUpdated.Format(time.RFC3339)
	}
	_, err := fmt.Fprintf(w, "%d records for %s, last updated %s\n", resp.Count, resp.State, updated)
	return err
}

func writeAliases(w io.Writer, tables alias.Tables) error {
	t := &table{header: []string{"CATEGORY", "ALIAS", "MATCHES"}}
	for _, category := range tables.Categories() {
		for _, token := range tables.Tokens(category) {
			t.add(category, token, tables[category][token])
		}
	}
	return t.render(w)
}

func formatValue(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
