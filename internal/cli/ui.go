// Copyright 2026 The stockhealth Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/Faris196/stockhealth/lifecycle"
	"github.com/Faris196/stockhealth/request"
)

const noAnalysis = "No analysis available for this stock."

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Width(28)

	valueStyle = lipgloss.NewStyle().
			Bold(true)

	boxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 1)

	errorBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#EF4444")).
			Foreground(lipgloss.Color("#EF4444")).
			Padding(0, 1)

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)
)

// progressLine describes an in-flight snapshot. It returns "" for
// snapshots that have nothing to show.
func progressLine(s lifecycle.Snapshot) string {
	switch s.Status {
	case request.Loading, request.Retrying:
		if r := s.Retries(); r > 0 {
			return progressStyle.Render(fmt.Sprintf("Attempting retry %d... (this may take a while)", r))
		}
		return progressStyle.Render(fmt.Sprintf("Analyzing %s...", s.Symbol))
	default:
		return ""
	}
}

type fundamental struct {
	label string
	value string
}

// fundamentals sorts the fundamentals by key and formats them for
// display. Underscores in keys become spaces, and decimal values are
// rounded to two places.
func fundamentals(m map[string]interface{}) []fundamental {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]fundamental, 0, len(keys))
	for _, k := range keys {
		out = append(out, fundamental{
			label: strings.ReplaceAll(k, "_", " "),
			value: formatValue(m[k]),
		})
	}

	return out
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return "N/A"
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return x.String()
		}
		if d.Exponent() < -2 {
			d = d.Round(2)
		}
		return d.String()
	case float64:
		return decimal.NewFromFloat(x).Round(2).String()
	case string:
		return x
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

// renderResult renders a successful analysis.
func renderResult(symbol string, r *request.Result) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(symbol))
	b.WriteString("\n\n")

	rows := fundamentals(r.Fundamentals)
	if len(rows) == 0 {
		b.WriteString(boxStyle.Render("No fundamental data available."))
	} else {
		lines := make([]string, 0, len(rows))
		for _, f := range rows {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(f.label), valueStyle.Render(f.value)))
		}
		b.WriteString(boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)))
	}
	b.WriteString("\n\n")

	text := r.AnalysisText
	if strings.TrimSpace(text) == "" {
		text = noAnalysis
	}
	b.WriteString(text)
	b.WriteString("\n")

	return b.String()
}

// renderError renders a failed analysis.
func renderError(symbol string, err *request.Error) string {
	msg := fmt.Sprintf("Analysis of %s failed: %s", symbol, err.UserMessage)
	return errorBoxStyle.Render(msg) + "\n"
}

func renderDone(msg string) string {
	return completedStyle.Render(msg) + "\n"
}
