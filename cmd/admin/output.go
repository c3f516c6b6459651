package main

import (
	"alcyxob/gym-membership/internal/domain"
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// printBoxedHeader prints the title in a Unicode box with a fixed width.
func printBoxedHeader(title string) {
	width := 40
	cyanBold := color.New(color.FgCyan, color.Bold).SprintFunc()
	border := strings.Repeat("═", width)
	fmt.Println(cyanBold("╔" + border + "╗"))
	fmt.Println(cyanBold("║" + centerText(title, width) + "║"))
	fmt.Println(cyanBold("╚" + border + "╝"))
}

func centerText(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	padding := (width - n) / 2
	return strings.Repeat(" ", padding) + s + strings.Repeat(" ", width-n-padding)
}

// printMetric prints a label and value using bold yellow for the label.
func printMetric(label string, value interface{}) {
	yellowBold := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Printf("  %s: %v\n", yellowBold(label), value)
}

// severityColor paints a days-remaining value with its display band.
func severityColor(s domain.Severity) *color.Color {
	switch s {
	case domain.SeverityCritical:
		return color.New(color.FgRed, color.Bold)
	case domain.SeverityWarning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgGreen)
	}
}

func success(format string, a ...interface{}) {
	fmt.Println(color.New(color.FgGreen, color.Bold).Sprintf("✓ "+format, a...))
}
