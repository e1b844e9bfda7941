// Copyright (C) 2025-2026 ToneSwiper
// SPDX-License-Identifier: AGPL-3.0-or-later

package layout

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// HelpItem represents a single help entry
type HelpItem struct {
	Key         string
	Description string
}

// HelpItemsFrom converts enabled key bindings into footer entries
func HelpItemsFrom(bindings ...key.Binding) []HelpItem {
	items := make([]HelpItem, 0, len(bindings))
	for _, b := range bindings {
		if !b.Enabled() {
			continue
		}
		h := b.Help()
		items = append(items, HelpItem{Key: h.Key, Description: h.Desc})
	}
	return items
}

// RenderHeader creates a header with title, breadcrumbs, and optional status
func RenderHeader(title string, breadcrumbs []string, status string, width int) string {
	var header strings.Builder

	titleLine := TitleStyle.Render(title)
	if len(breadcrumbs) > 0 {
		titleLine += "  " + BreadcrumbStyle.Render(strings.Join(breadcrumbs, BreadcrumbSeparator.String()))
	}
	header.WriteString(titleLine)

	if status != "" {
		header.WriteString("\n")
		header.WriteString(StatsStyle.Render(status))
	}

	header.WriteString("\n")
	header.WriteString(GetDivider(width))

	return header.String()
}

// RenderFooter creates a footer with help items
func RenderFooter(helpItems []HelpItem, width int) string {
	if len(helpItems) == 0 {
		return ""
	}

	helpTexts := make([]string, 0, len(helpItems))
	for _, item := range helpItems {
		helpTexts = append(helpTexts, fmt.Sprintf("[%s] %s",
			HelpKeyStyle.Render(item.Key),
			HelpTextStyle.Render(item.Description)))
	}

	// lipgloss wraps the line to the footer width
	return GetDivider(width) + "\n" + FooterStyle.Width(width).Render(strings.Join(helpTexts, " • "))
}
