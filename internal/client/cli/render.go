package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/arch1v/internal/client/models"
	"github.com/dmitrijs2005/arch1v/internal/client/services"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("45"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

func renderNotice(n models.Notice) string {
	if n.Kind == models.NoticeError {
		return errorStyle.Render("✗ " + n.Message)
	}
	return successStyle.Render("✓ " + n.Message)
}

func renderOutcome(o models.UploadOutcome) string {
	var b strings.Builder

	if o.Duplicate {
		b.WriteString(warningStyle.Render("Duplicate File Found") + "\n")
		if o.ExistingPath != "" {
			b.WriteString("  " + o.ExistingPath + "\n")
		}
	} else {
		b.WriteString(successStyle.Render("Upload Successful") + "\n")
		if o.SavedPath != "" {
			b.WriteString("  " + o.SavedPath + "\n")
		}
	}
	if o.Hash != "" {
		b.WriteString(infoStyle.Render("  Hash: "+o.Hash) + "\n")
	}
	if o.Duplicate && o.Hash != "" {
		b.WriteString("  Type 'locate' to locate the original\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderFiles(files []models.FileRecord, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", headerStyle.Render(fmt.Sprintf("Files (%d)", len(files))))

	if len(files) == 0 {
		b.WriteString(infoStyle.Render("No files uploaded yet") + "\n")
		return b.String()
	}

	table := tablewriter.NewWriter(&b)
	table.SetHeader([]string{"Filename", "Hash", "Size", "Type", "Uploaded"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	table.AppendBulk(lo.Map(files, func(f models.FileRecord, _ int) []string {
		uploaded := "-"
		if !f.CreatedAt.IsZero() {
			uploaded = services.FormatAge(f.CreatedAt.Time, now)
		}
		return []string{
			f.Filename,
			services.ShortHash(f.Hash),
			services.FormatSize(f.Size),
			lo.Ternary(f.MimeType != "", f.MimeType, "-"),
			uploaded,
		}
	}))
	table.Render()

	return b.String()
}
