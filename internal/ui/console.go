// Package ui holds the terminal rendering and prompting helpers. The state
// machines never print; everything the user sees goes through here.
package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"party-planner/domain"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
)

// Console reads line-based input and renders output. It wraps the real
// stdin/stdout in the binary and buffers in tests.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{in: bufio.NewScanner(in), out: out}
}

// Prompt prints a label and blocks for the next input line, trimmed.
// io.EOF is returned when the input is exhausted (Ctrl-D or a finished
// script in tests).
func (c *Console) Prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) Println(args ...any) {
	fmt.Fprintln(c.out, args...)
}

// Banner frames a rainbow title between two rules.
func (c *Console) Banner(title string) {
	c.Rule()
	fmt.Fprintf(c.out, "         %s\n", Rainbow(title))
	c.Rule()
}

func (c *Console) Rule() {
	fmt.Fprintln(c.out, strings.Repeat("=", 50))
}

// Highlight renders an emphasized prompt label.
func Highlight(text string) string {
	return color.New(color.Bold, color.FgLightBlue).Render(text)
}

var rainbowColors = []color.Color{
	color.FgRed,
	color.FgGreen,
	color.FgCyan,
	color.FgBlue,
	color.FgMagenta,
}

// Rainbow colors each non-space character, cycling through the palette.
func Rainbow(text string) string {
	var b strings.Builder
	idx := 0
	for _, r := range text {
		if r == ' ' {
			b.WriteRune(r)
			continue
		}
		b.WriteString(color.New(rainbowColors[idx%len(rainbowColors)]).Render(string(r)))
		idx++
	}
	return b.String()
}

// ContactTable renders numbered contacts. The optional note callback adds a
// per-row remark, e.g. marking candidates already in the list.
func (c *Console) ContactTable(contacts []domain.Contact, note func(domain.Contact) string) {
	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"#", "Name", "Phone", ""})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for i, contact := range contacts {
		remark := ""
		if note != nil {
			remark = note(contact)
		}
		table.Append([]string{fmt.Sprintf("%d", i+1), contact.Name, contact.Handle, remark})
	}
	table.Render()
}
