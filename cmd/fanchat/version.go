package fanchat

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Version information
const (
	Version = "0.3.0"
	Name    = "FanChat"
	GitHub  = "https://github.com/fanchat/fanchat"
)

var asciiLogo = `
    ______            ________          __
   / ____/___ _____  / ____/ /_  ____ _/ /_
  / /_  / __ '/ __ \/ /   / __ \/ __ '/ __/
 / __/ / /_/ / / / / /___/ / / / /_/ / /_
/_/    \__,_/_/ /_/\____/_/ /_/\__,_/\__/
`

func printVersion() {
	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F5C518")).
		Bold(true)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	linkStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("39")).
		Underline(true)

	fmt.Println(logoStyle.Render(asciiLogo))
	fmt.Println()

	fmt.Println(labelStyle.Render(Name))
	fmt.Printf("%s %s\n", labelStyle.Render("Version:"), valueStyle.Render(Version))
	fmt.Printf("%s %s\n", labelStyle.Render("GitHub:"), linkStyle.Render(GitHub))
	fmt.Println()
}
