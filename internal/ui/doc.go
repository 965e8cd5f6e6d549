// package ui styles terminal output for the littlescreen CLI.
//
// Colors come from a [Palette] of [lipgloss] styles. Commands print status lines
// through it instead of formatting escape codes themselves.
package ui
