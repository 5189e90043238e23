// Package ui writes user-facing progress to the terminal and reads answers
// to line prompts. Colour is used only when the output is a terminal.
package ui
