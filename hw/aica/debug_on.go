//go:build aicadebug

package aica

const debugChecks = true
