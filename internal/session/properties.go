package session

import (
	"github.com/morel-lang/morel/internal/printer"
)

// Properties holds the settable session properties of spec.md §6.1. Every
// field here has a spec-given default; arbitrary user properties (values
// the host sets under names not in this list) live in Session.userProps
// instead, since their type isn't known until first set.
type Properties struct {
	LineWidth            int    `yaml:"lineWidth"`
	PrintLength          int    `yaml:"printLength"`
	PrintDepth           int    `yaml:"printDepth"`
	StringDepth          int    `yaml:"stringDepth"`
	Output               string `yaml:"output"`
	Hybrid               bool   `yaml:"hybrid"`
	MatchCoverageEnabled bool   `yaml:"matchCoverageEnabled"`
}

// DefaultProperties matches spec.md §6.1: lineWidth defaults to 79 and
// matchCoverageEnabled defaults on; printLength/printDepth/stringDepth
// have no stated default (unbounded, per internal/printer's -1
// convention) and output defaults to CLASSIC.
func DefaultProperties() Properties {
	return Properties{
		LineWidth:            79,
		PrintLength:          -1,
		PrintDepth:           -1,
		StringDepth:          -1,
		Output:               "CLASSIC",
		MatchCoverageEnabled: true,
	}
}

func (p Properties) printerOptions() printer.Options {
	return printer.Options{
		LineWidth:   p.LineWidth,
		PrintLength: p.PrintLength,
		PrintDepth:  p.PrintDepth,
		StringDepth: p.StringDepth,
	}
}
