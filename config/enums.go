package config

//go:generate go tool go-enum --nocase --marshal --names

// Named page size of the output document.
// ENUM(A4, letter)
type PageSize int

// How horizontal rules are laid out: a drawn line or the legacy pair of gaps
// without a visible line.
// ENUM(rule, gaps)
type RuleMode int

// Output emitter.
// ENUM(pdf, png)
type Backend int

// Ext returns file extension produced by the backend.
func (b Backend) Ext() string {
	switch b {
	case BackendPdf:
		return ".pdf"
	case BackendPng:
		return ".png"
	default:
		// this should never happen
		panic("unsupported backend requested")
	}
}
