package definition

import "fmt"

// ParseError reports a malformed definition file. The batch keeps processing
// the remaining files; callers collect one ParseError per offender.
type ParseError struct {
	// File is the definition file path.
	File string
	// Subject narrows the error to a block, e.g. `change "Foo.Bar"`.
	Subject string
	// Detail is the underlying problem, including source positions when the
	// HCL parser provides them.
	Detail string
}

func (e *ParseError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("definition %s: %s", e.File, e.Detail)
	}
	return fmt.Sprintf("definition %s: %s: %s", e.File, e.Subject, e.Detail)
}
