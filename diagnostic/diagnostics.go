package diagnostic

import "github.com/Sparky983/warp-config-sub000/internal/common"

// Diagnostics holds the errors and warnings reported while binding one
// configuration, split by severity.
type Diagnostics struct {
	Errors   []Error
	Warnings []Error
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// Add records errs with the given severity.
func (d *Diagnostics) Add(severity Severity, errs ...Error) {
	if severity == SeverityError {
		d.AddError(errs...)
		return
	}

	d.AddWarning(errs...)
}

// AddError adds error diagnostics.
func (d *Diagnostics) AddError(errs ...Error) {
	d.Errors = append(d.Errors, errs...)
}

// AddWarning adds warning diagnostics.
func (d *Diagnostics) AddWarning(errs ...Error) {
	d.Warnings = append(d.Warnings, errs...)
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return len(d.Errors) == 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
}

// Err returns the collected errors as an *Errors, or nil if valid.
func (d *Diagnostics) Err() error {
	if d.IsValid() {
		return nil
	}

	return Fail(d.Errors...)
}
